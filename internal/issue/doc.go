// Package issue extracts tracker issue keys from git branch names.
package issue
