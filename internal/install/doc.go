// Package install deploys and removes the managed git hooks and the commit
// message template they rely on.
package install
