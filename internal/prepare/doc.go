// Package prepare fills the issue key derived from the current branch into
// the commit message file git hands to the prepare-commit-msg hook.
package prepare
