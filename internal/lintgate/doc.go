// Package lintgate blocks commits that fail the configured linter by
// inspecting the staged files of a repository before each commit.
package lintgate
