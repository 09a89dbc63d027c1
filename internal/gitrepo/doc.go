// Package gitrepo inspects and updates local git repository state.
//
// RepositoryManager resolves the current branch, repository root, hooks
// directory, and staged file list, and manages local configuration entries,
// all through an injected git executor so commands remain testable.
package gitrepo
