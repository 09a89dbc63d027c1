// Package msgfile rewrites commit message files, substituting issue key
// placeholders left by a commit template.
package msgfile
