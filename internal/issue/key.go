package issue

import "regexp"

const issueKeyPatternConstant = `[A-Z]+-[0-9]+`

var issueKeyExpression = regexp.MustCompile(issueKeyPatternConstant)

// ExtractKey returns the first tracker issue key embedded in the supplied
// branch name. The boolean reports whether a key was present; branches
// without a key are a normal condition, not an error.
func ExtractKey(branchName string) (string, bool) {
	issueKey := issueKeyExpression.FindString(branchName)
	return issueKey, len(issueKey) > 0
}
