package crumb

import "strings"

// Commit type constants for conventional-commit publish messages.
const (
	CommitTypePost  = "post"
	CommitTypeEdit  = "edit"
	CommitTypeFix   = "fix"
	CommitTypeDocs  = "docs"
	CommitTypeChore = "chore"
)

const commitFooter = "Powered-by: crumb"

// FormatCommitMessage builds a conventional-commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Powered-by: crumb
func FormatCommitMessage(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = CommitTypePost
	}
	sb.WriteString(ctype)
	if scope != "" {
		sb.WriteString("(")
		sb.WriteString(scope)
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(subject)

	if body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(body))
	}

	sb.WriteString("\n\n")
	sb.WriteString(commitFooter)
	return sb.String()
}

// AppendFooter adds the crumb footer to a free-form commit message
// unless it already carries one.
func AppendFooter(msg string) string {
	if strings.Contains(msg, commitFooter) {
		return msg
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	if !strings.HasSuffix(msg, "\n\n") {
		msg += "\n"
	}
	return msg + commitFooter
}
