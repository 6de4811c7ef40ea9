// Package redact strips sensitive fragments from strings before they reach
// logs or error responses: connection strings, credentials, host names, and
// file paths that may ride along inside driver errors.
package redact

import "regexp"

// Redaction placeholders.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	HostPlaceholder       = "[REDACTED_HOST]"
	PathPlaceholder       = "[REDACTED_PATH]"
	SQLPlaceholder        = "[REDACTED_SQL]"
)

var (
	// Database connection strings with inline credentials.
	dbConnRegex = regexp.MustCompile(`(?i)(postgres(ql)?|db|database)://[^@\s]+@`)

	// Passwords and keys embedded in messages.
	credentialRegex = regexp.MustCompile(
		`(?i)(password|passwd|pwd|secret|api[_-]?key|token)([=:\s]['"]?)[^'"&\s]{3,}`,
	)

	// Host:port endpoints from connectivity errors.
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
	)

	// Filesystem paths.
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	// SQL fragments leaked by the driver.
	sqlRegex = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE)`,
	)

	placeholders = []struct {
		pattern     *regexp.Regexp
		replacement string
	}{
		{dbConnRegex, CredentialPlaceholder},
		{credentialRegex, CredentialPlaceholder},
		{sqlRegex, SQLPlaceholder},
		{unixPathRegex, PathPlaceholder},
		{hostPortRegex, HostPlaceholder},
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, p := range placeholders {
		result = p.pattern.ReplaceAllString(result, p.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
// Returns the empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
