package parser

import (
	"regexp"
	"strings"
)

// dateTokenRe accepts the date layouts that appear in statement tables:
// month-name + day (+ optional year), numeric D/M[/Y] or D-M[-Y], and
// ISO-like Y/M/D or Y-M-D. Matching is whole-token and case-insensitive.
var dateTokenRe = regexp.MustCompile(`(?i)^(?:` +
	`(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[.\s]?\s*\d{1,2}(?:[,\s]+\d{2,4})?` +
	`|\d{1,2}[/\-]\d{1,2}(?:[/\-]\d{2,4})?` +
	`|\d{4}[/\-]\d{1,2}[/\-]\d{1,2}` +
	`)$`)

// IsDateToken reports whether s is a calendar-date token. It is a predicate
// only: dates are never parsed into calendar values, so the source
// document's original formatting survives into the output untouched.
func IsDateToken(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return dateTokenRe.MatchString(s)
}
