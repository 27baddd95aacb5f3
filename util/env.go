package util

import "strings"

// SanitizeEnvValue trims whitespace and one pair of matching surrounding
// quotes, so NEWSFEED_NEWSAPI_API_KEY="abc" and NEWSFEED_NEWSAPI_API_KEY=abc
// read the same.
func SanitizeEnvValue(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
