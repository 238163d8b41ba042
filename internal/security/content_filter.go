// Package security screens inbound mail before it is relayed.
package security

import (
	"regexp"
	"strings"
)

// ContentFilter rejects messages that look malicious or spammy. Aliases
// forward to real inboxes, so obviously bad content is dropped at the
// edge instead of being relayed onward.
type ContentFilter struct {
	maliciousPatterns []*regexp.Regexp
	spamKeywords      []string
	spamThreshold     int
}

// NewContentFilter creates a filter with the default rule set.
func NewContentFilter() *ContentFilter {
	return &ContentFilter{
		maliciousPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)<script[^>]*>`),
			regexp.MustCompile(`(?i)javascript:`),
			regexp.MustCompile(`(?i)onload\s*=`),
			regexp.MustCompile(`(?i)onerror\s*=`),
			regexp.MustCompile(`(?i)<iframe[^>]*>`),
			regexp.MustCompile(`(?i)<object[^>]*>`),
			regexp.MustCompile(`(?i)<embed[^>]*>`),
		},
		spamKeywords: []string{
			"viagra", "casino", "lottery", "free money", "click here",
			"limited time", "act now", "guaranteed", "no risk",
			"earn money", "work from home",
		},
		spamThreshold: 3,
	}
}

// Check inspects a raw message. It returns false with a reason when the
// message should be rejected.
func (f *ContentFilter) Check(raw []byte) (bool, string) {
	content := string(raw)

	for _, pattern := range f.maliciousPatterns {
		if pattern.MatchString(content) {
			return false, "message contains active content"
		}
	}

	lower := strings.ToLower(content)
	hits := 0
	for _, keyword := range f.spamKeywords {
		if strings.Contains(lower, keyword) {
			hits++
		}
	}
	if hits >= f.spamThreshold {
		return false, "message classified as spam"
	}

	return true, ""
}
