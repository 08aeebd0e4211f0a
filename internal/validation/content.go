package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// InappropriateContentMessage is returned to clients when the filter rejects text
const InappropriateContentMessage = "Your post contains inappropriate content. Please revise and try again."

// badWords are matched as lowercase substrings, so "discriminat" catches every inflection
var badWords = []string{
	"spam", "scam", "fraud", "fake", "hate", "violence", "illegal", "drugs",
	"abuse", "harassment", "discriminat", "racist", "sexist", "threat",
	"attack", "kill", "murder", "suicide", "harm", "weapon",
}

var badWordPattern = regexp.MustCompile(`(?i)` + strings.Join(badWords, "|"))

// ContentResult is the outcome of ValidateContent
type ContentResult struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message,omitempty"`
}

// ContainsBadWords reports whether text contains any blocked word, case-insensitively
func ContainsBadWords(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range badWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// ValidateContent guards posts, comments, messages and feedback
func ValidateContent(text string) ContentResult {
	if ContainsBadWords(text) {
		return ContentResult{IsValid: false, Message: InappropriateContentMessage}
	}
	return ContentResult{IsValid: true}
}

// FilterBadWords masks every blocked word with asterisks of the same length
func FilterBadWords(text string) string {
	return badWordPattern.ReplaceAllStringFunc(text, func(match string) string {
		return strings.Repeat("*", utf8.RuneCountInString(match))
	})
}
