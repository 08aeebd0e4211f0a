package util

import (
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#\w+`)

// ExtractHashtags returns the hashtags in content without the leading '#', in order of appearance
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllString(content, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, strings.TrimPrefix(m, "#"))
	}
	return tags
}

// Initials builds up to two uppercase initials from a display name ("Maya Patel" -> "MP")
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r := []rune(part)
		b.WriteString(strings.ToUpper(string(r[0])))
		if b.Len() >= 2 {
			break
		}
	}
	out := []rune(b.String())
	if len(out) > 2 {
		out = out[:2]
	}
	return string(out)
}
