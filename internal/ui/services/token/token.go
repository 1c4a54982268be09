// Package token finds the delimiter-bounded segment of the text that the
// cursor sits in.
package token

import (
	"strings"
	"unicode"

	"pathgrip/internal/domain"
)

// IsDelimiter reports whether r separates two tokens
func IsDelimiter(r rune) bool {
	return r == ',' || r == '\n'
}

// Locate returns the token around cursor, a rune offset into text.
// End is the offset of the next delimiter (or the text length); Start is
// the first non-blank offset after the previous delimiter, or End when the
// segment is blank.
func Locate(text string, cursor int) domain.Token {
	runes := []rune(text)
	cursor = Clamp(cursor, len(runes))

	start := 0
	for i := cursor - 1; i >= 0; i-- {
		if IsDelimiter(runes[i]) {
			start = i + 1
			break
		}
	}

	end := len(runes)
	for i := cursor; i < len(runes); i++ {
		if IsDelimiter(runes[i]) {
			end = i
			break
		}
	}

	for start < end && unicode.IsSpace(runes[start]) {
		start++
	}

	return domain.Token{
		Text:  strings.TrimSpace(string(runes[start:end])),
		Start: start,
		End:   end,
	}
}

// Clamp keeps a cursor offset inside [0, n]
func Clamp(cursor, n int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > n {
		return n
	}
	return cursor
}
