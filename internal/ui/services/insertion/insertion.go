// Package insertion splices a chosen search result into the text.
package insertion

import (
	"strings"
	"unicode"

	"pathgrip/internal/domain"
	"pathgrip/internal/ui/services/token"
)

// Separator is appended after an inserted path unless a delimiter
// already follows it.
const Separator = ", "

// Result is the new text and the cursor offset after the inserted path
type Result struct {
	Text   string
	Cursor int
}

// Insert replaces the token span with chosen.Path. Blanks before the span
// collapse to a single space (none at the start of a line), and Separator
// is added when the text after the span does not already continue with a
// delimiter. The cursor lands right after the path.
func Insert(text string, tok domain.Token, chosen domain.SearchResult) Result {
	runes := []rune(text)
	start := token.Clamp(tok.Start, len(runes))
	end := token.Clamp(tok.End, len(runes))
	if end < start {
		end = start
	}

	before := strings.TrimRightFunc(string(runes[:start]), isBlank)
	after := string(runes[end:])

	if before != "" && !strings.HasSuffix(before, "\n") {
		before += " "
	}

	var b strings.Builder
	b.WriteString(before)
	b.WriteString(chosen.Path)
	cursor := len([]rune(b.String()))

	if needsSeparator(after) {
		b.WriteString(Separator)
	}
	b.WriteString(after)

	return Result{Text: b.String(), Cursor: cursor}
}

// isBlank matches whitespace other than the newline delimiter
func isBlank(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}

// needsSeparator reports whether after lacks a leading delimiter. A
// following newline counts as one.
func needsSeparator(after string) bool {
	rest := strings.TrimLeftFunc(after, isBlank)
	if rest == "" {
		return true
	}
	return !token.IsDelimiter([]rune(rest)[0])
}
