// Package snippet produces bounded plain-text excerpts from stored content,
// windowed around the first occurrence of a search query. Post bodies are
// stored either as plain text or as serialized rich-editor documents, so the
// extractor first normalizes whatever it is given into display text.
package snippet

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the excerpt length used when callers pass maxLen <= 0.
const DefaultMaxLength = 150

// contextRunes is how much text is kept on each side of the query match.
const contextRunes = 50

const ellipsis = "…"

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	htmlEntityRe = regexp.MustCompile(`&#?[a-zA-Z0-9]+;`)
	structuralRe = regexp.MustCompile(`[{}\[\]"]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Extract returns a plain-text excerpt of content centered on the first
// case-insensitive occurrence of query. The result never exceeds maxLen
// runes plus a trailing ellipsis. It is deterministic and never fails:
// unusable content yields an empty string.
func Extract(content, query string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}

	text := Normalize(content)
	if text == "" {
		return ""
	}

	runes := []rune(text)
	query = strings.TrimSpace(query)

	matchStart, matchLen := findMatch(text, query)
	if matchStart < 0 {
		return truncate(runes, maxLen)
	}

	start := matchStart - contextRunes
	if start < 0 {
		start = 0
	}
	end := matchStart + matchLen + contextRunes
	if end > len(runes) {
		end = len(runes)
	}

	window := string(runes[start:end])
	if start > 0 {
		window = ellipsis + window
	}
	if end < len(runes) {
		window = window + ellipsis
	}

	// A long query can push the window past maxLen; hard-truncate last.
	if utf8.RuneCountInString(window) > maxLen {
		window = string([]rune(window)[:maxLen]) + ellipsis
	}

	return window
}

// Normalize converts raw stored content to plain display text. Serialized
// rich-document structure characters are stripped, then HTML tags and
// entities, then runs of whitespace collapse to single spaces.
func Normalize(content string) string {
	if content == "" {
		return ""
	}
	text := structuralRe.ReplaceAllString(content, " ")
	text = htmlTagRe.ReplaceAllString(text, " ")
	text = htmlEntityRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// findMatch locates query in text case-insensitively and returns the match
// position and length in runes. Returns (-1, 0) when the query is empty or
// absent.
func findMatch(text, query string) (int, int) {
	if query == "" {
		return -1, 0
	}
	byteIdx := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if byteIdx < 0 {
		return -1, 0
	}
	return utf8.RuneCountInString(text[:byteIdx]), utf8.RuneCountInString(query)
}

func truncate(runes []rune, maxLen int) string {
	if len(runes) <= maxLen {
		return string(runes)
	}
	return string(runes[:maxLen]) + ellipsis
}
