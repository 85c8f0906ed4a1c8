package service

import (
	"strings"
	"unicode"
)

// DefaultSnippetRadius is the total snippet window in characters.
const DefaultSnippetRadius = 120

const snippetMark = "**"

// BuildSnippet returns a query-centred excerpt of text with every
// case-insensitive occurrence of query in the window wrapped in `**`.
// When query is empty or absent the leading radius characters are returned.
// Positions are counted in runes.
func BuildSnippet(text, query string, radius int) string {
	if text == "" {
		return ""
	}
	if radius <= 0 {
		radius = DefaultSnippetRadius
	}

	src := []rune(text)
	q := []rune(query)

	idx := indexFold(src, q, 0)
	if idx < 0 {
		if len(src) <= radius {
			return text
		}
		return string(src[:radius])
	}

	half := radius / 2
	start := max(idx-half, 0)
	end := min(idx+len(q)+half, len(src))
	window := src[start:end]

	var b strings.Builder
	b.Grow(len(string(window)) + 4)
	for i := 0; i < len(window); {
		if matchFoldAt(window, q, i) {
			b.WriteString(snippetMark)
			b.WriteString(string(window[i : i+len(q)]))
			b.WriteString(snippetMark)
			i += len(q)
			continue
		}
		b.WriteRune(window[i])
		i++
	}
	return b.String()
}

func indexFold(src, q []rune, from int) int {
	if len(q) == 0 {
		return -1
	}
	for i := from; i+len(q) <= len(src); i++ {
		if matchFoldAt(src, q, i) {
			return i
		}
	}
	return -1
}

func matchFoldAt(src, q []rune, at int) bool {
	if len(q) == 0 || at+len(q) > len(src) {
		return false
	}
	for j, r := range q {
		if !equalFoldRune(src[at+j], r) {
			return false
		}
	}
	return true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}
