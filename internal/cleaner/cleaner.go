// Package cleaner removes markup and punctuation from fetched page text.
//
// StripMarkup is a regular-expression pass, not an HTML parser: anything
// between a '<' and the nearest following '>' is dropped, so prose that
// contains literal angle brackets ("a < b and c > d") loses the text between
// them. Fetch-time extraction already removes real markup; this pass only
// catches tags that survived as text. Always run StripMarkup before
// StripPunctuation, otherwise the brackets are gone and tag names merge into
// the surrounding words.
package cleaner

import (
	"regexp"
	"strings"
	"unicode"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// StripMarkup removes every <...> tag from text.
func StripMarkup(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}

// StripPunctuation removes every rune that is neither a word rune (letter
// in any script, digit or other number, underscore) nor whitespace.
func StripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
}

// Clean applies StripMarkup then StripPunctuation.
func Clean(text string) string {
	return StripPunctuation(StripMarkup(text))
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
