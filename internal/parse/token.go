package parse

import (
	"strings"

	"golang.org/x/text/width"
)

// Tokenization of release names.
//
// A name is cut into bracketed tokens ([...], (...), 【...】) and runs of
// text between delimiters. Bracket contents are kept whole; splitting
// compound structures inside them (ranges, &-joined tags) is the
// classifiers' job. Token order matches appearance order and nothing is
// dropped except the delimiters themselves.

var bracketPairs = map[rune]rune{
	'[': ']',
	'(': ')',
	'【': '】',
}

func isDelimiter(r rune) bool {
	switch r {
	case ' ', '\t', '.', '_', '　':
		return true
	}
	return false
}

// normalizeWidth folds fullwidth digits and latin letters to their
// narrow forms so ０１ and ＳＰ classify like 01 and SP. CJK text is
// unaffected.
func normalizeWidth(s string) string {
	return width.Narrow.String(s)
}

// Tokenize splits name into an ordered token sequence. The name should
// already have its extension removed when tokenizing file names.
func Tokenize(name string, source TokenSource) []Token {
	name = normalizeWidth(name)

	var tokens []Token
	appendToken := func(text string, bracketed bool) {
		text = strings.TrimSpace(text)
		if text == "" || strings.Trim(text, "-") == "" {
			// Lone separator dashes carry no content.
			return
		}
		tokens = append(tokens, Token{
			Text:      text,
			Bracketed: bracketed,
			Source:    source,
			Pos:       len(tokens),
		})
	}

	runes := []rune(name)
	var word strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if close, ok := bracketPairs[r]; ok {
			appendToken(word.String(), false)
			word.Reset()
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == close {
					end = j
					break
				}
			}
			if end == -1 {
				// Unbalanced bracket: treat the rest as plain text.
				word.WriteRune(r)
				continue
			}
			appendToken(string(runes[i+1:end]), true)
			i = end
			continue
		}
		if isDelimiter(r) {
			appendToken(word.String(), false)
			word.Reset()
			continue
		}
		word.WriteRune(r)
	}
	appendToken(word.String(), false)

	return tokens
}

// JoinTokens concatenates token texts with single spaces, used when
// rebuilding a title from residual tokens.
func JoinTokens(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, t.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
