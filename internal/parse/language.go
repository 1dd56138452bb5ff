package parse

import (
	"regexp"
	"strings"
)

// Language tag classification.
//
// Two pattern families are recognized: compact 4-letter codes built
// from two 2-letter language/region codes (JPTC, ENCN, ZHCN) and
// hyphenated ISO-style codes (zh-TW, zh-CHT, zh-Hans). Matching is
// case-insensitive against an injected vocabulary; a token matches at
// most one family.

var hyphenatedLangRe = regexp.MustCompile(`^([A-Za-z]{2})-([A-Za-z]{2,4})$`)

// LanguageVocab is the immutable lookup table backing a
// LanguageClassifier. Keys are upper case.
type LanguageVocab struct {
	// Codes holds known 2-letter language and region codes.
	Codes map[string]struct{}
	// Regions holds known 3-letter region subtags (CHS, CHT).
	Regions map[string]struct{}
	// Scripts holds known 4-letter script subtags (HANS, HANT).
	Scripts map[string]struct{}
}

// DefaultLanguageVocab covers the codes seen in fansub releases.
func DefaultLanguageVocab() *LanguageVocab {
	return &LanguageVocab{
		Codes: setOf(
			"JA", "JP", "EN", "ZH", "CN", "TW", "HK", "US", "GB",
			"SC", "TC", "KO", "KR", "FR", "DE", "ES", "RU",
		),
		Regions: setOf("CHS", "CHT", "JPN", "ENG", "CHI"),
		Scripts: setOf("HANS", "HANT"),
	}
}

func setOf(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

// LanguageClassifier recognizes language tokens against a fixed vocabulary.
type LanguageClassifier struct {
	vocab *LanguageVocab
}

// NewLanguageClassifier builds a classifier around vocab. A nil vocab
// selects the default table.
func NewLanguageClassifier(vocab *LanguageVocab) *LanguageClassifier {
	if vocab == nil {
		vocab = DefaultLanguageVocab()
	}
	return &LanguageClassifier{vocab: vocab}
}

// Classify reports whether tok is a language tag. Matched tokens are
// removed from the residual stream by the caller.
func (c *LanguageClassifier) Classify(tok Token) (LanguageTag, bool) {
	text := tok.Text

	if tag, ok := c.classifyCompact(text); ok {
		return tag, true
	}
	return c.classifyHyphenated(text)
}

// classifyCompact matches 4-letter concatenated code pairs like JPTC.
func (c *LanguageClassifier) classifyCompact(text string) (LanguageTag, bool) {
	if len(text) != 4 {
		return LanguageTag{}, false
	}
	upper := strings.ToUpper(text)
	if !isASCIILetters(upper) {
		return LanguageTag{}, false
	}
	if !c.hasCode(upper[:2]) || !c.hasCode(upper[2:]) {
		return LanguageTag{}, false
	}
	return LanguageTag{Raw: text, Normalized: upper}, true
}

// classifyHyphenated matches ISO-style codes with a 2-4 letter second
// subtag: zh-TW, zh-CHT, zh-Hant. Case is normalized in the output
// (lower language, upper region, title-case script) but matched
// insensitively.
func (c *LanguageClassifier) classifyHyphenated(text string) (LanguageTag, bool) {
	m := hyphenatedLangRe.FindStringSubmatch(text)
	if m == nil {
		return LanguageTag{}, false
	}
	lang := strings.ToUpper(m[1])
	region := strings.ToUpper(m[2])
	if !c.hasCode(lang) {
		return LanguageTag{}, false
	}

	switch len(region) {
	case 2:
		if !c.hasCode(region) {
			return LanguageTag{}, false
		}
		return LanguageTag{Raw: text, Normalized: strings.ToLower(lang) + "-" + region}, true
	case 3:
		if _, ok := c.vocab.Regions[region]; !ok {
			return LanguageTag{}, false
		}
		return LanguageTag{Raw: text, Normalized: strings.ToLower(lang) + "-" + region}, true
	case 4:
		if _, ok := c.vocab.Scripts[region]; !ok {
			return LanguageTag{}, false
		}
		script := region[:1] + strings.ToLower(region[1:])
		return LanguageTag{Raw: text, Normalized: strings.ToLower(lang) + "-" + script}, true
	}
	return LanguageTag{}, false
}

func (c *LanguageClassifier) hasCode(code string) bool {
	_, ok := c.vocab.Codes[code]
	return ok
}

func isASCIILetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
