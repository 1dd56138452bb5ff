package parse

import (
	"regexp"
	"strings"
)

// Title resolution.
//
// The canonical series title is derived from the folder name: the group
// tag (first bracketed token), remaining bracketed format/range tokens,
// and any classified tokens are stripped, and the residual tokens are
// joined in order. Resolution happens once per processed folder so all
// of its members share one title.

// formatTagRe matches resolution/codec/source words that sometimes
// appear outside brackets.
var formatTagRe = regexp.MustCompile(`(?i)^(?:\d{3,4}[pi]|4K|UHD|HDR|x26[45]|H\.?26[45]|HEVC|AVC|AAC|AACx2|FLAC|OPUS|BD|BDRip|BDRemux|BluRay|WEB-?DL|WEBRip|HDTV|MKV|MP4|\d+bit|Ma10p|Hi10p|FIN|END|v\d+)$`)

// TitleResolver strips classified tokens from folder names.
type TitleResolver struct {
	lang    *LanguageClassifier
	special *SpecialClassifier
}

// NewTitleResolver builds a resolver sharing the classifiers used by
// the rest of the pipeline.
func NewTitleResolver(lang *LanguageClassifier, special *SpecialClassifier) *TitleResolver {
	return &TitleResolver{lang: lang, special: special}
}

// Resolve derives the series title from folderName. It never returns an
// empty string: when stripping leaves nothing, the folder name with its
// outer brackets and group tag removed is used verbatim.
func (r *TitleResolver) Resolve(folderName string) string {
	tokens := Tokenize(folderName, SourceFolder)

	// Multi-token season markers (Season 2) are located up front so
	// both tokens of the pair leave the residual stream.
	seasonPos := map[int]bool{}
	if _, pos, ok := seasonFromTokens(tokens); ok {
		for _, p := range pos {
			seasonPos[p] = true
		}
	}

	residual := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if seasonPos[t.Pos] {
			continue
		}
		if t.Bracketed {
			// First bracket is the group tag; the rest are format or
			// batch range info. None of them belong in the title.
			continue
		}
		if r.isClassified(t) {
			continue
		}
		residual = append(residual, t)
	}

	title := strings.TrimLeft(JoinTokens(residual), "- ")
	if title != "" {
		return title
	}
	return fallbackTitle(folderName)
}

// isClassified reports whether a word token is claimed by another
// classifier (language, special content, episode/season, format tag).
func (r *TitleResolver) isClassified(t Token) bool {
	if _, ok := r.lang.Classify(t); ok {
		return true
	}
	if _, ok := r.special.Classify(t); ok {
		return true
	}
	if episodeRangeRe.MatchString(t.Text) || plainEpisodeRe.MatchString(t.Text) {
		return true
	}
	if standardEpisodeRe.MatchString(t.Text) || seasonCompactRe.MatchString(t.Text) ||
		seasonGluedRe.MatchString(t.Text) || seasonWordRe.MatchString(t.Text) {
		return true
	}
	if japaneseEpisodeRe.MatchString(t.Text) || japaneseSeasonRe.MatchString(t.Text) {
		return true
	}
	return formatTagRe.MatchString(t.Text)
}

// fallbackTitle strips the enclosing brackets and group tag from the
// raw folder name when token stripping yields nothing.
func fallbackTitle(folderName string) string {
	name := strings.TrimSpace(normalizeWidth(folderName))
	if rest, ok := stripLeadingBracket(name); ok && strings.TrimSpace(rest) != "" {
		name = strings.TrimSpace(rest)
	}
	name = strings.Trim(name, "[]()【】")
	return strings.TrimLeft(strings.TrimSpace(name), "- ")
}

func stripLeadingBracket(name string) (string, bool) {
	runes := []rune(name)
	if len(runes) == 0 {
		return name, false
	}
	close, ok := bracketPairs[runes[0]]
	if !ok {
		return name, false
	}
	for i := 1; i < len(runes); i++ {
		if runes[i] == close {
			return string(runes[i+1:]), true
		}
	}
	return name, false
}
