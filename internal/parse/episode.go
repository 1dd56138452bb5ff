package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Episode and season extraction.
//
// Each naming convention is a Pattern applied to the token stream;
// the extractor holds an ordered pattern list and uses first-match-wins.
// Episode numbers come only from file names. Season values resolve with
// file name over folder name over the default of 1.

// ExtractedValue is the result of one pattern match.
type ExtractedValue struct {
	Season       int
	SeasonFound  bool
	Episode      int
	EpisodeFound bool
	// Positions lists the token positions the match consumed, so the
	// title resolver can exclude them from the residual stream.
	Positions []int
}

// Pattern matches one naming convention against a token stream.
type Pattern interface {
	Name() string
	Match(tokens []Token) (ExtractedValue, bool)
}

var (
	plainEpisodeRe    = regexp.MustCompile(`^\d{2,3}$`)
	episodeRangeRe    = regexp.MustCompile(`^\d{1,2}\s*-\s*\d{1,3}$`)
	standardEpisodeRe = regexp.MustCompile(`(?i)^S(\d{1,2})E(\d{1,3})$`)
	japaneseEpisodeRe = regexp.MustCompile(`第([0-9〇零一二三四五六七八九十百千]{1,6})[話话]`)
	seasonWordRe      = regexp.MustCompile(`(?i)^Season$`)
	seasonCompactRe   = regexp.MustCompile(`(?i)^S(\d{1,2})$`)
	seasonGluedRe     = regexp.MustCompile(`(?i)^Season\s*(\d{1,2})$`)
	japaneseSeasonRe  = regexp.MustCompile(`第([0-9〇零一二三四五六七八九十百千]{1,4})期`)
	numberRe          = regexp.MustCompile(`^\d{1,2}$`)
)

// bracketPattern matches a bare 2-3 digit episode number, either
// bracketed ([05]) or delimited. Ranges like 01-12 are batch indicators
// and never match.
type bracketPattern struct{}

func (bracketPattern) Name() string { return "bracket" }

func (bracketPattern) Match(tokens []Token) (ExtractedValue, bool) {
	for _, t := range tokens {
		if episodeRangeRe.MatchString(t.Text) {
			continue
		}
		if !plainEpisodeRe.MatchString(t.Text) {
			continue
		}
		n, err := strconv.Atoi(t.Text)
		if err != nil {
			continue
		}
		return ExtractedValue{Episode: n, EpisodeFound: true, Positions: []int{t.Pos}}, true
	}
	return ExtractedValue{}, false
}

// standardPattern matches SxxExx tokens, yielding both season and episode.
type standardPattern struct{}

func (standardPattern) Name() string { return "standard" }

func (standardPattern) Match(tokens []Token) (ExtractedValue, bool) {
	for _, t := range tokens {
		m := standardEpisodeRe.FindStringSubmatch(t.Text)
		if m == nil {
			continue
		}
		season, _ := strconv.Atoi(m[1])
		episode, _ := strconv.Atoi(m[2])
		return ExtractedValue{
			Season:       season,
			SeasonFound:  true,
			Episode:      episode,
			EpisodeFound: true,
			Positions:    []int{t.Pos},
		}, true
	}
	return ExtractedValue{}, false
}

// japanesePattern matches 第N話 / 第N话 with Arabic or Chinese numerals.
type japanesePattern struct{}

func (japanesePattern) Name() string { return "japanese" }

func (japanesePattern) Match(tokens []Token) (ExtractedValue, bool) {
	for _, t := range tokens {
		m := japaneseEpisodeRe.FindStringSubmatch(t.Text)
		if m == nil {
			continue
		}
		n, ok := parseNumeral(m[1])
		if !ok {
			continue
		}
		return ExtractedValue{Episode: n, EpisodeFound: true, Positions: []int{t.Pos}}, true
	}
	return ExtractedValue{}, false
}

// DefaultPatterns returns the episode conventions in precedence order.
func DefaultPatterns() []Pattern {
	return []Pattern{bracketPattern{}, standardPattern{}, japanesePattern{}}
}

// Extractor applies the pattern list to file tokens and season rules to
// both file and folder tokens.
type Extractor struct {
	patterns []Pattern
}

// NewExtractor builds an extractor. Passing no patterns selects the
// default precedence order.
func NewExtractor(patterns ...Pattern) *Extractor {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	return &Extractor{patterns: patterns}
}

// Extract derives the episode record for one file. filePositions and
// folderPositions receive the token positions consumed, for residual
// computation.
func (e *Extractor) Extract(fileTokens, folderTokens []Token) (rec EpisodeRecord, filePositions, folderPositions []int) {
	for _, p := range e.patterns {
		v, ok := p.Match(fileTokens)
		if !ok {
			continue
		}
		rec.Episode = v.Episode
		rec.EpisodeFound = v.EpisodeFound
		if v.SeasonFound {
			rec.Season = v.Season
			rec.SeasonFound = true
			rec.Confidence = ConfidenceFilename
		}
		filePositions = append(filePositions, v.Positions...)
		break
	}

	if !rec.SeasonFound {
		if season, pos, ok := seasonFromTokens(fileTokens); ok {
			rec.Season = season
			rec.SeasonFound = true
			rec.Confidence = ConfidenceFilename
			filePositions = append(filePositions, pos...)
		}
	}
	// The folder positions are always computed so the title resolver
	// can drop season markers even when the file name wins.
	if season, pos, ok := seasonFromTokens(folderTokens); ok {
		folderPositions = append(folderPositions, pos...)
		if !rec.SeasonFound {
			rec.Season = season
			rec.SeasonFound = true
			rec.Confidence = ConfidenceFoldername
		}
	}
	if !rec.SeasonFound {
		rec.Season = 1
		rec.Confidence = ConfidenceDefault
	}
	return rec, filePositions, folderPositions
}

// seasonFromTokens recognizes "Season N", "SNN", "SnnEnn" and 第N期
// season markers. The SnnEnn form carries a season even when another
// pattern already claimed the episode number.
func seasonFromTokens(tokens []Token) (int, []int, bool) {
	for i, t := range tokens {
		if seasonWordRe.MatchString(t.Text) && i+1 < len(tokens) && numberRe.MatchString(tokens[i+1].Text) {
			n, _ := strconv.Atoi(tokens[i+1].Text)
			return n, []int{t.Pos, tokens[i+1].Pos}, true
		}
		if m := seasonGluedRe.FindStringSubmatch(t.Text); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n, []int{t.Pos}, true
		}
		if m := standardEpisodeRe.FindStringSubmatch(t.Text); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n, []int{t.Pos}, true
		}
		if m := seasonCompactRe.FindStringSubmatch(t.Text); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n, []int{t.Pos}, true
		}
		if m := japaneseSeasonRe.FindStringSubmatch(t.Text); m != nil {
			if n, ok := parseNumeral(m[1]); ok {
				return n, []int{t.Pos}, true
			}
		}
	}
	return 0, nil, false
}

// parseNumeral reads an Arabic or Chinese numeral below 10000.
func parseNumeral(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	return parseChineseNumeral(s)
}

var chineseDigits = map[rune]int{
	'〇': 0, '零': 0, '一': 1, '二': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// parseChineseNumeral handles forms like 八, 十三, 二十, 百二十五.
func parseChineseNumeral(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	total, current := 0, 0
	for _, r := range s {
		switch r {
		case '十':
			if current == 0 {
				current = 1
			}
			total += current * 10
			current = 0
		case '百':
			if current == 0 {
				current = 1
			}
			total += current * 100
			current = 0
		case '千':
			if current == 0 {
				current = 1
			}
			total += current * 1000
			current = 0
		default:
			d, ok := chineseDigits[r]
			if !ok {
				return 0, false
			}
			current = current*10 + d
		}
	}
	total += current
	if !strings.ContainsAny(s, "十百千") && len([]rune(s)) > 1 {
		// Positional form like 二〇 is read digit by digit.
		return current, true
	}
	return total, true
}
