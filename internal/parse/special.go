package parse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Special-content classification.
//
// The classifier recognizes a fixed vocabulary of markers (OP, ED,
// NCOP, NCED, PV, CM, MENU, SP, OVA, OAD and Japanese equivalents),
// optionally suffixed with digits, optionally joined into compound tags
// with &. A Japanese ordinal prefix (第十三话ED) denotes episode
// context and is ignored for classification; the trailing marker wins.

// SpecialVocab is the immutable lookup table backing a
// SpecialClassifier.
type SpecialVocab struct {
	// Kinds maps marker words (upper case) to their kind.
	Kinds map[string]SpecialKind
	// Folders lists directory names whose contents are special even
	// without a marker in the file name.
	Folders map[string]struct{}
}

// DefaultSpecialVocab covers the common fansub marker set.
func DefaultSpecialVocab() *SpecialVocab {
	return &SpecialVocab{
		Kinds: map[string]SpecialKind{
			"OP":       SpecialOP,
			"ED":       SpecialED,
			"NCOP":     SpecialNCOP,
			"NCED":     SpecialNCED,
			"PV":       SpecialPV,
			"CM":       SpecialCM,
			"MENU":     SpecialMENU,
			"SP":       SpecialSP,
			"SPS":      SpecialSP,
			"SPECIAL":  SpecialSP,
			"SPECIALS": SpecialSP,
			"OVA":      SpecialOVA,
			"OAD":      SpecialOAD,
			"映像特典":     SpecialSP,
			"特典":       SpecialSP,
		},
		Folders: setOf(
			"SPS", "SPECIALS", "EXTRAS", "BONUS", "OVA", "OAD",
			"映像特典", "特典",
		),
	}
}

// SpecialClassifier recognizes special-content tokens against an
// injected vocabulary.
type SpecialClassifier struct {
	vocab *SpecialVocab
	segRe *regexp.Regexp
}

// NewSpecialClassifier builds a classifier around vocab. A nil vocab
// selects the default table.
func NewSpecialClassifier(vocab *SpecialVocab) *SpecialClassifier {
	if vocab == nil {
		vocab = DefaultSpecialVocab()
	}
	return &SpecialClassifier{
		vocab: vocab,
		segRe: compileSegmentRe(vocab),
	}
}

// compileSegmentRe builds the per-segment matcher from the vocabulary.
// Longer markers sort first so NCOP is not consumed as OP.
func compileSegmentRe(vocab *SpecialVocab) *regexp.Regexp {
	markers := make([]string, 0, len(vocab.Kinds))
	for word := range vocab.Kinds {
		markers = append(markers, regexp.QuoteMeta(word))
	}
	sort.Slice(markers, func(i, j int) bool {
		if len(markers[i]) != len(markers[j]) {
			return len(markers[i]) > len(markers[j])
		}
		return markers[i] < markers[j]
	})
	// Optional ordinal prefix, a marker, optional digit suffix.
	return regexp.MustCompile(`(?i)^(?:第[0-9〇零一二三四五六七八九十百千]+[話话]?)?(` +
		strings.Join(markers, "|") + `)(\d*)$`)
}

// IsSpecialFolder reports whether a directory name marks its contents
// as special content.
func (c *SpecialClassifier) IsSpecialFolder(name string) bool {
	_, ok := c.vocab.Folders[strings.ToUpper(strings.TrimSpace(normalizeWidth(name)))]
	return ok
}

// Classify reports whether tok is a special-content tag. Compound tags
// are split on & with kind inheritance between members and right-to-left
// index propagation: in NCOP1&2 the members get indices 1 and 2, in
// PV&CM4 the leading PV inherits index 4.
func (c *SpecialClassifier) Classify(tok Token) (*SpecialTag, bool) {
	segments := strings.Split(tok.Text, "&")

	type segment struct {
		raw     string
		kind    SpecialKind
		hasKind bool
		index   int
		ownIdx  bool
	}

	segs := make([]segment, 0, len(segments))
	matched := 0
	for _, raw := range segments {
		raw = strings.TrimSpace(raw)
		s := segment{raw: raw}
		if m := c.segRe.FindStringSubmatch(raw); m != nil {
			s.kind = c.vocab.Kinds[strings.ToUpper(m[1])]
			s.hasKind = true
			if m[2] != "" {
				s.index, _ = strconv.Atoi(m[2])
				s.ownIdx = true
			}
			matched++
		} else if n, err := strconv.Atoi(raw); err == nil {
			// Bare index segment, kind inherited from a sibling.
			s.index = n
			s.ownIdx = true
		} else {
			s.kind = SpecialOther
		}
		segs = append(segs, s)
	}

	// At least one segment must carry a recognized marker, otherwise
	// the token is not special content at all.
	if matched == 0 {
		return nil, false
	}

	// Kind inheritance for bare index segments: fill forward, then
	// backward for leading ones. hasKind stays false on inheriting
	// segments so their written form is preserved.
	for i := 1; i < len(segs); i++ {
		if segs[i].kind == "" && segs[i-1].kind != "" && segs[i-1].kind != SpecialOther {
			segs[i].kind = segs[i-1].kind
		}
	}
	for i := len(segs) - 2; i >= 0; i-- {
		if segs[i].kind == "" && segs[i+1].kind != "" && segs[i+1].kind != SpecialOther {
			segs[i].kind = segs[i+1].kind
		}
	}

	// Index propagation: a member without its own suffix takes the
	// suffix of the nearest following member that has one.
	carry, carried := 0, false
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i].ownIdx {
			carry, carried = segs[i].index, true
			continue
		}
		if carried {
			segs[i].index = carry
		}
	}

	tag := &SpecialTag{Raw: tok.Text, Parts: make([]SpecialPart, 0, len(segs))}
	for _, s := range segs {
		part := SpecialPart{Kind: s.kind, Index: s.index}
		switch {
		case s.kind == SpecialOther || s.kind == "":
			// Ambiguous segment: keep it verbatim and flag the tag.
			part.Kind = SpecialOther
			part.Literal = s.raw
			tag.Malformed = true
		case s.hasKind && s.ownIdx:
			part.Literal = string(s.kind) + strconv.Itoa(s.index)
		case s.hasKind:
			part.Literal = string(s.kind)
		default:
			// Bare index segment (the 2 in NCOP1&2): the written form
			// keeps only the digits.
			part.Literal = strconv.Itoa(s.index)
		}
		tag.Parts = append(tag.Parts, part)
	}
	return tag, true
}
