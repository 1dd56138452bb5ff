package parse

import (
	"fmt"
	"strings"
)

// Metadata composition.
//
// Engine wires the tokenizer, classifiers, extractor and title resolver
// into the single classification pass that turns RawEntry values into
// SeriesMetadata. The pass is pure: no I/O, no shared mutable state.

// Engine holds the classifier set for one pipeline. Classifiers are
// constructed around immutable vocabularies, so an Engine is safe for
// concurrent use across folders.
type Engine struct {
	lang      *LanguageClassifier
	special   *SpecialClassifier
	extractor *Extractor
	titles    *TitleResolver
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithLanguageVocab substitutes the language lookup table.
func WithLanguageVocab(v *LanguageVocab) Option {
	return func(e *Engine) { e.lang = NewLanguageClassifier(v) }
}

// WithSpecialVocab substitutes the special-content lookup table.
func WithSpecialVocab(v *SpecialVocab) Option {
	return func(e *Engine) { e.special = NewSpecialClassifier(v) }
}

// WithPatterns substitutes the episode pattern precedence list.
func WithPatterns(patterns ...Pattern) Option {
	return func(e *Engine) { e.extractor = NewExtractor(patterns...) }
}

// NewEngine constructs an engine with the default vocabularies.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		lang:      NewLanguageClassifier(nil),
		special:   NewSpecialClassifier(nil),
		extractor: NewExtractor(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.titles = NewTitleResolver(e.lang, e.special)
	return e
}

// ResolveTitle exposes folder-level title resolution; every entry of a
// folder shares the value computed here.
func (e *Engine) ResolveTitle(folderName string) string {
	return e.titles.Resolve(folderName)
}

// ComposeFolder classifies every entry of one source folder. The title
// is resolved once for the folder and applied to all members.
func (e *Engine) ComposeFolder(folderName string, entries []RawEntry) []Classified {
	title := e.ResolveTitle(folderName)
	folderTokens := Tokenize(folderName, SourceFolder)

	out := make([]Classified, 0, len(entries))
	for _, entry := range entries {
		out = append(out, e.composeEntry(title, folderTokens, entry))
	}
	return out
}

func (e *Engine) composeEntry(title string, folderTokens []Token, entry RawEntry) Classified {
	base := strings.TrimSuffix(entry.FileName, entry.Ext)
	tokens := Tokenize(base, SourceFile)

	cls := Classified{Entry: entry}
	meta := SeriesMetadata{Title: title, Ext: entry.Ext}

	// Language tags first: matched tokens leave the residual stream and
	// their appearance order is preserved for the output suffix chain.
	residual := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if tag, ok := e.lang.Classify(t); ok {
			meta.Languages = append(meta.Languages, tag)
			continue
		}
		residual = append(residual, t)
	}

	// Special content: a classified token wins, a special parent folder
	// marks the file even without one. The leading bracket is the group
	// tag and never a content marker.
	for _, t := range residual {
		if t.Bracketed && t.Pos == 0 {
			continue
		}
		if tag, ok := e.special.Classify(t); ok {
			meta.IsSpecial = true
			meta.Special = tag
			if tag.Malformed {
				cls.Warnings = append(cls.Warnings, Warning{
					Code:   WarnMalformedCompoundTag,
					Path:   entry.SourcePath,
					Detail: fmt.Sprintf("ambiguous compound segment in %q classified as OTHER", tag.Raw),
				})
			}
			break
		}
	}
	if !meta.IsSpecial {
		for _, dir := range entry.Subpath {
			if e.special.IsSpecialFolder(dir) {
				meta.IsSpecial = true
				break
			}
		}
	}

	if meta.IsSpecial {
		// Special content is never numbered as a season episode; the
		// season still resolves so the record invariant holds.
		rec, _, _ := e.extractor.Extract(nil, folderTokens)
		meta.Season = rec.Season
		if meta.Special == nil {
			meta.FallbackName = extrasFallbackName(tokens, base)
		}
		cls.Meta = meta
		return cls
	}

	rec, _, _ := e.extractor.Extract(residual, folderTokens)
	meta.Season = rec.Season
	if rec.EpisodeFound {
		meta.Episode = rec.Episode
		meta.HasEpisode = true
	} else {
		// No convention matched: degrade to unclassified extras rather
		// than inventing a number.
		meta.IsSpecial = true
		meta.FallbackName = extrasFallbackName(tokens, base)
		cls.Warnings = append(cls.Warnings, Warning{
			Code:   WarnUnrecognizedPattern,
			Path:   entry.SourcePath,
			Detail: fmt.Sprintf("no episode pattern matched %q; routed to extras", entry.FileName),
		})
	}

	cls.Meta = meta
	return cls
}

// extrasFallbackName names unclassified special content: the first
// non-group bracket token when present, else the bare file name.
func extrasFallbackName(tokens []Token, base string) string {
	bracketed := 0
	for _, t := range tokens {
		if !t.Bracketed {
			continue
		}
		bracketed++
		if bracketed == 1 {
			// Leading bracket is the group tag.
			continue
		}
		if episodeRangeRe.MatchString(t.Text) {
			continue
		}
		return t.Text
	}
	name := strings.TrimSpace(base)
	if name == "" {
		return "UNNAMED"
	}
	return name
}
