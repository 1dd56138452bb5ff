package parse

// Release name parsing types.
//
// A RawEntry is the immutable input unit handed to the classification
// pass; everything else in this file is derived from it and owned by a
// single ComposeFolder invocation. Once a SeriesMetadata has been
// produced the intermediate values are discarded.

// RawEntry describes one source file discovered under a processed folder.
type RawEntry struct {
	// FolderName is the name of the top-level folder the entry belongs to.
	FolderName string
	// FileName is the base name of the file, extension included.
	FileName string
	// Subpath holds the directory names between the folder root and the
	// file, outermost first. Empty for files directly in the root.
	Subpath []string
	// Ext is the file extension including the leading dot.
	Ext string
	// SourcePath is the absolute path of the file on disk. The parser
	// never touches it; it is carried through for the operation plan.
	SourcePath string
}

// TokenSource identifies which name a token was cut from.
type TokenSource int

const (
	SourceFolder TokenSource = iota
	SourceFile
)

// Token is a single delimited or bracketed fragment of a name.
// Tokens are never mutated after tokenization.
type Token struct {
	Text      string
	Bracketed bool
	Source    TokenSource
	Pos       int
}

// LanguageTag is a recognized language/region token. Raw preserves the
// text as written; Normalized is the canonical form used in output
// names (JPTC, zh-TW, zh-Hant).
type LanguageTag struct {
	Raw        string
	Normalized string
}

// SpecialKind enumerates the special-content vocabulary.
type SpecialKind string

const (
	SpecialOP    SpecialKind = "OP"
	SpecialED    SpecialKind = "ED"
	SpecialNCOP  SpecialKind = "NCOP"
	SpecialNCED  SpecialKind = "NCED"
	SpecialPV    SpecialKind = "PV"
	SpecialCM    SpecialKind = "CM"
	SpecialMENU  SpecialKind = "MENU"
	SpecialSP    SpecialKind = "SP"
	SpecialOVA   SpecialKind = "OVA"
	SpecialOAD   SpecialKind = "OAD"
	SpecialOther SpecialKind = "OTHER"
)

// SpecialPart is one member of a (possibly compound) special tag.
type SpecialPart struct {
	Kind SpecialKind
	// Index is the effective numeric suffix after propagation across
	// compound members. Zero means the member carries no index.
	Index int
	// Literal is the canonical written form of the member (marker plus
	// any digits that were written on the member itself). It drives the
	// extras file name so that NCOP1&2 round-trips as NCOP1&2, not
	// NCOP1&NCOP2.
	Literal string
}

// SpecialTag is a classified special-content token. Simple tags have a
// single part; compound tags (PV&CM4) have one part per & segment in
// appearance order.
type SpecialTag struct {
	Parts     []SpecialPart
	Raw       string
	Malformed bool
}

// Kind returns the kind of the leading member.
func (t *SpecialTag) Kind() SpecialKind {
	if t == nil || len(t.Parts) == 0 {
		return SpecialOther
	}
	return t.Parts[0].Kind
}

// Name renders the tag for use as an extras file name, reproducing the
// original joined form.
func (t *SpecialTag) Name() string {
	if t == nil || len(t.Parts) == 0 {
		return ""
	}
	out := t.Parts[0].Literal
	for _, p := range t.Parts[1:] {
		out += "&" + p.Literal
	}
	return out
}

// Confidence records where a season or episode value came from.
type Confidence string

const (
	ConfidenceFilename   Confidence = "filename"
	ConfidenceFoldername Confidence = "foldername"
	ConfidenceDefault    Confidence = "default"
)

// EpisodeRecord is the outcome of episode/season extraction. Season and
// episode are independent; either may be missing.
type EpisodeRecord struct {
	Season       int
	SeasonFound  bool
	Episode      int
	EpisodeFound bool
	Confidence   Confidence
}

// SeriesMetadata is the composed, per-entry classification result.
// Season is always resolved to a concrete value (default 1) before a
// record leaves the composer.
type SeriesMetadata struct {
	Title      string
	Season     int
	Episode    int
	HasEpisode bool
	IsSpecial  bool
	Special    *SpecialTag
	// FallbackName names special or unclassified content that carries no
	// recognized special tag (typically the first non-group bracket of
	// the file name).
	FallbackName string
	Languages    []LanguageTag
	Ext          string
}

// WarningCode classifies recoverable problems found while processing a
// batch. No warning aborts processing of sibling entries.
type WarningCode string

const (
	WarnUnrecognizedPattern  WarningCode = "UnrecognizedPattern"
	WarnMalformedCompoundTag WarningCode = "MalformedCompoundTag"
	WarnDuplicateTarget      WarningCode = "DuplicateTarget"
)

// Warning is a recoverable, per-entry diagnostic surfaced after the
// batch completes.
type Warning struct {
	Code   WarningCode
	Path   string
	Detail string
}

// Classified pairs an input entry with its composed metadata and any
// warnings raised while classifying it.
type Classified struct {
	Entry    RawEntry
	Meta     SeriesMetadata
	Warnings []Warning
}
