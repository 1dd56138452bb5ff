// Package plan turns composed metadata into a deterministic operation
// plan: one collision-checked (source, target) pair per input file.
package plan

import (
	"fmt"
	"path/filepath"

	"github.com/shigure/anishelf/internal/parse"
)

// OpType enumerates the operations handed to the filesystem executor.
type OpType string

const (
	OpHardlink      OpType = "hardlink"
	OpSkipDuplicate OpType = "skip-duplicate"
)

// Operation is one planned filesystem action. Target is relative to the
// destination root.
type Operation struct {
	Source string
	Target string
	Op     OpType
}

// TargetPath maps one composed record to its canonical relative output
// path. The mapping is deterministic: equal metadata always yields an
// equal path. Components are sanitized here so collision detection
// compares the paths that will actually exist on disk.
func TargetPath(meta parse.SeriesMetadata) string {
	var rel string
	if meta.IsSpecial {
		rel = filepath.Join(meta.Title, "extras", extrasFileName(meta))
	} else {
		season := fmt.Sprintf("Season %02d", meta.Season)
		name := fmt.Sprintf("%s S%02dE%02d%s%s", meta.Title, meta.Season, meta.Episode, langSuffix(meta), meta.Ext)
		rel = filepath.Join(meta.Title, season, name)
	}
	clean, err := SanitizeRelPath(rel)
	if err != nil {
		return rel
	}
	return clean
}

// extrasFileName names special content by its tag alone, without
// repeating the title (NCED1.mkv, PV&CM.mkv, MENU.mkv). Compound tags
// reproduce the original joined form because they map to one file.
func extrasFileName(meta parse.SeriesMetadata) string {
	name := meta.FallbackName
	if meta.Special != nil {
		name = meta.Special.Name()
	}
	return name + langSuffix(meta) + meta.Ext
}

// langSuffix renders the language tag chain in appearance order.
func langSuffix(meta parse.SeriesMetadata) string {
	suffix := ""
	for _, tag := range meta.Languages {
		suffix += "." + tag.Normalized
	}
	return suffix
}

// BuildFolder produces the hardlink operations for one classified
// folder, in input order. Collisions are resolved later, over the whole
// run, by a Detector.
func BuildFolder(classified []parse.Classified) []Operation {
	ops := make([]Operation, 0, len(classified))
	for _, c := range classified {
		ops = append(ops, Operation{
			Source: c.Entry.SourcePath,
			Target: TargetPath(c.Meta),
			Op:     OpHardlink,
		})
	}
	return ops
}
