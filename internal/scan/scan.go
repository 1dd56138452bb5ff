// Package scan enumerates the files of a source folder into the
// immutable entries consumed by the classification pass.
package scan

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/treeview"

	"github.com/shigure/anishelf/internal/parse"
)

// ErrNoFiles marks a structurally invalid input folder. It fails that
// folder immediately; siblings keep processing.
var ErrNoFiles = errors.New("no files found in folder")

// Reasonable bounds for release folders. Anything deeper than a couple
// of special-content subfolders is not a layout this tool understands.
const (
	maxDepth     = 4
	traversalCap = 100000
)

// Source is one scanned input folder.
type Source struct {
	// Path is the absolute folder path.
	Path string
	// Name is the folder base name, the input to title resolution.
	Name string
	// Entries lists the files found, in traversal order.
	Entries []parse.RawEntry
}

// Folder walks one source folder and builds its entry list. ignored
// filters file base names (nil means keep everything). Hidden files are
// always skipped.
func Folder(ctx context.Context, path string, ignored func(name string) bool) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	tree, err := treeview.NewTreeFromFileSystem(ctx, abs, false,
		treeview.WithMaxDepth[treeview.FileInfo](maxDepth),
		treeview.WithTraversalCap[treeview.FileInfo](traversalCap),
		treeview.WithFilterFunc(func(fi treeview.FileInfo) bool {
			if strings.HasPrefix(fi.Name(), ".") {
				return false
			}
			if !fi.IsDir() && ignored != nil && ignored(fi.Name()) {
				return false
			}
			return true
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", abs, err)
	}

	src := &Source{
		Path: abs,
		Name: filepath.Base(abs),
	}

	for ni := range tree.All(ctx) {
		node := ni.Node
		if node.Data().IsDir() {
			continue
		}
		entry, err := newEntry(src, node.Data().Path)
		if err != nil {
			continue
		}
		src.Entries = append(src.Entries, entry)
	}

	if len(src.Entries) == 0 {
		return nil, fmt.Errorf("%s: %w", abs, ErrNoFiles)
	}
	return src, nil
}

func newEntry(src *Source, filePath string) (parse.RawEntry, error) {
	rel, err := filepath.Rel(src.Path, filePath)
	if err != nil {
		return parse.RawEntry{}, err
	}

	name := filepath.Base(rel)
	var subpath []string
	if dir := filepath.Dir(rel); dir != "." {
		subpath = strings.Split(dir, string(filepath.Separator))
	}

	return parse.RawEntry{
		FolderName: src.Name,
		FileName:   name,
		Subpath:    subpath,
		Ext:        filepath.Ext(name),
		SourcePath: filePath,
	}, nil
}
