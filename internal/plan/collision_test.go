package plan

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shigure/anishelf/internal/parse"
)

func TestDetectorResolvesDuplicates(t *testing.T) {
	t.Parallel()
	ops := []Operation{
		{Source: "/src/a/ep1.mkv", Target: "Show/Season 01/Show S01E01.mkv", Op: OpHardlink},
		{Source: "/src/b/ep1.mkv", Target: "Show/Season 01/Show S01E01.mkv", Op: OpHardlink},
		{Source: "/src/a/ep2.mkv", Target: "Show/Season 01/Show S01E02.mkv", Op: OpHardlink},
	}

	d := NewDetector()
	d.Observe(ops)
	resolved, warnings := d.Resolve(ops)

	// Both colliding entries are excluded, not just the second one.
	if resolved[0].Op != OpSkipDuplicate || resolved[1].Op != OpSkipDuplicate {
		t.Errorf("colliding ops = %s, %s, want both skip-duplicate", resolved[0].Op, resolved[1].Op)
	}
	if resolved[2].Op != OpHardlink {
		t.Errorf("unique op = %s, want hardlink", resolved[2].Op)
	}
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2", len(warnings))
	}
	for _, w := range warnings {
		if w.Code != parse.WarnDuplicateTarget {
			t.Errorf("warning code = %s, want %s", w.Code, parse.WarnDuplicateTarget)
		}
	}
}

// Distinct titles can collapse to one on-disk path once invalid
// characters are folded away. The detector must see the sanitized
// paths, or the loser is silently absorbed as already present.
func TestDetectorSanitizedTargetCollision(t *testing.T) {
	t.Parallel()
	ops := BuildFolder([]parse.Classified{
		{
			Entry: parse.RawEntry{SourcePath: "/src/a/ep1.mkv"},
			Meta:  parse.SeriesMetadata{Title: "Show: One", Season: 1, Episode: 1, HasEpisode: true, Ext: ".mkv"},
		},
		{
			Entry: parse.RawEntry{SourcePath: "/src/b/ep1.mkv"},
			Meta:  parse.SeriesMetadata{Title: "Show? One", Season: 1, Episode: 1, HasEpisode: true, Ext: ".mkv"},
		},
	})
	if ops[0].Target != ops[1].Target {
		t.Fatalf("targets differ after sanitization: %q vs %q", ops[0].Target, ops[1].Target)
	}

	d := NewDetector()
	d.Observe(ops)
	resolved, warnings := d.Resolve(ops)
	for i, op := range resolved {
		if op.Op != OpSkipDuplicate {
			t.Errorf("op %d = %s, want skip-duplicate", i, op.Op)
		}
	}
	if len(warnings) != 2 {
		t.Errorf("got %d warnings, want 2", len(warnings))
	}
}

func TestDetectorCrossFolderUnion(t *testing.T) {
	t.Parallel()
	folderA := []Operation{{Source: "/src/a/ep.mkv", Target: "Show/Season 01/Show S01E01.mkv", Op: OpHardlink}}
	folderB := []Operation{{Source: "/src/b/ep.mkv", Target: "Show/Season 01/Show S01E01.mkv", Op: OpHardlink}}

	d := NewDetector()
	d.Observe(folderA)
	d.Observe(folderB)

	resolved, warnings := d.Resolve(append(folderA, folderB...))
	for i, op := range resolved {
		if op.Op != OpSkipDuplicate {
			t.Errorf("op %d = %s, want skip-duplicate", i, op.Op)
		}
	}
	if len(warnings) != 2 {
		t.Errorf("got %d warnings, want 2", len(warnings))
	}
}

func TestDetectorConcurrentObserve(t *testing.T) {
	t.Parallel()
	d := NewDetector()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ops := make([]Operation, 0, 50)
			for j := 0; j < 50; j++ {
				ops = append(ops, Operation{
					Source: fmt.Sprintf("/src/%d/%d.mkv", n, j),
					Target: fmt.Sprintf("Show/Season 01/Show S01E%02d.mkv", j),
					Op:     OpHardlink,
				})
			}
			d.Observe(ops)
		}(i)
	}
	wg.Wait()

	ops := []Operation{{Source: "/src/0/0.mkv", Target: "Show/Season 01/Show S01E00.mkv", Op: OpHardlink}}
	resolved, _ := d.Resolve(ops)
	if resolved[0].Op != OpSkipDuplicate {
		t.Errorf("target observed by 8 goroutines resolved to %s, want skip-duplicate", resolved[0].Op)
	}
}

func TestPipelineRoundTripStable(t *testing.T) {
	t.Parallel()
	engine := parse.NewEngine()
	folder := "[Group] Show Name [01-02] [1080p]"
	entries := []parse.RawEntry{
		{FolderName: folder, FileName: "[Group] Show Name [01].mkv", Ext: ".mkv", SourcePath: "/src/f/1.mkv"},
		{FolderName: folder, FileName: "[Group] Show Name [02].mkv", Ext: ".mkv", SourcePath: "/src/f/2.mkv"},
		{FolderName: folder, FileName: "[Group] Show Name - NCOP1.mkv", Ext: ".mkv", SourcePath: "/src/f/3.mkv"},
	}

	run := func() []Operation {
		return BuildFolder(engine.ComposeFolder(folder, entries))
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("two dry runs over identical input differ:\n%s", diff)
	}
}
