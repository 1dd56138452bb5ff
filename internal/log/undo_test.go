package log

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUndoLink(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mkv")
	dest := filepath.Join(dir, "dest.mkv")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Link(src, dest); err != nil {
		t.Fatal(err)
	}

	result := UndoOperation(OperationRecord{Type: OpLink, SourcePath: src, DestPath: dest, Success: true})
	if !result.Success {
		t.Fatalf("UndoOperation(link) failed: %v", result.Error)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("link should be removed")
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("source must survive the undo")
	}

	// A second undo of the same record is a no-op success.
	if r := UndoOperation(OperationRecord{Type: OpLink, DestPath: dest, Success: true}); !r.Success {
		t.Errorf("undo of already removed link failed: %v", r.Error)
	}
}

func TestUndoMkdir(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "Season 01")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	result := UndoOperation(OperationRecord{Type: OpMkdir, DestPath: dir, Success: true})
	if !result.Success {
		t.Fatalf("UndoOperation(mkdir) failed: %v", result.Error)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("empty directory should be removed")
	}
}

func TestUndoMkdirNonEmpty(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "Season 01")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "keep.mkv"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	result := UndoOperation(OperationRecord{Type: OpMkdir, DestPath: dir, Success: true})
	if result.Success {
		t.Error("non-empty directory must not be removed")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Error("directory should still exist")
	}
}

func TestUndoMove(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	orig := filepath.Join(base, "input")
	archived := filepath.Join(base, "archive", "input")
	if err := os.MkdirAll(archived, 0755); err != nil {
		t.Fatal(err)
	}

	result := UndoOperation(OperationRecord{Type: OpMove, SourcePath: orig, DestPath: archived, Success: true})
	if !result.Success {
		t.Fatalf("UndoOperation(move) failed: %v", result.Error)
	}
	if _, err := os.Stat(orig); err != nil {
		t.Error("folder should be moved back to its original path")
	}
}

func TestUndoMoveOriginalExists(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	orig := filepath.Join(base, "input")
	archived := filepath.Join(base, "archive", "input")
	for _, d := range []string{orig, archived} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	result := UndoOperation(OperationRecord{Type: OpMove, SourcePath: orig, DestPath: archived, Success: true})
	if result.Success {
		t.Error("undo must not overwrite an existing original path")
	}
}

func TestUndoSessionReverseOrder(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	seasonDir := filepath.Join(base, "Show", "Season 01")
	if err := os.MkdirAll(seasonDir, 0755); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(base, "src.mkv")
	dest := filepath.Join(seasonDir, "Show S01E01.mkv")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Link(src, dest); err != nil {
		t.Fatal(err)
	}

	// Recorded in execution order: mkdir then link. Undo must remove
	// the link first or the directory removal would fail.
	session := &Session{
		Operations: []OperationRecord{
			{Type: OpMkdir, DestPath: seasonDir, Success: true},
			{Type: OpLink, SourcePath: src, DestPath: dest, Success: true},
			{Type: OpSkip, SourcePath: "/src/dup.mkv", Success: true},
		},
	}

	successful, failed, errs := UndoSession(session)
	if failed != 0 {
		t.Fatalf("UndoSession() failed ops: %d, errors: %v", failed, errs)
	}
	if successful != 2 {
		t.Errorf("UndoSession() successful = %d, want 2 (skip is not undone)", successful)
	}
	if _, err := os.Stat(seasonDir); !os.IsNotExist(err) {
		t.Error("season directory should be removed after its link")
	}
}

func TestUndoSkipsFailedOperations(t *testing.T) {
	t.Parallel()
	session := &Session{
		Operations: []OperationRecord{
			{Type: OpLink, SourcePath: "/src/a.mkv", DestPath: "/nonexistent/a.mkv", Success: false},
		},
	}
	successful, failed, _ := UndoSession(session)
	if successful != 0 || failed != 0 {
		t.Errorf("UndoSession() = %d ok, %d failed; failed operations must be ignored", successful, failed)
	}
}
