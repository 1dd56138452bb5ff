package tui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/shigure/anishelf/internal/plan"
)

func previewOps() []plan.Operation {
	return []plan.Operation{
		{Source: "/src/f/ep1.mkv", Target: "Show/Season 01/Show S01E01.mkv", Op: plan.OpHardlink},
		{Source: "/src/f/ncop.mkv", Target: "Show/extras/NCOP1.mkv", Op: plan.OpHardlink},
		{Source: "/src/g/ep1.mkv", Target: "Show/Season 01/Show S01E01.mkv", Op: plan.OpSkipDuplicate},
	}
}

func startPreview(t *testing.T, ops []plan.Operation) *teatest.TestModel {
	t.Helper()
	return teatest.NewTestModel(t, NewPreviewModel(ops), teatest.WithInitialTermSize(120, 24))
}

func TestPreviewShowsPlan(t *testing.T) {
	tm := startPreview(t, previewOps())

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Show S01E01.mkv")) &&
			bytes.Contains(b, []byte("NCOP1.mkv")) &&
			bytes.Contains(b, []byte("duplicate"))
	}, teatest.WithDuration(2*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

func TestPreviewConfirm(t *testing.T) {
	tm := startPreview(t, previewOps())

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final, ok := tm.FinalModel(t).(*PreviewModel)
	if !ok {
		t.Fatalf("final model type = %T, want *PreviewModel", tm.FinalModel(t))
	}
	if !final.Confirmed() {
		t.Error("pressing y should confirm the plan")
	}
}

func TestPreviewCancel(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'n'}},
		{Type: tea.KeyEsc},
	}
	for _, key := range keys {
		tm := startPreview(t, previewOps())
		tm.Send(key)
		tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

		final := tm.FinalModel(t).(*PreviewModel)
		if final.Confirmed() {
			t.Errorf("key %v should cancel the plan", key)
		}
	}
}
