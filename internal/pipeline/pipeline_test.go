package pipeline

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunExecutesStagesInOrder(t *testing.T) {
	var order []string
	stages := []Stage{
		{Name: StageClean, Run: func(*State) error { order = append(order, StageClean); return nil }},
		{Name: StageClosure, Run: func(*State) error { order = append(order, StageClosure); return nil }},
	}
	st := NewState(t.TempDir())
	if err := Run(discardLogger(), st, stages, nil); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != StageClean || order[1] != StageClosure {
		t.Fatalf("stage order = %v, want [%s %s]", order, StageClean, StageClosure)
	}
}

func TestRunCleansUpStagingOnStageError(t *testing.T) {
	workDir := t.TempDir()
	stagingFile := filepath.Join(workDir, "partial.staging")
	if err := os.WriteFile(stagingFile, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	stages := []Stage{
		{Name: StageClean, Run: func(*State) error { return errCancelled }},
	}
	st := NewState(workDir)
	if err := Run(discardLogger(), st, stages, nil); err == nil {
		t.Fatal("expected stage error to propagate")
	}
	if _, err := os.Stat(stagingFile); !os.IsNotExist(err) {
		t.Fatal("staging file should have been removed after stage failure")
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ran := false
	stages := []Stage{
		{Name: StageClean, Run: func(*State) error { ran = true; return nil }},
	}
	st := NewState(t.TempDir())
	err := Run(discardLogger(), st, stages, func() bool { return true })
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if ran {
		t.Fatal("stage should not have run after cancellation")
	}
}

func TestCommitAtomicRenamesFile(t *testing.T) {
	dir := t.TempDir()
	staging := filepath.Join(dir, "out.staging")
	final := filepath.Join(dir, "out")
	if err := os.WriteFile(staging, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CommitAtomic(staging, final); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(final); err != nil {
		t.Fatalf("final file missing: %v", err)
	}
	if _, err := os.Stat(staging); !os.IsNotExist(err) {
		t.Fatal("staging file should no longer exist after rename")
	}
}
