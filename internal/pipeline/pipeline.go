// Package pipeline orchestrates the offline preprocessing stages (P1-P6)
// as a linear DAG (spec section 4.9): Cleaner, ClosureBuilder, BaseFonter,
// GlyphSerializer, HeaderPacker, CmapCompacter. Each stage runs to
// completion before the next begins; there are no suspension points
// inside a stage (spec section 5).
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Stage names, used for both logging and the cancellation checkpoint
// between stages.
const (
	StageClean        = "clean"
	StageClosure      = "closure"
	StageBaseFont     = "basefont"
	StageGlyphSerial  = "glyphserialize"
	StageHeaderPack   = "headerpack"
	StageCmapCompact  = "cmapcompact"
)

// errCancelled is returned by Run when the cancellation function reports
// true between stages.
var errCancelled = fmt.Errorf("pipeline: cancelled")

// Stage is one preprocessing step. It receives and returns the shared
// working state; a non-nil error aborts the run.
type Stage struct {
	Name string
	Run  func(*State) error
}

// State carries whatever intermediate data stages pass to each other.
// Kept as a flexible map instead of a fixed struct so ambient diagnostics
// (stage timings, warnings) and stage outputs share one place.
type State struct {
	WorkDir string
	Values  map[string]interface{}
}

// NewState creates an empty pipeline state rooted at workDir, the
// directory staged output files are written into before the final atomic
// rename.
func NewState(workDir string) *State {
	return &State{WorkDir: workDir, Values: map[string]interface{}{}}
}

// Run executes stages in order, checking cancel() between each one.
// On cancellation or error, every "*.staging" file directly under
// st.WorkDir is removed before returning, per spec section 5's
// "partial files are removed" rule.
func Run(logger *slog.Logger, st *State, stages []Stage, cancel func() bool) error {
	for _, stage := range stages {
		if cancel != nil && cancel() {
			logger.Warn("pipeline cancelled", "stage", stage.Name)
			cleanupStaging(st.WorkDir)
			return errCancelled
		}
		logger.Info("stage starting", "stage", stage.Name)
		if err := stage.Run(st); err != nil {
			logger.Error("stage failed", "stage", stage.Name, "error", err)
			cleanupStaging(st.WorkDir)
			return fmt.Errorf("pipeline: stage %s: %w", stage.Name, err)
		}
		logger.Info("stage complete", "stage", stage.Name)
	}
	return nil
}

func cleanupStaging(workDir string) {
	matches, _ := filepath.Glob(filepath.Join(workDir, "*.staging"))
	for _, m := range matches {
		_ = os.Remove(m)
	}
}

// CommitAtomic renames a staged file into place. cmd/tachyfont-build does
// not use this package: it writes each artifact directly into the output
// directory, so a failed build can leave some artifacts written.
func CommitAtomic(stagingPath, finalPath string) error {
	return os.Rename(stagingPath, finalPath)
}
