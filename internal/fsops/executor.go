// Package fsops applies operation plans to the filesystem: hard links
// under the destination root and archival moves of finished folders.
package fsops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/shigure/anishelf/internal/log"
	"github.com/shigure/anishelf/internal/plan"
)

// Result summarizes one Execute call.
type Result struct {
	// Linked counts hard links actually created.
	Linked int
	// Existed counts targets that were already in place. Re-running
	// over a partially organized library is expected, so these count
	// as successes.
	Existed int
	// Skipped counts duplicate-target operations left untouched.
	Skipped int
	// Errors holds one entry per failed operation.
	Errors []error
}

// Executor applies operation plans under a destination root.
type Executor struct {
	// DestRoot is the library root all targets are relative to.
	DestRoot string
	// DryRun reports every action without touching the filesystem.
	DryRun bool

	madeDirs map[string]bool
}

// NewExecutor returns an executor rooted at destRoot.
func NewExecutor(destRoot string, dryRun bool) *Executor {
	return &Executor{
		DestRoot: destRoot,
		DryRun:   dryRun,
		madeDirs: make(map[string]bool),
	}
}

// Execute applies the operations in order. A failed operation is
// recorded and does not stop the rest of the plan.
func (e *Executor) Execute(ops []plan.Operation) Result {
	var res Result
	for _, op := range ops {
		switch op.Op {
		case plan.OpSkipDuplicate:
			res.Skipped++
			logrus.Warnf("skip duplicate target %s (from %s)", op.Target, op.Source)
			if !e.DryRun {
				log.LogSkip(op.Source, op.Target, fmt.Errorf("duplicate target"))
			}
		case plan.OpHardlink:
			created, err := e.link(op)
			if err != nil {
				res.Errors = append(res.Errors, err)
				continue
			}
			if created {
				res.Linked++
			} else {
				res.Existed++
			}
		}
	}
	return res
}

// link places one hard link, creating parent directories as needed.
// Returns whether a new link was made; an already present target is
// success without creation.
func (e *Executor) link(op plan.Operation) (bool, error) {
	rel, err := plan.SanitizeRelPath(op.Target)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op.Target, err)
	}
	destPath := filepath.Join(e.DestRoot, rel)

	if e.DryRun {
		logrus.Infof("link %s <- %s", destPath, op.Source)
		return true, nil
	}

	destDir := filepath.Dir(destPath)
	if !e.madeDirs[destDir] {
		if err := os.MkdirAll(destDir, 0755); err != nil {
			err = fmt.Errorf("failed to create directory %s: %w", destDir, err)
			log.LogMkdir(destDir, false, err)
			return false, err
		}
		log.LogMkdir(destDir, true, nil)
		e.madeDirs[destDir] = true
	}

	if _, err := os.Stat(destPath); err == nil {
		// Already linked on a previous run.
		log.LogLink(op.Source, destPath, true, nil)
		logrus.Debugf("target exists, kept: %s", destPath)
		return false, nil
	}

	if err := os.Link(op.Source, destPath); err != nil {
		if os.IsExist(err) {
			log.LogLink(op.Source, destPath, true, nil)
			return false, nil
		}
		err = fmt.Errorf("failed to create hard link (possibly cross-filesystem or unsupported): %w", err)
		log.LogLink(op.Source, destPath, false, err)
		return false, fmt.Errorf("%s -> %s: %w", op.Source, destPath, err)
	}

	log.LogLink(op.Source, destPath, true, nil)
	logrus.Infof("linked %s", destPath)
	return true, nil
}

// Archive moves a fully processed source folder under archiveRoot. The
// move keeps the folder's base name; a name clash leaves the source in
// place with a warning.
func Archive(srcFolder, archiveRoot string, dryRun bool) error {
	target := filepath.Join(archiveRoot, filepath.Base(srcFolder))

	if dryRun {
		logrus.Infof("archive %s -> %s", srcFolder, target)
		return nil
	}

	if err := os.MkdirAll(archiveRoot, 0755); err != nil {
		return fmt.Errorf("failed to create archive root %s: %w", archiveRoot, err)
	}
	if _, err := os.Stat(target); err == nil {
		logrus.Warnf("archive target %s already exists, leaving %s in place", target, srcFolder)
		return nil
	}

	if err := os.Rename(srcFolder, target); err != nil {
		log.LogMove(srcFolder, target, false, err)
		return fmt.Errorf("failed to archive %s: %w", srcFolder, err)
	}
	log.LogMove(srcFolder, target, true, nil)
	logrus.Infof("archived %s", srcFolder)
	return nil
}
