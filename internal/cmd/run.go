package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shigure/anishelf/internal/config"
	"github.com/shigure/anishelf/internal/fsops"
	"github.com/shigure/anishelf/internal/log"
	"github.com/shigure/anishelf/internal/parse"
	"github.com/shigure/anishelf/internal/plan"
	"github.com/shigure/anishelf/internal/scan"
	"github.com/shigure/anishelf/internal/tui"
)

// folderPlan is the outcome of classifying one input folder.
type folderPlan struct {
	src *scan.Source
	ops []plan.Operation
	err error
}

func runOrganize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	destRoot := cfg.DestRoot
	if destFlag != "" {
		destRoot = destFlag
	}
	if destRoot == "" {
		return fmt.Errorf("no destination root: set --dest or destRoot in the config file")
	}
	archiveRoot := cfg.ArchiveRoot
	if archiveFlag != "" {
		archiveRoot = archiveFlag
	}

	if err := log.ConfigureConsole(logLevel); err != nil {
		return err
	}
	log.SetDryRun(dryRun)

	log.Initialize(cfg.EnableJournal && !dryRun, cfg.LogRetentionDays)
	if err := log.StartSession(os.Args[1:]); err != nil {
		logrus.Warnf("session journal disabled: %v", err)
	}
	defer func() {
		if err := log.EndSession(); err != nil {
			logrus.Warnf("failed to write session journal: %v", err)
		}
	}()

	plans := classifyFolders(cmd, cfg, args)

	// Numbered report and collision pass run over the whole invocation,
	// so duplicate targets across folders are caught too.
	detector := plan.NewDetector()
	var flat []plan.Operation
	for _, fp := range plans {
		if fp.err != nil {
			continue
		}
		detector.Observe(fp.ops)
		flat = append(flat, fp.ops...)
	}
	flat, dupWarnings := detector.Resolve(flat)
	logWarnings(dupWarnings)

	// Hand the resolved operations back to their folders.
	offset := 0
	for i := range plans {
		if plans[i].err != nil {
			continue
		}
		n := len(plans[i].ops)
		plans[i].ops = flat[offset : offset+n]
		offset += n
	}

	if dryRun {
		for i, op := range flat {
			if op.Op == plan.OpSkipDuplicate {
				logrus.Infof("%02d. %s (duplicate, skipped) %s", i+1, op.Target, op.Source)
				continue
			}
			logrus.Infof("%02d. %s <- %s", i+1, op.Target, op.Source)
		}
		failures := 0
		for _, fp := range plans {
			if fp.err != nil {
				logrus.Errorf("%v", fp.err)
				failures++
				continue
			}
			if archiveRoot != "" {
				fsops.Archive(fp.src.Path, archiveRoot, true)
			}
		}
		logrus.Infof("planned %d operations across %d folders, %d folders failed",
			len(flat), len(plans)-failures, failures)
		if failures > 0 {
			return ErrPartialFailure
		}
		return nil
	}

	if interactive {
		ok, err := tui.Run(flat)
		if err != nil {
			return err
		}
		if !ok {
			logrus.Info("aborted, nothing applied")
			return nil
		}
	}

	executor := fsops.NewExecutor(destRoot, false)
	failures := 0
	var total fsops.Result
	for _, fp := range plans {
		if fp.err != nil {
			logrus.Errorf("%v", fp.err)
			failures++
			continue
		}
		res := executor.Execute(fp.ops)
		total.Linked += res.Linked
		total.Existed += res.Existed
		total.Skipped += res.Skipped
		for _, err := range res.Errors {
			logrus.Errorf("%v", err)
		}
		if len(res.Errors) > 0 {
			failures++
			continue
		}
		if archiveRoot != "" {
			if err := fsops.Archive(fp.src.Path, archiveRoot, false); err != nil {
				logrus.Errorf("%v", err)
				failures++
			}
		}
	}

	logrus.Infof("done: %d linked, %d already present, %d duplicates skipped, %d folders failed",
		total.Linked, total.Existed, total.Skipped, failures)

	if failures > 0 {
		return ErrPartialFailure
	}
	return nil
}

// classifyFolders scans and classifies the input folders concurrently,
// preserving argument order in the result.
func classifyFolders(cmd *cobra.Command, cfg *config.Config, args []string) []folderPlan {
	engine := parse.NewEngine()
	plans := make([]folderPlan, len(args))

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(args) {
		workers = len(args)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				plans[i] = classifyFolder(cmd, cfg, engine, args[i])
			}
		}()
	}
	for i := range args {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, fp := range plans {
		if fp.src != nil {
			logrus.Debugf("classified %s (%d files)", fp.src.Name, len(fp.src.Entries))
		}
	}
	return plans
}

func classifyFolder(cmd *cobra.Command, cfg *config.Config, engine *parse.Engine, path string) folderPlan {
	src, err := scan.Folder(cmd.Context(), path, cfg.Ignored)
	if err != nil {
		return folderPlan{err: err}
	}

	classified := engine.ComposeFolder(src.Name, src.Entries)
	for _, c := range classified {
		logWarnings(c.Warnings)
	}
	return folderPlan{src: src, ops: plan.BuildFolder(classified)}
}

func logWarnings(warnings []parse.Warning) {
	for _, w := range warnings {
		logrus.Warnf("%s: %s (%s)", w.Path, w.Detail, w.Code)
	}
}
