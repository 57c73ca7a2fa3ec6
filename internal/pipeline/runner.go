package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mlderes/dstoolkit/internal/config"
	"github.com/mlderes/dstoolkit/internal/datastore"
	"github.com/mlderes/dstoolkit/internal/display"
	"github.com/mlderes/dstoolkit/internal/frame"
	"github.com/mlderes/dstoolkit/internal/logging"
	"github.com/mlderes/dstoolkit/internal/naming"
)

// Run is the recipe entry point: read the newest input, apply each step,
// write the output. Failures are logged and counted in the returned stats.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	return run(ctx, cfg, log, naming.NewBuilder())
}

func run(ctx context.Context, cfg *config.Config, log *logging.Logger, builder *naming.Builder) (stats RunStats) {
	start := time.Now()
	stats.Steps = len(cfg.Steps)
	defer func() { stats.Elapsed = time.Since(start) }()

	steps, err := BuildSteps(cfg.Steps, log)
	if err != nil {
		log.Error("Invalid recipe: %v", err)
		stats.Failed++
		return stats
	}

	cands, err := Discover(cfg)
	if err != nil {
		log.Error("Input discovery failed: %v", err)
		stats.Failed++
		return stats
	}
	stats.Candidates = len(cands)
	if len(cands) == 0 {
		log.Error("No input matches %s*%s in %s", cfg.Input.Pattern, datastore.TableExt, cfg.Input.Area)
		stats.Failed++
		return stats
	}

	store := datastore.NewStore(datastore.NewDataFolder(cfg.DataRoot))
	store.Builder = builder

	f, path, err := store.ReadLatest(cfg.Input.Pattern, cfg.Input.Area, frame.ReadOptions{IndexCol: cfg.Input.IndexCol})
	if err != nil {
		log.Error("Cannot read input: %v", err)
		stats.Failed++
		return stats
	}
	stats.InputPath = path
	stats.InputBytes = fileSize(path)
	stats.RowsIn, stats.ColsIn = f.Shape()

	logRunHeader(cfg, log, &stats)

	for i, s := range steps {
		stats.Current = i + 1
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			stats.Interrupted = true
			return stats
		}
		log.Debug("[%d/%d] %s", stats.Current, stats.Steps, s.Op)
		out, err := s.Run(f)
		if err != nil {
			log.Error("Step %d (%s) failed: %v", stats.Current, s.Op, err)
			stats.Failed++
			return stats
		}
		f = out
		stats.Applied++
	}
	stats.RowsOut, stats.ColsOut = f.Shape()

	writeOutputs(cfg, log, store, f, &stats)
	stats.Elapsed = time.Since(start)
	logSummary(log, &stats)
	return stats
}

// writeOutputs writes the result table, plus the rolling latest copy when
// configured. Dry runs only report the target path.
func writeOutputs(cfg *config.Config, log *logging.Logger, store *datastore.Store, f *frame.Frame, stats *RunStats) {
	o := cfg.Output
	opts := frame.WriteOptions{
		FloatFormat: o.FloatFormat,
		SkipIndex:   o.SkipIndex,
		IndexLabel:  o.IndexLabel,
		NAValue:     o.NAValue,
		DateFormat:  o.DateFormat,
	}

	versions := []bool{o.Timestamped}
	if o.Timestamped && o.AlsoLatest {
		versions = append(versions, false)
	}

	if cfg.DryRun {
		dir, _ := store.Folder.Area(o.Area)
		for _, ts := range versions {
			log.Success("[DRY] Would write %s", store.Builder.Build(dir, o.Stem, datastore.TableExt, ts))
		}
		return
	}

	for _, ts := range versions {
		path, err := store.WriteData(f, o.Stem, o.Area, ts, opts)
		if err != nil {
			log.Error("Cannot write output: %v", err)
			stats.Failed++
			return
		}
		if len(stats.Outputs) == 0 {
			stats.OutputBytes = fileSize(path)
		}
		stats.Outputs = append(stats.Outputs, path)
		log.Info("  -> %s", path)
	}
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// --- Logging helpers ---

func logRunHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Data root: %s", cfg.DataRoot)
	log.Info("Input: %s (%d candidate(s), %s)", filepath.Base(stats.InputPath), stats.Candidates, display.FormatBytes(stats.InputBytes))
	log.Info("Shape: (%d, %d)", stats.RowsIn, stats.ColsIn)
	if stats.Steps > 0 {
		ops := make([]string, 0, len(cfg.Steps))
		for _, s := range cfg.Steps {
			ops = append(ops, s.Op)
		}
		log.Info("Steps: %s", strings.Join(ops, " -> "))
	} else {
		log.Info("Steps: none (copy only)")
	}
	version := "timestamped"
	if !cfg.Output.Timestamped {
		version = naming.LatestToken
	} else if cfg.Output.AlsoLatest {
		version += " + " + naming.LatestToken
	}
	log.Info("Output: %s/%s (%s)", cfg.Output.Area, cfg.Output.Stem, version)
	if cfg.DryRun {
		log.Info("Dry run: no files will be written")
	}
}

func logSummary(log *logging.Logger, stats *RunStats) {
	if stats.Failed > 0 {
		log.Error("Finished with errors: %d/%d steps applied", stats.Applied, stats.Steps)
		return
	}
	log.Success("Applied %d/%d steps: (%d, %d) -> (%d, %d) in %s",
		stats.Applied, stats.Steps, stats.RowsIn, stats.ColsIn, stats.RowsOut, stats.ColsOut,
		display.FormatDuration(stats.Elapsed))
	if len(stats.Outputs) > 0 {
		log.Info("Size: %s -> %s (%s)",
			display.FormatBytes(stats.InputBytes), display.FormatBytes(stats.OutputBytes),
			display.FormatBytesWithSign(stats.SizeDelta()))
	}
}
