// Package check provides data root diagnostics (the check command) and the
// pre-run validation (CheckRoot) that the run command performs.
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mlderes/dstoolkit/internal/config"
	"github.com/mlderes/dstoolkit/internal/datastore"
	"github.com/mlderes/dstoolkit/internal/display"
	"github.com/mlderes/dstoolkit/internal/naming"
)

// Sentinel errors returned by CheckRoot.
var (
	ErrRootMissing    = errors.New("data root does not exist")
	ErrRootNotDir     = errors.New("data root is not a directory")
	ErrAreaNotDir     = errors.New("data area exists but is not a directory")
	ErrAreaReadOnly   = errors.New("data area is not writable")
	ErrNoInputMatches = errors.New("recipe input has no matching files")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here rather than importing the logging package so that check
// stays testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck prints the state of the data root: each area's presence,
// writability and table count, and the recipe input resolution when a
// recipe is configured. It reports whether no errors were found.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== Data Root Check ===")
	ok := true

	folder := datastore.NewDataFolder(cfg.DataRoot)
	if err := checkRootDir(folder.Root()); err != nil {
		log.Error("%v: %s", err, folder.Root())
		return false
	}
	log.Success("Root: %s", folder.Root())

	for _, area := range datastore.Areas {
		dir, _ := folder.Area(area)
		if !checkArea(log, area, dir) {
			ok = false
		}
	}

	if cfg.Input.Pattern != "" {
		if !checkInput(cfg, log) {
			ok = false
		}
	} else {
		log.Debug("No recipe input configured; skipping input resolution")
	}
	return ok
}

// checkArea logs one area line. A missing area is only a warning because
// WriteData creates areas on demand.
func checkArea(log Logger, area, dir string) bool {
	fi, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		log.Warn("%-9s missing (created on first write)", area)
		return true
	case err != nil:
		log.Error("%-9s %v", area, err)
		return false
	case !fi.IsDir():
		log.Error("%-9s %v", area, ErrAreaNotDir)
		return false
	}

	if err := probeWritable(dir); err != nil {
		log.Error("%-9s %v: %v", area, ErrAreaReadOnly, err)
		return false
	}
	cands, err := naming.Candidates(dir, "", datastore.TableExt)
	if err != nil {
		log.Error("%-9s %v", area, err)
		return false
	}
	var total int64
	for _, c := range cands {
		total += c.Size
	}
	log.Success("%-9s %d table(s), %s", area, len(cands), display.FormatBytes(total))
	return true
}

// checkInput resolves the recipe input the way the run command would.
func checkInput(cfg *config.Config, log Logger) bool {
	folder := datastore.NewDataFolder(cfg.DataRoot)
	dir, err := folder.Area(cfg.Input.Area)
	if err != nil {
		log.Error("Input: %v", err)
		return false
	}
	name, err := naming.ResolveLatest(dir, cfg.Input.Pattern, datastore.TableExt)
	if err != nil {
		log.Error("Input: %v", err)
		return false
	}
	log.Success("Input: %s", filepath.Join(dir, name))
	return true
}

// CheckRoot is the pre-run validation: the data root must be an existing
// directory, existing areas must be writable directories, and the recipe
// input must resolve. Returns a wrapped sentinel error on failure.
func CheckRoot(cfg *config.Config) error {
	folder := datastore.NewDataFolder(cfg.DataRoot)
	if err := checkRootDir(folder.Root()); err != nil {
		return fmt.Errorf("%w: %s", err, folder.Root())
	}

	for _, area := range datastore.Areas {
		dir, _ := folder.Area(area)
		fi, err := os.Stat(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return fmt.Errorf("%w: %s", ErrAreaNotDir, dir)
		}
		if area == cfg.Output.Area && !cfg.DryRun {
			if err := probeWritable(dir); err != nil {
				return fmt.Errorf("%w: %s", ErrAreaReadOnly, dir)
			}
		}
	}

	dir, err := folder.Area(cfg.Input.Area)
	if err != nil {
		return err
	}
	if _, err := naming.ResolveLatest(dir, cfg.Input.Pattern, datastore.TableExt); err != nil {
		if errors.Is(err, naming.ErrNoMatch) {
			return fmt.Errorf("%w: %v", ErrNoInputMatches, err)
		}
		return err
	}
	return nil
}

// --- internal helpers ---

func checkRootDir(root string) error {
	fi, err := os.Stat(root)
	if os.IsNotExist(err) {
		return ErrRootMissing
	}
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return ErrRootNotDir
	}
	return nil
}

// probeWritable creates and removes a temporary file in dir.
func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".dstoolkit-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
