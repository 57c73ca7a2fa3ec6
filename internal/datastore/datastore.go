// Package datastore maps the conventional data folder layout (raw,
// processed, interim, external) onto disk and reads and writes versioned
// CSV tables inside it.
package datastore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mlderes/dstoolkit/internal/frame"
	"github.com/mlderes/dstoolkit/internal/naming"
)

// Area names.
const (
	AreaRaw       = "raw"
	AreaProcessed = "processed"
	AreaInterim   = "interim"
	AreaExternal  = "external"
)

// Areas lists the subareas in display order.
var Areas = []string{AreaRaw, AreaProcessed, AreaInterim, AreaExternal}

// TableExt is the extension written and read by the store.
const TableExt = ".csv"

// ErrUnknownArea is returned for an area name outside Areas.
var ErrUnknownArea = errors.New("unknown data area")

// DataFolder is a data root with its four subareas. Directories are not
// created until something is written.
type DataFolder struct {
	root string
}

// NewDataFolder returns a DataFolder rooted at root ("" means ".").
func NewDataFolder(root string) *DataFolder {
	if root == "" {
		root = "."
	}
	return &DataFolder{root: filepath.Clean(root)}
}

func (d *DataFolder) Root() string      { return d.root }
func (d *DataFolder) Raw() string       { return filepath.Join(d.root, AreaRaw) }
func (d *DataFolder) Processed() string { return filepath.Join(d.root, AreaProcessed) }
func (d *DataFolder) Interim() string   { return filepath.Join(d.root, AreaInterim) }
func (d *DataFolder) External() string  { return filepath.Join(d.root, AreaExternal) }

// Area returns the path of a subarea by name.
func (d *DataFolder) Area(name string) (string, error) {
	for _, a := range Areas {
		if a == name {
			return filepath.Join(d.root, a), nil
		}
	}
	return "", fmt.Errorf("%w: %q (use raw, processed, interim or external)", ErrUnknownArea, name)
}

// Ensure creates the subarea directory if needed and returns its path.
func (d *DataFolder) Ensure(name string) (string, error) {
	dir, err := d.Area(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}

// Store writes and reads tables in a DataFolder.
type Store struct {
	Folder  *DataFolder
	Builder *naming.Builder
}

// NewStore returns a Store using the wall clock for version tokens.
func NewStore(folder *DataFolder) *Store {
	return &Store{Folder: folder, Builder: naming.NewBuilder()}
}

// WriteData writes f to area as {name}_{MMdd_HHmmss}.csv, or as
// {name}_latest.csv when timestamped is false, and returns the path.
// The area directory is created on demand and the file is replaced
// atomically.
func (s *Store) WriteData(f *frame.Frame, name, area string, timestamped bool, opts frame.WriteOptions) (string, error) {
	dir, err := s.Folder.Ensure(area)
	if err != nil {
		return "", err
	}
	path := s.Builder.Build(dir, name, TableExt, timestamped)
	if err := writeAtomic(path, f, opts); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ReadLatest reads the most recently modified {name}*.csv in area.
// The returned path is the file that was read.
func (s *Store) ReadLatest(name, area string, opts frame.ReadOptions) (*frame.Frame, string, error) {
	dir, err := s.Folder.Area(area)
	if err != nil {
		return nil, "", err
	}
	base, err := naming.ResolveLatest(dir, name, TableExt)
	if err != nil {
		return nil, "", err
	}
	path := filepath.Join(dir, base)
	fh, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer fh.Close()

	f, err := frame.ReadCSV(fh, opts)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return f, path, nil
}

// LatestReadOptions reads with the first column as the row index, the
// layout WriteData produces.
func LatestReadOptions() frame.ReadOptions {
	return frame.ReadOptions{IndexCol: 0}
}

func writeAtomic(path string, f *frame.Frame, opts frame.WriteOptions) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := frame.WriteCSV(tmp, f, opts); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
