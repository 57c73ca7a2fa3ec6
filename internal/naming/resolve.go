package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ErrNoMatch is returned when no entry in a directory matches the requested
// pattern. It is a precondition failure; callers are not expected to retry.
var ErrNoMatch = errors.New("no files matched")

// Candidate is one directory entry matching a lookup pattern.
type Candidate struct {
	Name    string
	ModTime time.Time
	Size    int64
}

// Candidates returns every regular entry of dir whose name matches
// <pattern>*<ext>, newest first. Entries with equal modification times are
// ordered by name, greatest first. Glob metacharacters in pattern are honored.
// A missing or unreadable dir yields no candidates rather than an error.
func Candidates(dir, pattern, ext string) ([]Candidate, error) {
	if dir == "" {
		dir = "."
	}
	glob := pattern + "*" + NormalizeExt(ext)

	fsys := os.DirFS(dir)
	matches, err := fs.Glob(fsys, glob)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", glob, err)
	}

	out := make([]Candidate, 0, len(matches))
	for _, name := range matches {
		fi, err := fs.Stat(fsys, name)
		if err != nil || fi.IsDir() {
			continue
		}
		out = append(out, Candidate{Name: name, ModTime: fi.ModTime(), Size: fi.Size()})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].ModTime.After(out[j].ModTime)
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

// ResolveLatest returns the bare name of the most recently modified entry in
// dir matching <pattern>*<ext>. ext gains a leading "." if it lacks one.
// Ties on modification time go to the lexicographically greatest name.
// Every failure, a malformed glob in pattern included, wraps ErrNoMatch.
func ResolveLatest(dir, pattern, ext string) (string, error) {
	cands, err := Candidates(dir, pattern, ext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoMatch, err)
	}
	if len(cands) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, filepath.Join(dir, pattern)+"*"+NormalizeExt(ext))
	}
	return cands[0].Name, nil
}
