package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// LatestToken is the version token of the rolling "current" file.
const LatestToken = "latest"

// tokenLayout is MMdd_HHmmss. The year is deliberately absent.
const tokenLayout = "0102_150405"

// Version is the token embedded between stem and extension. The zero value
// is the "latest" marker.
type Version struct {
	at    time.Time
	stamp bool
}

// Latest returns the "latest" marker version.
func Latest() Version { return Version{} }

// Timestamp captures t as a version. Callers pass the instant they want
// recorded; nothing is cached between calls.
func Timestamp(t time.Time) Version { return Version{at: t, stamp: true} }

// IsLatest reports whether v is the "latest" marker.
func (v Version) IsLatest() bool { return !v.stamp }

// Time returns the captured instant (zero for the "latest" marker).
func (v Version) Time() time.Time { return v.at }

// Token renders the version as it appears in a filename.
func (v Version) Token() string {
	if !v.stamp {
		return LatestToken
	}
	return fmt.Sprintf("%02d%02d_%02d%02d%02d",
		int(v.at.Month()), v.at.Day(), v.at.Hour(), v.at.Minute(), v.at.Second())
}

func (v Version) String() string { return v.Token() }

// Builder computes versioned target paths. Now is read on every timestamped
// Build call.
type Builder struct {
	Now func() time.Time
}

// NewBuilder returns a Builder on the wall clock.
func NewBuilder() *Builder {
	return &Builder{Now: time.Now}
}

// Build returns <dir>/<stem>_<token><suffix>, where token is the current
// MMdd_HHmmss when timestamped and "latest" otherwise. It performs no I/O.
func (b *Builder) Build(dir, stem, suffix string, timestamped bool) string {
	v := Latest()
	if timestamped {
		v = Timestamp(b.now())
	}
	return BuildVersion(dir, stem, suffix, v)
}

func (b *Builder) now() time.Time {
	if b == nil || b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// BuildVersion returns <dir>/<stem>_<v.Token()><suffix>.
func BuildVersion(dir, stem, suffix string, v Version) string {
	return filepath.Join(dir, stem+"_"+v.Token()+NormalizeExt(suffix))
}

// NormalizeExt prefixes ext with "." when it has no leading dot. The empty
// string stays empty.
func NormalizeExt(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
