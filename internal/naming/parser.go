package naming

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var reVersioned = regexp.MustCompile(`^(.+)_(?:(latest)|(\d{4}_\d{6}))$`)

// ParseVersion splits a versioned filename into its stem and version.
// name may carry a directory and an extension; both are ignored. Timestamp
// tokens have no year, so the caller supplies one; the result is in the
// local zone. ok is false when name does not follow the convention or the
// token is not a valid date in year.
func ParseVersion(name string, year int) (stem string, v Version, ok bool) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	m := reVersioned.FindStringSubmatch(base)
	if m == nil {
		return "", Version{}, false
	}
	if m[2] != "" {
		return m[1], Latest(), true
	}

	t, err := time.ParseInLocation(tokenLayout, m[3], time.Local)
	if err != nil {
		return "", Version{}, false
	}
	at := time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local)
	// Feb 29 in a non-leap year would roll over to Mar 1.
	if at.Month() != t.Month() || at.Day() != t.Day() {
		return "", Version{}, false
	}
	return m[1], Timestamp(at), true
}
