// Package cleaning implements column-level table transforms: renaming,
// dropping, value replacement, boolean/date/type coercion, dictionary
// parsing, missing-row removal and index de-duplication.
//
// Every transform returns a new frame and leaves its input untouched.
// Column arguments are Selectors; failures are lenient by default and
// governed by a Policy.
package cleaning

import (
	"errors"
	"fmt"
	"strings"
)

// Policy decides what a transform does with values or names it cannot use.
type Policy int

const (
	// Ignore leaves unusable values as they are and skips unknown names.
	Ignore Policy = iota
	// Raise fails the whole operation.
	Raise
	// Coerce replaces unusable values with missing (or an empty selection).
	Coerce
)

// ErrInvalidPolicy is returned by ParsePolicy for unknown names.
var ErrInvalidPolicy = errors.New("invalid error policy (use 'ignore', 'raise' or 'coerce')")

func (p Policy) String() string {
	switch p {
	case Ignore:
		return "ignore"
	case Raise:
		return "raise"
	case Coerce:
		return "coerce"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps "ignore", "raise" and "coerce" (any case) to a Policy.
// The empty string is Ignore.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ignore":
		return Ignore, nil
	case "raise":
		return Raise, nil
	case "coerce":
		return Coerce, nil
	}
	return Ignore, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}
