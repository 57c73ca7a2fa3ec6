// Package naming builds versioned data filenames and resolves the most
// recently written file for a stem.
//
// Filenames follow one convention:
//
//	<stem>_<MMdd_HHmmss>.<ext>   timestamped snapshot
//	<stem>_latest.<ext>          rolling "current" snapshot
//
// Types:
//   - Version (captured wall-clock instant or the "latest" marker)
//   - Builder (computes target paths; clock is read on every call)
//   - Candidate (name, modification time, size of a matching entry)
//
// Functions:
//   - (*Builder).Build(dir, stem, suffix, timestamped) → path
//   - ResolveLatest(dir, pattern, ext) → name, or an error wrapping ErrNoMatch
//   - Candidates(dir, pattern, ext) → []Candidate, newest first
//   - ParseVersion(name, year) → stem, Version, ok
//
// Split into outputpath.go (building), resolve.go (lookup), parser.go
// (token parsing).
package naming
