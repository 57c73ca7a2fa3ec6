package pipeline

import "time"

// RunStats records what a recipe run read, did and wrote.
type RunStats struct {
	Steps       int // steps in the recipe
	Current     int // 1-based step being run
	Applied     int
	Failed      int
	Interrupted bool

	Candidates  int    // input files matching the pattern
	InputPath   string // file read
	RowsIn      int
	ColsIn      int
	RowsOut     int
	ColsOut     int
	Outputs     []string // files written, in order
	InputBytes  int64
	OutputBytes int64 // size of the first output
	Elapsed     time.Duration
}

// OK reports whether every step ran and the run was not interrupted.
func (s *RunStats) OK() bool {
	return s.Failed == 0 && !s.Interrupted
}

// SizeDelta returns output minus input bytes. Negative means the table shrank.
func (s *RunStats) SizeDelta() int64 {
	return s.OutputBytes - s.InputBytes
}
