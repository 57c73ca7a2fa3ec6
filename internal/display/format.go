package display

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mlderes/dstoolkit/internal/naming"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatBytesWithSign prefixes with + or - for delta display (e.g. "- 1.2 GiB").
func FormatBytesWithSign(bytes int64) string {
	sign := ""
	if bytes > 0 {
		sign = "+ "
	} else if bytes < 0 {
		sign = "- "
		bytes = -bytes
	}
	return sign + FormatBytes(bytes)
}

// CandidateTimeFormat is the modification time layout of WriteCandidates.
const CandidateTimeFormat = "2006-01-02 15:04:05"

// WriteCandidates prints one aligned row per candidate: modification time,
// size and name. The first row is marked with "*" as the resolved file.
func WriteCandidates(w io.Writer, cands []naming.Candidate) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, c := range cands {
		mark := " "
		if i == 0 {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, c.ModTime.Local().Format(CandidateTimeFormat), FormatBytes(c.Size), c.Name)
	}
	return tw.Flush()
}

// FormatDuration renders elapsed time rounded for summaries (e.g. "1.2s").
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
