package ledger

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffStats captures basic statistics about a unified-diff output.
type DiffStats struct {
	Added   int
	Removed int
}

// Diff produces a unified diff between two ledger renderings. Identical
// inputs return an empty diff.
func Diff(before, after []byte, location string, contextLines int) (string, DiffStats, error) {
	if contextLines <= 0 {
		contextLines = 3
	}
	if string(before) == string(after) {
		return "", DiffStats{}, nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: location + " (current)",
		ToFile:   location + " (issued)",
		Context:  contextLines,
	}
	patch, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", DiffStats{}, err
	}
	var stats DiffStats
	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			stats.Added++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			stats.Removed++
		}
	}
	return patch, stats, nil
}
