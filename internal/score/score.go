// Package score reduces a diagnostic set to a 0–100 health score.
package score

import (
	"math"

	"fortio.org/safecast"

	"sveltedoctor/internal/diag"
)

const (
	errorWeight   = 3
	warningWeight = 1
	decay         = 10.0

	// PassThreshold is the lowest score the CLI exits 0 for.
	PassThreshold = 75
)

type Result struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// Passed reports whether the score clears PassThreshold.
func (r Result) Passed() bool {
	return r.Score >= PassThreshold
}

// Calculate scores diagnostics over filesScanned files:
// round(100 · e^(−(3·errors + warnings) / max(files, 1) / 10)).
func Calculate(diags []*diag.Diagnostic, filesScanned int) Result {
	errors, warnings := diag.Count(diags)
	return FromCounts(errors, warnings, filesScanned)
}

// FromCounts is Calculate for precomputed severity counts.
func FromCounts(errors, warnings, filesScanned int) Result {
	if errors == 0 && warnings == 0 {
		return Result{Score: 100, Label: Label(100)}
	}
	penalty := float64(errorWeight*errors + warningWeight*warnings)
	density := penalty / float64(max(filesScanned, 1))
	raw := math.Round(100 * math.Exp(-density/decay))
	s, err := safecast.Convert[int](raw)
	if err != nil {
		s = 0
	}
	s = min(max(s, 0), 100)
	return Result{Score: s, Label: Label(s)}
}

// Label names a score band.
func Label(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 50:
		return "Needs Work"
	default:
		return "Critical"
	}
}
