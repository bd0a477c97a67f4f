package score

import (
	"testing"

	"sveltedoctor/internal/diag"
)

func TestFromCounts(t *testing.T) {
	tests := []struct {
		name          string
		errors, warns int
		files         int
		want          Result
	}{
		{"clean", 0, 0, 0, Result{100, "Excellent"}},
		{"clean many files", 0, 0, 500, Result{100, "Excellent"}},
		{"one warning in ten files", 0, 1, 10, Result{99, "Excellent"}},
		{"one error one file", 1, 0, 1, Result{74, "Needs Work"}},
		{"density one", 0, 5, 5, Result{90, "Excellent"}},
		{"zero files counts as one", 0, 3, 0, Result{74, "Needs Work"}},
		{"heavy", 10, 10, 1, Result{2, "Critical"}},
		{"good band", 0, 2, 1, Result{82, "Good"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromCounts(tt.errors, tt.warns, tt.files)
			if got != tt.want {
				t.Fatalf("FromCounts(%d, %d, %d) = %+v, want %+v", tt.errors, tt.warns, tt.files, got, tt.want)
			}
		})
	}
}

func TestMonotonic(t *testing.T) {
	prev := 101
	for warnings := 0; warnings < 200; warnings++ {
		s := FromCounts(0, warnings, 7).Score
		if s > prev {
			t.Fatalf("score rose from %d to %d at %d warnings", prev, s, warnings)
		}
		if s < 0 || s > 100 {
			t.Fatalf("score %d out of range", s)
		}
		prev = s
	}
	if FromCounts(1, 0, 3).Score > FromCounts(0, 1, 3).Score {
		t.Fatalf("an error must weigh at least as much as a warning")
	}
}

func TestCalculateAndPassed(t *testing.T) {
	diags := []*diag.Diagnostic{
		{Severity: diag.SevError},
		{Severity: diag.SevWarning},
	}
	got := Calculate(diags, 4)
	if got.Score != 90 || got.Label != "Excellent" || !got.Passed() {
		t.Fatalf("Calculate = %+v", got)
	}
	if (Result{Score: 74}).Passed() {
		t.Fatalf("74 must not pass")
	}
}

func TestLabel(t *testing.T) {
	for score, want := range map[int]string{100: "Excellent", 90: "Excellent", 89: "Good", 75: "Good", 74: "Needs Work", 50: "Needs Work", 49: "Critical", 0: "Critical"} {
		if got := Label(score); got != want {
			t.Errorf("Label(%d) = %q, want %q", score, got, want)
		}
	}
}
