package ui

import (
	"fmt"
	"strings"
	"testing"

	"sveltedoctor/internal/driver"
)

func TestProgressModelCountsAndWindow(t *testing.T) {
	m := NewProgressModel("svelte-doctor", nil).(*progressModel)
	m.applyEvent(driver.Event{Stage: driver.StageScan, Status: driver.StatusDone, Total: 10})
	for i := range 10 {
		file := fmt.Sprintf("src/lib/C%d.svelte", i)
		m.applyEvent(driver.Event{File: file, Stage: driver.StageAnalyze, Status: driver.StatusWorking})
		m.applyEvent(driver.Event{File: file, Stage: driver.StageAnalyze, Status: driver.StatusDone, Diagnostics: i % 2})
	}
	if m.finished != 10 || m.findings != 5 {
		t.Fatalf("finished=%d findings=%d", m.finished, m.findings)
	}
	if len(m.items) != recentFiles {
		t.Fatalf("window holds %d rows, want %d", len(m.items), recentFiles)
	}
	if m.items[len(m.items)-1].path != "src/lib/C9.svelte" {
		t.Fatalf("newest row = %q", m.items[len(m.items)-1].path)
	}
	if _, ok := m.index["src/lib/C0.svelte"]; ok {
		t.Fatalf("oldest row was not evicted")
	}

	view := m.View()
	for _, want := range []string{"10/10 files, 5 finding(s)", "C9.svelte", "1 issue(s)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"src/routes/+page.svelte", 10, "src/rou..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
