package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd, sess := newRootCmd()
	defer sess.close()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--ui", "off", "--color", "off"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		value   string
		score   bool
		agent   bool
		want    outputFormat
		wantErr bool
	}{
		{"pretty", false, false, formatPretty, false},
		{"", false, false, formatPretty, false},
		{"JSON", false, false, formatJSON, false},
		{"sarif", false, false, formatSarif, false},
		{"json", true, false, formatScore, false},
		{"json", false, true, formatAgent, false},
		{"xml", false, false, "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.value, tt.score, tt.agent)
		if (err != nil) != tt.wantErr {
			t.Fatalf("resolveFormat(%q): err = %v", tt.value, err)
		}
		if got != tt.want {
			t.Fatalf("resolveFormat(%q, %v, %v) = %q, want %q", tt.value, tt.score, tt.agent, got, tt.want)
		}
	}
}

func TestConfirmFixes(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if got := confirmFixes(strings.NewReader(tt.input), &out, 3); got != tt.want {
			t.Errorf("confirmFixes(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.HasPrefix(out.String(), "Found 3 fixable issue(s). Apply fixes? (y/N) ") {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

func TestModes(t *testing.T) {
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected an error for an unknown ui mode")
	}
	if m, _ := readUIMode(" ON "); m != uiModeOn {
		t.Fatalf("ui mode = %q", m)
	}
	if on, _ := readColorMode("on", nil); !on {
		t.Fatalf("--color on must enable colours")
	}
	if on, _ := readColorMode("auto", nil); on {
		t.Fatalf("--color auto without a terminal must disable colours")
	}
	if _, err := readColorMode("rainbow", nil); err == nil {
		t.Fatalf("expected an error for an unknown colour mode")
	}
}

func TestScanCleanProject(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"src/lib/Counter.svelte": "<script>\n\tlet { start = 0 } = $props();\n</script>\n\n<p>{start}</p>\n",
	})
	out, err := execute(t, "", root, "--score")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "100\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestScanFailingProjectJSON(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"src/routes/+page.server.ts": "let cache = new Map();\nlet hits = 0;\nlet misses = 0;\n",
	})
	out, err := execute(t, "", root, "--format", "json")
	if !errors.Is(err, errScoreBelowThreshold) {
		t.Fatalf("err = %v, want errScoreBelowThreshold", err)
	}
	var rep struct {
		Score        int    `json:"score"`
		FilesScanned int    `json:"filesScanned"`
		Diagnostics  []struct {
			RuleID   string `json:"ruleId"`
			FilePath string `json:"filePath"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if rep.FilesScanned != 1 || len(rep.Diagnostics) != 3 || rep.Score >= 75 {
		t.Fatalf("report = %+v", rep)
	}
	for _, d := range rep.Diagnostics {
		if d.RuleID != "kit-no-shared-server-state" || d.FilePath != "src/routes/+page.server.ts" {
			t.Fatalf("diagnostic = %+v", d)
		}
	}

	// ignoring the rule from the command line clears the report
	out, err = execute(t, "", root, "--score", "--ignore-rule", "kit-no-shared-server-state")
	if err != nil || out != "100\n" {
		t.Fatalf("ignored run: out=%q err=%v", out, err)
	}
}

func TestFixCommandConfirmation(t *testing.T) {
	component := "src/lib/Greeting.svelte"
	files := map[string]string{component: "<script>\nexport let name;\n</script>\n\n<p>{name}</p>\n"}

	tests := []struct {
		name      string
		stdin     string
		args      []string
		wantFixed bool
	}{
		{"declined", "n\n", []string{"fix"}, false},
		{"accepted", "y\n", []string{"fix"}, true},
		{"yes flag", "", []string{"--fix", "-y"}, true},
		{"dry run", "", []string{"--fix", "--dry-run"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeFiles(t, files)
			args := append(append([]string{}, tt.args...), root)
			if _, err := execute(t, tt.stdin, args...); err != nil && !errors.Is(err, errScoreBelowThreshold) {
				t.Fatalf("execute: %v", err)
			}
			data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(component)))
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.Contains(string(data), "$props()"); got != tt.wantFixed {
				t.Fatalf("fixed = %v, want %v:\n%s", got, tt.wantFixed, data)
			}
		})
	}
}

func TestDryRunRequiresFix(t *testing.T) {
	if _, err := execute(t, "", t.TempDir(), "--dry-run"); err == nil || !strings.Contains(err.Error(), "--dry-run requires --fix") {
		t.Fatalf("err = %v", err)
	}
}

func TestMissingRootFails(t *testing.T) {
	_, err := execute(t, "", filepath.Join(t.TempDir(), "nope"))
	if err == nil || errors.Is(err, errScoreBelowThreshold) {
		t.Fatalf("err = %v, want a driver error", err)
	}
}

func TestRulesJSON(t *testing.T) {
	out, err := execute(t, "", "rules", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var infos []ruleInfo
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(infos) != 22 || infos[0].ID != "sv-no-export-let" || !infos[0].Fixable {
		t.Fatalf("rules = %+v", infos[:1])
	}
}

func TestRulesPretty(t *testing.T) {
	out, err := execute(t, "", "rules")
	if err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(out, "\n", 2)[0]
	if !strings.HasPrefix(first, "sv-no-export-let ") || !strings.HasSuffix(first, "(fixable)") {
		t.Fatalf("first line = %q", first)
	}
}

func TestInitCommand(t *testing.T) {
	root := t.TempDir()
	out, err := execute(t, "", "init", root)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Created .github/workflows/svelte-doctor.yml") {
		t.Fatalf("output:\n%s", out)
	}
	out, err = execute(t, "", "init", root)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "Created") || !strings.Contains(out, "Skipped .cursorrules") {
		t.Fatalf("second run output:\n%s", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "", "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"version"}, keys(got)); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestTraceFileWrittenWhenScoreFails(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"src/routes/+page.server.ts": "let cache = new Map();\nlet hits = 0;\nlet misses = 0;\n",
	})
	tracePath := filepath.Join(t.TempDir(), "scan.ndjson")
	_, err := execute(t, "", "--trace", tracePath, "--trace-level", "debug", "--score", root)
	if !errors.Is(err, errScoreBelowThreshold) {
		t.Fatalf("err = %v", err)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "diagnose") || !strings.Contains(string(data), "+page.server.ts") {
		t.Fatalf("trace lacks driver and file spans:\n%s", data)
	}
}
