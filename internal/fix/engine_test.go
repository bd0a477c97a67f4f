package fix

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sveltedoctor/internal/classify"
	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/rules"
)

func fixable(id string, line int) *diag.Diagnostic {
	return &diag.Diagnostic{RuleID: id, Severity: diag.SevError, Line: line, Fixable: true}
}

func TestApplyFixesGroupsByRule(t *testing.T) {
	src := "<script>\nexport let a;\nexport let b = 1;\n$: double = a * 2;\n</script>\n<slot />\n"
	diags := []*diag.Diagnostic{
		fixable("sv-no-export-let", 2),
		fixable("sv-no-reactive-statements", 4),
		fixable("sv-no-export-let", 3),
		fixable("sv-prefer-snippets", 6),
		{RuleID: "sv-no-effect-state-mutation", Line: 1},
	}
	got, ok := ApplyFixes(src, diags, rules.Default())
	if !ok {
		t.Fatalf("expected a change")
	}
	want := "<script>\nlet { a, b = 1 } = $props();\n\nlet double = $derived(a * 2);\n</script>\n{@render children?.()}\n"
	if got != want {
		t.Fatalf("patched text mismatch:\n%s\nwant:\n%s", got, want)
	}

	again, ok := ApplyFixes(got, diags, rules.Default())
	if ok || again != got {
		t.Fatalf("second pass changed the text: %q", again)
	}
}

func TestApplyFixesIgnoresNonFixable(t *testing.T) {
	src := "let x = 1;"
	got, ok := ApplyFixes(src, []*diag.Diagnostic{{RuleID: "sv-no-export-let"}}, rules.Default())
	if ok || got != src {
		t.Fatalf("non-fixable diagnostic produced a change: %q", got)
	}
}

func TestApplyRulesRecordsSkips(t *testing.T) {
	noop := &rules.Rule{
		ID:    "test-noop",
		Roles: classify.Roles(classify.RoleComponent),
		Fix:   func(src string, _ *diag.Diagnostic) (string, bool) { return src, false },
	}
	boom := &rules.Rule{
		ID:    "test-boom",
		Roles: classify.Roles(classify.RoleComponent),
		Fix:   func(string, *diag.Diagnostic) (string, bool) { panic("bad regexp state") },
	}
	upper := &rules.Rule{
		ID:    "test-upper",
		Roles: classify.Roles(classify.RoleComponent),
		Fix: func(src string, _ *diag.Diagnostic) (string, bool) {
			if src == "ABC" {
				return src, false
			}
			return "ABC", true
		},
	}
	reg := rules.NewRegistry(noop, boom, upper)
	out, applied, skipped := applyRules("abc", []*diag.Diagnostic{
		fixable("test-noop", 1),
		fixable("test-boom", 1),
		fixable("test-upper", 1),
		fixable("test-upper", 2),
		fixable("test-missing", 1),
	}, reg, "a.svelte", nil)

	if out != "ABC" {
		t.Fatalf("out = %q", out)
	}
	if diff := cmp.Diff([]AppliedFix{{RuleID: "test-upper", PrimaryPath: "a.svelte", Count: 1}}, applied); diff != "" {
		t.Fatalf("applied mismatch (-want +got):\n%s", diff)
	}
	want := []SkippedFix{
		{RuleID: "test-noop", PrimaryPath: "a.svelte", Reason: "fix made no change"},
		{RuleID: "test-boom", PrimaryPath: "a.svelte", Reason: "fix panicked: bad regexp state"},
		{RuleID: "test-missing", PrimaryPath: "a.svelte", Reason: "rule has no fix"},
	}
	if diff := cmp.Diff(want, skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyRollsBackUnparseablePatch(t *testing.T) {
	breaker := &rules.Rule{
		ID:    "test-break",
		Roles: classify.Roles(classify.RolePageServer),
		Fix: func(src string, _ *diag.Diagnostic) (string, bool) {
			return src + "let = ;\n", true
		},
	}
	appender := &rules.Rule{
		ID:    "test-append",
		Roles: classify.Roles(classify.RolePageServer),
		Fix: func(src string, _ *diag.Diagnostic) (string, bool) {
			if strings.Contains(src, "const ok") {
				return src, false
			}
			return src + "const ok = 1;\n", true
		},
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "+page.server.ts")
	if err := os.WriteFile(path, []byte("export const x = 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	files := []File{{
		Path:        path,
		DisplayPath: "src/routes/+page.server.ts",
		Role:        classify.RolePageServer,
		Diagnostics: []*diag.Diagnostic{fixable("test-break", 1), fixable("test-append", 1)},
	}}

	res, err := Apply(context.Background(), files, ApplyOptions{Registry: rules.NewRegistry(breaker, appender)})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "export const x = 1;\nconst ok = 1;\n" {
		t.Fatalf("written text = %q", data)
	}
	if diff := cmp.Diff([]AppliedFix{{RuleID: "test-append", PrimaryPath: "src/routes/+page.server.ts", Count: 1}}, res.Applied); diff != "" {
		t.Fatalf("applied mismatch (-want +got):\n%s", diff)
	}
	want := []SkippedFix{{RuleID: "test-break", PrimaryPath: "src/routes/+page.server.ts", Reason: "fix produced unparseable text"}}
	if diff := cmp.Diff(want, res.Skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyWithoutRoleSkipsCheck(t *testing.T) {
	breaker := &rules.Rule{
		ID:    "test-break",
		Roles: classify.Roles(classify.RolePageServer),
		Fix: func(src string, _ *diag.Diagnostic) (string, bool) {
			if strings.HasSuffix(src, "let = ;\n") {
				return src, false
			}
			return src + "let = ;\n", true
		},
	}
	out, applied, skipped := applyRules("const x = 1;\n", []*diag.Diagnostic{fixable("test-break", 1)}, rules.NewRegistry(breaker), "a.ts", parseCheck(context.Background(), classify.RoleUnknown))
	if out != "const x = 1;\nlet = ;\n" || len(applied) != 1 || len(skipped) != 0 {
		t.Fatalf("out=%q applied=%+v skipped=%+v", out, applied, skipped)
	}
}

func TestApplyWritesAndPreservesMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Card.svelte")
	src := "<script>\nexport let title;\n</script>\n<h1>{title}</h1>\n"
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	files := []File{{Path: path, DisplayPath: "Card.svelte", Diagnostics: []*diag.Diagnostic{fixable("sv-no-export-let", 2)}}}

	res, err := Apply(context.Background(), files, ApplyOptions{Mode: ApplyModeDryRun, Registry: rules.Default()})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != src {
		t.Fatalf("dry run wrote the file")
	}
	if diff := cmp.Diff([]FileChange{{Path: "Card.svelte", EditCount: 1}}, res.FileChanges); diff != "" {
		t.Fatalf("dry-run changes mismatch (-want +got):\n%s", diff)
	}

	res, err = Apply(context.Background(), files, ApplyOptions{Mode: ApplyModeAll, Registry: rules.Default()})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<script>\nlet { title } = $props();\n</script>\n<h1>{title}</h1>\n" {
		t.Fatalf("written text = %q", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
	if len(res.FileChanges) != 1 || !res.FileChanges[0].Written {
		t.Fatalf("file changes = %+v", res.FileChanges)
	}

	_, err = Apply(context.Background(), files, ApplyOptions{Mode: ApplyModeAll, Registry: rules.Default()})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("re-applying: err = %v, want ErrNoFixes", err)
	}
}

func TestFixableCount(t *testing.T) {
	files := []File{
		{Diagnostics: []*diag.Diagnostic{fixable("a", 1), {RuleID: "b"}}},
		{Diagnostics: []*diag.Diagnostic{fixable("c", 1)}},
	}
	if n := FixableCount(files); n != 2 {
		t.Fatalf("FixableCount = %d", n)
	}
}
