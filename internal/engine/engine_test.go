package engine_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sveltedoctor/internal/classify"
	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/engine"
	"sveltedoctor/internal/rules"
	"sveltedoctor/internal/trace"
)

func TestAnalyzeFilePositions(t *testing.T) {
	src := "<script>\n  export let name;\n</script>\n<p>{name}</p>\n"
	got := engine.AnalyzeFile(context.Background(), "src/lib/Hello.svelte", classify.RoleComponent, []byte(src), rules.Default())
	if len(got) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(got), got)
	}
	d := got[0]
	want := diag.Diagnostic{
		RuleID:           "sv-no-export-let",
		Severity:         diag.SevError,
		FilePath:         "src/lib/Hello.svelte",
		Line:             2,
		Column:           2,
		Message:          d.Message,
		AgentInstruction: "This is Svelte 5. Replace all `export let` props with a single `let { ...props } = $props()` destructuring.",
		Fixable:          true,
		CodeSnippet:      "export let name;",
		Primary:          d.Primary,
	}
	if diff := cmp.Diff(want, *d); diff != "" {
		t.Fatalf("diagnostic mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(d.Message, "export let") {
		t.Fatalf("message = %q", d.Message)
	}
}

func TestAnalyzeFileRoleGating(t *testing.T) {
	calls := 0
	counting := &rules.Rule{
		ID:       "test-counting",
		Severity: diag.SevWarning,
		Roles:    classify.Roles(classify.RolePageServer),
		Analyze:  func(*rules.Tree, *rules.Context) { calls++ },
	}
	reg := rules.NewRegistry(counting)

	// config files run no rules, so even garbage is never parsed
	if got := engine.AnalyzeFile(context.Background(), "svelte.config.js", classify.RoleConfig, []byte("{{{"), reg); got != nil {
		t.Fatalf("got %v for a role with no rules", got)
	}
	if calls != 0 {
		t.Fatalf("rule ran for a non-applicable role")
	}
	engine.AnalyzeFile(context.Background(), "src/routes/+page.server.ts", classify.RolePageServer, []byte("export const x = 1;\n"), reg)
	if calls != 1 {
		t.Fatalf("rule ran %d times, want 1", calls)
	}
}

func TestAnalyzeFileParseFailure(t *testing.T) {
	tests := []struct {
		name string
		role classify.Role
		src  string
	}{
		{"broken script", classify.RolePageServer, "let cache = ;\n"},
		{"unterminated script block", classify.RoleComponent, "<script>\nexport let a;\n"},
		{"broken component script", classify.RoleComponent, "<script>\nexport let = ;\n</script>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.AnalyzeFile(context.Background(), "f", tt.role, []byte(tt.src), rules.Default())
			if len(got) != 0 {
				t.Fatalf("got %d diagnostics for unparseable input", len(got))
			}
		})
	}
}

func TestAnalyzeFileIsolatesPanics(t *testing.T) {
	exploding := &rules.Rule{
		ID:       "test-exploding",
		Severity: diag.SevError,
		Roles:    classify.Roles(classify.RolePageServer),
		Analyze: func(t *rules.Tree, ctx *rules.Context) {
			ctx.Report(t.Script, "reported before the panic")
			panic("unexpected tree shape")
		},
	}
	healthy := &rules.Rule{
		ID:       "test-healthy",
		Severity: diag.SevWarning,
		Roles:    classify.Roles(classify.RolePageServer),
		Analyze: func(t *rules.Tree, ctx *rules.Context) {
			for _, stmt := range t.Script.Body {
				ctx.Report(stmt, "statement")
			}
		},
	}
	var logs bytes.Buffer
	ctx := trace.WithTracer(context.Background(), trace.NewStreamTracer(&logs, trace.LevelWarn, trace.FormatText))

	got := engine.AnalyzeFile(ctx, "src/routes/+page.server.ts", classify.RolePageServer,
		[]byte("const a = 1;\nconst b = 2;\n"), rules.NewRegistry(exploding, healthy))

	var ids []string
	var lines []int
	for _, d := range got {
		ids = append(ids, d.RuleID)
		lines = append(lines, d.Line)
	}
	if diff := cmp.Diff([]string{"test-healthy", "test-healthy"}, ids); diff != "" {
		t.Fatalf("rule ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "rule panicked (test-exploding)") {
		t.Fatalf("panic not logged: %q", logs.String())
	}
}

func TestAnalyzeFileNilLocation(t *testing.T) {
	r := &rules.Rule{
		ID:       "test-nil",
		Severity: diag.SevWarning,
		Roles:    classify.Roles(classify.RoleLibServer),
		Fix:      func(src string, _ *diag.Diagnostic) (string, bool) { return src, false },
		Analyze: func(_ *rules.Tree, ctx *rules.Context) {
			ctx.Report(nil, "file level")
		},
	}
	got := engine.AnalyzeFile(context.Background(), "src/lib/server/db.ts", classify.RoleLibServer,
		[]byte("  import x from 'y';\n"), rules.NewRegistry(r))
	if len(got) != 1 {
		t.Fatalf("got %d diagnostics", len(got))
	}
	d := got[0]
	if d.Line != 1 || d.Column != 0 || !d.Fixable || d.CodeSnippet != "import x from 'y';" {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestApplicableKeepsRegistryOrder(t *testing.T) {
	var ids []string
	for _, r := range engine.Applicable(rules.Default(), classify.RolePageServer) {
		ids = append(ids, r.ID)
	}
	want := []string{"kit-no-shared-server-state", "kit-no-goto-in-server", "perf-no-load-waterfalls"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("applicable rules mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeFileRuleSpans(t *testing.T) {
	var logs bytes.Buffer
	ctx := trace.WithTracer(context.Background(), trace.NewStreamTracer(&logs, trace.LevelDebug, trace.FormatText))

	src := "<script>\n  export let name;\n</script>\n<p>{name}</p>\n"
	engine.AnalyzeFile(ctx, "src/lib/Hello.svelte", classify.RoleComponent, []byte(src), rules.Default())

	out := logs.String()
	for _, want := range []string{"src/lib/Hello.svelte", "sv-no-export-let", "diagnostics=1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("trace missing %q:\n%s", want, out)
		}
	}
}
