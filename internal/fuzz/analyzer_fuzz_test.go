package fuzztests

import (
	"context"
	"testing"
	"time"

	"sveltedoctor/internal/classify"
	"sveltedoctor/internal/engine"
	"sveltedoctor/internal/markup"
	"sveltedoctor/internal/parser"
	"sveltedoctor/internal/rules"
	"sveltedoctor/internal/source"
)

// parseTimeout is the maximum time allowed for one input. Longer runs point
// at a loop in error recovery.
const parseTimeout = 5 * time.Second

func FuzzMarkupScan(f *testing.F) {
	addComponentSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		comp, err := markup.Scan(1, input)
		if err != nil || comp == nil {
			return
		}
		// каждый узел должен лежать внутри входа
		whole := source.Span{File: 1, End: uint32(len(input))} //nolint:gosec // clamped
		markup.Walk(comp.Fragment, func(n markup.Node) bool {
			sp := n.Span()
			if sp.Start > sp.End || !whole.Contains(sp) {
				t.Fatalf("node span %d..%d outside input of %d bytes", sp.Start, sp.End, len(input))
			}
			return true
		})
	})
}

func FuzzParseScript(f *testing.F) {
	addScriptSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		_, _ = parser.ParseScript(context.Background(), 1, input)
	})
}

func FuzzAnalyzeNoHang(f *testing.F) {
	addComponentSeeds(f)
	addScriptSeeds(f)
	roles := []struct {
		path string
		role classify.Role
	}{
		{"src/lib/Fuzz.svelte", classify.RoleComponent},
		{"src/routes/+page.server.ts", classify.RolePageServer},
		{"src/routes/+page.ts", classify.RolePageClient},
	}
	reg := rules.Default()
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		for _, r := range roles {
			done := make(chan struct{})
			go func() {
				defer close(done)
				for _, d := range engine.AnalyzeFile(context.Background(), r.path, r.role, input, reg) {
					if d.Line < 1 || d.Column < 0 {
						t.Errorf("%s: bad position %d:%d", d.RuleID, d.Line, d.Column)
					}
				}
			}()
			select {
			case <-done:
			case <-time.After(parseTimeout):
				t.Fatalf("analysis of %s did not finish within %v", r.path, parseTimeout)
			}
		}
	})
}
