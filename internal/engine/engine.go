// Package engine runs the rule catalog over one file: role gating, parsing,
// per-rule report contexts and panic isolation.
package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"sveltedoctor/internal/classify"
	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/parser"
	"sveltedoctor/internal/rules"
	"sveltedoctor/internal/source"
	"sveltedoctor/internal/trace"
)

// Applicable returns the rules of reg that run on files of the given role,
// in registry order.
func Applicable(reg *rules.Registry, role classify.Role) []*rules.Rule {
	var out []*rules.Rule
	for _, r := range reg.All() {
		if r.AppliesTo(role) {
			out = append(out, r)
		}
	}
	return out
}

// Parse builds the tree for file: the component adapter for components, the
// plain-script adapter for every other role. Spans carry file.ID.
func Parse(ctx context.Context, role classify.Role, file *source.File) (*rules.Tree, error) {
	if role == classify.RoleComponent {
		comp, err := parser.ParseComponent(ctx, file.ID, file.Content)
		if err != nil {
			return nil, err
		}
		return &rules.Tree{Component: comp}, nil
	}
	prog, err := parser.ParseScript(ctx, file.ID, file.Content)
	if err != nil {
		return nil, err
	}
	return &rules.Tree{Script: prog}, nil
}

// AnalyzeFile returns the diagnostics of the applicable rules for one file.
// Unparseable files and failing rules contribute nothing; neither is an
// error. Diagnostics are in rule order, then in the order each rule reported.
func AnalyzeFile(ctx context.Context, path string, role classify.Role, src []byte, reg *rules.Registry) []*diag.Diagnostic {
	return AnalyzeSource(ctx, source.NewFile(path, src), role, reg)
}

// AnalyzeSource is AnalyzeFile for a file already held by a source.FileSet.
// Diagnostics use file.Path and their spans carry file.ID.
func AnalyzeSource(ctx context.Context, file *source.File, role classify.Role, reg *rules.Registry) []*diag.Diagnostic {
	applicable := Applicable(reg, role)
	if len(applicable) == 0 {
		return nil
	}
	path := file.Path

	ctx, span := trace.StartFile(ctx, path)

	tree, err := Parse(ctx, role, file)
	if err != nil {
		trace.Debug(ctx, "parse failed", err.Error(), "file", path)
		span.End("unparseable")
		return nil
	}

	var out []*diag.Diagnostic
	for _, r := range applicable {
		_, rs := trace.StartRule(ctx, r.ID, path)
		found, err := runRule(r, tree, file)
		if err != nil {
			rs.End("panic")
			trace.Warn(ctx, "rule panicked", r.ID, "file", path, "error", err.Error())
			continue
		}
		rs.Set("diagnostics", fmt.Sprint(len(found))).End("")
		out = append(out, found...)
	}
	span.Set("diagnostics", fmt.Sprint(len(out))).End("")
	return out
}

// runRule invokes one rule with a fresh report context. A panic discards
// everything the rule reported for this file.
func runRule(r *rules.Rule, tree *rules.Tree, file *source.File) (found []*diag.Diagnostic, err error) {
	defer func() {
		if p := recover(); p != nil {
			found = nil
			err = fmt.Errorf("%v\n%s", p, debug.Stack())
		}
	}()

	ctx := rules.NewContext(func(at rules.Locatable, message string) {
		found = append(found, newDiagnostic(r, file, at, message))
	})
	r.Analyze(tree, ctx)
	return found, nil
}

func newDiagnostic(r *rules.Rule, file *source.File, at rules.Locatable, message string) *diag.Diagnostic {
	d := &diag.Diagnostic{
		RuleID:           r.ID,
		Severity:         r.Severity,
		FilePath:         file.Path,
		Line:             1,
		Column:           0,
		Message:          message,
		AgentInstruction: r.AgentPrompt,
		Fixable:          r.Fixable(),
	}
	if at != nil {
		sp := at.Span()
		pos := file.Position(sp.Start)
		d.Primary = sp
		d.Line = int(pos.Line)
		d.Column = int(pos.Col) - 1
	}
	d.CodeSnippet = strings.TrimSpace(file.GetLine(uint32(d.Line))) //nolint:gosec // Line comes from a uint32 position
	return d
}
