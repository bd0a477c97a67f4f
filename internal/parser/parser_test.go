package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sveltedoctor/internal/jsast"
	"sveltedoctor/internal/markup"
)

func mustScript(t *testing.T, src string) *jsast.Program {
	t.Helper()
	prog, err := ParseScript(context.Background(), 1, []byte(src))
	if err != nil {
		t.Fatalf("ParseScript(%q): %v", src, err)
	}
	return prog
}

func TestParseScriptSyntaxError(t *testing.T) {
	_, err := ParseScript(context.Background(), 1, []byte("let = ;"))
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
}

func TestParseVarDecl(t *testing.T) {
	prog := mustScript(t, "let { a, b = 1, ...rest } = $props();\nconst c: number = 2;")
	if len(prog.Body) != 2 {
		t.Fatalf("body len = %d", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*jsast.VarDecl)
	if !ok || decl.DeclKind != "let" {
		t.Fatalf("first statement = %#v", prog.Body[0])
	}
	d := decl.Declarators[0]
	if !jsast.IsCallTo(d.Init, "$props") {
		t.Fatalf("init is not $props() call: %#v", d.Init)
	}
	if diff := cmp.Diff([]string{"a", "b", "rest"}, jsast.BindingNames(d.ID)); diff != "" {
		t.Fatalf("bindings mismatch (-want +got):\n%s", diff)
	}
	second := prog.Body[1].(*jsast.VarDecl)
	if second.DeclKind != "const" {
		t.Fatalf("second kind = %q", second.DeclKind)
	}
	if lit, ok := second.Declarators[0].Init.(*jsast.Literal); !ok || lit.LitKind != jsast.LitNumber {
		t.Fatalf("type annotation leaked into init: %#v", second.Declarators[0].Init)
	}
}

func TestParseEffectAndAssignments(t *testing.T) {
	prog := mustScript(t, `$effect(() => {
	count += 1;
	total = count * 2;
	n++;
});`)
	stmt := prog.Body[0].(*jsast.ExprStmt)
	if got := jsast.CalleePath(stmt.Expr); got != "$effect" {
		t.Fatalf("callee = %q", got)
	}
	fn := stmt.Expr.(*jsast.Call).Args[0].(*jsast.Func)
	if fn.FuncKind != jsast.FuncArrow || fn.ExprBody {
		t.Fatalf("unexpected func %#v", fn)
	}
	var ops []string
	jsast.Inspect(fn.Body, func(n jsast.Node) bool {
		switch n := n.(type) {
		case *jsast.Assign:
			ops = append(ops, n.Op)
		case *jsast.Update:
			ops = append(ops, n.Op)
		}
		return true
	})
	if diff := cmp.Diff([]string{"+=", "=", "++"}, ops); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestParseImportsAndExports(t *testing.T) {
	prog := mustScript(t, `import { createEventDispatcher as ced, onMount } from 'svelte';
import Foo from "./Foo.svelte";
import * as env from '$env/static/private';
import type { PageLoad } from './$types';
export async function load({ fetch }) {}
export let title = 'x';
export interface Props { a: string }`)

	imp := prog.Body[0].(*jsast.Import)
	if imp.Source != "svelte" || len(imp.Specifiers) != 2 {
		t.Fatalf("import = %#v", imp)
	}
	if imp.Specifiers[0].Imported != "createEventDispatcher" || imp.Specifiers[0].Local != "ced" {
		t.Fatalf("aliased specifier = %#v", imp.Specifiers[0])
	}
	if def := prog.Body[1].(*jsast.Import).Specifiers[0]; !def.Default || def.Local != "Foo" {
		t.Fatalf("default specifier = %#v", def)
	}
	if ns := prog.Body[2].(*jsast.Import).Specifiers[0]; !ns.Namespace || ns.Local != "env" {
		t.Fatalf("namespace specifier = %#v", ns)
	}
	if !prog.Body[3].(*jsast.Import).TypeOnly {
		t.Fatalf("import type not flagged")
	}
	exp := prog.Body[4].(*jsast.Export)
	fn, ok := exp.Decl.(*jsast.Func)
	if !ok || !fn.Async || fn.Name != "load" || fn.FuncKind != jsast.FuncDecl {
		t.Fatalf("export decl = %#v", exp.Decl)
	}
	if vd, ok := prog.Body[5].(*jsast.Export).Decl.(*jsast.VarDecl); !ok || vd.DeclKind != "let" {
		t.Fatalf("export let = %#v", prog.Body[5])
	}
	if len(prog.Body) != 6 {
		t.Fatalf("interface declaration was not dropped: %d statements", len(prog.Body))
	}
}

func TestParseReactiveLabel(t *testing.T) {
	prog := mustScript(t, "$: doubled = count * 2;")
	l, ok := prog.Body[0].(*jsast.Labeled)
	if !ok || l.Label != "$" {
		t.Fatalf("statement = %#v", prog.Body[0])
	}
}

func TestParseMembersAndNew(t *testing.T) {
	prog := mustScript(t, "const app = new App({ target: document.body, props: { a } });\nobj?.x[0];")
	init := prog.Body[0].(*jsast.VarDecl).Declarators[0].Init
	nw, ok := init.(*jsast.New)
	if !ok || jsast.IdentName(nw.Callee) != "App" {
		t.Fatalf("init = %#v", init)
	}
	obj := nw.Args[0].(*jsast.Object)
	if p := obj.Props[0].(*jsast.Property); p.Key != "target" || jsast.DottedName(p.Value) != "document.body" {
		t.Fatalf("target prop = %#v", p)
	}
	inner := obj.Props[1].(*jsast.Property).Value.(*jsast.Object).Props[0].(*jsast.Property)
	if !inner.Shorthand || jsast.IdentName(inner.Value) != "a" {
		t.Fatalf("shorthand prop = %#v", inner)
	}
	sub := prog.Body[1].(*jsast.ExprStmt).Expr.(*jsast.Member)
	if !sub.Computed {
		t.Fatalf("expected computed member, got %#v", sub)
	}
	if m := sub.Object.(*jsast.Member); m.Property != "x" || !m.Optional {
		t.Fatalf("optional member = %#v", m)
	}
}

func TestParseComponentRebasesSpans(t *testing.T) {
	src := "<script lang=\"ts\">\nlet count = $state(0);\n</script>\n<button on:click={() => count++}>{count}</button>"
	comp, err := ParseComponent(context.Background(), 1, []byte(src))
	if err != nil {
		t.Fatalf("ParseComponent: %v", err)
	}
	if comp.Instance == nil || comp.Instance.Program == nil {
		t.Fatalf("instance script not parsed")
	}
	decl := comp.Instance.Program.Body[0].(*jsast.VarDecl)
	id := decl.Declarators[0].ID
	if got := id.Span().Text([]byte(src)); got != "count" {
		t.Fatalf("rebased span text = %q", got)
	}
	btn := comp.Fragment[0].(*markup.Element)
	if _, ok := btn.Directive("on", "click"); !ok {
		t.Fatalf("on:click missing")
	}
}

func TestParseComponentScriptError(t *testing.T) {
	_, err := ParseComponent(context.Background(), 1, []byte("<script>let = ;</script><p/>"))
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
}
