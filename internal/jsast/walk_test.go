package jsast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ident(name string) *Ident { return &Ident{Name: name} }

// $effect(() => { x = x + 1; })
func sampleEffect() (*ExprStmt, *Assign) {
	assign := &Assign{Op: "=", Left: ident("x"), Right: &Binary{Op: "+", Left: ident("x"), Right: &Literal{LitKind: LitNumber, Raw: "1", Value: "1"}}}
	fn := &Func{FuncKind: FuncArrow, Body: &Block{Body: []Node{&ExprStmt{Expr: assign}}}}
	stmt := &ExprStmt{Expr: &Call{Callee: ident("$effect"), Args: []Node{fn}}}
	return stmt, assign
}

func TestWalkOrder(t *testing.T) {
	stmt, _ := sampleEffect()
	prog := &Program{Body: []Node{stmt}}

	var got []string
	Inspect(prog, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			got = append(got, id.Name)
		} else {
			got = append(got, n.Kind().String())
		}
		return true
	})

	want := []string{
		"Program", "ExpressionStatement", "CallExpression", "$effect", "Function",
		"BlockStatement", "ExpressionStatement", "AssignmentExpression", "x",
		"BinaryExpression", "x", "Literal",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkSkipChildren(t *testing.T) {
	stmt, _ := sampleEffect()
	count := 0
	Inspect(stmt, func(n Node) bool {
		count++
		_, isFunc := n.(*Func)
		return !isFunc
	})
	// ExprStmt, Call, $effect, Func
	if count != 4 {
		t.Fatalf("visited %d nodes, want 4", count)
	}
}

func TestWalkParentChain(t *testing.T) {
	stmt, assign := sampleEffect()

	var chain *Path
	Walk(stmt, func(n Node, parents *Path) bool {
		if n == assign {
			chain = parents
		}
		return true
	})
	if chain == nil {
		t.Fatal("assignment not visited")
	}
	if _, ok := chain.Up(0).(*ExprStmt); !ok {
		t.Fatalf("immediate parent = %T", chain.Up(0))
	}
	fn := chain.Find(IsFunction)
	if fn == nil {
		t.Fatal("function ancestor not found")
	}
	if !IsCallTo(fn.Up(1), "$effect") {
		t.Fatalf("function parent = %T", fn.Up(1))
	}
	if fn.Up(2) != stmt {
		t.Fatalf("expected effect statement two levels above the function")
	}
	if chain.Len() != 5 {
		t.Fatalf("chain length = %d, want 5", chain.Len())
	}
	if chain.Up(10) != nil {
		t.Fatalf("Up beyond root must be nil")
	}
}

func TestBindingNames(t *testing.T) {
	pattern := &ObjectPattern{Props: []Node{
		&Property{Key: "a", Value: ident("a"), Shorthand: true},
		&Property{Key: "b", Value: &AssignPattern{Left: ident("b"), Right: &Call{Callee: ident("$bindable")}}},
		&Property{Key: "c", Value: &ArrayPattern{Elements: []Node{ident("c1"), &Rest{Argument: ident("c2")}}}},
		&Rest{Argument: ident("rest")},
	}}
	got := BindingNames(pattern)
	want := []string{"a", "b", "c1", "c2", "rest"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("BindingNames mismatch (-want +got):\n%s", diff)
	}
}

func TestDottedName(t *testing.T) {
	pre := &Call{Callee: &Member{Object: ident("$effect"), Property: "pre"}}
	if got := CalleePath(pre); got != "$effect.pre" {
		t.Fatalf("CalleePath = %q", got)
	}
	if CalleeName(pre) != "" {
		t.Fatalf("CalleeName must ignore member callees")
	}
	computed := &Member{Object: ident("a"), Index: ident("b"), Computed: true}
	if DottedName(computed) != "" {
		t.Fatalf("computed members have no dotted name")
	}
}

func TestIsRune(t *testing.T) {
	for _, name := range []string{"$state", "$state.raw", "$effect.pre", "$derived.by", "$props"} {
		if !IsRune(name) {
			t.Errorf("%s must be a rune", name)
		}
	}
	for _, name := range []string{"state", "$store", "$$props", "untrack"} {
		if IsRune(name) {
			t.Errorf("%s is not a rune", name)
		}
	}
}
