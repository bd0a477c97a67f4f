package rules

import (
	"sveltedoctor/internal/analysis"
	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/jsast"
)

var noEffectStateMutation = &Rule{
	ID:          "sv-no-effect-state-mutation",
	Severity:    diag.SevError,
	Roles:       componentOnly,
	Description: "Flags $state variables mutated inside $effect() (infinite re-render risk).",
	AgentPrompt: "Do NOT mutate `$state` variables inside `$effect()`. Use `$derived()` instead. If mutation is truly necessary, wrap in `untrack(() => { ... })`.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := instance(t)
		if prog == nil {
			return
		}
		cc := analysis.BuildProgram(prog)
		if len(cc.StateVars) == 0 {
			return
		}
		for _, call := range analysis.Effects(prog) {
			checkEffectMutations(cc, call, ctx)
		}
	},
}

func checkEffectMutations(cc *analysis.ComponentContext, call *jsast.Call, ctx *Context) {
	fn := analysis.EffectCallback(call)
	if analysis.IsUntrackOnly(fn) || analysis.IsAsyncEffect(fn) {
		return
	}
	guarded := guardedNames(fn)

	jsast.Walk(fn, func(n jsast.Node, parents *jsast.Path) bool {
		switch n := n.(type) {
		case *jsast.Call:
			return jsast.CalleeName(n) != "untrack"
		case *jsast.Func:
			return n == fn
		}
		name := writtenName(n)
		if name == "" || !cc.StateVars.Has(name) {
			return true
		}
		if !writtenByEffect(cc, name, n, call) {
			return true
		}
		// bindable, write-only, conditional and guarded writes are not reported
		switch {
		case cc.BindableVars.Has(name):
		case !analysis.IsIdentifierReadInSubtree(fn, name):
		case insideConditional(parents):
		case guarded.Has(name):
		default:
			ctx.Report(n, "`$state` variable `"+name+"` is mutated inside `$effect()`. This can cause infinite re-renders. Use `$derived()` instead.")
		}
		return true
	})
}

// writtenName returns the identifier written by an assignment or update.
func writtenName(n jsast.Node) string {
	switch n := n.(type) {
	case *jsast.Assign:
		return jsast.IdentName(n.Left)
	case *jsast.Update:
		return jsast.IdentName(n.Argument)
	}
	return ""
}

func writtenByEffect(cc *analysis.ComponentContext, name string, n jsast.Node, call *jsast.Call) bool {
	for _, s := range cc.Sites(name) {
		if s.Node == n {
			return s.Kind == analysis.SiteEffect && s.Effect == call
		}
	}
	return false
}

// insideConditional walks up to the effect callback looking for an if or a
// ternary.
func insideConditional(parents *jsast.Path) bool {
	for p := parents; p != nil; p = p.Parent {
		switch p.Node.(type) {
		case *jsast.If, *jsast.Conditional:
			return true
		case *jsast.Func:
			return false
		}
	}
	return false
}

// guardedNames collects the names tested by top-level early returns:
// `if (cond) return;` or `if (cond) { return; }`.
func guardedNames(fn *jsast.Func) analysis.Set {
	out := analysis.Set{}
	if fn.ExprBody {
		return out
	}
	for _, stmt := range jsast.Statements(fn.Body) {
		ifs, ok := stmt.(*jsast.If)
		if !ok || ifs.Alternate != nil || !isEarlyReturn(ifs.Consequent) {
			continue
		}
		collectTested(ifs.Test, out)
	}
	return out
}

func isEarlyReturn(n jsast.Node) bool {
	switch n := n.(type) {
	case *jsast.Return:
		return true
	case *jsast.Block:
		if len(n.Body) == 1 {
			_, ok := n.Body[0].(*jsast.Return)
			return ok
		}
	}
	return false
}

func collectTested(n jsast.Node, out analysis.Set) {
	switch n := n.(type) {
	case *jsast.Ident:
		out[n.Name] = struct{}{}
	case *jsast.Unary:
		collectTested(n.Argument, out)
	case *jsast.Binary:
		collectTested(n.Left, out)
		collectTested(n.Right, out)
	case *jsast.Member:
		collectTested(n.Object, out)
	}
}

var preferDerivedOverEffect = &Rule{
	ID:          "sv-prefer-derived-over-effect",
	Severity:    diag.SevWarning,
	Roles:       componentOnly,
	Description: "Flags $effect() that could be replaced with $derived().",
	AgentPrompt: "This `$effect()` only assigns a single variable from a computation. Replace with `$derived()`: `let x = $derived(expr);` instead of `$effect(() => { x = expr; })`.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := instance(t)
		if prog == nil {
			return
		}
		cc := analysis.BuildProgram(prog)
		for _, call := range analysis.Effects(prog) {
			fn := analysis.EffectCallback(call)
			name := soleAssignment(fn)
			if name == "" {
				continue
			}
			if cc.BindableVars.Has(name) || !cc.OnlyWrittenBy(name, call) ||
				analysis.IsAsyncEffect(fn) || analysis.HasCleanupReturn(fn) {
				continue
			}
			ctx.Report(call, "`$effect()` only assigns `"+name+"`. Use `let "+name+" = $derived(expr)` instead for reactive derivation.")
		}
	},
}

// soleAssignment returns the target of `{ name = expr; }` bodies.
func soleAssignment(fn *jsast.Func) string {
	body, ok := fn.Body.(*jsast.Block)
	if !ok || len(body.Body) != 1 {
		return ""
	}
	stmt, ok := body.Body[0].(*jsast.ExprStmt)
	if !ok {
		return ""
	}
	a, ok := stmt.Expr.(*jsast.Assign)
	if !ok || a.Op != "=" {
		return ""
	}
	return jsast.IdentName(a.Left)
}
