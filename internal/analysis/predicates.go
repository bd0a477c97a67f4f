package analysis

import "sveltedoctor/internal/jsast"

// IsEffectCall reports whether n is $effect(...) or $effect.pre(...).
func IsEffectCall(n jsast.Node) bool {
	switch jsast.CalleePath(n) {
	case "$effect", "$effect.pre":
		return true
	}
	return false
}

// EffectCallback returns the function literal passed to an effect call.
func EffectCallback(call *jsast.Call) *jsast.Func {
	if call == nil || len(call.Args) == 0 {
		return nil
	}
	fn, _ := call.Args[0].(*jsast.Func)
	return fn
}

// Effects lists the effect calls of a program that take a function
// literal, in source order. Effects nested in other effects are included.
func Effects(prog *jsast.Program) []*jsast.Call {
	var out []*jsast.Call
	jsast.Inspect(prog, func(n jsast.Node) bool {
		if call, ok := n.(*jsast.Call); ok && IsEffectCall(call) && EffectCallback(call) != nil {
			out = append(out, call)
		}
		return true
	})
	return out
}

// IsIdentifierReadInSubtree reports whether name is read somewhere under
// root. The target of a plain "=" assignment is not a read; untrack(...)
// calls and nested functions are not entered.
//
// Compound targets (x += 1, x++) do count as reads: they load x before
// storing it, so `$effect(() => { x += 1 })` is a self-triggering loop and
// is reported even though it has no other read of x.
func IsIdentifierReadInSubtree(root jsast.Node, name string) bool {
	found := false
	jsast.Walk(root, func(n jsast.Node, parents *jsast.Path) bool {
		if found {
			return false
		}
		switch n := n.(type) {
		case *jsast.Call:
			if jsast.CalleeName(n) == "untrack" {
				return false
			}
		case *jsast.Func:
			if jsast.Node(n) != root {
				return false
			}
		case *jsast.Ident:
			if n.Name != name {
				return true
			}
			if a, ok := parents.Up(0).(*jsast.Assign); ok && a.Op == "=" && a.Left == jsast.Node(n) {
				return true
			}
			found = true
		}
		return true
	})
	return found
}

// IsAsyncEffect reports whether the callback is async or awaits outside of
// nested functions.
func IsAsyncEffect(fn *jsast.Func) bool {
	if fn == nil {
		return false
	}
	if fn.Async {
		return true
	}
	awaits := false
	jsast.Inspect(fn, func(n jsast.Node) bool {
		if awaits {
			return false
		}
		switch n := n.(type) {
		case *jsast.Await:
			awaits = true
			return false
		case *jsast.Func:
			return n == fn
		}
		return true
	})
	return awaits
}

// HasCleanupReturn reports whether the callback body ends with a return of
// a value (the teardown function).
func HasCleanupReturn(fn *jsast.Func) bool {
	if fn == nil {
		return false
	}
	body, ok := fn.Body.(*jsast.Block)
	if !ok || len(body.Body) == 0 {
		return false
	}
	ret, ok := body.Body[len(body.Body)-1].(*jsast.Return)
	return ok && ret.Argument != nil
}

// IsUntrackOnly reports whether the callback body is a single untrack(...) call.
func IsUntrackOnly(fn *jsast.Func) bool {
	if fn == nil {
		return false
	}
	var expr jsast.Node
	if fn.ExprBody {
		expr = fn.Body
	} else {
		stmts := jsast.Statements(fn.Body)
		if len(stmts) != 1 {
			return false
		}
		es, ok := stmts[0].(*jsast.ExprStmt)
		if !ok {
			return false
		}
		expr = es.Expr
	}
	return jsast.IsCallTo(expr, "untrack")
}
