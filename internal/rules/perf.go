package rules

import (
	"regexp"
	"strconv"
	"strings"

	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/jsast"
)

var perfNoLoadWaterfalls = &Rule{
	ID:          "perf-no-load-waterfalls",
	Severity:    diag.SevWarning,
	Roles:       loadFiles,
	Description: "Detects sequential independent await calls in load() that could be parallelized.",
	AgentPrompt: "These `await` calls appear independent and could run in parallel. Use `Promise.all()`: `const [a, b] = await Promise.all([fetchA(), fetchB()]);`",
	Analyze: func(t *Tree, ctx *Context) {
		prog := t.ScriptRoot()
		if prog == nil {
			return
		}
		body := loadBody(prog)
		if body == nil {
			return
		}

		type awaited struct {
			stmt       jsast.Node
			declared   map[string]bool
			referenced []string
		}
		var seq []awaited
		for _, stmt := range body.Body {
			decl, ok := stmt.(*jsast.VarDecl)
			if !ok {
				continue
			}
			for _, d := range decl.Declarators {
				aw, ok := d.Init.(*jsast.Await)
				if !ok {
					continue
				}
				cur := awaited{stmt: stmt, declared: map[string]bool{}}
				for _, name := range jsast.BindingNames(d.ID) {
					cur.declared[name] = true
				}
				jsast.Inspect(aw, func(n jsast.Node) bool {
					if id, ok := n.(*jsast.Ident); ok {
						cur.referenced = append(cur.referenced, id.Name)
					}
					return true
				})
				seq = append(seq, cur)
			}
		}

		for i := 1; i < len(seq); i++ {
			prev, cur := seq[i-1], seq[i]
			dependent := false
			for _, name := range cur.referenced {
				if prev.declared[name] {
					dependent = true
					break
				}
			}
			if !dependent {
				ctx.Report(cur.stmt, "Potential waterfall: this `await` appears independent from the previous one. Consider `Promise.all()` for parallel execution.")
			}
		}
	},
}

// loadBody finds `export async function load` or
// `export const load = async (...) => { ... }`.
func loadBody(prog *jsast.Program) *jsast.Block {
	for _, stmt := range prog.Body {
		exp, ok := stmt.(*jsast.Export)
		if !ok {
			continue
		}
		switch decl := exp.Decl.(type) {
		case *jsast.Func:
			if decl.Name == "load" && decl.Async {
				if b, ok := decl.Body.(*jsast.Block); ok {
					return b
				}
			}
		case *jsast.VarDecl:
			for _, d := range decl.Declarators {
				if jsast.IdentName(d.ID) != "load" {
					continue
				}
				if fn, ok := d.Init.(*jsast.Func); ok && fn.Async {
					if b, ok := fn.Body.(*jsast.Block); ok {
						return b
					}
				}
			}
		}
	}
	return nil
}

const (
	maxStateArray  = 20
	maxStateObject = 10
)

var perfPreferStateRaw = &Rule{
	ID:          "perf-prefer-state-raw",
	Severity:    diag.SevWarning,
	Roles:       componentOnly,
	Description: "Suggests $state.raw() for large data structures to avoid deep reactivity overhead.",
	AgentPrompt: "Large arrays (>20 items) and objects (>10 properties) in `$state()` create deep reactive proxies with significant overhead. Use `$state.raw()` instead and trigger updates by reassignment: `items = [...items, newItem]`.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := instance(t)
		if prog == nil {
			return
		}
		jsast.Inspect(prog, func(n jsast.Node) bool {
			d, ok := n.(*jsast.Declarator)
			if !ok || !jsast.IsCallTo(d.Init, "$state") {
				return true
			}
			args := d.Init.(*jsast.Call).Args
			if len(args) == 0 {
				return true
			}
			name := jsast.IdentName(d.ID)
			if name == "" {
				name = "variable"
			}
			switch arg := args[0].(type) {
			case *jsast.Array:
				if len(arg.Elements) > maxStateArray {
					ctx.Report(d, "`$state()` for `"+name+"` contains "+strconv.Itoa(len(arg.Elements))+" array elements. Consider `$state.raw()` to avoid deep reactivity overhead.")
				}
			case *jsast.Object:
				if len(arg.Props) > maxStateObject {
					ctx.Report(d, "`$state()` for `"+name+"` contains "+strconv.Itoa(len(arg.Props))+" object properties. Consider `$state.raw()` to avoid deep reactivity overhead.")
				}
			}
			return true
		})
	},
}

var perfNoFunctionDerived = &Rule{
	ID:          "perf-no-function-derived",
	Severity:    diag.SevWarning,
	Roles:       componentOnly,
	Description: "Flags $derived(() => expr) which should be $derived(expr).",
	AgentPrompt: "`$derived(() => expr)` wraps the expression in an unnecessary arrow function. Use `$derived(expr)` directly for better readability and slight performance improvement. Use `$derived.by(() => { ... })` only for multi-statement derivations.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := instance(t)
		if prog == nil {
			return
		}
		jsast.Inspect(prog, func(n jsast.Node) bool {
			d, ok := n.(*jsast.Declarator)
			if !ok || !jsast.IsCallTo(d.Init, "$derived") {
				return true
			}
			args := d.Init.(*jsast.Call).Args
			if len(args) == 0 {
				return true
			}
			fn, ok := args[0].(*jsast.Func)
			if !ok || fn.FuncKind != jsast.FuncArrow || !fn.ExprBody {
				return true
			}
			name := jsast.IdentName(d.ID)
			if name == "" {
				name = "variable"
			}
			ctx.Report(d, "`$derived(() => expr)` for `"+name+"` should be `$derived(expr)`. Remove the arrow function wrapper.")
			return true
		})
	},
	Fix: fixFunctionDerived,
}

var functionDerivedRe = regexp.MustCompile(`\$derived\(\s*\(\)\s*=>\s*`)

// fixFunctionDerived drops the `() =>` of expression-bodied arrows; the
// closing paren of $derived stays where it was. Block bodies are left for
// $derived.by.
func fixFunctionDerived(src string, _ *diag.Diagnostic) (string, bool) {
	var b strings.Builder
	last := 0
	for _, m := range functionDerivedRe.FindAllStringIndex(src, -1) {
		if m[1] >= len(src) || src[m[1]] == '{' {
			continue
		}
		b.WriteString(src[last:m[0]])
		b.WriteString("$derived(")
		last = m[1]
	}
	b.WriteString(src[last:])
	return result(src, b.String())
}
