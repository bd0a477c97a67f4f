package rules

import (
	"regexp"
	"strings"

	"sveltedoctor/internal/analysis"
	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/jsast"
)

var noStaleDerivedLet = &Rule{
	ID:          "sv-no-stale-derived-let",
	Severity:    diag.SevWarning,
	Roles:       componentOnly,
	Description: "Flags `let x = expr` where expr references reactive ($props/$state) variables, causing stale values.",
	AgentPrompt: "This `let` declaration computes a value from reactive variables but will NOT update when those variables change. Use `let x = $derived(expr)` to keep it reactive.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := instance(t)
		if prog == nil {
			return
		}
		reactive := reactiveVars(analysis.BuildProgram(prog))
		for _, name := range propsRest(prog) {
			reactive[name] = struct{}{}
		}
		if len(reactive) == 0 {
			return
		}
		topLevelLets(prog, func(_ *jsast.VarDecl, d *jsast.Declarator) {
			id, ok := d.ID.(*jsast.Ident)
			if !ok || d.Init == nil {
				return
			}
			switch jsast.CalleeName(d.Init) {
			case "$derived", "$state", "$props", "$bindable":
				return
			}
			var refs []string
			seen := make(map[string]struct{})
			jsast.Inspect(d.Init, func(n jsast.Node) bool {
				ref, ok := n.(*jsast.Ident)
				if !ok || !reactive.Has(ref.Name) {
					return true
				}
				if _, dup := seen[ref.Name]; !dup {
					seen[ref.Name] = struct{}{}
					refs = append(refs, ref.Name)
				}
				return true
			})
			if len(refs) == 0 {
				return
			}
			ctx.Report(d, "`let "+id.Name+"` derives from reactive variable(s) `"+strings.Join(refs, ", ")+"` but will not update reactively. Use `let "+id.Name+" = $derived(expr)` instead.")
		})
	},
	Fix: fixStaleDerived,
}

var (
	letInitRe   = regexp.MustCompile(`\blet\s+(\w+)\s*=\s*([^;\n]+);`)
	runeInitRe  = regexp.MustCompile(`^\$(?:derived|state|props|bindable)\(`)
	hasLetterRe = regexp.MustCompile(`[a-zA-Z_]`)
)

// fixStaleDerived wraps the initializer of the diagnosed `let` in
// $derived(...). Without a position every eligible `let` is wrapped.
func fixStaleDerived(src string, d *diag.Diagnostic) (string, bool) {
	var b strings.Builder
	last := 0
	for _, m := range letInitRe.FindAllStringSubmatchIndex(src, -1) {
		expr := src[m[4]:m[5]]
		if runeInitRe.MatchString(expr) || !hasLetterRe.MatchString(expr) || !balanced(expr) {
			continue
		}
		if d != nil && d.Line > 0 && lineOf(src, m[0]) != d.Line {
			continue
		}
		b.WriteString(src[last:m[0]])
		b.WriteString("let " + src[m[2]:m[3]] + " = $derived(" + strings.TrimSpace(expr) + ");")
		last = m[1]
	}
	b.WriteString(src[last:])
	return result(src, b.String())
}

var requireBindableRune = &Rule{
	ID:          "sv-require-bindable-rune",
	Severity:    diag.SevWarning,
	Roles:       componentOnly,
	Description: "Flags assignment to $props() variables without $bindable().",
	AgentPrompt: "Assigning to a prop variable requires `$bindable()`. Change `let { prop } = $props()` to `let { prop = $bindable() } = $props()` if you need two-way binding, or restructure to avoid mutation.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := instance(t)
		if prog == nil {
			return
		}
		cc := analysis.BuildProgram(prog)
		if len(cc.PropsVars) == 0 {
			return
		}
		jsast.Inspect(prog, func(n jsast.Node) bool {
			a, ok := n.(*jsast.Assign)
			if !ok {
				return true
			}
			name := jsast.IdentName(a.Left)
			if cc.PropsVars.Has(name) && !cc.BindableVars.Has(name) {
				ctx.Report(a, "Prop `"+name+"` is mutated but not declared with `$bindable()`. Use `let { "+name+" = $bindable() } = $props()` for two-way binding.")
			}
			return true
		})
	},
}

var reactivityLossPrimitive = &Rule{
	ID:          "sv-reactivity-loss-primitive",
	Severity:    diag.SevWarning,
	Roles:       componentOnly,
	Description: "Flags $props or $state variables passed as function arguments, which may lose reactivity.",
	AgentPrompt: "Passing a `$props()` or `$state()` variable directly to a function captures its current value, losing reactivity. Wrap in a getter: `() => reactiveVar` or use `$derived()` to compute the result reactively.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := instance(t)
		if prog == nil {
			return
		}
		reactive := reactiveVars(analysis.BuildProgram(prog))
		if len(reactive) == 0 {
			return
		}
		for _, stmt := range prog.Body {
			decl, ok := stmt.(*jsast.VarDecl)
			if !ok {
				continue
			}
			for _, d := range decl.Declarators {
				callee := jsast.CalleeName(d.Init)
				if callee == "" || jsast.IsRune(callee) {
					continue
				}
				target := jsast.IdentName(d.ID)
				if target == "" {
					target = "x"
				}
				for _, arg := range d.Init.(*jsast.Call).Args {
					id, ok := arg.(*jsast.Ident)
					if !ok || !reactive.Has(id.Name) {
						continue
					}
					ctx.Report(id, "Reactive variable `"+id.Name+"` passed directly to `"+callee+"()` captures its current value, losing reactivity. Wrap in `$derived()`: `let "+target+" = $derived("+callee+"("+id.Name+"))`.")
				}
			}
		}
	},
}
