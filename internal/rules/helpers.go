package rules

import (
	"strings"

	"sveltedoctor/internal/analysis"
	"sveltedoctor/internal/classify"
	"sveltedoctor/internal/jsast"
)

var (
	componentOnly = classify.Roles(classify.RoleComponent)
	serverRoutes  = classify.Roles(classify.RolePageServer, classify.RoleLayoutServer, classify.RoleServerEndpoint)
	loadFiles     = classify.Roles(classify.RolePageServer, classify.RoleLayoutServer, classify.RolePageClient, classify.RoleLayoutClient)
)

// instance returns the instance script of a component tree, nil otherwise.
func instance(t *Tree) *jsast.Program {
	if t.Component == nil {
		return nil
	}
	return t.ScriptRoot()
}

// propsRest lists the rest bindings of $props() destructuring: `...rest`.
func propsRest(prog *jsast.Program) []string {
	var out []string
	jsast.Inspect(prog, func(n jsast.Node) bool {
		d, ok := n.(*jsast.Declarator)
		if !ok || !jsast.IsCallTo(d.Init, "$props") {
			return true
		}
		if pat, ok := d.ID.(*jsast.ObjectPattern); ok {
			for _, p := range pat.Props {
				if r, ok := p.(*jsast.Rest); ok {
					if name := jsast.IdentName(r.Argument); name != "" {
						out = append(out, name)
					}
				}
			}
		}
		return true
	})
	return out
}

// reactiveVars is props plus $state names of a component context.
func reactiveVars(cc *analysis.ComponentContext) analysis.Set {
	out := analysis.Set{}
	for n := range cc.PropsVars {
		out[n] = struct{}{}
	}
	for n := range cc.StateVars {
		out[n] = struct{}{}
	}
	return out
}

// topLevelLets yields the declarators of top-level `let` statements.
func topLevelLets(prog *jsast.Program, yield func(stmt *jsast.VarDecl, d *jsast.Declarator)) {
	for _, stmt := range prog.Body {
		decl, ok := stmt.(*jsast.VarDecl)
		if !ok || decl.DeclKind != "let" {
			continue
		}
		for _, d := range decl.Declarators {
			yield(decl, d)
		}
	}
}

// lineOf returns the 1-based line of a byte offset.
func lineOf(src string, off int) int {
	return strings.Count(src[:off], "\n") + 1
}

var closers = map[byte]byte{')': '(', ']': '[', '}': '{'}

// balanced reports whether every bracket opened in expr is closed inside
// it. A regex capture that stopped at a ';' inside a function body fails.
func balanced(expr string) bool {
	var stack []byte
	for i := 0; i < len(expr); i++ {
		switch c := expr[i]; c {
		case '"', '\'', '`':
			j := i + 1
			for j < len(expr) && expr[j] != c {
				if expr[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(expr) {
				return false
			}
			i = j
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != closers[c] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}
