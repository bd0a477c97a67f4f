package rules

import (
	"regexp"
	"strings"

	"sveltedoctor/internal/classify"
	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/jsast"
	"sveltedoctor/internal/markup"
)

var noExportLet = &Rule{
	ID:          "sv-no-export-let",
	Severity:    diag.SevError,
	Roles:       componentOnly,
	Description: "Flags legacy Svelte 4 export let props.",
	AgentPrompt: "This is Svelte 5. Replace all `export let` props with a single `let { ...props } = $props()` destructuring.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := instance(t)
		if prog == nil {
			return
		}
		for _, stmt := range prog.Body {
			exp, ok := stmt.(*jsast.Export)
			if !ok {
				continue
			}
			if decl, ok := exp.Decl.(*jsast.VarDecl); ok && decl.DeclKind == "let" {
				ctx.Report(exp, "Legacy Svelte 4 `export let` prop detected. Use `let { prop } = $props()` instead.")
			}
		}
	},
	Fix: fixExportLet,
}

var (
	exportLetRe = regexp.MustCompile(`export\s+let\s+(\w+)(?:\s*:\s*[^=;]+?)?(?:\s*=\s*([^;]+))?;`)
	blankRunsRe = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// fixExportLet folds every `export let` into one $props() destructuring
// placed where the first one was.
func fixExportLet(src string, _ *diag.Diagnostic) (string, bool) {
	var (
		matches [][]int
		props   []string
	)
	for _, m := range exportLetRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[m[2]:m[3]]
		if m[4] >= 0 {
			def := strings.TrimSpace(src[m[4]:m[5]])
			if !balanced(def) {
				// default с телом функции регулярка не вытянет: оставляем как есть
				continue
			}
			name += " = " + def
		}
		matches = append(matches, m)
		props = append(props, name)
	}
	if len(matches) == 0 {
		return src, false
	}

	var b strings.Builder
	last := 0
	for i, m := range matches {
		b.WriteString(src[last:m[0]])
		if i == 0 {
			b.WriteString("let { " + strings.Join(props, ", ") + " } = $props();")
		}
		last = m[1]
	}
	b.WriteString(src[last:])
	return result(src, blankRunsRe.ReplaceAllString(b.String(), "\n\n"))
}

var noReactiveStatements = &Rule{
	ID:          "sv-no-reactive-statements",
	Severity:    diag.SevError,
	Roles:       componentOnly,
	Description: "Flags legacy Svelte 4 $: reactive statements.",
	AgentPrompt: "This is Svelte 5. Replace `$: x = expr` with `let x = $derived(expr)`. Replace `$: { block }` with `$effect(() => { block })`.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := instance(t)
		if prog == nil {
			return
		}
		jsast.Inspect(prog, func(n jsast.Node) bool {
			if l, ok := n.(*jsast.Labeled); ok && l.Label == "$" {
				ctx.Report(l, "Legacy Svelte 4 `$:` reactive statement detected. Use `$derived()` or `$effect()` instead.")
			}
			return true
		})
	},
	Fix: fixReactiveStatements,
}

var (
	reactiveAssignRe = regexp.MustCompile(`\$:\s+(\w+)\s*=\s*([^=;\s][^;\n]*);`)
	reactiveBlockRe  = regexp.MustCompile(`\$:\s*\{`)
)

// fixReactiveStatements turns `$: x = e;` into `let x = $derived(e);` and
// `$: { ... }` into `$effect(() => { ... })`. Blocks are matched by brace
// depth, so nested blocks stay whole.
func fixReactiveStatements(src string, _ *diag.Diagnostic) (string, bool) {
	var b strings.Builder
	last := 0
	for _, m := range reactiveAssignRe.FindAllStringSubmatchIndex(src, -1) {
		expr := strings.TrimSpace(src[m[4]:m[5]])
		if !balanced(expr) {
			continue
		}
		b.WriteString(src[last:m[0]])
		b.WriteString("let " + src[m[2]:m[3]] + " = $derived(" + expr + ");")
		last = m[1]
	}
	b.WriteString(src[last:])
	out := b.String()

	b.Reset()
	last = 0
	for _, m := range reactiveBlockRe.FindAllStringIndex(out, -1) {
		if m[0] < last {
			continue
		}
		open := m[1] - 1
		end, ok := markup.MatchBrace(out, open)
		if !ok {
			continue
		}
		b.WriteString(out[last:m[0]])
		b.WriteString("$effect(() => {" + out[open+1:end] + "})")
		last = end + 1
	}
	b.WriteString(out[last:])
	return result(src, b.String())
}

var noEventDispatcher = &Rule{
	ID:          "sv-no-event-dispatcher",
	Severity:    diag.SevError,
	Roles:       componentOnly,
	Description: "Flags createEventDispatcher usage. Use callback props instead.",
	AgentPrompt: "Svelte 5 removes `createEventDispatcher`. Pass callback functions as props instead. Replace `dispatch('submit', data)` with `onsubmit?.(data)` where `let { onsubmit } = $props();`",
	Analyze: func(t *Tree, ctx *Context) {
		prog := instance(t)
		if prog == nil {
			return
		}
		jsast.Inspect(prog, func(n jsast.Node) bool {
			switch n := n.(type) {
			case *jsast.Import:
				if n.Source != "svelte" {
					return false
				}
				for _, s := range n.Specifiers {
					if s.Imported == "createEventDispatcher" {
						ctx.Report(n, "Legacy `createEventDispatcher` import detected. Use callback props via `$props()` instead.")
					}
				}
				return false
			case *jsast.Declarator:
				if jsast.IsCallTo(n.Init, "createEventDispatcher") {
					ctx.Report(n, "`createEventDispatcher()` is deprecated in Svelte 5. Pass callback functions as props instead.")
				}
			}
			return true
		})
	},
}

var noComponentConstructor = &Rule{
	ID:          "sv-no-component-constructor",
	Severity:    diag.SevError,
	Roles:       classify.Roles(classify.RoleComponent, classify.RoleLibClient, classify.RoleLibServer),
	Description: "Flags legacy `new Component({ target })` constructor pattern.",
	AgentPrompt: "Svelte 5 removes the class-based component constructor. Use `import { mount } from 'svelte'; mount(Component, { target })` instead of `new Component({ target })`.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := t.ScriptRoot()
		if prog == nil {
			return
		}
		jsast.Inspect(prog, func(n jsast.Node) bool {
			nw, ok := n.(*jsast.New)
			if !ok || len(nw.Args) == 0 {
				return true
			}
			obj, ok := nw.Args[0].(*jsast.Object)
			if !ok || !hasKey(obj, "target") {
				return true
			}
			name := jsast.IdentName(nw.Callee)
			if name == "" {
				name = "Component"
			}
			ctx.Report(nw, "Legacy component constructor `new "+name+"({ target })` detected. Use `mount("+name+", { target })` from `svelte` instead.")
			return true
		})
	},
	Fix: func(src string, _ *diag.Diagnostic) (string, bool) {
		out := constructorRe.ReplaceAllStringFunc(src, func(m string) string {
			sub := constructorRe.FindStringSubmatch(m)
			if !balanced(sub[2]) {
				return m
			}
			return "mount(" + sub[1] + ", " + sub[2] + ")"
		})
		if out == src {
			return src, false
		}
		if !strings.Contains(out, "import { mount }") && !strings.Contains(out, "import {mount}") {
			out = insertImport(out, "import { mount } from 'svelte';")
		}
		return out, true
	},
}

var (
	constructorRe = regexp.MustCompile(`new\s+(\w+)\s*\(\s*(\{[\s\S]*?\btarget\b[\s\S]*?\})\s*\)`)
	scriptOpenRe  = regexp.MustCompile(`<script\b[^>]*>`)
)

// insertImport puts line at the top of the first script block of a
// component, or at the top of a plain script file.
func insertImport(src, line string) string {
	if loc := scriptOpenRe.FindStringIndex(src); loc != nil {
		return src[:loc[1]] + "\n" + line + src[loc[1]:]
	}
	return line + "\n" + src
}

func hasKey(obj *jsast.Object, key string) bool {
	for _, p := range obj.Props {
		if prop, ok := p.(*jsast.Property); ok && !prop.Computed && prop.Key == key {
			return true
		}
	}
	return false
}

var noMagicProps = &Rule{
	ID:          "sv-no-magic-props",
	Severity:    diag.SevError,
	Roles:       componentOnly,
	Description: "Flags $$props and $$restProps usage. Use $props() destructuring with rest pattern.",
	AgentPrompt: "Svelte 5 removes `$$props` and `$$restProps`. Use `let { known, ...rest } = $props();` for rest props and access all props via the destructured pattern.",
	Analyze: func(t *Tree, ctx *Context) {
		report := func(at Locatable, name string) {
			ctx.Report(at, "`"+name+"` is removed in Svelte 5. Use `let { ...rest } = $props();` instead.")
		}
		if prog := instance(t); prog != nil {
			jsast.Inspect(prog, func(n jsast.Node) bool {
				if id, ok := n.(*jsast.Ident); ok && isMagicProps(id.Name) {
					report(id, id.Name)
				}
				return true
			})
		}
		markup.Walk(t.Fragment(), func(n markup.Node) bool {
			if id, ok := n.(*markup.Ident); ok && isMagicProps(id.Name) {
				report(id, id.Name)
			}
			return true
		})
	},
	Fix: func(src string, _ *diag.Diagnostic) (string, bool) {
		out := strings.ReplaceAll(src, "$$restProps", "rest /* TODO: add ...rest to $props() destructuring */")
		out = strings.ReplaceAll(out, "$$props", "$props /* TODO: replace with $props() destructuring */")
		return result(src, out)
	},
}

func isMagicProps(name string) bool {
	return name == "$$props" || name == "$$restProps"
}
