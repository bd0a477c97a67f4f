package rules

import (
	"regexp"
	"strings"

	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/markup"
)

// walkElements visits every element of the template.
func walkElements(t *Tree, visit func(el *markup.Element)) {
	markup.Walk(t.Fragment(), func(n markup.Node) bool {
		if el, ok := n.(*markup.Element); ok {
			visit(el)
		}
		return true
	})
}

// walkDirectives visits every directive of the given kind.
func walkDirectives(t *Tree, kind string, visit func(d *markup.Directive)) {
	markup.Walk(t.Fragment(), func(n markup.Node) bool {
		if d, ok := n.(*markup.Directive); ok && d.DirKind == kind {
			visit(d)
		}
		return true
	})
}

var preferSnippets = &Rule{
	ID:          "sv-prefer-snippets",
	Severity:    diag.SevError,
	Roles:       componentOnly,
	Description: "Flags legacy <slot> usage. Use {#snippet} and {@render} instead.",
	AgentPrompt: "Svelte 5 replaces `<slot>` with snippets. Use `{@render children?.()}` for default slot. Declare snippet props via `$props()`: `let { children, header } = $props();`",
	Analyze: func(t *Tree, ctx *Context) {
		walkElements(t, func(el *markup.Element) {
			if el.ElemKind != markup.ElemSlot {
				return
			}
			a, named := el.Attr("name")
			if !named {
				ctx.Report(el, "Legacy `<slot>` detected. Use `{@render children?.()}` instead.")
				return
			}
			name := a.Value
			if name == "" {
				name = "named"
			}
			ctx.Report(el, "Legacy `<slot name=\""+name+"\">` detected. Use `{@render "+name+"?.()}` instead.")
		})
	},
	Fix: func(src string, _ *diag.Diagnostic) (string, bool) {
		out := namedSlotSelfRe.ReplaceAllString(src, "{@render ${1}?.()}")
		out = namedSlotPairRe.ReplaceAllString(out, "{@render ${1}?.()}")
		out = slotSelfRe.ReplaceAllString(out, "{@render children?.()}")
		out = slotPairRe.ReplaceAllString(out, "{@render children?.()}")
		return result(src, out)
	},
}

var (
	namedSlotSelfRe = regexp.MustCompile(`<slot\s+name="(\w+)"\s*/>`)
	namedSlotPairRe = regexp.MustCompile(`<slot\s+name="(\w+)"\s*></slot>`)
	slotSelfRe      = regexp.MustCompile(`<slot\s*/>`)
	slotPairRe      = regexp.MustCompile(`<slot\s*></slot>`)
)

var requireNativeEvents = &Rule{
	ID:          "sv-require-native-events",
	Severity:    diag.SevError,
	Roles:       componentOnly,
	Description: "Flags on:event directive syntax, including modifiers. Use onevent attributes instead.",
	AgentPrompt: "Svelte 5 uses standard HTML event attributes. Replace `on:click={handler}` with `onclick={handler}`. For modifiers like `|preventDefault`, remove the modifier and call `event.preventDefault()` inside the handler.",
	Analyze: func(t *Tree, ctx *Context) {
		walkDirectives(t, "on", func(d *markup.Directive) {
			if len(d.Modifiers) > 0 {
				ctx.Report(d, "Legacy `on:"+d.Name+"|"+strings.Join(d.Modifiers, "|")+"` directive with modifiers detected. Use `on"+d.Name+"={handler}` and call `event."+d.Modifiers[0]+"()` inside the handler instead.")
				return
			}
			ctx.Report(d, "Legacy `on:"+d.Name+"` directive detected. Use `on"+d.Name+"={handler}` instead.")
		})
	},
	Fix: func(src string, _ *diag.Diagnostic) (string, bool) {
		return result(src, onDirectiveRe.ReplaceAllString(src, "on${1}${2}"))
	},
}

var onDirectiveRe = regexp.MustCompile(`on:(\w+)(\s*=)`)

var noSvelteComponent = &Rule{
	ID:          "sv-no-svelte-component",
	Severity:    diag.SevWarning,
	Roles:       componentOnly,
	Description: "Flags <svelte:component this={...} /> usage.",
	AgentPrompt: "Svelte 5 supports dynamic components directly: `<MyComponent />` where `MyComponent` is a variable. Replace `<svelte:component this={comp} />` with `<comp />` (or `{@const Tag = comp} <Tag />` if needed).",
	Analyze: func(t *Tree, ctx *Context) {
		walkElements(t, func(el *markup.Element) {
			if el.ElemKind == markup.ElemSvelteComponent {
				ctx.Report(el, "`<svelte:component this={...}>` is deprecated in Svelte 5. Use the component variable directly as a tag: `<Component />`.")
			}
		})
	},
}

var noEventModifiers = &Rule{
	ID:          "sv-no-event-modifiers",
	Severity:    diag.SevWarning,
	Roles:       componentOnly,
	Description: "Flags on:event|modifier syntax. Modifiers need manual refactoring to inline code.",
	AgentPrompt: "Svelte 5 removes event modifiers like `|preventDefault`. Instead, call `event.preventDefault()` inside the handler function. Replace `on:click|preventDefault={handler}` with `onclick={(e) => { e.preventDefault(); handler(e); }}`.",
	Analyze: func(t *Tree, ctx *Context) {
		walkDirectives(t, "on", func(d *markup.Directive) {
			if len(d.Modifiers) == 0 {
				return
			}
			ctx.Report(d, "Event modifier `|"+strings.Join(d.Modifiers, "|")+"` on `on:"+d.Name+"` detected. Svelte 5 removes event modifiers. Call `event."+d.Modifiers[0]+"()` inside the handler instead.")
		})
	},
}

var requireSnippetInvocation = &Rule{
	ID:          "sv-require-snippet-invocation",
	Severity:    diag.SevError,
	Roles:       componentOnly,
	Description: "Flags {@render snippet} without parentheses invocation.",
	AgentPrompt: "Snippets must be invoked with parentheses. Change `{@render foo}` to `{@render foo()}` or `{@render foo?.()}`.",
	Analyze: func(t *Tree, ctx *Context) {
		markup.Walk(t.Fragment(), func(n markup.Node) bool {
			tag, ok := n.(*markup.Tag)
			if !ok || tag.TagKind != markup.TagRender || tag.Expr == nil {
				return true
			}
			name := strings.TrimSpace(tag.Expr.Text)
			if isBareIdent(name) {
				ctx.Report(tag, "`{@render "+name+"}` is missing parentheses. Use `{@render "+name+"()}` or `{@render "+name+"?.()}`.")
			}
			return true
		})
	},
	Fix: func(src string, _ *diag.Diagnostic) (string, bool) {
		return result(src, renderBareRe.ReplaceAllString(src, "{@render ${1}()}"))
	},
}

var (
	renderBareRe = regexp.MustCompile(`\{@render\s+(\w+)\s*\}`)
	bareIdentRe  = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
)

func isBareIdent(s string) bool {
	return bareIdentRe.MatchString(s)
}

var kitRequireUseEnhance = &Rule{
	ID:          "kit-require-use-enhance",
	Severity:    diag.SevWarning,
	Roles:       componentOnly,
	Description: "Flags POST forms without use:enhance for progressive enhancement.",
	AgentPrompt: "SvelteKit forms with `method=\"POST\"` should use `use:enhance` for progressive enhancement. Add `use:enhance` to the form and import `enhance` from '$app/forms'.",
	Analyze: func(t *Tree, ctx *Context) {
		walkElements(t, func(el *markup.Element) {
			if el.Name != "form" {
				return
			}
			method, ok := el.Attr("method")
			if !ok || !strings.EqualFold(method.Value, "post") {
				return
			}
			if _, ok := el.Directive("use", "enhance"); ok {
				return
			}
			ctx.Report(el, "POST form is missing `use:enhance`. Add it for progressive enhancement.")
		})
	},
}
