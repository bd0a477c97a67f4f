package rules

import (
	"sveltedoctor/internal/classify"
	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/jsast"
)

var kitNoSharedServerState = &Rule{
	ID:          "kit-no-shared-server-state",
	Severity:    diag.SevError,
	Roles:       serverRoutes,
	Description: "Flags mutable module-level state in server files (cross-request data leak).",
	AgentPrompt: "CRITICAL: Module-level `let` in server files creates shared mutable state across all requests. Move per-request state to `event.locals` or inside the function body.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := t.ScriptRoot()
		if prog == nil {
			return
		}
		for _, stmt := range prog.Body {
			decl, ok := stmt.(*jsast.VarDecl)
			if !ok {
				// export let counter = 0; is shared just the same
				if exp, isExport := stmt.(*jsast.Export); isExport {
					decl, ok = exp.Decl.(*jsast.VarDecl)
				}
			}
			if !ok || decl.DeclKind != "let" {
				continue
			}
			for _, d := range decl.Declarators {
				name := jsast.IdentName(d.ID)
				if name == "" {
					name = "unknown"
				}
				ctx.Report(stmt, "Module-level `let "+name+"` in server file creates shared mutable state across all requests. Move to `event.locals` or inside the handler function.")
			}
		}
	},
}

var privateEnvModules = map[string]bool{
	"$env/static/private":  true,
	"$env/dynamic/private": true,
}

var kitServerOnlySecrets = &Rule{
	ID:          "kit-server-only-secrets",
	Severity:    diag.SevError,
	Roles:       classify.Roles(classify.RoleComponent, classify.RolePageClient, classify.RoleLayoutClient, classify.RoleLibClient),
	Description: "Flags private env variable imports in client-accessible files.",
	AgentPrompt: "Private environment variables (`$env/static/private`, `$env/dynamic/private`) can ONLY be imported in server-side files. Use `$env/static/public` or `$env/dynamic/public` for client access.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := t.ScriptRoot()
		if prog == nil {
			return
		}
		jsast.Inspect(prog, func(n jsast.Node) bool {
			imp, ok := n.(*jsast.Import)
			if ok && privateEnvModules[imp.Source] {
				ctx.Report(imp, "`"+imp.Source+"` imported in client-accessible file. Private env vars can only be used in server files (+page.server.ts, +server.ts, src/lib/server/).")
			}
			return !ok
		})
	},
}

var kitNoGotoInServer = &Rule{
	ID:          "kit-no-goto-in-server",
	Severity:    diag.SevError,
	Roles:       serverRoutes,
	Description: "Flags goto() import from $app/navigation in server files.",
	AgentPrompt: "`goto()` is a client-side navigation function and cannot be used in server files. Use `throw redirect(302, url)` from `@sveltejs/kit` instead.",
	Analyze: func(t *Tree, ctx *Context) {
		prog := t.ScriptRoot()
		if prog == nil {
			return
		}
		jsast.Inspect(prog, func(n jsast.Node) bool {
			imp, ok := n.(*jsast.Import)
			if !ok {
				return true
			}
			if imp.Source != "$app/navigation" {
				return false
			}
			for _, s := range imp.Specifiers {
				if s.Default || s.Namespace {
					continue
				}
				if s.Imported == "goto" || s.Local == "goto" {
					ctx.Report(imp, "`goto()` from `$app/navigation` cannot be used in server files. Use `throw redirect(302, url)` from `@sveltejs/kit` instead.")
					break
				}
			}
			return false
		})
	},
}
