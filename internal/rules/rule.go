// Package rules holds the rule catalog. Every rule is a plain record: an
// analysis callback over a parsed file and an optional textual fix.
package rules

import (
	"sveltedoctor/internal/classify"
	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/jsast"
	"sveltedoctor/internal/markup"
	"sveltedoctor/internal/source"
)

// Tree is a parsed file: exactly one of Script and Component is set.
type Tree struct {
	Script    *jsast.Program
	Component *markup.Component
}

// ScriptRoot returns the program rules walk for script-level checks: the
// instance script of a component or the program of a plain script file.
func (t *Tree) ScriptRoot() *jsast.Program {
	if t.Component != nil {
		if t.Component.Instance == nil {
			return nil
		}
		return t.Component.Instance.Program
	}
	return t.Script
}

// Fragment returns the template nodes of a component, nil for scripts.
func (t *Tree) Fragment() []markup.Node {
	if t.Component == nil {
		return nil
	}
	return t.Component.Fragment
}

// Locatable is anything with a source span: jsast and markup nodes alike.
type Locatable interface {
	Span() source.Span
}

// Context is handed to Analyze; Report records one finding.
type Context struct {
	emit func(at Locatable, message string)
}

// NewContext binds a report sink. The engine owns the conversion of spans to
// positions; a nil at means "no location".
func NewContext(emit func(at Locatable, message string)) *Context {
	return &Context{emit: emit}
}

func (c *Context) Report(at Locatable, message string) {
	c.emit(at, message)
}

// FixFunc rewrites the whole file text for one diagnostic. ok=false means
// nothing changed.
type FixFunc func(src string, d *diag.Diagnostic) (out string, ok bool)

type Rule struct {
	ID          string
	Severity    diag.Severity
	Roles       classify.RoleSet
	Description string
	AgentPrompt string
	Analyze     func(t *Tree, ctx *Context)
	Fix         FixFunc
}

func (r *Rule) Fixable() bool {
	return r.Fix != nil
}

func (r *Rule) AppliesTo(role classify.Role) bool {
	return r.Roles.Has(role)
}

// result converts a fix output into the no-change convention.
func result(src, out string) (string, bool) {
	if out == src {
		return src, false
	}
	return out, true
}
