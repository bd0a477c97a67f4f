// Package analysis builds per-component facts shared by the rules: which
// names are reactive and where each of them is written.
package analysis

import (
	"regexp"
	"sort"

	"sveltedoctor/internal/jsast"
	"sveltedoctor/internal/markup"
)

// SiteKind classifies where a write happens.
type SiteKind uint8

const (
	SiteTopLevel SiteKind = iota + 1
	SiteEffect            // directly inside an $effect callback
	SiteFunction          // inside any other function
	SiteHandler           // inside a function used as an event handler
)

func (k SiteKind) String() string {
	switch k {
	case SiteTopLevel:
		return "top-level"
	case SiteEffect:
		return "effect"
	case SiteFunction:
		return "function"
	case SiteHandler:
		return "handler"
	}
	return "unknown"
}

// WriteSite is one assignment or update of a plain identifier.
type WriteSite struct {
	Kind   SiteKind
	Node   jsast.Node  // *jsast.Assign or *jsast.Update
	Effect *jsast.Call // enclosing $effect call for SiteEffect, nil otherwise
}

// Set is a set of identifier names.
type Set map[string]struct{}

func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s Set) add(name string) {
	s[name] = struct{}{}
}

// Names returns the members in sorted order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ComponentContext summarises the instance script of one component. It is
// read-only once built.
type ComponentContext struct {
	StateVars    Set
	BindableVars Set // subset of PropsVars
	DerivedVars  Set
	PropsVars    Set
	WriteSites   map[string][]WriteSite
}

// Build returns nil when the component has no instance script.
func Build(comp *markup.Component) *ComponentContext {
	if comp == nil || comp.Instance == nil || comp.Instance.Program == nil {
		return nil
	}
	return BuildProgram(comp.Instance.Program)
}

// BuildProgram runs both passes over a script program.
func BuildProgram(prog *jsast.Program) *ComponentContext {
	cc := &ComponentContext{
		StateVars:    Set{},
		BindableVars: Set{},
		DerivedVars:  Set{},
		PropsVars:    Set{},
		WriteSites:   map[string][]WriteSite{},
	}
	cc.collectDeclarations(prog)
	cc.collectWrites(prog)
	return cc
}

// Sites returns the write sites recorded for name.
func (cc *ComponentContext) Sites(name string) []WriteSite {
	return cc.WriteSites[name]
}

// OnlyWrittenBy reports whether every write of name happens directly inside
// the given effect.
func (cc *ComponentContext) OnlyWrittenBy(name string, effect *jsast.Call) bool {
	for _, s := range cc.WriteSites[name] {
		if s.Kind != SiteEffect || s.Effect != effect {
			return false
		}
	}
	return true
}

func (cc *ComponentContext) collectDeclarations(prog *jsast.Program) {
	jsast.Inspect(prog, func(n jsast.Node) bool {
		decl, ok := n.(*jsast.VarDecl)
		if !ok {
			return true
		}
		for _, d := range decl.Declarators {
			switch jsast.CalleeName(d.Init) {
			case "$state":
				if id, ok := d.ID.(*jsast.Ident); ok {
					cc.StateVars.add(id.Name)
				}
			case "$derived":
				if id, ok := d.ID.(*jsast.Ident); ok {
					cc.DerivedVars.add(id.Name)
				}
			case "$props":
				if pat, ok := d.ID.(*jsast.ObjectPattern); ok {
					cc.collectProps(pat)
				}
			}
		}
		return true
	})
}

func (cc *ComponentContext) collectProps(pat *jsast.ObjectPattern) {
	for _, p := range pat.Props {
		prop, ok := p.(*jsast.Property)
		if !ok {
			continue
		}
		switch v := prop.Value.(type) {
		case *jsast.Ident:
			cc.PropsVars.add(v.Name)
		case *jsast.AssignPattern:
			name := jsast.IdentName(v.Left)
			if name == "" {
				continue
			}
			cc.PropsVars.add(name)
			if jsast.IsCallTo(v.Right, "$bindable") {
				cc.BindableVars.add(name)
			}
		}
	}
}

func (cc *ComponentContext) collectWrites(prog *jsast.Program) {
	jsast.Walk(prog, func(n jsast.Node, parents *jsast.Path) bool {
		var name string
		switch n := n.(type) {
		case *jsast.Assign:
			name = jsast.IdentName(n.Left)
		case *jsast.Update:
			name = jsast.IdentName(n.Argument)
		}
		if name != "" {
			cc.WriteSites[name] = append(cc.WriteSites[name], classifyWrite(n, parents))
		}
		return true
	})
}

// classifyWrite looks for the innermost function around a write; its
// parent decides the kind.
func classifyWrite(n jsast.Node, parents *jsast.Path) WriteSite {
	for p := parents; p != nil; p = p.Parent {
		fn, ok := p.Node.(*jsast.Func)
		if !ok {
			continue
		}
		var outer jsast.Node
		if p.Parent != nil {
			outer = p.Parent.Node
		}
		if call, ok := outer.(*jsast.Call); ok && IsEffectCall(call) && EffectCallback(call) == fn {
			return WriteSite{Kind: SiteEffect, Node: n, Effect: call}
		}
		if isHandler(fn, outer) {
			return WriteSite{Kind: SiteHandler, Node: n}
		}
		return WriteSite{Kind: SiteFunction, Node: n}
	}
	return WriteSite{Kind: SiteTopLevel, Node: n}
}

var handlerKey = regexp.MustCompile(`^on[a-z]+$`)

// isHandler recognises el.addEventListener('x', fn), el.onx = fn and
// { onx: fn }.
func isHandler(fn *jsast.Func, outer jsast.Node) bool {
	switch o := outer.(type) {
	case *jsast.Call:
		m, ok := o.Callee.(*jsast.Member)
		if !ok || m.Property != "addEventListener" {
			return false
		}
		for _, a := range o.Args {
			if a == jsast.Node(fn) {
				return true
			}
		}
	case *jsast.Assign:
		_, member := o.Left.(*jsast.Member)
		return member && o.Right == jsast.Node(fn)
	case *jsast.Property:
		return handlerKey.MatchString(o.Key) && o.Value == jsast.Node(fn)
	}
	return false
}
