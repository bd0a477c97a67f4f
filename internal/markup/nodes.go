// Package markup models the template side of a Svelte component as a closed
// set of node variants and provides the scanner that builds it.
//
// Script blocks are located and their text handed over untouched; parsing
// their contents into jsast is the job of internal/parser.
package markup

import (
	"sveltedoctor/internal/jsast"
	"sveltedoctor/internal/source"
)

// Kind tags a markup node variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindElement
	KindAttribute
	KindDirective
	KindSpread
	KindTag
	KindExpression
	KindIdent
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindAttribute:
		return "Attribute"
	case KindDirective:
		return "Directive"
	case KindSpread:
		return "SpreadAttribute"
	case KindTag:
		return "Tag"
	case KindExpression:
		return "Expression"
	case KindIdent:
		return "Identifier"
	}
	return "Invalid"
}

// Node is implemented by every markup variant.
type Node interface {
	Kind() Kind
	Span() source.Span
	markupNode()
}

// Pos carries the location of a node.
type Pos struct {
	Loc source.Span
}

func (p Pos) Span() source.Span { return p.Loc }
func (Pos) markupNode()         {}

// ElementKind distinguishes the element flavours the rules care about.
type ElementKind uint8

const (
	ElemRegular         ElementKind = iota + 1 // <div>, <form>
	ElemComponent                              // <Button>, <ui.Card>
	ElemSlot                                   // <slot>
	ElemSvelteComponent                        // <svelte:component>
	ElemSvelteSpecial                          // <svelte:head>, <svelte:window>, ...
)

// TagKind distinguishes mustache tags.
type TagKind uint8

const (
	TagExpr       TagKind = iota + 1 // {expr}
	TagRender                        // {@render expr}
	TagHTML                          // {@html expr}
	TagConst                         // {@const x = expr}
	TagDebug                         // {@debug a, b}
	TagBlockOpen                     // {#if expr}
	TagBlockMid                      // {:else}
	TagBlockClose                    // {/if}
)

type (
	Element struct {
		Pos
		ElemKind    ElementKind
		Name        string
		Attributes  []Node // *Attribute, *Directive, *Spread
		Children    []Node
		SelfClosing bool
	}

	// Attribute is name, name="text", name={expr} or a mix in quotes.
	Attribute struct {
		Pos
		Name     string
		HasValue bool
		Value    string // static text with expressions removed
		Exprs    []*Expression
	}

	// Directive is kind:name|mod1|mod2={expr}.
	Directive struct {
		Pos
		DirKind   string // "on", "use", "bind", "class", "style", ...
		Name      string
		Modifiers []string
		Expr      *Expression // nil without value
	}

	Spread struct {
		Pos
		Expr *Expression
	}

	Tag struct {
		Pos
		TagKind TagKind
		Keyword string // "if", "each", "else", ... for block tags
		Expr    *Expression
	}

	// Expression is the raw text of a template expression with the
	// identifiers it references. Member property names, object keys in
	// shorthand-free position, keywords and string contents are excluded.
	Expression struct {
		Pos
		Text   string
		Idents []*Ident
	}

	Ident struct {
		Pos
		Name string
	}
)

func (*Element) Kind() Kind    { return KindElement }
func (*Attribute) Kind() Kind  { return KindAttribute }
func (*Directive) Kind() Kind  { return KindDirective }
func (*Spread) Kind() Kind     { return KindSpread }
func (*Tag) Kind() Kind        { return KindTag }
func (*Expression) Kind() Kind { return KindExpression }
func (*Ident) Kind() Kind      { return KindIdent }

// Script is a top-level <script> block.
type Script struct {
	Loc     source.Span // whole element, <script ...> to </script>
	Content source.Span // text between the tags
	Module  bool        // context="module" or the module attribute
	Lang    string
	Program *jsast.Program // filled by the parser
}

// Component is a parsed .svelte file.
type Component struct {
	Instance *Script
	Module   *Script
	Fragment []Node
}

// Attr returns the first plain attribute named name.
func (e *Element) Attr(name string) (*Attribute, bool) {
	for _, a := range e.Attributes {
		if at, ok := a.(*Attribute); ok && at.Name == name {
			return at, true
		}
	}
	return nil, false
}

// Directive returns the first directive of the given kind and name.
func (e *Element) Directive(kind, name string) (*Directive, bool) {
	for _, a := range e.Attributes {
		if d, ok := a.(*Directive); ok && d.DirKind == kind && d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Walk visits nodes depth-first: an element, then its attributes (and their
// expressions), then its children. Returning false skips the node's insides.
func Walk(nodes []Node, visit func(Node) bool) {
	for _, n := range nodes {
		walkNode(n, visit)
	}
}

func walkNode(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	switch n := n.(type) {
	case *Element:
		Walk(n.Attributes, visit)
		Walk(n.Children, visit)
	case *Attribute:
		for _, e := range n.Exprs {
			walkNode(e, visit)
		}
	case *Directive:
		if n.Expr != nil {
			walkNode(n.Expr, visit)
		}
	case *Spread:
		if n.Expr != nil {
			walkNode(n.Expr, visit)
		}
	case *Tag:
		if n.Expr != nil {
			walkNode(n.Expr, visit)
		}
	case *Expression:
		for _, id := range n.Idents {
			walkNode(id, visit)
		}
	}
}
