package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"sveltedoctor/internal/jsast"
	"sveltedoctor/internal/source"
)

// typeOnly lists grammar nodes with no runtime meaning; they are dropped.
var typeOnly = map[string]struct{}{
	"comment":                   {},
	"hash_bang_line":            {},
	"type_annotation":           {},
	"type_arguments":            {},
	"type_parameters":           {},
	"interface_declaration":     {},
	"type_alias_declaration":    {},
	"ambient_declaration":       {},
	"accessibility_modifier":    {},
	"override_modifier":         {},
	"asserts_annotation":        {},
	"type_predicate_annotation": {},
	"opting_type_annotation":    {},
	"omitting_type_annotation":  {},
	"empty_statement":           {},
}

type converter struct {
	src  []byte
	file source.FileID
	base uint32
}

func (c *converter) span(n *sitter.Node) source.Span {
	return source.Span{File: c.file, Start: n.StartByte(), End: n.EndByte()}.ShiftRight(c.base)
}

func (c *converter) pos(n *sitter.Node) jsast.Pos {
	return jsast.Pos{Loc: c.span(n)}
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func (c *converter) program(root *sitter.Node) *jsast.Program {
	return &jsast.Program{Pos: c.pos(root), Body: c.namedList(root)}
}

// namedList converts the named children of n, skipping dropped nodes.
func (c *converter) namedList(n *sitter.Node) []jsast.Node {
	if n == nil {
		return nil
	}
	var out []jsast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if x := c.conv(n.NamedChild(i)); x != nil {
			out = append(out, x)
		}
	}
	return out
}

// firstNamed returns the first named child that is not a comment.
func firstNamed(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() != "comment" {
			return ch
		}
	}
	return nil
}

func lastNamed(n *sitter.Node) *sitter.Node {
	for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
		ch := n.NamedChild(i)
		if ch.Type() != "comment" {
			return ch
		}
	}
	return nil
}

// hasToken reports whether n has a direct anonymous child with the given text.
func hasToken(n *sitter.Node, tok string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if !ch.IsNamed() && ch.Type() == tok {
			return true
		}
	}
	return false
}

func isOptionalChain(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "optional_chain", "?.":
			return true
		}
	}
	return false
}

func unquote(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '"', '\'', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}

// conv maps one grammar node to a jsast node. It returns a nil interface
// (never a typed nil) for absent and dropped nodes.
func (c *converter) conv(n *sitter.Node) jsast.Node {
	if n == nil || n.IsNull() {
		return nil
	}
	typ := n.Type()
	if _, drop := typeOnly[typ]; drop {
		return nil
	}

	switch typ {
	case "identifier", "shorthand_property_identifier", "shorthand_property_identifier_pattern", "statement_identifier":
		return &jsast.Ident{Pos: c.pos(n), Name: c.text(n)}

	case "lexical_declaration", "variable_declaration":
		return c.varDecl(n)
	case "variable_declarator":
		return c.declarator(n)

	case "expression_statement":
		inner := firstNamed(n)
		if inner == nil {
			return nil
		}
		return &jsast.ExprStmt{Pos: c.pos(n), Expr: c.conv(inner)}

	case "call_expression":
		call := &jsast.Call{Pos: c.pos(n), Callee: c.conv(n.ChildByFieldName("function")), Optional: isOptionalChain(n)}
		if args := n.ChildByFieldName("arguments"); args != nil {
			if args.Type() == "arguments" {
				call.Args = c.namedList(args)
			} else if a := c.conv(args); a != nil {
				// tagged template
				call.Args = []jsast.Node{a}
			}
		}
		return call
	case "new_expression":
		return &jsast.New{
			Pos:    c.pos(n),
			Callee: c.conv(n.ChildByFieldName("constructor")),
			Args:   c.namedList(n.ChildByFieldName("arguments")),
		}
	case "member_expression":
		m := &jsast.Member{Pos: c.pos(n), Object: c.conv(n.ChildByFieldName("object")), Optional: isOptionalChain(n)}
		if prop := n.ChildByFieldName("property"); prop != nil {
			m.Property = c.text(prop)
		}
		return m
	case "subscript_expression":
		return &jsast.Member{
			Pos:      c.pos(n),
			Object:   c.conv(n.ChildByFieldName("object")),
			Index:    c.conv(n.ChildByFieldName("index")),
			Computed: true,
			Optional: isOptionalChain(n),
		}

	case "assignment_expression":
		return &jsast.Assign{Pos: c.pos(n), Op: "=", Left: c.conv(n.ChildByFieldName("left")), Right: c.conv(n.ChildByFieldName("right"))}
	case "augmented_assignment_expression":
		op := "="
		if o := n.ChildByFieldName("operator"); o != nil {
			op = o.Type()
		}
		return &jsast.Assign{Pos: c.pos(n), Op: op, Left: c.conv(n.ChildByFieldName("left")), Right: c.conv(n.ChildByFieldName("right"))}
	case "update_expression":
		u := &jsast.Update{Pos: c.pos(n), Argument: c.conv(n.ChildByFieldName("argument"))}
		if o := n.ChildByFieldName("operator"); o != nil {
			u.Op = o.Type()
			u.Prefix = o.StartByte() == n.StartByte()
		}
		return u
	case "unary_expression":
		u := &jsast.Unary{Pos: c.pos(n), Argument: c.conv(n.ChildByFieldName("argument"))}
		if o := n.ChildByFieldName("operator"); o != nil {
			u.Op = o.Type()
		}
		return u
	case "binary_expression":
		b := &jsast.Binary{Pos: c.pos(n), Left: c.conv(n.ChildByFieldName("left")), Right: c.conv(n.ChildByFieldName("right"))}
		if o := n.ChildByFieldName("operator"); o != nil {
			b.Op = o.Type()
		}
		return b
	case "ternary_expression":
		return &jsast.Conditional{
			Pos:        c.pos(n),
			Test:       c.conv(n.ChildByFieldName("condition")),
			Consequent: c.conv(n.ChildByFieldName("consequence")),
			Alternate:  c.conv(n.ChildByFieldName("alternative")),
		}
	case "await_expression":
		var arg jsast.Node
		if inner := firstNamed(n); inner != nil {
			arg = c.conv(inner)
		}
		return &jsast.Await{Pos: c.pos(n), Argument: arg}

	case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression", "else_clause":
		if inner := firstNamed(n); inner != nil {
			return c.conv(inner)
		}
		return nil
	case "type_assertion":
		if inner := lastNamed(n); inner != nil {
			return c.conv(inner)
		}
		return nil

	case "arrow_function":
		return c.arrow(n)
	case "function", "function_expression", "generator_function":
		return c.function(n, jsast.FuncExpr)
	case "function_declaration", "generator_function_declaration":
		return c.function(n, jsast.FuncDecl)
	case "method_definition":
		return c.function(n, jsast.FuncExpr)

	case "statement_block":
		return &jsast.Block{Pos: c.pos(n), Body: c.namedList(n)}
	case "if_statement":
		return &jsast.If{
			Pos:        c.pos(n),
			Test:       c.conv(n.ChildByFieldName("condition")),
			Consequent: c.conv(n.ChildByFieldName("consequence")),
			Alternate:  c.conv(n.ChildByFieldName("alternative")),
		}
	case "return_statement":
		var arg jsast.Node
		if inner := firstNamed(n); inner != nil {
			arg = c.conv(inner)
		}
		return &jsast.Return{Pos: c.pos(n), Argument: arg}
	case "labeled_statement":
		l := &jsast.Labeled{Pos: c.pos(n), Body: c.conv(n.ChildByFieldName("body"))}
		if label := n.ChildByFieldName("label"); label != nil {
			l.Label = c.text(label)
		}
		return l

	case "export_statement":
		return c.export(n)
	case "import_statement":
		return c.importDecl(n)

	case "object_pattern":
		return &jsast.ObjectPattern{Pos: c.pos(n), Props: c.patternProps(n)}
	case "array_pattern":
		return &jsast.ArrayPattern{Pos: c.pos(n), Elements: c.namedList(n)}
	case "assignment_pattern":
		return &jsast.AssignPattern{Pos: c.pos(n), Left: c.conv(n.ChildByFieldName("left")), Right: c.conv(n.ChildByFieldName("right"))}
	case "rest_pattern":
		var arg jsast.Node
		if inner := firstNamed(n); inner != nil {
			arg = c.conv(inner)
		}
		return &jsast.Rest{Pos: c.pos(n), Argument: arg}
	case "required_parameter", "optional_parameter":
		p := c.conv(n.ChildByFieldName("pattern"))
		if v := n.ChildByFieldName("value"); v != nil {
			return &jsast.AssignPattern{Pos: c.pos(n), Left: p, Right: c.conv(v)}
		}
		return p

	case "object":
		return &jsast.Object{Pos: c.pos(n), Props: c.objectProps(n)}
	case "array":
		return &jsast.Array{Pos: c.pos(n), Elements: c.namedList(n)}
	case "spread_element":
		var arg jsast.Node
		if inner := firstNamed(n); inner != nil {
			arg = c.conv(inner)
		}
		return &jsast.Spread{Pos: c.pos(n), Argument: arg}

	case "string":
		raw := c.text(n)
		return &jsast.Literal{Pos: c.pos(n), LitKind: jsast.LitString, Raw: raw, Value: unquote(raw)}
	case "template_string":
		subs := c.namedList(n)
		if len(subs) > 0 {
			return &jsast.Other{Pos: c.pos(n), Type: typ, Children: subs}
		}
		raw := c.text(n)
		return &jsast.Literal{Pos: c.pos(n), LitKind: jsast.LitTemplate, Raw: raw, Value: unquote(raw)}
	case "template_substitution":
		if inner := firstNamed(n); inner != nil {
			return c.conv(inner)
		}
		return nil
	case "string_fragment", "escape_sequence":
		return nil
	case "number":
		return c.literal(n, jsast.LitNumber)
	case "true", "false":
		return c.literal(n, jsast.LitBool)
	case "null":
		return c.literal(n, jsast.LitNull)
	case "undefined":
		return c.literal(n, jsast.LitUndefined)
	case "regex":
		return c.literal(n, jsast.LitRegex)
	}

	return &jsast.Other{Pos: c.pos(n), Type: typ, Children: c.namedList(n)}
}

func (c *converter) literal(n *sitter.Node, kind jsast.LiteralKind) jsast.Node {
	raw := c.text(n)
	return &jsast.Literal{Pos: c.pos(n), LitKind: kind, Raw: raw, Value: raw}
}

func (c *converter) varDecl(n *sitter.Node) jsast.Node {
	d := &jsast.VarDecl{Pos: c.pos(n)}
	if first := n.Child(0); first != nil && !first.IsNamed() {
		d.DeclKind = first.Type()
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() != "variable_declarator" {
			continue
		}
		d.Declarators = append(d.Declarators, c.declarator(ch))
	}
	return d
}

func (c *converter) declarator(n *sitter.Node) *jsast.Declarator {
	return &jsast.Declarator{
		Pos:  c.pos(n),
		ID:   c.conv(n.ChildByFieldName("name")),
		Init: c.conv(n.ChildByFieldName("value")),
	}
}

func (c *converter) params(f *jsast.Func, n *sitter.Node) {
	if single := n.ChildByFieldName("parameter"); single != nil {
		if p := c.conv(single); p != nil {
			f.Params = []jsast.Node{p}
		}
		return
	}
	f.Params = c.namedList(n.ChildByFieldName("parameters"))
}

func (c *converter) arrow(n *sitter.Node) jsast.Node {
	f := &jsast.Func{Pos: c.pos(n), FuncKind: jsast.FuncArrow, Async: hasToken(n, "async")}
	c.params(f, n)
	if body := n.ChildByFieldName("body"); body != nil {
		f.Body = c.conv(body)
		f.ExprBody = body.Type() != "statement_block"
	}
	return f
}

func (c *converter) function(n *sitter.Node, kind jsast.FuncKind) jsast.Node {
	f := &jsast.Func{
		Pos:       c.pos(n),
		FuncKind:  kind,
		Async:     hasToken(n, "async"),
		Generator: hasToken(n, "*") || strings.HasPrefix(n.Type(), "generator_"),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		f.Name = c.text(name)
	}
	c.params(f, n)
	if body := n.ChildByFieldName("body"); body != nil {
		f.Body = c.conv(body)
	}
	return f
}

func (c *converter) export(n *sitter.Node) jsast.Node {
	decl := n.ChildByFieldName("declaration")
	if decl == nil {
		decl = n.ChildByFieldName("value")
	}
	if decl == nil {
		// export { a, b } / export * from '...'
		return &jsast.Other{Pos: c.pos(n), Type: n.Type(), Children: c.namedList(n)}
	}
	inner := c.conv(decl)
	if inner == nil {
		// export interface / export type
		return nil
	}
	return &jsast.Export{Pos: c.pos(n), Decl: inner, Default: hasToken(n, "default")}
}

func (c *converter) importDecl(n *sitter.Node) jsast.Node {
	imp := &jsast.Import{Pos: c.pos(n), TypeOnly: hasToken(n, "type")}
	if src := n.ChildByFieldName("source"); src != nil {
		imp.Source = unquote(c.text(src))
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			ch := clause.NamedChild(j)
			switch ch.Type() {
			case "identifier":
				imp.Specifiers = append(imp.Specifiers, jsast.ImportSpec{
					Imported: "default", Local: c.text(ch), Default: true, Loc: c.span(ch),
				})
			case "namespace_import":
				if id := firstNamed(ch); id != nil {
					imp.Specifiers = append(imp.Specifiers, jsast.ImportSpec{
						Imported: "*", Local: c.text(id), Namespace: true, Loc: c.span(ch),
					})
				}
			case "named_imports":
				for k := 0; k < int(ch.NamedChildCount()); k++ {
					spec := ch.NamedChild(k)
					if spec.Type() != "import_specifier" {
						continue
					}
					name := spec.ChildByFieldName("name")
					if name == nil {
						continue
					}
					s := jsast.ImportSpec{Imported: unquote(c.text(name)), Loc: c.span(spec)}
					s.Local = s.Imported
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						s.Local = c.text(alias)
					}
					imp.Specifiers = append(imp.Specifiers, s)
				}
			}
		}
	}
	return imp
}

// propertyKey reads a pair key: identifiers, strings, numbers and computed keys.
func (c *converter) propertyKey(p *jsast.Property, key *sitter.Node) {
	if key == nil {
		return
	}
	switch key.Type() {
	case "computed_property_name":
		p.Computed = true
		if inner := firstNamed(key); inner != nil {
			p.KeyExpr = c.conv(inner)
		}
	case "string":
		p.Key = unquote(c.text(key))
	default:
		p.Key = c.text(key)
	}
}

func (c *converter) objectProps(n *sitter.Node) []jsast.Node {
	var out []jsast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		switch ch.Type() {
		case "pair":
			p := &jsast.Property{Pos: c.pos(ch), Value: c.conv(ch.ChildByFieldName("value"))}
			c.propertyKey(p, ch.ChildByFieldName("key"))
			out = append(out, p)
		case "shorthand_property_identifier":
			out = append(out, &jsast.Property{
				Pos:       c.pos(ch),
				Key:       c.text(ch),
				Value:     &jsast.Ident{Pos: c.pos(ch), Name: c.text(ch)},
				Shorthand: true,
			})
		case "method_definition":
			p := &jsast.Property{Pos: c.pos(ch), Value: c.function(ch, jsast.FuncExpr), Method: true}
			c.propertyKey(p, ch.ChildByFieldName("name"))
			out = append(out, p)
		default:
			if x := c.conv(ch); x != nil {
				out = append(out, x)
			}
		}
	}
	return out
}

func (c *converter) patternProps(n *sitter.Node) []jsast.Node {
	var out []jsast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		switch ch.Type() {
		case "shorthand_property_identifier_pattern":
			out = append(out, &jsast.Property{
				Pos:       c.pos(ch),
				Key:       c.text(ch),
				Value:     &jsast.Ident{Pos: c.pos(ch), Name: c.text(ch)},
				Shorthand: true,
			})
		case "pair_pattern":
			p := &jsast.Property{Pos: c.pos(ch), Value: c.conv(ch.ChildByFieldName("value"))}
			c.propertyKey(p, ch.ChildByFieldName("key"))
			out = append(out, p)
		case "object_assignment_pattern":
			left := ch.ChildByFieldName("left")
			right := c.conv(ch.ChildByFieldName("right"))
			if left != nil && left.Type() == "shorthand_property_identifier_pattern" {
				id := &jsast.Ident{Pos: c.pos(left), Name: c.text(left)}
				out = append(out, &jsast.Property{
					Pos:       c.pos(ch),
					Key:       id.Name,
					Value:     &jsast.AssignPattern{Pos: c.pos(ch), Left: id, Right: right},
					Shorthand: true,
				})
				continue
			}
			out = append(out, &jsast.AssignPattern{Pos: c.pos(ch), Left: c.conv(left), Right: right})
		default:
			if x := c.conv(ch); x != nil {
				out = append(out, x)
			}
		}
	}
	return out
}
