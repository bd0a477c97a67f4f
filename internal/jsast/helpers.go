package jsast

import "strings"

// CalleeName returns the identifier name of a call's callee, or "".
func CalleeName(n Node) string {
	c, ok := n.(*Call)
	if !ok {
		return ""
	}
	if id, ok := c.Callee.(*Ident); ok {
		return id.Name
	}
	return ""
}

// IsCallTo reports whether n is a call whose callee is the identifier name.
func IsCallTo(n Node, name string) bool {
	return CalleeName(n) == name
}

// DottedName renders identifier and non-computed member chains such as
// "$effect.pre" or "Promise.all". Anything else yields "".
func DottedName(n Node) string {
	switch n := n.(type) {
	case *Ident:
		return n.Name
	case *Member:
		if n.Computed {
			return ""
		}
		base := DottedName(n.Object)
		if base == "" {
			return ""
		}
		return base + "." + n.Property
	}
	return ""
}

// CalleePath is DottedName of a call's callee.
func CalleePath(n Node) string {
	if c, ok := n.(*Call); ok {
		return DottedName(c.Callee)
	}
	return ""
}

// IdentName returns the name of an identifier node, or "".
func IdentName(n Node) string {
	if id, ok := n.(*Ident); ok {
		return id.Name
	}
	return ""
}

// IsFunction reports whether n is a function literal or declaration.
func IsFunction(n Node) bool {
	_, ok := n.(*Func)
	return ok
}

// BindingNames lists the identifiers bound by a declaration target.
func BindingNames(pattern Node) []string {
	var out []string
	var collect func(Node)
	collect = func(n Node) {
		switch n := n.(type) {
		case *Ident:
			out = append(out, n.Name)
		case *ObjectPattern:
			for _, p := range n.Props {
				collect(p)
			}
		case *Property:
			collect(n.Value)
		case *ArrayPattern:
			for _, e := range n.Elements {
				collect(e)
			}
		case *AssignPattern:
			collect(n.Left)
		case *Rest:
			collect(n.Argument)
		}
	}
	collect(pattern)
	return out
}

// Statements returns the statement list of a block, program or
// single-statement body.
func Statements(n Node) []Node {
	switch n := n.(type) {
	case *Block:
		return n.Body
	case *Program:
		return n.Body
	case nil:
		return nil
	}
	return []Node{n}
}

// IsRune reports whether name is a Svelte rune such as $state or $effect.pre.
func IsRune(name string) bool {
	base, _, _ := strings.Cut(name, ".")
	switch base {
	case "$state", "$derived", "$effect", "$props", "$bindable", "$inspect", "$host":
		return true
	}
	return false
}
