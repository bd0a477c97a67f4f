package jsast

// Path is an immutable chain of ancestors. The zero-length chain is nil.
type Path struct {
	Node   Node
	Parent *Path
}

// Visitor is called for every node with the chain of its ancestors
// (innermost first, nil for the root). Returning false skips the children.
type Visitor func(n Node, parents *Path) bool

// Walk visits root and its descendants depth-first in source order.
func Walk(root Node, visit Visitor) {
	WalkFrom(root, nil, visit)
}

// WalkFrom is Walk for a subtree whose ancestors are already known.
func WalkFrom(root Node, parents *Path, visit Visitor) {
	if root == nil {
		return
	}
	if !visit(root, parents) {
		return
	}
	chain := &Path{Node: root, Parent: parents}
	for _, c := range Children(root) {
		WalkFrom(c, chain, visit)
	}
}

// Inspect is a parent-less Walk.
func Inspect(root Node, f func(Node) bool) {
	Walk(root, func(n Node, _ *Path) bool { return f(n) })
}

// Up returns the node n steps above the chain head (Up(0) is the head
// itself, i.e. the immediate parent of the visited node) or nil.
func (p *Path) Up(n int) Node {
	for p != nil && n > 0 {
		p = p.Parent
		n--
	}
	if p == nil {
		return nil
	}
	return p.Node
}

// Find returns the innermost chain element whose node satisfies pred.
func (p *Path) Find(pred func(Node) bool) *Path {
	for ; p != nil; p = p.Parent {
		if pred(p.Node) {
			return p
		}
	}
	return nil
}

// Len returns the number of ancestors in the chain.
func (p *Path) Len() int {
	n := 0
	for ; p != nil; p = p.Parent {
		n++
	}
	return n
}

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Program:
		return n.Body
	case *VarDecl:
		out := make([]Node, 0, len(n.Declarators))
		for _, d := range n.Declarators {
			out = append(out, d)
		}
		return out
	case *Declarator:
		return compact(n.ID, n.Init)
	case *Ident, *Literal, *Import:
		return nil
	case *Call:
		return append(compact(n.Callee), n.Args...)
	case *New:
		return append(compact(n.Callee), n.Args...)
	case *Member:
		return compact(n.Object, n.Index)
	case *Assign:
		return compact(n.Left, n.Right)
	case *Update:
		return compact(n.Argument)
	case *Unary:
		return compact(n.Argument)
	case *Binary:
		return compact(n.Left, n.Right)
	case *Conditional:
		return compact(n.Test, n.Consequent, n.Alternate)
	case *Await:
		return compact(n.Argument)
	case *Func:
		return append(append([]Node(nil), n.Params...), compact(n.Body)...)
	case *Block:
		return n.Body
	case *If:
		return compact(n.Test, n.Consequent, n.Alternate)
	case *Return:
		return compact(n.Argument)
	case *ExprStmt:
		return compact(n.Expr)
	case *Export:
		return compact(n.Decl)
	case *Labeled:
		return compact(n.Body)
	case *ObjectPattern:
		return n.Props
	case *ArrayPattern:
		return n.Elements
	case *AssignPattern:
		return compact(n.Left, n.Right)
	case *Rest:
		return compact(n.Argument)
	case *Object:
		return n.Props
	case *Property:
		return compact(n.KeyExpr, n.Value)
	case *Array:
		return n.Elements
	case *Spread:
		return compact(n.Argument)
	case *Other:
		return n.Children
	}
	return nil
}

func compact(nodes ...Node) []Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
