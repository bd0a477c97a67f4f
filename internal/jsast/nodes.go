package jsast

import (
	"sveltedoctor/internal/source"
)

// Node is implemented by every variant in this package.
type Node interface {
	Kind() Kind
	Span() source.Span
	jsNode()
}

// Pos carries the location of a node. Every variant embeds it.
type Pos struct {
	Loc source.Span
}

func (p Pos) Span() source.Span { return p.Loc }
func (Pos) jsNode()             {}

type (
	// Program is the root of a parsed script.
	Program struct {
		Pos
		Body []Node
	}

	// VarDecl is a let/const/var statement.
	VarDecl struct {
		Pos
		DeclKind    string // "let", "const" or "var"
		Declarators []*Declarator
	}

	Declarator struct {
		Pos
		ID   Node // *Ident, *ObjectPattern, *ArrayPattern
		Init Node // nil when absent
	}

	Ident struct {
		Pos
		Name string
	}

	Literal struct {
		Pos
		LitKind LiteralKind
		Raw     string
		Value   string // unquoted text for strings, Raw otherwise
	}

	Call struct {
		Pos
		Callee   Node
		Args     []Node
		Optional bool // foo?.()
	}

	New struct {
		Pos
		Callee Node
		Args   []Node
	}

	// Member is a.b (Property set) or a[b] (Computed, Index set).
	Member struct {
		Pos
		Object   Node
		Property string
		Index    Node
		Computed bool
		Optional bool
	}

	// Assign covers plain and compound assignment; Op is "=", "+=", "??=", ...
	Assign struct {
		Pos
		Op    string
		Left  Node
		Right Node
	}

	Update struct {
		Pos
		Op       string // "++" or "--"
		Prefix   bool
		Argument Node
	}

	Unary struct {
		Pos
		Op       string
		Argument Node
	}

	// Binary covers arithmetic, comparison and logical operators.
	Binary struct {
		Pos
		Op    string
		Left  Node
		Right Node
	}

	// Conditional is the ternary operator.
	Conditional struct {
		Pos
		Test       Node
		Consequent Node
		Alternate  Node
	}

	Await struct {
		Pos
		Argument Node
	}

	// Func is any function literal or declaration.
	Func struct {
		Pos
		FuncKind  FuncKind
		Name      string
		Async     bool
		Generator bool
		Params    []Node
		Body      Node // *Block, or an expression when ExprBody
		ExprBody  bool
	}

	Block struct {
		Pos
		Body []Node
	}

	If struct {
		Pos
		Test       Node
		Consequent Node
		Alternate  Node // nil without else
	}

	Return struct {
		Pos
		Argument Node // nil for a bare return
	}

	ExprStmt struct {
		Pos
		Expr Node
	}

	// Export wraps "export <decl>" and "export default <expr>". Re-export
	// lists are kept as *Other.
	Export struct {
		Pos
		Decl    Node
		Default bool
	}

	Import struct {
		Pos
		Source     string
		TypeOnly   bool
		Specifiers []ImportSpec
	}

	Labeled struct {
		Pos
		Label string
		Body  Node
	}

	// ObjectPattern holds *Property and *Rest entries.
	ObjectPattern struct {
		Pos
		Props []Node
	}

	ArrayPattern struct {
		Pos
		Elements []Node
	}

	// AssignPattern is a binding with a default value: { a = 1 }.
	AssignPattern struct {
		Pos
		Left  Node
		Right Node
	}

	Rest struct {
		Pos
		Argument Node
	}

	// Object holds *Property and *Spread entries.
	Object struct {
		Pos
		Props []Node
	}

	// Property is an entry of an object literal or object pattern. Key is
	// the static key name; computed keys put their expression in KeyExpr.
	Property struct {
		Pos
		Key       string
		KeyExpr   Node
		Computed  bool
		Value     Node
		Shorthand bool
		Method    bool
	}

	Array struct {
		Pos
		Elements []Node
	}

	Spread struct {
		Pos
		Argument Node
	}

	// Other is any construct without a dedicated variant (loops, classes,
	// try, switch, templates...). Type is the grammar node type.
	Other struct {
		Pos
		Type     string
		Children []Node
	}
)

// ImportSpec is one binding of an import declaration.
type ImportSpec struct {
	Imported  string // name in the source module; "default" / "*" for default and namespace imports
	Local     string
	Default   bool
	Namespace bool
	Loc       source.Span
}

// LiteralKind classifies literals.
type LiteralKind uint8

const (
	LitString LiteralKind = iota + 1
	LitNumber
	LitBool
	LitNull
	LitUndefined
	LitTemplate
	LitRegex
)

// FuncKind distinguishes arrow functions, function expressions and declarations.
type FuncKind uint8

const (
	FuncArrow FuncKind = iota + 1
	FuncExpr
	FuncDecl
)

func (*Program) Kind() Kind       { return KindProgram }
func (*VarDecl) Kind() Kind       { return KindVarDecl }
func (*Declarator) Kind() Kind    { return KindDeclarator }
func (*Ident) Kind() Kind         { return KindIdent }
func (*Literal) Kind() Kind       { return KindLiteral }
func (*Call) Kind() Kind          { return KindCall }
func (*New) Kind() Kind           { return KindNew }
func (*Member) Kind() Kind        { return KindMember }
func (*Assign) Kind() Kind        { return KindAssign }
func (*Update) Kind() Kind        { return KindUpdate }
func (*Unary) Kind() Kind         { return KindUnary }
func (*Binary) Kind() Kind        { return KindBinary }
func (*Conditional) Kind() Kind   { return KindConditional }
func (*Await) Kind() Kind         { return KindAwait }
func (*Func) Kind() Kind          { return KindFunc }
func (*Block) Kind() Kind         { return KindBlock }
func (*If) Kind() Kind            { return KindIf }
func (*Return) Kind() Kind        { return KindReturn }
func (*ExprStmt) Kind() Kind      { return KindExprStmt }
func (*Export) Kind() Kind        { return KindExport }
func (*Import) Kind() Kind        { return KindImport }
func (*Labeled) Kind() Kind       { return KindLabeled }
func (*ObjectPattern) Kind() Kind { return KindObjectPattern }
func (*ArrayPattern) Kind() Kind  { return KindArrayPattern }
func (*AssignPattern) Kind() Kind { return KindAssignPattern }
func (*Rest) Kind() Kind          { return KindRest }
func (*Object) Kind() Kind        { return KindObject }
func (*Property) Kind() Kind      { return KindProperty }
func (*Array) Kind() Kind         { return KindArray }
func (*Spread) Kind() Kind        { return KindSpread }
func (*Other) Kind() Kind         { return KindOther }
