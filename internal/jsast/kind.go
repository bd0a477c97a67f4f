package jsast

// Kind tags a node variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindProgram
	KindVarDecl
	KindDeclarator
	KindIdent
	KindLiteral
	KindCall
	KindNew
	KindMember
	KindAssign
	KindUpdate
	KindUnary
	KindBinary
	KindConditional
	KindAwait
	KindFunc
	KindBlock
	KindIf
	KindReturn
	KindExprStmt
	KindExport
	KindImport
	KindLabeled
	KindObjectPattern
	KindArrayPattern
	KindAssignPattern
	KindRest
	KindObject
	KindProperty
	KindArray
	KindSpread
	KindOther
)

var kindNames = [...]string{
	KindInvalid:       "Invalid",
	KindProgram:       "Program",
	KindVarDecl:       "VariableDeclaration",
	KindDeclarator:    "VariableDeclarator",
	KindIdent:         "Identifier",
	KindLiteral:       "Literal",
	KindCall:          "CallExpression",
	KindNew:           "NewExpression",
	KindMember:        "MemberExpression",
	KindAssign:        "AssignmentExpression",
	KindUpdate:        "UpdateExpression",
	KindUnary:         "UnaryExpression",
	KindBinary:        "BinaryExpression",
	KindConditional:   "ConditionalExpression",
	KindAwait:         "AwaitExpression",
	KindFunc:          "Function",
	KindBlock:         "BlockStatement",
	KindIf:            "IfStatement",
	KindReturn:        "ReturnStatement",
	KindExprStmt:      "ExpressionStatement",
	KindExport:        "ExportDeclaration",
	KindImport:        "ImportDeclaration",
	KindLabeled:       "LabeledStatement",
	KindObjectPattern: "ObjectPattern",
	KindArrayPattern:  "ArrayPattern",
	KindAssignPattern: "AssignmentPattern",
	KindRest:          "RestElement",
	KindObject:        "ObjectExpression",
	KindProperty:      "Property",
	KindArray:         "ArrayExpression",
	KindSpread:        "SpreadElement",
	KindOther:         "Other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}
