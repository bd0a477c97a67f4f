// Package jsast models JavaScript/TypeScript syntax as a closed set of node
// variants. Every node has a Kind tag and a byte Span into the enclosing file;
// kind-specific fields live on the concrete struct, so a rule that asks for
// a callee or a declarator id is checked by the compiler.
//
// The tree is produced by internal/parser and consumed read-only by
// internal/analysis and internal/rules. Nodes are never mutated after
// construction.
//
// # Traversal
//
// Walk visits nodes depth-first in source order and passes an immutable
// parent chain (*Path) to the visitor. Ancestor questions ("what is the
// nearest enclosing function literal and who calls it?") are answered by
// scanning that chain, which is valid for as long as the visitor keeps it.
//
// # Shape decisions
//
//   - Parenthesized expressions and TypeScript-only wrappers (as, satisfies,
//     non-null) are transparent: the wrapped expression takes their place.
//   - Type annotations and type declarations are not represented.
//   - Non-computed member properties and object keys are plain strings, so
//     they are never mistaken for identifier references.
//   - Statements and expressions without dedicated handling are kept as
//     *Other with their children so that walks still reach nested code.
package jsast
