// Package diag defines the diagnostic model shared by the rule engine,
// the fixer and the reporters.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - RuleID – identifier of the rule that produced it (e.g. "sv-no-export-let").
//   - Severity – SevError or SevWarning. Reporters print exactly "error" or
//     "warning"; the scorer weighs errors three times heavier.
//   - FilePath, Line (1-based), Column (0-based) – resolved by the engine from
//     the node the rule reported on. Missing positions default to 1:0.
//   - Message – human oriented text.
//   - AgentInstruction – remediation text aimed at coding agents.
//   - Fixable – true when the rule declares a fix function.
//   - CodeSnippet – the trimmed source line at Line.
//
// # Producers
//
// Rules never build Diagnostic values themselves. They call the report
// callback of their rules.Context; the engine fills in everything else,
// including the Primary span that source.FileSet resolves for SARIF.
//
// # Collections
//
// Bag is an append-only collection with an optional limit
// (--max-diagnostics). It keeps the engine's order: rule registry order
// within a file, scan order across files.
package diag
