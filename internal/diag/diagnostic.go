package diag

import (
	"strconv"

	"sveltedoctor/internal/source"
)

// Diagnostic is a single finding produced by a rule for one file.
// Immutable once the engine returns it.
type Diagnostic struct {
	RuleID           string
	Severity         Severity
	FilePath         string // slash-separated, relative to the project root
	Line             int    // 1-based
	Column           int    // 0-based
	Message          string
	AgentInstruction string
	Fixable          bool
	CodeSnippet      string // trimmed source line, empty when unavailable
	Primary          source.Span
}

// Location renders "file:line:col" with a 1-based column.
func (d *Diagnostic) Location() string {
	return d.FilePath + ":" + strconv.Itoa(d.Line) + ":" + strconv.Itoa(d.Column+1)
}

// Key identifies a diagnostic independently of its position. Baselines use it
// so that unrelated edits that shift lines don't resurrect known findings.
func (d *Diagnostic) Key() string {
	return d.RuleID + "\x00" + d.FilePath + "\x00" + d.Message
}
