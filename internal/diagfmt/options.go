package diagfmt

import (
	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/rules"
	"sveltedoctor/internal/score"
	"sveltedoctor/internal/source"
)

// Report is everything a reporter renders for one scan.
type Report struct {
	Score        score.Result
	Diagnostics  []*diag.Diagnostic
	FilesScanned int
	// Registry supplies rule metadata for SARIF; nil means rules.Default().
	Registry *rules.Registry
	// Files resolves span ends for SARIF regions; optional.
	Files *source.FileSet
}

func (r *Report) registry() *rules.Registry {
	if r.Registry != nil {
		return r.Registry
	}
	return rules.Default()
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color   bool
	Verbose bool // one line per diagnostic under each rule
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
