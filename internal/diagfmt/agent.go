package diagfmt

import (
	"fmt"
	"io"
	"strings"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Agent renders the XML report meant for coding agents. Only & < > " are
// escaped.
func Agent(w io.Writer, rep *Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<svelte-doctor-report score=\"%d\" label=\"%s\" files-scanned=\"%d\" issues=\"%d\">\n",
		rep.Score.Score, rep.Score.Label, rep.FilesScanned, len(rep.Diagnostics))
	for _, d := range rep.Diagnostics {
		fmt.Fprintf(&b, "  <issue rule=\"%s\" file=\"%s\" severity=\"%s\" line=\"%d\" fixable=\"%t\">\n",
			xmlEscaper.Replace(d.RuleID), xmlEscaper.Replace(d.FilePath), d.Severity, d.Line, d.Fixable)
		fmt.Fprintf(&b, "    <description>%s</description>\n", xmlEscaper.Replace(d.Message))
		if d.CodeSnippet != "" {
			fmt.Fprintf(&b, "    <code-snippet>%s</code-snippet>\n", xmlEscaper.Replace(d.CodeSnippet))
		}
		fmt.Fprintf(&b, "    <agent-instruction>%s</agent-instruction>\n", xmlEscaper.Replace(d.AgentInstruction))
		b.WriteString("  </issue>\n")
	}
	b.WriteString("</svelte-doctor-report>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// ScoreOnly prints the bare score.
func ScoreOnly(w io.Writer, rep *Report) error {
	_, err := fmt.Fprintln(w, rep.Score.Score)
	return err
}
