package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/fix"
)

type palette struct {
	bold, dim, red, yellow, green *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		bold:   color.New(color.Bold),
		dim:    color.New(color.Faint),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.bold, p.dim, p.red, p.yellow, p.green} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// scoreColor: green from 90, yellow from 75, red below.
func scoreColor(score int, enabled bool) *color.Color {
	attr := color.FgRed
	switch {
	case score >= 90:
		attr = color.FgGreen
	case score >= 75:
		attr = color.FgYellow
	}
	c := color.New(attr, color.Bold)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Pretty renders the terminal report: header, score, then findings grouped by
// rule in first-seen order.
func Pretty(w io.Writer, rep *Report, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + p.bold.Sprint("svelte-doctor") + "\n\n")

	scoreText := scoreColor(rep.Score.Score, opts.Color).Sprint(rep.Score.Score)
	fmt.Fprintf(&b, "  Score: %s / 100 (%s)\n", scoreText, rep.Score.Label)
	fmt.Fprintf(&b, "  Files scanned: %d\n\n", rep.FilesScanned)

	if len(rep.Diagnostics) == 0 {
		b.WriteString(p.green.Sprint("  No issues found!") + "\n\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	errs, warns := diag.Count(rep.Diagnostics)
	fmt.Fprintf(&b, "  %s found: %s, %s\n\n",
		plural(len(rep.Diagnostics), "issue"), plural(errs, "error"), plural(warns, "warning"))

	for _, group := range groupByRule(rep.Diagnostics) {
		first := group[0]
		icon := p.yellow.Sprint("!")
		if first.Severity == diag.SevError {
			icon = p.red.Sprint("x")
		}
		fixable := ""
		if first.Fixable {
			fixable = p.dim.Sprint(" (fixable)")
		}
		fmt.Fprintf(&b, "  %s %s (%d)%s\n", icon, p.bold.Sprint(first.RuleID), len(group), fixable)
		if opts.Verbose {
			for _, d := range group {
				b.WriteString(p.dim.Sprintf("    %s:%d - %s", d.FilePath, d.Line, d.Message) + "\n")
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// groupByRule keeps the order in which rules first appear.
func groupByRule(diags []*diag.Diagnostic) [][]*diag.Diagnostic {
	index := make(map[string]int)
	var groups [][]*diag.Diagnostic
	for _, d := range diags {
		i, ok := index[d.RuleID]
		if !ok {
			i = len(groups)
			index[d.RuleID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], d)
	}
	return groups
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// FixSummary prints what --fix did (or would do with dryRun).
func FixSummary(w io.Writer, res *fix.ApplyResult, dryRun, useColor bool) error {
	if res == nil {
		return nil
	}
	p := newPalette(useColor)
	var b strings.Builder
	verb := "Fixed"
	if dryRun {
		verb = "Would fix"
	}
	for _, change := range res.FileChanges {
		fmt.Fprintf(&b, "  %s %s (%s)\n", p.green.Sprint(verb), change.Path, plural(change.EditCount, "edit"))
	}
	for _, s := range res.Skipped {
		b.WriteString(p.dim.Sprintf("  skipped %s in %s: %s", s.RuleID, s.PrimaryPath, s.Reason) + "\n")
	}
	if b.Len() == 0 {
		return nil
	}
	_, err := io.WriteString(w, b.String()+"\n")
	return err
}
