package fix

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"sveltedoctor/internal/classify"
	"sveltedoctor/internal/diag"
	"sveltedoctor/internal/parser"
	"sveltedoctor/internal/rules"
	"sveltedoctor/internal/trace"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines whether patched files are written.
type ApplyMode uint8

const (
	ApplyModeAll    ApplyMode = iota // write every patched file
	ApplyModeDryRun                  // compute and report only
)

// ApplyOptions configures Apply.
type ApplyOptions struct {
	Mode     ApplyMode
	Registry *rules.Registry
}

// File is one analyzed file together with its diagnostics.
type File struct {
	Path        string // on-disk path
	DisplayPath string // path used in reports; Path when empty
	// Role picks the parser that checks patched text; RoleUnknown skips
	// the check.
	Role        classify.Role
	Diagnostics []*diag.Diagnostic
}

func (f File) display() string {
	if f.DisplayPath != "" {
		return f.DisplayPath
	}
	return f.Path
}

// AppliedFix records a rule whose fix changed a file.
type AppliedFix struct {
	RuleID      string
	PrimaryPath string
	Count       int // diagnostics of this rule whose fix call changed the text
}

// SkippedFix captures a fix that did not apply, with a reason.
type SkippedFix struct {
	RuleID      string
	PrimaryPath string
	Reason      string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Written   bool
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

// FixableCount returns how many diagnostics of files have a fix.
func FixableCount(files []File) int {
	n := 0
	for _, f := range files {
		for _, d := range f.Diagnostics {
			if d.Fixable {
				n++
			}
		}
	}
	return n
}

// ApplyFixes patches src with the fixes of the fixable diagnostics. Rules
// run in the order their first diagnostic appears; each rule's fix is
// called once per diagnostic against the current text.
func ApplyFixes(src string, diags []*diag.Diagnostic, reg *rules.Registry) (string, bool) {
	out, applied, _ := applyRules(src, diags, reg, "", nil)
	return out, len(applied) > 0 && out != src
}

// applyRules is ApplyFixes with per-rule bookkeeping. When check is set and
// src passes it, a rule whose patched text fails check is rolled back.
func applyRules(src string, diags []*diag.Diagnostic, reg *rules.Registry, path string, check func(string) error) (string, []AppliedFix, []SkippedFix) {
	var (
		order  []string
		byRule = make(map[string][]*diag.Diagnostic)
	)
	for _, d := range diags {
		if d == nil || !d.Fixable {
			continue
		}
		if _, seen := byRule[d.RuleID]; !seen {
			order = append(order, d.RuleID)
		}
		byRule[d.RuleID] = append(byRule[d.RuleID], d)
	}

	var (
		applied []AppliedFix
		skipped []SkippedFix
	)
	if check != nil && check(src) != nil {
		check = nil
	}
	text := src
	for _, id := range order {
		rule, ok := reg.Lookup(id)
		if !ok || !rule.Fixable() {
			skipped = append(skipped, SkippedFix{RuleID: id, PrimaryPath: path, Reason: "rule has no fix"})
			continue
		}
		before := text
		count, failed := 0, false
		for _, d := range byRule[id] {
			next, changed, err := callFix(rule.Fix, text, d)
			if err != nil {
				skipped = append(skipped, SkippedFix{RuleID: id, PrimaryPath: path, Reason: err.Error()})
				failed = true
				break
			}
			if changed {
				text = next
				count++
			}
		}
		if count == 0 {
			if !failed {
				skipped = append(skipped, SkippedFix{RuleID: id, PrimaryPath: path, Reason: "fix made no change"})
			}
			continue
		}
		if check != nil {
			if err := check(text); err != nil {
				text = before
				skipped = append(skipped, SkippedFix{RuleID: id, PrimaryPath: path, Reason: "fix produced unparseable text"})
				continue
			}
		}
		applied = append(applied, AppliedFix{RuleID: id, PrimaryPath: path, Count: count})
	}
	return text, applied, skipped
}

func callFix(fn rules.FixFunc, src string, d *diag.Diagnostic) (out string, changed bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, changed, err = src, false, fmt.Errorf("fix panicked: %v", p)
		}
	}()
	out, changed = fn(src, d)
	if !changed {
		return src, false, nil
	}
	return out, out != src, nil
}

// Apply computes the patched text of every file with fixable diagnostics
// and, in ApplyModeAll, writes it back preserving the file mode. It returns
// ErrNoFixes together with the result when nothing changed.
func Apply(ctx context.Context, files []File, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if opts.Registry == nil {
		return result, fmt.Errorf("fix: registry is nil")
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !hasFixable(f.Diagnostics) {
			continue
		}
		// #nosec G304 -- paths come from the scanner
		content, err := os.ReadFile(f.Path)
		if err != nil {
			return result, fmt.Errorf("read %s: %w", f.display(), err)
		}
		src := string(content)
		out, applied, skipped := applyRules(src, f.Diagnostics, opts.Registry, f.display(), parseCheck(ctx, f.Role))
		result.Skipped = append(result.Skipped, skipped...)
		if out == src || len(applied) == 0 {
			continue
		}
		result.Applied = append(result.Applied, applied...)

		change := FileChange{Path: f.display()}
		for _, a := range applied {
			change.EditCount += a.Count
		}
		if opts.Mode == ApplyModeAll {
			if err := writePreservingMode(f.Path, []byte(out)); err != nil {
				return result, err
			}
			change.Written = true
			trace.Debug(ctx, "fixed", f.display(), "edits", fmt.Sprint(change.EditCount))
		}
		result.FileChanges = append(result.FileChanges, change)
	}

	sort.SliceStable(result.FileChanges, func(i, j int) bool {
		return result.FileChanges[i].Path < result.FileChanges[j].Path
	})

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// parseCheck returns the syntax check for text of the given role.
func parseCheck(ctx context.Context, role classify.Role) func(string) error {
	switch role {
	case classify.RoleUnknown:
		return nil
	case classify.RoleComponent:
		return func(text string) error {
			_, err := parser.ParseComponent(ctx, 0, []byte(text))
			return err
		}
	default:
		return func(text string) error {
			_, err := parser.ParseScript(ctx, 0, []byte(text))
			return err
		}
	}
}

func hasFixable(diags []*diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Fixable {
			return true
		}
	}
	return false
}

func writePreservingMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
