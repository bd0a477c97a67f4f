package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"sveltedoctor/internal/diag"
)

// Increment when the Baseline layout changes.
const baselineSchemaVersion uint16 = 1

var ErrBaselineSchema = errors.New("baseline schema mismatch")

// Baseline is the msgpack snapshot written by --baseline-write.
type Baseline struct {
	Schema  uint16
	Created time.Time
	Entries []BaselineEntry
}

type BaselineEntry struct {
	RuleID   string
	FilePath string
	Message  string
	Line     int // informational; matching ignores it
}

func entryKey(ruleID, filePath, message string) string {
	return ruleID + "\x00" + filePath + "\x00" + message
}

// NewBaseline snapshots diags.
func NewBaseline(diags []*diag.Diagnostic) *Baseline {
	b := &Baseline{
		Schema:  baselineSchemaVersion,
		Created: time.Now().UTC(),
		Entries: make([]BaselineEntry, 0, len(diags)),
	}
	for _, d := range diags {
		b.Entries = append(b.Entries, BaselineEntry{
			RuleID:   d.RuleID,
			FilePath: d.FilePath,
			Message:  d.Message,
			Line:     d.Line,
		})
	}
	return b
}

// Filter drops diagnostics already recorded in the baseline and returns the
// rest together with the number dropped.
func (b *Baseline) Filter(diags []*diag.Diagnostic) ([]*diag.Diagnostic, int) {
	if b == nil || len(b.Entries) == 0 {
		return diags, 0
	}
	known := make(map[string]struct{}, len(b.Entries))
	for _, e := range b.Entries {
		known[entryKey(e.RuleID, e.FilePath, e.Message)] = struct{}{}
	}
	kept := make([]*diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if _, ok := known[d.Key()]; ok {
			continue
		}
		kept = append(kept, d)
	}
	return kept, len(diags) - len(kept)
}

// WriteBaseline stores b at path through a temp file and a rename.
func WriteBaseline(path string, b *Baseline) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("baseline: %w", err)
	}
	f, err := os.CreateTemp(dir, ".baseline-*")
	if err != nil {
		return fmt.Errorf("baseline: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(b); err != nil {
		return fmt.Errorf("baseline: encode: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("baseline: %w", err)
	}
	// Атомарная замена
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("baseline: %w", err)
	}
	return nil
}

// ReadBaseline loads a snapshot. A missing file, a corrupt file or a schema
// mismatch is an error.
func ReadBaseline(path string) (*Baseline, error) {
	// #nosec G304 -- path comes from the command line
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var b Baseline
	if err := msgpack.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("baseline %s: decode: %w", path, err)
	}
	if b.Schema != baselineSchemaVersion {
		return nil, fmt.Errorf("baseline %s: %w (got %d, want %d)", path, ErrBaselineSchema, b.Schema, baselineSchemaVersion)
	}
	return &b, nil
}
