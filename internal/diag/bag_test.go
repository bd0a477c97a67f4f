package diag

import (
	"testing"
)

func TestBagLimitAndCounts(t *testing.T) {
	b := NewBag(2)
	if !b.Add(&Diagnostic{RuleID: "a", Severity: SevError}) {
		t.Fatalf("first add must succeed")
	}
	if !b.Add(&Diagnostic{RuleID: "b", Severity: SevWarning}) {
		t.Fatalf("second add must succeed")
	}
	if b.Add(&Diagnostic{RuleID: "c", Severity: SevWarning}) {
		t.Fatalf("third add must hit the limit")
	}
	if b.Len() != 2 || b.Dropped() != 1 {
		t.Fatalf("Len=%d Dropped=%d", b.Len(), b.Dropped())
	}
	errs, warns := Count(b.Items())
	if errs != 1 || warns != 1 {
		t.Fatalf("Count = %d, %d", errs, warns)
	}
}

func TestBagUnlimited(t *testing.T) {
	b := NewBag(0)
	for i := 0; i < 500; i++ {
		b.Add(&Diagnostic{Severity: SevWarning})
	}
	if b.Len() != 500 {
		t.Fatalf("unlimited bag dropped items: %d", b.Len())
	}
	if errs, _ := Count(b.Items()); errs != 0 {
		t.Fatalf("warnings only")
	}
}

func TestBagIgnoresNil(t *testing.T) {
	b := NewBag(1)
	if b.Add(nil) {
		t.Fatalf("nil must not be stored")
	}
	if b.Len() != 0 || b.Dropped() != 0 {
		t.Fatalf("Len=%d Dropped=%d", b.Len(), b.Dropped())
	}
}

func TestSeverityText(t *testing.T) {
	for _, sev := range []Severity{SevError, SevWarning} {
		text, err := sev.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText: %v", err)
		}
		var back Severity
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", text, err)
		}
		if back != sev {
			t.Fatalf("round trip %v -> %v", sev, back)
		}
	}
	if _, err := ParseSeverity("info"); err == nil {
		t.Fatalf("info is not a valid severity")
	}
}

func TestDiagnosticLocationAndKey(t *testing.T) {
	d := &Diagnostic{RuleID: "sv-no-export-let", FilePath: "src/App.svelte", Line: 4, Column: 1, Message: "m"}
	if got := d.Location(); got != "src/App.svelte:4:2" {
		t.Fatalf("Location = %q", got)
	}
	moved := *d
	moved.Line = 10
	if d.Key() != moved.Key() {
		t.Fatalf("Key must not depend on position")
	}
}
