package diag

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevWarning is for warning diagnostics.
	SevWarning Severity = iota + 1
	// SevError is for error diagnostics.
	SevError
)

// String returns the wire name used by every reporter.
func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity converts "error"/"warning" into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "error", "ERROR":
		return SevError, nil
	case "warning", "WARNING", "warn":
		return SevWarning, nil
	default:
		return 0, fmt.Errorf("invalid severity: %q (expected: error|warning)", s)
	}
}

// MarshalText implements encoding.TextMarshaler so JSON output carries the name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
