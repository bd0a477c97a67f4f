package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff   Level = iota // no tracing
	LevelError              // failures only
	LevelWarn               // recoverable problems
	LevelInfo               // driver phases
	LevelDebug              // files and rules
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|warn|info|debug)", s)
	}
}

// Allows reports whether an event of the given severity passes this level.
func (l Level) Allows(ev Level) bool {
	return ev != LevelOff && ev <= l
}

// ShouldEmit reports whether span events of the given scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch scope {
	case ScopeDriver:
		return l >= LevelInfo
	default:
		return l >= LevelDebug
	}
}
