package source

import (
	"fmt"
)

type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && other.Start >= s.Start && other.End <= s.End
}

// ShiftRight moves the span n bytes forward. Used to rebase spans of an
// embedded script block onto the enclosing file.
func (s Span) ShiftRight(n uint32) Span {
	return Span{
		File:  s.File,
		Start: s.Start + n,
		End:   s.End + n,
	}
}

// Text returns the slice of content covered by the span, clamped to bounds.
func (s Span) Text(content []byte) string {
	start, end := int(s.Start), int(s.End)
	if start > len(content) {
		return ""
	}
	if end > len(content) {
		end = len(content)
	}
	if end < start {
		return ""
	}
	return string(content[start:end])
}
