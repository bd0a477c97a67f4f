package source

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// hasBOM reports whether content starts with a UTF-8 byte order mark.
func hasBOM(content []byte) bool {
	return len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF
}

func hasCRLF(content []byte) bool {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return true
		}
	}
	return false
}

// buildLineIndex returns the start offset of every line. The first entry is always 0.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 1, 1+len(content)/32)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i+1)) //nolint:gosec // bounded by content length checked in Add
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// бинпоиск: наибольший lineIdx[i] <= off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if hi < 0 {
		hi = 0
	}
	return LineCol{Line: uint32(hi + 1), Col: off - lineIdx[hi] + 1} //nolint:gosec // hi < len(lineIdx)
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах; NFC как у сканера
	return norm.NFC.String(filepath.ToSlash(filepath.Clean(p)))
}

// RelativePath returns target relative to baseDir in slash form. Paths that
// escape baseDir fall back to the normalized absolute target.
func RelativePath(target, baseDir string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return normalizePath(absTarget), nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absTarget), nil
	}
	return normalizePath(rel), nil
}
