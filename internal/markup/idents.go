package markup

var jsKeywords = map[string]struct{}{
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {}, "continue": {},
	"debugger": {}, "default": {}, "delete": {}, "do": {}, "else": {}, "export": {},
	"extends": {}, "finally": {}, "for": {}, "function": {}, "if": {}, "import": {},
	"in": {}, "instanceof": {}, "let": {}, "new": {}, "return": {}, "super": {},
	"switch": {}, "this": {}, "throw": {}, "try": {}, "typeof": {}, "var": {},
	"void": {}, "while": {}, "with": {}, "yield": {}, "await": {}, "async": {},
	"of": {}, "as": {}, "true": {}, "false": {}, "null": {}, "undefined": {},
	"then": {}, "each": {}, "key": {}, "snippet": {},
}

// MatchBrace returns the index of the '}' closing the '{' at open in a
// script or template expression.
func MatchBrace(src string, open int) (int, bool) {
	return matchBrace(src, open)
}

// matchBrace returns the index of the '}' closing the '{' at open. String,
// template and comment contents are skipped.
func matchBrace[T ~string | ~[]byte](src T, open int) (int, bool) {
	depth := 0
	i := open
	for i < len(src) {
		switch c := src[i]; c {
		case '{':
			depth++
			i++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
			i++
		case '"', '\'':
			i = skipString(src, i)
		case '`':
			i = skipTemplate(src, i)
		case '/':
			i = skipComment(src, i)
		default:
			i++
		}
	}
	return -1, false
}

// skipString returns the index just past the quote closing the string at i.
func skipString[T ~string | ~[]byte](src T, i int) int {
	q := src[i]
	i++
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case q:
			return i + 1
		case '\n':
			// незакрытая строка: дальше не ищем
			return i
		}
		i++
	}
	return len(src)
}

func skipTemplate[T ~string | ~[]byte](src T, i int) int {
	i++
	for i < len(src) {
		switch {
		case src[i] == '\\':
			i += 2
		case src[i] == '`':
			return i + 1
		case src[i] == '$' && i+1 < len(src) && src[i+1] == '{':
			end, ok := matchBrace(src, i+1)
			if !ok {
				return len(src)
			}
			i = end + 1
		default:
			i++
		}
	}
	return len(src)
}

// skipComment steps over // and /* */ comments; a lone '/' advances by one.
func skipComment[T ~string | ~[]byte](src T, i int) int {
	if i+1 >= len(src) {
		return i + 1
	}
	switch src[i+1] {
	case '/':
		for i < len(src) && src[i] != '\n' {
			i++
		}
		return i
	case '*':
		for j := i + 2; j+1 < len(src); j++ {
			if src[j] == '*' && src[j+1] == '/' {
				return j + 2
			}
		}
		return len(src)
	}
	return i + 1
}

// scanIdents lists the free-standing identifiers of a template expression.
// base is the file offset of text[0].
func (s *scanner) scanIdents(text string, base int) []*Ident {
	var out []*Ident
	lastSig := -1 // index of the last non-space character
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"' || c == '\'':
			i = skipString(text, i)
			lastSig = i - 1
		case c == '`':
			j := i + 1
			for j < len(text) {
				if text[j] == '\\' {
					j += 2
					continue
				}
				if text[j] == '`' {
					j++
					break
				}
				if text[j] == '$' && j+1 < len(text) && text[j+1] == '{' {
					end, ok := matchBrace(text, j+1)
					if !ok {
						j = len(text)
						break
					}
					out = append(out, s.scanIdents(text[j+2:end], base+j+2)...)
					j = end + 1
					continue
				}
				j++
			}
			i = min(j, len(text))
			lastSig = i - 1
		case c == '/' && i+1 < len(text) && (text[i+1] == '/' || text[i+1] == '*'):
			i = skipComment(text, i)
		case isIdentStart(c):
			j := i + 1
			for j < len(text) && isIdentPart(text[j]) {
				j++
			}
			name := text[i:j]
			if !isPropertyAccess(text, lastSig) {
				if _, kw := jsKeywords[name]; !kw {
					out = append(out, &Ident{Pos: Pos{Loc: s.span(base+i, base+j)}, Name: name})
				}
			}
			lastSig = j - 1
			i = j
		case c >= '0' && c <= '9':
			for i < len(text) && (isIdentPart(text[i]) || text[i] == '.') {
				i++
			}
			lastSig = i - 1
		default:
			if !isSpace(c) {
				lastSig = i
			}
			i++
		}
	}
	return out
}

// isPropertyAccess reports whether the character at dot is a member access
// dot ("a.b", "a?.b") rather than the end of a spread.
func isPropertyAccess(text string, dot int) bool {
	if dot < 0 || text[dot] != '.' {
		return false
	}
	return dot < 2 || text[dot-2:dot+1] != "..."
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$' || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
