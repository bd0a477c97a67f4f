package markup

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"sveltedoctor/internal/source"
)

// ErrSyntax is wrapped by every error returned from Scan.
var ErrSyntax = errors.New("markup syntax error")

var directiveKinds = map[string]struct{}{
	"on": {}, "use": {}, "bind": {}, "class": {}, "style": {},
	"transition": {}, "in": {}, "out": {}, "animate": {}, "let": {},
}

var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "param": {}, "source": {}, "track": {}, "wbr": {},
}

type scanner struct {
	src   []byte
	file  source.FileID
	pos   int
	comp  *Component
	stack []*Element
}

// Scan splits a component file into its script blocks and template tree.
// Unclosed elements are tolerated; unterminated comments, tags, mustache
// tags and script blocks are not.
func Scan(file source.FileID, src []byte) (*Component, error) {
	if _, err := safecast.Conv[uint32](len(src)); err != nil {
		return nil, fmt.Errorf("%w: file too large: %w", ErrSyntax, err)
	}
	s := &scanner{src: src, file: file, comp: &Component{}}
	if err := s.run(); err != nil {
		return nil, err
	}
	return s.comp, nil
}

func (s *scanner) span(start, end int) source.Span {
	// длина проверена в Scan
	return source.Span{File: s.file, Start: uint32(start), End: uint32(end)} //nolint:gosec
}

func (s *scanner) errorf(off int, format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrSyntax, fmt.Sprintf(format, args...), off)
}

func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) hasPrefix(p string) bool {
	return bytes.HasPrefix(s.src[s.pos:], []byte(p))
}

func (s *scanner) run() error {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '<' && s.hasPrefix("<!--"):
			end := bytes.Index(s.src[s.pos+4:], []byte("-->"))
			if end < 0 {
				return s.errorf(s.pos, "unterminated comment")
			}
			s.pos += 4 + end + 3
		case c == '<' && s.peek(1) == '!':
			end := bytes.IndexByte(s.src[s.pos:], '>')
			if end < 0 {
				return s.errorf(s.pos, "unterminated declaration")
			}
			s.pos += end + 1
		case c == '<' && s.peek(1) == '/':
			if err := s.closeTag(); err != nil {
				return err
			}
		case c == '<' && isTagStart(s.peek(1)):
			if err := s.openTag(); err != nil {
				return err
			}
		case c == '{':
			if err := s.mustache(); err != nil {
				return err
			}
		default:
			s.pos++
		}
	}
	return nil
}

func (s *scanner) appendNode(n Node) {
	if len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		top.Children = append(top.Children, n)
		return
	}
	s.comp.Fragment = append(s.comp.Fragment, n)
}

func (s *scanner) readTagName() string {
	start := s.pos
	for s.pos < len(s.src) && isNameChar(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

func (s *scanner) closeTag() error {
	start := s.pos
	s.pos += 2
	name := s.readTagName()
	end := bytes.IndexByte(s.src[s.pos:], '>')
	if end < 0 {
		return s.errorf(start, "unterminated closing tag </%s", name)
	}
	s.pos += end + 1

	// закрываем ближайший открытый элемент с тем же именем, лишние теги игнорируем
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].Name == name {
			s.stack[i].Loc.End = s.span(start, s.pos).End
			s.stack = s.stack[:i]
			break
		}
	}
	return nil
}

func (s *scanner) openTag() error {
	start := s.pos
	s.pos++
	name := s.readTagName()
	attrs, selfClosing, err := s.attributes(start)
	if err != nil {
		return err
	}
	lower := strings.ToLower(name)

	if (lower == "script" || lower == "style") && !selfClosing {
		closeAt := indexFold(s.src[s.pos:], "</"+lower)
		if closeAt < 0 {
			return s.errorf(start, "unterminated <%s> block", lower)
		}
		contentStart, contentEnd := s.pos, s.pos+closeAt
		gt := bytes.IndexByte(s.src[contentEnd:], '>')
		if gt < 0 {
			return s.errorf(contentEnd, "unterminated </%s> tag", lower)
		}
		s.pos = contentEnd + gt + 1

		if len(s.stack) == 0 {
			if lower == "style" {
				return nil
			}
			return s.addScript(&Script{
				Loc:     s.span(start, s.pos),
				Content: s.span(contentStart, contentEnd),
				Module:  isModuleScript(attrs),
				Lang:    attrValue(attrs, "lang"),
			})
		}
		// вложенный <script>/<style>: обычный элемент с сырым текстом
		s.appendNode(&Element{
			Pos:        Pos{Loc: s.span(start, s.pos)},
			ElemKind:   ElemRegular,
			Name:       name,
			Attributes: attrs,
		})
		return nil
	}

	el := &Element{
		Pos:         Pos{Loc: s.span(start, s.pos)},
		ElemKind:    elementKind(name),
		Name:        name,
		Attributes:  attrs,
		SelfClosing: selfClosing,
	}
	s.appendNode(el)
	if _, void := voidElements[lower]; !selfClosing && !void {
		s.stack = append(s.stack, el)
	}
	return nil
}

func (s *scanner) addScript(sc *Script) error {
	if sc.Module {
		if s.comp.Module != nil {
			return s.errorf(int(sc.Loc.Start), "a component can only have one module-level <script> element")
		}
		s.comp.Module = sc
		return nil
	}
	if s.comp.Instance != nil {
		return s.errorf(int(sc.Loc.Start), "a component can only have one instance-level <script> element")
	}
	s.comp.Instance = sc
	return nil
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

// attributes parses everything after the tag name up to and including the
// closing '>' or '/>'.
func (s *scanner) attributes(tagStart int) ([]Node, bool, error) {
	var attrs []Node
	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, false, s.errorf(tagStart, "unterminated tag")
		}
		c := s.src[s.pos]
		switch {
		case c == '>':
			s.pos++
			return attrs, false, nil
		case c == '/' && s.peek(1) == '>':
			s.pos += 2
			return attrs, true, nil
		case c == '/':
			s.pos++
			continue
		case c == '{':
			start := s.pos
			expr, err := s.expression()
			if err != nil {
				return nil, false, err
			}
			trimmed := strings.TrimSpace(expr.Text)
			if strings.HasPrefix(trimmed, "...") {
				attrs = append(attrs, &Spread{Pos: Pos{Loc: s.span(start, s.pos)}, Expr: expr})
			} else {
				attrs = append(attrs, &Attribute{
					Pos:      Pos{Loc: s.span(start, s.pos)},
					Name:     trimmed,
					HasValue: true,
					Exprs:    []*Expression{expr},
				})
			}
			continue
		}

		start := s.pos
		name := s.readAttrName()
		if name == "" {
			s.pos++
			continue
		}

		var (
			hasValue bool
			value    strings.Builder
			exprs    []*Expression
		)
		save := s.pos
		s.skipSpace()
		if s.pos < len(s.src) && s.src[s.pos] == '=' {
			s.pos++
			s.skipSpace()
			hasValue = true
			if s.pos >= len(s.src) {
				return nil, false, s.errorf(start, "unterminated attribute %s", name)
			}
			switch q := s.src[s.pos]; {
			case q == '"' || q == '\'':
				s.pos++
				for {
					if s.pos >= len(s.src) {
						return nil, false, s.errorf(start, "unterminated attribute value for %s", name)
					}
					ch := s.src[s.pos]
					if ch == q {
						s.pos++
						break
					}
					if ch == '{' {
						e, err := s.expression()
						if err != nil {
							return nil, false, err
						}
						exprs = append(exprs, e)
						continue
					}
					value.WriteByte(ch)
					s.pos++
				}
			case q == '{':
				e, err := s.expression()
				if err != nil {
					return nil, false, err
				}
				exprs = append(exprs, e)
			default:
				for s.pos < len(s.src) {
					ch := s.src[s.pos]
					if isSpace(ch) || ch == '>' || (ch == '/' && s.peek(1) == '>') {
						break
					}
					value.WriteByte(ch)
					s.pos++
				}
			}
		} else {
			s.pos = save
		}
		attrs = append(attrs, classifyAttr(name, s.span(start, s.pos), hasValue, value.String(), exprs))
	}
}

func (s *scanner) readAttrName() string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if isSpace(c) || c == '=' || c == '>' || c == '"' || c == '\'' || c == '{' || (c == '/' && s.peek(1) == '>') {
			break
		}
		s.pos++
	}
	return string(s.src[start:s.pos])
}

func classifyAttr(name string, loc source.Span, hasValue bool, value string, exprs []*Expression) Node {
	if i := strings.IndexByte(name, ':'); i > 0 {
		if _, ok := directiveKinds[name[:i]]; ok {
			parts := strings.Split(name[i+1:], "|")
			d := &Directive{
				Pos:     Pos{Loc: loc},
				DirKind: name[:i],
				Name:    parts[0],
			}
			if len(parts) > 1 {
				d.Modifiers = parts[1:]
			}
			if len(exprs) > 0 {
				d.Expr = exprs[0]
			}
			return d
		}
	}
	return &Attribute{
		Pos:      Pos{Loc: loc},
		Name:     name,
		HasValue: hasValue,
		Value:    value,
		Exprs:    exprs,
	}
}

// expression consumes {…} at s.pos.
func (s *scanner) expression() (*Expression, error) {
	open := s.pos
	closeAt, ok := matchBrace(s.src, open)
	if !ok {
		return nil, s.errorf(open, "unterminated expression")
	}
	s.pos = closeAt + 1
	return s.newExpression(open+1, closeAt), nil
}

func (s *scanner) newExpression(start, end int) *Expression {
	text := string(s.src[start:end])
	return &Expression{
		Pos:    Pos{Loc: s.span(start, end)},
		Text:   text,
		Idents: s.scanIdents(text, start),
	}
}

func (s *scanner) mustache() error {
	start := s.pos
	closeAt, ok := matchBrace(s.src, start)
	if !ok {
		return s.errorf(start, "unterminated mustache tag")
	}
	s.pos = closeAt + 1

	inner := start + 1
	for inner < closeAt && isSpace(s.src[inner]) {
		inner++
	}
	tag := &Tag{Pos: Pos{Loc: s.span(start, closeAt+1)}, TagKind: TagExpr}

	if inner < closeAt {
		switch s.src[inner] {
		case '@', '#', ':', '/':
			sigil := s.src[inner]
			wordEnd := inner + 1
			for wordEnd < closeAt && isIdentPart(s.src[wordEnd]) {
				wordEnd++
			}
			word := string(s.src[inner+1 : wordEnd])
			tag.Keyword = word
			switch sigil {
			case '@':
				switch word {
				case "render":
					tag.TagKind = TagRender
				case "html":
					tag.TagKind = TagHTML
				case "const":
					tag.TagKind = TagConst
				case "debug":
					tag.TagKind = TagDebug
				}
			case '#':
				tag.TagKind = TagBlockOpen
			case ':':
				tag.TagKind = TagBlockMid
			case '/':
				tag.TagKind = TagBlockClose
			}
			if tag.TagKind != TagBlockClose {
				tag.Expr = s.newExpression(wordEnd, closeAt)
			}
		default:
			tag.Expr = s.newExpression(start+1, closeAt)
		}
	}
	s.appendNode(tag)
	return nil
}

func elementKind(name string) ElementKind {
	switch {
	case name == "slot":
		return ElemSlot
	case name == "svelte:component":
		return ElemSvelteComponent
	case strings.HasPrefix(name, "svelte:"):
		return ElemSvelteSpecial
	case strings.Contains(name, ".") || (name != "" && name[0] >= 'A' && name[0] <= 'Z'):
		return ElemComponent
	}
	return ElemRegular
}

func isModuleScript(attrs []Node) bool {
	for _, a := range attrs {
		at, ok := a.(*Attribute)
		if !ok {
			continue
		}
		if at.Name == "module" || (at.Name == "context" && at.Value == "module") {
			return true
		}
	}
	return false
}

func attrValue(attrs []Node, name string) string {
	for _, a := range attrs {
		if at, ok := a.(*Attribute); ok && at.Name == name {
			return at.Value
		}
	}
	return ""
}

func indexFold(b []byte, needle string) int {
	n := len(needle)
	for i := 0; i+n <= len(b); i++ {
		if strings.EqualFold(string(b[i:i+n]), needle) {
			return i
		}
	}
	return -1
}

func isTagStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isTagStart(c) || (c >= '0' && c <= '9') || c == ':' || c == '_' || c == '.' || c == '-'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
