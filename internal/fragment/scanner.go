// Package fragment implements the unified scanner: it
// partitions raw CHTL source into a sequence of fragments tagged {CHTL, CSS,
// JS}, driven by brace-depth tracking rather than full grammar knowledge.
// Downstream, the lexer only ever tokenizes CHTL fragments; CSS/JS
// fragments and any fragment marked Verbatim are handed to the parser as
// raw text.
package fragment

import (
	"unicode"

	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/loc"
)

type Kind int

const (
	CHTL Kind = iota
	CSS
	JS
)

func (k Kind) String() string {
	switch k {
	case CHTL:
		return "CHTL"
	case CSS:
		return "CSS"
	case JS:
		return "JS"
	}
	return "?"
}

// Fragment is a contiguous region of source tagged with its language and a
// Verbatim flag: Verbatim fragments (script bodies, [Origin] bodies, the
// inner text of a global style block) are never re-tokenized as CHTL — the
// parser consumes their Text directly.
type Fragment struct {
	Kind     Kind
	Verbatim bool
	Text     string
	Base     int // byte offset of Text[0] in the original source
}

func (f Fragment) Loc() loc.Loc { return loc.Loc{Start: f.Base} }

// mergeLimit bounds how large a merged run of same-kind adjacent fragments
// may grow.
const mergeLimit = 1 << 16

var bracketKeywords = map[string]bool{
	"Template": true, "Custom": true, "Origin": true, "Import": true,
	"Configuration": true, "Namespace": true, "Info": true, "Export": true,
}

type frameKind int

const (
	frameGeneric frameKind = iota
	frameBracketed
)

type scanner struct {
	src string
	h   *handler.Handler

	i      int
	frames []frameKind

	fragments  []Fragment
	flushStart int
	curKind    Kind
	curVerb    bool
}

// Scan partitions src into fragments. On a fatal error (unbalanced braces,
// unterminated string/comment) it records a fatal diagnostic on h and
// returns whatever fragments were produced before the failure.
func Scan(src string, h *handler.Handler) []Fragment {
	s := &scanner{src: src, h: h, curKind: CHTL}
	s.run()
	s.flush(len(src))
	return mergeAdjacent(s.fragments)
}

func (s *scanner) run() {
	n := len(s.src)
	for s.i < n {
		c := s.src[s.i]
		switch {
		case c == '"' || c == '\'':
			if !s.skipString(c) {
				return
			}
		case c == '/' && s.peekAt(1) == '/':
			s.skipLineComment()
		case c == '-' && s.peekAt(1) == '-':
			s.skipLineComment()
		case c == '/' && s.peekAt(1) == '*':
			if !s.skipBlockComment() {
				return
			}
		case c == '[':
			if !s.handleBracket() {
				return
			}
		case isIdentStart(c):
			s.handleWord()
		case c == '{':
			s.pushGeneric()
			s.i++
		case c == '}':
			if !s.popFrame() {
				return
			}
			s.i++
		default:
			s.i++
		}
	}
	if len(s.frames) > 0 {
		s.fatalAt(s.i, loc.ERROR_UNBALANCED_BRACE, "unexpected end of input: unclosed construct")
	}
}

func (s *scanner) peekAt(off int) byte {
	if s.i+off >= len(s.src) {
		return 0
	}
	return s.src[s.i+off]
}

func (s *scanner) fatalAt(pos int, code loc.DiagnosticCode, text string) {
	s.h.SetFatal(&loc.ErrorWithRange{
		Code:  code,
		Kind:  loc.KindLexical,
		Text:  text,
		Range: loc.Range{Loc: loc.Loc{Start: pos}, Len: 1},
	})
}

func (s *scanner) skipString(quote byte) bool {
	start := s.i
	s.i++
	for {
		if s.i >= len(s.src) {
			s.fatalAt(start, loc.ERROR_UNTERMINATED_STRING, "unterminated string literal")
			return false
		}
		c := s.src[s.i]
		if c == '\\' {
			s.i += 2
			continue
		}
		if c == quote {
			s.i++
			return true
		}
		s.i++
	}
}

func (s *scanner) skipLineComment() {
	for s.i < len(s.src) && s.src[s.i] != '\n' {
		s.i++
	}
}

func (s *scanner) skipBlockComment() bool {
	start := s.i
	s.i += 2
	for {
		if s.i >= len(s.src) {
			s.fatalAt(start, loc.ERROR_UNTERMINATED_COMMENT, "unterminated block comment")
			return false
		}
		if s.src[s.i] == '*' && s.peekAt(1) == '/' {
			s.i += 2
			return true
		}
		s.i++
	}
}

func isIdentStart(c byte) bool { return c == '_' || unicode.IsLetter(rune(c)) }
func isIdentPart(c byte) bool {
	return c == '_' || c == '-' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

func (s *scanner) readWord() string {
	start := s.i
	for s.i < len(s.src) && isIdentPart(s.src[s.i]) {
		s.i++
	}
	return s.src[start:s.i]
}

func (s *scanner) skipSpacesOnly() {
	for s.i < len(s.src) && (s.src[s.i] == ' ' || s.src[s.i] == '\t' || s.src[s.i] == '\r' || s.src[s.i] == '\n') {
		s.i++
	}
}

func (s *scanner) handleWord() {
	word := s.readWord()
	if word != "style" && word != "script" {
		return
	}
	save := s.i
	s.skipSpacesOnly()
	if s.i >= len(s.src) || s.src[s.i] != '{' {
		s.i = save
		return
	}
	braceAt := s.i
	if word == "style" {
		local := len(s.frames) > 0 && s.hasGenericAncestor()
		if local {
			s.pushGeneric()
			s.i = braceAt + 1
			return
		}
		// Global style: the inner text is verbatim CSS.
		s.flush(braceAt + 1)
		s.curKind, s.curVerb = CSS, true
		s.i = braceAt + 1
		s.frames = append(s.frames, frameBracketed)
		s.solidConsume()
		return
	}
	// script (local or global): verbatim CHTL 
	s.flush(braceAt + 1)
	s.curKind, s.curVerb = CHTL, true
	s.i = braceAt + 1
	s.frames = append(s.frames, frameBracketed)
	s.solidConsume()
}

// hasGenericAncestor reports whether the current frame stack contains at
// least one element-shaped (generic) frame, meaning a style{} encountered
// right now is "local" 
func (s *scanner) hasGenericAncestor() bool {
	for _, f := range s.frames {
		if f == frameGeneric {
			return true
		}
	}
	return false
}

// solidConsume scans raw text (no keyword recognition) until the brace
// opened just before s.i is balanced, then flushes it as one fragment of
// the scanner's current curKind/curVerb and restores normal scanning.
func (s *scanner) solidConsume() {
	start := s.i
	depth := 1
	for s.i < len(s.src) {
		c := s.src[s.i]
		switch c {
		case '{':
			depth++
			s.i++
		case '}':
			depth--
			if depth == 0 {
				// Emit the verbatim fragment even when the body is empty
				// (script {}, a global style {}, a bodyless [Origin]{}):
				// flush skips zero-length spans, which would otherwise
				// leave nothing for consumeVerbatimBody to find between
				// the surrounding CHTL fragments.
				s.fragments = append(s.fragments, Fragment{
					Kind: s.curKind, Verbatim: s.curVerb,
					Text: s.src[start:s.i], Base: start,
				})
				s.flushStart = s.i
				s.curKind, s.curVerb = CHTL, false
				return
			}
			s.i++
		default:
			s.i++
		}
	}
	s.fatalAt(start, loc.ERROR_UNBALANCED_BRACE, "unterminated block: unbalanced braces")
}

var originTypeKind = map[string]Kind{
	"Style": CSS, "JavaScript": JS, "Html": CHTL, "Chtl": CHTL,
}

func (s *scanner) handleBracket() bool {
	start := s.i
	s.i++ // consume '['
	idStart := s.i
	for s.i < len(s.src) && isIdentPart(s.src[s.i]) {
		s.i++
	}
	name := s.src[idStart:s.i]
	if name == "" || !bracketKeywords[name] || s.i >= len(s.src) || s.src[s.i] != ']' {
		s.i = start + 1
		return true
	}
	s.i++ // consume ']'

	if name != "Origin" {
		// Defer to the next unescaped '{', which belongs to this bracketed
		// construct (Template/Custom/Namespace/Import/Configuration header).
		return s.consumeUntilBracketedBrace()
	}
	return s.handleOrigin()
}

// consumeUntilBracketedBrace scans forward (respecting strings/comments)
// until it finds the construct's opening brace, pushing a bracketed frame.
// If the construct has no body (e.g. a bodyless [Import] ... ;), it simply
// stops at the terminating ';' without pushing any frame.
func (s *scanner) consumeUntilBracketedBrace() bool {
	for s.i < len(s.src) {
		c := s.src[s.i]
		switch {
		case c == '"' || c == '\'':
			if !s.skipString(c) {
				return false
			}
		case c == '/' && s.peekAt(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peekAt(1) == '*':
			if !s.skipBlockComment() {
				return false
			}
		case c == '{':
			s.frames = append(s.frames, frameBracketed)
			s.i++
			return true
		case c == ';':
			s.i++
			return true
		default:
			s.i++
		}
	}
	return true
}

// handleOrigin parses `[Origin] (@Type|Identifier) Identifier? { raw }` and
// emits its body as a single verbatim fragment of the matching Kind.
func (s *scanner) handleOrigin() bool {
	s.skipSpacesOnly()
	kind := CHTL
	if s.i < len(s.src) && s.src[s.i] == '@' {
		s.i++
		typeStart := s.i
		for s.i < len(s.src) && isIdentPart(s.src[s.i]) {
			s.i++
		}
		typeName := s.src[typeStart:s.i]
		if k, ok := originTypeKind[typeName]; ok {
			kind = k
		}
	} else if isIdentStart(s.peekByte()) {
		s.readWord() // bare custom-type identifier; kind stays CHTL
	}
	s.skipSpacesOnly()
	if s.i < len(s.src) && isIdentStart(s.src[s.i]) {
		s.readWord() // optional origin name
		s.skipSpacesOnly()
	}
	if s.i < len(s.src) && s.src[s.i] == ';' {
		// A bodyless reference use, e.g. `[Origin] @Html banner;`: nothing
		// to solid-consume, stay in the enclosing frame.
		s.i++
		return true
	}
	if s.i >= len(s.src) || s.src[s.i] != '{' {
		s.fatalAt(s.i, loc.ERROR_MALFORMED_DIRECTIVE, "expected '{' or ';' after [Origin] header")
		return false
	}
	braceAt := s.i
	s.flush(braceAt + 1)
	s.curKind, s.curVerb = kind, true
	s.i = braceAt + 1
	s.frames = append(s.frames, frameBracketed)
	s.solidConsume()
	return true
}

func (s *scanner) peekByte() byte {
	if s.i >= len(s.src) {
		return 0
	}
	return s.src[s.i]
}

func (s *scanner) pushGeneric() {
	s.frames = append(s.frames, frameGeneric)
}

func (s *scanner) popFrame() bool {
	if len(s.frames) == 0 {
		s.fatalAt(s.i, loc.ERROR_UNBALANCED_BRACE, "unmatched '}'")
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

func (s *scanner) flush(end int) {
	if end > s.flushStart {
		s.fragments = append(s.fragments, Fragment{
			Kind: s.curKind, Verbatim: s.curVerb,
			Text: s.src[s.flushStart:end], Base: s.flushStart,
		})
	}
	s.flushStart = end
}

func mergeAdjacent(frags []Fragment) []Fragment {
	if len(frags) == 0 {
		return frags
	}
	out := make([]Fragment, 0, len(frags))
	cur := frags[0]
	for _, f := range frags[1:] {
		if f.Kind == cur.Kind && f.Verbatim == cur.Verbatim && len(cur.Text)+len(f.Text) < mergeLimit {
			cur.Text += f.Text
			continue
		}
		out = append(out, cur)
		cur = f
	}
	out = append(out, cur)
	return out
}
