package lexer

import (
	"strings"
	"unicode"

	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/loc"
)

// Stats is the statistics counter the lexer exposes through Lexer.Stats;
// the top-level Compile does not report it.
type Stats struct {
	TokensProduced int
	CommentsSeen   int
	PeeksServed    int
}

// Lexer is a deterministic, single-pass, O(n) tokenizer over one fragment's
// text. It is not safe for concurrent use; one Lexer belongs to one parser
// belongs to one pipeline instance.
type Lexer struct {
	src      string
	file     string
	base     int // byte offset of src within the original file
	pos      int
	skipWS   bool
	inScript bool // enables recognizing {{ / }} as single tokens

	h     *handler.Handler
	stats Stats

	// saved states for peek/rewind
	saved []savedState
}

type savedState struct {
	pos int
}

// New creates a Lexer over src. base is the byte offset of src within the
// whole source file (fragments are sub-ranges of the original text), used
// so emitted locations are file-absolute.
func New(src, file string, base int, inScript bool, h *handler.Handler) *Lexer {
	return &Lexer{src: src, file: file, base: base, pos: 0, skipWS: true, inScript: inScript, h: h}
}

// loc turns a fragment-local byte offset into a file-absolute Loc.
func (l *Lexer) loc(start int) loc.Loc { return loc.Loc{Start: l.base + start} }

func (l *Lexer) Stats() Stats { return l.stats }

// Source returns the fragment text this Lexer was built over, so callers
// that need a raw byte slice (e.g. a StyleRule's declaration block, kept
// verbatim rather than reconstructed from tokens) can index into it with
// offsets from Save/Pos.
func (l *Lexer) Source() string { return l.src }

// Pos returns the current byte offset within this Lexer's fragment text.
func (l *Lexer) Pos() int { return l.pos }

// Base returns the byte offset of this fragment within the original file.
func (l *Lexer) Base() int { return l.base }

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peekByte() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByteAt(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
}

func (l *Lexer) errf(code loc.DiagnosticCode, start int, text string) {
	l.h.AppendError(&loc.ErrorWithRange{
		Code:  code,
		Kind:  loc.KindLexical,
		Text:  text,
		Range: loc.Range{Loc: l.loc(start), Len: l.pos - start},
	})
}

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentPart(c byte) bool {
	return c == '_' || c == '-' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

func isUnquotedPart(c byte) bool {
	return c == '_' || c == '-' || c == '.' || c == '/' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

// Next returns the next token in the stream, or an EOF token once exhausted.
func (l *Lexer) Next() Token {
	if l.skipWS {
		l.skipWhitespace()
	}
	start := l.pos
	if l.eof() {
		return Token{Kind: EOF, Loc: l.loc(start), File: l.file}
	}
	c := l.src[l.pos]

	tok := l.lexOne(c, start)
	l.stats.TokensProduced++
	if tok.Kind == CommentLine || tok.Kind == CommentBlock || tok.Kind == CommentGenerator {
		l.stats.CommentsSeen++
	}
	return tok
}

func (l *Lexer) lexOne(c byte, start int) Token {
	switch {
	case l.inScript && c == '{' && l.peekByteAt(1) == '{':
		l.pos += 2
		return Token{Kind: DoubleLBrace, Value: "{{", Loc: l.loc(start), File: l.file}
	case l.inScript && c == '}' && l.peekByteAt(1) == '}':
		l.pos += 2
		return Token{Kind: DoubleRBrace, Value: "}}", Loc: l.loc(start), File: l.file}
	case c == '{':
		l.pos++
		return Token{Kind: LBrace, Value: "{", Loc: l.loc(start), File: l.file}
	case c == '}':
		l.pos++
		return Token{Kind: RBrace, Value: "}", Loc: l.loc(start), File: l.file}
	case c == '[':
		return l.lexBracket(start)
	case c == ']':
		l.pos++
		return Token{Kind: RBracket, Value: "]", Loc: l.loc(start), File: l.file}
	case c == '(':
		l.pos++
		return Token{Kind: LParen, Value: "(", Loc: l.loc(start), File: l.file}
	case c == ')':
		l.pos++
		return Token{Kind: RParen, Value: ")", Loc: l.loc(start), File: l.file}
	case c == ';':
		l.pos++
		return Token{Kind: Semicolon, Value: ";", Loc: l.loc(start), File: l.file}
	case c == ',':
		l.pos++
		return Token{Kind: Comma, Value: ",", Loc: l.loc(start), File: l.file}
	case c == ':':
		l.pos++
		return Token{Kind: Colon, Value: ":", Loc: l.loc(start), File: l.file}
	case c == '=':
		l.pos++
		return Token{Kind: Equals, Value: "=", Loc: l.loc(start), File: l.file}
	case c == '&':
		l.pos++
		return Token{Kind: Amp, Value: "&", Loc: l.loc(start), File: l.file}
	case c == '@':
		return l.lexAt(start)
	case c == '"':
		return l.lexString(start, '"', StringDouble)
	case c == '\'':
		return l.lexString(start, '\'', StringSingle)
	case c == '/' && l.peekByteAt(1) == '/':
		return l.lexLineComment(start, CommentLine, 2)
	case c == '/' && l.peekByteAt(1) == '*':
		return l.lexBlockComment(start)
	case c == '-' && l.peekByteAt(1) == '-':
		return l.lexLineComment(start, CommentGenerator, 2)
	case unicode.IsDigit(rune(c)):
		return l.lexNumber(start)
	case isIdentStart(c):
		return l.lexIdentOrCompound(start)
	case c == '.':
		// Only a bare Dot when not part of an unquoted literal run; bare
		// dots appear in selector text handled at the fragment level.
		l.pos++
		return Token{Kind: Dot, Value: ".", Loc: l.loc(start), File: l.file}
	default:
		l.pos++
		l.errf(loc.ERROR_BAD_CHARACTER, start, "unexpected character '"+string(c)+"'")
		return Token{Kind: Invalid, Value: string(c), Loc: l.loc(start), File: l.file}
	}
}

func (l *Lexer) lexBracket(start int) Token {
	// Try to recognize [Keyword] as a single BracketKeyword token.
	save := l.pos
	l.pos++ // consume '['
	idStart := l.pos
	for !l.eof() && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	name := l.src[idStart:l.pos]
	if name != "" && BracketKeywords[name] && l.peekByte() == ']' {
		l.pos++ // consume ']'
		return Token{Kind: BracketKeyword, Value: name, Loc: l.loc(start), File: l.file}
	}
	l.pos = save
	l.pos++
	return Token{Kind: LBracket, Value: "[", Loc: l.loc(start), File: l.file}
}

func (l *Lexer) lexAt(start int) Token {
	save := l.pos
	l.pos++ // consume '@'
	idStart := l.pos
	for !l.eof() && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	name := l.src[idStart:l.pos]
	if name != "" && TypeKeywords[name] {
		return Token{Kind: TypeKeyword, Value: name, Loc: l.loc(start), File: l.file}
	}
	l.pos = save + 1
	return Token{Kind: At, Value: "@", Loc: l.loc(start), File: l.file}
}

func (l *Lexer) lexString(start int, quote byte, kind Kind) Token {
	l.pos++ // consume opening quote
	var sb strings.Builder
	for {
		if l.eof() {
			l.errf(loc.ERROR_UNTERMINATED_STRING, start, "unterminated string literal")
			return Token{Kind: kind, Value: sb.String(), Loc: l.loc(start), File: l.file}
		}
		c := l.src[l.pos]
		if c == quote {
			l.pos++
			break
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			switch l.src[l.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			default:
				sb.WriteByte(l.src[l.pos])
			}
			l.pos++
			continue
		}
		sb.WriteByte(c)
		l.pos++
	}
	return Token{Kind: kind, Value: sb.String(), Loc: l.loc(start), File: l.file}
}

func (l *Lexer) lexLineComment(start int, kind Kind, prefixLen int) Token {
	l.pos += prefixLen
	bodyStart := l.pos
	for !l.eof() && l.src[l.pos] != '\n' {
		l.pos++
	}
	return Token{Kind: kind, Value: strings.TrimSpace(l.src[bodyStart:l.pos]), Loc: l.loc(start), File: l.file}
}

func (l *Lexer) lexBlockComment(start int) Token {
	l.pos += 2 // consume /*
	bodyStart := l.pos
	for {
		if l.eof() {
			l.errf(loc.ERROR_UNTERMINATED_COMMENT, start, "unterminated block comment")
			return Token{Kind: CommentBlock, Value: l.src[bodyStart:l.pos], Loc: l.loc(start), File: l.file}
		}
		if l.src[l.pos] == '*' && l.peekByteAt(1) == '/' {
			body := l.src[bodyStart:l.pos]
			l.pos += 2
			return Token{Kind: CommentBlock, Value: strings.TrimSpace(body), Loc: l.loc(start), File: l.file}
		}
		l.pos++
	}
}

func (l *Lexer) lexNumber(start int) Token {
	for !l.eof() && unicode.IsDigit(rune(l.src[l.pos])) {
		l.pos++
	}
	if !l.eof() && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && unicode.IsDigit(rune(l.src[l.pos+1])) {
		l.pos++
		for !l.eof() && unicode.IsDigit(rune(l.src[l.pos])) {
			l.pos++
		}
	}
	return Token{Kind: Number, Value: l.src[start:l.pos], Loc: l.loc(start), File: l.file}
}

// lexIdentOrCompound handles plain identifiers, soft keywords, and the
// two-word compound keywords `at top` / `at bottom`, recognized by
// lookahead with rewind on mismatch.
func (l *Lexer) lexIdentOrCompound(start int) Token {
	for !l.eof() && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	name := l.src[start:l.pos]
	if name == "at" {
		save := l.pos
		l.skipWhitespace()
		wordStart := l.pos
		for !l.eof() && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		word := l.src[wordStart:l.pos]
		if word == "top" || word == "bottom" {
			return Token{Kind: SoftKeyword, Value: "at " + word, Loc: l.loc(start), File: l.file}
		}
		l.pos = save
	}
	if SoftKeywords[name] {
		return Token{Kind: SoftKeyword, Value: name, Loc: l.loc(start), File: l.file}
	}
	// An identifier run directly followed by '/' or '.' and another
	// unquoted-literal byte continues as an unquoted literal (e.g.
	// "foo/bar.png", "logo.svg"); extend greedily.
	if !l.eof() && (l.src[l.pos] == '/' || l.src[l.pos] == '.') && isUnquotedContinuation(l.src, l.pos) {
		for !l.eof() && isUnquotedPart(l.src[l.pos]) {
			l.pos++
		}
		return Token{Kind: Unquoted, Value: l.src[start:l.pos], Loc: l.loc(start), File: l.file}
	}
	return Token{Kind: Identifier, Value: name, Loc: l.loc(start), File: l.file}
}

func isUnquotedContinuation(src string, pos int) bool {
	return pos+1 < len(src) && isUnquotedPart(src[pos+1])
}

// ---- peek / rewind ----

// Save captures the current position so the caller can Restore it, giving
// the parser a cheap bounded-lookahead mechanism.
func (l *Lexer) Save() int { return l.pos }

func (l *Lexer) Restore(pos int) { l.pos = pos }

// Peek returns the k-th token ahead (0 = next token that Next() would
// return) without consuming input permanently.
func (l *Lexer) Peek(k int) Token {
	save := l.Save()
	defer l.Restore(save)
	var tok Token
	for i := 0; i <= k; i++ {
		tok = l.Next()
	}
	l.stats.PeeksServed++
	return tok
}
