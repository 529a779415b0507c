// Package parser implements the recursive-descent CHTL parser: a single
// entry point that drives a scope stack and a state stack while building
// the AST in an ast.Arena and registering definitions into a
// symbols.Table.
package parser

import (
	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/fragment"
	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/lexer"
	"github.com/chtl-lang/chtl/internal/loc"
	"github.com/chtl-lang/chtl/internal/symbols"
)

// State is the closed set of syntactic-context frames the parser tracks.
type State int

const (
	StateInitial State = iota
	StateGlobal
	StateInElement
	StateInElementAttributes
	StateInTextNode
	StateInLocalStyle
	StateInGlobalStyle
	StateInStyleRule
	StateInLocalScript
	StateInGlobalScript
	StateInTemplate
	StateInCustom
	StateInOrigin
	StateInImport
	StateInConfiguration
	StateInNamespace
	StateError
)

// ScopeFrame is one entry of the parser's scope stack: name,
// kind, and the location of the construct that opened it.
type ScopeFrame struct {
	Name string
	Kind ast.Kind
	Loc  loc.Loc
}

// Parser walks a fragment list (produced by internal/fragment), tokenizing
// each CHTL fragment with its own internal/lexer.Lexer and taking CSS/JS or
// Verbatim fragments as raw text, to build an ast.Arena and register
// definitions into a symbols.Table. Not safe for concurrent use.
type Parser struct {
	filename string
	frags    []fragment.Fragment
	fragIdx  int
	lex      *lexer.Lexer

	h      *handler.Handler
	arena  *ast.Arena
	syms   *symbols.Table
	strict bool

	scopeStack []ScopeFrame
	stateStack []State

	// namespaceChain is the dotted path of [Namespace] blocks currently
	// open, innermost last, used for registration and relative lookup.
	namespaceChain []string
}

// New builds a Parser ready to parse src (already partitioned by
// internal/fragment.Scan) into arena, registering into syms.
func New(filename string, frags []fragment.Fragment, h *handler.Handler, arena *ast.Arena, syms *symbols.Table, strict bool) *Parser {
	p := &Parser{filename: filename, frags: frags, h: h, arena: arena, syms: syms, strict: strict}
	if len(frags) > 0 {
		p.fragIdx = 0
		p.lex = lexer.New(frags[0].Text, filename, frags[0].Base, false, h)
	} else {
		p.lex = lexer.New("", filename, 0, false, h)
	}
	return p
}

// ---- scope/state stack ----

func (p *Parser) pushState(s State) { p.stateStack = append(p.stateStack, s) }

func (p *Parser) popState() State {
	if len(p.stateStack) == 0 {
		return StateError
	}
	s := p.stateStack[len(p.stateStack)-1]
	p.stateStack = p.stateStack[:len(p.stateStack)-1]
	return s
}

func (p *Parser) currentState() State {
	if len(p.stateStack) == 0 {
		return StateInitial
	}
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) pushScope(f ScopeFrame) { p.scopeStack = append(p.scopeStack, f) }

func (p *Parser) popScope() ScopeFrame {
	if len(p.scopeStack) == 0 {
		return ScopeFrame{}
	}
	f := p.scopeStack[len(p.scopeStack)-1]
	p.scopeStack = p.scopeStack[:len(p.scopeStack)-1]
	return f
}

// inElement reports whether any enclosing state is an element body, used to
// classify a nested style{}/script{} as local (mirrors the unified
// scanner's own hasGenericAncestor check so the two passes agree).
func (p *Parser) inElement() bool {
	for _, s := range p.stateStack {
		if s == StateInElement {
			return true
		}
	}
	return false
}

// ---- token access ----

func (p *Parser) peek() lexer.Token       { return p.lex.Peek(0) }
func (p *Parser) peekN(k int) lexer.Token { return p.lex.Peek(k) }
func (p *Parser) next() lexer.Token       { return p.lex.Next() }

func isCommentKind(k lexer.Kind) bool {
	return k == lexer.CommentLine || k == lexer.CommentBlock || k == lexer.CommentGenerator
}

func (p *Parser) errHere(code loc.DiagnosticCode, kind loc.Kind, text string) {
	tok := p.peek()
	p.h.AppendError(&loc.ErrorWithRange{
		Code: code, Kind: kind, Text: text,
		Range: loc.Range{Loc: tok.Loc, Len: 1},
	})
}

// expect consumes the next token if it matches kind, else records a
// diagnostic and leaves the stream positioned for recovery.
func (p *Parser) expect(kind lexer.Kind) (lexer.Token, bool) {
	tok := p.peek()
	if tok.Kind != kind {
		p.errHere(loc.ERROR_UNEXPECTED_TOKEN, loc.KindSyntactic,
			"expected "+kind.String()+", found "+tok.Kind.String())
		return tok, false
	}
	return p.next(), true
}

// recoverToAnchor skips tokens until a structural anchor: matching '}',
// ';', a bracket-keyword, or EOF.
func (p *Parser) recoverToAnchor() {
	depth := 0
	for {
		tok := p.peek()
		switch tok.Kind {
		case lexer.EOF:
			return
		case lexer.LBrace:
			depth++
			p.next()
		case lexer.RBrace:
			if depth == 0 {
				return
			}
			depth--
			p.next()
		case lexer.Semicolon:
			p.next()
			if depth == 0 {
				return
			}
		case lexer.BracketKeyword:
			if depth == 0 {
				return
			}
			p.next()
		default:
			p.next()
		}
	}
}

// ---- fragment walking ----

// atFragmentEOF reports whether the current lexer has exhausted its
// fragment's text, the signal that the next fragment in the list is a
// verbatim body the unified scanner carved out (global style/script/origin
// bodies always immediately follow the CHTL fragment that opened them).
func (p *Parser) atFragmentEOF() bool {
	return p.peek().Kind == lexer.EOF
}

// enterFragment switches the active lexer to frags[idx].
func (p *Parser) enterFragment(idx int) {
	p.fragIdx = idx
	f := p.frags[idx]
	p.lex = lexer.New(f.Text, p.filename, f.Base, false, p.h)
}

// consumeVerbatimBody takes the next fragment (expected to be the Verbatim
// body cut out by the unified scanner after a style{/script{/[Origin]{
// opening brace), then advances to the CHTL fragment immediately after it
// (which starts right at the matching '}') and makes it the active lexer.
// Returns the verbatim fragment so callers can inspect its Kind/Text.
func (p *Parser) consumeVerbatimBody() fragment.Fragment {
	if p.fragIdx+1 >= len(p.frags) {
		p.errHere(loc.ERROR_UNCLOSED_CONSTRUCT, loc.KindSyntactic, "unexpected end of input inside verbatim block")
		return fragment.Fragment{}
	}
	body := p.frags[p.fragIdx+1]
	nextIdx := p.fragIdx + 2
	if nextIdx >= len(p.frags) {
		p.h.SetFatal(&loc.ErrorWithRange{
			Code: loc.ERROR_UNCLOSED_CONSTRUCT, Kind: loc.KindSyntactic,
			Text:  "unterminated block: no closing fragment after verbatim body",
			Range: loc.Range{Loc: loc.Loc{Start: body.Base}, Len: len(body.Text)},
		})
		return body
	}
	p.enterFragment(nextIdx)
	return body
}

// Parse is the parse_document entry point: returns the root Document node.
func (p *Parser) Parse() ast.NodeID {
	root := p.arena.New(ast.KindDocument, loc.Loc{Start: 0})
	p.pushState(StateGlobal)
	p.pushScope(ScopeFrame{Name: "", Kind: ast.KindDocument, Loc: loc.Loc{Start: 0}})

	for p.peek().Kind != lexer.EOF {
		child := p.parseTopLevel()
		if child != ast.InvalidNode {
			p.arena.AddChild(root, child)
		}
	}

	p.popScope()
	s := p.popState()
	if s != StateGlobal || len(p.stateStack) != 0 || len(p.scopeStack) != 0 {
		p.h.AppendError(&loc.ErrorWithRange{
			Code: loc.ERROR_UNBALANCED_STACK, Kind: loc.KindSyntactic,
			Text:  "unbalanced scope/state stack at end of document",
			Range: loc.Range{Loc: loc.Loc{Start: 0}, Len: 1},
		})
	}
	return root
}
