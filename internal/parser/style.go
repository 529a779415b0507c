package parser

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/lexer"
	"github.com/chtl-lang/chtl/internal/loc"
)

// parseLocalStyle parses a `style { ... }` block nested inside an element
// body. Its content is still CHTL (the unified scanner never splits a local
// style block into its own fragment), but the CSS-shaped items inside it
// (selectors, declarations, bare property pairs) are captured with the raw
// scanners in rawscan.go rather than tokenized, since CSS syntax like
// `#fff` or `rgba(0,0,0,.5)` isn't in the CHTL token grammar.
func (p *Parser) parseLocalStyle() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume 'style'
	p.expect(lexer.LBrace)

	id := p.arena.New(ast.KindStyleBlock, start)
	data := &ast.StyleBlockData{Scope: ast.StyleLocal, InlineProps: ast.NewOrderedMap()}
	p.arena.Get(id).Style = data

	p.pushState(StateInLocalStyle)
	p.pushScope(ScopeFrame{Name: "style", Kind: ast.KindStyleBlock, Loc: start})
	for p.peek().Kind != lexer.RBrace && p.peek().Kind != lexer.EOF {
		p.parseLocalStyleItem(id, data)
	}
	p.expect(lexer.RBrace)
	p.popScope()
	p.popState()
	return id
}

// parseGlobalStyle parses a top-level `style { ... }` block. The unified
// scanner solid-consumes its body as a standalone verbatim CSS fragment, so
// the parser never tokenizes it at all: it takes the fragment text whole
// and splits it into a rule list.
func (p *Parser) parseGlobalStyle() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume 'style'
	p.expect(lexer.LBrace)
	body := p.consumeVerbatimBody()

	id := p.arena.New(ast.KindStyleBlock, start)
	p.arena.Get(id).Style = &ast.StyleBlockData{
		Scope: ast.StyleGlobal,
		Rules: parseCSSRuleList(body.Text, body.Base),
	}
	return id
}

// parseLocalStyleItem dispatches one StyleBody item: Comment, Inherit,
// `@Var Group(...)`, `@Style Name` application, or plain CSS-like content
// (an inline `prop: value;` pair or a nested `selector { ... }` rule).
func (p *Parser) parseLocalStyleItem(blockID ast.NodeID, data *ast.StyleBlockData) {
	tok := p.peek()
	switch {
	case isCommentKind(tok.Kind):
		p.arena.AddChild(blockID, p.parseComment())
	case tok.IsSoftKeyword("inherit"):
		p.arena.AddChild(blockID, p.parseInherit())
	case tok.Kind == lexer.TypeKeyword && tok.Value == "Var":
		p.arena.AddChild(blockID, p.parseVarCall())
	case tok.Kind == lexer.TypeKeyword && tok.Value == "Style":
		p.arena.AddChild(blockID, p.parseCustomUse())
	default:
		p.parseCSSLikeItem(data)
	}
}

// parseCSSLikeItem scans one raw CSS-shaped item starting at the lexer's
// current position: either a `selector { declarations }` rule or a plain
// `key: value;` / bare class/id/property-name item, and resyncs the lexer
// to just past it.
func (p *Parser) parseCSSLikeItem(data *ast.StyleBlockData) {
	src := p.lex.Source()
	i := rawSkipWhitespaceAndComments(src, p.lex.Pos())
	itemStart := i
	idx, delim, ok := rawFindDelim(src, i)
	if !ok {
		p.lex.Restore(len(src))
		p.errHere(loc.ERROR_UNCLOSED_CONSTRUCT, loc.KindSyntactic, "unterminated style item")
		return
	}

	if delim == '{' {
		selector := strings.TrimSpace(src[itemStart:idx])
		body, after := rawScanBalancedBraces(src, idx+1)
		data.Rules = append(data.Rules, ast.StyleRule{
			Selector:    selector,
			Declaration: strings.TrimSpace(body),
			Loc:         loc.Loc{Start: p.lex.Base() + itemStart},
		})
		if after < len(src) && src[after] == '}' {
			after++
		}
		p.lex.Restore(after)
		return
	}

	item := strings.TrimSpace(src[itemStart:idx])
	p.lex.Restore(idx + 1)
	if item == "" {
		return
	}
	key, val, hasSep := splitCEPair(item)
	if !hasSep {
		switch {
		case strings.HasPrefix(item, "."):
			data.AutoClass = strings.TrimPrefix(item, ".")
		case strings.HasPrefix(item, "#"):
			data.AutoID = strings.TrimPrefix(item, "#")
		default:
			data.NoValueProps = append(data.NoValueProps, item)
		}
		return
	}
	data.InlineProps.Set(key, val)
}

// parsePropInto scans one raw `key: value;` pair into props, used by
// Style/Var Template/Custom bodies and Custom-use specialization bodies,
// where nested rules aren't expected.
func (p *Parser) parsePropInto(props *ast.OrderedMap) {
	src := p.lex.Source()
	i := rawSkipWhitespaceAndComments(src, p.lex.Pos())
	idx, delim, ok := rawFindDelim(src, i)
	if !ok {
		p.lex.Restore(len(src))
		return
	}
	if delim == '{' {
		_, after := rawScanBalancedBraces(src, idx+1)
		if after < len(src) && src[after] == '}' {
			after++
		}
		p.lex.Restore(after)
		return
	}
	item := strings.TrimSpace(src[i:idx])
	p.lex.Restore(idx + 1)
	if item == "" {
		return
	}
	if key, val, hasSep := splitCEPair(item); hasSep {
		props.Set(key, val)
	}
}

// parseCSSRuleList splits a verbatim CSS blob (a global style{} body, or an
// [Origin] @Style body) into its top-level selector/declaration rules.
func parseCSSRuleList(src string, base int) []ast.StyleRule {
	var rules []ast.StyleRule
	i := 0
	for {
		i = rawSkipWhitespaceAndComments(src, i)
		if i >= len(src) {
			break
		}
		idx, delim, ok := rawFindDelim(src, i)
		if !ok || delim != '{' {
			break
		}
		selector := strings.TrimSpace(src[i:idx])
		body, after := rawScanBalancedBraces(src, idx+1)
		rules = append(rules, ast.StyleRule{
			Selector:    selector,
			Declaration: strings.TrimSpace(body),
			Loc:         loc.Loc{Start: base + i},
		})
		if after < len(src) && src[after] == '}' {
			i = after + 1
		} else {
			i = after
		}
	}
	return rules
}
