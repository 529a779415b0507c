package parser

import (
	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/helpers"
	"github.com/chtl-lang/chtl/internal/lexer"
	"github.com/chtl-lang/chtl/internal/loc"
)

// parseElement parses `Identifier '{' ElementBody '}'`.
func (p *Parser) parseElement() ast.NodeID {
	tagTok, _ := p.expect(lexer.Identifier)
	id := p.arena.New(ast.KindElement, tagTok.Loc)
	data := &ast.ElementData{Tag: tagTok.Value, Attributes: ast.NewOrderedMap()}
	p.arena.Get(id).Element = data

	p.expect(lexer.LBrace)
	p.pushState(StateInElement)
	p.pushScope(ScopeFrame{Name: tagTok.Value, Kind: ast.KindElement, Loc: tagTok.Loc})
	for p.peek().Kind != lexer.RBrace && p.peek().Kind != lexer.EOF {
		p.parseElementBodyItemInto(id, data)
	}
	p.expect(lexer.RBrace)
	p.popScope()
	p.popState()
	return id
}

// parseElementBodyItemInto parses one ElementBody item belonging to a real
// element, special-casing attributes (which mutate data directly rather
// than becoming a child node) before falling back to parseElementBodyItem.
func (p *Parser) parseElementBodyItemInto(elemID ast.NodeID, data *ast.ElementData) {
	tok := p.peek()
	if tok.Kind == lexer.Identifier {
		next := p.peekN(1)
		if next.Kind == lexer.Colon || next.Kind == lexer.Equals {
			p.parseAttributeInto(data)
			return
		}
	}
	child := p.parseElementBodyItem()
	if child != ast.InvalidNode {
		p.arena.AddChild(elemID, child)
	}
}

func (p *Parser) parseAttributeInto(data *ast.ElementData) {
	key, _ := p.expect(lexer.Identifier)
	p.next() // consume ':' or '=' (CE-equivalence)
	val, _ := p.parseLiteral()
	if p.peek().Kind == lexer.Semicolon {
		p.next()
	}
	data.Attributes.Set(key.Value, val)
}

// parseElementBodyItem dispatches one ElementBody production that isn't an
// attribute: Comment | TextBlock | LocalStyle | LocalScript | Element |
// CustomUse | VarCall | Origin | Except | Delete | Insert. Reused verbatim
// by Template/Custom @Element bodies and by Insert's content body, where
// there is no enclosing ElementData to attach a bare attribute to.
func (p *Parser) parseElementBodyItem() ast.NodeID {
	tok := p.peek()
	switch {
	case isCommentKind(tok.Kind):
		return p.parseComment()
	case tok.IsSoftKeyword("text"):
		return p.parseTextBlock()
	case tok.IsSoftKeyword("style") && p.peekN(1).Kind == lexer.LBrace:
		return p.parseLocalStyle()
	case tok.IsSoftKeyword("script") && p.peekN(1).Kind == lexer.LBrace:
		return p.parseLocalScript()
	case tok.IsSoftKeyword("inherit"):
		return p.parseInherit()
	case tok.IsSoftKeyword("delete"):
		return p.parseDelete()
	case tok.IsSoftKeyword("insert"):
		return p.parseInsert()
	case tok.IsSoftKeyword("except"):
		return p.parseExcept()
	case tok.Kind == lexer.TypeKeyword && tok.Value == "Var":
		return p.parseVarCall()
	case tok.Kind == lexer.TypeKeyword && (tok.Value == "Style" || tok.Value == "Element"):
		return p.parseCustomUse()
	case tok.Kind == lexer.BracketKeyword && tok.Value == "Origin":
		return p.parseOrigin()
	case tok.Kind == lexer.Identifier:
		return p.parseIdentifierLed()
	default:
		p.errHere(loc.ERROR_UNEXPECTED_TOKEN, loc.KindSyntactic, "unexpected token in element body: "+tok.String())
		p.recoverToAnchor()
		return ast.InvalidNode
	}
}

// parseIdentifierLed disambiguates an Identifier-led item by its second
// token: ':'/'=' would be an attribute (only valid directly inside a real
// element, handled by parseElementBodyItemInto before reaching here), '{'
// is a nested element.
func (p *Parser) parseIdentifierLed() ast.NodeID {
	next := p.peekN(1)
	switch next.Kind {
	case lexer.LBrace:
		return p.parseElement()
	case lexer.Colon, lexer.Equals:
		return p.parseAttribute()
	default:
		p.errHere(loc.ERROR_UNEXPECTED_TOKEN, loc.KindSyntactic,
			"expected '{' (child element) after "+p.peek().Value)
		p.recoverToAnchor()
		return ast.InvalidNode
	}
}

// parseAttribute is reached only when an attribute-shaped item turns up
// somewhere with no element to attach it to (e.g. directly inside a
// Template @Element body, outside any nested element) — always an error.
func (p *Parser) parseAttribute() ast.NodeID {
	p.errHere(loc.ERROR_UNEXPECTED_TOKEN, loc.KindSyntactic, "attribute not valid outside an element body")
	p.recoverToAnchor()
	return ast.InvalidNode
}

// parseTextBlock parses `text { Literal* }` or the shorthand `text Literal;`,
// joining literals with single spaces.
func (p *Parser) parseTextBlock() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume 'text'
	id := p.arena.New(ast.KindText, start)

	if p.peek().Kind == lexer.LBrace {
		p.next()
		var parts []string
		for p.peek().Kind != lexer.RBrace && p.peek().Kind != lexer.EOF {
			if isCommentKind(p.peek().Kind) {
				p.next()
				continue
			}
			val, _ := p.parseLiteral()
			parts = append(parts, val)
		}
		p.expect(lexer.RBrace)
		p.arena.Get(id).Text = &ast.TextData{Content: helpers.JoinTextParts(parts)}
		return id
	}

	val, _ := p.parseLiteral()
	if p.peek().Kind == lexer.Semicolon {
		p.next()
	}
	p.arena.Get(id).Text = &ast.TextData{Content: val}
	return id
}
