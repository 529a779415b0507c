package parser

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/lexer"
	"github.com/chtl-lang/chtl/internal/loc"
)

// typeKeywordDefKind maps a TypeKeyword token's Value to the DefKind it
// names wherever it introduces a Template/Custom definition or use-site.
func typeKeywordDefKind(name string) (ast.DefKind, bool) {
	switch name {
	case "Style":
		return ast.DefStyle, true
	case "Element":
		return ast.DefElement, true
	case "Var":
		return ast.DefVar, true
	}
	return ast.DefStyle, false
}

// parseQualifiedName consumes Identifier ('.' Identifier)* and returns the
// dotted path plus the location of its first token.
func (p *Parser) parseQualifiedName() (string, loc.Loc) {
	first, _ := p.expect(lexer.Identifier)
	parts := []string{first.Value}
	for p.peek().Kind == lexer.Dot {
		p.next()
		id, ok := p.expect(lexer.Identifier)
		if !ok {
			break
		}
		parts = append(parts, id.Value)
	}
	return strings.Join(parts, "."), first.Loc
}

// parseFromClause consumes an optional `from QualifiedName` suffix.
func (p *Parser) parseFromClause() string {
	if p.peek().IsSoftKeyword("from") {
		p.next()
		name, _ := p.parseQualifiedName()
		return name
	}
	return ""
}

// parseLiteral consumes one value token: a quoted string, a number, an
// unquoted literal, or a bare identifier.
func (p *Parser) parseLiteral() (string, loc.Loc) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.StringDouble, lexer.StringSingle, lexer.Number, lexer.Unquoted, lexer.Identifier:
		p.next()
		return tok.Value, tok.Loc
	default:
		p.errHere(loc.ERROR_UNEXPECTED_TOKEN, loc.KindSyntactic, "expected a value, found "+tok.Kind.String())
		return "", tok.Loc
	}
}

// parseVarCall parses `@Var GroupName '(' VarName ('=' Literal)? ')' ';'?`,
// used wherever a variable-group reference can appear.
func (p *Parser) parseVarCall() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume '@Var'
	groupName, _ := p.parseQualifiedName()
	p.expect(lexer.LParen)
	varName, _ := p.expect(lexer.Identifier)
	data := &ast.VarCallData{GroupName: groupName, VarName: varName.Value}
	if p.peek().Kind == lexer.Equals {
		p.next()
		val, _ := p.parseLiteral()
		data.OverrideValue = val
		data.HasOverride = true
	}
	p.expect(lexer.RParen)
	if p.peek().Kind == lexer.Semicolon {
		p.next()
	}
	id := p.arena.New(ast.KindVarCall, start)
	p.arena.Get(id).VarCall = data
	return id
}

// parseCustomUse parses a `@Style`/`@Element` reference: a bare
// `@Type QualifiedName (from Namespace)? ;` application, or the same header
// followed by a `{ ... }` specialization body of delete/insert/override
// items. The same header syntax
// appearing as a direct child of a Template/Custom definition body instead
// means Inherit — see parseTemplateOrCustomBody, which routes it there.
func (p *Parser) parseCustomUse() ast.NodeID {
	start := p.peek().Loc
	kindTok := p.next() // TypeKeyword
	defKind, _ := typeKeywordDefKind(kindTok.Value)
	name, _ := p.parseQualifiedName()
	from := p.parseFromClause()

	id := p.arena.New(ast.KindCustom, start)
	data := &ast.CustomData{DefKind: defKind, Name: name, Namespace: from}
	p.arena.Get(id).Custom = data

	if p.peek().Kind == lexer.LBrace {
		data.IsSpecialization = true
		p.next()
		if defKind == ast.DefElement {
			for p.peek().Kind != lexer.RBrace && p.peek().Kind != lexer.EOF {
				child := p.parseElementBodyItem()
				if child != ast.InvalidNode {
					p.arena.AddChild(id, child)
				}
			}
		} else {
			props := ast.NewOrderedMap()
			for p.peek().Kind != lexer.RBrace && p.peek().Kind != lexer.EOF {
				p.parseOverrideEntry(id, props)
			}
			if props.Len() > 0 {
				sbID := p.arena.New(ast.KindStyleBlock, start)
				p.arena.Get(sbID).Style = &ast.StyleBlockData{Scope: ast.StyleLocal, InlineProps: props}
				p.arena.AddChild(id, sbID)
			}
		}
		p.expect(lexer.RBrace)
	} else if p.peek().Kind == lexer.Semicolon {
		p.next()
	}
	return id
}

// parseOverrideEntry parses one item inside a Style/Var specialization
// body: delete statements and comments attach directly to id; plain
// `key: value;` pairs accumulate into props.
func (p *Parser) parseOverrideEntry(id ast.NodeID, props *ast.OrderedMap) {
	tok := p.peek()
	switch {
	case isCommentKind(tok.Kind):
		p.arena.AddChild(id, p.parseComment())
	case tok.IsSoftKeyword("delete"):
		p.arena.AddChild(id, p.parseDelete())
	default:
		p.parsePropInto(props)
	}
}
