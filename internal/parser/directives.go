package parser

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/lexer"
	"github.com/chtl-lang/chtl/internal/loc"
	"github.com/chtl-lang/chtl/internal/symbols"
)

// parseImport parses `[Import] TypeKeyword? (TargetList)? 'from' Path
// ('as' Identifier)? ('{' Items '}')? ';'?`.
func (p *Parser) parseImport() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume [Import]
	kind := "Chtl"
	switch {
	case p.peek().Kind == lexer.TypeKeyword:
		kind = p.next().Value
	case p.peek().Kind == lexer.At:
		p.next()
		if idTok, ok := p.expect(lexer.Identifier); ok {
			kind = idTok.Value
		}
	}

	var selected []string
	if !p.peek().IsSoftKeyword("from") {
	targetLoop:
		for {
			tok := p.peek()
			switch tok.Kind {
			case lexer.Identifier, lexer.Unquoted:
				p.next()
				selected = append(selected, tok.Value)
			case lexer.TypeKeyword:
				p.next()
				name, _ := p.parseQualifiedName()
				selected = append(selected, tok.Value+":"+name)
			default:
				break targetLoop
			}
			if p.peek().Kind == lexer.Comma {
				p.next()
				continue
			}
			break
		}
	}

	data := &ast.ImportData{Kind: kind, SelectedItems: selected}
	if p.peek().IsSoftKeyword("from") {
		p.next()
		pathVal, _ := p.parseLiteral()
		data.Path = pathVal
	} else {
		p.errHere(loc.ERROR_UNEXPECTED_TOKEN, loc.KindSyntactic, "expected 'from' in import directive")
	}

	if p.peek().IsSoftKeyword("as") {
		p.next()
		alias, _ := p.expect(lexer.Identifier)
		data.Alias = alias.Value
	}

	if p.peek().Kind == lexer.LBrace {
		p.next()
		for p.peek().Kind != lexer.RBrace && p.peek().Kind != lexer.EOF {
			tok := p.peek()
			if tok.Kind == lexer.Identifier || tok.Kind == lexer.Unquoted {
				p.next()
				data.SelectedItems = append(data.SelectedItems, tok.Value)
			} else {
				p.next()
			}
			if p.peek().Kind == lexer.Comma {
				p.next()
			}
		}
		p.expect(lexer.RBrace)
	}

	if p.peek().Kind == lexer.Semicolon {
		p.next()
	}
	id := p.arena.New(ast.KindImport, start)
	p.arena.Get(id).Import = data
	return id
}

// parseNamespace parses `[Namespace] QualifiedName { TopLevel* }`, pushing
// its (possibly dotted) path onto the relative-lookup namespace chain for
// the duration of its body.
func (p *Parser) parseNamespace() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume [Namespace]
	name, _ := p.parseQualifiedName()
	parts := strings.Split(name, ".")

	id := p.arena.New(ast.KindNamespace, start)
	p.arena.Get(id).Namespace = &ast.NamespaceData{Name: name}

	p.namespaceChain = append(p.namespaceChain, parts...)
	p.syms.RegisterNamespace(strings.Join(p.namespaceChain, "."))

	p.expect(lexer.LBrace)
	p.pushState(StateInNamespace)
	p.pushScope(ScopeFrame{Name: name, Kind: ast.KindNamespace, Loc: start})
	for p.peek().Kind != lexer.RBrace && p.peek().Kind != lexer.EOF {
		child := p.parseTopLevel()
		if child != ast.InvalidNode {
			p.arena.AddChild(id, child)
		}
	}
	p.expect(lexer.RBrace)
	p.popScope()
	p.popState()
	p.namespaceChain = p.namespaceChain[:len(p.namespaceChain)-len(parts)]
	return id
}

// parseConfiguration parses `[Configuration] (@Name)? { entries }` and
// registers the resulting ConfigRecord.
func (p *Parser) parseConfiguration() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume [Configuration]
	name := ""
	switch {
	case p.peek().Kind == lexer.At:
		p.next()
		if idTok, ok := p.expect(lexer.Identifier); ok {
			name = idTok.Value
		}
	case p.peek().Kind == lexer.Identifier:
		name = p.next().Value
	}

	rec := symbols.NewConfigRecord(name)
	p.expect(lexer.LBrace)
	p.pushState(StateInConfiguration)
	for p.peek().Kind != lexer.RBrace && p.peek().Kind != lexer.EOF {
		p.parseConfigurationItem(rec)
	}
	p.expect(lexer.RBrace)
	p.popState()

	if !p.syms.RegisterConfiguration(name, rec) {
		p.h.AppendError(symbols.DiagnosticForDuplicate(start, "configuration", name))
	}

	id := p.arena.New(ast.KindConfiguration, start)
	p.arena.Get(id).Config = &ast.ConfigurationData{
		Name: rec.Name, Values: rec.Values, NameOverrides: rec.NameOverrides,
		OriginTypeAliases: rec.OriginTypeAliases, Disabled: rec.Disabled,
	}
	return id
}

// parseConfigurationItem parses one configuration entry: a plain `key =
// value;` / `key: value;` pair, a `Key { alias, alias }` name-override
// group, or a `delete Name, Name;` disabled-feature list.
func (p *Parser) parseConfigurationItem(rec *symbols.ConfigRecord) {
	if p.peek().IsSoftKeyword("delete") {
		p.next()
		for {
			tok := p.peek()
			if tok.Kind != lexer.Identifier && tok.Kind != lexer.BracketKeyword && tok.Kind != lexer.SoftKeyword {
				break
			}
			p.next()
			rec.Disabled[tok.Value] = true
			if p.peek().Kind == lexer.Comma {
				p.next()
				continue
			}
			break
		}
		if p.peek().Kind == lexer.Semicolon {
			p.next()
		}
		return
	}

	keyTok, ok := p.expect(lexer.Identifier)
	if !ok {
		p.recoverToAnchor()
		return
	}
	switch p.peek().Kind {
	case lexer.LBrace:
		p.next()
		for p.peek().Kind != lexer.RBrace && p.peek().Kind != lexer.EOF {
			alias, _ := p.parseLiteral()
			rec.AddAlias(keyTok.Value, alias)
			if p.peek().Kind == lexer.Comma {
				p.next()
			}
		}
		p.expect(lexer.RBrace)
	case lexer.Colon, lexer.Equals:
		p.next()
		val, _ := p.parseLiteral()
		rec.Set(keyTok.Value, val)
		if p.peek().Kind == lexer.Semicolon {
			p.next()
		}
	default:
		p.errHere(loc.ERROR_MALFORMED_DIRECTIVE, loc.KindSyntactic, "malformed configuration entry")
		p.recoverToAnchor()
	}
}

// parseOrigin parses both forms of `[Origin]`: a full definition with a
// verbatim body (`[Origin] @Style Name { raw }`), which the unified
// scanner solid-consumes as its own fragment, and a bodyless reference use
// (`[Origin] @Style Name;`) that resolves against a prior definition.
func (p *Parser) parseOrigin() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume [Origin]
	kind := ast.OriginCustomType
	typeName := ""
	switch {
	case p.peek().Kind == lexer.TypeKeyword:
		tok := p.next()
		switch tok.Value {
		case "Html":
			kind = ast.OriginHtml
		case "Style":
			kind = ast.OriginStyle
		case "JavaScript":
			kind = ast.OriginJavaScript
		default:
			typeName = tok.Value
		}
	case p.peek().Kind == lexer.At:
		p.next()
		if idTok, ok := p.expect(lexer.Identifier); ok {
			typeName = idTok.Value
		}
	}
	name := ""
	if p.peek().Kind == lexer.Identifier {
		name = p.next().Value
	}

	id := p.arena.New(ast.KindOrigin, start)
	data := &ast.OriginData{Kind: kind, TypeName: typeName, Name: name}
	p.arena.Get(id).Origin = data

	if p.peek().Kind == lexer.Semicolon {
		p.next()
		return id
	}

	p.expect(lexer.LBrace)
	body := p.consumeVerbatimBody()
	data.Raw = strings.TrimSpace(body.Text)

	if name != "" {
		if !p.syms.RegisterOrigin(kind, name, id) {
			p.h.AppendError(symbols.DiagnosticForDuplicate(start, "origin", name))
		}
	}
	return id
}
