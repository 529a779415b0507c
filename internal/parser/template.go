package parser

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/lexer"
	"github.com/chtl-lang/chtl/internal/loc"
	"github.com/chtl-lang/chtl/internal/symbols"
)

// parseTemplate parses `[Template] @Kind QualifiedName { body }` and
// registers it into the symbol table.
func (p *Parser) parseTemplate() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume [Template]
	defKind, name, nameLoc, id := p.parseDefHeader(ast.KindTemplate, start)

	p.expect(lexer.LBrace)
	p.pushState(StateInTemplate)
	p.pushScope(ScopeFrame{Name: name, Kind: ast.KindTemplate, Loc: start})
	p.parseTemplateOrCustomBody(id, defKind)
	p.expect(lexer.RBrace)
	p.popScope()
	p.popState()

	p.registerDef(defKind, name, nameLoc, id, p.syms.RegisterTemplate)
	return id
}

// parseCustom parses `[Custom] @Kind QualifiedName { body }` and registers
// it into the symbol table.
func (p *Parser) parseCustom() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume [Custom]
	defKind, name, nameLoc, id := p.parseDefHeaderCustom(start)

	p.expect(lexer.LBrace)
	p.pushState(StateInCustom)
	p.pushScope(ScopeFrame{Name: name, Kind: ast.KindCustom, Loc: start})
	p.parseTemplateOrCustomBody(id, defKind)
	p.expect(lexer.RBrace)
	p.popScope()
	p.popState()

	p.registerDef(defKind, name, nameLoc, id, p.syms.RegisterCustom)
	return id
}

// parseDefHeader parses the `@Kind QualifiedName` header shared by
// [Template] definitions and builds the node (KindTemplate shape).
func (p *Parser) parseDefHeader(kind ast.Kind, start loc.Loc) (ast.DefKind, string, loc.Loc, ast.NodeID) {
	typeTok, ok := p.expect(lexer.TypeKeyword)
	defKind, validKind := ast.DefStyle, false
	if ok {
		defKind, validKind = typeKeywordDefKind(typeTok.Value)
	}
	if !validKind {
		p.errHere(loc.ERROR_MALFORMED_DIRECTIVE, loc.KindSyntactic, "expected @Style, @Element, or @Var")
	}
	name, nameLoc := p.parseQualifiedName()
	id := p.arena.New(kind, start)
	p.arena.Get(id).Template = &ast.TemplateData{DefKind: defKind, Name: name, Namespace: p.currentNamespace()}
	return defKind, name, nameLoc, id
}

// parseDefHeaderCustom mirrors parseDefHeader for [Custom], whose node
// carries CustomData instead of TemplateData.
func (p *Parser) parseDefHeaderCustom(start loc.Loc) (ast.DefKind, string, loc.Loc, ast.NodeID) {
	typeTok, ok := p.expect(lexer.TypeKeyword)
	defKind, validKind := ast.DefStyle, false
	if ok {
		defKind, validKind = typeKeywordDefKind(typeTok.Value)
	}
	if !validKind {
		p.errHere(loc.ERROR_MALFORMED_DIRECTIVE, loc.KindSyntactic, "expected @Style, @Element, or @Var")
	}
	name, nameLoc := p.parseQualifiedName()
	id := p.arena.New(ast.KindCustom, start)
	p.arena.Get(id).Custom = &ast.CustomData{DefKind: defKind, Name: name, Namespace: p.currentNamespace()}
	return defKind, name, nameLoc, id
}

func (p *Parser) currentNamespace() string {
	return strings.Join(p.namespaceChain, ".")
}

// registerDef registers a Template/Custom definition, routing @Var
// definitions to the var-group registry instead).
func (p *Parser) registerDef(defKind ast.DefKind, name string, nameLoc loc.Loc, id ast.NodeID, register func(ast.DefKind, string, string, ast.NodeID) bool) {
	namespace := p.currentNamespace()
	var ok bool
	if defKind == ast.DefVar {
		ok = p.syms.RegisterVarGroup(namespace, name, id)
	} else {
		ok = register(defKind, namespace, name, id)
	}
	if !ok {
		p.h.AppendError(symbols.DiagnosticForDuplicate(nameLoc, "definition", name))
	}
}

// parseTemplateOrCustomBody parses the shared body grammar of a
// Template/Custom definition: Element bodies reuse ElementBody item
// parsing; Style/Var bodies collect `key: value;` pairs into a single
// trailing StyleBlock child holding InlineProps.
func (p *Parser) parseTemplateOrCustomBody(containerID ast.NodeID, defKind ast.DefKind) {
	var props *ast.OrderedMap
	for p.peek().Kind != lexer.RBrace && p.peek().Kind != lexer.EOF {
		tok := p.peek()
		switch {
		case isCommentKind(tok.Kind):
			p.arena.AddChild(containerID, p.parseComment())
		case tok.IsSoftKeyword("inherit"):
			p.arena.AddChild(containerID, p.parseInherit())
		case tok.IsSoftKeyword("delete"):
			p.arena.AddChild(containerID, p.parseDelete())
		case tok.IsSoftKeyword("insert") && defKind == ast.DefElement:
			p.arena.AddChild(containerID, p.parseInsert())
		case tok.IsSoftKeyword("except"):
			p.arena.AddChild(containerID, p.parseExcept())
		case tok.Kind == lexer.TypeKeyword && tok.Value == "Var" && defKind != ast.DefVar:
			p.arena.AddChild(containerID, p.parseVarCall())
		case tok.Kind == lexer.TypeKeyword && (tok.Value == "Style" || tok.Value == "Element"):
			p.arena.AddChild(containerID, p.parseCustomUse())
		case defKind == ast.DefElement:
			child := p.parseElementBodyItem()
			if child != ast.InvalidNode {
				p.arena.AddChild(containerID, child)
			}
		default:
			if props == nil {
				props = ast.NewOrderedMap()
			}
			p.parsePropInto(props)
		}
	}
	if props != nil && props.Len() > 0 {
		sbID := p.arena.New(ast.KindStyleBlock, p.arena.Get(containerID).Loc)
		p.arena.Get(sbID).Style = &ast.StyleBlockData{Scope: ast.StyleLocal, InlineProps: props}
		p.arena.AddChild(containerID, sbID)
	}
}

// parseInherit parses an explicit `inherit @Kind QualifiedName (from NS)?;`
// statement. The bare, keyword-less form of the same
// reference is handled by parseCustomUse when it appears directly inside a
// Template/Custom body (see parseTemplateOrCustomBody) — the resolver
// treats both shapes as inheritance edges.
func (p *Parser) parseInherit() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume 'inherit'
	typeTok, ok := p.expect(lexer.TypeKeyword)
	kindQualifier := ast.DefStyle
	if ok {
		kindQualifier, _ = typeKeywordDefKind(typeTok.Value)
	}
	name, _ := p.parseQualifiedName()
	from := p.parseFromClause()
	if p.peek().Kind == lexer.Semicolon {
		p.next()
	}
	id := p.arena.New(ast.KindInherit, start)
	p.arena.Get(id).Inherit = &ast.InheritData{
		BaseName: name, BaseNamespace: from, KindQualifier: kindQualifier, Explicit: true,
	}
	return id
}

// parseDelete parses `delete Target (, Target)* ;`: Target is
// either a bare property/child name, or a `@Kind QualifiedName` inheritance
// target.
func (p *Parser) parseDelete() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume 'delete'
	scope := ast.DeleteProperty
	var targets []string
loop:
	for {
		tok := p.peek()
		switch tok.Kind {
		case lexer.Identifier, lexer.Unquoted:
			p.next()
			targets = append(targets, tok.Value)
		case lexer.TypeKeyword:
			p.next()
			name, _ := p.parseQualifiedName()
			targets = append(targets, tok.Value+":"+name)
			scope = ast.DeleteInheritance
		default:
			break loop
		}
		if p.peek().Kind == lexer.Comma {
			p.next()
			continue
		}
		break
	}
	if p.peek().Kind == lexer.Semicolon {
		p.next()
	}
	id := p.arena.New(ast.KindDelete, start)
	p.arena.Get(id).Delete = &ast.DeleteData{Scope: scope, Targets: targets}
	return id
}

// parseInsert parses `insert (before|after|replace Target | at top | at
// bottom) { ElementBody }`.
func (p *Parser) parseInsert() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume 'insert'
	pos := ast.InsertBefore
	switch {
	case p.peek().IsSoftKeyword("before"):
		p.next()
	case p.peek().IsSoftKeyword("after"):
		p.next()
		pos = ast.InsertAfter
	case p.peek().IsSoftKeyword("replace"):
		p.next()
		pos = ast.InsertReplace
	case p.peek().Kind == lexer.SoftKeyword && p.peek().Value == "at top":
		p.next()
		pos = ast.InsertAtTop
	case p.peek().Kind == lexer.SoftKeyword && p.peek().Value == "at bottom":
		p.next()
		pos = ast.InsertAtBottom
	}
	data := &ast.InsertData{Position: pos}
	if pos == ast.InsertBefore || pos == ast.InsertAfter || pos == ast.InsertReplace {
		target, _ := p.parseLiteral()
		data.Target = target
	}

	id := p.arena.New(ast.KindInsert, start)
	p.arena.Get(id).Insert = data
	if p.peek().Kind == lexer.LBrace {
		p.next()
		for p.peek().Kind != lexer.RBrace && p.peek().Kind != lexer.EOF {
			child := p.parseElementBodyItem()
			if child != ast.InvalidNode {
				p.arena.AddChild(id, child)
			}
		}
		p.expect(lexer.RBrace)
	} else if p.peek().Kind == lexer.Semicolon {
		p.next()
	}
	return id
}

// parseExcept parses `except (exempt)? Target (, Target)* ;`. The optional `exempt` marker narrows rather than widens an
// ancestor's constraint for this scope, a feature supplemented from
// original_source/ConstraintManager.h.
func (p *Parser) parseExcept() ast.NodeID {
	start := p.peek().Loc
	p.next() // consume 'except'
	exempt := false
	if p.peek().IsSoftKeyword("exempt") {
		p.next()
		exempt = true
	}
	scope := ast.ExceptGlobal
	var targets []string
loop:
	for {
		tok := p.peek()
		switch tok.Kind {
		case lexer.Identifier, lexer.Unquoted:
			p.next()
			targets = append(targets, tok.Value)
			scope = ast.ExceptPrecise
		case lexer.TypeKeyword:
			p.next()
			name, _ := p.parseQualifiedName()
			targets = append(targets, tok.Value+":"+name)
			scope = ast.ExceptType
		default:
			break loop
		}
		if p.peek().Kind == lexer.Comma {
			p.next()
			continue
		}
		break
	}
	if p.peek().Kind == lexer.Semicolon {
		p.next()
	}
	id := p.arena.New(ast.KindExcept, start)
	p.arena.Get(id).Except = &ast.ExceptData{Scope: scope, Targets: targets, Exempt: exempt}
	return id
}
