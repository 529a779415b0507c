package parser

import (
	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/lexer"
	"github.com/chtl-lang/chtl/internal/loc"
)

// parseTopLevel dispatches one TopLevel production:
// Comment | Template | Custom | Import | Namespace | Configuration | Origin
// | GlobalStyle | GlobalScript | Element | TextBlock.
func (p *Parser) parseTopLevel() ast.NodeID {
	tok := p.peek()
	switch tok.Kind {
	case lexer.CommentLine, lexer.CommentBlock, lexer.CommentGenerator:
		return p.parseComment()
	case lexer.BracketKeyword:
		switch tok.Value {
		case "Template":
			return p.parseTemplate()
		case "Custom":
			return p.parseCustom()
		case "Import":
			return p.parseImport()
		case "Namespace":
			return p.parseNamespace()
		case "Configuration":
			return p.parseConfiguration()
		case "Origin":
			return p.parseOrigin()
		default:
			p.errHere(loc.ERROR_UNEXPECTED_TOKEN, loc.KindSyntactic, "unexpected bracket-keyword at top level: "+tok.Value)
			p.recoverToAnchor()
			return ast.InvalidNode
		}
	case lexer.SoftKeyword:
		if tok.Value == "text" {
			return p.parseTextBlock()
		}
		if tok.Value == "style" && p.peekN(1).Kind == lexer.LBrace {
			return p.parseGlobalStyle()
		}
		if tok.Value == "script" && p.peekN(1).Kind == lexer.LBrace {
			return p.parseGlobalScript()
		}
		p.errHere(loc.ERROR_UNEXPECTED_TOKEN, loc.KindSyntactic, "unexpected keyword at top level: "+tok.Value)
		p.recoverToAnchor()
		return ast.InvalidNode
	case lexer.Identifier:
		return p.parseElement()
	case lexer.EOF:
		return ast.InvalidNode
	default:
		p.errHere(loc.ERROR_UNEXPECTED_TOKEN, loc.KindSyntactic, "unexpected token at top level: "+tok.String())
		p.recoverToAnchor()
		return ast.InvalidNode
	}
}

// parseComment consumes one comment token and records it as a Comment
// node. Non-generator comments still appear in the AST (the generator
// drops them ; only generator comments survive to output).
func (p *Parser) parseComment() ast.NodeID {
	tok := p.next()
	var kind ast.CommentKind
	switch tok.Kind {
	case lexer.CommentLine:
		kind = ast.CommentLine
	case lexer.CommentBlock:
		kind = ast.CommentBlock
	case lexer.CommentGenerator:
		kind = ast.CommentGenerator
	}
	id := p.arena.New(ast.KindComment, tok.Loc)
	p.arena.Get(id).Comment = &ast.CommentData{Kind: kind, Content: tok.Value}
	return id
}
