package parser

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/js_scanner"
	"github.com/chtl-lang/chtl/internal/lexer"
)

// parseLocalScript and parseGlobalScript both rely on the unified scanner
// having already solid-consumed the script body as its own verbatim CHTL
// fragment: local and global script bodies are carved out
// identically, so only the recorded Scope differs.

func (p *Parser) parseLocalScript() ast.NodeID {
	return p.parseScript(ast.ScriptLocal)
}

func (p *Parser) parseGlobalScript() ast.NodeID {
	return p.parseScript(ast.ScriptGlobal)
}

func (p *Parser) parseScript(scope ast.ScriptScope) ast.NodeID {
	start := p.peek().Loc
	p.next() // consume 'script'
	p.expect(lexer.LBrace)
	body := p.consumeVerbatimBody()
	raw := strings.TrimSpace(body.Text)

	id := p.arena.New(ast.KindScriptBlock, start)
	p.arena.Get(id).Script = &ast.ScriptBlockData{
		Scope:          scope,
		Raw:            raw,
		ContainsCHTLJS: js_scanner.ContainsSugar([]byte(raw)),
	}
	return id
}
