package generator

import "github.com/chtl-lang/chtl/internal/ast"

// renderScriptBlock appends one local or global `script { … }` body to the
// trailing script stream verbatim, in source order. CHTL-JS sugar inside
// the body (`{{ … }}` selectors, `listen`/`delegate`/`animate`/`vir`) is a
// downstream collaborator's concern — the core only ever passes the raw
// text through.
func (g *Generator) renderScriptBlock(data *ast.ScriptBlockData) {
	if data.Raw == "" {
		return
	}
	g.js.WriteString(data.Raw)
	g.js.WriteString(g.newline())
}
