package generator

import "github.com/chtl-lang/chtl/internal/ast"

// renderGlobalStyleBlock appends a top-level `style { … }` block's rules to
// the head stream, in source order.
func (g *Generator) renderGlobalStyleBlock(style *ast.StyleBlockData) {
	for _, rule := range style.Rules {
		g.writeRule(rule)
	}
}

// liftLocalStyleRules appends a local style block's non-inline rules (its
// inline properties already composed into the owning element's `style`
// attribute by composeInlineStyle) to the head stream, selector and
// declaration already rewritten/substituted by the resolver.
func (g *Generator) liftLocalStyleRules(style *ast.StyleBlockData) {
	for _, rule := range style.Rules {
		g.writeRule(rule)
	}
}

func (g *Generator) writeRule(rule ast.StyleRule) {
	g.css.WriteString(rule.Selector)
	g.css.WriteString(" { ")
	g.css.WriteString(rule.Declaration)
	g.css.WriteString(" }")
	g.css.WriteString(g.newline())
}

// renderTopLevelOrigin dispatches a top-level `[Origin]` block: @Style
// content lifts to the head stream, @JavaScript content lifts to the
// script stream, everything else (raw @Html or a custom origin type) is
// emitted verbatim in place in the body stream.
func (g *Generator) renderTopLevelOrigin(data *ast.OriginData) {
	switch data.Kind {
	case ast.OriginStyle:
		g.css.WriteString(data.Raw)
		g.css.WriteString(g.newline())
	case ast.OriginJavaScript:
		g.js.WriteString(data.Raw)
		g.js.WriteString(g.newline())
	default:
		g.writeIndent(&g.body)
		g.body.WriteString(data.Raw)
		g.body.WriteString(g.newline())
	}
}

// renderInlineOrigin is the same dispatch for an `[Origin]` reference found
// nested inside an element body.
func (g *Generator) renderInlineOrigin(data *ast.OriginData) {
	g.renderTopLevelOrigin(data)
}
