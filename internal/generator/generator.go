// Package generator walks a resolved AST and renders it to a single HTML
// document string with its CSS and JavaScript inlined: local style
// properties compose into the owning element's `style` attribute, local
// rules and global style content lift into a head stylesheet, and every
// script body (local, global, or `[Origin] @JavaScript`) flows into a
// trailing script tag, all in source order.
package generator

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/handler"
)

// Options configures one generation pass. Field names and defaults mirror
// the compile-level options the core exposes to its host.
type Options struct {
	PrettyPrint  bool
	Minify       bool
	FragmentOnly bool
	Debug        bool
}

// Result is what Generate returns: the single assembled document plus the
// three streams that composed it, exposed separately for callers (tests,
// --ast/--debug tooling) that want to inspect them without re-splitting the
// final string.
type Result struct {
	Output string
	Head   string // collected head <style> content
	Script string // collected trailing <script> content
}

// Generator renders one resolved document. It is not safe for concurrent
// use; one Generator belongs to one compile.
type Generator struct {
	arena *ast.Arena
	h     *handler.Handler
	opts  Options

	body strings.Builder
	css  strings.Builder
	js   strings.Builder

	depth int
}

func New(arena *ast.Arena, h *handler.Handler, opts Options) *Generator {
	if opts.PrettyPrint && opts.Minify {
		opts.PrettyPrint = false
	}
	return &Generator{arena: arena, h: h, opts: opts}
}

// Generate renders root (a Document node already walked by the resolver)
// into a complete document string.
func (g *Generator) Generate(root ast.NodeID) Result {
	g.renderTopLevel(root)

	var out strings.Builder
	if g.opts.FragmentOnly {
		out.WriteString(g.body.String())
	} else {
		g.writeDocumentShell(&out)
	}

	return Result{
		Output: out.String(),
		Head:   g.css.String(),
		Script: g.js.String(),
	}
}

func (g *Generator) writeDocumentShell(out *strings.Builder) {
	nl := g.newline()
	out.WriteString("<!DOCTYPE html>")
	out.WriteString(nl)
	out.WriteString("<html>")
	out.WriteString(nl)
	out.WriteString("<head>")
	out.WriteString(nl)
	if g.css.Len() > 0 {
		out.WriteString("<style>")
		out.WriteString(nl)
		out.WriteString(g.css.String())
		out.WriteString(nl)
		out.WriteString("</style>")
		out.WriteString(nl)
	}
	out.WriteString("</head>")
	out.WriteString(nl)
	out.WriteString("<body>")
	out.WriteString(nl)
	out.WriteString(g.body.String())
	out.WriteString(nl)
	out.WriteString("</body>")
	out.WriteString(nl)
	if g.js.Len() > 0 {
		out.WriteString("<script>")
		out.WriteString(nl)
		out.WriteString(g.js.String())
		out.WriteString(nl)
		out.WriteString("</script>")
		out.WriteString(nl)
	}
	out.WriteString("</html>")
}

func (g *Generator) newline() string {
	if g.opts.Minify {
		return ""
	}
	return "\n"
}

// renderTopLevel walks one Document/Namespace node's children in source
// order, dispatching real content to the body stream and style/script/
// origin content to the head/script streams. Pure definitions (Template,
// Custom, Import, Configuration) are never rendered — they only exist to
// have been looked up during resolution.
func (g *Generator) renderTopLevel(id ast.NodeID) {
	node := g.arena.Get(id)
	for _, childID := range node.Children {
		child := g.arena.Get(childID)
		switch child.Kind {
		case ast.KindTemplate, ast.KindCustom, ast.KindImport, ast.KindConfiguration:
			// definitions only, nothing to render
		case ast.KindNamespace:
			g.renderTopLevel(childID)
		case ast.KindElement:
			g.renderElement(childID)
		case ast.KindText:
			g.writeIndent(&g.body)
			g.body.WriteString(escapeHTMLText(child.Text.Content))
			g.body.WriteString(g.newline())
		case ast.KindStyleBlock:
			g.renderGlobalStyleBlock(child.Style)
		case ast.KindScriptBlock:
			g.renderScriptBlock(child.Script)
		case ast.KindOrigin:
			g.renderTopLevelOrigin(child.Origin)
		case ast.KindComment:
			g.renderComment(child.Comment, contextHTML)
		case ast.KindExcept:
			// constraints are a resolve-time concept only
		}
	}
}

type outputContext int

const (
	contextHTML outputContext = iota
	contextCSS
	contextJS
)

// renderComment emits a generator comment (`--…`) translated to the
// syntax of the stream it lands in; every other comment kind was already
// dropped by the time it reaches generation, but the check is kept here
// too since nothing upstream guarantees it.
func (g *Generator) renderComment(c *ast.CommentData, ctx outputContext) {
	if c.Kind != ast.CommentGenerator {
		return
	}
	switch ctx {
	case contextHTML:
		g.writeIndent(&g.body)
		g.body.WriteString("<!-- " + c.Content + " -->")
		g.body.WriteString(g.newline())
	case contextCSS:
		g.css.WriteString("/* " + c.Content + " */")
		g.css.WriteString(g.newline())
	case contextJS:
		g.js.WriteString("// " + c.Content)
		g.js.WriteString(g.newline())
	}
}

func (g *Generator) writeIndent(b *strings.Builder) {
	if !g.opts.PrettyPrint {
		return
	}
	b.WriteString(strings.Repeat("  ", g.depth))
}
