package generator

import (
	"github.com/chtl-lang/chtl/internal/ast"
	"golang.org/x/net/html/atom"
)

// renderElement emits one <tag attrs>children</tag>, self-closing for the
// HTML void set. Its local style block's inline properties are first
// composed into Attributes["style"] by composeInlineStyle; the block's
// rules are lifted into the head stream when renderElementChild reaches it.
func (g *Generator) renderElement(id ast.NodeID) {
	node := g.arena.Get(id)
	data := node.Element
	g.composeInlineStyle(node, data)

	g.writeIndent(&g.body)
	g.body.WriteString("<")
	g.body.WriteString(data.Tag)
	g.writeAttributes(data.Attributes)

	if isVoidElement(data.Tag) {
		g.body.WriteString(">")
		g.body.WriteString(g.newline())
		return
	}
	g.body.WriteString(">")

	children := node.Children
	if len(children) == 0 {
		g.body.WriteString("</")
		g.body.WriteString(data.Tag)
		g.body.WriteString(">")
		g.body.WriteString(g.newline())
		return
	}

	// A lone text child renders inline on the same line; anything else
	// gets its own indented block.
	if len(children) == 1 && g.arena.Get(children[0]).Kind == ast.KindText {
		g.body.WriteString(escapeHTMLText(g.arena.Get(children[0]).Text.Content))
		g.body.WriteString("</")
		g.body.WriteString(data.Tag)
		g.body.WriteString(">")
		g.body.WriteString(g.newline())
		return
	}

	g.body.WriteString(g.newline())
	g.depth++
	for _, childID := range children {
		g.renderElementChild(childID)
	}
	g.depth--
	g.writeIndent(&g.body)
	g.body.WriteString("</")
	g.body.WriteString(data.Tag)
	g.body.WriteString(">")
	g.body.WriteString(g.newline())
}

func (g *Generator) renderElementChild(id ast.NodeID) {
	node := g.arena.Get(id)
	switch node.Kind {
	case ast.KindElement:
		g.renderElement(id)
	case ast.KindText:
		g.writeIndent(&g.body)
		g.body.WriteString(escapeHTMLText(node.Text.Content))
		g.body.WriteString(g.newline())
	case ast.KindStyleBlock:
		// Local style blocks contribute only attributes/CSS; nothing of
		// their own renders as a body child.
		g.liftLocalStyleRules(node.Style)
	case ast.KindScriptBlock:
		g.renderScriptBlock(node.Script)
	case ast.KindOrigin:
		g.renderInlineOrigin(node.Origin)
	case ast.KindComment:
		g.renderComment(node.Comment, contextHTML)
	case ast.KindExcept:
		// resolve-time only
	case ast.KindCustom, ast.KindVarCall, ast.KindDelete, ast.KindInsert, ast.KindInherit:
		// Fully expanded/consumed by the resolver; any node of these kinds
		// still present at generation time produced no visible content
		// (e.g. a Var call with no string substitution site of its own).
	}
}

// composeInlineStyle builds the element's `style` attribute from its local
// style block's resolved inline properties (template inheritance and child
// overrides were already merged by the resolver; the generator only joins
// the final property set into one CSS-declaration string). A direct child
// StyleBlock with no inline properties contributes nothing here — its
// rules were lifted to the head stream separately.
func (g *Generator) composeInlineStyle(node *ast.Node, data *ast.ElementData) {
	for _, childID := range node.Children {
		child := g.arena.Get(childID)
		if child.Kind != ast.KindStyleBlock || child.Style.Scope != ast.StyleLocal {
			continue
		}
		props := child.Style.InlineProps
		if props == nil || props.Len() == 0 {
			continue
		}
		var decl string
		for _, k := range props.Keys() {
			v, _ := props.Get(k)
			if decl != "" {
				decl += " "
			}
			decl += k + ": " + v + ";"
		}
		if data.Attributes == nil {
			data.Attributes = ast.NewOrderedMap()
		}
		data.Attributes.Set("style", decl)
	}
}

func (g *Generator) writeAttributes(attrs *ast.OrderedMap) {
	if attrs == nil {
		return
	}
	for _, k := range attrs.Keys() {
		v, _ := attrs.Get(k)
		g.body.WriteString(" ")
		g.body.WriteString(k)
		g.body.WriteString(`="`)
		g.body.WriteString(escapeHTMLAttr(v))
		g.body.WriteString(`"`)
	}
}

// voidAtoms is the HTML5 void-element set (spec.md §4.6), matched against
// the well-known tag-name atom table rather than a hand-rolled string set.
var voidAtoms = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
}

func isVoidElement(tag string) bool {
	return voidAtoms[atom.Lookup([]byte(tag))]
}
