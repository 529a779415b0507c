package resolver_test

import (
	"testing"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/fragment"
	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/parser"
	"github.com/chtl-lang/chtl/internal/resolver"
	"github.com/chtl-lang/chtl/internal/symbols"
)

type built struct {
	arena *ast.Arena
	root  ast.NodeID
	h     *handler.Handler
	syms  *symbols.Table
}

func build(t *testing.T, src string) built {
	t.Helper()
	h := handler.New(src, "t.chtl", false)
	frags := fragment.Scan(src, h)
	if h.IsFatal() {
		t.Fatalf("unexpected fatal during scan: %v", h.FatalError())
	}
	arena := ast.NewArena()
	syms := symbols.NewTable()
	p := parser.New("t.chtl", frags, h, arena, syms, false)
	root := p.Parse()
	r := resolver.New(arena, syms, h, resolver.Options{Filename: "t.chtl"})
	r.Resolve(root)
	return built{arena: arena, root: root, h: h, syms: syms}
}

func requireNoErrors(t *testing.T, b built) {
	t.Helper()
	if b.h.HasErrors() {
		t.Fatalf("unexpected errors: %v", b.h.Errors())
	}
}

func findElement(a *ast.Arena, root ast.NodeID, tag string) ast.NodeID {
	node := a.Get(root)
	for _, c := range node.Children {
		cn := a.Get(c)
		if cn.Kind == ast.KindElement && cn.Element.Tag == tag {
			return c
		}
		if found := findElement(a, c, tag); found != ast.InvalidNode {
			return found
		}
	}
	return ast.InvalidNode
}

func childrenOfKind(a *ast.Arena, parent ast.NodeID, kind ast.Kind) []ast.NodeID {
	var out []ast.NodeID
	for _, c := range a.Get(parent).Children {
		if a.Get(c).Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func TestElementTemplateUseExpandsChildren(t *testing.T) {
	b := build(t, `
		[Template] @Element Card {
			div { text { "body" } }
		}
		body {
			@Element Card;
		}
	`)
	requireNoErrors(t, b)

	bodyID := findElement(b.arena, b.root, "body")
	if bodyID == ast.InvalidNode {
		t.Fatalf("expected body element")
	}
	div := findElement(b.arena, bodyID, "div")
	if div == ast.InvalidNode {
		t.Fatalf("expected Card's div to be spliced into body")
	}
	if got := childrenOfKind(b.arena, bodyID, ast.KindCustom); len(got) != 0 {
		t.Fatalf("expected the use node to be replaced by its expansion, found %d leftover Custom nodes", len(got))
	}
}

func TestCustomElementSpecializationDeleteAndInsert(t *testing.T) {
	b := build(t, `
		[Template] @Element Card {
			div { text { "body" } }
			span { text { "footer" } }
		}
		body {
			@Element Card {
				delete span;
				insert after div {
					p { text { "new" } }
				}
			}
		}
	`)
	requireNoErrors(t, b)

	bodyID := findElement(b.arena, b.root, "body")
	if findElement(b.arena, bodyID, "span") != ast.InvalidNode {
		t.Fatalf("expected span to be deleted by the specialization")
	}
	if findElement(b.arena, bodyID, "p") == ast.InvalidNode {
		t.Fatalf("expected the inserted p element to appear")
	}
}

func TestStyleTemplateInheritanceMergesProps(t *testing.T) {
	b := build(t, `
		[Template] @Style Base {
			color: "red";
			font-size: "12px";
		}
		[Template] @Style Theme {
			inherit @Style Base;
			color: "blue";
		}
		div {
			style {
				@Style Theme;
			}
		}
	`)
	requireNoErrors(t, b)

	div := findElement(b.arena, b.root, "div")
	styleBlocks := childrenOfKind(b.arena, div, ast.KindStyleBlock)
	if len(styleBlocks) != 1 {
		t.Fatalf("expected exactly one style block, got %d", len(styleBlocks))
	}
	style := b.arena.Get(styleBlocks[0]).Style
	color, ok := style.InlineProps.Get("color")
	if !ok || color != "blue" {
		t.Fatalf("expected inherited+overridden color 'blue', got %q (found=%v)", color, ok)
	}
	size, ok := style.InlineProps.Get("font-size")
	if !ok || size != "12px" {
		t.Fatalf("expected inherited font-size '12px', got %q (found=%v)", size, ok)
	}
}

func TestDeleteInheritanceRemovesParentProps(t *testing.T) {
	b := build(t, `
		[Custom] @Style Base {
			color: "red";
			font-size: "12px";
		}
		[Custom] @Style Theme {
			@Style Base;
			delete @Style Base;
			color: "green";
		}
		div {
			style {
				@Style Theme;
			}
		}
	`)
	requireNoErrors(t, b)

	div := findElement(b.arena, b.root, "div")
	styleBlocks := childrenOfKind(b.arena, div, ast.KindStyleBlock)
	style := b.arena.Get(styleBlocks[0]).Style
	if _, ok := style.InlineProps.Get("font-size"); ok {
		t.Fatalf("expected font-size to be removed by delete @Style Base")
	}
	if color, ok := style.InlineProps.Get("color"); !ok || color != "green" {
		t.Fatalf("expected color 'green' set after the deleted base, got %q", color)
	}
}

func TestVarCallSubstitutesGroupValue(t *testing.T) {
	b := build(t, `
		[Template] @Var Theme {
			primary = "#336699";
		}
		div {
			style {
				background: Theme(primary);
			}
		}
	`)
	requireNoErrors(t, b)

	div := findElement(b.arena, b.root, "div")
	styleBlocks := childrenOfKind(b.arena, div, ast.KindStyleBlock)
	style := b.arena.Get(styleBlocks[0]).Style
	val, ok := style.InlineProps.Get("background")
	if !ok || val != "#336699" {
		t.Fatalf("expected embedded var call in an inline property to resolve to '#336699', got %q (found=%v)", val, ok)
	}
}

func TestVarCallSubstitutedInsideNestedRuleDeclaration(t *testing.T) {
	b := build(t, `
		[Template] @Var Theme {
			primary = "#336699";
		}
		div {
			style {
				.box {
					background: Theme(primary);
				}
			}
		}
	`)
	requireNoErrors(t, b)

	div := findElement(b.arena, b.root, "div")
	styleBlocks := childrenOfKind(b.arena, div, ast.KindStyleBlock)
	style := b.arena.Get(styleBlocks[0]).Style
	if len(style.Rules) != 1 {
		t.Fatalf("expected exactly one nested rule, got %d", len(style.Rules))
	}
	if got := style.Rules[0].Declaration; !contains(got, "#336699") {
		t.Fatalf("expected the declaration's embedded var call to resolve to '#336699', got %q", got)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func TestVarCallOverrideWinsOverGroupValue(t *testing.T) {
	b := build(t, `
		[Template] @Var Theme {
			primary = "#336699";
		}
		div {
			style {
				@Var Theme(primary = "#ffffff");
			}
		}
	`)
	requireNoErrors(t, b)

	div := findElement(b.arena, b.root, "div")
	styleBlocks := childrenOfKind(b.arena, div, ast.KindStyleBlock)
	style := b.arena.Get(styleBlocks[0]).Style
	val, ok := style.InlineProps.Get("primary")
	if !ok || val != "#ffffff" {
		t.Fatalf("expected bare var call to set property from its override, got %q (found=%v)", val, ok)
	}
}

func TestAutoClassAttachedFromNestedSelector(t *testing.T) {
	b := build(t, `
		div {
			style {
				.box {
					color: "red";
				}
			}
		}
	`)
	requireNoErrors(t, b)

	div := findElement(b.arena, b.root, "div")
	node := b.arena.Get(div)
	class, ok := node.Element.Attributes.Get("class")
	if !ok || class != "box" {
		t.Fatalf("expected auto-class 'box' attached to div, got %q (found=%v)", class, ok)
	}
}

func TestAmpersandRewrittenToAutoClass(t *testing.T) {
	b := build(t, `
		div {
			style {
				.box;
				&:hover {
					color: "red";
				}
			}
		}
	`)
	requireNoErrors(t, b)

	div := findElement(b.arena, b.root, "div")
	styleBlocks := childrenOfKind(b.arena, div, ast.KindStyleBlock)
	style := b.arena.Get(styleBlocks[0]).Style
	foundRewritten := false
	for _, rule := range style.Rules {
		if rule.Selector == ".box:hover" {
			foundRewritten = true
		}
		if len(rule.Selector) > 0 && rule.Selector[0] == '&' {
			t.Fatalf("expected leading & to be rewritten, still saw %q", rule.Selector)
		}
	}
	if !foundRewritten {
		t.Fatalf("expected a rule with selector '.box:hover'")
	}
}

func TestExceptForbidsListedUse(t *testing.T) {
	b := build(t, `
		[Template] @Element Card {
			div { text { "body" } }
		}
		body {
			except @Element Card;
			@Element Card;
		}
	`)
	if !b.h.HasErrors() {
		t.Fatalf("expected an except-constraint violation to be reported")
	}
}

func TestExceptExemptNarrowsAncestorConstraint(t *testing.T) {
	b := build(t, `
		[Template] @Element Card {
			div { text { "body" } }
		}
		body {
			except @Element Card;
			section {
				except exempt @Element Card;
				@Element Card;
			}
		}
	`)
	requireNoErrors(t, b)
}

func TestOriginReferenceResolvesToDefinition(t *testing.T) {
	b := build(t, `
		[Origin] @Html banner {
			<marquee>hi</marquee>
		}
		body {
			[Origin] @Html banner;
		}
	`)
	requireNoErrors(t, b)

	bodyID := findElement(b.arena, b.root, "body")
	origins := childrenOfKind(b.arena, bodyID, ast.KindOrigin)
	if len(origins) != 1 {
		t.Fatalf("expected one origin reference under body, got %d", len(origins))
	}
	raw := b.arena.Get(origins[0]).Origin.Raw
	if raw == "" {
		t.Fatalf("expected the origin reference to inherit its definition's raw content")
	}
}

func TestInheritanceCycleReported(t *testing.T) {
	b := build(t, `
		[Template] @Style A {
			inherit @Style B;
		}
		[Template] @Style B {
			inherit @Style A;
		}
		div {
			style {
				@Style A;
			}
		}
	`)
	if !b.h.HasErrors() {
		t.Fatalf("expected a cycle error to be reported")
	}
}
