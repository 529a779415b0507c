package generator_test

import (
	"strings"
	"testing"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/fragment"
	"github.com/chtl-lang/chtl/internal/generator"
	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/parser"
	"github.com/chtl-lang/chtl/internal/resolver"
	"github.com/chtl-lang/chtl/internal/symbols"
)

func render(t *testing.T, src string, opts generator.Options) generator.Result {
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
	resolver.New(arena, syms, h, resolver.Options{Filename: "t.chtl"}).Resolve(root)
	if h.HasErrors() {
		t.Fatalf("unexpected errors: %v", h.Errors())
	}
	return generator.New(arena, h, opts).Generate(root)
}

func TestDocumentShellWrapsBody(t *testing.T) {
	r := render(t, `body { div { text { "hi" } } }`, generator.Options{PrettyPrint: true})
	if !strings.Contains(r.Output, "<!DOCTYPE html>") {
		t.Fatalf("expected a document shell, got %q", r.Output)
	}
	if !strings.Contains(r.Output, "<div>hi</div>") {
		t.Fatalf("expected rendered div content, got %q", r.Output)
	}
}

func TestFragmentOnlyOmitsShell(t *testing.T) {
	r := render(t, `div { text { "hi" } }`, generator.Options{FragmentOnly: true})
	if strings.Contains(r.Output, "<!DOCTYPE html>") {
		t.Fatalf("fragment-only output should have no document shell, got %q", r.Output)
	}
	if !strings.Contains(r.Output, "<div>hi</div>") {
		t.Fatalf("expected rendered div content, got %q", r.Output)
	}
}

func TestVoidElementSelfCloses(t *testing.T) {
	r := render(t, `div { img { src: "a.png"; } }`, generator.Options{FragmentOnly: true})
	if strings.Contains(r.Output, "</img>") {
		t.Fatalf("void element must not have a closing tag, got %q", r.Output)
	}
	if !strings.Contains(r.Output, `<img src="a.png">`) {
		t.Fatalf("expected a self-closed img tag, got %q", r.Output)
	}
}

func TestAttributeValuesAreEscaped(t *testing.T) {
	r := render(t, `div { title: "a \"quoted\" & <value>"; }`, generator.Options{FragmentOnly: true})
	if strings.Contains(r.Output, `"a "quoted"`) {
		t.Fatalf("expected the attribute value to be escaped, got %q", r.Output)
	}
	if !strings.Contains(r.Output, "&amp;") || !strings.Contains(r.Output, "&lt;") {
		t.Fatalf("expected entity-escaped ampersand/less-than, got %q", r.Output)
	}
}

func TestTextNodeIsEscaped(t *testing.T) {
	r := render(t, `div { text { "<script>" } }`, generator.Options{FragmentOnly: true})
	if strings.Contains(r.Output, "<script>") {
		t.Fatalf("expected text content to be escaped, got %q", r.Output)
	}
	if !strings.Contains(r.Output, "&lt;script&gt;") {
		t.Fatalf("expected escaped text content, got %q", r.Output)
	}
}

func TestInlineStyleComposedFromLocalBlock(t *testing.T) {
	r := render(t, `
		div {
			style {
				color: "red";
			}
		}
	`, generator.Options{FragmentOnly: true})
	if !strings.Contains(r.Output, `style="color: red;"`) {
		t.Fatalf("expected composed inline style attribute, got %q", r.Output)
	}
}

func TestNonInlineRuleLiftedToHead(t *testing.T) {
	r := render(t, `
		div {
			style {
				.box {
					color: "red";
				}
			}
		}
	`, generator.Options{})
	if !strings.Contains(r.Head, ".box { color:red; }") {
		t.Fatalf("expected the nested rule lifted to the head stream, got %q", r.Head)
	}
	if strings.Contains(r.Output, ".box {") {
		t.Fatalf("expected the rule to not also appear inline, got %q", r.Output)
	}
}

func TestGlobalScriptFlowsToScriptStream(t *testing.T) {
	r := render(t, `
		script {
			console.log("hi");
		}
	`, generator.Options{})
	if !strings.Contains(r.Script, `console.log("hi");`) {
		t.Fatalf("expected the global script body in the script stream, got %q", r.Script)
	}
}

func TestOriginHtmlRendersInPlace(t *testing.T) {
	r := render(t, `
		body {
			[Origin] @Html {
				<marquee>hi</marquee>
			}
		}
	`, generator.Options{FragmentOnly: true})
	if !strings.Contains(r.Output, "<marquee>hi</marquee>") {
		t.Fatalf("expected the raw origin content inline, got %q", r.Output)
	}
}

func TestOriginStyleFlowsToHead(t *testing.T) {
	r := render(t, `
		[Origin] @Style {
			.a { color: red; }
		}
	`, generator.Options{})
	if !strings.Contains(r.Head, ".a { color: red; }") {
		t.Fatalf("expected the origin style content in the head stream, got %q", r.Head)
	}
}

func TestGeneratorCommentRendersPerContext(t *testing.T) {
	r := render(t, `
		div {
			-- a note
		}
	`, generator.Options{FragmentOnly: true})
	if !strings.Contains(r.Output, "<!-- a note -->") {
		t.Fatalf("expected a generator comment translated to an HTML comment, got %q", r.Output)
	}
}

func TestElementTemplateExpandsAtCallSite(t *testing.T) {
	r := render(t, `
		[Template] @Element Card {
			span { text { "body" } }
		}
		body {
			@Element Card;
		}
	`, generator.Options{FragmentOnly: true})
	if !strings.Contains(r.Output, "<span>body</span>") {
		t.Fatalf("expected the template's expansion rendered at the call site, got %q", r.Output)
	}
}
