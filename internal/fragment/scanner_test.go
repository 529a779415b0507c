package fragment_test

import (
	"testing"

	"github.com/chtl-lang/chtl/internal/fragment"
	"github.com/chtl-lang/chtl/internal/handler"
)

func scan(t *testing.T, src string) []fragment.Fragment {
	t.Helper()
	h := handler.New(src, "t.chtl", false)
	frags := fragment.Scan(src, h)
	if h.IsFatal() {
		t.Fatalf("unexpected fatal: %v", h.FatalError())
	}
	return frags
}

func TestPlainDocumentIsOneCHTLFragment(t *testing.T) {
	frags := scan(t, `div { text { "hi" } }`)
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1: %+v", len(frags), frags)
	}
	if frags[0].Kind != fragment.CHTL || frags[0].Verbatim {
		t.Fatalf("got %+v", frags[0])
	}
}

func TestGlobalStyleCarvesOutCSSFragment(t *testing.T) {
	src := `style { .box { color: red; } }`
	frags := scan(t, src)
	var sawCSS bool
	for _, f := range frags {
		if f.Kind == fragment.CSS {
			sawCSS = true
			if !f.Verbatim {
				t.Fatalf("global style body should be verbatim, got %+v", f)
			}
			if f.Text != ` .box { color: red; } ` {
				t.Fatalf("unexpected CSS text %q", f.Text)
			}
		}
	}
	if !sawCSS {
		t.Fatalf("expected a CSS fragment in %+v", frags)
	}
}

func TestLocalStyleStaysCHTL(t *testing.T) {
	src := `div { style { .box { color: red; } } }`
	frags := scan(t, src)
	if len(frags) != 1 {
		t.Fatalf("local style should not split fragments, got %+v", frags)
	}
	if frags[0].Kind != fragment.CHTL || frags[0].Verbatim {
		t.Fatalf("got %+v", frags[0])
	}
}

func TestScriptBodyIsVerbatimCHTL(t *testing.T) {
	src := `div { script { let x = {y: 1}; } }`
	frags := scan(t, src)
	var sawVerbatim bool
	for _, f := range frags {
		if f.Verbatim && f.Kind == fragment.CHTL {
			sawVerbatim = true
		}
	}
	if !sawVerbatim {
		t.Fatalf("expected a verbatim CHTL script fragment in %+v", frags)
	}
}

func TestOriginStyleProducesCSSFragment(t *testing.T) {
	src := `[Origin] @Style raw { body { margin: 0; } }`
	frags := scan(t, src)
	var found bool
	for _, f := range frags {
		if f.Kind == fragment.CSS && f.Verbatim {
			found = true
			if f.Text != ` body { margin: 0; } ` {
				t.Fatalf("unexpected origin CSS text %q", f.Text)
			}
		}
	}
	if !found {
		t.Fatalf("expected verbatim CSS origin fragment in %+v", frags)
	}
}

func TestOriginJavaScriptProducesJSFragment(t *testing.T) {
	src := `[Origin] @JavaScript { console.log({a:1}); }`
	frags := scan(t, src)
	var found bool
	for _, f := range frags {
		if f.Kind == fragment.JS && f.Verbatim {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected verbatim JS origin fragment in %+v", frags)
	}
}

func TestNestedElementAfterGlobalStyleIsLocal(t *testing.T) {
	src := `style { .a { color: red; } } div { style { color: blue; } }`
	frags := scan(t, src)
	var cssCount, verbatimCount int
	for _, f := range frags {
		if f.Kind == fragment.CSS {
			cssCount++
		}
		if f.Verbatim {
			verbatimCount++
		}
	}
	if cssCount != 1 {
		t.Fatalf("want exactly 1 CSS fragment (only the global style), got %d in %+v", cssCount, frags)
	}
}

func TestUnbalancedBraceIsFatal(t *testing.T) {
	h := handler.New(`div { `, "t.chtl", false)
	fragment.Scan(`div { `, h)
	if !h.IsFatal() {
		t.Fatalf("expected fatal diagnostic for unclosed brace")
	}
}

func TestUnmatchedCloseBraceIsFatal(t *testing.T) {
	h := handler.New(`div } `, "t.chtl", false)
	fragment.Scan(`div } `, h)
	if !h.IsFatal() {
		t.Fatalf("expected fatal diagnostic for unmatched close brace")
	}
}

func TestUnterminatedStringIsFatal(t *testing.T) {
	h := handler.New(`div { id: "oops }`, "t.chtl", false)
	fragment.Scan(`div { id: "oops }`, h)
	if !h.IsFatal() {
		t.Fatalf("expected fatal diagnostic for unterminated string")
	}
}

func TestTemplateBlockDoesNotAffectElementDepth(t *testing.T) {
	src := `[Template] @Style Big { font-size: 20px; } style { .b { color: red; } }`
	frags := scan(t, src)
	var cssCount int
	for _, f := range frags {
		if f.Kind == fragment.CSS {
			cssCount++
		}
	}
	if cssCount != 1 {
		t.Fatalf("want 1 CSS fragment for the trailing global style, got %d: %+v", cssCount, frags)
	}
}
