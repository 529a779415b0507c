package lexer_test

import (
	"testing"

	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/lexer"
)

func collect(t *testing.T, src string, inScript bool) []lexer.Token {
	t.Helper()
	h := handler.New(src, "test.chtl", false)
	l := lexer.New(src, "test.chtl", 0, inScript, h)
	var toks []lexer.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == lexer.EOF {
			break
		}
	}
	if h.IsFatal() {
		t.Fatalf("unexpected fatal: %v", h.FatalError())
	}
	return toks
}

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestBasicStructural(t *testing.T) {
	toks := collect(t, `div { id: "box"; }`, false)
	want := []lexer.Kind{
		lexer.Identifier, lexer.LBrace, lexer.Identifier, lexer.Colon,
		lexer.StringDouble, lexer.Semicolon, lexer.RBrace, lexer.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBracketKeyword(t *testing.T) {
	toks := collect(t, `[Template] @Style Big { }`, false)
	if toks[0].Kind != lexer.BracketKeyword || toks[0].Value != "Template" {
		t.Fatalf("want BracketKeyword(Template), got %v", toks[0])
	}
	if toks[1].Kind != lexer.TypeKeyword || toks[1].Value != "Style" {
		t.Fatalf("want TypeKeyword(Style), got %v", toks[1])
	}
}

func TestBracketNonKeywordFallsBackToBrackets(t *testing.T) {
	toks := collect(t, `[foo]`, false)
	got := kinds(toks)
	want := []lexer.Kind{lexer.LBracket, lexer.Identifier, lexer.RBracket, lexer.EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAtNonKeywordIsBareAt(t *testing.T) {
	toks := collect(t, `@mystery`, false)
	if toks[0].Kind != lexer.At {
		t.Fatalf("want At, got %v", toks[0])
	}
	if toks[1].Kind != lexer.Identifier || toks[1].Value != "mystery" {
		t.Fatalf("want Identifier(mystery), got %v", toks[1])
	}
}

func TestCompoundAtTopBottom(t *testing.T) {
	toks := collect(t, `insert at top { }`, false)
	found := false
	for _, tok := range toks {
		if tok.Kind == lexer.SoftKeyword && tok.Value == "at top" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected 'at top' soft keyword, got %v", toks)
	}
}

func TestAtNotFollowedByTopBottomRewinds(t *testing.T) {
	toks := collect(t, `at middle`, false)
	if toks[0].Kind != lexer.Identifier || toks[0].Value != "at" {
		t.Fatalf("want Identifier(at), got %v", toks[0])
	}
	if toks[1].Kind != lexer.Identifier || toks[1].Value != "middle" {
		t.Fatalf("want Identifier(middle), got %v", toks[1])
	}
}

func TestStringEscapes(t *testing.T) {
	toks := collect(t, `"a\"b\nc"`, false)
	if toks[0].Value != "a\"b\nc" {
		t.Fatalf("got %q", toks[0].Value)
	}
}

func TestUnquotedLiteralExtendsThroughSlashAndDot(t *testing.T) {
	toks := collect(t, `img/logo.png`, false)
	if toks[0].Kind != lexer.Unquoted || toks[0].Value != "img/logo.png" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestNumber(t *testing.T) {
	toks := collect(t, `1px 2.5em`, false)
	if toks[0].Kind != lexer.Number || toks[0].Value != "1" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestGeneratorComment(t *testing.T) {
	toks := collect(t, "-- a note\ndiv", false)
	if toks[0].Kind != lexer.CommentGenerator || toks[0].Value != "a note" {
		t.Fatalf("got %v", toks[0])
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	h := handler.New(`"abc`, "t.chtl", false)
	l := lexer.New(`"abc`, "t.chtl", 0, false, h)
	l.Next()
	if len(h.Errors()) == 0 {
		t.Fatalf("expected an error diagnostic for unterminated string")
	}
}

func TestDoubleBraceOnlyInScript(t *testing.T) {
	notScript := collect(t, `{{ x }}`, false)
	if notScript[0].Kind != lexer.LBrace {
		t.Fatalf("expected plain LBrace outside script, got %v", notScript[0])
	}
	inScript := collect(t, `{{ x }}`, true)
	if inScript[0].Kind != lexer.DoubleLBrace {
		t.Fatalf("expected DoubleLBrace inside script, got %v", inScript[0])
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	h := handler.New(`a b c`, "t.chtl", false)
	l := lexer.New(`a b c`, "t.chtl", 0, false, h)
	p := l.Peek(1)
	if p.Value != "b" {
		t.Fatalf("Peek(1) = %v, want b", p)
	}
	first := l.Next()
	if first.Value != "a" {
		t.Fatalf("Next() after Peek = %v, want a", first)
	}
}

func TestBaseOffsetsLocations(t *testing.T) {
	h := handler.New(`div`, "t.chtl", false)
	l := lexer.New(`div`, "t.chtl", 100, false, h)
	tok := l.Next()
	if tok.Loc.Start != 100 {
		t.Fatalf("got Loc.Start=%d, want 100", tok.Loc.Start)
	}
}
