// Package lexer turns a fragment's text (as carved out by
// internal/fragment) into a token stream, and is also home to the Token
// model it emits.
package lexer

import (
	"fmt"

	"github.com/chtl-lang/chtl/internal/loc"
)

// Kind is the closed set of CHTL token kinds.
type Kind int

const (
	EOF Kind = iota
	Invalid

	// structural
	LBrace
	RBrace
	LBracket
	RBracket
	LParen
	RParen
	Semicolon
	Comma
	Dot
	Colon
	Equals
	At
	Amp

	// literal kinds
	StringDouble
	StringSingle
	Number
	Unquoted

	Identifier

	// comments
	CommentLine
	CommentBlock
	CommentGenerator

	// keyword classes
	BracketKeyword // e.g. [Template]; Value holds "Template"
	TypeKeyword    // e.g. @Style; Value holds "Style"
	SoftKeyword    // e.g. text, style, inherit, at top; Value names the keyword

	// CHTL-JS enhanced selector, recognized only inside script fragments
	DoubleLBrace
	DoubleRBrace
)

func (k Kind) String() string {
	names := map[Kind]string{
		EOF: "EOF", Invalid: "Invalid",
		LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
		LParen: "(", RParen: ")", Semicolon: ";", Comma: ",",
		Dot: ".", Colon: ":", Equals: "=", At: "@", Amp: "&",
		StringDouble: "StringDouble", StringSingle: "StringSingle",
		Number: "Number", Unquoted: "Unquoted", Identifier: "Identifier",
		CommentLine: "CommentLine", CommentBlock: "CommentBlock", CommentGenerator: "CommentGenerator",
		BracketKeyword: "BracketKeyword", TypeKeyword: "TypeKeyword", SoftKeyword: "SoftKeyword",
		DoubleLBrace: "{{", DoubleRBrace: "}}",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// BracketKeywords is the closed set recognized inside `[...]`.
var BracketKeywords = map[string]bool{
	"Template": true, "Custom": true, "Origin": true, "Import": true,
	"Configuration": true, "Namespace": true, "Info": true, "Export": true,
}

// TypeKeywords is the closed set recognized after `@`.
var TypeKeywords = map[string]bool{
	"Style": true, "Element": true, "Var": true, "Html": true,
	"JavaScript": true, "Chtl": true, "CJmod": true, "Config": true,
}

// SoftKeywords is the closed set of contextual keywords; the lexer emits
// each of them as a SoftKeyword token whose Value is the word itself.
var SoftKeywords = map[string]bool{
	"text": true, "style": true, "script": true, "inherit": true,
	"delete": true, "insert": true, "before": true, "after": true,
	"replace": true, "from": true, "as": true, "except": true,
	// exempt narrows an ancestor's except constraint for one scope, a
	// feature supplemented from original_source/ConstraintManager.h.
	"exempt": true,
}

// Token is one lexeme with its resolved source location.
type Token struct {
	Kind  Kind
	Value string
	Loc   loc.Loc
	Line  int
	File  string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Value, t.Loc.Start)
}

// IsSoftKeyword reports whether a SoftKeyword token's Value names the
// given soft keyword (the lexer tags every word in SoftKeywords with Kind
// SoftKeyword, so callers never need to special-case Identifier/Unquoted).
func (t Token) IsSoftKeyword(name string) bool {
	return t.Kind == SoftKeyword && t.Value == name
}
