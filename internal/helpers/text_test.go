package helpers_test

import (
	"testing"

	"github.com/chtl-lang/chtl/internal/helpers"
)

func TestJoinTextPartsSpacesLiterals(t *testing.T) {
	got := helpers.JoinTextParts([]string{"hello", "world"})
	if got != "hello world" {
		t.Fatalf("expected %q, got %q", "hello world", got)
	}
}

func TestJoinTextPartsSingleLiteral(t *testing.T) {
	got := helpers.JoinTextParts([]string{"hi"})
	if got != "hi" {
		t.Fatalf("expected %q, got %q", "hi", got)
	}
}
