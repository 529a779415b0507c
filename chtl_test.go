package chtl_test

import (
	"errors"
	"strings"
	"testing"

	chtl "github.com/chtl-lang/chtl"
	"github.com/chtl-lang/chtl/internal/loc"
)

func TestCompileMinimalElement(t *testing.T) {
	r := chtl.Compile(`div { id: main; text { Hello } }`, "t.chtl", chtl.DefaultOptions())
	if !r.Success {
		t.Fatalf("expected success, got diagnostics: %+v", r.Diagnostics)
	}
	if !strings.Contains(r.Output, `<div id="main">Hello</div>`) {
		t.Fatalf("expected rendered div, got %q", r.Output)
	}
}

func TestCompileFragmentOnlyOmitsShell(t *testing.T) {
	opts := chtl.DefaultOptions()
	opts.FragmentOnly = true
	r := chtl.Compile(`div { text { "hi" } }`, "t.chtl", opts)
	if !r.Success {
		t.Fatalf("expected success, got diagnostics: %+v", r.Diagnostics)
	}
	if strings.Contains(r.Output, "<!DOCTYPE html>") {
		t.Fatalf("expected no document shell, got %q", r.Output)
	}
}

func TestCompileTemplateInheritance(t *testing.T) {
	src := `
		[Template] @Style Base { color: red; }
		[Template] @Style Big  { @Style Base; font-size: 20px; }
		div { style { @Style Big; } }
	`
	r := chtl.Compile(src, "t.chtl", chtl.DefaultOptions())
	if !r.Success {
		t.Fatalf("expected success, got diagnostics: %+v", r.Diagnostics)
	}
	if !strings.Contains(r.Output, `color: red; font-size: 20px;`) {
		t.Fatalf("expected inherited inline style, got %q", r.Output)
	}
}

func TestCompileImportMergesTemplateRegistrations(t *testing.T) {
	lib := `[Template] @Style Base { color: navy; }`
	opts := chtl.DefaultOptions()
	var requested []string
	opts.Importer = func(path, kind string) (string, error) {
		requested = append(requested, path)
		if strings.HasSuffix(path, "theme.chtl") {
			return lib, nil
		}
		return "", errors.New("not found")
	}

	src := `
		[Import] @Chtl from theme;
		div { style { @Style Base; } }
	`
	r := chtl.Compile(src, "t.chtl", opts)
	if !r.Success {
		t.Fatalf("expected success, got diagnostics: %+v", r.Diagnostics)
	}
	if !strings.Contains(r.Output, "color: navy;") {
		t.Fatalf("expected the imported template's style, got %q", r.Output)
	}
	if len(requested) == 0 {
		t.Fatalf("expected the importer to be consulted at least once")
	}
}

func TestCompileImportNotFoundIsImportResolutionError(t *testing.T) {
	opts := chtl.DefaultOptions()
	opts.Importer = func(path, kind string) (string, error) {
		return "", errors.New("no such file")
	}
	r := chtl.Compile(`[Import] @Chtl from missing;`, "t.chtl", opts)
	if r.Success {
		t.Fatalf("expected failure for an unresolvable import")
	}
	found := false
	for _, d := range r.Diagnostics {
		if d.Kind == loc.KindImportResolution {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an ImportResolution diagnostic, got %+v", r.Diagnostics)
	}
}

func TestCompileWithoutImporterRaisesImportResolutionError(t *testing.T) {
	r := chtl.Compile(`[Import] @Chtl from theme;`, "t.chtl", chtl.DefaultOptions())
	if r.Success {
		t.Fatalf("expected failure with no importer configured")
	}
}

func TestCompileExceptConstraintRejectsForbiddenChild(t *testing.T) {
	r := chtl.Compile(`div { except span; span { text { no } } }`, "t.chtl", chtl.DefaultOptions())
	if r.Success {
		t.Fatalf("expected a semantic error from the except constraint")
	}
	if strings.Contains(r.Output, "<span>no</span>") {
		t.Fatalf("expected the forbidden span to be excluded, got %q", r.Output)
	}
}

func TestCompileOriginEmbedding(t *testing.T) {
	src := `
		[Origin] @Html box { <b>hi</b> }
		body { [Origin] @Html box; }
	`
	r := chtl.Compile(src, "t.chtl", chtl.DefaultOptions())
	if !r.Success {
		t.Fatalf("expected success, got diagnostics: %+v", r.Diagnostics)
	}
	if !strings.Contains(r.Output, "<b>hi</b>") {
		t.Fatalf("expected literal origin content, got %q", r.Output)
	}
}

func TestDumpASTRendersResolvedTree(t *testing.T) {
	dump, diags, success, err := chtl.DumpAST(`div { text { "hi" } }`, "t.chtl", chtl.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error dumping AST: %v", err)
	}
	if !success {
		t.Fatalf("expected success, got diagnostics: %+v", diags)
	}
	if len(dump) == 0 {
		t.Fatalf("expected a non-empty AST dump")
	}
}
