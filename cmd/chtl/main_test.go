package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempSource(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.chtl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestRunCompilesToStdout(t *testing.T) {
	path := writeTempSource(t, `div { text { "hi" } }`)
	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "<div>hi</div>") {
		t.Fatalf("expected rendered div on stdout, got %q", stdout.String())
	}
}

func TestRunWritesOutputFile(t *testing.T) {
	path := writeTempSource(t, `div { text { "hi" } }`)
	outPath := filepath.Join(filepath.Dir(path), "out.html")
	var stdout, stderr bytes.Buffer
	code := run([]string{path, outPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
	if !strings.Contains(string(data), "<div>hi</div>") {
		t.Fatalf("expected rendered div in output file, got %q", string(data))
	}
}

func TestRunFragmentFlagOmitsShell(t *testing.T) {
	path := writeTempSource(t, `div { text { "hi" } }`)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if strings.Contains(stdout.String(), "<!DOCTYPE html>") {
		t.Fatalf("expected no document shell with -f, got %q", stdout.String())
	}
}

func TestRunReturnsOneOnCompileError(t *testing.T) {
	path := writeTempSource(t, `div { `)
	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1 for a malformed source, got %d", code)
	}
	if stderr.Len() == 0 {
		t.Fatalf("expected diagnostics on stderr")
	}
}

func TestRunReturnsTwoOnMissingInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"/no/such/file.chtl"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected exit code 2 for a missing input file, got %d", code)
	}
}

func TestRunReturnsTwoWithNoArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected exit code 2 with no arguments, got %d", code)
	}
}

func TestRunVersionFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-v"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0 for -v, got %d", code)
	}
	if !strings.Contains(stdout.String(), version) {
		t.Fatalf("expected version string on stdout, got %q", stdout.String())
	}
}

func TestRunASTFlagPrintsJSON(t *testing.T) {
	path := writeTempSource(t, `div { text { "hi" } }`)
	var stdout, stderr bytes.Buffer
	code := run([]string{"--ast", path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"kind"`) {
		t.Fatalf("expected a JSON AST dump on stdout, got %q", stdout.String())
	}
}
