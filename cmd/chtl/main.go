// Command chtl is the reference CLI around the chtl compile library: it
// reads one source file, runs it through chtl.Compile (or chtl.DumpAST for
// --ast), and writes the result to a file or stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	chtl "github.com/chtl-lang/chtl"
	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/loc"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("chtl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs, stderr) }

	outFlag := fs.String("o", "", "output file path (default: stdout, or the second positional argument)")
	debug := fs.Bool("d", false, "accepted; does not change the generated output")
	fs.BoolVar(debug, "debug", false, "accepted; does not change the generated output")
	minify := fs.Bool("m", false, "minify output")
	fs.BoolVar(minify, "minify", false, "minify output")
	fragment := fs.Bool("f", false, "emit body content without the <html> shell")
	fs.BoolVar(fragment, "fragment", false, "emit body content without the <html> shell")
	noPretty := fs.Bool("no-pretty", false, "disable indentation and newlines")
	strict := fs.Bool("strict", true, "treat warnings as errors")
	dumpAST := fs.Bool("ast", false, "print the resolved AST as JSON instead of compiling")
	showVersion := fs.Bool("v", false, "print the version and exit")
	fs.BoolVar(showVersion, "version", false, "print the version and exit")
	showHelp := fs.Bool("h", false, "print usage and exit")
	fs.BoolVar(showHelp, "help", false, "print usage and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showHelp {
		printUsage(fs, stderr)
		return 0
	}
	if *showVersion {
		fmt.Fprintln(stdout, "chtl", version)
		return 0
	}

	rest := fs.Args()
	if len(rest) < 1 {
		printUsage(fs, stderr)
		return 2
	}
	inputPath := rest[0]
	outputPath := *outFlag
	if outputPath == "" && len(rest) >= 2 {
		outputPath = rest[1]
	}

	source, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(stderr, "chtl: %v\n", err)
		return 2
	}

	opts := chtl.DefaultOptions()
	opts.PrettyPrint = !*noPretty
	opts.Minify = *minify
	opts.FragmentOnly = *fragment
	opts.Debug = *debug
	opts.Strict = *strict
	opts.Importer = fileImporter{}.resolve

	if *dumpAST {
		dump, diags, success, dumpErr := chtl.DumpAST(string(source), inputPath, opts)
		printDiagnostics(stderr, diags)
		if dumpErr != nil {
			fmt.Fprintf(stderr, "chtl: %v\n", dumpErr)
			return 1
		}
		if err := writeOutput(outputPath, dump, stdout); err != nil {
			fmt.Fprintf(stderr, "chtl: %v\n", err)
			return 1
		}
		if !success {
			return 1
		}
		return 0
	}

	result := chtl.Compile(string(source), inputPath, opts)
	printDiagnostics(stderr, result.Diagnostics)
	if err := writeOutput(outputPath, []byte(result.Output), stdout); err != nil {
		fmt.Fprintf(stderr, "chtl: %v\n", err)
		return 1
	}
	if !result.Success {
		return 1
	}
	return 0
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printDiagnostics(stderr io.Writer, diags []loc.DiagnosticMessage) {
	for _, d := range diags {
		fmt.Fprintln(stderr, handler.Format(d))
	}
}

func printUsage(fs *flag.FlagSet, stderr io.Writer) {
	fmt.Fprintln(stderr, "usage: chtl input.chtl [output.html] [flags]")
	fs.PrintDefaults()
}

// fileImporter resolves a bare [Import] path against the working
// directory, the way a host with no embedding-specific resolution logic
// would: read the candidate path straight off disk.
type fileImporter struct{}

func (fileImporter) resolve(path, kind string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("empty import path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
