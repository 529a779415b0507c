// Package chtl is the top-level compile entry point: it wires fragment
// scanning, parsing, import resolution, semantic resolution, and
// generation into the single synchronous `Compile` call the host embeds.
package chtl

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/fragment"
	"github.com/chtl-lang/chtl/internal/generator"
	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/loc"
	"github.com/chtl-lang/chtl/internal/parser"
	"github.com/chtl-lang/chtl/internal/resolver"
	"github.com/chtl-lang/chtl/internal/symbols"
)

// Importer resolves one [Import] directive's path to source text. The host
// implements it synchronously; kind is the import's type keyword ("Chtl",
// "Style", "Element", "Var", "Html", "JavaScript", "CJmod"), defaulting to
// "Chtl" when the directive names none.
type Importer func(path, kind string) (string, error)

// Options configures one Compile call. Field names and defaults mirror the
// host-facing contract: PrettyPrint and Minify are mutually exclusive,
// Strict promotes warnings to errors, and ImportPaths are the root
// directories searched for a bare [Import] path before falling back to the
// current directory.
type Options struct {
	PrettyPrint  bool
	Minify       bool
	FragmentOnly bool
	Debug        bool
	Strict       bool
	ImportPaths  []string
	Importer     Importer
}

// Result is what Compile returns: the generated document, the accumulated
// diagnostics, and whether the compile succeeded (no error-or-fatal
// diagnostic). Output for a failed compile is undefined and should not be
// consumed.
type Result struct {
	Output      string
	Diagnostics []loc.DiagnosticMessage
	Success     bool
}

// DefaultOptions returns the options a bare `Compile(source, filename,
// DefaultOptions())` call should run with: pretty-printed, strict, no
// fragment-only shell, no importer configured.
func DefaultOptions() Options {
	return Options{PrettyPrint: true, Strict: true}
}

// Compile runs the full pipeline over source (already decoded UTF-8, no
// BOM) and returns the rendered document plus every diagnostic collected
// along the way.
func Compile(source, filename string, opts Options) Result {
	arena, _, h, root := parseAndResolve(source, filename, opts)

	var output string
	if !h.IsFatal() {
		g := generator.New(arena, h, generator.Options{
			PrettyPrint:  opts.PrettyPrint,
			Minify:       opts.Minify,
			FragmentOnly: opts.FragmentOnly,
			Debug:        opts.Debug,
		})
		output = g.Generate(root).Output
	}

	return Result{
		Output:      output,
		Diagnostics: h.Diagnostics(),
		Success:     h.Success(),
	}
}

// DumpAST runs fragment scanning, parsing, import resolution, and semantic
// resolution over source, then renders the resolved tree as the debug AST
// dump a reference CLI's --ast flag shows, alongside the same diagnostics
// Compile would have returned.
func DumpAST(source, filename string, opts Options) ([]byte, []loc.DiagnosticMessage, bool, error) {
	arena, _, h, root := parseAndResolve(source, filename, opts)
	dump, err := generator.DumpAST(arena, root)
	return dump, h.Diagnostics(), h.Success(), err
}

// parseAndResolve runs every pipeline stage up to (but not including)
// generation, shared by Compile and DumpAST.
func parseAndResolve(source, filename string, opts Options) (*ast.Arena, *symbols.Table, *handler.Handler, ast.NodeID) {
	h := handler.New(source, filename, opts.Strict)
	frags := fragment.Scan(source, h)

	arena := ast.NewArena()
	syms := symbols.NewTable()

	p := parser.New(filename, frags, h, arena, syms, opts.Strict)
	root := p.Parse()

	if !h.IsFatal() {
		resolveImports(arena, syms, h, root, opts)
	}

	if !h.IsFatal() {
		r := resolver.New(arena, syms, h, resolver.Options{Filename: filename})
		r.Resolve(root)
	}

	return arena, syms, h, root
}

// resolveImports walks the parsed tree for [Import] directives and fetches
// each one through opts.Importer, merging a resolved .chtl/.cmod file's own
// Template/Custom/Var registrations into the same arena and symbol table so
// they join the global symbol map the way an in-file definition would.
// [Import] @CJmod directives are only recorded, per the native-extension
// loader being a collaborator outside the core; Html/JavaScript imports are
// recorded as raw Origin content rather than parsed as CHTL.
func resolveImports(arena *ast.Arena, syms *symbols.Table, h *handler.Handler, root ast.NodeID, opts Options) {
	var imports []ast.NodeID
	collectImports(arena, root, &imports)

	for _, id := range imports {
		node := arena.Get(id)
		data := node.Import
		if data == nil || data.Path == "" {
			continue
		}
		if _, ok := syms.LookupImport(data.Path); ok {
			continue
		}

		switch data.Kind {
		case "CJmod":
			syms.RegisterImport(data.Path, symbols.ImportRecord{Path: data.Path, Node: id})
			continue
		case "Html", "JavaScript":
			text, err := fetchImport(data.Path, data.Kind, opts, h, node.Loc)
			if err != nil {
				continue
			}
			originKind := ast.OriginHtml
			if data.Kind == "JavaScript" {
				originKind = ast.OriginJavaScript
			}
			oid := arena.New(ast.KindOrigin, node.Loc)
			arena.Get(oid).Origin = &ast.OriginData{Kind: originKind, Name: data.Alias, Raw: text}
			syms.RegisterOrigin(originKind, data.Alias, oid)
			syms.RegisterImport(data.Path, symbols.ImportRecord{Path: data.Path, SourceText: text, Node: oid})
			continue
		}

		text, err := fetchImport(data.Path, data.Kind, opts, h, node.Loc)
		if err != nil {
			continue
		}

		syms.RegisterImport(data.Path, symbols.ImportRecord{Path: data.Path, SourceText: text, Node: id})

		childFrags := fragment.Scan(text, h)
		childParser := parser.New(data.Path, childFrags, h, arena, syms, true)
		importedRoot := childParser.Parse()
		resolveImports(arena, syms, h, importedRoot, opts)
	}
}

// fetchImport tries every candidate path the search order produces, in
// order, until the host's Importer resolves one or the list is exhausted.
func fetchImport(path, kind string, opts Options, h *handler.Handler, at loc.Loc) (string, error) {
	if opts.Importer == nil {
		h.AppendError(&loc.ErrorWithRange{
			Code: loc.ERROR_IMPORT_HOST_ERROR, Kind: loc.KindImportResolution,
			Text:  "no importer configured to resolve " + path,
			Range: loc.Range{Loc: at, Len: 1},
		})
		return "", errNoImporter
	}

	var lastErr error
	for _, candidate := range importCandidates(path, opts.ImportPaths) {
		text, err := opts.Importer(candidate, kind)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}

	code := loc.ERROR_IMPORT_NOT_FOUND
	text := "could not resolve import " + path
	if lastErr != nil {
		code = loc.ERROR_IMPORT_HOST_ERROR
		text = "import host error resolving " + path + ": " + lastErr.Error()
	}
	h.AppendError(&loc.ErrorWithRange{
		Code: code, Kind: loc.KindImportResolution,
		Text:  text,
		Range: loc.Range{Loc: at, Len: 1},
	})
	return "", errImportNotFound
}

// importCandidates builds the bare-path search order: <root>/module/<path>
// then ./module/<path> then ./<path>, each tried as .cmod before .chtl. A
// path that already carries one of those extensions is tried as-is under
// each root, with no module/ prefix and no extension guessing.
func importCandidates(path string, roots []string) []string {
	if hasImportExt(path) {
		candidates := make([]string, 0, len(roots)+1)
		for _, root := range roots {
			candidates = append(candidates, joinImportPath(root, path))
		}
		candidates = append(candidates, joinImportPath(".", path))
		return candidates
	}

	var candidates []string
	for _, root := range roots {
		candidates = append(candidates,
			joinImportPath(root, "module/"+path+".cmod"),
			joinImportPath(root, "module/"+path+".chtl"),
		)
	}
	candidates = append(candidates,
		joinImportPath(".", "module/"+path+".cmod"),
		joinImportPath(".", "module/"+path+".chtl"),
		joinImportPath(".", path+".cmod"),
		joinImportPath(".", path+".chtl"),
	)
	return candidates
}

func hasImportExt(path string) bool {
	return strings.HasSuffix(path, ".chtl") || strings.HasSuffix(path, ".cmod")
}

func joinImportPath(root, rest string) string {
	root = strings.TrimSuffix(root, "/")
	if root == "" || root == "." {
		return rest
	}
	return root + "/" + rest
}

// collectImports appends every KindImport node reachable from id, recursing
// into Namespace bodies since TopLevel (and therefore Import) can nest
// inside one.
func collectImports(arena *ast.Arena, id ast.NodeID, out *[]ast.NodeID) {
	node := arena.Get(id)
	if node == nil {
		return
	}
	if node.Kind == ast.KindImport {
		*out = append(*out, id)
	}
	for _, child := range node.Children {
		collectImports(arena, child, out)
	}
}

type importError string

func (e importError) Error() string { return string(e) }

const (
	errNoImporter     = importError("no importer configured")
	errImportNotFound = importError("import not found")
)
