// Package resolver performs the semantic resolution pass between parsing
// and generation: expanding Template/Custom inheritance, substituting
// variable-group references, attaching auto class/id selectors, resolving
// origin-block references, and enforcing except constraints. It consumes
// the AST the parser built plus the symbol table the parser populated
// during its first pass, and produces a fully resolved tree ready to print.
package resolver

import (
	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/symbols"
)

// Options configures one resolver run.
type Options struct {
	Filename string
}

// Resolver walks a parsed document and rewrites it in place: Template/Custom
// use sites are expanded into cloned, edited content; variable calls are
// substituted with their resolved values; local style blocks get their
// auto class/id attached to the owning element.
type Resolver struct {
	arena *ast.Arena
	syms  *symbols.Table
	h     *handler.Handler
	opts  Options

	colors map[ast.NodeID]color

	// styleProps/elementChildren memoize resolvedProps/resolvedChildren by
	// the definition node's id so a Template/Custom used from many sites
	// is only walked once.
	styleProps      map[ast.NodeID]*ast.OrderedMap
	elementChildren map[ast.NodeID][]ast.NodeID

	// A Var Template/Custom group's resolved property set is memoized in
	// styleProps as well, keyed by its definition node id.

	// forbidden is the current stack of except-constraint sets in effect
	// while walking real document content; see constraints.go.
	forbidden []forbiddenScope
}

func New(arena *ast.Arena, syms *symbols.Table, h *handler.Handler, opts Options) *Resolver {
	return &Resolver{
		arena:           arena,
		syms:            syms,
		h:               h,
		opts:            opts,
		colors:          make(map[ast.NodeID]color),
		styleProps:      make(map[ast.NodeID]*ast.OrderedMap),
		elementChildren: make(map[ast.NodeID][]ast.NodeID),
	}
}

// Resolve walks root (a Document or Namespace node) and rewrites its real
// content in place. Template/Custom/Configuration/Import definitions
// themselves are left untouched in the tree; they exist only to be looked
// up by reference.
func (r *Resolver) Resolve(root ast.NodeID) {
	r.resolveChildrenInPlace(root, nil)
}

// resolveChildrenInPlace walks one node's Children list, replacing each
// real-content entry with its fully resolved form and leaving pure
// definitions (Template/Custom/Import/Configuration) alone.
func (r *Resolver) resolveChildrenInPlace(id ast.NodeID, chain []string) {
	depth := len(r.forbidden)
	defer func() { r.forbidden = r.forbidden[:depth] }()

	node := r.arena.Get(id)
	var out []ast.NodeID
	for _, childID := range node.Children {
		child := r.arena.Get(childID)
		switch child.Kind {
		case ast.KindTemplate, ast.KindImport, ast.KindConfiguration:
			out = append(out, childID)
		case ast.KindCustom:
			if !child.Custom.IsSpecialization {
				// A bare/specialized KindCustom directly under a
				// Document/Namespace is always a pure [Custom] definition:
				// the top level has no `@Kind Name` use-site construct, so
				// only nested element/style bodies ever hold a use-site
				// KindCustom.
				out = append(out, childID)
				continue
			}
			out = append(out, childID)
		case ast.KindNamespace:
			nsChain := append(append([]string{}, chain...), splitChain(child.Namespace.Name)...)
			r.resolveChildrenInPlace(childID, nsChain)
			out = append(out, childID)
		case ast.KindElement:
			if r.checkForbidden(ast.DefElement, child.Element.Tag, child.Loc) {
				continue
			}
			r.resolveElement(childID, chain)
			out = append(out, childID)
		case ast.KindOrigin:
			r.resolveOriginRef(childID)
			out = append(out, childID)
		case ast.KindExcept:
			r.pushExcept(child.Except)
			out = append(out, childID)
		default:
			out = append(out, childID)
		}
	}
	node.Children = out
}

// resolveElement resolves one real <Tag>{...} element's body: style blocks
// get CSS var-call substitution and auto-class/id attachment, nested
// Custom uses get expanded inline, nested elements recurse.
func (r *Resolver) resolveElement(id ast.NodeID, chain []string) {
	depth := len(r.forbidden)
	defer func() { r.forbidden = r.forbidden[:depth] }()

	node := r.arena.Get(id)
	var out []ast.NodeID
	for _, childID := range node.Children {
		child := r.arena.Get(childID)
		switch child.Kind {
		case ast.KindStyleBlock:
			r.resolveStyleBlock(id, childID, chain)
			out = append(out, childID)
		case ast.KindElement:
			if r.checkForbidden(ast.DefElement, child.Element.Tag, child.Loc) {
				continue
			}
			r.resolveElement(childID, chain)
			out = append(out, childID)
		case ast.KindCustom:
			if r.checkForbidden(child.Custom.DefKind, child.Custom.Name, child.Loc) {
				continue
			}
			expanded := r.expandCustomUse(childID, chain)
			out = append(out, expanded...)
			for _, eid := range expanded {
				if r.arena.Get(eid).Kind == ast.KindElement {
					r.resolveElement(eid, chain)
				}
			}
		case ast.KindVarCall:
			r.resolveVarCall(child.Loc, child.VarCall, chain)
			out = append(out, childID)
		case ast.KindOrigin:
			r.resolveOriginRef(childID)
			out = append(out, childID)
		case ast.KindExcept:
			r.pushExcept(child.Except)
			out = append(out, childID)
		default:
			out = append(out, childID)
		}
	}
	node.Children = out
}

// resolveOriginRef fills in a bodyless [Origin] reference's Raw content
// from its prior named definition.
func (r *Resolver) resolveOriginRef(id ast.NodeID) {
	node := r.arena.Get(id)
	data := node.Origin
	if data.Raw != "" || data.Name == "" {
		return
	}
	rec, found := r.syms.LookupOrigin(data.Kind, data.Name)
	if !found {
		r.h.AppendError(symbols.DiagnosticForUnknown(node.Loc, "origin", data.Name))
		return
	}
	src := r.arena.Get(rec.Node)
	if src != nil && src.Origin != nil {
		data.Raw = src.Origin.Raw
		data.TypeName = src.Origin.TypeName
	}
}
