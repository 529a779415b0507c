package resolver

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/loc"
	"github.com/chtl-lang/chtl/internal/symbols"
)

// lookupDef resolves a (kind, name) reference against the symbol table,
// trying the Custom registry first (a Custom may specialize either a
// Template or another Custom, and a bare use-site doesn't say which it
// targets) before falling back to Template, except for @Var groups which
// live in their own namespace-keyed registry.
func (r *Resolver) lookupDef(kind ast.DefKind, name string, chain []string, from string) (ast.NodeID, bool) {
	if kind == ast.DefVar {
		res := r.syms.LookupVarGroup(name, chain, from)
		return res.Node, res.Found
	}
	if res := r.syms.LookupCustom(kind, name, chain, from); res.Found {
		return res.Node, true
	}
	if res := r.syms.LookupTemplate(kind, name, chain, from); res.Found {
		return res.Node, true
	}
	return ast.InvalidNode, false
}

// resolvedProps returns the merged inline-property set for a Style or Var
// Template/Custom definition node, memoized and cycle-checked. Parent
// property sets are merged in declaration order; a child key overrides a
// parent key (spec: "child keys override parent keys").
func (r *Resolver) resolvedProps(defID ast.NodeID) *ast.OrderedMap {
	if cached, ok := r.styleProps[defID]; ok {
		return cached
	}
	if r.colors[defID] == gray {
		r.h.AppendError(&loc.ErrorWithRange{
			Code: loc.ERROR_INHERITANCE_CYCLE, Kind: loc.KindSemantic,
			Text:  "inheritance cycle detected",
			Range: loc.Range{Loc: r.arena.Get(defID).Loc, Len: 1},
		})
		return ast.NewOrderedMap()
	}
	r.colors[defID] = gray

	props := ast.NewOrderedMap()
	def := r.arena.Get(defID)
	chain := r.namespaceOf(defID)
	for _, childID := range def.Children {
		child := r.arena.Get(childID)
		switch child.Kind {
		case ast.KindInherit:
			baseID, found := r.resolveInheritTarget(child.Inherit, chain)
			if found {
				props.Merge(r.resolvedProps(baseID))
			} else {
				r.h.AppendError(symbols.DiagnosticForUnknown(child.Loc, "inherited definition", child.Inherit.BaseName))
			}
		case ast.KindCustom:
			if !child.Custom.IsSpecialization {
				baseID, found := r.lookupDef(child.Custom.DefKind, child.Custom.Name, chain, child.Custom.Namespace)
				if found {
					props.Merge(r.resolvedProps(baseID))
				} else {
					r.h.AppendError(symbols.DiagnosticForUnknown(child.Loc, "inherited definition", child.Custom.Name))
				}
			}
		case ast.KindStyleBlock:
			props.Merge(child.Style.InlineProps)
		case ast.KindDelete:
			r.applyDeleteToProps(props, child.Delete, chain)
		}
	}

	r.colors[defID] = black
	r.styleProps[defID] = props
	return props
}

// applyDeleteToProps executes one `delete` statement against the running
// merged property set: a plain property target removes that key and
// whatever value is currently accumulated for it (a single linear pass over the
// merged list, not a provenance-aware set operation); a `@Kind Name`
// inheritance target un-merges exactly that parent's own keys.
func (r *Resolver) applyDeleteToProps(props *ast.OrderedMap, del *ast.DeleteData, chain []string) {
	for _, target := range del.Targets {
		if del.Scope != ast.DeleteInheritance {
			props.Delete(target)
			continue
		}
		kindTag, name, ok := strings.Cut(target, ":")
		if !ok {
			continue
		}
		kind, ok := defKindFromTag(kindTag)
		if !ok {
			continue
		}
		baseID, found := r.lookupDef(kind, name, chain, "")
		if !found {
			continue
		}
		for _, k := range r.resolvedProps(baseID).Keys() {
			props.Delete(k)
		}
	}
}

// resolvedChildren returns the canonical (not cloned) ordered child list
// for an Element Template/Custom definition, expanding nested inherit
// edges and nested specialization uses found directly in the definition's
// own body. Callers must cloneNodes() the result before splicing it into
// a real document tree.
func (r *Resolver) resolvedChildren(defID ast.NodeID) []ast.NodeID {
	if cached, ok := r.elementChildren[defID]; ok {
		return cached
	}
	if r.colors[defID] == gray {
		r.h.AppendError(&loc.ErrorWithRange{
			Code: loc.ERROR_INHERITANCE_CYCLE, Kind: loc.KindSemantic,
			Text:  "inheritance cycle detected",
			Range: loc.Range{Loc: r.arena.Get(defID).Loc, Len: 1},
		})
		return nil
	}
	r.colors[defID] = gray

	var list []ast.NodeID
	def := r.arena.Get(defID)
	chain := r.namespaceOf(defID)
	for _, childID := range def.Children {
		child := r.arena.Get(childID)
		switch child.Kind {
		case ast.KindInherit:
			baseID, found := r.resolveInheritTarget(child.Inherit, chain)
			if found {
				list = append(list, r.resolvedChildren(baseID)...)
			} else {
				r.h.AppendError(symbols.DiagnosticForUnknown(child.Loc, "inherited definition", child.Inherit.BaseName))
			}
		case ast.KindCustom:
			if child.Custom.IsSpecialization {
				list = append(list, r.expandCustomUse(childID, chain)...)
			} else {
				baseID, found := r.lookupDef(child.Custom.DefKind, child.Custom.Name, chain, child.Custom.Namespace)
				if found {
					list = append(list, r.resolvedChildren(baseID)...)
				} else {
					r.h.AppendError(symbols.DiagnosticForUnknown(child.Loc, "inherited definition", child.Custom.Name))
				}
			}
		case ast.KindDelete:
			list = applyDeleteToChildren(r.arena, list, child.Delete)
		case ast.KindInsert:
			list = applyInsertToChildren(r.arena, list, childID)
		case ast.KindExcept:
			// Constraint propagation is handled by the main walk once this
			// definition is expanded at a real use site, not here.
		default:
			list = append(list, childID)
		}
	}

	r.colors[defID] = black
	r.elementChildren[defID] = list
	return list
}

// expandCustomUse resolves one @Style/@Element/@Var use node (bare or
// specialized) into the content it contributes at its use site: a cloned,
// edited child list for @Element, nothing here for @Style/@Var (handled by
// resolveStyleUse in scope-html.go instead).
func (r *Resolver) expandCustomUse(useID ast.NodeID, chain []string) []ast.NodeID {
	use := r.arena.Get(useID)
	data := use.Custom
	if data.DefKind != ast.DefElement {
		return nil
	}
	baseID, found := r.lookupDef(data.DefKind, data.Name, chain, data.Namespace)
	if !found {
		r.h.AppendError(symbols.DiagnosticForUnknown(use.Loc, "element definition", data.Name))
		return nil
	}
	cloned := cloneNodes(r.arena, r.resolvedChildren(baseID))
	if !data.IsSpecialization {
		return cloned
	}
	for _, editID := range use.Children {
		edit := r.arena.Get(editID)
		switch edit.Kind {
		case ast.KindDelete:
			cloned = applyDeleteToChildren(r.arena, cloned, edit.Delete)
		case ast.KindInsert:
			cloned = applyInsertToChildren(r.arena, cloned, editID)
		case ast.KindElement, ast.KindText, ast.KindComment, ast.KindStyleBlock,
			ast.KindScriptBlock, ast.KindCustom, ast.KindOrigin, ast.KindVarCall:
			// A plain child appearing directly in the specialization body
			// (not a delete/insert edit) is appended as new own content.
			cloned = append(cloned, cloneNode(r.arena, editID))
		}
	}
	return cloned
}

// resolveInheritTarget looks up an explicit `inherit` statement's target,
// routing to the variable-group registry when the inherit names @Var.
func (r *Resolver) resolveInheritTarget(inh *ast.InheritData, chain []string) (ast.NodeID, bool) {
	return r.lookupDef(inh.KindQualifier, inh.BaseName, chain, inh.BaseNamespace)
}

// namespaceOf returns the dotted-namespace chain a definition node was
// registered under, read back off its own TemplateData/CustomData.
func (r *Resolver) namespaceOf(defID ast.NodeID) []string {
	node := r.arena.Get(defID)
	switch node.Kind {
	case ast.KindTemplate:
		return splitChain(node.Template.Namespace)
	case ast.KindCustom:
		return splitChain(node.Custom.Namespace)
	}
	return nil
}

// applyDeleteToChildren applies one `delete` statement to an ordered
// element child list: a plain target matches by element tag name (text
// nodes never match), removing the first match found scanning left to right.
func applyDeleteToChildren(a *ast.Arena, list []ast.NodeID, del *ast.DeleteData) []ast.NodeID {
	for _, target := range del.Targets {
		for i, id := range list {
			node := a.Get(id)
			if nodeMatchesTarget(node, target) {
				list = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
	return list
}

func nodeMatchesTarget(node *ast.Node, target string) bool {
	if node.Kind == ast.KindElement && node.Element.Tag == target {
		return true
	}
	return false
}

// applyInsertToChildren splices an `insert` node's own body into an
// ordered element child list relative to its target tag, or at the
// list's extremities for `at top`/`at bottom`. insertID is the KindInsert
// node itself: its Children are the new nodes to splice in.
func applyInsertToChildren(a *ast.Arena, list []ast.NodeID, insertID ast.NodeID) []ast.NodeID {
	insNode := a.Get(insertID)
	ins := insNode.Insert
	newContent := cloneNodes(a, insNode.Children)

	switch ins.Position {
	case ast.InsertAtTop:
		return append(append([]ast.NodeID{}, newContent...), list...)
	case ast.InsertAtBottom:
		return append(append([]ast.NodeID{}, list...), newContent...)
	}

	idx := -1
	for i, id := range list {
		node := a.Get(id)
		if node.Kind == ast.KindElement && node.Element.Tag == ins.Target {
			idx = i
			break
		}
	}
	if idx == -1 {
		return append(list, newContent...)
	}
	switch ins.Position {
	case ast.InsertBefore:
		out := append([]ast.NodeID{}, list[:idx]...)
		out = append(out, newContent...)
		return append(out, list[idx:]...)
	case ast.InsertAfter:
		out := append([]ast.NodeID{}, list[:idx+1]...)
		out = append(out, newContent...)
		return append(out, list[idx+1:]...)
	case ast.InsertReplace:
		out := append([]ast.NodeID{}, list[:idx]...)
		out = append(out, newContent...)
		return append(out, list[idx+1:]...)
	}
	return list
}
