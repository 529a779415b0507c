package resolver

import (
	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/dlclark/regexp2"
)

// selectorClass/selectorID recognize a bare `.box` / `#id` leading a rule's
// selector, optionally followed by a pseudo-class/element, to derive an
// auto-class/id the parser's bare-shorthand form (`.box;`) didn't already
// set on the StyleBlockData.
var selectorClass = regexp2.MustCompile(`^\.([\w-]+)`, regexp2.None)
var selectorID = regexp2.MustCompile(`^#([\w-]+)`, regexp2.None)

func matchFirstGroup(re *regexp2.Regexp, s string) (string, bool) {
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return "", false
	}
	groups := m.Groups()
	if len(groups) < 2 {
		return "", false
	}
	return groups[1].String(), true
}

// resolveStyleBlock finishes a local style block attached to elemID:
// it derives AutoClass/AutoID from the block's own rules when the bare
// shorthand didn't already set them, attaches the resulting class/id to
// the owning element's attributes, rewrites a leading `&` in every rule's
// selector to that class/id, and substitutes embedded variable calls in
// both inline properties and rule declarations.
func (r *Resolver) resolveStyleBlock(elemID, styleBlockID ast.NodeID, chain []string) {
	node := r.arena.Get(styleBlockID)
	style := node.Style
	if style.Scope != ast.StyleLocal {
		return
	}

	if style.AutoClass == "" && style.AutoID == "" {
		for _, rule := range style.Rules {
			if cls, ok := matchFirstGroup(selectorClass, rule.Selector); ok {
				style.AutoClass = cls
				break
			}
			if id, ok := matchFirstGroup(selectorID, rule.Selector); ok {
				style.AutoID = id
				break
			}
		}
	}

	if style.AutoClass != "" {
		r.attachAttribute(elemID, "class", style.AutoClass)
	}
	if style.AutoID != "" {
		r.attachAttribute(elemID, "id", style.AutoID)
	}

	amp := ""
	switch {
	case style.AutoClass != "":
		amp = "." + style.AutoClass
	case style.AutoID != "":
		amp = "#" + style.AutoID
	}
	for i := range style.Rules {
		if amp != "" {
			style.Rules[i].Selector = rewriteAmpersand(style.Rules[i].Selector, amp)
		}
		style.Rules[i].Declaration = r.substituteCSSDeclaration(style.Rules[i].Declaration, chain)
	}

	// Merge contributions from nested @Style/@Var template uses and bare
	// var calls first — properties typed directly in this block (already
	// collected into style.InlineProps by the parser) take precedence,
	// so they're merged last and win ties.
	merged := ast.NewOrderedMap()
	for _, childID := range node.Children {
		child := r.arena.Get(childID)
		switch child.Kind {
		case ast.KindCustom:
			if r.checkForbidden(child.Custom.DefKind, child.Custom.Name, child.Loc) {
				continue
			}
			merged.Merge(r.resolveStyleUse(childID, chain))
		case ast.KindVarCall:
			r.resolveVarCall(child.Loc, child.VarCall, chain)
			merged.Set(child.VarCall.VarName, child.VarCall.Resolved)
		}
	}
	if style.InlineProps != nil {
		for _, k := range style.InlineProps.Keys() {
			v, _ := style.InlineProps.Get(k)
			merged.Set(k, r.substituteEmbeddedVarCalls(v, chain))
		}
	}
	style.InlineProps = merged
}

// resolveStyleUse resolves one @Style/@Var use node found inside a local
// style block into the property set it contributes: the referenced
// Template/Custom's resolved properties, with any specialization edits
// (delete + override pairs) applied on top.
func (r *Resolver) resolveStyleUse(useID ast.NodeID, chain []string) *ast.OrderedMap {
	use := r.arena.Get(useID)
	data := use.Custom
	baseID, found := r.lookupDef(data.DefKind, data.Name, chain, data.Namespace)
	if !found {
		return ast.NewOrderedMap()
	}
	props := r.resolvedProps(baseID).Clone()
	if !data.IsSpecialization {
		return props
	}
	for _, editID := range use.Children {
		edit := r.arena.Get(editID)
		switch edit.Kind {
		case ast.KindDelete:
			r.applyDeleteToProps(props, edit.Delete, chain)
		case ast.KindStyleBlock:
			props.Merge(edit.Style.InlineProps)
		}
	}
	return props
}

// rewriteAmpersand replaces a leading, unescaped `&` in selector with
// replacement, leaving `&&` (an escaped literal ampersand) alone.
func rewriteAmpersand(selector, replacement string) string {
	if len(selector) == 0 || selector[0] != '&' {
		return selector
	}
	if len(selector) > 1 && selector[1] == '&' {
		return selector
	}
	return replacement + selector[1:]
}

// attachAttribute sets key=value on elemID's attributes unless it's
// already present, mirroring the class/id auto-attachment an authored
// element gets from its nested local style block.
func (r *Resolver) attachAttribute(elemID ast.NodeID, key, value string) {
	node := r.arena.Get(elemID)
	if node == nil || node.Kind != ast.KindElement {
		return
	}
	if node.Element.Attributes == nil {
		node.Element.Attributes = ast.NewOrderedMap()
	}
	if node.Element.Attributes.Has(key) {
		return
	}
	node.Element.Attributes.Set(key, value)
}
