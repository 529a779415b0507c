package resolver

import (
	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/loc"
	"github.com/chtl-lang/chtl/internal/symbols"
	"github.com/dlclark/regexp2"
)

// embeddedVarCall matches a GroupName(VarName) or GroupName(VarName =
// "override") call embedded inside a raw CSS value/declaration, e.g. the
// `Theme(primary)` in `background: Theme(primary);`.
var embeddedVarCall = regexp2.MustCompile(
	`([A-Za-z_][\w-]*)\(\s*([A-Za-z_][\w-]*)\s*(=\s*"([^"]*)")?\s*\)`, regexp2.None)

// resolveVarCall fills in a KindVarCall node's Resolved field: the literal
// override value if one was given, else the named variable's value looked
// up through the group's own inheritance chain.
func (r *Resolver) resolveVarCall(at loc.Loc, vc *ast.VarCallData, chain []string) {
	if vc.HasOverride {
		vc.Resolved = r.substituteEmbeddedVarCalls(vc.OverrideValue, chain)
		return
	}
	if _, found := r.lookupDef(ast.DefVar, vc.GroupName, chain, ""); !found {
		r.h.AppendError(symbols.DiagnosticForUnknown(at, "variable group", vc.GroupName))
		return
	}
	vc.Resolved = r.lookupVarValue(vc.GroupName, vc.VarName, chain)
}

// lookupVarValue resolves GroupName(VarName) to its final string value,
// recursing through resolvedProps so an inherited group's own values are
// visible, and substituting any further embedded var calls found inside
// the looked-up value itself.
func (r *Resolver) lookupVarValue(groupName, varName string, chain []string) string {
	baseID, found := r.lookupDef(ast.DefVar, groupName, chain, "")
	if !found {
		return ""
	}
	props := r.resolvedProps(baseID)
	val, ok := props.Get(varName)
	if !ok {
		return ""
	}
	return r.substituteEmbeddedVarCalls(val, chain)
}

// substituteEmbeddedVarCalls finds every GroupName(VarName[ = "override"])
// occurrence in raw and replaces it with its resolved value.
func (r *Resolver) substituteEmbeddedVarCalls(raw string, chain []string) string {
	if raw == "" {
		return raw
	}
	out, err := embeddedVarCall.ReplaceFunc(raw, func(m regexp2.Match) string {
		groups := m.Groups()
		group := groups[1].String()
		name := groups[2].String()
		if groups[4].Length > 0 {
			return r.substituteEmbeddedVarCalls(groups[4].String(), chain)
		}
		return r.lookupVarValue(group, name, chain)
	}, -1, -1)
	if err != nil {
		return raw
	}
	return out
}
