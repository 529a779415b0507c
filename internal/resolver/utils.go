package resolver

import "github.com/chtl-lang/chtl/internal/ast"

// color tracks DFS visitation state over the Template/Custom inheritance
// graph so a gray-on-gray edge can be reported as a cycle instead of
// recursing forever.
type color int

const (
	white color = iota
	gray
	black
)

// defKindFromTag maps the bare string a Delete/Except target or an
// InheritData.KindQualifier's TypeKeyword spelling names ("Style",
// "Element", "Var") back to its DefKind.
func defKindFromTag(tag string) (ast.DefKind, bool) {
	switch tag {
	case "Style":
		return ast.DefStyle, true
	case "Element":
		return ast.DefElement, true
	case "Var":
		return ast.DefVar, true
	}
	return ast.DefStyle, false
}

// cloneNode deep-copies a single node (and, recursively, its children) into
// fresh arena slots so a template/custom definition's canonical child list
// can be spliced into more than one use site without two expansions
// aliasing the same NodeIDs.
func cloneNode(a *ast.Arena, id ast.NodeID) ast.NodeID {
	src := a.Get(id)
	if src == nil {
		return ast.InvalidNode
	}
	clone := *src
	clone.Children = nil
	newID := a.New(src.Kind, src.Loc)
	*a.Get(newID) = clone
	a.Get(newID).ID = newID
	a.Get(newID).Parent = ast.InvalidNode

	// Variant payloads are pointers: copy the pointee so edits to the clone
	// (specialization delete/override) never mutate the canonical definition.
	switch src.Kind {
	case ast.KindElement:
		if src.Element != nil {
			data := *src.Element
			data.Attributes = src.Element.Attributes.Clone()
			a.Get(newID).Element = &data
		}
	case ast.KindText:
		if src.Text != nil {
			data := *src.Text
			a.Get(newID).Text = &data
		}
	case ast.KindComment:
		if src.Comment != nil {
			data := *src.Comment
			a.Get(newID).Comment = &data
		}
	case ast.KindStyleBlock:
		if src.Style != nil {
			data := *src.Style
			if src.Style.InlineProps != nil {
				data.InlineProps = src.Style.InlineProps.Clone()
			}
			data.Rules = append([]ast.StyleRule(nil), src.Style.Rules...)
			data.NoValueProps = append([]string(nil), src.Style.NoValueProps...)
			a.Get(newID).Style = &data
		}
	case ast.KindScriptBlock:
		if src.Script != nil {
			data := *src.Script
			a.Get(newID).Script = &data
		}
	case ast.KindCustom:
		if src.Custom != nil {
			data := *src.Custom
			a.Get(newID).Custom = &data
		}
	case ast.KindOrigin:
		if src.Origin != nil {
			data := *src.Origin
			a.Get(newID).Origin = &data
		}
	case ast.KindVarCall:
		if src.VarCall != nil {
			data := *src.VarCall
			a.Get(newID).VarCall = &data
		}
	case ast.KindDelete:
		if src.Delete != nil {
			data := *src.Delete
			data.Targets = append([]string(nil), src.Delete.Targets...)
			a.Get(newID).Delete = &data
		}
	case ast.KindInsert:
		if src.Insert != nil {
			data := *src.Insert
			a.Get(newID).Insert = &data
		}
	case ast.KindExcept:
		if src.Except != nil {
			data := *src.Except
			data.Targets = append([]string(nil), src.Except.Targets...)
			a.Get(newID).Except = &data
		}
	}

	for _, c := range src.Children {
		a.AddChild(newID, cloneNode(a, c))
	}
	return newID
}

func cloneNodes(a *ast.Arena, ids []ast.NodeID) []ast.NodeID {
	out := make([]ast.NodeID, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneNode(a, id))
	}
	return out
}

func splitChain(namespace string) []string {
	if namespace == "" {
		return nil
	}
	out := []string{}
	start := 0
	for i := 0; i < len(namespace); i++ {
		if namespace[i] == '.' {
			out = append(out, namespace[start:i])
			start = i + 1
		}
	}
	return append(out, namespace[start:])
}
