package resolver

import (
	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/loc"
)

// forbiddenScope is one `except` statement's contribution to the current
// constraint stack: a global ban (bare `except;`), a kind-qualified name
// ban (`except @Element Card;`, target "Element:Card"), or a bare-name ban
// (`except div;`, matched regardless of kind). Exempt narrows rather than
// widens whatever an ancestor scope already forbids.
type forbiddenScope struct {
	global     bool
	taggedName string // "Kind:Name", set for a kind-qualified target
	bareName   string // set for an unqualified target
	exempt     bool
}

// pushExcept records one except statement's targets onto the constraint
// stack in effect for the rest of the current body and any nested bodies.
func (r *Resolver) pushExcept(data *ast.ExceptData) {
	switch data.Scope {
	case ast.ExceptGlobal:
		r.forbidden = append(r.forbidden, forbiddenScope{global: true, exempt: data.Exempt})
	case ast.ExceptType:
		for _, t := range data.Targets {
			r.forbidden = append(r.forbidden, forbiddenScope{taggedName: t, exempt: data.Exempt})
		}
	case ast.ExceptPrecise:
		for _, t := range data.Targets {
			r.forbidden = append(r.forbidden, forbiddenScope{bareName: t, exempt: data.Exempt})
		}
	}
}

// checkForbidden reports whether (kind, name) is currently excluded by the
// constraint stack in effect, raising ERROR_FORBIDDEN_BY_CONSTRAINT and
// returning true if so (the caller drops the use instead of expanding it).
// A later exempt scope narrows an earlier ban for names/kinds it names,
// so the stack is scanned top-down (innermost scope first) and the first
// matching entry decides.
func (r *Resolver) checkForbidden(kind ast.DefKind, name string, at loc.Loc) bool {
	tag := kind.String() + ":" + name
	for i := len(r.forbidden) - 1; i >= 0; i-- {
		scope := r.forbidden[i]
		matches := scope.global || scope.taggedName == tag || scope.bareName == name
		if !matches {
			continue
		}
		if scope.exempt {
			return false
		}
		r.h.AppendError(&loc.ErrorWithRange{
			Code:  loc.ERROR_FORBIDDEN_BY_CONSTRAINT,
			Kind:  loc.KindSemantic,
			Text:  "use of " + tag + " is forbidden by an enclosing except constraint",
			Range: loc.Range{Loc: at, Len: 1},
		})
		return true
	}
	return false
}
