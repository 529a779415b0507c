// Package ast is the typed AST for a CHTL document. Nodes live in a single
// per-compile Arena and reference each other by NodeID (a plain int index)
// rather than by pointer: there is no ownership cycle to reason about and
// the arena is cache-friendly to walk.
package ast

import "github.com/chtl-lang/chtl/internal/loc"

// NodeID indexes into an Arena. Ids start at 0 (the first node allocated);
// use InvalidNode for "no node" in optional fields.
type NodeID int

const InvalidNode NodeID = -1

// Kind discriminates the variant stored in a Node. Exactly one of the
// variant-specific *Data pointers below is non-nil for a given Kind.
type Kind int

const (
	KindDocument Kind = iota
	KindElement
	KindText
	KindComment
	KindStyleBlock
	KindScriptBlock
	KindTemplate
	KindCustom
	KindInherit
	KindDelete
	KindInsert
	KindOrigin
	KindImport
	KindNamespace
	KindConfiguration
	KindExcept
	KindVarCall
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindStyleBlock:
		return "StyleBlock"
	case KindScriptBlock:
		return "ScriptBlock"
	case KindTemplate:
		return "Template"
	case KindCustom:
		return "Custom"
	case KindInherit:
		return "Inherit"
	case KindDelete:
		return "Delete"
	case KindInsert:
		return "Insert"
	case KindOrigin:
		return "Origin"
	case KindImport:
		return "Import"
	case KindNamespace:
		return "Namespace"
	case KindConfiguration:
		return "Configuration"
	case KindExcept:
		return "Except"
	case KindVarCall:
		return "VarCall"
	}
	return "Unknown"
}

// DefKind distinguishes the three shapes a Template/Custom/Inherit can take.
type DefKind int

const (
	DefStyle DefKind = iota
	DefElement
	DefVar
)

func (k DefKind) String() string {
	switch k {
	case DefStyle:
		return "Style"
	case DefElement:
		return "Element"
	case DefVar:
		return "Var"
	}
	return "Unknown"
}

type CommentKind int

const (
	CommentLine CommentKind = iota
	CommentBlock
	CommentGenerator
)

type StyleScope int

const (
	StyleLocal StyleScope = iota
	StyleGlobal
	StyleInline
)

type ScriptScope int

const (
	ScriptLocal ScriptScope = iota
	ScriptGlobal
)

type OriginKind int

const (
	OriginHtml OriginKind = iota
	OriginStyle
	OriginJavaScript
	OriginCustomType
)

type DeleteScope int

const (
	DeleteProperty DeleteScope = iota
	DeleteInheritance
	DeleteElement
	DeletePrecise
)

type InsertPosition int

const (
	InsertBefore InsertPosition = iota
	InsertAfter
	InsertReplace
	InsertAtTop
	InsertAtBottom
	InsertAtIndex
)

type ExceptScope int

const (
	ExceptPrecise ExceptScope = iota
	ExceptType
	ExceptGlobal
)

// StyleRule is one `selector { declarations }` entry inside a StyleBlock.
type StyleRule struct {
	Selector    string
	Declaration string // raw declaration-block text, already trimmed
	Loc         loc.Loc
}

// ElementData backs KindElement.
type ElementData struct {
	Tag        string
	Attributes *OrderedMap
}

type TextData struct {
	Content string
}

type CommentData struct {
	Kind    CommentKind
	Content string
}

// StyleBlockData backs KindStyleBlock (both local `style {}` and global
// top-level `style {}`/`[Origin] @Style`-adjacent blocks).
type StyleBlockData struct {
	Scope        StyleScope
	Rules        []StyleRule
	InlineProps  *OrderedMap
	NoValueProps []string
	AutoClass    string
	AutoID       string
}

type ScriptBlockData struct {
	Scope          ScriptScope
	Raw            string
	ContainsCHTLJS bool
}

// TemplateData backs KindTemplate and, with IsSpecialization set, the
// specialization sites nested inside a Custom body.
type TemplateData struct {
	DefKind          DefKind
	Name             string
	Namespace        string
	Parameters       []string
	IsSpecialization bool
}

type CustomData struct {
	DefKind         DefKind
	Name            string
	Namespace       string
	IsSpecialization bool
	HasNoValueProps bool
}

type InheritData struct {
	BaseName      string
	BaseNamespace string
	KindQualifier DefKind
	Explicit      bool
}

type DeleteData struct {
	Scope   DeleteScope
	Targets []string
}

type InsertData struct {
	Position InsertPosition
	Target   string
	Index    int
}

type OriginData struct {
	Kind     OriginKind
	TypeName string // set when Kind == OriginCustomType
	Name     string // optional
	Raw      string
}

type ImportData struct {
	Kind          string
	Path          string
	Alias         string
	SelectedItems []string
}

type NamespaceData struct {
	Name string
	From string
}

type ConfigurationData struct {
	Name              string
	Values            map[string]string
	NameOverrides     map[string][]string
	OriginTypeAliases map[string]string
	Disabled          map[string]bool
}

type ExceptData struct {
	Scope   ExceptScope
	Targets []string
	// Exempt narrows (rather than widens) an ancestor's constraint for this
	// scope — a supplemented feature from original_source/ConstraintManager.h.
	Exempt bool
}

type VarCallData struct {
	GroupName     string
	VarName       string
	OverrideValue string
	HasOverride   bool
	// Resolved is filled in by the resolver: the override value if present,
	// else the named variable's value after inheritance resolution.
	Resolved string
}

// Node is the sum type over every AST variant. Only the field matching Kind
// is populated; the rest are nil/zero.
type Node struct {
	ID       NodeID
	Kind     Kind
	Loc      loc.Loc
	Parent   NodeID
	Children []NodeID

	Element   *ElementData
	Text      *TextData
	Comment   *CommentData
	Style     *StyleBlockData
	Script    *ScriptBlockData
	Template  *TemplateData
	Custom    *CustomData
	Inherit   *InheritData
	Delete    *DeleteData
	Insert    *InsertData
	Origin    *OriginData
	Import    *ImportData
	Namespace *NamespaceData
	Config    *ConfigurationData
	Except    *ExceptData
	VarCall   *VarCallData
}

// Arena owns every Node produced by a single compile. It is not safe for
// concurrent use — one pipeline instance owns exactly one Arena.
type Arena struct {
	nodes []Node
}

func NewArena() *Arena {
	return &Arena{nodes: make([]Node, 0, 64)}
}

// New allocates a Node of the given kind at the given location and returns
// its id. Callers populate the variant-specific field afterward.
func (a *Arena) New(kind Kind, l loc.Loc) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, Node{ID: id, Kind: kind, Loc: l, Parent: InvalidNode})
	return id
}

func (a *Arena) Get(id NodeID) *Node {
	if id < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return &a.nodes[id]
}

func (a *Arena) Len() int { return len(a.nodes) }

// AddChild appends child to parent's Children and sets child.Parent.
func (a *Arena) AddChild(parent, child NodeID) {
	a.Get(child).Parent = parent
	if parent == InvalidNode {
		return
	}
	p := a.Get(parent)
	p.Children = append(p.Children, child)
}
