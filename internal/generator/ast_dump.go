package generator

import (
	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/go-json-experiment/json"
)

// astDumpNode is the JSON shape one AST node serializes to for the --ast
// CLI flag: enough structure to inspect the resolved tree without exposing
// arena internals (NodeID indices, parent back-references) to the host.
type astDumpNode struct {
	Kind     string        `json:"kind"`
	Tag      string        `json:"tag,omitempty"`
	Text     string        `json:"text,omitempty"`
	Children []astDumpNode `json:"children,omitempty"`
}

func dumpNode(a *ast.Arena, id ast.NodeID) astDumpNode {
	node := a.Get(id)
	out := astDumpNode{Kind: node.Kind.String()}
	switch node.Kind {
	case ast.KindElement:
		out.Tag = node.Element.Tag
	case ast.KindText:
		out.Text = node.Text.Content
	case ast.KindComment:
		out.Text = node.Comment.Content
	}
	for _, childID := range node.Children {
		out.Children = append(out.Children, dumpNode(a, childID))
	}
	return out
}

// DumpAST renders root as a JSON document, for the reference CLI's `--ast`
// flag.
func DumpAST(a *ast.Arena, root ast.NodeID) ([]byte, error) {
	return json.Marshal(dumpNode(a, root))
}
