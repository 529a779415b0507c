package resolver

import (
	"bytes"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// substituteCSSDeclaration walks one rule's raw declaration-block text
// token by token via the same grammar parser used to scope selectors in
// the original reference implementation, substituting any embedded
// variable call (`Theme(primary)`) found in a declaration's value with its
// resolved value while leaving everything else byte-for-byte untouched.
func (r *Resolver) substituteCSSDeclaration(declaration string, chain []string) string {
	if declaration == "" || !strings.Contains(declaration, "(") {
		return declaration
	}

	p := css.NewParser(parse.NewInput(bytes.NewBufferString(declaration)), true)
	var out strings.Builder

	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if len(data) > 0 {
				out.Write(data)
			}
			return out.String()
		case css.DeclarationGrammar:
			out.Write(data)
			out.WriteByte(':')
			var val strings.Builder
			for _, tok := range p.Values() {
				val.Write(tok.Data)
			}
			out.WriteString(r.substituteEmbeddedVarCalls(val.String(), chain))
			out.WriteByte(';')
		default:
			out.Write(data)
			for _, tok := range p.Values() {
				out.Write(tok.Data)
			}
		}
	}
}
