package generator_test

import (
	"testing"

	"github.com/chtl-lang/chtl/internal/generator"
	"github.com/chtl-lang/chtl/internal/testutil"
)

// Each case here renders a complete document end to end and snapshots it,
// so a change to document-shell assembly, escaping, or stream composition
// shows up as a diff against the accepted snapshot instead of a one-off
// string assertion.
func TestDocumentSnapshots(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{
			name: "basic page with inline and lifted styles",
			src: `
				body {
					div {
						style {
							color: "navy";
							.card {
								padding: "1em";
							}
						}
						text { "hello" }
					}
				}
				script {
					console.log("loaded");
				}
			`,
		},
		{
			name: "template expansion with origin content",
			src: `
				[Template] @Element Card {
					span { text { "templated" } }
				}
				body {
					@Element Card;
					[Origin] @Html {
						<marquee>banner</marquee>
					}
				}
			`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := render(t, c.src, generator.Options{PrettyPrint: true})
			testutil.MakeSnapshot(&testutil.SnapshotOptions{
				Testing:      t,
				TestCaseName: c.name,
				Input:        c.src,
				Output:       r.Output,
				Kind:         testutil.HtmlOutput,
			})
		})
	}
}
