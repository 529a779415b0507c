// Package testutil holds dedent-based fixture helpers and snapshot/diff
// tooling for tests (used by internal/generator's snapshot tests).
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/google/go-cmp/cmp"
	"github.com/lithammer/dedent"
)

func RemoveNewlines(input string) string {
	return strings.ReplaceAll(input, "\n", "")
}

func Dedent(input string) string {
	return dedent.Dedent( // removes any leading whitespace
		strings.ReplaceAll( // compress linebreaks to 1 or 2 lines max
			strings.TrimLeft(
				strings.TrimRight(input, " \n\r"), // remove any trailing whitespace
				" \t\r\n"),                        // remove leading whitespace
			"\n\n\n", "\n\n"),
	)
}

func ANSIDiff(x, y interface{}, opts ...cmp.Option) string {
	escapeCode := func(code int) string {
		return fmt.Sprintf("\x1b[%dm", code)
	}
	diff := cmp.Diff(x, y, opts...)
	if diff == "" {
		return ""
	}
	ss := strings.Split(diff, "\n")
	for i, s := range ss {
		switch {
		case strings.HasPrefix(s, "-"):
			ss[i] = escapeCode(31) + s + escapeCode(0)
		case strings.HasPrefix(s, "+"):
			ss[i] = escapeCode(32) + s + escapeCode(0)
		}
	}
	return strings.Join(ss, "\n")
}

// RedactTestName strips characters that are unsafe in a snapshot filename.
func RedactTestName(testCaseName string) string {
	snapshotName := testCaseName
	for _, r := range []string{"#", "<", ">", ")", "(", ":", " ", "'", "\"", "@", "`", "+"} {
		snapshotName = strings.ReplaceAll(snapshotName, r, "_")
	}
	return snapshotName
}

type OutputKind int

const (
	JsOutput OutputKind = iota
	JsonOutput
	CssOutput
	HtmlOutput
)

var outputKind = map[OutputKind]string{
	JsOutput:   "js",
	JsonOutput: "json",
	CssOutput:  "css",
	HtmlOutput: "html",
}

type SnapshotOptions struct {
	Testing      *testing.T
	TestCaseName string
	Input        string
	Output       string
	Kind         OutputKind
	FolderName   string
}

// MakeSnapshot records a snapshot pairing a test case's source input with
// its compiled output, so a regression in the generated HTML/CSS/JS shows
// up as a diff against the last accepted snapshot.
func MakeSnapshot(options *SnapshotOptions) {
	t := options.Testing
	input := options.Input
	output := options.Output
	kind := options.Kind

	folderName := "__snapshots__"
	if options.FolderName != "" {
		folderName = options.FolderName
	}
	snapshotName := RedactTestName(options.TestCaseName)

	s := snaps.WithConfig(
		snaps.Filename(snapshotName),
		snaps.Dir(folderName),
	)

	snapshot := "## Input\n\n```\n"
	snapshot += Dedent(input)
	snapshot += "\n```\n\n## Output\n\n"
	snapshot += "```" + outputKind[kind] + "\n"
	snapshot += Dedent(output)
	snapshot += "\n```"

	s.MatchSnapshot(t, snapshot)
}
