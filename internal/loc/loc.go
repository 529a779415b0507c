// Package loc carries source locations and the diagnostic vocabulary shared
// by every pass of the pipeline (scanner, lexer, parser, resolver, generator).
package loc

// Loc is the 0-based byte offset of a position from the start of a file.
type Loc struct {
	Start int
}

// Range is a byte span: [Loc.Start, Loc.Start+Len).
type Range struct {
	Loc Loc
	Len int
}

func (r Range) End() int {
	return r.Loc.Start + r.Len
}

// Span is a half-open byte range, start inclusive, end exclusive.
type Span struct {
	Start, End int
}

// Position is a Loc resolved against a source file into line/column form,
// 1-based, for human-facing diagnostics.
type Position struct {
	File   string
	Line   int
	Column int
}

// DiagnosticSeverity is the closed set of diagnostic levels. Fatal aborts the
// compile; Error taints the result but lets the pipeline continue.
type DiagnosticSeverity int

const (
	Hint DiagnosticSeverity = iota
	Info
	Warning
	Error
	Fatal
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case Hint:
		return "hint"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	}
	return "unknown"
}

// Kind is the closed taxonomy of diagnostic families from the error handling
// design: lexical, syntactic, semantic, import resolution, configuration.
type Kind int

const (
	KindLexical Kind = iota
	KindSyntactic
	KindSemantic
	KindImportResolution
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntactic:
		return "syntactic"
	case KindSemantic:
		return "semantic"
	case KindImportResolution:
		return "import-resolution"
	case KindConfiguration:
		return "configuration"
	}
	return "unknown"
}

// DiagnosticLocation is a resolved, file-relative location attached to a
// DiagnosticMessage for display to a human.
type DiagnosticLocation struct {
	File   string
	Line   int
	Column int
	Length int
}

// DiagnosticMessage is the final, resolved form of a diagnostic: ready to
// print, with byte offsets already turned into line/column pairs.
type DiagnosticMessage struct {
	Code      DiagnosticCode
	Kind      Kind
	Severity  DiagnosticSeverity
	Text      string
	Location  *DiagnosticLocation
	Secondary []DiagnosticLocation
}

// ErrorWithRange is the error type raised by every pass of the pipeline. It
// carries its own byte range so the handler can resolve it to a line/column
// without passes needing to know about source text at all.
type ErrorWithRange struct {
	Code      DiagnosticCode
	Kind      Kind
	Text      string
	Range     Range
	Secondary []Range
}

func (e *ErrorWithRange) Error() string {
	return e.Text
}

func (e *ErrorWithRange) ToMessage(severity DiagnosticSeverity, location *DiagnosticLocation, secondary []DiagnosticLocation) DiagnosticMessage {
	return DiagnosticMessage{
		Code:      e.Code,
		Kind:      e.Kind,
		Severity:  severity,
		Text:      e.Text,
		Location:  location,
		Secondary: secondary,
	}
}
