// Package handler accumulates diagnostics raised by every pass of the
// pipeline and resolves their byte offsets into line/column positions only
// once, on demand, so hot passes never need to touch source text themselves.
package handler

import (
	"errors"
	"sort"
	"strings"

	"github.com/chtl-lang/chtl/internal/loc"
)

// Handler is owned by a single compiler instance (see the concurrency
// model: one pipeline, one Handler, no sharing across goroutines).
type Handler struct {
	sourcetext  string
	filename    string
	lineOffsets []int
	strict      bool

	errors   []error
	warnings []error
	infos    []error
	hints    []error
	fatal    error
}

// New builds a Handler for one compilation unit. strict controls whether
// Warnings are folded into the error count by HasErrors.
func New(sourcetext, filename string, strict bool) *Handler {
	return &Handler{
		sourcetext:  sourcetext,
		filename:    filename,
		lineOffsets: lineOffsets(sourcetext),
		strict:      strict,
	}
}

func lineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// PositionFor resolves a byte offset into a 1-based line/column pair.
func (h *Handler) PositionFor(l loc.Loc) loc.Position {
	offsets := h.lineOffsets
	line := sort.Search(len(offsets), func(i int) bool { return offsets[i] > l.Start }) - 1
	if line < 0 {
		line = 0
	}
	col := l.Start - offsets[line] + 1
	return loc.Position{File: h.filename, Line: line + 1, Column: col}
}

func (h *Handler) AppendError(err error) {
	if err != nil {
		h.errors = append(h.errors, err)
	}
}

func (h *Handler) AppendWarning(err error) {
	if err != nil {
		h.warnings = append(h.warnings, err)
	}
}

func (h *Handler) AppendInfo(err error) {
	if err != nil {
		h.infos = append(h.infos, err)
	}
}

func (h *Handler) AppendHint(err error) {
	if err != nil {
		h.hints = append(h.hints, err)
	}
}

// SetFatal records an unrecoverable error. A fatal handler aborts the
// pipeline at the next checkpoint; Success always returns false afterward.
func (h *Handler) SetFatal(err error) {
	if h.fatal == nil {
		h.fatal = err
	}
}

func (h *Handler) IsFatal() bool {
	return h.fatal != nil
}

func (h *Handler) FatalError() error {
	return h.fatal
}

func (h *Handler) HasErrors() bool {
	if h.fatal != nil || len(h.errors) > 0 {
		return true
	}
	return h.strict && len(h.warnings) > 0
}

// Success implements the `success = (no error-or-fatal diagnostics)` rule.
func (h *Handler) Success() bool {
	return !h.HasErrors()
}

func (h *Handler) Errors() []loc.DiagnosticMessage   { return h.toMessages(h.errors, loc.Error) }
func (h *Handler) Warnings() []loc.DiagnosticMessage { return h.toMessages(h.warnings, loc.Warning) }
func (h *Handler) Infos() []loc.DiagnosticMessage    { return h.toMessages(h.infos, loc.Info) }
func (h *Handler) Hints() []loc.DiagnosticMessage    { return h.toMessages(h.hints, loc.Hint) }

// Diagnostics returns every accumulated diagnostic, most severe first.
func (h *Handler) Diagnostics() []loc.DiagnosticMessage {
	msgs := make([]loc.DiagnosticMessage, 0, len(h.errors)+len(h.warnings)+len(h.infos)+len(h.hints)+1)
	if h.fatal != nil {
		msgs = append(msgs, h.toMessage(h.fatal, loc.Fatal))
	}
	msgs = append(msgs, h.Errors()...)
	msgs = append(msgs, h.Warnings()...)
	msgs = append(msgs, h.Infos()...)
	msgs = append(msgs, h.Hints()...)
	return msgs
}

func (h *Handler) toMessages(errs []error, severity loc.DiagnosticSeverity) []loc.DiagnosticMessage {
	msgs := make([]loc.DiagnosticMessage, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, h.toMessage(err, severity))
	}
	return msgs
}

func (h *Handler) toMessage(err error, severity loc.DiagnosticSeverity) loc.DiagnosticMessage {
	var rangedError *loc.ErrorWithRange
	switch {
	case errors.As(err, &rangedError):
		pos := h.PositionFor(rangedError.Range.Loc)
		location := &loc.DiagnosticLocation{
			File:   h.filename,
			Line:   pos.Line,
			Column: pos.Column,
			Length: rangedError.Range.Len,
		}
		var secondary []loc.DiagnosticLocation
		for _, r := range rangedError.Secondary {
			p := h.PositionFor(r.Loc)
			secondary = append(secondary, loc.DiagnosticLocation{File: h.filename, Line: p.Line, Column: p.Column, Length: r.Len})
		}
		return rangedError.ToMessage(severity, location, secondary)
	default:
		return loc.DiagnosticMessage{Severity: severity, Text: err.Error()}
	}
}

// Format renders a diagnostic the way a terminal-facing CLI would.
func Format(m loc.DiagnosticMessage) string {
	var b strings.Builder
	b.WriteString(m.Severity.String())
	b.WriteString(": ")
	b.WriteString(m.Text)
	if m.Location != nil {
		b.WriteString(" (")
		b.WriteString(m.Location.File)
		b.WriteString(")")
	}
	return b.String()
}
