package sable

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
)

// DiagnosticKind is the broad class of a diagnostic.
type DiagnosticKind string

const (
	ParseError    DiagnosticKind = "ParseError"
	TypeError     DiagnosticKind = "TypeError"
	LexicalError  DiagnosticKind = "Lexical"
	InternalError DiagnosticKind = "Internal"
)

// DiagnosticCode identifies the specific problem within a kind.
type DiagnosticCode string

const (
	ExpectedExpression      DiagnosticCode = "ExpectedExpression"
	ExpectedToken           DiagnosticCode = "ExpectedToken"
	UnclosedDelimiter       DiagnosticCode = "UnclosedDelimiter"
	RecursionLimitExceeded  DiagnosticCode = "RecursionLimitExceeded"
	BreakOutsideLoop        DiagnosticCode = "BreakOutsideLoop"
	ReturnOutsideFunction   DiagnosticCode = "ReturnOutsideFunction"
	InvalidAssignmentTarget DiagnosticCode = "InvalidAssignmentTarget"

	UnboundVariable    DiagnosticCode = "UnboundVariable"
	UnificationFailure DiagnosticCode = "UnificationFailure"
	OccursCheckFailure DiagnosticCode = "OccursCheckFailure"

	PolymorphicAssignment DiagnosticCode = "PolymorphicAssignment"

	InvalidCharacter   DiagnosticCode = "InvalidCharacter"
	UnterminatedString DiagnosticCode = "UnterminatedString"

	UnresolvedTypeVariable DiagnosticCode = "UnresolvedTypeVariable"
	InternalFailure        DiagnosticCode = "InternalFailure"
)

// Slug returns the code in kebab case, as shown to users.
func (c DiagnosticCode) Slug() string {
	return strcase.ToKebab(string(c))
}

// Diagnostic is a single reported problem with its source position.
type Diagnostic struct {
	Kind     DiagnosticKind `yaml:"kind"`
	Code     DiagnosticCode `yaml:"code"`
	Message  string         `yaml:"message"`
	Filename string         `yaml:"file,omitempty"`
	Line     int            `yaml:"line"`
	Column   int            `yaml:"column"`
	Length   int            `yaml:"length,omitempty"`

	// Populated for ExpectedToken.
	Expected string `yaml:"expected,omitempty"`
	Found    string `yaml:"found,omitempty"`
}

// Location returns the diagnostic's position.
func (d Diagnostic) Location() *SourceLocation {
	return &SourceLocation{
		Filename: d.Filename,
		Line:     d.Line,
		Column:   d.Column,
		Length:   max(d.Length, 1),
	}
}

func (d Diagnostic) Error() string {
	pos := fmt.Sprintf("%d:%d", d.Line, d.Column)
	if d.Filename != "" {
		pos = d.Filename + ":" + pos
	}
	return fmt.Sprintf("%s: %s[%s]: %s", pos, d.Kind, d.Code.Slug(), d.Message)
}

func newDiagnostic(kind DiagnosticKind, code DiagnosticCode, loc *SourceLocation, format string, args ...any) Diagnostic {
	d := Diagnostic{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
	if loc != nil {
		d.Filename = loc.Filename
		d.Line = loc.Line
		d.Column = loc.Column
		d.Length = loc.Length
	}
	return d
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []Diagnostic

// Sort orders diagnostics by position, keeping the relative order of
// diagnostics reported at the same position.
func (ds Diagnostics) Sort() {
	slices.SortStableFunc(ds, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Filename, b.Filename),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
		)
	})
}

func (ds Diagnostics) HasErrors() bool {
	return len(ds) > 0
}

// Count returns the number of diagnostics of the given kind.
func (ds Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Codes lists the code of each diagnostic in order.
func (ds Diagnostics) Codes() []DiagnosticCode {
	codes := make([]DiagnosticCode, len(ds))
	for i, d := range ds {
		codes[i] = d.Code
	}
	return codes
}

// Err returns nil if there are no diagnostics, and an error carrying all
// of them otherwise.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return &DiagnosticsError{Diagnostics: ds}
}

// DiagnosticsError wraps a non-empty diagnostic list as an error.
type DiagnosticsError struct {
	Diagnostics Diagnostics
}

func (e *DiagnosticsError) Unwrap() []error {
	errs := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		errs[i] = d
	}
	return errs
}

func (e *DiagnosticsError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].Error()
	}
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Error()
	}
	return fmt.Sprintf("%d errors:\n%s", len(e.Diagnostics), strings.Join(msgs, "\n"))
}
