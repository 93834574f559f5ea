package sable

import (
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/pkg/errors"

	"github.com/vito/sable/pkg/hm"
)

// SourceLocation represents a location in source code
type SourceLocation struct {
	Filename string
	Line     int
	Column   int
	Length   int // Length of the syntax node that caused the error
}

func (loc *SourceLocation) String() string {
	if loc == nil {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", loc.Filename, loc.Line, loc.Column)
}

// SourceLocatable is implemented by anything that knows where it came from.
type SourceLocatable interface {
	GetSourceLocation() *SourceLocation
}

// UnboundVariableError reports a reference to a name with no binding in
// scope.
type UnboundVariableError struct {
	Name string
}

func (e UnboundVariableError) Error() string {
	return fmt.Sprintf("%s not found in scope", e.Name)
}

// PolymorphicAssignmentError reports an assignment to a name whose type
// is generalized. A new value could only be checked against one instance,
// leaving the other uses of the name unsound.
type PolymorphicAssignmentError struct {
	Name   string
	Scheme *hm.Scheme
}

func (e PolymorphicAssignmentError) Error() string {
	return fmt.Sprintf("cannot assign to %s: its type %s is polymorphic", e.Name, e.Scheme.Normalize())
}

// InferError is a type error attached to the node that caused it.
type InferError struct {
	Inner    error
	Location *SourceLocation
	Node     Node
}

func (e *InferError) Error() string {
	return e.Inner.Error()
}

func (e *InferError) Unwrap() error {
	return e.Inner
}

// NewInferError creates an InferError located at node.
func NewInferError(inner error, node SourceLocatable) *InferError {
	ie := &InferError{Inner: inner}
	if node != nil {
		ie.Location = node.GetSourceLocation()
		if n, ok := node.(Node); ok {
			ie.Node = n
		}
	}
	return ie
}

// WrapInferError attaches node's location to err unless it already has one.
func WrapInferError(err error, node SourceLocatable) error {
	if err == nil {
		return nil
	}
	var located *InferError
	if errors.As(err, &located) {
		return err
	}
	return NewInferError(err, node)
}

// ConvertInferError turns an inference error into a diagnostic.
func ConvertInferError(err error) Diagnostic {
	var loc *SourceLocation
	var located *InferError
	if errors.As(err, &located) {
		loc = located.Location
	}

	var unbound UnboundVariableError
	var poly PolymorphicAssignmentError
	var mismatch hm.UnificationError
	var occurs hm.OccursCheckError
	switch {
	case errors.As(err, &unbound):
		return newDiagnostic(TypeError, UnboundVariable, loc, "%s", err)
	case errors.As(err, &poly):
		return newDiagnostic(TypeError, PolymorphicAssignment, loc, "%s", err)
	case errors.As(err, &occurs):
		return newDiagnostic(TypeError, OccursCheckFailure, loc, "%s", err)
	case errors.As(err, &mismatch):
		return newDiagnostic(TypeError, UnificationFailure, loc, "%s", err)
	default:
		return newDiagnostic(InternalError, InternalFailure, loc, "%s", err)
	}
}

// SourceError pairs a diagnostic with the source text it refers to, for
// display.
type SourceError struct {
	Diagnostic Diagnostic
	Source     string // The source code of the file
}

// NewSourceError creates a new SourceError
func NewSourceError(d Diagnostic, source string) *SourceError {
	return &SourceError{
		Diagnostic: d,
		Source:     source,
	}
}

func (e *SourceError) Unwrap() error {
	return e.Diagnostic
}

func (e *SourceError) Error() string {
	return e.Format(false)
}

var (
	errorHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	locationStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	gutterStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	focusLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	underlineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Format renders the diagnostic with a few lines of surrounding source and
// a caret underline. Styles are stripped unless color is set.
func (e *SourceError) Format(color bool) string {
	d := e.Diagnostic
	if e.Source == "" && d.Filename != "" {
		contents, err := os.ReadFile(d.Filename)
		if err == nil {
			e.Source = string(contents)
		}
	}

	var result strings.Builder
	result.WriteString(errorHeaderStyle.Render(fmt.Sprintf("%s[%s]:", d.Kind, d.Code.Slug())))
	result.WriteString(" " + d.Message + "\n")
	result.WriteString("  " + locationStyle.Render(fmt.Sprintf("--> %s:%d:%d", d.Filename, d.Line, d.Column)) + "\n")

	lines := strings.Split(e.Source, "\n")
	if d.Line >= 1 && d.Line <= len(lines) {
		result.WriteString(gutterStyle.Render(" "+padLeft("", 3)+" |") + "\n")

		startLine := max(1, d.Line-2)
		endLine := min(len(lines), d.Line+2)
		for i := startLine; i <= endLine; i++ {
			num := padLeft(fmt.Sprintf("%d", i), 3)
			if i == d.Line {
				result.WriteString(" " + focusLineStyle.Render(num) + gutterStyle.Render(" | ") + lines[i-1] + "\n")
				padding := strings.Repeat(" ", 1+3+3+max(d.Column-1, 0))
				result.WriteString(padding + underlineStyle.Render(strings.Repeat("^", max(1, d.Length))) + "\n")
			} else {
				result.WriteString(gutterStyle.Render(" "+num+" | ") + lines[i-1] + "\n")
			}
		}

		result.WriteString(gutterStyle.Render(" "+padLeft("", 3)+" |") + "\n")
	}

	if color {
		return result.String()
	}
	return ansi.Strip(result.String())
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
