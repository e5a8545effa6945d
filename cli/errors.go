package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roelvdberg/rekenblad/formula"
	"github.com/roelvdberg/rekenblad/schema"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders schema errors with terminal styling. Syntax
// errors get their formula echoed back with a caret under the
// offending character.
type ErrorRenderer struct{}

// NewErrorRenderer creates a renderer.
func NewErrorRenderer() *ErrorRenderer {
	return &ErrorRenderer{}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	if e, ok := err.(*schema.FormulaSyntaxError); ok {
		return r.renderSyntaxError(e)
	}

	if e, ok := err.(*schema.ValidationErrors); ok {
		return r.RenderAll(e.Errors)
	}

	return errorStyle.Render(err.Error())
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// renderSyntaxError echoes the formula with a caret. The parse error's
// column is 1-indexed relative to the text after the '=' marker, so the
// caret shifts one position right to account for the echoed marker.
func (r *ErrorRenderer) renderSyntaxError(e *schema.FormulaSyntaxError) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(e.Error()))

	var parseErr *formula.ParseError
	if e.Err != nil {
		parseErr = e.Err
	}
	if parseErr == nil || parseErr.Source == "" {
		return buf.String()
	}

	buf.WriteString("\n\n")
	buf.WriteString("   ")
	buf.WriteString(errContextStyle.Render(formula.Marker + parseErr.Source))
	buf.WriteByte('\n')

	if parseErr.Column > 0 {
		buf.WriteString("   ")
		buf.WriteString(strings.Repeat(" ", len(formula.Marker)+parseErr.Column-1))
		buf.WriteString(errCaretStyle.Render("^"))
	}

	return buf.String()
}
