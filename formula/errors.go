package formula

import "fmt"

// ParseError represents a syntax error in a formula.
// Column is 1-indexed relative to the formula text after the '=' marker,
// so callers can render a caret under the offending character.
type ParseError struct {
	Column  int
	Message string
	Source  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("column %d: %s", e.Column, e.Message)
}

// GetColumn returns the 1-indexed column of the error.
func (e *ParseError) GetColumn() int {
	return e.Column
}

// GetSource returns the formula text the error occurred in.
func (e *ParseError) GetSource() string {
	return e.Source
}

// errorAtToken creates a parse error positioned at the given token.
func (p *Parser) errorAtToken(tok Token, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
		Source:  string(p.source),
	}
}
