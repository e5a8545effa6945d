package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/roelvdberg/rekenblad/formula"
)

// DoctorCmd provides utilities for debugging formulas.
type DoctorCmd struct {
	Lex   LexCmd   `cmd:"" help:"Show lexical tokens of a formula."`
	Parse ParseCmd `cmd:"" help:"Show the parsed structure of a formula."`
}

// LexCmd shows the lexical tokens of a formula string.
type LexCmd struct {
	Formula string `help:"Formula text, including the leading '='." arg:""`
}

func (cmd *LexCmd) Run(ctx *kong.Context, globals *Globals) error {
	source := cmd.Formula
	if formula.IsFormula(source) {
		source = source[len(formula.Marker):]
	}

	lexer := formula.NewLexer([]byte(source))
	tokens := lexer.ScanAll()

	for _, token := range tokens {
		if token.Type == formula.EOF {
			continue
		}

		_, _ = fmt.Fprintf(ctx.Stdout, "%-10s col %-4d %q\n",
			token.Type.String(),
			token.Column,
			token.String([]byte(source)))
	}

	return nil
}

// ParseCmd parses a formula and prints its references, so template
// authors can see which columns and rates a formula depends on.
type ParseCmd struct {
	Formula string `help:"Formula text, including the leading '='." arg:""`
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	node, err := formula.Parse(cmd.Formula)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(1)
	}

	refs := formula.References(node)
	if len(refs) == 0 {
		printInfof(ctx.Stdout, "No references")
		return nil
	}

	for _, ref := range refs {
		_, _ = fmt.Fprintln(ctx.Stdout, ref)
	}

	return nil
}
