package formula

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parser builds an AST from a formula string.
//
// Grammar (low to high precedence):
//
//	comparison  → additive (('=' | '<' | '<=' | '>' | '>=' | '<>') additive)*
//	additive    → term (('+' | '-') term)*
//	term        → unary (('*' | '/') unary)*
//	unary       → '-' unary | primary
//	primary     → NUMBER | STRING | IDENT | IDENT '(' args ')' | '(' comparison ')'
//	args        → (comparison (',' comparison)*)?
//
// A parse failure is a template validation error: formulas are parsed
// once when a template is saved, never while evaluating rows.
type Parser struct {
	source []byte
	tokens []Token
	pos    int
}

// Marker is the prefix that distinguishes a formula from a plain value.
const Marker = "="

// IsFormula reports whether the string is a formula. Anything without
// the leading '=' is a literal or blank, not an expression.
func IsFormula(s string) bool {
	return strings.HasPrefix(s, Marker)
}

// Parse parses a formula string into an AST. The string may carry the
// leading '=' marker; it is stripped before lexing. Trailing input after
// a complete expression is an error.
func Parse(s string) (Node, error) {
	s = strings.TrimPrefix(s, Marker)
	source := []byte(s)

	if strings.TrimSpace(s) == "" {
		return nil, &ParseError{Column: 1, Message: "empty formula", Source: s}
	}

	lexer := NewLexer(source)
	p := &Parser{source: source, tokens: lexer.ScanAll()}

	node, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	if !p.check(EOF) {
		tok := p.peek()
		return nil, p.errorAtToken(tok, "unexpected %q after expression", tok.String(p.source))
	}

	return node, nil
}

// binaryPrecedence returns the precedence for a binary operator token,
// or 0 if the token is not a binary operator. Higher binds tighter.
func binaryPrecedence(t TokenType) int {
	switch t {
	case EQ, LT, LTE, GT, GTE, NEQ:
		return 1
	case PLUS, MINUS:
		return 2
	case ASTERISK, SLASH:
		return 3
	default:
		return 0
	}
}

// parseExpr is the precedence-climbing core.
func (p *Parser) parseExpr(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		prec := binaryPrecedence(op.Type)
		if prec == 0 || prec < minPrec {
			break
		}

		p.advance() // consume operator

		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op.Type.String(), Left: left, Right: right}
	}

	return left, nil
}

// parseUnary handles unary minus: -expr
func (p *Parser) parseUnary() (Node, error) {
	if p.check(MINUS) {
		p.advance() // consume '-'

		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Unary{Op: "-", Expr: expr}, nil
	}

	return p.parsePrimary()
}

// parsePrimary handles literals, references, calls and grouping.
func (p *Parser) parsePrimary() (Node, error) {
	tok := p.peek()

	switch tok.Type {
	case NUMBER:
		numTok := p.advance()
		value := numTok.String(p.source)

		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, p.errorAtToken(numTok, "invalid number %q: %v", value, err)
		}

		return &NumberLit{Value: d}, nil

	case STRING:
		strTok := p.advance()
		text := strTok.String(p.source)
		// Strip the surrounding quotes the lexer kept.
		return &StringLit{Value: text[1 : len(text)-1]}, nil

	case IDENT:
		identTok := p.advance()
		name := identTok.String(p.source)

		// A '(' directly after an identifier makes it a function call.
		if p.check(LPAREN) {
			return p.parseCall(identTok, name)
		}

		return &Reference{Name: name}, nil

	case LPAREN:
		p.advance() // consume '('

		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}

		if !p.check(RPAREN) {
			return nil, p.errorAtToken(p.peek(), "expected ')' after expression")
		}
		p.advance() // consume ')'

		return expr, nil

	case EOF:
		return nil, p.errorAtToken(tok, "unexpected end of formula")

	default:
		return nil, p.errorAtToken(tok, "unexpected %q", tok.String(p.source))
	}
}

// parseCall parses the argument list of NAME(arg, arg, ...).
// Any arity is accepted here; arity checks belong to the evaluator.
func (p *Parser) parseCall(nameTok Token, name string) (Node, error) {
	p.advance() // consume '('

	call := &Call{Name: strings.ToUpper(name)}

	// Empty argument list: NAME()
	if p.check(RPAREN) {
		p.advance()
		return call, nil
	}

	for {
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		if p.check(COMMA) {
			p.advance()
			continue
		}
		break
	}

	if !p.check(RPAREN) {
		return nil, p.errorAtToken(p.peek(), "expected ')' to close %s(...)", call.Name)
	}
	p.advance() // consume ')'

	return call, nil
}

// Helper methods

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(t TokenType) bool {
	return p.peek().Type == t
}
