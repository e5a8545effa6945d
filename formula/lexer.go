package formula

// Lexer tokenizes a single formula expression.
//
// Formulas are short (one line), so the lexer stays zero-copy: tokens
// store byte offsets into the source, text only materializes when
// needed.
//
// The comma is strictly an argument separator. Decimal numbers use '.'
// as the decimal separator, so "ROUND(a, 2)" never lexes ambiguously.
type Lexer struct {
	source []byte // Formula text, without the leading '='
	pos    int    // Current byte position
	column int    // Current column (1-indexed)
	tokens []Token
}

// NewLexer creates a new lexer for the given formula text.
// The text must not include the leading '=' marker.
func NewLexer(source []byte) *Lexer {
	return &Lexer{
		source: source,
		column: 1,
		tokens: make([]Token, 0, len(source)/2+4),
	}
}

// ScanAll lexes the entire formula and returns all tokens.
// This is a single-pass scanner with no backtracking.
func (l *Lexer) ScanAll() []Token {
	for l.pos < len(l.source) {
		l.skipWhitespace()

		if l.pos >= len(l.source) {
			break
		}

		tok := l.scanToken()
		l.tokens = append(l.tokens, tok)
	}

	l.tokens = append(l.tokens, Token{
		Type:   EOF,
		Start:  l.pos,
		End:    l.pos,
		Column: l.column,
	})

	return l.tokens
}

// scanToken scans the next token from the current position.
func (l *Lexer) scanToken() Token {
	start := l.pos
	startCol := l.column

	ch := l.advance()

	switch {
	case ch >= '0' && ch <= '9':
		return l.scanNumber(start, startCol)

	case ch == '"':
		return l.scanString(start, startCol)

	case isIdentStart(ch):
		return l.scanIdent(start, startCol)

	case ch == '+':
		return Token{PLUS, start, l.pos, startCol}
	case ch == '-':
		return Token{MINUS, start, l.pos, startCol}
	case ch == '*':
		return Token{ASTERISK, start, l.pos, startCol}
	case ch == '/':
		return Token{SLASH, start, l.pos, startCol}
	case ch == '(':
		return Token{LPAREN, start, l.pos, startCol}
	case ch == ')':
		return Token{RPAREN, start, l.pos, startCol}
	case ch == ',':
		return Token{COMMA, start, l.pos, startCol}
	case ch == '=':
		return Token{EQ, start, l.pos, startCol}

	// < or <= or <>
	case ch == '<':
		if l.peek() == '=' {
			l.advance()
			return Token{LTE, start, l.pos, startCol}
		}
		if l.peek() == '>' {
			l.advance()
			return Token{NEQ, start, l.pos, startCol}
		}
		return Token{LT, start, l.pos, startCol}

	// > or >=
	case ch == '>':
		if l.peek() == '=' {
			l.advance()
			return Token{GTE, start, l.pos, startCol}
		}
		return Token{GT, start, l.pos, startCol}

	default:
		return Token{ILLEGAL, start, l.pos, startCol}
	}
}

// scanNumber scans a number: [0-9]+(\.[0-9]+)?
// The sign is not part of the number; unary minus is a parser concern.
func (l *Lexer) scanNumber(start, col int) Token {
	for l.pos < len(l.source) && l.source[l.pos] >= '0' && l.source[l.pos] <= '9' {
		l.advance()
	}

	// Optional decimal part; the '.' must be followed by a digit so a
	// trailing dot stays outside the token.
	if l.pos < len(l.source) && l.source[l.pos] == '.' {
		if l.pos+1 < len(l.source) && l.source[l.pos+1] >= '0' && l.source[l.pos+1] <= '9' {
			l.advance() // consume '.'
			for l.pos < len(l.source) && l.source[l.pos] >= '0' && l.source[l.pos] <= '9' {
				l.advance()
			}
		}
	}

	return Token{NUMBER, start, l.pos, col}
}

// scanString scans a quoted string: "..."
// The token includes both quotes; an unterminated string runs to the end
// of the formula and is rejected by the parser.
func (l *Lexer) scanString(start, col int) Token {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == '"' {
			l.advance() // consume closing quote
			return Token{STRING, start, l.pos, col}
		}
		l.advance()
	}

	return Token{ILLEGAL, start, l.pos, col}
}

// scanIdent scans an identifier: column id, rate name, or function name.
// Identifiers match [A-Za-z_][A-Za-z0-9_]*, the same charset column ids
// are validated against, so ids embed unambiguously in formula text.
func (l *Lexer) scanIdent(start, col int) Token {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if !isIdentStart(ch) && (ch < '0' || ch > '9') {
			break
		}
		l.advance()
	}

	return Token{IDENT, start, l.pos, col}
}

func isIdentStart(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch != ' ' && ch != '\t' {
			break
		}
		l.pos++
		l.column++
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	l.column++
	return ch
}
