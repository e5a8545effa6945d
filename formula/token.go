package formula

// TokenType represents the type of token scanned from a formula.
type TokenType uint8

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	NUMBER // 123.45
	STRING // "quoted string"
	IDENT  // column ids, rate names, function names

	// Operators
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	EQ       // =
	LT       // <
	LTE      // <=
	GT       // >
	GTE      // >=
	NEQ      // <>

	// Delimiters
	LPAREN // (
	RPAREN // )
	COMMA  // ,
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	NUMBER: "NUMBER",
	STRING: "STRING",
	IDENT:  "IDENT",

	PLUS:     "+",
	MINUS:    "-",
	ASTERISK: "*",
	SLASH:    "/",
	EQ:       "=",
	LT:       "<",
	LTE:      "<=",
	GT:       ">",
	GTE:      ">=",
	NEQ:      "<>",

	LPAREN: "(",
	RPAREN: ")",
	COMMA:  ",",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token with zero-copy semantics.
// Instead of storing the token text as a string (which would allocate),
// we store byte offsets into the original formula source.
type Token struct {
	Type   TokenType
	Start  int // Byte offset into formula source
	End    int // End offset (exclusive)
	Column int // Column number (1-indexed, relative to the formula text)
}

// String materializes the token text from the formula source.
func (t Token) String(source []byte) string {
	if t.Start >= len(source) || t.End > len(source) || t.Start > t.End {
		return ""
	}
	return string(source[t.Start:t.End])
}

// Len returns the length of the token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}
