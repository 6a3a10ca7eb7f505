package scrpt

import "fmt"

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	TokenInvalid    TokenType = "INVALID"
	TokenEOF        TokenType = "EOF"
	TokenWhitespace TokenType = "WHITESPACE"

	TokenIdent  TokenType = "IDENT"
	TokenNumber TokenType = "NUMBER"
	TokenString TokenType = "STRING"

	TokenPlus      TokenType = "+"
	TokenMinus     TokenType = "-"
	TokenAsterisk  TokenType = "*"
	TokenSlash     TokenType = "/"
	TokenLBrace    TokenType = "{"
	TokenRBrace    TokenType = "}"
	TokenSemicolon TokenType = ";"

	TokenAssign TokenType = "="
	TokenEQ     TokenType = "=="
	TokenNotEQ  TokenType = "!="
	TokenLT     TokenType = "<"
	TokenLTE    TokenType = "<="
	TokenGT     TokenType = ">"
	TokenGTE    TokenType = ">="

	TokenLet   TokenType = "LET"
	TokenIf    TokenType = "IF"
	TokenElse  TokenType = "ELSE"
	TokenWhile TokenType = "WHILE"
	TokenPrint TokenType = "PRINT"
	TokenInput TokenType = "INPUT"
)

// keywords is the read-only keyword table consulted after an identifier run
// has been scanned. Matching is exact and case-sensitive.
var keywords = map[string]TokenType{
	"let":   TokenLet,
	"if":    TokenIf,
	"else":  TokenElse,
	"while": TokenWhile,
	"print": TokenPrint,
	"input": TokenInput,
}

// Keywords returns the reserved words of the language in lexical order.
func Keywords() []string {
	return []string{"else", "if", "input", "let", "print", "while"}
}

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string // raw matched text; string tokens keep their quotes
	Value   int64  // parsed value of a TokenNumber
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  %d:%d", t.Type, t.Literal, t.Pos.Line, t.Pos.Column)
}

// Position identifies a 1-based line and column in the source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
