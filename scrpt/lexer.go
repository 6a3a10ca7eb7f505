package scrpt

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer turns source text into tokens one call at a time. The cursor only
// moves forward and looks at most one rune ahead.
type Lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

// NewLexer prepares a lexer positioned on the first rune of input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *Lexer) readRune() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.offset >= len(l.input) {
		// EOF sits one column past the last rune.
		if l.width > 0 || l.offset == 0 {
			l.column++
		}
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w
	l.column++
	l.ch = r
}

func (l *Lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.width == 0
}

func (l *Lexer) currentOffset() int {
	return l.offset - l.width
}

// NextToken classifies the next lexeme. It never fails: unrecognised input
// comes back as a TokenInvalid carrying the offending text, and once the
// input is exhausted every call returns TokenEOF.
func (l *Lexer) NextToken() Token {
	pos := Position{Line: l.line, Column: l.column}
	if l.atEOF() {
		return Token{Type: TokenEOF, Pos: pos}
	}

	var tok Token
	switch ch := l.ch; {
	case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
		tok = l.single(TokenWhitespace)
	case ch == '+':
		tok = l.single(TokenPlus)
	case ch == '-':
		tok = l.single(TokenMinus)
	case ch == '*':
		tok = l.single(TokenAsterisk)
	case ch == '/':
		tok = l.single(TokenSlash)
	case ch == '{':
		tok = l.single(TokenLBrace)
	case ch == '}':
		tok = l.single(TokenRBrace)
	case ch == ';':
		tok = l.single(TokenSemicolon)
	case ch == '<':
		tok = l.withEquals(TokenLT, TokenLTE)
	case ch == '>':
		tok = l.withEquals(TokenGT, TokenGTE)
	case ch == '=':
		tok = l.withEquals(TokenAssign, TokenEQ)
	case ch == '!':
		tok = l.withEquals(TokenInvalid, TokenNotEQ)
	case ch == '"':
		tok = l.readString()
	case isDigit(ch):
		tok = l.readNumber()
	case isLetter(ch):
		tok = l.readIdentifier()
	default:
		tok = l.single(TokenInvalid)
	}
	tok.Pos = pos
	return tok
}

func (l *Lexer) single(tt TokenType) Token {
	// Sliced from the input so a malformed UTF-8 byte stays as written
	// rather than becoming U+FFFD.
	tok := Token{Type: tt, Literal: l.input[l.currentOffset():l.offset]}
	l.readRune()
	return tok
}

// withEquals resolves the one- and two-character forms of < > = !.
func (l *Lexer) withEquals(bare, withEq TokenType) Token {
	if l.peekRune() == '=' {
		first := l.ch
		l.readRune()
		tok := Token{Type: withEq, Literal: string(first) + "="}
		l.readRune()
		return tok
	}
	return l.single(bare)
}

func (l *Lexer) readNumber() Token {
	start := l.currentOffset()
	for isDigit(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()

	value, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return Token{Type: TokenInvalid, Literal: literal}
	}
	return Token{Type: TokenNumber, Literal: literal, Value: value}
}

func (l *Lexer) readIdentifier() Token {
	start := l.currentOffset()
	for r := l.peekRune(); isLetter(r) || isDigit(r); r = l.peekRune() {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()

	if kw, ok := keywords[literal]; ok {
		return Token{Type: kw, Literal: literal}
	}
	return Token{Type: TokenIdent, Literal: literal}
}

// readString scans a double-quoted literal. Strings may not span lines, so a
// newline before the closing quote ends the token as invalid, as does
// end-of-input.
func (l *Lexer) readString() Token {
	var sb strings.Builder
	sb.WriteRune(l.ch)

	for {
		l.readRune()
		if l.atEOF() {
			return Token{Type: TokenInvalid, Literal: sb.String()}
		}
		sb.WriteRune(l.ch)
		switch l.ch {
		case '"':
			l.readRune()
			return Token{Type: TokenString, Literal: sb.String()}
		case '\n', '\r':
			l.readRune()
			return Token{Type: TokenInvalid, Literal: sb.String()}
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Tokenize lexes source to completion. The returned slice always ends with a
// TokenEOF. If any invalid tokens were produced the slice is still returned,
// alongside a *LexError listing each of them.
func Tokenize(source string) ([]Token, error) {
	l := NewLexer(source)
	var (
		tokens  []Token
		invalid []Token
	)
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenInvalid {
			invalid = append(invalid, tok)
		}
		if tok.Type == TokenEOF {
			break
		}
	}
	if len(invalid) > 0 {
		return tokens, &LexError{Invalid: invalid, source: source}
	}
	return tokens, nil
}
