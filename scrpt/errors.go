package scrpt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrUnexpectedToken   = errors.New("unexpected token")
	ErrMissingToken      = errors.New("missing token")
	ErrRedeclared        = errors.New("identifier already declared")
	ErrUndeclared        = errors.New("identifier not declared")
	ErrUnsupportedTarget = errors.New("unsupported target")
)

// ParseError describes the first grammar or declaration violation found by
// the parser. Kind is one of ErrUnexpectedToken, ErrMissingToken,
// ErrRedeclared or ErrUndeclared and is what errors.Is matches against.
type ParseError struct {
	Kind     error
	Token    Token
	Expected TokenType // set for ErrMissingToken
	Reason   string
	source   string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse error at %d:%d: %s", e.Token.Pos.Line, e.Token.Pos.Column, e.Reason)
	if frame := formatCodeFrame(e.source, e.Token.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Kind }

// LexError reports every invalid token found while tokenizing a source.
type LexError struct {
	Invalid []Token
	source  string
}

func (e *LexError) Error() string {
	var b strings.Builder
	for i, tok := range e.Invalid {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "lex error at %d:%d: invalid token %q", tok.Pos.Line, tok.Pos.Column, tok.Literal)
		if frame := formatCodeFrame(e.source, tok.Pos); frame != "" {
			b.WriteString("\n")
			b.WriteString(frame)
		}
	}
	return b.String()
}

func (e *LexError) Unwrap() error { return ErrInvalidToken }

// attachSource lets Error render a code frame for errors produced from a
// token slice whose source text was not known at the time.
func attachSource(err error, source string) error {
	var parseErr *ParseError
	if errors.As(err, &parseErr) && parseErr.source == "" {
		parseErr.source = source
	}
	var lexErr *LexError
	if errors.As(err, &lexErr) && lexErr.source == "" {
		lexErr.source = source
	}
	return err
}

func (p *Parser) errorExpected(tt TokenType) error {
	tok := p.peek()
	return &ParseError{
		Kind:     ErrMissingToken,
		Token:    tok,
		Expected: tt,
		Reason:   fmt.Sprintf("expected %s, got %s", tokenLabel(tt), describeToken(tok)),
	}
}

func (p *Parser) errorUnexpected(tok Token, what string) error {
	return &ParseError{
		Kind:   ErrUnexpectedToken,
		Token:  tok,
		Reason: fmt.Sprintf("expected %s, got %s", what, describeToken(tok)),
	}
}

func tokenLabel(tt TokenType) string {
	switch tt {
	case TokenInvalid:
		return "invalid token"
	case TokenEOF:
		return "end of input"
	case TokenWhitespace:
		return "whitespace"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenLet, TokenIf, TokenElse, TokenWhile, TokenPrint, TokenInput:
		return fmt.Sprintf("'%s'", strings.ToLower(string(tt)))
	default:
		return fmt.Sprintf("%q", string(tt))
	}
}

func describeToken(tok Token) string {
	switch tok.Type {
	case TokenIdent, TokenNumber, TokenInvalid:
		return fmt.Sprintf("%s %q", tokenLabel(tok.Type), tok.Literal)
	default:
		return tokenLabel(tok.Type)
	}
}

// formatCodeFrame renders the source line at pos with a caret under the
// offending column. Tabs before the column are copied into the caret line so
// the caret stays aligned in a terminal.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := strings.TrimRight(lines[pos.Line-1], "\r")
	lineRunes := []rune(lineText)

	column := max(pos.Column, 1)
	column = min(column, len(lineRunes)+1)

	var caretPad strings.Builder
	for _, r := range lineRunes[:column-1] {
		if r == '\t' {
			caretPad.WriteRune('\t')
		} else {
			caretPad.WriteRune(' ')
		}
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		lineText,
		gutterPad,
		caretPad.String(),
	)
}
