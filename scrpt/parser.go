package scrpt

// Parser is a recursive-descent parser over a token slice. It also tracks
// which identifiers have been declared so far, so declare-before-use and
// single-declaration checks happen during the same pass. A Parser is good
// for one program; create a new one per parse.
type Parser struct {
	tokens []Token
	pos    int

	declared map[string]struct{}
	order    []string
}

// NewParser drops whitespace tokens from tokens and prepares a parser over
// the rest.
func NewParser(tokens []Token) *Parser {
	filtered := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == TokenWhitespace {
			continue
		}
		filtered = append(filtered, tok)
	}
	return &Parser{
		tokens:   filtered,
		declared: make(map[string]struct{}),
	}
}

// Parse parses a complete program from tokens.
func Parse(tokens []Token) (*Program, error) {
	return NewParser(tokens).ParseProgram()
}

// ParseProgram parses statements until end of input. Parsing stops at the
// first error, which is always a *ParseError.
func (p *Parser) ParseProgram() (*Program, error) {
	program := &Program{Statements: []Statement{}}

	for !p.at(TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}

	program.Declared = append([]string(nil), p.order...)
	return program, nil
}

// peek returns the current token. Running off the end of a slice without an
// EOF sentinel behaves as if one were there.
func (p *Parser) peek() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	eof := Token{Type: TokenEOF}
	if n := len(p.tokens); n > 0 {
		eof.Pos = p.tokens[n-1].Pos
	}
	return eof
}

func (p *Parser) at(tt TokenType) bool {
	return p.peek().Type == tt
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	if !p.at(tt) {
		return Token{}, p.errorExpected(tt)
	}
	return p.advance(), nil
}

func (p *Parser) isDeclared(name string) bool {
	_, ok := p.declared[name]
	return ok
}

func (p *Parser) declare(name string) {
	p.declared[name] = struct{}{}
	p.order = append(p.order, name)
}
