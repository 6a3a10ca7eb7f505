package scrpt

var additiveOps = map[TokenType]AdditiveOp{
	TokenPlus:  OpAdd,
	TokenMinus: OpSub,
}

var multiplicativeOps = map[TokenType]MultiplicativeOp{
	TokenAsterisk: OpMul,
	TokenSlash:    OpDiv,
}

var signs = map[TokenType]Sign{
	TokenPlus:  Positive,
	TokenMinus: Negative,
}

// parseComparison parses expression relop expression. Only one relational
// operator is consumed, so a < b < c leaves the second < for the caller to
// reject.
func (p *Parser) parseComparison() (*Comparison, error) {
	pos := p.peek().Pos
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	tok := p.peek()
	op, ok := comparators[tok.Type]
	if !ok {
		return nil, p.errorUnexpected(tok, "comparison operator")
	}
	p.advance()

	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &Comparison{Op: op, Left: left, Right: right, position: pos}, nil
}

func (p *Parser) parseExpression() (*Expression, error) {
	pos := p.peek().Pos
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	expr := &Expression{Left: left, position: pos}

	if op, ok := additiveOps[p.peek().Type]; ok {
		p.advance()
		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.Tail = &ExpressionTail{Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseTerm() (*Term, error) {
	pos := p.peek().Pos
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	term := &Term{Left: left, position: pos}

	if op, ok := multiplicativeOps[p.peek().Type]; ok {
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		term.Tail = &TermTail{Op: op, Right: right}
	}
	return term, nil
}

func (p *Parser) parseUnary() (*Unary, error) {
	pos := p.peek().Pos
	sign, ok := signs[p.peek().Type]
	if ok {
		p.advance()
	}
	operand, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return &Unary{Sign: sign, Operand: operand, position: pos}, nil
}

func (p *Parser) parsePrimary() (Primary, error) {
	switch tok := p.peek(); tok.Type {
	case TokenNumber:
		p.advance()
		return &NumberLiteral{Value: tok.Value, position: tok.Pos}, nil
	case TokenIdent:
		return p.parseReference()
	default:
		return nil, &ParseError{
			Kind:     ErrMissingToken,
			Token:    tok,
			Expected: TokenIdent,
			Reason:   "expected identifier or number, got " + describeToken(tok),
		}
	}
}
