package scrpt

import (
	"fmt"
	"strings"
)

func (p *Parser) parseStatement() (Statement, error) {
	switch tok := p.peek(); tok.Type {
	case TokenPrint:
		return p.parsePrintStatement()
	case TokenIf:
		pos := p.advance().Pos
		cond, body, err := p.parseGuardedBlock()
		if err != nil {
			return nil, err
		}
		return &IfStmt{Condition: cond, Body: body, position: pos}, nil
	case TokenWhile:
		pos := p.advance().Pos
		cond, body, err := p.parseGuardedBlock()
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Condition: cond, Body: body, position: pos}, nil
	case TokenLet:
		return p.parseLetStatement()
	case TokenInput:
		return p.parseInputStatement()
	case TokenIdent:
		return p.parseAssignStatement()
	default:
		return nil, p.errorUnexpected(tok, "statement")
	}
}

func (p *Parser) parsePrintStatement() (Statement, error) {
	pos := p.advance().Pos

	var arg PrintArg
	if p.at(TokenString) {
		tok := p.advance()
		arg = &StringLiteral{Value: trimQuotes(tok.Literal), position: tok.Pos}
	} else {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		arg = expr
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &PrintStmt{Arg: arg, position: pos}, nil
}

// parseGuardedBlock parses the shared tail of if and while:
// comparison "{" {statement} "}".
func (p *Parser) parseGuardedBlock() (*Comparison, []Statement, error) {
	cond, err := p.parseComparison()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, nil, err
	}

	body := []Statement{}
	for !p.at(TokenRBrace) && !p.at(TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, nil, err
		}
		body = append(body, stmt)
	}

	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, nil, err
	}
	return cond, body, nil
}

func (p *Parser) parseLetStatement() (Statement, error) {
	pos := p.advance().Pos
	name, err := p.parseDeclaration()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &LetStmt{Name: name, Value: value, position: pos}, nil
}

func (p *Parser) parseInputStatement() (Statement, error) {
	pos := p.advance().Pos
	name, err := p.parseDeclaration()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &InputStmt{Name: name, position: pos}, nil
}

func (p *Parser) parseAssignStatement() (Statement, error) {
	name, err := p.parseReference()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &AssignStmt{Name: name, Value: value, position: name.Pos()}, nil
}

// parseDeclaration consumes the identifier of a let or input and records it.
// The name is visible from this point on, including in the let initialiser.
func (p *Parser) parseDeclaration() (*Identifier, error) {
	tok, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if p.isDeclared(tok.Literal) {
		return nil, &ParseError{
			Kind:   ErrRedeclared,
			Token:  tok,
			Reason: fmt.Sprintf("identifier %s is already declared", tok.Literal),
		}
	}
	p.declare(tok.Literal)
	return &Identifier{Name: tok.Literal, position: tok.Pos}, nil
}

// parseReference consumes an identifier that must already be declared.
func (p *Parser) parseReference() (*Identifier, error) {
	tok, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if !p.isDeclared(tok.Literal) {
		return nil, &ParseError{
			Kind:   ErrUndeclared,
			Token:  tok,
			Reason: fmt.Sprintf("identifier %s is never declared", tok.Literal),
		}
	}
	return &Identifier{Name: tok.Literal, position: tok.Pos}, nil
}

func trimQuotes(literal string) string {
	literal = strings.TrimPrefix(literal, `"`)
	return strings.TrimSuffix(literal, `"`)
}
