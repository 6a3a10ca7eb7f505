package scrpt

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustTokenize(t *testing.T, source string) []Token {
	t.Helper()
	tokens, err := Tokenize(source)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	return tokens
}

func mustParse(t *testing.T, source string) *Program {
	t.Helper()
	program, err := Parse(mustTokenize(t, source))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return program
}

func parseFailure(t *testing.T, source string) *ParseError {
	t.Helper()
	_, err := Parse(mustTokenize(t, source))
	if err == nil {
		t.Fatalf("expected parse error for %q", source)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	return parseErr
}

func numberValue(t *testing.T, u *Unary) int64 {
	t.Helper()
	lit, ok := u.Operand.(*NumberLiteral)
	if !ok {
		t.Fatalf("expected number literal, got %T", u.Operand)
	}
	return lit.Value
}

func TestParseLetWithPrecedence(t *testing.T) {
	program := mustParse(t, "let x = 1 + 2 * 3;")
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	let, ok := program.Statements[0].(*LetStmt)
	if !ok {
		t.Fatalf("expected let statement, got %T", program.Statements[0])
	}
	if let.Name.Name != "x" {
		t.Fatalf("expected name x, got %s", let.Name.Name)
	}

	expr := let.Value
	if got := numberValue(t, expr.Left.Left); got != 1 {
		t.Fatalf("expected left operand 1, got %d", got)
	}
	if expr.Left.Tail != nil {
		t.Fatalf("expected 1 to stand alone as a term")
	}
	if expr.Tail == nil || expr.Tail.Op != OpAdd {
		t.Fatalf("expected + tail, got %#v", expr.Tail)
	}

	product := expr.Tail.Right.Left
	if got := numberValue(t, product.Left); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if product.Tail == nil || product.Tail.Op != OpMul {
		t.Fatalf("expected * tail, got %#v", product.Tail)
	}
	if got := numberValue(t, product.Tail.Right.Left); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}

	if !reflect.DeepEqual(program.Declared, []string{"x"}) {
		t.Fatalf("expected declared [x], got %v", program.Declared)
	}
}

func TestParseChainsLeanRight(t *testing.T) {
	program := mustParse(t, "let a = 9; let b = a - 2 - 3;")
	expr := program.Statements[1].(*LetStmt).Value

	if expr.Tail == nil || expr.Tail.Op != OpSub {
		t.Fatalf("expected - tail, got %#v", expr.Tail)
	}
	rest := expr.Tail.Right
	if rest.Tail == nil || rest.Tail.Op != OpSub {
		t.Fatalf("expected nested - tail holding 2 - 3, got %#v", rest.Tail)
	}
	if got := numberValue(t, rest.Left.Left); got != 2 {
		t.Fatalf("expected nested left 2, got %d", got)
	}
	if got := expr.String(); got != "a - 2 - 3" {
		t.Fatalf("expected rendering a - 2 - 3, got %q", got)
	}
}

func TestParseUnarySigns(t *testing.T) {
	program := mustParse(t, "let a = -1; let b = +a * -2;")
	first := program.Statements[0].(*LetStmt).Value.Left.Left
	if first.Sign != Negative || numberValue(t, first) != 1 {
		t.Fatalf("expected -1, got %#v", first)
	}
	term := program.Statements[1].(*LetStmt).Value.Left
	if term.Left.Sign != Positive {
		t.Fatalf("expected + sign, got %v", term.Left.Sign)
	}
	if term.Tail.Right.Left.Sign != Negative {
		t.Fatalf("expected - sign on right operand")
	}
}

func TestParseStatements(t *testing.T) {
	source := `input n;
let total = 0;
while n > 0 {
    total = total + n;
    n = n - 1;
}
if total >= 10 {
    print "big";
}
print total;
`
	program := mustParse(t, source)
	if len(program.Statements) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(program.Statements))
	}

	if _, ok := program.Statements[0].(*InputStmt); !ok {
		t.Fatalf("expected input statement, got %T", program.Statements[0])
	}
	loop, ok := program.Statements[2].(*WhileStmt)
	if !ok {
		t.Fatalf("expected while statement, got %T", program.Statements[2])
	}
	if loop.Condition.Op != CompareGT || len(loop.Body) != 2 {
		t.Fatalf("unexpected while %#v", loop)
	}
	if _, ok := loop.Body[0].(*AssignStmt); !ok {
		t.Fatalf("expected assignment in loop body, got %T", loop.Body[0])
	}

	cond, ok := program.Statements[3].(*IfStmt)
	if !ok {
		t.Fatalf("expected if statement, got %T", program.Statements[3])
	}
	if cond.Condition.Op != CompareGTE {
		t.Fatalf("expected >=, got %s", cond.Condition.Op)
	}
	printStmt, ok := cond.Body[0].(*PrintStmt)
	if !ok {
		t.Fatalf("expected print in if body, got %T", cond.Body[0])
	}
	if lit, ok := printStmt.Arg.(*StringLiteral); !ok || lit.Value != "big" {
		t.Fatalf("expected string literal big, got %#v", printStmt.Arg)
	}

	if _, ok := program.Statements[4].(*PrintStmt).Arg.(*Expression); !ok {
		t.Fatalf("expected print of an expression")
	}
	if !reflect.DeepEqual(program.Declared, []string{"n", "total"}) {
		t.Fatalf("expected declared [n total], got %v", program.Declared)
	}
	if pos := cond.Pos(); pos != (Position{Line: 7, Column: 1}) {
		t.Fatalf("expected if at 7:1, got %s", pos)
	}
}

func TestParseComparators(t *testing.T) {
	cases := map[string]Comparator{
		">": CompareGT, ">=": CompareGTE, "<": CompareLT,
		"<=": CompareLTE, "==": CompareEQ, "!=": CompareNE,
	}
	for op, want := range cases {
		program := mustParse(t, "let a = 1; if a "+op+" 2 { }")
		got := program.Statements[1].(*IfStmt).Condition.Op
		if got != want {
			t.Fatalf("%s: expected %s, got %s", op, want, got)
		}
	}
}

func TestParseEmptyProgramAndBlock(t *testing.T) {
	program := mustParse(t, "")
	if len(program.Statements) != 0 || len(program.Declared) != 0 {
		t.Fatalf("expected empty program, got %#v", program)
	}

	program = mustParse(t, "let a = 1; while a < 1 {}")
	loop := program.Statements[1].(*WhileStmt)
	if loop.Body == nil || len(loop.Body) != 0 {
		t.Fatalf("expected empty non-nil body, got %#v", loop.Body)
	}
}

func TestParseLetMaySeeItsOwnName(t *testing.T) {
	program := mustParse(t, "let x = x + 1;")
	if len(program.Statements) != 1 {
		t.Fatalf("expected let to parse")
	}
}

func TestParseNestedDeclarationStaysVisible(t *testing.T) {
	program := mustParse(t, "let a = 1; if a > 0 { let b = 2; } print b;")
	if !reflect.DeepEqual(program.Declared, []string{"a", "b"}) {
		t.Fatalf("expected declared [a b], got %v", program.Declared)
	}
}

func TestParseRejectsRedeclaration(t *testing.T) {
	for _, source := range []string{
		"let x = 1; let x = 2;",
		"input x; let x = 2;",
		"let x = 1; input x;",
		"let y = 1; if y > 0 { let x = 1; } let x = 2;",
	} {
		err := parseFailure(t, source)
		if !errors.Is(err, ErrRedeclared) {
			t.Fatalf("%q: expected ErrRedeclared, got %v", source, err)
		}
		if err.Token.Literal != "x" {
			t.Fatalf("%q: expected offending token x, got %q", source, err.Token.Literal)
		}
	}

	err := parseFailure(t, "let x = 1; let x = 2;")
	if err.Token.Pos != (Position{Line: 1, Column: 16}) {
		t.Fatalf("expected error at 1:16, got %s", err.Token.Pos)
	}
	if !strings.Contains(err.Error(), "identifier x is already declared") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestParseRejectsUndeclared(t *testing.T) {
	cases := []string{
		"print y;",
		"y = 1;",
		"let x = y;",
		"let x = 1; if y > x { }",
		"let x = 1; while x < 2 { x = x + z; }",
	}
	for _, source := range cases {
		err := parseFailure(t, source)
		if !errors.Is(err, ErrUndeclared) {
			t.Fatalf("%q: expected ErrUndeclared, got %v", source, err)
		}
	}

	err := parseFailure(t, "print y;")
	if err.Token.Literal != "y" || err.Token.Pos != (Position{Line: 1, Column: 7}) {
		t.Fatalf("expected y at 1:7, got %+v", err.Token)
	}
	if !strings.Contains(err.Error(), "identifier y is never declared") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestParseGrammarErrors(t *testing.T) {
	cases := []struct {
		name     string
		source   string
		kind     error
		expected TokenType
	}{
		{name: "missing semicolon", source: "let x = 1", kind: ErrMissingToken, expected: TokenSemicolon},
		{name: "missing assign", source: "let x 1;", kind: ErrMissingToken, expected: TokenAssign},
		{name: "missing name", source: "input 5;", kind: ErrMissingToken, expected: TokenIdent},
		{name: "missing operand", source: "let x = 1 + ;", kind: ErrMissingToken, expected: TokenIdent},
		{name: "chained comparison", source: "let a = 1; if a < 2 < 3 { }", kind: ErrMissingToken, expected: TokenLBrace},
		{name: "unterminated block", source: "let a = 1; while a > 0 { a = a - 1;", kind: ErrMissingToken, expected: TokenRBrace},
		{name: "missing comparator", source: "let a = 1; if a { }", kind: ErrUnexpectedToken},
		{name: "else is not a statement", source: "else", kind: ErrUnexpectedToken},
		{name: "stray brace", source: "}", kind: ErrUnexpectedToken},
		{name: "number statement", source: "5;", kind: ErrUnexpectedToken},
		{name: "parenthesis free", source: "let a = 1; print a a;", kind: ErrMissingToken, expected: TokenSemicolon},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := parseFailure(t, tc.source)
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			if tc.expected != "" && err.Expected != tc.expected {
				t.Fatalf("expected missing %s, got %s", tc.expected, err.Expected)
			}
		})
	}
}

func TestParseInvalidTokenIsUnexpected(t *testing.T) {
	tokens, _ := Tokenize("let x = 1; @")
	_, err := Parse(tokens)
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Fatalf("expected ErrUnexpectedToken, got %v", err)
	}
}

func TestParseWithoutEOFSentinel(t *testing.T) {
	tokens := []Token{
		{Type: TokenPrint, Literal: "print", Pos: Position{1, 1}},
		{Type: TokenString, Literal: `"hi"`, Pos: Position{1, 7}},
		{Type: TokenSemicolon, Literal: ";", Pos: Position{1, 11}},
	}
	program, err := Parse(tokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}

	_, err = Parse(tokens[:2])
	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Expected != TokenSemicolon {
		t.Fatalf("expected missing semicolon, got %v", err)
	}
	if parseErr.Token.Type != TokenEOF {
		t.Fatalf("expected synthetic EOF, got %s", parseErr.Token.Type)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	tokens := mustTokenize(t, "input a; let b = a * 2 - -3; while b > a { b = b - 1; print b; }")
	first, err := Parse(tokens)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	second, err := Parse(tokens)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical trees from identical tokens")
	}
}
