package scrpt

import (
	"strconv"
	"strings"
)

const formatIndent = "    "

// Format renders program back to canonical source: one statement per line,
// four-space indentation inside blocks and single spaces around operators.
// Parsing the result yields the same tree.
func Format(program *Program) string {
	var b strings.Builder
	for _, stmt := range program.Statements {
		formatStatement(&b, stmt, 0)
	}
	return b.String()
}

func formatStatement(b *strings.Builder, stmt Statement, depth int) {
	b.WriteString(strings.Repeat(formatIndent, depth))
	switch s := stmt.(type) {
	case *PrintStmt:
		b.WriteString("print ")
		switch arg := s.Arg.(type) {
		case *StringLiteral:
			b.WriteString(`"` + arg.Value + `"`)
		case *Expression:
			writeExpression(b, arg, sourceName)
		}
		b.WriteString(";\n")
	case *IfStmt:
		formatBlock(b, "if", s.Condition, s.Body, depth)
	case *WhileStmt:
		formatBlock(b, "while", s.Condition, s.Body, depth)
	case *LetStmt:
		b.WriteString("let " + s.Name.Name + " = ")
		writeExpression(b, s.Value, sourceName)
		b.WriteString(";\n")
	case *InputStmt:
		b.WriteString("input " + s.Name.Name + ";\n")
	case *AssignStmt:
		b.WriteString(s.Name.Name + " = ")
		writeExpression(b, s.Value, sourceName)
		b.WriteString(";\n")
	}
}

func formatBlock(b *strings.Builder, keyword string, cond *Comparison, body []Statement, depth int) {
	b.WriteString(keyword + " ")
	writeComparison(b, cond, sourceName)
	b.WriteString(" {\n")
	for _, stmt := range body {
		formatStatement(b, stmt, depth+1)
	}
	b.WriteString(strings.Repeat(formatIndent, depth) + "}\n")
}

func sourceName(name string) string { return name }

// writeExpression renders an expression without parentheses, following the
// tree as parsed. name maps variable names to their rendered form.
func writeExpression(b *strings.Builder, e *Expression, name func(string) string) {
	writeTerm(b, e.Left, name)
	if e.Tail != nil {
		b.WriteString(" " + string(e.Tail.Op) + " ")
		writeExpression(b, e.Tail.Right, name)
	}
}

func writeTerm(b *strings.Builder, t *Term, name func(string) string) {
	writeUnary(b, t.Left, name)
	if t.Tail != nil {
		b.WriteString(" " + string(t.Tail.Op) + " ")
		writeTerm(b, t.Tail.Right, name)
	}
}

func writeUnary(b *strings.Builder, u *Unary, name func(string) string) {
	b.WriteString(u.Sign.String())
	switch operand := u.Operand.(type) {
	case *NumberLiteral:
		b.WriteString(strconv.FormatInt(operand.Value, 10))
	case *Identifier:
		b.WriteString(name(operand.Name))
	}
}

func writeComparison(b *strings.Builder, c *Comparison, name func(string) string) {
	writeExpression(b, c.Left, name)
	b.WriteString(" " + string(c.Op) + " ")
	writeExpression(b, c.Right, name)
}

func (e *Expression) String() string {
	var b strings.Builder
	writeExpression(&b, e, sourceName)
	return b.String()
}

func (c *Comparison) String() string {
	var b strings.Builder
	writeComparison(&b, c, sourceName)
	return b.String()
}
