package main

import (
	"errors"
	"flag"
	"fmt"
	"sort"

	"github.com/mgomes/scrptc/scrpt"
)

type lintWarning struct {
	Pos     scrpt.Position
	Message string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("scrptc analyze: source path required")
	}
	path := remaining[0]
	input, err := readSource(path)
	if err != nil {
		return err
	}

	result, err := scrpt.MustNewCompiler(scrpt.Config{}).Compile(input)
	if err != nil {
		return fmt.Errorf("analysis compile failed: %w", err)
	}

	warnings := analyzeProgram(result.Program)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		fmt.Printf("%s:%d:%d: %s\n", path, warning.Pos.Line, warning.Pos.Column, warning.Message)
	}
	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

type linter struct {
	declared map[string]scrpt.Position
	read     map[string]struct{}
	warnings []lintWarning
}

func analyzeProgram(program *scrpt.Program) []lintWarning {
	l := &linter{
		declared: make(map[string]scrpt.Position),
		read:     make(map[string]struct{}),
	}
	l.statements(program.Statements)

	for _, name := range program.Declared {
		if _, ok := l.read[name]; ok {
			continue
		}
		l.warn(l.declared[name], "variable %s is never read", name)
	}

	sort.SliceStable(l.warnings, func(i, j int) bool {
		a, b := l.warnings[i].Pos, l.warnings[j].Pos
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return l.warnings
}

func (l *linter) warn(pos scrpt.Position, format string, args ...any) {
	l.warnings = append(l.warnings, lintWarning{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (l *linter) statements(stmts []scrpt.Statement) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *scrpt.PrintStmt:
			if expr, ok := s.Arg.(*scrpt.Expression); ok {
				l.expression(expr)
			}
		case *scrpt.LetStmt:
			l.declared[s.Name.Name] = s.Name.Pos()
			l.expression(s.Value)
		case *scrpt.InputStmt:
			l.declared[s.Name.Name] = s.Name.Pos()
		case *scrpt.AssignStmt:
			l.expression(s.Value)
		case *scrpt.IfStmt:
			l.block("if", s.Pos(), s.Condition, s.Body)
		case *scrpt.WhileStmt:
			l.block("while", s.Pos(), s.Condition, s.Body)
		}
	}
}

func (l *linter) block(keyword string, pos scrpt.Position, cond *scrpt.Comparison, body []scrpt.Statement) {
	l.expression(cond.Left)
	l.expression(cond.Right)
	if isConstant(cond.Left) && isConstant(cond.Right) {
		l.warn(cond.Pos(), "%s condition %s is constant", keyword, cond)
	}
	if len(body) == 0 {
		l.warn(pos, "empty %s block", keyword)
	}
	l.statements(body)
}

func (l *linter) expression(expr *scrpt.Expression) {
	for e := expr; e != nil; {
		l.term(e.Left)
		if e.Tail == nil {
			break
		}
		e = e.Tail.Right
	}
}

func (l *linter) term(term *scrpt.Term) {
	for t := term; t != nil; {
		l.unary(t.Left)
		if t.Tail == nil {
			break
		}
		if t.Tail.Op == scrpt.OpDiv && isZeroLiteral(t.Tail.Right.Left) {
			l.warn(t.Tail.Right.Pos(), "division by zero")
		}
		t = t.Tail.Right
	}
}

func (l *linter) unary(u *scrpt.Unary) {
	if ident, ok := u.Operand.(*scrpt.Identifier); ok {
		l.read[ident.Name] = struct{}{}
	}
}

func isZeroLiteral(u *scrpt.Unary) bool {
	lit, ok := u.Operand.(*scrpt.NumberLiteral)
	return ok && lit.Value == 0
}

// isConstant reports whether expr mentions no variables.
func isConstant(expr *scrpt.Expression) bool {
	for e := expr; e != nil; {
		for t := e.Left; t != nil; {
			if _, ok := t.Left.Operand.(*scrpt.Identifier); ok {
				return false
			}
			if t.Tail == nil {
				break
			}
			t = t.Tail.Right
		}
		if e.Tail == nil {
			break
		}
		e = e.Tail.Right
	}
	return true
}
