package scrpt

import (
	"fmt"
	"strings"
)

// EmitOptions controls the layout of generated C.
type EmitOptions struct {
	// Indent is repeated once per nesting level. Empty means four spaces.
	Indent string
}

// cReserved holds names a variable cannot take in the generated program:
// C keywords up to C23 plus GNU asm, stdio.h macros, and the functions the
// program itself calls.
var cReserved = map[string]struct{}{
	"auto": {}, "break": {}, "case": {}, "char": {}, "const": {}, "continue": {},
	"default": {}, "do": {}, "double": {}, "else": {}, "enum": {}, "extern": {},
	"float": {}, "for": {}, "goto": {}, "if": {}, "inline": {}, "int": {},
	"long": {}, "register": {}, "restrict": {}, "return": {}, "short": {},
	"signed": {}, "sizeof": {}, "static": {}, "struct": {}, "switch": {},
	"typedef": {}, "union": {}, "unsigned": {}, "void": {}, "volatile": {},
	"while": {},

	"alignas": {}, "alignof": {}, "bool": {}, "constexpr": {}, "false": {},
	"nullptr": {}, "static_assert": {}, "thread_local": {}, "true": {},
	"typeof": {}, "typeof_unqual": {},
	"asm": {},

	"EOF": {}, "NULL": {}, "BUFSIZ": {}, "FILENAME_MAX": {}, "FOPEN_MAX": {},
	"SEEK_CUR": {}, "SEEK_END": {}, "SEEK_SET": {}, "TMP_MAX": {},
	"stdin": {}, "stdout": {}, "stderr": {},

	"main": {}, "printf": {}, "scanf": {},
}

// cName maps a source identifier to the C identifier used for it. Source
// identifiers never start with an underscore, so the prefixed form cannot
// clash with another variable.
func cName(name string) string {
	if _, ok := cReserved[name]; ok {
		return "_" + name
	}
	return name
}

type emitter struct {
	out    strings.Builder
	indent string
	depth  int

	// hoisted names are declared at the top of main and only assigned where
	// the source declares them.
	hoisted map[string]struct{}
}

func newEmitter(opts EmitOptions) *emitter {
	indent := opts.Indent
	if indent == "" {
		indent = "    "
	}
	return &emitter{indent: indent, hoisted: make(map[string]struct{})}
}

func (e *emitter) line(format string, args ...any) {
	e.out.WriteString(strings.Repeat(e.indent, e.depth))
	fmt.Fprintf(&e.out, format, args...)
	e.out.WriteByte('\n')
}

// Emit renders program as a complete C translation unit. Every variable is
// a float local of main.
func Emit(program *Program, opts EmitOptions) string {
	e := newEmitter(opts)

	e.line("#include <stdio.h>")
	e.line("int main(void){")
	e.depth++

	// Names first declared inside an if/while body must outlive that block.
	for _, name := range nestedDeclarations(program.Statements, false) {
		e.hoisted[name] = struct{}{}
		e.line("float %s = 0;", cName(name))
	}

	e.emitBlock(program.Statements)

	e.line("return 0;")
	e.depth--
	e.line("}")
	return e.out.String()
}

// EmitStatements renders stmts as a C fragment with no surrounding main and
// no hoisting; declarations appear in place.
func EmitStatements(stmts []Statement, opts EmitOptions) string {
	e := newEmitter(opts)
	e.emitBlock(stmts)
	return e.out.String()
}

func (e *emitter) emitBlock(stmts []Statement) {
	for _, stmt := range stmts {
		e.emitStatement(stmt)
	}
}

func (e *emitter) emitStatement(stmt Statement) {
	switch s := stmt.(type) {
	case *PrintStmt:
		switch arg := s.Arg.(type) {
		case *StringLiteral:
			e.line(`printf("%s\n");`, escapeCString(arg.Value))
		case *Expression:
			e.line(`printf("%%.2f\n", (float)(%s));`, e.expression(arg))
		}
	case *IfStmt:
		e.line("if(%s){", e.comparison(s.Condition))
		e.depth++
		e.emitBlock(s.Body)
		e.depth--
		e.line("}")
	case *WhileStmt:
		e.line("while(%s){", e.comparison(s.Condition))
		e.depth++
		e.emitBlock(s.Body)
		e.depth--
		e.line("}")
	case *LetStmt:
		name := cName(s.Name.Name)
		if e.isHoisted(s.Name.Name) {
			e.line("%s = %s;", name, e.expression(s.Value))
		} else {
			e.line("float %s = %s;", name, e.expression(s.Value))
		}
	case *InputStmt:
		name := cName(s.Name.Name)
		if !e.isHoisted(s.Name.Name) {
			e.line("float %s = 0;", name)
		}
		// A failed read zeroes the variable and discards one bad token. At
		// end of input scanf stores nothing and the variable keeps its value.
		e.line(`if(0 == scanf("%%f", &%s)) {`, name)
		e.depth++
		e.line("%s = 0;", name)
		e.line(`scanf("%%*s");`)
		e.depth--
		e.line("}")
	case *AssignStmt:
		e.line("%s = %s;", cName(s.Name.Name), e.expression(s.Value))
	}
}

func (e *emitter) isHoisted(name string) bool {
	_, ok := e.hoisted[name]
	return ok
}

func (e *emitter) expression(expr *Expression) string {
	var b strings.Builder
	writeExpression(&b, expr, cName)
	return b.String()
}

func (e *emitter) comparison(cmp *Comparison) string {
	var b strings.Builder
	writeComparison(&b, cmp, cName)
	return b.String()
}

// nestedDeclarations lists, in source order, the names declared by let or
// input inside any if/while body.
func nestedDeclarations(stmts []Statement, nested bool) []string {
	var names []string
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *LetStmt:
			if nested {
				names = append(names, s.Name.Name)
			}
		case *InputStmt:
			if nested {
				names = append(names, s.Name.Name)
			}
		case *IfStmt:
			names = append(names, nestedDeclarations(s.Body, true)...)
		case *WhileStmt:
			names = append(names, nestedDeclarations(s.Body, true)...)
		}
	}
	return names
}

// escapeCString makes text print verbatim through printf's format string.
func escapeCString(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '%':
			b.WriteString("%%")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
