// Package scrpt translates scrpt source into C. The language is small:
//   - `let name = expr;` and `input name;` declare a variable, exactly once.
//   - `name = expr;` assigns to a declared variable.
//   - `print "text";` and `print expr;` write a line to stdout.
//   - `if a < b { ... }` and `while a != b { ... }` take a single comparison.
//   - Expressions use + - * / with unary signs on integer literals and
//     variables. There are no parentheses.
//
// Every variable is a float in the generated program. Compilation runs in
// three stages (Tokenize, Parse, Emit), each usable on its own; Compiler
// chains them.
package scrpt
