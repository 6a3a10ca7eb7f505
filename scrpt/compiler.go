package scrpt

import (
	"fmt"
	"strings"
)

// Target names an output language.
type Target string

const TargetC Target = "c"

// ParseTarget validates a target name given on a command line or in config.
func ParseTarget(name string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(name))); t {
	case TargetC:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedTarget, name)
	}
}

// Config holds compiler settings. Zero values select the C target and four
// spaces of indentation.
type Config struct {
	Target      Target
	IndentWidth int
}

// Compiler runs the lex, parse and emit stages. A Compiler holds no state
// between calls and may be shared.
type Compiler struct {
	config Config
	emit   EmitOptions
}

// Result carries every stage's output from a successful Compile.
type Result struct {
	Tokens  []Token
	Program *Program
	Output  string
}

// NewCompiler constructs a Compiler, filling in defaults and rejecting
// unsupported targets.
func NewCompiler(cfg Config) (*Compiler, error) {
	if cfg.Target == "" {
		cfg.Target = TargetC
	}
	target, err := ParseTarget(string(cfg.Target))
	if err != nil {
		return nil, err
	}
	cfg.Target = target
	if cfg.IndentWidth <= 0 {
		cfg.IndentWidth = 4
	}

	return &Compiler{
		config: cfg,
		emit:   EmitOptions{Indent: strings.Repeat(" ", cfg.IndentWidth)},
	}, nil
}

// MustNewCompiler panics if the config is invalid.
func MustNewCompiler(cfg Config) *Compiler {
	compiler, err := NewCompiler(cfg)
	if err != nil {
		panic(err)
	}
	return compiler
}

// Config returns the effective configuration after defaults were applied.
func (c *Compiler) Config() Config {
	return c.config
}

// Tokenize lexes source. See the package-level Tokenize.
func (c *Compiler) Tokenize(source string) ([]Token, error) {
	return Tokenize(source)
}

// Translate parses tokens and emits the target program. Whitespace tokens
// are ignored.
func (c *Compiler) Translate(tokens []Token) (string, error) {
	program, err := Parse(tokens)
	if err != nil {
		return "", err
	}
	return c.emitProgram(program), nil
}

// Compile runs the whole pipeline over source. Invalid tokens stop the run
// before parsing. Errors render a code frame from source.
func (c *Compiler) Compile(source string) (*Result, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	program, err := Parse(tokens)
	if err != nil {
		return nil, attachSource(err, source)
	}

	return &Result{
		Tokens:  tokens,
		Program: program,
		Output:  c.emitProgram(program),
	}, nil
}

// EmitStatements renders a fragment with this compiler's indentation.
func (c *Compiler) EmitStatements(stmts []Statement) string {
	return EmitStatements(stmts, c.emit)
}

func (c *Compiler) emitProgram(program *Program) string {
	switch c.config.Target {
	case TargetC:
		return Emit(program, c.emit)
	default:
		panic(fmt.Sprintf("scrpt: no emitter for target %q", c.config.Target))
	}
}
