package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgomes/scrptc/scrpt"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "build":
		return buildCommand(args[2:])
	case "tokens":
		return tokensCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "repl":
		return runREPL()
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func buildCommand(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	output := fs.String("o", "", "write generated code to this file instead of stdout")
	targetName := fs.String("target", string(scrpt.TargetC), "output language")
	indent := fs.Int("indent", 4, "spaces per indentation level in generated code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	target, err := scrpt.ParseTarget(*targetName)
	if err != nil {
		return fmt.Errorf("scrptc build: %w", err)
	}
	if *indent <= 0 {
		return fmt.Errorf("scrptc build: indent must be positive, got %d", *indent)
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("scrptc build: source path required")
	}
	input, err := readSource(remaining[0])
	if err != nil {
		return err
	}

	compiler, err := scrpt.NewCompiler(scrpt.Config{Target: target, IndentWidth: *indent})
	if err != nil {
		return err
	}
	result, err := compiler.Compile(input)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}

	if *output == "" {
		fmt.Print(result.Output)
		return nil
	}
	if err := os.WriteFile(*output, []byte(result.Output), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func tokensCommand(args []string) error {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	all := fs.Bool("all", false, "include whitespace tokens")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("scrptc tokens: source path required")
	}
	input, err := readSource(remaining[0])
	if err != nil {
		return err
	}

	tokens, lexErr := scrpt.Tokenize(input)
	for _, tok := range tokens {
		switch tok.Type {
		case scrpt.TokenWhitespace:
			if *all {
				fmt.Println(mutedStyle.Render(tok.String()))
			}
		case scrpt.TokenInvalid:
			fmt.Println(errorStyle.Render(tok.String()))
		default:
			fmt.Println(tok.String())
		}
	}
	if lexErr != nil {
		return fmt.Errorf("scrptc tokens: %w", lexErr)
	}
	return nil
}

func readSource(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve source path: %w", err)
	}
	input, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(input), nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args...]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  build [-o file] [-target c] [-indent n] <file>")
	fmt.Fprintln(os.Stderr, "    translate a scrpt program to C")
	fmt.Fprintln(os.Stderr, "  tokens [-all] <file>")
	fmt.Fprintln(os.Stderr, "    print the token stream and report invalid tokens")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <path...>")
	fmt.Fprintln(os.Stderr, "    rewrite .scrpt files in canonical layout")
	fmt.Fprintln(os.Stderr, "  analyze <file>")
	fmt.Fprintln(os.Stderr, "    report likely mistakes")
	fmt.Fprintln(os.Stderr, "  repl")
	fmt.Fprintln(os.Stderr, "    interactive translator")
	fmt.Fprintln(os.Stderr, "  lsp")
	fmt.Fprintln(os.Stderr, "    language server over stdio")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
