package scrpt

import "testing"

func FuzzCompileDoesNotPanic(f *testing.F) {
	f.Add("")
	f.Add("let x = 1;")
	f.Add("let x = 1; if x > 0 { print \"pos\"; }")
	f.Add("while { } }")
	f.Add("\"unterminated")
	f.Add("let a = 99999999999999999999;")

	compiler := MustNewCompiler(Config{})
	f.Fuzz(func(t *testing.T, source string) {
		_, _ = compiler.Compile(source)
	})
}

func FuzzFormatRoundTrip(f *testing.F) {
	f.Add("let a=1;while a<5{a=a+1;}print a;")
	f.Add("input n; if n != 0 { print \"nonzero\"; }")

	f.Fuzz(func(t *testing.T, source string) {
		tokens, err := Tokenize(source)
		if err != nil {
			return
		}
		program, err := Parse(tokens)
		if err != nil {
			return
		}
		formatted := Format(program)
		reparsed, err := Parse(mustTokenize(t, formatted))
		if err != nil {
			t.Fatalf("formatted source no longer parses: %v\n%s", err, formatted)
		}
		if Format(reparsed) != formatted {
			t.Fatalf("format is not stable for %q", source)
		}
		if Emit(reparsed, EmitOptions{}) != Emit(program, EmitOptions{}) {
			t.Fatalf("formatting changed the translation of %q", source)
		}
	})
}
