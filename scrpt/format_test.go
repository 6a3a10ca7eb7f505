package scrpt

import "testing"

func TestFormatCanonicalLayout(t *testing.T) {
	source := "input   n;let total=0;while n>0{total=total+n*-2;\n\n  n=n-1;}if total>=10{print \"big\";}\n\tprint total;"
	got := Format(mustParse(t, source))
	want := `input n;
let total = 0;
while n > 0 {
    total = total + n * -2;
    n = n - 1;
}
if total >= 10 {
    print "big";
}
print total;
`
	if got != want {
		t.Fatalf("unexpected format:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatEmptyBlock(t *testing.T) {
	got := Format(mustParse(t, "let a = 1; if a == 1 {}"))
	want := "let a = 1;\nif a == 1 {\n}\n"
	if got != want {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestFormatIsStable(t *testing.T) {
	sources := []string{
		"let a=1;let b=a-2-3;print a/b*2;",
		"input x; while x != 0 { if x < 0 { x = x + 1; } if x > 0 { x = x - 1; } }",
		`print "keep   spacing %d";`,
	}
	for _, source := range sources {
		program := mustParse(t, source)
		formatted := Format(program)
		reparsed := mustParse(t, formatted)

		if again := Format(reparsed); again != formatted {
			t.Fatalf("format is not idempotent:\n%s\nthen:\n%s", formatted, again)
		}
		if Emit(program, EmitOptions{}) != Emit(reparsed, EmitOptions{}) {
			t.Fatalf("reformatted source compiles differently:\n%s", formatted)
		}
	}
}
