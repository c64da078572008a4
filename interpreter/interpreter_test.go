package interpreter

import (
	"strings"
	"testing"

	"github.com/dhruvv-raghu/lox/internal/difftest"
	"github.com/dhruvv-raghu/lox/lexer"
	"github.com/dhruvv-raghu/lox/parser"
	"github.com/dhruvv-raghu/lox/resolver"
)

func runSource(t *testing.T, source string) (string, error) {
	t.Helper()
	tokens, hadError := lexer.Scan(source)
	if hadError {
		t.Fatalf("Scan(%q) reported a lex error", source)
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", source, err)
	}
	locals, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve(%q) returned error: %v", source, err)
	}
	var out strings.Builder
	in := New()
	in.Stdout = &out
	runErr := in.Interpret(program, locals)
	return out.String(), runErr
}

func TestInterpretEndToEndScenarios(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "arithmetic precedence",
			source: `print 1 + 2 * 3;`,
			want:   "7\n",
		},
		{
			name:   "string concatenation",
			source: `var a = "foo"; var b = "bar"; print a + b;`,
			want:   "foobar\n",
		},
		{
			name:   "recursive fibonacci",
			source: `fun f(n) { if (n <= 1) return n; return f(n-1) + f(n-2); } print f(10);`,
			want:   "55\n",
		},
		{
			name:   "block scoping shadows and restores",
			source: `var x = 1; { var x = 2; print x; } print x;`,
			want:   "2\n1\n",
		},
		{
			name:   "single inheritance dispatches to inherited method",
			source: `class A { greet() { print "hi from A"; } } class B < A { } B().greet();`,
			want:   "hi from A\n",
		},
		{
			name:   "init sets fields and methods can return this",
			source: `class Counter { init() { this.n = 0; } inc() { this.n = this.n + 1; return this; } } var c = Counter(); c.inc().inc(); print c.n;`,
			want:   "2\n",
		},
		{
			name:   "closures capture the variable, not a snapshot",
			source: `fun makeCounter() { var i = 0; fun count() { i = i + 1; return i; } return count; } var c = makeCounter(); print c(); print c();`,
			want:   "1\n2\n",
		},
		{
			name:   "super dispatches to the superclass method",
			source: `class A { m() { return "A"; } } class B < A { m() { return super.m() + "B"; } } print B().m();`,
			want:   "AB\n",
		},
		{
			name:   "logical operators return the operand value, not a bool",
			source: `print nil or "default";`,
			want:   "default\n",
		},
		{
			name:   "zero is truthy",
			source: `if (0) print "truthy"; else print "falsy";`,
			want:   "truthy\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runSource(t, tt.source)
			if err != nil {
				t.Fatalf("Interpret returned unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("incorrect output printed to stdout:\n%s", difftest.Diff(tt.want, got))
			}
		})
	}
}

func TestInterpretNegativeScenarios(t *testing.T) {
	_, err := runSource(t, `print "s" - 1;`)
	if err == nil {
		t.Fatal("expected a runtime error for subtracting a number from a string")
	}
	if !strings.Contains(err.Error(), "numbers") {
		t.Errorf("error = %v, want a message about operands needing to be numbers", err)
	}
}

func TestInterpretDivisionByZeroIsARuntimeError(t *testing.T) {
	_, err := runSource(t, `print 1 / 0;`)
	if err == nil {
		t.Fatal("expected a runtime error for division by zero")
	}
}

func TestInterpretUndefinedVariableIsARuntimeError(t *testing.T) {
	_, err := runSource(t, `print undeclared;`)
	if err == nil {
		t.Fatal("expected a runtime error for an undefined variable")
	}
}

func TestInterpretFieldLookupFallsBackToBoundMethod(t *testing.T) {
	got, err := runSource(t, `class A { method() { return "from method"; } } var a = A(); print a.method();`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from method\n" {
		t.Errorf("output = %q, want %q", got, "from method\n")
	}
}

func TestInterpretBlockRestoresEnvironmentOnRuntimeError(t *testing.T) {
	source := `var x = "outer"; fun f() { var x = "inner"; print x - 1; } f(); print x;`
	tokens, _ := lexer.Scan(source)
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", source, err)
	}
	locals, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve(%q) returned error: %v", source, err)
	}
	in := New()
	in.Stdout = &strings.Builder{}
	if err := in.Interpret(program, locals); err == nil {
		t.Fatal("expected a runtime error")
	}
	if in.env != in.globals {
		t.Error("environment was not restored to the global scope after the runtime error")
	}
}
