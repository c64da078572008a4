package parser

import (
	"strings"
	"testing"

	"github.com/dhruvv-raghu/lox/ast"
	"github.com/dhruvv-raghu/lox/lexer"
)

func TestParseExprPrintForm(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3", "(+ 1.0 (* 2.0 3.0))"},
		{"(1 + 2) * 3", "(* (group (+ 1.0 2.0)) 3.0)"},
		{"-1", "(- 1.0)"},
		{"!true", "(! true)"},
		{`"hi"`, "hi"},
		{"a.b", "(.b a)"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tokens, hadError := lexer.Scan(tt.source)
			if hadError {
				t.Fatalf("Scan(%q) reported a lex error", tt.source)
			}
			expr, err := ParseExpr(tokens)
			if err != nil {
				t.Fatalf("ParseExpr(%q) returned error: %v", tt.source, err)
			}
			if got := ast.Print(expr); got != tt.want {
				t.Errorf("ast.Print() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseInvalidAssignmentTargetReportsError(t *testing.T) {
	tokens, _ := lexer.Scan("1 + 2 = 3;")
	_, err := Parse(tokens)
	if err == nil {
		t.Fatal("expected an error for an invalid assignment target")
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	tokens, _ := lexer.Scan("for (var i = 0; i < 10; i = i + 1) print i;")
	program, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(program) != 1 {
		t.Fatalf("len(program) = %d, want 1", len(program))
	}
	block, ok := program[0].(*ast.BlockStmt)
	if !ok {
		t.Fatalf("program[0] = %T, want *ast.BlockStmt", program[0])
	}
	if len(block.Stmts) != 2 {
		t.Fatalf("len(block.Stmts) = %d, want 2 (initializer + while)", len(block.Stmts))
	}
	if _, ok := block.Stmts[0].(*ast.VarStmt); !ok {
		t.Errorf("block.Stmts[0] = %T, want *ast.VarStmt", block.Stmts[0])
	}
	whileStmt, ok := block.Stmts[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("block.Stmts[1] = %T, want *ast.WhileStmt", block.Stmts[1])
	}
	whileBody, ok := whileStmt.Body.(*ast.BlockStmt)
	if !ok {
		t.Fatalf("whileStmt.Body = %T, want *ast.BlockStmt", whileStmt.Body)
	}
	if len(whileBody.Stmts) != 2 {
		t.Errorf("len(whileBody.Stmts) = %d, want 2 (body + increment)", len(whileBody.Stmts))
	}
}

func TestParseMissingSemicolonReportsError(t *testing.T) {
	tokens, _ := lexer.Scan("var a = 1")
	_, err := Parse(tokens)
	if err == nil {
		t.Fatal("expected an error for a missing semicolon")
	}
}

func TestParseErrorIncludesSourceExcerpt(t *testing.T) {
	source := "var a = 1"
	tokens, _ := lexer.Scan(source)
	_, err := Parse(tokens)
	if err == nil {
		t.Fatal("expected an error for a missing semicolon")
	}
	if !strings.Contains(err.Error(), source) {
		t.Errorf("error = %q, want it to contain the source line %q", err.Error(), source)
	}
	if !strings.Contains(err.Error(), "~") {
		t.Errorf("error = %q, want it to contain an underline", err.Error())
	}
}

func TestParseClassWithSuperclass(t *testing.T) {
	tokens, _ := lexer.Scan("class B < A { greet() { print 1; } }")
	program, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	class, ok := program[0].(*ast.ClassStmt)
	if !ok {
		t.Fatalf("program[0] = %T, want *ast.ClassStmt", program[0])
	}
	if class.Superclass == nil || class.Superclass.Name.Lexeme != "A" {
		t.Errorf("class.Superclass = %v, want variable expr named A", class.Superclass)
	}
	if len(class.Methods) != 1 || class.Methods[0].Name.Lexeme != "greet" {
		t.Errorf("class.Methods = %v, want one method named greet", class.Methods)
	}
}
