package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dhruvv-raghu/lox/token"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []token.Type
	}{
		{
			name:   "punctuators",
			source: "(){},.-+;*/",
			want: []token.Type{
				token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
				token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
				token.Star, token.Slash, token.EOF,
			},
		},
		{
			name:   "maximal munch operators",
			source: "! != = == < <= > >=",
			want: []token.Type{
				token.Bang, token.BangEqual, token.Equal, token.EqualEqual,
				token.Less, token.LessEqual, token.Greater, token.GreaterEqual, token.EOF,
			},
		},
		{
			name:   "keywords and identifiers",
			source: "var foo = nil; print foo;",
			want: []token.Type{
				token.Var, token.Identifier, token.Equal, token.Nil, token.Semicolon,
				token.Print, token.Identifier, token.Semicolon, token.EOF,
			},
		},
		{
			name:   "line comment consumed to end of line",
			source: "// comment\nvar x;",
			want:   []token.Type{token.Var, token.Identifier, token.Semicolon, token.EOF},
		},
		{
			name:   "trailing dot not consumed without digit after",
			source: "1.",
			want:   []token.Type{token.Number, token.Dot, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, hadError := Scan(tt.source)
			if hadError {
				t.Fatalf("Scan(%q) reported an error", tt.source)
			}
			var got []token.Type
			for _, tok := range tokens {
				got = append(got, tok.Type)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Scan(%q) token types mismatch (-want +got):\n%s", tt.source, diff)
			}
		})
	}
}

func TestScanEndsWithEOF(t *testing.T) {
	tokens, hadError := Scan("var a = 1;")
	if hadError {
		t.Fatal("unexpected error")
	}
	last := tokens[len(tokens)-1]
	if last.Type != token.EOF {
		t.Errorf("last token = %v, want EOF", last.Type)
	}
}

func TestScanNumberLiteral(t *testing.T) {
	tokens, _ := Scan("123.45")
	if diff := cmp.Diff(123.45, tokens[0].Literal, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("literal mismatch (-want +got):\n%s", diff)
	}
}

func TestScanStringLiteralHasNoQuotes(t *testing.T) {
	tokens, _ := Scan(`"hello"`)
	if tokens[0].Literal != "hello" {
		t.Errorf("literal = %v, want %q", tokens[0].Literal, "hello")
	}
	if tokens[0].Lexeme != `"hello"` {
		t.Errorf("lexeme = %v, want %q", tokens[0].Lexeme, `"hello"`)
	}
}

func TestScanUnterminatedStringReportsError(t *testing.T) {
	_, hadError := Scan(`"unterminated`)
	if !hadError {
		t.Error("expected an error for an unterminated string")
	}
}

func TestScanUnexpectedCharacterContinuesScanning(t *testing.T) {
	tokens, hadError := Scan("@ var a;")
	if !hadError {
		t.Fatal("expected an error for an unexpected character")
	}
	var gotVar bool
	for _, tok := range tokens {
		if tok.Type == token.Var {
			gotVar = true
		}
	}
	if !gotVar {
		t.Error("expected scanning to continue past the illegal character")
	}
}
