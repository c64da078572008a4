// Package token declares the lexical tokens produced by the lexer and consumed by the parser.
package token

import "fmt"

// Type is the type of a lexical token.
type Type int

// The set of token types.
const (
	Illegal Type = iota
	EOF

	// Single-character punctuators.
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One or two character operators.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
)

var typeStrings = map[Type]string{
	Illegal:      "ILLEGAL",
	EOF:          "EOF",
	LeftParen:    "LEFT_PAREN",
	RightParen:   "RIGHT_PAREN",
	LeftBrace:    "LEFT_BRACE",
	RightBrace:   "RIGHT_BRACE",
	Comma:        "COMMA",
	Dot:          "DOT",
	Minus:        "MINUS",
	Plus:         "PLUS",
	Semicolon:    "SEMICOLON",
	Slash:        "SLASH",
	Star:         "STAR",
	Bang:         "BANG",
	BangEqual:    "BANG_EQUAL",
	Equal:        "EQUAL",
	EqualEqual:   "EQUAL_EQUAL",
	Greater:      "GREATER",
	GreaterEqual: "GREATER_EQUAL",
	Less:         "LESS",
	LessEqual:    "LESS_EQUAL",
	Identifier:   "IDENTIFIER",
	String:       "STRING",
	Number:       "NUMBER",
	And:          "AND",
	Class:        "CLASS",
	Else:         "ELSE",
	False:        "FALSE",
	Fun:          "FUN",
	For:          "FOR",
	If:           "IF",
	Nil:          "NIL",
	Or:           "OR",
	Print:        "PRINT",
	Return:       "RETURN",
	Super:        "SUPER",
	This:         "THIS",
	True:         "TRUE",
	Var:          "VAR",
	While:        "WHILE",
}

func (t Type) String() string {
	if s, ok := typeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Keywords maps the reserved words of the language to their token type.
var Keywords = map[string]Type{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// LookupIdent returns the keyword token type for ident, or Identifier if it isn't a keyword.
func LookupIdent(ident string) Type {
	if typ, ok := Keywords[ident]; ok {
		return typ
	}
	return Identifier
}

// File owns the source text of a scanned file and a line-offset table, so that any Position
// produced by the lexer can be rendered back to its source line without the parser, resolver, or
// interpreter needing to carry the raw source text around separately.
type File struct {
	name        string
	contents    string
	lineOffsets []int // byte offset of the start of each line
}

// NewFile returns a new File with the given contents. name may be empty.
func NewFile(name, contents string) *File {
	f := &File{name: name, contents: contents, lineOffsets: []int{0}}
	for i := 0; i < len(contents); i++ {
		if contents[i] == '\n' {
			f.lineOffsets = append(f.lineOffsets, i+1)
		}
	}
	return f
}

// Name returns the name the File was created with.
func (f *File) Name() string {
	return f.name
}

// Line returns the nth (1-based) line of the file, without its trailing newline. It returns "" if
// f is nil or n is out of range.
func (f *File) Line(n int) string {
	if f == nil || n < 1 || n > len(f.lineOffsets) {
		return ""
	}
	low := f.lineOffsets[n-1]
	high := len(f.contents)
	if n < len(f.lineOffsets) {
		high = f.lineOffsets[n] - 1 // -1 to exclude the newline
	}
	return f.contents[low:high]
}

// Position identifies a single location in a source file.
type Position struct {
	File   *File
	Line   int
	Column int
}

// Token is a single lexical token: a classified, positioned lexeme, plus its literal value if it
// carries one (String and Number tokens only).
type Token struct {
	Type    Type
	Lexeme  string
	Literal any // string for String tokens, float64 for Number tokens, nil otherwise
	Start   Position
	End     Position
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end"
	}
	return fmt.Sprintf("'%s'", t.Lexeme)
}

// Line reports the line on which the token starts, matching the line numbering used throughout
// diagnostics.
func (t Token) Line() int {
	return t.Start.Line
}
