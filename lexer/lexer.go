// Package lexer converts Lox source text into a flat sequence of tokens.
package lexer

import (
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/dhruvv-raghu/lox/lox"
	"github.com/dhruvv-raghu/lox/token"
)

type lexer struct {
	src    string
	file   *token.File
	start  int // byte offset of the start of the lexeme being scanned
	pos    int // byte offset of the next rune to read
	line   int
	column int // column of src[pos]

	startLine, startColumn int

	tokens []token.Token
	errs   lox.Errors
}

// Scan lexes source into a flat slice of tokens terminated by a single EOF token, printing
// "[line N] Error: <msg>" to stderr for each lexical error encountered. hadError reports whether
// any such error occurred; scanning continues past errors so that every valid token is still
// produced.
func Scan(source string) (tokens []token.Token, hadError bool) {
	toks, errs := ScanTo(source)
	for _, e := range errs.All() {
		fmt.Fprintf(os.Stderr, "[line %d] Error: %s\n", e.Start.Line, e.Msg)
	}
	return toks, errs.Len() > 0
}

// ScanTo is like Scan but reports diagnostics into the returned Errors instead of printing them
// directly, for callers that control the final diagnostic format themselves.
func ScanTo(source string) ([]token.Token, lox.Errors) {
	l := &lexer{src: source, file: token.NewFile("", source), line: 1, column: 1}
	l.run()
	return l.tokens, l.errs
}

func (l *lexer) run() {
	for {
		l.skipWhitespaceAndComments()
		l.start = l.pos
		l.startLine, l.startColumn = l.line, l.column
		if l.atEnd() {
			break
		}
		l.scanToken()
	}
	l.emit(token.EOF, "")
}

func (l *lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *lexer) peekAt(offset int) rune {
	pos := l.pos
	for range offset {
		if pos >= len(l.src) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.src[pos:])
		pos += size
	}
	if pos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[pos:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *lexer) match(want rune) bool {
	if l.peek() != want {
		return false
	}
	l.advance()
	return true
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			if l.peekAt(1) == '/' {
				for l.peek() != '\n' && !l.atEnd() {
					l.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *lexer) scanToken() {
	c := l.advance()
	switch c {
	case '(':
		l.emit(token.LeftParen, "(")
	case ')':
		l.emit(token.RightParen, ")")
	case '{':
		l.emit(token.LeftBrace, "{")
	case '}':
		l.emit(token.RightBrace, "}")
	case ',':
		l.emit(token.Comma, ",")
	case '.':
		l.emit(token.Dot, ".")
	case '-':
		l.emit(token.Minus, "-")
	case '+':
		l.emit(token.Plus, "+")
	case ';':
		l.emit(token.Semicolon, ";")
	case '*':
		l.emit(token.Star, "*")
	case '/':
		l.emit(token.Slash, "/")
	case '!':
		l.emitMatch('=', token.BangEqual, "!=", token.Bang, "!")
	case '=':
		l.emitMatch('=', token.EqualEqual, "==", token.Equal, "=")
	case '<':
		l.emitMatch('=', token.LessEqual, "<=", token.Less, "<")
	case '>':
		l.emitMatch('=', token.GreaterEqual, ">=", token.Greater, ">")
	case '"':
		l.scanString()
	default:
		switch {
		case isDigit(c):
			l.scanNumber()
		case isAlpha(c):
			l.scanIdentifier()
		default:
			l.errorf("Unexpected character: %c", c)
		}
	}
}

func (l *lexer) emitMatch(next rune, matchType token.Type, matchLexeme string, elseType token.Type, elseLexeme string) {
	if l.match(next) {
		l.emit(matchType, matchLexeme)
	} else {
		l.emit(elseType, elseLexeme)
	}
}

func (l *lexer) scanString() {
	for l.peek() != '"' && !l.atEnd() {
		l.advance()
	}
	if l.atEnd() {
		l.errorf("Unterminated string.")
		return
	}
	l.advance() // closing quote
	lexeme := l.src[l.start:l.pos]
	literal := lexeme[1 : len(lexeme)-1]
	l.emitLiteral(token.String, lexeme, literal)
}

func (l *lexer) scanNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	lexeme := l.src[l.start:l.pos]
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		l.errorf("Invalid number literal: %s", lexeme)
		return
	}
	l.emitLiteral(token.Number, lexeme, value)
}

func (l *lexer) scanIdentifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	lexeme := l.src[l.start:l.pos]
	l.emit(token.LookupIdent(lexeme), lexeme)
}

func (l *lexer) emit(typ token.Type, lexeme string) {
	l.emitLiteral(typ, lexeme, nil)
}

func (l *lexer) emitLiteral(typ token.Type, lexeme string, literal any) {
	l.tokens = append(l.tokens, token.Token{
		Type:    typ,
		Lexeme:  lexeme,
		Literal: literal,
		Start:   token.Position{File: l.file, Line: l.startLine, Column: l.startColumn},
		End:     token.Position{File: l.file, Line: l.line, Column: l.column},
	})
}

func (l *lexer) errorf(format string, args ...any) {
	start := token.Position{File: l.file, Line: l.startLine, Column: l.startColumn}
	end := token.Position{File: l.file, Line: l.line, Column: l.column}
	l.errs.Add(start, end, format, args...)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
