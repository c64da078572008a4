// Package lox provides the diagnostic types shared by every stage of the interpreter: the lexer,
// parser, resolver, and evaluator all report through the same Error/Errors types so that
// formatting stays consistent end to end.
package lox

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/dhruvv-raghu/lox/token"
)

var (
	boldRed = color.New(color.FgRed, color.Bold)
	bold    = color.New(color.Bold)
)

// Error is a single positioned diagnostic produced by any stage of the interpreter. Start and End
// carry the token.File they were scanned from, so the source line they point into can always be
// recovered for the diagnostic excerpt.
type Error struct {
	Msg   string
	Start token.Position
	End   token.Position
}

// NewError creates an Error spanning start to end.
func NewError(start, end token.Position, msg string) *Error {
	return &Error{Msg: msg, Start: start, End: end}
}

// NewErrorf is like NewError but formats its message with fmt.Sprintf.
func NewErrorf(start, end token.Position, format string, args ...any) *Error {
	return NewError(start, end, fmt.Sprintf(format, args...))
}

// Error implements the error interface, rendering the diagnostic in the CLI's expected
// "[line N] <msg>" form, with a source-line excerpt and underline appended when the position's
// file is known.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[line %d] %s", e.Start.Line, bold.Sprint(e.Msg))
	if line := e.sourceLine(); line != "" {
		fmt.Fprintf(&b, "\n%s\n%s", line, e.underline(line))
	}
	return b.String()
}

// RuntimeString renders e in the form used for runtime errors: the message, then the line on a
// separate line, matching the classic Lox runtime-error presentation.
func (e *Error) RuntimeString() string {
	return fmt.Sprintf("%s\n[line %d]", e.Msg, e.Start.Line)
}

func (e *Error) sourceLine() string {
	return e.Start.File.Line(e.Start.Line)
}

func (e *Error) underline(line string) string {
	width := runewidth.StringWidth(runewidth.Truncate(line, e.Start.Column-1, ""))
	n := e.End.Column - e.Start.Column
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", width) + boldRed.Sprint(strings.Repeat("~", n))
}

// ParseError formats a syntax error in the form expected by the CLI: "[line N] Error at
// '<lexeme>': <msg>", using "at end" when tok is the EOF token.
func ParseError(tok token.Token, msg string) *Error {
	where := fmt.Sprintf("at '%s'", tok.Lexeme)
	if tok.Type == token.EOF {
		where = "at end"
	}
	return &Error{
		Msg:   fmt.Sprintf("Error %s: %s", where, msg),
		Start: tok.Start,
		End:   tok.End,
	}
}

// Errors accumulates diagnostics emitted by a single stage of the pipeline (lexing, parsing, or
// resolving), so that every error can be surfaced instead of stopping at the first.
type Errors struct {
	errs []*Error
}

// Add appends a new diagnostic.
func (e *Errors) Add(start, end token.Position, format string, args ...any) {
	e.errs = append(e.errs, NewErrorf(start, end, format, args...))
}

// AddParseError appends a new syntax-error diagnostic in CLI diagnostic form.
func (e *Errors) AddParseError(tok token.Token, msg string) {
	e.errs = append(e.errs, ParseError(tok, msg))
}

// Len reports the number of accumulated diagnostics.
func (e *Errors) Len() int {
	return len(e.errs)
}

// All returns the accumulated diagnostics, sorted by position.
func (e *Errors) All() []*Error {
	sorted := slices.Clone(e.errs)
	slices.SortFunc(sorted, func(a, b *Error) int {
		if a.Start.Line != b.Start.Line {
			return a.Start.Line - b.Start.Line
		}
		return a.Start.Column - b.Start.Column
	})
	return sorted
}

// Err returns nil if no diagnostics were accumulated, otherwise a single joined error containing
// all of them in position order.
func (e *Errors) Err() error {
	if len(e.errs) == 0 {
		return nil
	}
	all := e.All()
	joined := make([]error, len(all))
	for i, err := range all {
		joined[i] = err
	}
	return errors.Join(joined...)
}
