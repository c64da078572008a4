// Command lox is a tree-walking interpreter for the Lox language.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/dhruvv-raghu/lox/ast"
	"github.com/dhruvv-raghu/lox/interpreter"
	"github.com/dhruvv-raghu/lox/lexer"
	"github.com/dhruvv-raghu/lox/lox"
	"github.com/dhruvv-raghu/lox/parser"
	"github.com/dhruvv-raghu/lox/resolver"
	"github.com/dhruvv-raghu/lox/token"
)

func main() {
	source := flag.String("c", "", "run the given source string instead of a file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: lox <command> [filename]")
		os.Exit(64)
	}
	command := args[0]

	if *source != "" {
		os.Exit(run(command, *source))
	}

	if len(args) < 2 {
		if command == "run" {
			os.Exit(runREPL())
		}
		fmt.Fprintln(os.Stderr, "usage: lox <command> <filename>")
		os.Exit(64)
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(64)
	}
	os.Exit(run(command, string(data)))
}

func run(command, source string) int {
	switch command {
	case "tokenize":
		return runTokenize(source)
	case "parse":
		return runParse(source)
	case "evaluate":
		return runEvaluate(source)
	case "run":
		return runProgram(source)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		return 64
	}
}

func runTokenize(source string) int {
	tokens, hadError := lexer.Scan(source)
	for _, tok := range tokens {
		fmt.Println(formatToken(tok))
	}
	if hadError {
		return 65
	}
	return 0
}

func formatToken(tok token.Token) string {
	literal := "null"
	switch v := tok.Literal.(type) {
	case string:
		literal = v
	case float64:
		literal = formatNumber(v)
	}
	return fmt.Sprintf("%s %s %s", tok.Type, tok.Lexeme, literal)
}

func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func runParse(source string) int {
	tokens, hadError := lexer.Scan(source)
	if hadError {
		return 65
	}
	expr, err := parser.ParseExpr(tokens)
	if err != nil {
		printDiagnostic(err)
		return 65
	}
	fmt.Println(ast.Print(expr))
	return 0
}

func runEvaluate(source string) int {
	tokens, hadError := lexer.Scan(source)
	if hadError {
		return 65
	}
	expr, err := parser.ParseExpr(tokens)
	if err != nil {
		printDiagnostic(err)
		return 65
	}

	in := interpreter.New()
	value, rerr := in.EvalExpr(expr, nil)
	if rerr != nil {
		printRuntimeDiagnostic(rerr)
		return 70
	}
	fmt.Println(value.String())
	return 0
}

func runProgram(source string) int {
	tokens, hadError := lexer.Scan(source)
	if hadError {
		return 65
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		printDiagnostic(err)
		return 65
	}

	locals, err := resolver.Resolve(program)
	if err != nil {
		printDiagnostic(err)
		return 65
	}

	in := interpreter.New()
	if err := in.Interpret(program, locals); err != nil {
		printRuntimeDiagnostic(err)
		return 70
	}
	return 0
}

func printDiagnostic(err error) {
	fmt.Fprintln(os.Stderr, err)
}

func printRuntimeDiagnostic(err error) {
	if le, ok := err.(*lox.Error); ok {
		fmt.Fprintln(os.Stderr, le.RuntimeString())
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func runREPL() int {
	historyFile := ""
	if u, err := user.Current(); err == nil {
		historyFile = filepath.Join(u.HomeDir, ".lox_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rl.Close()

	in := interpreter.New()
	for {
		line, err := rl.Readline()
		if err != nil {
			return 0
		}
		if line == "" {
			continue
		}
		replEval(in, line)
	}
}

// replEval executes one line of REPL input. A line holding a single bare expression has its value
// printed, so users don't need to wrap every probe in `print`.
func replEval(in *interpreter.Interpreter, line string) {
	tokens, hadError := lexer.Scan(line)
	if hadError {
		return
	}

	if expr, err := parser.ParseExpr(tokens); err == nil {
		value, rerr := in.EvalExpr(expr, nil)
		if rerr != nil {
			printRuntimeDiagnostic(rerr)
			return
		}
		fmt.Println(value.String())
		return
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		printDiagnostic(err)
		return
	}
	locals, err := resolver.Resolve(program)
	if err != nil {
		printDiagnostic(err)
		return
	}
	if err := in.Interpret(program, locals); err != nil {
		printRuntimeDiagnostic(err)
	}
}
