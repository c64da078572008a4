package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders an expression in the canonical parenthesized form used by the parse CLI
// subcommand: (op L R) for binary/logical, (op R) for unary, (group E) for parens.
func Print(expr Expr) string {
	switch e := expr.(type) {
	case *LiteralExpr:
		return literalString(e.Value)
	case *GroupingExpr:
		return parenthesize("group", e.Expr)
	case *UnaryExpr:
		return parenthesize(e.Op.Lexeme, e.Right)
	case *BinaryExpr:
		return parenthesize(e.Op.Lexeme, e.Left, e.Right)
	case *LogicalExpr:
		return parenthesize(e.Op.Lexeme, e.Left, e.Right)
	case *VariableExpr:
		return e.Name.Lexeme
	case *AssignExpr:
		return parenthesize("= "+e.Name.Lexeme, e.Value)
	case *CallExpr:
		return parenthesize("call", append([]Expr{e.Callee}, e.Args...)...)
	case *GetExpr:
		return parenthesize("."+e.Name.Lexeme, e.Object)
	case *SetExpr:
		return parenthesize("="+e.Name.Lexeme, e.Object, e.Value)
	case *ThisExpr:
		return "this"
	case *SuperExpr:
		return "super." + e.Method.Lexeme
	default:
		return fmt.Sprintf("<unknown expr %T>", expr)
	}
}

func parenthesize(name string, exprs ...Expr) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteByte(' ')
		b.WriteString(Print(e))
	}
	b.WriteByte(')')
	return b.String()
}

func literalString(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
