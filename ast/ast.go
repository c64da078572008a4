// Package ast declares the abstract syntax tree produced by the parser and walked by the resolver
// and the evaluator.
package ast

import "github.com/dhruvv-raghu/lox/token"

var nextID int

func newID() int {
	nextID++
	return nextID
}

// Program is a complete parsed source file: a flat list of top-level statements.
type Program []Stmt

// Node is the common interface satisfied by every AST node.
type Node interface {
	node()
}

// Expr is satisfied by every expression node. Every Expr has a stable identity (ID), assigned at
// construction time, which the resolver's distance table and the evaluator's lookups key on.
type Expr interface {
	Node
	ExprID() int
	expr()
}

// Stmt is satisfied by every statement node.
type Stmt interface {
	Node
	stmt()
}

type exprBase struct {
	id int
}

func newExprBase() exprBase {
	return exprBase{id: newID()}
}

func (e exprBase) node()      {}
func (e exprBase) expr()      {}
func (e exprBase) ExprID() int { return e.id }

type stmtBase struct{}

func (stmtBase) node() {}
func (stmtBase) stmt() {}

// Expressions

// LiteralExpr is a literal value: a number, string, boolean, or nil.
type LiteralExpr struct {
	exprBase
	Value any // float64, string, bool, or nil
}

// NewLiteralExpr constructs a LiteralExpr.
func NewLiteralExpr(value any) *LiteralExpr {
	return &LiteralExpr{exprBase: newExprBase(), Value: value}
}

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	exprBase
	Expr Expr
}

// NewGroupingExpr constructs a GroupingExpr.
func NewGroupingExpr(expr Expr) *GroupingExpr {
	return &GroupingExpr{exprBase: newExprBase(), Expr: expr}
}

// UnaryExpr is a prefix unary operation: -x or !x.
type UnaryExpr struct {
	exprBase
	Op    token.Token
	Right Expr
}

// NewUnaryExpr constructs a UnaryExpr.
func NewUnaryExpr(op token.Token, right Expr) *UnaryExpr {
	return &UnaryExpr{exprBase: newExprBase(), Op: op, Right: right}
}

// BinaryExpr is an arithmetic, comparison, or equality operation.
type BinaryExpr struct {
	exprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

// NewBinaryExpr constructs a BinaryExpr.
func NewBinaryExpr(left Expr, op token.Token, right Expr) *BinaryExpr {
	return &BinaryExpr{exprBase: newExprBase(), Left: left, Op: op, Right: right}
}

// LogicalExpr is an `and`/`or` expression, distinguished from BinaryExpr because it
// short-circuits and never coerces its result to bool.
type LogicalExpr struct {
	exprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

// NewLogicalExpr constructs a LogicalExpr.
func NewLogicalExpr(left Expr, op token.Token, right Expr) *LogicalExpr {
	return &LogicalExpr{exprBase: newExprBase(), Left: left, Op: op, Right: right}
}

// VariableExpr is a reference to a variable by name.
type VariableExpr struct {
	exprBase
	Name token.Token
}

// NewVariableExpr constructs a VariableExpr.
func NewVariableExpr(name token.Token) *VariableExpr {
	return &VariableExpr{exprBase: newExprBase(), Name: name}
}

// AssignExpr assigns a new value to a variable.
type AssignExpr struct {
	exprBase
	Name  token.Token
	Value Expr
}

// NewAssignExpr constructs an AssignExpr.
func NewAssignExpr(name token.Token, value Expr) *AssignExpr {
	return &AssignExpr{exprBase: newExprBase(), Name: name, Value: value}
}

// CallExpr is a function or method call.
type CallExpr struct {
	exprBase
	Callee Expr
	Paren  token.Token // closing paren, used for error positioning
	Args   []Expr
}

// NewCallExpr constructs a CallExpr.
func NewCallExpr(callee Expr, paren token.Token, args []Expr) *CallExpr {
	return &CallExpr{exprBase: newExprBase(), Callee: callee, Paren: paren, Args: args}
}

// GetExpr reads a property (field or method) off an object.
type GetExpr struct {
	exprBase
	Object Expr
	Name   token.Token
}

// NewGetExpr constructs a GetExpr.
func NewGetExpr(object Expr, name token.Token) *GetExpr {
	return &GetExpr{exprBase: newExprBase(), Object: object, Name: name}
}

// SetExpr writes a field on an object.
type SetExpr struct {
	exprBase
	Object Expr
	Name   token.Token
	Value  Expr
}

// NewSetExpr constructs a SetExpr.
func NewSetExpr(object Expr, name token.Token, value Expr) *SetExpr {
	return &SetExpr{exprBase: newExprBase(), Object: object, Name: name, Value: value}
}

// ThisExpr refers to the receiver of the enclosing method.
type ThisExpr struct {
	exprBase
	Keyword token.Token
}

// NewThisExpr constructs a ThisExpr.
func NewThisExpr(keyword token.Token) *ThisExpr {
	return &ThisExpr{exprBase: newExprBase(), Keyword: keyword}
}

// SuperExpr refers to a method on the enclosing class's superclass.
type SuperExpr struct {
	exprBase
	Keyword token.Token
	Method  token.Token
}

// NewSuperExpr constructs a SuperExpr.
func NewSuperExpr(keyword, method token.Token) *SuperExpr {
	return &SuperExpr{exprBase: newExprBase(), Keyword: keyword, Method: method}
}

// Statements

// ExpressionStmt evaluates an expression and discards its value.
type ExpressionStmt struct {
	stmtBase
	Expr Expr
}

// PrintStmt evaluates an expression and writes its stringified form to stdout.
type PrintStmt struct {
	stmtBase
	Expr Expr
}

// VarStmt declares a variable, optionally with an initializer.
type VarStmt struct {
	stmtBase
	Name        token.Token
	Initializer Expr // nil if omitted
}

// BlockStmt is a list of statements executed in a fresh child scope.
type BlockStmt struct {
	stmtBase
	Stmts []Stmt
}

// IfStmt is a conditional statement, with an optional else branch.
type IfStmt struct {
	stmtBase
	Condition Expr
	Then      Stmt
	Else      Stmt // nil if omitted
}

// WhileStmt loops while its condition is truthy.
type WhileStmt struct {
	stmtBase
	Condition Expr
	Body      Stmt
}

// FunctionStmt declares a named function (or, when embedded in a ClassStmt, a method).
type FunctionStmt struct {
	stmtBase
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

// ReturnStmt transfers control, with an optional value, out of the enclosing function call.
type ReturnStmt struct {
	stmtBase
	Keyword token.Token
	Value   Expr // nil if omitted
}

// ClassStmt declares a class, optionally with a superclass.
type ClassStmt struct {
	stmtBase
	Name       token.Token
	Superclass *VariableExpr // nil if omitted
	Methods    []*FunctionStmt
}
