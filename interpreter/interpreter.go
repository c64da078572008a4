// Package interpreter walks a resolved AST and executes it: lexically scoped environments,
// first-class closures, single-inheritance classes, and a result-discriminator based mechanism for
// non-local return.
package interpreter

import (
	"fmt"
	"io"
	"maps"
	"os"
	"time"

	"github.com/dhruvv-raghu/lox/ast"
	"github.com/dhruvv-raghu/lox/lox"
	"github.com/dhruvv-raghu/lox/token"
)

// stmtResult is returned by every statement execution. It lets return propagate out of nested
// blocks/loops without using panic as control flow; only stmtResultReturn is non-default and it
// short-circuits every loop in its path back up to the enclosing function call.
type stmtResult interface {
	isStmtResult()
}

type stmtResultNone struct{}
type stmtResultReturn struct{ Value loxObject }

func (stmtResultNone) isStmtResult()   {}
func (stmtResultReturn) isStmtResult() {}

func isNoneResult(r stmtResult) bool {
	_, ok := r.(stmtResultNone)
	return ok
}

// Interpreter executes a resolved program, holding the global environment and the current
// execution environment across statement/expression evaluation.
type Interpreter struct {
	globals *environment
	env     *environment
	locals  map[int]int

	// Stdout is where print statements write their output; it defaults to os.Stdout but tests
	// substitute a buffer to capture program output.
	Stdout io.Writer
}

// New creates an Interpreter with the clock native function predefined in its global scope.
func New() *Interpreter {
	globals := newEnvironment()
	globals.define("clock", &loxNativeFunction{
		name:  "clock",
		arity: 0,
		fn: func(args []loxObject) loxObject {
			return loxNumber(float64(time.Now().UnixNano()) / float64(time.Second))
		},
	})
	return &Interpreter{globals: globals, env: globals, Stdout: os.Stdout}
}

// Interpret executes program using the resolution table locals computed by the resolver. The
// entries are added to those of earlier calls, so functions declared by an earlier program on the
// same Interpreter keep their resolved locals. Runtime errors are recovered at this boundary and
// returned as a normal error.
func (in *Interpreter) Interpret(program ast.Program, locals map[int]int) (err error) {
	in.addLocals(locals)
	defer func() {
		if r := recover(); r != nil {
			if le, ok := r.(*lox.Error); ok {
				err = le
				return
			}
			panic(r)
		}
	}()
	for _, stmt := range program {
		if result := in.execStmt(stmt); !isNoneResult(result) {
			// a return outside any function is a resolver error, not a runtime one; if we ever
			// get here it's a bug in the resolver, not a user-facing condition.
			panic(fmt.Sprintf("interpreter bug: return escaped top level: %#v", result))
		}
	}
	return nil
}

// EvalExpr evaluates a single expression (the evaluate CLI subcommand's mode) in the global
// environment.
func (in *Interpreter) EvalExpr(expr ast.Expr, locals map[int]int) (value loxObject, err error) {
	in.addLocals(locals)
	defer func() {
		if r := recover(); r != nil {
			if le, ok := r.(*lox.Error); ok {
				err = le
				return
			}
			panic(r)
		}
	}()
	return in.evalExpr(expr), nil
}

// addLocals merges a resolution table into the interpreter's. Expression IDs are unique across
// parses, so tables from separate programs never collide.
func (in *Interpreter) addLocals(locals map[int]int) {
	if in.locals == nil {
		in.locals = make(map[int]int)
	}
	maps.Copy(in.locals, locals)
}

// statements

func (in *Interpreter) execStmt(stmt ast.Stmt) stmtResult {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		in.evalExpr(s.Expr)
		return stmtResultNone{}
	case *ast.PrintStmt:
		value := in.evalExpr(s.Expr)
		fmt.Fprintln(in.Stdout, stringify(value))
		return stmtResultNone{}
	case *ast.VarStmt:
		var value loxObject = loxNil{}
		if s.Initializer != nil {
			value = in.evalExpr(s.Initializer)
		}
		in.env.define(s.Name.Lexeme, value)
		return stmtResultNone{}
	case *ast.BlockStmt:
		result, err := in.executeBlock(s.Stmts, in.env.child())
		if err != nil {
			panic(err)
		}
		return result
	case *ast.IfStmt:
		if isTruthy(in.evalExpr(s.Condition)) {
			return in.execStmt(s.Then)
		} else if s.Else != nil {
			return in.execStmt(s.Else)
		}
		return stmtResultNone{}
	case *ast.WhileStmt:
		for isTruthy(in.evalExpr(s.Condition)) {
			if result := in.execStmt(s.Body); !isNoneResult(result) {
				return result
			}
		}
		return stmtResultNone{}
	case *ast.FunctionStmt:
		fn := newFunction(s, in.env, funKindPlain)
		in.env.define(s.Name.Lexeme, fn)
		return stmtResultNone{}
	case *ast.ReturnStmt:
		var value loxObject = loxNil{}
		if s.Value != nil {
			value = in.evalExpr(s.Value)
		}
		return stmtResultReturn{Value: value}
	case *ast.ClassStmt:
		in.execClassStmt(s)
		return stmtResultNone{}
	default:
		panic(fmt.Sprintf("interpreter bug: unhandled statement type %T", stmt))
	}
}

// executeBlock runs stmts in env, restoring the interpreter's previous environment on every exit
// path, including a panicking runtime error.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *environment) (result stmtResult, err error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	defer func() {
		if r := recover(); r != nil {
			if le, ok := r.(*lox.Error); ok {
				err = le
				return
			}
			panic(r)
		}
	}()

	for _, stmt := range stmts {
		if r := in.execStmt(stmt); r != (stmtResultNone{}) {
			return r, nil
		}
	}
	return stmtResultNone{}, nil
}

func (in *Interpreter) execClassStmt(s *ast.ClassStmt) {
	var superclass *loxClass
	if s.Superclass != nil {
		obj := in.evalExpr(s.Superclass)
		sc, ok := obj.(*loxClass)
		if !ok {
			panic(newRuntimeError(s.Superclass.Name, "Superclass must be a class."))
		}
		superclass = sc
	}

	in.env.define(s.Name.Lexeme, loxNil{})

	env := in.env
	if superclass != nil {
		env = env.child()
		env.define("super", superclass)
	}

	methods := make(map[string]*loxFunction)
	for _, m := range s.Methods {
		kind := funKindMethod
		if m.Name.Lexeme == "init" {
			kind = funKindInitializer
		}
		methods[m.Name.Lexeme] = newFunction(m, env, kind)
	}

	class := &loxClass{name: s.Name.Lexeme, superclass: superclass, methods: methods}
	in.env.assign(s.Name, class)
}

// expressions

func (in *Interpreter) evalExpr(expr ast.Expr) loxObject {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return literalValue(e.Value)
	case *ast.GroupingExpr:
		return in.evalExpr(e.Expr)
	case *ast.UnaryExpr:
		return in.evalUnary(e)
	case *ast.BinaryExpr:
		return in.evalBinary(e)
	case *ast.LogicalExpr:
		return in.evalLogical(e)
	case *ast.VariableExpr:
		return in.lookupVariable(e.Name, e)
	case *ast.AssignExpr:
		value := in.evalExpr(e.Value)
		if distance, ok := in.locals[e.ExprID()]; ok {
			in.env.assignAt(distance, e.Name, value)
		} else {
			in.globals.assign(e.Name, value)
		}
		return value
	case *ast.CallExpr:
		return in.evalCall(e)
	case *ast.GetExpr:
		return in.evalGet(e)
	case *ast.SetExpr:
		return in.evalSet(e)
	case *ast.ThisExpr:
		return in.lookupVariable(e.Keyword, e)
	case *ast.SuperExpr:
		return in.evalSuper(e)
	default:
		panic(fmt.Sprintf("interpreter bug: unhandled expression type %T", expr))
	}
}

func literalValue(v any) loxObject {
	switch v := v.(type) {
	case nil:
		return loxNil{}
	case bool:
		return loxBool(v)
	case float64:
		return loxNumber(v)
	case string:
		return loxString(v)
	default:
		panic(fmt.Sprintf("interpreter bug: unhandled literal type %T", v))
	}
}

func (in *Interpreter) lookupVariable(name token.Token, expr ast.Expr) loxObject {
	if distance, ok := in.locals[expr.ExprID()]; ok {
		return in.env.getAt(distance, name)
	}
	return in.globals.get(name)
}

func (in *Interpreter) evalUnary(e *ast.UnaryExpr) loxObject {
	right := in.evalExpr(e.Right)
	if e.Op.Type == token.Bang {
		return loxBool(!isTruthy(right))
	}
	operand, ok := right.(loxUnaryOperand)
	if !ok {
		panic(newRuntimeError(e.Op, "Operand must be a number."))
	}
	result, err := operand.UnaryOp(e.Op)
	if err != nil {
		panic(newRuntimeError(e.Op, "%s", err.Error()))
	}
	return result
}

func (in *Interpreter) evalBinary(e *ast.BinaryExpr) loxObject {
	left := in.evalExpr(e.Left)
	right := in.evalExpr(e.Right)

	if e.Op.Type == token.EqualEqual || e.Op.Type == token.BangEqual {
		if operand, ok := left.(loxBinaryOperand); ok {
			if result, err := operand.BinaryOp(e.Op, right); err == nil {
				return result
			}
		}
		equal := sameTypeEqual(left, right)
		if e.Op.Type == token.BangEqual {
			return loxBool(!equal)
		}
		return loxBool(equal)
	}

	operand, ok := left.(loxBinaryOperand)
	if !ok {
		if e.Op.Type == token.Plus {
			panic(newRuntimeError(e.Op, "Operands must be two numbers or two strings."))
		}
		panic(newRuntimeError(e.Op, "Operands must be numbers."))
	}
	result, err := operand.BinaryOp(e.Op, right)
	if err != nil {
		panic(newRuntimeError(e.Op, "%s", err.Error()))
	}
	return result
}

// sameTypeEqual implements equality for value types which don't implement loxBinaryOperand: nil,
// booleans, functions, classes, and instances.
func sameTypeEqual(a, b loxObject) bool {
	_, aNil := a.(loxNil)
	_, bNil := b.(loxNil)
	if aNil || bNil {
		return aNil && bNil
	}
	return a == b
}

func (in *Interpreter) evalLogical(e *ast.LogicalExpr) loxObject {
	left := in.evalExpr(e.Left)
	if e.Op.Type == token.Or {
		if isTruthy(left) {
			return left
		}
	} else {
		if !isTruthy(left) {
			return left
		}
	}
	return in.evalExpr(e.Right)
}

func (in *Interpreter) evalCall(e *ast.CallExpr) loxObject {
	callee := in.evalExpr(e.Callee)

	args := make([]loxObject, len(e.Args))
	for i, argExpr := range e.Args {
		args[i] = in.evalExpr(argExpr)
	}

	callable, ok := callee.(loxCallable)
	if !ok {
		panic(newRuntimeError(e.Paren, "Can only call functions and classes."))
	}

	if len(args) != callable.Arity() {
		panic(newRuntimeError(e.Paren, "Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}

	result, err := callable.Call(in, args)
	if err != nil {
		if le, ok := err.(*lox.Error); ok {
			panic(le)
		}
		panic(newRuntimeError(e.Paren, "%s", err.Error()))
	}
	return result
}

func (in *Interpreter) evalGet(e *ast.GetExpr) loxObject {
	obj := in.evalExpr(e.Object)
	instance, ok := obj.(*loxInstance)
	if !ok {
		panic(newRuntimeError(e.Name, "Only instances have properties."))
	}
	value, err := instance.get(e.Name)
	if err != nil {
		panic(newRuntimeError(e.Name, "%s", err.Error()))
	}
	return value
}

func (in *Interpreter) evalSet(e *ast.SetExpr) loxObject {
	obj := in.evalExpr(e.Object)
	instance, ok := obj.(*loxInstance)
	if !ok {
		panic(newRuntimeError(e.Name, "Only instances have fields."))
	}
	value := in.evalExpr(e.Value)
	instance.set(e.Name, value)
	return value
}

func (in *Interpreter) evalSuper(e *ast.SuperExpr) loxObject {
	distance := in.locals[e.ExprID()]
	superclass := in.env.getAtByName(distance, "super").(*loxClass)
	instance := in.env.getAtByName(distance-1, "this").(*loxInstance)

	method := superclass.findMethod(e.Method.Lexeme)
	if method == nil {
		panic(newRuntimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme))
	}
	return method.bind(instance)
}
