package interpreter

import (
	"fmt"
	"strconv"

	"github.com/dhruvv-raghu/lox/ast"
	"github.com/dhruvv-raghu/lox/token"
)

// loxObject is satisfied by every runtime value. Operator support is opted into via the narrower
// interfaces below rather than forcing every value to implement every operation.
type loxObject interface {
	String() string
}

// loxTruther is implemented by values with non-default truthiness. Anything that doesn't
// implement it is truthy (matching the language rule that everything except nil and false is
// truthy).
type loxTruther interface {
	Truthy() bool
}

// loxUnaryOperand is implemented by values usable as the operand of a prefix unary operator.
type loxUnaryOperand interface {
	UnaryOp(op token.Token) (loxObject, error)
}

// loxBinaryOperand is implemented by values usable as the left operand of a binary operator.
type loxBinaryOperand interface {
	BinaryOp(op token.Token, right loxObject) (loxObject, error)
}

// loxCallable is implemented by values that can appear as the callee of a call expression:
// user-defined functions, native functions, and classes (construction).
type loxCallable interface {
	Arity() int
	Call(interp *Interpreter, args []loxObject) (loxObject, error)
}

func isTruthy(obj loxObject) bool {
	if t, ok := obj.(loxTruther); ok {
		return t.Truthy()
	}
	return true
}

// stringify renders obj the way the print statement and the evaluate CLI subcommand do.
func stringify(obj loxObject) string {
	if obj == nil {
		return "nil"
	}
	return obj.String()
}

// loxNil

type loxNil struct{}

func (loxNil) String() string  { return "nil" }
func (loxNil) Truthy() bool    { return false }

// loxBool

type loxBool bool

func (b loxBool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (b loxBool) Truthy() bool { return bool(b) }

// loxNumber

type loxNumber float64

func (n loxNumber) String() string {
	s := strconv.FormatFloat(float64(n), 'f', -1, 64)
	return s
}

func (n loxNumber) UnaryOp(op token.Token) (loxObject, error) {
	switch op.Type {
	case token.Minus:
		return -n, nil
	}
	return nil, fmt.Errorf("unsupported unary operator %s", op.Lexeme)
}

func (n loxNumber) BinaryOp(op token.Token, right loxObject) (loxObject, error) {
	r, ok := right.(loxNumber)
	switch op.Type {
	case token.Plus:
		if ok {
			return n + r, nil
		}
		return nil, fmt.Errorf("Operands must be two numbers or two strings.")
	case token.EqualEqual:
		return loxBool(ok && n == r), nil
	case token.BangEqual:
		return loxBool(!(ok && n == r)), nil
	}
	if !ok {
		return nil, fmt.Errorf("Operands must be numbers.")
	}
	switch op.Type {
	case token.Minus:
		return n - r, nil
	case token.Star:
		return n * r, nil
	case token.Slash:
		if r == 0 {
			return nil, fmt.Errorf("Division by zero.")
		}
		return n / r, nil
	case token.Greater:
		return loxBool(n > r), nil
	case token.GreaterEqual:
		return loxBool(n >= r), nil
	case token.Less:
		return loxBool(n < r), nil
	case token.LessEqual:
		return loxBool(n <= r), nil
	}
	return nil, fmt.Errorf("unsupported binary operator %s", op.Lexeme)
}

// loxString

type loxString string

func (s loxString) String() string { return string(s) }

func (s loxString) BinaryOp(op token.Token, right loxObject) (loxObject, error) {
	r, ok := right.(loxString)
	switch op.Type {
	case token.Plus:
		if !ok {
			return nil, fmt.Errorf("Operands must be two numbers or two strings.")
		}
		return s + r, nil
	case token.EqualEqual:
		return loxBool(ok && s == r), nil
	case token.BangEqual:
		return loxBool(!(ok && s == r)), nil
	}
	return nil, fmt.Errorf("Operands must be numbers.")
}

// loxNativeFunction

type nativeFn func(args []loxObject) loxObject

type loxNativeFunction struct {
	name  string
	arity int
	fn    nativeFn
}

func (f *loxNativeFunction) String() string { return "<native fn>" }
func (f *loxNativeFunction) Arity() int     { return f.arity }

func (f *loxNativeFunction) Call(interp *Interpreter, args []loxObject) (loxObject, error) {
	return f.fn(args), nil
}

// loxFunction

type funKind int

const (
	funKindPlain funKind = iota
	funKindMethod
	funKindInitializer
)

type loxFunction struct {
	decl        *ast.FunctionStmt
	closure     *environment
	kind        funKind
}

func newFunction(decl *ast.FunctionStmt, closure *environment, kind funKind) *loxFunction {
	return &loxFunction{decl: decl, closure: closure, kind: kind}
}

func (f *loxFunction) String() string { return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme) }
func (f *loxFunction) Arity() int     { return len(f.decl.Params) }

// bind returns a copy of f whose closure additionally binds "this" to instance, used when a
// method is looked up off an instance.
func (f *loxFunction) bind(instance *loxInstance) *loxFunction {
	env := f.closure.child()
	env.define("this", instance)
	return newFunction(f.decl, env, f.kind)
}

func (f *loxFunction) Call(interp *Interpreter, args []loxObject) (loxObject, error) {
	env := f.closure.child()
	for i, param := range f.decl.Params {
		env.define(param.Lexeme, args[i])
	}

	result, err := interp.executeBlock(f.decl.Body, env)
	if err != nil {
		return nil, err
	}

	if f.kind == funKindInitializer {
		return f.closure.getAtByName(0, "this"), nil
	}

	if ret, ok := result.(stmtResultReturn); ok {
		return ret.Value, nil
	}
	return loxNil{}, nil
}

// loxClass

type loxClass struct {
	name       string
	superclass *loxClass
	methods    map[string]*loxFunction
}

func (c *loxClass) String() string { return c.name }

func (c *loxClass) findMethod(name string) *loxFunction {
	if m, ok := c.methods[name]; ok {
		return m
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil
}

func (c *loxClass) Arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *loxClass) Call(interp *Interpreter, args []loxObject) (loxObject, error) {
	instance := &loxInstance{class: c, fields: make(map[string]loxObject)}
	if init := c.findMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// loxInstance

type loxInstance struct {
	class  *loxClass
	fields map[string]loxObject
}

func (i *loxInstance) String() string { return i.class.name + " instance" }

func (i *loxInstance) get(name token.Token) (loxObject, error) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}
	if m := i.class.findMethod(name.Lexeme); m != nil {
		return m.bind(i), nil
	}
	return nil, fmt.Errorf("Undefined property '%s'.", name.Lexeme)
}

func (i *loxInstance) set(name token.Token, value loxObject) {
	i.fields[name.Lexeme] = value
}
