// Package resolver performs a static pass over the parsed program, computing the lexical distance
// from every variable-use site to the scope that defines it and rejecting a fixed catalogue of
// static errors before the evaluator ever runs.
package resolver

import (
	"github.com/dhruvv-raghu/lox/ast"
	"github.com/dhruvv-raghu/lox/lox"
	"github.com/dhruvv-raghu/lox/token"
)

type funType int

const (
	funTypeNone funType = iota
	funTypeFunction
	funTypeMethod
	funTypeInitializer
)

type classType int

const (
	classTypeNone classType = iota
	classTypeClass
	classTypeSubclass
)

// scope maps a name declared in the enclosing block to whether it has finished being defined.
// false means "declared but its initializer is still being resolved".
type scope map[string]bool

type resolver struct {
	scopes      []scope
	curFunType  funType
	curClass    classType
	distances   map[int]int
	errs        lox.Errors
}

// Resolve walks program once, returning a table mapping each expression node's ID (see
// ast.Expr.ExprID) to the number of enclosing scopes between its use site and the scope that
// declares it. An expression with no entry in the table refers to a global.
func Resolve(program ast.Program) (map[int]int, error) {
	r := &resolver{distances: make(map[int]int)}
	r.resolveStmts(program)
	return r.distances, r.errs.Err()
}

// scope stack

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if _, ok := top[name.Lexeme]; ok {
		r.errs.AddParseError(name, "Already a variable with this name in this scope.")
	}
	top[name.Lexeme] = false
}

func (r *resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.distances[expr.ExprID()] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any scope: resolves against globals at runtime
}

// statements

func (r *resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()
	case *ast.VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, funTypeFunction)
	case *ast.ClassStmt:
		r.resolveClass(s)
	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expr)
	case *ast.PrintStmt:
		r.resolveExpr(s.Expr)
	case *ast.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	case *ast.ReturnStmt:
		if r.curFunType == funTypeNone {
			r.errs.AddParseError(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.curFunType == funTypeInitializer {
				r.errs.AddParseError(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *resolver) resolveFunction(decl *ast.FunctionStmt, typ funType) {
	enclosingFunType := r.curFunType
	r.curFunType = typ
	defer func() { r.curFunType = enclosingFunType }()

	r.beginScope()
	defer r.endScope()
	for _, param := range decl.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(decl.Body)
}

func (r *resolver) resolveClass(s *ast.ClassStmt) {
	enclosingClass := r.curClass
	r.curClass = classTypeClass
	defer func() { r.curClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.errs.AddParseError(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.curClass = classTypeSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	defer r.endScope()

	for _, method := range s.Methods {
		typ := funTypeMethod
		if method.Name.Lexeme == "init" {
			typ = funTypeInitializer
		}
		r.resolveFunction(method, typ)
	}
}

// expressions

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.VariableExpr:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.errs.AddParseError(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	case *ast.AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.LiteralExpr:
		// no identifiers to resolve
	case *ast.GroupingExpr:
		r.resolveExpr(e.Expr)
	case *ast.UnaryExpr:
		r.resolveExpr(e.Right)
	case *ast.BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.CallExpr:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *ast.GetExpr:
		r.resolveExpr(e.Object)
	case *ast.SetExpr:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.ThisExpr:
		if r.curClass == classTypeNone {
			r.errs.AddParseError(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.SuperExpr:
		if r.curClass == classTypeNone {
			r.errs.AddParseError(e.Keyword, "Can't use 'super' outside of a class.")
		} else if r.curClass != classTypeSubclass {
			r.errs.AddParseError(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)
	default:
		panic("resolver: unhandled expression type")
	}
}
