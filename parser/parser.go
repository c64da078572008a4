// Package parser implements a recursive-descent parser that turns a token stream into an AST.
package parser

import (
	"github.com/dhruvv-raghu/lox/ast"
	"github.com/dhruvv-raghu/lox/lox"
	"github.com/dhruvv-raghu/lox/token"
)

const maxArgs = 255

// parseError is panicked internally to unwind out of a broken production; it is always recovered
// before crossing the package boundary.
type parseError struct{}

type parser struct {
	tokens []token.Token
	pos    int
	errs   lox.Errors
}

// Parse consumes the full token stream and returns the statement list forming the program. Parsing
// stops at the first top-level declaration in which a syntax error is reported, and the diagnostics
// reported so far are returned as a single joined error.
func Parse(tokens []token.Token) (ast.Program, error) {
	p := &parser{tokens: tokens}
	var program ast.Program
	for !p.atEnd() && p.errs.Len() == 0 {
		stmt := p.safelyParseDecl()
		if stmt != nil {
			program = append(program, stmt)
		}
	}
	return program, p.errs.Err()
}

// ParseExpr parses a single expression (the legacy mode backing the parse and evaluate CLI
// subcommands) and requires that the tokens are fully consumed.
func ParseExpr(tokens []token.Token) (expr ast.Expr, err error) {
	p := &parser{tokens: tokens}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				err = p.errs.Err()
				return
			}
			panic(r)
		}
	}()
	expr = p.parseExpr()
	if !p.atEnd() {
		p.errorAt(p.peek(), "Expect end of expression.")
		panic(parseError{})
	}
	if err := p.errs.Err(); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) safelyParseDecl() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()
	return p.parseDecl()
}

// token access helpers

func (p *parser) peek() token.Token {
	return p.tokens[p.pos]
}

func (p *parser) previous() token.Token {
	return p.tokens[p.pos-1]
}

func (p *parser) atEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *parser) advance() token.Token {
	tok := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *parser) check(typ token.Type) bool {
	return p.peek().Type == typ
}

func (p *parser) match(types ...token.Type) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) expect(typ token.Type, msg string) token.Token {
	if p.check(typ) {
		return p.advance()
	}
	p.errorAt(p.peek(), msg)
	panic(parseError{})
}

func (p *parser) errorAt(tok token.Token, msg string) {
	p.errs.AddParseError(tok, msg)
}

func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.peek().Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

// declarations and statements

func (p *parser) parseDecl() ast.Stmt {
	switch {
	case p.match(token.Class):
		return p.parseClassDecl()
	case p.match(token.Fun):
		return p.parseFunctionDecl("function")
	case p.match(token.Var):
		return p.parseVarDecl()
	default:
		return p.parseStmt()
	}
}

func (p *parser) parseClassDecl() ast.Stmt {
	name := p.expect(token.Identifier, "Expect class name.")

	var superclass *ast.VariableExpr
	if p.match(token.Less) {
		superclassName := p.expect(token.Identifier, "Expect superclass name.")
		superclass = ast.NewVariableExpr(superclassName)
	}

	p.expect(token.LeftBrace, "Expect '{' before class body.")
	var methods []*ast.FunctionStmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		methods = append(methods, p.parseFunctionDecl("method"))
	}
	p.expect(token.RightBrace, "Expect '}' after class body.")

	return &ast.ClassStmt{Name: name, Superclass: superclass, Methods: methods}
}

func (p *parser) parseFunctionDecl(kind string) *ast.FunctionStmt {
	name := p.expect(token.Identifier, "Expect "+kind+" name.")
	p.expect(token.LeftParen, "Expect '(' after "+kind+" name.")
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.expect(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RightParen, "Expect ')' after parameters.")
	p.expect(token.LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.parseBlock()
	return &ast.FunctionStmt{Name: name, Params: params, Body: body}
}

func (p *parser) parseVarDecl() ast.Stmt {
	name := p.expect(token.Identifier, "Expect variable name.")
	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.parseExpr()
	}
	p.expect(token.Semicolon, "Expect ';' after variable declaration.")
	return &ast.VarStmt{Name: name, Initializer: initializer}
}

func (p *parser) parseStmt() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.parseForStmt()
	case p.match(token.If):
		return p.parseIfStmt()
	case p.match(token.Print):
		return p.parsePrintStmt()
	case p.match(token.Return):
		return p.parseReturnStmt()
	case p.match(token.While):
		return p.parseWhileStmt()
	case p.match(token.LeftBrace):
		return &ast.BlockStmt{Stmts: p.parseBlock()}
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseForStmt() ast.Stmt {
	p.expect(token.LeftParen, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.parseVarDecl()
	default:
		initializer = p.parseExprStmt()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.parseExpr()
	}
	p.expect(token.Semicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.parseExpr()
	}
	p.expect(token.RightParen, "Expect ')' after for clauses.")

	body := p.parseStmt()

	if condition == nil {
		condition = ast.NewLiteralExpr(true)
	}

	if increment != nil {
		body = &ast.BlockStmt{Stmts: []ast.Stmt{body, &ast.ExpressionStmt{Expr: increment}}}
	}
	body = &ast.WhileStmt{Condition: condition, Body: body}
	if initializer != nil {
		body = &ast.BlockStmt{Stmts: []ast.Stmt{initializer, body}}
	}
	return body
}

func (p *parser) parseIfStmt() ast.Stmt {
	p.expect(token.LeftParen, "Expect '(' after 'if'.")
	condition := p.parseExpr()
	p.expect(token.RightParen, "Expect ')' after if condition.")
	thenBranch := p.parseStmt()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.parseStmt()
	}
	return &ast.IfStmt{Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *parser) parsePrintStmt() ast.Stmt {
	value := p.parseExpr()
	p.expect(token.Semicolon, "Expect ';' after value.")
	return &ast.PrintStmt{Expr: value}
}

func (p *parser) parseReturnStmt() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.parseExpr()
	}
	p.expect(token.Semicolon, "Expect ';' after return value.")
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

func (p *parser) parseWhileStmt() ast.Stmt {
	p.expect(token.LeftParen, "Expect '(' after 'while'.")
	condition := p.parseExpr()
	p.expect(token.RightParen, "Expect ')' after condition.")
	body := p.parseStmt()
	return &ast.WhileStmt{Condition: condition, Body: body}
}

func (p *parser) parseBlock() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		stmts = append(stmts, p.parseDecl())
	}
	p.expect(token.RightBrace, "Expect '}' after block.")
	return stmts
}

func (p *parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpr()
	p.expect(token.Semicolon, "Expect ';' after expression.")
	return &ast.ExpressionStmt{Expr: expr}
}

// expressions, in ascending precedence order

func (p *parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

func (p *parser) parseAssignment() ast.Expr {
	expr := p.parseOr()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.parseAssignment()

		switch e := expr.(type) {
		case *ast.VariableExpr:
			return ast.NewAssignExpr(e.Name, value)
		case *ast.GetExpr:
			return ast.NewSetExpr(e.Object, e.Name, value)
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return expr
		}
	}

	return expr
}

func (p *parser) parseOr() ast.Expr {
	expr := p.parseAnd()
	for p.match(token.Or) {
		op := p.previous()
		right := p.parseAnd()
		expr = ast.NewLogicalExpr(expr, op, right)
	}
	return expr
}

func (p *parser) parseAnd() ast.Expr {
	expr := p.parseEquality()
	for p.match(token.And) {
		op := p.previous()
		right := p.parseEquality()
		expr = ast.NewLogicalExpr(expr, op, right)
	}
	return expr
}

func (p *parser) parseEquality() ast.Expr {
	expr := p.parseComparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		right := p.parseComparison()
		expr = ast.NewBinaryExpr(expr, op, right)
	}
	return expr
}

func (p *parser) parseComparison() ast.Expr {
	expr := p.parseTerm()
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right := p.parseTerm()
		expr = ast.NewBinaryExpr(expr, op, right)
	}
	return expr
}

func (p *parser) parseTerm() ast.Expr {
	expr := p.parseFactor()
	for p.match(token.Minus, token.Plus) {
		op := p.previous()
		right := p.parseFactor()
		expr = ast.NewBinaryExpr(expr, op, right)
	}
	return expr
}

func (p *parser) parseFactor() ast.Expr {
	expr := p.parseUnary()
	for p.match(token.Slash, token.Star) {
		op := p.previous()
		right := p.parseUnary()
		expr = ast.NewBinaryExpr(expr, op, right)
	}
	return expr
}

func (p *parser) parseUnary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.parseUnary()
		return ast.NewUnaryExpr(op, right)
	}
	return p.parseCall()
}

func (p *parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.expect(token.Identifier, "Expect property name after '.'.")
			expr = ast.NewGetExpr(expr, name)
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.parseExpr())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.expect(token.RightParen, "Expect ')' after arguments.")
	return ast.NewCallExpr(callee, paren, args)
}

func (p *parser) parsePrimary() ast.Expr {
	switch {
	case p.match(token.False):
		return ast.NewLiteralExpr(false)
	case p.match(token.True):
		return ast.NewLiteralExpr(true)
	case p.match(token.Nil):
		return ast.NewLiteralExpr(nil)
	case p.match(token.Number, token.String):
		return ast.NewLiteralExpr(p.previous().Literal)
	case p.match(token.Super):
		keyword := p.previous()
		p.expect(token.Dot, "Expect '.' after 'super'.")
		method := p.expect(token.Identifier, "Expect superclass method name.")
		return ast.NewSuperExpr(keyword, method)
	case p.match(token.This):
		return ast.NewThisExpr(p.previous())
	case p.match(token.Identifier):
		return ast.NewVariableExpr(p.previous())
	case p.match(token.LeftParen):
		expr := p.parseExpr()
		p.expect(token.RightParen, "Expect ')' after expression.")
		return ast.NewGroupingExpr(expr)
	default:
		p.errorAt(p.peek(), "Expect expression.")
		panic(parseError{})
	}
}
