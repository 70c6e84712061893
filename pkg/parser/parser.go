package parser

import (
	"fmt"

	"github.com/pviafore/CraftingInterpreters/pkg/ast"
)

const maxArguments = 255

// bailout unwinds the recursive descent back to the nearest declaration
// boundary after an error has been recorded.
type bailout struct{}

// Parser is a recursive-descent parser over a token slice.
type Parser struct {
	tokens  []ast.Token
	current int
	errors  ErrorList
}

// New creates a parser over tokens, which must end with EOF.
func New(tokens []ast.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse scans and parses a whole program.
func Parse(source string) ([]ast.Statement, error) {
	tokens, scanErrs := NewScanner(source).ScanTokens()
	statements, parseErrs := New(tokens).Parse()
	errs := append(ErrorList(scanErrs), parseErrs...)
	if len(errs) > 0 {
		return statements, errs
	}
	return statements, nil
}

// ParseExpression scans and parses a single expression with nothing after it.
func ParseExpression(source string) (ast.Expression, error) {
	tokens, scanErrs := NewScanner(source).ScanTokens()
	if len(scanErrs) > 0 {
		return nil, ErrorList(scanErrs)
	}
	p := New(tokens)
	expr, errs := p.ParseExpression()
	if len(errs) > 0 {
		return nil, errs
	}
	return expr, nil
}

// Parse parses declarations until EOF, recovering at statement boundaries.
func (p *Parser) Parse() ([]ast.Statement, ErrorList) {
	var statements []ast.Statement
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, p.errors
}

// ParseExpression parses one expression that must consume all input.
func (p *Parser) ParseExpression() (expr ast.Expression, errs ErrorList) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			expr = nil
			errs = p.errors
		}
	}()
	expr = p.expression()
	if !p.isAtEnd() {
		p.fail(p.peek(), "Expect end of expression.")
	}
	return expr, p.errors
}

func (p *Parser) declaration() (stmt ast.Statement) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()
	switch {
	case p.match(ast.TokenClass):
		return p.classDeclaration()
	case p.check(ast.TokenFun) && p.checkNext(ast.TokenIdentifier):
		p.advance()
		return p.function("function", false)
	case p.match(ast.TokenVar):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Statement {
	name := p.consume(ast.TokenIdentifier, "Expect class name.")

	var superclass *ast.Variable
	if p.match(ast.TokenLess) {
		p.consume(ast.TokenIdentifier, "Expect superclass name.")
		superclass = ast.NewVariable(p.previous())
	}

	var mixins []*ast.Variable
	if p.match(ast.TokenWith) {
		for {
			p.consume(ast.TokenIdentifier, "Expect mixin name.")
			mixins = append(mixins, ast.NewVariable(p.previous()))
			if !p.match(ast.TokenComma) {
				break
			}
		}
	}

	p.consume(ast.TokenLeftBrace, "Expect '{' before class body.")
	var methods []*ast.Function
	for !p.check(ast.TokenRightBrace) && !p.isAtEnd() {
		isStatic := p.match(ast.TokenClass)
		methods = append(methods, p.function("method", isStatic))
	}
	p.consume(ast.TokenRightBrace, "Expect '}' after class body.")
	return ast.NewClass(name, superclass, mixins, methods)
}

// function parses a named function. Methods may omit the parameter list,
// which declares a property.
func (p *Parser) function(kind string, isStatic bool) *ast.Function {
	name := p.consume(ast.TokenIdentifier, fmt.Sprintf("Expect %s name.", kind))
	isProperty := false
	var params []ast.Token
	if kind == "method" && p.check(ast.TokenLeftBrace) {
		isProperty = true
	} else {
		p.consume(ast.TokenLeftParen, fmt.Sprintf("Expect '(' after %s name.", kind))
		params = p.parameters()
	}
	p.consume(ast.TokenLeftBrace, fmt.Sprintf("Expect '{' before %s body.", kind))
	body := p.block()
	return ast.NewFunction(name, params, body, isStatic, isProperty)
}

func (p *Parser) parameters() []ast.Token {
	var params []ast.Token
	if !p.check(ast.TokenRightParen) {
		for {
			if len(params) >= maxArguments {
				p.report(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArguments))
			}
			params = append(params, p.consume(ast.TokenIdentifier, "Expect parameter name."))
			if !p.match(ast.TokenComma) {
				break
			}
		}
	}
	p.consume(ast.TokenRightParen, "Expect ')' after parameters.")
	return params
}

func (p *Parser) varDeclaration() ast.Statement {
	name := p.consume(ast.TokenIdentifier, "Expect variable name.")
	var initializer ast.Expression
	if p.match(ast.TokenEqual) {
		initializer = p.expression()
	}
	p.consume(ast.TokenSemicolon, "Expect ';' after variable declaration.")
	return ast.NewVar(name, initializer)
}

func (p *Parser) statement() ast.Statement {
	switch {
	case p.match(ast.TokenFor):
		return p.forStatement()
	case p.match(ast.TokenIf):
		return p.ifStatement()
	case p.match(ast.TokenPrint):
		return p.printStatement()
	case p.match(ast.TokenReturn):
		return p.returnStatement()
	case p.match(ast.TokenWhile):
		return p.whileStatement()
	case p.match(ast.TokenBreak):
		keyword := p.previous()
		p.consume(ast.TokenSemicolon, "Expect ';' after 'break'.")
		return ast.NewBreak(keyword)
	case p.match(ast.TokenLeftBrace):
		return ast.NewBlock(p.block())
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars into an optional initializer block around a while loop.
func (p *Parser) forStatement() ast.Statement {
	p.consume(ast.TokenLeftParen, "Expect '(' after 'for'.")

	var initializer ast.Statement
	switch {
	case p.match(ast.TokenSemicolon):
	case p.match(ast.TokenVar):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expression
	if !p.check(ast.TokenSemicolon) {
		condition = p.expression()
	}
	p.consume(ast.TokenSemicolon, "Expect ';' after loop condition.")

	var increment ast.Expression
	if !p.check(ast.TokenRightParen) {
		increment = p.expression()
	}
	p.consume(ast.TokenRightParen, "Expect ')' after for clauses.")

	body := p.statement()
	if increment != nil {
		body = ast.NewBlock([]ast.Statement{body, ast.NewExpressionStatement(increment)})
	}
	if condition == nil {
		condition = ast.NewLiteral(true)
	}
	body = ast.NewWhile(condition, body)
	if initializer != nil {
		body = ast.NewBlock([]ast.Statement{initializer, body})
	}
	return body
}

func (p *Parser) ifStatement() ast.Statement {
	p.consume(ast.TokenLeftParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(ast.TokenRightParen, "Expect ')' after if condition.")
	then := p.statement()
	var otherwise ast.Statement
	if p.match(ast.TokenElse) {
		otherwise = p.statement()
	}
	return ast.NewIf(condition, then, otherwise)
}

func (p *Parser) printStatement() ast.Statement {
	value := p.expression()
	p.consume(ast.TokenSemicolon, "Expect ';' after value.")
	return ast.NewPrint(value)
}

func (p *Parser) returnStatement() ast.Statement {
	keyword := p.previous()
	var value ast.Expression
	if !p.check(ast.TokenSemicolon) {
		value = p.expression()
	}
	p.consume(ast.TokenSemicolon, "Expect ';' after return value.")
	return ast.NewReturn(keyword, value)
}

func (p *Parser) whileStatement() ast.Statement {
	p.consume(ast.TokenLeftParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(ast.TokenRightParen, "Expect ')' after condition.")
	return ast.NewWhile(condition, p.statement())
}

func (p *Parser) expressionStatement() ast.Statement {
	expr := p.expression()
	p.consume(ast.TokenSemicolon, "Expect ';' after expression.")
	return ast.NewExpressionStatement(expr)
}

func (p *Parser) block() []ast.Statement {
	var statements []ast.Statement
	for !p.check(ast.TokenRightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.consume(ast.TokenRightBrace, "Expect '}' after block.")
	return statements
}

// Expressions, lowest precedence first.

func (p *Parser) expression() ast.Expression {
	expr := p.assignment()
	for p.match(ast.TokenComma) {
		operator := p.previous()
		right := p.assignment()
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr
}

func (p *Parser) assignment() ast.Expression {
	expr := p.ternary()
	if p.match(ast.TokenEqual) {
		equals := p.previous()
		value := p.assignment()
		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssign(target.Name, value)
		case *ast.Get:
			return ast.NewSet(target.Object, target.Name, value)
		case *ast.Index:
			return ast.NewIndexSet(target.Object, target.Bracket, target.Index, value)
		default:
			p.report(equals, "Invalid assignment target.")
		}
	}
	return expr
}

func (p *Parser) ternary() ast.Expression {
	condition := p.or()
	if p.match(ast.TokenQuestion) {
		question := p.previous()
		then := p.assignment()
		p.consume(ast.TokenColon, "Expect ':' in ternary expression.")
		otherwise := p.ternary()
		return ast.NewTernary(condition, question, then, otherwise)
	}
	return condition
}

func (p *Parser) or() ast.Expression {
	expr := p.and()
	for p.match(ast.TokenOr) {
		operator := p.previous()
		right := p.and()
		expr = ast.NewLogical(expr, operator, right)
	}
	return expr
}

func (p *Parser) and() ast.Expression {
	expr := p.equality()
	for p.match(ast.TokenAnd) {
		operator := p.previous()
		right := p.equality()
		expr = ast.NewLogical(expr, operator, right)
	}
	return expr
}

func (p *Parser) binary(operand func() ast.Expression, kinds ...ast.TokenType) ast.Expression {
	expr := operand()
	for p.match(kinds...) {
		operator := p.previous()
		right := operand()
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr
}

func (p *Parser) equality() ast.Expression {
	return p.binary(p.comparison, ast.TokenBangEqual, ast.TokenEqualEqual)
}

func (p *Parser) comparison() ast.Expression {
	return p.binary(p.term, ast.TokenGreater, ast.TokenGreaterEqual, ast.TokenLess, ast.TokenLessEqual)
}

func (p *Parser) term() ast.Expression {
	return p.binary(p.factor, ast.TokenMinus, ast.TokenPlus)
}

func (p *Parser) factor() ast.Expression {
	return p.binary(p.unary, ast.TokenSlash, ast.TokenStar)
}

func (p *Parser) unary() ast.Expression {
	if p.match(ast.TokenBang, ast.TokenMinus) {
		operator := p.previous()
		return ast.NewUnary(operator, p.unary())
	}
	return p.call()
}

func (p *Parser) call() ast.Expression {
	expr := p.primary()
	for {
		switch {
		case p.match(ast.TokenLeftParen):
			expr = p.finishCall(expr)
		case p.match(ast.TokenDot):
			name := p.consume(ast.TokenIdentifier, "Expect property name after '.'.")
			expr = ast.NewGet(expr, name)
		case p.match(ast.TokenLeftBracket):
			bracket := p.previous()
			index := p.expression()
			p.consume(ast.TokenRightBracket, "Expect ']' after index.")
			expr = ast.NewIndex(expr, bracket, index)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	args := p.arguments(ast.TokenRightParen)
	paren := p.consume(ast.TokenRightParen, "Expect ')' after arguments.")
	return ast.NewCall(callee, paren, args)
}

func (p *Parser) arguments(closing ast.TokenType) []ast.Expression {
	var args []ast.Expression
	if p.check(closing) {
		return args
	}
	for {
		if len(args) >= maxArguments {
			p.report(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArguments))
		}
		args = append(args, p.assignment())
		if !p.match(ast.TokenComma) {
			return args
		}
	}
}

func (p *Parser) primary() ast.Expression {
	switch {
	case p.match(ast.TokenFalse):
		return ast.NewLiteral(false)
	case p.match(ast.TokenTrue):
		return ast.NewLiteral(true)
	case p.match(ast.TokenNil):
		return ast.NewLiteral(nil)
	case p.match(ast.TokenNumber, ast.TokenString):
		return ast.NewLiteral(p.previous().Literal)
	case p.match(ast.TokenSuper):
		keyword := p.previous()
		p.consume(ast.TokenDot, "Expect '.' after 'super'.")
		method := p.consume(ast.TokenIdentifier, "Expect superclass method name.")
		return ast.NewSuper(keyword, method)
	case p.match(ast.TokenThis):
		return ast.NewThis(p.previous())
	case p.match(ast.TokenInner):
		return ast.NewInner(p.previous())
	case p.match(ast.TokenIdentifier):
		return ast.NewVariable(p.previous())
	case p.match(ast.TokenFun):
		keyword := p.previous()
		p.consume(ast.TokenLeftParen, "Expect '(' after 'fun'.")
		params := p.parameters()
		p.consume(ast.TokenLeftBrace, "Expect '{' before closure body.")
		return ast.NewFunctionExpr(keyword, params, p.block())
	case p.match(ast.TokenLeftBracket):
		bracket := p.previous()
		elements := p.arguments(ast.TokenRightBracket)
		p.consume(ast.TokenRightBracket, "Expect ']' after list elements.")
		return ast.NewListLiteral(bracket, elements)
	case p.match(ast.TokenLeftParen):
		expr := p.expression()
		p.consume(ast.TokenRightParen, "Expect ')' after expression.")
		return ast.NewGrouping(expr)
	}
	p.fail(p.peek(), "Expect expression.")
	return nil
}

// Token helpers.

func (p *Parser) match(kinds ...ast.TokenType) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind ast.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == kind
}

func (p *Parser) checkNext(kind ast.TokenType) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == kind
}

func (p *Parser) advance() ast.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == ast.TokenEOF
}

func (p *Parser) peek() ast.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() ast.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) consume(kind ast.TokenType, message string) ast.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.fail(p.peek(), message)
	return ast.Token{}
}

// report records an error without unwinding.
func (p *Parser) report(token ast.Token, message string) {
	err := &SyntaxError{Line: token.Line, Message: message}
	if token.Type == ast.TokenEOF {
		err.Where = "end"
		err.incomplete = true
	} else {
		err.Where = fmt.Sprintf("'%s'", token.Lexeme)
	}
	p.errors = append(p.errors, err)
}

// fail records an error and unwinds to the enclosing declaration.
func (p *Parser) fail(token ast.Token, message string) {
	p.report(token, message)
	panic(bailout{})
}

func (p *Parser) synchronize() {
	if p.isAtEnd() {
		return
	}
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == ast.TokenSemicolon {
			return
		}
		switch p.peek().Type {
		case ast.TokenClass, ast.TokenFor, ast.TokenFun, ast.TokenIf,
			ast.TokenPrint, ast.TokenReturn, ast.TokenVar, ast.TokenWhile:
			return
		}
		p.advance()
	}
}
