package ast

// Builder helpers used by tests and by hosts that assemble programs without
// going through the parser. Synthesised tokens carry line 0.

var operatorTokens = map[string]TokenType{
	"+":   TokenPlus,
	"-":   TokenMinus,
	"*":   TokenStar,
	"/":   TokenSlash,
	"!":   TokenBang,
	"==":  TokenEqualEqual,
	"!=":  TokenBangEqual,
	">":   TokenGreater,
	">=":  TokenGreaterEqual,
	"<":   TokenLess,
	"<=":  TokenLessEqual,
	",":   TokenComma,
	"and": TokenAnd,
	"or":  TokenOr,
}

// Ident returns an identifier token.
func Ident(name string) Token {
	return NewToken(TokenIdentifier, name, 0)
}

// Op returns the operator token for lexeme. Unknown lexemes become identifiers.
func Op(lexeme string) Token {
	if kind, ok := operatorTokens[lexeme]; ok {
		return NewToken(kind, lexeme, 0)
	}
	return Ident(lexeme)
}

// Identifier and literal helpers.

func ID(name string) *Variable {
	return NewVariable(Ident(name))
}

func Num(value float64) *Literal {
	return NewLiteral(value)
}

func Str(value string) *Literal {
	return NewLiteral(value)
}

func Bool(value bool) *Literal {
	return NewLiteral(value)
}

func Nil() *Literal {
	return NewLiteral(nil)
}

func List(elements ...Expression) *ListLiteral {
	return NewListLiteral(NewToken(TokenLeftBracket, "[", 0), elements)
}

// Expression helpers.

func Group(expr Expression) *Grouping {
	return NewGrouping(expr)
}

func Neg(expr Expression) *Unary {
	return NewUnary(Op("-"), expr)
}

func Not(expr Expression) *Unary {
	return NewUnary(Op("!"), expr)
}

func Bin(op string, left, right Expression) *Binary {
	return NewBinary(left, Op(op), right)
}

func And(left, right Expression) *Logical {
	return NewLogical(left, Op("and"), right)
}

func Or(left, right Expression) *Logical {
	return NewLogical(left, Op("or"), right)
}

func Cond(condition, then, otherwise Expression) *Ternary {
	return NewTernary(condition, NewToken(TokenQuestion, "?", 0), then, otherwise)
}

func AssignTo(name string, value Expression) *Assign {
	return NewAssign(Ident(name), value)
}

func CallExpr(callee Expression, args ...Expression) *Call {
	return NewCall(callee, NewToken(TokenRightParen, ")", 0), args)
}

func Closure(params []string, body ...Statement) *FunctionExpr {
	return NewFunctionExpr(NewToken(TokenFun, "fun", 0), idents(params), body)
}

func Member(object Expression, name string) *Get {
	return NewGet(object, Ident(name))
}

func SetMember(object Expression, name string, value Expression) *Set {
	return NewSet(object, Ident(name), value)
}

func Self() *This {
	return NewThis(NewToken(TokenThis, "this", 0))
}

func SuperMethod(name string) *Super {
	return NewSuper(NewToken(TokenSuper, "super", 0), Ident(name))
}

func InnerRef() *Inner {
	return NewInner(NewToken(TokenInner, "inner", 0))
}

func At(object, index Expression) *Index {
	return NewIndex(object, NewToken(TokenLeftBracket, "[", 0), index)
}

func SetAt(object, index, value Expression) *IndexSet {
	return NewIndexSet(object, NewToken(TokenLeftBracket, "[", 0), index, value)
}

// Statement helpers.

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func PrintStmt(expr Expression) *Print {
	return NewPrint(expr)
}

func VarDecl(name string, initializer Expression) *Var {
	return NewVar(Ident(name), initializer)
}

func Blk(statements ...Statement) *Block {
	return NewBlock(statements)
}

func IfStmt(condition Expression, then, otherwise Statement) *If {
	return NewIf(condition, then, otherwise)
}

func WhileStmt(condition Expression, body Statement) *While {
	return NewWhile(condition, body)
}

func Brk() *Break {
	return NewBreak(NewToken(TokenBreak, "break", 0))
}

func Ret(value Expression) *Return {
	return NewReturn(NewToken(TokenReturn, "return", 0), value)
}

func Fn(name string, params []string, body ...Statement) *Function {
	return NewFunction(Ident(name), idents(params), body, false, false)
}

func StaticFn(name string, params []string, body ...Statement) *Function {
	return NewFunction(Ident(name), idents(params), body, true, false)
}

func Property(name string, body ...Statement) *Function {
	return NewFunction(Ident(name), nil, body, false, true)
}

// ClassDecl builds a class. An empty superclass name means no superclass.
func ClassDecl(name, superclass string, mixins []string, methods ...*Function) *Class {
	var super *Variable
	if superclass != "" {
		super = ID(superclass)
	}
	mixinRefs := make([]*Variable, 0, len(mixins))
	for _, mixin := range mixins {
		mixinRefs = append(mixinRefs, ID(mixin))
	}
	return NewClass(Ident(name), super, mixinRefs, methods)
}

func Program(statements ...Statement) []Statement {
	return statements
}

func idents(names []string) []Token {
	tokens := make([]Token, 0, len(names))
	for _, name := range names {
		tokens = append(tokens, Ident(name))
	}
	return tokens
}
