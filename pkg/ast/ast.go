package ast

import "sync/atomic"

type NodeType string

const (
	NodeLiteral      NodeType = "Literal"
	NodeGrouping     NodeType = "Grouping"
	NodeUnary        NodeType = "Unary"
	NodeBinary       NodeType = "Binary"
	NodeLogical      NodeType = "Logical"
	NodeTernary      NodeType = "Ternary"
	NodeVariable     NodeType = "Variable"
	NodeAssign       NodeType = "Assign"
	NodeCall         NodeType = "Call"
	NodeFunctionExpr NodeType = "FunctionExpr"
	NodeGet          NodeType = "Get"
	NodeSet          NodeType = "Set"
	NodeThis         NodeType = "This"
	NodeSuper        NodeType = "Super"
	NodeInner        NodeType = "Inner"
	NodeListLiteral  NodeType = "ListLiteral"
	NodeIndex        NodeType = "Index"
	NodeIndexSet     NodeType = "IndexSet"

	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodePrint               NodeType = "Print"
	NodeVar                 NodeType = "Var"
	NodeBlock               NodeType = "Block"
	NodeIf                  NodeType = "If"
	NodeWhile               NodeType = "While"
	NodeBreak               NodeType = "Break"
	NodeFunction            NodeType = "Function"
	NodeReturn              NodeType = "Return"
	NodeClass               NodeType = "Class"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// NodeID identifies a reference-carrying node. The resolver keys its address
// table by NodeID, so two structurally equal nodes never share an address.
type NodeID uint64

var lastNodeID atomic.Uint64

func nextNodeID() NodeID {
	return NodeID(lastNodeID.Add(1))
}

// Reference is implemented by nodes that name a binding: Variable, Assign,
// This, Super and Inner.
type Reference interface {
	Expression
	RefID() NodeID
}

type refImpl struct {
	ID NodeID `json:"id"`
}

func newRefImpl() refImpl {
	return refImpl{ID: nextNodeID()}
}

func (r refImpl) RefID() NodeID { return r.ID }

// Expressions

// Literal carries a float64, string, bool or nil value.
type Literal struct {
	nodeImpl
	expressionMarker

	Value any `json:"value"`
}

func NewLiteral(value any) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value}
}

type Grouping struct {
	nodeImpl
	expressionMarker

	Expression Expression `json:"expression"`
}

func NewGrouping(expr Expression) *Grouping {
	return &Grouping{nodeImpl: newNodeImpl(NodeGrouping), Expression: expr}
}

type Unary struct {
	nodeImpl
	expressionMarker

	Operator Token      `json:"operator"`
	Right    Expression `json:"right"`
}

func NewUnary(operator Token, right Expression) *Unary {
	return &Unary{nodeImpl: newNodeImpl(NodeUnary), Operator: operator, Right: right}
}

type Binary struct {
	nodeImpl
	expressionMarker

	Left     Expression `json:"left"`
	Operator Token      `json:"operator"`
	Right    Expression `json:"right"`
}

func NewBinary(left Expression, operator Token, right Expression) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary), Left: left, Operator: operator, Right: right}
}

type Logical struct {
	nodeImpl
	expressionMarker

	Left     Expression `json:"left"`
	Operator Token      `json:"operator"`
	Right    Expression `json:"right"`
}

func NewLogical(left Expression, operator Token, right Expression) *Logical {
	return &Logical{nodeImpl: newNodeImpl(NodeLogical), Left: left, Operator: operator, Right: right}
}

type Ternary struct {
	nodeImpl
	expressionMarker

	Condition Expression `json:"condition"`
	Question  Token      `json:"question"`
	Then      Expression `json:"then"`
	Else      Expression `json:"else"`
}

func NewTernary(condition Expression, question Token, then, otherwise Expression) *Ternary {
	return &Ternary{nodeImpl: newNodeImpl(NodeTernary), Condition: condition, Question: question, Then: then, Else: otherwise}
}

type Variable struct {
	nodeImpl
	expressionMarker
	refImpl

	Name Token `json:"name"`
}

func NewVariable(name Token) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), refImpl: newRefImpl(), Name: name}
}

type Assign struct {
	nodeImpl
	expressionMarker
	refImpl

	Name  Token      `json:"name"`
	Value Expression `json:"value"`
}

func NewAssign(name Token, value Expression) *Assign {
	return &Assign{nodeImpl: newNodeImpl(NodeAssign), refImpl: newRefImpl(), Name: name, Value: value}
}

type Call struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Paren     Token        `json:"paren"`
	Arguments []Expression `json:"arguments"`
}

func NewCall(callee Expression, paren Token, args []Expression) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall), Callee: callee, Paren: paren, Arguments: args}
}

// FunctionExpr is an anonymous closure: fun (params) { body }.
type FunctionExpr struct {
	nodeImpl
	expressionMarker

	Keyword Token       `json:"keyword"`
	Params  []Token     `json:"params"`
	Body    []Statement `json:"body"`
}

func NewFunctionExpr(keyword Token, params []Token, body []Statement) *FunctionExpr {
	return &FunctionExpr{nodeImpl: newNodeImpl(NodeFunctionExpr), Keyword: keyword, Params: params, Body: body}
}

type Get struct {
	nodeImpl
	expressionMarker

	Object Expression `json:"object"`
	Name   Token      `json:"name"`
}

func NewGet(object Expression, name Token) *Get {
	return &Get{nodeImpl: newNodeImpl(NodeGet), Object: object, Name: name}
}

type Set struct {
	nodeImpl
	expressionMarker

	Object Expression `json:"object"`
	Name   Token      `json:"name"`
	Value  Expression `json:"value"`
}

func NewSet(object Expression, name Token, value Expression) *Set {
	return &Set{nodeImpl: newNodeImpl(NodeSet), Object: object, Name: name, Value: value}
}

type This struct {
	nodeImpl
	expressionMarker
	refImpl

	Keyword Token `json:"keyword"`
}

func NewThis(keyword Token) *This {
	return &This{nodeImpl: newNodeImpl(NodeThis), refImpl: newRefImpl(), Keyword: keyword}
}

type Super struct {
	nodeImpl
	expressionMarker
	refImpl

	Keyword Token `json:"keyword"`
	Method  Token `json:"method"`
}

func NewSuper(keyword, method Token) *Super {
	return &Super{nodeImpl: newNodeImpl(NodeSuper), refImpl: newRefImpl(), Keyword: keyword, Method: method}
}

// Inner refers to the subclass override of the enclosing method.
type Inner struct {
	nodeImpl
	expressionMarker
	refImpl

	Keyword Token `json:"keyword"`
}

func NewInner(keyword Token) *Inner {
	return &Inner{nodeImpl: newNodeImpl(NodeInner), refImpl: newRefImpl(), Keyword: keyword}
}

type ListLiteral struct {
	nodeImpl
	expressionMarker

	Bracket  Token        `json:"bracket"`
	Elements []Expression `json:"elements"`
}

func NewListLiteral(bracket Token, elements []Expression) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Bracket: bracket, Elements: elements}
}

type Index struct {
	nodeImpl
	expressionMarker

	Object  Expression `json:"object"`
	Bracket Token      `json:"bracket"`
	Index   Expression `json:"index"`
}

func NewIndex(object Expression, bracket Token, index Expression) *Index {
	return &Index{nodeImpl: newNodeImpl(NodeIndex), Object: object, Bracket: bracket, Index: index}
}

type IndexSet struct {
	nodeImpl
	expressionMarker

	Object  Expression `json:"object"`
	Bracket Token      `json:"bracket"`
	Index   Expression `json:"index"`
	Value   Expression `json:"value"`
}

func NewIndexSet(object Expression, bracket Token, index, value Expression) *IndexSet {
	return &IndexSet{nodeImpl: newNodeImpl(NodeIndexSet), Object: object, Bracket: bracket, Index: index, Value: value}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type Print struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewPrint(expr Expression) *Print {
	return &Print{nodeImpl: newNodeImpl(NodePrint), Expression: expr}
}

// Var declares a variable. A nil Initializer leaves the binding uninitialized.
type Var struct {
	nodeImpl
	statementMarker

	Name        Token      `json:"name"`
	Initializer Expression `json:"initializer,omitempty"`
}

func NewVar(name Token, initializer Expression) *Var {
	return &Var{nodeImpl: newNodeImpl(NodeVar), Name: name, Initializer: initializer}
}

type Block struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewBlock(statements []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Statements: statements}
}

type If struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIf(condition Expression, then, otherwise Statement) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf), Condition: condition, Then: then, Else: otherwise}
}

type While struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhile(condition Expression, body Statement) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile), Condition: condition, Body: body}
}

type Break struct {
	nodeImpl
	statementMarker

	Keyword Token `json:"keyword"`
}

func NewBreak(keyword Token) *Break {
	return &Break{nodeImpl: newNodeImpl(NodeBreak), Keyword: keyword}
}

// Function declares a named function or, inside a class body, a method.
// IsStatic marks methods declared with a leading `class`; IsProperty marks
// methods declared without a parameter list.
type Function struct {
	nodeImpl
	statementMarker

	Name       Token       `json:"name"`
	Params     []Token     `json:"params"`
	Body       []Statement `json:"body"`
	IsStatic   bool        `json:"isStatic,omitempty"`
	IsProperty bool        `json:"isProperty,omitempty"`
}

func NewFunction(name Token, params []Token, body []Statement, isStatic, isProperty bool) *Function {
	return &Function{nodeImpl: newNodeImpl(NodeFunction), Name: name, Params: params, Body: body, IsStatic: isStatic, IsProperty: isProperty}
}

type Return struct {
	nodeImpl
	statementMarker

	Keyword Token      `json:"keyword"`
	Value   Expression `json:"value,omitempty"`
}

func NewReturn(keyword Token, value Expression) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn), Keyword: keyword, Value: value}
}

type Class struct {
	nodeImpl
	statementMarker

	Name       Token       `json:"name"`
	Superclass *Variable   `json:"superclass,omitempty"`
	Mixins     []*Variable `json:"mixins,omitempty"`
	Methods    []*Function `json:"methods"`
}

func NewClass(name Token, superclass *Variable, mixins []*Variable, methods []*Function) *Class {
	return &Class{nodeImpl: newNodeImpl(NodeClass), Name: name, Superclass: superclass, Mixins: mixins, Methods: methods}
}
