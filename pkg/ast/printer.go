package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sexpr renders a node as a parenthesised prefix form, e.g. `(* (- 123) (group 45.67))`.
// It is used by `lox parse` and by parser tests.
func Sexpr(node Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

// SexprProgram renders each statement on its own line.
func SexprProgram(statements []Statement) string {
	lines := make([]string, 0, len(statements))
	for _, stmt := range statements {
		lines = append(lines, Sexpr(stmt))
	}
	return strings.Join(lines, "\n")
}

func writeNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("nil")
	case *Literal:
		b.WriteString(literalText(n.Value))
	case *Grouping:
		parenthesize(b, "group", n.Expression)
	case *Unary:
		parenthesize(b, n.Operator.Lexeme, n.Right)
	case *Binary:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *Logical:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *Ternary:
		parenthesize(b, "?:", n.Condition, n.Then, n.Else)
	case *Variable:
		b.WriteString(n.Name.Lexeme)
	case *Assign:
		parenthesize(b, "= "+n.Name.Lexeme, n.Value)
	case *Call:
		parenthesize(b, "call", append([]Node{n.Callee}, exprNodes(n.Arguments)...)...)
	case *FunctionExpr:
		parenthesize(b, "fun ("+tokenList(n.Params)+")", stmtNodes(n.Body)...)
	case *Get:
		parenthesize(b, "."+n.Name.Lexeme, n.Object)
	case *Set:
		parenthesize(b, "."+n.Name.Lexeme+"=", n.Object, n.Value)
	case *This:
		b.WriteString("this")
	case *Super:
		b.WriteString("super." + n.Method.Lexeme)
	case *Inner:
		b.WriteString("inner")
	case *ListLiteral:
		parenthesize(b, "list", exprNodes(n.Elements)...)
	case *Index:
		parenthesize(b, "[]", n.Object, n.Index)
	case *IndexSet:
		parenthesize(b, "[]=", n.Object, n.Index, n.Value)
	case *ExpressionStatement:
		parenthesize(b, ";", n.Expression)
	case *Print:
		parenthesize(b, "print", n.Expression)
	case *Var:
		if n.Initializer == nil {
			b.WriteString("(var " + n.Name.Lexeme + ")")
			return
		}
		parenthesize(b, "var "+n.Name.Lexeme, n.Initializer)
	case *Block:
		parenthesize(b, "block", stmtNodes(n.Statements)...)
	case *If:
		if n.Else == nil {
			parenthesize(b, "if", n.Condition, n.Then)
			return
		}
		parenthesize(b, "if", n.Condition, n.Then, n.Else)
	case *While:
		parenthesize(b, "while", n.Condition, n.Body)
	case *Break:
		b.WriteString("(break)")
	case *Function:
		head := "fun " + n.Name.Lexeme
		switch {
		case n.IsProperty:
			head = "property " + n.Name.Lexeme
		case n.IsStatic:
			head = "class fun " + n.Name.Lexeme + " (" + tokenList(n.Params) + ")"
		default:
			head += " (" + tokenList(n.Params) + ")"
		}
		parenthesize(b, head, stmtNodes(n.Body)...)
	case *Return:
		if n.Value == nil {
			b.WriteString("(return)")
			return
		}
		parenthesize(b, "return", n.Value)
	case *Class:
		head := "class " + n.Name.Lexeme
		if n.Superclass != nil {
			head += " < " + n.Superclass.Name.Lexeme
		}
		if len(n.Mixins) > 0 {
			names := make([]string, 0, len(n.Mixins))
			for _, m := range n.Mixins {
				names = append(names, m.Name.Lexeme)
			}
			head += " with " + strings.Join(names, " ")
		}
		nodes := make([]Node, 0, len(n.Methods))
		for _, m := range n.Methods {
			nodes = append(nodes, m)
		}
		parenthesize(b, head, nodes...)
	default:
		fmt.Fprintf(b, "<%T>", node)
	}
}

func parenthesize(b *strings.Builder, name string, nodes ...Node) {
	b.WriteString("(")
	b.WriteString(name)
	for _, node := range nodes {
		b.WriteString(" ")
		writeNode(b, node)
	}
	b.WriteString(")")
}

func literalText(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func tokenList(tokens []Token) string {
	names := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		names = append(names, tok.Lexeme)
	}
	return strings.Join(names, " ")
}

func exprNodes(exprs []Expression) []Node {
	nodes := make([]Node, 0, len(exprs))
	for _, e := range exprs {
		nodes = append(nodes, e)
	}
	return nodes
}

func stmtNodes(stmts []Statement) []Node {
	nodes := make([]Node, 0, len(stmts))
	for _, s := range stmts {
		nodes = append(nodes, s)
	}
	return nodes
}
