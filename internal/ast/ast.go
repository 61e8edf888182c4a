// Package ast defines the abstract syntax tree produced by the parser.
package ast

// Module is an ordered sequence of function declarations. No top-level
// statements exist outside of funcs.
type Module struct {
	Funcs []*Func
}

// Func is a single named function: a list of argument names and a body
// expression. minilang has no statements, so a function body is always one
// Expr.
type Func struct {
	Name string
	Args []string
	Body Expr
}

// Expr is the sum type of every expression form. Each concrete type below
// implements it as a marker.
type Expr interface {
	exprNode()
}

type IntLiteral struct {
	Value int32
}

type Ident struct {
	Name string
}

type BinaryOp struct {
	Op  string
	LHS Expr
	RHS Expr
}

type PrefixOp struct {
	Op  string
	Arg Expr
}

type Assign struct {
	Name string
	RHS  Expr
}

type Call struct {
	Name string
	Args []Expr
}

type While struct {
	Cond Expr
	Body Expr
}

type If struct {
	Cond Expr
	Then Expr
	Else Expr
}

type Block struct {
	Exprs []Expr
}

// Var is a lexical let-binding: Name is bound to Init for the extent of
// Body only.
type Var struct {
	Name string
	Init Expr
	Body Expr
}

func (*IntLiteral) exprNode() {}
func (*Ident) exprNode()      {}
func (*BinaryOp) exprNode()   {}
func (*PrefixOp) exprNode()   {}
func (*Assign) exprNode()     {}
func (*Call) exprNode()       {}
func (*While) exprNode()      {}
func (*If) exprNode()         {}
func (*Block) exprNode()      {}
func (*Var) exprNode()        {}
