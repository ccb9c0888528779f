// Package ast defines the typed AST node hierarchy (spec §3 "AST
// nodes") and the visitor/traversal framework (spec §4.4) that walks
// it.
package ast

import "fmt"

// Node is any AST node. Children returns its structural child nodes
// in declaration order, distinguished from attribute fields (spec
// §4.4): a node's type/decl/ir_obj back-references are never children.
type Node interface {
	Children() []Node
}

// Decl is a declaration: TranslationUnit, FuncDecl, or VarDecl.
type Decl interface {
	Node
	isDecl()
}

// NamedDecl is a declaration with a name, the kind codegen attaches an
// ir_obj back-reference to (spec §3).
type NamedDecl interface {
	Decl
	DeclName() string
}

// Stmt is a statement. Every Expr is also a Stmt (spec §3).
type Stmt interface {
	Node
	isStmt()
}

// Expr is an expression; it carries a Type attribute populated by
// semantic analysis, stored out-of-line in an *Attrs side table
// (Design Note §9), not as a struct field.
type Expr interface {
	Stmt
	isExpr()
}

////////////////////////////////////////////////////////////////////
// Declarations

// TranslationUnit is the root of a parsed program.
type TranslationUnit struct {
	Decls []Decl
}

func (*TranslationUnit) isDecl() {}
func (t *TranslationUnit) Children() []Node {
	out := make([]Node, len(t.Decls))
	for i, d := range t.Decls {
		out[i] = d
	}
	return out
}

// FuncDecl declares a function: its signature, its parameters (as
// VarDecls, in order), and its statement list.
type FuncDecl struct {
	Name       string
	Type       TypeFunc
	Params     []*VarDecl
	Statements []Stmt
}

func (*FuncDecl) isDecl()             {}
func (f *FuncDecl) DeclName() string  { return f.Name }
func (f *FuncDecl) Children() []Node {
	out := make([]Node, 0, len(f.Params)+len(f.Statements))
	for _, p := range f.Params {
		out = append(out, p)
	}
	for _, s := range f.Statements {
		out = append(out, s)
	}
	return out
}

// VarDecl declares one local variable or parameter.
type VarDecl struct {
	Name string
	Type TypeExpr
}

func (*VarDecl) isDecl()            {}
func (*VarDecl) isStmt()            {}
func (v *VarDecl) DeclName() string { return v.Name }
func (*VarDecl) Children() []Node   { return nil }

////////////////////////////////////////////////////////////////////
// Statements

// CodeBlock is a brace-delimited statement list; it opens its own
// lexical scope (spec §4.5).
type CodeBlock struct {
	Statements []Stmt
}

func (*CodeBlock) isStmt() {}
func (c *CodeBlock) Children() []Node {
	out := make([]Node, len(c.Statements))
	for i, s := range c.Statements {
		out[i] = s
	}
	return out
}

// IfStmt is `if (Cond) Then [else Else]`.
type IfStmt struct {
	Cond Expr
	Then *CodeBlock
	Else *CodeBlock // nil if no else-branch
}

func (*IfStmt) isStmt() {}
func (s *IfStmt) Children() []Node {
	out := []Node{s.Cond, s.Then}
	if s.Else != nil {
		out = append(out, s.Else)
	}
	return out
}

// WhileStmt is `while (Cond) Body`.
type WhileStmt struct {
	Cond Expr
	Body *CodeBlock
}

func (*WhileStmt) isStmt() {}
func (s *WhileStmt) Children() []Node { return []Node{s.Cond, s.Body} }

// ForStmt is `for (Init; Cond; Next) Body`. Init and Next are
// expression-statements (possibly nil for the C-style empty clauses).
type ForStmt struct {
	Init Expr
	Cond Expr
	Next Expr
	Body *CodeBlock
}

func (*ForStmt) isStmt() {}
func (s *ForStmt) Children() []Node {
	var out []Node
	if s.Init != nil {
		out = append(out, s.Init)
	}
	out = append(out, s.Cond)
	if s.Next != nil {
		out = append(out, s.Next)
	}
	return append(out, s.Body)
}

// ReturnStmt is `return Expr;`.
type ReturnStmt struct {
	Expr Expr
}

func (*ReturnStmt) isStmt()           {}
func (r *ReturnStmt) Children() []Node { return []Node{r.Expr} }

// BreakStmt is `break;`.
type BreakStmt struct{}

func (*BreakStmt) isStmt()          {}
func (*BreakStmt) Children() []Node { return nil }

// ContinueStmt is `continue;`.
type ContinueStmt struct{}

func (*ContinueStmt) isStmt()          {}
func (*ContinueStmt) Children() []Node { return nil }

////////////////////////////////////////////////////////////////////
// Expressions

// Identifier is a name reference; its declaration back-reference is
// stored in an *Attrs table (Design Note §9), not here.
type Identifier struct {
	Name string
}

func (*Identifier) isStmt()           {}
func (*Identifier) isExpr()           {}
func (*Identifier) Children() []Node  { return nil }
func (i *Identifier) String() string  { return i.Name }

// Literal is an integer literal.
type Literal struct {
	Value int
}

func (*Literal) isStmt()          {}
func (*Literal) isExpr()          {}
func (*Literal) Children() []Node { return nil }

// UnopKind enumerates unary operators.
type UnopKind int

const (
	OpNot UnopKind = iota
	OpNeg
	OpRef
	OpDeref
)

func (k UnopKind) String() string {
	return [...]string{"Not", "Neg", "Ref", "Deref"}[k]
}

// UnopExpr is a unary operator application.
type UnopExpr struct {
	Op   UnopKind
	Expr Expr
}

func (*UnopExpr) isStmt()           {}
func (*UnopExpr) isExpr()           {}
func (u *UnopExpr) Children() []Node { return []Node{u.Expr} }

// BinopKind enumerates binary operators, including Assign (spec §3:
// "binary Assign/Add/Sub/Mul/Div/LessEqual(lhs, rhs)").
type BinopKind int

const (
	OpAssign BinopKind = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpLessEqual
)

func (k BinopKind) String() string {
	return [...]string{"Assign", "Add", "Sub", "Mul", "Div", "LessEqual"}[k]
}

// BinopExpr is a binary operator application.
type BinopExpr struct {
	Op  BinopKind
	LHS Expr
	RHS Expr
}

func (*BinopExpr) isStmt()           {}
func (*BinopExpr) isExpr()           {}
func (b *BinopExpr) Children() []Node { return []Node{b.LHS, b.RHS} }

// CallExpr is `callee(arguments...)`.
type CallExpr struct {
	Callee    *Identifier
	Arguments []Expr
}

func (*CallExpr) isStmt() {}
func (*CallExpr) isExpr() {}
func (c *CallExpr) Children() []Node {
	out := make([]Node, 0, 1+len(c.Arguments))
	out = append(out, c.Callee)
	for _, a := range c.Arguments {
		out = append(out, a)
	}
	return out
}

// String renders a node for debugging/diagnostics.
func String(n Node) string {
	return fmt.Sprintf("%T", n)
}
