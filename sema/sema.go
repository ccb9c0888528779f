package sema

import "github.com/l0lang/l0c/ast"

// Analysis is the semantic-analysis visitor (spec §4.5): it walks a
// TranslationUnit with ast.Walk, maintaining a symbol-table stack and
// a loop-nesting counter, and records every violation it finds instead
// of stopping at the first one, so a single run surfaces as many
// diagnostics as possible.
type Analysis struct {
	attrs   *ast.Attrs
	symbols *SymbolTable
	errors  ErrorList

	loopDepth int
	funcStack []*ast.FuncDecl
}

// Analyze type-checks tu, returning its populated attribute table, or
// a *Failure if any semantic error was found.
func Analyze(tu *ast.TranslationUnit) (*ast.Attrs, error) {
	a := &Analysis{attrs: ast.NewAttrs(), symbols: NewSymbolTable()}
	ast.Walk(a, tu)
	if len(a.errors) > 0 {
		return a.attrs, &Failure{Errors: a.errors}
	}
	return a.attrs, nil
}

func (a *Analysis) fail(n ast.Node, msg string) {
	a.errors = append(a.errors, &SemanticError{Node: n, Message: msg})
}

////////////////////////////////////////////////////////////////////
// Scoping

func (a *Analysis) Pre_TranslationUnit(n *ast.TranslationUnit) {
	a.symbols.Push()
	for _, d := range n.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			a.symbols.DeclareFunc(fd)
		}
	}
}

func (a *Analysis) Post_TranslationUnit(n *ast.TranslationUnit) {
	a.symbols.Pop()
}

func (a *Analysis) Pre_FuncDecl(n *ast.FuncDecl) {
	a.funcStack = append(a.funcStack, n)
	a.symbols.Push()
	// Parameters are FuncDecl's first children, so Walk hands each one
	// to Pre_VarDecl right after this, which registers it in the
	// namespace just pushed.
}

func (a *Analysis) Post_FuncDecl(n *ast.FuncDecl) {
	a.symbols.Pop()
	a.funcStack = a.funcStack[:len(a.funcStack)-1]
}

func (a *Analysis) Pre_VarDecl(n *ast.VarDecl) {
	if !a.symbols.DeclareVar(n) {
		a.fail(n, "duplicate declaration in this scope")
	}
}

func (a *Analysis) Pre_CodeBlock(n *ast.CodeBlock) {
	a.symbols.Push()
}

func (a *Analysis) Post_CodeBlock(n *ast.CodeBlock) {
	a.symbols.Pop()
}

////////////////////////////////////////////////////////////////////
// Loops

func (a *Analysis) Pre_WhileStmt(n *ast.WhileStmt) { a.loopDepth++ }
func (a *Analysis) Post_WhileStmt(n *ast.WhileStmt) {
	a.loopDepth--
	a.checkCondIsInt(n.Cond)
}

func (a *Analysis) Pre_ForStmt(n *ast.ForStmt) { a.loopDepth++ }
func (a *Analysis) Post_ForStmt(n *ast.ForStmt) {
	a.loopDepth--
	a.checkCondIsInt(n.Cond)
}

func (a *Analysis) Pre_BreakStmt(n *ast.BreakStmt) {
	if a.loopDepth == 0 {
		a.fail(n, "break outside of a loop")
	}
}

func (a *Analysis) Pre_ContinueStmt(n *ast.ContinueStmt) {
	if a.loopDepth == 0 {
		a.fail(n, "continue outside of a loop")
	}
}

////////////////////////////////////////////////////////////////////
// Expressions (computed post-order, so every child's type is already
// recorded in a.attrs by the time the parent runs).

func (a *Analysis) Post_Literal(n *ast.Literal) {
	a.attrs.SetType(n, ast.TypeInt{})
}

func (a *Analysis) Post_Identifier(n *ast.Identifier) {
	res, ok := a.symbols.Resolve(n.Name)
	if !ok {
		a.fail(n, "undeclared identifier")
		a.attrs.SetType(n, ast.TypeInt{})
		return
	}
	switch {
	case res.v != nil:
		a.attrs.SetDecl(n, res.v)
		a.attrs.SetType(n, res.v.Type)
	case len(res.funcs) == 1:
		fd := res.funcs[0]
		a.attrs.SetDecl(n, fd)
		a.attrs.SetType(n, fd.Type)
	default:
		a.fail(n, "ambiguous reference to overloaded function")
		a.attrs.SetType(n, ast.TypeInt{})
	}
}

func (a *Analysis) Post_UnopExpr(n *ast.UnopExpr) {
	inner := a.attrs.Type(n.Expr)
	switch n.Op {
	case ast.OpNot, ast.OpNeg:
		a.requireInt(n.Expr, inner, "operand")
		a.attrs.SetType(n, ast.TypeInt{})
	case ast.OpRef:
		a.attrs.SetType(n, ast.TypePointer{Pointee: orInt(inner)})
	case ast.OpDeref:
		p, ok := inner.(ast.TypePointer)
		if !ok {
			a.fail(n, "cannot dereference a non-pointer expression")
			a.attrs.SetType(n, ast.TypeInt{})
			return
		}
		a.attrs.SetType(n, p.Pointee)
	}
}

func (a *Analysis) Post_BinopExpr(n *ast.BinopExpr) {
	lt := a.attrs.Type(n.LHS)
	rt := a.attrs.Type(n.RHS)

	if n.Op == ast.OpAssign {
		if lt != nil && rt != nil && !lt.Equal(rt) {
			a.fail(n, "assignment type mismatch")
		}
		a.attrs.SetType(n, orInt(lt))
		return
	}

	a.requireInt(n.LHS, lt, "left operand")
	a.requireInt(n.RHS, rt, "right operand")
	a.attrs.SetType(n, ast.TypeInt{})
}

func (a *Analysis) Post_CallExpr(n *ast.CallExpr) {
	calleeType := a.attrs.Type(n.Callee)
	ft, ok := calleeType.(ast.TypeFunc)
	if !ok {
		a.fail(n, "called value is not a function")
		a.attrs.SetType(n, ast.TypeInt{})
		return
	}
	if len(n.Arguments) != len(ft.Params) {
		a.fail(n, "argument count does not match function signature")
	}
	for i, arg := range n.Arguments {
		if i >= len(ft.Params) {
			break
		}
		at := a.attrs.Type(arg)
		if at != nil && !at.Equal(ft.Params[i]) {
			a.fail(arg, "argument type does not match parameter type")
		}
	}
	a.attrs.SetType(n, ft.Return)
}

func (a *Analysis) Post_IfStmt(n *ast.IfStmt) {
	a.checkCondIsInt(n.Cond)
}

func (a *Analysis) Post_ReturnStmt(n *ast.ReturnStmt) {
	if len(a.funcStack) == 0 {
		return
	}
	fn := a.funcStack[len(a.funcStack)-1]
	rt := a.attrs.Type(n.Expr)
	if rt != nil && !rt.Equal(fn.Type.Return) {
		a.fail(n, "return type does not match function's declared return type")
	}
}

////////////////////////////////////////////////////////////////////
// helpers

func (a *Analysis) requireInt(n ast.Node, t ast.TypeExpr, what string) {
	if t == nil {
		return
	}
	if _, ok := t.(ast.TypeInt); !ok {
		a.fail(n, what+" must have type int")
	}
}

func (a *Analysis) checkCondIsInt(cond ast.Expr) {
	t := a.attrs.Type(cond)
	a.requireInt(cond, t, "condition")
}

func orInt(t ast.TypeExpr) ast.TypeExpr {
	if t == nil {
		return ast.TypeInt{}
	}
	return t
}
