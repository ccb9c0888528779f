package sema

import (
	"testing"

	"github.com/l0lang/l0c/ast"
)

func intParam(name string) *ast.VarDecl {
	return &ast.VarDecl{Name: name, Type: ast.TypeInt{}}
}

// buildAddFunc builds:
//
//	func add(a: int, b: int) int { return a + b; }
func buildAddFunc() *ast.FuncDecl {
	a := intParam("a")
	b := intParam("b")
	return &ast.FuncDecl{
		Name:   "add",
		Type:   ast.TypeFunc{Return: ast.TypeInt{}, Params: []ast.TypeExpr{ast.TypeInt{}, ast.TypeInt{}}},
		Params: []*ast.VarDecl{a, b},
		Statements: []ast.Stmt{
			&ast.ReturnStmt{Expr: &ast.BinopExpr{
				Op:  ast.OpAdd,
				LHS: &ast.Identifier{Name: "a"},
				RHS: &ast.Identifier{Name: "b"},
			}},
		},
	}
}

func TestAnalyzeValidProgram(t *testing.T) {
	addFn := buildAddFunc()
	mainFn := &ast.FuncDecl{
		Name: "main",
		Type: ast.TypeFunc{Return: ast.TypeInt{}},
		Statements: []ast.Stmt{
			&ast.ReturnStmt{Expr: &ast.CallExpr{
				Callee:    &ast.Identifier{Name: "add"},
				Arguments: []ast.Expr{&ast.Literal{Value: 1}, &ast.Literal{Value: 2}},
			}},
		},
	}
	tu := &ast.TranslationUnit{Decls: []ast.Decl{addFn, mainFn}}

	attrs, err := Analyze(tu)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := mainFn.Statements[0].(*ast.ReturnStmt).Expr.(*ast.CallExpr)
	if !attrs.Type(call).Equal(ast.TypeInt{}) {
		t.Errorf("expected call result type int, got %v", attrs.Type(call))
	}
	if attrs.Decl(call.Callee) != addFn {
		t.Errorf("expected call callee to resolve to addFn")
	}
}

func TestAnalyzeUndeclaredIdentifier(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "f",
		Type: ast.TypeFunc{Return: ast.TypeInt{}},
		Statements: []ast.Stmt{
			&ast.ReturnStmt{Expr: &ast.Identifier{Name: "missing"}},
		},
	}
	tu := &ast.TranslationUnit{Decls: []ast.Decl{fn}}

	_, err := Analyze(tu)
	if err == nil {
		t.Fatal("expected a semantic failure for the undeclared identifier")
	}
	failure, ok := err.(*Failure)
	if !ok || len(failure.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", err)
	}
}

func TestAnalyzeDuplicateDeclaration(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "f",
		Type: ast.TypeFunc{Return: ast.TypeInt{}},
		Statements: []ast.Stmt{
			&ast.VarDecl{Name: "x", Type: ast.TypeInt{}},
			&ast.VarDecl{Name: "x", Type: ast.TypeInt{}},
			&ast.ReturnStmt{Expr: &ast.Literal{Value: 0}},
		},
	}
	tu := &ast.TranslationUnit{Decls: []ast.Decl{fn}}

	_, err := Analyze(tu)
	if err == nil {
		t.Fatal("expected a semantic failure for the duplicate declaration")
	}
}

func TestAnalyzeBreakOutsideLoop(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "f",
		Type: ast.TypeFunc{Return: ast.TypeInt{}},
		Statements: []ast.Stmt{
			&ast.BreakStmt{},
			&ast.ReturnStmt{Expr: &ast.Literal{Value: 0}},
		},
	}
	tu := &ast.TranslationUnit{Decls: []ast.Decl{fn}}

	_, err := Analyze(tu)
	if err == nil {
		t.Fatal("expected a semantic failure for break outside a loop")
	}
}

func TestAnalyzeBreakInsideLoopIsOK(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "f",
		Type: ast.TypeFunc{Return: ast.TypeInt{}},
		Statements: []ast.Stmt{
			&ast.WhileStmt{
				Cond: &ast.Literal{Value: 1},
				Body: &ast.CodeBlock{Statements: []ast.Stmt{&ast.BreakStmt{}}},
			},
			&ast.ReturnStmt{Expr: &ast.Literal{Value: 0}},
		},
	}
	tu := &ast.TranslationUnit{Decls: []ast.Decl{fn}}

	if _, err := Analyze(tu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeDerefOfNonPointerIsError(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "f",
		Type: ast.TypeFunc{Return: ast.TypeInt{}},
		Statements: []ast.Stmt{
			&ast.VarDecl{Name: "x", Type: ast.TypeInt{}},
			&ast.ReturnStmt{Expr: &ast.UnopExpr{Op: ast.OpDeref, Expr: &ast.Identifier{Name: "x"}}},
		},
	}
	tu := &ast.TranslationUnit{Decls: []ast.Decl{fn}}

	if _, err := Analyze(tu); err == nil {
		t.Fatal("expected a semantic failure for dereferencing a non-pointer")
	}
}

func TestAnalyzeAmbiguousOverloadCall(t *testing.T) {
	f1 := &ast.FuncDecl{Name: "f", Type: ast.TypeFunc{Return: ast.TypeInt{}}, Statements: []ast.Stmt{
		&ast.ReturnStmt{Expr: &ast.Literal{Value: 0}},
	}}
	f2 := &ast.FuncDecl{Name: "f", Type: ast.TypeFunc{Return: ast.TypeInt{}}, Statements: []ast.Stmt{
		&ast.ReturnStmt{Expr: &ast.Literal{Value: 1}},
	}}
	main := &ast.FuncDecl{Name: "main", Type: ast.TypeFunc{Return: ast.TypeInt{}}, Statements: []ast.Stmt{
		&ast.ReturnStmt{Expr: &ast.CallExpr{Callee: &ast.Identifier{Name: "f"}}},
	}}
	tu := &ast.TranslationUnit{Decls: []ast.Decl{f1, f2, main}}

	if _, err := Analyze(tu); err == nil {
		t.Fatal("expected a semantic failure for the ambiguous overloaded call")
	}
}
