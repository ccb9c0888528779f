package irgen

import (
	"strings"
	"testing"

	"github.com/l0lang/l0c/ast"
	"github.com/l0lang/l0c/sema"
)

func analyze(t *testing.T, tu *ast.TranslationUnit) *ast.Attrs {
	t.Helper()
	attrs, err := sema.Analyze(tu)
	if err != nil {
		t.Fatalf("sema.Analyze failed: %v", err)
	}
	return attrs
}

func TestGenerateSimpleReturn(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "answer",
		Type: ast.TypeFunc{Return: ast.TypeInt{}},
		Statements: []ast.Stmt{
			&ast.ReturnStmt{Expr: &ast.Literal{Value: 42}},
		},
	}
	tu := &ast.TranslationUnit{Decls: []ast.Decl{fn}}
	attrs := analyze(t, tu)

	itu, err := Generate(tu, attrs)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	f := itu.FindFunction("answer")
	if f == nil {
		t.Fatal("expected a generated function named answer")
	}
	if !strings.Contains(f.Dump(), "Return 42") {
		t.Errorf("expected a Return 42 instruction, got:\n%s", f.Dump())
	}
}

func TestGenerateIfProducesThreeExtraBlocks(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "f",
		Type: ast.TypeFunc{Return: ast.TypeInt{}},
		Statements: []ast.Stmt{
			&ast.IfStmt{
				Cond: &ast.Literal{Value: 1},
				Then: &ast.CodeBlock{Statements: []ast.Stmt{
					&ast.ReturnStmt{Expr: &ast.Literal{Value: 1}},
				}},
				Else: &ast.CodeBlock{Statements: []ast.Stmt{
					&ast.ReturnStmt{Expr: &ast.Literal{Value: 2}},
				}},
			},
		},
	}
	tu := &ast.TranslationUnit{Decls: []ast.Decl{fn}}
	attrs := analyze(t, tu)

	itu, err := Generate(tu, attrs)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	f := itu.FindFunction("f")
	if len(f.Blocks) != 4 {
		t.Fatalf("expected entry+then+else+after == 4 blocks, got %d:\n%s", len(f.Blocks), f.Dump())
	}
}

func TestGenerateWhileWithBreak(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "loop",
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
	attrs := analyze(t, tu)

	itu, err := Generate(tu, attrs)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	f := itu.FindFunction("loop")
	dump := f.Dump()
	if strings.Count(dump, "Goto") < 2 {
		t.Errorf("expected at least a loop-entry Goto and a break Goto, got:\n%s", dump)
	}
}

func TestGenerateCallWiresCalleeFunction(t *testing.T) {
	callee := &ast.FuncDecl{
		Name: "one",
		Type: ast.TypeFunc{Return: ast.TypeInt{}},
		Statements: []ast.Stmt{
			&ast.ReturnStmt{Expr: &ast.Literal{Value: 1}},
		},
	}
	caller := &ast.FuncDecl{
		Name: "main",
		Type: ast.TypeFunc{Return: ast.TypeInt{}},
		Statements: []ast.Stmt{
			&ast.ReturnStmt{Expr: &ast.CallExpr{Callee: &ast.Identifier{Name: "one"}}},
		},
	}
	tu := &ast.TranslationUnit{Decls: []ast.Decl{callee, caller}}
	attrs := analyze(t, tu)

	itu, err := Generate(tu, attrs)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	mainFn := itu.FindFunction("main")
	if !strings.Contains(mainFn.Dump(), "Call one") {
		t.Errorf("expected main to call one, got:\n%s", mainFn.Dump())
	}
}
