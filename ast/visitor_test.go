package ast

import "testing"

type countingVisitor struct {
	pre, post []string
}

func (c *countingVisitor) Pre_Node(n Node) {
	c.pre = append(c.pre, typeName(n))
}

func (c *countingVisitor) Post_Node(n Node) {
	c.post = append(c.post, typeName(n))
}

func TestWalkVisitsChildrenInOrder(t *testing.T) {
	tu := &TranslationUnit{Decls: []Decl{
		&VarDecl{Name: "x", Type: TypeInt{}},
		&FuncDecl{Name: "main", Statements: []Stmt{
			&ReturnStmt{Expr: &Literal{Value: 0}},
		}},
	}}

	v := &countingVisitor{}
	Walk(v, tu)

	wantPre := []string{"TranslationUnit", "VarDecl", "FuncDecl", "ReturnStmt", "Literal"}
	if len(v.pre) != len(wantPre) {
		t.Fatalf("pre order = %v, want %v", v.pre, wantPre)
	}
	for i := range wantPre {
		if v.pre[i] != wantPre[i] {
			t.Errorf("pre[%d] = %s, want %s", i, v.pre[i], wantPre[i])
		}
	}
	if v.post[0] != "VarDecl" || v.post[len(v.post)-1] != "TranslationUnit" {
		t.Errorf("post order looks wrong: %v", v.post)
	}
}

type skippingVisitor struct {
	visited []string
}

func (s *skippingVisitor) Pre_Node(n Node) bool {
	name := typeName(n)
	s.visited = append(s.visited, name)
	return name != "IfStmt"
}

func TestWalkPreReturnFalseSkipsChildren(t *testing.T) {
	ifStmt := &IfStmt{
		Cond: &Literal{Value: 1},
		Then: &CodeBlock{Statements: []Stmt{&BreakStmt{}}},
	}
	v := &skippingVisitor{}
	Walk(v, ifStmt)

	for _, name := range v.visited {
		if name == "Literal" || name == "CodeBlock" || name == "BreakStmt" {
			t.Errorf("expected children of IfStmt to be skipped, but visited %s", name)
		}
	}
}

func TestAttrsRoundTrip(t *testing.T) {
	a := NewAttrs()
	id := &Identifier{Name: "x"}
	decl := &VarDecl{Name: "x", Type: TypeInt{}}
	lit := &Literal{Value: 42}

	a.SetDecl(id, decl)
	a.SetType(lit, TypeInt{})
	a.SetIRObj(decl, "fake-ir-slot")

	if a.Decl(id) != decl {
		t.Error("Decl did not round-trip")
	}
	if a.Type(lit) != (TypeExpr)(TypeInt{}) {
		t.Error("Type did not round-trip")
	}
	if a.IRObj(decl) != "fake-ir-slot" {
		t.Error("IRObj did not round-trip")
	}

	other := &Identifier{Name: "y"}
	if a.Decl(other) != nil {
		t.Error("expected nil Decl for unset identifier")
	}
}
