package grammar

import "testing"

// buildExprGrammar builds a small classic left-recursion-free
// expression grammar:
//
//	E  -> T E'
//	E' -> + T E' | EPSILON
//	T  -> Int
func buildExprGrammar() *Grammar {
	g := New()
	plus := g.T("plus", `\+`, false)
	intTok := g.T("int", `[0-9]+`, false)

	e := g.NT("E", true)
	ep := g.NT("Ep", false)
	t := g.NT("T", false)

	g.AddRule(e, Word{t, ep}, nil)
	g.AddRule(ep, Word{plus, t, ep}, nil)
	g.AddRule(ep, Word{Eps}, nil)
	g.AddRule(t, Word{intTok}, nil)

	return g
}

func TestEPS(t *testing.T) {
	g := buildExprGrammar()
	a := NewLL1Analysis(g)

	ep := g.NonTerminals["Ep"]
	if !a.EPS(Word{ep}) {
		t.Error("Ep should be nullable")
	}

	e := g.NonTerminals["E"]
	if a.EPS(Word{e}) {
		t.Error("E should not be nullable")
	}
}

func TestFIRSTandFOLLOW(t *testing.T) {
	g := buildExprGrammar()
	a := NewLL1Analysis(g)

	intTok := g.Terminals["int"]
	plus := g.Terminals["plus"]

	e := g.NonTerminals["E"]
	first := a.FIRST(Word{e})
	if !first.has(intTok) || len(first) != 1 {
		t.Errorf("FIRST(E) should be {int}, got %v", first)
	}

	ep := g.NonTerminals["Ep"]
	follow := a.FOLLOW(ep)
	if len(follow) != 0 {
		t.Errorf("FOLLOW(Ep) should be empty at the top level, got %v", follow)
	}

	follow = a.FOLLOW(g.NonTerminals["T"])
	if !follow.has(plus) {
		t.Errorf("FOLLOW(T) should contain +, got %v", follow)
	}
}

func TestCheckAcceptsLL1Grammar(t *testing.T) {
	g := buildExprGrammar()
	a := NewLL1Analysis(g)
	if err := a.Check(); err != nil {
		t.Errorf("expected LL(1) grammar to pass, got %v", err)
	}
}

func TestCheckRejectsAmbiguousGrammar(t *testing.T) {
	g := New()
	intTok := g.T("int", `[0-9]+`, false)
	s := g.NT("S", true)

	// S -> int | int  (same PREDICT set, must conflict)
	g.AddRule(s, Word{intTok}, nil)
	g.AddRule(s, Word{intTok}, nil)

	a := NewLL1Analysis(g)
	err := a.Check()
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	var ce *ConflictError
	if !asConflictError(err, &ce) {
		t.Fatalf("expected *ConflictError, got %T", err)
	}
	if ce.Lookahead != intTok {
		t.Errorf("expected conflict on 'int', got %v", ce.Lookahead)
	}
}

func asConflictError(err error, out **ConflictError) bool {
	ce, ok := err.(*ConflictError)
	if ok {
		*out = ce
	}
	return ok
}
