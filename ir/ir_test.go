package ir

import "testing"

func TestBasicBlockAppendClosesOnBranch(t *testing.T) {
	bb := NewBasicBlock("BB0")
	v := &Variable{Name: "x"}
	bb.Append(&Assign{DstVar: v, Value: Const(1)})
	bb.Append(&Goto{Target: &Label{Name: "BB1"}})

	if !bb.Closed() {
		t.Fatal("expected block to be closed after a Goto")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected Append to panic on a closed block")
		}
	}()
	bb.Append(&Assign{DstVar: v, Value: Const(2)})
}

func TestFunctionSortBlocksBreadthFirstWithUnreachableLast(t *testing.T) {
	f := NewFunction("f")
	entry := f.CreateBlock()
	a := f.CreateBlock()
	b := f.CreateBlock()
	unreachable := f.CreateBlock()

	entry.Append(&IfGoto{Cond: Const(1), Then: a.Label, Else: b.Label})
	a.Append(&Goto{Target: b.Label})
	b.Append(&Return{Value: Const(0)})
	unreachable.Append(&Return{Value: Const(0)})

	f.SortBlocks()

	if f.Blocks[0] != entry {
		t.Fatalf("expected entry block first, got %v", f.Blocks[0])
	}
	if f.Blocks[len(f.Blocks)-1] != unreachable {
		t.Fatalf("expected unreachable block last, got %v", f.Blocks[len(f.Blocks)-1])
	}
}

func TestDumpFormat(t *testing.T) {
	f := NewFunction("add")
	bb := f.CreateBlock()
	dst := f.CreateVariable("")
	bb.Append(&Binop{Op: Add, DstVar: dst, LHS: Const(1), RHS: Const(2)})
	bb.Append(&Return{Value: dst})

	got := f.Dump()
	want := "add {\nBB0:\n  t0  := Add 1, 2\n  Return t0\n}\n"
	if got != want {
		t.Errorf("Dump() =\n%q\nwant\n%q", got, want)
	}
}

func TestEquivalenceClassesUnionFindKill(t *testing.T) {
	e := NewEquivalenceClasses()
	x := &Variable{Name: "x"}
	y := &Variable{Name: "y"}

	e.Union(x, Const(5))
	if e.Find(x) != Const(5) {
		t.Errorf("expected Find(x) == 5, got %v", e.Find(x))
	}

	e.Union(y, x)
	if e.Find(y) != Const(5) {
		t.Errorf("expected Find(y) == 5 after transitive union, got %v", e.Find(y))
	}

	e.Kill(x)
	if e.Find(x) != x {
		t.Errorf("expected Find(x) == x after kill, got %v", e.Find(x))
	}
	if e.Find(y) != Const(5) {
		t.Errorf("expected y to remain equivalent to 5 after killing x, got %v", e.Find(y))
	}
}

func TestMergeIntersectsAcrossStates(t *testing.T) {
	x := &Variable{Name: "x"}
	y := &Variable{Name: "y"}

	s1 := NewEquivalenceClasses()
	s1.Union(x, Const(1))
	s1.Union(y, Const(1))

	s2 := NewEquivalenceClasses()
	s2.Union(x, Const(1))
	// y not constrained in s2

	merged := Merge([]*EquivalenceClasses{s1, s2})
	if merged.Find(x) != Const(1) {
		t.Errorf("expected x == 1 to survive the merge, got %v", merged.Find(x))
	}
	if merged.Find(y) == Const(1) {
		t.Error("expected y == 1 to NOT survive the merge (absent from s2)")
	}
}

func TestEquivalenceClassesEqual(t *testing.T) {
	x := &Variable{Name: "x"}
	a := NewEquivalenceClasses()
	a.Union(x, Const(7))
	b := NewEquivalenceClasses()
	b.Union(x, Const(7))

	if !a.Equal(b) {
		t.Error("expected structurally identical states to compare equal")
	}
	b.Kill(x)
	if a.Equal(b) {
		t.Error("expected states to differ after killing x in b")
	}
}
