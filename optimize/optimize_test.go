package optimize

import (
	"testing"

	"github.com/l0lang/l0c/ir"
)

func TestConstantFoldingBinopAndIfGoto(t *testing.T) {
	f := ir.NewFunction("f")
	bb := f.CreateBlock()
	dst := f.CreateVariable("")
	bb.Append(&ir.Binop{Op: ir.Add, DstVar: dst, LHS: ir.Const(2), RHS: ir.Const(3)})
	then := f.CreateBlock()
	els := f.CreateBlock()
	bb.Append(&ir.IfGoto{Cond: ir.Const(1), Then: then.Label, Else: els.Label})
	then.Append(&ir.Return{Value: ir.Const(1)})
	els.Append(&ir.Return{Value: ir.Const(0)})

	if !constantFolding(f) {
		t.Fatal("expected constant folding to report a change")
	}
	assign, ok := bb.Instructions[0].(*ir.Assign)
	if !ok || assign.Value != ir.Const(5) {
		t.Errorf("expected Add(2,3) folded to Assign(5), got %v", bb.Instructions[0])
	}
	goTo, ok := bb.Instructions[1].(*ir.Goto)
	if !ok || goTo.Target != then.Label {
		t.Errorf("expected IfGoto(1, then, else) folded to Goto(then), got %v", bb.Instructions[1])
	}
}

func TestFloorDivMatchesFlooringSemantics(t *testing.T) {
	cases := []struct{ a, b, want int }{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
	}
	for _, c := range cases {
		if got := floorDiv(c.a, c.b); got != c.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestConstantValuePropagationRewritesThroughAssign(t *testing.T) {
	f := ir.NewFunction("f")
	bb := f.CreateBlock()
	x := f.CreateVariable("x")
	t0 := f.CreateVariable("")
	bb.Append(&ir.Assign{DstVar: x, Value: ir.Const(5)})
	bb.Append(&ir.Binop{Op: ir.Add, DstVar: t0, LHS: x, RHS: ir.Const(1)})
	bb.Append(&ir.Return{Value: t0})

	if !constantValuePropagation(f) {
		t.Fatal("expected a rewrite")
	}
	add := bb.Instructions[1].(*ir.Binop)
	if add.LHS != ir.Const(5) {
		t.Errorf("expected x rewritten to 5, got %v", add.LHS)
	}
}

// TestMergeBlocksFoldsStraightLineChain builds BB0 -goto-> BB1 -goto->
// BB2 where BB1 has no other predecessor, and checks it collapses.
func TestMergeBlocksFoldsStraightLineChain(t *testing.T) {
	f := ir.NewFunction("f")
	bb0 := f.CreateBlock()
	bb1 := f.CreateBlock()
	bb2 := f.CreateBlock()

	x := f.CreateVariable("x")
	bb0.Append(&ir.Goto{Target: bb1.Label})
	bb1.Append(&ir.Assign{DstVar: x, Value: ir.Const(42)})
	bb1.Append(&ir.Goto{Target: bb2.Label})
	bb2.Append(&ir.Return{Value: x})

	for mergeBlocks(f) {
	}

	if len(f.Blocks) != 1 {
		t.Fatalf("expected BB1 and BB2 to merge into BB0, leaving 1 block, got %d", len(f.Blocks))
	}
	if _, ok := bb0.Instructions[0].(*ir.Assign); !ok {
		t.Errorf("expected the merged assign to now live in bb0, got %v", bb0.Instructions[0])
	}
}

func TestRedundantJumpEliminationBypassesTrivialBlock(t *testing.T) {
	f := ir.NewFunction("f")
	entry := f.CreateBlock()
	trivial := f.CreateBlock()
	target := f.CreateBlock()

	entry.Append(&ir.Goto{Target: trivial.Label})
	trivial.Append(&ir.Goto{Target: target.Label})
	target.Append(&ir.Return{Value: ir.Const(0)})

	if !redundantJumpElimination(f) {
		t.Fatal("expected a change")
	}
	got := entry.Instructions[0].(*ir.Goto)
	if got.Target != target.Label {
		t.Errorf("expected entry to jump straight to target, got %v", got.Target)
	}
}

func TestRedundantJumpEliminationTruncatesAfterReturn(t *testing.T) {
	f := ir.NewFunction("f")
	bb := f.CreateBlock()
	x := f.CreateVariable("x")
	bb.Instructions = []ir.Instruction{
		&ir.Return{Value: ir.Const(1)},
		&ir.Assign{DstVar: x, Value: ir.Const(2)},
	}

	if !redundantJumpElimination(f) {
		t.Fatal("expected a change")
	}
	if len(bb.Instructions) != 1 {
		t.Errorf("expected the instruction after Return to be deleted, got %v", bb.Instructions)
	}
}

func TestDeadBlockEliminationRemovesUnreachableBlock(t *testing.T) {
	f := ir.NewFunction("f")
	entry := f.CreateBlock()
	entry.Append(&ir.Return{Value: ir.Const(0)})
	unreachable := f.CreateBlock()
	unreachable.Append(&ir.Return{Value: ir.Const(1)})

	if !deadBlockElimination(f) {
		t.Fatal("expected a change")
	}
	for _, bb := range f.Blocks {
		if bb == unreachable {
			t.Fatal("expected the unreachable block to be removed")
		}
	}
}

func TestDeadVariableEliminationRemovesUnreadLocal(t *testing.T) {
	f := ir.NewFunction("f")
	bb := f.CreateBlock()
	dead := f.CreateVariable("dead")
	bb.Append(&ir.Assign{DstVar: dead, Value: ir.Const(7)})
	bb.Append(&ir.Return{Value: ir.Const(0)})

	if !deadVariableElimination(f) {
		t.Fatal("expected a change")
	}
	for _, v := range f.Locals {
		if v == dead {
			t.Fatal("expected dead to be removed from f.Locals")
		}
	}
	if len(bb.Instructions) != 1 {
		t.Errorf("expected the dead assignment to be deleted, got %v", bb.Instructions)
	}
}

func TestDeadVariableEliminationKeepsAddressTakenVariable(t *testing.T) {
	f := ir.NewFunction("f")
	bb := f.CreateBlock()
	x := f.CreateVariable("x")
	ptr := f.CreateVariable("")
	bb.Append(&ir.Assign{DstVar: x, Value: ir.Const(1)})
	bb.Append(&ir.Reference{DstVar: ptr, Var: x})
	bb.Append(&ir.Return{Value: ptr})

	if deadVariableElimination(f) {
		t.Fatal("expected x to survive: it is read by the Reference instruction")
	}
}

// TestDeadVariableEliminationKeepsSideEffectingCall mirrors:
//
//	func g(p:&int):int { *p := 5; return 0; }
//	func main():int { var x:int; g(&x); return x; }
//
// where g's result is discarded. DVE must not delete the Call: doing
// so would drop the store through p and silently change main's
// result (spec §8 property 5).
func TestDeadVariableEliminationKeepsSideEffectingCall(t *testing.T) {
	g := ir.NewFunction("g")
	p := g.CreateParameter("p")
	gbb := g.CreateBlock()
	gbb.Append(&ir.Store{Ptr: p, Value: ir.Const(5)})
	gbb.Append(&ir.Return{Value: ir.Const(0)})

	f := ir.NewFunction("main")
	bb := f.CreateBlock()
	x := f.CreateVariable("x")
	ptr := f.CreateVariable("")
	discarded := f.CreateVariable("")
	bb.Append(&ir.Reference{DstVar: ptr, Var: x})
	bb.Append(&ir.Call{DstVar: discarded, Callee: g, Args: []ir.Operand{ptr}})
	bb.Append(&ir.Return{Value: x})

	if deadVariableElimination(f) {
		t.Fatal("expected the call's dead result variable to survive: the call has side effects")
	}
	found := false
	for _, instr := range bb.Instructions {
		if _, ok := instr.(*ir.Call); ok {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the Call instruction to remain in the block")
	}
}

// TestFixpointScenario mirrors the "opt-merge" end-to-end scenario: an
// always-true branch whose dead arm should disappear entirely, with
// its blocks merged down to a minimal straight line returning 42.
func TestFixpointScenario(t *testing.T) {
	f := ir.NewFunction("f")
	entry := f.CreateBlock()
	then := f.CreateBlock()
	els := f.CreateBlock()
	after := f.CreateBlock()

	entry.Append(&ir.IfGoto{Cond: ir.Const(1), Then: then.Label, Else: els.Label})
	then.Append(&ir.Goto{Target: after.Label})
	els.Append(&ir.Goto{Target: after.Label})
	after.Append(&ir.Return{Value: ir.Const(42)})

	optimizeFunction(f)

	if len(f.Blocks) != 1 {
		t.Fatalf("expected the whole function to collapse to one block, got %d:\n%s", len(f.Blocks), f.Dump())
	}
	ret, ok := f.Blocks[0].Instructions[len(f.Blocks[0].Instructions)-1].(*ir.Return)
	if !ok || ret.Value != ir.Const(42) {
		t.Errorf("expected a final Return 42, got %v", f.Blocks[0].Instructions)
	}
}
