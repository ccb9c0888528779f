package optimize

import "github.com/l0lang/l0c/ir"

// redundantJumpElimination does two things spec §4.7 groups together:
// trims any instructions following a Return in the same block (dead
// by construction — Return already exits the function), and bypasses
// blocks whose sole instruction is an unconditional jump by
// retargeting every predecessor directly to the final destination.
func redundantJumpElimination(f *ir.Function) bool {
	changed := truncateAfterReturn(f)
	if bypassTrivialJumps(f) {
		changed = true
	}
	return changed
}

func truncateAfterReturn(f *ir.Function) bool {
	changed := false
	for _, bb := range f.Blocks {
		for i, instr := range bb.Instructions {
			if _, ok := instr.(*ir.Return); !ok {
				continue
			}
			if i < len(bb.Instructions)-1 {
				bb.Instructions = bb.Instructions[:i+1]
				changed = true
			}
			break
		}
	}
	return changed
}

func bypassTrivialJumps(f *ir.Function) bool {
	redirects := map[*ir.BasicBlock]*ir.Label{}
	for _, bb := range f.Blocks {
		if len(bb.Instructions) != 1 {
			continue
		}
		if g, ok := bb.Instructions[0].(*ir.Goto); ok && g.Target.Block != bb {
			redirects[bb] = g.Target
		}
	}
	if len(redirects) == 0 {
		return false
	}

	changed := false
	for _, bb := range f.Blocks {
		if len(bb.Instructions) == 0 {
			continue
		}
		switch term := bb.Instructions[len(bb.Instructions)-1].(type) {
		case *ir.Goto:
			if final := resolveRedirect(redirects, term.Target); final != term.Target {
				term.Target = final
				changed = true
			}
		case *ir.IfGoto:
			if final := resolveRedirect(redirects, term.Then); final != term.Then {
				term.Then = final
				changed = true
			}
			if final := resolveRedirect(redirects, term.Else); final != term.Else {
				term.Else = final
				changed = true
			}
		}
	}
	return changed
}

// resolveRedirect follows a chain of trivial-jump blocks to its final
// target, guarding against a cycle of such blocks.
func resolveRedirect(redirects map[*ir.BasicBlock]*ir.Label, l *ir.Label) *ir.Label {
	seen := map[*ir.BasicBlock]bool{}
	for l.Block != nil {
		next, ok := redirects[l.Block]
		if !ok || seen[l.Block] {
			break
		}
		seen[l.Block] = true
		l = next
	}
	return l
}

// deadBlockElimination removes any non-entry block with no
// predecessors (spec §4.7). One removal per call; the fixpoint loop
// repeats until none qualify.
func deadBlockElimination(f *ir.Function) bool {
	preds := f.Predecessors()
	for _, bb := range f.Blocks {
		if bb == f.EntryBlock {
			continue
		}
		if len(preds[bb]) == 0 {
			f.RemoveBlock(bb)
			return true
		}
	}
	return false
}

// deadVariableElimination removes a local that is never read (never
// appears as a source operand anywhere in the function) along with
// every instruction that writes it (spec §4.7). The original leaves
// this pass as a TODO (ex11/CFG/optimizer.py DeadVariableElimination);
// completing it is a REDESIGN FLAG requirement. Parameters are never
// eligible.
//
// A local written only by a *ir.Call is not eligible even though it's
// never read: the call may have side effects (a write through a
// pointer argument, recursion) that dropping it would change, and
// spec §8 property 5 requires the optimized program to behave
// identically to the original. Such a local, and the call that writes
// it, are left alone; only locals every one of whose writes is a pure
// instruction (Assign, Binop, Reference, Load — no side effect
// beyond the write itself) are removed.
//
// One removal per call; the fixpoint loop repeats.
func deadVariableElimination(f *ir.Function) bool {
	read := map[*ir.Variable]bool{}
	for _, bb := range f.Blocks {
		for _, instr := range bb.Instructions {
			for _, src := range instr.Srcs() {
				if v, ok := src.(*ir.Variable); ok {
					read[v] = true
				}
			}
		}
	}

	for _, v := range f.Locals {
		if read[v] || writtenByCall(f, v) {
			continue
		}
		f.RemoveLocal(v)
		for _, bb := range f.Blocks {
			kept := bb.Instructions[:0]
			for _, instr := range bb.Instructions {
				if instr.Dst() == v {
					continue
				}
				kept = append(kept, instr)
			}
			bb.Instructions = kept
		}
		return true
	}
	return false
}

// writtenByCall reports whether any *ir.Call in f writes v as its
// result, making v ineligible for removal despite being unread.
func writtenByCall(f *ir.Function, v *ir.Variable) bool {
	for _, bb := range f.Blocks {
		for _, instr := range bb.Instructions {
			if call, ok := instr.(*ir.Call); ok && call.Dst() == v {
				return true
			}
		}
	}
	return false
}
