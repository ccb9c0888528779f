package optimize

import "github.com/l0lang/l0c/ir"

// constantValuePropagation runs the per-block rewrite plus the
// inter-block worklist fixpoint described in spec §4.7. The worklist
// starts in the function's block order and stays FIFO, matching the
// determinism contract in spec §5.
func constantValuePropagation(f *ir.Function) bool {
	exit := make(map[*ir.BasicBlock]*ir.EquivalenceClasses, len(f.Blocks))
	for _, bb := range f.Blocks {
		exit[bb] = ir.NewEquivalenceClasses()
	}
	preds := f.Predecessors()

	queue := append([]*ir.BasicBlock{}, f.Blocks...)
	queued := make(map[*ir.BasicBlock]bool, len(f.Blocks))
	for _, bb := range queue {
		queued[bb] = true
	}

	changed := false
	for len(queue) > 0 {
		bb := queue[0]
		queue = queue[1:]
		queued[bb] = false

		entry := entryState(bb, f, preds, exit)

		state := entry.Clone()
		for i, instr := range bb.Instructions {
			rewritten := rewriteSrcs(instr, state.Find)
			if rewritten.String() != instr.String() {
				changed = true
			}
			bb.Instructions[i] = rewritten
			applyEffect(state, rewritten)
		}

		if !state.Equal(exit[bb]) {
			exit[bb] = state
			for _, succ := range bb.Successors() {
				if !queued[succ] {
					queue = append(queue, succ)
					queued[succ] = true
				}
			}
		}
	}
	return changed
}

func entryState(bb *ir.BasicBlock, f *ir.Function, preds map[*ir.BasicBlock][]*ir.BasicBlock, exit map[*ir.BasicBlock]*ir.EquivalenceClasses) *ir.EquivalenceClasses {
	if bb == f.EntryBlock || len(preds[bb]) == 0 {
		return ir.NewEquivalenceClasses()
	}
	states := make([]*ir.EquivalenceClasses, 0, len(preds[bb]))
	for _, p := range preds[bb] {
		states = append(states, exit[p])
	}
	return ir.Merge(states)
}

// applyEffect updates state to reflect instr having just executed
// (spec §4.7: kill the old destination equivalence, then apply the
// instruction's own effect).
func applyEffect(state *ir.EquivalenceClasses, instr ir.Instruction) {
	if dst := instr.Dst(); dst != nil {
		state.Kill(dst)
	}
	switch in := instr.(type) {
	case *ir.Assign:
		state.Union(in.DstVar, in.Value)
	case *ir.Store:
		state.Invalidate()
	case *ir.Call:
		state.Invalidate()
	}
}

// rewriteSrcs rebuilds instr with every *value* source operand passed
// through find. Address operands (Reference's operand, Load/Store's
// pointer) are left untouched: they name a variable's location, not
// its value, and substituting them with an equivalent constant would
// be meaningless.
func rewriteSrcs(instr ir.Instruction, find func(ir.Operand) ir.Operand) ir.Instruction {
	switch in := instr.(type) {
	case *ir.Binop:
		return &ir.Binop{Op: in.Op, DstVar: in.DstVar, LHS: find(in.LHS), RHS: find(in.RHS)}
	case *ir.Assign:
		return &ir.Assign{DstVar: in.DstVar, Value: find(in.Value)}
	case *ir.IfGoto:
		return &ir.IfGoto{Cond: find(in.Cond), Then: in.Then, Else: in.Else}
	case *ir.Store:
		return &ir.Store{Ptr: in.Ptr, Value: find(in.Value)}
	case *ir.Call:
		args := make([]ir.Operand, len(in.Args))
		for i, a := range in.Args {
			args[i] = find(a)
		}
		return &ir.Call{DstVar: in.DstVar, Callee: in.Callee, Args: args}
	case *ir.Return:
		return &ir.Return{Value: find(in.Value)}
	default:
		// Reference, Load, Goto: no substitutable value operands.
		return instr
	}
}
