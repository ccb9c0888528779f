package optimize

import "github.com/l0lang/l0c/ir"

// constantFolding replaces any instruction whose operands are all
// integer literals with its folded result (spec §4.7).
func constantFolding(f *ir.Function) bool {
	changed := false
	for _, bb := range f.Blocks {
		for i, instr := range bb.Instructions {
			switch in := instr.(type) {
			case *ir.Binop:
				lc, lok := in.LHS.(ir.Const)
				rc, rok := in.RHS.(ir.Const)
				if !lok || !rok {
					continue
				}
				bb.Instructions[i] = &ir.Assign{DstVar: in.DstVar, Value: ir.Const(foldBinop(in.Op, int(lc), int(rc)))}
				changed = true
			case *ir.IfGoto:
				c, ok := in.Cond.(ir.Const)
				if !ok {
					continue
				}
				target := in.Else
				if c != 0 {
					target = in.Then
				}
				bb.Instructions[i] = &ir.Goto{Target: target}
				changed = true
			}
		}
	}
	return changed
}

func foldBinop(op ir.BinopKind, l, r int) int {
	switch op {
	case ir.Add:
		return l + r
	case ir.Sub:
		return l - r
	case ir.Mul:
		return l * r
	case ir.Div:
		return floorDiv(l, r)
	case ir.LessEqual:
		if l <= r {
			return 1
		}
		return 0
	}
	panic("optimize: unhandled binop in constant folding")
}

// floorDiv is integer division rounding toward negative infinity,
// matching the source language's "/" (spec §4.7); Go's "/" truncates
// toward zero instead.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
