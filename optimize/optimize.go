// Package optimize is the IR optimizer (spec §4.7): six passes run to
// a fixpoint per function. Two of them — MergeBlocks and
// DeadVariableElimination — are left as unimplemented student
// exercises in the original source (ex11/CFG/optimizer.py); this
// package completes both, per the redesign direction that every pass
// in the contract actually runs.
package optimize

import "github.com/l0lang/l0c/ir"

// Optimize runs every function in tu through the fixpoint loop.
func Optimize(tu *ir.TranslationUnit) {
	for _, f := range tu.Functions {
		optimizeFunction(f)
	}
}

// optimizeFunction reruns the full pass list until a round changes
// nothing (spec §4.7 "Ordering").
func optimizeFunction(f *ir.Function) {
	for {
		changed := false
		if constantFolding(f) {
			changed = true
		}
		if constantValuePropagation(f) {
			changed = true
		}
		if mergeBlocks(f) {
			changed = true
		}
		if redundantJumpElimination(f) {
			changed = true
		}
		if deadBlockElimination(f) {
			changed = true
		}
		if deadVariableElimination(f) {
			changed = true
		}
		if !changed {
			return
		}
	}
}
