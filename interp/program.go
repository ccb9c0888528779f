package interp

import "github.com/l0lang/l0c/ir"

// frameLayout is a function's stack-frame shape: slot 0 is reserved
// (mirroring the original's return-info cell, ex10/CFG/interpreter.py
// Frame; here the equivalent bookkeeping is kept off to the side in
// the machine's call stack instead, see Machine.frames), then one slot
// per parameter, then one per local (spec §4.8).
type frameLayout struct {
	slots map[*ir.Variable]int
	size  int
}

func buildFrameLayout(f *ir.Function) frameLayout {
	slots := map[*ir.Variable]int{}
	idx := 1
	for _, p := range f.Params {
		slots[p] = idx
		idx++
	}
	for _, l := range f.Locals {
		slots[l] = idx
		idx++
	}
	return frameLayout{slots: slots, size: idx}
}

// Program is the linearized form of a translation unit: every
// function's blocks laid out back to back in a flat instruction
// array, with a label->address map recording where each block (and
// each function's entry) begins (spec §4.8).
type Program struct {
	Code      []ir.Instruction
	LabelAddr map[*ir.Label]int
	Layouts   map[*ir.Function]frameLayout
	Main      *ir.Function
}

// Build linearizes tu. It fails if tu has no function named "main".
func Build(tu *ir.TranslationUnit) (*Program, error) {
	main := tu.FindFunction("main")
	if main == nil {
		return nil, &RuntimeError{Message: "translation unit has no main function"}
	}

	p := &Program{
		LabelAddr: map[*ir.Label]int{},
		Layouts:   map[*ir.Function]frameLayout{},
		Main:      main,
	}
	for _, f := range tu.Functions {
		p.Layouts[f] = buildFrameLayout(f)
		for _, bb := range f.Blocks {
			addr := len(p.Code)
			p.LabelAddr[bb.Label] = addr
			if bb == f.EntryBlock {
				p.LabelAddr[f.Label] = addr
			}
			p.Code = append(p.Code, bb.Instructions...)
		}
	}
	return p, nil
}
