package x86

import (
	"fmt"
	"strings"

	"github.com/l0lang/l0c/ir"
)

// rememberingRegisterAllocator caches operand values across
// instructions within a basic block, spilling only when a register is
// needed for something else, or when the upcoming instruction could
// invalidate the cache. Grounded on
// ex10/backend/X86Backend.py RememberingRegisterAllocator, with its
// before_Instruction hook (left mostly as TODOs there) completed here:
// a branch or call flushes every dirty register first, and a store or
// load flushes those caching an address-taken variable, since none of
// those instructions' effects can be tracked by this allocator's
// simple value cache.
type rememberingRegisterAllocator struct {
	b *Backend

	values     map[Register]ir.Operand
	dirty      map[Register]bool
	free       map[Register]bool
	referenced map[*ir.Variable]bool
}

func newRememberingRegisterAllocator(b *Backend) *rememberingRegisterAllocator {
	a := &rememberingRegisterAllocator{b: b}
	a.resetState()
	return a
}

func (a *rememberingRegisterAllocator) resetState() {
	a.values = map[Register]ir.Operand{}
	a.dirty = map[Register]bool{}
	a.free = map[Register]bool{}
	for _, r := range allRegisters {
		a.free[r] = true
	}
}

func (a *rememberingRegisterAllocator) dumpState() string {
	var parts []string
	for _, r := range allRegisters {
		if v, ok := a.values[r]; ok && v != nil {
			parts = append(parts, fmt.Sprintf("%s=%s,d=%d", r, v, boolToInt(a.dirty[r])))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "RA-state: " + strings.Join(parts, ", ")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (a *rememberingRegisterAllocator) beforeFunction(f *ir.Function) {
	a.resetState()
	a.referenced = map[*ir.Variable]bool{}
	for _, bb := range f.Blocks {
		for _, instr := range bb.Instructions {
			if ref, ok := instr.(*ir.Reference); ok {
				a.referenced[ref.Var] = true
			}
		}
	}
}
func (a *rememberingRegisterAllocator) afterFunction(f *ir.Function)       {}
func (a *rememberingRegisterAllocator) beforeBasicBlock(bb *ir.BasicBlock) { a.resetState() }
func (a *rememberingRegisterAllocator) afterBasicBlock(bb *ir.BasicBlock)  {}

// beforeInstruction flushes cached registers ahead of any instruction
// whose effect this allocator can't otherwise track. A branch or call
// crosses into code that assumes memory-resident values (a call also
// clobbers every register under this backend's convention), so those
// flush everything. A store or load only needs to flush variables
// whose address has been taken somewhere in the function: only those
// could be aliased by the pointer the store or load dereferences.
func (a *rememberingRegisterAllocator) beforeInstruction(instr ir.Instruction) {
	if s := a.dumpState(); s != "" {
		a.b.emitComment(s)
	}
	switch instr.(type) {
	case *ir.Goto, *ir.IfGoto, *ir.Call:
		a.flushAll()
	case *ir.Store, *ir.Load:
		a.flushReferenced()
	}
	for r := range a.free {
		a.free[r] = true
	}
}

func (a *rememberingRegisterAllocator) afterInstruction(instr ir.Instruction) {
	if s := a.dumpState(); s != "" {
		a.b.emitComment(s)
	}
}

func (a *rememberingRegisterAllocator) flushAll() {
	for _, r := range allRegisters {
		a.spill(r)
	}
}

// flushReferenced spills only registers caching a variable whose
// address was taken somewhere in the function (see beforeFunction).
func (a *rememberingRegisterAllocator) flushReferenced() {
	for _, r := range allRegisters {
		v, ok := a.values[r]
		if !ok || v == nil {
			continue
		}
		if varv, ok := v.(*ir.Variable); ok && a.referenced[varv] {
			a.spill(r)
		}
	}
}

func (a *rememberingRegisterAllocator) spill(reg Register) {
	v, ok := a.values[reg]
	if !ok || v == nil || !a.dirty[reg] {
		return
	}
	varv, ok := v.(*ir.Variable)
	if !ok {
		return
	}
	a.b.emitInstr("mov", string(reg), a.b.curFrame.operand(varv))
	a.dirty[reg] = false
}

func (a *rememberingRegisterAllocator) kill(reg Register) {
	delete(a.values, reg)
	a.dirty[reg] = false
}

func (a *rememberingRegisterAllocator) findRegister(nonspill bool) Register {
	var freeRegs []Register
	for _, r := range allRegisters {
		if a.free[r] {
			freeRegs = append(freeRegs, r)
		}
	}
	for _, r := range freeRegs {
		if _, ok := a.values[r]; !ok {
			return r
		}
	}
	for _, r := range freeRegs {
		if !a.dirty[r] {
			return r
		}
	}
	if nonspill {
		return noReg
	}
	if len(freeRegs) == 0 {
		panic("x86: no free register available")
	}
	return freeRegs[0]
}

func (a *rememberingRegisterAllocator) allocRegister(dstReg Register) Register {
	if dstReg == noReg {
		dstReg = a.findRegister(false)
	}
	a.spill(dstReg)
	a.kill(dstReg)
	a.free[dstReg] = false
	return dstReg
}

func (a *rememberingRegisterAllocator) freeRegister(reg Register) {
	a.free[reg] = true
}

// loadFromRegister implements _load_from_register: the value is
// already cached in cacheReg; move or relabel it into dstReg.
func (a *rememberingRegisterAllocator) loadFromRegister(cacheReg, dstReg Register, modify bool) Register {
	if dstReg != noReg && cacheReg != dstReg {
		if a.free[cacheReg] {
			a.b.emitInstr("xchg", string(cacheReg), string(dstReg))
			a.values[cacheReg], a.values[dstReg] = a.values[dstReg], a.values[cacheReg]
			a.dirty[cacheReg], a.dirty[dstReg] = a.dirty[dstReg], a.dirty[cacheReg]
		} else {
			a.b.emitInstr("mov", string(cacheReg), string(dstReg))
		}
	} else if dstReg == noReg {
		dstReg = cacheReg
		if modify {
			if alt := a.findRegister(true); alt != noReg {
				a.b.emitInstr("mov", string(cacheReg), string(alt))
				dstReg = alt
			}
		}
	}

	if modify {
		a.spill(dstReg)
	}
	a.free[dstReg] = false
	return dstReg
}

func (a *rememberingRegisterAllocator) load(src ir.Operand, dstReg Register, modify bool) Register {
	for _, r := range allRegisters {
		if v, ok := a.values[r]; ok && v != nil && operandEqual(v, src) {
			return a.loadFromRegister(r, dstReg, modify)
		}
	}

	dstReg = a.allocRegister(dstReg)
	switch v := src.(type) {
	case ir.Const:
		a.b.emitInstr("mov", "$"+v.String(), string(dstReg))
	case *ir.Variable:
		a.b.emitInstr("mov", a.b.curFrame.operand(v), string(dstReg))
	}
	a.values[dstReg] = src
	a.dirty[dstReg] = false
	return dstReg
}

func (a *rememberingRegisterAllocator) write(srcReg Register, v *ir.Variable) {
	if a.dirty[srcReg] {
		panic("x86: register " + string(srcReg) + " was already dirty")
	}
	a.values[srcReg] = v
	a.dirty[srcReg] = true
}

func (a *rememberingRegisterAllocator) reference(v *ir.Variable, dstReg Register) Register {
	dstReg = a.allocRegister(dstReg)
	a.b.emitInstr("lea", a.b.curFrame.operand(v), string(dstReg))
	a.values[dstReg] = nil
	a.dirty[dstReg] = false
	return dstReg
}

func operandEqual(a, b ir.Operand) bool {
	switch av := a.(type) {
	case ir.Const:
		bv, ok := b.(ir.Const)
		return ok && av == bv
	case *ir.Variable:
		bv, ok := b.(*ir.Variable)
		return ok && av == bv
	}
	return false
}
