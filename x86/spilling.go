package x86

import "github.com/l0lang/l0c/ir"

// spillingRegisterAllocator is stateless: every operand round-trips
// through its stack slot on every use. Grounded directly on
// ex10/backend/X86Backend.py SpillingRegisterAllocator.
type spillingRegisterAllocator struct {
	b         *Backend
	available []Register
}

func newSpillingRegisterAllocator(b *Backend) *spillingRegisterAllocator {
	return &spillingRegisterAllocator{b: b}
}

func (a *spillingRegisterAllocator) beforeFunction(f *ir.Function) {}
func (a *spillingRegisterAllocator) afterFunction(f *ir.Function)  {}
func (a *spillingRegisterAllocator) beforeBasicBlock(bb *ir.BasicBlock) {}
func (a *spillingRegisterAllocator) afterBasicBlock(bb *ir.BasicBlock)  {}

func (a *spillingRegisterAllocator) beforeInstruction(instr ir.Instruction) {
	a.available = append([]Register(nil), allRegisters...)
}

func (a *spillingRegisterAllocator) afterInstruction(instr ir.Instruction) {}

func (a *spillingRegisterAllocator) dumpState() string { return "" }
func (a *spillingRegisterAllocator) resetState()       {}

func (a *spillingRegisterAllocator) allocRegister(dstReg Register) Register {
	if dstReg == noReg {
		dstReg = a.available[len(a.available)-1]
		a.available = a.available[:len(a.available)-1]
		return dstReg
	}
	for i, r := range a.available {
		if r == dstReg {
			a.available = append(a.available[:i], a.available[i+1:]...)
			return dstReg
		}
	}
	panic("x86: register " + string(dstReg) + " was already allocated")
}

func (a *spillingRegisterAllocator) freeRegister(reg Register) {
	a.available = append(a.available, reg)
}

func (a *spillingRegisterAllocator) load(src ir.Operand, dstReg Register, modify bool) Register {
	dstReg = a.allocRegister(dstReg)
	switch v := src.(type) {
	case ir.Const:
		a.b.emitInstr("mov", "$"+v.String(), string(dstReg))
	case *ir.Variable:
		a.b.emitInstr("mov", a.b.curFrame.operand(v), string(dstReg))
	}
	return dstReg
}

func (a *spillingRegisterAllocator) write(srcReg Register, v *ir.Variable) {
	a.b.emitInstr("mov", string(srcReg), a.b.curFrame.operand(v))
}

func (a *spillingRegisterAllocator) reference(v *ir.Variable, dstReg Register) Register {
	dstReg = a.allocRegister(dstReg)
	a.b.emitInstr("lea", a.b.curFrame.operand(v), string(dstReg))
	return dstReg
}
