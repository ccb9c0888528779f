package x86

import "github.com/l0lang/l0c/ir"

// registerAllocator decides which physical register backs each IR
// operand as the backend walks a function's instructions (spec
// §4.9). The two implementations are spillingRegisterAllocator
// (stateless: every value round-trips through memory) and
// rememberingRegisterAllocator (caches values across instructions
// within a basic block).
type registerAllocator interface {
	beforeFunction(f *ir.Function)
	afterFunction(f *ir.Function)
	beforeBasicBlock(bb *ir.BasicBlock)
	afterBasicBlock(bb *ir.BasicBlock)
	beforeInstruction(instr ir.Instruction)
	afterInstruction(instr ir.Instruction)

	// load moves src into dstReg (or any free register if dstReg is
	// noReg), returning the register actually used. If modify is set,
	// the caller intends to overwrite the register's contents.
	load(src ir.Operand, dstReg Register, modify bool) Register
	write(srcReg Register, v *ir.Variable)
	reference(v *ir.Variable, dstReg Register) Register
	allocRegister(dstReg Register) Register
	freeRegister(reg Register)

	// resetState discards any cached register contents: used after a
	// call, which clobbers every register under this backend's
	// convention.
	resetState()
	dumpState() string
}
