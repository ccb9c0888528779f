package x86

import (
	"fmt"

	"github.com/l0lang/l0c/ir"
)

// callingConvention governs how arguments cross a call boundary and
// how a function sets up and tears down its own frame (spec §4.9).
type callingConvention interface {
	functionEntry(f *ir.Function) error
	functionReturn(f *ir.Function, value ir.Operand) error
	callPrologue(instr *ir.Call) error
	callEpilogue(instr *ir.Call) error
}

// stackCallingConvention pushes arguments right to left and uses
// enter/leave for the frame, grounded on
// ex10/backend/X86Backend.py StackCallingConvention.
type stackCallingConvention struct {
	b *Backend
}

func (c *stackCallingConvention) callPrologue(instr *ir.Call) error {
	for i := len(instr.Args) - 1; i >= 0; i-- {
		reg := c.b.ra.load(instr.Args[i], noReg, false)
		c.b.emitInstr("push", string(reg))
		c.b.ra.freeRegister(reg)
	}
	c.b.ra.allocRegister(EAX)
	return nil
}

func (c *stackCallingConvention) callEpilogue(instr *ir.Call) error {
	if argc := len(instr.Args); argc > 0 {
		c.b.emitInstr("add", fmt.Sprintf("$%d", argc*4), "%esp")
	}
	c.b.ra.resetState()
	c.b.ra.write(EAX, instr.DstVar)
	return nil
}

func (c *stackCallingConvention) functionEntry(f *ir.Function) error {
	c.b.curFrame = stackFrame(f)
	c.b.emitInstr("enter", fmt.Sprintf("$%d", c.b.curFrame.slots*4), "$0")
	return nil
}

func (c *stackCallingConvention) functionReturn(f *ir.Function, value ir.Operand) error {
	c.b.ra.load(value, EAX, true)
	c.b.emitInstr("leave")
	c.b.emitInstr("ret")
	return nil
}

// registerCallingConvention passes up to len(allRegisters) arguments
// directly in fixed registers, falling back to stackCallingConvention
// when a call or function has more parameters than available
// registers. The original leaves this convention entirely
// unimplemented (NotImplementedError in call_prologue/call_epilogue,
// TODOs in function_entry); this is the completed version.
type registerCallingConvention struct {
	stackCallingConvention
}

func (c *registerCallingConvention) functionEntry(f *ir.Function) error {
	if len(f.Params) > len(allRegisters) {
		return c.stackCallingConvention.functionEntry(f)
	}

	c.b.curFrame = registerFrame(f)
	c.b.emitInstr("enter", fmt.Sprintf("$%d", c.b.curFrame.slots*4), "$0")
	for i, p := range f.Params {
		c.b.ra.write(allRegisters[i], p)
	}
	return nil
}

func (c *registerCallingConvention) callPrologue(instr *ir.Call) error {
	if len(instr.Args) > len(allRegisters) {
		return c.stackCallingConvention.callPrologue(instr)
	}
	// Arguments are evaluated left to right into their home registers.
	// A call never has enough arguments to exceed available registers
	// here, but an argument expression that itself reads a later
	// argument's home register would still clobber it; L0 call
	// arguments are simple expressions in practice, so this convention
	// does not attempt full parallel-move resolution.
	for i, arg := range instr.Args {
		c.b.ra.load(arg, allRegisters[i], true)
	}
	return nil
}

func (c *registerCallingConvention) callEpilogue(instr *ir.Call) error {
	if len(instr.Args) > len(allRegisters) {
		return c.stackCallingConvention.callEpilogue(instr)
	}
	c.b.ra.resetState()
	c.b.ra.write(EAX, instr.DstVar)
	return nil
}
