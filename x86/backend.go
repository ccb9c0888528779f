// Package x86 is the x86-32 backend (spec §4.9): it lowers optimized
// IR straight to GNU-as assembly text, through a pluggable register
// allocator and calling convention, and links the result with the
// system C compiler.
package x86

import (
	"fmt"
	"io"
	"strings"

	"github.com/l0lang/l0c/ir"
)

// Backend emits one translation unit as x86-32 assembly.
type Backend struct {
	w   io.Writer
	ra  registerAllocator
	cc  callingConvention
	err error

	curFunc    *ir.Function
	curFrame   frame
	instrCount int
}

// NewBackend builds a backend for the given register-allocator and
// calling-convention names, matching the X86Backend(ra=, cc=)
// constructor. Valid values: ra in {"spilling", "remember"}, cc in
// {"stack", "register"}.
func NewBackend(w io.Writer, ra, cc string) (*Backend, error) {
	b := &Backend{w: w}

	switch ra {
	case "spilling", "":
		b.ra = newSpillingRegisterAllocator(b)
	case "remember":
		b.ra = newRememberingRegisterAllocator(b)
	default:
		return nil, fmt.Errorf("x86: unknown register allocator %q (want spilling or remember)", ra)
	}

	switch cc {
	case "stack", "":
		b.cc = &stackCallingConvention{b: b}
	case "register":
		b.cc = &registerCallingConvention{stackCallingConvention: stackCallingConvention{b: b}}
	default:
		return nil, fmt.Errorf("x86: unknown calling convention %q (want stack or register)", cc)
	}

	return b, nil
}

func mangleSymbol(f *ir.Function) string { return "l0_" + f.Name }

func (b *Backend) bbLabel(f *ir.Function, bb *ir.BasicBlock) string {
	return fmt.Sprintf(".L%s_%s", mangleSymbol(f), bb.Label.Name)
}

// Emit writes every function in tu to w as assembly text, followed by
// a small C-entry-point shim that calls l0_main and prints its result
// as "L0 Return:<n>". The original links a separate x86-runtime.c for
// this; folding the glue into the emitted text instead keeps Emit's
// output self-contained, with no second source file for Link to track.
func (b *Backend) Emit(tu *ir.TranslationUnit) error {
	for _, f := range tu.Functions {
		if err := b.emitFunction(f); err != nil {
			return err
		}
	}
	b.emitRuntimeShim()
	return b.err
}

func (b *Backend) emitRuntimeShim() {
	b.writeLine(".section .rodata\n")
	b.writeLine(".l0_fmt: .string \"L0 Return:%%d\\n\"\n")
	b.writeLine(".text\n")
	b.writeLine(".globl main\n")
	b.emitLabel("main")
	b.emitInstr("call", "l0_main")
	b.emitInstr("sub", "$8", "%esp")
	b.emitInstr("mov", "%eax", "4(%esp)")
	b.emitInstr("movl", "$.l0_fmt", "(%esp)")
	b.emitInstr("call", "printf")
	b.emitInstr("add", "$8", "%esp")
	b.emitInstr("xor", "%eax", "%eax")
	b.emitInstr("ret")
}

func (b *Backend) writeLine(format string, args ...any) {
	if b.err != nil {
		return
	}
	_, err := fmt.Fprintf(b.w, format, args...)
	if err != nil {
		b.err = err
	}
}

func (b *Backend) emitLabel(name string) { b.writeLine("%s:\n", name) }

func (b *Backend) emitInstr(opcode string, args ...string) {
	b.instrCount++
	b.writeLine("\t%s %s\n", opcode, strings.Join(args, ", "))
}

func (b *Backend) emitComment(s string) { b.writeLine("\t## %s\n", s) }

func (b *Backend) emitFunction(f *ir.Function) error {
	name := mangleSymbol(f)
	b.writeLine(".globl %s\n", name)
	b.writeLine(".type %s, @function\n", name)

	b.curFunc = f
	b.instrCount = 0

	b.emitLabel(name)
	b.ra.beforeFunction(f)

	if f.EntryBlock == nil {
		return fmt.Errorf("x86: function %s has no entry block", f.Name)
	}
	if err := b.emitBasicBlock(f, f.EntryBlock); err != nil {
		return err
	}
	for _, bb := range f.Blocks {
		if bb == f.EntryBlock {
			continue
		}
		if err := b.emitBasicBlock(f, bb); err != nil {
			return err
		}
	}

	b.ra.afterFunction(f)
	b.writeLine(".size %s, .-%s\n#%s\n", name, name, strings.Repeat("-", 79))
	return b.err
}

func (b *Backend) emitBasicBlock(f *ir.Function, bb *ir.BasicBlock) error {
	b.emitLabel(b.bbLabel(f, bb))
	b.ra.beforeBasicBlock(bb)

	if f.EntryBlock == bb {
		if err := b.cc.functionEntry(f); err != nil {
			return err
		}
	}

	for _, instr := range bb.Instructions {
		b.emitComment(instr.String())
		b.ra.beforeInstruction(instr)
		if err := b.emitInstruction(f, instr); err != nil {
			return err
		}
		b.ra.afterInstruction(instr)
		b.writeLine("\n")
		if _, ok := instr.(*ir.Return); ok {
			break
		}
	}
	b.ra.afterBasicBlock(bb)
	return b.err
}

func (b *Backend) emitInstruction(f *ir.Function, instr ir.Instruction) error {
	switch in := instr.(type) {
	case *ir.Binop:
		return b.emitBinop(in)
	case *ir.Assign:
		b.emitAssign(in)
	case *ir.Reference:
		b.emitReference(in)
	case *ir.Store:
		b.emitStore(in)
	case *ir.Load:
		b.emitLoad(in)
	case *ir.Goto:
		b.emitGoto(f, in)
	case *ir.IfGoto:
		b.emitIfGoto(f, in)
	case *ir.Call:
		return b.emitCall(in)
	case *ir.Return:
		return b.cc.functionReturn(f, in.Value)
	default:
		return fmt.Errorf("x86: unhandled instruction %T", instr)
	}
	return nil
}

func (b *Backend) emitBinop(instr *ir.Binop) error {
	switch instr.Op {
	case ir.Add:
		lhs := b.ra.load(instr.LHS, noReg, false)
		rhs := b.ra.load(instr.RHS, noReg, true)
		b.emitInstr("add", string(lhs), string(rhs))
		b.ra.write(rhs, instr.DstVar)
	case ir.Sub:
		lhs := b.ra.load(instr.LHS, noReg, true)
		rhs := b.ra.load(instr.RHS, noReg, false)
		b.emitInstr("sub", string(rhs), string(lhs))
		b.ra.write(lhs, instr.DstVar)
	case ir.Mul:
		lhs := b.ra.load(instr.LHS, noReg, true)
		rhs := b.ra.load(instr.RHS, noReg, false)
		b.emitInstr("imul", string(rhs), string(lhs))
		b.ra.write(lhs, instr.DstVar)
	case ir.Div:
		b.ra.load(ir.Const(0), EDX, true)
		b.ra.load(instr.LHS, EAX, true)
		b.ra.load(instr.RHS, ECX, true)
		b.emitInstr("idiv", "%ecx")
		b.ra.write(EAX, instr.DstVar)
	case ir.LessEqual:
		eax := b.ra.allocRegister(EAX)
		lhs := b.ra.load(instr.LHS, noReg, false)
		rhs := b.ra.load(instr.RHS, noReg, false)
		b.emitInstr("cmp", string(rhs), string(lhs))
		b.emitInstr("setle", "%al")
		b.emitInstr("movzbl", "%al", string(eax))
		b.ra.write(eax, instr.DstVar)
	default:
		return fmt.Errorf("x86: unhandled binop %s", instr.Op)
	}
	return nil
}

func (b *Backend) emitAssign(instr *ir.Assign) {
	src := b.ra.load(instr.Value, noReg, false)
	dst := b.ra.allocRegister(noReg)
	b.emitInstr("mov", string(src), string(dst))
	b.ra.write(dst, instr.DstVar)
}

func (b *Backend) emitReference(instr *ir.Reference) {
	reg := b.ra.reference(instr.Var, noReg)
	b.ra.write(reg, instr.DstVar)
}

func (b *Backend) emitStore(instr *ir.Store) {
	value := b.ra.load(instr.Value, noReg, false)
	ptr := b.ra.load(instr.Ptr, noReg, false)
	b.emitInstr("mov", string(value), "("+string(ptr)+")")
}

func (b *Backend) emitLoad(instr *ir.Load) {
	value := b.ra.allocRegister(noReg)
	ptr := b.ra.load(instr.Ptr, noReg, false)
	b.emitInstr("mov", "("+string(ptr)+")", string(value))
	b.ra.write(value, instr.DstVar)
}

func (b *Backend) emitGoto(f *ir.Function, instr *ir.Goto) {
	b.emitInstr("jmp", b.bbLabel(f, instr.Target.Block))
}

func (b *Backend) emitIfGoto(f *ir.Function, instr *ir.IfGoto) {
	cond := b.ra.load(instr.Cond, noReg, false)
	b.emitInstr("test", string(cond), string(cond))
	b.emitInstr("jne", b.bbLabel(f, instr.Then.Block))
	b.emitInstr("jmp", b.bbLabel(f, instr.Else.Block))
}

func (b *Backend) emitCall(instr *ir.Call) error {
	if err := b.cc.callPrologue(instr); err != nil {
		return err
	}
	b.emitInstr("call", mangleSymbol(instr.Callee))
	return b.cc.callEpilogue(instr)
}
