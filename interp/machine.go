package interp

import "github.com/l0lang/l0c/ir"

const defaultMemoryWords = 1001
const defaultMaxSteps = 1_000_000

// frame is one activation record on the call stack: which function is
// running, its frame base address, where to resume the caller, and
// where to deposit the return value. The original keeps this as a
// tuple living in the callee's own slot 0 (ex10/CFG/interpreter.py);
// here it is kept in the Machine.frames slice instead of being
// encoded back into the flat int memory, since memory holds only
// operand values in this implementation; slot 0 stays reserved and
// unused.
type frame struct {
	fn         *ir.Function
	bp         int
	returnPC   int
	resultAddr int
}

// Machine executes a Program over a flat array of memory words (spec
// §4.8). Unlike the original, instructions themselves are not encoded
// into that array: Program.Code is a separate instruction stream, and
// "memory" holds only operand values, addressed by frame-relative
// slot. Stack overflow is still guarded the same way, against address
// 0 rather than a heap pointer, since this subset has no heap
// allocation instructions to share the array with.
type Machine struct {
	prog     *Program
	memory   []int
	frames   []frame
	pc       int
	sp       int
	maxSteps int
}

// Option configures a Machine.
type Option func(*Machine)

// WithMemoryWords overrides the default 1001-word memory size.
func WithMemoryWords(words int) Option {
	return func(m *Machine) { m.memory = make([]int, words) }
}

// WithMaxSteps overrides the default step bound.
func WithMaxSteps(steps int) Option {
	return func(m *Machine) { m.maxSteps = steps }
}

// NewMachine creates a machine ready to run prog.
func NewMachine(prog *Program, opts ...Option) *Machine {
	m := &Machine{
		prog:     prog,
		memory:   make([]int, defaultMemoryWords),
		maxSteps: defaultMaxSteps,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sp = len(m.memory) - 1
	return m
}

// Run executes prog.Main to completion. On normal termination it
// returns (result, true, nil). Exceeding max_steps returns (0, false,
// nil): a "no value" sentinel per spec, distinct from a crash, so a
// test harness can tell "still running" apart from "broken". A
// genuine execution failure (stack overflow, malformed IR) returns
// (0, false, err).
func (m *Machine) Run() (int, bool, error) {
	if err := m.call(&ir.Call{Callee: m.prog.Main}, len(m.memory)-1); err != nil {
		return 0, false, err
	}

	steps := 0
	for len(m.frames) > 0 {
		if steps >= m.maxSteps {
			return 0, false, nil
		}
		steps++

		if m.pc < 0 || m.pc >= len(m.prog.Code) {
			return 0, false, &RuntimeError{Message: "program counter ran off the end of the instruction stream"}
		}
		if err := m.step(m.prog.Code[m.pc]); err != nil {
			return 0, false, err
		}
	}
	return m.memory[len(m.memory)-1], true, nil
}

func (m *Machine) current() frame { return m.frames[len(m.frames)-1] }

func (m *Machine) slot(f *ir.Function, v *ir.Variable) int {
	return m.prog.Layouts[f].slots[v]
}

func (m *Machine) read(op ir.Operand) int {
	switch v := op.(type) {
	case ir.Const:
		return int(v)
	case *ir.Variable:
		cur := m.current()
		return m.memory[cur.bp-m.slot(cur.fn, v)]
	}
	panic("interp: unreadable operand")
}

func (m *Machine) write(v *ir.Variable, val int) {
	cur := m.current()
	m.memory[cur.bp-m.slot(cur.fn, v)] = val
}

// step executes one instruction, advancing pc unless the instruction
// itself sets it (branches, calls, returns).
func (m *Machine) step(instr ir.Instruction) error {
	advance := true
	switch in := instr.(type) {
	case *ir.Binop:
		m.write(in.DstVar, evalBinop(in.Op, m.read(in.LHS), m.read(in.RHS)))
	case *ir.Assign:
		m.write(in.DstVar, m.read(in.Value))
	case *ir.Reference:
		cur := m.current()
		m.write(in.DstVar, cur.bp-m.slot(cur.fn, in.Var))
	case *ir.Load:
		ptr := m.read(in.Ptr)
		m.write(in.DstVar, m.memory[ptr])
	case *ir.Store:
		ptr := m.read(in.Ptr)
		m.memory[ptr] = m.read(in.Value)
	case *ir.IfGoto:
		advance = false
		if m.read(in.Cond) != 0 {
			m.pc = m.prog.LabelAddr[in.Then]
		} else {
			m.pc = m.prog.LabelAddr[in.Else]
		}
	case *ir.Goto:
		advance = false
		m.pc = m.prog.LabelAddr[in.Target]
	case *ir.Call:
		advance = false
		cur := m.current()
		resultAddr := cur.bp - m.slot(cur.fn, in.DstVar)
		if err := m.call(in, resultAddr); err != nil {
			return err
		}
	case *ir.Return:
		advance = false
		m.ret(in)
	default:
		return &RuntimeError{Message: "unhandled instruction kind"}
	}
	if advance {
		m.pc++
	}
	return nil
}

func evalBinop(op ir.BinopKind, l, r int) int {
	switch op {
	case ir.Add:
		return l + r
	case ir.Sub:
		return l - r
	case ir.Mul:
		return l * r
	case ir.Div:
		q := l / r
		if l%r != 0 && (l < 0) != (r < 0) {
			q--
		}
		return q
	case ir.LessEqual:
		if l <= r {
			return 1
		}
		return 0
	}
	panic("interp: unhandled binop")
}

// call pushes a new frame for instr.Callee and jumps to its entry.
// resultAddr is an absolute memory address (not frame-relative): the
// caller's own frame-relative slot has already been resolved by the
// caller, since by the time the callee returns, the caller's frame
// object is gone from m.frames' view (it's just buried under the new
// top).
func (m *Machine) call(instr *ir.Call, resultAddr int) error {
	args := make([]int, len(instr.Args))
	for i, a := range instr.Args {
		args[i] = m.read(a)
	}

	layout := m.prog.Layouts[instr.Callee]
	newBP := m.sp - layout.size
	if newBP-(layout.size-1) < 0 {
		return &RuntimeError{Message: "stack overflow"}
	}

	returnPC := m.pc + 1
	m.frames = append(m.frames, frame{fn: instr.Callee, bp: newBP, returnPC: returnPC, resultAddr: resultAddr})
	for i, p := range instr.Callee.Params {
		m.memory[newBP-m.slot(instr.Callee, p)] = args[i]
	}
	m.sp = newBP
	m.pc = m.prog.LabelAddr[instr.Callee.Label]
	return nil
}

func (m *Machine) ret(instr *ir.Return) {
	val := m.read(instr.Value)
	top := m.current()
	m.memory[top.resultAddr] = val
	m.sp = top.bp + m.prog.Layouts[top.fn].size
	m.frames = m.frames[:len(m.frames)-1]
	m.pc = top.returnPC
}
