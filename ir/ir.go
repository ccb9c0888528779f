// Package ir is the three-address intermediate representation (spec
// §3 "IR", §4.6-§4.8): the data model codegen builds, the optimizer
// mutates, and the interpreter and x86 backend consume.
package ir

import "fmt"

// Operand is anything an instruction can read: a Variable or an
// integer constant.
type Operand interface {
	fmt.Stringer
	isOperand()
}

// Const is an integer literal operand.
type Const int

func (Const) isOperand()      {}
func (c Const) String() string { return fmt.Sprintf("%d", int(c)) }

// Variable is a local, a parameter, or a compiler-introduced
// temporary. Its position in a frame layout (spec §4.8) is computed
// by whichever consumer needs one (the interpreter, the x86 backend),
// each with its own numbering scheme, rather than stored here.
type Variable struct {
	Name      string
	Temporary bool
}

func (*Variable) isOperand()        {}
func (v *Variable) String() string  { return v.Name }

// Label names the entry point of a BasicBlock or a Function. Block is
// set for a block label, nil for a function label. Address is not
// filled in by any pass: the interpreter's linearization (spec §4.8)
// records label addresses in its own Program.LabelAddr map instead.
type Label struct {
	Name    string
	Block   *BasicBlock
	Address int
}

func (l *Label) String() string { return "." + l.Name }

// BasicBlock is a straight-line run of instructions. Per spec §4.6 and
// §4.7, only its last instruction may be a control-transfer (Goto or
// IfGoto); Append enforces this, matching the original's
// "cannot append instruction to already closed block" assertion
// (ex11/CFG/types.py BasicBlock.append).
type BasicBlock struct {
	Label        *Label
	Instructions []Instruction
}

// NewBasicBlock creates a block named name, with its own label pointed
// back at it.
func NewBasicBlock(name string) *BasicBlock {
	bb := &BasicBlock{}
	bb.Label = &Label{Name: name, Block: bb}
	return bb
}

func (bb *BasicBlock) String() string { return bb.Label.Name }

// Closed reports whether bb already ends in a control transfer, and so
// cannot accept further instructions.
func (bb *BasicBlock) Closed() bool {
	if len(bb.Instructions) == 0 {
		return false
	}
	switch bb.Instructions[len(bb.Instructions)-1].(type) {
	case *Goto, *IfGoto:
		return true
	}
	return false
}

// Append adds instr to the block. It panics if the block is already
// closed, the same programmer error the original guards with an
// assertion.
func (bb *BasicBlock) Append(instr Instruction) {
	if bb.Closed() {
		panic(fmt.Sprintf("ir: cannot append %s to already-closed block %s", instr.Opcode(), bb))
	}
	bb.Instructions = append(bb.Instructions, instr)
}

// Successors returns bb's CFG successors, derived from its terminator.
func (bb *BasicBlock) Successors() []*BasicBlock {
	if len(bb.Instructions) == 0 {
		return nil
	}
	switch term := bb.Instructions[len(bb.Instructions)-1].(type) {
	case *Goto:
		return []*BasicBlock{term.Target.Block}
	case *IfGoto:
		return []*BasicBlock{term.Then.Block, term.Else.Block}
	}
	return nil
}

// Function is one compiled function: its signature's IR shadow
// (parameters and locals as Variables), its blocks, and its entry.
type Function struct {
	Name       string
	Label      *Label
	Params     []*Variable
	Locals     []*Variable
	Blocks     []*BasicBlock
	EntryBlock *BasicBlock

	numTemps int
}

// NewFunction creates an empty function named name.
func NewFunction(name string) *Function {
	return &Function{Name: name, Label: &Label{Name: name}}
}

func (f *Function) String() string { return "func:" + f.Name }

// CreateBlock appends a new, empty block to f, named "BB<n>". The
// first block created becomes the entry block.
func (f *Function) CreateBlock() *BasicBlock {
	bb := NewBasicBlock(fmt.Sprintf("BB%d", len(f.Blocks)))
	if f.EntryBlock == nil {
		f.EntryBlock = bb
	}
	f.Blocks = append(f.Blocks, bb)
	return bb
}

// CreateVariable allocates a named local, or an anonymous temporary
// ("t<n>") when name is empty.
func (f *Function) CreateVariable(name string) *Variable {
	temp := name == ""
	if temp {
		name = fmt.Sprintf("t%d", f.numTemps)
		f.numTemps++
	}
	v := &Variable{Name: name, Temporary: temp}
	f.Locals = append(f.Locals, v)
	return v
}

// CreateParameter allocates a parameter, named by its position and
// source name ("p<n>_<name>"), matching the original's mangling
// (ex11/CFG/types.py Function.create_parameter) so dumps read the
// same way.
func (f *Function) CreateParameter(name string) *Variable {
	v := &Variable{Name: fmt.Sprintf("p%d_%s", len(f.Params), name)}
	f.Params = append(f.Params, v)
	return v
}

// RemoveLocal deletes v from f's local list; used by dead-variable
// elimination (spec §4.7). It is a no-op if v is not a local.
func (f *Function) RemoveLocal(v *Variable) {
	for i, l := range f.Locals {
		if l == v {
			f.Locals = append(f.Locals[:i], f.Locals[i+1:]...)
			return
		}
	}
}

// RemoveBlock deletes bb from f's block list; used by dead-block
// elimination (spec §4.7).
func (f *Function) RemoveBlock(bb *BasicBlock) {
	for i, b := range f.Blocks {
		if b == bb {
			f.Blocks = append(f.Blocks[:i], f.Blocks[i+1:]...)
			return
		}
	}
}

// Predecessors computes, for every block in f, the blocks with an
// edge into it.
func (f *Function) Predecessors() map[*BasicBlock][]*BasicBlock {
	preds := map[*BasicBlock][]*BasicBlock{}
	for _, bb := range f.Blocks {
		for _, succ := range bb.Successors() {
			preds[succ] = append(preds[succ], bb)
		}
	}
	return preds
}

// SortBlocks reorders f.Blocks by breadth-first traversal from the
// entry block, appending any unreachable blocks at the end (spec
// §4.6's determinism requirement, §5), mirroring
// Function.sort_blocks in ex11/CFG/types.py.
func (f *Function) SortBlocks() {
	if f.EntryBlock == nil {
		return
	}
	visited := map[*BasicBlock]bool{}
	var order []*BasicBlock
	queue := []*BasicBlock{f.EntryBlock}
	visited[f.EntryBlock] = true
	for len(queue) > 0 {
		bb := queue[0]
		queue = queue[1:]
		order = append(order, bb)
		for _, succ := range bb.Successors() {
			if !visited[succ] {
				visited[succ] = true
				queue = append(queue, succ)
			}
		}
	}
	for _, bb := range f.Blocks {
		if !visited[bb] {
			order = append(order, bb)
		}
	}
	f.Blocks = order
}

// TranslationUnit is the IR output of codegen for a whole program.
type TranslationUnit struct {
	Functions []*Function
}

// FindFunction returns the function named name, or nil.
func (tu *TranslationUnit) FindFunction(name string) *Function {
	for _, f := range tu.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}
