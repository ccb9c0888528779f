package ir

import "strings"

// Dump renders tu in the human-readable form spec §6 describes:
// `funcName { BB0: {instr}* BB1: {instr}* … }` per function.
func (tu *TranslationUnit) Dump() string {
	var b strings.Builder
	for i, f := range tu.Functions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.Dump())
	}
	return b.String()
}

// Dump renders f the same way.
func (f *Function) Dump() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteString(" {\n")
	for _, bb := range f.Blocks {
		b.WriteString(bb.Dump())
	}
	b.WriteString("}\n")
	return b.String()
}

// Dump renders one block: its label, then one indented line per
// instruction.
func (bb *BasicBlock) Dump() string {
	var b strings.Builder
	b.WriteString(bb.Label.Name)
	b.WriteString(":\n")
	for _, instr := range bb.Instructions {
		b.WriteString("  ")
		b.WriteString(instr.String())
		b.WriteString("\n")
	}
	return b.String()
}
