package x86

import (
	"strconv"

	"github.com/l0lang/l0c/ir"
)

// frame is one function's ebp-relative layout: which 4-byte offset
// each parameter and local lives at, per stackCallingConvention.
// Under registerCallingConvention, parameters that arrive in
// registers get a negative offset alongside the locals instead of a
// caller-supplied positive one (see registerCallingConvention.functionEntry).
type frame struct {
	offsets map[*ir.Variable]int
	slots   int // number of 4-byte slots reserved by `enter`
}

func (fr frame) operand(v *ir.Variable) string {
	return strconv.Itoa(fr.offsets[v]) + "(%ebp)"
}

// stackFrame lays out a function per the stack calling convention:
// parameters at positive offsets above the caller's pushed arguments
// (ebp+8, ebp+12, ...), locals at negative offsets below (ebp-4,
// ebp-8, ...), matching ex10/backend/X86Backend.py
// StackCallingConvention.function_entry.
func stackFrame(f *ir.Function) frame {
	offsets := map[*ir.Variable]int{}
	for i, p := range f.Params {
		offsets[p] = 4*i + 8
	}
	for i, l := range f.Locals {
		offsets[l] = -4*i - 4
	}
	return frame{offsets: offsets, slots: len(f.Locals)}
}

// registerFrame lays out a function whose parameters arrive in
// registers: there are no caller-pushed arguments, so parameters need
// their own spill slots alongside the locals rather than positive
// offsets. This is the part the original leaves as a TODO
// ("Slots fuer Variablen UND Parameter").
func registerFrame(f *ir.Function) frame {
	offsets := map[*ir.Variable]int{}
	idx := 0
	for _, p := range f.Params {
		offsets[p] = -4*idx - 4
		idx++
	}
	for _, l := range f.Locals {
		offsets[l] = -4*idx - 4
		idx++
	}
	return frame{offsets: offsets, slots: idx}
}
