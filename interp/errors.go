// Package interp is the IR interpreter (spec §4.8): a flat-memory
// stack machine that executes post-optimizer IR directly, without
// going through the x86 backend.
package interp

// RuntimeError reports a failure the interpreter detected while
// executing otherwise well-formed IR: a stack overflow, or a missing
// "main" function.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return "interp: " + e.Message }
