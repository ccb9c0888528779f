package ir

import "fmt"

// InvariantError describes a violated IR well-formedness invariant —
// an already-closed block appended to, a dangling label, or similar.
// No function in this module returns it: BasicBlock.Append panics on a
// closed block, and irgen and the optimizer run no post-pass checks.
type InvariantError struct {
	Func    string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("ir: invariant violated in function %s: %s", e.Func, e.Message)
}
