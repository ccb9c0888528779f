package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/l0lang/l0c/config"
	"github.com/l0lang/l0c/x86"
)

func runSource(t *testing.T, src string, optimized bool) (int, bool) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Optimizer.Enabled = optimized

	itu, _, err := compile(src, "e2e.l0", cfg)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	result, ok, err := runInterpreter(itu, cfg)
	if err != nil {
		t.Fatalf("interpreter failed: %v", err)
	}
	return result, ok
}

// TestFibonacciIterative is spec.md §8's "Fibonacci iterative" scenario.
func TestFibonacciIterative(t *testing.T) {
	src := `
		func fib_iter(n: int): int {
			var a: int; var b: int; var t: int;
			a := 0; b := 1;
			while (n) {
				t := a + b;
				a := b;
				b := t;
				n := n - 1;
			}
			return a;
		}
		func main(): int { return fib_iter(10) + fib_iter(10); }
	`
	result, ok := runSource(t, src, true)
	if !ok || result != 110 {
		t.Fatalf("expected 110, got %d (ok=%v)", result, ok)
	}
}

// TestOptMergeEndToEnd is spec.md §8's "Opt-merge" scenario: a
// straight-line function next to a branching sibling. It checks only
// that the optimized program still returns 42, not the block counts.
func TestOptMergeEndToEnd(t *testing.T) {
	src := `
		func f1(): int {
			var a: int; var b: int; var c: int;
			a := 10;
			b := a + 10;
			c := b + 10;
			return c + 12;
		}
		func f2(n: int): int {
			if (n) {
				return 1;
			} else {
				return 2;
			}
		}
		func main(): int { return f1() + f2(1) - f2(1); }
	`
	result, ok := runSource(t, src, true)
	if !ok || result != 42 {
		t.Fatalf("expected 42, got %d (ok=%v)", result, ok)
	}
}

// TestDeadVariableEliminationEndToEnd is spec.md §8's "Dead-variable
// elimination" scenario: a function whose only local is write-only
// still runs correctly once that local is eliminated.
func TestDeadVariableEliminationEndToEnd(t *testing.T) {
	src := `
		func f(): int {
			var unused: int;
			unused := 99;
			return 0;
		}
		func main(): int { return f(); }
	`
	result, ok := runSource(t, src, true)
	if !ok || result != 0 {
		t.Fatalf("expected 0, got %d (ok=%v)", result, ok)
	}
}

// TestPointerRoundTripEndToEnd is spec.md §8's "Pointer round-trip"
// scenario.
func TestPointerRoundTripEndToEnd(t *testing.T) {
	src := `func main(): int { var x: int; var p: &int; x := 7; p := &x; *p := 42; return x; }`
	result, ok := runSource(t, src, true)
	if !ok || result != 42 {
		t.Fatalf("expected 42, got %d (ok=%v)", result, ok)
	}
}

// TestBackendXchgEndToEnd is spec.md §8's "Backend/xchg" scenario:
// stores and loads through three pointers, compiled with the remembering
// allocator under the stack convention. Run through the interpreter
// (the authoritative result) and additionally through the x86 backend
// to confirm it emits without error.
func TestBackendXchgEndToEnd(t *testing.T) {
	src := `
		func main(): int {
			var a: int; var b: int; var c: int;
			var pa: &int; var pb: &int; var pc: &int;
			a := 1; b := 2; c := 3;
			pa := &a; pb := &b; pc := &c;
			*pa := 40; *pb := 2; *pc := *pa + *pb;
			return *pc;
		}
	`
	result, ok := runSource(t, src, true)
	if !ok || result != 42 {
		t.Fatalf("expected 42, got %d (ok=%v)", result, ok)
	}

	cfg := config.DefaultConfig()
	cfg.Backend.RegisterAllocator = "remember"
	cfg.Backend.CallingConvention = "stack"
	itu, _, err := compile(src, "xchg.l0", cfg)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	var buf bytes.Buffer
	b, err := x86.NewBackend(&buf, cfg.Backend.RegisterAllocator, cfg.Backend.CallingConvention)
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if err := b.Emit(itu); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
}

// TestBackendMultiArgEndToEnd is spec.md §8's "Backend/multi-arg"
// scenario: a function with more parameters than available registers
// falls back to the stack convention transparently.
func TestBackendMultiArgEndToEnd(t *testing.T) {
	src := `
		func sum7(a: int, b: int, c: int, d: int, e: int, f: int, g: int): int {
			return a + b + c + d + e + f + g;
		}
		func main(): int { return sum7(1, 2, 3, 4, 5, 6, 61); }
	`
	result, ok := runSource(t, src, true)
	if !ok || result != 82 {
		t.Fatalf("expected 82, got %d (ok=%v)", result, ok)
	}

	cfg := config.DefaultConfig()
	cfg.Backend.CallingConvention = "register"
	itu, _, err := compile(src, "multiarg.l0", cfg)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	var buf bytes.Buffer
	b, err := x86.NewBackend(&buf, cfg.Backend.RegisterAllocator, cfg.Backend.CallingConvention)
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if err := b.Emit(itu); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	// 7 parameters exceeds len(allRegisters)==6, so the register
	// convention must fall back to pushing arguments on the stack.
	if !strings.Contains(buf.String(), "push") {
		t.Error("expected the multi-arg call to fall back to push-based argument passing")
	}
}

// TestCompileRejectsSemanticError exercises the exit-code plumbing for
// a semantic failure (undeclared identifier).
func TestCompileRejectsSemanticError(t *testing.T) {
	cfg := config.DefaultConfig()
	_, stage, err := compile(`func main(): int { return undeclared; }`, "bad.l0", cfg)
	if err == nil {
		t.Fatal("expected a semantic error")
	}
	if stage != exitSemaError {
		t.Errorf("expected exitSemaError, got %d", stage)
	}
}

// TestCompileRejectsParseError exercises the exit-code plumbing for a
// syntax error.
func TestCompileRejectsParseError(t *testing.T) {
	cfg := config.DefaultConfig()
	_, stage, err := compile(`func main(: int { return 0; }`, "bad.l0", cfg)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if stage != exitParseError {
		t.Errorf("expected exitParseError, got %d", stage)
	}
}
