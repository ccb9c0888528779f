package ir

import (
	"fmt"
	"strings"
)

// Instruction is one IR operation. Dst is nil for instructions with no
// destination (Store, IfGoto, Goto, Return). Srcs lists source
// operands in the order spec §4.6's dump format prints them.
type Instruction interface {
	fmt.Stringer
	Opcode() string
	Dst() *Variable
	Srcs() []Operand
}

func dumpLine(i Instruction) string {
	srcs := make([]string, len(i.Srcs()))
	for j, s := range i.Srcs() {
		srcs[j] = s.String()
	}
	body := fmt.Sprintf("%s %s", i.Opcode(), strings.Join(srcs, ", "))
	if d := i.Dst(); d != nil {
		return fmt.Sprintf("%-3s := %s", d.String(), body)
	}
	return body
}

// BinopKind enumerates the arithmetic/comparison opcodes that share
// the dst/lhs/rhs shape (spec §4.6, §4.7).
type BinopKind int

const (
	Add BinopKind = iota
	Sub
	Mul
	Div
	LessEqual
)

func (k BinopKind) String() string {
	return [...]string{"Add", "Sub", "Mul", "Div", "LessEqual"}[k]
}

// Binop is a two-operand arithmetic or comparison instruction.
type Binop struct {
	Op       BinopKind
	DstVar   *Variable
	LHS, RHS Operand
}

func (b *Binop) Opcode() string    { return b.Op.String() }
func (b *Binop) Dst() *Variable    { return b.DstVar }
func (b *Binop) Srcs() []Operand   { return []Operand{b.LHS, b.RHS} }
func (b *Binop) String() string    { return dumpLine(b) }

// Assign is `dst := value`.
type Assign struct {
	DstVar *Variable
	Value  Operand
}

func (a *Assign) Opcode() string  { return "Assign" }
func (a *Assign) Dst() *Variable  { return a.DstVar }
func (a *Assign) Srcs() []Operand { return []Operand{a.Value} }
func (a *Assign) String() string  { return dumpLine(a) }

// Reference is `dst := &var` (spec §4.6 lvalue rule for Identifier/Ref).
type Reference struct {
	DstVar *Variable
	Var    *Variable
}

func (r *Reference) Opcode() string  { return "Reference" }
func (r *Reference) Dst() *Variable  { return r.DstVar }
func (r *Reference) Srcs() []Operand { return []Operand{r.Var} }
func (r *Reference) String() string  { return dumpLine(r) }

// Load is `dst := *ptr`.
type Load struct {
	DstVar *Variable
	Ptr    *Variable
}

func (l *Load) Opcode() string  { return "Load" }
func (l *Load) Dst() *Variable  { return l.DstVar }
func (l *Load) Srcs() []Operand { return []Operand{l.Ptr} }
func (l *Load) String() string  { return fmt.Sprintf("%-3s := Load *%s", l.DstVar, l.Ptr) }

// Store is `*ptr := value`.
type Store struct {
	Ptr   *Variable
	Value Operand
}

func (s *Store) Opcode() string  { return "Store" }
func (s *Store) Dst() *Variable  { return nil }
func (s *Store) Srcs() []Operand { return []Operand{s.Ptr, s.Value} }
func (s *Store) String() string  { return fmt.Sprintf("*%s := Store %s", s.Ptr, s.Value) }

// IfGoto branches to Then if Cond != 0, else to Else. Must be a
// block's terminator (spec §4.6, §4.7).
type IfGoto struct {
	Cond       Operand
	Then, Else *Label
}

func (g *IfGoto) Opcode() string  { return "IfGoto" }
func (g *IfGoto) Dst() *Variable  { return nil }
func (g *IfGoto) Srcs() []Operand { return []Operand{g.Cond} }
func (g *IfGoto) String() string {
	return fmt.Sprintf("IfGoto %s, %s, %s", g.Cond, g.Then, g.Else)
}

// Goto is an unconditional jump. Must be a block's terminator.
type Goto struct {
	Target *Label
}

func (g *Goto) Opcode() string  { return "Goto" }
func (g *Goto) Dst() *Variable  { return nil }
func (g *Goto) Srcs() []Operand { return []Operand{} }
func (g *Goto) String() string  { return fmt.Sprintf("Goto %s", g.Target) }

// Call invokes Callee with Args, storing the result in Dst.
type Call struct {
	DstVar *Variable
	Callee *Function
	Args   []Operand
}

func (c *Call) Opcode() string { return "Call" }
func (c *Call) Dst() *Variable { return c.DstVar }
func (c *Call) Srcs() []Operand {
	out := make([]Operand, 0, 1+len(c.Args))
	for _, a := range c.Args {
		out = append(out, a)
	}
	return out
}
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%-3s := Call %s, %s", c.DstVar, c.Callee.Name, strings.Join(args, ", "))
}

// Return returns Value from the current function (spec §4.8).
type Return struct {
	Value Operand
}

func (r *Return) Opcode() string  { return "Return" }
func (r *Return) Dst() *Variable  { return nil }
func (r *Return) Srcs() []Operand { return []Operand{r.Value} }
func (r *Return) String() string  { return fmt.Sprintf("Return %s", r.Value) }
