package ir

import "sort"

// EquivalenceClasses is the set-of-sets state constant/value
// propagation (spec §4.7) tracks per program point: operands known to
// currently hold the same value are grouped into one class, so a read
// of any member can be rewritten to the class's best representative.
//
// Internally it is a union-find over Operand, except classes can also
// shrink (Kill) when a destination is redefined — something a plain
// union-find doesn't support, so each class is a shared member set
// rather than a parent-pointer tree.
type EquivalenceClasses struct {
	classOf map[Operand]*class
}

type class struct {
	members map[Operand]struct{}
}

// NewEquivalenceClasses returns an empty equivalence-classes state.
func NewEquivalenceClasses() *EquivalenceClasses {
	return &EquivalenceClasses{classOf: map[Operand]*class{}}
}

func newClass(members ...Operand) *class {
	c := &class{members: map[Operand]struct{}{}}
	for _, m := range members {
		c.members[m] = struct{}{}
	}
	return c
}

// Find returns op's best representative: an integer constant if the
// class has one, else a non-temporary variable, else op itself. This
// is the substitution rule spec §4.7 uses when rewriting source
// operands.
func (e *EquivalenceClasses) Find(op Operand) Operand {
	c, ok := e.classOf[op]
	if !ok {
		return op
	}
	best := op
	for m := range c.members {
		if better(m, best) {
			best = m
		}
	}
	return best
}

// rank: lower is preferred. Const < non-temporary Variable < temporary Variable.
func rank(op Operand) int {
	switch v := op.(type) {
	case Const:
		return 0
	case *Variable:
		if !v.Temporary {
			return 1
		}
		return 2
	default:
		return 3
	}
}

func better(a, b Operand) bool {
	return rank(a) < rank(b)
}

// Union records that a and b currently hold the same value.
func (e *EquivalenceClasses) Union(a, b Operand) {
	ca, aok := e.classOf[a]
	cb, bok := e.classOf[b]
	switch {
	case aok && bok:
		if ca == cb {
			return
		}
		for m := range cb.members {
			ca.members[m] = struct{}{}
			e.classOf[m] = ca
		}
	case aok:
		ca.members[b] = struct{}{}
		e.classOf[b] = ca
	case bok:
		cb.members[a] = struct{}{}
		e.classOf[a] = cb
	default:
		c := newClass(a, b)
		e.classOf[a] = c
		e.classOf[b] = c
	}
}

// Kill removes op from whatever class it belongs to: it no longer has
// a known-equivalent value (used when op is about to be redefined).
func (e *EquivalenceClasses) Kill(op Operand) {
	c, ok := e.classOf[op]
	if !ok {
		return
	}
	delete(c.members, op)
	delete(e.classOf, op)
}

// Invalidate clears every recorded equivalence, used after a Store or
// Call whose side effects are unknown to this analysis (spec §4.7).
func (e *EquivalenceClasses) Invalidate() {
	e.classOf = map[Operand]*class{}
}

// Clone returns an independent deep copy.
func (e *EquivalenceClasses) Clone() *EquivalenceClasses {
	out := NewEquivalenceClasses()
	seen := map[*class]*class{}
	for op, c := range e.classOf {
		nc, ok := seen[c]
		if !ok {
			nc = newClass()
			for m := range c.members {
				nc.members[m] = struct{}{}
			}
			seen[c] = nc
		}
		out.classOf[op] = nc
	}
	return out
}

// Merge intersects N predecessor exit-states into the entry state for
// their common successor: two operands end up equivalent only if they
// were equivalent in every input state (spec §4.7, "merge predecessors'
// exit states (intersecting their classes)"). Merge of zero states is
// the empty state.
func Merge(states []*EquivalenceClasses) *EquivalenceClasses {
	result := NewEquivalenceClasses()
	if len(states) == 0 {
		return result
	}
	base := states[0]
	for _, c := range base.allClasses() {
		members := make([]Operand, 0, len(c.members))
		for m := range c.members {
			members = append(members, m)
		}
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := members[i], members[j]
				if equivalentInAll(states[1:], a, b) {
					result.Union(a, b)
				}
			}
		}
	}
	return result
}

func equivalentInAll(states []*EquivalenceClasses, a, b Operand) bool {
	for _, st := range states {
		ca, aok := st.classOf[a]
		cb, bok := st.classOf[b]
		if !aok || !bok || ca != cb {
			return false
		}
	}
	return true
}

func (e *EquivalenceClasses) allClasses() []*class {
	seen := map[*class]bool{}
	var out []*class
	for _, c := range e.classOf {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Equal reports whether e and o induce the same partition, used by
// the optimizer's inter-block worklist to detect a fixpoint (spec
// §4.7, §5: "the optimizer worklist is FIFO ... until no exit state
// changes").
func (e *EquivalenceClasses) Equal(o *EquivalenceClasses) bool {
	return e.signature() == o.signature()
}

// signature canonicalizes the partition into a comparable string: one
// sorted member-list per class, classes themselves sorted.
func (e *EquivalenceClasses) signature() string {
	var classSigs []string
	for _, c := range e.allClasses() {
		var names []string
		for m := range c.members {
			names = append(names, operandKey(m))
		}
		sort.Strings(names)
		classSigs = append(classSigs, "{"+join(names)+"}")
	}
	sort.Strings(classSigs)
	return join(classSigs)
}

func operandKey(op Operand) string {
	if v, ok := op.(*Variable); ok {
		return "var:" + v.Name
	}
	return "const:" + op.String()
}

func join(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}
