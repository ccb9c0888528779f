package grammar

// LL1Analysis computes EPS, FIRST, FOLLOW and PREDICT over the words
// of a grammar, and checks that the grammar is LL(1).
type LL1Analysis struct {
	g *Grammar
}

// NewLL1Analysis returns an analysis bound to g.
func NewLL1Analysis(g *Grammar) *LL1Analysis {
	return &LL1Analysis{g: g}
}

// EPS reports whether every symbol in word can derive the empty word.
func (a *LL1Analysis) EPS(word Word) bool {
	return a.eps(word, map[*NonTerminal]bool{})
}

func (a *LL1Analysis) eps(word Word, visited map[*NonTerminal]bool) bool {
	for _, sym := range word {
		switch s := sym.(type) {
		case Epsilon:
			continue
		case *Terminal:
			return false
		case *NonTerminal:
			if visited[s] {
				panic("grammar: endless epsilon recursion involving " + s.Name)
			}
			visited[s] = true

			canDiminish := false
			for _, rule := range s.Rules {
				if a.eps(rule.RHS, visited) {
					canDiminish = true
				}
			}
			if !canDiminish {
				return false
			}
		default:
			panic("grammar: unknown symbol")
		}
	}
	return true
}

// TerminalSet is a set of terminals, used for FIRST/FOLLOW/PREDICT.
type TerminalSet map[*Terminal]struct{}

func newTerminalSet(ts ...*Terminal) TerminalSet {
	s := TerminalSet{}
	for _, t := range ts {
		s[t] = struct{}{}
	}
	return s
}

func (s TerminalSet) add(t *Terminal)     { s[t] = struct{}{} }
func (s TerminalSet) union(o TerminalSet) {
	for t := range o {
		s[t] = struct{}{}
	}
}
func (s TerminalSet) has(t *Terminal) bool { _, ok := s[t]; return ok }

// Disjoint reports whether s and o share no terminal.
func (s TerminalSet) Disjoint(o TerminalSet) (*Terminal, bool) {
	for t := range s {
		if o.has(t) {
			return t, false
		}
	}
	return nil, true
}

// FIRST returns the set of terminals that can begin a string derived
// from word.
func (a *LL1Analysis) FIRST(word Word) TerminalSet {
	return a.first(word, map[*Rule]bool{})
}

func (a *LL1Analysis) first(word Word, visited map[*Rule]bool) TerminalSet {
	firstSet := newTerminalSet()
	for _, sym := range word {
		switch s := sym.(type) {
		case Epsilon:
			continue
		case *Terminal:
			firstSet.add(s)
			return firstSet
		case *NonTerminal:
			anyNullable := false
			for _, rule := range s.Rules {
				if visited[rule] {
					panic("grammar: endless recursion in grammar rule " + rule.String())
				}
				visited[rule] = true
				firstSet.union(a.first(rule.RHS, visited))
				if a.EPS(rule.RHS) {
					anyNullable = true
				}
			}
			if anyNullable {
				continue
			}
			return firstSet
		default:
			panic("grammar: unknown symbol")
		}
	}
	return firstSet
}

// FOLLOW returns the set of terminals that may immediately follow nt
// in some derivation from the start symbol.
func (a *LL1Analysis) FOLLOW(nt *NonTerminal) TerminalSet {
	return a.follow(nt, map[*NonTerminal]bool{})
}

func (a *LL1Analysis) follow(nt *NonTerminal, visited map[*NonTerminal]bool) TerminalSet {
	followSet := newTerminalSet()

	for _, rule := range a.g.Rules {
		for idx, item := range rule.RHS {
			if item != Symbol(nt) {
				continue
			}
			rest := rule.RHS[idx+1:]
			followSet.union(a.FIRST(rest))
			if a.EPS(rest) && !visited[rule.LHS] {
				visited[rule.LHS] = true
				followSet.union(a.follow(rule.LHS, visited))
			}
		}
	}

	return followSet
}

// PREDICT returns the PREDICT set of rule: FIRST(RHS), plus FOLLOW(LHS)
// if RHS is nullable.
func (a *LL1Analysis) PREDICT(rule *Rule) TerminalSet {
	predict := a.FIRST(rule.RHS)
	if a.EPS(rule.RHS) {
		predict.union(a.FOLLOW(rule.LHS))
	}
	return predict
}

// Check verifies that the grammar is LL(1): for every non-terminal,
// the PREDICT sets of its rules must be pairwise disjoint. It returns
// the first conflict found, or nil if the grammar is LL(1).
func (a *LL1Analysis) Check() error {
	for _, nt := range a.g.NonTerminals {
		predicts := make([]TerminalSet, len(nt.Rules))
		for i, rule := range nt.Rules {
			predicts[i] = a.PREDICT(rule)
		}
		for i := 0; i < len(nt.Rules); i++ {
			for j := i + 1; j < len(nt.Rules); j++ {
				if t, ok := predicts[i].Disjoint(predicts[j]); !ok {
					return &ConflictError{NonTerminal: nt, RuleA: nt.Rules[i], RuleB: nt.Rules[j], Lookahead: t}
				}
			}
		}
	}
	return nil
}
