package grammar

import "fmt"

// ConflictError reports that two rules of the same non-terminal share
// a lookahead terminal in their PREDICT sets, so the grammar is not
// LL(1).
type ConflictError struct {
	NonTerminal *NonTerminal
	RuleA       *Rule
	RuleB       *Rule
	Lookahead   *Terminal
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"grammar is not LL(1): %s has conflicting rules on lookahead %s:\n  %s\n  %s",
		e.NonTerminal, e.Lookahead, e.RuleA, e.RuleB,
	)
}
