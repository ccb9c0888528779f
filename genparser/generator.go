// Package genparser is the LL(1) parser generator (spec §4.3). Rather
// than emitting target-language source files, it compiles a
// grammar.Grammar into an in-memory Table plus a generic table-driven
// LL(1) driver (Design Note, spec §9). Actions are plain Go closures —
// the typed DSL standing in for the original's textual `$0...$N`
// templates.
package genparser

import (
	"fmt"

	"github.com/l0lang/l0c/grammar"
	"github.com/l0lang/l0c/scanner"
)

// Action builds a result from the sub-results of a rule's right-hand
// side, in left-to-right order (skipping epsilon, which contributes no
// sub-result). This is the "take sub-result i" / "apply constructor C"
// action DSL that Design Note §9 calls for in place of textual
// templates.
type Action func(args []any) any

// TakeArg returns an Action that yields the i-th sub-result unchanged
// (0-indexed), the common case for chain/unit productions.
func TakeArg(i int) Action {
	return func(args []any) any {
		return args[i]
	}
}

// Branch is one alternative of a non-terminal's generated parse
// function: the rule it realizes, together with its (precomputed)
// PREDICT set.
type Branch struct {
	Rule     *grammar.Rule
	Predict  grammar.TerminalSet
	Nullable bool // the rule's RHS can derive the empty word
	Action   Action
}

// Table is the compiled parser: one ordered list of branches per
// non-terminal, keyed by non-terminal name.
type Table struct {
	Grammar  *grammar.Grammar
	Branches map[string][]*Branch
}

// ConflictError is returned by Generate when the grammar is not
// LL(1); it wraps the underlying grammar.ConflictError.
type ConflictError struct {
	Err error
}

func (e *ConflictError) Error() string { return e.Err.Error() }
func (e *ConflictError) Unwrap() error { return e.Err }

// Generate builds the table for g after validating it is LL(1)
// (running the PREDICT-disjointness check spec §4.1 and §4.3 require).
func Generate(g *grammar.Grammar) (*Table, error) {
	analysis := grammar.NewLL1Analysis(g)
	if err := analysis.Check(); err != nil {
		return nil, &ConflictError{Err: err}
	}

	t := &Table{Grammar: g, Branches: map[string][]*Branch{}}
	for name, nt := range g.NonTerminals {
		branches := make([]*Branch, 0, len(nt.Rules))
		for _, rule := range nt.Rules {
			action, _ := rule.Action.(Action)
			branches = append(branches, &Branch{
				Rule:     rule,
				Predict:  analysis.PREDICT(rule),
				Nullable: analysis.EPS(rule.RHS),
				Action:   action,
			})
		}
		t.Branches[name] = branches
	}
	return t, nil
}

// ScannerTable converts the grammar's declared terminals (in
// declaration order, spec §4.2) into a scanner.TermSpec table.
func (t *Table) ScannerTable() []scanner.TermSpec {
	out := make([]scanner.TermSpec, 0, len(t.Grammar.TerminalOrder))
	for _, term := range t.Grammar.TerminalOrder {
		out = append(out, scanner.TermSpec{Name: term.Name, Regex: term.Regex, Skip: term.Skip})
	}
	return out
}

// Driver runs the generated recursive-descent parser over a token
// stream produced from the table's scanner table.
type Driver struct {
	table *Table
	toks  *scanner.Scanner
	// ParseTreeMode, when true, makes every non-terminal function
	// return a parse-tree node ([]any{"NonTerminalName", subresults...})
	// instead of invoking its rule's action (spec §4.3 step 3).
	ParseTreeMode bool
}

// NewDriver lexes src with the table's scanner table and returns a
// driver ready to parse it.
func NewDriver(t *Table, src string) (*Driver, error) {
	s, err := scanner.New(t.ScannerTable(), src)
	if err != nil {
		return nil, err
	}
	return &Driver{table: t, toks: s}, nil
}

// Parse runs the start symbol's parse function over the whole input
// and requires the scanner to be at EOF afterward.
func (d *Driver) Parse() (any, error) {
	start := d.table.Grammar.Start
	if start == nil {
		return nil, fmt.Errorf("genparser: grammar has no start symbol")
	}
	result, err := d.ParseNonTerminal(start)
	if err != nil {
		return nil, err
	}
	if !d.toks.AtEnd() {
		tok := d.toks.PeekToken()
		return nil, &scanner.ParseError{Pos: tok.Pos, Actual: tok.Type, Expected: "$"}
	}
	return result, nil
}

// ParseNonTerminal is the generated parse function for nt: it
// inspects the lookahead, picks the branch whose PREDICT set contains
// it, consumes the branch's right-hand side, and either returns a
// parse-tree node or the result of the branch's action.
func (d *Driver) ParseNonTerminal(nt *grammar.NonTerminal) (any, error) {
	lookahead := d.toks.Peek()

	branches := d.table.Branches[nt.Name]
	for _, b := range branches {
		if !predictHasName(b.Predict, lookahead) {
			continue
		}
		return d.parseBranch(nt, b)
	}
	// FOLLOW never contains the end-of-input token, so at EOF no PREDICT
	// set matches; a nullable branch is then the only one that can still
	// succeed, and it is taken.
	if d.toks.AtEnd() {
		for _, b := range branches {
			if b.Nullable {
				return d.parseBranch(nt, b)
			}
		}
	}

	tok := d.toks.PeekToken()
	return nil, &scanner.ParseError{Pos: tok.Pos, Actual: tok.Type, Expected: "one of " + nt.Name + "'s productions"}
}

func predictHasName(set grammar.TerminalSet, name string) bool {
	for t := range set {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (d *Driver) parseBranch(nt *grammar.NonTerminal, b *Branch) (any, error) {
	var results []any
	for _, sym := range b.Rule.RHS {
		switch s := sym.(type) {
		case grammar.Epsilon:
			continue
		case *grammar.Terminal:
			tok, err := d.toks.Read(s.Name)
			if err != nil {
				return nil, err
			}
			results = append(results, tok)
		case *grammar.NonTerminal:
			sub, err := d.ParseNonTerminal(s)
			if err != nil {
				return nil, err
			}
			results = append(results, sub)
		default:
			return nil, fmt.Errorf("genparser: unknown symbol %v in rule %s", sym, b.Rule)
		}
	}

	if d.ParseTreeMode {
		node := append([]any{nt.Name}, results...)
		return node, nil
	}

	if b.Action == nil {
		return nil, fmt.Errorf("genparser: rule %s has no action and parse-tree mode is off", b.Rule)
	}
	return b.Action(results), nil
}
