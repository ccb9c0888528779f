// Package grammar models context-free grammars (terminals,
// non-terminals, rules) and the LL(1) analysis (EPS/FIRST/FOLLOW/
// PREDICT) that the parser generator needs to check and compile them.
package grammar

import "fmt"

// Symbol is any member of a grammar word: a Terminal, a NonTerminal, or
// the distinguished Epsilon marker.
type Symbol interface {
	symbol()
	String() string
}

// Epsilon is the singleton empty-word marker.
type Epsilon struct{}

func (Epsilon) symbol()        {}
func (Epsilon) String() string { return "E" }

// Eps is the shared Epsilon instance; grammars never need more than one.
var Eps = Epsilon{}

// Terminal is a lexical token class.
type Terminal struct {
	Name  string
	Regex string // empty for the synthetic EOF terminal
	Skip  bool   // lex-and-discard (whitespace, comments)
	EOF   bool
}

func (*Terminal) symbol()        {}
func (t *Terminal) String() string { return fmt.Sprintf("T(%s)", t.Name) }

// NonTerminal is a grammar variable with an ordered list of rules.
type NonTerminal struct {
	Name  string
	Rules []*Rule
}

func (*NonTerminal) symbol()        {}
func (n *NonTerminal) String() string { return fmt.Sprintf("NT(%s)", n.Name) }

// Word is an ordered sequence of symbols (a rule's right-hand side).
type Word []Symbol

func (w Word) String() string {
	s := "["
	for i, sym := range w {
		if i > 0 {
			s += " "
		}
		s += sym.String()
	}
	return s + "]"
}

// Rule is a production LHS -> RHS with an optional semantic action.
// The Action field is generic (any) so that the parser generator layer
// can attach its own typed action representation without this package
// needing to know about it.
type Rule struct {
	LHS    *NonTerminal
	RHS    Word
	Action any
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s -> %s", r.LHS, r.RHS)
}

// Grammar is the full set of terminals, non-terminals, rules, the start
// symbol, and declared target-language imports for generated actions.
type Grammar struct {
	Terminals    map[string]*Terminal
	NonTerminals map[string]*NonTerminal
	Rules        []*Rule
	Start        *NonTerminal
	Imports      map[string]string

	// TerminalOrder preserves declaration order, which the scanner
	// needs to break longest-match ties deterministically (spec §4.2).
	TerminalOrder []*Terminal
}

// New creates an empty grammar.
func New() *Grammar {
	return &Grammar{
		Terminals:    map[string]*Terminal{},
		NonTerminals: map[string]*NonTerminal{},
		Imports:      map[string]string{},
	}
}

// T returns the terminal with the given name, creating it on first use.
// A regex must be supplied the first time a name is seen.
func (g *Grammar) T(name string, regex string, skip bool) *Terminal {
	if t, ok := g.Terminals[name]; ok {
		return t
	}
	if regex == "" {
		panic(fmt.Sprintf("grammar: cannot create terminal %q without a regular expression", name))
	}
	t := &Terminal{Name: name, Regex: regex, Skip: skip}
	g.Terminals[name] = t
	g.TerminalOrder = append(g.TerminalOrder, t)
	return t
}

// EOFTerminal returns the synthetic end-of-input terminal, creating it
// on first use.
func (g *Grammar) EOFTerminal() *Terminal {
	if t, ok := g.Terminals["$"]; ok {
		return t
	}
	t := &Terminal{Name: "$", EOF: true}
	g.Terminals["$"] = t
	return t
}

// NT returns the non-terminal with the given name, creating it on
// first use. If start is true it becomes the grammar's start symbol;
// declaring two start symbols is a programmer error.
func (g *Grammar) NT(name string, start bool) *NonTerminal {
	nt, ok := g.NonTerminals[name]
	if !ok {
		nt = &NonTerminal{Name: name}
		g.NonTerminals[name] = nt
	}
	if start {
		if g.Start != nil && g.Start != nt {
			panic(fmt.Sprintf("grammar: start symbol already set to %s, cannot also set %s", g.Start, nt))
		}
		g.Start = nt
	}
	return nt
}

// AddRule appends a production to the grammar and registers it under
// its left-hand non-terminal. The grammar must already have a start
// symbol.
func (g *Grammar) AddRule(lhs *NonTerminal, rhs Word, action any) *Rule {
	if g.Start == nil {
		panic("grammar: must define a start symbol before adding rules")
	}
	if g.NonTerminals[lhs.Name] != lhs {
		panic(fmt.Sprintf("grammar: %s has not been registered as a non-terminal of this grammar", lhs))
	}
	r := &Rule{LHS: lhs, RHS: rhs, Action: action}
	lhs.Rules = append(lhs.Rules, r)
	g.Rules = append(g.Rules, r)
	return r
}

// AddImport registers a target-side import under the given alias.
func (g *Grammar) AddImport(alias, module string) {
	g.Imports[alias] = module
}

// IsWord reports whether every element of syms is a valid grammar symbol.
func IsWord(syms []Symbol) bool {
	for _, s := range syms {
		if s == nil {
			return false
		}
	}
	return true
}
