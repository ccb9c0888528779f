// Package scanner implements the table-driven eager lexer (spec §4.2):
// constructed from an ordered table of terminals, it tokenizes the
// entire input up front using longest-match-wins with first-in-table
// tie-breaking.
package scanner

import (
	"fmt"
	"regexp"
)

// Position identifies a location in the source file.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// TermSpec is one entry of the scanner table.
type TermSpec struct {
	Name  string
	Regex string
	Skip  bool
}

// Token is a single lexed token.
type Token struct {
	Type   string
	Lexeme string
	Pos    Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Lexeme, t.Pos)
}

// LexicalError reports that no terminal in the table matched at a
// given position.
type LexicalError struct {
	Pos    Position
	Prefix string // the next (up to) 20 characters that failed to match
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at %s: no terminal matches %q", e.Pos, e.Prefix)
}

type compiledSpec struct {
	TermSpec
	re *regexp.Regexp
}

// Scanner eagerly lexes an entire input into a token list on
// construction. Use Peek/Read to drive a parser over it.
type Scanner struct {
	tokens []Token
	pos    int
}

// New compiles table and lexes src in one pass. Terminals are tried in
// table order at each position; the match of greatest length wins,
// ties broken by earlier table position. Tokens whose spec has Skip
// set are lexed (to advance position and track line/column) but
// discarded from the resulting token stream.
func New(table []TermSpec, src string) (*Scanner, error) {
	compiled := make([]compiledSpec, len(table))
	for i, spec := range table {
		re, err := regexp.Compile(`\A(?:` + spec.Regex + `)`)
		if err != nil {
			return nil, fmt.Errorf("scanner: invalid regex for terminal %s: %w", spec.Name, err)
		}
		compiled[i] = compiledSpec{TermSpec: spec, re: re}
	}

	s := &Scanner{}
	line, col := 1, 1
	i := 0
	for i < len(src) {
		rest := src[i:]

		bestLen := -1
		bestIdx := -1
		for idx, cs := range compiled {
			loc := cs.re.FindStringIndex(rest)
			if loc == nil || loc[1] == 0 {
				continue
			}
			if loc[1] > bestLen {
				bestLen = loc[1]
				bestIdx = idx
			}
		}

		if bestIdx < 0 {
			end := i + 20
			if end > len(src) {
				end = len(src)
			}
			return nil, &LexicalError{Pos: Position{line, col}, Prefix: src[i:end]}
		}

		lexeme := rest[:bestLen]
		spec := compiled[bestIdx]
		if !spec.Skip {
			s.tokens = append(s.tokens, Token{Type: spec.Name, Lexeme: lexeme, Pos: Position{line, col}})
		}

		for _, r := range lexeme {
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		i += bestLen
	}

	s.tokens = append(s.tokens, Token{Type: "$", Lexeme: "", Pos: Position{line, col}})

	return s, nil
}

// Peek returns the type name of the current token without consuming it.
func (s *Scanner) Peek() string {
	return s.tokens[s.pos].Type
}

// PeekToken returns the current token without consuming it.
func (s *Scanner) PeekToken() Token {
	return s.tokens[s.pos]
}

// ParseError reports an unexpected token during Read.
type ParseError struct {
	Pos      Position
	Actual   string
	Expected string // empty when no specific terminal was expected
}

func (e *ParseError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("parse error at %s: unexpected token %s", e.Pos, e.Actual)
	}
	return fmt.Sprintf("parse error at %s: expected %s, got %s", e.Pos, e.Expected, e.Actual)
}

// Read consumes and returns the current token. If expected is
// non-empty, it must match the token's type or Read returns a
// *ParseError instead of advancing.
func (s *Scanner) Read(expected string) (Token, error) {
	tok := s.tokens[s.pos]
	if expected != "" && tok.Type != expected {
		return Token{}, &ParseError{Pos: tok.Pos, Actual: tok.Type, Expected: expected}
	}
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
	return tok, nil
}

// AtEnd reports whether the scanner has reached the synthetic EOF token.
func (s *Scanner) AtEnd() bool {
	return s.Peek() == "$"
}
