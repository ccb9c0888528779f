package grammar

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ActionTemplate is the textual action representation from the
// grammar file format (spec §6): a brace-delimited expression
// referring to sub-results by positional placeholders $0...$N. This
// package only loads and stores the raw text; the typed action DSL
// used to actually build AST nodes at parse time lives in package
// genparser (see Design Note, spec §9).
type ActionTemplate struct {
	Raw string
}

// LoadError reports a malformed grammar file.
type LoadError struct {
	Line    int
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("grammar file, line %d: %s", e.Line, e.Message)
}

// Load parses the textual grammar file format described in spec §6:
//
//	%TOKEN Name "regex"
//	%IGNORE Name
//	%START Name
//	%IMPORT alias "module"
//	lhs -> word1 {action} | word2 {action} | EPSILON ;
//
// A rule alternative with no action and exactly one right-hand-side
// symbol defaults to the action "$1".
func Load(r io.Reader) (*Grammar, error) {
	g := New()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	var buf strings.Builder
	ruleStartLine := 0

	flushRule := func() error {
		if strings.TrimSpace(buf.String()) == "" {
			return nil
		}
		if err := parseRuleStatement(g, buf.String(), ruleStartLine); err != nil {
			return err
		}
		buf.Reset()
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.HasPrefix(trimmed, "%") {
			if err := flushRule(); err != nil {
				return nil, err
			}
			if err := parseOption(g, trimmed, lineNo); err != nil {
				return nil, err
			}
			continue
		}

		if buf.Len() == 0 {
			ruleStartLine = lineNo
		}
		buf.WriteString(" ")
		buf.WriteString(trimmed)

		if strings.HasSuffix(trimmed, ";") {
			if err := flushRule(); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flushRule(); err != nil {
		return nil, err
	}

	return g, nil
}

func quoted(s string) (string, string, error) {
	i := strings.IndexByte(s, '"')
	if i < 0 {
		return "", "", fmt.Errorf("expected a quoted string")
	}
	rest := s[i+1:]
	j := strings.IndexByte(rest, '"')
	if j < 0 {
		return "", "", fmt.Errorf("unterminated quoted string")
	}
	return rest[:j], rest[j+1:], nil
}

func parseOption(g *Grammar, line string, lineNo int) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return &LoadError{lineNo, "empty option"}
	}
	switch fields[0] {
	case "%TOKEN":
		if len(fields) < 3 {
			return &LoadError{lineNo, "%TOKEN requires a name and a quoted regex"}
		}
		name := fields[1]
		rest := strings.SplitN(line, fields[1], 2)[1]
		re, _, err := quoted(rest)
		if err != nil {
			return &LoadError{lineNo, err.Error()}
		}
		g.T(name, re, false)
	case "%IGNORE":
		if len(fields) != 2 {
			return &LoadError{lineNo, "%IGNORE requires exactly one name"}
		}
		t, ok := g.Terminals[fields[1]]
		if !ok {
			return &LoadError{lineNo, "unknown terminal: " + fields[1]}
		}
		t.Skip = true
	case "%START":
		if len(fields) != 2 {
			return &LoadError{lineNo, "%START requires exactly one name"}
		}
		g.NT(fields[1], true)
	case "%IMPORT":
		if len(fields) < 3 {
			return &LoadError{lineNo, "%IMPORT requires an alias and a quoted module"}
		}
		alias := fields[1]
		rest := strings.SplitN(line, fields[1], 2)[1]
		mod, _, err := quoted(rest)
		if err != nil {
			return &LoadError{lineNo, err.Error()}
		}
		g.AddImport(alias, mod)
	default:
		return &LoadError{lineNo, "unknown option: " + fields[0]}
	}
	return nil
}

// parseRuleStatement parses "lhs -> word1 {action} | word2 {action} | EPSILON ;"
func parseRuleStatement(g *Grammar, stmt string, lineNo int) error {
	stmt = strings.TrimSpace(stmt)
	stmt = strings.TrimSuffix(stmt, ";")

	arrow := strings.Index(stmt, "->")
	if arrow < 0 {
		return &LoadError{lineNo, "expected '->' in rule"}
	}
	lhsName := strings.TrimSpace(stmt[:arrow])
	if lhsName == "" {
		return &LoadError{lineNo, "missing left-hand-side non-terminal"}
	}
	lhs := g.NT(lhsName, false)

	for _, alt := range splitAlternatives(stmt[arrow+2:]) {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			continue
		}
		body, action := splitAction(alt)
		words := strings.Fields(body)

		if len(words) == 1 && words[0] == "EPSILON" {
			g.AddRule(lhs, Word{Eps}, resolveAction(action, words, g))
			continue
		}

		rhs := make(Word, 0, len(words))
		for _, w := range words {
			rhs = append(rhs, resolveSymbol(g, w))
		}
		g.AddRule(lhs, rhs, resolveAction(action, words, g))
	}
	return nil
}

func resolveSymbol(g *Grammar, name string) Symbol {
	if t, ok := g.Terminals[name]; ok {
		return t
	}
	return g.NT(name, false)
}

func resolveAction(action string, words []string, g *Grammar) any {
	if action != "" {
		return ActionTemplate{Raw: action}
	}
	if len(words) == 1 {
		return ActionTemplate{Raw: "$1"}
	}
	return nil
}

// splitAction splits "word1 word2 {action text}" into its body and
// brace-delimited action (without braces), if present.
func splitAction(alt string) (string, string) {
	open := strings.IndexByte(alt, '{')
	if open < 0 {
		return alt, ""
	}
	closeIdx := strings.LastIndexByte(alt, '}')
	if closeIdx < open {
		return alt, ""
	}
	return alt[:open], strings.TrimSpace(alt[open+1 : closeIdx])
}

// splitAlternatives splits on top-level '|' (braces protect nested '|').
func splitAlternatives(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		case '|':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

// placeholderIndex parses a placeholder like "$3" into its index.
func placeholderIndex(tok string) (int, bool) {
	if !strings.HasPrefix(tok, "$") {
		return 0, false
	}
	n, err := strconv.Atoi(tok[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
