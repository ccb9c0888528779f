package scanner

import "testing"

func sampleTable() []TermSpec {
	return []TermSpec{
		{Name: "ws", Regex: `[ \t\n]+`, Skip: true},
		{Name: "if", Regex: `if`},
		{Name: "ident", Regex: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "int", Regex: `[0-9]+`},
		{Name: "plus", Regex: `\+`},
		{Name: "assign", Regex: `:=`},
		{Name: "colon", Regex: `:`},
	}
}

// TestScannerRoundTrip is spec §8 property 1: every fixed-lexeme
// terminal, scanned on its own, yields exactly one token of that type.
func TestScannerRoundTrip(t *testing.T) {
	cases := []struct {
		src  string
		typ  string
		want string
	}{
		{"if", "if", "if"},
		{"42", "int", "42"},
		{"+", "plus", "+"},
		{":=", "assign", ":="},
		{"foobar", "ident", "foobar"},
	}

	for _, c := range cases {
		s, err := New(sampleTable(), c.src)
		if err != nil {
			t.Fatalf("scanning %q: %v", c.src, err)
		}
		tok, err := s.Read("")
		if err != nil {
			t.Fatalf("reading %q: %v", c.src, err)
		}
		if tok.Type != c.typ || tok.Lexeme != c.want {
			t.Errorf("scanning %q: got %s(%q), want %s(%q)", c.src, tok.Type, tok.Lexeme, c.typ, c.want)
		}
		if !s.AtEnd() {
			t.Errorf("scanning %q: expected exactly one token before EOF", c.src)
		}
	}
}

// Longest match wins: "if" is a keyword but "ifx" should lex as ident.
func TestScannerLongestMatchWins(t *testing.T) {
	s, err := New(sampleTable(), "ifx")
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	tok, _ := s.Read("")
	if tok.Type != "ident" || tok.Lexeme != "ifx" {
		t.Errorf("expected ident(ifx), got %s(%q)", tok.Type, tok.Lexeme)
	}
}

// := must win over ":" at the same position (longest match).
func TestScannerAssignVsColon(t *testing.T) {
	s, err := New(sampleTable(), ": :=")
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	tok, _ := s.Read("")
	if tok.Type != "colon" {
		t.Errorf("expected colon, got %s", tok.Type)
	}
	tok, _ = s.Read("")
	if tok.Type != "assign" {
		t.Errorf("expected assign, got %s", tok.Type)
	}
}

func TestScannerSkipsWhitespace(t *testing.T) {
	s, err := New(sampleTable(), "  42   foo  ")
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	tok, _ := s.Read("")
	if tok.Type != "int" {
		t.Errorf("expected int, got %s", tok.Type)
	}
	tok, _ = s.Read("")
	if tok.Type != "ident" {
		t.Errorf("expected ident, got %s", tok.Type)
	}
	if !s.AtEnd() {
		t.Error("expected EOF after two tokens")
	}
}

func TestScannerLexicalError(t *testing.T) {
	_, err := New(sampleTable(), "42 @@@ garbage")
	if err == nil {
		t.Fatal("expected a lexical error for '@'")
	}
	var lexErr *LexicalError
	if le, ok := err.(*LexicalError); ok {
		lexErr = le
	} else {
		t.Fatalf("expected *LexicalError, got %T", err)
	}
	if lexErr.Prefix[0] != '@' {
		t.Errorf("expected error prefix to start with @, got %q", lexErr.Prefix)
	}
}

func TestReadExpectedMismatch(t *testing.T) {
	s, err := New(sampleTable(), "42")
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	_, err = s.Read("ident")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}
