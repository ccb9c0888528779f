package lang

import (
	"fmt"
	"strings"
	"sync"

	"github.com/l0lang/l0c/ast"
	"github.com/l0lang/l0c/genparser"
	"github.com/l0lang/l0c/scanner"
)

var (
	tableOnce sync.Once
	table     *genparser.Table
	tableErr  error
)

func getTable() (*genparser.Table, error) {
	tableOnce.Do(func() {
		table, tableErr = genparser.Generate(buildGrammar())
	})
	return table, tableErr
}

// ParseError is a single scan or parse failure, positioned in the
// source file that produced it.
type ParseError struct {
	Filename string
	Pos      scanner.Position
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%s: %s", e.Filename, e.Pos, e.Message)
}

// ErrorList batches multiple ParseErrors; Parse itself never returns
// more than one (the driver stops at the first failure), but callers
// that accumulate errors across several files can use it to report
// them together.
type ErrorList []*ParseError

func (es ErrorList) Error() string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

func wrapParseError(filename string, err error) error {
	switch e := err.(type) {
	case *scanner.LexicalError:
		return &ParseError{Filename: filename, Pos: e.Pos, Message: e.Error()}
	case *scanner.ParseError:
		return &ParseError{Filename: filename, Pos: e.Pos, Message: e.Error()}
	default:
		return &ParseError{Filename: filename, Message: err.Error()}
	}
}

// Parse scans and parses an L0 source file, producing its AST (spec
// §4.1-§4.3). filename is used only for error reporting.
func Parse(source, filename string) (*ast.TranslationUnit, error) {
	t, err := getTable()
	if err != nil {
		return nil, fmt.Errorf("lang: grammar is not LL(1): %w", err)
	}

	d, err := genparser.NewDriver(t, source)
	if err != nil {
		return nil, wrapParseError(filename, err)
	}

	result, err := d.Parse()
	if err != nil {
		return nil, wrapParseError(filename, err)
	}

	tu, ok := result.(*ast.TranslationUnit)
	if !ok {
		return nil, fmt.Errorf("lang: parser produced %T, want *ast.TranslationUnit", result)
	}
	return tu, nil
}
