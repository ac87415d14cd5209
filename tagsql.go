// Package tagsql compiles tag-encoded query documents into SQL.
//
// The pipeline is Scanner -> Parser -> Generator:
//   - the lexer turns <query>…</query> markup into tokens
//   - the parser builds a typed ast.Query by recursive descent
//   - Generate renders the tree as one line of SQL, validating identifiers
//
// Usage:
//
//	sql, err := tagsql.Compile(doc)
//	q, err := tagsql.Parse(doc)
//	sql, err := tagsql.Generate(q)
//
// Each stage fails as a whole: a *LexError, *SyntaxError or
// *ValidationError is returned and no partial result escapes.
package tagsql

import (
	"errors"
	"log/slog"

	"github.com/oarkflow/tagsql/ast"
	"github.com/oarkflow/tagsql/lexer"
	"github.com/oarkflow/tagsql/parser"
)

// Re-export core types so callers only import this package.
type (
	Token       = lexer.Token
	TokenType   = lexer.TokenType
	Query       = ast.Query
	LexError    = lexer.LexError
	SyntaxError = parser.SyntaxError
)

// Options tunes a pipeline run.
type Options struct {
	// Trace, when set, receives parser production entry and exit records at
	// debug level.
	Trace *slog.Logger
}

func (o Options) parserOptions() []parser.Option {
	if o.Trace == nil {
		return nil
	}
	return []parser.Option{parser.WithTrace(o.Trace)}
}

// Tokenize scans a tag-encoded document.
func Tokenize(src string) ([]Token, error) {
	return lexer.Tokenize([]byte(src))
}

// Parse scans and parses a tag-encoded document.
func Parse(src string) (*Query, error) {
	return ParseWithOptions(src, Options{})
}

// ParseWithOptions is Parse with tracing and other options.
func ParseWithOptions(src string, opts Options) (*Query, error) {
	return parser.ParseString(src, opts.parserOptions()...)
}

// ParseTokens parses an already tokenized document.
func ParseTokens(toks []Token, opts Options) (*Query, error) {
	return parser.ParseTokens(toks, opts.parserOptions()...)
}

// Compile runs the full pipeline on a tag-encoded document.
func Compile(src string) (string, error) {
	return CompileWithOptions(src, Options{})
}

// CompileWithOptions is Compile with tracing and other options.
func CompileWithOptions(src string, opts Options) (string, error) {
	q, err := ParseWithOptions(src, opts)
	if err != nil {
		return "", err
	}
	return Generate(q)
}

// CompileTokens parses and generates from an already tokenized document.
func CompileTokens(toks []Token, opts Options) (string, error) {
	q, err := ParseTokens(toks, opts)
	if err != nil {
		return "", err
	}
	return Generate(q)
}

// Stage names the pipeline stage an error came from.
type Stage string

const (
	StageLex        Stage = "lex"
	StageSyntax     Stage = "syntax"
	StageValidation Stage = "validation"
)

// ErrorStage classifies err by the stage that produced it, or returns ""
// for errors from outside the pipeline (I/O, cancellation).
func ErrorStage(err error) Stage {
	var (
		lexErr *lexer.LexError
		synErr *parser.SyntaxError
		valErr *ValidationError
	)
	switch {
	case errors.As(err, &lexErr):
		return StageLex
	case errors.As(err, &synErr):
		return StageSyntax
	case errors.As(err, &valErr):
		return StageValidation
	default:
		return ""
	}
}
