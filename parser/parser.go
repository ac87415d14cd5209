// Package parser builds a query AST from a token stream.
// It is a hand-rolled recursive descent parser with a single token of
// lookahead and no backtracking: every production consumes its opening tag,
// its content, and its matching closing tag before returning.
package parser

import (
	"fmt"
	"log/slog"

	"github.com/oarkflow/tagsql/ast"
	"github.com/oarkflow/tagsql/lexer"
)

// SyntaxError records a grammar violation: what the parser expected at the
// failing decision point and the token it found instead.
type SyntaxError struct {
	Expected string
	Got      lexer.Token
}

func (e *SyntaxError) Error() string {
	if e.Got.Type == lexer.EOF {
		return fmt.Sprintf("syntax error: expected %s, got end of input", e.Expected)
	}
	return fmt.Sprintf("syntax error at line %d col %d: expected %s, got %s (%q)",
		e.Got.Line, e.Got.Col, e.Expected, e.Got.Type, e.Got.Value)
}

// Parser converts a token slice into a Query. A Parser handles one document.
type Parser struct {
	toks []lexer.Token
	pos  int
	tok  lexer.Token // current, not yet consumed

	trace *slog.Logger
	depth int
}

// Option configures a Parser.
type Option func(*Parser)

// WithTrace logs production entry and exit at debug level to l.
// Tracing never changes what the parser returns.
func WithTrace(l *slog.Logger) Option {
	return func(p *Parser) {
		p.trace = l
	}
}

// New creates a Parser over toks. toks should not contain an EOF token; the
// end of the slice is the end of input.
func New(toks []lexer.Token, opts ...Option) *Parser {
	p := &Parser{toks: toks}
	for _, opt := range opts {
		opt(p)
	}
	p.tok = p.at(0)
	return p
}

// ParseTokens parses a complete token sequence.
func ParseTokens(toks []lexer.Token, opts ...Option) (*ast.Query, error) {
	return New(toks, opts...).Parse()
}

// ParseString scans and parses tag-encoded source.
func ParseString(src string, opts ...Option) (*ast.Query, error) {
	toks, err := lexer.Tokenize([]byte(src))
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks, opts...)
}

// Parse parses one query and requires the input to end right after it.
// On failure no part of the tree is returned.
func (p *Parser) Parse() (*ast.Query, error) {
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if !p.is(lexer.EOF) {
		return nil, p.errorf("end of input after </query>")
	}
	return q, nil
}

// ---- internal helpers ----

func (p *Parser) at(i int) lexer.Token {
	if i < len(p.toks) {
		return p.toks[i]
	}
	t := lexer.Token{Type: lexer.EOF}
	if n := len(p.toks); n > 0 {
		t.Line = p.toks[n-1].Line
		t.Col = p.toks[n-1].Col
	}
	return t
}

func (p *Parser) advance() lexer.Token {
	prev := p.tok
	if p.pos < len(p.toks) {
		p.pos++
	}
	p.tok = p.at(p.pos)
	return prev
}

func (p *Parser) is(typ lexer.TokenType) bool {
	return p.tok.Type == typ
}

// eat consumes a token of type typ. what names the construct for the error.
func (p *Parser) eat(typ lexer.TokenType, what string) (lexer.Token, error) {
	if p.tok.Type != typ {
		return p.tok, p.errorf("%s (%s)", what, typ)
	}
	return p.advance(), nil
}

func (p *Parser) tryEat(typ lexer.TokenType) bool {
	if p.tok.Type == typ {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Expected: fmt.Sprintf(format, args...),
		Got:      p.tok,
	}
}

// enter traces entry into a production and returns the matching exit.
func (p *Parser) enter(production string) func() {
	if p.trace == nil {
		return func() {}
	}
	p.trace.Debug("enter", "production", production, "depth", p.depth, "token", p.tok.Type.String())
	p.depth++
	return func() {
		p.depth--
		p.trace.Debug("exit", "production", production, "depth", p.depth, "token", p.tok.Type.String())
	}
}

// ---- clauses ----

func (p *Parser) parseQuery() (*ast.Query, error) {
	defer p.enter("Query")()
	if _, err := p.eat(lexer.QUERY_OPEN, "query"); err != nil {
		return nil, err
	}
	q := &ast.Query{}
	var err error
	if q.Select, err = p.parseSelect(); err != nil {
		return nil, err
	}
	if q.From, err = p.parseFrom(); err != nil {
		return nil, err
	}
	if p.is(lexer.WHERE_OPEN) {
		if q.Where, err = p.parseWhere(); err != nil {
			return nil, err
		}
	}
	if p.is(lexer.GROUP_BY_OPEN) {
		if q.GroupBy, err = p.parseGroupBy(); err != nil {
			return nil, err
		}
	}
	if p.is(lexer.HAVING_OPEN) {
		if q.Having, err = p.parseHaving(); err != nil {
			return nil, err
		}
	}
	if p.is(lexer.ORDER_BY_OPEN) {
		if q.OrderBy, err = p.parseOrderBy(); err != nil {
			return nil, err
		}
	}
	if _, err := p.eat(lexer.QUERY_CLOSE, "end of query"); err != nil {
		return nil, err
	}
	return q, nil
}

func (p *Parser) parseSelect() (*ast.Select, error) {
	defer p.enter("Select")()
	if _, err := p.eat(lexer.SELECT_OPEN, "SELECT clause"); err != nil {
		return nil, err
	}
	s := &ast.Select{}
	for p.is(lexer.COLUMN_OPEN) {
		c, err := p.parseColumn()
		if err != nil {
			return nil, err
		}
		s.Columns = append(s.Columns, c)
	}
	if _, err := p.eat(lexer.SELECT_CLOSE, "column or end of SELECT clause"); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) parseColumn() (*ast.Column, error) {
	defer p.enter("Column")()
	if _, err := p.eat(lexer.COLUMN_OPEN, "column"); err != nil {
		return nil, err
	}
	c := &ast.Column{}
	switch p.tok.Type {
	case lexer.STRING_LITERAL:
		c.Value = &ast.Ident{Name: p.advance().Value}
	case lexer.COUNT_FUNC_OPEN, lexer.MAX_FUNC_OPEN:
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		c.Value = fn
	case lexer.ALIAS_OPEN:
		a, err := p.parseAlias()
		if err != nil {
			return nil, err
		}
		c.Value = a
	default:
		return nil, p.errorf("column content (STRING_LITERAL, function or ALIAS_OPEN)")
	}
	if _, err := p.eat(lexer.COLUMN_CLOSE, "end of column"); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *Parser) parseFunction() (*ast.FuncCall, error) {
	defer p.enter("Function")()
	fn := &ast.FuncCall{}
	var closer lexer.TokenType
	switch p.tok.Type {
	case lexer.COUNT_FUNC_OPEN:
		fn.Name, closer = ast.FuncCount, lexer.COUNT_FUNC_CLOSE
	case lexer.MAX_FUNC_OPEN:
		fn.Name, closer = ast.FuncMax, lexer.MAX_FUNC_CLOSE
	default:
		return nil, p.errorf("function (COUNT_FUNC_OPEN or MAX_FUNC_OPEN)")
	}
	p.advance()

	if p.is(lexer.STRING_LITERAL) {
		fn.Args = append(fn.Args, &ast.Ident{Name: p.advance().Value})
	} else {
		for p.tryEat(lexer.COLUMN_OPEN) {
			t, err := p.eat(lexer.STRING_LITERAL, "function argument")
			if err != nil {
				return nil, err
			}
			fn.Args = append(fn.Args, &ast.Ident{Name: t.Value})
			if _, err := p.eat(lexer.COLUMN_CLOSE, "end of function argument"); err != nil {
				return nil, err
			}
		}
	}
	if len(fn.Args) == 0 {
		return nil, p.errorf("at least one %s argument (STRING_LITERAL or COLUMN_OPEN)", fn.Name)
	}
	if _, err := p.eat(closer, "end of "+string(fn.Name)+" function"); err != nil {
		return nil, err
	}
	return fn, nil
}

func (p *Parser) parseAlias() (*ast.Alias, error) {
	defer p.enter("Alias")()
	if _, err := p.eat(lexer.ALIAS_OPEN, "alias"); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LHS_OPEN, "alias expression"); err != nil {
		return nil, err
	}
	a := &ast.Alias{}
	switch p.tok.Type {
	case lexer.STRING_LITERAL:
		a.Expr = &ast.Ident{Name: p.advance().Value}
	case lexer.COUNT_FUNC_OPEN, lexer.MAX_FUNC_OPEN:
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		a.Expr = fn
	default:
		return nil, p.errorf("alias expression (STRING_LITERAL or function)")
	}
	if _, err := p.eat(lexer.LHS_CLOSE, "end of alias expression"); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.RHS_OPEN, "alias name"); err != nil {
		return nil, err
	}
	name, err := p.eat(lexer.STRING_LITERAL, "alias name")
	if err != nil {
		return nil, err
	}
	a.Name = name.Value
	if _, err := p.eat(lexer.RHS_CLOSE, "end of alias name"); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.ALIAS_CLOSE, "end of alias"); err != nil {
		return nil, err
	}
	return a, nil
}

func (p *Parser) parseFrom() (*ast.From, error) {
	defer p.enter("From")()
	if _, err := p.eat(lexer.FROM_OPEN, "FROM clause"); err != nil {
		return nil, err
	}
	f := &ast.From{}
	for p.tryEat(lexer.TABLE_OPEN) {
		t, err := p.eat(lexer.STRING_LITERAL, "table name")
		if err != nil {
			return nil, err
		}
		f.Tables = append(f.Tables, &ast.Ident{Name: t.Value})
		if _, err := p.eat(lexer.TABLE_CLOSE, "end of table"); err != nil {
			return nil, err
		}
	}
	if len(f.Tables) == 0 {
		return nil, p.errorf("at least one table (TABLE_OPEN)")
	}
	if _, err := p.eat(lexer.FROM_CLOSE, "table or end of FROM clause"); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *Parser) parseWhere() (*ast.Where, error) {
	defer p.enter("Where")()
	if _, err := p.eat(lexer.WHERE_OPEN, "WHERE clause"); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.WHERE_CLOSE, "end of WHERE clause"); err != nil {
		return nil, err
	}
	return &ast.Where{Cond: cond}, nil
}

func (p *Parser) parseGroupBy() (*ast.GroupBy, error) {
	defer p.enter("GroupBy")()
	if _, err := p.eat(lexer.GROUP_BY_OPEN, "GROUP BY clause"); err != nil {
		return nil, err
	}
	g := &ast.GroupBy{}
	for p.tryEat(lexer.COLUMN_OPEN) {
		t, err := p.eat(lexer.STRING_LITERAL, "grouping column name")
		if err != nil {
			return nil, err
		}
		g.Columns = append(g.Columns, &ast.Ident{Name: t.Value})
		if _, err := p.eat(lexer.COLUMN_CLOSE, "end of grouping column"); err != nil {
			return nil, err
		}
	}
	if _, err := p.eat(lexer.GROUP_BY_CLOSE, "column or end of GROUP BY clause"); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *Parser) parseHaving() (*ast.Having, error) {
	defer p.enter("Having")()
	if _, err := p.eat(lexer.HAVING_OPEN, "HAVING clause"); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.HAVING_CLOSE, "end of HAVING clause"); err != nil {
		return nil, err
	}
	return &ast.Having{Cond: cond}, nil
}

func (p *Parser) parseOrderBy() (*ast.OrderBy, error) {
	defer p.enter("OrderBy")()
	if _, err := p.eat(lexer.ORDER_BY_OPEN, "ORDER BY clause"); err != nil {
		return nil, err
	}
	o := &ast.OrderBy{}
	var closer lexer.TokenType
	switch p.tok.Type {
	case lexer.ASC_OPEN:
		o.Direction, closer = ast.Asc, lexer.ASC_CLOSE
	case lexer.DESC_OPEN:
		o.Direction, closer = ast.Desc, lexer.DESC_CLOSE
	default:
		return nil, p.errorf("sort direction (ASC_OPEN or DESC_OPEN)")
	}
	p.advance()
	if _, err := p.eat(lexer.REF_COL_OPEN, "sort column"); err != nil {
		return nil, err
	}
	t, err := p.eat(lexer.STRING_LITERAL, "sort column name")
	if err != nil {
		return nil, err
	}
	o.Column = &ast.Ident{Name: t.Value}
	if _, err := p.eat(lexer.REF_COL_CLOSE, "end of sort column"); err != nil {
		return nil, err
	}
	if _, err := p.eat(closer, "end of sort direction"); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.ORDER_BY_CLOSE, "end of ORDER BY clause"); err != nil {
		return nil, err
	}
	return o, nil
}
