package tagsql

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/oarkflow/tagsql/ast"
)

// ValidationError reports a tree that cannot be emitted as SQL, typically an
// identifier containing whitespace. Kind names the node that held it.
type ValidationError struct {
	Kind    string
	Text    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s %q: %s", e.Kind, e.Text, e.Message)
}

// Generate renders q as a single line of SQL. Clauses always appear in the
// order SELECT, FROM, WHERE, GROUP BY, HAVING, ORDER BY. The first invalid
// node aborts generation and no SQL is returned.
func Generate(q *ast.Query) (string, error) {
	g := &generator{}
	out := g.renderQuery(q)
	if g.err != nil {
		return "", g.err
	}
	return out, nil
}

// generator renders in one depth-first pass and keeps the first failure.
type generator struct {
	err error
}

func (g *generator) fail(kind, text, msg string) {
	if g.err == nil {
		g.err = &ValidationError{Kind: kind, Text: text, Message: msg}
	}
}

func (g *generator) renderQuery(q *ast.Query) string {
	if q == nil || q.Select == nil || q.From == nil {
		g.fail("Query", "", "query requires a SELECT and a FROM clause")
		return ""
	}
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(q.Select.Columns) == 0 {
		g.fail("Select", "", "select list is empty")
	}
	for i, c := range q.Select.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(g.renderColumn(c))
	}

	b.WriteString(" FROM ")
	if len(q.From.Tables) == 0 {
		g.fail("From", "", "table list is empty")
	}
	for i, t := range q.From.Tables {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(g.ident("Table", t))
	}

	if q.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(g.renderCond(q.Where.Cond))
	}
	if q.GroupBy != nil {
		if len(q.GroupBy.Columns) == 0 {
			g.fail("GroupBy", "", "grouping list is empty")
		}
		b.WriteString(" GROUP BY ")
		for i, c := range q.GroupBy.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(g.ident("GroupBy", c))
		}
	}
	if q.Having != nil {
		b.WriteString(" HAVING ")
		b.WriteString(g.renderCond(q.Having.Cond))
	}
	if q.OrderBy != nil {
		b.WriteString(" ORDER BY ")
		b.WriteString(g.ident("OrderBy", q.OrderBy.Column))
		b.WriteByte(' ')
		b.WriteString(g.direction(q.OrderBy.Direction))
	}
	return b.String()
}

func (g *generator) renderColumn(c *ast.Column) string {
	if c == nil {
		g.fail("Column", "", "missing column")
		return ""
	}
	switch v := c.Value.(type) {
	case *ast.Ident:
		return g.ident("Column", v)
	case *ast.FuncCall:
		return g.renderFunc(v)
	case *ast.Alias:
		return g.renderAlias(v)
	default:
		g.fail("Column", "", fmt.Sprintf("unsupported column value %T", v))
		return ""
	}
}

func (g *generator) renderAlias(a *ast.Alias) string {
	var expr string
	switch e := a.Expr.(type) {
	case *ast.Ident:
		expr = g.ident("Alias", e)
	case *ast.FuncCall:
		expr = g.renderFunc(e)
	default:
		g.fail("Alias", a.Name, fmt.Sprintf("unsupported alias expression %T", e))
		return ""
	}
	name := stripQuotes(a.Name)
	g.check("Alias", name)
	return expr + " AS " + name
}

func (g *generator) renderFunc(f *ast.FuncCall) string {
	if len(f.Args) == 0 {
		g.fail("Function", string(f.Name), "function requires at least one argument")
	}
	var b strings.Builder
	b.WriteString(strings.ToUpper(string(f.Name)))
	b.WriteByte('(')
	for i, a := range f.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(g.ident("Function", a))
	}
	b.WriteByte(')')
	return b.String()
}

func (g *generator) renderCond(c ast.Condition) string {
	switch e := c.(type) {
	case *ast.Comparison:
		op, ok := compareOps[e.Op]
		if !ok {
			g.fail("Comparison", string(e.Op), "unknown comparison operator")
		}
		return g.renderOperand(e.Left) + " " + op + " " + g.renderConstant(e.Right)
	case *ast.Logical:
		if e.Op != ast.OpAnd && e.Op != ast.OpOr {
			g.fail("Logical", string(e.Op), "unknown logical operator")
		}
		// Every logical pair is parenthesized, including one already inside
		// a Bracket, which therefore renders with double parentheses.
		return "(" + g.renderCond(e.Left) + " " + strings.ToUpper(string(e.Op)) + " " + g.renderCond(e.Right) + ")"
	case *ast.Bracket:
		return "(" + g.renderCond(e.Inner) + ")"
	default:
		g.fail("Condition", "", fmt.Sprintf("unsupported condition %T", e))
		return ""
	}
}

func (g *generator) renderOperand(o ast.Operand) string {
	switch e := o.(type) {
	case *ast.Ident:
		return g.ident("Comparison", e)
	case *ast.ColumnRef:
		return g.ident("ColumnRef", e.Table) + "." + g.ident("ColumnRef", e.Column)
	case *ast.FuncCall:
		return g.renderFunc(e)
	default:
		g.fail("Comparison", "", fmt.Sprintf("unsupported operand %T", e))
		return ""
	}
}

func (g *generator) renderConstant(c ast.Constant) string {
	switch e := c.(type) {
	case *ast.StringConst:
		return "'" + stripQuotes(e.Value) + "'"
	case *ast.IntConst:
		return strconv.FormatInt(e.Value, 10)
	default:
		g.fail("Comparison", "", fmt.Sprintf("unsupported constant %T", e))
		return ""
	}
}

func (g *generator) direction(d ast.Direction) string {
	switch d {
	case ast.Asc, ast.Desc:
		return strings.ToUpper(string(d))
	default:
		g.fail("OrderBy", string(d), "unknown sort direction")
		return ""
	}
}

// ident emits an identifier verbatim after checking its shape.
func (g *generator) ident(kind string, id *ast.Ident) string {
	if id == nil {
		g.fail(kind, "", "missing identifier")
		return ""
	}
	g.check(kind, id.Name)
	return id.Name
}

func (g *generator) check(kind, name string) {
	if name == "" {
		g.fail(kind, name, "identifier is empty")
		return
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		g.fail(kind, name, "identifier contains whitespace")
	}
}

var compareOps = map[ast.CompareOp]string{
	ast.OpEq: "=",
	ast.OpGt: ">",
	ast.OpLt: "<",
	ast.OpGe: ">=",
	ast.OpLe: "<=",
	ast.OpNe: "!=",
}

func stripQuotes(s string) string {
	return strings.Trim(s, `'"`)
}
