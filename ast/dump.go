package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes the indented tree text of n to w, two spaces per level:
//
//	Query:
//	  Select:
//	    Column: id
//	  From:
//	    Table: users
func Fprint(w io.Writer, n Node) error {
	p := &printer{w: w}
	p.print(n, 0)
	return p.err
}

// Dump returns the tree text of n.
func Dump(n Node) string {
	var b strings.Builder
	_ = Fprint(&b, n)
	return b.String()
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(indent int, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", indent), fmt.Sprintf(format, args...))
}

func (p *printer) print(n Node, indent int) {
	switch n := n.(type) {
	case *Query:
		p.line(indent, "Query:")
		if n.Select != nil {
			p.print(n.Select, indent+1)
		}
		if n.From != nil {
			p.print(n.From, indent+1)
		}
		if n.Where != nil {
			p.print(n.Where, indent+1)
		}
		if n.GroupBy != nil {
			p.print(n.GroupBy, indent+1)
		}
		if n.Having != nil {
			p.print(n.Having, indent+1)
		}
		if n.OrderBy != nil {
			p.print(n.OrderBy, indent+1)
		}
	case *Select:
		p.line(indent, "Select:")
		for _, c := range n.Columns {
			p.print(c, indent+1)
		}
	case *Column:
		if id, ok := n.Value.(*Ident); ok {
			p.line(indent, "Column: %s", id.Name)
			return
		}
		p.line(indent, "Column:")
		p.print(n.Value, indent+1)
	case *FuncCall:
		p.line(indent, "Function: %s", n.Name)
		p.line(indent+1, "Parameters:")
		for _, a := range n.Args {
			p.line(indent+2, "Column: %s", a.Name)
		}
	case *Alias:
		p.line(indent, "Alias:")
		p.line(indent+1, "Expression:")
		p.print(n.Expr, indent+2)
		p.line(indent+1, "As: %s", n.Name)
	case *From:
		p.line(indent, "From:")
		for _, t := range n.Tables {
			p.line(indent+1, "Table: %s", t.Name)
		}
	case *Where:
		p.line(indent, "Where:")
		p.print(n.Cond, indent+1)
	case *Having:
		p.line(indent, "Having:")
		p.print(n.Cond, indent+1)
	case *Comparison:
		p.line(indent, "Comparison (%s):", n.Op)
		p.line(indent+1, "Left:")
		p.print(n.Left, indent+2)
		p.line(indent+1, "Right: %s", constantText(n.Right))
	case *ColumnRef:
		p.line(indent, "Reference: %s.%s", n.Table.Name, n.Column.Name)
	case *Logical:
		p.line(indent, "Logical %s:", n.Op)
		p.line(indent+1, "Left:")
		p.print(n.Left, indent+2)
		p.line(indent+1, "Right:")
		p.print(n.Right, indent+2)
	case *Bracket:
		p.line(indent, "Bracketed Expression:")
		p.print(n.Inner, indent+1)
	case *GroupBy:
		p.line(indent, "Group By:")
		for _, c := range n.Columns {
			p.line(indent+1, "Column: %s", c.Name)
		}
	case *OrderBy:
		p.line(indent, "Order By:")
		p.line(indent+1, "Column: %s", n.Column.Name)
		p.line(indent+1, "Direction: %s", n.Direction)
	case *Ident:
		p.line(indent, "%s", n.Name)
	case *StringConst, *IntConst:
		p.line(indent, "%s", constantText(n.(Constant)))
	}
}

func constantText(c Constant) string {
	switch c := c.(type) {
	case *StringConst:
		return c.Value
	case *IntConst:
		return strconv.FormatInt(c.Value, 10)
	default:
		return ""
	}
}
