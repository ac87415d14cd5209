package ast

// Inspect traverses the tree rooted at n depth-first, calling f for each
// node before its children. If f returns false the children of that node
// are skipped. Absent optional clauses are not visited.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Query:
		if n.Select != nil {
			Inspect(n.Select, f)
		}
		if n.From != nil {
			Inspect(n.From, f)
		}
		if n.Where != nil {
			Inspect(n.Where, f)
		}
		if n.GroupBy != nil {
			Inspect(n.GroupBy, f)
		}
		if n.Having != nil {
			Inspect(n.Having, f)
		}
		if n.OrderBy != nil {
			Inspect(n.OrderBy, f)
		}
	case *Select:
		for _, c := range n.Columns {
			Inspect(c, f)
		}
	case *Column:
		Inspect(n.Value, f)
	case *FuncCall:
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *Alias:
		Inspect(n.Expr, f)
	case *From:
		for _, t := range n.Tables {
			Inspect(t, f)
		}
	case *Where:
		Inspect(n.Cond, f)
	case *Having:
		Inspect(n.Cond, f)
	case *Comparison:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *ColumnRef:
		Inspect(n.Table, f)
		Inspect(n.Column, f)
	case *Logical:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *Bracket:
		Inspect(n.Inner, f)
	case *GroupBy:
		for _, c := range n.Columns {
			Inspect(c, f)
		}
	case *OrderBy:
		Inspect(n.Column, f)
	}
}
