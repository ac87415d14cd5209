// Package ast defines the query syntax tree produced by the parser.
// Each variant position in the grammar is a sealed interface implemented by
// the node types allowed there, so consumers can switch exhaustively.
// Nodes are built once by the parser, owned by exactly one parent and never
// mutated afterwards.
package ast

// Node is implemented by every AST node.
type Node interface {
	node()
}

// ColumnValue is the content of a select-list column: *Ident, *FuncCall or
// *Alias.
type ColumnValue interface {
	Node
	columnValue()
}

// AliasExpr is the aliased expression: *Ident or *FuncCall.
type AliasExpr interface {
	Node
	aliasExpr()
}

// Operand is the left side of a comparison: *Ident, *ColumnRef or *FuncCall.
type Operand interface {
	Node
	operand()
}

// Constant is the right side of a comparison: *StringConst or *IntConst.
type Constant interface {
	Node
	constant()
}

// Condition is a WHERE or HAVING predicate: *Comparison, *Logical or
// *Bracket.
type Condition interface {
	Node
	condition()
}

// Term is the left operand of a logical operator: *Comparison or *Bracket.
type Term interface {
	Condition
	term()
}

// ---- Leaves ----

// Ident is a bare identifier (column, table or argument name) exactly as
// written in the source. Its shape is not checked until SQL is generated.
type Ident struct {
	Name string
}

func (*Ident) node()        {}
func (*Ident) columnValue() {}
func (*Ident) aliasExpr()   {}
func (*Ident) operand()     {}

// StringConst is a string comparison value.
type StringConst struct {
	Value string
}

func (*StringConst) node()     {}
func (*StringConst) constant() {}

// IntConst is an integer comparison value.
type IntConst struct {
	Value int64
}

func (*IntConst) node()     {}
func (*IntConst) constant() {}

// ---- Expressions ----

// FuncName names an aggregate function.
type FuncName string

const (
	FuncCount FuncName = "count"
	FuncMax   FuncName = "max"
)

// FuncCall is an aggregate function applied to one or more columns.
type FuncCall struct {
	Name FuncName
	Args []*Ident
}

func (*FuncCall) node()        {}
func (*FuncCall) columnValue() {}
func (*FuncCall) aliasExpr()   {}
func (*FuncCall) operand()     {}

// Alias is expr AS name.
type Alias struct {
	Expr AliasExpr
	Name string
}

func (*Alias) node()        {}
func (*Alias) columnValue() {}

// ColumnRef is a table-qualified column, table.column.
type ColumnRef struct {
	Table  *Ident
	Column *Ident
}

func (*ColumnRef) node()    {}
func (*ColumnRef) operand() {}

// ---- Conditions ----

// CompareOp is a comparison operator name.
type CompareOp string

const (
	OpEq CompareOp = "eq"
	OpGt CompareOp = "gt"
	OpLt CompareOp = "lt"
	OpGe CompareOp = "ge"
	OpLe CompareOp = "le"
	OpNe CompareOp = "ne"
)

// Comparison is left op right.
type Comparison struct {
	Op    CompareOp
	Left  Operand
	Right Constant
}

func (*Comparison) node()      {}
func (*Comparison) condition() {}
func (*Comparison) term()      {}

// LogicalOp is a logical connective.
type LogicalOp string

const (
	OpAnd LogicalOp = "and"
	OpOr  LogicalOp = "or"
)

// Logical joins two conditions. Chains nest to the right:
// a AND b OR c is Logical{a, AND, Logical{b, OR, c}}.
type Logical struct {
	Op    LogicalOp
	Left  Term
	Right Condition
}

func (*Logical) node()      {}
func (*Logical) condition() {}

// Bracket groups a condition explicitly.
type Bracket struct {
	Inner Condition
}

func (*Bracket) node()      {}
func (*Bracket) condition() {}
func (*Bracket) term()      {}

// ---- Clauses ----

// Query is the root: one SELECT and one FROM, the rest optional.
type Query struct {
	Select  *Select
	From    *From
	Where   *Where
	GroupBy *GroupBy
	Having  *Having
	OrderBy *OrderBy
}

func (*Query) node() {}

// Select is the ordered select list.
type Select struct {
	Columns []*Column
}

func (*Select) node() {}

// Column is one select-list entry.
type Column struct {
	Value ColumnValue
}

func (*Column) node() {}

// From lists the source tables in order.
type From struct {
	Tables []*Ident
}

func (*From) node() {}

// Where holds the row filter.
type Where struct {
	Cond Condition
}

func (*Where) node() {}

// GroupBy lists grouping columns in order.
type GroupBy struct {
	Columns []*Ident
}

func (*GroupBy) node() {}

// Having holds the group filter.
type Having struct {
	Cond Condition
}

func (*Having) node() {}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// OrderBy sorts by a single column.
type OrderBy struct {
	Column    *Ident
	Direction Direction
}

func (*OrderBy) node() {}
