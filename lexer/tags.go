package lexer

// tagEntry is a tag table entry.
type tagEntry struct {
	name  string
	open  TokenType
	close TokenType
}

// tagsByLen organizes the tag table by name length for fast dispatch, the
// same way a keyword table would.
var tagsByLen [16][]tagEntry

// controlTags may only be written self-closing (<and/>, <or/>).
var controlTags = map[string]TokenType{
	"and": AND,
	"or":  OR,
}

func init() {
	tags := []tagEntry{
		{"query", QUERY_OPEN, QUERY_CLOSE},
		{"select", SELECT_OPEN, SELECT_CLOSE},
		{"column", COLUMN_OPEN, COLUMN_CLOSE},
		{"count_func", COUNT_FUNC_OPEN, COUNT_FUNC_CLOSE},
		{"max_func", MAX_FUNC_OPEN, MAX_FUNC_CLOSE},
		{"alias", ALIAS_OPEN, ALIAS_CLOSE},
		{"lhs", LHS_OPEN, LHS_CLOSE},
		{"rhs", RHS_OPEN, RHS_CLOSE},
		{"from", FROM_OPEN, FROM_CLOSE},
		{"table", TABLE_OPEN, TABLE_CLOSE},
		{"where", WHERE_OPEN, WHERE_CLOSE},
		{"eq_op", EQ_OP_OPEN, EQ_OP_CLOSE},
		{"ref_table", REF_TABLE_OPEN, REF_TABLE_CLOSE},
		{"ref_col", REF_COL_OPEN, REF_COL_CLOSE},
		{"constant", CONSTANT_OPEN, CONSTANT_CLOSE},
		{"string_constant", STRING_CONSTANT_OPEN, STRING_CONSTANT_CLOSE},
		{"group_by", GROUP_BY_OPEN, GROUP_BY_CLOSE},
		{"having", HAVING_OPEN, HAVING_CLOSE},
		{"gt_op", GT_OP_OPEN, GT_OP_CLOSE},
		{"int_constant", INT_CONSTANT_OPEN, INT_CONSTANT_CLOSE},
		{"order_by", ORDER_BY_OPEN, ORDER_BY_CLOSE},
		{"desc", DESC_OPEN, DESC_CLOSE},
		{"asc", ASC_OPEN, ASC_CLOSE},
		{"bracket", BRACKET_OPEN, BRACKET_CLOSE},
	}
	for _, e := range tags {
		l := len(e.name)
		if l < len(tagsByLen) {
			tagsByLen[l] = append(tagsByLen[l], e)
		}
	}
}

// lookupTag returns the table entry for a tag name. Names are case sensitive.
func lookupTag(name string) (tagEntry, bool) {
	l := len(name)
	if l == 0 || l >= len(tagsByLen) {
		return tagEntry{}, false
	}
	for _, e := range tagsByLen[l] {
		if e.name == name {
			return e, true
		}
	}
	return tagEntry{}, false
}
