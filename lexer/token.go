// Package lexer turns tag-encoded query text into a token stream.
// It is a hand-rolled state machine over the source bytes that tracks 1-based
// line and column positions for error reporting.
package lexer

// TokenType identifies the kind of a token.
type TokenType uint16

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Tag kinds, one OPEN/CLOSE pair per tag name
	QUERY_OPEN
	QUERY_CLOSE
	SELECT_OPEN
	SELECT_CLOSE
	COLUMN_OPEN
	COLUMN_CLOSE
	COUNT_FUNC_OPEN
	COUNT_FUNC_CLOSE
	MAX_FUNC_OPEN
	MAX_FUNC_CLOSE
	ALIAS_OPEN
	ALIAS_CLOSE
	LHS_OPEN
	LHS_CLOSE
	RHS_OPEN
	RHS_CLOSE
	FROM_OPEN
	FROM_CLOSE
	TABLE_OPEN
	TABLE_CLOSE
	WHERE_OPEN
	WHERE_CLOSE
	EQ_OP_OPEN
	EQ_OP_CLOSE
	REF_TABLE_OPEN
	REF_TABLE_CLOSE
	REF_COL_OPEN
	REF_COL_CLOSE
	CONSTANT_OPEN
	CONSTANT_CLOSE
	STRING_CONSTANT_OPEN
	STRING_CONSTANT_CLOSE
	GROUP_BY_OPEN
	GROUP_BY_CLOSE
	HAVING_OPEN
	HAVING_CLOSE
	GT_OP_OPEN
	GT_OP_CLOSE
	INT_CONSTANT_OPEN
	INT_CONSTANT_CLOSE
	ORDER_BY_OPEN
	ORDER_BY_CLOSE
	DESC_OPEN
	DESC_CLOSE
	ASC_OPEN
	ASC_CLOSE
	BRACKET_OPEN
	BRACKET_CLOSE

	// Control tags, always self-closing
	AND
	OR

	// Literals
	STRING_LITERAL // 'single' or "double" quoted
	INT_LITERAL    // digit run

	// COMMENT only appears in pre-tokenized input and never reaches the parser.
	COMMENT
)

// String returns the upper-case identifier of the token type, the same
// spelling used by the pre-tokenized line format.
func (t TokenType) String() string {
	if int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return "UNKNOWN"
}

var tokenNames = [...]string{
	ILLEGAL:               "ILLEGAL",
	EOF:                   "EOF",
	QUERY_OPEN:            "QUERY_OPEN",
	QUERY_CLOSE:           "QUERY_CLOSE",
	SELECT_OPEN:           "SELECT_OPEN",
	SELECT_CLOSE:          "SELECT_CLOSE",
	COLUMN_OPEN:           "COLUMN_OPEN",
	COLUMN_CLOSE:          "COLUMN_CLOSE",
	COUNT_FUNC_OPEN:       "COUNT_FUNC_OPEN",
	COUNT_FUNC_CLOSE:      "COUNT_FUNC_CLOSE",
	MAX_FUNC_OPEN:         "MAX_FUNC_OPEN",
	MAX_FUNC_CLOSE:        "MAX_FUNC_CLOSE",
	ALIAS_OPEN:            "ALIAS_OPEN",
	ALIAS_CLOSE:           "ALIAS_CLOSE",
	LHS_OPEN:              "LHS_OPEN",
	LHS_CLOSE:             "LHS_CLOSE",
	RHS_OPEN:              "RHS_OPEN",
	RHS_CLOSE:             "RHS_CLOSE",
	FROM_OPEN:             "FROM_OPEN",
	FROM_CLOSE:            "FROM_CLOSE",
	TABLE_OPEN:            "TABLE_OPEN",
	TABLE_CLOSE:           "TABLE_CLOSE",
	WHERE_OPEN:            "WHERE_OPEN",
	WHERE_CLOSE:           "WHERE_CLOSE",
	EQ_OP_OPEN:            "EQ_OP_OPEN",
	EQ_OP_CLOSE:           "EQ_OP_CLOSE",
	REF_TABLE_OPEN:        "REF_TABLE_OPEN",
	REF_TABLE_CLOSE:       "REF_TABLE_CLOSE",
	REF_COL_OPEN:          "REF_COL_OPEN",
	REF_COL_CLOSE:         "REF_COL_CLOSE",
	CONSTANT_OPEN:         "CONSTANT_OPEN",
	CONSTANT_CLOSE:        "CONSTANT_CLOSE",
	STRING_CONSTANT_OPEN:  "STRING_CONSTANT_OPEN",
	STRING_CONSTANT_CLOSE: "STRING_CONSTANT_CLOSE",
	GROUP_BY_OPEN:         "GROUP_BY_OPEN",
	GROUP_BY_CLOSE:        "GROUP_BY_CLOSE",
	HAVING_OPEN:           "HAVING_OPEN",
	HAVING_CLOSE:          "HAVING_CLOSE",
	GT_OP_OPEN:            "GT_OP_OPEN",
	GT_OP_CLOSE:           "GT_OP_CLOSE",
	INT_CONSTANT_OPEN:     "INT_CONSTANT_OPEN",
	INT_CONSTANT_CLOSE:    "INT_CONSTANT_CLOSE",
	ORDER_BY_OPEN:         "ORDER_BY_OPEN",
	ORDER_BY_CLOSE:        "ORDER_BY_CLOSE",
	DESC_OPEN:             "DESC_OPEN",
	DESC_CLOSE:            "DESC_CLOSE",
	ASC_OPEN:              "ASC_OPEN",
	ASC_CLOSE:             "ASC_CLOSE",
	BRACKET_OPEN:          "BRACKET_OPEN",
	BRACKET_CLOSE:         "BRACKET_CLOSE",
	AND:                   "AND",
	OR:                    "OR",
	STRING_LITERAL:        "STRING_LITERAL",
	INT_LITERAL:           "INT_LITERAL",
	COMMENT:               "COMMENT",
}

var typesByName map[string]TokenType

func init() {
	typesByName = make(map[string]TokenType, len(tokenNames))
	for i, name := range tokenNames {
		typ := TokenType(i)
		if typ == ILLEGAL || typ == EOF {
			continue
		}
		typesByName[name] = typ
	}
}

// LookupTokenType returns the token type spelled name, as produced by String.
// ILLEGAL and EOF are not addressable by name.
func LookupTokenType(name string) (TokenType, bool) {
	typ, ok := typesByName[name]
	return typ, ok
}
