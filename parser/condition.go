package parser

import (
	"strconv"

	"github.com/oarkflow/tagsql/ast"
	"github.com/oarkflow/tagsql/lexer"
)

// parseCondition parses a bracket, or a comparison optionally followed by a
// connective and another condition. Chains associate to the right and AND
// does not bind tighter than OR.
func (p *Parser) parseCondition() (ast.Condition, error) {
	defer p.enter("Condition")()
	switch p.tok.Type {
	case lexer.BRACKET_OPEN:
		return p.parseBracket()
	case lexer.EQ_OP_OPEN, lexer.GT_OP_OPEN:
	default:
		return nil, p.errorf("condition (BRACKET_OPEN, EQ_OP_OPEN or GT_OP_OPEN)")
	}

	cmp, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	var op ast.LogicalOp
	switch p.tok.Type {
	case lexer.AND:
		op = ast.OpAnd
	case lexer.OR:
		op = ast.OpOr
	default:
		return cmp, nil
	}
	p.advance()
	right, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	return &ast.Logical{Op: op, Left: cmp, Right: right}, nil
}

func (p *Parser) parseBracket() (*ast.Bracket, error) {
	defer p.enter("Bracket")()
	if _, err := p.eat(lexer.BRACKET_OPEN, "bracket"); err != nil {
		return nil, err
	}
	inner, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.BRACKET_CLOSE, "end of bracket"); err != nil {
		return nil, err
	}
	return &ast.Bracket{Inner: inner}, nil
}

func (p *Parser) parseComparison() (*ast.Comparison, error) {
	defer p.enter("Comparison")()
	c := &ast.Comparison{}
	var closer lexer.TokenType
	switch p.tok.Type {
	case lexer.EQ_OP_OPEN:
		c.Op, closer = ast.OpEq, lexer.EQ_OP_CLOSE
	case lexer.GT_OP_OPEN:
		c.Op, closer = ast.OpGt, lexer.GT_OP_CLOSE
	default:
		return nil, p.errorf("comparison (EQ_OP_OPEN or GT_OP_OPEN)")
	}
	p.advance()

	if _, err := p.eat(lexer.LHS_OPEN, "comparison left side"); err != nil {
		return nil, err
	}
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	c.Left = left
	if _, err := p.eat(lexer.LHS_CLOSE, "end of comparison left side"); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.RHS_OPEN, "comparison right side"); err != nil {
		return nil, err
	}
	right, err := p.parseConstant()
	if err != nil {
		return nil, err
	}
	c.Right = right
	if _, err := p.eat(lexer.RHS_CLOSE, "end of comparison right side"); err != nil {
		return nil, err
	}
	if _, err := p.eat(closer, "end of "+string(c.Op)+" comparison"); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *Parser) parseOperand() (ast.Operand, error) {
	defer p.enter("RefOrValue")()
	switch p.tok.Type {
	case lexer.REF_TABLE_OPEN:
		return p.parseColumnRef()
	case lexer.STRING_LITERAL:
		return &ast.Ident{Name: p.advance().Value}, nil
	case lexer.COUNT_FUNC_OPEN, lexer.MAX_FUNC_OPEN:
		return p.parseFunction()
	default:
		return nil, p.errorf("reference or value (REF_TABLE_OPEN, STRING_LITERAL or function)")
	}
}

func (p *Parser) parseColumnRef() (*ast.ColumnRef, error) {
	defer p.enter("TableColumnRef")()
	if _, err := p.eat(lexer.REF_TABLE_OPEN, "table reference"); err != nil {
		return nil, err
	}
	table, err := p.eat(lexer.STRING_LITERAL, "table name")
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.REF_TABLE_CLOSE, "end of table reference"); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.REF_COL_OPEN, "column reference"); err != nil {
		return nil, err
	}
	col, err := p.eat(lexer.STRING_LITERAL, "column name")
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.REF_COL_CLOSE, "end of column reference"); err != nil {
		return nil, err
	}
	return &ast.ColumnRef{
		Table:  &ast.Ident{Name: table.Value},
		Column: &ast.Ident{Name: col.Value},
	}, nil
}

func (p *Parser) parseConstant() (ast.Constant, error) {
	defer p.enter("Constant")()
	switch p.tok.Type {
	case lexer.STRING_CONSTANT_OPEN:
		p.advance()
		t, err := p.eat(lexer.STRING_LITERAL, "string constant")
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.STRING_CONSTANT_CLOSE, "end of string constant"); err != nil {
			return nil, err
		}
		return &ast.StringConst{Value: t.Value}, nil
	case lexer.INT_CONSTANT_OPEN:
		p.advance()
		if !p.is(lexer.INT_LITERAL) {
			return nil, p.errorf("integer constant (%s)", lexer.INT_LITERAL)
		}
		v, err := strconv.ParseInt(p.tok.Value, 10, 64)
		if err != nil {
			return nil, p.errorf("integer constant within 64-bit range")
		}
		p.advance()
		if _, err := p.eat(lexer.INT_CONSTANT_CLOSE, "end of integer constant"); err != nil {
			return nil, err
		}
		return &ast.IntConst{Value: v}, nil
	default:
		return nil, p.errorf("constant (STRING_CONSTANT_OPEN or INT_CONSTANT_OPEN)")
	}
}
