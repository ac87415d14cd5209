package tagsql_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarkflow/tagsql"
	"github.com/oarkflow/tagsql/lexer"
)

const usersByID = `<query>
  <select><column>"id"</column></select>
  <from><table>"users"</table></from>
  <where><eq_op>
    <lhs><ref_table>"users"</ref_table><ref_col>"id"</ref_col></lhs>
    <rhs><int_constant>5</int_constant></rhs>
  </eq_op></where>
</query>`

func TestTokenizeFacade(t *testing.T) {
	toks, err := tagsql.Tokenize(usersByID)
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, lexer.QUERY_OPEN, toks[0].Type)
	assert.Equal(t, lexer.QUERY_CLOSE, toks[len(toks)-1].Type)
}

func TestCompileTokensMatchesCompile(t *testing.T) {
	toks, err := tagsql.Tokenize(usersByID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, lexer.WriteTokens(&buf, toks))
	back, err := lexer.ReadTokens(&buf)
	require.NoError(t, err)

	fromTokens, err := tagsql.CompileTokens(back, tagsql.Options{})
	require.NoError(t, err)
	direct, err := tagsql.Compile(usersByID)
	require.NoError(t, err)
	assert.Equal(t, direct, fromTokens)
	assert.Equal(t, "SELECT id FROM users WHERE users.id = 5", direct)
}

func TestErrorStage(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want tagsql.Stage
	}{
		{"lex", "<query>\n  \"abc", tagsql.StageLex},
		{"syntax", `<query></query>`, tagsql.StageSyntax},
		{"validation", `<query><select></select><from><table>"t"</table></from></query>`, tagsql.StageValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, err := tagsql.Compile(tt.src)
			require.Error(t, err)
			assert.Empty(t, sql)
			assert.Equal(t, tt.want, tagsql.ErrorStage(err))
			assert.Equal(t, tt.want, tagsql.ErrorStage(fmt.Errorf("doc.xml: %w", err)))
		})
	}
	assert.Equal(t, tagsql.Stage(""), tagsql.ErrorStage(context.Canceled))
	assert.Equal(t, tagsql.Stage(""), tagsql.ErrorStage(nil))
}

func TestUnclosedQuoteReportsOpeningPosition(t *testing.T) {
	_, err := tagsql.Parse("<query>\n  \"abc")
	var le *tagsql.LexError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, uint32(2), le.Line)
	assert.Equal(t, uint32(3), le.Col)
}

func TestCompileWithTrace(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sql, err := tagsql.CompileWithOptions(usersByID, tagsql.Options{Trace: log})
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users WHERE users.id = 5", sql)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.NotEmpty(t, lines)
	assert.Contains(t, lines[0], `"msg":"enter"`)
	assert.Contains(t, lines[0], `"production":"Query"`)
	assert.Contains(t, lines[len(lines)-1], `"msg":"exit"`)
	assert.Contains(t, lines[len(lines)-1], `"production":"Query"`)
}

func TestParseWithOptionsSyntaxError(t *testing.T) {
	q, err := tagsql.ParseWithOptions(`<query><select></select>`, tagsql.Options{})
	assert.Nil(t, q)
	var se *tagsql.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, lexer.EOF, se.Got.Type)
}
