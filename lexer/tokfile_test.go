package lexer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarkflow/tagsql/lexer"
)

func TestReadTokens(t *testing.T) {
	input := `<QUERY_OPEN, <query>>

<SELECT_OPEN, <select>>
<COMMENT, generated by hand>
   <STRING_LITERAL, id>
not a token line
<NO_SUCH_TYPE, x>
<SELECT_CLOSE, </select>>
<INT_LITERAL, 42>
<STRING_LITERAL, a, b>
`
	toks, err := lexer.ReadTokens(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []lexer.TokenType{
		lexer.QUERY_OPEN, lexer.SELECT_OPEN, lexer.STRING_LITERAL,
		lexer.SELECT_CLOSE, lexer.INT_LITERAL, lexer.STRING_LITERAL,
	}, types(toks))
	assert.Equal(t, "query", toks[0].Value)
	assert.Equal(t, "id", toks[2].Value)
	assert.Equal(t, "/select", toks[3].Value)
	assert.Equal(t, "42", toks[4].Value)
	assert.Equal(t, "a, b", toks[5].Value)
	assert.Equal(t, uint32(5), toks[2].Line)
}

func TestReadTokensEmpty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "<COMMENT, only>\n", "garbage"} {
		_, err := lexer.ReadTokens(strings.NewReader(input))
		assert.ErrorIs(t, err, lexer.ErrNoTokens, "input %q", input)
	}
}

func TestWriteTokensRoundTrip(t *testing.T) {
	src := `<query><select><column>"id"</column></select><from><table>"users"</table></from>
<where><gt_op><lhs>"age"</lhs><rhs><int_constant>30</int_constant></rhs></gt_op><and/>
<eq_op><lhs>"name"</lhs><rhs><string_constant>'bob'</string_constant></rhs></eq_op></where></query>`
	toks := mustTokenize(t, src)

	var buf bytes.Buffer
	require.NoError(t, lexer.WriteTokens(&buf, toks))
	assert.True(t, strings.HasPrefix(buf.String(), "<QUERY_OPEN, <query>>\n<SELECT_OPEN, <select>>\n"))

	back, err := lexer.ReadTokens(&buf)
	require.NoError(t, err)
	assert.Equal(t, types(toks), types(back))
	for i := range toks {
		if toks[i].Type == lexer.STRING_LITERAL || toks[i].Type == lexer.INT_LITERAL {
			assert.Equal(t, toks[i].Value, back[i].Value)
		}
	}
}

func TestLooksTokenized(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"<QUERY_OPEN, <query>>\n", true},
		{"\n\n  <STRING_LITERAL, id>", true},
		{"<query><select>", false},
		{"<query>\n<QUERY_OPEN, <query>>", false},
		{"", false},
		{"<UNKNOWN_KIND, x>", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lexer.LooksTokenized(tt.text), "text %q", tt.text)
	}
}

func TestWriteTokensLossyLiterals(t *testing.T) {
	toks := []lexer.Token{
		{Type: lexer.STRING_LITERAL, Value: "<b>"},
		{Type: lexer.STRING_LITERAL, Value: "x\ny"},
		{Type: lexer.STRING_LITERAL, Value: "ok"},
	}
	var buf bytes.Buffer
	require.NoError(t, lexer.WriteTokens(&buf, toks))

	back, err := lexer.ReadTokens(&buf)
	require.NoError(t, err)
	values := make([]string, 0, len(back))
	for _, tok := range back {
		values = append(values, tok.Value)
	}
	assert.Equal(t, []string{"b", "ok"}, values)
}
