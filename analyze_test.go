package tagsql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarkflow/tagsql"
)

func codes(report tagsql.AnalysisReport) []string {
	out := make([]string, 0, len(report.Findings))
	for _, f := range report.Findings {
		out = append(out, f.Code)
	}
	return out
}

const (
	eqA = `<eq_op><lhs>"a"</lhs><rhs><int_constant>1</int_constant></rhs></eq_op>`
	eqB = `<eq_op><lhs>"b"</lhs><rhs><int_constant>2</int_constant></rhs></eq_op>`
	eqC = `<eq_op><lhs>"c"</lhs><rhs><int_constant>3</int_constant></rhs></eq_op>`
)

func doc(clauses string) string {
	return `<query><select><column>"a"</column></select><from><table>"t"</table></from>` + clauses + `</query>`
}

func TestAnalyzeFailures(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"lex", `<query>"unterminated`, "LEX_ERROR"},
		{"syntax", `<query><select></select></query>`, "SYNTAX_ERROR"},
		{"validation", `<query><select><column>"a b"</column></select><from><table>"t"</table></from></query>`, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := tagsql.AnalyzeSource(tt.src)
			assert.False(t, report.Valid)
			require.NotEmpty(t, report.Findings)
			assert.Equal(t, tt.code, report.Findings[0].Code)
			assert.Equal(t, tagsql.SeverityCritical, report.Findings[0].Severity)
			assert.Contains(t, report.String(), "invalid query: ")
		})
	}
}

func TestAnalyzeClean(t *testing.T) {
	report := tagsql.AnalyzeSource(doc(`<where>` + eqA + `<and/>` + eqB + `</where>`))
	assert.True(t, report.Valid)
	assert.Empty(t, report.Findings)
	assert.Equal(t, "valid query, no findings", report.String())
}

func TestAnalyzeFindings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"or predicate", doc(`<where>` + eqA + `<or/>` + eqB + `</where>`), []string{"OR_PREDICATE"}},
		{"mixed chain", doc(`<where>` + eqA + `<and/>` + eqB + `<or/>` + eqC + `</where>`), []string{"OR_PREDICATE", "MIXED_LOGICAL_CHAIN"}},
		{"redundant bracket", doc(`<where><bracket>` + eqA + `<and/>` + eqB + `</bracket></where>`), []string{"REDUNDANT_BRACKET"}},
		{"bracket around comparison is fine", doc(`<where><bracket>` + eqA + `</bracket></where>`), []string{}},
		{"nested chain in bracket reported once per chain",
			doc(`<where>` + eqA + `<and/><bracket>` + eqB + `<or/>` + eqC + `</bracket></where>`),
			[]string{"REDUNDANT_BRACKET", "OR_PREDICATE"}},
		{"cross product",
			`<query><select><column>"a"</column></select><from><table>"t"</table><table>"u"</table></from></query>`,
			[]string{"CROSS_PRODUCT"}},
		{"aggregate without group by",
			`<query><select><column>"a"</column><column><count_func>"b"</count_func></column></select><from><table>"t"</table></from></query>`,
			[]string{"AGGREGATE_WITHOUT_GROUP_BY"}},
		{"aliased aggregate without group by",
			`<query><select><column>"a"</column><column><alias><lhs><max_func>"b"</max_func></lhs><rhs>"m"</rhs></alias></column></select><from><table>"t"</table></from></query>`,
			[]string{"AGGREGATE_WITHOUT_GROUP_BY"}},
		{"only aggregates is fine",
			`<query><select><column><count_func>"b"</count_func></column></select><from><table>"t"</table></from></query>`,
			[]string{}},
		{"having without group by", doc(`<having>` + eqA + `</having>`), []string{"HAVING_WITHOUT_GROUP_BY"}},
		{"having with group by", doc(`<group_by><column>"a"</column></group_by><having>` + eqA + `</having>`), []string{}},
		{"aggregate in where",
			doc(`<where><gt_op><lhs><count_func>"a"</count_func></lhs><rhs><int_constant>1</int_constant></rhs></gt_op></where>`),
			[]string{"AGGREGATE_IN_WHERE"}},
		{"or in having", doc(`<group_by><column>"a"</column></group_by><having>` + eqA + `<or/>` + eqB + `</having>`), []string{"OR_PREDICATE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := tagsql.AnalyzeSource(tt.src)
			require.True(t, report.Valid, "findings: %#v", report.Findings)
			assert.Equal(t, tt.want, codes(report))
		})
	}
}

func TestAnalyzeParsedQueryWithInvalidIdentifier(t *testing.T) {
	q, err := tagsql.Parse(`<query><select><column>"a"</column></select><from><table>"my t"</table><table>"u"</table></from></query>`)
	require.NoError(t, err)
	report := tagsql.Analyze(q)
	assert.False(t, report.Valid)
	assert.Equal(t, []string{"VALIDATION_ERROR", "CROSS_PRODUCT"}, codes(report))
}

func TestReportErrorNonPipeline(t *testing.T) {
	report := tagsql.ReportError(assert.AnError)
	assert.False(t, report.Valid)
	assert.Equal(t, []string{"INPUT_ERROR"}, codes(report))
	assert.Empty(t, tagsql.ReportError(nil).Findings)
}

func TestFindingMessage(t *testing.T) {
	report := tagsql.AnalyzeSource(doc(`<having>` + eqA + `</having>`))
	require.Len(t, report.Findings, 1)
	f := report.Findings[0]
	assert.Equal(t, tagsql.SeverityWarning, f.Severity)
	assert.Equal(t, f.Problem+" Recommendation: "+f.Recommendation, f.Message)
	assert.Equal(t, "valid query, 1 finding(s)", report.String())
}

func TestOrPredicateDescribesGrouping(t *testing.T) {
	report := tagsql.AnalyzeSource(doc(`<where>` + eqA + `<or/>` + eqB + `<and/>` + eqC + `</where>`))
	require.NotEmpty(t, report.Findings)
	f := report.Findings[0]
	assert.Equal(t, "OR_PREDICATE", f.Code)
	assert.Contains(t, f.Problem, "<or/>")
	assert.Contains(t, f.Problem, "a OR (b AND c)")
	assert.Contains(t, f.Recommendation, "bracket")
	assert.NotContains(t, f.Message, "index")
}
