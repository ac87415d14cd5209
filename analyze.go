package tagsql

import (
	"fmt"

	"github.com/oarkflow/tagsql/ast"
)

type FindingSeverity string

const (
	SeverityInfo     FindingSeverity = "info"
	SeverityWarning  FindingSeverity = "warning"
	SeverityCritical FindingSeverity = "critical"
)

type AnalysisFinding struct {
	Severity       FindingSeverity
	Code           string
	Message        string
	Problem        string
	Recommendation string
}

type AnalysisReport struct {
	Valid    bool
	Findings []AnalysisFinding
}

// AnalyzeSource runs the pipeline on src and reports failures and risky
// query shapes.
func AnalyzeSource(src string) AnalysisReport {
	q, err := Parse(src)
	if err != nil {
		return ReportError(err)
	}
	return Analyze(q)
}

// ReportError builds the invalid report for a failed pipeline run.
func ReportError(err error) AnalysisReport {
	report := AnalysisReport{}
	if err == nil {
		return report
	}
	switch ErrorStage(err) {
	case StageLex:
		addFinding(&report, SeverityCritical, "LEX_ERROR", err.Error(), "Fix the markup at the reported line/column.")
	case StageSyntax:
		addFinding(&report, SeverityCritical, "SYNTAX_ERROR", err.Error(), "Check tag nesting and clause order (select, from, where, group_by, having, order_by).")
	case StageValidation:
		addFinding(&report, SeverityCritical, "VALIDATION_ERROR", err.Error(), "Identifiers and alias names must not contain whitespace.")
	default:
		addFinding(&report, SeverityCritical, "INPUT_ERROR", err.Error(), "")
	}
	return report
}

// Analyze inspects a parsed query.
func Analyze(q *ast.Query) AnalysisReport {
	report := AnalysisReport{Valid: true}
	if _, err := Generate(q); err != nil {
		report = ReportError(err)
	}
	if q == nil {
		return report
	}

	if q.From != nil && len(q.From.Tables) > 1 {
		addFinding(&report, SeverityWarning, "CROSS_PRODUCT", fmt.Sprintf("FROM lists %d tables with no join condition; the result is their cartesian product.", len(q.From.Tables)), "Query one table, or make sure the product is intended.")
	}
	if q.Select != nil && q.GroupBy == nil && mixesAggregates(q.Select) {
		addFinding(&report, SeverityWarning, "AGGREGATE_WITHOUT_GROUP_BY", "Select list mixes aggregate functions with plain columns and there is no GROUP BY.", "Add a group_by clause listing the plain columns.")
	}
	if q.Having != nil && q.GroupBy == nil {
		addFinding(&report, SeverityWarning, "HAVING_WITHOUT_GROUP_BY", "HAVING is used without GROUP BY, so the whole table is one group.", "Add a group_by clause or move the predicate to where.")
	}
	if q.Where != nil {
		if hasAggregate(q.Where.Cond) {
			addFinding(&report, SeverityWarning, "AGGREGATE_IN_WHERE", "WHERE compares an aggregate function; most databases reject this.", "Move the comparison to a having clause.")
		}
		analyzeCond(q.Where.Cond, &report)
	}
	if q.Having != nil {
		analyzeCond(q.Having.Cond, &report)
	}
	return report
}

func analyzeCond(c ast.Condition, report *AnalysisReport) {
	switch e := c.(type) {
	case *ast.Logical:
		analyzeChain(e, report)
	case *ast.Bracket:
		if _, ok := e.Inner.(*ast.Logical); ok {
			addFinding(report, SeverityInfo, "REDUNDANT_BRACKET", "Bracket wraps a logical chain that is already parenthesized; the SQL shows double parentheses.", "Drop the bracket unless the extra grouping is wanted for readability.")
		}
		analyzeCond(e.Inner, report)
	}
}

// analyzeChain walks a right-nested logical chain from its head.
func analyzeChain(head *ast.Logical, report *AnalysisReport) {
	var and, or bool
	cur := ast.Condition(head)
	for {
		l, ok := cur.(*ast.Logical)
		if !ok {
			analyzeCond(cur, report)
			break
		}
		switch l.Op {
		case ast.OpAnd:
			and = true
		case ast.OpOr:
			or = true
		}
		analyzeCond(l.Left, report)
		cur = l.Right
	}
	if or {
		addFinding(report, SeverityInfo, "OR_PREDICATE", "Chain contains <or/>; the comparison before it and the whole rest of the chain are alternatives, as in a OR (b AND c).", "Confirm the grouping in the generated SQL and use bracket tags where another grouping is meant.")
	}
	if and && or {
		addFinding(report, SeverityWarning, "MIXED_LOGICAL_CHAIN", "Chain mixes AND and OR; it groups to the right (a AND (b OR c)), not by AND-before-OR precedence.", "Wrap sub-conditions in bracket tags to make the intended grouping explicit.")
	}
}

func mixesAggregates(s *ast.Select) bool {
	var agg, plain bool
	for _, c := range s.Columns {
		var v ast.Node = c.Value
		if a, ok := v.(*ast.Alias); ok {
			v = a.Expr
		}
		switch v.(type) {
		case *ast.FuncCall:
			agg = true
		case *ast.Ident:
			plain = true
		}
	}
	return agg && plain
}

func hasAggregate(c ast.Condition) bool {
	found := false
	ast.Inspect(c, func(n ast.Node) bool {
		if _, ok := n.(*ast.FuncCall); ok {
			found = true
		}
		return !found
	})
	return found
}

func addFinding(report *AnalysisReport, sev FindingSeverity, code, problem, recommendation string) {
	msg := problem
	if recommendation != "" {
		msg += " Recommendation: " + recommendation
	}
	report.Findings = append(report.Findings, AnalysisFinding{
		Severity:       sev,
		Code:           code,
		Message:        msg,
		Problem:        problem,
		Recommendation: recommendation,
	})
}

func (r AnalysisReport) String() string {
	if !r.Valid {
		if len(r.Findings) == 0 {
			return "invalid query"
		}
		return fmt.Sprintf("invalid query: %s", r.Findings[0].Problem)
	}
	if len(r.Findings) == 0 {
		return "valid query, no findings"
	}
	return fmt.Sprintf("valid query, %d finding(s)", len(r.Findings))
}
