package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/oarkflow/tagsql"
	"github.com/oarkflow/tagsql/batch"
)

var (
	primaryColor = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"}
	successColor = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	warningColor = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)
)

// printer writes the human-facing report. Styling is applied only when the
// output is a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func (p *printer) paint(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// results prints single-file mode output: SQL on w, failures on errOut.
func (p *printer) results(results []batch.Result, errOut io.Writer) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(errOut, "%s: %s\n", r.Name, r.Err)
			continue
		}
		fmt.Fprintln(p.w, r.SQL)
	}
}

func (p *printer) analysis(results []batch.Result) {
	for _, r := range results {
		var report tagsql.AnalysisReport
		if r.Query != nil {
			report = tagsql.Analyze(r.Query)
		} else {
			report = tagsql.ReportError(r.Err)
		}
		fmt.Fprintf(p.w, "%s %s\n", p.paint(titleStyle, r.Name+":"), report)
		for _, f := range report.Findings {
			fmt.Fprintf(p.w, "  %s %s: %s\n", p.severity(f.Severity), f.Code, f.Problem)
			if f.Recommendation != "" {
				fmt.Fprintf(p.w, "    %s\n", p.paint(mutedStyle, f.Recommendation))
			}
		}
	}
}

func (p *printer) severity(s tagsql.FindingSeverity) string {
	label := "[" + string(s) + "]"
	switch s {
	case tagsql.SeverityCritical:
		return p.paint(errorStyle, label)
	case tagsql.SeverityWarning:
		return p.paint(warningStyle, label)
	default:
		return p.paint(mutedStyle, label)
	}
}

func (p *printer) summary(sum batch.Summary, outDir string) {
	var b strings.Builder
	b.WriteString(p.paint(titleStyle, "tagsql"))
	fmt.Fprintf(&b, " %d document(s): ", sum.Total)
	b.WriteString(p.paint(successStyle, fmt.Sprintf("%d compiled", sum.Succeeded)))
	b.WriteString(", ")
	failed := fmt.Sprintf("%d failed", sum.Failed)
	if sum.Failed > 0 {
		failed = p.paint(errorStyle, failed)
	}
	b.WriteString(failed)

	stages := make([]tagsql.Stage, 0, len(sum.ByStage))
	for s := range sum.ByStage {
		stages = append(stages, s)
	}
	slices.Sort(stages)
	for _, s := range stages {
		fmt.Fprintf(&b, "\n  %s: %d", s, sum.ByStage[s])
	}
	for _, r := range sum.Results {
		if r.Err != nil {
			fmt.Fprintf(&b, "\n  %s %s", p.paint(errorStyle, r.Name), p.paint(mutedStyle, r.Err.Error()))
		}
	}
	fmt.Fprintf(&b, "\n%s", p.paint(mutedStyle, "output: "+outDir))

	if p.styled {
		fmt.Fprintln(p.w, boxStyle.Render(b.String()))
		return
	}
	fmt.Fprintln(p.w, b.String())
}
