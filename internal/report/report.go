// Package report renders run summaries and stored results for the terminal.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"insight/internal/domain"
	"insight/internal/pipeline"
	"insight/internal/store"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// RenderSummary formats one pipeline run summary.
func RenderSummary(sum *pipeline.RunSummary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pipeline run " + sum.RunID))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "records: %d  trained: %d  skipped: %d  duration: %s\n",
		sum.Records, sum.Trained, sum.Skipped,
		sum.FinishedAt.Sub(sum.StartedAt).Round(1e6))
	for _, se := range sum.Errors {
		line := se.Stage
		if se.Category != "" {
			line += " " + se.Category
			if se.Polarity != "" {
				line += "/" + string(se.Polarity)
			}
		}
		b.WriteString(errorStyle.Render(line+": "+se.Message) + "\n")
	}
	return b.String()
}

// RenderResults formats every stored result: per-category keywords for both
// polarities, the overall keyword set and the section ranking.
func RenderResults(ctx context.Context, p *pipeline.Pipeline) string {
	var b strings.Builder

	for _, category := range p.Categories() {
		b.WriteString(sectionStyle.Render(category) + "\n")
		for _, polarity := range []domain.Polarity{domain.PolarityStrength, domain.PolarityLacking} {
			result, err := p.Keywords(ctx, category, polarity)
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintf(&b, "  %-8s %s\n", polarity, dimStyle.Render("no result (insufficient data)"))
				continue
			}
			if err != nil {
				fmt.Fprintf(&b, "  %-8s %s\n", polarity, errorStyle.Render(err.Error()))
				continue
			}
			fmt.Fprintf(&b, "  %-8s %s  %s\n", polarity, keywordLine(result.Keywords),
				dimStyle.Render(fmt.Sprintf("(n=%d r2=%.2f mae=%.2f)", result.SampleSize, result.R2, result.MAE)))
		}
	}

	b.WriteString(sectionStyle.Render("Overall") + "\n")
	if overall, err := p.OverallKeywords(ctx); err == nil {
		b.WriteString("  " + keywordLine(overall) + "\n")
	} else {
		b.WriteString("  " + dimStyle.Render("no overall keywords") + "\n")
	}

	b.WriteString(sectionStyle.Render("Section importance") + "\n")
	if ranking, err := p.SectionRanking(ctx); err == nil {
		for i, category := range ranking.SortedCategories {
			fmt.Fprintf(&b, "  %d. %-28s %.3f\n", i+1, category, ranking.Importance[category])
		}
		b.WriteString("  " + dimStyle.Render(fmt.Sprintf("r2=%.2f mae=%.2f", ranking.R2, ranking.MAE)) + "\n")
	} else {
		b.WriteString("  " + dimStyle.Render("no ranking") + "\n")
	}
	return b.String()
}

func keywordLine(keywords []domain.KeywordScore) string {
	if len(keywords) == 0 {
		return dimStyle.Render("(empty)")
	}
	parts := make([]string, len(keywords))
	for i, kw := range keywords {
		parts[i] = fmt.Sprintf("%s (%.3f)", kw.Word, kw.Score)
	}
	return strings.Join(parts, ", ")
}
