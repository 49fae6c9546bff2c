package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/thomas-vilte/repocheck/internal/i18n"
	"github.com/thomas-vilte/repocheck/internal/models"
)

// RenderTable writes rows under headers.
func RenderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func RenderBranches(w io.Writer, t *i18n.Translations, branches []string) error {
	rows := make([][]string, 0, len(branches))
	for _, b := range branches {
		rows = append(rows, []string{b})
	}
	return RenderTable(w, []string{t.GetMessage("table.branch", 0, nil)}, rows)
}

// RenderReport prints the score line followed by the detail table matching
// the report kind. Empty detail sections print nothing.
func RenderReport(w io.Writer, t *i18n.Translations, report *models.Report) error {
	scoreLine := t.GetMessage("evaluate.score", 0, map[string]interface{}{
		"Kind":  string(report.Kind),
		"Score": report.Score,
	})
	_, _ = ScoreColor(report.Score).Fprintln(w, scoreLine)

	if report.SHA != "" {
		_, _ = Dim.Fprintln(w, t.GetMessage("evaluate.summary", 0, map[string]interface{}{
			"Language": report.Language,
			"SHA":      report.SHA,
		}))
	}

	switch report.Kind {
	case models.EvaluationCompilation:
		if report.Build == nil || len(report.Build.FailedUnits) == 0 {
			return nil
		}
		rows := make([][]string, 0, len(report.Build.FailedUnits))
		for _, u := range report.Build.FailedUnits {
			rows = append(rows, []string{u})
		}
		return RenderTable(w, []string{t.GetMessage("table.unit", 0, nil)}, rows)

	case models.EvaluationQuality:
		if report.Counts != nil {
			_, _ = fmt.Fprintln(w, t.GetMessage("evaluate.counts", 0, map[string]interface{}{
				"Errors":   report.Counts.Errors,
				"Warnings": report.Counts.Warnings,
				"Infos":    report.Counts.Infos,
			}))
		}
		if len(report.Diagnostics) == 0 {
			return nil
		}
		rows := make([][]string, 0, len(report.Diagnostics))
		for _, d := range report.Diagnostics {
			rows = append(rows, []string{string(d.Severity), d.Message})
		}
		return RenderTable(w, []string{
			t.GetMessage("table.severity", 0, nil),
			t.GetMessage("table.message", 0, nil),
		}, rows)

	case models.EvaluationTests:
		_, _ = fmt.Fprintln(w, t.GetMessage("evaluate.tests_counts", 0, map[string]interface{}{
			"Passed": report.Passed,
			"Failed": report.Failed,
		}))
		if len(report.Tests) == 0 {
			return nil
		}
		rows := make([][]string, 0, len(report.Tests))
		for _, o := range report.Tests {
			result := t.GetMessage("result.passed", 0, nil)
			if !o.Passed {
				result = t.GetMessage("result.failed", 0, nil)
			}
			rows = append(rows, []string{o.Name, result, strconv.FormatFloat(o.DurationMs, 'f', -1, 64)})
		}
		return RenderTable(w, []string{
			t.GetMessage("table.test", 0, nil),
			t.GetMessage("table.result", 0, nil),
			t.GetMessage("table.duration", 0, nil),
		}, rows)
	}

	return nil
}
