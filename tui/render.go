package tui

import (
	"fmt"
	"strings"

	"github.com/DachengChen/trinoai/db"
	"github.com/DachengChen/trinoai/session"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ResultTable renders up to maxRows rows of res as a bordered table.
// maxRows <= 0 renders every row.
func ResultTable(res *db.QueryResult, maxRows int) string {
	if res == nil || len(res.Columns) == 0 {
		return StyleDimmed.Render("(no result set)")
	}
	if res.RowCount() == 0 {
		return StyleDimmed.Render("Query returned no rows")
	}

	rows := res.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	out := newTable(res.Columns...).Rows(rows...).Render()
	if len(rows) < res.RowCount() {
		out += "\n" + StyleDimmed.Render(fmt.Sprintf("... %d of %d rows shown", len(rows), res.RowCount()))
	}
	return out
}

// SummaryTable renders the Compare All summary of a record.
func SummaryTable(rec session.Record) string {
	t := newTable("Provider", "Gen Time", "Rows", "Status")
	for _, o := range rec.Outcomes {
		rows := "-"
		if o.Success {
			rows = fmt.Sprintf("%d", o.Rows)
		}
		t.Row(o.Provider.Label(), fmt.Sprintf("%.2fs", o.GenerationSeconds), rows, outcomeStatus(o))
	}
	return t.Render()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return StyleTableHeader
			}
			return StyleTableCell
		})
}

func outcomeStatus(o session.Outcome) string {
	switch {
	case o.Success:
		return "✅"
	case o.GenerationError != "":
		return "❌ generation"
	default:
		return "❌ execution"
	}
}

// RenderRecord renders every provider panel of rec, followed by the
// summary table when more than one backend answered.
func RenderRecord(rec session.Record, maxRows int) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render("Q: ") + rec.Question + "\n")
	b.WriteString(StyleDimmed.Render(fmt.Sprintf("%s · %s", rec.Mode.Label(), rec.Timestamp.Format("15:04:05"))) + "\n")

	for _, o := range rec.Outcomes {
		b.WriteString("\n" + renderOutcome(o, maxRows) + "\n")
	}
	if len(rec.Outcomes) > 1 {
		b.WriteString("\n" + StyleTitle.Render("📊 Comparison") + "\n")
		b.WriteString(SummaryTable(rec) + "\n")
	}
	return b.String()
}

func renderOutcome(o session.Outcome, maxRows int) string {
	var lines []string
	lines = append(lines, StylePanelHeader.Render("── "+o.Model+" ──"))

	if o.GenerationError != "" {
		lines = append(lines, StyleError.Render("❌ "+o.GenerationError))
		return strings.Join(lines, "\n")
	}
	if o.Explanation != "" {
		lines = append(lines, StyleBold.Render("Explanation: ")+o.Explanation)
	}
	lines = append(lines, StyleDimmed.Render(fmt.Sprintf("⏱ generated in %.2fs", o.GenerationSeconds)))
	if o.SQL != "" {
		lines = append(lines, StyleSQL.Render(o.SQL))
	}

	if o.ExecutionError != "" {
		lines = append(lines, StyleError.Render("❌ "+o.ExecutionError))
		return strings.Join(lines, "\n")
	}
	lines = append(lines, ResultTable(o.Result, maxRows))
	lines = append(lines, StyleSuccess.Render(fmt.Sprintf("✅ %d rows · executed in %.2fs", o.Rows, o.ExecutionSeconds)))
	return strings.Join(lines, "\n")
}
