package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/DachengChen/trinoai/session"
	tea "github.com/charmbracelet/bubbletea"
)

// HistoryView lists recent questions and per-backend statistics.
type HistoryView struct {
	history   *session.History
	exportDir string
	notice    string
	viewport  *Viewport
}

// NewHistoryView creates the History panel. Exports land in exportDir.
func NewHistoryView(history *session.History, exportDir string) *HistoryView {
	return &HistoryView{history: history, exportDir: exportDir, viewport: NewViewport(80, 20)}
}

func (v *HistoryView) Init() tea.Cmd {
	v.render()
	return nil
}

func (v *HistoryView) Name() string { return "History" }

func (v *HistoryView) WantsTextInput() bool { return false }

func (v *HistoryView) SetSize(w, h int) { v.viewport.SetSize(w, max(h-1, 1)) }

func (v *HistoryView) ShortHelp() []KeyBinding {
	return []KeyBinding{
		{Key: "e", Desc: "export"},
		{Key: "j/k", Desc: "scroll"},
	}
}

func (v *HistoryView) export() tea.Cmd {
	history, dir := v.history, v.exportDir
	return func() tea.Msg {
		path, err := history.WriteFile(dir, time.Now())
		return ExportMsg{Path: path, Err: err}
	}
}

func (v *HistoryView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case AskResultMsg:
		v.render()
	case ExportMsg:
		if msg.Err != nil {
			v.notice = StyleError.Render("Export failed: " + msg.Err.Error())
		} else {
			v.notice = StyleSuccess.Render("✅ Exported to " + msg.Path)
		}
		v.render()
	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return v, v.export()
		case "j", "down":
			v.viewport.ScrollDown(1)
		case "k", "up":
			v.viewport.ScrollUp(1)
		case "pgdown":
			v.viewport.PageDown()
		case "pgup":
			v.viewport.PageUp()
		}
	}
	return v, nil
}

func (v *HistoryView) render() {
	var lines []string
	if v.notice != "" {
		lines = append(lines, v.notice, "")
	}
	if v.history.Len() == 0 {
		lines = append(lines, StyleDimmed.Render("No questions asked yet."))
		v.viewport.SetContentLines(lines)
		return
	}

	lines = append(lines, StyleTitle.Render("📈 Statistics"))
	for _, s := range v.history.Stats() {
		label := s.Provider.Label()
		lines = append(lines, fmt.Sprintf("  Avg %s Time: %.2fs   %s Success %%: %.0f%%   (%d attempts)",
			label, s.AvgGenerationSeconds, label, s.SuccessRate(), s.Attempts))
	}
	lines = append(lines, "", StyleTitle.Render(fmt.Sprintf("🕘 Last %d of %d questions", min(session.DefaultHistoryView, v.history.Len()), v.history.Len())))

	for _, rec := range v.history.Last(session.DefaultHistoryView) {
		lines = append(lines, StyleBold.Render(rec.Timestamp.Format("15:04:05")+"  "+rec.Question)+
			StyleDimmed.Render("  ["+rec.Mode.Label()+"]"))
		for _, o := range rec.Outcomes {
			rows := ""
			if o.Success {
				rows = fmt.Sprintf(" · %d rows", o.Rows)
			}
			lines = append(lines, fmt.Sprintf("    %s %s %s", outcomeStatus(o), o.Provider.Label(),
				StyleDimmed.Render(fmt.Sprintf("%.2fs%s", o.GenerationSeconds, rows))))
			if o.SQL != "" {
				lines = append(lines, StyleDimmed.Render("      "+strings.ReplaceAll(o.SQL, "\n", " ")))
			}
		}
	}
	v.viewport.SetContentLines(lines)
}

func (v *HistoryView) View() string {
	return v.viewport.Render()
}
