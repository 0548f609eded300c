// view_ask.go is the main panel: type a question, pick a backend mode,
// and read each backend's explanation, SQL and result table.
package tui

import (
	"context"
	"strings"

	"github.com/DachengChen/trinoai/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ExampleQuestions are offered with ctrl+n.
var ExampleQuestions = []string{
	"Show me all tables in dbt_marts",
	"Count rows in each table",
	"Show the first 10 rows from customers",
	"What are the top 5 customers by revenue?",
	"Group sales by month for 2024",
}

// maxDisplayRows bounds each result table in the dashboard.
const maxDisplayRows = 50

// AskView handles question entry and result display.
type AskView struct {
	runner *session.Runner
	state  *session.State

	input   string
	mode    int
	example int
	busy    bool
	last    *session.Record

	viewport *Viewport
	width    int
	height   int
}

// NewAskView creates the Ask panel. Ollama is the default mode.
func NewAskView(runner *session.Runner, state *session.State) *AskView {
	return &AskView{
		runner:   runner,
		state:    state,
		example:  -1,
		viewport: NewViewport(80, 20),
	}
}

func (v *AskView) Init() tea.Cmd { return nil }

func (v *AskView) Name() string { return "Ask" }

func (v *AskView) WantsTextInput() bool { return true }

// Mode returns the selected backend mode.
func (v *AskView) Mode() session.Mode { return session.Modes[v.mode] }

// SetMode selects m.
func (v *AskView) SetMode(m session.Mode) {
	for i, known := range session.Modes {
		if known == m {
			v.mode = i
		}
	}
}

func (v *AskView) SetSize(w, h int) {
	v.width = w
	v.height = h
	// prompt(1) + mode bar(1) + blank(1) + scroll indicator(1)
	v.viewport.SetSize(w, max(h-4, 1))
}

func (v *AskView) ShortHelp() []KeyBinding {
	return []KeyBinding{
		{Key: "Enter", Desc: "ask"},
		{Key: "Ctrl+B", Desc: "mode"},
		{Key: "Ctrl+N", Desc: "example"},
		{Key: "Ctrl+K/J", Desc: "scroll"},
	}
}

func (v *AskView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case AskResultMsg:
		v.busy = false
		rec := msg.Record
		v.state.History.Add(rec)
		v.last = &rec
		v.viewport.SetContent(RenderRecord(rec, maxDisplayRows))
		v.viewport.Home()
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *AskView) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		q := strings.TrimSpace(v.input)
		if q == "" || v.busy {
			return v, nil
		}
		v.busy = true
		v.viewport.SetContent(StyleDimmed.Render("⏳ Asking " + v.Mode().Label() + "..."))
		return v, v.ask(q, v.Mode())
	case "ctrl+b":
		v.mode = (v.mode + 1) % len(session.Modes)
	case "ctrl+n":
		v.example = (v.example + 1) % len(ExampleQuestions)
		v.input = ExampleQuestions[v.example]
	case "ctrl+u":
		v.input = ""
	case "backspace":
		if r := []rune(v.input); len(r) > 0 {
			v.input = string(r[:len(r)-1])
		}
	case "ctrl+k", "up":
		v.viewport.ScrollUp(1)
	case "ctrl+j", "down":
		v.viewport.ScrollDown(1)
	case "pgup":
		v.viewport.PageUp()
	case "pgdown":
		v.viewport.PageDown()
	case "ctrl+w":
		v.viewport.ToggleWrap()
	default:
		if msg.Type == tea.KeyRunes {
			v.input += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			v.input += " "
		}
	}
	return v, nil
}

// ask runs the question off the UI goroutine.
func (v *AskView) ask(question string, mode session.Mode) tea.Cmd {
	catalog := v.state.Catalog()
	runner := v.runner
	return func() tea.Msg {
		return AskResultMsg{Record: runner.Ask(context.Background(), question, mode, catalog)}
	}
}

func (v *AskView) View() string {
	prompt := StylePrompt.Render("❯ ") + v.input
	if !v.busy {
		prompt += "█"
	}

	var modes []string
	for i, m := range session.Modes {
		if i == v.mode {
			modes = append(modes, StyleSelected.Render("● "+m.Label()))
		} else {
			modes = append(modes, StyleDimmed.Render("○ "+m.Label()))
		}
	}
	modeBar := strings.Join(modes, "  ")
	if len(v.state.Catalog()) == 0 {
		modeBar += "  " + StyleWarning.Render("(no schema loaded)")
	}

	body := v.viewport.Render()
	if v.last == nil && !v.busy {
		body = v.placeholder()
	}
	return lipgloss.JoinVertical(lipgloss.Left, prompt, modeBar, "", body)
}

func (v *AskView) placeholder() string {
	lines := []string{StyleDimmed.Render("Ask a question about your lakehouse. Examples:"), ""}
	for i, q := range ExampleQuestions {
		style := StyleDimmed
		if i == v.example {
			style = StyleSelected
		}
		lines = append(lines, style.Render("  • "+q))
	}
	return strings.Join(lines, "\n")
}
