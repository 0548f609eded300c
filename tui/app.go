// app.go is the top-level Bubble Tea model that orchestrates all views.
//
// Key design decisions:
//   - Tab-based navigation between Ask, Schema, History and Status
//   - Command mode (`:`) for quick actions
//   - Jump mode (`/`) for quick view switching
//   - Help overlay (`?`) toggled on/off
//   - Async results are broadcast to every view, so a question that
//     finishes while another tab is active is not lost
package tui

import (
	"fmt"
	"strings"

	"github.com/DachengChen/trinoai/ai"
	"github.com/DachengChen/trinoai/apperr"
	"github.com/DachengChen/trinoai/config"
	"github.com/DachengChen/trinoai/db"
	"github.com/DachengChen/trinoai/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Version is shown in the header; cmd overrides it at build time.
var Version = "0.1.0"

// Tab indices.
const (
	TabAsk = iota
	TabSchema
	TabHistory
	TabStatus
)

// InputMode determines what keystrokes do.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCommand
	ModeJump
)

var errNotConnected = apperr.New(apperr.KindConnection, "not connected to Trino").
	WithSuggestion("Make sure Trino is running: docker compose ps trino")

// Deps is everything the dashboard needs from the outside.
type Deps struct {
	Config    *config.Config
	Engine    db.Engine // nil when the startup connection failed
	ConnErr   error
	Registry  *ai.Registry
	Ollama    Pinger
	State     *session.State
	Runner    *session.Runner
	ExportDir string
}

// App is the root Bubble Tea model.
type App struct {
	deps      Deps
	views     []View
	activeTab int

	width     int
	height    int
	mode      InputMode
	cmdInput  string
	showHelp  bool
	statusMsg string
}

// NewApp builds the dashboard with all four tabs.
func NewApp(deps Deps) *App {
	if deps.ExportDir == "" {
		deps.ExportDir = "."
	}
	ask := NewAskView(deps.Runner, deps.State)
	if m, err := session.ParseMode(deps.Config.AI.Backend); err == nil {
		ask.SetMode(m)
	}
	return &App{
		deps: deps,
		views: []View{
			ask,
			NewSchemaView(deps.State, deps.Engine, deps.Config.Trino.Catalog),
			NewHistoryView(deps.State.History, deps.ExportDir),
			NewStatusView(deps.Config, deps.Engine, deps.Ollama, deps.Registry),
		},
		activeTab: TabAsk,
	}
}

// Init loads the schema, or reports why it cannot.
func (a *App) Init() tea.Cmd {
	if a.deps.Engine == nil {
		err := a.deps.ConnErr
		if err == nil {
			err = errNotConnected
		}
		a.statusMsg = StyleError.Render("Trino unavailable: " + firstLine(err.Error()))
		return func() tea.Msg { return SchemaLoadedMsg{Err: err} }
	}
	return a.schemaView().Refresh()
}

func (a *App) schemaView() *SchemaView { return a.views[TabSchema].(*SchemaView) }

func (a *App) askView() *AskView { return a.views[TabAsk].(*AskView) }

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// header(1) + status(1) + borders(2) + slack(1)
		contentW := a.width - 2
		viewH := a.height - 5
		for _, v := range a.views {
			v.SetSize(contentW, viewH)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case StatusMsg:
		a.statusMsg = string(msg)
		return a, nil

	case SchemaLoadedMsg:
		if msg.Err == nil {
			a.statusMsg = StyleSuccess.Render(fmt.Sprintf("schema loaded: %d tables", a.deps.State.Catalog().TableCount()))
		}

	case AskResultMsg:
		a.statusMsg = ""
	}

	return a, a.broadcast(msg)
}

// broadcast forwards a non-key message to every view.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, v := range a.views {
		updated, cmd := v.Update(msg)
		a.views[i] = updated
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := a.views[a.activeTab].Update(msg)
	a.views[a.activeTab] = updated
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case ModeCommand:
		return a.handlePromptMode(msg, a.executeCommand)
	case ModeJump:
		return a.handlePromptMode(msg, func(input string) tea.Cmd {
			a.jumpToView(input)
			return a.views[a.activeTab].Init()
		})
	}

	// Keys every view shares, text input or not.
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "tab":
		return a.switchTab((a.activeTab + 1) % len(a.views))
	case "shift+tab":
		return a.switchTab((a.activeTab + len(a.views) - 1) % len(a.views))
	case "f1", "f2", "f3", "f4":
		return a.switchTab(int(msg.String()[1] - '1'))
	}

	if a.views[a.activeTab].WantsTextInput() {
		return a.forward(msg)
	}

	switch msg.String() {
	case "?":
		a.showHelp = !a.showHelp
		return a, nil
	case ":":
		a.mode = ModeCommand
		a.cmdInput = ""
		return a, nil
	case "/":
		a.mode = ModeJump
		a.cmdInput = ""
		return a, nil
	case "esc":
		a.showHelp = false
		a.statusMsg = ""
		return a, nil
	}
	return a.forward(msg)
}

// handlePromptMode edits the status-bar input shared by `:` and `/`.
func (a *App) handlePromptMode(msg tea.KeyMsg, submit func(string) tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		input := a.cmdInput
		a.mode = ModeNormal
		a.cmdInput = ""
		return a, submit(input)
	case "esc", "ctrl+c":
		a.mode = ModeNormal
		a.cmdInput = ""
		return a, nil
	case "backspace":
		if r := []rune(a.cmdInput); len(r) > 0 {
			a.cmdInput = string(r[:len(r)-1])
		}
		return a, nil
	}
	if msg.Type == tea.KeyRunes {
		a.cmdInput += string(msg.Runes)
	} else if msg.Type == tea.KeySpace {
		a.cmdInput += " "
	}
	return a, nil
}

func (a *App) switchTab(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(a.views) {
		return a, nil
	}
	a.activeTab = idx
	a.showHelp = false
	return a, a.views[a.activeTab].Init()
}

func (a *App) jumpToView(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, v := range a.views {
		if strings.Contains(strings.ToLower(v.Name()), name) {
			a.activeTab = i
			return
		}
	}
	a.statusMsg = "view not found: " + name
}

func (a *App) executeCommand(input string) tea.Cmd {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "q", "quit":
		return tea.Quit
	case "refresh":
		a.activeTab = TabSchema
		return a.schemaView().Refresh()
	case "export":
		a.activeTab = TabHistory
		return a.views[TabHistory].(*HistoryView).export()
	case "mode":
		if len(fields) < 2 {
			a.statusMsg = "usage: mode ollama|claude|mistral|all"
			return nil
		}
		m, err := session.ParseMode(fields[1])
		if err != nil {
			a.statusMsg = StyleError.Render(err.Error())
			return nil
		}
		a.askView().SetMode(m)
		a.activeTab = TabAsk
		return nil
	default:
		a.statusMsg = "unknown command: " + input
		return nil
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}

	var content string
	if a.showHelp {
		content = a.renderHelp()
	} else {
		content = lipgloss.JoinVertical(lipgloss.Left, a.renderTabBar(), a.views[a.activeTab].View())
	}

	frame := StyleBorder.
		Width(a.width - 2).
		Height(max(a.height-4, 0)).
		Render(content)

	return a.renderHeader() + "\n" + frame + "\n" + a.renderStatusBar()
}

// renderHeader draws logo + version + Trino target.
func (a *App) renderHeader() string {
	left := StyleBold.Render("🔷 trinoai") + StyleDimmed.Render(" v"+Version)

	t := a.deps.Config.Trino
	target := fmt.Sprintf("%s/%s.%s", t.ServerURI(), t.Catalog, t.Schema)
	if a.deps.Engine != nil {
		left += StyleSuccess.Render("  ⚡ " + target)
	} else {
		left += StyleError.Render("  ✗ " + target)
	}

	right := StyleDimmed.Render(fmt.Sprintf("%d×%d", a.width, a.height))
	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return lipgloss.NewStyle().
		Width(a.width).
		Render(left + strings.Repeat(" ", gap) + right)
}

func (a *App) renderTabBar() string {
	var tabs []string
	for i, v := range a.views {
		label := fmt.Sprintf("F%d %s", i+1, v.Name())
		if i == a.activeTab {
			tabs = append(tabs, StyleTabActive.Render(label))
		} else {
			tabs = append(tabs, StyleTabInactive.Render(label))
		}
	}
	return strings.Join(tabs, StyleDimmed.Render("│"))
}

func (a *App) renderStatusBar() string {
	var content string
	switch a.mode {
	case ModeCommand:
		content = StylePrompt.Render(":") + a.cmdInput + "█"
	case ModeJump:
		content = StylePrompt.Render("/") + a.cmdInput + "█"
	default:
		var parts []string
		for _, h := range a.getHelpItems() {
			parts = append(parts, StyleHelpKey.Render(h.Key)+" "+StyleHelpDesc.Render(h.Desc))
		}
		content = strings.Join(parts, "  │  ")
		if a.statusMsg != "" {
			content = a.statusMsg + "  │  " + content
		}
	}
	return StyleStatusBar.Width(a.width).Render(content)
}

func (a *App) getHelpItems() []KeyBinding {
	global := []KeyBinding{{Key: "Tab", Desc: "switch"}}
	if !a.views[a.activeTab].WantsTextInput() {
		global = append(global, KeyBinding{Key: "?", Desc: "help"})
	}
	global = append(global, KeyBinding{Key: "Ctrl+C", Desc: "quit"})
	return append(a.views[a.activeTab].ShortHelp(), global...)
}

func (a *App) renderHelp() string {
	help := []string{
		StyleTitle.Render("⌨ trinoai Keyboard Shortcuts"),
		"",
		StyleHelpKey.Render("Tab / Shift+Tab") + "  Switch between views",
		StyleHelpKey.Render("F1-F4") + "            Ask, Schema, History, Status",
		StyleHelpKey.Render("/") + "                Jump to view by name",
		StyleHelpKey.Render("?") + "                Toggle this help",
		StyleHelpKey.Render("Ctrl+C") + "           Quit",
		"",
		StyleTitle.Render("Ask"),
		"",
		StyleHelpKey.Render("Enter") + "            Ask the selected backend(s)",
		StyleHelpKey.Render("Ctrl+B") + "           Cycle backend mode",
		StyleHelpKey.Render("Ctrl+N") + "           Next example question",
		StyleHelpKey.Render("Ctrl+K/J") + "         Scroll results",
		StyleHelpKey.Render("Ctrl+W") + "           Toggle wrapping",
		"",
		StyleTitle.Render("Commands"),
		"",
		StyleHelpKey.Render(":refresh") + "         Reload schema",
		StyleHelpKey.Render(":export") + "          Export history to JSON",
		StyleHelpKey.Render(":mode <name>") + "     ollama, claude, mistral or all",
		StyleHelpKey.Render(":quit") + "            Quit",
		"",
		StyleDimmed.Render("Press ? to close"),
	}

	return lipgloss.NewStyle().
		Width(a.width-4).
		Padding(1, 2).
		Render(strings.Join(help, "\n"))
}
