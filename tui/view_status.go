// view_status.go shows connection health, configured models and the
// docker commands most often needed when the stack misbehaves.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/DachengChen/trinoai/ai"
	"github.com/DachengChen/trinoai/config"
	"github.com/DachengChen/trinoai/db"
	tea "github.com/charmbracelet/bubbletea"
)

// Pinger is anything that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// checkState tracks one health check.
type checkState int

const (
	checkIdle checkState = iota
	checkRunning
	checkDone
)

// StatusView runs connection checks on demand.
type StatusView struct {
	cfg      *config.Config
	engine   db.Engine
	ollama   Pinger
	registry *ai.Registry

	trino       checkState
	trinoErr    error
	ollamaState checkState
	ollamaErr   error

	viewport *Viewport
}

// NewStatusView creates the Status panel. engine may be nil when the
// startup connection failed.
func NewStatusView(cfg *config.Config, engine db.Engine, ollama Pinger, registry *ai.Registry) *StatusView {
	return &StatusView{cfg: cfg, engine: engine, ollama: ollama, registry: registry, viewport: NewViewport(80, 20)}
}

func (v *StatusView) Init() tea.Cmd {
	v.render()
	return nil
}

func (v *StatusView) Name() string { return "Status" }

func (v *StatusView) WantsTextInput() bool { return false }

func (v *StatusView) SetSize(w, h int) { v.viewport.SetSize(w, max(h-1, 1)) }

func (v *StatusView) ShortHelp() []KeyBinding {
	return []KeyBinding{
		{Key: "t", Desc: "test Trino"},
		{Key: "o", Desc: "check Ollama"},
	}
}

func (v *StatusView) testTrino() tea.Cmd {
	v.trino = checkRunning
	v.render()
	engine := v.engine
	return func() tea.Msg {
		if engine == nil {
			return TrinoCheckMsg{Err: errNotConnected}
		}
		return TrinoCheckMsg{Err: engine.Ping(context.Background())}
	}
}

func (v *StatusView) checkOllama() tea.Cmd {
	v.ollamaState = checkRunning
	v.render()
	ollama := v.ollama
	return func() tea.Msg {
		return OllamaCheckMsg{Err: ollama.Ping(context.Background())}
	}
}

func (v *StatusView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case TrinoCheckMsg:
		v.trino, v.trinoErr = checkDone, msg.Err
		v.render()
	case OllamaCheckMsg:
		v.ollamaState, v.ollamaErr = checkDone, msg.Err
		v.render()
	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			if v.trino != checkRunning {
				return v, v.testTrino()
			}
		case "o":
			if v.ollamaState != checkRunning && v.ollama != nil {
				return v, v.checkOllama()
			}
		case "j", "down":
			v.viewport.ScrollDown(1)
		case "k", "up":
			v.viewport.ScrollUp(1)
		}
	}
	return v, nil
}

func (v *StatusView) render() {
	t := v.cfg.Trino
	lines := []string{
		StyleTitle.Render("🔌 Trino"),
		checkLine(v.trino, v.trinoErr, "✅ Connected", "❌ Failed", "Run: docker-compose up -d trino"),
		fmt.Sprintf("  Host:    %s", t.Address()),
		fmt.Sprintf("  User:    %s", t.User),
		fmt.Sprintf("  Catalog: %s", t.Catalog),
		fmt.Sprintf("  Schema:  %s", t.Schema),
		fmt.Sprintf("  Scheme:  %s", t.HTTPScheme),
	}
	if t.SSH.Enabled {
		lines = append(lines, fmt.Sprintf("  Tunnel:  %s@%s:%d", t.SSH.User, t.SSH.Host, t.SSH.Port))
	}

	lines = append(lines, "", StyleTitle.Render("🤖 Models"),
		checkLine(v.ollamaState, v.ollamaErr, "✅ Ollama running", "❌ Ollama unreachable", "Run: `ollama serve`"))
	for _, kind := range ai.CompareOrder {
		lines = append(lines, "  "+v.modelLine(kind))
	}

	lines = append(lines, "", StyleTitle.Render("🐳 Docker"),
		"  "+StyleHelpKey.Render("docker-compose ps")+StyleDimmed.Render("             list services"),
		"  "+StyleHelpKey.Render("docker-compose logs trino -f")+StyleDimmed.Render("  follow Trino logs"),
		"  "+StyleHelpKey.Render("docker-compose restart trino")+StyleDimmed.Render("  restart Trino"),
	)
	v.viewport.SetContentLines(lines)
}

func (v *StatusView) modelLine(kind ai.Kind) string {
	p, err := v.registry.Get(kind)
	if err != nil {
		return StyleError.Render(kind.Label() + ": " + err.Error())
	}
	if err := p.Ready(); err != nil {
		return StyleWarning.Render("⚠️ "+p.Name()) + StyleDimmed.Render("  "+err.Error())
	}
	return StyleSuccess.Render("● ") + p.Name()
}

func checkLine(state checkState, err error, ok, failed, hint string) string {
	switch state {
	case checkRunning:
		return StyleDimmed.Render("  ⏳ Checking...")
	case checkDone:
		if err != nil {
			return "  " + StyleError.Render(failed) + StyleDimmed.Render(": "+firstLine(err.Error())) + "\n  " + StyleDimmed.Render(hint)
		}
		return "  " + StyleSuccess.Render(ok)
	default:
		return StyleDimmed.Render("  not checked yet")
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func (v *StatusView) View() string {
	return v.viewport.Render()
}
