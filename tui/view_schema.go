package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/DachengChen/trinoai/db"
	"github.com/DachengChen/trinoai/session"
	tea "github.com/charmbracelet/bubbletea"
)

// SchemaView summarizes the cached catalog and refreshes it on demand.
type SchemaView struct {
	state   *session.State
	engine  db.Engine
	catalog string

	loading  bool
	err      error
	viewport *Viewport
}

// NewSchemaView creates the Schema panel for the named Trino catalog.
func NewSchemaView(state *session.State, engine db.Engine, catalog string) *SchemaView {
	v := &SchemaView{state: state, engine: engine, catalog: catalog, viewport: NewViewport(80, 20)}
	v.render()
	return v
}

func (v *SchemaView) Init() tea.Cmd { return nil }

func (v *SchemaView) Name() string { return "Schema" }

func (v *SchemaView) WantsTextInput() bool { return false }

func (v *SchemaView) SetSize(w, h int) { v.viewport.SetSize(w, max(h-1, 1)) }

func (v *SchemaView) ShortHelp() []KeyBinding {
	return []KeyBinding{
		{Key: "r", Desc: "refresh"},
		{Key: "j/k", Desc: "scroll"},
	}
}

// Refresh reloads the catalog asynchronously.
func (v *SchemaView) Refresh() tea.Cmd {
	if v.engine == nil {
		return func() tea.Msg { return SchemaLoadedMsg{Err: errNotConnected} }
	}
	v.loading = true
	v.render()
	state, engine := v.state, v.engine
	return func() tea.Msg {
		return SchemaLoadedMsg{Err: state.Refresh(context.Background(), engine)}
	}
}

func (v *SchemaView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case SchemaLoadedMsg:
		v.loading = false
		v.err = msg.Err
		v.render()
		return v, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if !v.loading {
				return v, v.Refresh()
			}
		case "j", "down":
			v.viewport.ScrollDown(1)
		case "k", "up":
			v.viewport.ScrollUp(1)
		case "pgdown":
			v.viewport.PageDown()
		case "pgup":
			v.viewport.PageUp()
		case "g":
			v.viewport.Home()
		case "G":
			v.viewport.End()
		}
	}
	return v, nil
}

func (v *SchemaView) render() {
	var lines []string
	snap, _ := v.state.Snapshot()
	err := v.err

	if v.loading {
		lines = append(lines, StyleDimmed.Render("⏳ Loading schema..."), "")
	}
	if err != nil {
		lines = append(lines, StyleError.Render("Error loading schema: "+err.Error()), "")
	}
	if snap == nil {
		if !v.loading && err == nil {
			lines = append(lines, StyleDimmed.Render("No schema loaded. Press r to load."))
		}
		v.viewport.SetContentLines(lines)
		return
	}

	lines = append(lines,
		StyleTitle.Render("🗂 "+v.catalog),
		fmt.Sprintf("%d schemas · %d tables · loaded %s",
			len(snap.Catalog), snap.Catalog.TableCount(), v.state.LoadedAt().Format("15:04:05")),
		"",
	)
	for _, s := range snap.Catalog {
		lines = append(lines, StyleBold.Render(fmt.Sprintf("📁 %s", s.Name))+StyleDimmed.Render(fmt.Sprintf(" (%d tables)", len(s.Tables))))
		for _, t := range s.Tables {
			lines = append(lines, fmt.Sprintf("    %s %s", t.Name, StyleDimmed.Render(fmt.Sprintf("%d cols", len(t.Columns)))))
		}
	}
	if len(snap.SkippedSchemas) > 0 {
		lines = append(lines, "", StyleWarning.Render("Skipped schemas:"))
		for _, s := range snap.SkippedSchemas {
			lines = append(lines, "  "+s.String())
		}
	}
	if len(snap.SkippedTables) > 0 {
		lines = append(lines, "", StyleWarning.Render("Skipped tables:"))
		for _, t := range snap.SkippedTables {
			lines = append(lines, "  "+t.String())
		}
	}
	v.viewport.SetContentLines(lines)
}

func (v *SchemaView) View() string {
	return strings.TrimRight(v.viewport.Render(), "\n")
}
