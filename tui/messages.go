// messages.go defines Bubble Tea messages used for async communication.
//
// Backend calls, query execution and catalog refreshes run inside
// tea.Cmds and report back through these types, so the UI never blocks.
package tui

import (
	"github.com/DachengChen/trinoai/session"
)

// AskResultMsg is sent when every backend of a question has finished.
type AskResultMsg struct {
	Record session.Record
}

// SchemaLoadedMsg is sent when a catalog refresh completes.
type SchemaLoadedMsg struct {
	Err error
}

// TrinoCheckMsg carries the result of the connection test.
type TrinoCheckMsg struct {
	Err error
}

// OllamaCheckMsg carries the result of the Ollama health check.
type OllamaCheckMsg struct {
	Err error
}

// ExportMsg is sent when the history export finishes.
type ExportMsg struct {
	Path string
	Err  error
}

// StatusMsg is a transient status message for the status bar.
type StatusMsg string
