// Package session holds the dashboard's explicit application state:
// query history, per-provider statistics, the cached catalog and the
// runner that asks one or more backends a question.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DachengChen/trinoai/ai"
	"github.com/DachengChen/trinoai/db"
)

// Mode selects which backends answer a question.
type Mode string

const (
	ModeOllama  Mode = "ollama"
	ModeClaude  Mode = "claude"
	ModeMistral Mode = "mistral"
	ModeAll     Mode = "all"
)

// Modes lists the selectable modes in display order; ModeOllama is the default.
var Modes = []Mode{ModeOllama, ModeClaude, ModeMistral, ModeAll}

// ParseMode maps a name to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown backend mode %q (supported: ollama, claude, mistral, all)", s)
}

// Kinds returns the backends a mode runs, in execution order.
func (m Mode) Kinds() []ai.Kind {
	switch m {
	case ModeClaude:
		return []ai.Kind{ai.KindClaude}
	case ModeMistral:
		return []ai.Kind{ai.KindMistral}
	case ModeAll:
		return ai.CompareOrder
	default:
		return []ai.Kind{ai.KindOllama}
	}
}

// Label is the selector text for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeClaude:
		return "Claude API"
	case ModeMistral:
		return "Mistral AI"
	case ModeAll:
		return "Compare All"
	default:
		return "Local Ollama"
	}
}

// Outcome is one backend's attempt at a question.
type Outcome struct {
	Provider          ai.Kind `json:"provider"`
	Model             string  `json:"model"`
	SQL               string  `json:"sql,omitempty"`
	Explanation       string  `json:"explanation,omitempty"`
	GenerationSeconds float64 `json:"generation_seconds"`
	GenerationError   string  `json:"generation_error,omitempty"`
	ExecutionSeconds  float64 `json:"execution_seconds,omitempty"`
	ExecutionError    string  `json:"execution_error,omitempty"`
	Rows              int     `json:"rows"`
	Success           bool    `json:"success"`

	// Result holds the fetched rows for display; it is not exported.
	Result *db.QueryResult `json:"-"`
}

// Executed reports whether the generated SQL reached the engine. Every
// successful generation is executed, even when extraction left no SQL.
func (o Outcome) Executed() bool {
	return o.GenerationError == ""
}

// Record is one question and every backend outcome, in execution order.
type Record struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Question  string    `json:"question"`
	Mode      Mode      `json:"mode"`
	Outcomes  []Outcome `json:"outcomes"`
}

// NewRecord starts a record for question.
func NewRecord(question string, mode Mode, now time.Time) Record {
	return Record{
		ID:        uuid.New(),
		Timestamp: now,
		Question:  question,
		Mode:      mode,
	}
}
