package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/DachengChen/trinoai/ai"
)

// DefaultHistoryView is how many records the dashboard lists.
const DefaultHistoryView = 10

// History is the in-memory list of asked questions, oldest first.
type History struct {
	mu      sync.RWMutex
	records []Record
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Add appends a record.
func (h *History) Add(r Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
}

// Len returns the number of records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Last returns up to n records, newest first.
func (h *History) Last(n int) []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n = min(max(n, 0), len(h.records))
	out := make([]Record, 0, n)
	for i := len(h.records) - 1; i >= len(h.records)-n; i-- {
		out = append(out, h.records[i])
	}
	return out
}

// Records returns a copy of all records, oldest first.
func (h *History) Records() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Record(nil), h.records...)
}

// ProviderStats aggregates every attempt a backend made.
type ProviderStats struct {
	Provider             ai.Kind
	Attempts             int
	Successes            int
	AvgGenerationSeconds float64
}

// SuccessRate is Successes / Attempts as a percentage.
func (s ProviderStats) SuccessRate() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Attempts) * 100
}

// Stats returns per-provider statistics in compare order, omitting
// providers that were never asked.
func (h *History) Stats() []ProviderStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	byKind := make(map[ai.Kind]*ProviderStats)
	totals := make(map[ai.Kind]float64)
	for _, r := range h.records {
		for _, o := range r.Outcomes {
			s, ok := byKind[o.Provider]
			if !ok {
				s = &ProviderStats{Provider: o.Provider}
				byKind[o.Provider] = s
			}
			s.Attempts++
			totals[o.Provider] += o.GenerationSeconds
			if o.Success {
				s.Successes++
			}
		}
	}

	var out []ProviderStats
	for _, k := range ai.SupportedProviders {
		s, ok := byKind[k]
		if !ok {
			continue
		}
		s.AvgGenerationSeconds = totals[k] / float64(s.Attempts)
		out = append(out, *s)
	}
	return out
}

// ExportJSON renders all records as an indented JSON array.
func (h *History) ExportJSON() ([]byte, error) {
	records := h.Records()
	if records == nil {
		records = []Record{}
	}
	return json.MarshalIndent(records, "", "  ")
}

// ExportFilename names an export written at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("query_history_%s.json", t.Format("20060102_150405"))
}

// WriteFile exports the history into dir and returns the written path.
func (h *History) WriteFile(dir string, now time.Time) (string, error) {
	data, err := h.ExportJSON()
	if err != nil {
		return "", fmt.Errorf("encode history: %w", err)
	}
	path := filepath.Join(dir, ExportFilename(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write history: %w", err)
	}
	return path, nil
}
