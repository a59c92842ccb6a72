package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
)

// Memory is an append-only log of conversation turns owned by a single
// session. Construct one per logical conversation; the package keeps no
// shared state.
type Memory struct {
	turns []domain.Turn
}

// New creates an empty conversation memory.
func New() *Memory { return &Memory{} }

// Append records one turn at the end of the history.
func (m *Memory) Append(role domain.Role, text string) {
	m.turns = append(m.turns, domain.Turn{Role: role, Text: text})
}

// History returns the turns in chronological order. The returned slice is
// a copy; mutating it does not affect the memory.
func (m *Memory) History() []domain.Turn {
	out := make([]domain.Turn, len(m.turns))
	copy(out, m.turns)
	return out
}

// Len returns the number of recorded turns.
func (m *Memory) Len() int { return len(m.turns) }

// DropLast removes the most recent turn. Used to roll back a question
// whose answer never arrived.
func (m *Memory) DropLast() {
	if len(m.turns) > 0 {
		m.turns = m.turns[:len(m.turns)-1]
	}
}

// Clear empties the history. The reset is in-memory only; call Persist to
// make it durable.
func (m *Memory) Clear() {
	m.turns = nil
}

// record is the on-disk shape of one turn.
type record struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

const (
	recordHuman = "human"
	recordAI    = "ai"
)

// Persist writes the full ordered history as a JSON array of
// {type, content} records.
func (m *Memory) Persist(path string) error {
	records := make([]record, 0, len(m.turns))
	for _, t := range m.turns {
		typ := recordHuman
		if t.Role == domain.RoleAssistant {
			typ = recordAI
		}
		records = append(records, record{Type: typ, Content: t.Text})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode chat memory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create memory directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write chat memory: %w", err)
	}
	return nil
}

// Restore replays a persisted history in its stored order, replacing the
// current turns. A missing file is not an error; the memory starts empty.
func (m *Memory) Restore(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read chat memory: %w", err)
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("decode chat memory: %w", err)
	}
	m.turns = nil
	for _, r := range records {
		switch r.Type {
		case recordHuman:
			m.Append(domain.RoleUser, r.Content)
		case recordAI:
			m.Append(domain.RoleAssistant, r.Content)
		}
	}
	return nil
}
