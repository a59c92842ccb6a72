package memory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
)

func TestAppendAndHistory(t *testing.T) {
	mem := New()
	mem.Append(domain.RoleUser, "hi")
	mem.Append(domain.RoleAssistant, "hello")

	turns := mem.History()
	require.Len(t, turns, 2)
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Text: "hi"}, turns[0])
	assert.Equal(t, domain.Turn{Role: domain.RoleAssistant, Text: "hello"}, turns[1])
}

func TestHistoryReturnsCopy(t *testing.T) {
	mem := New()
	mem.Append(domain.RoleUser, "hi")
	turns := mem.History()
	turns[0].Text = "changed"
	assert.Equal(t, "hi", mem.History()[0].Text)
}

func TestPersistRestoreRoundTrip(t *testing.T) {
	mem := New()
	mem.Append(domain.RoleUser, "what was MSFT revenue?")
	mem.Append(domain.RoleAssistant, "Revenue was $45.3B.")
	mem.Append(domain.RoleUser, "and the year before?")

	path := filepath.Join(t.TempDir(), "nested", "chat_memory.json")
	require.NoError(t, mem.Persist(path))

	restored := New()
	require.NoError(t, restored.Restore(path))
	assert.Equal(t, mem.History(), restored.History())
}

func TestPersistedFormat(t *testing.T) {
	mem := New()
	mem.Append(domain.RoleUser, "hi")
	mem.Append(domain.RoleAssistant, "hello")

	path := filepath.Join(t.TempDir(), "chat_memory.json")
	require.NoError(t, mem.Persist(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []map[string]string
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "human", records[0]["type"])
	assert.Equal(t, "hi", records[0]["content"])
	assert.Equal(t, "ai", records[1]["type"])
	assert.Equal(t, "hello", records[1]["content"])
}

func TestRestoreMissingPathIsNoop(t *testing.T) {
	mem := New()
	require.NoError(t, mem.Restore(filepath.Join(t.TempDir(), "absent.json")))
	assert.Empty(t, mem.History())
}

func TestRestoreReplacesExistingTurns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_memory.json")
	saved := New()
	saved.Append(domain.RoleUser, "persisted")
	require.NoError(t, saved.Persist(path))

	mem := New()
	mem.Append(domain.RoleUser, "stale")
	require.NoError(t, mem.Restore(path))
	turns := mem.History()
	require.Len(t, turns, 1)
	assert.Equal(t, "persisted", turns[0].Text)
}

func TestClearThenPersistRoundTrip(t *testing.T) {
	mem := New()
	mem.Append(domain.RoleUser, "hi")
	mem.Clear()
	assert.Empty(t, mem.History())

	path := filepath.Join(t.TempDir(), "chat_memory.json")
	require.NoError(t, mem.Persist(path))

	restored := New()
	require.NoError(t, restored.Restore(path))
	assert.Empty(t, restored.History())
}

func TestDropLast(t *testing.T) {
	mem := New()
	mem.DropLast() // empty memory is fine
	mem.Append(domain.RoleUser, "q1")
	mem.Append(domain.RoleAssistant, "a1")
	mem.DropLast()
	turns := mem.History()
	require.Len(t, turns, 1)
	assert.Equal(t, "q1", turns[0].Text)
}
