package synth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/memory"
)

// stubGenerator records the prompt and returns a fixed answer or error.
type stubGenerator struct {
	prompt string
	answer string
	err    error
}

func (g *stubGenerator) Generate(prompt string) (string, error) {
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func contextChunks() []domain.SearchResult {
	return []domain.SearchResult{
		{Chunk: domain.Chunk{
			Text:     "Revenue was $45.3B this quarter.",
			Metadata: domain.Metadata{Company: "MSFT", Filename: "2021-Apr-15-MSFT.txt"},
		}, Score: 0.9},
		{Chunk: domain.Chunk{
			Text:     "Cloud grew 50 percent.",
			Metadata: domain.Metadata{Company: "MSFT", Filename: "2021-Jan-10-MSFT.txt"},
		}, Score: 0.8},
	}
}

func TestSynthesizeRecordsTurnPair(t *testing.T) {
	gen := &stubGenerator{answer: "  Revenue was $45.3B.  "}
	s := New(gen, nil)
	mem := memory.New()

	answer, err := s.Synthesize(contextChunks(), "What was MSFT revenue?", mem)
	require.NoError(t, err)
	assert.Equal(t, "Revenue was $45.3B.", answer.Text)
	assert.Equal(t, []string{"2021-Apr-15-MSFT.txt", "2021-Jan-10-MSFT.txt"}, answer.Sources)

	turns := mem.History()
	require.Len(t, turns, 2)
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Text: "What was MSFT revenue?"}, turns[0])
	assert.Equal(t, domain.Turn{Role: domain.RoleAssistant, Text: "Revenue was $45.3B."}, turns[1])
}

func TestSynthesizePromptLayout(t *testing.T) {
	gen := &stubGenerator{answer: "ok"}
	s := New(gen, nil)
	mem := memory.New()
	mem.Append(domain.RoleUser, "earlier question")
	mem.Append(domain.RoleAssistant, "earlier answer")

	_, err := s.Synthesize(contextChunks(), "What was MSFT revenue?", mem)
	require.NoError(t, err)

	prompt := gen.prompt
	assert.True(t, strings.HasPrefix(prompt, "You are a financial analyst assistant."))
	assert.Contains(t, prompt, "Chat History:\nUser: earlier question\nAssistant: earlier answer\nUser: What was MSFT revenue?")
	assert.Contains(t, prompt, "Transcript Context:\nRevenue was $45.3B this quarter.\n\nCloud grew 50 percent.")
	assert.Contains(t, prompt, "Question: What was MSFT revenue?")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))

	// history precedes context, context precedes the restated question
	hi := strings.Index(prompt, "Chat History:")
	ci := strings.Index(prompt, "Transcript Context:")
	qi := strings.LastIndex(prompt, "Question:")
	assert.Less(t, hi, ci)
	assert.Less(t, ci, qi)
}

func TestSynthesizeRollsBackUserTurnOnFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("gemini generate: quota exceeded")}
	s := New(gen, nil)
	mem := memory.New()
	mem.Append(domain.RoleUser, "old question")
	mem.Append(domain.RoleAssistant, "old answer")

	_, err := s.Synthesize(contextChunks(), "new question", mem)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini generate")

	// no dangling user turn
	turns := mem.History()
	require.Len(t, turns, 2)
	assert.Equal(t, "old answer", turns[1].Text)
}

func TestSynthesizeEmptyContext(t *testing.T) {
	gen := &stubGenerator{answer: "no grounding available"}
	s := New(gen, nil)
	mem := memory.New()

	answer, err := s.Synthesize(nil, "anything?", mem)
	require.NoError(t, err)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, "no grounding available", answer.Text)
}

func TestSynthesizeKeepsDuplicateSources(t *testing.T) {
	chunks := contextChunks()
	chunks[1].Chunk.Metadata.Filename = chunks[0].Chunk.Metadata.Filename
	gen := &stubGenerator{answer: "ok"}
	s := New(gen, nil)

	answer, err := s.Synthesize(chunks, "q", memory.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"2021-Apr-15-MSFT.txt", "2021-Apr-15-MSFT.txt"}, answer.Sources)
}

func TestFormatSource(t *testing.T) {
	meta := domain.Metadata{Company: "MSFT", Filename: "2021-Apr-15-MSFT.txt"}
	assert.Equal(t, "MSFT, Q2 2021 Earnings Call (2021-Apr-15-MSFT.txt)", FormatSource(meta, false))
	assert.Equal(t, "MSFT, Q4 2021 Earnings Call (2021-Apr-15-MSFT.txt)", FormatSource(meta, true))

	plain := domain.Metadata{Company: "MSFT", Filename: "notes.txt"}
	assert.Equal(t, "notes.txt", FormatSource(plain, false))
}
