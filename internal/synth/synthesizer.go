package synth

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/memory"
)

const preamble = "You are a financial analyst assistant. Use the following MNC earnings transcript snippets to answer the user's question precisely."

// Answer is the generated text plus the provenance of the context chunks
// that grounded it, in rank order.
type Answer struct {
	Text    string
	Sources []string
}

// Synthesizer composes the grounding context and conversation history into
// a single prompt and invokes the generative model.
type Synthesizer struct {
	generator domain.Generator
	logger    *zap.Logger
}

// New creates a synthesizer over the given generator. A nil logger
// disables logging.
func New(generator domain.Generator, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{generator: generator, logger: logger}
}

// Synthesize records the question as a user turn, prompts the model with
// history plus context, records the reply as an assistant turn, and
// returns the answer with its sources. If generation fails the user turn
// is rolled back so the history only ever holds complete question/answer
// pairs.
func (s *Synthesizer) Synthesize(contextChunks []domain.SearchResult, question string, mem *memory.Memory) (Answer, error) {
	mem.Append(domain.RoleUser, question)

	prompt := s.buildPrompt(contextChunks, question, mem.History())
	s.logger.Debug("prompt assembled",
		zap.Int("context_chunks", len(contextChunks)),
		zap.Int("history_turns", mem.Len()),
		zap.Int("prompt_chars", len(prompt)),
	)

	text, err := s.generator.Generate(prompt)
	if err != nil {
		mem.DropLast()
		return Answer{}, err
	}
	text = strings.TrimSpace(text)
	mem.Append(domain.RoleAssistant, text)

	sources := make([]string, 0, len(contextChunks))
	for _, c := range contextChunks {
		sources = append(sources, c.Chunk.Metadata.Filename)
	}
	return Answer{Text: text, Sources: sources}, nil
}

func (s *Synthesizer) buildPrompt(contextChunks []domain.SearchResult, question string, history []domain.Turn) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\nChat History:\n")
	b.WriteString(RenderHistory(history))
	b.WriteString("\n\nTranscript Context:\n")
	texts := make([]string, 0, len(contextChunks))
	for _, c := range contextChunks {
		texts = append(texts, c.Chunk.Text)
	}
	b.WriteString(strings.Join(texts, "\n\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// RenderHistory lays out turns as alternating labeled lines in
// chronological order.
func RenderHistory(history []domain.Turn) string {
	lines := make([]string, 0, len(history))
	for _, t := range history {
		label := "User"
		if t.Role == domain.RoleAssistant {
			label = "Assistant"
		}
		lines = append(lines, label+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

var sourceDatePattern = regexp.MustCompile(`(\d{4})-([A-Za-z]+)-\d{2}`)

// FormatSource renders a human-readable provenance line such as
// "MSFT, Q2 2021 Earnings Call (2021-Apr-15-MSFT.txt)". Filenames without
// a parseable date are returned as-is.
func FormatSource(meta domain.Metadata, fiscal bool) string {
	m := sourceDatePattern.FindStringSubmatch(meta.Filename)
	if m == nil {
		return meta.Filename
	}
	month := m[2]
	if len(month) > 3 {
		month = month[:3]
	}
	quarter, ok := domain.QuarterOfMonth(month, fiscal)
	if !ok {
		return meta.Filename
	}
	return fmt.Sprintf("%s, %s %s Earnings Call (%s)", meta.Company, quarter, m[1], meta.Filename)
}
