package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/synth"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Chat opens an interactive session over the indexed transcripts. The
conversation memory is restored on start; typing 'exit' (or Ctrl+C) saves it
back to disk. 'history' shows the conversation so far and 'reset' clears it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context(), appCfg)
		if err != nil {
			return err
		}
		m := tui.New(&chatSession{s})
		_, err = tea.NewProgram(m).Run()
		return err
	},
}

// chatSession adapts a session to the TUI's ChatPort.
type chatSession struct {
	s *session
}

func (c *chatSession) Ask(question string) (string, []string, bool, error) {
	answer, res, err := c.s.ask(question, domain.QueryFilter{})
	if err != nil {
		return "", nil, false, err
	}
	chunks := res.ContextChunks()
	sources := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		sources = append(sources, synth.FormatSource(chunk.Chunk.Metadata, c.s.cfg.Retrieval.FiscalQuarters))
	}
	return answer.Text, sources, !res.Filtered, nil
}

func (c *chatSession) History() []domain.Turn { return c.s.mem.History() }

func (c *chatSession) Reset() error {
	c.s.mem.Clear()
	return c.s.saveMemory()
}

func (c *chatSession) Save() error { return c.s.saveMemory() }

func init() {
	rootCmd.AddCommand(chatCmd)
}
