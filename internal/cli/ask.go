package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/synth"
)

var (
	askCompany string
	askYear    string
	askQuarter string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question against the indexed transcripts",
	Long: `Ask answers a single question and records it in the conversation memory.
An explicit (company, year, quarter) triple narrows retrieval; the triple is
only honored when all three flags are given, otherwise the filters are
resolved from the question text itself.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := args[0]
		explicit, err := explicitFilter()
		if err != nil {
			return err
		}

		s, err := newSession(cmd.Context(), appCfg)
		if err != nil {
			return err
		}

		answer, res, err := s.ask(question, explicit)
		if err != nil {
			return err
		}
		printAnswer(answer, res.Filtered, s.cfg.Retrieval.FiscalQuarters, res.ContextChunks())

		if err := s.saveMemory(); err != nil {
			color.Red("warning: could not save chat memory: %v", err)
		}
		return nil
	},
}

func explicitFilter() (domain.QueryFilter, error) {
	var filter domain.QueryFilter
	filter.Company = askCompany
	filter.Year = askYear
	if askQuarter != "" {
		q, err := domain.ParseQuarter(askQuarter)
		if err != nil {
			return domain.QueryFilter{}, err
		}
		filter.Quarter = q
	}
	return filter, nil
}

func printAnswer(answer synth.Answer, filtered bool, fiscal bool, chunks []domain.SearchResult) {
	color.New(color.Bold).Println("Answer:")
	fmt.Println(answer.Text)
	fmt.Println()
	color.New(color.Bold).Println("Sources:")
	for _, c := range chunks {
		fmt.Println("  -", synth.FormatSource(c.Chunk.Metadata, fiscal))
	}
	if !filtered {
		color.Yellow("note: no exact metadata match, answered from broader context")
	}
}

func init() {
	askCmd.Flags().StringVar(&askCompany, "company", "", "ticker filter, e.g. MSFT")
	askCmd.Flags().StringVar(&askYear, "year", "", "4-digit year filter, e.g. 2021")
	askCmd.Flags().StringVar(&askQuarter, "quarter", "", "quarter filter, Q1..Q4")
	rootCmd.AddCommand(askCmd)
}
