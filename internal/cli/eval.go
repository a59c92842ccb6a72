package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/eval"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score the pipeline against gold question/answer samples",
	Long: `Eval answers every sample question through the full pipeline and reports
per-sample keyword-overlap and text-similarity ratios as a CSV table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := eval.LoadSamples(appCfg.Paths.EvalSamples)
		if err != nil {
			return err
		}

		s, err := newSession(cmd.Context(), appCfg)
		if err != nil {
			return err
		}

		results, err := eval.Run(samples, func(question string) (string, error) {
			answer, _, err := s.ask(question, domain.QueryFilter{})
			if err != nil {
				return "", err
			}
			return answer.Text, nil
		}, logger)
		if err != nil {
			return err
		}

		for _, r := range results {
			fmt.Printf("%-60.60s  keywords=%.2f  similarity=%.2f\n", r.Question, r.KeywordsMatched, r.TextSimilarity)
		}
		if err := eval.WriteCSV(results, appCfg.Paths.EvalReport); err != nil {
			return err
		}
		color.Green("Results saved to %s", appCfg.Paths.EvalReport)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
