package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/memory"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the persisted conversation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		mem := memory.New()
		if err := mem.Restore(appCfg.Paths.MemoryPath); err != nil {
			return err
		}
		turns := mem.History()
		if len(turns) == 0 {
			fmt.Println("No conversation history.")
			return nil
		}
		for _, t := range turns {
			if t.Role == domain.RoleUser {
				color.New(color.FgCyan, color.Bold).Print("You: ")
			} else {
				color.New(color.FgGreen, color.Bold).Print("RAG: ")
			}
			fmt.Println(t.Text)
			fmt.Println()
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the conversation memory",
	RunE: func(cmd *cobra.Command, args []string) error {
		mem := memory.New()
		if err := mem.Restore(appCfg.Paths.MemoryPath); err != nil {
			return err
		}
		mem.Clear()
		if err := mem.Persist(appCfg.Paths.MemoryPath); err != nil {
			return err
		}
		fmt.Println("Memory cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
}
