package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/index"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/ingest"
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/summarizer"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the vector index from the transcripts directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appCfg
		embedder, err := newEmbedder(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		splitter := ingest.NewSplitter(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
		loader := ingest.NewLoader(splitter, logger)
		chunks, err := loader.LoadDir(cfg.Paths.TranscriptsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %d chunks from %s\n", len(chunks), cfg.Paths.TranscriptsDir)

		idx, err := index.Build(chunks, embedder, logger)
		if err != nil {
			return err
		}
		if err := idx.Save(cfg.Paths.IndexPath); err != nil {
			return err
		}
		color.Green("Index with %d entries saved to %s", idx.Len(), cfg.Paths.IndexPath)

		var corpus strings.Builder
		for _, ch := range chunks {
			corpus.WriteString(ch.Text)
			corpus.WriteString("\n")
		}
		summary, err := summarizer.NewFrequencySummarizer().Summarize(corpus.String(), cfg.Summarizer.MaxSentences)
		if err == nil && summary != "" {
			fmt.Println("\nCorpus summary:")
			fmt.Println(summary)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
