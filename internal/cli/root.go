package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/config"
)

var (
	cfgFile string
	debug   bool

	appCfg *config.AppConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mnc-insights",
	Short: "mnc-insights — ask questions about MNC earnings-call transcripts",
	Long: `mnc-insights indexes quarterly earnings-call transcripts into a local
vector index and answers natural-language questions about them, grounding
each answer in retrieved transcript passages.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		if cfgFile == "" {
			appCfg, _, err = config.LoadDefault()
		} else {
			appCfg, err = config.Load(cfgFile)
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger, err = newLogger(debug)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./config.yaml, then ~/.config/mnc-insights/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// newLogger builds a console logger on stderr so answers on stdout stay
// clean.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}
