// spexgen packages generative-model output into file-system-ready projects.
// It runs either as a host-invoked HTTP plugin (serve) or as a standalone
// generator (generate).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"spexgen/internal/config"
)

// Version is set at build time.
var Version = "0.3.0"

var (
	// Global flags
	cfgPath string
	verbose bool

	// Loaded per invocation
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spexgen",
	Short: "spexgen - spec-to-project generation plugin",
	Long: `spexgen turns a TOML project specification and the free-form output of a
text-generation model into a complete, file-system-ready project: parsed file
blocks, sanitized paths and content, rendered infrastructure files, and a
manifest of everything produced.

Run "spexgen serve" to expose the pipeline to an invoking host, or
"spexgen generate" to produce a project locally.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		// Logs go to stderr; stdout is reserved for the plugin handshake.
		zapCfg := zap.NewProductionConfig()
		zapCfg.OutputPaths = []string{"stderr"}
		zapCfg.Level = zap.NewAtomicLevelAt(logLevel())
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func logLevel() zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	switch cfg.Logging.Level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the spexgen version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("spexgen", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "spexgen.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
