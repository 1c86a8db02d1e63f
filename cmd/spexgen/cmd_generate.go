package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spexgen/internal/audit"
	"spexgen/internal/llm"
	"spexgen/internal/packager"
	"spexgen/internal/prompt"
	"spexgen/internal/spec"
	"spexgen/internal/template"
)

var (
	specPath        string
	outDir          string
	reviewPass      bool
	initialCodePath string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a project locally from a specification",
	Long: `Runs the full pipeline in-process: parse the specification, render the
prompt, call the configured text-generation provider, package the output and
write the artifact under the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now()
		runID := uuid.NewString()

		specData, err := os.ReadFile(specPath)
		if err != nil {
			return fmt.Errorf("failed to read spec: %w", err)
		}
		sp, err := spec.Parse(specData)
		if err != nil {
			return err
		}

		templates, err := template.NewStore(cfg.Templates.Dir)
		if err != nil {
			return err
		}

		var initialCode string
		if reviewPass && initialCodePath != "" {
			data, err := os.ReadFile(initialCodePath)
			if err != nil {
				return fmt.Errorf("failed to read initial code: %w", err)
			}
			initialCode = string(data)
		}

		promptText, err := prompt.NewBuilder(templates).Build(sp, reviewPass, initialCode)
		if err != nil {
			return err
		}

		llmCfg := llm.Config{
			Provider:    cfg.LLM.Provider,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.TimeoutDuration(),
		}
		client, err := llm.New(llmCfg)
		if err != nil {
			return err
		}

		logger.Info("calling provider",
			zap.String("provider", llmCfg.Provider), zap.String("model", llmCfg.Model))
		modelOutput, err := client.Generate(cmd.Context(), promptText)
		if err != nil {
			recordLocalRun(runID, llmCfg, 0, started, err)
			return fmt.Errorf("generation failed: %w", err)
		}

		files, err := packager.New(templates, logger).Package(modelOutput, sp)
		if err != nil {
			recordLocalRun(runID, llmCfg, 0, started, err)
			return fmt.Errorf("packaging failed: %w", err)
		}

		if err := writeArtifact(outDir, files); err != nil {
			return err
		}
		recordLocalRun(runID, llmCfg, len(files), started, nil)

		for _, f := range files {
			fmt.Println("wrote", filepath.Join(outDir, filepath.FromSlash(f.Path)))
		}
		return nil
	},
}

// writeArtifact persists the artifact beneath root. Paths were already
// validated by the packager; they are joined, never cleaned into escaping.
func writeArtifact(root string, files []packager.OutputFile) error {
	for _, f := range files {
		abs := filepath.Join(root, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(abs), err)
		}
		if err := os.WriteFile(abs, []byte(f.Content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
	}
	return nil
}

// recordLocalRun mirrors the server's audit entry for CLI runs.
func recordLocalRun(id string, llmCfg llm.Config, files int, started time.Time, runErr error) {
	if !cfg.Audit.Enabled {
		return
	}
	store, err := audit.Open(cfg.Audit.Path)
	if err != nil {
		logger.Warn("audit store unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	run := audit.Run{
		ID:         id,
		Provider:   llmCfg.Provider,
		Model:      llmCfg.Model,
		FileCount:  files,
		DurationMs: time.Since(started).Milliseconds(),
		Success:    runErr == nil,
	}
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	}
	if err := store.RecordRun(run); err != nil {
		logger.Warn("failed to record audit run", zap.Error(err))
	}
}

func init() {
	generateCmd.Flags().StringVar(&specPath, "spec", "spec.toml", "Path to the TOML specification")
	generateCmd.Flags().StringVar(&outDir, "out", "generated", "Output directory for the artifact")
	generateCmd.Flags().BoolVar(&reviewPass, "review", false, "Run the review prompt instead of generation")
	generateCmd.Flags().StringVar(&initialCodePath, "initial-code", "", "File with the code under review (with --review)")
}
