package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cohorttools/cohortsel/internal/config"
	"github.com/cohorttools/cohortsel/internal/engine"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate a corpus and write labelled documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := applyRunFlags(cmd, cfg); err != nil {
			return err
		}

		log := rootLog
		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return err
			}
			defer f.Close()
			console := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stdout })
			log = zerolog.New(zerolog.MultiLevelWriter(console, f)).With().Timestamp().Caller().Logger()
		}

		policy := config.DefaultPolicy()
		if cfg.PolicyFile != "" {
			policy, err = config.LoadPolicy(cfg.PolicyFile)
			if err != nil {
				return err
			}
		}

		eng, err := engine.New(cfg, policy, log)
		if err != nil {
			return err
		}
		_, summary, err := eng.Run()
		if err != nil {
			return err
		}
		if summary.RunID != "" {
			log.Info().Str("run_id", summary.RunID).Msg("results persisted")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().String("corpus", "", "corpus directory (overrides COHORT_CORPUS_DIR)")
	runCmd.Flags().String("output", "", "output directory (overrides COHORT_OUTPUT_DIR)")
	runCmd.Flags().String("policy", "", "YAML policy file (overrides COHORT_POLICY_FILE)")
	runCmd.Flags().String("stopwords", "", "stopword list (overrides COHORT_STOPWORDS)")
	runCmd.Flags().String("dsn", "", "results database DSN (overrides COHORT_RESULTS_DSN)")
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	if v, _ := cmd.Flags().GetString("corpus"); v != "" {
		cfg.CorpusDir = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetString("policy"); v != "" {
		cfg.PolicyFile = v
	}
	if v, _ := cmd.Flags().GetString("stopwords"); v != "" {
		cfg.StopwordsPath = v
	}
	if v, _ := cmd.Flags().GetString("dsn"); v != "" {
		cfg.ResultsDSN = v
	}
	return cfg.Validate()
}
