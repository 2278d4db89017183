// Command policyrank scores policy entities along five weighted criteria,
// derives weights from pairwise judgments (AHP), ranks policies and
// measures ranking stability under weight perturbation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/civicworks/policyrank/internal/ahp"
	"github.com/civicworks/policyrank/internal/config"
	"github.com/civicworks/policyrank/internal/criteria"
	"github.com/civicworks/policyrank/internal/ingest"
	"github.com/civicworks/policyrank/internal/policy"
	"github.com/civicworks/policyrank/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the shared state the subcommands need.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)
	a := &app{}

	cmd := &cobra.Command{
		Use:   "policyrank",
		Short: "Score, weight and rank policy impact assessments",
		Long: `Policyrank assigns impact scores to policies along five weighted
criteria (scope, magnitude, durability, adaptability, cross_referencing),
derives criterion weights either from literal values or from pairwise
AHP judgments, and reports how stable the resulting ranking is under
weight uncertainty.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			a.cfg = cfg
			a.logger = newLogger(cfg.Logging)
			slog.SetDefault(a.logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(rankCmd(a))
	cmd.AddCommand(weightsCmd(a))
	cmd.AddCommand(sensitivityCmd(a))
	cmd.AddCommand(policiesCmd(a))
	cmd.AddCommand(runsCmd(a))
	return cmd
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// loadCollection reads policies and assessments from CSV files, attaching
// assessments under the given weights.
func loadCollection(policiesPath, assessmentsPath string, weights criteria.Weights) (*policy.Collection, error) {
	pf, err := os.Open(policiesPath)
	if err != nil {
		return nil, fmt.Errorf("open policies: %w", err)
	}
	defer pf.Close()

	col, err := ingest.ReadPolicies(pf)
	if err != nil {
		return nil, err
	}

	if assessmentsPath != "" {
		af, err := os.Open(assessmentsPath)
		if err != nil {
			return nil, fmt.Errorf("open assessments: %w", err)
		}
		defer af.Close()
		if err := ingest.ReadAssessments(af, col, weights); err != nil {
			return nil, err
		}
	}
	return col, nil
}

// resolveWeights picks the weight set: an explicit weights file wins,
// otherwise the config weights. The returned label names the source for
// reports and run history.
func (a *app) resolveWeights(weightsPath string) (criteria.Weights, *ahp.Result, string, error) {
	if weightsPath != "" {
		ws, err := ingest.LoadWeightSource(weightsPath)
		if err != nil {
			return criteria.Weights{}, nil, "", err
		}
		w, result, err := ws.Resolve()
		if err != nil {
			return criteria.Weights{}, nil, "", err
		}
		label := "literal"
		if result != nil {
			label = "ahp"
			if !result.Consistent {
				a.logger.Warn("AHP judgments exceed consistency threshold, proceeding with derived weights",
					"consistency_ratio", result.CR,
					"threshold", ahp.ConsistencyThreshold)
			}
		}
		return w, result, label, nil
	}

	cw := a.cfg.Scoring.Weights
	w, err := criteria.NewWeights(cw.Scope, cw.Magnitude, cw.Durability, cw.Adaptability, cw.CrossReferencing)
	if err != nil {
		return criteria.Weights{}, nil, "", err
	}
	return w, nil, "config", nil
}

// openStore returns the configured store: Postgres when a database URL is
// set, otherwise in-memory (run history then lives only for the process).
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	if a.cfg.Database.URL == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewPostgresStore(ctx, a.cfg.Database.URL)
}
