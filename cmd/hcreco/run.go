package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/decibelcooper/hcreco/internal/config"
	"github.com/decibelcooper/hcreco/internal/output"
	"github.com/decibelcooper/hcreco/internal/pipeline"
	"github.com/decibelcooper/hcreco/internal/source"
)

var maxEvents int

var runCmd = &cobra.Command{
	Use:   "run <input>",
	Short: "Reconstruct candidates of every configured channel in an input file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-events") {
			cfg.MaxEvents = maxEvents
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return reconstruct(ctx, cfg, args[0])
	},
}

// reconstruct runs the pipeline over input. The source and every writer are
// closed on all paths.
func reconstruct(ctx context.Context, cfg *config.Config, input string) (err error) {
	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	src, err := source.Open(input, cfg.Input)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := openWriters(cfg, input)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	sum, err := p.Run(ctx, src, out)
	if err != nil {
		return err
	}
	sum.Log()
	return nil
}

func openWriters(cfg *config.Config, input string) (output.Multi, error) {
	var out output.Multi
	if cfg.Output.SQLite != "" {
		text, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, err
		}
		db, err := output.OpenSQLite(cfg.Output.SQLite, input, string(text))
		if err != nil {
			return nil, err
		}
		logrus.Infof("writing %s with run ID %s", cfg.Output.SQLite, db.RunID())
		out = append(out, db)
	}
	if cfg.Output.JSON != "" {
		w, err := output.CreateJSONLines(cfg.Output.JSON)
		if err != nil {
			out.Close()
			return nil, err
		}
		out = append(out, w)
	}
	if cfg.Output.Histograms != "" {
		if err := os.MkdirAll(cfg.Output.Histograms, 0o755); err != nil {
			out.Close()
			return nil, err
		}
		out = append(out, output.NewHistograms(cfg.Output.Histograms, cfg.RecoChannels()))
	}
	if len(out) == 0 {
		logrus.Warn("no output configured, candidates are only counted")
	}
	return out, nil
}

func init() {
	runCmd.Flags().IntVar(&maxEvents, "max-events", 0, "stop after this many events (0 for all)")
	rootCmd.AddCommand(runCmd)
}
