package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"deadsym/internal/config"
	"deadsym/internal/deadcode"
	"deadsym/internal/metrics"
	"deadsym/internal/report"
	"deadsym/internal/storage"
)

// exportFlags are shared by both analysis commands.
type exportFlags struct {
	keepFile    string
	scipIndex   string
	dbPath      string
	metricsFile string
	progress    bool
	workers     int
}

func addExportFlags(cmd *cobra.Command, f *exportFlags) {
	cmd.Flags().StringVar(&f.keepFile, "keep", "", "TOML keep list of names and prefixes that always count as used")
	cmd.Flags().StringVar(&f.scipIndex, "scip-index", "", "SCIP index whose references count as used")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "Append the run to this SQLite database")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "Print scan progress to stderr")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Scan workers (default from config)")
}

// applyEvidence overrides the configured evidence inputs with set flags.
func (f *exportFlags) applyEvidence(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("keep") {
		cfg.Evidence.KeepFile = f.keepFile
	}
	if cmd.Flags().Changed("scip-index") {
		cfg.Evidence.ScipIndex = f.scipIndex
	}
	if cmd.Flags().Changed("workers") && f.workers > 0 {
		cfg.Scan.Workers = f.workers
	}
}

// finish renders res to stdout and writes the optional database row and
// metrics file.
func finish(ctx context.Context, cmd *cobra.Command, cfg *config.Config, f *exportFlags, logger *slog.Logger, res *deadcode.Result, byFile bool) error {
	if res.Empty() {
		logger.Info("No candidate names found; nothing to report", "kind", res.Kind, "root", res.Root)
	}

	opts, err := reportOptions(cmd.OutOrStdout(), cfg, byFile)
	if err != nil {
		return err
	}
	if err := report.Render(cmd.OutOrStdout(), res, opts); err != nil {
		return err
	}

	if f.dbPath != "" {
		db, err := storage.Open(f.dbPath, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveRun(ctx, res); err != nil {
			return err
		}
		logger.Info("Run saved", "db", f.dbPath, "run", res.RunID)
	}

	if f.metricsFile != "" {
		rec := metrics.NewRecorder()
		rec.Record(res)
		if err := rec.WriteTextfile(f.metricsFile); err != nil {
			return err
		}
		logger.Info("Metrics written", "path", f.metricsFile)
	}
	return nil
}

func progressWriter(cmd *cobra.Command, f *exportFlags) io.Writer {
	if !f.progress {
		return nil
	}
	return cmd.ErrOrStderr()
}
