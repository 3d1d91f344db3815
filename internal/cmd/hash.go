package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dendrascience/iocify/config"
	"github.com/dendrascience/iocify/internal/logx"
	"github.com/dendrascience/iocify/util"
)

type hashFlags struct {
	configPath string
	source     string
	output     string
	delimiter  string
	md5        bool
	sha1       bool
	sha256     bool
	processes  int
	absolute   bool
	summary    string
	logLevel   *string
}

func newHashCmd(logLevel *string) *cobra.Command {
	f := hashFlags{logLevel: logLevel}

	cmd := &cobra.Command{
		Use:   "iocify -s SOURCE -o OUTPUT (--md5 | --sha1 | --sha256)",
		Short: "Hash every file in a directory tree into a CSV report",
		Long: `iocify walks SOURCE recursively, hashes every regular file with one
algorithm on a fixed pool of workers, and writes "filename,<algorithm>" rows
to OUTPUT (".csv" is appended when missing).

Symlinks are skipped, never followed. Files that cannot be read are reported
and left out of the report; they do not stop the run.

Settings may also come from a YAML file (--config), IOCIFY_* environment
variables, or a .env file in the working directory. Flags take precedence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &f)
			if err != nil {
				return err
			}
			logx.Configure(cfg.LogLevel)
			return runHash(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "Root path of the source (required)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file name, csv format (required)")
	cmd.Flags().StringVarP(&f.delimiter, "delimiter", "d", ",", "CSV delimiter")
	cmd.Flags().BoolVar(&f.md5, "md5", false, "Hash with MD5")
	cmd.Flags().BoolVar(&f.sha1, "sha1", false, "Hash with SHA-1")
	cmd.Flags().BoolVar(&f.sha256, "sha256", false, "Hash with SHA-256")
	cmd.Flags().IntVarP(&f.processes, "processes", "p", util.DefaultWorkers, "Number of concurrent workers")
	cmd.Flags().BoolVar(&f.absolute, "absolute", false, "Write absolute paths instead of paths relative to the source")
	cmd.Flags().StringVar(&f.summary, "summary", "", "Also write a JSON run summary to this path")

	return cmd
}

// resolveConfig layers defaults, the config file, the environment and the
// flags that were set explicitly.
func resolveConfig(cmd *cobra.Command, f *hashFlags) (config.RunConfig, error) {
	s := config.Defaults()
	if f.configPath != "" {
		fc, err := config.LoadFile(f.configPath)
		if err != nil {
			return config.RunConfig{}, err
		}
		s.ApplyFile(fc)
	}
	if err := s.ApplyEnv(os.LookupEnv); err != nil {
		return config.RunConfig{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		s.Source = f.source
	}
	if flags.Changed("output") {
		s.Output = f.output
	}
	if flags.Changed("delimiter") {
		s.Delimiter = f.delimiter
	}
	if flags.Changed("processes") {
		s.Processes = f.processes
	}
	if flags.Changed("absolute") {
		s.Absolute = f.absolute
	}
	if flags.Changed("summary") {
		s.Summary = f.summary
	}
	if flags.Changed("log-level") {
		s.LogLevel = *f.logLevel
	}

	var selected []string
	for _, a := range []struct {
		on   bool
		algo util.Algorithm
	}{{f.md5, util.MD5}, {f.sha1, util.SHA1}, {f.sha256, util.SHA256}} {
		if a.on {
			selected = append(selected, a.algo.String())
		}
	}
	if len(selected) > 0 {
		s.Algorithms = selected
	}

	return s.Build()
}

func runHash(ctx context.Context, cfg config.RunConfig, out io.Writer) error {
	runID := uuid.NewString()
	logger := logx.Log.With().Str("run_id", runID).Logger()
	started := time.Now()

	paths, err := util.Enumerate(cfg.Source)
	if err != nil {
		return err
	}

	logger.Info().
		Str("source", cfg.Source).
		Str("algorithm", cfg.Algorithm.String()).
		Int("workers", cfg.Workers).
		Msg("hashing started")

	records, stats, err := util.Dispatch(ctx, paths, cfg.Algorithm, util.DispatchOptions{
		Workers:  cfg.Workers,
		Absolute: cfg.Absolute,
	})
	if err != nil {
		logger.Error().Err(err).Int("hashed", stats.Hashed).Msg("run aborted, no report written")
		return err
	}

	written, err := util.WriteReport(records, cfg.Output, cfg.Delimiter, cfg.Algorithm)
	if err != nil {
		return err
	}

	logger.Info().
		Str("output", written).
		Int("hashed", stats.Hashed).
		Int("failed", stats.Failed).
		Int64("bytes", stats.Bytes).
		Dur("elapsed", time.Since(started)).
		Msg("report written")

	if cfg.Summary != "" {
		summary := util.NewRunSummary(runID, cfg.Algorithm, cfg.Source, written, cfg.Workers, stats)
		summary.Started = started
		summary.Finished = time.Now()
		if err := summary.Save(cfg.Summary); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	fmt.Fprintf(out, "Hashed %d files with %s into %s\n", stats.Hashed, cfg.Algorithm, written)
	if stats.Failed > 0 {
		fmt.Fprintf(out, "Skipped %d unreadable files\n", stats.Failed)
	}
	return nil
}
