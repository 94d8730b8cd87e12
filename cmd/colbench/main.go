// Command colbench exercises the column primitives on synthetic data.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/internal/bench"
	"github.com/ajitpratap0/columnar/pkg/chunk"
	"github.com/ajitpratap0/columnar/pkg/compression"
	"github.com/ajitpratap0/columnar/pkg/config"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/metrics"
	"github.com/ajitpratap0/columnar/pkg/observability"
	"github.com/ajitpratap0/columnar/pkg/types"
)

var version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile, logLevel string

	root := &cobra.Command{
		Use:   "colbench",
		Short: "colbench - column storage benchmark",
		Long: `colbench builds synthetic chunks of fixed and variable-length columns,
filters them, and round trips them through the compressed page codec and
Apache Arrow, reporting sizes and timings.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the configuration")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if err := logger.Init(cfg.Logging); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "colbench v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "types",
		Short: "List logical types and their physical representation",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LOGICAL\tPHYSICAL\tSIZE")
			for _, lt := range types.AllLogicalTypes() {
				trait := types.TraitOf(lt)
				size := "variable"
				if trait.Fixed() {
					size = fmt.Sprint(trait.Size)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", lt, trait.Physical, size)
			}
			return tw.Flush()
		},
	})

	root.AddCommand(newRunCommand(load), newDumpCommand(load), newCatCommand(load))
	return root
}

func newRunCommand(load func() (*config.Config, error)) *cobra.Command {
	var rows, level int
	var algo, trace, out string
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark",
		Long: `Run generates a chunk, filters it, encodes and decodes it with the
configured compression and converts it to Arrow and back. Both round trips
are verified.

Example:
  colbench run --config bench.yaml --rows 1000000 --algo zstd --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if cmd.Flags().Changed("rows") {
				cfg.Bench.Rows = rows
			}
			if cmd.Flags().Changed("algo") {
				a, err := compression.ParseAlgorithm(algo)
				if err != nil {
					return err
				}
				cfg.Codec.Algorithm = a
			}
			if cmd.Flags().Changed("level") {
				cfg.Codec.Level = compression.Level(level)
			}
			if cmd.Flags().Changed("trace") {
				cfg.Tracing.Exporter = trace
			}
			if out != "" {
				cfg.Bench.Output = out
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := observability.Init(cfg.Tracing, cmd.ErrOrStderr()); err != nil {
				return err
			}
			defer func() {
				if err := observability.Shutdown(context.Background()); err != nil {
					logger.Warn("tracer shutdown failed", zap.Error(err))
				}
			}()
			if showMetrics {
				if err := metrics.RegisterRuntime(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			logger.Info("starting benchmark",
				zap.Int("rows", cfg.Bench.Rows),
				zap.String("algorithm", string(cfg.Codec.Algorithm)),
				zap.Int("iterations", cfg.Bench.Iterations))
			report, err := bench.Run(ctx, cfg)
			if err != nil {
				return err
			}
			if err := report.Print(cmd.OutOrStdout()); err != nil {
				return err
			}
			if showMetrics {
				fmt.Fprintln(cmd.OutOrStdout())
				return metrics.WriteText(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "Number of rows to generate (default from configuration)")
	cmd.Flags().StringVarP(&algo, "algo", "a", "", "Compression algorithm: none, gzip, snappy, lz4, zstd, s2, deflate")
	cmd.Flags().IntVar(&level, "level", 0, "Compression level 1-9")
	cmd.Flags().StringVar(&trace, "trace", "", "Span exporter: none or stdout (spans go to stderr)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Also write the encoded chunk to this file and read it back")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print Prometheus metrics after the run")
	return cmd
}

func newDumpCommand(load func() (*config.Config, error)) *cobra.Command {
	var rows int
	var lines bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print a generated chunk as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ch, err := bench.NewGenerator(cfg.Bench).Chunk(rows, cfg.Column)
			if err != nil {
				return err
			}
			if lines {
				return ch.WriteJSONLines(cmd.OutOrStdout())
			}
			out, err := ch.MarshalJSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "Number of rows to generate")
	cmd.Flags().BoolVar(&lines, "lines", false, "Write one JSON object per line")
	return cmd
}

func newCatCommand(load func() (*config.Config, error)) *cobra.Command {
	var lines bool

	cmd := &cobra.Command{
		Use:   "cat FILE",
		Short: "Print an encoded chunk file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			codec, err := chunk.NewCodec(&cfg.Codec)
			if err != nil {
				return err
			}
			ch, err := codec.ReadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if lines {
				return ch.WriteJSONLines(cmd.OutOrStdout())
			}
			out, err := ch.MarshalJSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().BoolVar(&lines, "lines", false, "Write one JSON object per line")
	return cmd
}
