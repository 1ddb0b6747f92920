package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lguimbarda/rangeflow/flow"
	rfio "github.com/lguimbarda/rangeflow/flow/io"
	"github.com/lguimbarda/rangeflow/flow/observe"
	"github.com/lguimbarda/rangeflow/flow/predicate"
	"github.com/lguimbarda/rangeflow/flow/ranges"
	rfsql "github.com/lguimbarda/rangeflow/flow/sql"
	"github.com/lguimbarda/rangeflow/internal/config"
	"github.com/lguimbarda/rangeflow/internal/logger"
)

// flagKeys maps extract flags to config keys.
var flagKeys = map[string]string{
	"config":          "",
	"env-file":        "",
	"discard-skipped": "discard_skipped",
	"fields":          "fields.print",
	"field-sep":       "fields.separator",
	"field-pattern":   "fields.pattern",
	"field-widths":    "fields.widths",
	"join":            "fields.join",
	"log-level":       "log.level",
	"log-format":      "log.format",
	"metrics-addr":    "metrics.addr",
	"sqlite":          "sqlite.path",
	"sqlite-table":    "sqlite.table",
	"sqlite-query":    "sqlite.query",
	"store":           "sqlite.store",
}

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	var configPath, envFile string

	cmd := &cobra.Command{
		Use:   "extract [FILE...]",
		Short: "Print the ranges between lines matching --first and --last",
		Long: `Print every range of lines that starts at a line matching --first and
ends at the next line matching --last. Patterns are regular expressions
searched anywhere in the line.

Input is read from the files given, from stdin when there are none (or
the single argument "-"), or from the rows of --sqlite-query. Files
ending in .lz4 are decompressed.

The lazy, eager and channel modes print the same ranges; they differ in
how the ranges are produced.`,
		Example: `  rangeflow extract --first '^BEGIN' --last '^END' app.log
  rangeflow extract --first 'panic:' --last '^$' --format json app.log.lz4
  rangeflow extract --first start --last stop --fields 0,-1 --mode channel < data.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Options{
				ConfigPath: configPath,
				EnvFile:    envFile,
				Flags:      cmd.Flags(),
				FlagKeys:   flagKeys,
			})
			if err != nil {
				return err
			}
			return runExtract(cmd.Context(), cfg, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default .rangeflow.yaml)")
	flags.StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file read before RANGEFLOW_* variables")

	flags.String("first", "", "pattern of the line that opens a range")
	flags.String("last", "", "pattern of the line that closes a range")
	flags.String("mode", config.ModeLazy, "consumption mode: lazy, eager or channel")
	flags.StringP("format", "f", config.FormatText, "output format: text, json, yaml or table")
	flags.String("separator", "", "text format: line printed between ranges")
	flags.Bool("color", false, "text format: highlight the first and last line of each range")
	flags.Bool("discard-skipped", false, "lazy mode: drop lines skipped over instead of buffering them")
	flags.Bool("stats", false, "print a summary table to stderr")
	flags.StringP("output", "o", "", "write to this file instead of stdout (.lz4 compresses)")

	flags.IntSlice("fields", nil, "print only these fields of each line, 0-based, negative from the end")
	flags.String("field-sep", "", "split fields around this separator (default white space)")
	flags.String("field-pattern", "", "fields are the matches of this pattern")
	flags.IntSlice("field-widths", nil, "split fields into columns of these widths; a last width of -1 takes the rest of the line")
	flags.String("join", " ", "join printed fields with this string")

	flags.String("log-level", "warn", "log level")
	flags.String("log-format", "console", "log format: console or json")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address while running")

	flags.String("sqlite", "", "SQLite database for --sqlite-query and --store")
	flags.String("sqlite-table", rfsql.DefaultTable, "table --store writes to")
	flags.String("sqlite-query", "", "read lines from this query, columns joined by tabs")
	flags.Bool("store", false, "save the ranges to the SQLite database under a new run id")

	return cmd
}

// extractStats is what --stats reports.
type extractStats struct {
	Lines   int64
	Ranges  int
	Counts  observe.Snapshot
	Elapsed time.Duration
	RunID   string
}

func runExtract(ctx context.Context, cfg *config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	log := logger.NewWithWriter(&cfg.Log, stderr, "extract")

	first, last, err := flow.Boundaries(cfg.First, cfg.Last)
	if err != nil {
		return err
	}
	project, err := newProjector(cfg.Fields)
	if err != nil {
		return err
	}

	counts := &observe.Counts{}
	observers := []ranges.Observer{counts}
	if cfg.Metrics.Addr != "" {
		ins, stop, serveErr := serveMetrics(cfg.Metrics.Addr, attribute.String("mode", cfg.Mode), log)
		if serveErr != nil {
			return serveErr
		}
		defer stop()
		observers = append(observers, ins)
	}

	opts := []ranges.Option{
		ranges.WithLogger(log.WithComponent("ranges").Zerolog()),
		ranges.WithObserver(observe.Multi(observers...)),
	}
	if cfg.DiscardSkipped {
		opts = append(opts, ranges.WithDiscardSkipped())
	}

	src, err := openSource(ctx, cfg, args, stdin, log)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, src.Close()) }()

	out := stdout
	if cfg.Output != "" {
		file, createErr := rfio.Create(cfg.Output)
		if createErr != nil {
			return createErr
		}
		defer func() { err = errors.Join(err, file.Close()) }()
		out = file
	}
	bw := bufio.NewWriter(out)
	defer func() { err = errors.Join(err, bw.Flush()) }()

	writers := multiWriter{newRenderer(cfg, bw, last, project)}

	var runID string
	if cfg.SQLite.Store {
		store, storeErr := openStore(ctx, cfg.SQLite, log)
		if storeErr != nil {
			return storeErr
		}
		defer func() { err = errors.Join(err, store.Close()) }()
		runID = store.run
		writers = append(writers, store)
	}

	start := time.Now()
	n, err := extract(ctx, cfg.Mode, first, last, src.Lines(), writers, opts)
	if srcErr := src.Err(); srcErr != nil {
		err = errors.Join(err, fmt.Errorf("read input: %w", srcErr))
	}
	if err != nil {
		return err
	}
	if err := writers.Finish(); err != nil {
		return err
	}

	stats := extractStats{
		Lines:   src.Count(),
		Ranges:  n,
		Counts:  counts.Snapshot(),
		Elapsed: time.Since(start),
		RunID:   runID,
	}
	log.Info("extraction finished", map[string]any{
		"lines":  stats.Lines,
		"ranges": stats.Ranges,
		"mode":   cfg.Mode,
	})
	if cfg.Stats {
		writeStats(stderr, stats)
	}
	return nil
}

// extract drives one of the three range engines over lines and hands every
// range to w. All modes produce the same calls on w.
func extract(ctx context.Context, mode string, first, last predicate.Predicate[string], lines iter.Seq[string], w rangeWriter, opts []ranges.Option) (int, error) {
	n := 0
	emit := func(items iter.Seq[string]) error {
		n++
		if err := w.BeginRange(n); err != nil {
			return err
		}
		for line := range items {
			if err := w.Line(line); err != nil {
				return err
			}
		}
		if err := w.EndRange(); err != nil {
			return err
		}
		return ctx.Err()
	}

	switch mode {
	case config.ModeLazy:
		g := ranges.NewGrouper(first, last, lines, opts...)
		defer g.Close()
		for group := range g.All() {
			if err := emit(group.All()); err != nil {
				return n, err
			}
		}

	case config.ModeEager:
		for _, r := range ranges.Collect(first, last, lines, opts...) {
			if err := emit(slices.Values(r)); err != nil {
				return n, err
			}
		}

	case config.ModeChannel:
		sink := ranges.Produce(ctx, first, last, lines, opts...)
		// The source must not be read once extract returns.
		defer func() {
			sink.Close()
			sink.Wait()
		}()
		for q := range sink.Ranges(ctx) {
			if err := emit(q.All(ctx)); err != nil {
				return n, err
			}
		}

	default:
		return 0, fmt.Errorf("%w %q", config.ErrInvalidMode, mode)
	}
	return n, ctx.Err()
}
