package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"iter"
	"sync/atomic"

	"github.com/lguimbarda/rangeflow/flow/core"
	rfio "github.com/lguimbarda/rangeflow/flow/io"
	"github.com/lguimbarda/rangeflow/flow/observe"
	rfsql "github.com/lguimbarda/rangeflow/flow/sql"
	"github.com/lguimbarda/rangeflow/internal/config"
	"github.com/lguimbarda/rangeflow/internal/logger"
)

// lineSource is the input of one extraction. Lines may be iterated once;
// Err and Count are meaningful after iteration ends.
type lineSource struct {
	seq    iter.Seq[string]
	err    error
	count  atomic.Int64
	closer func() error
}

func (s *lineSource) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range s.seq {
			s.count.Add(1)
			if !yield(line) {
				return
			}
		}
	}
}

func (s *lineSource) Err() error   { return s.err }
func (s *lineSource) Count() int64 { return s.count.Load() }

func (s *lineSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// openSource picks the input: a SQLite query, stdin, or files in order.
func openSource(ctx context.Context, cfg *config.Config, args []string, stdin io.Reader, log *logger.Logger) (*lineSource, error) {
	src := &lineSource{}

	switch {
	case cfg.SQLite.Query != "":
		db, err := rfsql.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		src.closer = db.Close
		src.seq = src.query(ctx, db, cfg.SQLite.Query, log)

	case len(args) == 0 || (len(args) == 1 && args[0] == "-"):
		lines, errf := rfio.Lines(stdin)
		src.seq = func(yield func(string) bool) {
			lines(yield)
			src.err = errf()
		}

	default:
		src.seq = src.files(args)
	}
	return src, nil
}

func (s *lineSource) query(ctx context.Context, db *sql.DB, query string, log *logger.Logger) iter.Seq[string] {
	stream := observe.Meter[string](func(m observe.StreamMetrics) {
		log.Debug("query drained", map[string]any{
			"rows":     m.ValueCount,
			"errors":   m.ErrorCount,
			"rows_sec": m.ItemsPerSecond,
		})
	}).Apply(ctx, rfsql.QueryLines(db, query, "\t"))

	return func(yield func(string) bool) {
		for res := range core.All(ctx, stream) {
			switch {
			case res.IsError():
				s.err = res.Error()
				return
			case res.IsSentinel():
				continue
			}
			if !yield(res.Value()) {
				return
			}
		}
	}
}

func (s *lineSource) files(paths []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, path := range paths {
			more, err := readFile(path, yield)
			if err != nil {
				s.err = err
				return
			}
			if !more {
				return
			}
		}
	}
}

// readFile yields the lines of path and reports whether the consumer wants
// more.
func readFile(path string, yield func(string) bool) (more bool, err error) {
	rc, err := rfio.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { err = errors.Join(err, rc.Close()) }()

	lines, errf := rfio.Lines(rc)
	more = true
	for line := range lines {
		if !yield(line) {
			more = false
			break
		}
	}
	if err := errf(); err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	return more, nil
}
