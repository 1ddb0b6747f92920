package commands

import (
	"context"
	"database/sql"

	rfsql "github.com/lguimbarda/rangeflow/flow/sql"
	"github.com/lguimbarda/rangeflow/internal/config"
	"github.com/lguimbarda/rangeflow/internal/logger"
)

// storeWriter saves each range to SQLite when it ends.
type storeWriter struct {
	ctx   context.Context
	db    *sql.DB
	store *rfsql.Store
	run   string

	n     int
	lines []string
}

func openStore(ctx context.Context, sc config.SQLiteConfig, log *logger.Logger) (*storeWriter, error) {
	db, err := rfsql.Open(sc.Path)
	if err != nil {
		return nil, err
	}
	store, err := rfsql.NewStore(ctx, db, sc.Table)
	if err != nil {
		db.Close()
		return nil, err
	}
	run := rfsql.NewRunID()
	log.WithFields(map[string]any{logger.FieldRun: run}).Info("storing ranges", map[string]any{
		"db":    sc.Path,
		"table": sc.Table,
	})
	return &storeWriter{ctx: ctx, db: db, store: store, run: run}, nil
}

func (s *storeWriter) BeginRange(n int) error {
	s.n = n
	s.lines = s.lines[:0]
	return nil
}

func (s *storeWriter) Line(text string) error {
	s.lines = append(s.lines, text)
	return nil
}

func (s *storeWriter) EndRange() error {
	return s.store.Save(s.ctx, s.run, s.n, s.lines)
}

func (s *storeWriter) Finish() error { return nil }

func (s *storeWriter) Close() error { return s.db.Close() }
