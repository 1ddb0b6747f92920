// Package sql connects SQLite databases to flow pipelines: query results as
// item sources, and a table that extracted ranges can be stored in and
// loaded back from.
package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lguimbarda/rangeflow/flow/core"
)

// Driver is the database/sql driver name registered by go-sqlite3.
const Driver = "sqlite3"

// DefaultTable is the table ranges are stored in when none is given.
const DefaultTable = "ranges"

// ErrInvalidTable is returned for table names that are not plain identifiers.
var ErrInvalidTable = errors.New("invalid table name")

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open opens the SQLite database at path. Use ":memory:" for a private
// in-memory database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open(Driver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if path == ":memory:" {
		// Each connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Scanner is a function that scans a row into a value.
type Scanner[T any] func(*sql.Rows) (T, error)

// Query creates a Stream that executes a query and emits one value per row.
// Scan errors are emitted and the stream continues with the next row.
func Query[T any](db *sql.DB, query string, scanner Scanner[T], args ...any) core.Stream[T] {
	return core.Emit(func(ctx context.Context) <-chan core.Result[T] {
		out := make(chan core.Result[T], core.DefaultBufferSize)
		go func() {
			defer close(out)
			rows, err := db.QueryContext(ctx, query, args...)
			if err != nil {
				core.Send(ctx, out, core.Err[T](err))
				return
			}
			defer rows.Close()
			for rows.Next() {
				value, err := scanner(rows)
				if err != nil {
					if !core.Send(ctx, out, core.Err[T](err)) {
						return
					}
					continue
				}
				if !core.Send(ctx, out, core.Ok(value)) {
					return
				}
			}
			if err := rows.Err(); err != nil {
				core.Send(ctx, out, core.Err[T](err))
			}
		}()
		return out
	})
}

// QueryStrings queries rows as slices of strings. NULL becomes "".
func QueryStrings(db *sql.DB, query string, args ...any) core.Stream[[]string] {
	return Query(db, query, scanStrings, args...)
}

// QueryLines queries rows as text lines, joining the columns of each row
// with sep.
func QueryLines(db *sql.DB, query, sep string, args ...any) core.Stream[string] {
	return Query(db, query, func(rows *sql.Rows) (string, error) {
		fields, err := scanStrings(rows)
		if err != nil {
			return "", err
		}
		return strings.Join(fields, sep), nil
	}, args...)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(cols))
	valuePtrs := make([]any, len(cols))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := rows.Scan(valuePtrs...); err != nil {
		return nil, err
	}
	result := make([]string, len(cols))
	for i, v := range values {
		switch val := v.(type) {
		case nil:
			result[i] = ""
		case []byte:
			result[i] = string(val)
		case string:
			result[i] = val
		default:
			result[i] = fmt.Sprint(val)
		}
	}
	return result, nil
}

// Store persists ranges of text lines under a run id.
type Store struct {
	db    *sql.DB
	table string
}

// NewStore returns a Store writing to table, creating it if needed.
func NewStore(ctx context.Context, db *sql.DB, table string) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id   TEXT    NOT NULL,
			range_no INTEGER NOT NULL,
			line_no  INTEGER NOT NULL,
			text     TEXT    NOT NULL,
			PRIMARY KEY (run_id, range_no, line_no)
		)`, table))
	if err != nil {
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}
	return &Store{db: db, table: table}, nil
}

// NewRunID returns a fresh run id.
func NewRunID() string {
	return uuid.NewString()
}

// Save writes one range as range number n of run, in a single transaction.
func (s *Store) Save(ctx context.Context, run string, n int, lines []string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (run_id, range_no, line_no, text) VALUES (?, ?, ?, ?)`, s.table))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, line := range lines {
		if _, err = stmt.ExecContext(ctx, run, n, i+1, line); err != nil {
			return fmt.Errorf("store range %d line %d: %w", n, i+1, err)
		}
	}
	return tx.Commit()
}

// Load returns the ranges of run in order.
func (s *Store) Load(ctx context.Context, run string) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT range_no, text FROM %s WHERE run_id = ? ORDER BY range_no, line_no`, s.table), run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		ranges [][]string
		last   = -1
	)
	for rows.Next() {
		var (
			n    int
			text string
		)
		if err := rows.Scan(&n, &text); err != nil {
			return nil, err
		}
		if n != last {
			ranges = append(ranges, nil)
			last = n
		}
		ranges[len(ranges)-1] = append(ranges[len(ranges)-1], text)
	}
	return ranges, rows.Err()
}

// Runs returns the stored run ids.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT DISTINCT run_id FROM %s ORDER BY run_id`, s.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var run string
		if err := rows.Scan(&run); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// StoreRanges creates a Transformer that saves each range under run,
// numbering them from 1. Ranges pass through unchanged; a failed save is
// emitted as an error in place of its range.
func StoreRanges(store *Store, run string) core.Transformer[[]string, []string] {
	return core.Transmit(func(ctx context.Context, in <-chan core.Result[[]string]) <-chan core.Result[[]string] {
		out := make(chan core.Result[[]string], core.DefaultBufferSize)
		go func() {
			defer close(out)
			n := 0
			for res := range in {
				if !res.IsValue() {
					if !core.Send(ctx, out, res) {
						return
					}
					continue
				}
				n++
				if err := store.Save(ctx, run, n, res.Value()); err != nil {
					res = core.Err[[]string](err)
				}
				if !core.Send(ctx, out, res) {
					return
				}
			}
		}()
		return out
	})
}

// LoadRanges creates a Stream of the ranges stored under run.
func LoadRanges(store *Store, run string) core.Stream[[]string] {
	return core.Emit(func(ctx context.Context) <-chan core.Result[[]string] {
		out := make(chan core.Result[[]string], 1)
		go func() {
			defer close(out)
			ranges, err := store.Load(ctx, run)
			if err != nil {
				core.Send(ctx, out, core.Err[[]string](err))
				return
			}
			for _, r := range ranges {
				if !core.Send(ctx, out, core.Ok(r)) {
					return
				}
			}
		}()
		return out
	})
}
