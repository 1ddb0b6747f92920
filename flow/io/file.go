// Package io connects line-oriented files and readers to flow pipelines.
// Paths ending in .lz4 are decompressed on read and compressed on write.
package io

import (
	"bufio"
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/lguimbarda/rangeflow/flow/core"
)

// MaxLineSize is the longest line the readers accept.
const MaxLineSize = 1 << 20

// Lz4Ext marks lz4 frame compressed files.
const Lz4Ext = ".lz4"

// IsCompressed reports whether path names an lz4 file.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Lz4Ext)
}

type readCloser struct {
	io.Reader
	closer io.Closer
}

func (r readCloser) Close() error { return r.closer.Close() }

// Open opens path for reading, decompressing it if it is an lz4 file.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return file, nil
	}
	return readCloser{Reader: lz4.NewReader(file), closer: file}, nil
}

type writeCloser struct {
	zw   *lz4.Writer
	file *os.File
}

func (w writeCloser) Write(p []byte) (int, error) { return w.zw.Write(p) }

func (w writeCloser) Close() error {
	return errors.Join(w.zw.Close(), w.file.Close())
}

// Create creates or truncates path for writing, compressing it if it is an
// lz4 file. Close flushes the compressor.
func Create(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return file, nil
	}
	return writeCloser{zw: lz4.NewWriter(file), file: file}, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return scanner
}

// Lines returns an iterator over the lines of r without their newline, and
// a function reporting the read error that stopped it, if any.
func Lines(r io.Reader) (iter.Seq[string], func() error) {
	var scanErr error
	seq := func(yield func(string) bool) {
		scanner := newScanner(r)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
		scanErr = scanner.Err()
	}
	return seq, func() error { return scanErr }
}

// ReadLines creates a Stream that emits each line of the file at path.
// If the file cannot be opened, the stream emits an error and completes.
func ReadLines(path string, opts ...core.TransformOption) core.Stream[string] {
	cfg := core.ApplyOptions(opts...)
	return core.Emit(func(ctx context.Context) <-chan core.Result[string] {
		out := make(chan core.Result[string], cfg.BufferSize)

		go func() {
			defer close(out)

			rc, err := Open(path)
			if err != nil {
				core.Send(ctx, out, core.Err[string](err))
				return
			}
			defer rc.Close()

			scanLines(ctx, rc, out)
		}()

		return out
	})
}

// ReadLinesFrom creates a Stream that reads lines from r, such as stdin.
func ReadLinesFrom(r io.Reader, opts ...core.TransformOption) core.Stream[string] {
	cfg := core.ApplyOptions(opts...)
	return core.Emit(func(ctx context.Context) <-chan core.Result[string] {
		out := make(chan core.Result[string], cfg.BufferSize)

		go func() {
			defer close(out)
			scanLines(ctx, r, out)
		}()

		return out
	})
}

func scanLines(ctx context.Context, r io.Reader, out chan<- core.Result[string]) {
	scanner := newScanner(r)
	for scanner.Scan() {
		if !core.Send(ctx, out, core.Ok(scanner.Text())) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		core.Send(ctx, out, core.Err[string](err))
	}
}

// WriteTo creates a Transformer that writes each string to w, one per line.
// Items pass through unchanged after being written.
func WriteTo(w io.Writer) core.Transformer[string, string] {
	return writeEach(w, func() func(*bufio.Writer, string) error {
		return func(bw *bufio.Writer, line string) error {
			_, err := bw.WriteString(line + "\n")
			return err
		}
	})
}

// WriteRanges creates a Transformer that writes each range to w, one item
// per line, with separator on a line of its own between ranges. Ranges pass
// through unchanged after being written.
func WriteRanges(w io.Writer, separator string) core.Transformer[[]string, []string] {
	return writeEach(w, func() func(*bufio.Writer, []string) error {
		first := true
		return func(bw *bufio.Writer, rng []string) error {
			if !first {
				if _, err := bw.WriteString(separator + "\n"); err != nil {
					return err
				}
			}
			first = false
			for _, line := range rng {
				if _, err := bw.WriteString(line + "\n"); err != nil {
					return err
				}
			}
			return nil
		}
	})
}

// writeEach builds a pass-through writer. newWrite is called once per run so
// writers may keep per-run state.
func writeEach[T any](w io.Writer, newWrite func() func(*bufio.Writer, T) error) core.Transformer[T, T] {
	return core.Transmit(func(ctx context.Context, in <-chan core.Result[T]) <-chan core.Result[T] {
		out := make(chan core.Result[T], core.DefaultBufferSize)

		go func() {
			defer close(out)

			writer := bufio.NewWriter(w)
			defer writer.Flush()
			write := newWrite()

			for res := range in {
				if res.IsError() || res.IsSentinel() {
					if !core.Send(ctx, out, res) {
						return
					}
					continue
				}

				if err := write(writer, res.Value()); err != nil {
					if !core.Send(ctx, out, core.Err[T](err)) {
						return
					}
					continue
				}

				if !core.Send(ctx, out, res) {
					return
				}
			}
		}()

		return out
	})
}
