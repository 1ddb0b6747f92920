package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/lguimbarda/rangeflow/flow/predicate"
	"github.com/lguimbarda/rangeflow/flow/record"
	"github.com/lguimbarda/rangeflow/internal/config"
)

// rangeWriter receives extracted ranges line by line.
type rangeWriter interface {
	BeginRange(n int) error
	Line(text string) error
	EndRange() error
	Finish() error
}

type multiWriter []rangeWriter

func (m multiWriter) BeginRange(n int) error {
	for _, w := range m {
		if err := w.BeginRange(n); err != nil {
			return err
		}
	}
	return nil
}

func (m multiWriter) Line(text string) error {
	for _, w := range m {
		if err := w.Line(text); err != nil {
			return err
		}
	}
	return nil
}

func (m multiWriter) EndRange() error {
	for _, w := range m {
		if err := w.EndRange(); err != nil {
			return err
		}
	}
	return nil
}

func (m multiWriter) Finish() error {
	for _, w := range m {
		if err := w.Finish(); err != nil {
			return err
		}
	}
	return nil
}

// projector maps an extracted line to what is printed.
type projector func(string) string

func identity(s string) string { return s }

// newProjector selects fields when fc.Print is set.
func newProjector(fc config.FieldsConfig) (projector, error) {
	if len(fc.Print) == 0 {
		return identity, nil
	}

	var opts []record.Option
	if len(fc.Widths) > 0 {
		opts = append(opts, record.WithWidths(fc.Widths...))
	}
	if fc.Separator != "" {
		opts = append(opts, record.WithSeparator(fc.Separator))
	}
	if fc.Pattern != "" {
		opts = append(opts, record.WithPattern(fc.Pattern))
	}
	split, err := record.NewSplitter(opts...)
	if err != nil {
		return nil, err
	}

	indexes := fc.Print
	return func(text string) string {
		r := record.New(text, split)
		fields := make([]string, len(indexes))
		for i, idx := range indexes {
			fields[i] = r.Field(idx)
		}
		return strings.Join(fields, fc.Join)
	}, nil
}

func newRenderer(cfg *config.Config, w io.Writer, last predicate.Predicate[string], project projector) rangeWriter {
	if cfg.Format == config.FormatText {
		t := &textRenderer{w: w, separator: cfg.Separator, project: project}
		if cfg.Color {
			t.last = last
			t.open = color.New(color.FgGreen, color.Bold)
			t.close = color.New(color.FgRed, color.Bold)
			t.open.EnableColor()
			t.close.EnableColor()
		}
		return t
	}
	return &docRenderer{w: w, format: cfg.Format, project: project, docs: []rangeDoc{}}
}

// textRenderer streams lines as they are extracted.
type textRenderer struct {
	w         io.Writer
	separator string
	project   projector

	// Set when coloring.
	last        predicate.Predicate[string]
	open, close *color.Color

	ranges int
	line   int
}

func (t *textRenderer) BeginRange(int) error {
	t.line = 0
	t.ranges++
	if t.ranges > 1 && t.separator != "" {
		_, err := fmt.Fprintln(t.w, t.separator)
		return err
	}
	return nil
}

func (t *textRenderer) Line(raw string) error {
	text := t.project(raw)
	if t.open != nil {
		switch {
		case t.line == 0:
			text = t.open.Sprint(text)
		case t.last(raw):
			text = t.close.Sprint(text)
		}
	}
	t.line++
	_, err := fmt.Fprintln(t.w, text)
	return err
}

func (t *textRenderer) EndRange() error { return nil }
func (t *textRenderer) Finish() error   { return nil }

type rangeDoc struct {
	Range int      `json:"range" yaml:"range"`
	Lines []string `json:"lines" yaml:"lines"`
}

// docRenderer collects every range and writes them as one document.
type docRenderer struct {
	w       io.Writer
	format  string
	project projector
	docs    []rangeDoc
}

func (d *docRenderer) BeginRange(n int) error {
	d.docs = append(d.docs, rangeDoc{Range: n, Lines: []string{}})
	return nil
}

func (d *docRenderer) Line(raw string) error {
	cur := &d.docs[len(d.docs)-1]
	cur.Lines = append(cur.Lines, d.project(raw))
	return nil
}

func (d *docRenderer) EndRange() error { return nil }

func (d *docRenderer) Finish() error {
	switch d.format {
	case config.FormatJSON:
		enc := json.NewEncoder(d.w)
		enc.SetIndent("", "  ")
		return enc.Encode(d.docs)

	case config.FormatYAML:
		enc := yaml.NewEncoder(d.w)
		enc.SetIndent(2)
		if err := enc.Encode(d.docs); err != nil {
			return err
		}
		return enc.Close()

	case config.FormatTable:
		tbl := table.NewWriter()
		tbl.SetStyle(table.StyleLight)
		tbl.AppendHeader(table.Row{"Range", "Line", "Text"})
		for _, doc := range d.docs {
			for i, line := range doc.Lines {
				tbl.AppendRow(table.Row{doc.Range, i + 1, line})
			}
			tbl.AppendSeparator()
		}
		tbl.AppendFooter(table.Row{"", "", fmt.Sprintf("Total: %d ranges", len(d.docs))})
		_, err := fmt.Fprintln(d.w, tbl.Render())
		return err
	}
	return fmt.Errorf("%w %q", config.ErrInvalidFormat, d.format)
}
