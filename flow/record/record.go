// Package record splits text lines into fields on demand, in the manner of
// AWK's $1..$NF. A Record keeps its text and splits it the first time a
// field is asked for.
package record

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lguimbarda/rangeflow/flow/core"
)

// ErrInvalidSplitter is returned by NewSplitter for unusable options.
var ErrInvalidSplitter = errors.New("invalid splitter")

// Splitter breaks a line into fields.
type Splitter func(text string) []string

// Whitespace splits around runs of white space, dropping leading and
// trailing space.
func Whitespace() Splitter {
	return strings.Fields
}

// Separator splits around every occurrence of sep.
func Separator(sep string) Splitter {
	return func(text string) []string {
		return strings.Split(text, sep)
	}
}

// SeparatorRegexp splits around every match of re.
func SeparatorRegexp(re *regexp.Regexp) Splitter {
	return func(text string) []string {
		return re.Split(text, -1)
	}
}

// Pattern returns the non-overlapping matches of re as fields. When re has
// exactly one capturing group the group's text is used instead of the whole
// match.
func Pattern(re *regexp.Regexp) Splitter {
	if re.NumSubexp() == 1 {
		return func(text string) []string {
			matches := re.FindAllStringSubmatch(text, -1)
			fields := make([]string, len(matches))
			for i, m := range matches {
				fields[i] = m[1]
			}
			return fields
		}
	}
	return func(text string) []string {
		return re.FindAllString(text, -1)
	}
}

// Rest, as the last width, makes the final column run to the end of the
// text.
const Rest = -1

// Widths cuts the text into consecutive columns of the given widths, counted
// in runes. Columns past the end of the text are empty; text after the last
// column is ignored unless the last width is Rest.
func Widths(widths ...int) Splitter {
	type column struct{ begin, end int }
	columns := make([]column, len(widths))
	offset := 0
	for i, w := range widths {
		if w == Rest {
			columns[i] = column{offset, Rest}
			continue
		}
		columns[i] = column{offset, offset + w}
		offset += w
	}

	return func(text string) []string {
		// Byte offset of each rune boundary, plus len(text).
		bounds := make([]int, 0, utf8.RuneCountInString(text)+1)
		for i := range text {
			bounds = append(bounds, i)
		}
		bounds = append(bounds, len(text))
		runes := len(bounds) - 1

		fields := make([]string, len(columns))
		for i, c := range columns {
			end := runes
			if c.end != Rest {
				end = min(c.end, runes)
			}
			begin := min(c.begin, end)
			fields[i] = text[bounds[begin]:bounds[end]]
		}
		return fields
	}
}

type splitterConfig struct {
	widths       []int
	separator    Splitter
	pattern      Splitter
	patternError error
	sepError     error
}

// Option selects how NewSplitter splits.
type Option func(*splitterConfig)

// WithWidths selects fixed-width columns.
func WithWidths(widths ...int) Option {
	return func(c *splitterConfig) { c.widths = widths }
}

// WithSeparator selects splitting around a literal separator.
func WithSeparator(sep string) Option {
	return func(c *splitterConfig) {
		if sep == "" {
			c.sepError = fmt.Errorf("%w: empty separator", ErrInvalidSplitter)
			return
		}
		c.separator, c.sepError = Separator(sep), nil
	}
}

// WithSeparatorRegexp selects splitting around matches of re.
func WithSeparatorRegexp(re *regexp.Regexp) Option {
	return func(c *splitterConfig) {
		if re == nil {
			c.sepError = fmt.Errorf("%w: nil separator regexp", ErrInvalidSplitter)
			return
		}
		c.separator, c.sepError = SeparatorRegexp(re), nil
	}
}

// WithPattern selects fields as the matches of a regular expression source.
func WithPattern(pattern string) Option {
	return func(c *splitterConfig) {
		re, err := regexp.Compile(pattern)
		if err != nil {
			c.patternError = fmt.Errorf("%w: %w", ErrInvalidSplitter, err)
			return
		}
		c.pattern, c.patternError = Pattern(re), nil
	}
}

// WithPatternRegexp selects fields as the matches of re.
func WithPatternRegexp(re *regexp.Regexp) Option {
	return func(c *splitterConfig) {
		if re == nil {
			c.patternError = fmt.Errorf("%w: nil pattern regexp", ErrInvalidSplitter)
			return
		}
		c.pattern, c.patternError = Pattern(re), nil
	}
}

// NewSplitter picks one Splitter from opts. Widths take precedence over a
// separator, a separator over a pattern, and white space splitting is used
// when none is given. Only the chosen option is validated.
func NewSplitter(opts ...Option) (Splitter, error) {
	var cfg splitterConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case len(cfg.widths) > 0:
		for i, w := range cfg.widths {
			if w == Rest && i == len(cfg.widths)-1 {
				continue
			}
			if w < 0 {
				return nil, fmt.Errorf("%w: width %d at column %d", ErrInvalidSplitter, w, i)
			}
		}
		return Widths(cfg.widths...), nil
	case cfg.sepError != nil:
		return nil, cfg.sepError
	case cfg.separator != nil:
		return cfg.separator, nil
	case cfg.patternError != nil:
		return nil, cfg.patternError
	case cfg.pattern != nil:
		return cfg.pattern, nil
	}
	return Whitespace(), nil
}

// Record is one line of text with lazily split fields.
type Record struct {
	text   string
	split  Splitter
	fields []string
	done   bool
}

// New returns a Record for text. A nil split means Whitespace.
func New(text string, split Splitter) *Record {
	if split == nil {
		split = Whitespace()
	}
	return &Record{text: text, split: split}
}

// Text returns the whole line.
func (r *Record) Text() string { return r.text }

func (r *Record) String() string { return r.text }

// Fields returns every field. The slice is shared; do not modify it.
func (r *Record) Fields() []string {
	if !r.done {
		r.fields = r.split(r.text)
		r.done = true
	}
	return r.fields
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.Fields()) }

// Field returns field i, counting from 0. Negative indexes count from the
// end. An index out of range yields "".
func (r *Record) Field(i int) string {
	fields := r.Fields()
	if i < 0 {
		i += len(fields)
	}
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

// Records maps a stream of lines to Records.
func Records(split Splitter) core.Mapper[string, *Record] {
	return core.Map(func(text string) (*Record, error) {
		return New(text, split), nil
	})
}

// Seq wraps each line of lines in a Record.
func Seq(lines iter.Seq[string], split Splitter) iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		for text := range lines {
			if !yield(New(text, split)) {
				return
			}
		}
	}
}
