package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

func writeStats(w io.Writer, s extractStats) {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("rangeflow")

	tbl.AppendRow(table.Row{"Lines read", humanize.Comma(s.Lines)})
	tbl.AppendRow(table.Row{"Ranges", humanize.Comma(int64(s.Ranges))})
	tbl.AppendRow(table.Row{"Truncated", humanize.Comma(s.Counts.Truncated)})
	tbl.AppendRow(table.Row{"Lines in ranges", humanize.Comma(s.Counts.Matched)})
	tbl.AppendRow(table.Row{"Lines skipped", humanize.Comma(s.Counts.Skipped)})
	tbl.AppendRow(table.Row{"Longest range", humanize.Comma(s.Counts.Longest)})
	tbl.AppendRow(table.Row{"Elapsed", s.Elapsed.Round(time.Microsecond).String()})
	if secs := s.Elapsed.Seconds(); secs > 0 {
		tbl.AppendRow(table.Row{"Throughput", humanize.Commaf(float64(int64(float64(s.Lines)/secs))) + " lines/s"})
	}
	if s.RunID != "" {
		tbl.AppendRow(table.Row{"Run", s.RunID})
	}

	fmt.Fprintln(w, tbl.Render())
}
