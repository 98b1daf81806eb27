package lheplot

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/tabwriter"
)

// HistRow is the per-histogram digest: entry and weight totals, a mean
// recovered from bin midpoints (the raw events are no longer resident
// when the summary is built), and the outflow counts.
type HistRow struct {
	Name      string
	Entries   int64
	SumW      float64
	Mean      float64
	Underflow int64
	Overflow  int64
}

// Summarize reads the final accumulators into one row per histogram,
// sorted by name. It does not mutate the booking.
func Summarize(b *Booking) []HistRow {
	var rows []HistRow
	for _, name := range b.Names() {
		if h := b.Hist1(name); h != nil {
			rows = append(rows, HistRow{
				Name:      name,
				Entries:   h.Entries,
				SumW:      h.TotalW,
				Mean:      h.Mean(),
				Underflow: h.Under.N,
				Overflow:  h.Over.N,
			})
			continue
		}
		h := b.Hist2(name)
		rows = append(rows, HistRow{
			Name:     name,
			Entries:  h.Entries,
			SumW:     h.TotalW,
			Mean:     h.XMean(),
			Overflow: h.Out.N,
		})
	}
	return rows
}

// WriteTable renders the run digest as aligned text: one block of
// per-file rows, one of per-histogram rows, and the accumulated
// warnings.
func WriteTable(w io.Writer, res *Result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "file\ttotal\tpassed\tpassed%\tvisible xsec (pb)")
	for _, fs := range res.Files {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%g\n",
			fs.Path, fs.Total, fs.Passed, fs.PassedPercent(), fs.VisibleXSec)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "histogram\tentries\tsumw\tmean\tunderflow\toverflow")
	for _, row := range Summarize(res.Booking) {
		fmt.Fprintf(tw, "%s\t%d\t%g\t%g\t%d\t%d\n",
			row.Name, row.Entries, row.SumW, row.Mean, row.Underflow, row.Overflow)
	}

	if res.Warnings.Total() > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "warning\tcount")
		var cats []string
		for category := range res.Warnings.Counts {
			cats = append(cats, category)
		}
		sort.Strings(cats)
		for _, category := range cats {
			fmt.Fprintf(tw, "%s\t%d\n", category, res.Warnings.Counts[category])
		}
		for _, d := range res.Warnings.Detail {
			fmt.Fprintf(tw, "  %s\n", d)
		}
	}
	return tw.Flush()
}

// WriteCSV writes summary.csv (per file) and histograms.csv (per
// histogram) into dir.
func WriteCSV(dir string, res *Result) error {
	if err := writeFileCSV(filepath.Join(dir, "summary.csv"), res); err != nil {
		return err
	}
	return writeHistCSV(filepath.Join(dir, "histograms.csv"), res)
}

func writeFileCSV(path string, res *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"filename", "total_events", "passed_events", "passed_percent", "visible_cross_section"})
	for _, fs := range res.Files {
		w.Write([]string{
			fs.Path,
			strconv.Itoa(fs.Total),
			strconv.Itoa(fs.Passed),
			strconv.FormatFloat(fs.PassedPercent(), 'f', 2, 64),
			strconv.FormatFloat(fs.VisibleXSec, 'g', -1, 64),
		})
	}
	w.Flush()
	return w.Error()
}

func writeHistCSV(path string, res *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"histogram", "entries", "sum_of_weights", "mean", "underflow", "overflow"})
	for _, row := range Summarize(res.Booking) {
		w.Write([]string{
			row.Name,
			strconv.FormatInt(row.Entries, 10),
			strconv.FormatFloat(row.SumW, 'g', -1, 64),
			strconv.FormatFloat(row.Mean, 'g', -1, 64),
			strconv.FormatInt(row.Underflow, 10),
			strconv.FormatInt(row.Overflow, 10),
		})
	}
	w.Flush()
	return w.Error()
}
