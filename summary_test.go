package lheplot

import (
	"bytes"
	"context"
	"encoding/csv"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(t *testing.T) *Result {
	t.Helper()
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)
	res, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	return res
}

func TestSummarizeRows(t *testing.T) {
	res := sampleResult(t)
	rows := Summarize(res.Booking)
	require.Len(t, rows, 3)

	byName := make(map[string]HistRow)
	for _, row := range rows {
		byName[row.Name] = row
	}

	pt, ok := byName["top_pt__ttbar"]
	require.True(t, ok)
	assert.Equal(t, int64(1), pt.Entries)
	assert.InDelta(t, 1.0, pt.SumW, 1e-12)
	// One fill in bin 1 of [0,100] x 10 bins: the binned mean is the
	// bin midpoint.
	assert.InDelta(t, 15.0, pt.Mean, 1e-12)
	assert.Zero(t, pt.Underflow)
	assert.Zero(t, pt.Overflow)
}

func TestSummarizeDoesNotMutate(t *testing.T) {
	res := sampleResult(t)
	h := res.Booking.Hist1("top_pt__ttbar")
	before := h.TotalW

	Summarize(res.Booking)
	Summarize(res.Booking)
	assert.Equal(t, before, h.TotalW)
}

func TestWriteTable(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, res))

	out := buf.String()
	assert.Contains(t, out, "testdata/sample.lhe")
	assert.Contains(t, out, "top_pt__ttbar")
	assert.Contains(t, out, "ttbar_mass__ttbar")
}

func TestWriteTableIncludesWarnings(t *testing.T) {
	res := sampleResult(t)
	res.Warnings.Warnf(WarnMalformedEvent, "event 7 skipped: bad momentum")

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, res))
	assert.Contains(t, buf.String(), WarnMalformedEvent)
	assert.Contains(t, buf.String(), "event 7 skipped")
}

func TestWriteCSV(t *testing.T) {
	res := sampleResult(t)
	dir, err := ioutil.TempDir("", "lheplot")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	require.NoError(t, WriteCSV(dir, res))

	f, err := os.Open(filepath.Join(dir, "summary.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"filename", "total_events", "passed_events", "passed_percent", "visible_cross_section"}, records[0])
	assert.Equal(t, "testdata/sample.lhe", records[1][0])
	assert.Equal(t, "3", records[1][1])
	assert.Equal(t, "1", records[1][2])

	g, err := os.Open(filepath.Join(dir, "histograms.csv"))
	require.NoError(t, err)
	defer g.Close()
	records, err = csv.NewReader(g).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "top_pt__ttbar", records[1][0])
}
