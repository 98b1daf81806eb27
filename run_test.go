package lheplot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The reference scenario: three events, a pair cut on dpt in
// [0, 0.2]. Event 1 (dpt 0.1) is accepted, event 2 has a single top
// (multiplicity mismatch), event 3 (dpt 5.0) is out of range.
func TestRunScenario(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)

	res, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)

	require.Len(t, res.Files, 1)
	fs := res.Files[0]
	assert.Equal(t, 3, fs.Total)
	assert.Equal(t, 1, fs.Passed)
	assert.InDelta(t, 1.0, fs.Weight, 1e-12, "weight stays 1.0 without normalization")
	assert.InDelta(t, 2.5/3.0, fs.VisibleXSec, 1e-12)

	// The accepted event's top (pt 10) fills exactly weight 1.0.
	h := res.Booking.Hist1("top_pt__ttbar")
	require.NotNil(t, h)
	assert.Equal(t, int64(1), h.Entries)
	assert.InDelta(t, 1.0, h.SumW[1], 1e-12)
	assert.InDelta(t, 1.0, h.TotalW, 1e-12)

	m := res.Booking.Hist1("ttbar_mass__ttbar")
	require.NotNil(t, m)
	assert.Equal(t, int64(1), m.Entries)
}

func TestRunCrossSectionWeight(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)
	cfg.Plots.Normalize = true

	res, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)

	// weight = xsec * lumi / total events, fixed per input file.
	want := 2.5 * 100.0 / 3.0
	fs := res.Files[0]
	assert.InDelta(t, want, fs.Weight, 1e-9)

	h := res.Booking.Hist1("top_pt__ttbar")
	assert.InDelta(t, want, h.TotalW, 1e-9)
}

func TestRunWithoutCuts(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)
	cfg.ApplyCuts = false

	res, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Files[0].Passed)

	// The pair histogram skips the single-top event but records it.
	m := res.Booking.Hist1("ttbar_mass__ttbar")
	assert.Equal(t, int64(2), m.Entries)
	assert.Equal(t, 1, res.Warnings.Counts[WarnPairMismatch])
}

// Partitioning the input across workers and merging elementwise must
// reproduce the single-accumulator run up to floating-point rounding.
func TestRunParallelMatchesSequential(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)
	cfg.ApplyCuts = false
	cfg.Plots.Normalize = true

	seq, err := Run(context.Background(), cfg, Options{Workers: 1})
	require.NoError(t, err)
	par, err := Run(context.Background(), cfg, Options{Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, seq.Files[0].Passed, par.Files[0].Passed)
	for _, name := range seq.Booking.Names() {
		hs := seq.Booking.Hist1(name)
		if hs == nil {
			continue
		}
		hp := par.Booking.Hist1(name)
		require.NotNil(t, hp, name)
		assert.Equal(t, hs.Entries, hp.Entries, name)
		for i := range hs.SumW {
			if hs.SumW[i] == 0 {
				assert.Zero(t, hp.SumW[i])
				continue
			}
			assert.InEpsilon(t, hs.SumW[i], hp.SumW[i], 1e-9)
		}
	}
}

// particles.include restricts the event itself, not just which
// histograms get booked: species outside the list are invisible to
// cuts and fills, so an excluded antitop cannot complete a pair.
func TestRunRestrictsToIncludedParticles(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)
	cfg.ApplyCuts = false
	cfg.Particles.Include = []int{6}

	res, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)

	// Only the three type-6 tops are ever seen.
	h := res.Booking.Hist1("top_pt__ttbar")
	require.NotNil(t, h)
	assert.Equal(t, int64(3), h.Entries)

	// The antitops are filtered out, so the pair histogram never sees
	// two particles even in the two-top events.
	m := res.Booking.Hist1("ttbar_mass__ttbar")
	require.NotNil(t, m)
	assert.Equal(t, int64(0), m.Entries)
	assert.Equal(t, 3, res.Warnings.Counts[WarnPairMismatch])
}

func TestRunIncludedParticlesGateCuts(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)

	// With the antitop excluded, the pair cut on (6, -6) sees one
	// particle per event and fails closed everywhere.
	cfg.Particles.Include = []int{6}
	res, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Files[0].Passed)
}

func TestRunCanceledContext(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Run(ctx, cfg, Options{})
	assert.Error(t, err)
}

func TestRunNoActiveHistograms(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)
	cfg.Particles.Include = []int{11}

	_, err = Run(context.Background(), cfg, Options{})
	assert.Error(t, err)
}

func TestRunCorruptInputKeepsGoing(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)
	cfg.Files = []FileConfig{{Path: "testdata/corrupt.lhe", Label: "ele", CrossSection: 1}}
	cfg.Particles.Include = []int{11, -11}
	cfg.ApplyCuts = false
	cfg.Histograms = []HistDef{{
		Name: "e_pt", Mode: ModeSingle, X: QuantPT,
		PIDs: []int{11, -11},
		Bins: 10, Xmin: 0, Xmax: 10,
	}}
	require.NoError(t, cfg.Validate())

	res, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)

	// Two blocks parse, two are skipped with warnings; the skips are
	// part of the auditable summary.
	assert.Equal(t, 2, res.Files[0].Passed)
	assert.Equal(t, 2, res.Warnings.Counts[WarnMalformedEvent])
	assert.Equal(t, int64(3), res.Booking.Hist1("e_pt__ele").Entries)
}
