package lheplot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lheText = `<LesHouchesEvents version="3.0">
<header>
#  Number of Events        :       2
</header>
<init>
2212 2212 6.5e3 6.5e3 0 0 247000 247000 -4 1
1.0 0.01 1.0 1
</init>
<event>
 2      1 +5.0000000e-01 1.715e+02 7.54e-03 1.17e-01
        6  1    0    0  501    0 +1.0e+01 +0.0e+00 +5.0e+00 2.00e+02 1.725e+02 0.0e+00 1.0e+00
       -6  1    0    0    0  502 -1.0e+01 +0.0e+00 -5.0e+00 2.00e+02 1.725e+02 0.0e+00 -1.0e+00
</event>
<event>
 1      1 +1.0000000e+00 1.715e+02 7.54e-03 1.17e-01
       11  1    0    0    0    0 +3.0e+00 +4.0e+00 +0.0e+00 5.00e+00 5.11e-04 0.0e+00 1.0e+00
</event>
</LesHouchesEvents>
`

func TestReaderParsesEvents(t *testing.T) {
	r := NewReader(strings.NewReader(lheText), nil)

	require.True(t, r.Next())
	ev := r.Event()
	require.Len(t, ev.Particles, 2)
	assert.Equal(t, 6, ev.Particles[0].PID)
	assert.Equal(t, -6, ev.Particles[1].PID)
	assert.Equal(t, Vec4{Px: 10, Py: 0, Pz: 5, E: 200}, ev.Particles[0].P)
	assert.InDelta(t, 0.5, ev.Weight, 1e-12)

	require.True(t, r.Next())
	ev = r.Event()
	require.Len(t, ev.Particles, 1)
	assert.Equal(t, 11, ev.Particles[0].PID)
	assert.InDelta(t, 1.0, ev.Weight, 1e-12)

	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
}

func TestReaderPreservesParticleOrder(t *testing.T) {
	r := NewReader(strings.NewReader(lheText), nil)
	require.True(t, r.Next())

	pids := []int{}
	for _, p := range r.Event().Particles {
		pids = append(pids, p.PID)
	}
	assert.Equal(t, []int{6, -6}, pids)
}

func TestReaderSkipsMalformedBlocks(t *testing.T) {
	warns := NewWarnings()
	r, err := Open("testdata/corrupt.lhe", warns)
	require.NoError(t, err)
	defer r.Close()

	var events []Event
	for r.Next() {
		events = append(events, r.Event())
	}
	require.NoError(t, r.Err())

	// Blocks 2 (non-numeric momentum) and 4 (truncated at EOF) are
	// skipped; 1 and 3 survive.
	require.Len(t, events, 2)
	assert.Equal(t, 11, events[0].Particles[0].PID)
	assert.Equal(t, 2, warns.Counts[WarnMalformedEvent])
}

func TestNumEventsHint(t *testing.T) {
	n, ok := NumEventsHint("testdata/sample.lhe")
	require.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = NumEventsHint("testdata/corrupt.lhe")
	assert.False(t, ok)
}

func TestCountEvents(t *testing.T) {
	n, err := CountEvents("testdata/sample.lhe")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// CountEvents counts tags, including blocks that will not parse.
	n, err = CountEvents("testdata/corrupt.lhe")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestTotalEventsFallsBackToCount(t *testing.T) {
	n, err := TotalEvents("testdata/corrupt.lhe")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestReaderEmptyStream(t *testing.T) {
	r := NewReader(strings.NewReader(""), nil)
	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
}
