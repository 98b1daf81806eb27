package lheplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHBookRestatesBinContents(t *testing.T) {
	h := NewHist1D(ptDef("pt"))
	h.Fill(12, 1)
	h.Fill(14, 1)
	h.Fill(16, 1)

	hb := h.ToHBook()

	// The weight lands in the right bin...
	x, y := hb.XY(1)
	assert.InDelta(t, 15.0, x, h.width()/2+1e-12)
	assert.InDelta(t, 3.0, y, 1e-12)

	// ...but as a single restated fill: the hbook entry count is a bin
	// count, not the accumulator's, which is why the rendered summary
	// box stays off.
	assert.Equal(t, int64(1), hb.Entries())
	assert.Equal(t, int64(3), h.Entries)
}
