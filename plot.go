package lheplot

import (
	"fmt"
	"image/color"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// LineColor returns the color used for the i-th overlaid histogram.
func LineColor(i int) color.RGBA {
	switch i {
	case 1:
		return color.RGBA{G: 255, A: 255}
	case 2:
		return color.RGBA{B: 255, A: 255}
	case 3:
		return color.RGBA{R: 255, B: 127, G: 127, A: 255}
	}
	return color.RGBA{A: 255}
}

// ToHBook converts the accumulator to an hbook histogram for
// rendering. Bin contents are restated as one weighted fill per bin
// midpoint, so the hbook entry count and moments describe the bins,
// not the original fills; callers must not surface them as statistics.
func (h *Hist1D) ToHBook() *hbook.H1D {
	hb := hbook.NewH1D(h.Def.Bins, h.Def.Xmin, h.Def.Xmax)
	for i, w := range h.SumW {
		if w != 0 {
			hb.Fill(h.Mid(i), w)
		}
	}
	return hb
}

func axisLabel(def HistDef) string {
	label := def.XLabel
	if label == "" {
		label = def.X.String()
	}
	if def.Unit != "" {
		label += " (" + def.Unit + ")"
	}
	return label
}

// Overlay1D draws hists on one canvas, one line color per entry, and
// saves it to output.
func Overlay1D(hists []*Hist1D, title string, logY bool, output string) error {
	if len(hists) == 0 {
		return fmt.Errorf("plot: nothing to draw")
	}

	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.X.Label.Text = axisLabel(hists[0].Def)
	p.X.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	if logY {
		p.Y.Tick.Marker = LogTicks{}
		p.Y.Scale = LogScale{}
	} else {
		p.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	}

	for i, hist := range hists {
		h := hplot.NewH1D(hist.ToHBook())
		h.FillColor = nil
		h.LineStyle.Color = LineColor(i)
		// The restated fills would make the summary box report bin
		// counts as entries; the true statistics live in the summary
		// tables instead.
		h.Infos.Style = hplot.HInfoNone
		p.Add(h)
	}

	return p.Save(6*vg.Inch, 4*vg.Inch, output)
}

// histGrid adapts a Hist2D to the plotter grid interface; columns are
// x bins and rows are y bins.
type histGrid struct {
	h *Hist2D
}

func (g histGrid) Dims() (int, int) { return g.h.Def.Bins, g.h.Def.YBins }

func (g histGrid) Z(c, r int) float64 { return g.h.At(c, r) }

func (g histGrid) X(c int) float64 {
	return g.h.Def.Xmin + (float64(c)+0.5)*g.h.xwidth()
}

func (g histGrid) Y(r int) float64 {
	return g.h.Def.Ymin + (float64(r)+0.5)*g.h.ywidth()
}

// Plot2D draws a 2-D histogram as a heat map and saves it to output.
func Plot2D(h *Hist2D, title string, output string) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.X.Label.Text = axisLabel(h.Def)
	p.Y.Label.Text = h.Def.Y.String()
	p.X.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}

	hm := plotter.NewHeatMap(histGrid{h}, moreland.SmoothBlueRed().Palette(255))
	p.Add(hm)

	return p.Save(6*vg.Inch, 4*vg.Inch, output)
}
