package lheplot

import (
	"fmt"
	"sort"

	yaml "gopkg.in/yaml.v3"
)

// Mode selects how particles feed a cut or histogram: one at a time,
// as an exact pair, or into a 2-D histogram.
type Mode int

const (
	ModeSingle Mode = iota
	ModePair
	Mode2D
)

var modeNames = map[Mode]string{
	ModeSingle: "single",
	ModePair:   "pair",
	Mode2D:     "2d",
}

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m Mode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// HistDef declares one histogram: which particles feed it, what
// quantity is binned, and the binning itself.
type HistDef struct {
	Name   string   `yaml:"name"`
	Mode   Mode     `yaml:"mode"`
	X      Quantity `yaml:"quantity"`
	Y      Quantity `yaml:"yquantity"`
	PIDs   []int    `yaml:"id"`
	Bins   int      `yaml:"bins"`
	Xmin   float64  `yaml:"xmin"`
	Xmax   float64  `yaml:"xmax"`
	YBins  int      `yaml:"ybins"`
	Ymin   float64  `yaml:"ymin"`
	Ymax   float64  `yaml:"ymax"`
	XLabel string   `yaml:"xlabel"`
	Unit   string   `yaml:"unit"`
}

func (d HistDef) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("histogram without a name")
	}
	if len(d.PIDs) == 0 {
		return fmt.Errorf("histogram %q: empty id list", d.Name)
	}
	if d.Bins <= 0 {
		return fmt.Errorf("histogram %q: bins must be > 0, got %d", d.Name, d.Bins)
	}
	if d.Xmin >= d.Xmax {
		return fmt.Errorf("histogram %q: xmin %g >= xmax %g", d.Name, d.Xmin, d.Xmax)
	}
	if d.X == quantInvalid {
		return fmt.Errorf("histogram %q: missing quantity", d.Name)
	}
	switch d.Mode {
	case ModeSingle:
		if d.X.PairOnly() {
			return fmt.Errorf("histogram %q: quantity %s requires pair mode", d.Name, d.X)
		}
	case ModePair:
	case Mode2D:
		if d.YBins <= 0 {
			return fmt.Errorf("histogram %q: ybins must be > 0, got %d", d.Name, d.YBins)
		}
		if d.Ymin >= d.Ymax {
			return fmt.Errorf("histogram %q: ymin %g >= ymax %g", d.Name, d.Ymin, d.Ymax)
		}
		if d.Y == quantInvalid {
			return fmt.Errorf("histogram %q: missing yquantity", d.Name)
		}
		if d.X.PairOnly() || d.Y.PairOnly() {
			return fmt.Errorf("histogram %q: pair-only quantity in 2d mode", d.Name)
		}
	default:
		return fmt.Errorf("histogram %q: unknown mode", d.Name)
	}
	return nil
}

// WithName returns a copy of d under a new name. Used to key one
// booking per input file, as name__label.
func (d HistDef) WithName(name string) HistDef {
	d.Name = name
	return d
}

// Outflow counts fills landing outside the binned range.
type Outflow struct {
	W float64
	N int64
}

// Hist1D accumulates weights in fixed equal-width bins. SumW holds
// per-bin weight sums and Counts the unweighted fill counts, so the
// mean can be recovered from bin midpoints after the events are gone.
type Hist1D struct {
	Def     HistDef
	SumW    []float64
	Counts  []int64
	Under   Outflow
	Over    Outflow
	Entries int64
	TotalW  float64
}

func NewHist1D(def HistDef) *Hist1D {
	return &Hist1D{
		Def:    def,
		SumW:   make([]float64, def.Bins),
		Counts: make([]int64, def.Bins),
	}
}

func (h *Hist1D) width() float64 {
	return (h.Def.Xmax - h.Def.Xmin) / float64(h.Def.Bins)
}

// Mid returns the midpoint of bin i.
func (h *Hist1D) Mid(i int) float64 {
	return h.Def.Xmin + (float64(i)+0.5)*h.width()
}

// Fill adds weight w at x. Values outside [xmin, xmax] go to the
// underflow or overflow counter; x == xmax lands in the last bin.
func (h *Hist1D) Fill(x, w float64) {
	h.Entries++
	h.TotalW += w
	switch {
	case x < h.Def.Xmin:
		h.Under.W += w
		h.Under.N++
	case x > h.Def.Xmax:
		h.Over.W += w
		h.Over.N++
	default:
		i := int((x - h.Def.Xmin) / h.width())
		if i == h.Def.Bins {
			i--
		}
		h.SumW[i] += w
		h.Counts[i]++
	}
}

// Mean returns the unweighted mean estimated from bin midpoints and
// counts, excluding outflows.
func (h *Hist1D) Mean() float64 {
	var sum float64
	var n int64
	for i, c := range h.Counts {
		sum += h.Mid(i) * float64(c)
		n += c
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Merge adds o into h elementwise. Both must share a binning.
func (h *Hist1D) Merge(o *Hist1D) error {
	if o.Def.Bins != h.Def.Bins || o.Def.Xmin != h.Def.Xmin || o.Def.Xmax != h.Def.Xmax {
		return fmt.Errorf("histogram %q: incompatible binning", h.Def.Name)
	}
	for i := range h.SumW {
		h.SumW[i] += o.SumW[i]
		h.Counts[i] += o.Counts[i]
	}
	h.Under.W += o.Under.W
	h.Under.N += o.Under.N
	h.Over.W += o.Over.W
	h.Over.N += o.Over.N
	h.Entries += o.Entries
	h.TotalW += o.TotalW
	return nil
}

// Hist2D accumulates weights on a fixed 2-D grid, stored row-major as
// iy*Bins + ix. A single outflow counter covers both axes.
type Hist2D struct {
	Def     HistDef
	SumW    []float64
	Counts  []int64
	Out     Outflow
	Entries int64
	TotalW  float64
}

func NewHist2D(def HistDef) *Hist2D {
	n := def.Bins * def.YBins
	return &Hist2D{
		Def:    def,
		SumW:   make([]float64, n),
		Counts: make([]int64, n),
	}
}

func (h *Hist2D) xwidth() float64 { return (h.Def.Xmax - h.Def.Xmin) / float64(h.Def.Bins) }
func (h *Hist2D) ywidth() float64 { return (h.Def.Ymax - h.Def.Ymin) / float64(h.Def.YBins) }

// At returns the accumulated weight of cell (ix, iy).
func (h *Hist2D) At(ix, iy int) float64 {
	return h.SumW[iy*h.Def.Bins+ix]
}

func (h *Hist2D) Fill(x, y, w float64) {
	h.Entries++
	h.TotalW += w
	if x < h.Def.Xmin || x > h.Def.Xmax || y < h.Def.Ymin || y > h.Def.Ymax {
		h.Out.W += w
		h.Out.N++
		return
	}
	ix := int((x - h.Def.Xmin) / h.xwidth())
	if ix == h.Def.Bins {
		ix--
	}
	iy := int((y - h.Def.Ymin) / h.ywidth())
	if iy == h.Def.YBins {
		iy--
	}
	h.SumW[iy*h.Def.Bins+ix] += w
	h.Counts[iy*h.Def.Bins+ix]++
}

// XMean returns the unweighted mean of the x coordinate from column
// midpoints and counts, excluding outflows.
func (h *Hist2D) XMean() float64 {
	var sum float64
	var n int64
	for i, c := range h.Counts {
		ix := i % h.Def.Bins
		mid := h.Def.Xmin + (float64(ix)+0.5)*h.xwidth()
		sum += mid * float64(c)
		n += c
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (h *Hist2D) Merge(o *Hist2D) error {
	if len(o.SumW) != len(h.SumW) || o.Def.Xmin != h.Def.Xmin || o.Def.Ymin != h.Def.Ymin {
		return fmt.Errorf("histogram %q: incompatible binning", h.Def.Name)
	}
	for i := range h.SumW {
		h.SumW[i] += o.SumW[i]
		h.Counts[i] += o.Counts[i]
	}
	h.Out.W += o.Out.W
	h.Out.N += o.Out.N
	h.Entries += o.Entries
	h.TotalW += o.TotalW
	return nil
}

// Booking is a named set of histogram accumulators created from
// validated definitions. It has a single owner for the duration of a
// run; concurrent fills require one Booking per worker followed by a
// Merge.
type Booking struct {
	defs []HistDef
	h1   map[string]*Hist1D
	h2   map[string]*Hist2D
}

// Book creates accumulators for defs. Definitions are validated and a
// duplicate or invalid entry rejects the whole set.
func Book(defs []HistDef) (*Booking, error) {
	b := &Booking{
		h1: make(map[string]*Hist1D),
		h2: make(map[string]*Hist2D),
	}
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, dup1 := b.h1[def.Name]; dup1 {
			return nil, fmt.Errorf("duplicate histogram name %q", def.Name)
		}
		if _, dup2 := b.h2[def.Name]; dup2 {
			return nil, fmt.Errorf("duplicate histogram name %q", def.Name)
		}
		if def.Mode == Mode2D {
			b.h2[def.Name] = NewHist2D(def)
		} else {
			b.h1[def.Name] = NewHist1D(def)
		}
		b.defs = append(b.defs, def)
	}
	return b, nil
}

func (b *Booking) Defs() []HistDef { return b.defs }

func (b *Booking) Hist1(name string) *Hist1D { return b.h1[name] }
func (b *Booking) Hist2(name string) *Hist2D { return b.h2[name] }

// Names returns all histogram names in sorted order.
func (b *Booking) Names() []string {
	names := make([]string, 0, len(b.h1)+len(b.h2))
	for name := range b.h1 {
		names = append(names, name)
	}
	for name := range b.h2 {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge adds o into b elementwise. Both bookings must have been
// created from the same definitions.
func (b *Booking) Merge(o *Booking) error {
	for name, h := range b.h1 {
		oh := o.h1[name]
		if oh == nil {
			return fmt.Errorf("histogram %q missing from merged booking", name)
		}
		if err := h.Merge(oh); err != nil {
			return err
		}
	}
	for name, h := range b.h2 {
		oh := o.h2[name]
		if oh == nil {
			return fmt.Errorf("histogram %q missing from merged booking", name)
		}
		if err := h.Merge(oh); err != nil {
			return err
		}
	}
	return nil
}

// Absorb moves o's histograms into b. Names must be disjoint; used to
// gather per-file bookings into one result set.
func (b *Booking) Absorb(o *Booking) error {
	for name, h := range o.h1 {
		if _, dup := b.h1[name]; dup {
			return fmt.Errorf("duplicate histogram name %q", name)
		}
		b.h1[name] = h
	}
	for name, h := range o.h2 {
		if _, dup := b.h2[name]; dup {
			return fmt.Errorf("duplicate histogram name %q", name)
		}
		b.h2[name] = h
	}
	b.defs = append(b.defs, o.defs...)
	return nil
}
