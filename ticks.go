package lheplot

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// PreciseTicks is a tick marker that never truncates tick labels to
// fewer significant digits than the tick spacing calls for.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	suggested := t.NSuggestedTicks
	if suggested == 0 {
		suggested = 4
	}

	if max <= min {
		panic("illegal range")
	}

	// Shrink a decade step until the range holds at least the
	// suggested number of steps, then stretch it back out by an
	// integer multiple.
	step := math.Pow10(int(math.Floor(math.Log10(max - min))))
	for (max-min)/step < float64(suggested)-1 {
		step /= 10
	}
	mult := int((max - min) / step / float64(suggested-1))
	switch mult {
	case 7:
		mult = 6
	case 9:
		mult = 8
	}
	major := float64(mult) * step

	var majors []float64
	v := math.Floor(min/major) * major
	for ; v <= max; v += major {
		if v >= min {
			majors = append(majors, v)
		}
	}
	// v sits one step past max here, bounding the digits a label needs.
	prec := int(math.Ceil(math.Log10(v)) - math.Floor(math.Log10(major)))

	ticks := make([]plot.Tick, 0, len(majors))
	for _, m := range majors {
		r := round(m, prec)
		ticks = append(ticks, plot.Tick{Value: r, Label: formatFloatTick(r, -1)})
	}

	// Unlabeled minor ticks between the majors, at a divisor that
	// keeps them on round values.
	minor := major / 2
	switch mult {
	case 3, 6:
		minor = major / 3
	case 5:
		minor = major / 5
	}
	for v := math.Floor(min/minor) * minor; v <= max; v += minor {
		if v < min {
			continue
		}
		dup := false
		for _, tick := range ticks {
			if tick.Value == v {
				dup = true
				break
			}
		}
		if !dup {
			ticks = append(ticks, plot.Tick{Value: v})
		}
	}
	return ticks
}

// LogTicks places major ticks at powers of ten with unlabeled minor
// ticks at the intermediate integer multiples.
type LogTicks struct{}

func (LogTicks) Ticks(min, max float64) []plot.Tick {
	if min <= 0 || max <= min {
		panic("illegal range")
	}

	var ticks []plot.Tick
	for pow := math.Floor(math.Log10(min)); pow <= math.Ceil(math.Log10(max)); pow++ {
		base := math.Pow10(int(pow))
		if base >= min && base <= max {
			ticks = append(ticks, plot.Tick{Value: base, Label: formatFloatTick(base, -1)})
		}
		for mult := 2.; mult < 10; mult++ {
			v := mult * base
			if v >= min && v <= max {
				ticks = append(ticks, plot.Tick{Value: v})
			}
		}
	}
	return ticks
}

// LogScale maps the axis logarithmically. The axis range must be
// strictly positive.
type LogScale struct{}

func (LogScale) Normalize(min, max, x float64) float64 {
	if min <= 0 || max <= 0 || x <= 0 {
		panic("values must be positive for log scale")
	}
	logMin := math.Log(min)
	return (math.Log(x) - logMin) / (math.Log(max) - logMin)
}

// round rounds x half away from zero at prec decimal digits.
func round(x float64, prec int) float64 {
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	scaled := x * pow
	if math.IsInf(scaled, 0) {
		return x
	}
	r := math.Floor(math.Abs(scaled) + 0.5)
	if r == 0 {
		// Never with the sign bit set.
		return 0
	}
	if x < 0 {
		r = -r
	}
	return r / pow
}

func formatFloatTick(v float64, prec int) string {
	return strconv.FormatFloat(v, 'g', prec, 64)
}
