package lheplot

// FillEvent accumulates one accepted event into every histogram of the
// booking, with weight w applied to each fill.
//
// Single mode fills once per matching particle. Pair mode requires
// exactly two matching particles, first-by-appearance first, and fills
// once; any other multiplicity skips that histogram for this event.
// 2-D mode evaluates both quantities against each matching particle.
// A degenerate quantity (eta of a zero-momentum particle) skips that
// single fill with a recorded warning instead of binning a non-finite
// value.
func (b *Booking) FillEvent(ev Event, w float64, warns *Warnings) {
	for _, def := range b.defs {
		sel := ev.Select(def.PIDs)

		switch def.Mode {
		case ModeSingle:
			h := b.h1[def.Name]
			for _, p := range sel {
				v, err := def.X.Eval(p.P)
				if err != nil {
					warns.Warnf(WarnDegenerateFill, "histogram %q: %v", def.Name, err)
					continue
				}
				h.Fill(v, w)
			}

		case ModePair:
			if len(sel) != 2 {
				warns.Warnf(WarnPairMismatch, "histogram %q: %d matching particles, want 2", def.Name, len(sel))
				continue
			}
			v, err := def.X.EvalPair(sel[0].P, sel[1].P)
			if err != nil {
				warns.Warnf(WarnDegenerateFill, "histogram %q: %v", def.Name, err)
				continue
			}
			b.h1[def.Name].Fill(v, w)

		case Mode2D:
			h := b.h2[def.Name]
			for _, p := range sel {
				x, err := def.X.Eval(p.P)
				if err != nil {
					warns.Warnf(WarnDegenerateFill, "histogram %q: %v", def.Name, err)
					continue
				}
				y, err := def.Y.Eval(p.P)
				if err != nil {
					warns.Warnf(WarnDegenerateFill, "histogram %q: %v", def.Name, err)
					continue
				}
				h.Fill(x, y, w)
			}
		}
	}
}
