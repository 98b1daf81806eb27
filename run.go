package lheplot

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
)

// Options are the already-parsed command-line knobs the surrounding
// tool passes in.
type Options struct {
	Verbose bool
	Workers int
}

// FileSummary is the per-input digest reported at the end of a run.
type FileSummary struct {
	Path        string
	Label       string
	Total       int
	Passed      int
	Weight      float64
	VisibleXSec float64
}

func (s FileSummary) PassedPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total) * 100
}

// Result holds everything a run produced: the filled accumulators, one
// summary per input file, and the accumulated warnings.
type Result struct {
	Booking  *Booking
	Files    []FileSummary
	Warnings *Warnings
}

// Run processes every input file of cfg in order: parse, select, fill.
// Each event is first restricted to the particles.include species, so
// cut multiplicities and fills only ever see the configured particles.
// Histograms are booked per file under name__label keys, as the final
// result overlays files in the plots. The context is checked between
// events so long batch jobs can be aborted at an event boundary.
func Run(ctx context.Context, cfg *Config, opts Options) (*Result, error) {
	defs := cfg.ActiveHistograms()
	if len(defs) == 0 {
		return nil, fmt.Errorf("no histogram overlaps particles.include")
	}

	all, err := Book(nil)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Booking:  all,
		Warnings: NewWarnings(),
	}

	for _, fc := range cfg.Files {
		fdefs := make([]HistDef, len(defs))
		for i, d := range defs {
			fdefs[i] = d.WithName(d.Name + "__" + fc.Label)
		}
		booking, err := Book(fdefs)
		if err != nil {
			return nil, err
		}

		sum, err := runFile(ctx, cfg, fc, booking, opts, res.Warnings)
		if err != nil {
			return nil, err
		}

		if err := res.Booking.Absorb(booking); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, *sum)
	}
	return res, nil
}

func runFile(ctx context.Context, cfg *Config, fc FileConfig, booking *Booking, opts Options, warns *Warnings) (*FileSummary, error) {
	total, err := TotalEvents(fc.Path)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fmt.Errorf("%s: no events found", fc.Path)
	}

	// The normalization weight is per file, not per event: every event
	// from this source carries the same scale.
	weight := 1.0
	if cfg.Plots.Normalize {
		weight = fc.CrossSection * cfg.Plots.Lumi / float64(total)
	}

	log.Printf("processing %s (%d events)", fc.Path, total)

	r, err := Open(fc.Path, warns)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var passed int
	if opts.Workers > 1 {
		passed, err = fillParallel(ctx, cfg, r, booking, weight, opts.Workers, warns)
	} else {
		passed, err = fillSequential(ctx, cfg, r, booking, weight, opts, warns)
	}
	if err != nil {
		return nil, err
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", fc.Path, err)
	}

	eff := float64(passed) / float64(total)
	sum := &FileSummary{
		Path:        fc.Path,
		Label:       fc.Label,
		Total:       total,
		Passed:      passed,
		Weight:      weight,
		VisibleXSec: fc.CrossSection * eff,
	}
	log.Printf("%s: %d/%d passed (%.2f%%), visible cross section %g pb",
		fc.Path, passed, total, sum.PassedPercent(), sum.VisibleXSec)
	return sum, nil
}

func fillSequential(ctx context.Context, cfg *Config, r *Reader, booking *Booking, weight float64, opts Options, warns *Warnings) (int, error) {
	passed := 0
	for r.Next() {
		if err := ctx.Err(); err != nil {
			return passed, err
		}
		// Only the included species are visible to cuts and fills.
		ev := r.Event()
		ev.Particles = ev.Select(cfg.Particles.Include)
		if cfg.ApplyCuts && !PassCuts(ev, cfg.Cuts, warns) {
			continue
		}
		passed++
		if opts.Verbose {
			log.Printf("event %d passed (%d particles)", passed, len(ev.Particles))
		}
		booking.FillEvent(ev, weight, warns)
	}
	return passed, nil
}

// fillParallel fans events out to n workers. Each worker owns an
// independently booked accumulator set seeded from the same
// definitions; the sets are merged elementwise at the end, which is
// associative and commutative up to floating-point rounding.
func fillParallel(ctx context.Context, cfg *Config, r *Reader, booking *Booking, weight float64, n int, warns *Warnings) (int, error) {
	parts := make([]*Booking, n)
	wwarns := make([]*Warnings, n)
	counts := make([]int, n)
	for i := range parts {
		b, err := Book(booking.Defs())
		if err != nil {
			return 0, err
		}
		parts[i] = b
		wwarns[i] = NewWarnings()
	}

	events := make(chan Event, 4*n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			for ev := range events {
				if cfg.ApplyCuts && !PassCuts(ev, cfg.Cuts, wwarns[i]) {
					continue
				}
				counts[i]++
				parts[i].FillEvent(ev, weight, wwarns[i])
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(events)
		for r.Next() {
			ev := r.Event()
			ev.Particles = ev.Select(cfg.Particles.Include)
			select {
			case events <- ev:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}

	passed := 0
	for i := range parts {
		passed += counts[i]
		if err := booking.Merge(parts[i]); err != nil {
			return 0, err
		}
		warns.Merge(wwarns[i])
	}
	return passed, nil
}
