package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/lheplot/lheplot"
)

var (
	ids    = lheplot.IntArrayFlags{Array: []int{11, -11}}
	nBins  = flag.Int("nbins", 50, "number of bins")
	minX   = flag.Float64("min", 0, "lower mass bound")
	maxX   = flag.Float64("max", 200, "upper mass bound")
	title  = flag.String("title", "", "plot title")
	output = flag.String("output", "out.png", "output file")
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <lhe-input-files>...

Quick look at the invariant mass of opposite-id particle pairs,
overlaid per input file.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("lhe_pair_mass: ")
	log.SetFlags(0)

	flag.Var(&ids, "id", "PDG ids to pair (repeatable)")
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 {
		printUsage()
		log.Fatal("Invalid arguments")
	}

	p, err := plot.New()
	if err != nil {
		log.Fatal(err)
	}
	p.Title.Text = *title
	p.X.Label.Text = "Mass (GeV)"
	p.X.Tick.Marker = lheplot.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = lheplot.PreciseTicks{NSuggestedTicks: 5}

	for i, filename := range flag.Args() {
		hist := makePairMassHist(filename)

		h := hplot.NewH1D(hist)
		h.LineStyle.Color = lheplot.LineColor(i)
		if len(flag.Args()) == 1 {
			h.Infos.Style = hplot.HInfoSummary
		}

		p.Add(h)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, *output); err != nil {
		log.Fatal(err)
	}
}

func makePairMassHist(filename string) *hbook.H1D {
	hist := hbook.NewH1D(*nBins, *minX, *maxX)

	warns := lheplot.NewWarnings()
	r, err := lheplot.Open(filename, warns)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	for r.Next() {
		sel := r.Event().Select(ids.Array)
		for i := 0; i < len(sel); i++ {
			for j := i + 1; j < len(sel); j++ {
				if sel[i].PID == sel[j].PID {
					continue
				}
				m := sel[i].P.Add(sel[j].P).M()
				if m >= *minX && m <= *maxX {
					hist.Fill(m, 1)
				}
			}
		}
	}
	if err := r.Err(); err != nil {
		log.Fatal(err)
	}
	if n := warns.Total(); n > 0 {
		log.Printf("%s: %d events skipped", filename, n)
	}

	return hist
}
