package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/profile"

	"github.com/lheplot/lheplot"
)

var (
	configPath = flag.String("config", "", "YAML run configuration")
	histosPath = flag.String("histos", "", "YAML histogram definitions, overriding the config's inline list")
	outDir     = flag.String("outdir", "output", "output directory; a suffix like _cuts_norm is appended from the config flags")
	verbose    = flag.Bool("verbose", false, "log each passing event")
	autoPlot   = flag.Bool("plot", false, "write a plot per histogram after filling")
	workers    = flag.Int("j", 1, "number of concurrent fill workers per file")
	doProfile  = flag.Bool("profile", false, "write a CPU profile")
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options]

Processes the LHE files named in the run configuration, applies cuts,
fills the configured histograms, and writes summary tables.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("lhe_hist: ")
	log.SetFlags(0)

	flag.Usage = printUsage
	flag.Parse()
	if *configPath == "" {
		printUsage()
		log.Fatal("missing -config")
	}

	if *doProfile {
		defer profile.Start().Stop()
	}

	cfg, err := lheplot.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *histosPath != "" {
		defs, err := lheplot.LoadHistDefs(*histosPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Histograms = defs
		if err := cfg.Validate(); err != nil {
			log.Fatal(err)
		}
	}

	dir := *outDir + cfg.LabelSuffix()
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Print("interrupted, stopping at next event boundary")
		cancel()
	}()

	res, err := lheplot.Run(ctx, cfg, lheplot.Options{Verbose: *verbose, Workers: *workers})
	if err != nil {
		log.Fatal(err)
	}

	if err := lheplot.WriteTable(os.Stdout, res); err != nil {
		log.Fatal(err)
	}
	if err := lheplot.WriteCSV(dir, res); err != nil {
		log.Fatal(err)
	}
	log.Printf("summary written to %s", dir)

	if *autoPlot {
		if err := writePlots(dir, cfg, res); err != nil {
			log.Fatal(err)
		}
	}
}

// writePlots emits one image per histogram definition: 1-D histograms
// overlay the per-file fills, 2-D histograms get one heat map per
// input file.
func writePlots(dir string, cfg *lheplot.Config, res *lheplot.Result) error {
	for _, def := range cfg.ActiveHistograms() {
		title := cfg.Plots.Title
		if title == "" {
			title = def.Name
		}

		if def.Mode == lheplot.Mode2D {
			for _, fs := range res.Files {
				h := res.Booking.Hist2(def.Name + "__" + fs.Label)
				if h == nil {
					continue
				}
				out := filepath.Join(dir, def.Name+"__"+fs.Label+".png")
				if err := lheplot.Plot2D(h, title, out); err != nil {
					return err
				}
				log.Printf("wrote %s", out)
			}
			continue
		}

		var hists []*lheplot.Hist1D
		var labels []string
		for _, fs := range res.Files {
			if h := res.Booking.Hist1(def.Name + "__" + fs.Label); h != nil {
				hists = append(hists, h)
				labels = append(labels, fs.Label)
			}
		}
		if len(hists) == 0 {
			continue
		}
		if len(labels) > 1 {
			title += " (" + strings.Join(labels, ", ") + ")"
		}
		out := filepath.Join(dir, def.Name+".png")
		if err := lheplot.Overlay1D(hists, title, cfg.Plots.LogY, out); err != nil {
			return err
		}
		log.Printf("wrote %s", out)
	}
	return nil
}
