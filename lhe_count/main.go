package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lheplot/lheplot"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` <lhe-input-files>...

Prints the event count of each file, taken from the banner's
"Number of Events" comment when present, otherwise counted.
`,
	)
}

func main() {
	log.SetPrefix("lhe_count: ")
	log.SetFlags(0)

	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 {
		printUsage()
		log.Fatal("Invalid arguments")
	}

	for _, filename := range flag.Args() {
		if n, ok := lheplot.NumEventsHint(filename); ok {
			fmt.Printf("%s\t%d\t(header)\n", filename, n)
			continue
		}
		n, err := lheplot.CountEvents(filename)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s\t%d\n", filename, n)
	}
}
