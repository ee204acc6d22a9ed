package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mpslab/go-snesim/gslib"
	"github.com/mpslab/go-snesim/stats"
)

func summary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	dims := fs.String("dims", "", "Grid cell counts nx,ny[,nz] (required)")
	sentinel := fs.Float64("sentinel", gslib.DefaultSentinel, "Missing-value sentinel")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: snesim summary --dims <nx,ny[,nz]> [options] <file.gslib>

Display a quick summary of a GSLIB grid file.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("grid file required")
	}
	if *dims == "" {
		fs.Usage()
		return fmt.Errorf("--dims required")
	}

	cfg := gslib.Config{Sentinel: *sentinel, Delimiter: ' '}
	file, err := gslib.ReadFile(fs.Arg(0), cfg)
	if err != nil {
		return err
	}
	structure, err := parseDims(*dims).Structure()
	if err != nil {
		return err
	}

	fmt.Printf("=== %s ===\n", file.Name)
	fmt.Printf("Records: %d\n", file.NumRecords())
	fmt.Printf("Properties: %d\n", len(file.PropertyNames))
	for i, name := range file.PropertyNames {
		p, err := file.Property(i, structure, *sentinel)
		if err != nil {
			return err
		}
		freq := stats.Frequencies(p)
		fmt.Printf("\n%s: %d informed, %d missing, %d categories\n",
			name, p.DefinedCount(), p.UndefinedCount(), len(freq))
		for _, c := range stats.Categories(freq) {
			fmt.Printf("  %3d  %8d  (%.2f%%)\n", c, freq[c], 100*float64(freq[c])/float64(p.DefinedCount()))
		}
	}
	return nil
}
