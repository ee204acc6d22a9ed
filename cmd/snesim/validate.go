package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mpslab/go-snesim/gslib"
	"github.com/mpslab/go-snesim/stats"
	"github.com/mpslab/go-snesim/stree"
)

func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	tiPath := fs.String("ti", "", "Training image GSLIB file (required)")
	dims := fs.String("dims", "", "Training image cell counts nx,ny[,nz] (required)")
	sentinel := fs.Float64("sentinel", gslib.DefaultSentinel, "Missing-value sentinel")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: snesim validate --ti <file> --dims <nx,ny[,nz]> [options]

Check a training image against simulation preconditions: grid coverage,
integral categories, and the category limit.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tiPath == "" || *dims == "" {
		fs.Usage()
		return fmt.Errorf("--ti and --dims required")
	}

	structure, err := parseDims(*dims).Structure()
	if err != nil {
		return err
	}
	cfg := gslib.Config{Sentinel: *sentinel, Delimiter: ' '}
	ti, err := gslib.ReadProperty(*tiPath, structure, cfg)
	if err != nil {
		return err
	}

	if !stats.IsCategorical(ti) {
		return stree.ErrNotCategorical
	}
	freq := stats.Frequencies(ti)
	if len(freq) > stree.MaxCategories {
		return fmt.Errorf("%w: found %d, limit %d", stree.ErrTooManyCategories, len(freq), stree.MaxCategories)
	}
	if len(freq) == 0 {
		return fmt.Errorf("training image has no informed cells")
	}

	fmt.Printf("%s: OK\n", *tiPath)
	fmt.Printf("Grid: %s\n", structure)
	fmt.Printf("Informed: %d / %d cells\n", ti.DefinedCount(), ti.Len())
	fmt.Printf("Categories: %d\n", len(freq))
	for _, c := range stats.Categories(freq) {
		fmt.Printf("  %3d  %8d  (%.2f%%)\n", c, freq[c], 100*float64(freq[c])/float64(ti.DefinedCount()))
	}
	return nil
}
