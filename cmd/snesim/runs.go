package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mpslab/go-snesim/storage"
)

func runs(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite results database (required)")
	limit := fs.Int("limit", 20, "Maximum rows to list")
	histogram := fs.String("histogram", "", "Show the category histogram of one run id")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: snesim runs --db <file> [options]

List cataloged simulation runs, newest first.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		fs.Usage()
		return fmt.Errorf("--db required")
	}

	store, err := storage.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if *histogram != "" {
		bins, err := store.Histogram(*histogram)
		if err != nil {
			return err
		}
		if len(bins) == 0 {
			return fmt.Errorf("no run %s", *histogram)
		}
		fmt.Printf("Run %s:\n", *histogram)
		for _, b := range bins {
			fmt.Printf("  %3d  %8d  (%.2f%%)\n", b.Category, b.Count, 100*b.Fraction)
		}
		return nil
	}

	rows, err := store.ListRuns(*limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No cataloged runs.")
		return nil
	}
	for _, r := range rows {
		fmt.Printf("%s  %s  seed=%d  θ=%g  levels=%d  %dx%dx%d  %.2fs  %s\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Seed, r.Switchover,
			r.Levels, r.NX, r.NY, r.NZ, r.ComputeTime, r.Status)
	}
	return nil
}
