package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mpslab/go-snesim/gslib"
	"github.com/mpslab/go-snesim/plotter"
)

func visualize(args []string) error {
	fs := flag.NewFlagSet("visualize", flag.ExitOnError)
	dims := fs.String("dims", "", "Grid cell counts nx,ny[,nz] (required)")
	output := fs.String("output", "", "Output SVG file (required)")
	layer := fs.Int("layer", 0, "z-layer to render for 3D grids")
	cellPixels := fs.Int("cell", 8, "Rendered pixels per grid cell")
	title := fs.String("title", "", "Map title")
	sentinel := fs.Float64("sentinel", gslib.DefaultSentinel, "Missing-value sentinel")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: snesim visualize --dims <nx,ny[,nz]> --output <file.svg> [options] <file.gslib>

Render a categorical GSLIB grid to SVG.

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
	if *dims == "" || *output == "" {
		fs.Usage()
		return fmt.Errorf("--dims and --output required")
	}

	structure, err := parseDims(*dims).Structure()
	if err != nil {
		return err
	}
	cfg := gslib.Config{Sentinel: *sentinel, Delimiter: ' '}
	p, err := gslib.ReadProperty(fs.Arg(0), structure, cfg)
	if err != nil {
		return err
	}

	svg, err := plotter.NewSVGMap().
		SetTitle(*title).
		SetCellPixels(*cellPixels).
		Render(p, *layer)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*output, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	fmt.Printf("Wrote %s\n", *output)
	return nil
}
