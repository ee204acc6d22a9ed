package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mpslab/go-snesim/config"
	"github.com/mpslab/go-snesim/grid"
	"github.com/mpslab/go-snesim/gslib"
	"github.com/mpslab/go-snesim/results"
	"github.com/mpslab/go-snesim/sim"
	"github.com/mpslab/go-snesim/storage"
)

func run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML run specification (flags override its fields)")
	tiPath := fs.String("ti", "", "Training image GSLIB file")
	tiDims := fs.String("ti-dims", "", "Training image cell counts (nx,ny[,nz])")
	dims := fs.String("dims", "", "Simulation grid cell counts (nx,ny[,nz])")
	output := fs.String("output", "", "Output GSLIB file")
	levels := fs.String("levels", "", "Pyramid levels finest first (k:rx:ry:rz,...)")
	switchover := fs.Float64("switchover", -1, "Reverse/forward switchover percentage [0,100]")
	seed := fs.Uint("seed", 0, "Random seed")
	sentinel := fs.Float64("sentinel", gslib.DefaultSentinel, "Missing-value sentinel")
	delimiter := fs.String("delimiter", "", "Field delimiter: space, tab, comma, semicolon")
	workers := fs.Int("workers", 0, "Worker pool size (0 = all cores)")
	hardData := fs.String("hard-data", "", "Conditional data table file")
	hardDataCol := fs.String("hard-data-column", "facies", "Property column of the conditional data table")
	resultsPath := fs.String("results", "", "Write run results JSON to this file")
	dbPath := fs.String("db", "", "Catalog the run in this SQLite database")
	verbose := fs.Bool("verbose", false, "Debug-level progress logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: snesim run [options]

Simulate a categorical realization from a training image.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	spec := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		spec = loaded
	}
	applyFlagOverrides(spec, fs, *tiPath, *tiDims, *dims, *output, *levels,
		*switchover, uint32(*seed), *sentinel, *delimiter, *workers, *hardData, *hardDataCol, *dbPath)
	if err := spec.Validate(); err != nil {
		return err
	}

	logger := newLogger(*verbose)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tiStructure, err := spec.TIGrid.Structure()
	if err != nil {
		return err
	}
	simStructure, err := spec.SimGrid.Structure()
	if err != nil {
		return err
	}
	fileCfg := spec.GSLIB()

	ti, err := gslib.ReadProperty(spec.TrainingImage, tiStructure, fileCfg)
	if err != nil {
		return fmt.Errorf("training image: %w", err)
	}
	logger.Info().
		Str("file", spec.TrainingImage).
		Int("informed", ti.DefinedCount()).
		Msg("training image loaded")

	realization := grid.NewProperty(simStructure)
	if spec.HardData != "" {
		table, err := gslib.ReadTableFile(spec.HardData, fileCfg)
		if err != nil {
			return fmt.Errorf("hard data: %w", err)
		}
		bound, dropped, err := table.BindColumn(simStructure, spec.HardDataCol, spec.Sentinel)
		if err != nil {
			return fmt.Errorf("hard data: %w", err)
		}
		for idx := 0; idx < bound.Len(); idx++ {
			if v, ok, _ := bound.GetAt(idx); ok {
				if err := realization.SetAt(idx, v); err != nil {
					return err
				}
			}
		}
		logger.Info().
			Int("records", len(table.Records)).
			Int("dropped", dropped).
			Int("informed", realization.DefinedCount()).
			Msg("conditional data bound")
	}

	opts := &sim.Options{
		Switchover: spec.Switchover,
		Seed:       spec.Seed,
		CDMin:      1,
		Workers:    spec.Workers,
		Logger:     logger,
	}
	pyramid, err := sim.NewPyramid(spec.SimLevels(), opts)
	if err != nil {
		return err
	}

	started := time.Now()
	out, err := pyramid.Run(ctx, realization, ti)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	elapsed := time.Since(started)
	logger.Info().Dur("elapsed", elapsed).Msg("simulation complete")

	if err := gslib.WriteFile(spec.Output, "realization", "facies", out, fileCfg); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d cells, %v)\n", spec.Output, out.Len(), elapsed.Round(time.Millisecond))

	res := results.NewBuilder().
		WithSimulation(runParameters(spec)).
		WithOutput(spec.Output, out).
		WithComputeTime(elapsed).
		Build()
	if *resultsPath != "" {
		if err := results.WriteJSON(res, *resultsPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", *resultsPath)
	}
	if spec.Database != "" {
		store, err := storage.Open(spec.Database)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.RecordRun(res); err != nil {
			return fmt.Errorf("catalog run: %w", err)
		}
		fmt.Printf("Cataloged run %s in %s\n", res.Metadata.RunID, spec.Database)
	}
	return nil
}

// applyFlagOverrides layers explicitly-set flags over the loaded spec.
func applyFlagOverrides(spec *config.RunSpec, fs *flag.FlagSet,
	ti, tiDims, dims, output, levels string, switchover float64, seed uint32,
	sentinel float64, delimiter string, workers int, hardData, hardDataCol, db string) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if ti != "" {
		spec.TrainingImage = ti
	}
	if tiDims != "" {
		spec.TIGrid = parseDims(tiDims)
	}
	if dims != "" {
		spec.SimGrid = parseDims(dims)
	}
	if output != "" {
		spec.Output = output
	}
	if levels != "" {
		spec.Levels = parseLevels(levels)
	}
	if set["switchover"] && switchover >= 0 {
		spec.Switchover = switchover
	}
	if set["seed"] {
		spec.Seed = seed
	}
	if set["sentinel"] {
		spec.Sentinel = sentinel
	}
	if delimiter != "" {
		spec.Delimiter = delimiter
	}
	if set["workers"] {
		spec.Workers = workers
	}
	if hardData != "" {
		spec.HardData = hardData
	}
	if set["hard-data-column"] {
		spec.HardDataCol = hardDataCol
	}
	if db != "" {
		spec.Database = db
	}
}

// parseDims reads "nx,ny" or "nx,ny,nz" with unit cell sizes.
func parseDims(s string) config.GridSpec {
	parts := strings.Split(s, ",")
	g := config.GridSpec{NZ: 1, SX: 1, SY: 1, SZ: 1}
	if len(parts) > 0 {
		g.NX, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	}
	if len(parts) > 1 {
		g.NY, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	if len(parts) > 2 {
		g.NZ, _ = strconv.Atoi(strings.TrimSpace(parts[2]))
	}
	return g
}

// parseLevels reads "k:rx:ry:rz,k:rx:ry:rz,..." finest first.
func parseLevels(s string) []config.LevelSpec {
	var levels []config.LevelSpec
	for _, part := range strings.Split(s, ",") {
		fields := strings.Split(strings.TrimSpace(part), ":")
		l := config.LevelSpec{RX: 1, RY: 1, RZ: 1}
		if len(fields) > 0 {
			l.K, _ = strconv.Atoi(fields[0])
		}
		if len(fields) > 1 {
			l.RX, _ = strconv.ParseFloat(fields[1], 64)
		}
		if len(fields) > 2 {
			l.RY, _ = strconv.ParseFloat(fields[2], 64)
		}
		if len(fields) > 3 {
			l.RZ, _ = strconv.ParseFloat(fields[3], 64)
		}
		levels = append(levels, l)
	}
	return levels
}

func runParameters(spec *config.RunSpec) results.Simulation {
	params := results.Simulation{
		TrainingImage: spec.TrainingImage,
		Switchover:    spec.Switchover,
		Seed:          spec.Seed,
		Sentinel:      spec.Sentinel,
	}
	for _, l := range spec.Levels {
		params.Levels = append(params.Levels, results.Level{K: l.K, RX: l.RX, RY: l.RY, RZ: l.RZ})
	}
	return params
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
