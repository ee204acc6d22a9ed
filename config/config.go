// Package config defines the YAML run specification consumed by the CLI:
// file locations, grid declarations, pyramid levels, and simulation
// parameters, with defaults and validation.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mpslab/go-snesim/grid"
	"github.com/mpslab/go-snesim/gslib"
	"github.com/mpslab/go-snesim/sim"
)

// ErrInvalid is returned when a run specification fails validation.
var ErrInvalid = errors.New("invalid run specification")

// GridSpec declares a regular grid in the run document.
type GridSpec struct {
	NX int     `yaml:"nx"`
	NY int     `yaml:"ny"`
	NZ int     `yaml:"nz"`
	SX float64 `yaml:"sx"`
	SY float64 `yaml:"sy"`
	SZ float64 `yaml:"sz"`
	X0 float64 `yaml:"x0"`
	Y0 float64 `yaml:"y0"`
	Z0 float64 `yaml:"z0"`
}

// LevelSpec declares one pyramid level, finest first.
type LevelSpec struct {
	K  int     `yaml:"k"`
	RX float64 `yaml:"rx"`
	RY float64 `yaml:"ry"`
	RZ float64 `yaml:"rz"`
}

// RunSpec is the complete run document.
type RunSpec struct {
	TrainingImage string      `yaml:"training_image"`
	Output        string      `yaml:"output"`
	TIGrid        GridSpec    `yaml:"ti_grid"`
	SimGrid       GridSpec    `yaml:"sim_grid"`
	Levels        []LevelSpec `yaml:"levels"`
	Switchover    float64     `yaml:"switchover"`
	Seed          uint32      `yaml:"seed"`
	Sentinel      float64     `yaml:"sentinel"`
	Delimiter     string      `yaml:"delimiter"`
	Workers       int         `yaml:"workers"`
	Database      string      `yaml:"database"`
	HardData      string      `yaml:"hard_data"`
	HardDataCol   string      `yaml:"hard_data_column"`
}

// Default returns a run spec with the conventional parameter values; file
// locations and grids are left for the caller.
func Default() *RunSpec {
	return &RunSpec{
		Levels:     []LevelSpec{{K: 20, RX: 1, RY: 1, RZ: 1}},
		Switchover: 50,
		Seed:       1,
		Sentinel:   gslib.DefaultSentinel,
		Delimiter:  "space",
		Workers:    0,
	}
}

// Load reads and validates a YAML run document, applying defaults for
// omitted parameters.
func Load(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	spec := Default()
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// Validate checks the document for completeness and consistency.
func (s *RunSpec) Validate() error {
	if s.TrainingImage == "" {
		return fmt.Errorf("%w: training_image required", ErrInvalid)
	}
	if s.Output == "" {
		return fmt.Errorf("%w: output required", ErrInvalid)
	}
	if _, err := s.TIGrid.Structure(); err != nil {
		return fmt.Errorf("%w: ti_grid: %v", ErrInvalid, err)
	}
	if _, err := s.SimGrid.Structure(); err != nil {
		return fmt.Errorf("%w: sim_grid: %v", ErrInvalid, err)
	}
	if len(s.Levels) == 0 {
		return fmt.Errorf("%w: at least one level required", ErrInvalid)
	}
	for i, l := range s.Levels {
		if l.K <= 0 {
			return fmt.Errorf("%w: level %d k must be > 0", ErrInvalid, i)
		}
		if l.RX <= 0 || l.RY <= 0 || l.RZ <= 0 {
			return fmt.Errorf("%w: level %d ratios must be > 0", ErrInvalid, i)
		}
	}
	if s.Switchover < 0 || s.Switchover > 100 {
		return fmt.Errorf("%w: switchover must be in [0, 100]", ErrInvalid)
	}
	if _, err := s.DelimiterRune(); err != nil {
		return err
	}
	return nil
}

// Structure materializes a grid spec, defaulting sizes to 1 and nz to 1.
func (g GridSpec) Structure() (*grid.Structure, error) {
	nz := g.NZ
	if nz == 0 {
		nz = 1
	}
	sx, sy, sz := g.SX, g.SY, g.SZ
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	if sz == 0 {
		sz = 1
	}
	return grid.NewStructure3D(g.NX, g.NY, nz, sx, sy, sz, g.X0, g.Y0, g.Z0)
}

// DelimiterRune maps the document's delimiter word to its rune.
func (s *RunSpec) DelimiterRune() (rune, error) {
	switch s.Delimiter {
	case "", "space":
		return ' ', nil
	case "tab":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	}
	return 0, fmt.Errorf("%w: delimiter must be space, tab, comma, or semicolon", ErrInvalid)
}

// GSLIB returns the file I/O configuration for this run.
func (s *RunSpec) GSLIB() gslib.Config {
	d, err := s.DelimiterRune()
	if err != nil {
		d = ' '
	}
	return gslib.Config{Sentinel: s.Sentinel, Delimiter: d}
}

// SimLevels converts the level list into simulation parameters.
func (s *RunSpec) SimLevels() []sim.Level {
	levels := make([]sim.Level, len(s.Levels))
	for i, l := range s.Levels {
		levels[i] = sim.Level{K: l.K, RX: l.RX, RY: l.RY, RZ: l.RZ}
	}
	return levels
}
