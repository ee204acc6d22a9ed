// Package results defines the structured output format for simulation runs
package results

import "time"

const SchemaVersion = "1.0.0"

// Results contains complete run output
type Results struct {
	Version    string     `json:"version"`
	Metadata   Metadata   `json:"metadata"`
	Simulation Simulation `json:"simulation"`
	Output     Output     `json:"output"`
}

// Metadata contains run execution information
type Metadata struct {
	RunID       string    `json:"runId"`
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"` // success, error
	Error       string    `json:"error,omitempty"`
	ComputeTime float64   `json:"computeTime"` // seconds
}

// Simulation contains the parameters used
type Simulation struct {
	TrainingImage string  `json:"trainingImage"`
	Levels        []Level `json:"levels"`
	Switchover    float64 `json:"switchover"`
	Seed          uint32  `json:"seed"`
	Sentinel      float64 `json:"sentinel"`
}

// Level records one pyramid level's template parameters
type Level struct {
	K  int     `json:"k"`
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
	RZ float64 `json:"rz"`
}

// Output summarizes the simulated property
type Output struct {
	File       string        `json:"file"`
	GridCells  [3]int        `json:"gridCells"`
	CellCount  int           `json:"cellCount"`
	Informed   int           `json:"informed"`
	Categories int           `json:"categories"`
	Histogram  []CategoryBin `json:"histogram"`
}

// CategoryBin is one class of the output histogram
type CategoryBin struct {
	Category int     `json:"category"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
}
