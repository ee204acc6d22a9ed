package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSON writes a result set to a JSON file. The document is staged in
// a temporary file in the target directory and renamed into place, so a
// failed run never leaves a partial results file behind (the same
// no-partial-output rule the GSLIB writer follows).
func WriteJSON(res *Results, filename string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("stage results: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("stage results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("stage results: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// ReadJSON reads a result set from a JSON file, rejecting documents whose
// schema major version differs from SchemaVersion.
func ReadJSON(filename string) (*Results, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	var res Results
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	if !compatibleVersion(res.Version) {
		return nil, fmt.Errorf("results schema %q not compatible with %q", res.Version, SchemaVersion)
	}
	return &res, nil
}

// compatibleVersion accepts documents sharing SchemaVersion's major
// component. An empty version predates versioned output and is rejected.
func compatibleVersion(v string) bool {
	return majorOf(v) != "" && majorOf(v) == majorOf(SchemaVersion)
}

func majorOf(v string) string {
	for i := 0; i < len(v); i++ {
		if v[i] == '.' {
			return v[:i]
		}
	}
	return v
}
