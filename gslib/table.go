package gslib

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mpslab/go-snesim/grid"
)

// Table holds tabular conditional data: named scalar columns with at least
// x and y coordinate columns (and z for 3D binding). Coordinates locate
// records on a grid; the remaining columns carry property values.
type Table struct {
	Columns []string
	Records []map[string]float64
}

// ReadTable parses a delimited table whose first line names the columns.
func ReadTable(r io.Reader, cfg Config) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	header, ok := nextLine(scanner)
	if !ok {
		return nil, fmt.Errorf("%w: missing column header", ErrFormat)
	}
	columns := splitFields(header, cfg.Delimiter)
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: empty column header", ErrFormat)
	}

	t := &Table{Columns: columns}
	line := 1
	for {
		raw, ok := nextLine(scanner)
		if !ok {
			break
		}
		line++
		fields := splitFields(raw, cfg.Delimiter)
		if len(fields) < len(columns) {
			return nil, fmt.Errorf("%w: line %d has %d fields, need %d", ErrFormat, line, len(fields), len(columns))
		}
		rec := make(map[string]float64, len(columns))
		for i, col := range columns {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %q", ErrFormat, line, col, fields[i])
			}
			rec[col] = v
		}
		t.Records = append(t.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return t, nil
}

// ReadTableFile parses a conditional data table from disk.
func ReadTableFile(path string, cfg Config) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	t, err := ReadTable(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// column resolves a name case-insensitively to its canonical spelling.
func (t *Table) column(name string) (string, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// BindColumn places one property column onto a grid. Record coordinates
// map to the nearest cell center; records falling outside the grid are
// discarded and counted in dropped. Sentinel property values stay missing.
// Coordinates themselves are never sentinel.
func (t *Table) BindColumn(s *grid.Structure, property string, sentinel float64) (*grid.Property, int, error) {
	xCol, ok := t.column("x")
	if !ok {
		return nil, 0, fmt.Errorf("%w: x", ErrNoSuchProperty)
	}
	yCol, ok := t.column("y")
	if !ok {
		return nil, 0, fmt.Errorf("%w: y", ErrNoSuchProperty)
	}
	zCol := ""
	if s.Is3D() {
		if zCol, ok = t.column("z"); !ok {
			return nil, 0, fmt.Errorf("%w: z (3D grid)", ErrNoSuchProperty)
		}
	}
	propCol, ok := t.column(property)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrNoSuchProperty, property)
	}

	p := grid.NewProperty(s)
	dropped := 0
	for _, rec := range t.Records {
		var c grid.Coord
		if s.Is3D() {
			c = grid.NewCoord3D(rec[xCol], rec[yCol], rec[zCol])
		} else {
			c = grid.NewCoord2D(rec[xCol], rec[yCol])
		}
		si, inGrid := s.IndexAtCoord(c)
		if !inGrid {
			dropped++
			continue
		}
		v := rec[propCol]
		if v == sentinel {
			continue
		}
		if err := p.Set(si, float32(v)); err != nil {
			return nil, dropped, err
		}
	}
	return p, dropped, nil
}
