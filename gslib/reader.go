// Package gslib reads and writes grid properties in the GSLIB text format:
// a free-form header line, a property count, one property name per line,
// then one whitespace- or delimiter-separated numeric record per grid cell
// in row-major order (ix fastest, then iy, then iz). A configurable
// sentinel value stands in for missing cells. The package also handles
// tabular conditional data keyed by real-world coordinates.
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

// DefaultSentinel is the conventional missing-value marker.
const DefaultSentinel = -99.0

// Config selects the field delimiter and the sentinel standing in for
// missing values.
type Config struct {
	// Sentinel marks missing values in any numeric field.
	Sentinel float64
	// Delimiter separates fields: one of ' ', '\t', ';', ','. The space
	// delimiter also swallows runs of blanks and tabs.
	Delimiter rune
}

// DefaultConfig returns the conventional GSLIB settings.
func DefaultConfig() Config {
	return Config{Sentinel: DefaultSentinel, Delimiter: ' '}
}

// File is a parsed GSLIB file: the grid name from the header, property
// names, and per-property value columns in row-major cell order. Sentinel
// substitution happens when a column is bound to a grid.
type File struct {
	Name          string
	PropertyNames []string
	columns       [][]float64
}

// Read parses a GSLIB stream.
func Read(r io.Reader, cfg Config) (*File, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	header, ok := nextLine(scanner)
	if !ok {
		return nil, fmt.Errorf("%w: missing header line", ErrFormat)
	}
	countLine, ok := nextLine(scanner)
	if !ok {
		return nil, fmt.Errorf("%w: missing property count line", ErrFormat)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil || count < 1 {
		return nil, fmt.Errorf("%w: bad property count %q", ErrFormat, strings.TrimSpace(countLine))
	}

	names := make([]string, count)
	for i := 0; i < count; i++ {
		name, ok := nextLine(scanner)
		if !ok {
			return nil, fmt.Errorf("%w: expected %d property names, got %d", ErrFormat, count, i)
		}
		names[i] = strings.TrimSpace(name)
	}

	columns := make([][]float64, count)
	line := 2 + count
	for {
		raw, ok := nextLine(scanner)
		if !ok {
			break
		}
		line++
		fields := splitFields(raw, cfg.Delimiter)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < count {
			return nil, fmt.Errorf("%w: line %d has %d fields, need %d", ErrFormat, line, len(fields), count)
		}
		for i := 0; i < count; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d field %d: %q", ErrFormat, line, i+1, fields[i])
			}
			columns[i] = append(columns[i], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read GSLIB stream: %w", err)
	}

	return &File{
		Name:          gridName(header),
		PropertyNames: names,
		columns:       columns,
	}, nil
}

// ReadFile parses a GSLIB file from disk.
func ReadFile(path string, cfg Config) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	out, err := Read(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// NumRecords returns the number of data records read.
func (f *File) NumRecords() int {
	if len(f.columns) == 0 {
		return 0
	}
	return len(f.columns[0])
}

// PropertyIndex resolves a property name to its column, or -1.
func (f *File) PropertyIndex(name string) int {
	for i, n := range f.PropertyNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Property binds column i onto a grid, substituting missing for sentinel
// fields. The record count must equal the grid's cell count.
func (f *File) Property(i int, s *grid.Structure, sentinel float64) (*grid.Property, error) {
	if i < 0 || i >= len(f.columns) {
		return nil, fmt.Errorf("%w: column %d of %d", ErrNoSuchProperty, i, len(f.columns))
	}
	col := f.columns[i]
	if len(col) != s.Count() {
		return nil, fmt.Errorf("%w: %d records for %d cells", ErrGridMismatch, len(col), s.Count())
	}
	p := grid.NewProperty(s)
	for idx, v := range col {
		if v == sentinel {
			continue
		}
		if err := p.SetAt(idx, float32(v)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ReadProperty is the common single-property path: parse a file and bind
// its first column onto the grid.
func ReadProperty(path string, s *grid.Structure, cfg Config) (*grid.Property, error) {
	f, err := ReadFile(path, cfg)
	if err != nil {
		return nil, err
	}
	p, err := f.Property(0, s, cfg.Sentinel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// gridName extracts the grid name prefix of a header line: everything up to
// the first '{' or '(', trimmed.
func gridName(header string) string {
	cut := len(header)
	if i := strings.IndexAny(header, "{("); i >= 0 {
		cut = i
	}
	return strings.TrimSpace(header[:cut])
}

// splitFields tokenizes one data line. The space delimiter treats any
// blank run (spaces or tabs) as one separator; explicit delimiters split
// exactly and trim surrounding blanks.
func splitFields(line string, delim rune) []string {
	if delim == ' ' {
		return strings.Fields(line)
	}
	parts := strings.Split(line, string(delim))
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

func nextLine(scanner *bufio.Scanner) (string, bool) {
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line, true
	}
	return "", false
}
