package gslib

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mpslab/go-snesim/grid"
)

// Write emits a single-property GSLIB stream: header, property count 1,
// the property name, then one value per cell in row-major order with
// missing cells written as the sentinel.
func Write(w io.Writer, gridName, propertyName string, p *grid.Property, cfg Config) error {
	var buf bytes.Buffer
	buf.Grow(p.Len() * 4)
	fmt.Fprintf(&buf, "%s (%dx%dx%d)\n", gridName,
		p.Structure().NX(), p.Structure().NY(), p.Structure().NZ())
	buf.WriteString("1\n")
	buf.WriteString(propertyName + "\n")

	for idx := 0; idx < p.Len(); idx++ {
		v, ok, err := p.GetAt(idx)
		if err != nil {
			return err
		}
		if ok {
			buf.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		} else {
			buf.WriteString(strconv.FormatFloat(cfg.Sentinel, 'g', -1, 64))
		}
		buf.WriteByte('\n')
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile writes a single-property GSLIB file. The output is staged in
// memory first so a failed run never leaves a partial file behind.
func WriteFile(path, gridName, propertyName string, p *grid.Property, cfg Config) error {
	var buf bytes.Buffer
	if err := Write(&buf, gridName, propertyName, p, cfg); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
