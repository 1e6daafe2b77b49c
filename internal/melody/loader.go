// Package melody loads catalogs of melody grid patterns from delimited
// text. Each data row is a sequence of literal 1 and -1 cells, optionally
// preceded by a label cell naming the melody. The loader is the gate
// between raw files and the network: malformed rows are rejected here and
// never reach training or recall.
package melody

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mgraupera/engram/internal/hopfield"
)

var (
	// ErrBadToken is returned when a cell is not a literal 1 or -1.
	ErrBadToken = errors.New("melody: cell is not a 1 or -1 token")

	// ErrRaggedRow is returned when a data row's cell count differs from
	// the first data row.
	ErrRaggedRow = errors.New("melody: row width differs from first row")

	// ErrEmptyCatalog is returned when the source contains no data rows.
	ErrEmptyCatalog = errors.New("melody: no data rows")
)

// Options controls how a delimited source is interpreted.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
	// HasHeader skips the first row.
	HasHeader bool
	// LabelColumn treats the first cell of each data row as the melody
	// name rather than a pattern cell.
	LabelColumn bool
}

// DefaultOptions matches the melody CSV layout: comma-separated, one
// header row of column names, first column naming each melody.
func DefaultOptions() Options {
	return Options{Comma: ',', HasHeader: true, LabelColumn: true}
}

// Catalog is an ordered, validated collection of named patterns of one
// uniform width. Accessors hand out the backing data directly; callers
// must treat it as read-only.
type Catalog struct {
	names    []string
	patterns hopfield.PatternSet
	size     int
}

// Len returns the number of patterns.
func (c *Catalog) Len() int { return len(c.patterns) }

// Size returns the pattern width.
func (c *Catalog) Size() int { return c.size }

// Pattern returns the pattern at index i.
func (c *Catalog) Pattern(i int) hopfield.Pattern { return c.patterns[i] }

// Patterns returns the full pattern set.
func (c *Catalog) Patterns() hopfield.PatternSet { return c.patterns }

// Name returns the label of pattern i, or a positional fallback when the
// source had no label for it.
func (c *Catalog) Name(i int) string {
	if i >= 0 && i < len(c.names) && c.names[i] != "" {
		return c.names[i]
	}
	return fmt.Sprintf("pattern %d", i)
}

// Names returns the labels for all patterns, with fallbacks applied.
func (c *Catalog) Names() []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.Name(i)
	}
	return out
}

// Load reads a catalog from a file on disk.
func Load(path string, opts Options) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("melody: open %s: %w", path, err)
	}
	defer f.Close()
	c, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("melody: %s: %w", path, err)
	}
	return c, nil
}

// Read parses a catalog from a delimited stream.
func Read(r io.Reader, opts Options) (*Catalog, error) {
	if opts.Comma == 0 {
		opts.Comma = ','
	}
	cr := csv.NewReader(r)
	cr.Comma = opts.Comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	labelOffset := 0
	if opts.LabelColumn {
		labelOffset = 1
	}

	var (
		names    []string
		patterns hopfield.PatternSet
		width    = -1
		row      int
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++
		if opts.HasHeader && row == 1 {
			continue
		}

		name := ""
		cells := record
		if opts.LabelColumn && len(cells) > 0 {
			name = strings.TrimSpace(cells[0])
			cells = cells[1:]
		}
		if width < 0 {
			if len(cells) == 0 {
				return nil, fmt.Errorf("row %d has no pattern cells: %w", row, ErrEmptyCatalog)
			}
			width = len(cells)
		}
		if len(cells) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", row, len(cells), width, ErrRaggedRow)
		}

		p := make(hopfield.Pattern, 0, width)
		for col, cell := range cells {
			switch strings.TrimSpace(cell) {
			case "1":
				p = append(p, 1)
			case "-1":
				p = append(p, -1)
			default:
				return nil, fmt.Errorf("row %d column %d value %q: %w", row, col+1+labelOffset, cell, ErrBadToken)
			}
		}
		names = append(names, name)
		patterns = append(patterns, p)
	}

	if len(patterns) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &Catalog{names: names, patterns: patterns, size: width}, nil
}
