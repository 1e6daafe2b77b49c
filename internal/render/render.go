// Package render draws bipolar patterns as ASCII grids for terminal
// output. Grid reshaping lives entirely here; the network itself only
// ever sees flat vectors.
package render

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mgraupera/engram/internal/hopfield"
)

// ErrShape is returned when a pattern cannot be laid out with the
// requested column count.
var ErrShape = errors.New("render: pattern does not fit the column count")

// Grid renders a pattern as rows of cols cells, '#' for +1 and '_'
// for -1. The pattern length must divide evenly into rows.
func Grid(p hopfield.Pattern, cols int) (string, error) {
	if cols < 1 {
		return "", fmt.Errorf("grid with %d columns: %w", cols, ErrShape)
	}
	if len(p)%cols != 0 {
		return "", fmt.Errorf("grid of %d cells with %d columns: %w", len(p), cols, ErrShape)
	}

	var b strings.Builder
	b.Grow(len(p) + len(p)/cols)
	for i, v := range p {
		if v > 0 {
			b.WriteByte('#')
		} else {
			b.WriteByte('_')
		}
		if (i+1)%cols == 0 && i+1 < len(p) {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// Cols suggests a column count for a pattern of n cells: the square root
// when n is a perfect square, otherwise 0 to signal that the caller must
// choose explicitly.
func Cols(n int) int {
	if n < 1 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	if r*r == n {
		return r
	}
	return 0
}

// Panels lays out rendered grids side by side under their titles,
// separated by gap spaces. Extra titles or grids beyond the shorter
// slice are ignored.
func Panels(titles []string, grids []string, gap int) string {
	count := len(titles)
	if len(grids) < count {
		count = len(grids)
	}
	if count == 0 {
		return ""
	}
	if gap < 1 {
		gap = 1
	}

	panels := make([][]string, count)
	widths := make([]int, count)
	height := 0
	for i := 0; i < count; i++ {
		lines := strings.Split(grids[i], "\n")
		panels[i] = lines
		widths[i] = len(titles[i])
		for _, l := range lines {
			if len(l) > widths[i] {
				widths[i] = len(l)
			}
		}
		if len(lines) > height {
			height = len(lines)
		}
	}

	sep := strings.Repeat(" ", gap)
	var b strings.Builder
	for row := 0; row <= height; row++ {
		cells := make([]string, count)
		for i := 0; i < count; i++ {
			text := ""
			if row == 0 {
				text = titles[i]
			} else if row-1 < len(panels[i]) {
				text = panels[i][row-1]
			}
			cells[i] = text + strings.Repeat(" ", widths[i]-len(text))
		}
		line := strings.TrimRight(strings.Join(cells, sep), " ")
		b.WriteString(line)
		if row < height {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
