package experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportCSV writes a result's trials as CSV with a header row, one row per
// trial in run order.
func ExportCSV(w io.Writer, result Result) error {
	cw := csv.NewWriter(w)

	header := []string{"trial", "pattern_index", "flipped_bits", "iterations", "converged", "outcome", "match_index", "energy"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, t := range result.Trials {
		record := []string{
			strconv.Itoa(i),
			strconv.Itoa(t.PatternIndex),
			strconv.Itoa(t.FlippedBits),
			strconv.Itoa(t.Iterations),
			strconv.FormatBool(t.Converged),
			string(t.Outcome),
			strconv.Itoa(t.MatchIndex),
			strconv.FormatFloat(t.Energy, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
