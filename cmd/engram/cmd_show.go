package main

import (
	"encoding/json"
	"fmt"

	"github.com/mgraupera/engram/internal/render"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <melodies.csv>",
		Short: "Render stored melodies as grids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			index, _ := cmd.Flags().GetInt("index")
			colsFlag, _ := cmd.Flags().GetInt("cols")

			cat, err := loadCatalog(args[0])
			if err != nil {
				return err
			}
			if index >= cat.Len() {
				return fmt.Errorf("--index %d out of range [0, %d)", index, cat.Len())
			}

			cols, err := resolveCols(colsFlag, cat.Size())
			if err != nil {
				return err
			}

			indices := make([]int, 0, cat.Len())
			if index >= 0 {
				indices = append(indices, index)
			} else {
				for i := 0; i < cat.Len(); i++ {
					indices = append(indices, i)
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				type melodyView struct {
					Index int       `json:"index"`
					Name  string    `json:"name"`
					Cells []float64 `json:"cells"`
				}
				melodies := make([]melodyView, 0, len(indices))
				for _, i := range indices {
					melodies = append(melodies, melodyView{Index: i, Name: cat.Name(i), Cells: cat.Pattern(i)})
				}
				json.NewEncoder(out).Encode(map[string]interface{}{
					"source":   args[0],
					"size":     cat.Size(),
					"count":    cat.Len(),
					"melodies": melodies,
				})
				return nil
			}

			fmt.Fprintf(out, "Catalog %s: %d melodies of %d cells (%dx%d):\n",
				args[0], cat.Len(), cat.Size(), cat.Size()/cols, cols)
			for _, i := range indices {
				grid, err := render.Grid(cat.Pattern(i), cols)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%d: %s\n%s\n", i, cat.Name(i), grid)
			}

			return nil
		},
	}

	cmd.Flags().Int("index", -1, "Show only the melody at this index (default: all)")
	cmd.Flags().Int("cols", 0, "Grid columns for rendering (default: square layout)")

	return cmd
}
