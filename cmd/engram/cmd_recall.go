package main

import (
	"encoding/json"
	"fmt"

	"github.com/mgraupera/engram/internal/config"
	"github.com/mgraupera/engram/internal/hopfield"
	"github.com/mgraupera/engram/internal/render"
	"github.com/spf13/cobra"
)

func newRecallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall <melodies.csv>",
		Short: "Corrupt one melody and recall it",
		Long: `Train on the catalog, flip a fraction of one melody's cells, and
settle the corrupted state through the network.

Example:
  engram recall melodies.csv --index 3 --noise 0.3 --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			index, _ := cmd.Flags().GetInt("index")
			noise, _ := cmd.Flags().GetFloat64("noise")
			seed, _ := cmd.Flags().GetInt64("seed")
			maxIter, _ := cmd.Flags().GetInt("max-iter")
			colsFlag, _ := cmd.Flags().GetInt("cols")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if noise < 0 {
				noise = cfg.Noise.Primary
			}
			if maxIter < 1 {
				maxIter = cfg.Recall.MaxIterations
			}

			cat, err := loadCatalog(args[0])
			if err != nil {
				return err
			}
			if index < 0 || index >= cat.Len() {
				return fmt.Errorf("--index %d out of range [0, %d)", index, cat.Len())
			}

			cols, err := resolveCols(colsFlag, cat.Size())
			if err != nil {
				return err
			}

			net, err := hopfield.New(cat.Size())
			if err != nil {
				return err
			}
			if err := net.Train(cat.Patterns()); err != nil {
				return err
			}

			seed = resolveSeed(seed)
			original := cat.Pattern(index)
			noisy, err := hopfield.NewNoiseInjector(seed).Apply(original, noise)
			if err != nil {
				return err
			}
			flipped, err := original.Hamming(noisy)
			if err != nil {
				return err
			}
			res, err := net.Recall(noisy, maxIter)
			if err != nil {
				return err
			}
			cls, err := hopfield.Classify(res.Pattern, original, cat.Patterns())
			if err != nil {
				return err
			}
			energy, err := net.Energy(res.Pattern)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				result := map[string]interface{}{
					"index":        index,
					"name":         cat.Name(index),
					"noise_level":  noise,
					"seed":         seed,
					"flipped_bits": flipped,
					"outcome":      string(cls.Outcome),
					"match_index":  cls.MatchIndex,
					"iterations":   res.Iterations,
					"converged":    res.Converged,
					"energy":       energy,
					"recalled":     []float64(res.Pattern),
				}
				if cls.MatchIndex >= 0 {
					result["match_name"] = cat.Name(cls.MatchIndex)
				}
				json.NewEncoder(out).Encode(result)
				return nil
			}

			grids := make([]string, 0, 3)
			for _, p := range []hopfield.Pattern{original, noisy, res.Pattern} {
				g, err := render.Grid(p, cols)
				if err != nil {
					return err
				}
				grids = append(grids, g)
			}

			fmt.Fprintf(out, "Recalling melody %d %q at noise %.2f (%d of %d cells flipped, seed %d):\n\n",
				index, cat.Name(index), noise, flipped, cat.Size(), seed)
			fmt.Fprintln(out, render.Panels([]string{"Original", "Noisy", "Recovered"}, grids, 3))
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Outcome: %s\n", describeOutcome(cls, cat))
			fmt.Fprintf(out, "Iterations: %s\n", describeIterations(res))
			fmt.Fprintf(out, "Energy: %g\n", energy)

			return nil
		},
	}

	cmd.Flags().Int("index", 0, "Index of the melody to corrupt (required)")
	cmd.Flags().Float64("noise", -1, "Corruption level in [0, 1] (default from config)")
	cmd.Flags().Int64("seed", 0, "Noise seed (0 derives one from the clock)")
	cmd.Flags().Int("max-iter", 0, "Recall iteration budget (default from config)")
	cmd.Flags().Int("cols", 0, "Grid columns for rendering (default: square layout)")
	cmd.MarkFlagRequired("index")

	return cmd
}
