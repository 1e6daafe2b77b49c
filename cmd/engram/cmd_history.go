package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mgraupera/engram/internal/config"
	"github.com/mgraupera/engram/internal/results"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored trial runs",
		Long: `Show runs persisted by 'engram trials', newest first.

Examples:
  engram history
  engram history --limit 5
  engram history --run 1f3c9a2b-...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")
			runID, _ := cmd.Flags().GetString("run")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			dataDir, err := cfg.DataPath()
			if err != nil {
				return err
			}
			st, err := results.Open(filepath.Join(dataDir, "results.db"))
			if err != nil {
				return fmt.Errorf("failed to open results store: %w", err)
			}
			defer st.Close()

			ctx := context.Background()
			out := cmd.OutOrStdout()

			if runID != "" {
				run, err := st.GetRun(ctx, runID)
				if errors.Is(err, results.ErrRunNotFound) {
					if jsonOut {
						json.NewEncoder(out).Encode(map[string]interface{}{
							"error": "run not found",
							"id":    runID,
						})
					} else {
						fmt.Fprintf(out, "Run not found: %s\n", runID)
					}
					return nil
				}
				if err != nil {
					return err
				}
				trials, err := st.RunTrials(ctx, runID)
				if err != nil {
					return err
				}

				if jsonOut {
					json.NewEncoder(out).Encode(map[string]interface{}{
						"run":    run,
						"trials": trials,
					})
					return nil
				}

				fmt.Fprintf(out, "Run %s\n", run.ID)
				fmt.Fprintf(out, "  Created:          %s\n", run.CreatedAt.Format(time.RFC3339))
				fmt.Fprintf(out, "  Source:           %s\n", run.Source)
				fmt.Fprintf(out, "  Network:          %d neurons, %d melodies\n", run.NetworkSize, run.PatternCount)
				fmt.Fprintf(out, "  Noise level:      %.2f\n", run.NoiseLevel)
				fmt.Fprintf(out, "  Trials:           %d per melody (%d total), seed %d\n",
					run.TrialsPerPattern, len(trials), run.Seed)
				fmt.Fprintf(out, "  Max iterations:   %d\n", run.MaxIterations)
				fmt.Fprintf(out, "  Exact rate:       %.1f%%\n", run.ExactRate*100)
				fmt.Fprintf(out, "  Convergence rate: %.1f%%\n", run.ConvergenceRate*100)
				fmt.Fprintf(out, "  Mean iterations:  %.1f\n", run.MeanIterations)

				return nil
			}

			runs, err := st.ListRuns(ctx, limit)
			if err != nil {
				return err
			}

			if jsonOut {
				json.NewEncoder(out).Encode(map[string]interface{}{
					"runs":  runs,
					"count": len(runs),
				})
				return nil
			}

			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				fmt.Fprintln(out, "\nUse 'engram trials <melodies.csv>' to run and store one.")
				return nil
			}

			fmt.Fprintf(out, "Stored runs (%d):\n\n", len(runs))
			fmt.Fprintf(out, "%-8s %-20s %-20s %8s %6s %7s\n",
				"ID", "Created", "Source", "Melodies", "Noise", "Exact")
			fmt.Fprintln(out, repeatChar('-', 75))
			for _, r := range runs {
				shortID := r.ID
				if len(shortID) > 8 {
					shortID = shortID[:8]
				}
				source := r.Source
				if len(source) > 20 {
					source = "..." + source[len(source)-17:]
				}
				fmt.Fprintf(out, "%-8s %-20s %-20s %8d %6.2f %6.1f%%\n",
					shortID, r.CreatedAt.Format("2006-01-02 15:04:05"), source,
					r.PatternCount, r.NoiseLevel, r.ExactRate*100)
			}

			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")
	cmd.Flags().String("run", "", "Show one run by its full ID")

	return cmd
}
