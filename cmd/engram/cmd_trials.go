package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mgraupera/engram/internal/config"
	"github.com/mgraupera/engram/internal/experiment"
	"github.com/mgraupera/engram/internal/hopfield"
	"github.com/mgraupera/engram/internal/logging"
	"github.com/mgraupera/engram/internal/results"
	"github.com/spf13/cobra"
)

func newTrialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trials <melodies.csv>",
		Short: "Run repeated noisy recalls over the whole catalog",
		Long: `Train on the catalog and recall every melody repeatedly under noise,
then report per-melody outcomes and the aggregate rates.

Runs are persisted to the results database by default; inspect them
later with 'engram history'.

Examples:
  engram trials melodies.csv --trials 20 --noise 0.3 --seed 42
  engram trials melodies.csv --store=false --export trials.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			logLevel, _ := cmd.Flags().GetString("log-level")
			trials, _ := cmd.Flags().GetInt("trials")
			noise, _ := cmd.Flags().GetFloat64("noise")
			seed, _ := cmd.Flags().GetInt64("seed")
			maxIter, _ := cmd.Flags().GetInt("max-iter")
			store, _ := cmd.Flags().GetBool("store")
			exportPath, _ := cmd.Flags().GetString("export")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if trials < 1 {
				trials = cfg.Trials.PerPattern
			}
			if noise < 0 {
				noise = cfg.Noise.Primary
			}
			if maxIter < 1 {
				maxIter = cfg.Recall.MaxIterations
			}
			if seed == 0 {
				seed = cfg.Trials.Seed
			}

			cat, err := loadCatalog(args[0])
			if err != nil {
				return err
			}

			params := experiment.Params{
				NoiseLevel:    noise,
				MaxIterations: maxIter,
				Trials:        trials,
				Seed:          resolveSeed(seed),
			}
			runner, err := experiment.NewRunner(cat.Patterns(), params)
			if err != nil {
				return err
			}

			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			if logging.ParseLevel(level) <= slog.LevelDebug {
				var trace *logging.TraceLogger
				if dataDir, err := cfg.DataPath(); err == nil {
					trace = logging.NewTraceLogger(dataDir, level)
					defer trace.Close()
				}
				runner.SetLogger(logging.NewLogger(level, os.Stderr), trace)
			}

			result, err := runner.Run()
			if err != nil {
				return err
			}

			runID := ""
			if store {
				dataDir, err := cfg.DataPath()
				if err != nil {
					return err
				}
				st, err := results.Open(filepath.Join(dataDir, "results.db"))
				if err != nil {
					return fmt.Errorf("failed to open results store: %w", err)
				}
				defer st.Close()

				runID = uuid.NewString()
				run := results.Run{
					ID:               runID,
					Source:           args[0],
					NetworkSize:      result.Size,
					PatternCount:     result.PatternCount,
					NoiseLevel:       params.NoiseLevel,
					MaxIterations:    params.MaxIterations,
					TrialsPerPattern: params.Trials,
					Seed:             params.Seed,
					ExactRate:        result.Summary.ExactRate,
					ConvergenceRate:  result.Summary.ConvergenceRate,
					MeanIterations:   result.Summary.MeanIterations,
				}
				runTrials := make([]results.Trial, 0, len(result.Trials))
				for _, t := range result.Trials {
					runTrials = append(runTrials, results.Trial{
						PatternIndex: t.PatternIndex,
						FlippedBits:  t.FlippedBits,
						Iterations:   t.Iterations,
						Converged:    t.Converged,
						Outcome:      string(t.Outcome),
						MatchIndex:   t.MatchIndex,
						Energy:       t.Energy,
					})
				}
				if err := st.SaveRun(context.Background(), run, runTrials); err != nil {
					return fmt.Errorf("failed to save run: %w", err)
				}
			}

			if exportPath != "" {
				f, err := os.Create(exportPath)
				if err != nil {
					return fmt.Errorf("failed to create export file: %w", err)
				}
				if err := experiment.ExportCSV(f, result); err != nil {
					f.Close()
					return fmt.Errorf("failed to export trials: %w", err)
				}
				if err := f.Close(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				payload := map[string]interface{}{
					"source": args[0],
					"result": result,
				}
				if runID != "" {
					payload["run_id"] = runID
				}
				json.NewEncoder(out).Encode(payload)
				return nil
			}

			type patternTally struct {
				exact, cross, none int
			}
			tally := make([]patternTally, result.PatternCount)
			for _, t := range result.Trials {
				switch t.Outcome {
				case hopfield.OutcomeExact:
					tally[t.PatternIndex].exact++
				case hopfield.OutcomeCross:
					tally[t.PatternIndex].cross++
				default:
					tally[t.PatternIndex].none++
				}
			}

			fmt.Fprintf(out, "Trial results for %s (seed %d):\n\n", args[0], params.Seed)
			fmt.Fprintf(out, "%-8s %-20s %6s %6s %6s %7s\n", "Melody", "Name", "Exact", "Cross", "None", "Rate")
			fmt.Fprintln(out, repeatChar('-', 58))
			for i, s := range tally {
				name := cat.Name(i)
				if len(name) > 20 {
					name = name[:17] + "..."
				}
				total := s.exact + s.cross + s.none
				rate := 0.0
				if total > 0 {
					rate = float64(s.exact) / float64(total)
				}
				fmt.Fprintf(out, "%-8d %-20s %6d %6d %6d %6.0f%%\n", i, name, s.exact, s.cross, s.none, rate*100)
			}

			fmt.Fprintf(out, "\nSummary:\n")
			fmt.Fprintf(out, "  Melodies:         %d (%d cells each)\n", result.PatternCount, result.Size)
			fmt.Fprintf(out, "  Noise level:      %.2f\n", params.NoiseLevel)
			fmt.Fprintf(out, "  Trials:           %d\n", result.Summary.Total)
			fmt.Fprintf(out, "  Exact recalls:    %d (%.1f%%)\n", result.Summary.Exact, result.Summary.ExactRate*100)
			fmt.Fprintf(out, "  Cross recalls:    %d\n", result.Summary.Cross)
			fmt.Fprintf(out, "  No match:         %d\n", result.Summary.None)
			fmt.Fprintf(out, "  Converged:        %d (%.1f%%)\n", result.Summary.Converged, result.Summary.ConvergenceRate*100)
			fmt.Fprintf(out, "  Mean iterations:  %.1f\n", result.Summary.MeanIterations)

			if runID != "" {
				fmt.Fprintf(out, "\nRun saved: %s\n", runID)
			}
			if exportPath != "" {
				fmt.Fprintf(out, "Trials exported: %s\n", exportPath)
			}

			return nil
		},
	}

	cmd.Flags().Int("trials", 0, "Recalls per melody (default from config)")
	cmd.Flags().Float64("noise", -1, "Corruption level in [0, 1] (default from config)")
	cmd.Flags().Int64("seed", 0, "Noise seed (0 derives one from the clock)")
	cmd.Flags().Int("max-iter", 0, "Recall iteration budget (default from config)")
	cmd.Flags().Bool("store", true, "Persist the run to the results database")
	cmd.Flags().String("export", "", "Write per-trial rows as CSV to this file")

	return cmd
}
