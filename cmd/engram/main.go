package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mgraupera/engram/internal/hopfield"
	"github.com/mgraupera/engram/internal/melody"
	"github.com/mgraupera/engram/internal/render"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "engram",
		Short: "Engram - Hopfield associative memory for melody grids",
		Long: `engram trains a Hopfield network on bipolar melody patterns and
recalls them from corrupted probes.

It loads pattern catalogs from CSV, runs single recalls and statistical
trial sweeps, keeps a history of runs, and serves the memory over MCP.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for machine consumption)")
	rootCmd.PersistentFlags().String("log-level", "", "Log verbosity (trace, debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newDemoCmd(),
		newRecallCmd(),
		newShowCmd(),
		newTrialsCmd(),
		newCapacityCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newMCPServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "engram version %s\n", version)
			}
		},
	}
}

// loadCatalog reads a melody catalog with the standard CSV layout:
// comma-separated, one header row, first column naming each melody.
func loadCatalog(path string) (*melody.Catalog, error) {
	return melody.Load(path, melody.DefaultOptions())
}

// resolveSeed replaces a zero seed with the wall clock so repeated runs
// differ. Commands report the value they used, keeping every run
// reproducible after the fact.
func resolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// resolveCols picks the grid width for rendering: an explicit flag wins,
// otherwise the square layout when the size allows one.
func resolveCols(flag, size int) (int, error) {
	if flag > 0 {
		return flag, nil
	}
	if c := render.Cols(size); c > 0 {
		return c, nil
	}
	return 0, fmt.Errorf("pattern size %d is not a perfect square; pass --cols", size)
}

// describeOutcome renders a classification as a one-line summary, naming
// the matched melody when there is one.
func describeOutcome(cls hopfield.Classification, cat *melody.Catalog) string {
	switch cls.Outcome {
	case hopfield.OutcomeExact:
		return fmt.Sprintf("%s (melody %d %q)", cls.Outcome, cls.MatchIndex, cat.Name(cls.MatchIndex))
	case hopfield.OutcomeCross:
		return fmt.Sprintf("%s (settled on melody %d %q)", cls.Outcome, cls.MatchIndex, cat.Name(cls.MatchIndex))
	default:
		return string(cls.Outcome)
	}
}

// describeIterations renders the iteration count with its convergence status.
func describeIterations(res hopfield.RecallResult) string {
	if res.Converged {
		return fmt.Sprintf("%d (converged)", res.Iterations)
	}
	return fmt.Sprintf("%d (did not converge)", res.Iterations)
}

func repeatChar(c rune, n int) string {
	result := make([]rune, n)
	for i := range result {
		result[i] = c
	}
	return string(result)
}
