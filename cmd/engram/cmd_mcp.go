package main

import (
	"fmt"
	"os"

	"github.com/mgraupera/engram/internal/config"
	"github.com/mgraupera/engram/internal/logging"
	"github.com/mgraupera/engram/internal/mcp"
	"github.com/mgraupera/engram/internal/melody"
	"github.com/spf13/cobra"
)

func newMCPServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-serve",
		Short: "Run the MCP server on stdio",
		Long: `Expose the associative memory to MCP clients over stdio.

Tools: hopfield_recall, hopfield_trials, catalog_info. Start with --csv
to preload a melody catalog; without one, clients must pass patterns
inline on every call.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath, _ := cmd.Flags().GetString("csv")
			logLevel, _ := cmd.Flags().GetString("log-level")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var catalog *melody.Catalog
			if csvPath != "" {
				catalog, err = loadCatalog(csvPath)
				if err != nil {
					return err
				}
			}

			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			dataDir, err := cfg.DataPath()
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(mcp.Config{
				Name:          "engram",
				Version:       version,
				Catalog:       catalog,
				NoiseLevel:    cfg.Noise.Primary,
				MaxIterations: cfg.Recall.MaxIterations,
				Trials:        cfg.Trials.PerPattern,
				Seed:          cfg.Trials.Seed,
				AuditDir:      dataDir,
				Logger:        logging.NewLogger(level, os.Stderr),
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().String("csv", "", "Preload a melody catalog from this CSV file")

	return cmd
}
