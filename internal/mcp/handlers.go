package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mgraupera/engram/internal/experiment"
	"github.com/mgraupera/engram/internal/hopfield"
	"github.com/mgraupera/engram/internal/render"
)

// registerTools registers all engram MCP tools with the server.
func (s *Server) registerTools() error {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hopfield_recall",
		Description: "Corrupt a stored pattern (or probe with a raw query) and settle it through the trained network",
	}, s.handleRecall)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "hopfield_trials",
		Description: "Run repeated noisy-recall trials over the stored patterns and report recovery rates",
	}, s.handleTrials)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "catalog_info",
		Description: "Describe the loaded pattern catalog: names, neuron count, stored pattern count",
	}, s.handleCatalogInfo)

	return nil
}

// resolveSet returns the pattern set for a tool call: inline patterns when
// provided, otherwise the loaded catalog. Names are only available from
// the catalog.
func (s *Server) resolveSet(patterns [][]float64) (hopfield.PatternSet, []string, error) {
	if len(patterns) > 0 {
		set := make(hopfield.PatternSet, len(patterns))
		for i, p := range patterns {
			set[i] = hopfield.Pattern(p)
		}
		if err := set.Validate(); err != nil {
			return nil, nil, err
		}
		return set, nil, nil
	}
	if s.catalog == nil || s.catalog.Len() == 0 {
		return nil, nil, errors.New("no patterns available: pass them inline or start the server with a catalog file")
	}
	return s.catalog.Patterns(), s.catalog.Names(), nil
}

// handleRecall implements the hopfield_recall tool.
func (s *Server) handleRecall(ctx context.Context, req *sdk.CallToolRequest, args RecallInput) (_ *sdk.CallToolResult, _ RecallOutput, retErr error) {
	start := time.Now()
	defer func() { s.auditTool("hopfield_recall", start, retErr) }()

	set, names, err := s.resolveSet(args.Patterns)
	if err != nil {
		return nil, RecallOutput{}, err
	}

	maxIterations := args.MaxIterations
	if maxIterations == 0 {
		maxIterations = s.cfg.MaxIterations
	}

	network, err := hopfield.New(len(set[0]))
	if err != nil {
		return nil, RecallOutput{}, err
	}
	if err := network.Train(set); err != nil {
		return nil, RecallOutput{}, err
	}

	var (
		query    hopfield.Pattern
		original hopfield.Pattern
		flipped  int
	)
	if len(args.Query) > 0 {
		query = hopfield.Pattern(args.Query)
		original = query
	} else {
		idx := args.PatternIndex
		if idx < 0 || idx >= len(set) {
			return nil, RecallOutput{}, fmt.Errorf("pattern_index %d out of range [0, %d)", idx, len(set))
		}
		original = set[idx]

		level := args.NoiseLevel
		if level == 0 {
			level = s.cfg.NoiseLevel
		}
		seed := args.Seed
		if seed == 0 {
			seed = s.cfg.Seed
		}
		injector := hopfield.NewNoiseInjector(seed)
		query, err = injector.Apply(original, level)
		if err != nil {
			return nil, RecallOutput{}, err
		}
		flipped, err = original.Hamming(query)
		if err != nil {
			return nil, RecallOutput{}, err
		}
	}

	recall, err := network.Recall(query, maxIterations)
	if err != nil {
		return nil, RecallOutput{}, err
	}
	cls, err := hopfield.Classify(recall.Pattern, original, set)
	if err != nil {
		return nil, RecallOutput{}, err
	}
	energy, err := network.Energy(recall.Pattern)
	if err != nil {
		return nil, RecallOutput{}, err
	}

	out := RecallOutput{
		Recalled:    recall.Pattern,
		Outcome:     string(cls.Outcome),
		MatchIndex:  cls.MatchIndex,
		Iterations:  recall.Iterations,
		Converged:   recall.Converged,
		Energy:      energy,
		FlippedBits: flipped,
	}
	if cls.MatchIndex >= 0 && names != nil {
		out.MatchName = names[cls.MatchIndex]
	}
	if cols := render.Cols(len(recall.Pattern)); cols > 0 {
		if grid, gridErr := render.Grid(recall.Pattern, cols); gridErr == nil {
			out.Grid = grid
		}
	}

	if s.logger != nil {
		s.logger.Debug("recall served",
			"outcome", out.Outcome, "iterations", out.Iterations,
			"converged", out.Converged, "flipped", out.FlippedBits)
	}

	return nil, out, nil
}

// handleTrials implements the hopfield_trials tool.
func (s *Server) handleTrials(ctx context.Context, req *sdk.CallToolRequest, args TrialsInput) (_ *sdk.CallToolResult, _ TrialsOutput, retErr error) {
	start := time.Now()
	defer func() { s.auditTool("hopfield_trials", start, retErr) }()

	set, names, err := s.resolveSet(args.Patterns)
	if err != nil {
		return nil, TrialsOutput{}, err
	}

	params := experiment.Params{
		NoiseLevel:    args.NoiseLevel,
		MaxIterations: args.MaxIterations,
		Trials:        args.TrialsPerPattern,
		Seed:          args.Seed,
	}
	if params.NoiseLevel == 0 {
		params.NoiseLevel = s.cfg.NoiseLevel
	}
	if params.MaxIterations == 0 {
		params.MaxIterations = s.cfg.MaxIterations
	}
	if params.Trials == 0 {
		params.Trials = s.cfg.Trials
	}
	if params.Seed == 0 {
		params.Seed = s.cfg.Seed
	}

	runner, err := experiment.NewRunner(set, params)
	if err != nil {
		return nil, TrialsOutput{}, err
	}
	runner.SetLogger(s.logger, nil)

	result, err := runner.Run()
	if err != nil {
		return nil, TrialsOutput{}, err
	}

	perPattern := make([]PatternTrialStats, result.PatternCount)
	for i := range perPattern {
		perPattern[i].Index = i
		if names != nil {
			perPattern[i].Name = names[i]
		}
	}
	for _, tr := range result.Trials {
		perPattern[tr.PatternIndex].Trials++
		if tr.Outcome == hopfield.OutcomeExact {
			perPattern[tr.PatternIndex].Exact++
		}
	}

	sum := result.Summary
	return nil, TrialsOutput{
		NetworkSize:     result.Size,
		PatternCount:    result.PatternCount,
		Trials:          sum.Total,
		Exact:           sum.Exact,
		Cross:           sum.Cross,
		None:            sum.None,
		Converged:       sum.Converged,
		ExactRate:       sum.ExactRate,
		ConvergenceRate: sum.ConvergenceRate,
		MeanIterations:  sum.MeanIterations,
		PerPattern:      perPattern,
	}, nil
}

// handleCatalogInfo implements the catalog_info tool.
func (s *Server) handleCatalogInfo(ctx context.Context, req *sdk.CallToolRequest, args CatalogInfoInput) (_ *sdk.CallToolResult, _ CatalogInfoOutput, retErr error) {
	start := time.Now()
	defer func() { s.auditTool("catalog_info", start, retErr) }()

	if s.catalog == nil || s.catalog.Len() == 0 {
		return nil, CatalogInfoOutput{}, errors.New("no catalog loaded: start the server with a catalog file")
	}

	return nil, CatalogInfoOutput{
		Patterns: s.catalog.Len(),
		Size:     s.catalog.Size(),
		GridCols: render.Cols(s.catalog.Size()),
		Names:    s.catalog.Names(),
	}, nil
}
