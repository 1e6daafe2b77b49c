// Package experiment runs noisy-recall trials against trained networks and
// aggregates the outcomes.
package experiment

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mgraupera/engram/internal/hopfield"
	"github.com/mgraupera/engram/internal/logging"
)

// Params controls one experiment run.
type Params struct {
	// NoiseLevel is the corruption fraction applied before each recall.
	NoiseLevel float64 `json:"noise_level"`
	// MaxIterations bounds each recall.
	MaxIterations int `json:"max_iterations"`
	// Trials is the number of recall attempts per stored pattern.
	Trials int `json:"trials"`
	// Seed initializes the noise source. Equal seeds reproduce runs exactly.
	Seed int64 `json:"seed"`
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if p.NoiseLevel < 0 || p.NoiseLevel > 1 {
		return fmt.Errorf("%w: %v", hopfield.ErrNoiseLevel, p.NoiseLevel)
	}
	if p.MaxIterations < 1 {
		return fmt.Errorf("%w: %d", hopfield.ErrInvalidIterations, p.MaxIterations)
	}
	if p.Trials < 1 {
		return fmt.Errorf("experiment: trials per pattern must be positive, got %d", p.Trials)
	}
	return nil
}

// Trial records one noise-recall-classify attempt.
type Trial struct {
	PatternIndex int              `json:"pattern_index"`
	FlippedBits  int              `json:"flipped_bits"`
	Iterations   int              `json:"iterations"`
	Converged    bool             `json:"converged"`
	Outcome      hopfield.Outcome `json:"outcome"`
	MatchIndex   int              `json:"match_index"`
	Energy       float64          `json:"energy"`
}

// Summary aggregates trial outcomes.
type Summary struct {
	Total           int     `json:"total"`
	Exact           int     `json:"exact"`
	Cross           int     `json:"cross"`
	None            int     `json:"none"`
	Converged       int     `json:"converged"`
	ExactRate       float64 `json:"exact_rate"`
	ConvergenceRate float64 `json:"convergence_rate"`
	MeanIterations  float64 `json:"mean_iterations"`
}

// Result is the full outcome of a run: every trial plus the summary.
type Result struct {
	Params       Params  `json:"params"`
	Size         int     `json:"size"`
	PatternCount int     `json:"pattern_count"`
	Trials       []Trial `json:"trials"`
	Summary      Summary `json:"summary"`
}

// Runner owns a network trained on a pattern set and drives repeated
// noisy-recall trials against it.
type Runner struct {
	params   Params
	set      hopfield.PatternSet
	network  *hopfield.Network
	injector *hopfield.NoiseInjector
	logger   *slog.Logger
	trace    *logging.TraceLogger
}

// NewRunner validates params, trains a fresh network on the set, and seeds
// the noise source from params.Seed.
func NewRunner(set hopfield.PatternSet, params Params) (*Runner, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, errors.New("experiment: pattern set is empty")
	}

	network, err := hopfield.New(len(set[0]))
	if err != nil {
		return nil, err
	}
	if err := network.Train(set); err != nil {
		return nil, err
	}

	return &Runner{
		params:   params,
		set:      set.Clone(),
		network:  network,
		injector: hopfield.NewNoiseInjector(params.Seed),
	}, nil
}

// SetLogger sets the structured logger and trace logger for observability.
func (r *Runner) SetLogger(logger *slog.Logger, trace *logging.TraceLogger) {
	r.logger = logger
	r.trace = trace
}

// RunPattern executes a single trial against the pattern at idx:
// corrupt, recall, classify, and measure the settled energy.
func (r *Runner) RunPattern(idx int) (Trial, error) {
	if idx < 0 || idx >= len(r.set) {
		return Trial{}, fmt.Errorf("experiment: pattern index %d out of range [0, %d)", idx, len(r.set))
	}
	original := r.set[idx]

	noisy, err := r.injector.Apply(original, r.params.NoiseLevel)
	if err != nil {
		return Trial{}, err
	}
	flipped, err := original.Hamming(noisy)
	if err != nil {
		return Trial{}, err
	}

	recall, err := r.network.Recall(noisy, r.params.MaxIterations)
	if err != nil {
		return Trial{}, err
	}
	cls, err := hopfield.Classify(recall.Pattern, original, r.set)
	if err != nil {
		return Trial{}, err
	}
	energy, err := r.network.Energy(recall.Pattern)
	if err != nil {
		return Trial{}, err
	}

	trial := Trial{
		PatternIndex: idx,
		FlippedBits:  flipped,
		Iterations:   recall.Iterations,
		Converged:    recall.Converged,
		Outcome:      cls.Outcome,
		MatchIndex:   cls.MatchIndex,
		Energy:       energy,
	}

	if r.logger != nil {
		r.logger.Debug("trial complete",
			"pattern", idx, "flipped", flipped,
			"iterations", recall.Iterations, "converged", recall.Converged,
			"outcome", string(cls.Outcome))
	}
	if r.trace != nil {
		r.trace.Log(map[string]any{
			"event":       "trial",
			"pattern":     idx,
			"flipped":     flipped,
			"iterations":  recall.Iterations,
			"converged":   recall.Converged,
			"outcome":     string(cls.Outcome),
			"match_index": cls.MatchIndex,
			"energy":      energy,
		})
	}

	return trial, nil
}

// Run executes Params.Trials trials for every pattern in the set and
// returns all trials with their summary.
func (r *Runner) Run() (Result, error) {
	trials := make([]Trial, 0, len(r.set)*r.params.Trials)
	for idx := range r.set {
		for t := 0; t < r.params.Trials; t++ {
			trial, err := r.RunPattern(idx)
			if err != nil {
				return Result{}, err
			}
			trials = append(trials, trial)
		}
	}

	summary := Summarize(trials)
	if r.logger != nil {
		r.logger.Info("experiment complete",
			"patterns", len(r.set), "trials", summary.Total,
			"exact_rate", summary.ExactRate,
			"convergence_rate", summary.ConvergenceRate)
	}

	return Result{
		Params:       r.params,
		Size:         r.network.Size(),
		PatternCount: len(r.set),
		Trials:       trials,
		Summary:      summary,
	}, nil
}

// Summarize aggregates a trial slice into counts and rates. Rates over an
// empty slice are zero.
func Summarize(trials []Trial) Summary {
	s := Summary{Total: len(trials)}
	var iterations int
	for _, t := range trials {
		switch t.Outcome {
		case hopfield.OutcomeExact:
			s.Exact++
		case hopfield.OutcomeCross:
			s.Cross++
		default:
			s.None++
		}
		if t.Converged {
			s.Converged++
		}
		iterations += t.Iterations
	}
	if s.Total > 0 {
		s.ExactRate = float64(s.Exact) / float64(s.Total)
		s.ConvergenceRate = float64(s.Converged) / float64(s.Total)
		s.MeanIterations = float64(iterations) / float64(s.Total)
	}
	return s
}
