// Package mcp provides an MCP (Model Context Protocol) server for engram.
package mcp

// RecallInput defines the input for the hopfield_recall tool.
type RecallInput struct {
	Patterns      [][]float64 `json:"patterns,omitempty" jsonschema:"Bipolar patterns (+1/-1 values) to store; omit to use the loaded catalog"`
	Query         []float64   `json:"query,omitempty" jsonschema:"Raw bipolar probe state; mutually exclusive with pattern_index"`
	PatternIndex  int         `json:"pattern_index,omitempty" jsonschema:"Index of the stored pattern to corrupt and recall (default 0)"`
	NoiseLevel    float64     `json:"noise_level,omitempty" jsonschema:"Fraction of bits to flip before recall (0.0-1.0); 0 uses the server default"`
	Seed          int64       `json:"seed,omitempty" jsonschema:"Noise seed for reproducible corruption; 0 uses the server default"`
	MaxIterations int         `json:"max_iterations,omitempty" jsonschema:"Recall iteration budget; 0 uses the server default"`
}

// RecallOutput defines the output for the hopfield_recall tool.
type RecallOutput struct {
	Recalled    []float64 `json:"recalled" jsonschema:"Settled network state"`
	Outcome     string    `json:"outcome" jsonschema:"Classification: exact-match, cross-match, or no-match"`
	MatchIndex  int       `json:"match_index" jsonschema:"Index of the matched stored pattern, -1 if none"`
	MatchName   string    `json:"match_name,omitempty" jsonschema:"Name of the matched pattern when the catalog provides one"`
	Iterations  int       `json:"iterations" jsonschema:"Update rounds used, including the converging round"`
	Converged   bool      `json:"converged" jsonschema:"Whether a fixed point was reached within the budget"`
	Energy      float64   `json:"energy" jsonschema:"Energy of the settled state (lower is more stable)"`
	FlippedBits int       `json:"flipped_bits" jsonschema:"Bits corrupted before recall (pattern_index mode only)"`
	Grid        string    `json:"grid,omitempty" jsonschema:"Settled state rendered as a character grid when the size is a perfect square"`
}

// TrialsInput defines the input for the hopfield_trials tool.
type TrialsInput struct {
	Patterns         [][]float64 `json:"patterns,omitempty" jsonschema:"Bipolar patterns (+1/-1 values) to store; omit to use the loaded catalog"`
	TrialsPerPattern int         `json:"trials_per_pattern,omitempty" jsonschema:"Recall attempts per stored pattern; 0 uses the server default"`
	NoiseLevel       float64     `json:"noise_level,omitempty" jsonschema:"Fraction of bits to flip before each recall (0.0-1.0); 0 uses the server default"`
	Seed             int64       `json:"seed,omitempty" jsonschema:"Noise seed for a reproducible run; 0 uses the server default"`
	MaxIterations    int         `json:"max_iterations,omitempty" jsonschema:"Recall iteration budget; 0 uses the server default"`
}

// TrialsOutput defines the output for the hopfield_trials tool.
type TrialsOutput struct {
	NetworkSize     int                 `json:"network_size" jsonschema:"Neurons in the trained network"`
	PatternCount    int                 `json:"pattern_count" jsonschema:"Stored patterns"`
	Trials          int                 `json:"trials" jsonschema:"Total trials executed"`
	Exact           int                 `json:"exact" jsonschema:"Trials that recovered their source pattern exactly"`
	Cross           int                 `json:"cross" jsonschema:"Trials that settled on a different stored pattern"`
	None            int                 `json:"none" jsonschema:"Trials that settled on no stored pattern"`
	Converged       int                 `json:"converged" jsonschema:"Trials that reached a fixed point"`
	ExactRate       float64             `json:"exact_rate"`
	ConvergenceRate float64             `json:"convergence_rate"`
	MeanIterations  float64             `json:"mean_iterations"`
	PerPattern      []PatternTrialStats `json:"per_pattern" jsonschema:"Exact-recovery counts per stored pattern"`
}

// PatternTrialStats summarizes the trials of a single stored pattern.
type PatternTrialStats struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Exact  int    `json:"exact"`
	Trials int    `json:"trials"`
}

// CatalogInfoInput defines the input for the catalog_info tool.
type CatalogInfoInput struct{}

// CatalogInfoOutput defines the output for the catalog_info tool.
type CatalogInfoOutput struct {
	Patterns int      `json:"patterns" jsonschema:"Number of stored patterns"`
	Size     int      `json:"size" jsonschema:"Neurons per pattern"`
	GridCols int      `json:"grid_cols,omitempty" jsonschema:"Grid width when the size is a perfect square"`
	Names    []string `json:"names" jsonschema:"Pattern labels in storage order"`
}
