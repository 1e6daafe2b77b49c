package hopfield

import (
	"fmt"
	"math"
	"math/rand"
)

// NoiseInjector corrupts bipolar patterns by flipping a deterministic
// number of randomly chosen positions. The randomness source is owned
// by the injector, so a fixed seed reproduces the exact flip sequence
// across runs.
type NoiseInjector struct {
	rng *rand.Rand
}

// NewNoiseInjector returns an injector seeded with the given value.
func NewNoiseInjector(seed int64) *NoiseInjector {
	return &NoiseInjector{rng: rand.New(rand.NewSource(seed))}
}

// NewNoiseInjectorFromSource returns an injector that draws from an
// existing generator. The caller keeps ownership of rng and must not
// share it concurrently with the injector.
func NewNoiseInjectorFromSource(rng *rand.Rand) *NoiseInjector {
	return &NoiseInjector{rng: rng}
}

// Apply returns a copy of p with round(level*len(p)) distinct positions
// sign-flipped, chosen uniformly without replacement. The input is never
// mutated. A level of 1 is accepted and produces near-total corruption.
func (ni *NoiseInjector) Apply(p Pattern, level float64) (Pattern, error) {
	if level < 0 || level > 1 {
		return nil, fmt.Errorf("apply noise with level %v: %w", level, ErrNoiseLevel)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("apply noise: %w", err)
	}
	out := p.Clone()
	flips := int(math.Round(level * float64(len(p))))
	if flips == 0 {
		return out, nil
	}
	for _, idx := range ni.rng.Perm(len(p))[:flips] {
		out[idx] = -out[idx]
	}
	return out, nil
}
