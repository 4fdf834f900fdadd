package qverify

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
)

// Histogram counts how often each classical bitstring was observed.
type Histogram map[string]int

// Total is the sum of all counts.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

func (h Histogram) Count(bits string) int { return h[bits] }

// Outcomes lists the observed bitstrings in lexicographic order.
func (h Histogram) Outcomes() []string {
	return slices.Sorted(maps.Keys(h))
}

func (h Histogram) Clone() Histogram {
	return maps.Clone(h)
}

// Strategy selects how the sampler turns a circuit into shots.
type Strategy int

const (
	// StrategyExact evaluates the circuit once and draws every shot from the
	// fixed marginal distribution.
	StrategyExact Strategy = iota
	// StrategyCollapse re-evaluates and collapses the circuit for every shot.
	StrategyCollapse
)

func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyCollapse:
		return "collapse"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

type runOptions struct {
	seed     *uint64
	strategy *Strategy
}

// RunOption configures a single sampler run.
type RunOption func(*runOptions)

// WithSeed makes the run reproducible.
func WithSeed(seed uint64) RunOption {
	return func(o *runOptions) {
		o.seed = &seed
	}
}

// WithStrategy overrides the sampler's configured strategy for one run.
func WithStrategy(strategy Strategy) RunOption {
	return func(o *runOptions) {
		o.strategy = &strategy
	}
}

// NewRand returns the generator a run seeded with seed uses.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sampler executes circuits shot by shot. It holds no state between runs.
type Sampler struct {
	config *Config
}

func NewSampler(config *Config) *Sampler {
	return &Sampler{config: config.orDefault()}
}

/*
Run executes c shots times and returns the outcome histogram, whose counts
always sum to shots. The same circuit, shots and seed give the same
histogram. Without WithSeed a fresh random seed is drawn.
*/
func (s *Sampler) Run(c Circuit, shots int, opts ...RunOption) (Histogram, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots %d must be positive: %w", shots, ErrInvalidParameter)
	}

	o := runOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	strategy := s.config.Strategy
	if o.strategy != nil {
		strategy = *o.strategy
	}

	seed := rand.Uint64()
	if o.seed != nil {
		seed = *o.seed
	}
	rng := NewRand(seed)

	switch strategy {
	case StrategyExact:
		return s.runExact(c, shots, rng)
	case StrategyCollapse:
		return s.runCollapse(c, shots, rng)
	}
	return nil, fmt.Errorf("strategy %d: %w", int(strategy), ErrInvalidParameter)
}

func (s *Sampler) runExact(c Circuit, shots int, rng *rand.Rand) (Histogram, error) {
	state, err := Evaluate(c)
	if err != nil {
		return nil, err
	}

	wf, err := NewWaveFunction(state, c.measured)
	if err != nil {
		return nil, err
	}

	return wf.Sample(shots, rng), nil
}

func (s *Sampler) runCollapse(c Circuit, shots int, rng *rand.Rand) (Histogram, error) {
	hist := make(Histogram)
	for range shots {
		state, err := Evaluate(c)
		if err != nil {
			return nil, err
		}

		bits, err := Collapse(state, c.measured, rng)
		if err != nil {
			return nil, err
		}
		hist[bits]++
	}
	return hist, nil
}

// Run samples c with a default Sampler.
func Run(c Circuit, shots int, opts ...RunOption) (Histogram, error) {
	return NewSampler(nil).Run(c, shots, opts...)
}
