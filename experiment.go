package qverify

import (
	"context"
	"fmt"
	"math"

	"github.com/theapemachine/errnie"
)

// StandardCHSHAngles are the (theta_a, theta_b) settings for E(a,b), E(a,b'),
// E(a',b) and E(a',b'), in that order.
var StandardCHSHAngles = [4][2]float64{
	{0, math.Pi / 8},
	{0, 3 * math.Pi / 8},
	{math.Pi / 4, math.Pi / 8},
	{math.Pi / 4, 3 * math.Pi / 8},
}

/*
Experiments runs the named verification experiments on a pool. Each run gets
a generator seeded from the caller's seed, so results are reproducible even
when runs execute concurrently. A shot count of 0 means the sampler's
Config.DefaultShots.
*/
type Experiments struct {
	pool    *Pool
	sampler *Sampler
}

func NewExperiments(pool *Pool, sampler *Sampler) *Experiments {
	return &Experiments{pool: pool, sampler: sampler}
}

// CHSHResult holds the four per-setting reports and the combined S value.
type CHSHResult struct {
	Angles  [4][2]float64
	Reports [4]*CorrelationReport
	S       float64
}

// Violation reports whether S exceeds the classical bound.
func (r *CHSHResult) Violation() bool { return Violates(r.S) }

// Bell samples a Bell state and reports its correlation and entropy.
func (e *Experiments) Bell(ctx context.Context, variant BellVariant, shots int, seed uint64) (*CorrelationReport, error) {
	name := fmt.Sprintf("bell-%s", variant)
	report, err := e.await(ctx, e.pool.Schedule(name, func(context.Context) (any, error) {
		c, err := BellState(variant)
		if err != nil {
			return nil, err
		}
		return e.analyze(c, shots, seed, WithName(name))
	}))
	if err != nil {
		return nil, err
	}

	errnie.Info("%s", report)
	return report, nil
}

/*
CHSH runs the four StandardCHSHAngles settings concurrently, setting i with
seed+i, and combines their correlations into S.
*/
func (e *Experiments) CHSH(ctx context.Context, shots int, seed uint64) (*CHSHResult, error) {
	var pending [4]chan Result
	for i, angles := range StandardCHSHAngles {
		name := fmt.Sprintf("chsh-%d", i)
		runSeed := seed + uint64(i)
		pending[i] = e.pool.Schedule(name, func(context.Context) (any, error) {
			c, err := CHSHCircuit(angles[0], angles[1])
			if err != nil {
				return nil, err
			}
			return e.analyze(c, shots, runSeed, WithName(name))
		})
	}

	result := &CHSHResult{Angles: StandardCHSHAngles}
	var correlations [4]float64
	for i, ch := range pending {
		report, err := e.await(ctx, ch)
		if err != nil {
			return nil, fmt.Errorf("chsh setting %d: %w", i, err)
		}
		result.Reports[i] = report
		correlations[i] = *report.Correlation
	}

	result.S = CHSH(correlations[0], correlations[1], correlations[2], correlations[3])
	for _, report := range result.Reports {
		s := result.S
		report.CHSH = &s
	}

	errnie.Info("chsh: S=%.4f violation=%v", result.S, result.Violation())
	return result, nil
}

// Grover samples a Grover search and reports the success probability of target.
func (e *Experiments) Grover(ctx context.Context, target string, n, shots int, seed uint64) (*CorrelationReport, error) {
	name := fmt.Sprintf("grover-%s", target)
	report, err := e.await(ctx, e.pool.Schedule(name, func(context.Context) (any, error) {
		c, err := GroverSearch(target, n)
		if err != nil {
			return nil, err
		}
		return e.analyze(c, shots, seed, WithName(name), WithTarget(target))
	}))
	if err != nil {
		return nil, err
	}

	errnie.Info("%s", report)
	return report, nil
}

/*
Teleportation samples the verification circuit, in which a faithful teleport
always reads "0", and reports the empirical fidelity of that outcome.
*/
func (e *Experiments) Teleportation(ctx context.Context, prep []Gate, shots int, seed uint64) (*CorrelationReport, error) {
	name := "teleportation"
	report, err := e.await(ctx, e.pool.Schedule(name, func(context.Context) (any, error) {
		c, err := TeleportationVerifyCircuit(prep)
		if err != nil {
			return nil, err
		}
		return e.analyze(c, shots, seed, WithName(name), WithTarget("0"))
	}))
	if err != nil {
		return nil, err
	}

	errnie.Info("%s", report)
	return report, nil
}

func (e *Experiments) analyze(c Circuit, shots int, seed uint64, opts ...ReportOption) (*CorrelationReport, error) {
	if shots == 0 {
		shots = e.sampler.config.DefaultShots
	}

	hist, err := e.sampler.Run(c, shots, WithSeed(seed))
	if err != nil {
		return nil, err
	}
	return Analyze(hist, shots, opts...)
}

func (e *Experiments) await(ctx context.Context, ch chan Result) (*CorrelationReport, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-ch:
		if result.Error != nil {
			return nil, result.Error
		}
		report, ok := result.Value.(*CorrelationReport)
		if !ok {
			return nil, fmt.Errorf("job %s returned %T", result.ID, result.Value)
		}
		return report, nil
	}
}
