// wavefunction.go
package qverify

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

/*
WaveFunction is the discrete distribution over the classical outcomes of
measuring a subset of qubits. It is built once from a state vector and can
then be collapsed any number of times, each draw independent of the last.
*/
type WaveFunction struct {
	States []State
	width  int
}

/*
NewWaveFunction computes the marginal outcome distribution of state over the
measured qubits. States are ordered by outcome index, which is also the
lexicographic order of their bitstrings.
*/
func NewWaveFunction(state StateVector, measured []int) (*WaveFunction, error) {
	marginal, err := state.Marginal(measured)
	if err != nil {
		return nil, err
	}

	states := make([]State, len(marginal))
	for o, prob := range marginal {
		states[o] = State{
			Bits:        outcomeLabel(o, len(measured)),
			Probability: prob,
		}
	}

	return &WaveFunction{States: states, width: len(measured)}, nil
}

// Width is the number of measured qubits, i.e. the bitstring length.
func (wf *WaveFunction) Width() int { return wf.width }

// Probability returns the probability of the given bitstring, 0 if unknown.
func (wf *WaveFunction) Probability(bits string) float64 {
	for _, s := range wf.States {
		if s.Bits == bits {
			return s.Probability
		}
	}
	return 0
}

func (wf *WaveFunction) weights() []float64 {
	w := make([]float64, len(wf.States))
	for i, s := range wf.States {
		w[i] = s.Probability
	}
	return w
}

// Collapse draws a single outcome.
func (wf *WaveFunction) Collapse(rng *rand.Rand) string {
	return wf.States[int(wf.categorical(rng).Rand())].Bits
}

/*
Sample draws shots independent outcomes and returns their counts. Outcomes
that were never drawn are absent from the histogram.
*/
func (wf *WaveFunction) Sample(shots int, rng *rand.Rand) Histogram {
	dist := wf.categorical(rng)
	hist := make(Histogram)
	for range shots {
		hist[wf.States[int(dist.Rand())].Bits]++
	}
	return hist
}

func (wf *WaveFunction) categorical(rng *rand.Rand) distuv.Categorical {
	if rng == nil {
		return distuv.NewCategorical(wf.weights(), nil)
	}
	return distuv.NewCategorical(wf.weights(), rng)
}
