package qverify

import (
	"fmt"
	"math/bits"
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// NormTolerance bounds the drift of the squared-amplitude sum away from 1.
const NormTolerance = 1e-9

// MaxQubits is the largest register the dense state vector is allowed to hold.
const MaxQubits = 24

func checkRegister(n int) error {
	if n < 0 || n > MaxQubits {
		return fmt.Errorf("register size %d outside [0, %d]: %w", n, MaxQubits, ErrInvalidParameter)
	}
	return nil
}

/*
StateVector is an immutable snapshot of the joint state of n qubits, held as
2^n complex amplitudes. Qubit k is bit k of the basis index. Operations that
change the state return a new StateVector and never touch the receiver.
*/
type StateVector struct {
	vector []complex128
	qubits int
}

// NewStateVector returns |0...0> on n qubits, with n clamped to [0, MaxQubits].
func NewStateVector(n int) StateVector {
	n = max(0, min(n, MaxQubits))
	vector := make([]complex128, 1<<n)
	vector[0] = 1
	return StateVector{vector: vector, qubits: n}
}

/*
StateVectorFrom builds a state from explicit amplitudes. The length must be a
power of two. Normalization is not enforced here so callers can build the
malformed states that Apply rejects.
*/
func StateVectorFrom(amplitudes []complex128) (StateVector, error) {
	n := len(amplitudes)
	if n == 0 || n&(n-1) != 0 {
		return StateVector{}, fmt.Errorf("amplitude count %d is not a power of two: %w", n, ErrInvalidParameter)
	}
	if n > 1<<MaxQubits {
		return StateVector{}, fmt.Errorf("amplitude count %d exceeds %d qubits: %w", n, MaxQubits, ErrInvalidParameter)
	}

	vector := make([]complex128, n)
	copy(vector, amplitudes)
	return StateVector{vector: vector, qubits: bits.TrailingZeros(uint(n))}, nil
}

func (sv StateVector) Qubits() int { return sv.qubits }

func (sv StateVector) Len() int { return len(sv.vector) }

func (sv StateVector) Amplitude(i int) complex128 { return sv.vector[i] }

// Amplitudes returns a copy of the amplitude slice.
func (sv StateVector) Amplitudes() []complex128 {
	out := make([]complex128, len(sv.vector))
	copy(out, sv.vector)
	return out
}

// Probabilities returns |a_i|^2 for every basis index.
func (sv StateVector) Probabilities() []float64 {
	probs := make([]float64, len(sv.vector))
	for i, amplitude := range sv.vector {
		prob := cmplx.Abs(amplitude)
		probs[i] = prob * prob
	}
	return probs
}

// Norm is the sum of squared amplitude magnitudes.
func (sv StateVector) Norm() float64 {
	return floats.Sum(sv.Probabilities())
}

// IsNormalized reports whether Norm is within NormTolerance of 1.
func (sv StateVector) IsNormalized() bool {
	return scalar.EqualWithinAbs(sv.Norm(), 1, NormTolerance)
}

/*
Marginal sums the squared amplitudes grouped by the values of the measured
qubits. Outcome index o stores measured[p] in bit len(measured)-1-p, so that
formatting o as a zero-padded binary string lists the measured qubits left to
right.
*/
func (sv StateVector) Marginal(measured []int) ([]float64, error) {
	if err := validateMeasured(measured, sv.qubits); err != nil {
		return nil, err
	}

	m := len(measured)
	marginal := make([]float64, 1<<m)
	for i, prob := range sv.Probabilities() {
		marginal[outcomeIndex(i, measured)] += prob
	}
	return marginal, nil
}

func outcomeIndex(basis int, measured []int) int {
	m := len(measured)
	o := 0
	for p, q := range measured {
		if basis>>q&1 == 1 {
			o |= 1 << (m - 1 - p)
		}
	}
	return o
}

func outcomeLabel(o, width int) string {
	if width == 0 {
		return ""
	}
	return fmt.Sprintf("%0*b", width, o)
}

func validateMeasured(measured []int, n int) error {
	seen := make(map[int]bool, len(measured))
	for _, q := range measured {
		if q < 0 || q >= n {
			return fmt.Errorf("measured qubit %d on a %d-qubit register: %w", q, n, ErrIndexOutOfRange)
		}
		if seen[q] {
			return fmt.Errorf("qubit %d measured twice: %w", q, ErrInvalidParameter)
		}
		seen[q] = true
	}
	return nil
}

/*
Apply returns the state after gate g. The gate's 2x2 unitary acts on every
amplitude pair that differs only in the target bit, restricted to pairs whose
control bits are all set. The input must be normalized and the output is
checked again.
*/
func Apply(state StateVector, g Gate) (StateVector, error) {
	if !state.IsNormalized() {
		return StateVector{}, fmt.Errorf("input norm %.12f before %s: %w", state.Norm(), g, ErrInvalidState)
	}

	if err := g.validate(state.qubits); err != nil {
		return StateVector{}, err
	}

	u, err := g.unitary()
	if err != nil {
		return StateVector{}, err
	}

	controlMask := 0
	for _, c := range g.Controls() {
		controlMask |= 1 << c
	}
	targetBit := 1 << g.Target()

	next := state.Amplitudes()
	for i := range next {
		if i&targetBit != 0 || i&controlMask != controlMask {
			continue
		}
		j := i | targetBit
		a0, a1 := next[i], next[j]
		next[i] = u[0][0]*a0 + u[0][1]*a1
		next[j] = u[1][0]*a0 + u[1][1]*a1
	}

	out := StateVector{vector: next, qubits: state.qubits}
	if !out.IsNormalized() {
		return StateVector{}, fmt.Errorf("output norm %.12f after %s: %w", out.Norm(), g, ErrInvalidState)
	}
	return out, nil
}

// Evaluate folds Apply over the circuit's gates starting from |0...0>.
func Evaluate(c Circuit) (StateVector, error) {
	if err := checkRegister(c.qubits); err != nil {
		return StateVector{}, err
	}
	if err := validateMeasured(c.measured, c.qubits); err != nil {
		return StateVector{}, err
	}

	state := NewStateVector(c.qubits)
	for i, g := range c.gates {
		var err error
		if state, err = Apply(state, g); err != nil {
			return StateVector{}, fmt.Errorf("gate %d: %w", i, err)
		}
	}
	return state, nil
}

/*
Collapse draws one classical outcome for the measured qubits from the state's
marginal distribution. Successive calls with the same seeded rng are
reproducible.
*/
func Collapse(state StateVector, measured []int, rng *rand.Rand) (string, error) {
	wf, err := NewWaveFunction(state, measured)
	if err != nil {
		return "", err
	}
	return wf.Collapse(rng), nil
}
