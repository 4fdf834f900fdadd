package qverify

import (
	"fmt"
	"math/cmplx"
)

// Qubit is a pure single-qubit state alpha|0> + beta|1>.
type Qubit struct {
	alpha complex128 // |0⟩ amplitude
	beta  complex128 // |1⟩ amplitude
}

func NewQubit(alpha, beta complex128) Qubit {
	return Qubit{alpha: alpha, beta: beta}
}

/*
PrepareQubit runs gates on a lone qubit starting from |0>. Every gate must act
on qubit 0 alone.
*/
func PrepareQubit(gates []Gate) (Qubit, error) {
	state := NewStateVector(1)
	for i, g := range gates {
		var err error
		if state, err = Apply(state, g); err != nil {
			return Qubit{}, fmt.Errorf("preparation gate %d: %w", i, err)
		}
	}
	return Qubit{alpha: state.Amplitude(0), beta: state.Amplitude(1)}, nil
}

func (q Qubit) Alpha() complex128 { return q.alpha }

func (q Qubit) Beta() complex128 { return q.beta }

// DensityMatrix is a 2x2 single-qubit density operator.
type DensityMatrix [2][2]complex128

/*
ReducedQubit traces every other qubit out of state and returns the density
matrix of qubit q. Entry [a][b] sums amp(i) * conj(amp(j)) over basis pairs
that agree on all other qubits, with bit q of i equal to a and of j to b.
*/
func ReducedQubit(state StateVector, q int) (DensityMatrix, error) {
	if q < 0 || q >= state.Qubits() {
		return DensityMatrix{}, fmt.Errorf("reduced qubit %d on a %d-qubit register: %w", q, state.Qubits(), ErrIndexOutOfRange)
	}

	var rho DensityMatrix
	bit := 1 << q
	for i := 0; i < state.Len(); i++ {
		if i&bit != 0 {
			continue
		}
		a0, a1 := state.Amplitude(i), state.Amplitude(i|bit)
		rho[0][0] += a0 * cmplx.Conj(a0)
		rho[0][1] += a0 * cmplx.Conj(a1)
		rho[1][0] += a1 * cmplx.Conj(a0)
		rho[1][1] += a1 * cmplx.Conj(a1)
	}
	return rho, nil
}

// Fidelity returns <psi|rho|psi> for the pure state q.
func (q Qubit) Fidelity(rho DensityMatrix) float64 {
	psi := [2]complex128{q.alpha, q.beta}
	var f complex128
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			f += cmplx.Conj(psi[a]) * rho[a][b] * psi[b]
		}
	}
	return real(f)
}
