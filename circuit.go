package qverify

import (
	"fmt"
	"math"
	"strings"
)

/*
Circuit is an ordered gate list over a register of qubits plus the qubits
that are measured at the end. The classical register is as wide as the
measured list. A Circuit is never mutated after construction; build a new
one for every basis or angle configuration.
*/
type Circuit struct {
	qubits   int
	gates    []Gate
	measured []int
}

/*
NewCircuit assembles a circuit by hand. The register must hold between 0 and
MaxQubits qubits. Qubit indices are not checked here; Evaluate rejects gates
or measurements outside the register.
*/
func NewCircuit(qubits int, measured []int, gates ...Gate) (Circuit, error) {
	if err := checkRegister(qubits); err != nil {
		return Circuit{}, err
	}

	c := Circuit{
		qubits:   qubits,
		gates:    make([]Gate, len(gates)),
		measured: make([]int, len(measured)),
	}
	copy(c.gates, gates)
	copy(c.measured, measured)
	return c, nil
}

func (c Circuit) Qubits() int { return c.qubits }

func (c Circuit) Gates() []Gate {
	out := make([]Gate, len(c.gates))
	copy(out, c.gates)
	return out
}

func (c Circuit) Measured() []int {
	out := make([]int, len(c.measured))
	copy(out, c.measured)
	return out
}

func (c Circuit) ClassicalWidth() int { return len(c.measured) }

func (c Circuit) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "qreg q[%d]; creg c[%d];\n", c.qubits, len(c.measured))
	for _, g := range c.gates {
		sb.WriteString(g.String())
		sb.WriteString(";\n")
	}
	for i, q := range c.measured {
		fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", q, i)
	}
	return sb.String()
}

// builder accumulates gates for the circuit factories.
type builder struct {
	qubits int
	gates  []Gate
}

func newBuilder(qubits int) *builder {
	return &builder{qubits: qubits}
}

func (b *builder) add(gates ...Gate) *builder {
	b.gates = append(b.gates, gates...)
	return b
}

func (b *builder) onAll(gate func(int) Gate) *builder {
	for q := 0; q < b.qubits; q++ {
		b.gates = append(b.gates, gate(q))
	}
	return b
}

// phaseFlipAll negates the amplitude of |1...1>.
func (b *builder) phaseFlipAll() *builder {
	switch b.qubits {
	case 0:
		return b
	case 1:
		return b.add(PauliZ(0))
	case 2:
		return b.add(CZ(0, 1))
	}

	controls := make([]int, b.qubits-1)
	for q := range controls {
		controls[q] = q
	}
	return b.add(MCZ(b.qubits-1, controls...))
}

func (b *builder) measure(measured ...int) Circuit {
	c, _ := NewCircuit(b.qubits, measured, b.gates...)
	return c
}

func (b *builder) measureAll() Circuit {
	measured := make([]int, b.qubits)
	for q := range measured {
		measured[q] = q
	}
	return b.measure(measured...)
}

// BellVariant selects one of the four maximally entangled two-qubit states.
type BellVariant int

const (
	PhiPlus BellVariant = iota
	PhiMinus
	PsiPlus
	PsiMinus
)

func (v BellVariant) String() string {
	switch v {
	case PhiPlus:
		return "PHI_PLUS"
	case PhiMinus:
		return "PHI_MINUS"
	case PsiPlus:
		return "PSI_PLUS"
	case PsiMinus:
		return "PSI_MINUS"
	}
	return fmt.Sprintf("BellVariant(%d)", int(v))
}

/*
BellState prepares the requested Bell state on qubits 0 and 1 and measures
both: H(0), CX(0,1), then Z(0) for the MINUS variants and X(1) for the PSI
variants.
*/
func BellState(variant BellVariant) (Circuit, error) {
	b := newBuilder(2).add(Hadamard(0), CX(0, 1))

	switch variant {
	case PhiPlus:
	case PhiMinus:
		b.add(PauliZ(0))
	case PsiPlus:
		b.add(PauliX(1))
	case PsiMinus:
		b.add(PauliZ(0), PauliX(1))
	default:
		return Circuit{}, fmt.Errorf("bell variant %d: %w", int(variant), ErrInvalidParameter)
	}

	return b.measure(0, 1), nil
}

// CHSHCircuit rotates the two halves of a PHI_PLUS pair into the measurement
// bases given by thetaA and thetaB.
func CHSHCircuit(thetaA, thetaB float64) (Circuit, error) {
	if err := finiteAngles(thetaA, thetaB); err != nil {
		return Circuit{}, err
	}

	return newBuilder(2).
		add(Hadamard(0), CX(0, 1)).
		add(RY(0, thetaA), RY(1, thetaB)).
		measure(0, 1), nil
}

func finiteAngles(angles ...float64) error {
	for _, a := range angles {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return fmt.Errorf("angle %v is not finite: %w", a, ErrInvalidParameter)
		}
	}
	return nil
}

// GroverIterations is floor(pi/4 * sqrt(2^n)), 0 for n == 0.
func GroverIterations(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Floor(math.Pi / 4 * math.Sqrt(math.Exp2(float64(n)))))
}

/*
GroverSearch builds an amplitude-amplification circuit that marks target, a
bitstring whose character k is the value of qubit k. It applies H to every
qubit, repeats the oracle and the diffusion operator GroverIterations(n)
times, and measures every qubit.
*/
func GroverSearch(target string, n int) (Circuit, error) {
	if err := checkRegister(n); err != nil {
		return Circuit{}, err
	}
	if len(target) != n {
		return Circuit{}, fmt.Errorf("target %q has length %d, want %d: %w", target, len(target), n, ErrInvalidParameter)
	}
	if strings.Trim(target, "01") != "" {
		return Circuit{}, fmt.Errorf("target %q is not a bitstring: %w", target, ErrInvalidParameter)
	}

	b := newBuilder(n)
	if n == 0 {
		return b.measureAll(), nil
	}

	b.onAll(Hadamard)
	for range GroverIterations(n) {
		// Oracle: map target onto |1...1>, flip its phase, map back.
		flipZeros(b, target)
		b.phaseFlipAll()
		flipZeros(b, target)

		// Diffusion: reflect about the uniform superposition.
		b.onAll(Hadamard).onAll(PauliX)
		b.phaseFlipAll()
		b.onAll(PauliX).onAll(Hadamard)
	}

	return b.measureAll(), nil
}

func flipZeros(b *builder, target string) {
	for q, bit := range target {
		if bit == '0' {
			b.add(PauliX(q))
		}
	}
}
