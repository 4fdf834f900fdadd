package qverify

import (
	"fmt"
	"math"
	"strings"
)

// GateKind enumerates the closed set of gates the engine can apply.
type GateKind int

const (
	GateHadamard GateKind = iota
	GatePauliX
	GatePauliZ
	GateControlledX
	GateRotationY
	GateRotationZ
	GateControlledZ
	GateMultiControlledZ
)

var gateNames = map[GateKind]string{
	GateHadamard:         "H",
	GatePauliX:           "X",
	GatePauliZ:           "Z",
	GateControlledX:      "CX",
	GateRotationY:        "RY",
	GateRotationZ:        "RZ",
	GateControlledZ:      "CZ",
	GateMultiControlledZ: "MCZ",
}

func (k GateKind) String() string {
	if name, ok := gateNames[k]; ok {
		return name
	}
	return fmt.Sprintf("GateKind(%d)", int(k))
}

/*
Gate is an immutable gate instruction. The qubit list holds any control
qubits first and the target qubit last. Only the rotation kinds carry an
angle.
*/
type Gate struct {
	kind   GateKind
	qubits []int
	angle  float64
}

// Hadamard puts qubit q into an equal superposition.
func Hadamard(q int) Gate {
	return Gate{kind: GateHadamard, qubits: []int{q}}
}

// PauliX is the bit flip on qubit q.
func PauliX(q int) Gate {
	return Gate{kind: GatePauliX, qubits: []int{q}}
}

// PauliZ is the phase flip on qubit q.
func PauliZ(q int) Gate {
	return Gate{kind: GatePauliZ, qubits: []int{q}}
}

// CX flips target wherever control is 1.
func CX(control, target int) Gate {
	return Gate{kind: GateControlledX, qubits: []int{control, target}}
}

// CZ phase-flips target wherever control is 1.
func CZ(control, target int) Gate {
	return Gate{kind: GateControlledZ, qubits: []int{control, target}}
}

// RY rotates qubit q about the Y axis by theta radians.
func RY(q int, theta float64) Gate {
	return Gate{kind: GateRotationY, qubits: []int{q}, angle: theta}
}

// RZ rotates qubit q about the Z axis by theta radians.
func RZ(q int, theta float64) Gate {
	return Gate{kind: GateRotationZ, qubits: []int{q}, angle: theta}
}

/*
MCZ phase-flips target wherever every control is 1. With no controls it
degrades to PauliZ, with one control to CZ.
*/
func MCZ(target int, controls ...int) Gate {
	qubits := make([]int, 0, len(controls)+1)
	qubits = append(qubits, controls...)
	qubits = append(qubits, target)
	return Gate{kind: GateMultiControlledZ, qubits: qubits}
}

func (g Gate) Kind() GateKind { return g.kind }

// Qubits returns a copy of the qubit indices, controls first.
func (g Gate) Qubits() []int {
	out := make([]int, len(g.qubits))
	copy(out, g.qubits)
	return out
}

func (g Gate) Target() int {
	if len(g.qubits) == 0 {
		return -1
	}
	return g.qubits[len(g.qubits)-1]
}

func (g Gate) Controls() []int {
	if len(g.qubits) <= 1 {
		return nil
	}
	out := make([]int, len(g.qubits)-1)
	copy(out, g.qubits[:len(g.qubits)-1])
	return out
}

func (g Gate) Angle() float64 { return g.angle }

// Inverse returns the gate that undoes g.
func (g Gate) Inverse() Gate {
	switch g.kind {
	case GateRotationY, GateRotationZ:
		return Gate{kind: g.kind, qubits: g.Qubits(), angle: -g.angle}
	default:
		return Gate{kind: g.kind, qubits: g.Qubits()}
	}
}

// onQubit returns a copy of a single-qubit gate moved to qubit q.
func (g Gate) onQubit(q int) Gate {
	return Gate{kind: g.kind, qubits: []int{q}, angle: g.angle}
}

func (g Gate) String() string {
	parts := make([]string, len(g.qubits))
	for i, q := range g.qubits {
		parts[i] = fmt.Sprintf("q[%d]", q)
	}

	switch g.kind {
	case GateRotationY, GateRotationZ:
		return fmt.Sprintf("%s(%.6g) %s", g.kind, g.angle, strings.Join(parts, ","))
	default:
		return fmt.Sprintf("%s %s", g.kind, strings.Join(parts, ","))
	}
}

// validate checks the gate against a register of n qubits.
func (g Gate) validate(n int) error {
	if _, ok := gateNames[g.kind]; !ok {
		return fmt.Errorf("unknown gate kind %d: %w", int(g.kind), ErrInvalidParameter)
	}

	if len(g.qubits) == 0 {
		return fmt.Errorf("gate %s has no qubits: %w", g.kind, ErrInvalidParameter)
	}

	seen := make(map[int]bool, len(g.qubits))
	for _, q := range g.qubits {
		if q < 0 || q >= n {
			return fmt.Errorf("gate %s references qubit %d on a %d-qubit register: %w", g, q, n, ErrIndexOutOfRange)
		}
		if seen[q] {
			return fmt.Errorf("gate %s repeats qubit %d: %w", g, q, ErrInvalidParameter)
		}
		seen[q] = true
	}

	if math.IsNaN(g.angle) || math.IsInf(g.angle, 0) {
		return fmt.Errorf("gate %s has a non-finite angle: %w", g.kind, ErrInvalidParameter)
	}

	return nil
}

// matrix2 is a 2x2 unitary acting on one amplitude pair.
type matrix2 [2][2]complex128

var (
	hadamardMatrix = matrix2{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}
	pauliXMatrix = matrix2{{0, 1}, {1, 0}}
	pauliZMatrix = matrix2{{1, 0}, {0, -1}}
)

func ryMatrix(theta float64) matrix2 {
	c, s := math.Cos(theta/2), math.Sin(theta/2)
	return matrix2{
		{complex(c, 0), complex(-s, 0)},
		{complex(s, 0), complex(c, 0)},
	}
}

func rzMatrix(theta float64) matrix2 {
	return matrix2{
		{complex(math.Cos(theta/2), -math.Sin(theta/2)), 0},
		{0, complex(math.Cos(theta/2), math.Sin(theta/2))},
	}
}

// unitary returns the target-qubit matrix of g. Controlled kinds return
// the matrix applied where all controls are set.
func (g Gate) unitary() (matrix2, error) {
	switch g.kind {
	case GateHadamard:
		return hadamardMatrix, nil
	case GatePauliX, GateControlledX:
		return pauliXMatrix, nil
	case GatePauliZ, GateControlledZ, GateMultiControlledZ:
		return pauliZMatrix, nil
	case GateRotationY:
		return ryMatrix(g.angle), nil
	case GateRotationZ:
		return rzMatrix(g.angle), nil
	}
	return matrix2{}, fmt.Errorf("unknown gate kind %d: %w", int(g.kind), ErrInvalidParameter)
}
