package qverify

import (
	"fmt"
	"slices"
)

/*
TeleportationCircuit teleports the state prepared by prep from qubit 0 to
qubit 2. Qubits 1 and 2 share a Bell pair, qubit 0 is entangled with qubit 1
and rotated back, and qubits 0 and 1 are measured. The classically controlled
X and Z corrections on qubit 2 are written as CX(1,2) and CZ(0,2) ahead of the
measurements, which leaves the measured statistics unchanged and keeps the
whole circuit unitary.
*/
func TeleportationCircuit(prep []Gate) (Circuit, error) {
	b, err := teleportationBuilder(prep)
	if err != nil {
		return Circuit{}, err
	}
	return b.measure(0, 1), nil
}

/*
TeleportationVerifyCircuit runs the teleportation protocol, then undoes prep
on qubit 2 and measures only qubit 2. A faithful teleport always reads "0",
so the empirical fidelity of "0" is the teleportation fidelity.
*/
func TeleportationVerifyCircuit(prep []Gate) (Circuit, error) {
	b, err := teleportationBuilder(prep)
	if err != nil {
		return Circuit{}, err
	}

	undo := slices.Clone(prep)
	slices.Reverse(undo)
	for _, g := range undo {
		b.add(g.Inverse().onQubit(2))
	}
	return b.measure(2), nil
}

/*
TeleportationFidelity evaluates the teleportation circuit exactly and returns
<psi|rho|psi>, where psi is the state prep produces on a lone qubit and rho is
the reduced state of qubit 2 after the protocol.
*/
func TeleportationFidelity(prep []Gate) (float64, error) {
	c, err := TeleportationCircuit(prep)
	if err != nil {
		return 0, err
	}

	state, err := Evaluate(c)
	if err != nil {
		return 0, err
	}

	rho, err := ReducedQubit(state, 2)
	if err != nil {
		return 0, err
	}

	psi, err := PrepareQubit(prep)
	if err != nil {
		return 0, err
	}

	return psi.Fidelity(rho), nil
}

func teleportationBuilder(prep []Gate) (*builder, error) {
	for i, g := range prep {
		if qubits := g.Qubits(); len(qubits) != 1 || qubits[0] != 0 {
			return nil, fmt.Errorf("preparation gate %d (%s) must act on qubit 0 only: %w", i, g, ErrInvalidParameter)
		}
		if err := finiteAngles(g.Angle()); err != nil {
			return nil, fmt.Errorf("preparation gate %d: %w", i, err)
		}
	}

	return newBuilder(3).
		add(prep...).
		add(Hadamard(1), CX(1, 2)).
		add(CX(0, 1), Hadamard(0)).
		add(CX(1, 2), CZ(0, 2)), nil
}
