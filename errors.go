package qverify

import "errors"

var (
	// ErrInvalidParameter is returned for malformed inputs to a circuit factory,
	// the sampler or the analyzer.
	ErrInvalidParameter = errors.New("qverify: invalid parameter")
	// ErrIndexOutOfRange is returned when a gate or measurement references a
	// qubit outside the register.
	ErrIndexOutOfRange = errors.New("qverify: qubit index out of range")
	// ErrInvalidState is returned when a state vector fails the normalization check.
	ErrInvalidState = errors.New("qverify: state vector not normalized")
)
