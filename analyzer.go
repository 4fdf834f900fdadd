package qverify

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// ClassicalBound is the largest CHSH S any local hidden-variable model allows.
	ClassicalBound = 2.0
	// TsirelsonBound is the largest CHSH S quantum mechanics allows, 2*sqrt(2).
	TsirelsonBound = 2 * math.Sqrt2
)

func checkShots(shots int) error {
	if shots <= 0 {
		return fmt.Errorf("shots %d must be positive: %w", shots, ErrInvalidParameter)
	}
	return nil
}

func checkCounts(hist Histogram) error {
	for bits, n := range hist {
		if n < 0 {
			return fmt.Errorf("outcome %q has negative count %d: %w", bits, n, ErrInvalidParameter)
		}
	}
	return nil
}

/*
Correlation returns E = (N_agree - N_disagree) / shots for a histogram of
two-bit outcomes, where agree means 00 or 11 and disagree means 01 or 10.
*/
func Correlation(hist Histogram, shots int) (float64, error) {
	if err := checkShots(shots); err != nil {
		return 0, err
	}
	if err := checkCounts(hist); err != nil {
		return 0, err
	}

	agree, disagree := 0, 0
	for bits, n := range hist {
		if len(bits) != 2 {
			return 0, fmt.Errorf("outcome %q is not two bits wide: %w", bits, ErrInvalidParameter)
		}
		if bits[0] == bits[1] {
			agree += n
		} else {
			disagree += n
		}
	}

	return float64(agree-disagree) / float64(shots), nil
}

// CHSH combines four correlations into S = |E(a,b) - E(a,b') + E(a',b) + E(a',b')|.
func CHSH(eab, eab2, ea2b, ea2b2 float64) float64 {
	return math.Abs(eab - eab2 + ea2b + ea2b2)
}

// Violates reports whether s exceeds the classical bound.
func Violates(s float64) bool {
	return s > ClassicalBound
}

/*
Entropy returns the Shannon entropy of the histogram in bits. Outcomes with a
zero count contribute nothing, so a single-outcome histogram has entropy 0.
*/
func Entropy(hist Histogram, shots int) (float64, error) {
	if err := checkShots(shots); err != nil {
		return 0, err
	}
	if err := checkCounts(hist); err != nil {
		return 0, err
	}

	outcomes := hist.Outcomes()
	p := make([]float64, len(outcomes))
	for i, bits := range outcomes {
		p[i] = float64(hist[bits])
	}
	floats.Scale(1/float64(shots), p)

	// stat.Entropy uses the natural logarithm.
	return stat.Entropy(p) / math.Ln2, nil
}

// Fidelity is the empirical probability of observing target.
func Fidelity(hist Histogram, target string, shots int) (float64, error) {
	if err := checkShots(shots); err != nil {
		return 0, err
	}
	return float64(hist[target]) / float64(shots), nil
}
