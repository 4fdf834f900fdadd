package qverify

import (
	"fmt"
	"strings"
)

/*
CorrelationReport is the terminal summary of one experiment. Correlation is
set only when every outcome is two bits wide, CHSH only for a CHSH run, and
Fidelity only when a target outcome was requested.
*/
type CorrelationReport struct {
	Name        string
	Histogram   Histogram
	Shots       int
	Correlation *float64
	CHSH        *float64
	Fidelity    *float64
	Entropy     float64
}

type reportOptions struct {
	name   string
	target *string
	chsh   *float64
}

// ReportOption adds optional metrics to a report.
type ReportOption func(*reportOptions)

// WithName labels the report.
func WithName(name string) ReportOption {
	return func(o *reportOptions) {
		o.name = name
	}
}

// WithTarget computes Fidelity against the given bitstring.
func WithTarget(target string) ReportOption {
	return func(o *reportOptions) {
		o.target = &target
	}
}

// WithCHSH attaches an S value computed from four separate runs.
func WithCHSH(s float64) ReportOption {
	return func(o *reportOptions) {
		o.chsh = &s
	}
}

// Analyze derives every applicable metric from hist. The histogram is copied.
func Analyze(hist Histogram, shots int, opts ...ReportOption) (*CorrelationReport, error) {
	if err := checkShots(shots); err != nil {
		return nil, err
	}

	o := reportOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	entropy, err := Entropy(hist, shots)
	if err != nil {
		return nil, err
	}

	report := &CorrelationReport{
		Name:      o.name,
		Histogram: hist.Clone(),
		Shots:     shots,
		Entropy:   entropy,
		CHSH:      o.chsh,
	}

	if twoBitOutcomes(hist) {
		e, err := Correlation(hist, shots)
		if err != nil {
			return nil, err
		}
		report.Correlation = &e
	}

	if o.target != nil {
		f, err := Fidelity(hist, *o.target, shots)
		if err != nil {
			return nil, err
		}
		report.Fidelity = &f
	}

	return report, nil
}

func twoBitOutcomes(hist Histogram) bool {
	if len(hist) == 0 {
		return false
	}
	for bits := range hist {
		if len(bits) != 2 {
			return false
		}
	}
	return true
}

// Violation reports whether the report carries a CHSH value above the classical bound.
func (r *CorrelationReport) Violation() bool {
	return r.CHSH != nil && Violates(*r.CHSH)
}

func (r *CorrelationReport) String() string {
	var sb strings.Builder
	if r.Name != "" {
		fmt.Fprintf(&sb, "%s: ", r.Name)
	}
	fmt.Fprintf(&sb, "shots=%d", r.Shots)
	if r.Correlation != nil {
		fmt.Fprintf(&sb, " E=%.4f", *r.Correlation)
	}
	if r.CHSH != nil {
		fmt.Fprintf(&sb, " S=%.4f", *r.CHSH)
	}
	if r.Fidelity != nil {
		fmt.Fprintf(&sb, " F=%.4f", *r.Fidelity)
	}
	fmt.Fprintf(&sb, " H=%.4f", r.Entropy)
	for _, bits := range r.Histogram.Outcomes() {
		fmt.Fprintf(&sb, " %s:%d", bits, r.Histogram[bits])
	}
	return sb.String()
}
