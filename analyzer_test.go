package qverify

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCorrelation(t *testing.T) {
	Convey("Given two-bit histograms", t, func() {
		Convey("All agreeing outcomes should give +1", func() {
			e, err := Correlation(Histogram{"00": 60, "11": 40}, 100)
			So(err, ShouldBeNil)
			So(e, ShouldEqual, 1.0)
		})

		Convey("All disagreeing outcomes should give -1", func() {
			e, err := Correlation(Histogram{"01": 30, "10": 70}, 100)
			So(err, ShouldBeNil)
			So(e, ShouldEqual, -1.0)
		})

		Convey("A mix should give (agree - disagree) / shots", func() {
			e, err := Correlation(Histogram{"00": 40, "11": 35, "01": 15, "10": 10}, 100)
			So(err, ShouldBeNil)
			So(e, ShouldAlmostEqual, 0.5, 1e-12)
		})

		Convey("The input should not be modified", func() {
			hist := Histogram{"00": 1, "10": 1}
			_, err := Correlation(hist, 2)
			So(err, ShouldBeNil)
			So(hist, ShouldResemble, Histogram{"00": 1, "10": 1})
		})
	})

	Convey("Given bad input", t, func() {
		_, err := Correlation(Histogram{"000": 1}, 1)
		So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)

		_, err = Correlation(Histogram{"00": 1}, 0)
		So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)

		_, err = Correlation(Histogram{"00": 3, "01": -1}, 2)
		So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
	})
}

func TestCHSH(t *testing.T) {
	Convey("Given four correlations", t, func() {
		Convey("S should be |Eab - Eab' + Ea'b + Ea'b'|", func() {
			So(CHSH(0.5, -0.5, 0.5, 0.5), ShouldAlmostEqual, 2.0, 1e-12)
			So(CHSH(-1, 0, -1, 0), ShouldAlmostEqual, 2.0, 1e-12)
		})

		Convey("Ideal quantum correlations should reach Tsirelson's bound", func() {
			r := 1 / math.Sqrt2
			s := CHSH(r, -r, r, r)
			So(s, ShouldAlmostEqual, TsirelsonBound, 1e-12)
			So(Violates(s), ShouldBeTrue)
			So(Violates(ClassicalBound), ShouldBeFalse)
		})
	})
}

func TestEntropy(t *testing.T) {
	Convey("Given histograms", t, func() {
		Convey("A single outcome should have zero entropy", func() {
			h, err := Entropy(Histogram{"101": 64}, 64)
			So(err, ShouldBeNil)
			So(h, ShouldEqual, 0.0)
		})

		Convey("A uniform spread over 2^n outcomes should have n bits", func() {
			h, err := Entropy(Histogram{"00": 25, "01": 25, "10": 25, "11": 25}, 100)
			So(err, ShouldBeNil)
			So(h, ShouldAlmostEqual, 2.0, 1e-12)

			h, err = Entropy(Histogram{"0": 5, "1": 5}, 10)
			So(err, ShouldBeNil)
			So(h, ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("Zero-count entries should contribute nothing", func() {
			h, err := Entropy(Histogram{"0": 8, "1": 0}, 8)
			So(err, ShouldBeNil)
			So(h, ShouldEqual, 0.0)
		})

		Convey("Non-positive shots should be rejected", func() {
			_, err := Entropy(Histogram{"0": 1}, -1)
			So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
		})

		Convey("A negative count should be rejected instead of giving NaN", func() {
			hist := Histogram{"0": 12, "1": -2}
			_, err := Entropy(hist, 10)
			So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)

			_, err = Analyze(hist, 10)
			So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
		})
	})
}

func TestFidelity(t *testing.T) {
	Convey("Given a histogram", t, func() {
		hist := Histogram{"11": 900, "01": 100}

		Convey("Fidelity should be the share of the target outcome", func() {
			f, err := Fidelity(hist, "11", 1000)
			So(err, ShouldBeNil)
			So(f, ShouldAlmostEqual, 0.9, 1e-12)

			f, err = Fidelity(hist, "00", 1000)
			So(err, ShouldBeNil)
			So(f, ShouldEqual, 0.0)
		})

		Convey("Zero shots should be rejected", func() {
			_, err := Fidelity(hist, "11", 0)
			So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
		})
	})
}

func TestAnalyze(t *testing.T) {
	Convey("Given a two-bit histogram", t, func() {
		hist := Histogram{"00": 50, "11": 50}

		Convey("The report should carry correlation and entropy", func() {
			report, err := Analyze(hist, 100, WithName("bell"))
			So(err, ShouldBeNil)
			So(report.Name, ShouldEqual, "bell")
			So(report.Shots, ShouldEqual, 100)
			So(*report.Correlation, ShouldEqual, 1.0)
			So(report.Entropy, ShouldAlmostEqual, 1.0, 1e-12)
			So(report.Fidelity, ShouldBeNil)
			So(report.CHSH, ShouldBeNil)
			So(report.Violation(), ShouldBeFalse)
		})

		Convey("Options should add fidelity and CHSH", func() {
			report, err := Analyze(hist, 100, WithTarget("11"), WithCHSH(2.4))
			So(err, ShouldBeNil)
			So(*report.Fidelity, ShouldAlmostEqual, 0.5, 1e-12)
			So(*report.CHSH, ShouldEqual, 2.4)
			So(report.Violation(), ShouldBeTrue)
		})

		Convey("The report histogram should be a copy", func() {
			report, err := Analyze(hist, 100)
			So(err, ShouldBeNil)
			report.Histogram["00"] = 0
			So(hist.Count("00"), ShouldEqual, 50)
		})

		Convey("String should summarise every metric", func() {
			report, err := Analyze(hist, 100, WithName("bell"), WithTarget("00"))
			So(err, ShouldBeNil)
			So(report.String(), ShouldEqual, "bell: shots=100 E=1.0000 F=0.5000 H=1.0000 00:50 11:50")
		})
	})

	Convey("Given a three-bit histogram", t, func() {
		report, err := Analyze(Histogram{"111": 10}, 10, WithTarget("111"))
		So(err, ShouldBeNil)

		Convey("Correlation should be left unset", func() {
			So(report.Correlation, ShouldBeNil)
			So(*report.Fidelity, ShouldEqual, 1.0)
		})
	})

	Convey("Given zero shots", t, func() {
		_, err := Analyze(Histogram{}, 0)
		So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
	})
}
