package qverify

/*
State is one classical outcome of a measurement together with the
probability the wave function assigns to it.
*/
type State struct {
	Bits        string
	Probability float64
}
