package utils

// Newton defaults
const (
	DefaultNewtonIterations = 25
	DefaultNewtonTolerance  = 1.e-9
	DefaultMinDamping       = 1. / 1024.
)
