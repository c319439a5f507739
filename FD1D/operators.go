package FD1D

import (
	"fmt"

	"github.com/notargets/v2f/types"
)

/*
Operators computes second order central differences on a Field at point j.
Differencing runs in the uniform coordinate with step DEta; the Transformed variants apply the
grid metrics to map those differences onto the stretched coordinate.
The boundary policy is chosen by the caller per point:
  - Interior: both neighbors must exist in the field
  - Dirichlet: only valid at j = 0, the value replaces the missing lower neighbor
  - Mirror: only valid at the last point, the ghost upper neighbor reflects j-1
*/
type Operators struct {
	DEta    float64
	Metrics []Metric
}

func NewOperators(g *Grid, dEta float64) (op *Operators, err error) {
	if !(dEta > 0) {
		return nil, types.NewConfigurationError("differencing step must be positive, have %v", dEta)
	}
	op = &Operators{
		DEta:    dEta,
		Metrics: g.Metrics(),
	}
	return
}

// neighbors returns the lower and upper stencil values around j under policy bc
func (op *Operators) neighbors(f Field, bc Boundary, j int) (fm, fp float64) {
	switch bc.Flag.Canonical() {
	case types.BC_None:
		checkPoint(f.Has(j-1) && f.Has(j+1), f, bc, j)
		fm, fp = f.At(j-1), f.At(j+1)
	case types.BC_Dirichlet:
		checkPoint(j == 0 && f.Has(j+1), f, bc, j)
		fm, fp = bc.Value, f.At(j+1)
	case types.BC_Neuman:
		checkPoint(j == f.Len()-1 && f.Has(j-1), f, bc, j)
		fm = f.At(j - 1)
		fp = fm
	default:
		panic(fmt.Errorf("%w: unknown boundary policy %v", types.ErrIndexRange, bc.Flag))
	}
	return
}

func checkPoint(ok bool, f Field, bc Boundary, j int) {
	if !ok {
		panic(fmt.Errorf("%w: policy %s at point %d of %d", types.ErrIndexRange, bc, j, f.Len()))
	}
}

func (op *Operators) FirstDerivative(f Field, bc Boundary, j int) float64 {
	fm, fp := op.neighbors(f, bc, j)
	return (fp - fm) / (2 * op.DEta)
}

func (op *Operators) SecondDerivative(f Field, bc Boundary, j int) float64 {
	if bc.Flag.Canonical() == types.BC_Neuman {
		return op.FarBoundarySecondDerivative(f, j)
	}
	fm, fp := op.neighbors(f, bc, j)
	return (fp - 2*f.At(j) + fm) / (op.DEta * op.DEta)
}

// FarBoundarySecondDerivative applies the zero Neumann ghost point at the last point
func (op *Operators) FarBoundarySecondDerivative(f Field, j int) float64 {
	fm, _ := op.neighbors(f, Mirror(), j)
	return (2*fm - 2*f.At(j)) / (op.DEta * op.DEta)
}

func (op *Operators) TransformedFirstDerivative(f Field, bc Boundary, j int) float64 {
	return op.FirstDerivative(f, bc, j) * op.metric(j).D1
}

func (op *Operators) TransformedSecondDerivative(f Field, bc Boundary, j int) float64 {
	m := op.metric(j)
	return m.D2*op.FirstDerivative(f, bc, j) + m.D1*m.D1*op.SecondDerivative(f, bc, j)
}

// SimpleFirstDerivative is the unconditioned 3-point difference used for auxiliary fields
func (op *Operators) SimpleFirstDerivative(f Field, j int) float64 {
	return op.FirstDerivative(f, Interior(), j)
}

func (op *Operators) metric(j int) Metric {
	if j < 0 || j >= len(op.Metrics) {
		panic(fmt.Errorf("%w: no metric for point %d of %d", types.ErrIndexRange, j, len(op.Metrics)))
	}
	return op.Metrics[j]
}
