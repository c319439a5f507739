package ChannelV2F

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/notargets/v2f/FD1D"
	"github.com/notargets/v2f/types"
	"github.com/notargets/v2f/utils"
)

const (
	AssemblyTimer = "Setting up system"
)

/*
System assembles the implicit Euler residual of the five v2-f equations.
Evaluate is the callback handed to the nonlinear solver; passes run in the order
U, k, Ep, V2, f with ascending point index inside each pass.
*/
type System struct {
	Grid      *FD1D.Grid
	Ops       *FD1D.Operators
	Constants *ModelConstants
	DeltaT    float64
	XiN       State // Previous time step, read only during an evaluation
	Timer     *utils.Timer
}

func NewSystem(grid *FD1D.Grid, mc *ModelConstants, deltaT, deltaEta float64) (s *System, err error) {
	if grid == nil || mc == nil {
		return nil, types.NewConfigurationError("system needs a grid and model constants")
	}
	if !(deltaT > 0) || math.IsInf(deltaT, 0) {
		return nil, types.NewConfigurationError("time step must be positive and finite, have %v", deltaT)
	}
	if err = mc.Validate(); err != nil {
		return
	}
	s = &System{
		Grid:      grid,
		Constants: mc,
		DeltaT:    deltaT,
		Timer:     utils.NewTimer(),
	}
	if s.Ops, err = FD1D.NewOperators(grid, deltaEta); err != nil {
		return nil, err
	}
	return
}

// SetPrevious replaces the previous time step state wholesale
func (s *System) SetPrevious(x State) {
	s.XiN = x.Copy()
}

// Len is the length of the state and residual vectors
func (s *System) Len() int { return int(NVars) * s.Grid.Size }

func (s *System) Evaluate(ctx context.Context, xi, sysF []float64) (err error) {
	log.Debug("Setting up system F(xi)")
	if len(xi) != s.Len() || len(sysF) != s.Len() {
		return types.NewConfigurationError("state length %d and residual length %d, grid needs %d",
			len(xi), len(sysF), s.Len())
	}
	if len(s.XiN) != s.Len() {
		return types.NewConfigurationError("previous time step state is not set")
	}
	var (
		x   = State(xi)
		out = State(sysF)
		aux = NewAuxiliary(s.Grid.Size)
	)
	// Eddy viscosity and T follow the current Newton iterate
	aux.Compute(s.Constants, x)

	s.Timer.Begin(AssemblyTimer)
	defer func() {
		elapsed := s.Timer.End(AssemblyTimer)
		log.Debugf("%s: %v", AssemblyTimer, elapsed)
	}()
	if err = s.SetUTerms(ctx, x, aux, out); err != nil {
		return
	}
	if err = s.SetKTerms(ctx, x, aux, out); err != nil {
		return
	}
	if err = s.SetEpTerms(ctx, x, aux, out); err != nil {
		return
	}
	if err = s.SetV2Terms(ctx, x, aux, out); err != nil {
		return
	}
	err = s.SetFTerms(ctx, x, aux, out)
	return
}

// EvaluateFunc adapts Evaluate to the solver callback
func (s *System) EvaluateFunc() utils.ResidualFunc {
	return func(ctx context.Context, x, f []float64) error {
		return s.Evaluate(ctx, x, f)
	}
}

func wallBoundary(j int, val float64) FD1D.Boundary {
	if j == 0 {
		return FD1D.Wall(val)
	}
	return FD1D.Interior()
}

func (s *System) checkAbort(ctx context.Context, eq Var, j int) error {
	if cerr := ctx.Err(); cerr != nil {
		return &ResidualError{Equation: eq, Point: j + 1, Value: math.NaN(),
			Err: fmt.Errorf("%w: %w", types.ErrAborted, cerr)}
	}
	return nil
}

func (s *System) set(sysF State, eq Var, j int, val float64) error {
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("%s term = %v at %d", eq, val, j+1)
	}
	if !utils.IsFinite(val) {
		return &ResidualError{Equation: eq, Point: j + 1, Value: val, Err: types.ErrNonFiniteResidual}
	}
	sysF.Set(j, eq, val)
	return nil
}

func (s *System) production(x State, aux *Auxiliary, j int) float64 {
	dUdy := s.Ops.FirstDerivative(x.Field(U), wallBoundary(j, 0), j)
	return Production(aux.VT.At(j), dUdy)
}

func (s *System) SetUTerms(ctx context.Context, x State, aux *Auxiliary, sysF State) (err error) {
	var (
		op                        = s.Ops
		mc                        = s.Constants
		nu                        = mc.Nu()
		xn                        = s.XiN
		fU                        = x.Field(U)
		last                      = x.Size() - 1
		first, second, third, val float64
	)
	log.Debug("Setting U terms")
	for j := 0; j < last; j++ {
		if err = s.checkAbort(ctx, U, j); err != nil {
			return
		}
		bc := wallBoundary(j, 0)
		first = -(x.At(j, U) - xn.At(j, U)) / s.DeltaT
		second = (nu + aux.VT.At(j)) * op.SecondDerivative(fU, bc, j)
		third = op.FirstDerivative(fU, bc, j) * op.SimpleFirstDerivative(aux.VT, j)
		val = first + second + third + mc.Forcing
		if err = s.set(sysF, U, j, val); err != nil {
			return
		}
	}
	// Centerline, zero gradient
	j := last
	if err = s.checkAbort(ctx, U, j); err != nil {
		return
	}
	first = -(x.At(j, U) - xn.At(j, U)) / s.DeltaT
	second = (nu + aux.VT.At(j)) * op.SecondDerivative(fU, FD1D.Far(), j)
	val = first + second + mc.Forcing
	return s.set(sysF, U, j, val)
}

func (s *System) SetKTerms(ctx context.Context, x State, aux *Auxiliary, sysF State) (err error) {
	var (
		op                               = s.Ops
		nu                               = s.Constants.Nu()
		xn                               = s.XiN
		fK                               = x.Field(K)
		last                             = x.Size() - 1
		first, second, third, fourth, val float64
	)
	log.Debug("Setting K terms")
	for j := 0; j < last; j++ {
		if err = s.checkAbort(ctx, K, j); err != nil {
			return
		}
		bc := wallBoundary(j, 0)
		first = -(x.At(j, K) - xn.At(j, K)) / s.DeltaT
		second = s.production(x, aux, j) - x.At(j, Ep)
		third = (nu + aux.VT.At(j)) * op.SecondDerivative(fK, bc, j)
		fourth = op.FirstDerivative(fK, bc, j) * op.SimpleFirstDerivative(aux.VT, j)
		val = first + second + third + fourth
		if err = s.set(sysF, K, j, val); err != nil {
			return
		}
	}
	j := last
	if err = s.checkAbort(ctx, K, j); err != nil {
		return
	}
	first = -(x.At(j, K) - xn.At(j, K)) / s.DeltaT
	second = -x.At(j, Ep)
	third = (nu + aux.VT.At(j)) * op.SecondDerivative(fK, FD1D.Far(), j)
	val = first + second + third
	return s.set(sysF, K, j, val)
}

func (s *System) SetEpTerms(ctx context.Context, x State, aux *Auxiliary, sysF State) (err error) {
	var (
		op                               = s.Ops
		mc                               = s.Constants
		nu                               = mc.Nu()
		xn                               = s.XiN
		fEp                              = x.Field(Ep)
		last                             = x.Size() - 1
		ep0                              = mc.WallDissipation(x.Point(0), op.DEta)
		first, second, third, fourth, val float64
	)
	log.Debug("Setting Ep terms")
	for j := 0; j < last; j++ {
		if err = s.checkAbort(ctx, Ep, j); err != nil {
			return
		}
		bc := wallBoundary(j, ep0)
		first = -(x.At(j, Ep) - xn.At(j, Ep)) / s.DeltaT
		second = (mc.CEp1*s.production(x, aux, j) - mc.CEp2*x.At(j, Ep)) / aux.T.At(j)
		third = (nu + aux.VT.At(j)/mc.SigmaEp) * op.SecondDerivative(fEp, bc, j)
		fourth = (1 / mc.SigmaEp) * op.FirstDerivative(fEp, bc, j) * op.SimpleFirstDerivative(aux.VT, j)
		val = first + second + third + fourth
		if err = s.set(sysF, Ep, j, val); err != nil {
			return
		}
	}
	j := last
	if err = s.checkAbort(ctx, Ep, j); err != nil {
		return
	}
	first = -(x.At(j, Ep) - xn.At(j, Ep)) / s.DeltaT
	second = -(mc.CEp2 * x.At(j, Ep)) / aux.T.At(j)
	third = (nu + aux.VT.At(j)/mc.SigmaEp) * op.SecondDerivative(fEp, FD1D.Far(), j)
	val = first + second + third
	return s.set(sysF, Ep, j, val)
}

func (s *System) SetV2Terms(ctx context.Context, x State, aux *Auxiliary, sysF State) (err error) {
	var (
		op                               = s.Ops
		nu                               = s.Constants.Nu()
		xn                               = s.XiN
		fV2                              = x.Field(V2)
		last                             = x.Size() - 1
		first, second, third, fourth, val float64
	)
	log.Debug("Setting V2 terms")
	for j := 0; j < last; j++ {
		if err = s.checkAbort(ctx, V2, j); err != nil {
			return
		}
		bc := wallBoundary(j, 0)
		p := x.Point(j)
		first = -(p.V2 - xn.At(j, V2)) / s.DeltaT
		second = p.K*p.F - p.Ep*(p.V2/p.K)
		third = (nu + aux.VT.At(j)) * op.SecondDerivative(fV2, bc, j)
		fourth = op.FirstDerivative(fV2, bc, j) * op.SimpleFirstDerivative(aux.VT, j)
		val = first + second + third + fourth
		if err = s.set(sysF, V2, j, val); err != nil {
			return
		}
	}
	j := last
	if err = s.checkAbort(ctx, V2, j); err != nil {
		return
	}
	p := x.Point(j)
	first = -(p.V2 - xn.At(j, V2)) / s.DeltaT
	second = p.K*p.F - p.Ep*(p.V2/p.K)
	third = (nu + aux.VT.At(j)) * op.SecondDerivative(fV2, FD1D.Far(), j)
	val = first + second + third
	return s.set(sysF, V2, j, val)
}

func (s *System) SetFTerms(ctx context.Context, x State, aux *Auxiliary, sysF State) (err error) {
	var (
		op                               = s.Ops
		mc                               = s.Constants
		xn                               = s.XiN
		fF                               = x.Field(F)
		last                             = x.Size() - 1
		ep0                              = mc.WallDissipation(x.Point(0), op.DEta)
		f0                               = mc.WallRelaxation(x.Point(0), ep0, op.DEta)
		first, second, third, fourth, val float64
		L                                float64
	)
	log.Debug("Setting f terms")
	for j := 0; j < last; j++ {
		if err = s.checkAbort(ctx, F, j); err != nil {
			return
		}
		p := x.Point(j)
		L = mc.LengthScale(p)
		first = -(p.F - xn.At(j, F)) / s.DeltaT
		second = L * L * op.TransformedSecondDerivative(fF, wallBoundary(j, f0), j)
		third = mc.C2*(s.production(x, aux, j)/p.K) - p.F
		fourth = -(mc.C1 / aux.T.At(j)) * ((p.V2 / p.K) - 2./3.)
		val = first + second + third + fourth
		if err = s.set(sysF, F, j, val); err != nil {
			return
		}
	}
	j := last
	if err = s.checkAbort(ctx, F, j); err != nil {
		return
	}
	p := x.Point(j)
	L = mc.LengthScale(p)
	first = -(p.F - xn.At(j, F)) / s.DeltaT
	second = L * L * op.TransformedSecondDerivative(fF, FD1D.Far(), j)
	third = -p.F - (mc.C1/aux.T.At(j))*((p.V2/p.K)-2./3.)
	val = first + second + third
	return s.set(sysF, F, j, val)
}
