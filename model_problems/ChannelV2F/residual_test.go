package ChannelV2F

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/v2f/FD1D"
	"github.com/notargets/v2f/types"
)

func newUniformSystem(t *testing.T, re, dt float64) *System {
	g, err := FD1D.NewGrid(true, 1.0, 0.02, FD1D.DefaultStretch())
	require.NoError(t, err)
	require.Equal(t, 50, g.Size)
	s, err := NewSystem(g, NewModelConstants(re), dt, g.Spacing())
	require.NoError(t, err)
	return s
}

// smoothState is positive in k and Ep everywhere off the wall
func smoothState(g *FD1D.Grid) (x State) {
	x = NewState(g.Size)
	for j, y := range g.Computational {
		shape := 2*y - y*y
		k := 0.5*shape + 0.01
		x.SetPoint(j, Point{
			U:  10 * shape,
			K:  k,
			Ep: 1 + 0.2*y,
			V2: 2 * k / 3,
			F:  0.1 * shape,
		})
	}
	return
}

func TestResidualLaminar(t *testing.T) {
	// With v2 = 0 the eddy viscosity vanishes and U = Re (y - y^2/2) balances the forcing
	var (
		re = 1000.
		s  = newUniformSystem(t, re, 0.01)
		x  = NewState(s.Grid.Size)
	)
	for j, y := range s.Grid.Computational {
		x.SetPoint(j, Point{U: re * (y - y*y/2), K: 1, Ep: 1})
	}
	s.SetPrevious(x)
	aux := NewAuxiliary(x.Size())
	aux.Compute(s.Constants, x)
	sysF := NewState(x.Size())
	require.NoError(t, s.SetUTerms(context.Background(), x, aux, sysF))
	for j := 0; j < x.Size(); j++ {
		assert.InDeltaf(t, 0., sysF.At(j, U), 1.e-9, "point %d", j+1)
	}
}

func TestResidualEquilibrium(t *testing.T) {
	var (
		s    = newUniformSystem(t, 1000, 0.01)
		x    = smoothState(s.Grid)
		sysF = NewState(x.Size())
		ctx  = context.Background()
	)
	// The steady part G(x), with no time derivative contribution
	s.SetPrevious(x)
	require.NoError(t, s.Evaluate(ctx, x, sysF))
	G := sysF.Copy()
	var gmax float64
	for _, val := range G {
		gmax = math.Max(gmax, math.Abs(val))
	}
	assert.Greater(t, gmax, 0.)

	// A previous step chosen so that x is exactly one implicit step ahead
	xn := x.Copy()
	for i := range xn {
		xn[i] = x[i] - s.DeltaT*G[i]
	}
	s.SetPrevious(xn)
	require.NoError(t, s.Evaluate(ctx, x, sysF))
	for i, val := range sysF {
		assert.Lessf(t, math.Abs(val), 1.e-8, "equation %s at point %d", Var(i%int(NVars)), i/int(NVars)+1)
	}
	assert.Equal(t, 2, s.Timer.Stat(AssemblyTimer).Count)

	// Evaluation does not modify the candidate
	assert.Equal(t, smoothState(s.Grid), x)
}

func TestResidualStretchedEquilibrium(t *testing.T) {
	g, err := FD1D.NewGrid(false, 1.0, 0.01, FD1D.DefaultStretch())
	require.NoError(t, err)
	require.False(t, g.Uniform)
	s, err := NewSystem(g, NewModelConstants(1000), 1.e-3, g.Spacing())
	require.NoError(t, err)
	var (
		x    = smoothState(g)
		sysF = NewState(x.Size())
		ctx  = context.Background()
	)
	// The near wall metrics are far from the identity
	m := g.Metric(0)
	assert.Greater(t, math.Abs(m.D1-1), 0.1)
	assert.Less(t, m.D2, 0.)

	s.SetPrevious(x)
	require.NoError(t, s.Evaluate(ctx, x, sysF))
	G := sysF.Copy()
	xn := x.Copy()
	for i := range xn {
		xn[i] = x[i] - s.DeltaT*G[i]
	}
	s.SetPrevious(xn)
	require.NoError(t, s.Evaluate(ctx, x, sysF))
	for i, val := range sysF {
		assert.Lessf(t, math.Abs(val), 1.e-7*math.Max(1, math.Abs(G[i])),
			"equation %s at point %d", Var(i%int(NVars)), i/int(NVars)+1)
	}
}

func TestResidualNonFinite(t *testing.T) {
	var (
		s    = newUniformSystem(t, 1000, 0.01)
		x    = smoothState(s.Grid)
		sysF = NewState(x.Size())
	)
	s.SetPrevious(x)
	for i := range sysF {
		sysF[i] = 7
	}
	x.Set(9, U, math.NaN())
	err := s.Evaluate(context.Background(), x, sysF)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNonFiniteResidual))
	assert.Equal(t, types.StatusNonFinite, types.StatusOf(err))
	var rerr *ResidualError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, U, rerr.Equation)
	// Point 9 is the first whose stencil reaches the NaN
	assert.Equal(t, 9, rerr.Point)
	assert.True(t, math.IsNaN(rerr.Value))
	for j := 0; j < 8; j++ {
		assert.NotEqual(t, 7., sysF.At(j, U))
	}
	// The pass halted, nothing after the bad value was written
	for j := 8; j < x.Size(); j++ {
		assert.Equal(t, 7., sysF.At(j, U))
	}
	for j := 0; j < x.Size(); j++ {
		assert.Equal(t, 7., sysF.At(j, K))
		assert.Equal(t, 7., sysF.At(j, F))
	}
}

func TestResidualAbort(t *testing.T) {
	var (
		s    = newUniformSystem(t, 1000, 0.01)
		x    = smoothState(s.Grid)
		sysF = NewState(x.Size())
	)
	s.SetPrevious(x)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Evaluate(ctx, x, sysF)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrAborted))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, types.ErrNonFiniteResidual))
	assert.Equal(t, types.StatusAborted, types.StatusOf(err))
	var rerr *ResidualError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, U, rerr.Equation)
	assert.Equal(t, 1, rerr.Point)
}

func TestResidualConfiguration(t *testing.T) {
	var (
		s   = newUniformSystem(t, 1000, 0.01)
		x   = smoothState(s.Grid)
		ctx = context.Background()
	)
	{ // Previous step missing
		err := s.Evaluate(ctx, x, NewState(x.Size()))
		assert.Equal(t, types.StatusConfiguration, types.StatusOf(err))
	}
	s.SetPrevious(x)
	{ // Length mismatches
		err := s.Evaluate(ctx, x[:len(x)-1], NewState(x.Size()))
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		err = s.Evaluate(ctx, x, NewState(x.Size()-1))
		assert.True(t, errors.Is(err, types.ErrConfiguration))
	}
	{ // Bad system parameters
		_, err := NewSystem(s.Grid, NewModelConstants(1000), 0, 0.02)
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		_, err = NewSystem(s.Grid, NewModelConstants(1000), 0.01, 0)
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		_, err = NewSystem(s.Grid, NewModelConstants(-1), 0.01, 0.02)
		assert.True(t, errors.Is(err, types.ErrConfiguration))
		_, err = NewSystem(nil, NewModelConstants(1000), 0.01, 0.02)
		assert.True(t, errors.Is(err, types.ErrConfiguration))
	}
	{ // SetPrevious copies
		xn := x.Copy()
		s.SetPrevious(xn)
		xn[0] = -99
		assert.NotEqual(t, -99., s.XiN[0])
	}
}
