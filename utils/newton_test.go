package utils

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/v2f/types"
)

func TestNewtonSolver(t *testing.T) {
	ctx := context.Background()
	{ // Decoupled x^2 - 2 = 0
		F := func(ctx context.Context, x, f []float64) error {
			for i := range x {
				f[i] = x[i]*x[i] - 2
			}
			return nil
		}
		x := ConstArray(6, 1)
		ns := NewNewtonSolver(1, 0)
		stats, err := ns.Solve(ctx, F, x)
		require.NoError(t, err)
		assert.True(t, stats.Converged)
		assert.Less(t, stats.Iterations, 10)
		for _, val := range x {
			assert.InDelta(t, math.Sqrt2, val, 1.e-9)
		}
		// One probe covers every column of a diagonal Jacobian
		assert.Equal(t, 1, ns.Colors(6))
	}
	{ // Tridiagonal linear system, -x[i-1] + 2x[i] - x[i+1] = 1 with zero ends
		var (
			n = 20
			F = func(ctx context.Context, x, f []float64) error {
				for i := range x {
					var xm, xp float64
					if i > 0 {
						xm = x[i-1]
					}
					if i < len(x)-1 {
						xp = x[i+1]
					}
					f[i] = -xm + 2*x[i] - xp - 1
				}
				return nil
			}
			x  = make([]float64, n)
			ns = NewNewtonSolver(2, 1)
		)
		assert.Equal(t, 6, ns.Colors(n))
		stats, err := ns.Solve(ctx, F, x)
		require.NoError(t, err)
		assert.True(t, stats.Converged)
		assert.LessOrEqual(t, stats.Iterations, 3)
		// Discrete solution x_i = (i+1)(n-i)/2
		for i, val := range x {
			assert.InDelta(t, float64((i+1)*(n-i))/2, val, 1.e-6)
		}
	}
	{ // Colored Jacobian matches the dense probe
		F := func(ctx context.Context, x, f []float64) error {
			for i := range x {
				f[i] = math.Sin(x[i]) * float64(i+1)
				if i > 0 {
					f[i] += x[i-1] * x[i-1]
				}
				if i < len(x)-1 {
					f[i] += 3 * x[i+1]
				}
			}
			return nil
		}
		x := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
		f := make([]float64, len(x))
		require.NoError(t, F(ctx, x, f))
		Jc, nc, err := NewNewtonSolver(1, 1).Jacobian(ctx, F, x, f)
		require.NoError(t, err)
		assert.Equal(t, 3, nc)
		Jd, nd, err := NewNewtonSolver(0, 0).Jacobian(ctx, F, x, f)
		require.NoError(t, err)
		assert.Equal(t, len(x), nd)
		for i := range x {
			for j := range x {
				assert.InDelta(t, Jd.At(i, j), Jc.At(i, j), 1.e-12)
			}
			assert.InDelta(t, float64(i+1)*math.Cos(x[i]), Jc.At(i, i), 1.e-6)
		}
		assert.Equal(t, 3*len(x)-2, Jc.NNZ())
	}
	{ // Evaluation errors other than non-finite values stop the solve
		F := func(ctx context.Context, x, f []float64) error {
			return types.ErrAborted
		}
		_, err := NewNewtonSolver(1, 0).Solve(ctx, F, []float64{1})
		assert.True(t, errors.Is(err, types.ErrAborted))
	}
	{ // Non-finite trial residuals shrink the step
		F := func(ctx context.Context, x, f []float64) error {
			if x[0] <= 0 {
				return types.ErrNonFiniteResidual
			}
			f[0] = math.Log(x[0]) - 1
			return nil
		}
		x := []float64{10}
		stats, err := NewNewtonSolver(1, 0).Solve(ctx, F, x)
		require.NoError(t, err)
		assert.True(t, stats.Converged)
		assert.InDelta(t, math.E, x[0], 1.e-8)
	}
	{ // Iteration limit
		F := func(ctx context.Context, x, f []float64) error {
			f[0] = math.Atan(x[0])
			return nil
		}
		ns := NewNewtonSolver(1, 0)
		ns.MaxIterations = 1
		_, err := ns.Solve(ctx, F, []float64{1})
		assert.True(t, errors.Is(err, types.ErrNotConverged))
	}
}
