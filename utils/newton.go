package utils

import (
	"context"
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/v2f/types"
)

// ResidualFunc writes F(x) into f, x must not be modified
type ResidualFunc func(ctx context.Context, x, f []float64) error

/*
NewtonSolver drives F(x) = 0 with a finite difference Jacobian. Unknowns are grouped in
blocks of BlockSize and a residual block only depends on unknown blocks within Halo of its
own, which lets every (2*Halo+1)*BlockSize'th column be probed with one evaluation.
*/
type NewtonSolver struct {
	MaxIterations int
	Tolerance     float64 // Infinity norm of F at convergence
	BlockSize     int
	Halo          int
	MinDamping    float64
}

type NewtonStats struct {
	Iterations  int
	Evaluations int
	Residual    float64
	Converged   bool
}

func NewNewtonSolver(blockSize, halo int) *NewtonSolver {
	return &NewtonSolver{
		MaxIterations: DefaultNewtonIterations,
		Tolerance:     DefaultNewtonTolerance,
		BlockSize:     blockSize,
		Halo:          halo,
		MinDamping:    DefaultMinDamping,
	}
}

// Colors is the number of residual evaluations needed for one Jacobian
func (ns *NewtonSolver) Colors(n int) int {
	if ns.BlockSize <= 0 || ns.Halo < 0 {
		return n
	}
	nc := (2*ns.Halo + 1) * ns.BlockSize
	if nc > n {
		return n
	}
	return nc
}

func (ns *NewtonSolver) rowRange(col, n int) (lo, hi int) {
	if ns.Colors(n) == n {
		return 0, n
	}
	blk := col / ns.BlockSize
	lo = (blk - ns.Halo) * ns.BlockSize
	hi = (blk + ns.Halo + 1) * ns.BlockSize
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	return
}

// Jacobian approximates dF/dx at x where f = F(x)
func (ns *NewtonSolver) Jacobian(ctx context.Context, F ResidualFunc, x, f []float64) (J CSR, nEval int, err error) {
	var (
		n      = len(x)
		nc     = ns.Colors(n)
		xp     = make([]float64, n)
		fp     = make([]float64, n)
		h      = make([]float64, n)
		JD     = NewDOK(n, n)
		sqrtEp = math.Sqrt(2.220446049250313e-16)
	)
	for color := 0; color < nc; color++ {
		copy(xp, x)
		for col := color; col < n; col += nc {
			h[col] = sqrtEp * math.Max(math.Abs(x[col]), 1)
			xp[col] = x[col] + h[col]
			// Representable step
			h[col] = xp[col] - x[col]
		}
		nEval++
		if err = F(ctx, xp, fp); err != nil {
			return
		}
		for col := color; col < n; col += nc {
			lo, hi := ns.rowRange(col, n)
			for row := lo; row < hi; row++ {
				if d := (fp[row] - f[row]) / h[col]; d != 0 {
					JD.Set(row, col, d)
				}
			}
		}
	}
	JD.SetReadOnly("Jacobian")
	J = JD.ToCSR()
	return
}

// Solve iterates on x in place, x holds the last accepted iterate on return
func (ns *NewtonSolver) Solve(ctx context.Context, F ResidualFunc, x []float64) (stats NewtonStats, err error) {
	var (
		n      = len(x)
		f      = make([]float64, n)
		trial  = make([]float64, n)
		fTrial = make([]float64, n)
		dx     = mat.NewVecDense(n, nil)
		rhs    = mat.NewVecDense(n, nil)
		norm   float64
	)
	stats.Evaluations++
	if err = F(ctx, x, f); err != nil {
		return
	}
	norm = floats.Norm(f, math.Inf(1))
	for stats.Iterations = 0; ; stats.Iterations++ {
		stats.Residual = norm
		if norm < ns.Tolerance {
			stats.Converged = true
			return
		}
		if stats.Iterations >= ns.MaxIterations {
			err = fmt.Errorf("%w: |F| = %v after %d Newton iterations", types.ErrNotConverged, norm, stats.Iterations)
			return
		}
		var (
			J     CSR
			nEval int
			lu    mat.LU
		)
		J, nEval, err = ns.Jacobian(ctx, F, x, f)
		stats.Evaluations += nEval
		if err != nil {
			return
		}
		lu.Factorize(J.ToDense())
		for i, val := range f {
			rhs.SetVec(i, -val)
		}
		if err = lu.SolveVecTo(dx, false, rhs); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
				err = fmt.Errorf("%w: singular Jacobian: %v", types.ErrNotConverged, err)
				return
			}
			log.Warnf("Jacobian is ill conditioned, condition number = %v", float64(cond))
			err = nil
		}
		if i := FirstNonFinite(dx.RawVector().Data); i >= 0 {
			err = fmt.Errorf("%w: non-finite Newton update at unknown %d", types.ErrNotConverged, i)
			return
		}
		// Halve the step until the residual is finite and decreases
		var (
			lambda    = 1.
			trialNorm float64
		)
		for {
			floats.AddScaledTo(trial, x, lambda, dx.RawVector().Data)
			stats.Evaluations++
			ferr := F(ctx, trial, fTrial)
			if ferr == nil {
				if trialNorm = floats.Norm(fTrial, math.Inf(1)); trialNorm < norm {
					break
				}
			} else if !errors.Is(ferr, types.ErrNonFiniteResidual) {
				err = ferr
				return
			}
			if lambda *= 0.5; lambda < ns.MinDamping {
				err = fmt.Errorf("%w: no decrease from |F| = %v along the Newton direction", types.ErrNotConverged, norm)
				return
			}
		}
		log.WithFields(log.Fields{
			"iteration": stats.Iterations + 1,
			"residual":  trialNorm,
			"damping":   lambda,
			"nnz":       J.NNZ(),
		}).Debug("Newton step accepted")
		copy(x, trial)
		copy(f, fTrial)
		norm = trialNorm
	}
}
