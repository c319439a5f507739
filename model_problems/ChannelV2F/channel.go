package ChannelV2F

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
	log "github.com/sirupsen/logrus"

	"github.com/notargets/v2f/FD1D"
	"github.com/notargets/v2f/InputParameters"
	"github.com/notargets/v2f/types"
	"github.com/notargets/v2f/utils"
)

// MaxStepCuts bounds the consecutive time step halvings after failed Newton solves
const MaxStepCuts = 6

/*
Channel integrates the v2-f system in pseudo time with implicit Euler steps until the
profile stops changing. Every step is one Newton solve of the assembled residual.
*/
type Channel struct {
	Params     *InputParameters.InputParametersV2F
	Grid       *FD1D.Grid
	System     *System
	Solver     *utils.NewtonSolver
	Graph      bool
	GraphDelay time.Duration
	plotOnce   sync.Once
	chart      *chart2d.Chart2D
	lineKeys   [NVars]utils2.Key
}

func NewChannel(ip *InputParameters.InputParametersV2F) (c *Channel, err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	c = &Channel{Params: ip}
	if c.Grid, err = FD1D.NewGrid(ip.UniformGrid, ip.Extent, ip.TargetSpacing, FD1D.DefaultStretch()); err != nil {
		return nil, err
	}
	mc := NewModelConstants(ip.Reynolds)
	mc.Cmu, mc.C1, mc.C2 = ip.Cmu, ip.C1, ip.C2
	mc.CEp1, mc.CEp2, mc.SigmaEp = ip.CEp1, ip.CEp2, ip.SigmaEp
	mc.CL, mc.CEta, mc.CT = ip.CL, ip.CEta, ip.CT
	mc.Forcing = ip.Forcing
	dEta := ip.DeltaEta
	if dEta == 0 {
		dEta = c.Grid.Spacing()
	}
	if c.System, err = NewSystem(c.Grid, mc, ip.DeltaT, dEta); err != nil {
		return nil, err
	}
	c.Solver = utils.NewNewtonSolver(int(NVars), 1)
	c.Solver.MaxIterations = ip.NewtonMaxIterations
	c.Solver.Tolerance = ip.NewtonTolerance
	log.WithFields(log.Fields{
		"points":   c.Grid.Size,
		"uniform":  c.Grid.Uniform,
		"deltaEta": dEta,
		"reynolds": mc.Reynolds,
	}).Info("channel initialized")
	return
}

// InitialState is a parabolic U and k with uniform Ep, v2 = 2k/3 and f = 0
func (c *Channel) InitialState() (x State) {
	var (
		ip = c.Params
		e  = c.Grid.Extent
	)
	x = NewState(c.Grid.Size)
	for j, y := range c.Grid.Computational {
		s := y / e
		shape := 2*s - s*s
		k := ip.InitialK * shape
		x.SetPoint(j, Point{
			U:  ip.InitialU * shape,
			K:  k,
			Ep: ip.InitialEpsilon,
			V2: 2 * k / 3,
			F:  0,
		})
	}
	return
}

// Run steps from x0, or the initial state when x0 is nil. A step whose Newton solve fails
// is retried from the previous state with half the time step, up to MaxStepCuts times.
// After a failure the result holds the last completed step.
func (c *Channel) Run(ctx context.Context, x0 State) (r *Result, err error) {
	var (
		ip        = c.Params
		x         State
		change    float64
		converged bool
		completed int
		cuts      int
		stats     utils.NewtonStats
	)
	if x0 == nil {
		x = c.InitialState()
	} else {
		x = x0.Copy()
	}
	if len(x) != c.System.Len() {
		return nil, fmt.Errorf("initial state length %d, grid needs %d", len(x), c.System.Len())
	}
	c.System.DeltaT = ip.DeltaT
	start := time.Now()
	for step := 1; step <= ip.MaxTimeSteps; {
		c.System.SetPrevious(x)
		if stats, err = c.Solver.Solve(ctx, c.System.EvaluateFunc(), x); err != nil {
			copy(x, c.System.XiN)
			if errors.Is(err, types.ErrNotConverged) && cuts < MaxStepCuts {
				cuts++
				c.System.DeltaT *= 0.5
				log.WithFields(log.Fields{
					"step":   step,
					"deltaT": c.System.DeltaT,
				}).Warnf("retrying with a smaller time step: %v", err)
				err = nil
				continue
			}
			err = fmt.Errorf("time step %d, dt = %v: %w", step, c.System.DeltaT, err)
			break
		}
		completed = step
		change = c.maxChange(x)
		log.WithFields(log.Fields{
			"step":        step,
			"deltaT":      c.System.DeltaT,
			"newton":      stats.Iterations,
			"evaluations": stats.Evaluations,
			"residual":    stats.Residual,
			"change":      change,
		}).Info("time step complete")
		if c.Graph {
			c.Plot(x, c.GraphDelay)
		}
		if change < ip.SteadyTolerance {
			converged = true
			break
		}
		step++
		cuts = 0
		c.System.DeltaT = math.Min(2*c.System.DeltaT, ip.DeltaT)
	}
	log.Infof("%d steps in %v, %s", completed, time.Since(start), utils.GetMemUsage())
	log.Debugf("timing\n%s", c.System.Timer)
	r = c.NewResult(x, completed, converged, change)
	return
}

// maxChange is the largest |x - XiN| / dt over all unknowns
func (c *Channel) maxChange(x State) (change float64) {
	for i, val := range x {
		change = math.Max(change, math.Abs(val-c.System.XiN[i]))
	}
	return change / c.System.DeltaT
}
