package solver

import (
	"fmt"
	"math"
	"sort"
)

// Grid sizes for the value-function solver. Period 2 is solved on a denser
// grid because period 1 interpolates into it.
const (
	gridMin    = 1e-8
	m1GridMax  = 4.0
	m1GridSize = 100
	m2GridMax  = 5.0
	m2GridSize = 500
)

// BequestParams configures the two-period grid solver with a bequest
// motive in period 2 and two-state income between the periods.
type BequestParams struct {
	Sigma       float64 `yaml:"sigma"`
	Beta        float64 `yaml:"beta"`
	GrossReturn float64 `yaml:"gross_return"`
	Gamma       float64 `yaml:"gamma"` // weight on bequest utility
	Kappa       float64 `yaml:"kappa"` // shifter keeping small bequests valuable
	YLow        float64 `yaml:"y_low"`
	YHigh       float64 `yaml:"y_high"`
	PLow        float64 `yaml:"p_low"` // probability of the low income state
}

func (p BequestParams) validate() error {
	if p.Sigma <= 0 {
		return fmt.Errorf("sigma must be positive, got %g", p.Sigma)
	}
	if p.Beta <= 0 || p.Beta > 1 {
		return fmt.Errorf("beta must be in (0, 1], got %g", p.Beta)
	}
	if p.GrossReturn <= 0 {
		return fmt.Errorf("gross return must be positive, got %g", p.GrossReturn)
	}
	if p.Gamma < 0 {
		return fmt.Errorf("gamma must be non-negative, got %g", p.Gamma)
	}
	if p.Kappa < 0 {
		return fmt.Errorf("kappa must be non-negative, got %g", p.Kappa)
	}
	if p.YLow < 0 || p.YHigh < p.YLow {
		return fmt.Errorf("income states must satisfy 0 <= y_low <= y_high, got %g, %g", p.YLow, p.YHigh)
	}
	if p.PLow < 0 || p.PLow > 1 {
		return fmt.Errorf("p_low must be in [0, 1], got %g", p.PLow)
	}
	return nil
}

// PolicyGrid holds a solved period: cash-on-hand points with the value
// and consumption policy at each point.
type PolicyGrid struct {
	M []float64
	V []float64
	C []float64
}

// SolveBequestGrid solves the bequest-motive model backwards: period 2 on
// a cash-on-hand grid first, then period 1 against the interpolated,
// expected continuation value.
func SolveBequestGrid(p BequestParams) (period1, period2 PolicyGrid, err error) {
	if err := p.validate(); err != nil {
		return PolicyGrid{}, PolicyGrid{}, err
	}

	period2 = solvePeriod2(p)
	v2 := interpLinear(period2.M, period2.V)
	period1 = solvePeriod1(p, v2)
	return period1, period2, nil
}

// solvePeriod2 maximizes u(c) + γ·u(m2-c+κ) pointwise on the m2 grid.
func solvePeriod2(p BequestParams) PolicyGrid {
	g := PolicyGrid{
		M: linspace(gridMin, m2GridMax, m2GridSize),
		V: make([]float64, m2GridSize),
		C: make([]float64, m2GridSize),
	}
	for i, m2 := range g.M {
		obj := func(c float64) float64 {
			u, err := Utility(c, p.Sigma)
			if err != nil {
				return math.Inf(-1)
			}
			bequest, err := Utility(m2-c+p.Kappa, p.Sigma)
			if err != nil {
				return math.Inf(-1)
			}
			return u + p.Gamma*bequest
		}
		g.C[i], g.V[i] = goldenMax(obj, gridMin, m2)
	}
	return g
}

// solvePeriod1 maximizes u(c1) + β·E[v2(R·(m1-c1) + y)] pointwise on the
// m1 grid, with two-state income entering next period's cash on hand.
func solvePeriod1(p BequestParams, v2 func(float64) float64) PolicyGrid {
	g := PolicyGrid{
		M: linspace(gridMin, m1GridMax, m1GridSize),
		V: make([]float64, m1GridSize),
		C: make([]float64, m1GridSize),
	}
	for i, m1 := range g.M {
		obj := func(c1 float64) float64 {
			u, err := Utility(c1, p.Sigma)
			if err != nil {
				return math.Inf(-1)
			}
			saving := m1 - c1
			mLow := p.GrossReturn*saving + p.YLow
			mHigh := p.GrossReturn*saving + p.YHigh
			cont := p.PLow*v2(mLow) + (1-p.PLow)*v2(mHigh)
			return u + p.Beta*cont
		}
		g.C[i], g.V[i] = goldenMax(obj, gridMin, m1)
	}
	return g
}

func linspace(lo, hi float64, n int) []float64 {
	xs := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range xs {
		xs[i] = lo + float64(i)*step
	}
	xs[n-1] = hi
	return xs
}

// goldenMax performs bounded golden-section maximization on [lo, hi].
func goldenMax(f func(float64) float64, lo, hi float64) (x, fx float64) {
	const invPhi = 0.6180339887498949
	const tol = 1e-10

	a, b := lo, hi
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := f(c), f(d)
	for b-a > tol {
		if fc > fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
	}
	x = a + (b-a)/2
	return x, f(x)
}

// interpLinear returns a piecewise-linear interpolant over the sorted xs,
// extrapolating linearly from the edge segments outside the range.
func interpLinear(xs, ys []float64) func(float64) float64 {
	return func(x float64) float64 {
		n := len(xs)
		j := sort.SearchFloat64s(xs, x)
		switch {
		case j <= 0:
			j = 1
		case j >= n:
			j = n - 1
		}
		x0, x1 := xs[j-1], xs[j]
		y0, y1 := ys[j-1], ys[j]
		return y0 + (y1-y0)*(x-x0)/(x1-x0)
	}
}
