package bnb

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	errInfeasible = errors.New("relaxation is infeasible")
	errUnbounded  = errors.New("relaxation is unbounded")
	errStalled    = errors.New("simplex iteration limit reached")
)

const (
	pivotTolerance       = 1e-9
	optimalityTolerance  = 1e-9
	feasibilityTolerance = 1e-7
	tieTolerance         = 1e-12

	// consecutive degenerate steps before pricing switches to Bland's rule
	blandAfter = 50
)

// tableau is a dense bounded-variable simplex tableau over [A | I_art] with
// every lower bound shifted to zero. Nonbasic columns sit at zero or at
// their upper bound.
type tableau struct {
	a     *mat.Dense
	m, n  int
	nReal int // columns before the artificials

	beta    []float64 // value of the basic column of each row
	basis   []int
	row     []int // row of a basic column, -1 when nonbasic
	atUpper []bool
	upper   []float64
	frozen  []bool
	d       []float64 // reduced costs

	degenerate int
}

// tableau builds the starting tableau for the given bounds. Rows are
// negated where needed so the right-hand side is non-negative; a row whose
// slack then has coefficient +1 starts with the slack basic, every other
// row gets an artificial column.
func (sf *standardForm) tableau(lower, upper []float64) *tableau {
	m, nReal := len(sf.rows), sf.nCols()

	rhs := make([]float64, m)
	sign := make([]float64, m)
	basic := make([]int, m)
	n := nReal
	for i, row := range sf.rows {
		rhs[i] = sf.b[i]
		for _, e := range row {
			rhs[i] -= e.val * lower[e.col]
		}
		sign[i] = 1
		if rhs[i] < 0 || (rhs[i] == 0 && sf.slackSign[i] < 0) {
			sign[i] = -1
		}
		if sf.slack[i] >= 0 && sf.slackSign[i]*sign[i] > 0 {
			basic[i] = sf.slack[i]
		} else {
			basic[i] = n
			n++
		}
	}

	size := m * n
	if cap(sf.work) < size {
		sf.work = make([]float64, size)
	}
	buf := sf.work[:size]
	clear(buf)

	t := &tableau{
		a:       mat.NewDense(m, n, buf),
		m:       m,
		n:       n,
		nReal:   nReal,
		beta:    make([]float64, m),
		basis:   basic,
		row:     make([]int, n),
		atUpper: make([]bool, n),
		upper:   make([]float64, n),
		frozen:  make([]bool, n),
		d:       make([]float64, n),
	}
	for j := range t.row {
		t.row[j] = -1
		if j < nReal {
			t.upper[j] = upper[j] - lower[j]
		} else {
			t.upper[j] = math.Inf(1)
		}
	}
	for i, row := range sf.rows {
		r := t.a.RawRowView(i)
		for _, e := range row {
			r[e.col] += sign[i] * e.val
		}
		if basic[i] >= nReal {
			r[basic[i]] = 1
		}
		t.beta[i] = sign[i] * rhs[i]
		t.row[basic[i]] = i
	}
	return t
}

// solve runs phase one over the artificial columns, then minimizes c
func (t *tableau) solve(ctx context.Context, c []float64) error {
	if t.n > t.nReal {
		scale := 1 + floats.Norm(t.beta, math.Inf(1))
		cost := make([]float64, t.n)
		for j := t.nReal; j < t.n; j++ {
			cost[j] = 1
		}
		if err := t.optimize(ctx, cost); err != nil {
			return err
		}

		residual := 0.0
		for i, j := range t.basis {
			if j >= t.nReal {
				residual += t.beta[i]
			}
		}
		if residual > feasibilityTolerance*scale {
			return errInfeasible
		}

		// artificials left in the basis sit on redundant rows and stay at zero
		for j := t.nReal; j < t.n; j++ {
			t.frozen[j] = true
			t.upper[j] = 0
		}
		for i, j := range t.basis {
			if j >= t.nReal {
				t.beta[i] = 0
			}
		}
	}

	cost := make([]float64, t.n)
	copy(cost, c)
	return t.optimize(ctx, cost)
}

func (t *tableau) optimize(ctx context.Context, cost []float64) error {
	t.price(cost)
	t.degenerate = 0

	limit := 50 * (t.m + t.n)
	for iter := 0; iter < limit; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		q := t.entering()
		if q < 0 {
			return nil
		}
		dir := 1.0
		if t.atUpper[q] {
			dir = -1
		}

		r, step := t.ratio(q, dir)
		if math.IsInf(step, 1) {
			return errUnbounded
		}
		if step > pivotTolerance {
			t.degenerate = 0
		} else {
			t.degenerate++
		}

		if step > 0 {
			for i := 0; i < t.m; i++ {
				if v := t.a.At(i, q); v != 0 {
					t.beta[i] -= step * dir * v
				}
			}
		}
		if r < 0 {
			t.atUpper[q] = !t.atUpper[q]
			continue
		}
		t.pivot(r, q, dir, step)
	}
	return errStalled
}

// price sets the reduced costs of cost against the current basis
func (t *tableau) price(cost []float64) {
	copy(t.d, cost)
	for i, j := range t.basis {
		if cb := cost[j]; cb != 0 {
			floats.AddScaled(t.d, -cb, t.a.RawRowView(i))
		}
	}
	for _, j := range t.basis {
		t.d[j] = 0
	}
}

// entering picks the improving nonbasic column with the largest reduced
// cost, or the lowest index once the search looks degenerate
func (t *tableau) entering() int {
	bland := t.degenerate > blandAfter
	best, bestScore := -1, optimalityTolerance
	for j := 0; j < t.n; j++ {
		if t.row[j] >= 0 || t.frozen[j] || t.upper[j] == 0 {
			continue
		}
		score := -t.d[j]
		if t.atUpper[j] {
			score = t.d[j]
		}
		if score <= optimalityTolerance {
			continue
		}
		if bland {
			return j
		}
		if score > bestScore {
			best, bestScore = j, score
		}
	}
	return best
}

// ratio returns the row whose basic column blocks column q first when q
// moves in direction dir, and the step length. Row -1 means q reaches its
// own bound first.
func (t *tableau) ratio(q int, dir float64) (int, float64) {
	bland := t.degenerate > blandAfter
	r, step := -1, t.upper[q]
	pivot := 0.0
	for i := 0; i < t.m; i++ {
		alpha := dir * t.a.At(i, q)
		if math.Abs(alpha) <= pivotTolerance {
			continue
		}

		var limit float64
		if alpha > 0 {
			limit = t.beta[i] / alpha
		} else {
			u := t.upper[t.basis[i]]
			if math.IsInf(u, 1) {
				continue
			}
			limit = (u - t.beta[i]) / -alpha
		}
		if limit < 0 {
			limit = 0
		}

		switch {
		case limit < step-tieTolerance:
			r, step, pivot = i, limit, math.Abs(alpha)
		case limit <= step+tieTolerance && r >= 0:
			better := math.Abs(alpha) > pivot
			if bland {
				better = t.basis[i] < t.basis[r]
			}
			if better {
				r, pivot = i, math.Abs(alpha)
				step = math.Min(step, limit)
			}
		}
	}
	return r, step
}

// pivot brings column q into the basis at row r after a step of the given
// length
func (t *tableau) pivot(r, q int, dir, step float64) {
	leaving := t.basis[r]
	t.atUpper[leaving] = dir*t.a.At(r, q) < 0
	t.row[leaving] = -1

	entered := step
	if dir < 0 {
		entered = t.upper[q] - step
	}
	t.basis[r], t.row[q], t.atUpper[q] = q, r, false
	t.beta[r] = entered

	pr := t.a.RawRowView(r)
	floats.Scale(1/pr[q], pr)
	pr[q] = 1
	for i := 0; i < t.m; i++ {
		if i == r {
			continue
		}
		ri := t.a.RawRowView(i)
		if f := ri[q]; f != 0 {
			floats.AddScaled(ri, -f, pr)
			ri[q] = 0
		}
	}
	if f := t.d[q]; f != 0 {
		floats.AddScaled(t.d, -f, pr)
	}
	t.d[q] = 0
}

// values returns every non-artificial column in original, unshifted units
func (t *tableau) values(lower []float64) []float64 {
	x := make([]float64, t.nReal)
	for j := range x {
		switch {
		case t.row[j] >= 0:
			x[j] = t.beta[t.row[j]]
		case t.atUpper[j]:
			x[j] = t.upper[j]
		}
		x[j] += lower[j]
	}
	return x
}
