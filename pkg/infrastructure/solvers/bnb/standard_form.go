package bnb

import (
	"context"
	"errors"
	"math"

	"github.com/vsinha/netplan/pkg/domain/model"
)

// standardForm is the model rewritten as
//
//	minimize c^T x  s.t.  A x = b, lower <= x <= upper
//
// with one slack column per inequality row. Variable bounds stay bounds, so
// branching only tightens them and the rows are built once per solve.
// Structural variables keep their VarID as column index.
type standardForm struct {
	nStruct int
	c       []float64
	lower   []float64
	upper   []float64
	rows    [][]entry
	b       []float64

	// slack column of each row and its coefficient, -1 for equalities
	slack     []int
	slackSign []float64

	// structural columns subject to integrality
	integer []int

	// tableau storage shared by every relaxation of the search
	work []float64
}

type entry struct {
	col int
	val float64
}

// fix pins a structural column to a value by collapsing its bounds
type fix struct {
	col int
	val float64
}

func newStandardForm(m *model.Model) *standardForm {
	sf := &standardForm{}
	for _, v := range m.Variables() {
		sf.addColumn(v.Lower, v.Upper, v.Kind == model.Binary)
	}
	sf.nStruct = len(sf.c)
	for _, term := range m.Objective() {
		sf.c[term.Var] += term.Coef
	}
	for _, c := range m.Constraints() {
		sf.addRow(c.Terms, c.Sense, c.RHS)
	}
	return sf
}

func (sf *standardForm) addColumn(lower, upper float64, integer bool) int {
	col := len(sf.c)
	sf.c = append(sf.c, 0)
	sf.lower = append(sf.lower, lower)
	sf.upper = append(sf.upper, upper)
	if integer {
		sf.integer = append(sf.integer, col)
	}
	return col
}

func (sf *standardForm) addRow(terms []model.Term, sense model.Sense, rhs float64) {
	row := make([]entry, 0, len(terms)+1)
	for _, term := range terms {
		if term.Coef != 0 {
			row = append(row, entry{col: int(term.Var), val: term.Coef})
		}
	}

	slack, sign := -1, 0.0
	switch sense {
	case model.LessOrEqual:
		sign = 1
	case model.GreaterOrEqual:
		sign = -1
	}
	if sign != 0 {
		slack = sf.addColumn(0, math.Inf(1), false)
		row = append(row, entry{col: slack, val: sign})
	}

	sf.rows = append(sf.rows, row)
	sf.b = append(sf.b, rhs)
	sf.slack = append(sf.slack, slack)
	sf.slackSign = append(sf.slackSign, sign)
}

func (sf *standardForm) nCols() int { return len(sf.c) }

// relax solves the LP relaxation with the given columns pinned and returns
// the objective and the structural part of the solution
func (sf *standardForm) relax(ctx context.Context, fixes []fix) (float64, []float64, error) {
	if len(sf.rows) == 0 {
		return 0, nil, errors.New("model has no constraints")
	}
	lower := append([]float64(nil), sf.lower...)
	upper := append([]float64(nil), sf.upper...)
	for _, f := range fixes {
		lower[f.col] = math.Max(lower[f.col], f.val)
		upper[f.col] = math.Min(upper[f.col], f.val)
	}
	for j := range lower {
		if upper[j] < lower[j] {
			return 0, nil, errInfeasible
		}
	}

	t := sf.tableau(lower, upper)
	if err := t.solve(ctx, sf.c); err != nil {
		return 0, nil, err
	}

	x := t.values(lower)
	z := 0.0
	for j, v := range x {
		z += sf.c[j] * v
	}
	return z, x[:sf.nStruct], nil
}

// mostFractional returns the integer column furthest from integrality, or -1
// when every integer column is within tol of an integer
func (sf *standardForm) mostFractional(x []float64, tol float64) int {
	best, bestDist := -1, tol
	for _, j := range sf.integer {
		dist := math.Abs(x[j] - math.Round(x[j]))
		if dist > bestDist {
			best, bestDist = j, dist
		}
	}
	return best
}
