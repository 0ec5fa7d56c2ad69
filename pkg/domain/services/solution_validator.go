package services

import (
	"fmt"
	"math"

	"github.com/vsinha/netplan/pkg/domain/model"
	"github.com/vsinha/netplan/pkg/domain/solver"
)

// DefaultTolerance is the absolute slack allowed per row, scaled by the
// magnitude of the right-hand side
const DefaultTolerance = 1e-6

// SolutionValidator checks a solver assignment against the model it claims
// to solve
type SolutionValidator struct {
	tol float64
}

// NewSolutionValidator creates a validator; tol <= 0 selects DefaultTolerance
func NewSolutionValidator(tol float64) *SolutionValidator {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return &SolutionValidator{tol: tol}
}

// ValidationResult contains the results of solution validation
type ValidationResult struct {
	ViolationsByFamily map[model.Family]int
	Errors             []string
	Warnings           []string
}

// IsValid reports whether no constraint, bound or integrality rule is broken
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// VerifySolution validates a with the given tolerance
func VerifySolution(m *model.Model, a solver.Assignment, tol float64) *ValidationResult {
	return NewSolutionValidator(tol).Validate(m, a)
}

// Validate checks demand, both balance recurrences, capacity linking, safety
// floors, non-negativity and binary integrality
func (v *SolutionValidator) Validate(m *model.Model, a solver.Assignment) *ValidationResult {
	result := &ValidationResult{
		ViolationsByFamily: make(map[model.Family]int),
		Errors:             make([]string, 0),
		Warnings:           make([]string, 0),
	}

	if len(a) != m.NumVariables() {
		result.Errors = append(result.Errors,
			fmt.Sprintf("assignment has %d values, model has %d variables", len(a), m.NumVariables()))
		return result
	}

	for _, c := range m.Constraints() {
		lhs := 0.0
		for _, term := range c.Terms {
			lhs += term.Coef * a[term.Var]
		}
		slack := v.tol * (1 + math.Abs(c.RHS))

		var broken bool
		switch c.Sense {
		case model.Equal:
			broken = math.Abs(lhs-c.RHS) > slack
		case model.LessOrEqual:
			broken = lhs > c.RHS+slack
		case model.GreaterOrEqual:
			broken = lhs < c.RHS-slack
		}
		if broken {
			result.ViolationsByFamily[c.Family]++
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: lhs %g %s rhs %g", c.Name, lhs, c.Sense, c.RHS))
		}
	}

	for i, variable := range m.Variables() {
		val := a[i]
		if val < -v.tol {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: negative value %g", variable.Name, val))
		}
		if variable.Kind == model.Binary && math.Abs(val-math.Round(val)) > v.tol {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: non-integral value %g", variable.Name, val))
		}
	}

	v.warnIdleSites(m, a, result)
	return result
}

// warnIdleSites flags sites that pay a fixed cost but ship nothing
func (v *SolutionValidator) warnIdleSites(m *model.Model, a solver.Assignment, result *ValidationResult) {
	sets := m.Sets()

	for d, depot := range sets.Depots {
		if a[m.OpenDepot(d)] <= 0.5 {
			continue
		}
		out := 0.0
		for p := 0; p < m.NumProducts(); p++ {
			for w := 0; w < m.NumWarehouses(); w++ {
				for t := 0; t < m.NumPeriods(); t++ {
					out += a[m.FlowDW(p, d, w, t)]
				}
			}
		}
		if out <= v.tol {
			result.Warnings = append(result.Warnings, fmt.Sprintf("depot %s is open but ships nothing", depot))
		}
	}

	for w, wh := range sets.Warehouses {
		if a[m.OpenWarehouse(w)] <= 0.5 {
			continue
		}
		out := 0.0
		for p := 0; p < m.NumProducts(); p++ {
			for c := 0; c < m.NumClients(); c++ {
				for t := 0; t < m.NumPeriods(); t++ {
					out += a[m.FlowWC(p, w, c, t)]
				}
			}
		}
		if out <= v.tol {
			result.Warnings = append(result.Warnings, fmt.Sprintf("warehouse %s is open but ships nothing", wh))
		}
	}
}
