package model

// Model is a solver-ready MILP formulation of the network design problem.
// It is built once from a data snapshot by Build and never mutated after;
// slices returned by accessors must be treated as read-only.
type Model struct {
	sets   IndexSets
	params Parameters

	vars        []Variable
	constraints []Constraint
	objective   []ObjectiveTerm

	// block offsets into vars
	openDOff, openWOff   int
	flowFDOff, flowDWOff int
	flowWCOff            int
	stockDOff, stockWOff int
}

// Stats summarises model size
type Stats struct {
	Variables           int
	BinaryVariables     int
	Constraints         int
	ObjectiveTerms      int
	ConstraintsByFamily map[Family]int
}

// Sets returns a copy of the index sets
func (m *Model) Sets() IndexSets { return m.sets.clone() }

// Params returns the parameter arrays
func (m *Model) Params() *Parameters { return &m.params }

// Variables returns all decision variables indexed by VarID
func (m *Model) Variables() []Variable { return m.vars }

// Variable returns one decision variable
func (m *Model) Variable(id VarID) Variable { return m.vars[id] }

// Constraints returns all constraint rows in generation order
func (m *Model) Constraints() []Constraint { return m.constraints }

// Objective returns the cost terms of the minimisation objective
func (m *Model) Objective() []ObjectiveTerm { return m.objective }

func (m *Model) NumVariables() int   { return len(m.vars) }
func (m *Model) NumConstraints() int { return len(m.constraints) }

// NumProducts and friends expose set cardinalities for index loops
func (m *Model) NumProducts() int   { return len(m.sets.Products) }
func (m *Model) NumClients() int    { return len(m.sets.Clients) }
func (m *Model) NumPeriods() int    { return len(m.sets.Periods) }
func (m *Model) NumFactories() int  { return len(m.sets.Factories) }
func (m *Model) NumDepots() int     { return len(m.sets.Depots) }
func (m *Model) NumWarehouses() int { return len(m.sets.Warehouses) }

// OpenDepot is the activation binary of depot d
func (m *Model) OpenDepot(d int) VarID { return VarID(m.openDOff + d) }

// OpenWarehouse is the activation binary of warehouse w
func (m *Model) OpenWarehouse(w int) VarID { return VarID(m.openWOff + w) }

// FlowFD is the quantity of product p shipped from factory f to depot d in period t
func (m *Model) FlowFD(p, f, d, t int) VarID {
	return VarID(m.flowFDOff + ((p*m.NumFactories()+f)*m.NumDepots()+d)*m.NumPeriods() + t)
}

// FlowDW is the quantity of product p shipped from depot d to warehouse w in period t
func (m *Model) FlowDW(p, d, w, t int) VarID {
	return VarID(m.flowDWOff + ((p*m.NumDepots()+d)*m.NumWarehouses()+w)*m.NumPeriods() + t)
}

// FlowWC is the quantity of product p shipped from warehouse w to client c in period t
func (m *Model) FlowWC(p, w, c, t int) VarID {
	return VarID(m.flowWCOff + ((p*m.NumWarehouses()+w)*m.NumClients()+c)*m.NumPeriods() + t)
}

// StockDepot is the end-of-period inventory of product p at depot d
func (m *Model) StockDepot(p, d, t int) VarID {
	return VarID(m.stockDOff + (p*m.NumDepots()+d)*m.NumPeriods() + t)
}

// StockWarehouse is the end-of-period inventory of product p at warehouse w
func (m *Model) StockWarehouse(p, w, t int) VarID {
	return VarID(m.stockWOff + (p*m.NumWarehouses()+w)*m.NumPeriods() + t)
}

// EvaluateObjective computes the total cost of an assignment indexed by VarID
func (m *Model) EvaluateObjective(values []float64) float64 {
	total := 0.0
	for _, term := range m.objective {
		total += term.Coef * values[term.Var]
	}
	return total
}

// Stats returns model size counters
func (m *Model) Stats() Stats {
	s := Stats{
		Variables:           len(m.vars),
		Constraints:         len(m.constraints),
		ObjectiveTerms:      len(m.objective),
		ConstraintsByFamily: make(map[Family]int, len(Families)),
	}
	for _, v := range m.vars {
		if v.Kind == Binary {
			s.BinaryVariables++
		}
	}
	for _, c := range m.constraints {
		s.ConstraintsByFamily[c.Family]++
	}
	return s
}
