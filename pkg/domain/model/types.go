package model

// VarID addresses a decision variable inside a Model
type VarID int

// VarKind distinguishes binary activation variables from continuous ones
type VarKind int

const (
	Continuous VarKind = iota
	Binary
)

// String method for VarKind enum
func (k VarKind) String() string {
	switch k {
	case Continuous:
		return "Continuous"
	case Binary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// Variable describes one decision variable. Upper is +Inf when unbounded.
type Variable struct {
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64
}

// Term is a coefficient applied to a variable
type Term struct {
	Var  VarID
	Coef float64
}

// Sense is the relation between a constraint's left-hand side and its RHS
type Sense int

const (
	Equal Sense = iota
	LessOrEqual
	GreaterOrEqual
)

// String method for Sense enum
func (s Sense) String() string {
	switch s {
	case Equal:
		return "=="
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	default:
		return "?"
	}
}

// Family groups constraints generated by the same rule
type Family int

const (
	DemandFamily Family = iota
	DepotBalanceFamily
	WarehouseBalanceFamily
	DepotCapacityFamily
	WarehouseCapacityFamily
	DepotSafetyStockFamily
	WarehouseSafetyStockFamily
)

// Families lists every constraint family in generation order
var Families = []Family{
	DemandFamily,
	DepotBalanceFamily,
	WarehouseBalanceFamily,
	DepotCapacityFamily,
	WarehouseCapacityFamily,
	DepotSafetyStockFamily,
	WarehouseSafetyStockFamily,
}

// String method for Family enum
func (f Family) String() string {
	switch f {
	case DemandFamily:
		return "Demand"
	case DepotBalanceFamily:
		return "DepotBalance"
	case WarehouseBalanceFamily:
		return "WarehouseBalance"
	case DepotCapacityFamily:
		return "DepotCapacity"
	case WarehouseCapacityFamily:
		return "WarehouseCapacity"
	case DepotSafetyStockFamily:
		return "DepotSafetyStock"
	case WarehouseSafetyStockFamily:
		return "WarehouseSafetyStock"
	default:
		return "Unknown"
	}
}

// Constraint is a linear row: sum(Terms) Sense RHS
type Constraint struct {
	Family Family
	Name   string
	Terms  []Term
	Sense  Sense
	RHS    float64
}

// CostComponent tags objective terms so the total cost can be decomposed
type CostComponent int

const (
	TransportFD CostComponent = iota
	TransportDW
	TransportWC
	FixedDepot
	FixedWarehouse
	HoldingDepot
	HoldingWarehouse
)

// CostComponents lists every component in objective order
var CostComponents = []CostComponent{
	TransportFD,
	TransportDW,
	TransportWC,
	FixedDepot,
	FixedWarehouse,
	HoldingDepot,
	HoldingWarehouse,
}

// String method for CostComponent enum
func (c CostComponent) String() string {
	switch c {
	case TransportFD:
		return "TransportFD"
	case TransportDW:
		return "TransportDW"
	case TransportWC:
		return "TransportWC"
	case FixedDepot:
		return "FixedDepot"
	case FixedWarehouse:
		return "FixedWarehouse"
	case HoldingDepot:
		return "HoldingDepot"
	case HoldingWarehouse:
		return "HoldingWarehouse"
	default:
		return "Unknown"
	}
}

// ObjectiveTerm is a cost coefficient on a variable, tagged with its bucket
type ObjectiveTerm struct {
	Term
	Component CostComponent
}
