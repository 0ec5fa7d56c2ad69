package entities

// ProductID identifies a product flowing through the network
type ProductID string

// ClientID identifies a demand point
type ClientID string

// FactoryID identifies a supply origin
type FactoryID string

// DepotID identifies a first-tier distribution site
type DepotID string

// WarehouseID identifies a second-tier distribution site
type WarehouseID string

// Period is a planning period index (the "month" column of the demand table)
type Period int

// Echelon represents a tier of the distribution network
type Echelon int

const (
	FactoryEchelon Echelon = iota
	DepotEchelon
	WarehouseEchelon
	ClientEchelon
)

// String method for Echelon enum
func (e Echelon) String() string {
	switch e {
	case FactoryEchelon:
		return "Factory"
	case DepotEchelon:
		return "Depot"
	case WarehouseEchelon:
		return "Warehouse"
	case ClientEchelon:
		return "Client"
	default:
		return "Unknown"
	}
}
