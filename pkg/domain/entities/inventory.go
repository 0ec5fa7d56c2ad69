package entities

import "fmt"

// SafetyStock is one row of safety_stock_depots or safety_stock_warehouses.
// The floor applies to every site of the echelon in every period.
type SafetyStock struct {
	Product  ProductID `json:"product"`
	Quantity float64   `json:"safety_stock"`
}

// NewSafetyStock creates a validated SafetyStock
func NewSafetyStock(product ProductID, quantity float64) (*SafetyStock, error) {
	if product == "" {
		return nil, fmt.Errorf("product cannot be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("safety stock cannot be negative, got %g", quantity)
	}

	return &SafetyStock{
		Product:  product,
		Quantity: quantity,
	}, nil
}

// InitialStock is one row of initial_stock_depots or initial_stock_warehouses:
// on-hand inventory of a product at every site of the echelon before the
// first period
type InitialStock struct {
	Product  ProductID `json:"product"`
	Quantity float64   `json:"initial_stock"`
}

// NewInitialStock creates a validated InitialStock
func NewInitialStock(product ProductID, quantity float64) (*InitialStock, error) {
	if product == "" {
		return nil, fmt.Errorf("product cannot be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("initial stock cannot be negative, got %g", quantity)
	}

	return &InitialStock{
		Product:  product,
		Quantity: quantity,
	}, nil
}
