package entities

// DemandRecord is one row of the demand table: the quantity of a product a
// client requires in a period
type DemandRecord struct {
	Product  ProductID `json:"product"`
	Client   ClientID  `json:"client"`
	Period   Period    `json:"month"`
	Quantity float64   `json:"demand"`
}
