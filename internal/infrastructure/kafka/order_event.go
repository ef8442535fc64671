package publisher

type OrderEvent struct {
	OrderID     string  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	CustomerID  string  `json:"customer_id"`
	StoreID     string  `json:"store_id"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Reason      string  `json:"reason,omitempty"`
}

type ProofEvent struct {
	ProofID         string  `json:"proof_id"`
	OrderID         string  `json:"order_id"`
	StorageRef      string  `json:"storage_ref"`
	Outcome         string  `json:"outcome"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// ShipmentEvent is published by the fulfillment system when a parcel
// changes state.
type ShipmentEvent struct {
	OrderID        string `json:"order_id"`
	Event          string `json:"event"`
	Carrier        string `json:"carrier,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Notes          string `json:"notes,omitempty"`
}
