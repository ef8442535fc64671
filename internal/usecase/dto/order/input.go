package orderdto

type CreateOrderItemInput struct {
	ProductID string
	VariantID string
	Quantity  int32
	UnitPrice float64
}

type CreateOrderInput struct {
	StoreID         string
	CustomerID      string
	CustomerChannel string
	Currency        string
	Items           []CreateOrderItemInput
}
