package http

import (
	"time"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

type CreateOrderItemRequest struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id,omitempty"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type CreateOrderRequest struct {
	StoreID         string                   `json:"store_id"`
	CustomerID      string                   `json:"customer_id"`
	CustomerChannel string                   `json:"customer_channel,omitempty"`
	Currency        string                   `json:"currency"`
	Items           []CreateOrderItemRequest `json:"items"`
}

type TransitionRequest struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason,omitempty"`
}

type ShipOrderRequest struct {
	Actor          string `json:"actor"`
	Carrier        string `json:"carrier,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

type DeliverOrderRequest struct {
	Actor string `json:"actor"`
	Notes string `json:"notes,omitempty"`
}

type OrderItemResponse struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id,omitempty"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type TrackingResponse struct {
	Carrier        string `json:"carrier,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	StoreID         string              `json:"store_id"`
	CustomerID      string              `json:"customer_id"`
	Status          string              `json:"status"`
	TotalAmount     float64             `json:"total_amount"`
	Currency        string              `json:"currency"`
	Items           []OrderItemResponse `json:"items"`
	ActiveProofID   string              `json:"active_proof_id,omitempty"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
	Tracking        *TrackingResponse   `json:"tracking,omitempty"`
	ExpiresAt       time.Time           `json:"expires_at"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	RejectedAt      *time.Time          `json:"rejected_at,omitempty"`
}

type AuditRecordResponse struct {
	Action     string            `json:"action"`
	Actor      string            `json:"actor"`
	FromStatus string            `json:"from_status,omitempty"`
	ToStatus   string            `json:"to_status,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

type ProofUploadResponse struct {
	ProofID    string `json:"proof_id"`
	OrderID    string `json:"order_id"`
	StorageRef string `json:"storage_ref"`
}

type ProofResponse struct {
	ID              string    `json:"id"`
	OrderID         string    `json:"order_id"`
	StorageRef      string    `json:"storage_ref"`
	Filename        string    `json:"filename"`
	MimeType        string    `json:"mime_type,omitempty"`
	Outcome         string    `json:"outcome"`
	ConfidenceScore float64   `json:"confidence_score"`
	FailureReason   string    `json:"failure_reason,omitempty"`
	Superseded      bool      `json:"superseded"`
	UploadedAt      time.Time `json:"uploaded_at"`
}

type ErrorResponse struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Allowed []string `json:"allowed_transitions,omitempty"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		StoreID:         order.StoreID,
		CustomerID:      order.CustomerID,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
		Items:           make([]OrderItemResponse, len(order.Items)),
		ActiveProofID:   order.ActiveProofID,
		RejectionReason: order.RejectionReason,
		ExpiresAt:       order.ExpiresAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		PaidAt:          order.PaidAt,
		ShippedAt:       order.ShippedAt,
		DeliveredAt:     order.DeliveredAt,
		CancelledAt:     order.CancelledAt,
		RejectedAt:      order.RejectedAt,
	}
	for i, it := range order.Items {
		resp.Items[i] = OrderItemResponse{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	if order.Tracking != nil {
		resp.Tracking = &TrackingResponse{
			Carrier:        order.Tracking.Carrier,
			TrackingNumber: order.Tracking.TrackingNumber,
		}
	}
	return resp
}

func toProofResponse(proof *domain.ProofArtifact) ProofResponse {
	return ProofResponse{
		ID:              proof.ID,
		OrderID:         proof.OrderID,
		StorageRef:      proof.StorageRef,
		Filename:        proof.Filename,
		MimeType:        proof.MimeType,
		Outcome:         string(proof.Outcome),
		ConfidenceScore: proof.ConfidenceScore,
		FailureReason:   proof.FailureReason,
		Superseded:      proof.Superseded,
		UploadedAt:      proof.UploadedAt,
	}
}
