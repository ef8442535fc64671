package notifier

import (
	"fmt"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

// RenderMessage turns a template and order context into the customer-facing
// text sent through the transport.
func RenderMessage(template domain.NotificationTemplate, octx domain.OrderContext) string {
	switch template {
	case domain.TemplateOrderCreated:
		return fmt.Sprintf("Order %s created. Total: %.2f %s. Please upload your payment proof.",
			octx.OrderNumber, octx.TotalAmount, octx.Currency)
	case domain.TemplatePaymentConfirmed:
		return fmt.Sprintf("Payment for order %s confirmed. We are preparing your shipment.", octx.OrderNumber)
	case domain.TemplateOrderShipped:
		return fmt.Sprintf("Order %s has been shipped.", octx.OrderNumber)
	case domain.TemplateOrderDelivered:
		return fmt.Sprintf("Order %s was delivered. Thank you for your purchase!", octx.OrderNumber)
	case domain.TemplateOrderCancelled:
		if octx.Reason != "" {
			return fmt.Sprintf("Order %s was cancelled: %s", octx.OrderNumber, octx.Reason)
		}
		return fmt.Sprintf("Order %s was cancelled.", octx.OrderNumber)
	case domain.TemplateOrderRejected:
		if octx.Reason != "" {
			return fmt.Sprintf("Order %s was rejected: %s", octx.OrderNumber, octx.Reason)
		}
		return fmt.Sprintf("Order %s was rejected.", octx.OrderNumber)
	case domain.TemplatePaymentNeedsReview:
		return fmt.Sprintf("Payment proof for order %s needs manual review.", octx.OrderNumber)
	}
	return fmt.Sprintf("Order %s status: %s", octx.OrderNumber, octx.Status)
}
