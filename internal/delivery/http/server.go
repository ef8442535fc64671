package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	orderuc "github.com/bazaarkit/bazaar-order-service/internal/usecase/order"
	proofuc "github.com/bazaarkit/bazaar-order-service/internal/usecase/proof"
)

// Server exposes the order lifecycle over HTTP. It translates transport
// concerns only; every rule lives in the use cases.
type Server struct {
	orders orderuc.OrderUsecase
	proofs proofuc.ProofUsecase
}

func NewServer(orders orderuc.OrderUsecase, proofs proofuc.ProofUsecase) *Server {
	return &Server{orders: orders, proofs: proofs}
}

func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/history", s.GetOrderHistory)

	api.POST("/orders/:id/confirm", s.ConfirmPayment)
	api.POST("/orders/:id/reject", s.RejectOrder)
	api.POST("/orders/:id/ship", s.ShipOrder)
	api.POST("/orders/:id/deliver", s.DeliverOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)

	api.POST("/orders/:id/proofs", s.UploadProof)
	api.GET("/orders/:id/proofs", s.ListProofs)
	api.GET("/proofs/:id", s.GetProof)
}

// writeError maps domain failures onto HTTP statuses. Business-rule
// violations are 4xx, transient storage failures are 503 so callers know a
// retry may succeed.
func writeError(ctx echo.Context, err error) error {
	var (
		validation        *domain.ValidationError
		invalidTransition *domain.InvalidTransitionError
		insufficientStock *domain.InsufficientStockError
		transient         *domain.TransientInfraError
	)
	switch {
	case errors.As(err, &validation):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: validation.Error(),
		})
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrProofNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.As(err, &invalidTransition):
		allowed := make([]string, len(invalidTransition.Allowed))
		for i, s := range invalidTransition.Allowed {
			allowed[i] = string(s)
		}
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: invalidTransition.Error(),
			Allowed: allowed,
		})
	case errors.As(err, &insufficientStock), errors.Is(err, domain.ErrProofUploadClosed):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.As(err, &transient):
		return ctx.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    http.StatusServiceUnavailable,
			Message: "temporary storage failure, retry later",
		})
	}
	return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    http.StatusInternalServerError,
		Message: "internal error",
	})
}
