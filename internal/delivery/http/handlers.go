package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	orderdto "github.com/bazaarkit/bazaar-order-service/internal/usecase/dto/order"
	proofdto "github.com/bazaarkit/bazaar-order-service/internal/usecase/dto/proof"
)

func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	input := &orderdto.CreateOrderInput{
		StoreID:         req.StoreID,
		CustomerID:      req.CustomerID,
		CustomerChannel: req.CustomerChannel,
		Currency:        req.Currency,
		Items:           make([]orderdto.CreateOrderItemInput, len(req.Items)),
	}
	for i, it := range req.Items {
		input.Items[i] = orderdto.CreateOrderItemInput{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}

	order, err := s.orders.CreateOrder(ctx.Request().Context(), input)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toOrderResponse(order))
}

func (s *Server) GetOrder(ctx echo.Context) error {
	order, err := s.orders.GetOrderByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) GetOrderHistory(ctx echo.Context) error {
	records, err := s.orders.GetOrderStatusHistory(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	resp := make([]AuditRecordResponse, len(records))
	for i, r := range records {
		resp[i] = AuditRecordResponse{
			Action:     r.Action,
			Actor:      r.Actor,
			FromStatus: string(r.FromStatus),
			ToStatus:   string(r.ToStatus),
			Metadata:   r.Metadata,
			CreatedAt:  r.CreatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (s *Server) ConfirmPayment(ctx echo.Context) error {
	var req TransitionRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	orderID := ctx.Param("id")
	order, err := s.orders.ConfirmPayment(ctx.Request().Context(), orderID, req.Actor, nil)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.proofs.ResolveActiveProof(ctx.Request().Context(), orderID, true, ""); err != nil {
		slog.Error("failed to resolve active proof after confirmation",
			slog.String("order_id", orderID),
			slog.Any("error", err))
	}
	return ctx.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) RejectOrder(ctx echo.Context) error {
	var req TransitionRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	orderID := ctx.Param("id")
	order, err := s.orders.RejectOrder(ctx.Request().Context(), orderID, req.Actor, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.proofs.ResolveActiveProof(ctx.Request().Context(), orderID, false, req.Reason); err != nil {
		slog.Error("failed to resolve active proof after rejection",
			slog.String("order_id", orderID),
			slog.Any("error", err))
	}
	return ctx.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) ShipOrder(ctx echo.Context) error {
	var req ShipOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	var tracking *domain.TrackingInfo
	if req.Carrier != "" || req.TrackingNumber != "" {
		tracking = &domain.TrackingInfo{
			Carrier:        req.Carrier,
			TrackingNumber: req.TrackingNumber,
		}
	}
	order, err := s.orders.ShipOrder(ctx.Request().Context(), ctx.Param("id"), req.Actor, tracking)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) DeliverOrder(ctx echo.Context) error {
	var req DeliverOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	order, err := s.orders.DeliverOrder(ctx.Request().Context(), ctx.Param("id"), req.Actor, req.Notes)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) CancelOrder(ctx echo.Context) error {
	var req TransitionRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	order, err := s.orders.CancelOrder(ctx.Request().Context(), ctx.Param("id"), req.Actor, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) UploadProof(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "multipart field \"file\" is required",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "unreadable upload",
		})
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "unreadable upload",
		})
	}

	ref, err := s.proofs.UploadPaymentProof(ctx.Request().Context(), &proofdto.UploadProofInput{
		OrderID:  ctx.Param("id"),
		Filename: fileHeader.Filename,
		Payload:  payload,
	})
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusAccepted, ProofUploadResponse{
		ProofID:    ref.ProofID,
		OrderID:    ref.OrderID,
		StorageRef: ref.StorageRef,
	})
}

func (s *Server) ListProofs(ctx echo.Context) error {
	proofs, err := s.proofs.ListProofsByOrder(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	resp := make([]ProofResponse, len(proofs))
	for i, p := range proofs {
		resp[i] = toProofResponse(p)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (s *Server) GetProof(ctx echo.Context) error {
	proof, err := s.proofs.GetProofByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toProofResponse(proof))
}
