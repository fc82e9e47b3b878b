package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cohubhq/space-booking/internal/model"
	"github.com/cohubhq/space-booking/internal/repository"
)

// PaymentHandler records references to external gateway transactions.
// The gateway performs the actual checkout; these endpoints only store
// its identifiers so bookings can carry a payment_ref.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(payments *repository.PaymentRepo) *PaymentHandler {
	if payments == nil {
		panic("nil repository passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments}
}

type createPaymentReq struct {
	GatewayPaymentID string `json:"gateway_payment_id"`
	OrderID          string `json:"order_id"`
	AmountCents      uint32 `json:"amount_cents"`
	Status           string `json:"status"`
}

type updatePaymentReq struct {
	Status           string  `json:"status"`
	GatewayPaymentID *string `json:"gateway_payment_id,omitempty"`
}

type paymentResp struct {
	ID               uint64 `json:"id"`
	UserID           uint64 `json:"user_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	OrderID          string `json:"order_id"`
	AmountCents      uint32 `json:"amount_cents"`
	Status           string `json:"status"`
}

func toPaymentResp(p *model.Payment) paymentResp {
	return paymentResp{
		ID:               p.ID,
		UserID:           p.UserID,
		GatewayPaymentID: p.GatewayPaymentID,
		OrderID:          p.OrderID,
		AmountCents:      p.AmountCents,
		Status:           p.Status,
	}
}

// Create handles POST /v1/payments.
func (h *PaymentHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id is required"})
	}
	if req.Status == "" {
		req.Status = "created"
	}
	p := &model.Payment{
		UserID:           userID,
		GatewayPaymentID: req.GatewayPaymentID,
		OrderID:          req.OrderID,
		AmountCents:      req.AmountCents,
		Status:           req.Status,
	}
	if err := h.Payments.Create(c.Request().Context(), p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record payment"})
	}
	return c.JSON(http.StatusCreated, toPaymentResp(p))
}

// UpdateStatus handles PATCH /v1/payments/:id.  Only the paying user or
// an admin may update a payment.
func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	var req updatePaymentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}

	ctx := c.Request().Context()
	p, err := h.Payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch payment"})
	}
	if p.UserID != userID && currentRole(c) != "ADMIN" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Payments.UpdateStatus(ctx, id, req.Status, req.GatewayPaymentID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update payment"})
	}
	updated, err := h.Payments.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch payment"})
	}
	return c.JSON(http.StatusOK, toPaymentResp(updated))
}

// ListMine handles GET /v1/my-payments.
func (h *PaymentHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Payments.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payments"})
	}
	out := make([]paymentResp, 0, len(items))
	for i := range items {
		out = append(out, toPaymentResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
