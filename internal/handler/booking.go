package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cohubhq/space-booking/internal/booking"
	"github.com/cohubhq/space-booking/internal/model"
	"github.com/cohubhq/space-booking/internal/queue"
	"github.com/cohubhq/space-booking/internal/repository"
)

// BookingStore is the persistence surface the booking endpoints need.
// *repository.BookingRepo implements it; tests substitute fakes.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, next booking.Status, paymentRef *uint64) (*model.Booking, error)
	ConfirmedIntervals(ctx context.Context, hubID uint64, spaceID string, window booking.Interval) ([]booking.Interval, error)
}

// HubStore resolves hubs and their spaces.  *repository.HubRepo
// implements it.
type HubStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Hub, error)
}

// ConfirmationPublisher hands confirmed bookings to the notification
// boundary.  A nil publisher disables publishing.
type ConfirmationPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// BookingHandler implements the booking endpoints: creation with
// conflict detection, listing, status transitions and the daily slot
// availability query.
type BookingHandler struct {
	Bookings  BookingStore
	Hubs      HubStore
	Publisher ConfirmationPublisher
}

// NewBookingHandler constructs a BookingHandler.  Bookings and Hubs must
// be non-nil; Publisher may be nil when no broker is configured.
func NewBookingHandler(bookings BookingStore, hubs HubStore, pub ConfirmationPublisher) *BookingHandler {
	if bookings == nil || hubs == nil {
		panic("nil store passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Hubs: hubs, Publisher: pub}
}

// ----- DTOs -----

type createBookingReq struct {
	HubID     uint64 `json:"hub_id"`
	SpaceID   string `json:"space_id"`
	StartTime int64  `json:"start_time"` // epoch millis, UTC
	EndTime   int64  `json:"end_time"`   // epoch millis, UTC
}

type updateStatusReq struct {
	Status     string  `json:"status"`
	PaymentRef *uint64 `json:"payment_ref,omitempty"`
}

type bookingResp struct {
	ID         uint64  `json:"id"`
	UserID     uint64  `json:"user_id"`
	HubID      uint64  `json:"hub_id"`
	SpaceID    string  `json:"space_id"`
	StartTime  int64   `json:"start_time"`
	EndTime    int64   `json:"end_time"`
	Status     string  `json:"status"`
	PaymentRef *uint64 `json:"payment_ref,omitempty"`
}

type slotResp struct {
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
	Available bool  `json:"available"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:         b.ID,
		UserID:     b.UserID,
		HubID:      b.HubID,
		SpaceID:    b.SpaceID,
		StartTime:  b.StartTime.UnixMilli(),
		EndTime:    b.EndTime.UnixMilli(),
		Status:     string(b.Status),
		PaymentRef: b.PaymentRef,
	}
}

// Create handles POST /v1/bookings.  It resolves the hub and space,
// validates the interval, and delegates the atomic conflict check plus
// insert to the store.  An overlapping confirmed booking yields 409; the
// new booking starts out pending.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.HubID == 0 || req.SpaceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hub_id and space_id are required"})
	}
	if req.EndTime <= req.StartTime {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}

	ctx := c.Request().Context()
	hub, err := h.Hubs.GetByID(ctx, req.HubID)
	if err != nil {
		if errors.Is(err, repository.ErrHubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hub not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hub"})
	}
	if _, ok := hub.SpaceByID(req.SpaceID); !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found in hub"})
	}

	b := &model.Booking{
		UserID:    userID,
		HubID:     req.HubID,
		SpaceID:   req.SpaceID,
		StartTime: time.UnixMilli(req.StartTime).UTC(),
		EndTime:   time.UnixMilli(req.EndTime).UTC(),
	}
	if err := h.Bookings.Create(ctx, b); err != nil {
		switch {
		case errors.Is(err, booking.ErrSlotUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "time slot not available"})
		case errors.Is(err, booking.ErrInvalidInterval):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
		case errors.Is(err, repository.ErrHubNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hub not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// ListMine handles GET /v1/my-bookings.  Returns every booking of the
// authenticated user; ordering is a display convenience, not a contract.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	out := make([]bookingResp, 0, len(items))
	for i := range items {
		out = append(out, toBookingResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/bookings/:id for the booking's owner (admins may
// read any booking).
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	if b.UserID != userID && currentRole(c) != "ADMIN" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// UpdateStatus handles PATCH /v1/bookings/:id/status.  The transition
// table is enforced by the store: pending→confirmed needs a payment
// reference, cancellation is allowed from pending and confirmed, and
// everything else is rejected.  Confirming a booking that lost its slot
// meanwhile yields 409 and leaves the booking pending.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	next := booking.Status(req.Status)
	if !next.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx := c.Request().Context()
	cur, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	if cur.UserID != userID && currentRole(c) != "ADMIN" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	updated, err := h.Bookings.UpdateStatus(ctx, id, next, req.PaymentRef)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, booking.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
		case errors.Is(err, booking.ErrPaymentRefRequired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_ref required to confirm"})
		case errors.Is(err, booking.ErrSlotUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "time slot not available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}

	if updated.Status == booking.StatusConfirmed {
		h.publishConfirmed(ctx, updated)
	}
	return c.JSON(http.StatusOK, toBookingResp(updated))
}

// Cancel handles DELETE /v1/bookings/:id as a shorthand for transitioning
// the booking to cancelled.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	cur, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	if cur.UserID != userID && currentRole(c) != "ADMIN" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if _, err := h.Bookings.UpdateStatus(ctx, id, booking.StatusCancelled, nil); err != nil {
		if errors.Is(err, booking.ErrInvalidTransition) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AvailableSlots handles GET /v1/hubs/:id/spaces/:spaceId/slots?date=YYYY-MM-DD.
// It returns the fixed twelve-slot grid for the requested UTC date with
// each slot flagged against the confirmed bookings of that space.
// Bookings crossing midnight count; the overlap predicate decides, not
// day containment.
func (h *BookingHandler) AvailableSlots(c echo.Context) error {
	hubID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hub id"})
	}
	spaceID := c.Param("spaceId")
	if spaceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "space id required"})
	}
	day, err := time.ParseInLocation("2006-01-02", c.QueryParam("date"), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	hub, err := h.Hubs.GetByID(ctx, hubID)
	if err != nil {
		if errors.Is(err, repository.ErrHubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hub not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hub"})
	}
	if _, ok := hub.SpaceByID(spaceID); !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found in hub"})
	}

	busy, err := h.Bookings.ConfirmedIntervals(ctx, hubID, spaceID, booking.DayWindow(day))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	slots := booking.MarkAvailability(booking.DaySlots(day), busy)
	out := make([]slotResp, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResp{
			StartTime: s.Start.UnixMilli(),
			EndTime:   s.End.UnixMilli(),
			Available: s.Available,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// publishConfirmed hands the booking to the notification boundary.
// Publishing is best effort; failures are logged and never fail the
// request.
func (h *BookingHandler) publishConfirmed(ctx context.Context, b *model.Booking) {
	if h.Publisher == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		HubID:       b.HubID,
		SpaceID:     b.SpaceID,
		StartTime:   b.StartTime.Format(time.RFC3339),
		EndTime:     b.EndTime.Format(time.RFC3339),
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if b.PaymentRef != nil {
		ev.PaymentRef = *b.PaymentRef
	}
	if err := h.Publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking: publish confirmed event failed: %v", err)
	}
}
