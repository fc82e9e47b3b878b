package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cohubhq/space-booking/internal/model"
	"github.com/cohubhq/space-booking/internal/repository"
)

// EventHandler exposes community events: public listing and detail,
// partner creation, and RSVP for authenticated users.
type EventHandler struct {
	Events *repository.EventRepo
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(events *repository.EventRepo) *EventHandler {
	if events == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Events: events}
}

type eventResp struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        int64    `json:"date"` // epoch millis
	Location    string   `json:"location"`
	Capacity    int      `json:"capacity"`
	PriceCents  uint32   `json:"price_cents"`
	Images      []string `json:"images"`
	Attendees   []uint64 `json:"attendees,omitempty"`
}

type createEventReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        int64    `json:"date"` // epoch millis
	Location    string   `json:"location"`
	Capacity    int      `json:"capacity"`
	PriceCents  uint32   `json:"price_cents"`
	Images      []string `json:"images"`
}

func toEventResp(e *model.Event) eventResp {
	return eventResp{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.UnixMilli(),
		Location:    e.Location,
		Capacity:    e.Capacity,
		PriceCents:  e.PriceCents,
		Images:      e.Images,
	}
}

// List handles GET /v1/events.
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.Events.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	out := make([]eventResp, 0, len(events))
	for i := range events {
		out = append(out, toEventResp(&events[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/events/:id, including the attendee list.
func (h *EventHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx := c.Request().Context()
	event, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	attendees, err := h.Events.Attendees(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load attendees"})
	}
	resp := toEventResp(event)
	resp.Attendees = attendees
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /v1/events for partners and admins.
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        time.UnixMilli(req.Date).UTC(),
		Location:    req.Location,
		Capacity:    req.Capacity,
		PriceCents:  req.PriceCents,
		Images:      req.Images,
	}
	if err := h.Events.Create(c.Request().Context(), event); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create event"})
	}
	return c.JSON(http.StatusCreated, toEventResp(event))
}

// RSVP handles POST /v1/events/:id/rsvp.
func (h *EventHandler) RSVP(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	err = h.Events.RSVP(c.Request().Context(), id, userID)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, echo.Map{"event_id": id})
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, repository.ErrAlreadyRegistered):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already registered for this event"})
	case errors.Is(err, repository.ErrEventFull):
		return c.JSON(http.StatusConflict, echo.Map{"error": "event is full"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to register"})
}

// CancelRSVP handles DELETE /v1/events/:id/rsvp.  Cancelling a
// registration that does not exist succeeds.
func (h *EventHandler) CancelRSVP(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if err := h.Events.CancelRSVP(c.Request().Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel registration"})
	}
	return c.NoContent(http.StatusNoContent)
}
