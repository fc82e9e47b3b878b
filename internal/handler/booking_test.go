package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohubhq/space-booking/internal/booking"
	"github.com/cohubhq/space-booking/internal/model"
	"github.com/cohubhq/space-booking/internal/queue"
	"github.com/cohubhq/space-booking/internal/repository"
)

// ----- fakes -----

type fakeBookingStore struct {
	createErr error
	updateErr error
	byID      map[uint64]*model.Booking
	busy      []booking.Interval
	created   []*model.Booking
}

func (f *fakeBookingStore) Create(_ context.Context, b *model.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = uint64(len(f.created) + 1)
	b.Status = booking.StatusPending
	f.created = append(f.created, b)
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingStore) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.byID {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) UpdateStatus(_ context.Context, id uint64, next booking.Status, paymentRef *uint64) (*model.Booking, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	b, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	cp.Status = next
	if paymentRef != nil {
		cp.PaymentRef = paymentRef
	}
	return &cp, nil
}

func (f *fakeBookingStore) ConfirmedIntervals(_ context.Context, _ uint64, _ string, _ booking.Interval) ([]booking.Interval, error) {
	return f.busy, nil
}

type fakeHubStore struct {
	hubs map[uint64]*model.Hub
}

func (f *fakeHubStore) GetByID(_ context.Context, id uint64) (*model.Hub, error) {
	h, ok := f.hubs[id]
	if !ok {
		return nil, repository.ErrHubNotFound
	}
	return h, nil
}

type fakePublisher struct {
	events []queue.BookingConfirmedEvent
}

func (f *fakePublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	f.events = append(f.events, ev)
	return nil
}

// ----- helpers -----

func testHub() *model.Hub {
	return &model.Hub{
		ID:   1,
		Name: "Downtown Hub",
		Spaces: []model.Space{
			{ID: "desk-1", Type: "desk", Capacity: 1},
			{ID: "room-a", Type: "meeting_room", Capacity: 8},
		},
	}
}

func newTestContext(t *testing.T, method, path, body string, userID uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(userID)) // mirrors JSON claim decoding
	c.Set("role", role)
	return c, rec
}

func mustMillis(t *testing.T, day string, hour int) int64 {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", day, time.UTC)
	require.NoError(t, err)
	return d.Add(time.Duration(hour) * time.Hour).UnixMilli()
}

// ----- tests -----

func TestBookingCreate(t *testing.T) {
	store := &fakeBookingStore{byID: map[uint64]*model.Booking{}}
	hubs := &fakeHubStore{hubs: map[uint64]*model.Hub{1: testHub()}}
	h := NewBookingHandler(store, hubs, nil)

	body, _ := json.Marshal(map[string]any{
		"hub_id":     1,
		"space_id":   "desk-1",
		"start_time": mustMillis(t, "2026-09-01", 10),
		"end_time":   mustMillis(t, "2026-09-01", 12),
	})
	c, rec := newTestContext(t, http.MethodPost, "/v1/bookings", string(body), 42, "USER")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp bookingResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, uint64(42), resp.UserID)
	assert.Equal(t, "desk-1", resp.SpaceID)
	require.Len(t, store.created, 1)
	assert.True(t, store.created[0].StartTime.Equal(time.UnixMilli(mustMillis(t, "2026-09-01", 10)).UTC()))
}

func TestBookingCreateConflict(t *testing.T) {
	store := &fakeBookingStore{byID: map[uint64]*model.Booking{}, createErr: booking.ErrSlotUnavailable}
	hubs := &fakeHubStore{hubs: map[uint64]*model.Hub{1: testHub()}}
	h := NewBookingHandler(store, hubs, nil)

	body, _ := json.Marshal(map[string]any{
		"hub_id":     1,
		"space_id":   "desk-1",
		"start_time": mustMillis(t, "2026-09-01", 10),
		"end_time":   mustMillis(t, "2026-09-01", 11),
	})
	c, rec := newTestContext(t, http.MethodPost, "/v1/bookings", string(body), 42, "USER")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookingCreateValidation(t *testing.T) {
	store := &fakeBookingStore{byID: map[uint64]*model.Booking{}}
	hubs := &fakeHubStore{hubs: map[uint64]*model.Hub{1: testHub()}}
	h := NewBookingHandler(store, hubs, nil)

	start := mustMillis(t, "2026-09-01", 10)
	cases := []struct {
		name string
		body map[string]any
		code int
	}{
		{"end before start", map[string]any{"hub_id": 1, "space_id": "desk-1", "start_time": start, "end_time": start - 1}, http.StatusBadRequest},
		{"zero-length", map[string]any{"hub_id": 1, "space_id": "desk-1", "start_time": start, "end_time": start}, http.StatusBadRequest},
		{"missing space", map[string]any{"hub_id": 1, "start_time": start, "end_time": start + 3600000}, http.StatusBadRequest},
		{"unknown hub", map[string]any{"hub_id": 9, "space_id": "desk-1", "start_time": start, "end_time": start + 3600000}, http.StatusNotFound},
		{"unknown space", map[string]any{"hub_id": 1, "space_id": "desk-9", "start_time": start, "end_time": start + 3600000}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.body)
			c, rec := newTestContext(t, http.MethodPost, "/v1/bookings", string(body), 42, "USER")
			require.NoError(t, h.Create(c))
			assert.Equal(t, tc.code, rec.Code)
			assert.Empty(t, store.created)
		})
	}
}

func TestBookingGetOwnership(t *testing.T) {
	owned := &model.Booking{ID: 7, UserID: 42, HubID: 1, SpaceID: "desk-1", Status: booking.StatusPending}
	store := &fakeBookingStore{byID: map[uint64]*model.Booking{7: owned}}
	h := NewBookingHandler(store, &fakeHubStore{hubs: map[uint64]*model.Hub{}}, nil)

	get := func(userID uint64, role string) *httptest.ResponseRecorder {
		c, rec := newTestContext(t, http.MethodGet, "/v1/bookings/7", "", userID, role)
		c.SetParamNames("id")
		c.SetParamValues("7")
		require.NoError(t, h.Get(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, get(42, "USER").Code)
	assert.Equal(t, http.StatusForbidden, get(43, "USER").Code)
	assert.Equal(t, http.StatusOK, get(43, "ADMIN").Code)
}

func TestBookingUpdateStatusConfirm(t *testing.T) {
	pending := &model.Booking{
		ID: 7, UserID: 42, HubID: 1, SpaceID: "desk-1",
		StartTime: time.UnixMilli(mustMillis(t, "2026-09-01", 10)).UTC(),
		EndTime:   time.UnixMilli(mustMillis(t, "2026-09-01", 11)).UTC(),
		Status:    booking.StatusPending,
	}
	store := &fakeBookingStore{byID: map[uint64]*model.Booking{7: pending}}
	pub := &fakePublisher{}
	h := NewBookingHandler(store, &fakeHubStore{hubs: map[uint64]*model.Hub{}}, pub)

	c, rec := newTestContext(t, http.MethodPatch, "/v1/bookings/7", `{"status":"confirmed","payment_ref":555}`, 42, "USER")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp bookingResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "confirmed", resp.Status)
	require.NotNil(t, resp.PaymentRef)
	assert.Equal(t, uint64(555), *resp.PaymentRef)

	require.Len(t, pub.events, 1)
	assert.Equal(t, uint64(7), pub.events[0].BookingID)
	assert.Equal(t, uint64(555), pub.events[0].PaymentRef)
}

func TestBookingUpdateStatusErrors(t *testing.T) {
	pending := &model.Booking{ID: 7, UserID: 42, Status: booking.StatusPending}
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid transition", booking.ErrInvalidTransition, http.StatusConflict},
		{"payment ref required", booking.ErrPaymentRefRequired, http.StatusBadRequest},
		{"slot lost", booking.ErrSlotUnavailable, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeBookingStore{byID: map[uint64]*model.Booking{7: pending}, updateErr: tc.err}
			pub := &fakePublisher{}
			h := NewBookingHandler(store, &fakeHubStore{hubs: map[uint64]*model.Hub{}}, pub)

			c, rec := newTestContext(t, http.MethodPatch, "/v1/bookings/7", `{"status":"confirmed"}`, 42, "USER")
			c.SetParamNames("id")
			c.SetParamValues("7")
			require.NoError(t, h.UpdateStatus(c))
			assert.Equal(t, tc.code, rec.Code)
			assert.Empty(t, pub.events)
		})
	}
}

func TestBookingCancel(t *testing.T) {
	confirmed := &model.Booking{ID: 7, UserID: 42, Status: booking.StatusConfirmed}
	store := &fakeBookingStore{byID: map[uint64]*model.Booking{7: confirmed}}
	h := NewBookingHandler(store, &fakeHubStore{hubs: map[uint64]*model.Hub{}}, nil)

	c, rec := newTestContext(t, http.MethodDelete, "/v1/bookings/7", "", 42, "USER")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAvailableSlots(t *testing.T) {
	day := "2026-09-01"
	busyStart := time.UnixMilli(mustMillis(t, day, 10)).UTC()
	iv, err := booking.NewInterval(busyStart, busyStart.Add(2*time.Hour))
	require.NoError(t, err)

	store := &fakeBookingStore{byID: map[uint64]*model.Booking{}, busy: []booking.Interval{iv}}
	hubs := &fakeHubStore{hubs: map[uint64]*model.Hub{1: testHub()}}
	h := NewBookingHandler(store, hubs, nil)

	c, rec := newTestContext(t, http.MethodGet, "/v1/hubs/1/spaces/desk-1/slots?date="+day, "", 42, "USER")
	c.SetParamNames("id", "spaceId")
	c.SetParamValues("1", "desk-1")
	require.NoError(t, h.AvailableSlots(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []slotResp `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, booking.SlotsPerDay)

	// [10:00, 12:00) knocks out exactly the 10:00 and 11:00 slots.
	blocked := 0
	for _, s := range resp.Items {
		if !s.Available {
			blocked++
			hour := time.UnixMilli(s.StartTime).UTC().Hour()
			assert.Contains(t, []int{10, 11}, hour)
		}
	}
	assert.Equal(t, 2, blocked)
}

func TestAvailableSlotsBadDate(t *testing.T) {
	store := &fakeBookingStore{byID: map[uint64]*model.Booking{}}
	hubs := &fakeHubStore{hubs: map[uint64]*model.Hub{1: testHub()}}
	h := NewBookingHandler(store, hubs, nil)

	c, rec := newTestContext(t, http.MethodGet, "/v1/hubs/1/spaces/desk-1/slots?date=nope", "", 42, "USER")
	c.SetParamNames("id", "spaceId")
	c.SetParamValues("1", "desk-1")
	require.NoError(t, h.AvailableSlots(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
