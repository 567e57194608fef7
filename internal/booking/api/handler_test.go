package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"ms-booking/internal/apperr"
	"ms-booking/internal/auth"
	"ms-booking/internal/booking/api"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// MockBookingService simulates the service behind the handler.
type MockBookingService struct {
	bookings      map[int64]*models.Booking
	errorToReturn error
}

func NewMockBookingService() *MockBookingService {
	return &MockBookingService{bookings: make(map[int64]*models.Booking)}
}

func (m *MockBookingService) GetUserBooking(_ context.Context, userID int64) (*models.Booking, error) {
	if m.errorToReturn != nil {
		return nil, m.errorToReturn
	}
	return m.bookings[userID], nil
}

func (m *MockBookingService) CreateBooking(_ context.Context, userID, roomID int64) (*models.Booking, error) {
	if m.errorToReturn != nil {
		return nil, m.errorToReturn
	}
	b := &models.Booking{ID: 1, UserID: userID, RoomID: roomID, Room: &models.Room{ID: roomID, Name: "101", Capacity: 2}}
	m.bookings[userID] = b
	return b, nil
}

func (m *MockBookingService) UpdateBooking(_ context.Context, userID, bookingID, roomID int64) (*models.Booking, error) {
	if m.errorToReturn != nil {
		return nil, m.errorToReturn
	}
	b := m.bookings[userID]
	b.RoomID = roomID
	return b, nil
}

func setupRouter(service *MockBookingService) *chi.Mux {
	handler := api.NewHandler(service, logger.NewLogger())

	r := chi.NewRouter()
	r.Get("/booking", handler.GetBooking)
	r.Post("/booking", handler.CreateBooking)
	r.Put("/booking/{bookingId}", handler.UpdateBooking)
	return r
}

func authedRequest(method, target string, body []byte, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func TestGetBookingHandler(t *testing.T) {
	service := NewMockBookingService()
	service.bookings[5] = &models.Booking{
		ID:     3,
		UserID: 5,
		RoomID: 10,
		Room:   &models.Room{ID: 10, Name: "101", Capacity: 2},
	}
	router := setupRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/booking", nil, 5))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.ID)
	assert.NotNil(t, resp.Room)
	assert.Equal(t, int64(10), resp.Room.ID)
}

func TestGetBookingHandlerNotFound(t *testing.T) {
	service := NewMockBookingService()
	service.errorToReturn = apperr.New(apperr.NotFound, "user has no booking")
	router := setupRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/booking", nil, 5))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	// Error responses carry no body.
	assert.Empty(t, rec.Body.String())
}

func TestGetBookingHandlerNoUser(t *testing.T) {
	router := setupRouter(NewMockBookingService())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/booking", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateBookingHandler(t *testing.T) {
	router := setupRouter(NewMockBookingService())

	body, _ := json.Marshal(models.BookingRequest{RoomID: 10})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/booking", body, 5))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.BookingIDResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.BookingID)
}

func TestCreateBookingHandlerBadBody(t *testing.T) {
	router := setupRouter(NewMockBookingService())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/booking", []byte("{not-json"), 5))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBookingHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"payment required", apperr.New(apperr.PaymentRequired, "ticket has not been paid"), http.StatusPaymentRequired},
		{"access denied", apperr.New(apperr.AccessDenied, "room is full"), http.StatusForbidden},
		{"conflict", apperr.New(apperr.Conflict, "user already has a booking"), http.StatusConflict},
		{"not found", apperr.New(apperr.NotFound, "room not found"), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := NewMockBookingService()
			service.errorToReturn = tc.err
			router := setupRouter(service)

			body, _ := json.Marshal(models.BookingRequest{RoomID: 10})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest(http.MethodPost, "/booking", body, 5))

			assert.Equal(t, tc.code, rec.Code)
			assert.Empty(t, rec.Body.String())
		})
	}
}

func TestUpdateBookingHandler(t *testing.T) {
	service := NewMockBookingService()
	service.bookings[5] = &models.Booking{ID: 3, UserID: 5, RoomID: 10}
	router := setupRouter(service)

	body, _ := json.Marshal(models.BookingRequest{RoomID: 11})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/booking/3", body, 5))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.BookingIDResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.BookingID)
}

func TestUpdateBookingHandlerBadID(t *testing.T) {
	router := setupRouter(NewMockBookingService())

	body, _ := json.Marshal(models.BookingRequest{RoomID: 11})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/booking/abc", body, 5))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
