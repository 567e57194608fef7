package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/auth"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/utils"
)

type BookingService interface {
	GetUserBooking(ctx context.Context, userID int64) (*models.Booking, error)
	CreateBooking(ctx context.Context, userID, roomID int64) (*models.Booking, error)
	UpdateBooking(ctx context.Context, userID, bookingID, roomID int64) (*models.Booking, error)
}

type Handler struct {
	BookingService BookingService
	Logger         *logger.Logger
}

func NewHandler(service BookingService, log *logger.Logger) *Handler {
	return &Handler{BookingService: service, Logger: log}
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	booking, err := h.BookingService.GetUserBooking(r.Context(), userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetBooking: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.BookingResponse{
		ID:   booking.ID,
		Room: booking.Room,
	})
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateBooking: failed to decode request body: %v", err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	booking, err := h.BookingService.CreateBooking(r.Context(), userID, req.RoomID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateBooking: %v", err))
		utils.WriteError(w, err)
		return
	}

	h.Logger.LogBooking("CREATE", booking.ID, fmt.Sprintf("user %d booked room %d", userID, booking.RoomID))
	utils.WriteJSON(w, http.StatusOK, models.BookingIDResponse{BookingID: booking.ID})
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingId"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateBooking: failed to decode request body: %v", err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	booking, err := h.BookingService.UpdateBooking(r.Context(), userID, bookingID, req.RoomID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateBooking: %v", err))
		utils.WriteError(w, err)
		return
	}

	h.Logger.LogBooking("UPDATE", booking.ID, fmt.Sprintf("user %d moved to room %d", userID, booking.RoomID))
	utils.WriteJSON(w, http.StatusOK, models.BookingIDResponse{BookingID: booking.ID})
}
