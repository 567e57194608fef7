package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/auth"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/utils"
)

type HotelService interface {
	ListHotels(ctx context.Context, userID int64) ([]models.Hotel, error)
	GetHotel(ctx context.Context, userID, hotelID int64) (*models.Hotel, error)
}

type Handler struct {
	HotelService HotelService
	Logger       *logger.Logger
}

func NewHandler(service HotelService, log *logger.Logger) *Handler {
	return &Handler{HotelService: service, Logger: log}
}

func (h *Handler) ListHotels(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	hotels, err := h.HotelService.ListHotels(r.Context(), userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListHotels: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, hotels)
}

func (h *Handler) GetHotel(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	hotelID, err := strconv.ParseInt(chi.URLParam(r, "hotelId"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	hotel, err := h.HotelService.GetHotel(r.Context(), userID, hotelID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetHotel: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, hotel)
}
