package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"ms-booking/internal/auth"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/utils"
)

type PaymentService interface {
	GetPayment(ctx context.Context, userID, ticketID int64) (*models.Payment, error)
	ProcessPayment(ctx context.Context, userID int64, req models.PaymentRequest) (*models.Payment, error)
}

type Handler struct {
	PaymentService PaymentService
	Logger         *logger.Logger
}

func NewHandler(service PaymentService, log *logger.Logger) *Handler {
	return &Handler{PaymentService: service, Logger: log}
}

// GetPayment serves GET /payments?ticketId=. A missing or non-numeric
// ticketId reaches the service as zero and comes back as invalid input.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	ticketID, _ := strconv.ParseInt(r.URL.Query().Get("ticketId"), 10, 64)

	payment, err := h.PaymentService.GetPayment(r.Context(), userID, ticketID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetPayment: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, payment)
}

func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ProcessPayment: failed to decode request body: %v", err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	payment, err := h.PaymentService.ProcessPayment(r.Context(), userID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ProcessPayment: %v", err))
		utils.WriteError(w, err)
		return
	}

	h.Logger.LogPayment("PROCESS", payment.TicketID, fmt.Sprintf("user %d paid %.2f", userID, payment.Value))
	utils.WriteJSON(w, http.StatusOK, payment)
}
