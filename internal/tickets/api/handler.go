package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"ms-booking/internal/auth"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/utils"
)

type TicketService interface {
	ListTicketTypes(ctx context.Context) ([]models.TicketType, error)
	GetUserTicket(ctx context.Context, userID int64) (*models.Ticket, error)
	CreateTicket(ctx context.Context, userID, ticketTypeID int64) (*models.Ticket, error)
}

type Handler struct {
	TicketService TicketService
	Logger        *logger.Logger
}

func NewHandler(service TicketService, log *logger.Logger) *Handler {
	return &Handler{TicketService: service, Logger: log}
}

func (h *Handler) ListTicketTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.TicketService.ListTicketTypes(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListTicketTypes: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) GetUserTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	ticket, err := h.TicketService.GetUserTicket(r.Context(), userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetUserTicket: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, ticket)
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req models.TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateTicket: failed to decode request body: %v", err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ticket, err := h.TicketService.CreateTicket(r.Context(), userID, req.TicketTypeID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateTicket: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, ticket)
}
