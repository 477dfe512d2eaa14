package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockpilot/stock-pilot-backend/internal/api/middleware"
	"github.com/stockpilot/stock-pilot-backend/internal/api/request"
	"github.com/stockpilot/stock-pilot-backend/internal/api/response"
	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/service"
	"github.com/stockpilot/stock-pilot-backend/internal/validation"
)

// SaleTradeHandler handles HTTP requests for sale trade endpoints.
type SaleTradeHandler struct {
	tradeService *service.TradeService
}

// NewSaleTradeHandler creates a new SaleTradeHandler with the provided service dependency.
func NewSaleTradeHandler(tradeService *service.TradeService) *SaleTradeHandler {
	return &SaleTradeHandler{
		tradeService: tradeService,
	}
}

// SaleTrades handles GET requests to retrieve the caller's sale trades.
// Each sale embeds its purchase trade and that trade's stock, ordered by
// date descending.
//
// Endpoint: GET /api/v1/sale-trades?ticker=
// Response: 200 OK with array of SaleTradeResponse
// Error: 401 Unauthorized if the bearer token is missing or invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *SaleTradeHandler) SaleTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	ticker := r.URL.Query().Get("ticker")

	trades, err := h.tradeService.GetSaleTrades(userID, ticker)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTrades.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, trades)
}

// CreateSaleTrade handles POST requests to record a sale against a purchase
// trade. The sale quantity is deducted from the parent's remaining quantity
// in the same transaction; overselling fails without changing the parent.
//
// Endpoint: POST /api/v1/sale-trades
// Request Body: CreateSaleTradeRequest (purchaseTradeId, quantity, sellPrice, date, notes)
// Response: 201 Created with SaleTrade
// Error: 400 Bad Request if validation fails, the parent lacks quantity, or the sale predates the purchase
// Error: 401 Unauthorized if the bearer token is missing or invalid
// Error: 403 Forbidden if the parent trade belongs to another user
// Error: 404 Not Found if the parent trade does not exist
// Error: 500 Internal Server Error if creation fails
func (h *SaleTradeHandler) CreateSaleTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	req, err := parseJSON[request.CreateSaleTradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateSaleTrade(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	trade, err := h.tradeService.CreateSaleTrade(r.Context(), userID, req)
	if err != nil {
		respondTradeError(w, err, apperrors.ErrFailedToCreateTrade)
		return
	}

	response.RespondJSON(w, http.StatusCreated, trade)
}

// UpdateSaleTrade handles PUT requests to update a sale trade. A quantity
// change adjusts the parent's remaining quantity by the delta under the same
// capacity guard as creation.
//
// Endpoint: PUT /api/v1/sale-trades/{uuid}
// Request Body: UpdateSaleTradeRequest (all fields optional)
// Response: 200 OK with updated SaleTrade
// Error: 400 Bad Request if validation fails, capacity would be exceeded, or the new date predates the purchase
// Error: 401 Unauthorized if the bearer token is missing or invalid
// Error: 403 Forbidden if the trade belongs to another user
// Error: 404 Not Found if the trade does not exist
// Error: 500 Internal Server Error if the update fails
func (h *SaleTradeHandler) UpdateSaleTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	tradeID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateSaleTradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateSaleTrade(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	trade, err := h.tradeService.UpdateSaleTrade(r.Context(), userID, tradeID, req)
	if err != nil {
		respondTradeError(w, err, apperrors.ErrFailedToUpdateTrade)
		return
	}

	response.RespondJSON(w, http.StatusOK, trade)
}

// DeleteSaleTrade handles DELETE requests to remove a sale trade, returning
// its quantity to the parent purchase trade in one transaction.
//
// Endpoint: DELETE /api/v1/sale-trades/{uuid}
// Response: 200 OK with deletion status
// Error: 401 Unauthorized if the bearer token is missing or invalid
// Error: 403 Forbidden if the trade belongs to another user
// Error: 404 Not Found if the trade does not exist
// Error: 500 Internal Server Error if the delete fails
func (h *SaleTradeHandler) DeleteSaleTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	tradeID := chi.URLParam(r, "uuid")

	if err := h.tradeService.DeleteSaleTrade(r.Context(), userID, tradeID); err != nil {
		respondTradeError(w, err, apperrors.ErrFailedToDeleteTrade)
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
