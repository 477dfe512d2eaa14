package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockpilot/stock-pilot-backend/internal/api/middleware"
	"github.com/stockpilot/stock-pilot-backend/internal/api/request"
	"github.com/stockpilot/stock-pilot-backend/internal/api/response"
	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/service"
	"github.com/stockpilot/stock-pilot-backend/internal/validation"
)

// PurchaseTradeHandler handles HTTP requests for purchase trade endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the tradeService.
type PurchaseTradeHandler struct {
	tradeService *service.TradeService
}

// NewPurchaseTradeHandler creates a new PurchaseTradeHandler with the provided service dependency.
func NewPurchaseTradeHandler(tradeService *service.TradeService) *PurchaseTradeHandler {
	return &PurchaseTradeHandler{
		tradeService: tradeService,
	}
}

// PurchaseTrades handles GET requests to retrieve the caller's purchase trades.
// Each trade embeds its stock and dependent sale trades, ordered by date descending.
//
// Endpoint: GET /api/v1/purchase-trades?ticker=&open=
// Response: 200 OK with array of PurchaseTradeResponse
// Error: 401 Unauthorized if the bearer token is missing or invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *PurchaseTradeHandler) PurchaseTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	ticker := r.URL.Query().Get("ticker")
	openOnly := r.URL.Query().Get("open") == "true"

	trades, err := h.tradeService.GetPurchaseTrades(userID, ticker, openOnly)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTrades.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, trades)
}

// CreatePurchaseTrade handles POST requests to record a new purchase trade.
//
// Endpoint: POST /api/v1/purchase-trades
// Request Body: CreatePurchaseTradeRequest (stockId, quantity, price, date, notes)
// Response: 201 Created with PurchaseTrade
// Error: 400 Bad Request if validation fails or the stock does not exist
// Error: 401 Unauthorized if the bearer token is missing or invalid
// Error: 500 Internal Server Error if creation fails
func (h *PurchaseTradeHandler) CreatePurchaseTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	req, err := parseJSON[request.CreatePurchaseTradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePurchaseTrade(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	trade, err := h.tradeService.CreatePurchaseTrade(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrStockNotFound) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrFailedToCreateTrade.Error(), apperrors.ErrStockNotFound.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateTrade.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, trade)
}

// UpdatePurchaseTrade handles PUT requests to update an existing purchase trade.
// The quantity field, when present, is the new total purchased amount; it may
// not drop below the quantity already allocated to sale trades. A price
// change is propagated to every dependent sale trade.
//
// Endpoint: PUT /api/v1/purchase-trades/{uuid}
// Request Body: UpdatePurchaseTradeRequest (all fields optional)
// Response: 200 OK with updated PurchaseTrade
// Error: 400 Bad Request if validation fails or capacity would be exceeded
// Error: 401 Unauthorized if the bearer token is missing or invalid
// Error: 403 Forbidden if the trade belongs to another user
// Error: 404 Not Found if the trade does not exist
// Error: 500 Internal Server Error if the update fails
func (h *PurchaseTradeHandler) UpdatePurchaseTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	tradeID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdatePurchaseTradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdatePurchaseTrade(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	trade, err := h.tradeService.UpdatePurchaseTrade(r.Context(), userID, tradeID, req)
	if err != nil {
		respondTradeError(w, err, apperrors.ErrFailedToUpdateTrade)
		return
	}

	response.RespondJSON(w, http.StatusOK, trade)
}

// DeletePurchaseTrade handles DELETE requests to remove a purchase trade and
// all of its sale trades in one transaction.
//
// Endpoint: DELETE /api/v1/purchase-trades/{uuid}
// Response: 200 OK with deletion status
// Error: 401 Unauthorized if the bearer token is missing or invalid
// Error: 403 Forbidden if the trade belongs to another user
// Error: 404 Not Found if the trade does not exist
// Error: 500 Internal Server Error if the delete fails
func (h *PurchaseTradeHandler) DeletePurchaseTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	tradeID := chi.URLParam(r, "uuid")

	if err := h.tradeService.DeletePurchaseTrade(r.Context(), userID, tradeID); err != nil {
		respondTradeError(w, err, apperrors.ErrFailedToDeleteTrade)
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// respondTradeError maps ledger errors onto HTTP status codes shared by the
// trade endpoints.
func respondTradeError(w http.ResponseWriter, err error, fallback error) {
	switch {
	case errors.Is(err, apperrors.ErrPurchaseTradeNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPurchaseTradeNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrSaleTradeNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrSaleTradeNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrTradeNotOwned):
		response.RespondError(w, http.StatusForbidden, apperrors.ErrTradeNotOwned.Error(), "")
	case errors.Is(err, apperrors.ErrInsufficientQuantity):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInsufficientQuantity.Error(), err.Error())
	case errors.Is(err, apperrors.ErrSaleBeforePurchase):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrSaleBeforePurchase.Error(), err.Error())
	case errors.Is(err, apperrors.ErrStockNotFound):
		response.RespondError(w, http.StatusBadRequest, fallback.Error(), apperrors.ErrStockNotFound.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
