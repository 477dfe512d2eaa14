package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockpilot/stock-pilot-backend/internal/api/response"
	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/service"
)

// StockHandler handles HTTP requests for stock catalog endpoints.
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new StockHandler with the provided service dependency.
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// SearchStocks handles GET requests to search the stock catalog.
// Matches case-insensitively against ticker and company name.
//
// Endpoint: GET /api/v1/stocks?query=&page=&limit=
// Response: 200 OK with StockSearchResult (items, total, page, limit, hasMore)
// Error: 500 Internal Server Error if the search fails
func (h *StockHandler) SearchStocks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.stockService.SearchStocks(query, page, limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSearchStocks.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// GetStock handles GET requests to retrieve a single stock by ticker.
//
// Endpoint: GET /api/v1/stocks/{ticker}
// Response: 200 OK with Stock
// Error: 404 Not Found if the ticker is not in the catalog
// Error: 500 Internal Server Error if retrieval fails
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	stock, err := h.stockService.GetStockByTicker(ticker)
	if err != nil {
		if errors.Is(err, apperrors.ErrStockNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrStockNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSearchStocks.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, stock)
}

// GetStockDetails handles GET requests to retrieve extended ticker details
// from the market data provider.
//
// Endpoint: GET /api/v1/stocks/{ticker}/details
// Response: 200 OK with provider ticker details
// Error: 404 Not Found if the ticker is not in the catalog
// Error: 502 Bad Gateway if the provider lookup fails
func (h *StockHandler) GetStockDetails(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	if _, err := h.stockService.GetStockByTicker(ticker); err != nil {
		if errors.Is(err, apperrors.ErrStockNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrStockNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSearchStocks.Error(), err.Error())
		return
	}

	details, err := h.stockService.GetTickerDetails(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingAPIKey) {
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrMissingAPIKey.Error(), "")
			return
		}
		response.RespondError(w, http.StatusBadGateway, "failed to retrieve ticker details", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, details)
}
