package handlers

import (
	"net/http"

	"github.com/stockpilot/stock-pilot-backend/internal/api/request"
	"github.com/stockpilot/stock-pilot-backend/internal/api/response"
	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
	syncService   *service.CatalogSyncService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService, syncService *service.CatalogSyncService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
		syncService:   syncService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	// Check database health
	if err := h.systemService.CheckHealth(); err != nil {
		response := HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		}
		respondJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	// System is healthy
	response := HealthResponse{
		Status:   "healthy",
		Database: "connected",
	}
	respondJSON(w, http.StatusOK, response)
}

// VersionInfoResponse represents the version check response
type VersionInfoResponse struct {
	AppVersion string `json:"app_version"`
}

// Version handles GET requests to retrieve version information.
//
// Endpoint: GET /api/v1/system/version
// Response: 200 OK with VersionInfoResponse
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, VersionInfoResponse{
		AppVersion: h.systemService.CheckVersion(),
	})
}

// SyncStocks handles POST requests to run a catalog sync against the market
// data provider immediately, outside the cron schedule.
//
// Endpoint: POST /api/v1/system/sync-stocks
// Response: 200 OK with SyncResult (fetched, created, updated, duration)
// Error: 500 Internal Server Error if no API key is configured or the sync fails
func (h *SystemHandler) SyncStocks(w http.ResponseWriter, r *http.Request) {
	result, err := h.syncService.Sync(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSyncStocks.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// SetMarketDataKey handles PUT requests to store the market data provider
// API key, encrypted at rest.
//
// Endpoint: PUT /api/v1/system/market-data-key
// Request Body: SetMarketDataKeyRequest (apiKey)
// Response: 200 OK
// Error: 400 Bad Request if the body is invalid or the key is empty
// Error: 500 Internal Server Error if the key cannot be stored
func (h *SystemHandler) SetMarketDataKey(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SetMarketDataKeyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.APIKey == "" {
		response.RespondError(w, http.StatusBadRequest, "validation failed", "apiKey is required")
		return
	}

	if err := h.syncService.StoreMarketDataKey(r.Context(), req.APIKey); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToStoreAPIKey.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "stored"})
}
