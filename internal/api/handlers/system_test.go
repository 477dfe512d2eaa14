package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stockpilot/stock-pilot-backend/internal/api/request"
	"github.com/stockpilot/stock-pilot-backend/internal/model"
	"github.com/stockpilot/stock-pilot-backend/internal/testutil"
)

// TestSystemHandler_Health tests the health endpoint.
func TestSystemHandler_Health(t *testing.T) {
	t.Run("reports healthy with a live database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(
			testutil.NewTestSystemService(t, db),
			testutil.NewTestCatalogSyncService(t, db, testutil.NewMockPolygonClient()),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/system/health", nil)
		w := httptest.NewRecorder()
		handler.Health(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var body HealthResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)

		if body.Status != "healthy" {
			t.Errorf("Expected healthy, got %s", body.Status)
		}
		if body.Database != "connected" {
			t.Errorf("Expected connected, got %s", body.Database)
		}
	})

	t.Run("reports unhealthy with a closed database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(
			testutil.NewTestSystemService(t, db),
			testutil.NewTestCatalogSyncService(t, db, testutil.NewMockPolygonClient()),
		)
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/system/health", nil)
		w := httptest.NewRecorder()
		handler.Health(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("Expected 503, got %d", w.Code)
		}

		var body HealthResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)

		if body.Status != "unhealthy" {
			t.Errorf("Expected unhealthy, got %s", body.Status)
		}
	})
}

// TestSystemHandler_Version tests the version endpoint.
func TestSystemHandler_Version(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewSystemHandler(
		testutil.NewTestSystemService(t, db),
		testutil.NewTestCatalogSyncService(t, db, testutil.NewMockPolygonClient()),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/version", nil)
	w := httptest.NewRecorder()
	handler.Version(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body VersionInfoResponse
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&body)

	if body.AppVersion == "" {
		t.Error("Expected a version string")
	}
}

// TestSystemHandler_SyncStocks tests the on-demand catalog sync endpoint.
func TestSystemHandler_SyncStocks(t *testing.T) {
	t.Run("runs a sync and returns the result", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(
			testutil.NewTestSystemService(t, db),
			testutil.NewTestCatalogSyncService(t, db, testutil.NewMockPolygonClient()),
		)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/system/sync-stocks", nil)
		w := httptest.NewRecorder()
		handler.SyncStocks(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var result model.SyncResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if result.Created != 3 {
			t.Errorf("Expected 3 created, got %d", result.Created)
		}
	})

	t.Run("returns 500 when the provider fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockPolygonClient().WithError(errors.New("rate limited"))
		handler := NewSystemHandler(
			testutil.NewTestSystemService(t, db),
			testutil.NewTestCatalogSyncService(t, db, client),
		)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/system/sync-stocks", nil)
		w := httptest.NewRecorder()
		handler.SyncStocks(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}

// TestSystemHandler_SetMarketDataKey tests the API key storage endpoint.
func TestSystemHandler_SetMarketDataKey(t *testing.T) {
	t.Run("stores the key for subsequent syncs", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockPolygonClient()
		syncService := testutil.NewTestCatalogSyncService(t, db, client)
		handler := NewSystemHandler(testutil.NewTestSystemService(t, db), syncService)

		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/v1/system/market-data-key",
			request.SetMarketDataKeyRequest{APIKey: "fresh-key"})
		w := httptest.NewRecorder()
		handler.SetMarketDataKey(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		sync := httptest.NewRequest(http.MethodPost, "/api/v1/system/sync-stocks", nil)
		w = httptest.NewRecorder()
		handler.SyncStocks(w, sync)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if client.LastAPIKey != "fresh-key" {
			t.Errorf("Expected the stored key to reach the provider, got %q", client.LastAPIKey)
		}
	})

	t.Run("returns 400 for an empty key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(
			testutil.NewTestSystemService(t, db),
			testutil.NewTestCatalogSyncService(t, db, testutil.NewMockPolygonClient()),
		)

		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/v1/system/market-data-key",
			request.SetMarketDataKeyRequest{APIKey: ""})
		w := httptest.NewRecorder()
		handler.SetMarketDataKey(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
