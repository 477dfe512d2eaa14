package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stockpilot/stock-pilot-backend/internal/model"
	"github.com/stockpilot/stock-pilot-backend/internal/polygon"
	"github.com/stockpilot/stock-pilot-backend/internal/testutil"
)

// TestStockHandler_SearchStocks tests the catalog search endpoint.
func TestStockHandler_SearchStocks(t *testing.T) {
	t.Run("returns matching entries with pagination metadata", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewStockHandler(testutil.NewTestStockService(t, db, testutil.NewMockPolygonClient()))

		testutil.CreateStock(t, db, "AAPL")
		testutil.CreateStock(t, db, "MSFT")

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/v1/stocks", map[string]string{
			"query": "aapl",
		})
		w := httptest.NewRecorder()
		handler.SearchStocks(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var result model.StockSearchResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if result.Total != 1 {
			t.Errorf("Expected 1 match, got %d", result.Total)
		}
		if len(result.Items) != 1 || result.Items[0].Ticker != "AAPL" {
			t.Errorf("Expected AAPL, got %+v", result.Items)
		}
		if result.HasMore {
			t.Error("Expected hasMore false")
		}
	})

	t.Run("empty catalog returns an empty array", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewStockHandler(testutil.NewTestStockService(t, db, testutil.NewMockPolygonClient()))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/stocks", nil)
		w := httptest.NewRecorder()
		handler.SearchStocks(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var result model.StockSearchResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if result.Items == nil {
			t.Error("Expected items to be an empty array, not null")
		}
	})

	t.Run("ignores malformed page and limit parameters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewStockHandler(testutil.NewTestStockService(t, db, testutil.NewMockPolygonClient()))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/v1/stocks", map[string]string{
			"page":  "abc",
			"limit": "-5",
		})
		w := httptest.NewRecorder()
		handler.SearchStocks(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var result model.StockSearchResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if result.Page != 1 {
			t.Errorf("Expected page 1, got %d", result.Page)
		}
	})
}

// TestStockHandler_GetStock tests the single ticker endpoint.
func TestStockHandler_GetStock(t *testing.T) {
	t.Run("returns the stock for a known ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewStockHandler(testutil.NewTestStockService(t, db, testutil.NewMockPolygonClient()))
		stock := testutil.CreateStock(t, db, "AAPL")

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/v1/stocks/AAPL",
			map[string]string{"ticker": "AAPL"})
		w := httptest.NewRecorder()
		handler.GetStock(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var got model.Stock
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&got)

		if got.ID != stock.ID {
			t.Errorf("Expected stock %s, got %s", stock.ID, got.ID)
		}
	})

	t.Run("returns 404 for an unknown ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewStockHandler(testutil.NewTestStockService(t, db, testutil.NewMockPolygonClient()))

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/v1/stocks/ZZZZ",
			map[string]string{"ticker": "ZZZZ"})
		w := httptest.NewRecorder()
		handler.GetStock(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

// TestStockHandler_GetStockDetails tests the provider details endpoint.
//
// WHY: The catalog check has to run before the external call so an unknown
// ticker is a clean 404 rather than a provider round trip.
func TestStockHandler_GetStockDetails(t *testing.T) {
	t.Run("returns provider details for a catalog ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockPolygonClient()
		client.Details = polygon.TickerDetails{Ticker: "AAPL", Name: "Apple Inc.", Market: "stocks"}
		handler := NewStockHandler(testutil.NewTestStockService(t, db, client))
		testutil.CreateStock(t, db, "AAPL")

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/v1/stocks/AAPL/details",
			map[string]string{"ticker": "AAPL"})
		w := httptest.NewRecorder()
		handler.GetStockDetails(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var details polygon.TickerDetails
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&details)

		if details.Name != "Apple Inc." {
			t.Errorf("Expected provider details, got %+v", details)
		}
		if client.LastAPIKey != "test-api-key" {
			t.Errorf("Expected configured API key to reach the client, got %q", client.LastAPIKey)
		}
	})

	t.Run("returns 404 without calling the provider for an unknown ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockPolygonClient()
		handler := NewStockHandler(testutil.NewTestStockService(t, db, client))

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/v1/stocks/ZZZZ/details",
			map[string]string{"ticker": "ZZZZ"})
		w := httptest.NewRecorder()
		handler.GetStockDetails(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
		if client.LastAPIKey != "" {
			t.Error("Expected no provider call for an unknown ticker")
		}
	})

	t.Run("returns 502 when the provider fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockPolygonClient().WithError(errors.New("provider down"))
		handler := NewStockHandler(testutil.NewTestStockService(t, db, client))
		testutil.CreateStock(t, db, "AAPL")

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/v1/stocks/AAPL/details",
			map[string]string{"ticker": "AAPL"})
		w := httptest.NewRecorder()
		handler.GetStockDetails(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d", w.Code)
		}
	})
}
