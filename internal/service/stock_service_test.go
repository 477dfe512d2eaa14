package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/testutil"
)

// TestStockService_SearchStocks tests catalog search pagination.
//
// WHY: Search backs the stock picker in the UI; matching has to cover both
// ticker and company name and pagination must report hasMore correctly.
func TestStockService_SearchStocks(t *testing.T) {
	t.Run("matches ticker and company name case-insensitively", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestStockService(t, db, testutil.NewMockPolygonClient())

		testutil.NewStock().WithTicker("AAPL").WithCompanyName("Apple Inc.").Build(t, db)
		testutil.NewStock().WithTicker("MSFT").WithCompanyName("Microsoft Corporation").Build(t, db)
		testutil.NewStock().WithTicker("APP").WithCompanyName("AppLovin Corporation").Build(t, db)

		result, err := svc.SearchStocks("app", 1, 50)
		if err != nil {
			t.Fatalf("SearchStocks() returned unexpected error: %v", err)
		}

		if result.Total != 2 {
			t.Errorf("Expected 2 matches for 'app', got %d", result.Total)
		}
	})

	t.Run("paginates and reports hasMore", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestStockService(t, db, testutil.NewMockPolygonClient())

		for i := 0; i < 5; i++ {
			testutil.NewStock().Build(t, db)
		}

		first, err := svc.SearchStocks("", 1, 2)
		if err != nil {
			t.Fatalf("SearchStocks() returned unexpected error: %v", err)
		}

		if len(first.Items) != 2 {
			t.Errorf("Expected 2 items on page 1, got %d", len(first.Items))
		}
		if first.Total != 5 {
			t.Errorf("Expected total 5, got %d", first.Total)
		}
		if !first.HasMore {
			t.Error("Expected hasMore on page 1")
		}

		last, err := svc.SearchStocks("", 3, 2)
		if err != nil {
			t.Fatalf("SearchStocks() returned unexpected error: %v", err)
		}

		if len(last.Items) != 1 {
			t.Errorf("Expected 1 item on page 3, got %d", len(last.Items))
		}
		if last.HasMore {
			t.Error("Expected hasMore false on the last page")
		}
	})

	t.Run("clamps invalid page and limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestStockService(t, db, testutil.NewMockPolygonClient())

		result, err := svc.SearchStocks("", -1, 0)
		if err != nil {
			t.Fatalf("SearchStocks() returned unexpected error: %v", err)
		}

		if result.Page != 1 {
			t.Errorf("Expected page clamped to 1, got %d", result.Page)
		}
		if result.Limit != 50 {
			t.Errorf("Expected default limit 50, got %d", result.Limit)
		}
	})
}

// TestStockService_GetStockByTicker tests the single ticker lookup.
func TestStockService_GetStockByTicker(t *testing.T) {
	t.Run("finds ticker case-insensitively", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestStockService(t, db, testutil.NewMockPolygonClient())
		testutil.NewStock().WithTicker("AAPL").Build(t, db)

		stock, err := svc.GetStockByTicker("aapl")
		if err != nil {
			t.Fatalf("GetStockByTicker() returned unexpected error: %v", err)
		}
		if stock.Ticker != "AAPL" {
			t.Errorf("Expected AAPL, got %q", stock.Ticker)
		}
	})

	t.Run("returns not found for unknown ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestStockService(t, db, testutil.NewMockPolygonClient())

		_, err := svc.GetStockByTicker("ZZZZ")
		if !errors.Is(err, apperrors.ErrStockNotFound) {
			t.Errorf("Expected ErrStockNotFound, got %v", err)
		}
	})
}

// TestCatalogSyncService_Sync tests the catalog refresh.
//
// WHY: The sync upserts by ticker; re-running it with the same provider data
// must not duplicate rows, and later runs must fold in name changes.
func TestCatalogSyncService_Sync(t *testing.T) {
	t.Run("creates catalog entries on first run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockPolygonClient()
		svc := testutil.NewTestCatalogSyncService(t, db, client)

		result, err := svc.Sync(context.Background())
		if err != nil {
			t.Fatalf("Sync() returned unexpected error: %v", err)
		}

		if result.Fetched != 3 {
			t.Errorf("Expected 3 fetched, got %d", result.Fetched)
		}
		if result.Created != 3 {
			t.Errorf("Expected 3 created, got %d", result.Created)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM stock").Scan(&count); err != nil {
			t.Fatalf("Failed to count stocks: %v", err)
		}
		if count != 3 {
			t.Errorf("Expected 3 stock rows, got %d", count)
		}
	})

	t.Run("second run is idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockPolygonClient()
		svc := testutil.NewTestCatalogSyncService(t, db, client)

		if _, err := svc.Sync(context.Background()); err != nil {
			t.Fatalf("Sync() returned unexpected error: %v", err)
		}

		result, err := svc.Sync(context.Background())
		if err != nil {
			t.Fatalf("Sync() returned unexpected error: %v", err)
		}

		if result.Created != 0 {
			t.Errorf("Expected 0 created on second run, got %d", result.Created)
		}
		if result.Updated != 3 {
			t.Errorf("Expected 3 updated on second run, got %d", result.Updated)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM stock").Scan(&count); err != nil {
			t.Fatalf("Failed to count stocks: %v", err)
		}
		if count != 3 {
			t.Errorf("Expected 3 stock rows after second run, got %d", count)
		}
	})

	t.Run("folds in company name changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockPolygonClient()
		svc := testutil.NewTestCatalogSyncService(t, db, client)

		if _, err := svc.Sync(context.Background()); err != nil {
			t.Fatalf("Sync() returned unexpected error: %v", err)
		}

		client.Tickers[0].Name = "Apple Incorporated"
		if _, err := svc.Sync(context.Background()); err != nil {
			t.Fatalf("Sync() returned unexpected error: %v", err)
		}

		var name string
		if err := db.QueryRow("SELECT company_name FROM stock WHERE ticker = 'AAPL'").Scan(&name); err != nil {
			t.Fatalf("Failed to read stock: %v", err)
		}
		if name != "Apple Incorporated" {
			t.Errorf("Expected updated company name, got %q", name)
		}
	})

	t.Run("propagates provider errors", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockPolygonClient().WithError(errors.New("rate limited"))
		svc := testutil.NewTestCatalogSyncService(t, db, client)

		if _, err := svc.Sync(context.Background()); err == nil {
			t.Error("Expected error from provider, got nil")
		}
	})
}

// TestCatalogSyncService_MarketDataKey tests API key resolution.
//
// WHY: A key stored through the settings endpoint must win over the
// environment fallback, round-tripping through fernet encryption.
func TestCatalogSyncService_MarketDataKey(t *testing.T) {
	t.Run("falls back to configured key when none stored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCatalogSyncService(t, db, testutil.NewMockPolygonClient())

		key, err := svc.MarketDataKey()
		if err != nil {
			t.Fatalf("MarketDataKey() returned unexpected error: %v", err)
		}
		if key != "test-api-key" {
			t.Errorf("Expected fallback key, got %q", key)
		}
	})

	t.Run("stored key wins and survives encryption round trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestCatalogSyncService(t, db, testutil.NewMockPolygonClient())

		if err := svc.StoreMarketDataKey(context.Background(), "stored-secret"); err != nil {
			t.Fatalf("StoreMarketDataKey() returned unexpected error: %v", err)
		}

		// The raw stored value must not be the plaintext
		var stored string
		if err := db.QueryRow(`SELECT value FROM system_setting WHERE "key" = 'polygon_api_key'`).Scan(&stored); err != nil {
			t.Fatalf("Failed to read setting: %v", err)
		}
		if stored == "stored-secret" {
			t.Error("Expected encrypted value at rest, got plaintext")
		}

		key, err := svc.MarketDataKey()
		if err != nil {
			t.Fatalf("MarketDataKey() returned unexpected error: %v", err)
		}
		if key != "stored-secret" {
			t.Errorf("Expected stored key, got %q", key)
		}

		// The sync must use the stored key
		client := testutil.NewMockPolygonClient()
		svc2 := testutil.NewTestCatalogSyncService(t, db, client)
		if _, err := svc2.Sync(context.Background()); err != nil {
			t.Fatalf("Sync() returned unexpected error: %v", err)
		}
		if client.LastAPIKey != "stored-secret" {
			t.Errorf("Expected sync to use stored key, got %q", client.LastAPIKey)
		}
	})
}
