package service

import (
	"context"

	"github.com/stockpilot/stock-pilot-backend/internal/model"
	"github.com/stockpilot/stock-pilot-backend/internal/polygon"
	"github.com/stockpilot/stock-pilot-backend/internal/repository"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

// StockService handles read access to the stock reference catalog and the
// external ticker details lookup.
type StockService struct {
	stockRepo *repository.StockRepository
	client    polygon.Client
	keySource APIKeySource
}

// APIKeySource resolves the market data provider API key at call time, so a
// key stored through the settings endpoint takes effect without a restart.
type APIKeySource interface {
	MarketDataKey() (string, error)
}

// NewStockService creates a new StockService with the provided dependencies.
func NewStockService(stockRepo *repository.StockRepository, client polygon.Client, keySource APIKeySource) *StockService {
	return &StockService{
		stockRepo: stockRepo,
		client:    client,
		keySource: keySource,
	}
}

// SearchStocks returns one page of catalog entries matching query,
// case-insensitively against ticker and company name, ordered by ticker.
// Page numbers start at 1; out-of-range limits are clamped.
func (s *StockService) SearchStocks(query string, page, limit int) (model.StockSearchResult, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	offset := (page - 1) * limit

	items, total, err := s.stockRepo.SearchStocks(query, offset, limit)
	if err != nil {
		return model.StockSearchResult{}, err
	}

	return model.StockSearchResult{
		Items:   items,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: offset+len(items) < total,
	}, nil
}

// GetStockByTicker retrieves a single catalog entry by ticker.
func (s *StockService) GetStockByTicker(ticker string) (model.Stock, error) {
	return s.stockRepo.GetStockByTicker(ticker)
}

// GetTickerDetails fetches company details for a ticker from the market data
// provider. This is a pass-through external call; it never participates in a
// ledger transaction.
func (s *StockService) GetTickerDetails(ctx context.Context, ticker string) (polygon.TickerDetails, error) {
	apiKey, err := s.keySource.MarketDataKey()
	if err != nil {
		return polygon.TickerDetails{}, err
	}

	return s.client.GetTickerDetails(ctx, apiKey, ticker)
}
