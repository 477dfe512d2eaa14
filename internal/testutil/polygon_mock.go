package testutil

import (
	"context"

	"github.com/stockpilot/stock-pilot-backend/internal/polygon"
)

// MockPolygonClient is a mock implementation of polygon.Client for testing.
// It returns predefined test data instead of making actual API calls.
type MockPolygonClient struct {
	// Tickers is the slice returned from ListTickers
	Tickers []polygon.TickerResult
	// Details is the response returned from GetTickerDetails
	Details polygon.TickerDetails
	// Err is the error to return from both methods
	Err error
	// ListCalls tracks how many times ListTickers was called
	ListCalls int
	// LastAPIKey records the API key passed on the most recent call
	LastAPIKey string
}

// NewMockPolygonClient creates a mock client preloaded with a small set of
// well-known tickers.
func NewMockPolygonClient() *MockPolygonClient {
	return &MockPolygonClient{
		Tickers: []polygon.TickerResult{
			{Ticker: "AAPL", Name: "Apple Inc."},
			{Ticker: "MSFT", Name: "Microsoft Corporation"},
			{Ticker: "GOOG", Name: "Alphabet Inc."},
		},
	}
}

// ListTickers returns the configured tickers and error.
func (m *MockPolygonClient) ListTickers(_ context.Context, apiKey string) ([]polygon.TickerResult, error) {
	m.ListCalls++
	m.LastAPIKey = apiKey
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tickers, nil
}

// GetTickerDetails returns the configured details and error.
func (m *MockPolygonClient) GetTickerDetails(_ context.Context, apiKey, _ string) (polygon.TickerDetails, error) {
	m.LastAPIKey = apiKey
	if m.Err != nil {
		return polygon.TickerDetails{}, m.Err
	}
	return m.Details, nil
}

// WithError configures the mock to return the specified error.
func (m *MockPolygonClient) WithError(err error) *MockPolygonClient {
	m.Err = err
	return m
}
