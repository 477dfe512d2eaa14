// Package polygon is a minimal client for the Polygon.io reference data API.
// It covers the two endpoints the catalog needs: the paged active tickers
// listing used by the sync job and the single ticker details lookup.
package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is the interface the catalog services depend on; ReferenceClient
// implements it against the live API and tests substitute a mock.
type Client interface {
	ListTickers(ctx context.Context, apiKey string) ([]TickerResult, error)
	GetTickerDetails(ctx context.Context, apiKey, ticker string) (TickerDetails, error)
}

// ReferenceClient fetches reference data from the Polygon.io REST API.
type ReferenceClient struct {
	baseURL    string
	httpClient *http.Client
	// pause between cursor pages, kept small in tests
	pageDelay time.Duration
}

// NewReferenceClient creates a client against the given base URL
// (https://api.polygon.io in production, an httptest server in tests).
func NewReferenceClient(baseURL string) *ReferenceClient {
	return &ReferenceClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pageDelay:  time.Second,
	}
}

// WithPageDelay overrides the pause between paginated requests.
func (c *ReferenceClient) WithPageDelay(d time.Duration) *ReferenceClient {
	c.pageDelay = d
	return c
}

// ListTickers fetches every page of active stock tickers, following the
// cursor in next_url until it runs out. The provider rate-limits aggressively
// on free tiers, so a delay separates page requests.
func (c *ReferenceClient) ListTickers(ctx context.Context, apiKey string) ([]TickerResult, error) {
	next := fmt.Sprintf(
		"%s/v3/reference/tickers?market=stocks&active=true&sort=ticker&order=asc&limit=1000&apiKey=%s",
		c.baseURL, url.QueryEscape(apiKey),
	)

	var all []TickerResult

	for next != "" {
		var page TickersResponse
		if err := c.get(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch tickers page: %w", err)
		}

		all = append(all, page.Results...)

		next = page.NextURL
		if next != "" {
			// next_url omits the API key
			next = next + "&apiKey=" + url.QueryEscape(apiKey)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pageDelay):
			}
		}
	}

	return all, nil
}

// GetTickerDetails fetches the company details for a single ticker.
func (c *ReferenceClient) GetTickerDetails(ctx context.Context, apiKey, ticker string) (TickerDetails, error) {
	detailsURL := fmt.Sprintf("%s/v3/reference/tickers/%s?apiKey=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(apiKey))

	var resp TickerDetailsResponse
	if err := c.get(ctx, detailsURL, &resp); err != nil {
		return TickerDetails{}, fmt.Errorf("failed to fetch ticker details: %w", err)
	}

	if resp.Results.Ticker == "" {
		return TickerDetails{}, fmt.Errorf("no details found for ticker %s", ticker)
	}

	return resp.Results, nil
}

func (c *ReferenceClient) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("polygon API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
