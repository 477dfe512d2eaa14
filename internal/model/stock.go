package model

import "time"

// Stock is a reference catalog entry. Rows are created and refreshed only by
// the catalog sync job; trade operations never mutate them.
type Stock struct {
	ID          string    `json:"id"`
	Ticker      string    `json:"ticker"`
	CompanyName string    `json:"companyName"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// StockSearchResult is a page of catalog search matches.
type StockSearchResult struct {
	Items   []Stock `json:"items"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
	HasMore bool    `json:"hasMore"`
}
