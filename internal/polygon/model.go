package polygon

// TickersResponse is the raw response of the reference tickers endpoint.
// NextURL carries the cursor for the following page and is empty on the last one.
type TickersResponse struct {
	Results []TickerResult `json:"results"`
	Status  string         `json:"status"`
	Count   int            `json:"count"`
	NextURL string         `json:"next_url"`
}

// TickerResult is one catalog entry in a reference tickers page.
type TickerResult struct {
	Ticker         string `json:"ticker"`
	Name           string `json:"name"`
	Market         string `json:"market"`
	Locale         string `json:"locale"`
	PrimaryExch    string `json:"primary_exchange"`
	Type           string `json:"type"`
	Active         bool   `json:"active"`
	CurrencyName   string `json:"currency_name"`
	LastUpdatedUTC string `json:"last_updated_utc"`
}

// TickerDetailsResponse is the raw response of the single ticker details endpoint.
type TickerDetailsResponse struct {
	Results TickerDetails `json:"results"`
	Status  string        `json:"status"`
}

// TickerDetails describes one listed company.
type TickerDetails struct {
	Ticker         string  `json:"ticker"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Market         string  `json:"market"`
	Locale         string  `json:"locale"`
	PrimaryExch    string  `json:"primary_exchange"`
	Type           string  `json:"type"`
	Active         bool    `json:"active"`
	CurrencyName   string  `json:"currency_name"`
	MarketCap      float64 `json:"market_cap"`
	HomepageURL    string  `json:"homepage_url"`
	TotalEmployees int     `json:"total_employees"`
	ListDate       string  `json:"list_date"`
	SicDescription string  `json:"sic_description"`
}
