package request

type SetMarketDataKeyRequest struct {
	APIKey string `json:"apiKey"`
}
