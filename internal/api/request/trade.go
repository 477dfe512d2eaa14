package request

type CreatePurchaseTradeRequest struct {
	StockID  string  `json:"stockId"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Date     string  `json:"date"`
	Notes    string  `json:"notes"`
}

// UpdatePurchaseTradeRequest carries optional fields; Quantity is the new
// TOTAL purchased amount, not the remaining open quantity.
type UpdatePurchaseTradeRequest struct {
	StockID  *string  `json:"stockId,omitempty"`
	Quantity *float64 `json:"quantity,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Date     *string  `json:"date,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

type CreateSaleTradeRequest struct {
	PurchaseTradeID string  `json:"purchaseTradeId"`
	Quantity        float64 `json:"quantity"`
	SellPrice       float64 `json:"sellPrice"`
	Date            string  `json:"date"`
	Notes           string  `json:"notes"`
}

type UpdateSaleTradeRequest struct {
	Quantity  *float64 `json:"quantity,omitempty"`
	SellPrice *float64 `json:"sellPrice,omitempty"`
	Date      *string  `json:"date,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}
