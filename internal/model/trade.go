package model

import "time"

// PurchaseTrade records an acquisition of shares. Quantity is the open
// (unallocated) quantity: it shrinks as sale trades are created against the
// purchase and grows back when they are reduced or deleted. TotalAmount is
// fixed from the purchased amount and price at creation or edit time; it is
// not recomputed as sales occur.
type PurchaseTrade struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	StockID     string    `json:"stockId"`
	Quantity    float64   `json:"quantity"`
	Price       float64   `json:"price"`
	TotalAmount float64   `json:"totalAmount"`
	Date        time.Time `json:"date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// SaleTrade records a disposal of shares from one specific purchase trade.
// BuyPrice is snapshotted from the purchase trade at creation time and only
// changes when the purchase price itself is edited, which cascades into
// NetProfit and leaves TotalAmount = SellPrice * Quantity.
type SaleTrade struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	PurchaseTradeID string    `json:"purchaseTradeId"`
	Quantity        float64   `json:"quantity"`
	SellPrice       float64   `json:"sellPrice"`
	BuyPrice        float64   `json:"buyPrice"`
	TotalAmount     float64   `json:"totalAmount"`
	NetProfit       float64   `json:"netProfit"`
	Date            time.Time `json:"date"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

// PurchaseTradeResponse is a purchase trade enriched with its stock and
// dependent sale trades for API responses.
type PurchaseTradeResponse struct {
	PurchaseTrade
	Stock      Stock       `json:"stock"`
	SaleTrades []SaleTrade `json:"saleTrades"`
}

// SaleTradeResponse is a sale trade enriched with its parent purchase trade
// and that trade's stock for API responses.
type SaleTradeResponse struct {
	SaleTrade
	PurchaseTrade PurchaseTradeWithStock `json:"purchaseTrade"`
}

// PurchaseTradeWithStock embeds the stock into a purchase trade without
// pulling in the sale trade slice.
type PurchaseTradeWithStock struct {
	PurchaseTrade
	Stock Stock `json:"stock"`
}
