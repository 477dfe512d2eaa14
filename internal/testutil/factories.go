package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stockpilot/stock-pilot-backend/internal/model"
)

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	// Simple creation with defaults
//	user := testutil.NewUser().Build(t, db)
//
//	// Customized user
//	user := testutil.NewUser().
//	    WithUsername("trader1").
//	    WithEmail("trader1@example.com").
//	    Build(t, db)
type UserBuilder struct {
	ID           string
	FirstName    string
	LastName     string
	Username     string
	Email        string
	PasswordHash string
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	id := MakeID()
	return &UserBuilder{
		ID:           id,
		FirstName:    "Test",
		LastName:     "User",
		Username:     "user-" + id[:8],
		Email:        "user-" + id[:8] + "@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz012345678901234567890123456",
	}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.ID = id
	return b
}

// WithUsername sets a custom username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.Username = username
	return b
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// WithPasswordHash sets a custom bcrypt password hash.
func (b *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	b.PasswordHash = hash
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	query := `
		INSERT INTO user (id, first_name, last_name, username, email, password_hash)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.FirstName, b.LastName, b.Username, b.Email, b.PasswordHash)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{
		ID:           b.ID,
		FirstName:    b.FirstName,
		LastName:     b.LastName,
		Username:     b.Username,
		Email:        b.Email,
		PasswordHash: b.PasswordHash,
	}
}

// StockBuilder provides a fluent interface for creating test catalog entries.
//
// Example usage:
//
//	stock := testutil.NewStock().WithTicker("AAPL").Build(t, db)
type StockBuilder struct {
	ID          string
	Ticker      string
	CompanyName string
}

// NewStock creates a StockBuilder with sensible defaults.
func NewStock() *StockBuilder {
	return &StockBuilder{
		ID:          MakeID(),
		Ticker:      MakeTicker("TST"),
		CompanyName: "Test Company Inc.",
	}
}

// WithID sets a custom ID.
func (b *StockBuilder) WithID(id string) *StockBuilder {
	b.ID = id
	return b
}

// WithTicker sets a custom ticker.
func (b *StockBuilder) WithTicker(ticker string) *StockBuilder {
	b.Ticker = ticker
	return b
}

// WithCompanyName sets a custom company name.
func (b *StockBuilder) WithCompanyName(name string) *StockBuilder {
	b.CompanyName = name
	return b
}

// Build creates the stock in the database and returns it.
func (b *StockBuilder) Build(t *testing.T, db *sql.DB) model.Stock {
	t.Helper()

	query := `
		INSERT INTO stock (id, ticker, company_name)
		VALUES (?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Ticker, b.CompanyName)
	if err != nil {
		t.Fatalf("Failed to create test stock: %v", err)
	}

	return model.Stock{
		ID:          b.ID,
		Ticker:      b.Ticker,
		CompanyName: b.CompanyName,
	}
}

// PurchaseTradeBuilder provides a fluent interface for creating test purchase trades.
//
// Example usage:
//
//	trade := testutil.NewPurchaseTrade(user.ID, stock.ID).
//	    WithQuantity(100).
//	    WithPrice(10).
//	    Build(t, db)
type PurchaseTradeBuilder struct {
	ID          string
	UserID      string
	StockID     string
	Quantity    float64
	Price       float64
	TotalAmount float64
	Date        time.Time
	Notes       string
}

// NewPurchaseTrade creates a PurchaseTradeBuilder with sensible defaults.
// TotalAmount is derived from quantity and price unless overridden.
func NewPurchaseTrade(userID, stockID string) *PurchaseTradeBuilder {
	return &PurchaseTradeBuilder{
		ID:       MakeID(),
		UserID:   userID,
		StockID:  stockID,
		Quantity: 100,
		Price:    10,
		Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *PurchaseTradeBuilder) WithID(id string) *PurchaseTradeBuilder {
	b.ID = id
	return b
}

// WithQuantity sets the open quantity.
func (b *PurchaseTradeBuilder) WithQuantity(quantity float64) *PurchaseTradeBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets the purchase price.
func (b *PurchaseTradeBuilder) WithPrice(price float64) *PurchaseTradeBuilder {
	b.Price = price
	return b
}

// WithTotalAmount overrides the derived total amount.
func (b *PurchaseTradeBuilder) WithTotalAmount(total float64) *PurchaseTradeBuilder {
	b.TotalAmount = total
	return b
}

// WithDate sets the trade date.
func (b *PurchaseTradeBuilder) WithDate(date time.Time) *PurchaseTradeBuilder {
	b.Date = date
	return b
}

// WithNotes sets the notes.
func (b *PurchaseTradeBuilder) WithNotes(notes string) *PurchaseTradeBuilder {
	b.Notes = notes
	return b
}

// Build creates the purchase trade in the database and returns it.
func (b *PurchaseTradeBuilder) Build(t *testing.T, db *sql.DB) model.PurchaseTrade {
	t.Helper()

	total := b.TotalAmount
	if total == 0 {
		total = b.Quantity * b.Price
	}

	query := `
		INSERT INTO purchase_trade (id, user_id, stock_id, quantity, price, total_amount, date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.StockID, b.Quantity, b.Price, total,
		b.Date.Format("2006-01-02"), b.Notes)
	if err != nil {
		t.Fatalf("Failed to create test purchase trade: %v", err)
	}

	return model.PurchaseTrade{
		ID:          b.ID,
		UserID:      b.UserID,
		StockID:     b.StockID,
		Quantity:    b.Quantity,
		Price:       b.Price,
		TotalAmount: total,
		Date:        b.Date,
		Notes:       b.Notes,
	}
}

// SaleTradeBuilder provides a fluent interface for creating test sale trades.
// It writes the row directly; it does not adjust the parent's open quantity.
//
// Example usage:
//
//	sale := testutil.NewSaleTrade(user.ID, purchase.ID).
//	    WithQuantity(40).
//	    WithSellPrice(15).
//	    WithBuyPrice(10).
//	    Build(t, db)
type SaleTradeBuilder struct {
	ID              string
	UserID          string
	PurchaseTradeID string
	Quantity        float64
	SellPrice       float64
	BuyPrice        float64
	Date            time.Time
	Notes           string
}

// NewSaleTrade creates a SaleTradeBuilder with sensible defaults.
// TotalAmount and NetProfit are derived from quantity and prices.
func NewSaleTrade(userID, purchaseTradeID string) *SaleTradeBuilder {
	return &SaleTradeBuilder{
		ID:              MakeID(),
		UserID:          userID,
		PurchaseTradeID: purchaseTradeID,
		Quantity:        10,
		SellPrice:       15,
		BuyPrice:        10,
		Date:            time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *SaleTradeBuilder) WithID(id string) *SaleTradeBuilder {
	b.ID = id
	return b
}

// WithQuantity sets the sold quantity.
func (b *SaleTradeBuilder) WithQuantity(quantity float64) *SaleTradeBuilder {
	b.Quantity = quantity
	return b
}

// WithSellPrice sets the sell price.
func (b *SaleTradeBuilder) WithSellPrice(price float64) *SaleTradeBuilder {
	b.SellPrice = price
	return b
}

// WithBuyPrice sets the snapshotted buy price.
func (b *SaleTradeBuilder) WithBuyPrice(price float64) *SaleTradeBuilder {
	b.BuyPrice = price
	return b
}

// WithDate sets the trade date.
func (b *SaleTradeBuilder) WithDate(date time.Time) *SaleTradeBuilder {
	b.Date = date
	return b
}

// WithNotes sets the notes.
func (b *SaleTradeBuilder) WithNotes(notes string) *SaleTradeBuilder {
	b.Notes = notes
	return b
}

// Build creates the sale trade in the database and returns it.
func (b *SaleTradeBuilder) Build(t *testing.T, db *sql.DB) model.SaleTrade {
	t.Helper()

	total := b.SellPrice * b.Quantity
	profit := (b.SellPrice - b.BuyPrice) * b.Quantity

	query := `
		INSERT INTO sale_trade (id, user_id, purchase_trade_id, quantity, sell_price, buy_price, total_amount, net_profit, date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.PurchaseTradeID, b.Quantity, b.SellPrice,
		b.BuyPrice, total, profit, b.Date.Format("2006-01-02"), b.Notes)
	if err != nil {
		t.Fatalf("Failed to create test sale trade: %v", err)
	}

	return model.SaleTrade{
		ID:              b.ID,
		UserID:          b.UserID,
		PurchaseTradeID: b.PurchaseTradeID,
		Quantity:        b.Quantity,
		SellPrice:       b.SellPrice,
		BuyPrice:        b.BuyPrice,
		TotalAmount:     total,
		NetProfit:       profit,
		Date:            b.Date,
		Notes:           b.Notes,
	}
}

// Convenience functions

// CreateUser creates a user with a given username and default values.
//
// Example usage:
//
//	user := testutil.CreateUser(t, db, "trader1")
func CreateUser(t *testing.T, db *sql.DB, username string) model.User {
	t.Helper()
	return NewUser().WithUsername(username).WithEmail(username + "@example.com").Build(t, db)
}

// CreateStock creates a catalog entry with the given ticker.
//
// Example usage:
//
//	stock := testutil.CreateStock(t, db, "AAPL")
func CreateStock(t *testing.T, db *sql.DB, ticker string) model.Stock {
	t.Helper()
	return NewStock().WithTicker(ticker).Build(t, db)
}
