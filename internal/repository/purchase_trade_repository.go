package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/model"
)

// PurchaseTradeRepository provides data access methods for the purchase_trade
// table. Mutations that must commit together with sale_trade writes run on a
// shared transaction via WithTx.
type PurchaseTradeRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPurchaseTradeRepository creates a new PurchaseTradeRepository with the provided database connection.
func NewPurchaseTradeRepository(db *sql.DB) *PurchaseTradeRepository {
	return &PurchaseTradeRepository{db: db}
}

// WithTx returns a copy of the repository that runs all statements on tx.
func (r *PurchaseTradeRepository) WithTx(tx *sql.Tx) *PurchaseTradeRepository {
	return &PurchaseTradeRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PurchaseTradeRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetPurchaseTrade retrieves a purchase trade by ID.
// Returns apperrors.ErrPurchaseTradeNotFound if no row matches.
func (r *PurchaseTradeRepository) GetPurchaseTrade(id string) (model.PurchaseTrade, error) {
	query := `
		SELECT id, user_id, stock_id, quantity, price, total_amount, date, notes
		FROM purchase_trade
		WHERE id = ?
	`

	var t model.PurchaseTrade
	var dateStr string
	var notes sql.NullString

	err := r.getQuerier().QueryRow(query, id).Scan(
		&t.ID,
		&t.UserID,
		&t.StockID,
		&t.Quantity,
		&t.Price,
		&t.TotalAmount,
		&dateStr,
		&notes,
	)
	if err == sql.ErrNoRows {
		return model.PurchaseTrade{}, apperrors.ErrPurchaseTradeNotFound
	}
	if err != nil {
		return model.PurchaseTrade{}, fmt.Errorf("failed to scan purchase_trade table results: %w", err)
	}

	t.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.PurchaseTrade{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if notes.Valid {
		t.Notes = notes.String
	}

	return t, nil
}

// GetPurchaseTrades retrieves all purchase trades for a user, newest first,
// each with its stock embedded and its dependent sale trades attached.
// A non-empty ticker restricts results to that stock (exact match, case
// insensitive); openOnly keeps only trades with remaining quantity.
func (r *PurchaseTradeRepository) GetPurchaseTrades(userID, ticker string, openOnly bool) ([]model.PurchaseTradeResponse, error) {
	query := `
		SELECT
			pt.id, pt.user_id, pt.stock_id, pt.quantity, pt.price, pt.total_amount, pt.date, pt.notes,
			s.id, s.ticker, s.company_name
		FROM purchase_trade pt
		JOIN stock s ON pt.stock_id = s.id
		WHERE pt.user_id = ?
	`
	args := []any{userID}

	if ticker != "" {
		query += ` AND s.ticker = ? COLLATE NOCASE`
		args = append(args, ticker)
	}
	if openOnly {
		query += ` AND pt.quantity > 0`
	}
	query += ` ORDER BY pt.date DESC`

	rows, err := r.getQuerier().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase_trade table: %w", err)
	}
	defer rows.Close()

	trades := []model.PurchaseTradeResponse{}
	ids := []any{}

	for rows.Next() {
		var t model.PurchaseTradeResponse
		var dateStr string
		var notes sql.NullString

		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.StockID,
			&t.Quantity,
			&t.Price,
			&t.TotalAmount,
			&dateStr,
			&notes,
			&t.Stock.ID,
			&t.Stock.Ticker,
			&t.Stock.CompanyName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase_trade table results: %w", err)
		}

		t.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		if notes.Valid {
			t.Notes = notes.String
		}
		t.SaleTrades = []model.SaleTrade{}

		trades = append(trades, t)
		ids = append(ids, t.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase_trade table: %w", err)
	}

	if len(ids) == 0 {
		return trades, nil
	}

	sales, err := r.getSaleTradesForPurchases(ids)
	if err != nil {
		return nil, err
	}

	for i := range trades {
		if s, ok := sales[trades[i].ID]; ok {
			trades[i].SaleTrades = s
		}
	}

	return trades, nil
}

// getSaleTradesForPurchases loads the sale trades for the given purchase
// trade IDs, grouped by parent ID.
func (r *PurchaseTradeRepository) getSaleTradesForPurchases(ids []any) (map[string][]model.SaleTrade, error) {
	placeholders := make([]string, len(ids))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	query := `
		SELECT id, user_id, purchase_trade_id, quantity, sell_price, buy_price, total_amount, net_profit, date, notes
		FROM sale_trade
		WHERE purchase_trade_id IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY date DESC
	`

	rows, err := r.getQuerier().Query(query, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale_trade table: %w", err)
	}
	defer rows.Close()

	salesByPurchase := make(map[string][]model.SaleTrade)

	for rows.Next() {
		var s model.SaleTrade
		var dateStr string
		var notes sql.NullString

		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.PurchaseTradeID,
			&s.Quantity,
			&s.SellPrice,
			&s.BuyPrice,
			&s.TotalAmount,
			&s.NetProfit,
			&dateStr,
			&notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale_trade table results: %w", err)
		}

		s.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		if notes.Valid {
			s.Notes = notes.String
		}

		salesByPurchase[s.PurchaseTradeID] = append(salesByPurchase[s.PurchaseTradeID], s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale_trade table: %w", err)
	}

	return salesByPurchase, nil
}

// InsertPurchaseTrade inserts a new purchase trade row.
func (r *PurchaseTradeRepository) InsertPurchaseTrade(ctx context.Context, t *model.PurchaseTrade) error {
	query := `
		INSERT INTO purchase_trade (id, user_id, stock_id, quantity, price, total_amount, date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.StockID,
		t.Quantity,
		t.Price,
		t.TotalAmount,
		t.Date.UTC().Format("2006-01-02"),
		t.Notes,
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert into purchase_trade table: %w", err)
	}

	return nil
}

// UpdatePurchaseTrade writes all mutable columns of a purchase trade.
func (r *PurchaseTradeRepository) UpdatePurchaseTrade(ctx context.Context, t *model.PurchaseTrade) error {
	query := `
		UPDATE purchase_trade
		SET stock_id = ?, quantity = ?, price = ?, total_amount = ?, date = ?, notes = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		t.StockID,
		t.Quantity,
		t.Price,
		t.TotalAmount,
		t.Date.UTC().Format("2006-01-02"),
		t.Notes,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase_trade table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPurchaseTradeNotFound
	}

	return nil
}

// DeletePurchaseTrade removes a purchase trade row. Dependent sale trades go
// with it through the ON DELETE CASCADE foreign key.
func (r *PurchaseTradeRepository) DeletePurchaseTrade(ctx context.Context, id string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM purchase_trade WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete from purchase_trade table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPurchaseTradeNotFound
	}

	return nil
}

// ConsumeQuantity atomically subtracts quantity from a purchase trade's
// remaining quantity. The WHERE guard makes the capacity check and the
// decrement a single statement, so two concurrent sales can never both pass a
// stale read: the second one finds the guard false and gets
// apperrors.ErrInsufficientQuantity.
func (r *PurchaseTradeRepository) ConsumeQuantity(ctx context.Context, id string, quantity float64) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE purchase_trade SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`,
		quantity, id, quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase_trade table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrInsufficientQuantity
	}

	return nil
}

// RestoreQuantity adds quantity back to a purchase trade's remaining
// quantity, used when a sale trade is deleted or reduced.
func (r *PurchaseTradeRepository) RestoreQuantity(ctx context.Context, id string, quantity float64) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE purchase_trade SET quantity = quantity + ? WHERE id = ?`,
		quantity, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase_trade table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPurchaseTradeNotFound
	}

	return nil
}

// AllocatedQuantity returns the sum of all sale trade quantities recorded
// against a purchase trade.
func (r *PurchaseTradeRepository) AllocatedQuantity(id string) (float64, error) {
	var allocated float64
	err := r.getQuerier().QueryRow(
		`SELECT COALESCE(SUM(quantity), 0) FROM sale_trade WHERE purchase_trade_id = ?`,
		id,
	).Scan(&allocated)
	if err != nil {
		return 0, fmt.Errorf("failed to query sale_trade table: %w", err)
	}
	return allocated, nil
}
