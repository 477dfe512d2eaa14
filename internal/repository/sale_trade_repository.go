package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/model"
)

// SaleTradeRepository provides data access methods for the sale_trade table.
// Mutations that must commit together with purchase_trade writes run on a
// shared transaction via WithTx.
type SaleTradeRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSaleTradeRepository creates a new SaleTradeRepository with the provided database connection.
func NewSaleTradeRepository(db *sql.DB) *SaleTradeRepository {
	return &SaleTradeRepository{db: db}
}

// WithTx returns a copy of the repository that runs all statements on tx.
func (r *SaleTradeRepository) WithTx(tx *sql.Tx) *SaleTradeRepository {
	return &SaleTradeRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SaleTradeRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetSaleTrade retrieves a sale trade by ID.
// Returns apperrors.ErrSaleTradeNotFound if no row matches.
func (r *SaleTradeRepository) GetSaleTrade(id string) (model.SaleTrade, error) {
	query := `
		SELECT id, user_id, purchase_trade_id, quantity, sell_price, buy_price, total_amount, net_profit, date, notes
		FROM sale_trade
		WHERE id = ?
	`

	var s model.SaleTrade
	var dateStr string
	var notes sql.NullString

	err := r.getQuerier().QueryRow(query, id).Scan(
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
	if err == sql.ErrNoRows {
		return model.SaleTrade{}, apperrors.ErrSaleTradeNotFound
	}
	if err != nil {
		return model.SaleTrade{}, fmt.Errorf("failed to scan sale_trade table results: %w", err)
	}

	s.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.SaleTrade{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if notes.Valid {
		s.Notes = notes.String
	}

	return s, nil
}

// GetSaleTrades retrieves all sale trades for a user, newest first, each with
// its parent purchase trade and that trade's stock embedded. A non-empty
// ticker keeps only sales whose stock ticker contains it, case-insensitively.
func (r *SaleTradeRepository) GetSaleTrades(userID, ticker string) ([]model.SaleTradeResponse, error) {
	query := `
		SELECT
			st.id, st.user_id, st.purchase_trade_id, st.quantity, st.sell_price, st.buy_price,
			st.total_amount, st.net_profit, st.date, st.notes,
			pt.id, pt.user_id, pt.stock_id, pt.quantity, pt.price, pt.total_amount, pt.date, pt.notes,
			s.id, s.ticker, s.company_name
		FROM sale_trade st
		JOIN purchase_trade pt ON st.purchase_trade_id = pt.id
		JOIN stock s ON pt.stock_id = s.id
		WHERE st.user_id = ?
	`
	args := []any{userID}

	if ticker != "" {
		query += ` AND s.ticker LIKE ?`
		args = append(args, "%"+ticker+"%")
	}
	query += ` ORDER BY st.date DESC`

	rows, err := r.getQuerier().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale_trade table: %w", err)
	}
	defer rows.Close()

	sales := []model.SaleTradeResponse{}

	for rows.Next() {
		var s model.SaleTradeResponse
		var saleDateStr, purchaseDateStr string
		var saleNotes, purchaseNotes sql.NullString

		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.PurchaseTradeID,
			&s.Quantity,
			&s.SellPrice,
			&s.BuyPrice,
			&s.TotalAmount,
			&s.NetProfit,
			&saleDateStr,
			&saleNotes,
			&s.PurchaseTrade.ID,
			&s.PurchaseTrade.UserID,
			&s.PurchaseTrade.StockID,
			&s.PurchaseTrade.Quantity,
			&s.PurchaseTrade.Price,
			&s.PurchaseTrade.TotalAmount,
			&purchaseDateStr,
			&purchaseNotes,
			&s.PurchaseTrade.Stock.ID,
			&s.PurchaseTrade.Stock.Ticker,
			&s.PurchaseTrade.Stock.CompanyName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale_trade table results: %w", err)
		}

		s.Date, err = ParseTime(saleDateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		s.PurchaseTrade.Date, err = ParseTime(purchaseDateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		if saleNotes.Valid {
			s.Notes = saleNotes.String
		}
		if purchaseNotes.Valid {
			s.PurchaseTrade.Notes = purchaseNotes.String
		}

		sales = append(sales, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale_trade table: %w", err)
	}

	return sales, nil
}

// InsertSaleTrade inserts a new sale trade row.
func (r *SaleTradeRepository) InsertSaleTrade(ctx context.Context, s *model.SaleTrade) error {
	query := `
		INSERT INTO sale_trade (id, user_id, purchase_trade_id, quantity, sell_price, buy_price, total_amount, net_profit, date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		s.ID,
		s.UserID,
		s.PurchaseTradeID,
		s.Quantity,
		s.SellPrice,
		s.BuyPrice,
		s.TotalAmount,
		s.NetProfit,
		s.Date.UTC().Format("2006-01-02"),
		s.Notes,
		s.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert into sale_trade table: %w", err)
	}

	return nil
}

// UpdateSaleTrade writes all mutable columns of a sale trade.
func (r *SaleTradeRepository) UpdateSaleTrade(ctx context.Context, s *model.SaleTrade) error {
	query := `
		UPDATE sale_trade
		SET quantity = ?, sell_price = ?, buy_price = ?, total_amount = ?, net_profit = ?, date = ?, notes = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		s.Quantity,
		s.SellPrice,
		s.BuyPrice,
		s.TotalAmount,
		s.NetProfit,
		s.Date.UTC().Format("2006-01-02"),
		s.Notes,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sale_trade table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrSaleTradeNotFound
	}

	return nil
}

// DeleteSaleTrade removes a sale trade row.
func (r *SaleTradeRepository) DeleteSaleTrade(ctx context.Context, id string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM sale_trade WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete from sale_trade table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrSaleTradeNotFound
	}

	return nil
}

// DeleteSaleTradesForPurchase removes every sale trade of a purchase trade.
// Zero affected rows is fine; a purchase trade may have no sales.
func (r *SaleTradeRepository) DeleteSaleTradesForPurchase(ctx context.Context, purchaseTradeID string) error {
	_, err := r.getQuerier().ExecContext(ctx, `DELETE FROM sale_trade WHERE purchase_trade_id = ?`, purchaseTradeID)
	if err != nil {
		return fmt.Errorf("failed to delete from sale_trade table: %w", err)
	}

	return nil
}

// CascadeBuyPrice rewrites the snapshotted buy price on every sale trade of a
// purchase trade after its price was edited, recomputing net profit and total
// amount in the same statement so realized figures stay consistent.
func (r *SaleTradeRepository) CascadeBuyPrice(ctx context.Context, purchaseTradeID string, newPrice float64) error {
	query := `
		UPDATE sale_trade
		SET buy_price = ?,
			net_profit = (sell_price - ?) * quantity,
			total_amount = sell_price * quantity
		WHERE purchase_trade_id = ?
	`

	_, err := r.getQuerier().ExecContext(ctx, query, newPrice, newPrice, purchaseTradeID)
	if err != nil {
		return fmt.Errorf("failed to update sale_trade table: %w", err)
	}

	return nil
}
