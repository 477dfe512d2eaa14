package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/model"
)

// StockRepository provides data access methods for the stock reference table.
// Rows are written only by the catalog sync job; everything else reads.
type StockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new StockRepository with the provided database connection.
func NewStockRepository(db *sql.DB) *StockRepository {
	return &StockRepository{db: db}
}

// GetStock retrieves a stock by ID.
// Returns apperrors.ErrStockNotFound if no row matches.
func (r *StockRepository) GetStock(stockID string) (model.Stock, error) {
	query := `SELECT id, ticker, company_name FROM stock WHERE id = ?`

	var s model.Stock
	err := r.db.QueryRow(query, stockID).Scan(&s.ID, &s.Ticker, &s.CompanyName)
	if err == sql.ErrNoRows {
		return model.Stock{}, apperrors.ErrStockNotFound
	}
	if err != nil {
		return model.Stock{}, fmt.Errorf("failed to scan stock table results: %w", err)
	}

	return s, nil
}

// GetStockByTicker retrieves a stock by its exact ticker, case-insensitively.
// Returns apperrors.ErrStockNotFound if no row matches.
func (r *StockRepository) GetStockByTicker(ticker string) (model.Stock, error) {
	query := `SELECT id, ticker, company_name FROM stock WHERE ticker = ? COLLATE NOCASE`

	var s model.Stock
	err := r.db.QueryRow(query, ticker).Scan(&s.ID, &s.Ticker, &s.CompanyName)
	if err == sql.ErrNoRows {
		return model.Stock{}, apperrors.ErrStockNotFound
	}
	if err != nil {
		return model.Stock{}, fmt.Errorf("failed to scan stock table results: %w", err)
	}

	return s, nil
}

// SearchStocks returns one page of stocks whose ticker or company name
// contains the query string, case-insensitively, ordered by ticker ascending.
// An empty query matches everything. The total is the unpaginated match count.
func (r *StockRepository) SearchStocks(query string, offset, limit int) ([]model.Stock, int, error) {
	pattern := "%" + query + "%"

	var total int
	countQuery := `
		SELECT COUNT(1) FROM stock
		WHERE ticker LIKE ? OR company_name LIKE ?
	`
	if err := r.db.QueryRow(countQuery, pattern, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count stock table results: %w", err)
	}

	searchQuery := `
		SELECT id, ticker, company_name FROM stock
		WHERE ticker LIKE ? OR company_name LIKE ?
		ORDER BY ticker ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(searchQuery, pattern, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query stock table: %w", err)
	}
	defer rows.Close()

	stocks := []model.Stock{}
	for rows.Next() {
		var s model.Stock
		if err := rows.Scan(&s.ID, &s.Ticker, &s.CompanyName); err != nil {
			return nil, 0, fmt.Errorf("failed to scan stock table results: %w", err)
		}
		stocks = append(stocks, s)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating stock table: %w", err)
	}

	return stocks, total, nil
}

// UpsertStock inserts a stock by ticker or refreshes its company name if the
// ticker already exists. Returns true when a new row was created. The upsert
// keys on ticker so repeated sync runs stay idempotent.
func (r *StockRepository) UpsertStock(ctx context.Context, ticker, companyName string) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := r.db.ExecContext(ctx,
		`UPDATE stock SET company_name = ?, updated_at = ? WHERE ticker = ?`,
		companyName, now, ticker,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update stock table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO stock (id, ticker, company_name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), ticker, companyName, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert into stock table: %w", err)
	}

	return true, nil
}
