package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockpilot/stock-pilot-backend/internal/api/request"
	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/model"
	"github.com/stockpilot/stock-pilot-backend/internal/repository"
)

// TradeService owns the purchase and sale trade ledgers and the invariant
// binding them: a purchase trade's remaining quantity always equals its
// purchased amount minus the sum of its sale trade quantities. Every mutating
// operation loads, checks and writes inside a single transaction; with
// immediate transactions the write lock is held from the first read, so two
// concurrent operations on the same purchase trade serialize instead of both
// acting on a stale snapshot. On any failure the whole unit rolls back.
//
// Callers pass the authenticated user ID explicitly; the service never reads
// identity from ambient state.
type TradeService struct {
	db           *sql.DB
	purchaseRepo *repository.PurchaseTradeRepository
	saleRepo     *repository.SaleTradeRepository
	stockRepo    *repository.StockRepository
}

// NewTradeService creates a new TradeService with the provided repository dependencies.
func NewTradeService(
	db *sql.DB,
	purchaseRepo *repository.PurchaseTradeRepository,
	saleRepo *repository.SaleTradeRepository,
	stockRepo *repository.StockRepository,
) *TradeService {
	return &TradeService{
		db:           db,
		purchaseRepo: purchaseRepo,
		saleRepo:     saleRepo,
		stockRepo:    stockRepo,
	}
}

// inTx runs fn inside a transaction, rolling back on error or panic.
func (s *TradeService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	//nolint:errcheck // Rollback after Commit is a no-op
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// isLedgerError reports whether err is one of the ledger's typed errors that
// handlers map to specific status codes, as opposed to an internal failure
// that should be wrapped with operation context.
func isLedgerError(err error) bool {
	return errors.Is(err, apperrors.ErrPurchaseTradeNotFound) ||
		errors.Is(err, apperrors.ErrSaleTradeNotFound) ||
		errors.Is(err, apperrors.ErrTradeNotOwned) ||
		errors.Is(err, apperrors.ErrInsufficientQuantity) ||
		errors.Is(err, apperrors.ErrSaleBeforePurchase)
}

// GetPurchaseTrades retrieves the user's purchase trades with their stock and
// dependent sale trades embedded, newest first. A non-empty ticker filters to
// that stock; openOnly keeps only trades with remaining quantity.
func (s *TradeService) GetPurchaseTrades(userID, ticker string, openOnly bool) ([]model.PurchaseTradeResponse, error) {
	return s.purchaseRepo.GetPurchaseTrades(userID, ticker, openOnly)
}

// CreatePurchaseTrade records a share purchase. The referenced stock must
// exist in the catalog; the total amount is fixed from the purchased quantity
// and price.
func (s *TradeService) CreatePurchaseTrade(ctx context.Context, userID string, req request.CreatePurchaseTradeRequest) (*model.PurchaseTrade, error) {
	if _, err := s.stockRepo.GetStock(req.StockID); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}

	trade := &model.PurchaseTrade{
		ID:          uuid.New().String(),
		UserID:      userID,
		StockID:     req.StockID,
		Quantity:    req.Quantity,
		Price:       req.Price,
		TotalAmount: req.Quantity * req.Price,
		Date:        date,
		Notes:       req.Notes,
		CreatedAt:   time.Now(),
	}

	if err := s.purchaseRepo.InsertPurchaseTrade(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to create purchase trade: %w", err)
	}

	return trade, nil
}

// UpdatePurchaseTrade edits a purchase trade the user owns. The request's
// quantity, when present, is the new total purchased amount: the stored
// remaining quantity becomes that total minus what sale trades have already
// allocated, and shrinking the total below the allocated sum fails with
// apperrors.ErrInsufficientQuantity. A price change cascades into every
// dependent sale trade's buy price, net profit and total amount. The
// allocated sum is read inside the same transaction that writes the new
// quantity, so a sale committing concurrently is either counted or
// serialized behind this update, never clobbered.
func (s *TradeService) UpdatePurchaseTrade(ctx context.Context, userID, id string, req request.UpdatePurchaseTradeRequest) (*model.PurchaseTrade, error) {
	if req.StockID != nil {
		if _, err := s.stockRepo.GetStock(*req.StockID); err != nil {
			return nil, err
		}
	}

	var date time.Time
	if req.Date != nil {
		var err error
		date, err = time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
	}

	var trade model.PurchaseTrade
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		purchaseRepo := s.purchaseRepo.WithTx(tx)

		var err error
		trade, err = purchaseRepo.GetPurchaseTrade(id)
		if err != nil {
			return err
		}
		if trade.UserID != userID {
			return apperrors.ErrTradeNotOwned
		}

		allocated, err := purchaseRepo.AllocatedQuantity(id)
		if err != nil {
			return err
		}

		purchasedQuantity := trade.Quantity + allocated
		oldPrice := trade.Price

		if req.StockID != nil {
			trade.StockID = *req.StockID
		}
		if req.Quantity != nil {
			if *req.Quantity < allocated {
				return apperrors.ErrInsufficientQuantity
			}
			purchasedQuantity = *req.Quantity
		}
		if req.Price != nil {
			trade.Price = *req.Price
		}
		if req.Date != nil {
			trade.Date = date
		}
		if req.Notes != nil {
			trade.Notes = *req.Notes
		}

		trade.Quantity = purchasedQuantity - allocated
		trade.TotalAmount = purchasedQuantity * trade.Price

		if err := purchaseRepo.UpdatePurchaseTrade(ctx, &trade); err != nil {
			return err
		}

		if trade.Price != oldPrice {
			if err := s.saleRepo.WithTx(tx).CascadeBuyPrice(ctx, trade.ID, trade.Price); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if isLedgerError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update purchase trade: %w", err)
	}

	return &trade, nil
}

// DeletePurchaseTrade removes a purchase trade the user owns together with
// all of its sale trades. The sale rows go first so a failure leaves nothing
// half-deleted; both deletes share one transaction.
func (s *TradeService) DeletePurchaseTrade(ctx context.Context, userID, id string) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		trade, err := s.purchaseRepo.WithTx(tx).GetPurchaseTrade(id)
		if err != nil {
			return err
		}
		if trade.UserID != userID {
			return apperrors.ErrTradeNotOwned
		}

		if err := s.saleRepo.WithTx(tx).DeleteSaleTradesForPurchase(ctx, id); err != nil {
			return err
		}
		return s.purchaseRepo.WithTx(tx).DeletePurchaseTrade(ctx, id)
	})
	if err != nil {
		if isLedgerError(err) {
			return err
		}
		return fmt.Errorf("failed to delete purchase trade: %w", err)
	}

	return nil
}

// GetSaleTrades retrieves the user's sale trades with parent purchase trade
// and stock embedded, newest first.
func (s *TradeService) GetSaleTrades(userID, ticker string) ([]model.SaleTradeResponse, error) {
	return s.saleRepo.GetSaleTrades(userID, ticker)
}

// CreateSaleTrade records a sale against a purchase trade the user owns. The
// buy price snapshot, the capacity check and the decrement of the parent's
// remaining quantity all happen inside one transaction: the decrement is a
// guarded conditional UPDATE, and the parent is read under the same write
// lock, so neither a concurrent sale nor a concurrent price edit can slip
// between the snapshot and the insert.
func (s *TradeService) CreateSaleTrade(ctx context.Context, userID string, req request.CreateSaleTradeRequest) (*model.SaleTrade, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}

	sale := &model.SaleTrade{
		ID:        uuid.New().String(),
		UserID:    userID,
		Quantity:  req.Quantity,
		SellPrice: req.SellPrice,
		Date:      date,
		Notes:     req.Notes,
		CreatedAt: time.Now(),
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		purchaseRepo := s.purchaseRepo.WithTx(tx)

		parent, err := purchaseRepo.GetPurchaseTrade(req.PurchaseTradeID)
		if err != nil {
			return err
		}
		if parent.UserID != userID {
			return apperrors.ErrTradeNotOwned
		}
		if date.Before(parent.Date) {
			return apperrors.ErrSaleBeforePurchase
		}

		sale.PurchaseTradeID = parent.ID
		sale.BuyPrice = parent.Price
		sale.TotalAmount = sale.SellPrice * sale.Quantity
		sale.NetProfit = (sale.SellPrice - parent.Price) * sale.Quantity

		if err := purchaseRepo.ConsumeQuantity(ctx, parent.ID, sale.Quantity); err != nil {
			return err
		}
		return s.saleRepo.WithTx(tx).InsertSaleTrade(ctx, sale)
	})
	if err != nil {
		if isLedgerError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create sale trade: %w", err)
	}

	return sale, nil
}

// UpdateSaleTrade edits a sale trade the user owns. Only the quantity delta
// moves between the sale and its parent: an increase consumes remaining
// quantity (guarded, so exceeding it fails with
// apperrors.ErrInsufficientQuantity), a decrease restores it. Total amount
// and net profit are recomputed from the resulting quantity and sell price.
// The sale and its parent are read inside the transaction that writes them.
func (s *TradeService) UpdateSaleTrade(ctx context.Context, userID, id string, req request.UpdateSaleTradeRequest) (*model.SaleTrade, error) {
	var date time.Time
	if req.Date != nil {
		var err error
		date, err = time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
	}

	var sale model.SaleTrade
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		purchaseRepo := s.purchaseRepo.WithTx(tx)
		saleRepo := s.saleRepo.WithTx(tx)

		var err error
		sale, err = saleRepo.GetSaleTrade(id)
		if err != nil {
			return err
		}
		if sale.UserID != userID {
			return apperrors.ErrTradeNotOwned
		}

		parent, err := purchaseRepo.GetPurchaseTrade(sale.PurchaseTradeID)
		if err != nil {
			return err
		}

		oldQuantity := sale.Quantity

		if req.Quantity != nil {
			sale.Quantity = *req.Quantity
		}
		if req.SellPrice != nil {
			sale.SellPrice = *req.SellPrice
		}
		if req.Date != nil {
			if date.Before(parent.Date) {
				return apperrors.ErrSaleBeforePurchase
			}
			sale.Date = date
		}
		if req.Notes != nil {
			sale.Notes = *req.Notes
		}

		sale.TotalAmount = sale.SellPrice * sale.Quantity
		sale.NetProfit = (sale.SellPrice - sale.BuyPrice) * sale.Quantity

		delta := sale.Quantity - oldQuantity

		if delta > 0 {
			if err := purchaseRepo.ConsumeQuantity(ctx, parent.ID, delta); err != nil {
				return err
			}
		} else if delta < 0 {
			if err := purchaseRepo.RestoreQuantity(ctx, parent.ID, -delta); err != nil {
				return err
			}
		}

		return saleRepo.UpdateSaleTrade(ctx, &sale)
	})
	if err != nil {
		if isLedgerError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update sale trade: %w", err)
	}

	return &sale, nil
}

// DeleteSaleTrade removes a sale trade the user owns and returns its quantity
// to the parent purchase trade. The sale is read inside the transaction that
// restores and deletes, so the restored quantity is the one on disk.
func (s *TradeService) DeleteSaleTrade(ctx context.Context, userID, id string) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		saleRepo := s.saleRepo.WithTx(tx)

		sale, err := saleRepo.GetSaleTrade(id)
		if err != nil {
			return err
		}
		if sale.UserID != userID {
			return apperrors.ErrTradeNotOwned
		}

		if err := s.purchaseRepo.WithTx(tx).RestoreQuantity(ctx, sale.PurchaseTradeID, sale.Quantity); err != nil {
			return err
		}
		return saleRepo.DeleteSaleTrade(ctx, sale.ID)
	})
	if err != nil {
		if isLedgerError(err) {
			return err
		}
		return fmt.Errorf("failed to delete sale trade: %w", err)
	}

	return nil
}
