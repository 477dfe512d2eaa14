package validation

import (
	"strings"
	"time"

	"github.com/stockpilot/stock-pilot-backend/internal/api/request"
)

// ValidateCreatePurchaseTrade validates a purchase trade creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - stockId: Must be a valid UUID
//   - date: Must be in YYYY-MM-DD format
//   - quantity: Must be positive
//   - price: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreatePurchaseTrade(req request.CreatePurchaseTradeRequest) error {
	errors := make(map[string]string)

	stockErr := ValidateUUID(req.StockID)
	if stockErr != nil {
		return stockErr
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	}
	_, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		errors["date"] = err.Error()
	}

	if req.Quantity <= 0.0 {
		errors["quantity"] = "quantity must be positive"
	}

	if req.Price <= 0.0 {
		errors["price"] = "price must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdatePurchaseTrade validates a purchase trade update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
// Quantity, when provided, is the new total purchased amount.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateUpdatePurchaseTrade(req request.UpdatePurchaseTradeRequest) error {
	errors := make(map[string]string)

	if req.StockID != nil {
		stockErr := ValidateUUID(*req.StockID)
		if stockErr != nil {
			return stockErr
		}
	}
	if req.Date != nil {
		if strings.TrimSpace(*req.Date) == "" {
			errors["date"] = "date is required"
		}
		_, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			errors["date"] = err.Error()
		}
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0.0 {
			errors["quantity"] = "quantity must be positive"
		}
	}
	if req.Price != nil {
		if *req.Price <= 0.0 {
			errors["price"] = "price must be positive"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateCreateSaleTrade validates a sale trade creation request.
//
// Required fields:
//   - purchaseTradeId: Must be a valid UUID
//   - date: Must be in YYYY-MM-DD format
//   - quantity: Must be positive
//   - sellPrice: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateSaleTrade(req request.CreateSaleTradeRequest) error {
	errors := make(map[string]string)

	purchaseErr := ValidateUUID(req.PurchaseTradeID)
	if purchaseErr != nil {
		return purchaseErr
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	}
	_, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		errors["date"] = err.Error()
	}

	if req.Quantity <= 0.0 {
		errors["quantity"] = "quantity must be positive"
	}

	if req.SellPrice <= 0.0 {
		errors["sellPrice"] = "sellPrice must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateSaleTrade validates a sale trade update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateUpdateSaleTrade(req request.UpdateSaleTradeRequest) error {
	errors := make(map[string]string)

	if req.Date != nil {
		if strings.TrimSpace(*req.Date) == "" {
			errors["date"] = "date is required"
		}
		_, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			errors["date"] = err.Error()
		}
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0.0 {
			errors["quantity"] = "quantity must be positive"
		}
	}
	if req.SellPrice != nil {
		if *req.SellPrice <= 0.0 {
			errors["sellPrice"] = "sellPrice must be positive"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
