package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that a user with the given ID or credentials does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrStockNotFound indicates that a stock with the given ID or ticker does not exist.
	ErrStockNotFound = errors.New("stock not found")

	// ErrPurchaseTradeNotFound indicates that a purchase trade with the given ID does not exist.
	ErrPurchaseTradeNotFound = errors.New("purchase trade not found")

	// ErrSaleTradeNotFound indicates that a sale trade with the given ID does not exist.
	ErrSaleTradeNotFound = errors.New("sale trade not found")

	// ErrSettingNotFound indicates that a system setting with the given key does not exist.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientQuantity indicates that a sale trade would allocate more shares
	// than the linked purchase trade has remaining.
	ErrInsufficientQuantity = errors.New("insufficient remaining quantity on purchase trade")

	// ErrTradeNotOwned indicates that a trade exists but belongs to a different user.
	ErrTradeNotOwned = errors.New("trade is owned by another user")

	// ErrSaleBeforePurchase indicates that a sale trade is dated before the
	// purchase trade it sells against.
	ErrSaleBeforePurchase = errors.New("sale date precedes purchase date")

	// ErrUsernameTaken indicates that a user with the same username already exists.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrEmailTaken indicates that a user with the same email already exists.
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidCredentials indicates that the supplied password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidResetToken indicates that a password reset token is unknown or expired.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// ErrInvalidToken indicates that a bearer token failed signature or expiry checks.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrMissingAPIKey indicates that no market data API key is configured.
	ErrMissingAPIKey = errors.New("market data API key is not configured")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These errors indicate that an operation failed, but not due
// to missing entities or validation issues.
var (
	// Stock catalog operation errors
	ErrFailedToSearchStocks = errors.New("failed to search stocks")
	ErrFailedToSyncStocks   = errors.New("failed to sync stock catalog")

	// Trade operation errors
	ErrFailedToRetrieveTrades = errors.New("failed to retrieve trades")
	ErrFailedToCreateTrade    = errors.New("failed to create trade")
	ErrFailedToUpdateTrade    = errors.New("failed to update trade")
	ErrFailedToDeleteTrade    = errors.New("failed to delete trade")

	// Auth operation errors
	ErrFailedToRegisterUser = errors.New("failed to register user")
	ErrFailedToLogin        = errors.New("failed to log in")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
	ErrFailedToStoreAPIKey    = errors.New("failed to store market data API key")
)
