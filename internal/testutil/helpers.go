package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockpilot/stock-pilot-backend/internal/config"
	"github.com/stockpilot/stock-pilot-backend/internal/polygon"
	"github.com/stockpilot/stock-pilot-backend/internal/repository"
	"github.com/stockpilot/stock-pilot-backend/internal/secrets"
	"github.com/stockpilot/stock-pilot-backend/internal/service"
)

// TestFernetKey is a fixed base64 fernet key used only in tests.
const TestFernetKey = "cw_0x689RpI-jtRR7oE8h_eQsKImvJapLeSbXpwF4e4="

// TestAuthConfig returns auth configuration suitable for tests: a fixed
// secret and the cheapest bcrypt cost.
func TestAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     "test-jwt-secret",
		TokenTTL:      time.Hour,
		ResetTokenTTL: 15 * time.Minute,
		BcryptCost:    bcrypt.MinCost,
		FernetKey:     TestFernetKey,
	}
}

func NewTestTradeService(t *testing.T, db *sql.DB) *service.TradeService {
	t.Helper()

	purchaseRepo := repository.NewPurchaseTradeRepository(db)
	saleRepo := repository.NewSaleTradeRepository(db)
	stockRepo := repository.NewStockRepository(db)

	return service.NewTradeService(
		db,
		purchaseRepo,
		saleRepo,
		stockRepo,
	)
}

func NewTestAuthService(t *testing.T, db *sql.DB) (*service.AuthService, *CaptureMailer) {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	mailer := &CaptureMailer{}

	return service.NewAuthService(
		userRepo,
		mailer,
		TestAuthConfig(),
		"http://localhost:3000",
	), mailer
}

func NewTestStockService(t *testing.T, db *sql.DB, client polygon.Client) *service.StockService {
	t.Helper()

	stockRepo := repository.NewStockRepository(db)
	syncService := NewTestCatalogSyncService(t, db, client)

	return service.NewStockService(
		stockRepo,
		client,
		syncService,
	)
}

func NewTestCatalogSyncService(t *testing.T, db *sql.DB, client polygon.Client) *service.CatalogSyncService {
	t.Helper()

	stockRepo := repository.NewStockRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	encryptor, err := secrets.NewEncryptor(TestFernetKey)
	if err != nil {
		t.Fatalf("Failed to create test encryptor: %v", err)
	}

	return service.NewCatalogSyncService(
		stockRepo,
		settingRepo,
		client,
		encryptor,
		config.MarketDataConfig{APIKey: "test-api-key"},
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// CaptureMailer records sent mail for assertions instead of delivering it.
type CaptureMailer struct {
	Sent []CapturedMail
}

// CapturedMail is one message recorded by CaptureMailer.
type CapturedMail struct {
	ToEmail   string
	ToName    string
	ResetLink string
}

// SendPasswordReset records the message.
func (m *CaptureMailer) SendPasswordReset(toEmail, toName, resetLink string) error {
	m.Sent = append(m.Sent, CapturedMail{ToEmail: toEmail, ToName: toName, ResetLink: resetLink})
	return nil
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeTicker generates a unique ticker symbol for testing.
//
// Example usage:
//
//	ticker := testutil.MakeTicker("TST")
//	// Returns: "TST1A2B"
func MakeTicker(base string) string {
	suffix := uuid.New().String()[:4]
	return base + suffix
}

// HashPassword bcrypt-hashes a plaintext password at the cheapest cost for
// use in test fixtures.
func HashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}
	return string(hash)
}
