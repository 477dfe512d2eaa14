package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/config"
	"github.com/stockpilot/stock-pilot-backend/internal/model"
	"github.com/stockpilot/stock-pilot-backend/internal/polygon"
	"github.com/stockpilot/stock-pilot-backend/internal/repository"
	"github.com/stockpilot/stock-pilot-backend/internal/secrets"
)

const marketDataKeySetting = "polygon_api_key"

// CatalogSyncService refreshes the stock reference table from the market
// data provider: a full paged fetch of active tickers followed by an
// idempotent per-ticker upsert. It also owns the provider API key, which is
// stored fernet-encrypted in system settings with the environment value as a
// fallback.
type CatalogSyncService struct {
	stockRepo   *repository.StockRepository
	settingRepo *repository.SettingRepository
	client      polygon.Client
	encryptor   *secrets.Encryptor
	cfg         config.MarketDataConfig
}

// NewCatalogSyncService creates a new CatalogSyncService with the provided dependencies.
func NewCatalogSyncService(
	stockRepo *repository.StockRepository,
	settingRepo *repository.SettingRepository,
	client polygon.Client,
	encryptor *secrets.Encryptor,
	cfg config.MarketDataConfig,
) *CatalogSyncService {
	return &CatalogSyncService{
		stockRepo:   stockRepo,
		settingRepo: settingRepo,
		client:      client,
		encryptor:   encryptor,
		cfg:         cfg,
	}
}

// MarketDataKey returns the provider API key: the fernet-decrypted stored
// setting when present, otherwise the configured environment value.
// Returns apperrors.ErrMissingAPIKey when neither is set.
func (s *CatalogSyncService) MarketDataKey() (string, error) {
	stored, err := s.settingRepo.GetSetting(marketDataKeySetting)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSettingNotFound) {
			return "", err
		}
		if s.cfg.APIKey == "" {
			return "", apperrors.ErrMissingAPIKey
		}
		return s.cfg.APIKey, nil
	}

	if s.encryptor == nil {
		return "", fmt.Errorf("stored API key found but no fernet key is configured")
	}

	key, err := s.encryptor.Decrypt(stored)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt stored API key: %w", err)
	}

	return key, nil
}

// StoreMarketDataKey encrypts and stores the provider API key.
func (s *CatalogSyncService) StoreMarketDataKey(ctx context.Context, apiKey string) error {
	if s.encryptor == nil {
		return fmt.Errorf("cannot store API key: no fernet key is configured")
	}

	encrypted, err := s.encryptor.Encrypt(apiKey)
	if err != nil {
		return err
	}
	return s.settingRepo.SetSetting(ctx, marketDataKeySetting, encrypted)
}

// Sync fetches all active tickers from the provider and upserts them into
// the stock table by ticker. Re-running with unchanged provider data is a
// no-op apart from refreshed timestamps.
func (s *CatalogSyncService) Sync(ctx context.Context) (model.SyncResult, error) {
	start := time.Now()

	apiKey, err := s.MarketDataKey()
	if err != nil {
		return model.SyncResult{}, err
	}

	tickers, err := s.client.ListTickers(ctx, apiKey)
	if err != nil {
		return model.SyncResult{}, fmt.Errorf("failed to fetch tickers: %w", err)
	}

	result := model.SyncResult{
		Fetched: len(tickers),
		RanAt:   start,
	}

	for _, t := range tickers {
		if t.Ticker == "" {
			continue
		}

		created, err := s.stockRepo.UpsertStock(ctx, t.Ticker, t.Name)
		if err != nil {
			return model.SyncResult{}, fmt.Errorf("failed to upsert stock %s: %w", t.Ticker, err)
		}

		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	result.Duration = time.Since(start).String()

	log.Printf("stock catalog sync: fetched=%d created=%d updated=%d in %s",
		result.Fetched, result.Created, result.Updated, result.Duration)

	return result, nil
}
