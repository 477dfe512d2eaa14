package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/stockpilot/stock-pilot-backend/internal/api"
	"github.com/stockpilot/stock-pilot-backend/internal/config"
	"github.com/stockpilot/stock-pilot-backend/internal/database"
	"github.com/stockpilot/stock-pilot-backend/internal/polygon"
	"github.com/stockpilot/stock-pilot-backend/internal/repository"
	"github.com/stockpilot/stock-pilot-backend/internal/secrets"
	"github.com/stockpilot/stock-pilot-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var encryptor *secrets.Encryptor
	if cfg.Auth.FernetKey != "" {
		encryptor, err = secrets.NewEncryptor(cfg.Auth.FernetKey)
		if err != nil {
			log.Fatalf("Failed to load fernet key: %v", err)
		}
	}

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	stockRepo := repository.NewStockRepository(db)
	purchaseRepo := repository.NewPurchaseTradeRepository(db)
	saleRepo := repository.NewSaleTradeRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Create services
	polygonClient := polygon.NewReferenceClient(cfg.MarketData.BaseURL)

	systemService := service.NewSystemService(db)
	authService := service.NewAuthService(userRepo, service.LogMailer{}, cfg.Auth, cfg.Server.AppBaseURL)
	syncService := service.NewCatalogSyncService(stockRepo, settingRepo, polygonClient, encryptor, cfg.MarketData)
	stockService := service.NewStockService(stockRepo, polygonClient, syncService)
	tradeService := service.NewTradeService(db, purchaseRepo, saleRepo, stockRepo)

	// Create router
	router := api.NewRouter(api.Services{
		Auth:   authService,
		Stock:  stockService,
		Trade:  tradeService,
		Sync:   syncService,
		System: systemService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Scheduled catalog sync
	scheduler := cron.New()
	if cfg.MarketData.SyncSchedule != "" {
		_, err := scheduler.AddFunc(cfg.MarketData.SyncSchedule, func() {
			if _, err := syncService.Sync(context.Background()); err != nil {
				log.Printf("Scheduled stock sync failed: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("Invalid sync schedule %q: %v", cfg.MarketData.SyncSchedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited")
}
