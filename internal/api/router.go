package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stockpilot/stock-pilot-backend/internal/api/handlers"
	custommiddleware "github.com/stockpilot/stock-pilot-backend/internal/api/middleware"
	"github.com/stockpilot/stock-pilot-backend/internal/config"
	"github.com/stockpilot/stock-pilot-backend/internal/service"
)

// Services bundles the service dependencies required by the router.
type Services struct {
	Auth   *service.AuthService
	Stock  *service.StockService
	Trade  *service.TradeService
	Sync   *service.CatalogSyncService
	System *service.SystemService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	auth := custommiddleware.JWTAuthMiddleware(svc.Auth)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth namespace; /me is the only route behind the token middleware
		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(svc.Auth)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.With(auth).Get("/me", authHandler.Me)
		})

		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System, svc.Sync)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.With(auth).Post("/sync-stocks", systemHandler.SyncStocks)
			r.With(auth).Put("/market-data-key", systemHandler.SetMarketDataKey)
		})

		// Stock catalog
		r.Route("/stocks", func(r chi.Router) {
			stockHandler := handlers.NewStockHandler(svc.Stock)
			r.Use(auth)
			r.Get("/", stockHandler.SearchStocks)
			r.Get("/{ticker}", stockHandler.GetStock)
			r.Get("/{ticker}/details", stockHandler.GetStockDetails)
		})

		// Purchase trade ledger
		r.Route("/purchase-trades", func(r chi.Router) {
			purchaseHandler := handlers.NewPurchaseTradeHandler(svc.Trade)
			r.Use(auth)
			r.Get("/", purchaseHandler.PurchaseTrades)
			r.Post("/", purchaseHandler.CreatePurchaseTrade)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Put("/", purchaseHandler.UpdatePurchaseTrade)
				r.Delete("/", purchaseHandler.DeletePurchaseTrade)
			})
		})

		// Sale trade ledger
		r.Route("/sale-trades", func(r chi.Router) {
			saleHandler := handlers.NewSaleTradeHandler(svc.Trade)
			r.Use(auth)
			r.Get("/", saleHandler.SaleTrades)
			r.Post("/", saleHandler.CreateSaleTrade)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Put("/", saleHandler.UpdateSaleTrade)
				r.Delete("/", saleHandler.DeleteSaleTrade)
			})
		})
	})

	return r
}
