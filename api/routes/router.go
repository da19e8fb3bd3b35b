package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stocktrail/stocktrail-backend/api/controllers"
	"github.com/stocktrail/stocktrail-backend/api/middleware"
	authsvc "github.com/stocktrail/stocktrail-backend/internal/auth"
	dashboardsvc "github.com/stocktrail/stocktrail-backend/internal/dashboard"
	documentsvc "github.com/stocktrail/stocktrail-backend/internal/documents"
	locationsvc "github.com/stocktrail/stocktrail-backend/internal/locations"
	productsvc "github.com/stocktrail/stocktrail-backend/internal/products"
	stocksvc "github.com/stocktrail/stocktrail-backend/internal/stock"
	usersvc "github.com/stocktrail/stocktrail-backend/internal/users"
	warehousesvc "github.com/stocktrail/stocktrail-backend/internal/warehouses"
	"github.com/stocktrail/stocktrail-backend/pkg/auth/session"
	"github.com/stocktrail/stocktrail-backend/pkg/config"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	pkgredis "github.com/stocktrail/stocktrail-backend/pkg/redis"
)

// Pinger is satisfied by the database and redis clients for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             Pinger
	Redis          *pkgredis.Client
	SessionChecker session.AccessSessionChecker
	Registry       *prometheus.Registry

	Auth      authsvc.Service
	Users     usersvc.Service
	Products  productsvc.Service
	Warehouse warehousesvc.Service
	Locations locationsvc.Service
	Documents *documentsvc.Service
	Stock     *stocksvc.Queries
	Dashboard *dashboardsvc.Service
}

// NewRouter assembles the full API surface. Health and metrics are public,
// auth endpoints are rate limited, and everything under /api/v1 requires a
// valid session.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// A nil *redis.Client must stay a nil interface so the middleware
	// fall-through checks work.
	var limiterStore middleware.RateLimiterStore
	var idemStore pkgredis.IdempotencyStore
	var cache Pinger
	if deps.Redis != nil {
		limiterStore = deps.Redis
		idemStore = deps.Redis
		cache = deps.Redis
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, cache, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).
			Post("/login", controllers.Login(deps.Auth, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, limiterStore, logg),
			middleware.Idempotency(idemStore, logg),
		).Post("/register", controllers.Register(deps.Auth, logg))
		r.Post("/refresh", controllers.Refresh(deps.Auth, logg))
		r.Post("/logout", controllers.Logout(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Get("/me", controllers.Profile(deps.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Get("/{id}", controllers.GetProduct(deps.Products, logg))
			r.With(middleware.RequireManager(logg)).Post("/", controllers.CreateProduct(deps.Products, logg))
			r.With(middleware.RequireManager(logg)).Put("/{id}", controllers.UpdateProduct(deps.Products, logg))
			r.With(middleware.RequireAdmin(logg)).Delete("/{id}", controllers.DeleteProduct(deps.Products, logg))
		})

		r.Route("/warehouses", func(r chi.Router) {
			r.Get("/", controllers.ListWarehouses(deps.Warehouse, logg))
			r.Get("/{id}", controllers.GetWarehouse(deps.Warehouse, logg))
			r.With(middleware.RequireManager(logg)).Post("/", controllers.CreateWarehouse(deps.Warehouse, logg))
			r.With(middleware.RequireManager(logg)).Put("/{id}", controllers.UpdateWarehouse(deps.Warehouse, logg))

			r.Route("/{id}/locations", func(r chi.Router) {
				r.Get("/", controllers.ListLocations(deps.Locations, logg))
				r.With(middleware.RequireManager(logg)).Post("/", controllers.CreateLocation(deps.Locations, logg))
			})
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Route("/receipts", func(r chi.Router) {
				r.With(middleware.RequireManager(logg)).Post("/", controllers.CreateReceipt(deps.Documents, logg))
				r.Get("/", controllers.ListReceipts(deps.Documents, logg))
				r.Get("/{id}", controllers.GetReceipt(deps.Documents, logg))
			})
			r.Route("/deliveries", func(r chi.Router) {
				r.With(middleware.RequireManager(logg)).Post("/", controllers.CreateDelivery(deps.Documents, logg))
				r.Get("/", controllers.ListDeliveries(deps.Documents, logg))
				r.Get("/{id}", controllers.GetDelivery(deps.Documents, logg))
			})
			r.Route("/adjustments", func(r chi.Router) {
				r.With(middleware.RequireManager(logg)).Post("/", controllers.CreateAdjustment(deps.Documents, logg))
				r.Get("/", controllers.ListAdjustments(deps.Documents, logg))
				r.Get("/{id}", controllers.GetAdjustment(deps.Documents, logg))
			})
			r.Route("/transfers", func(r chi.Router) {
				r.With(middleware.RequireManager(logg)).Post("/", controllers.CreateTransfer(deps.Documents, logg))
				r.Get("/", controllers.ListTransfers(deps.Documents, logg))
				r.Get("/{id}", controllers.GetTransfer(deps.Documents, logg))
			})

			r.Get("/stock", controllers.StockLevels(deps.Stock, logg))
			r.Get("/history", controllers.StockHistory(deps.Stock, logg))
			r.Get("/low-stock", controllers.LowStock(deps.Stock, logg))
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(deps.Dashboard, logg))

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Get("/", controllers.ListUsers(deps.Users, logg))
			r.Put("/{id}/role", controllers.ChangeUserRole(deps.Users, logg))
			r.Delete("/{id}", controllers.DeleteUser(deps.Users, logg))
		})
	})

	return r
}
