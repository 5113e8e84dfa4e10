package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sellboxapp/sellbox-backend/api/controllers"
	"github.com/sellboxapp/sellbox-backend/api/middleware"
	"github.com/sellboxapp/sellbox-backend/internal/auth"
	"github.com/sellboxapp/sellbox-backend/internal/buyercache"
	"github.com/sellboxapp/sellbox-backend/internal/orders"
	"github.com/sellboxapp/sellbox-backend/internal/profiles"
	"github.com/sellboxapp/sellbox-backend/internal/sessions"
	"github.com/sellboxapp/sellbox-backend/internal/stores"
	"github.com/sellboxapp/sellbox-backend/pkg/auth/session"
	"github.com/sellboxapp/sellbox-backend/pkg/config"
	"github.com/sellboxapp/sellbox-backend/pkg/db"
	"github.com/sellboxapp/sellbox-backend/pkg/logger"
	"github.com/sellboxapp/sellbox-backend/pkg/redis"
	"github.com/sellboxapp/sellbox-backend/pkg/storage/gcs"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config *config.Config
	Logger *logger.Logger

	DB    db.Pinger
	Redis *redis.Client
	GCS   gcs.Pinger

	SessionManager sessionManager
	Gatherer       prometheus.Gatherer

	AuthService     auth.Service
	RegisterService auth.RegisterService
	ProfileService  profiles.Service
	StoreService    stores.Service
	SessionService  sessions.Service
	OrderService    orders.Service
	BuyerCache      buyercache.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Public),
	)

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

	probes := []controllers.ReadinessProbe{}
	if p.DB != nil {
		probes = append(probes, controllers.ReadinessProbe{Name: "database", Ping: p.DB.Ping})
	}
	if p.Redis != nil {
		probes = append(probes, controllers.ReadinessProbe{Name: "redis", Ping: p.Redis.Ping})
	}
	if p.GCS != nil {
		probes = append(probes, controllers.ReadinessProbe{Name: "gcs", Ping: p.GCS.Ping})
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, probes))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Route("/sessions/{code}", func(r chi.Router) {
			r.Get("/", controllers.PublicSessionResolve(p.SessionService, logg))
			r.Get("/buyer", controllers.PublicBuyerLookup(p.BuyerCache, logg))
			r.Get("/buyer/last", controllers.PublicLastBuyer(p.BuyerCache, logg))
			r.Post("/orders", controllers.PublicOrderSubmit(p.OrderService, cfg.Media, logg))
		})
		r.Get("/orders/{orderId}", controllers.PublicOrderReceipt(p.OrderService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.RegisterService, p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(p.ProfileService, logg))
			r.Put("/", controllers.ProfileUpdate(p.ProfileService, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Post("/", controllers.StoreCreate(p.StoreService, logg))
			r.Get("/", controllers.StoreList(p.StoreService, logg))
			r.Get("/{storeId}", controllers.StoreGet(p.StoreService, logg))
			r.Put("/{storeId}", controllers.StoreUpdate(p.StoreService, logg))
			r.Delete("/{storeId}", controllers.StoreDelete(p.StoreService, logg))
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", controllers.SessionCreate(p.SessionService, logg))
			r.Get("/", controllers.SessionList(p.SessionService, logg))
			r.Get("/{sessionId}", controllers.SessionGet(p.SessionService, logg))
			r.Patch("/{sessionId}", controllers.SessionUpdate(p.SessionService, logg))
			r.Delete("/{sessionId}", controllers.SessionDelete(p.SessionService, logg))
			r.Post("/{sessionId}/close", controllers.SessionClose(p.SessionService, logg))
			r.Post("/{sessionId}/reopen", controllers.SessionReopen(p.SessionService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(p.OrderService, logg))
			r.Get("/stats", controllers.OrderStats(p.OrderService, logg))
			r.Get("/recent", controllers.OrderRecent(p.OrderService, logg))
			r.Get("/{orderId}", controllers.OrderGet(p.OrderService, logg))
			r.Delete("/{orderId}", controllers.OrderDelete(p.OrderService, logg))
			r.Post("/{orderId}/status", controllers.OrderTransition(p.OrderService, logg))
			r.Patch("/{orderId}/shipping", controllers.OrderUpdateShipping(p.OrderService, logg))
			r.Patch("/{orderId}/payment-proof", controllers.OrderAttachPaymentProof(p.OrderService, logg))
			r.Patch("/{orderId}/seller-note", controllers.OrderUpdateSellerNote(p.OrderService, logg))
		})
	})

	return r
}
