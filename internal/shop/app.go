package shop

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"CampusStore/internal/auth"
	"CampusStore/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

const (
	loginLimitPerMin    = 5
	registerLimitPerMin = 3
	limitWindow         = 60 * time.Second

	// recentWindow bounds the admin purchase listing.
	recentWindow = 10

	readyTimeout = 1 * time.Second
)

// NewHandler assembles the whole storefront router: public auth routes, the
// session-gated store surface, and the admin surface behind the admin gate.
func NewHandler(authSrv *auth.Server, s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", s.readyz(authSrv.Gateway))

	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, int(limitWindow.Seconds()))
	registerLimiter := kit.NewIPRateLimiter(registerLimitPerMin, int(limitWindow.Seconds()))

	r.Get("/login", authSrv.LoginPage)
	r.With(loginLimiter.Middleware).Post("/login", authSrv.HandleLogin)
	r.Get("/create_account", authSrv.CreateAccountPage)
	r.With(registerLimiter.Middleware).Post("/create_account", authSrv.HandleCreateAccount)
	r.Get("/logout", authSrv.HandleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(SessionAuth(authSrv.Gateway, deps.Log))

		pr.Get("/", s.HandleHome)
		pr.Get("/product/{id}", s.HandleProduct)
		pr.Post("/purchase", s.HandlePurchase)

		pr.Group(func(ar chi.Router) {
			ar.Use(RequireAdmin)
			ar.Get("/admin", s.HandleAdmin)
			ar.Post("/update_product", s.HandleUpdateProduct)
		})
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) readyz(g *auth.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := map[string]func(context.Context) error{
			"users":     g.Users.Ping,
			"sessions":  g.Sessions.Ping,
			"catalog":   s.Catalog.Ping,
			"purchases": s.Proc.Purchases.Ping,
		}

		for name, ping := range checks {
			if err := ping(ctx); err != nil {
				if s.Log != nil {
					s.Log.Warn("readyz failed", zap.String("store", name), zap.Error(err))
				}
				kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", map[string]any{"store": name})
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
