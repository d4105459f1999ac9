package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-admin/api/controllers"
	"github.com/angelmondragon/storefront-admin/api/middleware"
	"github.com/angelmondragon/storefront-admin/api/validators"
	"github.com/angelmondragon/storefront-admin/internal/auth"
	"github.com/angelmondragon/storefront-admin/internal/dashboard"
	"github.com/angelmondragon/storefront-admin/internal/storefront"
	"github.com/angelmondragon/storefront-admin/internal/uploads"
	"github.com/angelmondragon/storefront-admin/pkg/auth/session"
	"github.com/angelmondragon/storefront-admin/pkg/config"
	"github.com/angelmondragon/storefront-admin/pkg/enums"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/metrics"
	"github.com/angelmondragon/storefront-admin/pkg/redis"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
)

// AdminResources are the handler sets mounted under /api/admin.
type AdminResources struct {
	Banners        ResourceHandlers
	Users          ResourceHandlers
	Products       ResourceHandlers
	Categories     ResourceHandlers
	Attributes     ResourceHandlers
	Variants       ResourceHandlers
	Reviews        ResourceHandlers
	SupportTickets ResourceHandlers
	Wishlists      ResourceHandlers
	Cart           ResourceHandlers
	AddressBook    ResourceHandlers
}

// Deps is everything the router mounts. Optional pieces may be nil:
// without a limiter auth is not rate limited, without an idempotency store
// keys are ignored, and /metrics and /storage are only served when their
// dependency is set.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
	Ready       map[string]controllers.Pinger
	Sessions    session.AccessSessionChecker
	Limiter     middleware.RateLimiter
	Idempotency redis.IdempotencyStore
	Files       storage.URLResolver
	// LocalFiles is served under the storage public path.
	LocalFiles *storage.LocalStore

	Auth       auth.Service
	Uploads    uploads.Service
	Dashboard  dashboard.Service
	Storefront storefront.Service
	Admin      AdminResources
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
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
	requireAuth := middleware.Auth(cfg.JWT, d.Sessions, logg)
	maxUpload := cfg.Storage.MaxUploadBytes()

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Ready))
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}
	if d.LocalFiles != nil {
		public := "/" + strings.Trim(cfg.Storage.PublicPath, "/")
		r.Handle(public+"/*", http.StripPrefix(public, http.FileServer(http.Dir(d.LocalFiles.Root()))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", controllers.StorefrontHome(d.Storefront, logg))
		r.Get("/products", controllers.StorefrontProducts(d.Storefront, d.Files, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, d.Limiter, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, d.Limiter, logg)).Post("/register", controllers.AuthRegister(d.Auth, logg))
			if !cfg.App.IsProd() || cfg.FeatureFlags.AllowAdminRegister {
				r.With(middleware.AuthRateLimit(registerPolicy, d.Limiter, logg)).Post("/admin/register", controllers.AuthRegisterAdmin(d.Auth, logg))
			}
			r.Post("/google", controllers.AuthGoogle(d.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
			r.With(requireAuth).Post("/logout", controllers.AuthLogout(d.Auth, logg))
			r.With(requireAuth).Get("/me", controllers.AuthMe(d.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.Idempotency(d.Idempotency, validators.BodyAllowance(maxUpload*validators.MaxFormFiles), logg))

			r.Route("/uploads", func(r chi.Router) {
				r.Post("/", controllers.UploadFile(d.Uploads, maxUpload, logg))
				r.Post("/multiple", controllers.UploadFiles(d.Uploads, maxUpload, logg))
				r.Delete("/", controllers.DeleteUpload(d.Uploads, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
				r.Get("/", controllers.AdminDashboard(d.Dashboard, logg))

				a := d.Admin
				AdminResource(r, "banners", a.Banners, WithForcePath("force"))
				AdminResource(r, "users", a.Users)
				AdminResource(r, "products", a.Products)
				AdminResource(r, "categories", a.Categories)
				AdminResource(r, "attributes", a.Attributes)
				AdminResource(r, "productvariants", a.Variants)
				AdminResource(r, "product_reviews", a.Reviews)
				AdminResource(r, "support_tickets", a.SupportTickets)
				AdminResource(r, "wishlists", a.Wishlists)
				AdminResource(r, "cart", a.Cart)
				AdminResource(r, "address_book", a.AddressBook)
			})
		})
	})

	return middleware.MethodOverride(r)
}
