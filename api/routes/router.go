package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/controllers"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/api/middleware"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/auth"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/cards"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/dashboard"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/invoices"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/merchants"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/payments"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/internal/transactions"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/config"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/db"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/logger"
	"github.com/Stanislavcck/SmartMerchant-New-Repo/pkg/redis"
)

// NewRouter assembles the HTTP surface. Public payment and auth routes sit
// outside the session gate; everything merchant-facing requires a session and
// a resolved merchant.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	authService auth.Service,
	cardService cards.Service,
	merchantService merchants.Service,
	invoiceService invoices.Service,
	transactionService transactions.Service,
	paymentService payments.Service,
	dashboardService dashboard.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(dbClient, redisClient, logg))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Payer-facing routes: no session. The invoice read backs the hosted
		// payment page.
		r.Post("/payment/pay", controllers.PaymentPay(paymentService, logg))
		r.Get("/invoice/{guid}", controllers.InvoicePublicGet(invoiceService, logg))

		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/authorization/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/authorization/login", controllers.AuthLogin(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authService, logg))

			r.Post("/authorization/logout", controllers.AuthLogout(authService, logg))
			r.Get("/authorization/user", controllers.AuthGetUser(authService, logg))
			r.Put("/authorization/user", controllers.AuthUpdateUser(authService, logg))
			r.Post("/authorization/user/change-password", controllers.AuthChangePassword(authService, logg))

			r.Get("/card", controllers.CardList(cardService, logg))
			r.Post("/card", controllers.CardCreate(cardService, logg))
			r.Get("/card/{id}", controllers.CardGet(cardService, logg))
			r.Put("/card/{id}", controllers.CardUpdate(cardService, logg))
			r.Delete("/card/{id}", controllers.CardDelete(cardService, logg))

			// Merchant creation needs a session but no existing merchant.
			r.Post("/merchant", controllers.MerchantCreate(merchantService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Merchant(merchantService, logg))

				r.Get("/merchant", controllers.MerchantGet(merchantService, logg))
				r.Put("/merchant", controllers.MerchantUpdate(merchantService, logg))
				r.Post("/merchant/add-balance", controllers.MerchantAddBalance(merchantService, logg))
				r.Get("/merchant/transactions", controllers.MerchantTransactions(transactionService, logg))

				// Invoice detail reads go through the public GET above; the
				// merchant console only needs list, create, delete and mark-paid.
				r.Get("/invoice", controllers.InvoiceList(invoiceService, logg))
				r.Post("/invoice", controllers.InvoiceCreate(invoiceService, logg))
				r.Delete("/invoice/{guid}", controllers.InvoiceDelete(invoiceService, logg))
				r.Post("/invoice/{guid}/mark-paid", controllers.InvoiceMarkPaid(invoiceService, authService, logg))

				r.Get("/dashboard/stats", controllers.DashboardStats(dashboardService, logg))
				r.Get("/dashboard/transactions", controllers.DashboardTransactions(dashboardService, logg))
			})
		})
	})

	return r
}
