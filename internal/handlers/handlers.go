package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/alexsokolov87/creditspin/docs"
	"github.com/alexsokolov87/creditspin/internal/config"
	adminhandlers "github.com/alexsokolov87/creditspin/internal/handlers/admin"
	authhandlers "github.com/alexsokolov87/creditspin/internal/handlers/auth"
	gamehandlers "github.com/alexsokolov87/creditspin/internal/handlers/game"
	purchasehandlers "github.com/alexsokolov87/creditspin/internal/handlers/purchase"
	webhookhandlers "github.com/alexsokolov87/creditspin/internal/handlers/webhook"
	"github.com/alexsokolov87/creditspin/internal/repo"
	"github.com/alexsokolov87/creditspin/internal/service"
	"github.com/alexsokolov87/creditspin/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type GameHandler interface {
	Spin(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type PurchaseHandler interface {
	CreatePurchase(w http.ResponseWriter, r *http.Request)
}

type WebhookHandler interface {
	Process(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	Middleware(next http.Handler) http.Handler
	GetTransactions(w http.ResponseWriter, r *http.Request)
	GetPayments(w http.ResponseWriter, r *http.Request)
	GetWebhookEvents(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler     AuthHandler
	GameHandler     GameHandler
	PurchaseHandler PurchaseHandler
	WebhookHandler  WebhookHandler
	AdminHandler    AdminHandler
}

func New(cfg *config.Config, s *service.Services, r *repo.Repositories) *Handlers {
	return &Handlers{
		AuthHandler:     authhandlers.New(s.AuthService),
		GameHandler:     gamehandlers.New(s.SpinService, s.LedgerService),
		PurchaseHandler: purchasehandlers.New(s.PurchaseService),
		WebhookHandler:  webhookhandlers.New(s.WebhookService),
		AdminHandler:    adminhandlers.New(s.LedgerService, s.PurchaseService, r.EventLog, cfg.AdminToken),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)
		})

		// Provider-facing, authenticated by the event's idempotency key, not
		// a player token.
		r.Post("/webhooks/payment", h.WebhookHandler.Process)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Route("/game", func(r chi.Router) {
				r.Post("/spin", h.GameHandler.Spin)
				r.Get("/balance", h.GameHandler.GetBalance)
				r.Get("/transactions", h.GameHandler.GetTransactions)
			})
			r.Post("/purchases", h.PurchaseHandler.CreatePurchase)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.AdminHandler.Middleware)
			r.Get("/transactions", h.AdminHandler.GetTransactions)
			r.Get("/payments", h.AdminHandler.GetPayments)
			r.Get("/webhook-events", h.AdminHandler.GetWebhookEvents)
		})
	})

	return r
}
