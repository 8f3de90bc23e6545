package service

import (
	"github.com/alexsokolov87/creditspin/internal/config"
	"github.com/alexsokolov87/creditspin/internal/engine"
	"github.com/alexsokolov87/creditspin/internal/repo"
	authservice "github.com/alexsokolov87/creditspin/internal/service/authservice"
	ledgerservice "github.com/alexsokolov87/creditspin/internal/service/ledgerservice"
	purchaseservice "github.com/alexsokolov87/creditspin/internal/service/purchaseservice"
	spinservice "github.com/alexsokolov87/creditspin/internal/service/spinservice"
	webhookservice "github.com/alexsokolov87/creditspin/internal/service/webhookservice"

	"github.com/alexsokolov87/creditspin/internal/provider"
	pkgauth "github.com/alexsokolov87/creditspin/pkg/auth"
)

type Services struct {
	AuthService     *authservice.Service
	LedgerService   *ledgerservice.Service
	SpinService     *spinservice.Service
	WebhookService  *webhookservice.Service
	PurchaseService *purchaseservice.Service
}

func New(cfg *config.Config, repo *repo.Repositories, providerClient *provider.Client) *Services {
	ledgerService := ledgerservice.New(repo.LedgerRepo, cfg.StartingBalance)
	authService := authservice.New(repo.LedgerRepo, &pkgauth.HashService{}, &pkgauth.JWTService{}, cfg.StartingBalance)
	spinService := spinservice.New(ledgerService, engine.New(engine.CryptoSource{}))
	webhookService := webhookservice.New(ledgerService, repo.PaymentRepo, repo.IdempotencyRepo, repo.EventLog, cfg.IdempotencyTTL)
	purchaseService := purchaseservice.New(providerClient, repo.PaymentRepo, ledgerService)

	return &Services{
		AuthService:     authService,
		LedgerService:   ledgerService,
		SpinService:     spinService,
		WebhookService:  webhookService,
		PurchaseService: purchaseService,
	}
}
