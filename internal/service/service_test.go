package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexsokolov87/creditspin/internal/config"
	"github.com/alexsokolov87/creditspin/internal/provider"
	"github.com/alexsokolov87/creditspin/internal/repo"
	"github.com/alexsokolov87/creditspin/pkg/clients"
)

func TestNew(t *testing.T) {
	cfg := &config.Config{
		StartingBalance: 100,
		IdempotencyTTL:  5 * time.Minute,
	}
	repos := &repo.Repositories{}
	providerClient := provider.New(cfg, clients.NewHTTPClient())

	services := New(cfg, repos, providerClient)

	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.LedgerService)
	assert.NotNil(t, services.SpinService)
	assert.NotNil(t, services.WebhookService)
	assert.NotNil(t, services.PurchaseService)
}
