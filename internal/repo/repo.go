package repo

import (
	"github.com/alexsokolov87/creditspin/internal/pg"
	idempotencyrepo "github.com/alexsokolov87/creditspin/internal/repo/idempotency-repo"
	ledgerrepo "github.com/alexsokolov87/creditspin/internal/repo/ledger-repo"
	paymentrepo "github.com/alexsokolov87/creditspin/internal/repo/payment-repo"
	webhookrepo "github.com/alexsokolov87/creditspin/internal/repo/webhook-repo"
)

// Repositories holds the concrete stores. Payment and ledger repos serve
// several services behind narrower per-service interfaces.
type Repositories struct {
	LedgerRepo      *ledgerrepo.Repository
	PaymentRepo     *paymentrepo.Repository
	IdempotencyRepo *idempotencyrepo.Repository
	EventLog        *webhookrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	ledgerRepo := ledgerrepo.New(conn, txManager)
	paymentRepo := paymentrepo.New(conn)
	idempotencyRepo := idempotencyrepo.New(conn)
	eventLog := webhookrepo.New(conn)

	return &Repositories{
		LedgerRepo:      ledgerRepo,
		PaymentRepo:     paymentRepo,
		IdempotencyRepo: idempotencyRepo,
		EventLog:        eventLog,
	}
}
