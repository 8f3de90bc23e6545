package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SpinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creditspin_spins_total",
		Help: "Spins processed, by result.",
	}, []string{"result"})

	SpinPayoutCredits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creditspin_spin_payout_credits_total",
		Help: "Credits paid out as spin winnings.",
	})

	SpinBetCredits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creditspin_spin_bet_credits_total",
		Help: "Credits staked on spins.",
	})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creditspin_webhook_events_total",
		Help: "Inbound payment webhook deliveries, by terminal result.",
	}, []string{"result"})

	CreditsPurchasedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creditspin_credits_purchased_total",
		Help: "Credits added to balances from completed purchases.",
	})

	LedgerInconsistenciesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creditspin_ledger_inconsistencies_total",
		Help: "Spins that debited the stake but failed to credit the win. Requires manual reconciliation.",
	})
)
