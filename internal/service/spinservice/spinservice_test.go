package spinservice

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/metrics"
)

func NewMock(t *testing.T) (*Service, *MockLedger, *MockEngine) {
	ctrl := gomock.NewController(t)
	ledger := NewMockLedger(ctrl)
	engine := NewMockEngine(ctrl)
	service := New(ledger, engine)
	defer ctrl.Finish()
	return service, ledger, engine
}

func TestSpin_InvalidBet(t *testing.T) {
	service, _, _ := NewMock(t)

	for _, bet := range []int64{0, -10, 3, 7, 1000} {
		result, err := service.Spin(context.Background(), "acc-1", bet)
		assert.ErrorIs(t, err, domain.ErrInvalidBet)
		assert.Nil(t, result)
	}
}

func TestSpin_InsufficientBalanceBeforeAnySideEffect(t *testing.T) {
	service, ledger, _ := NewMock(t)
	ledger.EXPECT().GetOrCreateAccount(gomock.Any(), "acc-1").
		Return(&domain.Account{ID: "acc-1", Balance: 5}, nil)
	// No Debit, no engine call: a failed precheck computes no outcome.

	result, err := service.Spin(context.Background(), "acc-1", 10)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Nil(t, result)
}

func TestSpin_DebitFailureAbortsWithoutOutcome(t *testing.T) {
	service, ledger, _ := NewMock(t)
	ledger.EXPECT().GetOrCreateAccount(gomock.Any(), "acc-1").
		Return(&domain.Account{ID: "acc-1", Balance: 100}, nil)
	// A concurrent spin drained the balance between precheck and debit.
	ledger.EXPECT().Debit(gomock.Any(), "acc-1", int64(10), domain.KindBet, nil).
		Return(nil, domain.ErrInsufficientBalance)

	rejectedBefore := testutil.ToFloat64(metrics.SpinsTotal.WithLabelValues("rejected"))

	result, err := service.Spin(context.Background(), "acc-1", 10)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Nil(t, result)
	assert.Equal(t, rejectedBefore+1, testutil.ToFloat64(metrics.SpinsTotal.WithLabelValues("rejected")))
}

func TestSpin_StorageFailureCountedApartFromRejections(t *testing.T) {
	service, ledger, _ := NewMock(t)
	ledger.EXPECT().GetOrCreateAccount(gomock.Any(), "acc-1").
		Return(&domain.Account{ID: "acc-1", Balance: 100}, nil)
	ledger.EXPECT().Debit(gomock.Any(), "acc-1", int64(10), domain.KindBet, nil).
		Return(nil, errors.New("storage unavailable"))

	rejectedBefore := testutil.ToFloat64(metrics.SpinsTotal.WithLabelValues("rejected"))
	failedBefore := testutil.ToFloat64(metrics.SpinsTotal.WithLabelValues("failed"))

	result, err := service.Spin(context.Background(), "acc-1", 10)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(metrics.SpinsTotal.WithLabelValues("failed")))
	assert.Equal(t, rejectedBefore, testutil.ToFloat64(metrics.SpinsTotal.WithLabelValues("rejected")))
}

func TestSpin_LosingSpin(t *testing.T) {
	service, ledger, engine := NewMock(t)
	ledger.EXPECT().GetOrCreateAccount(gomock.Any(), "acc-1").
		Return(&domain.Account{ID: "acc-1", Balance: 100}, nil)
	ledger.EXPECT().Debit(gomock.Any(), "acc-1", int64(10), domain.KindBet, nil).
		Return(&domain.LedgerTransaction{ID: 1, Amount: -10, BalanceAfter: 90}, nil)
	engine.EXPECT().Spin(int64(10)).Return(&domain.SpinOutcome{
		SpinID: "s-1", Reels: [3]string{"cherry", "lemon", "orange"},
	}, nil)
	// No win, no credit.

	result, err := service.Spin(context.Background(), "acc-1", 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(90), result.Balance)
	assert.Equal(t, int64(1), result.BetTransactionID)
	assert.Nil(t, result.WinTransactionID)
	assert.Equal(t, int64(0), result.Outcome.WinAmount)
}

func TestSpin_JackpotCreditsWinnings(t *testing.T) {
	service, ledger, engine := NewMock(t)
	outcome := &domain.SpinOutcome{
		SpinID:     "s-777",
		Reels:      [3]string{"seven", "seven", "seven"},
		Multiplier: 100,
		WinAmount:  1000,
		IsJackpot:  true,
	}

	ledger.EXPECT().GetOrCreateAccount(gomock.Any(), "acc-1").
		Return(&domain.Account{ID: "acc-1", Balance: 50}, nil)
	ledger.EXPECT().Debit(gomock.Any(), "acc-1", int64(10), domain.KindBet, nil).
		Return(&domain.LedgerTransaction{ID: 1, Amount: -10, BalanceAfter: 40}, nil)
	engine.EXPECT().Spin(int64(10)).Return(outcome, nil)
	ledger.EXPECT().Credit(gomock.Any(), "acc-1", int64(1000), domain.KindWin,
		map[string]string{"spin_id": "s-777", "multiplier": "100"}, "").
		Return(&domain.LedgerTransaction{ID: 2, Amount: 1000, BalanceAfter: 1040}, nil)

	result, err := service.Spin(context.Background(), "acc-1", 10)
	assert.NoError(t, err)
	assert.True(t, result.Outcome.IsJackpot)
	assert.Equal(t, int64(1040), result.Balance)
	assert.Equal(t, int64(1), result.BetTransactionID)
	assert.NotNil(t, result.WinTransactionID)
	assert.Equal(t, int64(2), *result.WinTransactionID)
}

func TestSpin_CreditFailureIsDistinctFatalClass(t *testing.T) {
	service, ledger, engine := NewMock(t)
	outcome := &domain.SpinOutcome{SpinID: "s-9", Multiplier: 2, WinAmount: 20}

	ledger.EXPECT().GetOrCreateAccount(gomock.Any(), "acc-1").
		Return(&domain.Account{ID: "acc-1", Balance: 100}, nil)
	ledger.EXPECT().Debit(gomock.Any(), "acc-1", int64(10), domain.KindBet, nil).
		Return(&domain.LedgerTransaction{ID: 1, BalanceAfter: 90}, nil)
	engine.EXPECT().Spin(int64(10)).Return(outcome, nil)
	ledger.EXPECT().Credit(gomock.Any(), "acc-1", int64(20), domain.KindWin, gomock.Any(), "").
		Return(nil, errors.New("storage unavailable"))

	result, err := service.Spin(context.Background(), "acc-1", 10)
	assert.ErrorIs(t, err, domain.ErrCreditAfterDebit)
	assert.Nil(t, result)
}
