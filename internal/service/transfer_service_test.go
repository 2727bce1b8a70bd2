package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kalasag/kalasag-go/internal/engine"
	"github.com/kalasag/kalasag-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validTransfer(amount float64) model.TransferRequest {
	return model.TransferRequest{
		AccountName:   "  Juan Dela Cruz ",
		AccountNumber: "1234-5678-90",
		Mobile:        "09171234567",
		Amount:        amount,
	}
}

func TestTransferService_Submit(t *testing.T) {
	svc := NewTransferService(zap.NewNop())
	svc.newID = func() string { return "ref-1" }

	tests := []struct {
		name       string
		amount     float64
		wantTier   engine.RiskTier
		wantStatus model.TransferStatus
		wantScreen model.OutcomeScreen
	}{
		{name: "low", amount: 4999.99, wantTier: engine.RiskLow, wantStatus: model.TransferCompleted, wantScreen: model.ScreenLowRisk},
		{name: "boundary", amount: 5000, wantTier: engine.RiskHigh, wantStatus: model.TransferPaused, wantScreen: model.ScreenHighRisk},
		{name: "high", amount: 12000, wantTier: engine.RiskHigh, wantStatus: model.TransferPaused, wantScreen: model.ScreenHighRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Submit(context.Background(), validTransfer(tt.amount))
			require.NoError(t, err)
			assert.Equal(t, "ref-1", out.ReferenceID)
			assert.Equal(t, "Juan Dela Cruz", out.AccountName)
			assert.Equal(t, "1234567890", out.AccountNumber)
			assert.Equal(t, tt.wantTier, out.Tier)
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantScreen, out.Screen)
			assert.Equal(t, tt.wantTier == engine.RiskHigh, out.GuardianPending)
			assert.NotContains(t, out.Options, "proceed")
		})
	}
}

func TestTransferService_Validation(t *testing.T) {
	svc := NewTransferService(zap.NewNop())

	req := model.TransferRequest{AccountName: "J", AccountNumber: "12-34", Mobile: "0817", Amount: 0}
	_, err := svc.Submit(context.Background(), req)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 4)
	assert.Contains(t, verr.Fields, "accountName")
	assert.Contains(t, verr.Fields, "accountNumber")
	assert.Contains(t, verr.Fields, "mobile")
	assert.Contains(t, verr.Fields, "amount")
	assert.Equal(t, "invalid transfer: accountName, accountNumber, amount, mobile", verr.Error())

	for _, amount := range []float64{-5, 0.001, math.NaN(), math.Inf(1)} {
		_, err := svc.Submit(context.Background(), validTransfer(amount))
		require.True(t, errors.As(err, &verr), "amount %v", amount)
		assert.Equal(t, []string{"amount"}, keys(verr.Fields))
	}
}

func TestTransferService_AccountNameCountsCharacters(t *testing.T) {
	svc := NewTransferService(zap.NewNop())

	req := validTransfer(100)
	req.AccountName = " 李 "
	_, err := svc.Submit(context.Background(), req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"accountName"}, keys(verr.Fields))

	req.AccountName = "李明"
	out, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "李明", out.AccountName)
}

func TestTransferService_Assess(t *testing.T) {
	svc := NewTransferService(zap.NewNop())

	tier, err := svc.Assess(5000)
	require.NoError(t, err)
	assert.Equal(t, engine.RiskHigh, tier)

	_, err = svc.Assess(-5)
	assert.ErrorIs(t, err, engine.ErrInvalidAmount)
}

func TestTransferService_CancelledContext(t *testing.T) {
	svc := NewTransferService(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Submit(ctx, validTransfer(100))
	assert.ErrorIs(t, err, context.Canceled)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
