package verification_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaarkit/bazaar-order-service/internal/verification"
)

func newScorer(t *testing.T) *verification.DefaultScorer {
	t.Helper()
	return verification.NewDefaultScorer(verification.NewTextExtractor(), verification.DefaultConfig())
}

func TestScore_ExactAmountAndCurrency_IsAutoVerifiable(t *testing.T) {
	scorer := newScorer(t)
	payload := []byte("Payment received.\nAmount: 150.00 USD\nThank you!")

	result := scorer.Score(context.Background(), payload, verification.Expectation{
		Amount:   150,
		Currency: "USD",
	})

	assert.InDelta(t, 150.0, result.DetectedAmount, 0.001)
	assert.Equal(t, "USD", result.DetectedCurrency)
	assert.GreaterOrEqual(t, result.ConfidenceScore, 0.85)
	assert.True(t, result.IsAutoVerifiable)
	assert.Empty(t, result.FailureReason)
}

func TestScore_UndecodablePayload_FailsSafeToZero(t *testing.T) {
	scorer := newScorer(t)
	payload := []byte{0xff, 0xfe, 0xfd}

	result := scorer.Score(context.Background(), payload, verification.Expectation{
		Amount:   150,
		Currency: "USD",
	})

	assert.Zero(t, result.ConfidenceScore)
	assert.False(t, result.IsAutoVerifiable)
	assert.NotEmpty(t, result.FailureReason)
}

func TestScore_FuzzyAmount_NeverReachesExactScore(t *testing.T) {
	scorer := newScorer(t)
	exp := verification.Expectation{Amount: 150, Currency: "USD"}

	exact := scorer.Score(context.Background(), []byte("Amount: 150.00 USD"), exp)
	near := scorer.Score(context.Background(), []byte("Amount: 140.00 USD"), exp)
	far := scorer.Score(context.Background(), []byte("Amount: 120.00 USD"), exp)

	assert.True(t, exact.IsAutoVerifiable)
	assert.False(t, near.IsAutoVerifiable)
	assert.False(t, far.IsAutoVerifiable)

	assert.Less(t, near.ConfidenceScore, exact.ConfidenceScore)
	assert.Less(t, far.ConfidenceScore, near.ConfidenceScore)
	assert.NotEmpty(t, near.FailureReason)
}

func TestScore_WrongCurrency_BlocksAutoVerification(t *testing.T) {
	scorer := newScorer(t)

	result := scorer.Score(context.Background(), []byte("Amount: 150.00 EUR"), verification.Expectation{
		Amount:   150,
		Currency: "USD",
	})

	assert.False(t, result.IsAutoVerifiable)
	assert.Equal(t, "EUR", result.DetectedCurrency)
}

func TestScore_StaleTimestamp_BlocksAutoVerification(t *testing.T) {
	scorer := newScorer(t)
	stale := time.Now().Add(-30 * 24 * time.Hour).UTC().Format("2006-01-02 15:04:05")
	recent := time.Now().Add(-time.Hour).UTC().Format("2006-01-02 15:04:05")

	exp := verification.Expectation{Amount: 150, Currency: "USD"}
	staleResult := scorer.Score(context.Background(), []byte("Paid 150.00 USD on "+stale), exp)
	recentResult := scorer.Score(context.Background(), []byte("Paid 150.00 USD on "+recent), exp)

	assert.True(t, recentResult.IsAutoVerifiable)
	assert.False(t, staleResult.IsAutoVerifiable)
	assert.Less(t, staleResult.ConfidenceScore, recentResult.ConfidenceScore)
}

type stallingExtractor struct{}

func (stallingExtractor) Name() string { return "stalling" }

func (stallingExtractor) Extract(ctx context.Context, _ []byte) (*verification.Signals, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestScore_BudgetExceeded_FailsSafe(t *testing.T) {
	scorer := verification.NewDefaultScorer(stallingExtractor{}, verification.Config{
		Budget: 20 * time.Millisecond,
	})

	start := time.Now()
	result := scorer.Score(context.Background(), []byte("Amount: 150.00 USD"), verification.Expectation{
		Amount:   150,
		Currency: "USD",
	})

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Zero(t, result.ConfidenceScore)
	assert.False(t, result.IsAutoVerifiable)
	assert.NotEmpty(t, result.FailureReason)
}

func TestTextExtractor_ReadsLabeledAmountsAndSeparators(t *testing.T) {
	extractor := verification.NewTextExtractor()

	signals, err := extractor.Extract(context.Background(), []byte("Total: 1,250.00 USD to shop-wallet"))

	require.NoError(t, err)
	require.Len(t, signals.Amounts, 1)
	assert.True(t, signals.Amounts[0].Equal(decimal.NewFromInt(1250)))
	assert.Equal(t, "USD", signals.Currency)
	assert.Equal(t, "shop-wallet", signals.Recipient)
}

func TestTextExtractor_TimestampDigitsAreNotAmounts(t *testing.T) {
	extractor := verification.NewTextExtractor()

	signals, err := extractor.Extract(context.Background(), []byte("2025-03-14 10:30:00 payment of 99.50"))

	require.NoError(t, err)
	require.Len(t, signals.Amounts, 1)
	assert.True(t, signals.Amounts[0].Equal(decimal.NewFromFloat(99.5)))
	assert.False(t, signals.Timestamp.IsZero())
}

func TestTextExtractor_NoAmounts_ReturnsError(t *testing.T) {
	extractor := verification.NewTextExtractor()

	_, err := extractor.Extract(context.Background(), []byte("thanks for your purchase"))

	require.Error(t, err)
}
