package verification

import (
	"context"
	"time"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultAutoVerifyThreshold = 0.85
	DefaultRecencyWindow       = 72 * time.Hour
	DefaultBudget              = 10 * time.Second
)

// Component weights. Components without an applicable expectation or signal
// (no expected recipient, no timestamp found) drop out of both the earned
// and the applicable weight, so their absence neither helps nor hurts.
const (
	amountWeight    = 0.5
	currencyWeight  = 0.2
	recipientWeight = 0.15
	recencyWeight   = 0.15
)

// Expectation is what the order says the proof should show.
type Expectation struct {
	Amount      float64
	Currency    string
	OrderNumber string
	Recipient   string
}

type Config struct {
	AutoVerifyThreshold float64
	RecencyWindow       time.Duration
	Budget              time.Duration
}

func DefaultConfig() Config {
	return Config{
		AutoVerifyThreshold: DefaultAutoVerifyThreshold,
		RecencyWindow:       DefaultRecencyWindow,
		Budget:              DefaultBudget,
	}
}

// Scorer derives a confidence score for a proof payload. Score never
// returns an error: malformed or unreadable input yields confidence 0 with
// a failure reason, so extraction failure can only ever fail safe toward
// manual review.
type Scorer interface {
	Score(ctx context.Context, payload []byte, exp Expectation) *domain.VerificationResult
}

type DefaultScorer struct {
	extractor SignalExtractor
	cfg       Config
	now       func() time.Time
}

func NewDefaultScorer(extractor SignalExtractor, cfg Config) *DefaultScorer {
	if cfg.AutoVerifyThreshold <= 0 {
		cfg.AutoVerifyThreshold = DefaultAutoVerifyThreshold
	}
	if cfg.RecencyWindow <= 0 {
		cfg.RecencyWindow = DefaultRecencyWindow
	}
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultBudget
	}
	return &DefaultScorer{
		extractor: extractor,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *DefaultScorer) Score(ctx context.Context, payload []byte, exp Expectation) *domain.VerificationResult {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Budget)
	defer cancel()

	type extraction struct {
		signals *Signals
		err     error
	}
	ch := make(chan extraction, 1)
	go func() {
		signals, err := s.extractor.Extract(ctx, payload)
		ch <- extraction{signals: signals, err: err}
	}()

	select {
	case <-ctx.Done():
		return failSafe("verification budget exceeded")
	case ext := <-ch:
		if ext.err != nil {
			return failSafe(ext.err.Error())
		}
		return s.evaluate(ext.signals, exp)
	}
}

func failSafe(reason string) *domain.VerificationResult {
	return &domain.VerificationResult{
		ConfidenceScore:  0,
		IsAutoVerifiable: false,
		FailureReason:    reason,
	}
}

func (s *DefaultScorer) evaluate(signals *Signals, exp Expectation) *domain.VerificationResult {
	expected := decimal.NewFromFloat(exp.Amount)

	earned := 0.0
	applicable := amountWeight + currencyWeight

	amountScore, detected, exactAmount := scoreAmount(signals.Amounts, expected)
	earned += amountScore * amountWeight

	currencyMatch := signals.Currency != "" && signals.Currency == exp.Currency
	if currencyMatch {
		earned += currencyWeight
	}

	recipientMatch := false
	if exp.Recipient != "" {
		applicable += recipientWeight
		recipientMatch = matchesRecipient(signals.Recipient, exp.Recipient)
		if recipientMatch {
			earned += recipientWeight
		}
	}

	if !signals.Timestamp.IsZero() {
		applicable += recencyWeight
		age := s.now().Sub(signals.Timestamp)
		if age >= 0 && age <= s.cfg.RecencyWindow {
			earned += recencyWeight
		}
	}

	score := earned / applicable
	if score > 1 {
		score = 1
	}

	detectedAmount, _ := detected.Float64()
	result := &domain.VerificationResult{
		DetectedAmount:   detectedAmount,
		DetectedCurrency: signals.Currency,
		RecipientMatch:   recipientMatch,
		ConfidenceScore:  score,
		IsAutoVerifiable: score >= s.cfg.AutoVerifyThreshold && exactAmount && currencyMatch,
	}
	if !exactAmount {
		result.FailureReason = "detected amount does not exactly match the order total"
	}
	return result
}

// scoreAmount returns the amount component in [0,1], the closest detected
// amount and whether any detected amount matches exactly. A fuzzy match is
// capped at half the exact-match score and decays with the relative
// mismatch, so widening the mismatch can never raise the score.
func scoreAmount(amounts []decimal.Decimal, expected decimal.Decimal) (float64, decimal.Decimal, bool) {
	if len(amounts) == 0 || expected.IsZero() {
		return 0, decimal.Zero, false
	}

	closest := amounts[0]
	closestDiff := amounts[0].Sub(expected).Abs()
	for _, a := range amounts[1:] {
		diff := a.Sub(expected).Abs()
		if a.Equal(expected) {
			return 1, a, true
		}
		if diff.LessThan(closestDiff) {
			closest = a
			closestDiff = diff
		}
	}
	if closest.Equal(expected) {
		return 1, closest, true
	}

	relDiff, _ := closestDiff.Div(expected).Float64()
	fuzzy := 0.5 * (1 - 4*relDiff)
	if fuzzy < 0 {
		fuzzy = 0
	}
	return fuzzy, closest, false
}

func matchesRecipient(detected, expected string) bool {
	if detected == "" {
		return false
	}
	return normalizeRecipient(detected) == normalizeRecipient(expected)
}

func normalizeRecipient(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		}
	}
	return string(out)
}
