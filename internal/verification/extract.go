package verification

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Signals are the candidate facts pulled out of a proof artifact.
type Signals struct {
	Amounts   []decimal.Decimal
	Currency  string
	Recipient string
	Timestamp time.Time
}

// SignalExtractor is a pluggable extraction strategy. The scorer treats the
// strategy as opaque and assumes nothing about its accuracy.
type SignalExtractor interface {
	Name() string
	Extract(ctx context.Context, payload []byte) (*Signals, error)
}

var (
	timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(?::\d{2})?(?:Z|[+-]\d{2}:\d{2})?`)
	amountRe    = regexp.MustCompile(`(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?`)
	labeledRe   = regexp.MustCompile(`(?i)(?:amount|total|paid|sum)\s*[:=]?\s*[^\d]{0,4}((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?)`)
	currencyRe  = regexp.MustCompile(`(?i)\b(USD|EUR|GBP|RUB|KZT|UAH|IDR|NGN|INR|BRL|TRY)\b`)
	recipientRe = regexp.MustCompile(`(?i)(?:to|recipient|beneficiary)\s*[:=]?\s+([A-Za-z0-9@._+-]{2,})`)
)

var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"₽": "RUB",
	"₹": "INR",
	"₺": "TRY",
}

// TextExtractor scans a text-like payload line by line for amount tokens,
// currency markers, a recipient identifier and a payment timestamp.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) Name() string {
	return "text"
}

func (e *TextExtractor) Extract(ctx context.Context, payload []byte) (*Signals, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("payload is not decodable text")
	}
	text := string(payload)

	signals := &Signals{}

	if ts := timestampRe.FindString(text); ts != "" {
		signals.Timestamp = parseTimestamp(ts)
	}
	// Timestamps are removed before the amount scan so their digit groups
	// are not mistaken for amounts.
	scanText := timestampRe.ReplaceAllString(text, " ")

	if m := currencyRe.FindStringSubmatch(scanText); m != nil {
		signals.Currency = strings.ToUpper(m[1])
	} else {
		for sym, code := range currencySymbols {
			if strings.Contains(scanText, sym) {
				signals.Currency = code
				break
			}
		}
	}

	if m := recipientRe.FindStringSubmatch(scanText); m != nil {
		signals.Recipient = m[1]
	}

	// Labeled amounts ("Amount: 20.00") are preferred; the unlabeled scan
	// is the fallback for free-form receipts.
	var tokens []string
	for _, m := range labeledRe.FindAllStringSubmatch(scanText, -1) {
		tokens = append(tokens, m[1])
	}
	if len(tokens) == 0 {
		tokens = amountRe.FindAllString(scanText, -1)
	}
	for _, tok := range tokens {
		d, err := decimal.NewFromString(strings.ReplaceAll(tok, ",", ""))
		if err != nil {
			continue
		}
		signals.Amounts = append(signals.Amounts, d)
	}
	if len(signals.Amounts) == 0 {
		return nil, fmt.Errorf("no amount-like tokens found")
	}

	return signals, nil
}

func parseTimestamp(raw string) time.Time {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
