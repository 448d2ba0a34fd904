package classification

import (
	"testing"
	"time"

	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier()
	require.NoError(t, err)
	return c
}

func TestClassify_DebitWithMerchant(t *testing.T) {
	c := newTestClassifier(t)

	parsed := c.Classify(
		"Spent Rs.657.44 On HDFC Bank Card 0586 At ZOMATO On 2026-01-08:14:22:20.Not You?",
		"HDFCBK",
		time.Date(2026, 1, 8, 14, 22, 20, 0, time.UTC),
	)

	assert.True(t, parsed.IsTransaction)
	assert.Equal(t, model.DirectionDebit, parsed.Direction)
	assert.InDelta(t, 657.44, parsed.Amount, 0.001)
	assert.Contains(t, parsed.Merchant, "ZOMATO")
	assert.Equal(t, "0586", parsed.CardLast4)
	assert.Equal(t, model.CategoryFood, parsed.Category)
	assert.GreaterOrEqual(t, parsed.Confidence, AcceptThreshold)
}

func TestClassify_CreditFromBank(t *testing.T) {
	c := newTestClassifier(t)

	parsed := c.Classify(
		"Rs.5000.00 credited to your A/C *5495 on 08/01/26. NEFT from JOHN DOE",
		"ICICIB",
		time.Now(),
	)

	assert.True(t, parsed.IsTransaction)
	assert.Equal(t, model.DirectionCredit, parsed.Direction)
	assert.InDelta(t, 5000.00, parsed.Amount, 0.001)
	assert.Equal(t, "5495", parsed.CardLast4)
}

func TestClassify_RejectsNonFinancial(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name   string
		body   string
		sender string
	}{
		{
			name:   "otp message",
			body:   "Your OTP is 482917, valid for 10 minutes",
			sender: "VM-NOTICE",
		},
		{
			name:   "promotional",
			body:   "Flat 50% off this weekend only! Visit our website now",
			sender: "DM-PROMO",
		},
		{
			name:   "empty body",
			body:   "",
			sender: "HDFCBK",
		},
		{
			name:   "too short",
			body:   "Rs.100",
			sender: "HDFCBK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := c.Classify(tt.body, tt.sender, time.Now())
			assert.False(t, parsed.IsTransaction)
			assert.Less(t, parsed.Confidence, AcceptThreshold)
		})
	}
}

func TestClassify_AmountIsMandatory(t *testing.T) {
	c := newTestClassifier(t)

	// Debit keyword but no extractable amount.
	parsed := c.Classify("Your payment request has been noted by the bank", "HDFCBK", time.Now())

	assert.False(t, parsed.IsTransaction)
	assert.False(t, parsed.HasAmount())
}

func TestClassify_ThousandsSeparators(t *testing.T) {
	c := newTestClassifier(t)

	parsed := c.Classify("INR 1,50,000.50 debited from A/c XX1234 via NEFT", "SBIINB", time.Now())

	assert.True(t, parsed.IsTransaction)
	assert.InDelta(t, 150000.50, parsed.Amount, 0.001)
	assert.Equal(t, "1234", parsed.CardLast4)
}

func TestClassify_BothKeywordsEarliestWins(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name string
		body string
		want model.Direction
	}{
		{
			name: "debit first",
			body: "Rs.200 debited from A/c XX9999; it will be credited back within 5 days",
			want: model.DirectionDebit,
		},
		{
			name: "credit first",
			body: "Rs.200 credited to A/c XX9999 after the merchant charged you in error",
			want: model.DirectionCredit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := c.Classify(tt.body, "HDFCBK", time.Now())
			assert.True(t, parsed.IsTransaction)
			assert.Equal(t, tt.want, parsed.Direction)
		})
	}
}

func TestClassify_BankSignalOnlyDefaultsToDebit(t *testing.T) {
	c := newTestClassifier(t)

	// No direction keyword anywhere; "upi" in the body supplies the bank
	// signal that lets the message through the gate.
	parsed := c.Classify("Rs.99 txn via upi ref 482910238", "AX-UNKNWN", time.Now())

	assert.True(t, parsed.IsTransaction)
	assert.Equal(t, model.DirectionDebit, parsed.Direction)
}

func TestClassify_UPIMerchant(t *testing.T) {
	c := newTestClassifier(t)

	parsed := c.Classify(
		"Rs.499.00 debited from A/c XX1234 on 06-Jan-25. UPI:SWIGGY. Avl Bal:Rs.15,234.50",
		"HDFCBK",
		time.Now(),
	)

	assert.True(t, parsed.IsTransaction)
	assert.Equal(t, model.DirectionDebit, parsed.Direction)
	assert.InDelta(t, 499.00, parsed.Amount, 0.001)
	assert.Equal(t, model.CategoryFood, parsed.Category)
}

func TestClassify_MerchantTruncatedAndCollapsed(t *testing.T) {
	c := newTestClassifier(t)

	parsed := c.Classify(
		"Rs.100 paid to SOME    VERY LONG MERCHANT NAME THAT KEEPS GOING AND GOING AND GOING FOREVER",
		"GPAY",
		time.Now(),
	)

	assert.True(t, parsed.IsTransaction)
	assert.LessOrEqual(t, len(parsed.Merchant), 50)
	assert.NotContains(t, parsed.Merchant, "  ")
}

func TestClassify_NeverErrorsOnGarbage(t *testing.T) {
	c := newTestClassifier(t)

	inputs := []string{
		"\x00\x01\x02 garbage bytes with bank keyword",
		"₹₹₹₹₹₹₹₹₹₹₹₹",
		"Rs.-50 debited from your account",
	}
	for _, body := range inputs {
		parsed := c.Classify(body, "", time.Now())
		assert.False(t, parsed.IsTransaction, "input %q", body)
	}
}

// Pattern order is a contract: specific patterns before generic fallbacks.
func TestDefaultPatternOrder(t *testing.T) {
	amountNames := make([]string, 0)
	for _, p := range DefaultAmountPatterns() {
		amountNames = append(amountNames, p.Name)
	}
	assert.Equal(t, []string{
		"currency-prefixed", "action-keyword", "currency-suffixed", "transaction-of",
	}, amountNames)

	merchantNames := make([]string, 0)
	for _, p := range DefaultMerchantPatterns() {
		merchantNames = append(merchantNames, p.Name)
	}
	assert.Equal(t, []string{
		"spent-at", "preposition", "payment-phrase", "vpa", "upi-tag",
	}, merchantNames)

	cardNames := make([]string, 0)
	for _, p := range DefaultCardPatterns() {
		cardNames = append(cardNames, p.Name)
	}
	assert.Equal(t, []string{
		"masked-suffix", "leading-digits", "unmasked-suffix",
	}, cardNames)

	// Category rules resolve in declared order; food outranks transfer.
	rules := DefaultCategoryRules()
	assert.Equal(t, model.CategoryFood, rules[0].ID)
}

func TestAcceptThreshold(t *testing.T) {
	assert.Equal(t, 30, AcceptThreshold)
}
