package model

import "time"

// Direction indicates whether money moved out of or into the account.
type Direction string

const (
	// DirectionDebit is money out (an expense).
	DirectionDebit Direction = "debit"
	// DirectionCredit is money in (income).
	DirectionCredit Direction = "credit"
	// DirectionUnknown means the message gave no usable signal.
	DirectionUnknown Direction = "unknown"
)

// ParsedTransaction is the classifier's verdict on a single message.
// It is never persisted directly; accepted parses are materialized into
// Expense records.
type ParsedTransaction struct {
	Timestamp     time.Time
	Direction     Direction
	Merchant      string
	CardLast4     string
	RawMessage    string
	Sender        string
	Category      CategoryID
	Amount        float64
	Confidence    int
	IsTransaction bool
}

// HasAmount reports whether an amount was extracted. Amounts are always
// strictly positive when present.
func (p *ParsedTransaction) HasAmount() bool {
	return p.Amount > 0
}
