package model

import (
	"fmt"
	"time"
)

// ExpenseSource records how an expense entered the system.
type ExpenseSource string

const (
	// SourceManual marks expenses entered by hand.
	SourceManual ExpenseSource = "manual"
	// SourceSMS marks expenses materialized from a parsed SMS.
	SourceSMS ExpenseSource = "sms"
)

// Expense is the persisted transaction record. The JSON field names are a
// stability contract with the backup/export format and must not change.
type Expense struct {
	OccurredAt  time.Time     `json:"date"`
	CreatedAt   time.Time     `json:"createdAt"`
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Category    CategoryID    `json:"category"`
	Source      ExpenseSource `json:"source"`
	CardLast4   string        `json:"cardLast4,omitempty"`
	RawMessage  string        `json:"rawMessage,omitempty"`
	Sender      string        `json:"sender,omitempty"`
	Amount      float64       `json:"amount"`
	Confidence  int           `json:"confidence,omitempty"`
	IsIncome    bool          `json:"isIncome"`
}

// Validate checks the invariants storage relies on before persisting.
func (e *Expense) Validate() error {
	if e.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %.2f", e.Amount)
	}
	if !ValidCategory(e.Category) {
		return fmt.Errorf("unknown category %q", e.Category)
	}
	if e.Source != SourceManual && e.Source != SourceSMS {
		return fmt.Errorf("unknown source %q", e.Source)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("occurred-at timestamp is required")
	}
	return nil
}
