package engine

import (
	"github.com/Veraticus/xpentrik/internal/model"
)

// Description fallbacks when no merchant was extracted.
const (
	descriptionIncome  = "Money Received"
	descriptionExpense = "SMS Transaction"
)

// Materialize converts an accepted parse into an expense record ready for
// persistence, or nil when the parse was rejected. Credits are retained as
// income-tagged expenses; dropping them would understate monthly totals.
func Materialize(p model.ParsedTransaction) *model.Expense {
	if !p.IsTransaction {
		return nil
	}

	isIncome := p.Direction == model.DirectionCredit

	category := p.Category
	if isIncome {
		category = model.CategoryIncome
	}

	description := p.Merchant
	if description == "" {
		if isIncome {
			description = descriptionIncome
		} else {
			description = descriptionExpense
		}
	}

	return &model.Expense{
		Amount:      p.Amount,
		Category:    category,
		Description: description,
		OccurredAt:  p.Timestamp,
		Source:      model.SourceSMS,
		IsIncome:    isIncome,
		RawMessage:  p.RawMessage,
		Sender:      p.Sender,
		CardLast4:   p.CardLast4,
		Confidence:  p.Confidence,
	}
}
