package engine

import (
	"testing"
	"time"

	"github.com/Veraticus/xpentrik/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialize_RejectedParse(t *testing.T) {
	assert.Nil(t, Materialize(model.ParsedTransaction{IsTransaction: false}))
}

func TestMaterialize_Debit(t *testing.T) {
	at := time.Date(2026, 1, 8, 14, 22, 20, 0, time.UTC)
	expense := Materialize(model.ParsedTransaction{
		IsTransaction: true,
		Direction:     model.DirectionDebit,
		Amount:        657.44,
		Merchant:      "ZOMATO",
		CardLast4:     "0586",
		Category:      model.CategoryFood,
		Confidence:    95,
		RawMessage:    "Spent Rs.657.44 ...",
		Sender:        "HDFCBK",
		Timestamp:     at,
	})

	require.NotNil(t, expense)
	assert.False(t, expense.IsIncome)
	assert.Equal(t, model.CategoryFood, expense.Category)
	assert.Equal(t, "ZOMATO", expense.Description)
	assert.Equal(t, at, expense.OccurredAt)
	assert.Equal(t, model.SourceSMS, expense.Source)
	assert.Equal(t, "0586", expense.CardLast4)
	assert.Equal(t, 95, expense.Confidence)
}

func TestMaterialize_CreditOverridesCategory(t *testing.T) {
	expense := Materialize(model.ParsedTransaction{
		IsTransaction: true,
		Direction:     model.DirectionCredit,
		Amount:        5000,
		Category:      model.CategoryTransfer,
		Timestamp:     time.Now(),
	})

	require.NotNil(t, expense)
	assert.True(t, expense.IsIncome)
	assert.Equal(t, model.CategoryIncome, expense.Category)
	assert.Equal(t, "Money Received", expense.Description)
}

func TestMaterialize_DescriptionFallbacks(t *testing.T) {
	debit := Materialize(model.ParsedTransaction{
		IsTransaction: true,
		Direction:     model.DirectionDebit,
		Amount:        100,
		Category:      model.CategoryOther,
		Timestamp:     time.Now(),
	})
	require.NotNil(t, debit)
	assert.Equal(t, "SMS Transaction", debit.Description)

	withMerchant := Materialize(model.ParsedTransaction{
		IsTransaction: true,
		Direction:     model.DirectionDebit,
		Amount:        100,
		Merchant:      "BIG BAZAAR",
		Category:      model.CategoryShopping,
		Timestamp:     time.Now(),
	})
	require.NotNil(t, withMerchant)
	assert.Equal(t, "BIG BAZAAR", withMerchant.Description)
}
