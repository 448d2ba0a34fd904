package model

// Settings holds the user-tunable knobs persisted alongside expenses and
// included in backups.
type Settings struct {
	Currency      string  `json:"currency"`
	MonthlyBudget float64 `json:"monthlyBudget"`
	AutoScan      bool    `json:"autoReadSMS"`
}

// DefaultSettings mirrors the values a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		Currency:      "₹",
		MonthlyBudget: 50000,
		AutoScan:      true,
	}
}
