// Package model defines the core domain types shared across the application.
package model

// CategoryID identifies one of the fixed expense categories.
type CategoryID string

// The closed set of categories. The classifier never produces a value outside
// this set; anything it cannot place falls back to CategoryOther.
const (
	CategoryIncome        CategoryID = "income"
	CategoryFood          CategoryID = "food"
	CategoryTransport     CategoryID = "transport"
	CategoryShopping      CategoryID = "shopping"
	CategoryBills         CategoryID = "bills"
	CategoryEntertainment CategoryID = "entertainment"
	CategoryHealth        CategoryID = "health"
	CategoryGroceries     CategoryID = "groceries"
	CategoryTransfer      CategoryID = "transfer"
	CategoryATM           CategoryID = "atm"
	CategoryOther         CategoryID = "other"
)

// Category describes a category for display purposes.
type Category struct {
	ID    CategoryID
	Name  string
	Icon  string
	Color string
}

// DefaultCategories returns the built-in category set in display order.
func DefaultCategories() []Category {
	return []Category{
		{ID: CategoryIncome, Name: "Income", Icon: "💰", Color: "#00E676"},
		{ID: CategoryFood, Name: "Food & Dining", Icon: "🍕", Color: "#FF6B35"},
		{ID: CategoryTransport, Name: "Transport", Icon: "🚗", Color: "#4ECDC4"},
		{ID: CategoryShopping, Name: "Shopping", Icon: "🛍️", Color: "#9B59B6"},
		{ID: CategoryBills, Name: "Bills & Utilities", Icon: "📄", Color: "#3498DB"},
		{ID: CategoryEntertainment, Name: "Entertainment", Icon: "🎬", Color: "#E74C3C"},
		{ID: CategoryHealth, Name: "Health", Icon: "💊", Color: "#2ECC71"},
		{ID: CategoryGroceries, Name: "Groceries", Icon: "🛒", Color: "#F39C12"},
		{ID: CategoryTransfer, Name: "Transfer", Icon: "💸", Color: "#1ABC9C"},
		{ID: CategoryATM, Name: "ATM Withdrawal", Icon: "🏧", Color: "#34495E"},
		{ID: CategoryOther, Name: "Other", Icon: "📌", Color: "#95A5A6"},
	}
}

// ValidCategory reports whether id belongs to the fixed category set.
func ValidCategory(id CategoryID) bool {
	switch id {
	case CategoryIncome, CategoryFood, CategoryTransport, CategoryShopping,
		CategoryBills, CategoryEntertainment, CategoryHealth, CategoryGroceries,
		CategoryTransfer, CategoryATM, CategoryOther:
		return true
	default:
		return false
	}
}
