package models

// EntryType is the direction of money for categories, transactions and recurring templates.
type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

func (t EntryType) Valid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// SavingsUsedCategoryName is the expense category that receives the money of a completed
// goal once it is marked as used.
const SavingsUsedCategoryName = "Savings used for its purpose"

// Category is global, not owned by a user.
type Category struct {
	ID    int64     `db:"id" json:"id"`
	Name  string    `db:"name" json:"name"`
	Type  EntryType `db:"type" json:"type"`
	Icon  string    `db:"icon" json:"icon"`
	Color string    `db:"color" json:"color"`
}

// DefaultCategories is the taxonomy installed by the seeder and the in-memory store.
var DefaultCategories = []Category{
	{Name: "Salary", Type: EntryTypeIncome, Icon: "💰", Color: "#10b981"},
	{Name: "Freelance", Type: EntryTypeIncome, Icon: "💻", Color: "#8b5cf6"},
	{Name: "Investments", Type: EntryTypeIncome, Icon: "📈", Color: "#f59e0b"},
	{Name: "Food", Type: EntryTypeExpense, Icon: "🍔", Color: "#ef4444"},
	{Name: "Transport", Type: EntryTypeExpense, Icon: "🚌", Color: "#3b82f6"},
	{Name: "Entertainment", Type: EntryTypeExpense, Icon: "🎮", Color: "#a855f7"},
	{Name: "Health", Type: EntryTypeExpense, Icon: "💊", Color: "#ec4899"},
	{Name: "Education", Type: EntryTypeExpense, Icon: "📚", Color: "#06b6d4"},
	{Name: "Home", Type: EntryTypeExpense, Icon: "🏠", Color: "#84cc16"},
	{Name: "Gifts", Type: EntryTypeExpense, Icon: "🎁", Color: "#f97316"},
	{Name: "Other", Type: EntryTypeExpense, Icon: "📦", Color: "#64748b"},
	{Name: SavingsUsedCategoryName, Type: EntryTypeExpense, Icon: "🎯", Color: "#14b8a6"},
}
