// Package finance stores budget profiles and transactions and aggregates
// them into per-category summaries.
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategorySave   Category = "save"
	CategorySpend  Category = "spend"
	CategoryDonate Category = "donate"
	CategoryInvest Category = "invest"
)

// Categories lists the budget categories in display order.
var Categories = []Category{CategorySave, CategorySpend, CategoryDonate, CategoryInvest}

// Profile splits a monthly income across the four categories. The split
// values are percentages and always add up to 100.
type Profile struct {
	Username  string          `json:"username"`
	Income    decimal.Decimal `json:"income"`
	Save      decimal.Decimal `json:"save"`
	Spend     decimal.Decimal `json:"spend"`
	Donate    decimal.Decimal `json:"donate"`
	Invest    decimal.Decimal `json:"invest"`
	CreatedAt time.Time       `json:"created_at"`
}

// Percentage returns the share of income allocated to c.
func (p Profile) Percentage(c Category) decimal.Decimal {
	switch c {
	case CategorySave:
		return p.Save
	case CategorySpend:
		return p.Spend
	case CategoryDonate:
		return p.Donate
	case CategoryInvest:
		return p.Invest
	}
	return decimal.Zero
}

// Budget is the amount of income allocated to c.
func (p Profile) Budget(c Category) decimal.Decimal {
	return p.Income.Mul(p.Percentage(c)).Div(decimal.NewFromInt(100)).Round(2)
}

type Transaction struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Comments  string          `json:"comments"`
	Category  Category        `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
}

// Ledger is a profile together with its recorded transactions.
type Ledger struct {
	Username     string        `json:"username"`
	Profile      Profile       `json:"profile"`
	Transactions []Transaction `json:"transactions"`
}

type CategorySummary struct {
	Category  Category         `json:"category"`
	Total     decimal.Decimal  `json:"total"`
	Budget    *decimal.Decimal `json:"budget,omitempty"`
	Remaining *decimal.Decimal `json:"remaining,omitempty"`
}

type Summary struct {
	Username   string            `json:"username"`
	Income     *decimal.Decimal  `json:"income,omitempty"`
	Categories []CategorySummary `json:"categories"`
}
