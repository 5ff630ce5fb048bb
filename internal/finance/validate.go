package finance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

var (
	validate = validator.New(validator.WithRequiredStructEnabled())
	hundred  = decimal.NewFromInt(100)

	// money columns are numeric(14,2)
	maxAmount = decimal.New(1, 12)
)

const moneyPlaces = 2

// fitsColumn reports whether v is stored unchanged by a numeric(p,2) column
// whose integer part must stay below limit.
func fitsColumn(v decimal.Decimal, limit decimal.Decimal) bool {
	return v.Equal(v.Round(moneyPlaces)) && v.Abs().LessThan(limit)
}

type ProfileInput struct {
	Income decimal.Decimal `json:"income"`
	Save   decimal.Decimal `json:"save"`
	Spend  decimal.Decimal `json:"spend"`
	Donate decimal.Decimal `json:"donate"`
	Invest decimal.Decimal `json:"invest"`
}

func (in ProfileInput) Validate() error {
	if !in.Income.IsPositive() {
		return fmt.Errorf("%w: income must be positive", ErrInvalidProfile)
	}
	if !fitsColumn(in.Income, maxAmount) {
		return fmt.Errorf("%w: income must have at most 2 decimal places and 12 integer digits", ErrInvalidProfile)
	}

	split := map[string]decimal.Decimal{
		"save":   in.Save,
		"spend":  in.Spend,
		"donate": in.Donate,
		"invest": in.Invest,
	}
	for name, pct := range split {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return fmt.Errorf("%w: %s must be between 0 and 100", ErrInvalidProfile, name)
		}
		if !pct.Equal(pct.Round(moneyPlaces)) {
			return fmt.Errorf("%w: %s must have at most 2 decimal places", ErrInvalidProfile, name)
		}
	}

	total := decimal.Sum(in.Save, in.Spend, in.Donate, in.Invest)
	if !total.Equal(hundred) {
		return fmt.Errorf("%w: allocation adds up to %s, expected 100", ErrInvalidProfile, total.String())
	}

	return nil
}

type TransactionInput struct {
	Title    string          `json:"title" validate:"required,max=200"`
	Amount   decimal.Decimal `json:"amount"`
	Comments string          `json:"comments" validate:"max=1000"`
	Category Category        `json:"category" validate:"required,oneof=save spend donate invest"`
}

func (in *TransactionInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Comments = strings.TrimSpace(in.Comments)
	in.Category = Category(strings.ToLower(strings.TrimSpace(string(in.Category))))

	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	if in.Amount.IsZero() {
		return fmt.Errorf("%w: amount must not be zero", ErrInvalidTransaction)
	}
	if !fitsColumn(in.Amount, maxAmount) {
		return fmt.Errorf("%w: amount must have at most 2 decimal places and 12 integer digits", ErrInvalidTransaction)
	}
	return nil
}
