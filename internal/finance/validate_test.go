package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProfileInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      ProfileInput
		wantErr bool
	}{
		{"default split", ProfileInput{d("4000"), d("30"), d("50"), d("10"), d("10")}, false},
		{"fractional split", ProfileInput{d("4000"), d("33.5"), d("33.5"), d("33"), d("0")}, false},
		{"zero income", ProfileInput{d("0"), d("30"), d("50"), d("10"), d("10")}, true},
		{"negative income", ProfileInput{d("-1"), d("30"), d("50"), d("10"), d("10")}, true},
		{"under allocated", ProfileInput{d("4000"), d("30"), d("50"), d("10"), d("5")}, true},
		{"over allocated", ProfileInput{d("4000"), d("40"), d("50"), d("10"), d("10")}, true},
		{"negative share", ProfileInput{d("4000"), d("-10"), d("90"), d("10"), d("10")}, true},
		{"share above hundred", ProfileInput{d("4000"), d("110"), d("-10"), d("0"), d("0")}, true},
		{"trailing zeros in split", ProfileInput{d("4000"), d("33.300"), d("33.30"), d("33.4"), d("0")}, false},
		{"split finer than cents", ProfileInput{d("4000"), d("33.333"), d("33.333"), d("33.334"), d("0")}, true},
		{"income finer than cents", ProfileInput{d("4000.005"), d("30"), d("50"), d("10"), d("10")}, true},
		{"income beyond twelve digits", ProfileInput{d("1000000000000"), d("30"), d("50"), d("10"), d("10")}, true},
		{"largest storable income", ProfileInput{d("999999999999.99"), d("30"), d("50"), d("10"), d("10")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidProfile)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTransactionInput_Validate(t *testing.T) {
	t.Run("should normalise and accept a valid transaction", func(t *testing.T) {
		req := require.New(t)
		in := TransactionInput{Title: "  groceries ", Amount: d("45.20"), Category: " Spend "}

		req.NoError(in.Validate())
		req.Equal("groceries", in.Title)
		req.Equal(CategorySpend, in.Category)
	})

	tests := []struct {
		name string
		in   TransactionInput
	}{
		{"missing title", TransactionInput{Amount: d("1"), Category: CategorySave}},
		{"zero amount", TransactionInput{Title: "x", Amount: d("0"), Category: CategorySave}},
		{"unknown category", TransactionInput{Title: "x", Amount: d("1"), Category: "gamble"}},
		{"missing category", TransactionInput{Title: "x", Amount: d("1")}},
		{"amount finer than cents", TransactionInput{Title: "x", Amount: d("4.505"), Category: CategorySpend}},
		{"amount beyond twelve digits", TransactionInput{Title: "x", Amount: d("-1000000000000"), Category: CategorySpend}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			require.ErrorIs(t, in.Validate(), ErrInvalidTransaction)
		})
	}
}

func TestProfile_Budget(t *testing.T) {
	req := require.New(t)
	p := Profile{Income: d("3333.33"), Save: d("30"), Spend: d("50"), Donate: d("10"), Invest: d("10")}

	req.True(d("1000").Equal(p.Budget(CategorySave)))
	req.True(d("1666.67").Equal(p.Budget(CategorySpend)))
	req.True(d("333.33").Equal(p.Budget(CategoryDonate)))
	req.True(decimal.Zero.Equal(p.Budget("unknown")))
}
