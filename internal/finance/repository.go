//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../mocks/mock_ledger_repository.go -package=mocks
package finance

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileNotFound = errors.New("profile not found")
)

type LedgerRepository interface {
	CreateProfile(ctx context.Context, p Profile) error
	GetProfile(ctx context.Context, username string) (*Profile, error)
	AddTransaction(ctx context.Context, username string, tx Transaction) (Transaction, error)
	ListTransactions(ctx context.Context, username string) ([]Transaction, error)
	CategoryTotals(ctx context.Context, username string) (map[Category]decimal.Decimal, error)
	// Clear removes the profile and every transaction of username.
	Clear(ctx context.Context, username string) (int64, error)
}
