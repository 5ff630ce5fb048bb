package finance

import (
	"context"
	"errors"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type Service struct {
	ledgers LedgerRepository
}

func NewService(ledgers LedgerRepository) *Service {
	return &Service{ledgers: ledgers}
}

func (s *Service) CreateProfile(ctx context.Context, username string, in ProfileInput) (*Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := Profile{
		Username: username,
		Income:   in.Income,
		Save:     in.Save,
		Spend:    in.Spend,
		Donate:   in.Donate,
		Invest:   in.Invest,
	}
	if err := s.ledgers.CreateProfile(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Record(ctx context.Context, username string, in TransactionInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}

	return s.ledgers.AddTransaction(ctx, username, Transaction{
		Title:    in.Title,
		Amount:   in.Amount,
		Comments: in.Comments,
		Category: in.Category,
	})
}

// Clear deletes the profile and transactions of username. It reports
// whether there was anything to delete.
func (s *Service) Clear(ctx context.Context, username string) (bool, error) {
	n, err := s.ledgers.Clear(ctx, username)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ledger returns the profile and transactions of username, or
// ErrProfileNotFound.
func (s *Service) Ledger(ctx context.Context, username string) (*Ledger, error) {
	p, err := s.ledgers.GetProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	txs, err := s.ledgers.ListTransactions(ctx, username)
	if err != nil {
		return nil, err
	}

	return &Ledger{
		Username:     username,
		Profile:      *p,
		Transactions: txs,
	}, nil
}

// Summary totals transactions per category. When the user has a profile the
// allocated budget and what is left of it are included for every category.
func (s *Service) Summary(ctx context.Context, username string) (*Summary, error) {
	totals, err := s.ledgers.CategoryTotals(ctx, username)
	if err != nil {
		return nil, err
	}

	profile, err := s.ledgers.GetProfile(ctx, username)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	summary := &Summary{Username: username}

	if profile == nil {
		categories := lo.Filter(Categories, func(c Category, _ int) bool {
			_, ok := totals[c]
			return ok
		})
		summary.Categories = lo.Map(categories, func(c Category, _ int) CategorySummary {
			return CategorySummary{Category: c, Total: totals[c]}
		})
		return summary, nil
	}

	income := profile.Income
	summary.Income = &income
	summary.Categories = lo.Map(Categories, func(c Category, _ int) CategorySummary {
		total := lo.ValueOr(totals, c, decimal.Zero)
		budget := profile.Budget(c)
		remaining := budget.Sub(total)
		return CategorySummary{
			Category:  c,
			Total:     total,
			Budget:    &budget,
			Remaining: &remaining,
		}
	})

	return summary, nil
}
