package finance_test

import (
	"context"
	"testing"

	"github.com/jeffreyotan/fsdfinal/internal/finance"
	"github.com/jeffreyotan/fsdfinal/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_CreateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("should store a valid profile for the caller", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockLedgerRepository(ctrl)
		svc := finance.NewService(repo)

		repo.EXPECT().
			CreateProfile(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p finance.Profile) error {
				req.Equal("alice", p.Username)
				req.True(d("4000").Equal(p.Income))
				return nil
			})

		p, err := svc.CreateProfile(ctx, "alice", finance.ProfileInput{
			Income: d("4000"), Save: d("30"), Spend: d("50"), Donate: d("10"), Invest: d("10"),
		})

		req.NoError(err)
		req.Equal("alice", p.Username)
	})

	t.Run("should not store an invalid split", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockLedgerRepository(ctrl)
		svc := finance.NewService(repo)

		repo.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.CreateProfile(ctx, "alice", finance.ProfileInput{
			Income: d("4000"), Save: d("90"), Spend: d("50"),
		})

		req.ErrorIs(err, finance.ErrInvalidProfile)
	})
}

func TestService_Record(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLedgerRepository(ctrl)
	svc := finance.NewService(repo)

	repo.EXPECT().
		AddTransaction(gomock.Any(), "alice", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, tx finance.Transaction) (finance.Transaction, error) {
			tx.ID = 7
			return tx, nil
		})

	tx, err := svc.Record(context.Background(), "alice", finance.TransactionInput{
		Title: "Coffee", Amount: d("4.50"), Category: "spend",
	})

	req.NoError(err)
	req.Equal(int64(7), tx.ID)
	req.Equal(finance.CategorySpend, tx.Category)
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("should add budget and remaining when a profile exists", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockLedgerRepository(ctrl)
		svc := finance.NewService(repo)

		repo.EXPECT().CategoryTotals(gomock.Any(), "alice").Return(map[finance.Category]decimal.Decimal{
			finance.CategorySpend: d("450"),
			finance.CategorySave:  d("100"),
		}, nil)
		repo.EXPECT().GetProfile(gomock.Any(), "alice").Return(&finance.Profile{
			Username: "alice", Income: d("1000"),
			Save: d("30"), Spend: d("50"), Donate: d("10"), Invest: d("10"),
		}, nil)

		s, err := svc.Summary(ctx, "alice")

		req.NoError(err)
		req.True(d("1000").Equal(*s.Income))
		req.Len(s.Categories, 4)

		spend := s.Categories[1]
		req.Equal(finance.CategorySpend, spend.Category)
		req.True(d("450").Equal(spend.Total))
		req.True(d("500").Equal(*spend.Budget))
		req.True(d("50").Equal(*spend.Remaining))

		invest := s.Categories[3]
		req.True(invest.Total.IsZero())
		req.True(d("100").Equal(*invest.Remaining))
	})

	t.Run("should report raw totals without a profile", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockLedgerRepository(ctrl)
		svc := finance.NewService(repo)

		repo.EXPECT().CategoryTotals(gomock.Any(), "bob").Return(map[finance.Category]decimal.Decimal{
			finance.CategoryDonate: d("20"),
		}, nil)
		repo.EXPECT().GetProfile(gomock.Any(), "bob").Return(nil, finance.ErrProfileNotFound)

		s, err := svc.Summary(ctx, "bob")

		req.NoError(err)
		req.Nil(s.Income)
		req.Len(s.Categories, 1)
		req.Equal(finance.CategoryDonate, s.Categories[0].Category)
		req.Nil(s.Categories[0].Budget)
	})
}

func TestService_Ledger(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLedgerRepository(ctrl)
	svc := finance.NewService(repo)

	repo.EXPECT().GetProfile(gomock.Any(), "ghost").Return(nil, finance.ErrProfileNotFound)

	_, err := svc.Ledger(context.Background(), "ghost")

	req.ErrorIs(err, finance.ErrProfileNotFound)
}

func TestService_Clear(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLedgerRepository(ctrl)
	svc := finance.NewService(repo)

	repo.EXPECT().Clear(gomock.Any(), "alice").Return(int64(1), nil)
	repo.EXPECT().Clear(gomock.Any(), "alice").Return(int64(0), nil)

	cleared, err := svc.Clear(context.Background(), "alice")
	req.NoError(err)
	req.True(cleared)

	cleared, err = svc.Clear(context.Background(), "alice")
	req.NoError(err)
	req.False(cleared)
}
