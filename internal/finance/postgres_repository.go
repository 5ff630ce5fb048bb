package finance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jeffreyotan/fsdfinal/internal/db"

	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *db.DB
}

func NewPostgresRepository(db *db.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, p Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (username, income, save, spend, donate, invest)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.Username, p.Income, p.Save, p.Spend, p.Donate, p.Invest)

	if db.IsUniqueViolation(err) {
		return ErrProfileExists
	}
	if err != nil {
		return fmt.Errorf("finance: insert profile: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, username string) (*Profile, error) {
	var p Profile

	err := r.db.QueryRowContext(ctx, `
		SELECT username, income, save, spend, donate, invest, created_at
		FROM profiles
		WHERE username = $1
	`, username).Scan(&p.Username, &p.Income, &p.Save, &p.Spend, &p.Donate, &p.Invest, &p.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finance: get profile: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) AddTransaction(ctx context.Context, username string, tx Transaction) (Transaction, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO transactions (username, title, amount, comments, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, username, tx.Title, tx.Amount, tx.Comments, string(tx.Category)).Scan(&tx.ID, &tx.CreatedAt)

	if db.IsForeignKeyViolation(err) {
		return Transaction{}, ErrProfileNotFound
	}
	if err != nil {
		return Transaction{}, fmt.Errorf("finance: insert transaction: %w", err)
	}
	return tx, nil
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, username string) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, amount, comments, category, created_at
		FROM transactions
		WHERE username = $1
		ORDER BY created_at, id
	`, username)
	if err != nil {
		return nil, fmt.Errorf("finance: list transactions: %w", err)
	}
	defer rows.Close()

	txs := []Transaction{}
	for rows.Next() {
		var (
			tx       Transaction
			category string
		)
		if err := rows.Scan(&tx.ID, &tx.Title, &tx.Amount, &tx.Comments, &category, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("finance: scan transaction: %w", err)
		}
		tx.Category = Category(category)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *PostgresRepository) CategoryTotals(ctx context.Context, username string) (map[Category]decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, SUM(amount)
		FROM transactions
		WHERE username = $1
		GROUP BY category
	`, username)
	if err != nil {
		return nil, fmt.Errorf("finance: category totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[Category]decimal.Decimal)
	for rows.Next() {
		var (
			category string
			total    decimal.Decimal
		)
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("finance: scan total: %w", err)
		}
		totals[Category(category)] = total
	}
	return totals, rows.Err()
}

func (r *PostgresRepository) Clear(ctx context.Context, username string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM profiles WHERE username = $1
	`, username)
	if err != nil {
		return 0, fmt.Errorf("finance: clear: %w", err)
	}
	return res.RowsAffected()
}
