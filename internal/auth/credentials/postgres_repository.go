package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jeffreyotan/fsdfinal/internal/db"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *db.DB
}

func NewPostgresRepository(db *db.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, u NewUser) (string, error) {
	var userID uuid.UUID

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, hash_version, verification_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, u.Username, u.Email, u.PasswordHash, u.HashVersion, u.VerificationCode).Scan(&userID)

	if db.IsUniqueViolation(err) {
		return "", ErrAlreadyRegistered
	}
	if err != nil {
		return "", fmt.Errorf("credentials: insert user: %w", err)
	}

	return userID.String(), nil
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var (
		u            User
		id           uuid.UUID
		passwordHash sql.NullString
		hashVersion  sql.NullString
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, hash_version,
		       is_verified, created_at, updated_at
		FROM users
		WHERE username = $1
	`, username).Scan(
		&id, &u.Username, &u.Email, &passwordHash, &hashVersion,
		&u.Verified, &u.CreatedAt, &u.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("credentials: find user: %w", err)
	}

	u.ID = id.String()
	u.PasswordHash = passwordHash.String
	u.HashVersion = hashVersion.String

	return &u, nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, code string) (string, error) {
	var username string

	err := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET is_verified = TRUE, verification_code = NULL, updated_at = NOW()
		WHERE verification_code = $1
		RETURNING username
	`, code).Scan(&username)

	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidVerificationCode
	}
	if err != nil {
		return "", fmt.Errorf("credentials: verify user: %w", err)
	}

	return username, nil
}
