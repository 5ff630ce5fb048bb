package resolver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jeffreyotan/fsdfinal/internal/auth"
	"github.com/jeffreyotan/fsdfinal/internal/db"
	"github.com/jeffreyotan/fsdfinal/internal/logger"
	"github.com/jeffreyotan/fsdfinal/internal/utils"

	"github.com/google/uuid"
)

const maxUsernameAttempts = 5

// DBResolver resolves identities against the users and identities tables.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) Resolve(ctx context.Context, identity *auth.Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity is nil")
	}

	// 1. Known identity
	var username string
	err := r.db.QueryRowContext(ctx, `
		SELECT u.username
		FROM identities i
		JOIN users u ON u.id = i.user_id
		WHERE i.provider = $1
		  AND i.provider_user_id = $2
	`, identity.Provider, identity.ProviderUserID).Scan(&username)

	if err == nil {
		return username, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("resolver: lookup identity: %w", err)
	}

	// 2. Existing account with the same verified email, link it
	if identity.EmailVerified {
		var userID uuid.UUID
		err = r.db.QueryRowContext(ctx, `
			SELECT id, username
			FROM users
			WHERE LOWER(email) = LOWER($1)
		`, identity.Email).Scan(&userID, &username)

		if err == nil {
			if err := r.link(ctx, r.db, userID, identity); err != nil {
				return "", err
			}
			logger.Info("linked oidc identity to existing user", map[string]any{
				"provider": identity.Provider,
				"username": username,
			})
			return username, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("resolver: lookup email: %w", err)
		}
	}

	// 3. New account without a password
	return r.create(ctx, identity)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *DBResolver) link(ctx context.Context, ex execer, userID uuid.UUID, identity *auth.Identity) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`, userID, identity.Provider, identity.ProviderUserID)
	if err != nil {
		return fmt.Errorf("resolver: link identity: %w", err)
	}
	return nil
}

func (r *DBResolver) create(ctx context.Context, identity *auth.Identity) (string, error) {
	base := candidateUsername(identity)
	username := base

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		if attempt > 0 {
			suffix, err := utils.RandomHex(suffixLen / 2)
			if err != nil {
				return "", err
			}
			username = withSuffix(base, suffix)
		}

		created, err := r.tryCreate(ctx, username, identity)
		if err == nil {
			logger.Info("created user for oidc identity", map[string]any{
				"provider": identity.Provider,
				"username": created,
			})
			return created, nil
		}
		if !db.IsUniqueViolation(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("resolver: no free username for %q", base)
}

func (r *DBResolver) tryCreate(ctx context.Context, username string, identity *auth.Identity) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("resolver: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var userID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (username, email, is_verified)
		VALUES ($1, $2, TRUE)
		RETURNING id
	`, username, identity.Email).Scan(&userID)
	if err != nil {
		return "", err
	}

	if err := r.link(ctx, tx, userID, identity); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("resolver: commit: %w", err)
	}
	return username, nil
}
