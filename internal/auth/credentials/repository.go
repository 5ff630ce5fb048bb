//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../../mocks/mock_user_repository.go -package=mocks
package credentials

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	// CreateUser returns ErrAlreadyRegistered when the username or email is taken.
	CreateUser(ctx context.Context, u NewUser) (string, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	// MarkVerified returns ErrInvalidVerificationCode when no user holds code.
	MarkVerified(ctx context.Context, code string) (string, error)
}
