package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jeffreyotan/fsdfinal/internal/utils"
)

var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrAlreadyRegistered       = errors.New("credentials already exist")
	ErrNotVerified             = errors.New("account not verified")
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrInvalidInput            = errors.New("invalid registration")
)

const verificationCodeBytes = 20

type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) Register(
	ctx context.Context,
	in RegisterInput,
) (*Registration, error) {

	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	// 1. Validate before any hashing work
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Hash password
	hash, version, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	// 3. Verification code mailed to the user
	code, err := utils.RandomHex(verificationCodeBytes)
	if err != nil {
		return nil, err
	}

	// 4. Persist
	userID, err := s.users.CreateUser(ctx, NewUser{
		Username:         in.Username,
		Email:            in.Email,
		PasswordHash:     hash,
		HashVersion:      version,
		VerificationCode: code,
	})
	if err != nil {
		return nil, err
	}

	return &Registration{
		UserID:           userID,
		Username:         in.Username,
		Email:            in.Email,
		VerificationCode: code,
	}, nil
}

// Verify activates the account holding code and returns its username.
func (s *Service) Verify(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrInvalidVerificationCode
	}

	return s.users.MarkVerified(ctx, code)
}

// Authenticate checks a username/password pair and returns the username
// that credentials should be issued for.
func (s *Service) Authenticate(
	ctx context.Context,
	username string,
	password string,
) (string, error) {

	// 1. Find user
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		// hide whether user exists or not
		return "", ErrInvalidCredentials
	}

	// 2. Accounts created through an external provider carry no password
	if user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}

	// 3. Verify password
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	if !user.Verified {
		return "", ErrNotVerified
	}

	return user.Username, nil
}
