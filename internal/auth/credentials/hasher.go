package credentials

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashVersionBcrypt is stored next to each hash so the scheme can change
// without invalidating existing accounts.
const HashVersionBcrypt = "bcrypt"

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit in bytes
)

var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
)

// hashCost is lowered by tests.
var hashCost = bcrypt.DefaultCost

func HashPassword(password string) (hash string, version string, err error) {
	switch {
	case len(password) < minPasswordLen:
		return "", "", ErrPasswordTooShort
	case len(password) > maxPasswordLen:
		return "", "", ErrPasswordTooLong
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", "", fmt.Errorf("credentials: hash password: %w", err)
	}

	return string(b), HashVersionBcrypt, nil
}

// VerifyPassword reports ErrInvalidCredentials when password does not match
// hash.
func VerifyPassword(hash string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	return err
}
