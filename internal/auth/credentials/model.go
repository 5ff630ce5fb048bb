package credentials

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	HashVersion  string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser is what the repository needs to persist a fresh registration.
type NewUser struct {
	Username         string
	Email            string
	PasswordHash     string
	HashVersion      string
	VerificationCode string
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Registration is the outcome of a successful Register call. The code must
// be delivered to the user out of band before they can log in.
type Registration struct {
	UserID           string
	Username         string
	Email            string
	VerificationCode string
}
