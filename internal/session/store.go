package session

import (
	"context"
	"errors"
	"time"
)

var ErrMissingID = errors.New("session: missing credential id")

// Store is the revocation denylist for issued credentials. Credentials are
// otherwise stateless, so an entry only needs to live until the credential
// would have expired on its own.
type Store interface {
	Revoke(ctx context.Context, credentialID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, credentialID string) (bool, error)
}
