package resolver

import (
	"context"

	"github.com/jeffreyotan/fsdfinal/internal/auth"
)

// Resolver decides which local account an external identity belongs to and
// returns its username. It is the only place identity linking happens.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (username string, err error)
}
