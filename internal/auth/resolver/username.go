package resolver

import (
	"strings"

	"github.com/jeffreyotan/fsdfinal/internal/auth"
	"github.com/jeffreyotan/fsdfinal/internal/auth/credentials"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	suffixLen      = 6
)

// candidateUsername derives a local username from the identity: the
// provider's preferred username, else the local part of the email, with
// every character outside [A-Za-z0-9_] replaced by an underscore.
func candidateUsername(identity *auth.Identity) string {
	base := identity.PreferredUsername
	if base == "" {
		base, _, _ = strings.Cut(identity.Email, "@")
	}

	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, base)

	for len(name) < minUsernameLen {
		name += "_"
	}
	if len(name) > maxUsernameLen-suffixLen-1 {
		name = name[:maxUsernameLen-suffixLen-1]
	}
	return name
}

// withSuffix appends a disambiguating suffix to name.
func withSuffix(name string, suffix string) string {
	if len(suffix) > suffixLen {
		suffix = suffix[:suffixLen]
	}
	candidate := name + "_" + suffix
	if !credentials.ValidUsername(candidate) {
		return name
	}
	return candidate
}
