package auth

// Identity is what an external OIDC provider asserts about the user who
// just logged in. It carries facts only; mapping to a local account is the
// resolver's job.
type Identity struct {
	Provider          string // "google", "keycloak"
	ProviderUserID    string // provider-scoped subject
	Email             string
	EmailVerified     bool
	PreferredUsername string // hint for the local username, may be empty
}
