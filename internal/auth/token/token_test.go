package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func newTestAuthenticator(t *testing.T, clock *fakeClock) *Authenticator {
	t.Helper()
	a, err := NewAuthenticator([]byte("test-secret"), WithClock(clock.Now))
	require.NoError(t, err)
	return a
}

func TestIssueAndVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	a := newTestAuthenticator(t, clock)

	t.Run("should verify a freshly issued credential", func(t *testing.T) {
		req := require.New(t)

		cred, err := a.Issue("alice")
		req.NoError(err)
		req.Equal("alice", cred.Subject)
		req.Equal(clock.t.Add(DefaultTTL), cred.ExpiresAt)
		req.NotEmpty(cred.ID)

		claims, err := a.Verify("Bearer " + cred.Token)
		req.NoError(err)
		req.Equal("alice", claims.Identity())
		req.Equal(DefaultIssuer, claims.Issuer)
		req.Equal(cred.ID, claims.ID)
		req.NotEmpty(claims.Data.LoginTime)
	})

	t.Run("should stay valid until the last second of the window", func(t *testing.T) {
		req := require.New(t)
		start := clock.t

		cred, err := a.Issue("bob")
		req.NoError(err)

		for _, offset := range []time.Duration{0, time.Minute, DefaultTTL - time.Second} {
			clock.t = start.Add(offset)
			claims, err := a.Verify("Bearer " + cred.Token)
			req.NoError(err, "offset %s", offset)
			req.Equal("bob", claims.Identity())
		}
		clock.t = start
	})

	t.Run("should reject a credential at or after expiry", func(t *testing.T) {
		req := require.New(t)
		start := clock.t

		cred, err := a.Issue("carol")
		req.NoError(err)

		for _, offset := range []time.Duration{DefaultTTL, DefaultTTL + time.Hour} {
			clock.t = start.Add(offset)
			_, err := a.Verify("Bearer " + cred.Token)
			req.ErrorIs(err, ErrInvalidCredential, "offset %s", offset)
		}
		clock.t = start
	})

	t.Run("should reject a credential used before it was issued", func(t *testing.T) {
		req := require.New(t)
		start := clock.t

		cred, err := a.Issue("dave")
		req.NoError(err)

		clock.t = start.Add(-time.Minute)
		_, err = a.Verify("Bearer " + cred.Token)
		req.ErrorIs(err, ErrInvalidCredential)
		clock.t = start
	})
}

func TestIssueExpiryMatchesSignedClaims(t *testing.T) {
	t.Run("should report the expiry that is signed into the token", func(t *testing.T) {
		req := require.New(t)
		clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 987654321, time.UTC)}
		a := newTestAuthenticator(t, clock)

		cred, err := a.Issue("alice")
		req.NoError(err)
		req.Zero(cred.ExpiresAt.Nanosecond())

		claims, err := a.VerifyToken(cred.Token)
		req.NoError(err)
		req.True(cred.ExpiresAt.Equal(claims.ExpiresAt.Time))
		req.True(cred.IssuedAt.Equal(claims.IssuedAt.Time))
	})
}

func TestIssueProducesDistinctCredentials(t *testing.T) {
	req := require.New(t)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	a := newTestAuthenticator(t, clock)

	first, err := a.Issue("alice")
	req.NoError(err)

	clock.t = clock.t.Add(time.Minute)
	second, err := a.Issue("alice")
	req.NoError(err)

	req.NotEqual(first.Token, second.Token)
	req.True(second.ExpiresAt.After(first.ExpiresAt))
}

func TestVerifyHeaderErrors(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	a := newTestAuthenticator(t, clock)

	cred, err := a.Issue("alice")
	require.NoError(t, err)

	other, err := NewAuthenticator([]byte("another-secret"), WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := other.Issue("alice")
	require.NoError(t, err)

	otherIssuer, err := NewAuthenticator([]byte("test-secret"), WithClock(clock.Now), WithIssuer("elsewhere"))
	require.NoError(t, err)
	wrongIssuer, err := otherIssuer.Issue("alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", ErrUnauthenticated},
		{"single term", "garbage", ErrMalformedHeader},
		{"wrong scheme", "Basic xyz", ErrMalformedHeader},
		{"lowercase scheme", "bearer " + cred.Token, ErrMalformedHeader},
		{"three terms", "Bearer " + cred.Token + " extra", ErrMalformedHeader},
		{"double space", "Bearer  " + cred.Token, ErrMalformedHeader},
		{"garbage token", "Bearer not-a-jwt", ErrInvalidCredential},
		{"empty token", "Bearer ", ErrInvalidCredential},
		{"foreign signature", "Bearer " + foreign.Token, ErrInvalidCredential},
		{"foreign issuer", "Bearer " + wrongIssuer.Token, ErrInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Verify(tt.header)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewAuthenticatorRejectsBadInput(t *testing.T) {
	req := require.New(t)

	_, err := NewAuthenticator(nil)
	req.Error(err)

	_, err = NewAuthenticator([]byte("secret"), WithTTL(0))
	req.Error(err)

	a, err := NewAuthenticator([]byte("secret"))
	req.NoError(err)
	_, err = a.Issue("")
	req.Error(err)
}
