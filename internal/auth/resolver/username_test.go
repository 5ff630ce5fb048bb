package resolver

import (
	"strings"
	"testing"

	"github.com/jeffreyotan/fsdfinal/internal/auth"
	"github.com/jeffreyotan/fsdfinal/internal/auth/credentials"

	"github.com/stretchr/testify/require"
)

func TestCandidateUsername(t *testing.T) {
	cases := []struct {
		name     string
		identity auth.Identity
		want     string
	}{
		{
			name:     "should prefer the provider username",
			identity: auth.Identity{PreferredUsername: "jeff", Email: "other@example.com"},
			want:     "jeff",
		},
		{
			name:     "should fall back to the email local part",
			identity: auth.Identity{Email: "jeffrey.tan@example.com"},
			want:     "jeffrey_tan",
		},
		{
			name:     "should pad short names",
			identity: auth.Identity{Email: "j@example.com"},
			want:     "j__",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)

			got := candidateUsername(&tc.identity)

			req.Equal(tc.want, got)
			req.True(credentials.ValidUsername(got))
		})
	}

	t.Run("should leave room for a suffix on long names", func(t *testing.T) {
		req := require.New(t)
		identity := &auth.Identity{PreferredUsername: strings.Repeat("a", 60)}

		got := withSuffix(candidateUsername(identity), "abcdef")

		req.True(credentials.ValidUsername(got))
		req.True(strings.HasSuffix(got, "_abcdef"))
	})
}
