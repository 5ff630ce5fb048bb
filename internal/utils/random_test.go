package utils

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomString(t *testing.T) {
	req := require.New(t)

	a, err := RandomString(32)
	req.NoError(err)
	b, err := RandomString(32)
	req.NoError(err)

	req.NotEqual(a, b)
	decoded, err := base64.RawURLEncoding.DecodeString(a)
	req.NoError(err)
	req.Len(decoded, 32)
}

func TestRandomHex(t *testing.T) {
	req := require.New(t)

	code, err := RandomHex(10)
	req.NoError(err)
	req.Len(code, 20)

	_, err = hex.DecodeString(code)
	req.NoError(err)
}
