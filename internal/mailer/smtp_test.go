package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestXOAuth2Start(t *testing.T) {
	req := require.New(t)
	a := &xoauth2{username: "me@example.com", accessToken: "ya29.token"}

	mech, resp, err := a.Start(&smtp.ServerInfo{Name: "smtp.example.com", TLS: true})

	req.NoError(err)
	req.Equal("XOAUTH2", mech)
	req.Equal("user=me@example.com\x01auth=Bearer ya29.token\x01\x01", string(resp))
}

func TestBuildMessage(t *testing.T) {
	req := require.New(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	raw := string(buildMessage("me@example.com", Message{
		To:      "you@example.com",
		Subject: "Please verify your email",
		HTML:    "<p>hello</p>",
	}, now))

	req.Contains(raw, "From: me@example.com\r\n")
	req.Contains(raw, "To: you@example.com\r\n")
	req.Contains(raw, "Subject: Please verify your email\r\n")
	req.Contains(raw, "Content-Type: text/html")
	req.True(strings.HasSuffix(raw, "\r\n\r\n<p>hello</p>"))
}

func TestSMTPMailer_Send(t *testing.T) {
	newMailer := func(send func(string, smtp.Auth, string, []string, []byte) error) *SMTPMailer {
		return &SMTPMailer{
			addr:   "smtp.example.com:587",
			from:   "me@example.com",
			tokens: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "ya29.token"}),
			send:   send,
		}
	}

	t.Run("should authenticate with the refreshed token", func(t *testing.T) {
		req := require.New(t)
		var gotAuth smtp.Auth
		var gotTo []string

		m := newMailer(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAuth, gotTo = a, to
			return nil
		})

		err := m.Send(context.Background(), Message{To: "you@example.com", Subject: "hi", HTML: "x"})

		req.NoError(err)
		req.Equal([]string{"you@example.com"}, gotTo)
		req.Equal(&xoauth2{username: "me@example.com", accessToken: "ya29.token"}, gotAuth)
	})

	t.Run("should wrap delivery errors", func(t *testing.T) {
		req := require.New(t)
		boom := errors.New("535 auth failed")
		m := newMailer(func(string, smtp.Auth, string, []string, []byte) error { return boom })

		err := m.Send(context.Background(), Message{To: "you@example.com"})

		req.ErrorIs(err, boom)
	})

	t.Run("should refuse a cancelled context", func(t *testing.T) {
		req := require.New(t)
		m := newMailer(func(string, smtp.Auth, string, []string, []byte) error {
			t.Fatal("send must not be called")
			return nil
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req.ErrorIs(m.Send(ctx, Message{To: "you@example.com"}), context.Canceled)
	})
}

func TestNewSMTPMailerRequiresConfig(t *testing.T) {
	_, err := NewSMTPMailer(context.Background(), SMTPConfig{Addr: "smtp.example.com:587"})
	require.Error(t, err)
}
