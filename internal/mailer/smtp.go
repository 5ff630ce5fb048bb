package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"time"

	"golang.org/x/oauth2"
)

const googleTokenURL = "https://oauth2.googleapis.com/token"

type SMTPConfig struct {
	Addr         string // host:port, STARTTLS is negotiated by net/smtp
	From         string
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
}

// SMTPMailer delivers mail through an SMTP relay that accepts XOAUTH2,
// refreshing the access token from a long-lived refresh token.
type SMTPMailer struct {
	addr   string
	from   string
	tokens oauth2.TokenSource
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(ctx context.Context, cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Addr == "" || cfg.From == "" || cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("mailer: smtp oauth config missing required fields")
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = googleTokenURL
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}

	return &SMTPMailer{
		addr:   cfg.Addr,
		from:   cfg.From,
		tokens: oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}),
		send:   smtp.SendMail,
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tok, err := m.tokens.Token()
	if err != nil {
		return fmt.Errorf("mailer: refresh access token: %w", err)
	}

	body := buildMessage(m.from, msg, time.Now())
	auth := &xoauth2{username: m.from, accessToken: tok.AccessToken}

	if err := m.send(m.addr, auth, m.from, []string{msg.To}, body); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(from string, msg Message, now time.Time) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return b.Bytes()
}

// xoauth2 implements the SASL XOAUTH2 mechanism.
type xoauth2 struct {
	username    string
	accessToken string
}

func (a *xoauth2) Start(_ *smtp.ServerInfo) (string, []byte, error) {
	resp := "user=" + a.username + "\x01auth=Bearer " + a.accessToken + "\x01\x01"
	return "XOAUTH2", []byte(resp), nil
}

func (a *xoauth2) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		// The server sent an error challenge; an empty reply ends the exchange.
		return []byte{}, nil
	}
	return nil, nil
}
