// Package mail sends transactional e-mail over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-management-api/config"

	"gopkg.in/gomail.v2"
)

var (
	ErrDisabled       = errors.New("mail is disabled")
	ErrInvalidMessage = errors.New("invalid mail message")
)

type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender is what usecases depend on; Client is the SMTP implementation.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

type Client struct {
	cfg config.MailConfig
}

func New(cfg config.MailConfig) *Client {
	return &Client{cfg: cfg}
}

// Send dials the SMTP server and delivers m, giving up when ctx is done or the
// configured timeout elapses, whichever comes first.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled
	}

	msg, err := buildMessage(c.cfg.From, m)
	if err != nil {
		return err
	}

	d := c.newDialer()

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	wait := c.cfg.Timeout
	if wait <= 0 {
		wait = 15 * time.Second
	}
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left > 0 && left < wait {
			wait = left
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return context.DeadlineExceeded
	}
}

func (c *Client) newDialer() *gomail.Dialer {
	d := gomail.NewDialer(c.cfg.Host, c.cfg.Port, c.cfg.Username, c.cfg.Password)
	d.SSL = c.cfg.UseTLS
	if c.cfg.UseTLS {
		d.TLSConfig = &tls.Config{ServerName: c.cfg.Host}
	}
	return d
}

func buildMessage(from string, m Message) (*gomail.Message, error) {
	from = strings.TrimSpace(from)
	if from == "" {
		return nil, fmt.Errorf("%w: from is required", ErrInvalidMessage)
	}

	to := cleanAddrs(m.To)
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: at least one recipient is required", ErrInvalidMessage)
	}

	subject := strings.TrimSpace(m.Subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)

	hasText := strings.TrimSpace(m.TextBody) != ""
	hasHTML := strings.TrimSpace(m.HTMLBody) != ""

	switch {
	case hasText && hasHTML:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case hasHTML:
		msg.SetBody("text/html", m.HTMLBody)
	case hasText:
		msg.SetBody("text/plain", m.TextBody)
	default:
		return nil, fmt.Errorf("%w: a text or html body is required", ErrInvalidMessage)
	}

	return msg, nil
}

func cleanAddrs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// PasswordResetMessage renders the e-mail carrying a temporary password.
func PasswordResetMessage(to, name, tempPassword string) Message {
	text := fmt.Sprintf(
		"Hello %s,\n\nYour password has been reset. Use this temporary password to sign in:\n\n    %s\n\nYou will be asked to choose a new password after signing in.\n",
		name, tempPassword,
	)
	return Message{
		To:       []string{to},
		Subject:  "Password reset",
		TextBody: text,
	}
}
