// Package mailer dispatches account lifecycle emails over SMTP.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/harborline/accountd/internal/accounts/service"
)

const (
	sendTimeout  = 10 * time.Second
	sendAttempts = 2
	retryBackoff = 500 * time.Millisecond
)

// Config holds the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer implements service.Notifier over a go-mail client. Sends are
// bounded by their own timeout since the caller's mutation has already
// committed by the time mail goes out.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// New builds the SMTP dispatcher. Credentials are optional for relays that
// trust the network.
func New(cfg Config) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(sendTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: client setup failed: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.From}, nil
}

// Send renders and dispatches one notification, retrying once on transient
// failure.
func (m *SMTPMailer) Send(ctx context.Context, to string, kind service.NotificationKind, data service.NotificationData) error {
	subject, body, err := render(kind, data)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mailer: invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mailer: invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	var lastErr error
	for attempt := 0; attempt < sendAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff):
			}
		}

		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		lastErr = m.client.DialAndSendWithContext(sendCtx, msg)
		cancel()
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("mailer: send failed after %d attempts: %w", sendAttempts, lastErr)
}
