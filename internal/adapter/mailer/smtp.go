// Package mailer renders and delivers notification emails.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/wneessen/go-mail"

	"github.com/heartmarshall/legalpulse/internal/config"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

// Message is a rendered email.
type Message struct {
	To             string
	ToName         string
	Subject        string
	Text           string
	HTML           string
	UnsubscribeURL string
}

// SMTPSender delivers messages over SMTP.
type SMTPSender struct {
	client    *mail.Client
	from      string
	retryWait time.Duration
	log       *slog.Logger
}

// NewSMTPSender creates a sender from the mail configuration.
func NewSMTPSender(cfg config.MailConfig, logger *slog.Logger) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithTLSPolicy(tlsPolicy(cfg.TLSPolicy)),
		mail.WithTimeout(30 * time.Second),
	}
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
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
		return nil, fmt.Errorf("mailer: create client: %w", err)
	}

	return &SMTPSender{
		client:    client,
		from:      cfg.From,
		retryWait: 2 * time.Second,
		log:       logger.With("adapter", "mailer"),
	}, nil
}

func tlsPolicy(s string) mail.TLSPolicy {
	switch strings.ToLower(s) {
	case "mandatory":
		return mail.TLSMandatory
	case "none", "notls":
		return mail.NoTLS
	default:
		return mail.TLSOpportunistic
	}
}

// Send delivers one message. Temporary SMTP failures are retried once.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg, err := buildMsg(s.from, m)
	if err != nil {
		return err
	}

	op := func() error {
		err := s.client.DialAndSendWithContext(ctx, msg)
		if err == nil {
			return nil
		}
		var sendErr *mail.SendError
		if ctx.Err() != nil || (errors.As(err, &sendErr) && !sendErr.IsTemp()) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, _ time.Duration) {
		s.log.WarnContext(ctx, "smtp send retry", slog.String("error", err.Error()))
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryWait), 1), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return fmt.Errorf("%w: smtp: %w", domain.ErrDelivery, err)
	}
	return nil
}

func buildMsg(from string, m Message) (*mail.Msg, error) {
	if strings.TrimSpace(m.To) == "" {
		return nil, fmt.Errorf("%w: empty recipient", domain.ErrDelivery)
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("%w: from address: %w", domain.ErrDelivery, err)
	}
	if m.ToName != "" {
		if err := msg.AddToFormat(m.ToName, m.To); err != nil {
			return nil, fmt.Errorf("%w: recipient: %w", domain.ErrDelivery, err)
		}
	} else if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("%w: recipient: %w", domain.ErrDelivery, err)
	}

	msg.Subject(m.Subject)
	msg.SetDate()
	msg.SetMessageID()
	if m.UnsubscribeURL != "" {
		msg.SetGenHeader(mail.HeaderListUnsubscribe, "<"+m.UnsubscribeURL+">")
	}
	msg.SetBodyString(mail.TypeTextPlain, m.Text)
	if m.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, m.HTML)
	}
	return msg, nil
}

// LogSender writes messages to the log instead of sending them. It is used
// when mail delivery is disabled.
type LogSender struct {
	log *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{log: logger.With("adapter", "mailer", "transport", "log")}
}

// Send logs the message envelope.
func (s *LogSender) Send(ctx context.Context, m Message) error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("%w: empty recipient", domain.ErrDelivery)
	}
	s.log.InfoContext(ctx, "email suppressed",
		slog.String("to", m.To),
		slog.String("subject", m.Subject),
		slog.Int("text_bytes", len(m.Text)),
	)
	return nil
}
