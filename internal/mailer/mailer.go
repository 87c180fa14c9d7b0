package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"nirvana/internal/config"
)

type Message struct {
	To      []string
	Subject string
	Body    string // plain-text body
	HTML    string // HTML body; takes precedence over Body when set
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Server, m.cfg.Port)

	// net/smtp has no context support; run the dial-and-send in a goroutine
	// so a stalled mail server cannot outlive the caller's deadline.
	done := make(chan error, 1)
	go func() {
		done <- m.send(addr, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send email: %w", ctx.Err())
	}
}

// send runs the full SMTP dialog. With MAIL_USE_TLS set the connection must
// upgrade via STARTTLS before anything sensitive crosses the wire; without it
// the upgrade is skipped entirely.
func (m *SMTPMailer) send(addr string, msg Message) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if m.cfg.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return errors.New("server does not support STARTTLS")
		}
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Server}); err != nil {
			return err
		}
	}

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Server)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(m.cfg.Sender); err != nil {
		return err
	}
	for _, rcpt := range msg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(m.encode(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

func (m *SMTPMailer) encode(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.Sender)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	if msg.HTML != "" {
		b.WriteString("MIME-Version: 1.0\r\n")
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
		b.WriteString("\r\n")
		b.WriteString(msg.HTML)
	} else {
		b.WriteString("\r\n")
		b.WriteString(msg.Body)
	}
	return []byte(b.String())
}

// Dispatcher sends mail off the request path. Delivery is at-most-once and
// fire-and-forget: a failure is logged, never surfaced to the caller.
type Dispatcher struct {
	logger  *slog.Logger
	mailer  Mailer
	timeout time.Duration
}

func NewDispatcher(logger *slog.Logger, mailer Mailer) *Dispatcher {
	return &Dispatcher{logger: logger, mailer: mailer, timeout: 30 * time.Second}
}

// Send delivers synchronously, for the rare path that reports failure back
// to the operator (the admin contact reply).
func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	return d.mailer.Send(ctx, msg)
}

func (d *Dispatcher) Dispatch(msg Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.mailer.Send(ctx, msg); err != nil {
			d.logger.Error("Email send error", "to", msg.To, "subject", msg.Subject, "error", err)
			return
		}
		d.logger.Info("Email sent", "to", msg.To, "subject", msg.Subject)
	}()
}
