// Package mail delivers transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	dErrors "folio/pkg/domain-errors"
)

// Sender delivers mail on behalf of the site.
type Sender interface {
	// SendOTP delivers a one-time login code to the given address.
	SendOTP(ctx context.Context, to, code string) error
	// SendContact relays a visitor message to the site owner.
	SendContact(ctx context.Context, fromName, fromEmail, subject, body string) error
}

// Config carries SMTP connection settings.
type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string
	// OTPTTLMinutes is quoted in the login-code email body.
	OTPTTLMinutes int
}

// SMTPSender sends mail through a plain-auth SMTP relay.
type SMTPSender struct {
	cfg Config
}

func NewSMTPSender(cfg Config) *SMTPSender {
	if cfg.OTPTTLMinutes <= 0 {
		cfg.OTPTTLMinutes = 10
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendOTP(ctx context.Context, to, code string) error {
	subject := "Your login code"
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"Your one-time login code is:\n\n"+
			"    %s\n\n"+
			"It expires in %d minutes. If you did not request this code, you can ignore this email.\n",
		code, s.cfg.OTPTTLMinutes)

	if err := s.send(ctx, to, subject, body); err != nil {
		return dErrors.Wrap(err, dErrors.CodeDeliveryFailed, "failed to send login code")
	}
	return nil
}

func (s *SMTPSender) SendContact(ctx context.Context, fromName, fromEmail, subject, body string) error {
	fullSubject := fmt.Sprintf("Contact form: %s", subject)
	fullBody := fmt.Sprintf("From: %s <%s>\n\n%s\n", fromName, fromEmail, body)

	if err := s.send(ctx, s.cfg.From, fullSubject, fullBody); err != nil {
		return dErrors.Wrap(err, dErrors.CodeDeliveryFailed, "failed to relay contact message")
	}
	return nil
}

// send performs the SMTP handshake and delivery. Headers use CRLF per RFC 5322.
func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	headers := []string{
		fmt.Sprintf("From: %s", s.cfg.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}
	message := strings.Join(headers, "\r\n")

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(message))
}

// LogSender writes mail to the log instead of delivering it. Used in
// development when no SMTP relay is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendOTP(ctx context.Context, to, code string) error {
	s.logger.InfoContext(ctx, "mail delivery skipped, no SMTP relay configured",
		"to", to,
		"code", code,
	)
	return nil
}

func (s *LogSender) SendContact(ctx context.Context, fromName, fromEmail, subject, body string) error {
	s.logger.InfoContext(ctx, "contact relay skipped, no SMTP relay configured",
		"from_name", fromName,
		"from_email", fromEmail,
		"subject", subject,
	)
	return nil
}
