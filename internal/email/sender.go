// Package email delivers practice-member notifications over SMTP.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"practicedesk_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers matter notification emails. Delivery is best-effort; the
// worker logs failures and asynq retries the task.
type Sender interface {
	SendNewLeadEmail(ctx context.Context, toEmail, clientName, matterNumber string) error
	SendLeadAcceptedEmail(ctx context.Context, toEmail, clientName, matterNumber string) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendNewLeadEmail(ctx context.Context, toEmail, clientName, matterNumber string) error {
	return nil
}

func (NoopSender) SendLeadAcceptedEmail(ctx context.Context, toEmail, clientName, matterNumber string) error {
	return nil
}

// SMTPSender delivers via a direct SMTP connection using go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSender builds a Sender from configuration, falling back to NoopSender
// when email is disabled or no SMTP host is configured.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		return NoopSender{}
	}
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) SendNewLeadEmail(ctx context.Context, toEmail, clientName, matterNumber string) error {
	subject := fmt.Sprintf("New lead %s", matterNumber)
	body := fmt.Sprintf(
		"<p>A new lead has come in through your intake form.</p><p><strong>%s</strong> &mdash; %s</p><p>Review it in your dashboard to accept or reject.</p>",
		matterNumber, clientName,
	)
	return s.send(ctx, toEmail, subject, body)
}

func (s *SMTPSender) SendLeadAcceptedEmail(ctx context.Context, toEmail, clientName, matterNumber string) error {
	subject := fmt.Sprintf("Lead %s accepted", matterNumber)
	body := fmt.Sprintf(
		"<p>Lead <strong>%s</strong> (%s) has been accepted and opened as a matter.</p>",
		matterNumber, clientName,
	)
	return s.send(ctx, toEmail, subject, body)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, msg)
}
