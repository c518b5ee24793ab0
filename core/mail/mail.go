package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Config holds configuration for outbound mail.
type Config struct {
	// APIKey is the SendGrid API key. When empty, mail sending is disabled
	// and verification links are only logged.
	APIKey string `mapstructure:"api_key" default:""`
	// FromAddress is the sender address.
	FromAddress string `mapstructure:"from_address" default:"noreply@flashdeck.app"`
	// FromName is the sender display name.
	FromName string `mapstructure:"from_name" default:"Flashdeck"`
	// FrontendURL is the base URL of the SPA, used to build verification links.
	FrontendURL string `mapstructure:"frontend_url" default:"http://localhost:5173"`
}

// Mailer sends transactional mail.
type Mailer interface {
	// SendVerification mails an email verification link to the user.
	SendVerification(ctx context.Context, email, username, token string) error
}

// New returns a SendGrid-backed mailer, or a logging no-op when no API key is
// configured (local development).
func New(cfg Config, log *zap.Logger) Mailer {
	if cfg.APIKey == "" {
		return &noopMailer{cfg: cfg, log: log}
	}
	return &sendgridMailer{cfg: cfg, client: sendgrid.NewSendClient(cfg.APIKey)}
}

type sendgridMailer struct {
	cfg    Config
	client *sendgrid.Client
}

func (m *sendgridMailer) SendVerification(ctx context.Context, email, username, token string) error {
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", m.cfg.FrontendURL, token)

	from := sgmail.NewEmail(m.cfg.FromName, m.cfg.FromAddress)
	to := sgmail.NewEmail(username, email)
	subject := "Verify Your Email Address"
	plain := fmt.Sprintf("Hi %s,\n\nPlease verify your email address by opening the link below:\n\n%s\n\nThis link will expire in 12 hours.\n\nIf you did not sign up, please ignore this email.", username, verificationURL)
	html := fmt.Sprintf(`<p>Hi %s,</p><p>Please verify your email address by clicking the link below:</p><p><a href="%s">Verify Email</a></p><p>This link will expire in 12 hours.</p>`, username, verificationURL)

	message := sgmail.NewSingleEmail(from, subject, to, plain, html)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("verification email rejected: status %d", resp.StatusCode)
	}
	return nil
}

type noopMailer struct {
	cfg Config
	log *zap.Logger
}

func (m *noopMailer) SendVerification(ctx context.Context, email, username, token string) error {
	m.log.Info("mail disabled, verification link not sent",
		zap.String("email", email),
		zap.String("url", fmt.Sprintf("%s/verify-email?token=%s", m.cfg.FrontendURL, token)),
	)
	return nil
}
