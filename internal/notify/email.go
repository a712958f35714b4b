package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/Dan9191/neuroledger/internal/config"
	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// EmailNotifier sends digests via SMTP
type EmailNotifier struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(cfg *config.Config, logger *logrus.Logger) *EmailNotifier {
	n := &EmailNotifier{cfg: cfg, logger: logger}
	n.send = func(e *email.Email) error {
		addr := fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort)
		auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
		return e.Send(addr, auth)
	}
	return n
}

func (n *EmailNotifier) Name() string { return "email" }

// Notify mails the digest to the user's address
func (n *EmailNotifier) Notify(_ context.Context, user models.User, d Digest) error {
	if user.Email == "" {
		return nil
	}
	e := email.NewEmail()
	e.From = n.cfg.SenderEmail
	e.To = []string{user.Email}
	e.Subject = d.Subject
	e.Text = []byte(d.Body)

	if err := n.send(e); err != nil {
		n.logger.Errorf("Failed to send email to %s: %v", user.Email, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Infof("Email sent to %s: %s", user.Email, e.Subject)
	return nil
}
