package notification

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
	"github.com/seu-repo/evstation/pkg/config"
)

// SendGridNotifier e-mails EV owners about account state changes.
type SendGridNotifier struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       *zap.Logger
}

// New returns the notifier selected by cfg.Provider. Anything other than "sendgrid" logs only.
func New(cfg config.EmailConfig, log *zap.Logger) ports.Notifier {
	if cfg.Provider != "sendgrid" || cfg.APIKey == "" {
		log.Info("E-mail notifications disabled", zap.String("provider", cfg.Provider))
		return &LogNotifier{log: log}
	}
	return &SendGridNotifier{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.From,
		fromName:  cfg.FromName,
		log:       log,
	}
}

func (n *SendGridNotifier) OwnerStatusChanged(ctx context.Context, owner *domain.EVOwner) error {
	subject, body := statusMessage(owner)

	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail(owner.FirstName+" "+owner.LastName, owner.Email)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid error: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}

	n.log.Debug("Owner status e-mail sent", zap.String("nic", owner.NIC))
	return nil
}

// LogNotifier records the notification without sending anything.
type LogNotifier struct {
	log *zap.Logger
}

func (n *LogNotifier) OwnerStatusChanged(_ context.Context, owner *domain.EVOwner) error {
	subject, _ := statusMessage(owner)
	n.log.Info("Owner notification", zap.String("nic", owner.NIC), zap.String("subject", subject))
	return nil
}

func statusMessage(owner *domain.EVOwner) (subject, body string) {
	if owner.IsActive {
		return "Your EV owner account is active again",
			fmt.Sprintf("Hello %s,\n\nYour account has been reactivated. You can sign in and book charging slots again.\n", owner.FirstName)
	}
	return "Your EV owner account has been deactivated",
		fmt.Sprintf("Hello %s,\n\nYour account has been deactivated. Contact a station operator to reactivate it.\n", owner.FirstName)
}
