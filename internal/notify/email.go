// Package notify delivers re-authorization notices to users. When a sync
// run dies on a 401 the user has to visit the tracker's consent screen;
// mailing the authorization URL is the only push channel this service has.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/inbucket/html2text"
	"github.com/wneessen/go-mail"

	"timetracker-sync/internal/config"
)

type Notifier struct {
	cfg    *config.SMTPConfig
	logger *slog.Logger
}

func NewNotifier(cfg *config.SMTPConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		logger: slog.With("component", "notify"),
	}
}

// SendReauthorization mails the authorization URL to the user. Best effort:
// a delivery failure is returned for logging but must never fail the sync.
func (n *Notifier) SendReauthorization(to, trackerName, authURL string) error {
	if !n.cfg.Enabled() {
		n.logger.Debug("SMTP not configured, skipping re-authorization mail", "to", to)
		return nil
	}
	if to == "" {
		return fmt.Errorf("user has no email address")
	}

	html := fmt.Sprintf(
		`<p>Your time entries could no longer be synchronized to <b>%s</b>.</p>`+
			`<p>Please re-authorize the connection: <a href="%s">%s</a></p>`,
		trackerName, authURL, authURL)

	text, err := html2text.FromString(html, html2text.Options{OmitLinks: false})
	if err != nil {
		return fmt.Errorf("failed to convert HTML to text: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(fmt.Sprintf("Re-authorization required for %s", trackerName))
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	opts := []mail.Option{mail.WithPort(n.cfg.Port), mail.WithTLSPolicy(mail.TLSOpportunistic)}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}

	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	n.logger.Info("Sent re-authorization mail", "to", to, "tracker", trackerName)
	return nil
}
