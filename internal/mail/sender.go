package mail

import (
	"context"
	"fmt"

	"github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/resend/resend-go/v2"

	"github.com/hongminglow/freelancer-be/internal/config"
	"github.com/hongminglow/freelancer-be/internal/logging"
)

// Sender hands a rendered message to a provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher renders verification emails and passes them to a Sender.
type Dispatcher struct {
	sender Sender
	logger logging.Logger
}

// NewDispatcher wraps sender.
func NewDispatcher(sender Sender, logger logging.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, logger: logger.With("component", "mail")}
}

// New picks the sender configured by cfg. With mail inactive, messages are only logged.
func New(cfg config.Config, logger logging.Logger) (*Dispatcher, error) {
	if !cfg.MailActive {
		return NewDispatcher(NewLogSender(logger), logger), nil
	}
	switch cfg.MailProvider {
	case config.MailProviderResend:
		return NewDispatcher(NewResendSender(cfg.ResendAPIKey, formatFrom(cfg.MailFromName, cfg.MailFrom)), logger), nil
	case config.MailProviderMailjet:
		return NewDispatcher(NewMailjetSender(cfg.MailjetKey, cfg.MailjetSecret, cfg.MailFrom, cfg.MailFromName), logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}

// SendVerification emails link to the given address.
func (d *Dispatcher) SendVerification(ctx context.Context, to, link string) error {
	msg, err := VerificationMessage(to, link)
	if err != nil {
		return err
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	d.logger.Debug(ctx, "verification email handed to provider", "to", to)
	return nil
}

func formatFrom(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

// ResendSender delivers through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	_, err := s.client.Emails.SendWithContext(ctx, s.request(msg))
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

func (s *ResendSender) request(msg Message) *resend.SendEmailRequest {
	return &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
}

// MailjetSender delivers through the Mailjet v3.1 send API.
type MailjetSender struct {
	client   *mailjet.Client
	from     string
	fromName string
}

func NewMailjetSender(publicKey, secretKey, from, fromName string) *MailjetSender {
	return &MailjetSender{
		client:   mailjet.NewMailjetClient(publicKey, secretKey),
		from:     from,
		fromName: fromName,
	}
}

// Send does not honour ctx cancellation; the Mailjet client has no context-aware call.
func (s *MailjetSender) Send(_ context.Context, msg Message) error {
	if _, err := s.client.SendMailV31(s.messages(msg)); err != nil {
		return fmt.Errorf("mailjet: %w", err)
	}
	return nil
}

func (s *MailjetSender) messages(msg Message) *mailjet.MessagesV31 {
	return &mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{{
		From: &mailjet.RecipientV31{
			Email: s.from,
			Name:  s.fromName,
		},
		To: &mailjet.RecipientsV31{
			{Email: msg.To},
		},
		Subject:  msg.Subject,
		TextPart: msg.Text,
		HTMLPart: msg.HTML,
	}}}
}

// LogSender records that a message would have been sent. Bodies are not logged
// because they carry verification tokens.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "mail")}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info(ctx, "mail delivery disabled, message dropped", "to", msg.To, "subject", msg.Subject)
	return nil
}
