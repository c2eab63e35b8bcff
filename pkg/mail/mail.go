package mail

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"campus-events/backend/config"
)

// ErrNoRecipients a message without recipients cannot be sent.
var ErrNoRecipients = errors.New("mail: no recipients")

// Inline is an attachment referenced from the HTML body as cid:<CID>.
type Inline struct {
	CID         string `json:"cid"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Message is an outbound email. Text and HTML are both optional; at least one is expected.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
	Inline  []Inline `json:"inline,omitempty"`
}

// Sender delivers a message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns an SMTP sender, or a logging no-op when mail is disabled.
func NewSender(cfg *config.MailConfig, logger *zap.Logger) Sender {
	if !cfg.Enabled {
		return &NopSender{logger: logger}
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// ────────────────────── SMTP ──────────────────────

// SMTPSender sends through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// Send dials, sends and closes. ctx is only checked before dialing; gomail has no
// context support.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := Build(s.from, msg)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Build converts msg to a gomail message.
func Build(from string, msg Message) (*gomail.Message, error) {
	if len(msg.To) == 0 {
		return nil, ErrNoRecipients
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}

	for _, in := range msg.Inline {
		data := in.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-ID": {"<" + in.CID + ">"},
			}),
		}
		if in.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {in.ContentType},
			}))
		}
		m.Embed(in.Filename, settings...)
	}

	return m, nil
}

// ────────────────────── No-op ──────────────────────

// NopSender logs messages instead of sending them.
type NopSender struct {
	logger *zap.Logger
}

// Send logs the envelope.
func (s *NopSender) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	s.logger.Info("mail disabled, message dropped",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("inline", len(msg.Inline)),
	)
	return nil
}
