// Package mail delivers staff notifications about new inquiries.
package mail

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"moblind/internal/config"
	"moblind/internal/logging"
)

// Message is an email to send.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string // Plain text body
	HTML    string // Optional HTML body
}

// Sender delivers a message. Implementations are safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Provider() string
}

// NewSender picks the sender for cfg. Disabled email yields a ConsoleSender.
func NewSender(cfg *config.EmailConfig, logger *zap.Logger) (Sender, error) {
	logger = logging.OrNop(logger)
	if !cfg.Enabled {
		return NewConsoleSender(logger), nil
	}
	switch cfg.Provider {
	case "smtp":
		return NewSMTPSender(cfg)
	case "sendgrid":
		return NewSendGridSender(cfg, logger)
	}
	return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
}

// ConsoleSender logs messages instead of sending them.
type ConsoleSender struct {
	logger *zap.Logger
}

// NewConsoleSender creates a sender for development.
func NewConsoleSender(logger *zap.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logging.OrNop(logger)}
}

func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("email delivery disabled, not sending", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (s *ConsoleSender) Provider() string { return "console" }
