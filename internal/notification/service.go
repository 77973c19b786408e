package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/merchantops/paytm-gateway/internal/core/events"
)

type MailerAPI interface {
	Enqueue(job MailJob) error
}

type Service struct {
	mailer MailerAPI
	logger *slog.Logger
}

func NewService(mailer MailerAPI, logger *slog.Logger) *Service {
	return &Service{
		mailer: mailer,
		logger: logger,
	}
}

func (s *Service) RegisterHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeLinkCreated, s.handleLinkCreated)
}

func (s *Service) handleLinkCreated(ctx context.Context, event events.Event) error {
	created, ok := event.(*events.LinkCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	if created.CustomerEmail == "" {
		s.logger.Debug("link has no customer email, skipping notification",
			"link_id", created.LinkID)
		return nil
	}

	return s.mailer.Enqueue(MailJob{
		To:       created.CustomerEmail,
		LinkName: created.LinkName,
		ShortURL: created.ShortURL,
		Purpose:  created.Purpose,
		Amount:   created.Amount,
	})
}
