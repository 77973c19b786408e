// Package audit persists the outcome of every gateway exchange. The trail
// is append-only operational metadata; gateway entities, request payloads
// and signatures are never written to it.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	internal "github.com/merchantops/paytm-gateway/internal"
	"github.com/merchantops/paytm-gateway/internal/core/datamodel/audit"
	"github.com/merchantops/paytm-gateway/internal/core/events"
)

type RepositoryAPI interface {
	Create(log *audit.OperationLog) error
	ListByOperation(operation string, limit int) ([]*audit.OperationLog, error)
	ListByReference(reference string) ([]*audit.OperationLog, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// RegisterHandlers wires the service onto the event bus so every recorded
// operation lands in the trail without the request path waiting on the write.
func (s *Service) RegisterHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeOperationRecorded, s.handleOperationRecorded)
}

func (s *Service) handleOperationRecorded(ctx context.Context, event events.Event) error {
	recorded, ok := event.(*events.OperationRecordedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	entry := &audit.OperationLog{
		Operation:   recorded.Operation,
		Reference:   recorded.Reference,
		Outcome:     recorded.Outcome,
		GatewayCode: recorded.GatewayCode,
		DurationMS:  recorded.DurationMS,
		TraceID:     internal.TraceIDFromContext(ctx),
		CreatedAt:   recorded.OccurredAt(),
	}

	if err := s.repo.Create(entry); err != nil {
		s.logger.Error("failed to persist operation log",
			"operation", recorded.Operation,
			"error", err)
		return err
	}
	return nil
}

// RecentByOperation returns the newest trail entries for one operation.
func (s *Service) RecentByOperation(operation string, limit int) ([]*audit.OperationLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByOperation(operation, limit)
}

// ByReference returns every trail entry touching one order or link.
func (s *Service) ByReference(reference string) ([]*audit.OperationLog, error) {
	return s.repo.ListByReference(reference)
}
