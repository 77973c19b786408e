package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	errors "github.com/merchantops/paytm-gateway/internal"
)

const (
	EventTypeLinkCreated       = "payment_link.created"
	EventTypeRefundInitiated   = "refund.initiated"
	EventTypeOperationRecorded = "gateway.operation_recorded"
)

type LinkCreatedEvent struct {
	BaseEvent
	LinkID        int64  `json:"link_id"`
	ShortURL      string `json:"short_url"`
	LinkName      string `json:"link_name"`
	Purpose       string `json:"purpose"`
	RecipientName string `json:"recipient_name"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Amount        string `json:"amount,omitempty"`
}

func NewLinkCreatedEvent(linkID int64, shortURL, linkName, purpose, recipientName, customerEmail, amount string) *LinkCreatedEvent {
	return &LinkCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLinkCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"link_id":   linkID,
				"short_url": shortURL,
				"link_name": linkName,
			},
		},
		LinkID:        linkID,
		ShortURL:      shortURL,
		LinkName:      linkName,
		Purpose:       purpose,
		RecipientName: recipientName,
		CustomerEmail: customerEmail,
		Amount:        amount,
	}
}

type RefundInitiatedEvent struct {
	BaseEvent
	OrderID      string `json:"order_id"`
	RefID        string `json:"ref_id"`
	RefundID     string `json:"refund_id"`
	RefundAmount string `json:"refund_amount"`
	Status       string `json:"status"`
}

func NewRefundInitiatedEvent(orderID, refID, refundID, refundAmount, status string) *RefundInitiatedEvent {
	return &RefundInitiatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRefundInitiated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":  orderID,
				"ref_id":    refID,
				"refund_id": refundID,
			},
		},
		OrderID:      orderID,
		RefID:        refID,
		RefundID:     refundID,
		RefundAmount: refundAmount,
		Status:       status,
	}
}

// OperationRecordedEvent carries the outcome of one adapter call for the
// audit trail: never the payload, never a checksum.
type OperationRecordedEvent struct {
	BaseEvent
	Operation   string `json:"operation"`
	Reference   string `json:"reference,omitempty"`
	Outcome     string `json:"outcome"`
	GatewayCode string `json:"gateway_code,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
}

// RecordOperation publishes the outcome of an adapter call. Call it with
// the operation error (nil on success); the outcome is the error type, and
// the gateway's own code rides along when the gateway reported the failure.
func RecordOperation(ctx context.Context, bus *EventBus, operation, reference string, duration time.Duration, err error) {
	if bus == nil {
		return
	}
	outcome := "SUCCESS"
	gatewayCode := ""
	if err != nil {
		outcome = "INTERNAL_ERROR"
		if appErr, ok := errors.IsAppError(err); ok {
			outcome = string(appErr.Type)
			gatewayCode = appErr.GatewayCode
		}
	}
	bus.Publish(ctx, NewOperationRecordedEvent(operation, reference, outcome, gatewayCode, duration))
}

func NewOperationRecordedEvent(operation, reference, outcome, gatewayCode string, duration time.Duration) *OperationRecordedEvent {
	return &OperationRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOperationRecorded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"operation": operation,
				"outcome":   outcome,
			},
		},
		Operation:   operation,
		Reference:   reference,
		Outcome:     outcome,
		GatewayCode: gatewayCode,
		DurationMS:  duration.Milliseconds(),
	}
}
