package audit

import "time"

// OperationLog records the outcome of a single gateway exchange. Only
// metadata is stored: payloads, signatures and credentials never land here.
type OperationLog struct {
	ID          int64     `gorm:"primaryKey"`
	Operation   string    `gorm:"column:operation;not null;index"`
	Reference   string    `gorm:"column:reference;index"`
	Outcome     string    `gorm:"column:outcome;not null"`
	GatewayCode string    `gorm:"column:gateway_code"`
	DurationMS  int64     `gorm:"column:duration_ms;not null"`
	TraceID     string    `gorm:"column:trace_id"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}

func (OperationLog) TableName() string {
	return "gateway_audit_logs"
}

// OutcomeSuccess is recorded when an adapter call returned without error;
// failures record the error type instead.
const OutcomeSuccess = "SUCCESS"
