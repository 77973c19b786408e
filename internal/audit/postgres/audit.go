package postgres

import (
	auditpkg "github.com/merchantops/paytm-gateway/internal/audit"
	"github.com/merchantops/paytm-gateway/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) auditpkg.RepositoryAPI {
	return &AuditRepository{
		db: db,
	}
}

func (r *AuditRepository) Create(log *audit.OperationLog) error {
	return r.db.Create(log).Error
}

func (r *AuditRepository) ListByOperation(operation string, limit int) ([]*audit.OperationLog, error) {
	var logs []*audit.OperationLog
	err := r.db.Where("operation = ?", operation).Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *AuditRepository) ListByReference(reference string) ([]*audit.OperationLog, error) {
	var logs []*audit.OperationLog
	err := r.db.Where("reference = ?", reference).Order("created_at DESC").Find(&logs).Error
	return logs, err
}
