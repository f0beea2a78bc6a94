package ports

import (
	"context"

	"github.com/smartclinic/clinic-portal/internal/core/domain"
)

// AuditRepository persists gateway audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditSink accepts audit entries without blocking the caller.
type AuditSink interface {
	Record(entry domain.AuditEntry)
}
