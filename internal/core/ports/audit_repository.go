package ports

import (
	"context"

	"github.com/bookbay/marketplace/internal/core/domain"
)

// AuditRepository persists catalog events to the audit collection.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.CatalogEvent) error
}
