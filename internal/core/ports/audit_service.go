package ports

import (
	"context"
	"time"

	"github.com/bookbay/marketplace/internal/core/domain"
)

// CatalogEventInput is the DTO handed from producers to the AuditService
// through the dispatcher.
type CatalogEventInput struct {
	BookID    string
	SellerID  string
	Action    domain.CatalogAction
	Title     string
	Timestamp time.Time
}

// AuditService processes catalog mutation events off the dispatcher.
type AuditService interface {
	Process(ctx context.Context, event CatalogEventInput) error
}
