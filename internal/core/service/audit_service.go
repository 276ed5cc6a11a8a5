package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookbay/marketplace/internal/core/domain"
	"github.com/bookbay/marketplace/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists catalog events to the
// audit collection.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single catalog event.
func (s *auditService) Process(ctx context.Context, in ports.CatalogEventInput) error {
	event := &domain.CatalogEvent{
		BookID:    in.BookID,
		SellerID:  in.SellerID,
		Action:    in.Action,
		Title:     in.Title,
		Timestamp: in.Timestamp,
	}

	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("process catalog event: %w", err)
	}

	s.log.Debug().
		Str("book_id", in.BookID).
		Str("action", string(in.Action)).
		Msg("catalog event recorded")

	return nil
}
