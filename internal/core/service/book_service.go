package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookbay/marketplace/internal/api/metrics"
	"github.com/bookbay/marketplace/internal/core/domain"
	"github.com/bookbay/marketplace/internal/core/ports"
)

// CatalogCache abstracts the read-through catalog cache (Redis).
type CatalogCache interface {
	GetAll(ctx context.Context) ([]*domain.Book, bool)
	SetAll(ctx context.Context, books []*domain.Book)
	GetBook(ctx context.Context, id string) (*domain.Book, bool)
	SetBook(ctx context.Context, book *domain.Book)
	// Invalidate drops the list entry and any given book entries.
	Invalidate(ctx context.Context, ids ...string)
}

// EventRecorder abstracts the catalog-event dispatcher.
type EventRecorder interface {
	Enqueue(event ports.CatalogEventInput)
	EnqueueBatch(events []ports.CatalogEventInput)
}

type BookService struct {
	repo   ports.BookRepository
	cache  CatalogCache
	events EventRecorder
	logger zerolog.Logger
}

func NewBookService(repo ports.BookRepository, cache CatalogCache, events EventRecorder, logger zerolog.Logger) *BookService {
	return &BookService{repo: repo, cache: cache, events: events, logger: logger}
}

// ListBooks returns the full catalog, unfiltered, through the cache.
func (s *BookService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	if books, ok := s.cache.GetAll(ctx); ok {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return books, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

	books, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetAll(ctx, books)
	return books, nil
}

func (s *BookService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	if book, ok := s.cache.GetBook(ctx, id); ok {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return book, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetBook(ctx, book)
	return book, nil
}

// UpdateBook replaces title, author and price wholesale. Existence is
// resolved before ownership so a missing id is always ErrBookNotFound.
func (s *BookService) UpdateBook(ctx context.Context, input ports.UpdateBookInput) (*domain.Book, error) {
	existing, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if existing.SellerID != input.SellerID {
		return nil, domain.ErrNotOwner
	}

	existing.Title = input.Title
	existing.Author = input.Author
	existing.Price = input.Price
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, updated.ID)
	metrics.CatalogMutationsTotal.WithLabelValues(string(domain.ActionUpdated)).Inc()
	s.events.Enqueue(ports.CatalogEventInput{
		BookID:    updated.ID,
		SellerID:  updated.SellerID,
		Action:    domain.ActionUpdated,
		Title:     updated.Title,
		Timestamp: updated.UpdatedAt,
	})

	s.logger.Info().Str("book_id", updated.ID).Str("seller_id", updated.SellerID).Msg("book updated")
	return updated, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id, sellerID string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.SellerID != sellerID {
		return domain.ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	metrics.CatalogMutationsTotal.WithLabelValues(string(domain.ActionDeleted)).Inc()
	s.events.Enqueue(ports.CatalogEventInput{
		BookID:    id,
		SellerID:  sellerID,
		Action:    domain.ActionDeleted,
		Title:     existing.Title,
		Timestamp: time.Now().UTC(),
	})

	s.logger.Info().Str("book_id", id).Str("seller_id", sellerID).Msg("book deleted")
	return nil
}
