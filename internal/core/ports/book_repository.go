package ports

import (
	"context"

	"github.com/bookbay/marketplace/internal/core/domain"
)

// BookRepository defines persistence operations for catalog books.
type BookRepository interface {
	// InsertMany bulk-inserts books and returns them with generated IDs set.
	InsertMany(ctx context.Context, books []*domain.Book) ([]*domain.Book, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	FindAll(ctx context.Context) ([]*domain.Book, error)
	// Update replaces title, author and price wholesale and returns the
	// updated book.
	Update(ctx context.Context, book *domain.Book) (*domain.Book, error)
	Delete(ctx context.Context, id string) error
}
