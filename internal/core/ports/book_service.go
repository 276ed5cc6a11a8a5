package ports

import (
	"context"

	"github.com/bookbay/marketplace/internal/core/domain"
)

// UpdateBookInput carries a wholesale replacement of a book's mutable fields.
// SellerID is the requesting user, used for the ownership check.
type UpdateBookInput struct {
	ID       string
	SellerID string
	Title    string
	Author   string
	Price    float64
}

// BookService defines use-case operations on the catalog.
type BookService interface {
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	// UpdateBook resolves existence before ownership: a missing id yields
	// ErrBookNotFound, a foreign owner ErrNotOwner.
	UpdateBook(ctx context.Context, input UpdateBookInput) (*domain.Book, error)
	DeleteBook(ctx context.Context, id, sellerID string) error
}
