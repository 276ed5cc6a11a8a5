package handler

import (
	"github.com/bookbay/marketplace/internal/core/domain"
)

// --- Domain → HTTP response ---

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Price:     b.Price,
		SellerID:  b.SellerID,
		CreatedAt: b.CreatedAt.UTC(),
		UpdatedAt: b.UpdatedAt.UTC(),
	}
}

func toBookListResponse(books []*domain.Book) []bookResponse {
	out := make([]bookResponse, len(books))
	for i, b := range books {
		out[i] = toBookResponse(b)
	}
	return out
}
