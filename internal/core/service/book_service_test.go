package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bookbay/marketplace/internal/core/domain"
	"github.com/bookbay/marketplace/internal/core/ports"
)

// stubBookRepo is an in-memory BookRepository shared by the book and import
// service tests.
type stubBookRepo struct {
	books   map[string]*domain.Book
	nextID  int
	updates int
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[string]*domain.Book)}
}

func cloneBook(b *domain.Book) *domain.Book {
	if b == nil {
		return nil
	}
	clone := *b
	return &clone
}

func (r *stubBookRepo) InsertMany(_ context.Context, books []*domain.Book) ([]*domain.Book, error) {
	inserted := make([]*domain.Book, len(books))
	for i, b := range books {
		copy := cloneBook(b)
		r.nextID++
		copy.ID = fmt.Sprintf("book_%d", r.nextID)
		r.books[copy.ID] = cloneBook(copy)
		inserted[i] = copy
	}
	return inserted, nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	if b, ok := r.books[id]; ok {
		return cloneBook(b), nil
	}
	return nil, domain.ErrBookNotFound
}

func (r *stubBookRepo) FindAll(_ context.Context) ([]*domain.Book, error) {
	out := make([]*domain.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, cloneBook(b))
	}
	return out, nil
}

func (r *stubBookRepo) Update(_ context.Context, book *domain.Book) (*domain.Book, error) {
	if _, ok := r.books[book.ID]; !ok {
		return nil, domain.ErrBookNotFound
	}
	r.updates++
	r.books[book.ID] = cloneBook(book)
	return cloneBook(book), nil
}

func (r *stubBookRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

// stubCache records invalidations and optionally serves a canned list.
type stubCache struct {
	all          []*domain.Book
	haveAll      bool
	setAllCalls  int
	invalidated  int
	invalidatedI []string
}

func (c *stubCache) GetAll(_ context.Context) ([]*domain.Book, bool) {
	return c.all, c.haveAll
}

func (c *stubCache) SetAll(_ context.Context, books []*domain.Book) {
	c.all = books
	c.setAllCalls++
}

func (c *stubCache) GetBook(_ context.Context, _ string) (*domain.Book, bool) {
	return nil, false
}

func (c *stubCache) SetBook(_ context.Context, _ *domain.Book) {}

func (c *stubCache) Invalidate(_ context.Context, ids ...string) {
	c.invalidated++
	c.invalidatedI = append(c.invalidatedI, ids...)
}

// stubRecorder captures enqueued catalog events.
type stubRecorder struct {
	events []ports.CatalogEventInput
}

func (r *stubRecorder) Enqueue(event ports.CatalogEventInput) {
	r.events = append(r.events, event)
}

func (r *stubRecorder) EnqueueBatch(events []ports.CatalogEventInput) {
	r.events = append(r.events, events...)
}

func seedBook(repo *stubBookRepo, sellerID string) *domain.Book {
	inserted, _ := repo.InsertMany(context.Background(), []*domain.Book{
		{Title: "Seed", Author: "Author", Price: 10, SellerID: sellerID},
	})
	return inserted[0]
}

func TestBookService_ListBooks_CacheMiss(t *testing.T) {
	repo := newStubBookRepo()
	cache := &stubCache{}
	rec := &stubRecorder{}
	svc := NewBookService(repo, cache, rec, zerolog.Nop())

	seedBook(repo, "seller_a")
	seedBook(repo, "seller_b")

	books, err := svc.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if cache.setAllCalls != 1 {
		t.Fatalf("expected list to be cached after miss")
	}
}

func TestBookService_ListBooks_CacheHit(t *testing.T) {
	repo := newStubBookRepo()
	cache := &stubCache{
		haveAll: true,
		all:     []*domain.Book{{ID: "cached", Title: "Cached"}},
	}
	svc := NewBookService(repo, cache, &stubRecorder{}, zerolog.Nop())

	books, err := svc.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("ListBooks returned error: %v", err)
	}
	if len(books) != 1 || books[0].ID != "cached" {
		t.Fatalf("expected cached list, got %+v", books)
	}
}

func TestBookService_UpdateBook_Success(t *testing.T) {
	repo := newStubBookRepo()
	cache := &stubCache{}
	rec := &stubRecorder{}
	svc := NewBookService(repo, cache, rec, zerolog.Nop())

	book := seedBook(repo, "seller_a")

	updated, err := svc.UpdateBook(context.Background(), ports.UpdateBookInput{
		ID:       book.ID,
		SellerID: "seller_a",
		Title:    "New",
		Author:   "New Author",
		Price:    42.5,
	})
	if err != nil {
		t.Fatalf("UpdateBook returned error: %v", err)
	}
	if updated.Title != "New" || updated.Price != 42.5 {
		t.Fatalf("unexpected result: %+v", updated)
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation")
	}
	if len(rec.events) != 1 || rec.events[0].Action != domain.ActionUpdated {
		t.Fatalf("expected one updated event, got %+v", rec.events)
	}
}

func TestBookService_UpdateBook_NotFoundBeforeOwnership(t *testing.T) {
	repo := newStubBookRepo()
	svc := NewBookService(repo, &stubCache{}, &stubRecorder{}, zerolog.Nop())

	// missing id must be not-found even though the requester owns nothing
	_, err := svc.UpdateBook(context.Background(), ports.UpdateBookInput{
		ID:       "missing",
		SellerID: "seller_a",
		Title:    "T",
		Author:   "A",
		Price:    1,
	})
	if err != domain.ErrBookNotFound {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestBookService_UpdateBook_NotOwner(t *testing.T) {
	repo := newStubBookRepo()
	rec := &stubRecorder{}
	svc := NewBookService(repo, &stubCache{}, rec, zerolog.Nop())

	book := seedBook(repo, "seller_a")

	_, err := svc.UpdateBook(context.Background(), ports.UpdateBookInput{
		ID:       book.ID,
		SellerID: "seller_b",
		Title:    "Taken",
		Author:   "X",
		Price:    1,
	})
	if err != domain.ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("repo must not be written for a foreign owner")
	}
	if len(rec.events) != 0 {
		t.Fatalf("no event should be recorded")
	}
}

func TestBookService_DeleteBook_Success(t *testing.T) {
	repo := newStubBookRepo()
	cache := &stubCache{}
	rec := &stubRecorder{}
	svc := NewBookService(repo, cache, rec, zerolog.Nop())

	book := seedBook(repo, "seller_a")

	if err := svc.DeleteBook(context.Background(), book.ID, "seller_a"); err != nil {
		t.Fatalf("DeleteBook returned error: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), book.ID); err != domain.ErrBookNotFound {
		t.Fatalf("expected book to be gone, got %v", err)
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation")
	}
	if len(rec.events) != 1 || rec.events[0].Action != domain.ActionDeleted {
		t.Fatalf("expected one deleted event, got %+v", rec.events)
	}
}

func TestBookService_DeleteBook_NotOwner(t *testing.T) {
	repo := newStubBookRepo()
	svc := NewBookService(repo, &stubCache{}, &stubRecorder{}, zerolog.Nop())

	book := seedBook(repo, "seller_a")

	if err := svc.DeleteBook(context.Background(), book.ID, "seller_b"); err != domain.ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := repo.FindByID(context.Background(), book.ID); err != nil {
		t.Fatalf("book must survive a forbidden delete: %v", err)
	}
}

func TestBookService_DeleteBook_NotFound(t *testing.T) {
	repo := newStubBookRepo()
	svc := NewBookService(repo, &stubCache{}, &stubRecorder{}, zerolog.Nop())

	if err := svc.DeleteBook(context.Background(), "missing", "seller_a"); err != domain.ErrBookNotFound {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}
