package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookbay/marketplace/internal/core/domain"
)

const booksCollection = "books"

type BookRepository struct {
	col *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(booksCollection)}
}

type mongoBook struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Author    string             `bson:"author"`
	Price     float64            `bson:"price"`
	SellerID  string             `bson:"seller_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func toMongoBook(b *domain.Book) mongoBook {
	return mongoBook{
		Title:     b.Title,
		Author:    b.Author,
		Price:     b.Price,
		SellerID:  b.SellerID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (mb mongoBook) toDomain() *domain.Book {
	return &domain.Book{
		ID:        mb.ID.Hex(),
		Title:     mb.Title,
		Author:    mb.Author,
		Price:     mb.Price,
		SellerID:  mb.SellerID,
		CreatedAt: mb.CreatedAt.UTC(),
		UpdatedAt: mb.UpdatedAt.UTC(),
	}
}

// InsertMany bulk-inserts books and returns copies with generated IDs set,
// in input order.
func (r *BookRepository) InsertMany(ctx context.Context, books []*domain.Book) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, len(books))
	for i, b := range books {
		docs[i] = toMongoBook(b)
	}

	res, err := r.col.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}

	inserted := make([]*domain.Book, len(books))
	for i, b := range books {
		copy := *b
		if oid, ok := res.InsertedIDs[i].(primitive.ObjectID); ok {
			copy.ID = oid.Hex()
		}
		inserted[i] = &copy
	}
	return inserted, nil
}

// FindByID retrieves a book by its hex id. A malformed id is reported as
// not found so lookups are total over arbitrary path parameters.
func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mb mongoBook
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return mb.toDomain(), nil
}

// FindAll returns the entire catalog, unfiltered.
func (r *BookRepository) FindAll(ctx context.Context) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	books := make([]*domain.Book, 0)
	for cur.Next(ctx) {
		var mb mongoBook
		if err := cur.Decode(&mb); err != nil {
			return nil, err
		}
		books = append(books, mb.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// Update replaces title, author and price wholesale and returns the updated book.
func (r *BookRepository) Update(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	oid, err := primitive.ObjectIDFromHex(book.ID)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":      book.Title,
		"author":     book.Author,
		"price":      book.Price,
		"updated_at": book.UpdatedAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mb mongoBook
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return mb.toDomain(), nil
}

// Delete removes a book row.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the books collection.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
