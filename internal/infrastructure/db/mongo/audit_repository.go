package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookbay/marketplace/internal/core/domain"
)

const eventsCollection = "catalog_events"

type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(eventsCollection)}
}

type mongoCatalogEvent struct {
	BookID    string    `bson:"book_id"`
	SellerID  string    `bson:"seller_id"`
	Action    string    `bson:"action"`
	Title     string    `bson:"title"`
	Timestamp time.Time `bson:"timestamp"`
}

// InsertEvent appends a catalog event to the audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.CatalogEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, mongoCatalogEvent{
		BookID:    event.BookID,
		SellerID:  event.SellerID,
		Action:    string(event.Action),
		Title:     event.Title,
		Timestamp: event.Timestamp,
	})
	return err
}
