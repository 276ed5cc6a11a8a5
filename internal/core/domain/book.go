package domain

import (
	"errors"
	"time"
)

var ErrBookNotFound = errors.New("book not found")
var ErrNotOwner = errors.New("access denied")

// Book is a catalog entry owned by the seller that imported it. Only the
// owning seller may update or delete it.
type Book struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Author    string    `json:"author" bson:"author"`
	Price     float64   `json:"price" bson:"price"`
	SellerID  string    `json:"seller_id" bson:"seller_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
