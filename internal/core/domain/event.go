package domain

import "time"

// CatalogAction identifies the kind of catalog mutation an event records.
type CatalogAction string

const (
	ActionImported CatalogAction = "imported"
	ActionUpdated  CatalogAction = "updated"
	ActionDeleted  CatalogAction = "deleted"
)

// CatalogEvent is an audit-trail record of a single catalog mutation.
type CatalogEvent struct {
	BookID    string
	SellerID  string
	Action    CatalogAction
	Title     string
	Timestamp time.Time
}
