package ports

import (
	"context"
	"io"
)

// RowError reports why a single CSV row was rejected.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport summarises a bulk CSV import: how many rows were inserted,
// how many rejected, and the per-row rejection reasons.
type ImportReport struct {
	Inserted int        `json:"inserted"`
	Rejected int        `json:"rejected"`
	Errors   []RowError `json:"errors,omitempty"`
}

// ImportService ingests a CSV stream of books on behalf of a seller.
type ImportService interface {
	// ImportCSV streams the reader as CSV with header columns
	// title, author and price. Valid rows are bulk-inserted with the
	// seller as owner; invalid rows are rejected individually.
	ImportCSV(ctx context.Context, r io.Reader, sellerID string) (*ImportReport, error)
}
