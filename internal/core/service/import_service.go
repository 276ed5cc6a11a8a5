package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookbay/marketplace/internal/api/metrics"
	"github.com/bookbay/marketplace/internal/core/domain"
	"github.com/bookbay/marketplace/internal/core/ports"
)

// ErrBadCSVHeader rejects a file whose header row is missing or lacks one of
// the required columns title, author, price.
var ErrBadCSVHeader = errors.New("csv header must contain title, author and price columns")

type ImportService struct {
	repo   ports.BookRepository
	cache  CatalogCache
	events EventRecorder
	logger zerolog.Logger
}

func NewImportService(repo ports.BookRepository, cache CatalogCache, events EventRecorder, logger zerolog.Logger) *ImportService {
	return &ImportService{repo: repo, cache: cache, events: events, logger: logger}
}

// ImportCSV streams r as CSV, validates each row, bulk-inserts the valid ones
// with sellerID as owner, and reports inserted/rejected counts with per-row
// rejection reasons. A bad or missing header fails the whole upload.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader, sellerID string) (*ports.ImportReport, error) {
	started := time.Now()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	cols, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	report := &ports.ImportReport{}
	now := time.Now().UTC()
	var books []*domain.Book

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Rejected++
			report.Errors = append(report.Errors, ports.RowError{Line: line, Reason: "malformed csv row"})
			metrics.ImportRowsRejectedTotal.WithLabelValues("malformed_row").Inc()
			continue
		}

		book, reason := parseRow(record, cols)
		if reason != "" {
			report.Rejected++
			report.Errors = append(report.Errors, ports.RowError{Line: line, Reason: reason})
			metrics.ImportRowsRejectedTotal.WithLabelValues(reasonLabel(reason)).Inc()
			continue
		}

		book.SellerID = sellerID
		book.CreatedAt = now
		book.UpdatedAt = now
		books = append(books, book)
	}

	if len(books) > 0 {
		inserted, err := s.repo.InsertMany(ctx, books)
		if err != nil {
			return nil, fmt.Errorf("import csv: %w", err)
		}
		report.Inserted = len(inserted)

		s.cache.Invalidate(ctx)
		metrics.BooksImportedTotal.Add(float64(len(inserted)))

		events := make([]ports.CatalogEventInput, 0, len(inserted))
		for _, b := range inserted {
			events = append(events, ports.CatalogEventInput{
				BookID:    b.ID,
				SellerID:  sellerID,
				Action:    domain.ActionImported,
				Title:     b.Title,
				Timestamp: now,
			})
		}
		s.events.EnqueueBatch(events)
	}

	metrics.ImportDuration.Observe(time.Since(started).Seconds())
	s.logger.Info().
		Str("seller_id", sellerID).
		Int("inserted", report.Inserted).
		Int("rejected", report.Rejected).
		Msg("csv import finished")

	return report, nil
}

// columnIndexes maps the required columns to their positions in the header.
type columnIndexes struct {
	title  int
	author int
	price  int
}

func readHeader(cr *csv.Reader) (columnIndexes, error) {
	cols := columnIndexes{title: -1, author: -1, price: -1}

	header, err := cr.Read()
	if err != nil {
		return cols, ErrBadCSVHeader
	}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title":
			cols.title = i
		case "author":
			cols.author = i
		case "price":
			cols.price = i
		}
	}
	if cols.title < 0 || cols.author < 0 || cols.price < 0 {
		return cols, ErrBadCSVHeader
	}
	return cols, nil
}

func parseRow(record []string, cols columnIndexes) (*domain.Book, string) {
	max := cols.title
	if cols.author > max {
		max = cols.author
	}
	if cols.price > max {
		max = cols.price
	}
	if len(record) <= max {
		return nil, "missing columns"
	}

	title := strings.TrimSpace(record[cols.title])
	author := strings.TrimSpace(record[cols.author])
	rawPrice := strings.TrimSpace(record[cols.price])

	if title == "" {
		return nil, "title is required"
	}
	if author == "" {
		return nil, "author is required"
	}

	// ParseFloat accepts NaN and ±Inf; a non-finite price would poison JSON
	// encoding of the whole catalog, so reject it with the rest.
	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, "price must be a number"
	}
	if price < 0 {
		return nil, "price must be non-negative"
	}

	return &domain.Book{Title: title, Author: author, Price: price}, ""
}

func reasonLabel(reason string) string {
	switch reason {
	case "missing columns":
		return "missing_columns"
	case "title is required", "author is required":
		return "empty_field"
	case "price must be a number", "price must be non-negative":
		return "bad_price"
	default:
		return "malformed_row"
	}
}
