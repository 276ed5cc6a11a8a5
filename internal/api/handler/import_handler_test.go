package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookbay/marketplace/internal/core/ports"
	"github.com/bookbay/marketplace/internal/core/service"
)

type stubImportService struct {
	importFn func(ctx context.Context, r io.Reader, sellerID string) (*ports.ImportReport, error)
}

func (s *stubImportService) ImportCSV(ctx context.Context, r io.Reader, sellerID string) (*ports.ImportReport, error) {
	return s.importFn(ctx, r, sellerID)
}

func newUploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/books/upload", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return req
}

func TestImportHandler_Upload_Success(t *testing.T) {
	csvBody := "title,author,price\nT1,A1,9.99\nT2,A2,19.5\n"

	stub := &stubImportService{
		importFn: func(ctx context.Context, r io.Reader, sellerID string) (*ports.ImportReport, error) {
			if sellerID != "seller_1" {
				t.Fatalf("expected uploader id, got %s", sellerID)
			}
			content, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("read spooled file: %v", err)
			}
			if string(content) != csvBody {
				t.Fatalf("spooled content mismatch: %q", content)
			}
			return &ports.ImportReport{Inserted: 2}, nil
		},
	}
	handler := NewImportHandler(stub, "", zerolog.Nop())

	e := echo.New()
	req := newUploadRequest(t, "file", "books.csv", csvBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "seller_1")
	c.Set("role", "seller")

	if err := handler.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Books uploaded successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	if resp["inserted"] != float64(2) {
		t.Fatalf("expected 2 inserted, got %v", resp["inserted"])
	}
}

func TestImportHandler_Upload_MissingFile(t *testing.T) {
	stub := &stubImportService{
		importFn: func(ctx context.Context, r io.Reader, sellerID string) (*ports.ImportReport, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewImportHandler(stub, "", zerolog.Nop())

	e := echo.New()
	req := newUploadRequest(t, "wrong_field", "books.csv", "title,author,price\n")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "seller_1")
	c.Set("role", "seller")

	_ = handler.Upload(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHandler_Upload_BadHeader(t *testing.T) {
	stub := &stubImportService{
		importFn: func(ctx context.Context, r io.Reader, sellerID string) (*ports.ImportReport, error) {
			return nil, service.ErrBadCSVHeader
		},
	}
	handler := NewImportHandler(stub, "", zerolog.Nop())

	e := echo.New()
	req := newUploadRequest(t, "file", "books.csv", "name,cost\nX,1\n")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "seller_1")
	c.Set("role", "seller")

	_ = handler.Upload(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHandler_Upload_PartialReport(t *testing.T) {
	stub := &stubImportService{
		importFn: func(ctx context.Context, r io.Reader, sellerID string) (*ports.ImportReport, error) {
			return &ports.ImportReport{
				Inserted: 1,
				Rejected: 1,
				Errors:   []ports.RowError{{Line: 3, Reason: "price must be a number"}},
			}, nil
		},
	}
	handler := NewImportHandler(stub, "", zerolog.Nop())

	e := echo.New()
	req := newUploadRequest(t, "file", "books.csv", "title,author,price\nT1,A1,9.99\nT2,A2,oops\n")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "seller_1")
	c.Set("role", "seller")

	if err := handler.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["inserted"] != float64(1) || resp["rejected"] != float64(1) {
		t.Fatalf("unexpected report: %+v", resp)
	}
	errs, ok := resp["errors"].([]any)
	if !ok || len(errs) != 1 {
		t.Fatalf("expected 1 row error, got %+v", resp["errors"])
	}
}
