package handler

import (
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookbay/marketplace/internal/core/ports"
	"github.com/bookbay/marketplace/internal/core/service"
)

// ImportHandler handles bulk book uploads from CSV files.
type ImportHandler struct {
	service   ports.ImportService
	uploadDir string
	log       zerolog.Logger
}

// NewImportHandler creates an ImportHandler. Uploads are spooled to uploadDir;
// when empty, the OS temp directory is used.
func NewImportHandler(service ports.ImportService, uploadDir string, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{service: service, uploadDir: uploadDir, log: log}
}

type importResponse struct {
	Message  string           `json:"message"`
	Inserted int              `json:"inserted"`
	Rejected int              `json:"rejected"`
	Errors   []ports.RowError `json:"errors,omitempty"`
}

// Upload handles POST /books/upload — seller only. The multipart "file" field
// is spooled to a temp file, streamed through the CSV importer, and removed
// on every exit path.
//
// @Summary      Bulk import books from CSV
// @Tags         books
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "CSV with columns title, author, price"
// @Success      200   {object}  importResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /books/upload [post]
func (h *ImportHandler) Upload(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "file is required"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "cannot read uploaded file"})
	}
	defer src.Close()

	tmp, err := os.CreateTemp(h.uploadDir, "book-import-*.csv")
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create upload spool file")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
	defer func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil {
			h.log.Warn().Err(err).Str("path", tmp.Name()).Msg("failed to remove upload spool file")
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		h.log.Error().Err(err).Msg("failed to spool uploaded file")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	report, err := h.service.ImportCSV(c.Request().Context(), tmp, userID)
	if err != nil {
		if errors.Is(err, service.ErrBadCSVHeader) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		h.log.Error().Err(err).Str("seller_id", userID).Msg("csv import failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, importResponse{
		Message:  "Books uploaded successfully",
		Inserted: report.Inserted,
		Rejected: report.Rejected,
		Errors:   report.Errors,
	})
}
