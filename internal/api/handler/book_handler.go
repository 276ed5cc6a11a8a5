package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookbay/marketplace/internal/core/domain"
	"github.com/bookbay/marketplace/internal/core/ports"
)

// BookHandler handles HTTP requests for catalog operations.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /books — the full catalog, any authenticated role.
//
// @Summary      List all books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   bookResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	books, err := h.service.ListBooks(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, toBookListResponse(books))
}

// Get handles GET /books/:id.
//
// @Summary      Get a book by id
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  bookResponse
// @Failure      404  {object}  errorResponse
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	book, err := h.service.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "Book not found"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Update handles PUT /books/:id — seller + owner only. Existence is resolved
// before ownership, so a missing id is 404 and a foreign owner 403.
//
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Book id"
// @Param        body  body      updateBookRequest  true  "Replacement fields"
// @Success      200   {object}  bookResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateBookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	book, err := h.service.UpdateBook(c.Request().Context(), ports.UpdateBookInput{
		ID:       c.Param("id"),
		SellerID: userID,
		Title:    req.Title,
		Author:   req.Author,
		Price:    req.Price,
	})
	if err != nil {
		return bookError(c, err)
	}

	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Delete handles DELETE /books/:id — seller + owner only.
//
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteBook(c.Request().Context(), c.Param("id"), userID); err != nil {
		return bookError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Book deleted"})
}

func bookError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrBookNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Book not found"})
	case errors.Is(err, domain.ErrNotOwner):
		return c.JSON(http.StatusForbidden, errorResponse{Error: "Access denied"})
	}
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
