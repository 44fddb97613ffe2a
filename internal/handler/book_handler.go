package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"digilib/internal/service"
)

// BookHandler handles catalog endpoints.
type BookHandler struct {
	catalogService service.CatalogService
}

// NewBookHandler creates a new book handler.
func NewBookHandler(catalogService service.CatalogService) *BookHandler {
	return &BookHandler{catalogService: catalogService}
}

// BookRequest represents a create/update payload for a catalog entry.
// ISBN may contain hyphens or spaces; it is normalized before storage.
type BookRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Author          string `json:"author" validate:"required,max=100"`
	ISBN            string `json:"isbn" validate:"required,min=10,max=17"`
	Category        string `json:"category" validate:"required"`
	Description     string `json:"description" validate:"max=1000"`
	CoverImage      string `json:"cover_image"`
	TotalCopies     int    `json:"total_copies" validate:"required,min=1,max=1000"`
	PublicationYear int    `json:"publication_year" validate:"omitempty,min=1000,max=2100"`
}

func (r *BookRequest) toInput() service.BookInput {
	return service.BookInput{
		Title:           r.Title,
		Author:          r.Author,
		ISBN:            r.ISBN,
		Category:        r.Category,
		Description:     r.Description,
		CoverImage:      r.CoverImage,
		TotalCopies:     r.TotalCopies,
		PublicationYear: r.PublicationYear,
	}
}

// ListBooks godoc
// @Summary Browse the catalog
// @Tags books
// @Produce json
// @Param q query string false "Search in title, author or ISBN"
// @Param category query string false "Filter by category"
// @Success 200 {array} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /books [get]
func (h *BookHandler) ListBooks(c echo.Context) error {
	books, err := h.catalogService.SearchBooks(c.Request().Context(), c.QueryParam("q"), c.QueryParam("category"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary Get book details
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} service.BookDetails
// @Failure 400 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /books/{id} [get]
func (h *BookHandler) GetBook(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	details, err := h.catalogService.GetBook(c.Request().Context(), claims.UserID, uint(id))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, details)
}

// CreateBook godoc
// @Summary Add a book to the catalog (staff)
// @Tags books
// @Accept json
// @Produce json
// @Param request body BookRequest true "Book data"
// @Success 201 {object} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /books [post]
func (h *BookHandler) CreateBook(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	book, err := h.catalogService.CreateBook(c.Request().Context(), claims.UserID, req.toInput())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

// UpdateBook godoc
// @Summary Edit a catalog entry (staff)
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param request body BookRequest true "Book data"
// @Success 200 {object} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /books/{id} [put]
func (h *BookHandler) UpdateBook(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	book, err := h.catalogService.UpdateBook(c.Request().Context(), claims.UserID, uint(id), req.toInput())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook godoc
// @Summary Delete a catalog entry (staff)
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /books/{id} [delete]
func (h *BookHandler) DeleteBook(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteBook(c.Request().Context(), claims.UserID, uint(id)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "book deleted successfully",
	})
}
