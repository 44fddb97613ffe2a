package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"digilib/internal/model"
	"digilib/internal/service"
)

// BorrowHandler handles lending endpoints.
type BorrowHandler struct {
	lendingService service.LendingService
}

// NewBorrowHandler creates a new borrow handler.
func NewBorrowHandler(lendingService service.LendingService) *BorrowHandler {
	return &BorrowHandler{lendingService: lendingService}
}

// Borrow godoc
// @Summary Borrow a book (member)
// @Tags borrows
// @Produce json
// @Param id path int true "Book ID"
// @Success 201 {object} model.BorrowRecord
// @Failure 400 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /books/{id}/borrow [post]
func (h *BorrowHandler) Borrow(c echo.Context) error {
	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	record, err := h.lendingService.Borrow(c.Request().Context(), claims.UserID, uint(bookID))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, record)
}

// Return godoc
// @Summary Return a borrowed book (owner or staff)
// @Tags borrows
// @Produce json
// @Param id path int true "Borrow record ID"
// @Success 200 {object} model.BorrowRecord
// @Failure 400 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /borrows/{id}/return [post]
func (h *BorrowHandler) Return(c echo.Context) error {
	recordID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	record, err := h.lendingService.Return(c.Request().Context(), claims.UserID, uint(recordID))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// MyBorrows godoc
// @Summary List the requester's borrows grouped by state
// @Tags borrows
// @Produce json
// @Success 200 {object} service.BorrowOverview
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /me/borrows [get]
func (h *BorrowHandler) MyBorrows(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	overview, err := h.lendingService.MyBorrows(c.Request().Context(), claims.UserID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, overview)
}

// ListBorrows godoc
// @Summary List all borrow records (staff)
// @Tags borrows
// @Produce json
// @Param status query string false "Filter by status" Enums(borrowed, overdue, returned)
// @Success 200 {array} model.BorrowRecord
// @Failure 400 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /borrows [get]
func (h *BorrowHandler) ListBorrows(c echo.Context) error {
	status := model.BorrowStatus(c.QueryParam("status"))
	switch status {
	case "", model.BorrowStatusBorrowed, model.BorrowStatusOverdue, model.BorrowStatusReturned:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
	}

	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	records, err := h.lendingService.ListBorrows(c.Request().Context(), claims.UserID, status)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, records)
}
