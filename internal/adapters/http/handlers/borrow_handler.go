package handlers

import (
	"errors"
	"strconv"

	"borrowdesk/internal/adapters/persistence/models"
	"borrowdesk/internal/core/domain"
	"borrowdesk/internal/core/services"
	"borrowdesk/internal/pkg/pagination"
	"borrowdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BorrowHandler handles borrow record endpoints
type BorrowHandler struct {
	borrowService *services.BorrowService
}

// NewBorrowHandler creates a new borrow handler
func NewBorrowHandler(borrowService *services.BorrowService) *BorrowHandler {
	return &BorrowHandler{
		borrowService: borrowService,
	}
}

// CreateBorrow registers a new borrow
// @Summary Register borrow
// @Description Register a new borrow record (Admin only)
// @Tags Borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RegisterBorrowInput true "Borrow data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /borrows [post]
func (h *BorrowHandler) CreateBorrow(c *fiber.Ctx) error {
	var input services.RegisterBorrowInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	borrow, err := h.borrowService.Register(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Amount and rate must be greater than zero")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrCurrencyNotFound):
			return response.NotFound(c, "Currency not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid date format, use YYYY-MM-DD")
		default:
			return response.InternalServerError(c, "Failed to register borrow")
		}
	}

	return response.Created(c, "Borrow registered successfully", fiber.Map{
		"borrow": borrow.ToResponse(),
	})
}

// ListBorrows lists borrows with pagination
// @Summary List borrows
// @Description Get all borrow records with pagination (Admin only)
// @Tags Borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /borrows [get]
func (h *BorrowHandler) ListBorrows(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	borrows, total, err := h.borrowService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list borrows")
	}

	responses := make([]*models.BorrowResponse, len(borrows))
	for i, borrow := range borrows {
		responses[i] = borrow.ToResponse()
	}

	return response.Success(c, "Borrows retrieved successfully", pagination.NewResponse(responses, params, total))
}

// GetBorrow gets a borrow by ID
// @Summary Get borrow
// @Description Get a borrow record by ID
// @Tags Borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Borrow ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /borrows/{id} [get]
func (h *BorrowHandler) GetBorrow(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	borrow, err := h.borrowService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrBorrowNotFound) {
			return response.NotFound(c, "Borrow not found")
		}
		return response.InternalServerError(c, "Failed to get borrow")
	}

	return response.Success(c, "Borrow retrieved successfully", fiber.Map{
		"borrow": borrow.ToResponse(),
	})
}

// MyBorrows lists the authenticated user's borrows
// @Summary My borrows
// @Description Get the authenticated user's borrow records
// @Tags Borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /borrows/my [get]
func (h *BorrowHandler) MyBorrows(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	borrows, err := h.borrowService.ListByUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list borrows")
	}

	responses := make([]*models.BorrowResponse, len(borrows))
	for i, borrow := range borrows {
		responses[i] = borrow.ToResponse()
	}

	return response.Success(c, "Borrows retrieved successfully", fiber.Map{
		"borrows": responses,
	})
}

// ListRepayable lists open borrows
// @Summary List repayable borrows
// @Description Get open borrow records, optionally filtered by user (Admin only)
// @Tags Borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "Filter by user ID"
// @Success 200 {object} response.Response
// @Router /borrows/repayable [get]
func (h *BorrowHandler) ListRepayable(c *fiber.Ctx) error {
	var userID *uint
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid user_id")
		}
		id := uint(parsed)
		userID = &id
	}

	borrows, err := h.borrowService.ListRepayable(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list borrows")
	}

	responses := make([]*models.BorrowResponse, len(borrows))
	for i, borrow := range borrows {
		responses[i] = borrow.ToResponse()
	}

	return response.Success(c, "Borrows retrieved successfully", fiber.Map{
		"borrows": responses,
	})
}

// UpdateBorrow updates a borrow's rate or anchor
// @Summary Update borrow
// @Description Update a borrow's rate or accrual anchor (Admin only)
// @Tags Borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Borrow ID"
// @Param body body services.UpdateBorrowInput true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /borrows/{id} [put]
func (h *BorrowHandler) UpdateBorrow(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var input services.UpdateBorrowInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	borrow, err := h.borrowService.Update(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBorrowNotFound):
			return response.NotFound(c, "Borrow not found")
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Rate must be greater than zero")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid date format, use YYYY-MM-DD")
		default:
			return response.InternalServerError(c, "Failed to update borrow")
		}
	}

	return response.Success(c, "Borrow updated successfully", fiber.Map{
		"borrow": borrow.ToResponse(),
	})
}

// DeleteBorrow deletes a borrow
// @Summary Delete borrow
// @Description Soft-delete a borrow record (Admin only)
// @Tags Borrows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Borrow ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /borrows/{id} [delete]
func (h *BorrowHandler) DeleteBorrow(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if err := h.borrowService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrBorrowNotFound) {
			return response.NotFound(c, "Borrow not found")
		}
		return response.InternalServerError(c, "Failed to delete borrow")
	}

	return response.Success(c, "Borrow deleted successfully", nil)
}
