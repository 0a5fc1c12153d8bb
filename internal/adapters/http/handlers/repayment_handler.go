package handlers

import (
	"errors"
	"strconv"

	"borrowdesk/internal/core/domain"
	"borrowdesk/internal/core/services"
	"borrowdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RepaymentHandler handles repayment endpoints
type RepaymentHandler struct {
	repaymentService *services.RepaymentService
}

// NewRepaymentHandler creates a new repayment handler
func NewRepaymentHandler(repaymentService *services.RepaymentService) *RepaymentHandler {
	return &RepaymentHandler{
		repaymentService: repaymentService,
	}
}

// RepayRequest represents repayment request body
type RepayRequest struct {
	Amount float64 `json:"amount"`
}

// ApplyRepayment applies a repayment to a borrow
// @Summary Apply repayment
// @Description Apply a principal repayment to a borrow. Refused while interest is outstanding: settle the pending charge first (Admin only)
// @Tags Repayments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Borrow ID"
// @Param body body RepayRequest true "Repayment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /borrows/{id}/repayments [post]
func (h *RepaymentHandler) ApplyRepayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req RepayRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	repayment, err := h.repaymentService.Apply(c.Context(), &services.ApplyRepaymentInput{
		BorrowID: uint(id),
		Amount:   req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, domain.ErrBorrowNotFound):
			return response.NotFound(c, "Borrow not found")
		case errors.Is(err, domain.ErrOutstandingInterest):
			return response.UnprocessableEntity(c, "Interest is outstanding, settle it up to today before repaying principal")
		case errors.Is(err, domain.ErrConcurrencyConflict):
			return response.Conflict(c, "Borrow is being modified, please retry")
		default:
			return response.InternalServerError(c, "Failed to apply repayment")
		}
	}

	return response.Created(c, "Repayment applied successfully", fiber.Map{
		"repayment": repayment,
	})
}

// ListRepayments lists a borrow's repayments
// @Summary List repayments
// @Description Get the repayments of a borrow, newest first
// @Tags Repayments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Borrow ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /borrows/{id}/repayments [get]
func (h *RepaymentHandler) ListRepayments(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	repayments, err := h.repaymentService.ListByBorrow(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrBorrowNotFound) {
			return response.NotFound(c, "Borrow not found")
		}
		return response.InternalServerError(c, "Failed to list repayments")
	}

	return response.Success(c, "Repayments retrieved successfully", fiber.Map{
		"repayments": repayments,
	})
}
