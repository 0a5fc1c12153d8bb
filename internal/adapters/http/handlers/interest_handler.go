package handlers

import (
	"errors"
	"strconv"

	"borrowdesk/internal/core/domain"
	"borrowdesk/internal/core/services"
	"borrowdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// InterestHandler handles interest accrual and settlement endpoints
type InterestHandler struct {
	interestService *services.InterestService
}

// NewInterestHandler creates a new interest handler
func NewInterestHandler(interestService *services.InterestService) *InterestHandler {
	return &InterestHandler{
		interestService: interestService,
	}
}

// ComputeCharge computes the pending charge of a borrow
// @Summary Compute pending charge
// @Description Compute (or recompute) the pending interest charge for a borrow, accruing from its anchor date through today (Admin only)
// @Tags Interest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Borrow ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /borrows/{id}/charge [post]
func (h *InterestHandler) ComputeCharge(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	charge, err := h.interestService.ComputeCharge(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBorrowNotFound):
			return response.NotFound(c, "Borrow not found")
		case errors.Is(err, domain.ErrClockSkew):
			return response.Conflict(c, "Accrual anchor is in the future")
		case errors.Is(err, domain.ErrConcurrencyConflict):
			return response.Conflict(c, "Borrow is being modified, please retry")
		default:
			return response.InternalServerError(c, "Failed to compute charge")
		}
	}

	return response.Success(c, "Charge computed successfully", fiber.Map{
		"charge": charge,
	})
}

// GetCharge returns the pending charge of a borrow
// @Summary Get pending charge
// @Description Get the computed-but-unsettled interest charge of a borrow
// @Tags Interest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Borrow ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /borrows/{id}/charge [get]
func (h *InterestHandler) GetCharge(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	charge, err := h.interestService.GetPendingCharge(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrChargeNotFound) {
			return response.NotFound(c, "No pending charge for this borrow")
		}
		return response.InternalServerError(c, "Failed to get charge")
	}

	return response.Success(c, "Charge retrieved successfully", fiber.Map{
		"charge": charge,
	})
}

// ListCharges lists all pending charges
// @Summary List pending charges
// @Description Get all computed-but-unsettled interest charges (Admin only)
// @Tags Interest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /interest/charges [get]
func (h *InterestHandler) ListCharges(c *fiber.Ctx) error {
	charges, err := h.interestService.ListPendingCharges(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list charges")
	}

	return response.Success(c, "Charges retrieved successfully", fiber.Map{
		"charges": charges,
	})
}

// SettleCharge settles a pending charge
// @Summary Settle charge
// @Description Mark a pending interest charge as paid, record it to history and advance the borrow's accrual anchor (Admin only)
// @Tags Interest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Charge ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /interest/charges/{id}/settle [post]
func (h *InterestHandler) SettleCharge(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	entry, err := h.interestService.SettleCharge(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrChargeNotFound):
			return response.NotFound(c, "Charge not found")
		case errors.Is(err, domain.ErrBorrowNotFound):
			return response.NotFound(c, "Borrow not found")
		case errors.Is(err, domain.ErrConcurrencyConflict):
			return response.Conflict(c, "Borrow is being modified, please retry")
		default:
			return response.InternalServerError(c, "Failed to settle charge")
		}
	}

	return response.Success(c, "Charge settled successfully", fiber.Map{
		"entry": entry,
	})
}

// History lists a borrow's settled interest entries
// @Summary Interest history
// @Description Get the settled interest entries of a borrow
// @Tags Interest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Borrow ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /borrows/{id}/interest [get]
func (h *InterestHandler) History(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	entries, total, err := h.interestService.History(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrBorrowNotFound) {
			return response.NotFound(c, "Borrow not found")
		}
		return response.InternalServerError(c, "Failed to get interest history")
	}

	return response.Success(c, "Interest history retrieved successfully", fiber.Map{
		"entries":        entries,
		"total_interest": total,
	})
}

// EstimateRequest represents estimate request body
type EstimateRequest struct {
	Amount    float64 `json:"amount"`
	Rate      float64 `json:"rate"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

// Estimate estimates interest between two dates
// @Summary Estimate interest
// @Description Estimate forward interest between two dates using a flat 365-day year
// @Tags Interest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EstimateRequest true "Estimate parameters"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /interest/estimate [post]
func (h *InterestHandler) Estimate(c *fiber.Ctx) error {
	var req EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	estimate, err := h.interestService.Estimate(c.Context(), req.Amount, req.Rate, req.StartDate, req.EndDate)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Amount and rate must be greater than zero")
		case errors.Is(err, domain.ErrInvalidPeriod):
			return response.BadRequest(c, "Invalid period, end date must not be before start date")
		default:
			return response.InternalServerError(c, "Failed to estimate interest")
		}
	}

	return response.Success(c, "Interest estimated successfully", fiber.Map{
		"estimate": estimate,
	})
}

// BorrowEstimateRequest represents borrow estimate request body
type BorrowEstimateRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// EstimateForBorrow estimates interest for a borrow between two dates
// @Summary Estimate interest for a borrow
// @Description Estimate forward interest for a borrow between two dates, using the borrow's own amount and rate (Admin only)
// @Tags Interest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Borrow ID"
// @Param body body BorrowEstimateRequest true "Estimate period"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /borrows/{id}/estimate [post]
func (h *InterestHandler) EstimateForBorrow(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req BorrowEstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	estimate, err := h.interestService.EstimateForBorrow(c.Context(), uint(id), req.StartDate, req.EndDate)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBorrowNotFound):
			return response.NotFound(c, "Borrow not found")
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Amount and rate must be greater than zero")
		case errors.Is(err, domain.ErrInvalidPeriod):
			return response.BadRequest(c, "Invalid period, end date must not be before start date")
		default:
			return response.InternalServerError(c, "Failed to estimate interest")
		}
	}

	return response.Success(c, "Interest estimated successfully", fiber.Map{
		"estimate": estimate,
	})
}
