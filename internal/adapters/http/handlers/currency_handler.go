package handlers

import (
	"errors"
	"strconv"
	"strings"

	"borrowdesk/internal/adapters/persistence/models"
	"borrowdesk/internal/adapters/persistence/repositories"
	"borrowdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CurrencyHandler handles currency master data endpoints
type CurrencyHandler struct {
	currencyRepo repositories.CurrencyRepository
}

// NewCurrencyHandler creates a new currency handler
func NewCurrencyHandler(currencyRepo repositories.CurrencyRepository) *CurrencyHandler {
	return &CurrencyHandler{
		currencyRepo: currencyRepo,
	}
}

// ListCurrencies lists all currencies
// @Summary List currencies
// @Description Get all currencies
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /master/currencies [get]
func (h *CurrencyHandler) ListCurrencies(c *fiber.Ctx) error {
	currencies, err := h.currencyRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list currencies")
	}

	return response.Success(c, "Currencies retrieved successfully", fiber.Map{
		"currencies": currencies,
	})
}

// GetCurrency gets a currency by ID
// @Summary Get currency
// @Description Get a currency by ID
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Currency ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/currencies/{id} [get]
func (h *CurrencyHandler) GetCurrency(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	currency, err := h.currencyRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Currency not found")
	}

	return response.Success(c, "Currency retrieved successfully", fiber.Map{
		"currency": currency,
	})
}

// CreateCurrencyRequest represents create currency request
type CreateCurrencyRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// CreateCurrency creates a new currency
// @Summary Create currency
// @Description Create a new currency (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCurrencyRequest true "Currency data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /master/currencies [post]
func (h *CurrencyHandler) CreateCurrency(c *fiber.Ctx) error {
	var req CreateCurrencyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Code == "" {
		return response.BadRequest(c, "Code is required")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	// Reject duplicate codes
	if existing, err := h.currencyRepo.GetByCode(c.Context(), req.Code); err == nil && existing != nil {
		return response.Conflict(c, "Currency code already exists")
	}

	currency := &models.Currency{
		Code:     req.Code,
		Name:     req.Name,
		Symbol:   req.Symbol,
		IsActive: true,
	}

	if err := h.currencyRepo.Create(c.Context(), currency); err != nil {
		return response.InternalServerError(c, "Failed to create currency")
	}

	return response.Created(c, "Currency created successfully", fiber.Map{
		"currency": currency,
	})
}

// UpdateCurrencyRequest represents update currency request
type UpdateCurrencyRequest struct {
	Name     *string `json:"name"`
	Symbol   *string `json:"symbol"`
	IsActive *bool   `json:"is_active"`
}

// UpdateCurrency updates a currency
// @Summary Update currency
// @Description Update a currency (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Currency ID"
// @Param body body UpdateCurrencyRequest true "Currency data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/currencies/{id} [put]
func (h *CurrencyHandler) UpdateCurrency(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	currency, err := h.currencyRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Currency not found")
	}

	var req UpdateCurrencyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name != nil {
		currency.Name = *req.Name
	}
	if req.Symbol != nil {
		currency.Symbol = *req.Symbol
	}
	if req.IsActive != nil {
		currency.IsActive = *req.IsActive
	}

	if err := h.currencyRepo.Update(c.Context(), currency); err != nil {
		return response.InternalServerError(c, "Failed to update currency")
	}

	return response.Success(c, "Currency updated successfully", fiber.Map{
		"currency": currency,
	})
}

// DeleteCurrency deletes a currency
// @Summary Delete currency
// @Description Soft-delete a currency (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Currency ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/currencies/{id} [delete]
func (h *CurrencyHandler) DeleteCurrency(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if _, err := h.currencyRepo.GetByID(c.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Currency not found")
		}
		return response.InternalServerError(c, "Failed to get currency")
	}

	if err := h.currencyRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete currency")
	}

	return response.Success(c, "Currency deleted successfully", nil)
}
