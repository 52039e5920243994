package handlers

import (
	"fin-guardian/internal/dto"
	"fin-guardian/internal/models"
	"fin-guardian/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RecurringHandler struct {
	recurringService *service.RecurringService
	logger           *zap.Logger
}

func NewRecurringHandler(recurringService *service.RecurringService, logger *zap.Logger) *RecurringHandler {
	return &RecurringHandler{
		recurringService: recurringService,
		logger:           logger,
	}
}

// CreateRecurring godoc
// @Summary Create a recurring transaction
// @Description nextRun defaults to now, so the first posting happens on the next scheduler tick
// @Tags recurring
// @Accept json
// @Produce json
// @Param request body dto.CreateRecurringRequest true "Template"
// @Security Bearer
// @Success 201 {object} dto.RecurringResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/recurring-transactions [post]
func (h *RecurringHandler) CreateRecurring(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateRecurringRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	rt, err := h.recurringService.Create(c.UserContext(), userID, service.NewRecurring{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Type:       models.EntryType(req.Type),
		Frequency:  models.Frequency(req.Frequency),
		NextRun:    req.NextRun,
	})
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create recurring transaction")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewRecurringResponse(rt))
}

// ListRecurring godoc
// @Summary List recurring transactions
// @Tags recurring
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.RecurringResponse
// @Router /api/v1/recurring-transactions [get]
func (h *RecurringHandler) ListRecurring(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	items, err := h.recurringService.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list recurring transactions")
	}

	resp := make([]dto.RecurringResponse, 0, len(items))
	for _, rt := range items {
		resp = append(resp, dto.NewRecurringResponse(rt))
	}
	return c.JSON(resp)
}

// UpdateRecurring godoc
// @Summary Update a recurring transaction
// @Tags recurring
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.UpdateRecurringRequest true "Changes"
// @Security Bearer
// @Success 200 {object} dto.RecurringResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/recurring-transactions/{id} [patch]
func (h *RecurringHandler) UpdateRecurring(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateRecurringRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	changes := service.RecurringChanges{
		Amount:  req.Amount,
		NextRun: req.NextRun,
		Active:  req.Active,
	}
	if req.Frequency != nil {
		f := models.Frequency(*req.Frequency)
		changes.Frequency = &f
	}

	rt, err := h.recurringService.Update(c.UserContext(), id, userID, changes)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update recurring transaction")
	}

	return c.JSON(dto.NewRecurringResponse(rt))
}

// DeleteRecurring godoc
// @Summary Delete a recurring transaction
// @Tags recurring
// @Param id path string true "Template ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/recurring-transactions/{id} [delete]
func (h *RecurringHandler) DeleteRecurring(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.recurringService.Delete(c.UserContext(), id, userID); err != nil {
		return respondError(c, h.logger, err, "Failed to delete recurring transaction")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
