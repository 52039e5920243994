package handlers

import (
	"fin-guardian/internal/dto"
	"fin-guardian/internal/models"
	"fin-guardian/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type BudgetHandler struct {
	budgetService *service.BudgetService
	logger        *zap.Logger
}

func NewBudgetHandler(budgetService *service.BudgetService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		logger:        logger,
	}
}

// CreateBudget godoc
// @Summary Create a budget
// @Description One budget per category. The limit applies to the current month or the last 7 days
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body dto.CreateBudgetRequest true "Budget"
// @Security Bearer
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) CreateBudget(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateBudgetRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	budget, err := h.budgetService.Create(c.UserContext(), userID, req.CategoryID, req.Limit, models.BudgetPeriod(req.Period))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create budget")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewBudgetResponse(budget))
}

// ListBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.BudgetResponse
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) ListBudgets(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	budgets, err := h.budgetService.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list budgets")
	}

	resp := make([]dto.BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		resp = append(resp, dto.NewBudgetResponse(b))
	}
	return c.JSON(resp)
}

// BudgetStatus godoc
// @Summary Budget status for a category
// @Description Reports whether the category is over its limit in the current window
// @Tags budgets
// @Produce json
// @Param categoryId path int true "Category ID"
// @Security Bearer
// @Success 200 {object} dto.BudgetAlertResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/budgets/{categoryId}/almost [get]
func (h *BudgetHandler) BudgetStatus(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	categoryID, err := c.ParamsInt("categoryId")
	if err != nil || categoryID <= 0 {
		return badRequest(c, "Invalid category id")
	}

	alert, err := h.budgetService.Status(c.UserContext(), userID, int64(categoryID))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to check budget")
	}

	return c.JSON(dto.NewBudgetAlertResponse(alert))
}

// UpdateBudget godoc
// @Summary Update a budget limit
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body dto.UpdateBudgetRequest true "Changes"
// @Security Bearer
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/budgets/{id} [patch]
func (h *BudgetHandler) UpdateBudget(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateBudgetRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	budget, err := h.budgetService.Update(c.UserContext(), id, userID, req.Limit, models.BudgetPeriod(req.Period))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update budget")
	}

	return c.JSON(dto.NewBudgetResponse(budget))
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Param id path string true "Budget ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.budgetService.Delete(c.UserContext(), id, userID); err != nil {
		return respondError(c, h.logger, err, "Failed to delete budget")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
