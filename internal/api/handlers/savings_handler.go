package handlers

import (
	"fin-guardian/internal/dto"
	"fin-guardian/internal/models"
	"fin-guardian/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SavingsHandler struct {
	savingsService  *service.SavingsService
	lifetimeService *service.LifetimeService
	logger          *zap.Logger
}

func NewSavingsHandler(savingsService *service.SavingsService, lifetimeService *service.LifetimeService, logger *zap.Logger) *SavingsHandler {
	return &SavingsHandler{
		savingsService:  savingsService,
		lifetimeService: lifetimeService,
		logger:          logger,
	}
}

// CreateGoal godoc
// @Summary Create a savings goal
// @Tags savings
// @Accept json
// @Produce json
// @Param request body dto.CreateSavingsGoalRequest true "Goal"
// @Security Bearer
// @Success 201 {object} dto.SavingsGoalResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/savings-goals [post]
func (h *SavingsHandler) CreateGoal(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateSavingsGoalRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	goal, err := h.savingsService.Create(c.UserContext(), userID, service.NewSavingsGoal{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
		Frequency:    models.Frequency(req.Frequency),
	})
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create savings goal")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewSavingsGoalResponse(goal))
}

// ListGoals godoc
// @Summary List savings goals
// @Description Newest first, deleted goals excluded
// @Tags savings
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.SavingsGoalResponse
// @Router /api/v1/savings-goals [get]
func (h *SavingsHandler) ListGoals(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	goals, err := h.savingsService.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list savings goals")
	}

	return c.JSON(dto.NewSavingsGoalList(goals))
}

// GetGoal godoc
// @Summary Get a savings goal
// @Tags savings
// @Produce json
// @Param id path string true "Goal ID"
// @Security Bearer
// @Success 200 {object} dto.SavingsGoalResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/savings-goals/{id} [get]
func (h *SavingsHandler) GetGoal(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	goal, err := h.savingsService.Get(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to load savings goal")
	}

	return c.JSON(dto.NewSavingsGoalResponse(goal))
}

// Progress godoc
// @Summary Savings goal progress
// @Tags savings
// @Produce json
// @Param id path string true "Goal ID"
// @Security Bearer
// @Success 200 {object} dto.GoalProgressResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/savings-goals/{id}/progress [get]
func (h *SavingsHandler) Progress(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	progress, err := h.savingsService.Progress(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to compute progress")
	}

	return c.JSON(dto.NewGoalProgressResponse(progress))
}

// Recommendation godoc
// @Summary Suggested saving per period
// @Tags savings
// @Produce json
// @Param id path string true "Goal ID"
// @Security Bearer
// @Success 200 {object} dto.RecommendationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/savings-goals/{id}/recommendation [get]
func (h *SavingsHandler) Recommendation(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	rec, err := h.savingsService.Recommendation(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to compute recommendation")
	}

	return c.JSON(dto.NewRecommendationResponse(rec))
}

// Stats godoc
// @Summary Savings statistics
// @Tags savings
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.SavingsStatsResponse
// @Router /api/v1/savings-goals/stats [get]
func (h *SavingsHandler) Stats(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	stats, err := h.savingsService.Stats(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to compute savings stats")
	}

	return c.JSON(dto.NewSavingsStatsResponse(stats))
}

// Deposit godoc
// @Summary Deposit into a savings goal
// @Description The amount must fit both the money available to save and the goal target
// @Tags savings
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param request body dto.AmountRequest true "Amount"
// @Security Bearer
// @Success 200 {object} dto.SavingsGoalResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/savings-goals/{id}/deposit [patch]
func (h *SavingsHandler) Deposit(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.AmountRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	goal, err := h.savingsService.Deposit(c.UserContext(), id, userID, req.Amount)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to deposit")
	}

	return c.JSON(dto.NewSavingsGoalResponse(goal))
}

// Withdraw godoc
// @Summary Withdraw from a savings goal
// @Tags savings
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param request body dto.AmountRequest true "Amount"
// @Security Bearer
// @Success 200 {object} dto.SavingsGoalResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/savings-goals/{id}/withdraw [patch]
func (h *SavingsHandler) Withdraw(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.AmountRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	goal, err := h.savingsService.Withdraw(c.UserContext(), id, userID, req.Amount)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to withdraw")
	}

	return c.JSON(dto.NewSavingsGoalResponse(goal))
}

// MarkUsed godoc
// @Summary Spend a completed goal
// @Description Records the saved money as an expense and flags the goal as used
// @Tags savings
// @Produce json
// @Param id path string true "Goal ID"
// @Security Bearer
// @Success 200 {object} dto.MarkUsedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/savings-goals/{id}/mark-used [patch]
func (h *SavingsHandler) MarkUsed(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	goal, tx, err := h.savingsService.MarkUsed(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to mark goal as used")
	}

	return c.JSON(dto.MarkUsedResponse{
		Goal:        dto.NewSavingsGoalResponse(goal),
		Transaction: dto.NewTransactionResponse(tx),
		Message:     "Savings marked as used",
	})
}

// DeleteGoal godoc
// @Summary Delete a savings goal
// @Tags savings
// @Param id path string true "Goal ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/savings-goals/{id} [delete]
func (h *SavingsHandler) DeleteGoal(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.savingsService.Delete(c.UserContext(), id, userID); err != nil {
		return respondError(c, h.logger, err, "Failed to delete savings goal")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAndRefund godoc
// @Summary Delete a savings goal and release its money
// @Tags savings
// @Produce json
// @Param id path string true "Goal ID"
// @Security Bearer
// @Success 200 {object} dto.RefundResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/savings-goals/{id}/delete-and-refund [delete]
func (h *SavingsHandler) DeleteAndRefund(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	refunded, err := h.savingsService.DeleteAndRefund(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to delete savings goal")
	}

	return c.JSON(dto.RefundResponse{
		Message:        "Goal deleted, savings returned to balance",
		RefundedAmount: refunded,
	})
}

// Lifetime godoc
// @Summary Lifetime savings
// @Description Totals over every goal ever completed
// @Tags savings
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.LifetimeSavingsResponse
// @Router /api/v1/lifetime-savings [get]
func (h *SavingsHandler) Lifetime(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	lt, err := h.lifetimeService.Get(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to load lifetime savings")
	}

	return c.JSON(dto.LifetimeSavingsResponse{
		TotalSaved:     lt.TotalSaved,
		GoalsCompleted: lt.GoalsCompleted,
	})
}
