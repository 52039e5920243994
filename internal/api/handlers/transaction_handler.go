package handlers

import (
	"fin-guardian/internal/dto"
	"fin-guardian/internal/models"
	"fin-guardian/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// CreateTransaction godoc
// @Summary Post a transaction
// @Description Records income or an expense. Expenses are checked against the category budget
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Security Bearer
// @Success 201 {object} dto.CreateTransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateTransactionRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	tx, alert, err := h.txService.Create(c.UserContext(), userID, service.NewTransaction{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        models.EntryType(req.Type),
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create transaction")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateTransactionResponse{
		Transaction: dto.NewTransactionResponse(tx),
		Alert:       dto.NewBudgetAlertResponse(alert),
	})
}

// ListTransactions godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(50)
// @Security Bearer
// @Success 200 {object} dto.TransactionPageResponse
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	page, err := h.txService.List(c.UserContext(), userID, c.QueryInt("page", 1), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list transactions")
	}

	return c.JSON(dto.NewTransactionPageResponse(page))
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	tx, err := h.txService.Get(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to load transaction")
	}

	return c.JSON(dto.NewTransactionResponse(tx))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Only description and category can change
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Changes"
// @Security Bearer
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTransactionRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	tx, err := h.txService.Update(c.UserContext(), id, userID, service.TransactionChanges{
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update transaction")
	}

	return c.JSON(dto.NewTransactionResponse(tx))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.txService.Delete(c.UserContext(), id, userID); err != nil {
		return respondError(c, h.logger, err, "Failed to delete transaction")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
