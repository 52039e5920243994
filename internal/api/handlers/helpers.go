package handlers

import (
	"errors"
	"strings"
	"time"

	"fin-guardian/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	return userID, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

// parseBody decodes and validates the JSON body. It writes the 400 itself and reports
// whether the handler should go on.
func parseBody(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return false, badRequest(c, validationMessage(err))
	}
	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+" failed on "+fe.Tag())
	}
	return "Validation failed: " + strings.Join(parts, ", ")
}

// parseIDParam returns a *fiber.Error so the router's error handler writes the 400.
func parseIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

// parseRange reads ?start= and ?end= as calendar dates. end is inclusive, so the returned
// upper bound is the last instant of that day. Missing bounds default to the current month.
func parseRange(c *fiber.Ctx, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	to := now

	if v := c.Query("start"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			return time.Time{}, time.Time{}, service.ErrInvalidDateRange
		}
		from = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			return time.Time{}, time.Time{}, service.ErrInvalidDateRange
		}
		to = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, service.ErrInvalidDateRange
	}
	return from, to, nil
}

// respondError maps service errors to HTTP statuses. Anything unknown is logged and
// reported as a 500 with fallback as the message.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error, fallback string) error {
	var limitErr *service.AmountLimitError
	if errors.As(err, &limitErr) {
		body := fiber.Map{"error": limitErr.Err.Error()}
		if errors.Is(limitErr.Err, service.ErrExceedsTarget) {
			body["maxAmount"] = limitErr.Limit
		} else {
			body["availableAmount"] = limitErr.Limit
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidType),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrInvalidFrequency),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrGoalNameRequired),
		errors.Is(err, service.ErrGoalNotCompleted),
		errors.Is(err, service.ErrAlreadyUsed):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrBudgetNotFound),
		errors.Is(err, service.ErrGoalNotFound),
		errors.Is(err, service.ErrRecurringNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrBudgetExists),
		errors.Is(err, service.ErrInsufficientFunds):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusInternalServerError {
		logger.Error(fallback, zap.Error(err), zap.String("path", c.Path()))
		return c.Status(status).JSON(fiber.Map{"error": fallback})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
