package api

import (
	"errors"

	"github.com/friendorbit/orbit/internal/services"
	"github.com/gofiber/fiber/v2"
)

type batteryInput struct {
	Score int `json:"score"`
}

func (handler *Handler) LogBattery(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	var input batteryInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := handler.orbit.LogBattery(user, input.Score, handler.now())
	switch {
	case errors.Is(err, services.ErrInvalidScoreRange):
		return apiError(c, fiber.StatusBadRequest, "score must be between 0 and 100")
	case err != nil:
		handler.log.Error("battery log failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to log battery")
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (handler *Handler) GetBattery(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	status, err := handler.orbit.CurrentBatteryStatus(user, handler.now())
	if err != nil {
		handler.log.Error("battery status failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load battery status")
	}
	return c.JSON(status)
}
