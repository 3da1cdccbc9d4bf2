package api

import (
	"github.com/friendorbit/orbit/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	people, err := handler.repositories.People.ListByUser(user.ID, false)
	if err != nil {
		handler.log.Error("stats load failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load stats")
	}
	return c.JSON(services.BuildOrbitStats(people))
}
