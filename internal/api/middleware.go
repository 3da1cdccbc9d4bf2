package api

import (
	"strings"

	"github.com/friendorbit/orbit/internal/models"
	"github.com/gofiber/fiber/v2"
)

const (
	userHeaderName = "X-User-Id"
	contextUserKey = "current_user"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

// UserRequired resolves the calling user from the X-User-Id header (the
// Telegram user id the web app boots with) and stores it in the request
// locals. Unknown ids are rejected; user records are created through the
// users endpoints, never here.
func (handler *Handler) UserRequired(c *fiber.Ctx) error {
	telegramID := strings.TrimSpace(c.Get(userHeaderName))
	if telegramID == "" {
		return apiError(c, fiber.StatusUnauthorized, "missing X-User-Id header")
	}

	user, found, err := handler.repositories.Users.FindByTelegramID(telegramID)
	if err != nil {
		handler.log.Error("user lookup failed", "telegram_id", telegramID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	if !found {
		return apiError(c, fiber.StatusUnauthorized, "unknown user")
	}

	c.Locals(contextUserKey, &user)
	return c.Next()
}
