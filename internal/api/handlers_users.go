package api

import (
	"strings"
	"time"

	"github.com/friendorbit/orbit/internal/models"
	"github.com/gofiber/fiber/v2"
)

type createUserInput struct {
	TelegramID  string `json:"telegram_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Timezone    string `json:"timezone"`
}

// CreateUser registers the Telegram user the web app boots with. The
// call is an upsert: a known telegram_id returns the existing record
// untouched, so the client can call it on every launch.
func (handler *Handler) CreateUser(c *fiber.Ctx) error {
	var input createUserInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	telegramID := strings.TrimSpace(input.TelegramID)
	if telegramID == "" {
		return apiError(c, fiber.StatusBadRequest, "telegram_id is required")
	}

	existing, found, err := handler.repositories.Users.FindByTelegramID(telegramID)
	if err != nil {
		handler.log.Error("user lookup failed", "telegram_id", telegramID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	if found {
		return c.JSON(existing)
	}

	if input.Timezone != "" {
		if _, err := time.LoadLocation(input.Timezone); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid timezone")
		}
	}

	user := models.User{
		TelegramID:  telegramID,
		DisplayName: strings.TrimSpace(input.DisplayName),
		AvatarURL:   strings.TrimSpace(input.AvatarURL),
		Timezone:    input.Timezone,
	}
	if err := handler.repositories.Users.Create(&user); err != nil {
		handler.log.Error("user create failed", "telegram_id", telegramID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create user")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (handler *Handler) GetUserByTelegramID(c *fiber.Ctx) error {
	telegramID := strings.TrimSpace(c.Params("telegram_id"))
	if telegramID == "" {
		return apiError(c, fiber.StatusBadRequest, "telegram_id is required")
	}

	user, found, err := handler.repositories.Users.FindByTelegramID(telegramID)
	if err != nil {
		handler.log.Error("user lookup failed", "telegram_id", telegramID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "user not found")
	}
	return c.JSON(user)
}

type updateUserInput struct {
	DisplayName     *string `json:"display_name"`
	AvatarURL       *string `json:"avatar_url"`
	Timezone        *string `json:"timezone"`
	InnerCircleSize *int    `json:"inner_circle_size"`
	DriftStrictness *string `json:"drift_strictness"`
}

func (handler *Handler) UpdateUser(c *fiber.Ctx) error {
	userID, ok := idParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var input updateUserInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]any{}
	if input.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*input.DisplayName)
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*input.AvatarURL)
	}
	if input.Timezone != nil {
		if _, err := time.LoadLocation(*input.Timezone); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid timezone")
		}
		updates["timezone"] = *input.Timezone
	}
	if input.InnerCircleSize != nil {
		if *input.InnerCircleSize < 1 {
			return apiError(c, fiber.StatusBadRequest, "inner_circle_size must be positive")
		}
		updates["inner_circle_size"] = *input.InnerCircleSize
	}
	if input.DriftStrictness != nil {
		if !models.IsValidStrictness(*input.DriftStrictness) {
			return apiError(c, fiber.StatusBadRequest, "invalid drift_strictness")
		}
		updates["drift_strictness"] = *input.DriftStrictness
	}
	if len(updates) == 0 {
		return apiError(c, fiber.StatusBadRequest, "nothing to update")
	}

	user, found, err := handler.repositories.Users.FindByID(userID)
	if err != nil {
		handler.log.Error("user lookup failed", "user_id", userID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "user not found")
	}

	if err := handler.repositories.Users.UpdateByID(user.ID, updates); err != nil {
		handler.log.Error("user update failed", "user_id", userID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to update user")
	}

	updated, _, err := handler.repositories.Users.FindByID(user.ID)
	if err != nil {
		handler.log.Error("user reload failed", "user_id", userID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	return c.JSON(updated)
}

func (handler *Handler) MarkUserOnboarded(c *fiber.Ctx) error {
	userID, ok := idParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}

	_, found, err := handler.repositories.Users.FindByID(userID)
	if err != nil {
		handler.log.Error("user lookup failed", "user_id", userID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "user not found")
	}

	if err := handler.repositories.Users.MarkOnboarded(userID); err != nil {
		handler.log.Error("user onboard failed", "user_id", userID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to update user")
	}
	return c.JSON(fiber.Map{"ok": true})
}
