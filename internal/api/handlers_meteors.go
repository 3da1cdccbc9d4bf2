package api

import (
	"strings"

	"github.com/friendorbit/orbit/internal/models"
	"github.com/gofiber/fiber/v2"
)

type createMeteorInput struct {
	PersonID uint   `json:"person_id"`
	Content  string `json:"content"`
	Tag      string `json:"tag"`
	DueDate  string `json:"due_date"`
}

// CreateMeteor attaches a note or follow-up to a person. The person must
// belong to the calling user.
func (handler *Handler) CreateMeteor(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	var input createMeteorInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return apiError(c, fiber.StatusBadRequest, "content is required")
	}

	_, found, err := handler.repositories.People.FindByIDAndUser(input.PersonID, user.ID)
	if err != nil {
		handler.log.Error("person lookup failed", "person_id", input.PersonID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load person")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "person not found")
	}

	meteor := models.Meteor{
		PersonID:  input.PersonID,
		UserID:    user.ID,
		Content:   content,
		Tag:       strings.TrimSpace(input.Tag),
		DueDate:   strings.TrimSpace(input.DueDate),
		CreatedAt: handler.now(),
	}
	if err := handler.repositories.Meteors.Create(&meteor); err != nil {
		handler.log.Error("meteor create failed", "person_id", input.PersonID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create meteor")
	}
	return c.Status(fiber.StatusCreated).JSON(meteor)
}

func (handler *Handler) ListMeteors(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	personID := uint(c.QueryInt("person_id"))
	meteors, err := handler.repositories.Meteors.ListByUser(user.ID, personID)
	if err != nil {
		handler.log.Error("meteor list failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load meteors")
	}
	return c.JSON(meteors)
}

type updateMeteorInput struct {
	Content *string `json:"content"`
	Tag     *string `json:"tag"`
	DueDate *string `json:"due_date"`
	Done    *bool   `json:"done"`
}

func (handler *Handler) UpdateMeteor(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}
	meteorID, ok := idParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid meteor id")
	}

	var input updateMeteorInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]any{}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return apiError(c, fiber.StatusBadRequest, "content is required")
		}
		updates["content"] = content
	}
	if input.Tag != nil {
		updates["tag"] = strings.TrimSpace(*input.Tag)
	}
	if input.DueDate != nil {
		updates["due_date"] = strings.TrimSpace(*input.DueDate)
	}
	if input.Done != nil {
		updates["done"] = *input.Done
	}
	if len(updates) == 0 {
		return apiError(c, fiber.StatusBadRequest, "nothing to update")
	}

	_, found, err := handler.repositories.Meteors.FindByIDAndUser(meteorID, user.ID)
	if err != nil {
		handler.log.Error("meteor lookup failed", "meteor_id", meteorID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load meteor")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "meteor not found")
	}

	if err := handler.repositories.Meteors.UpdateByIDAndUser(meteorID, user.ID, updates); err != nil {
		handler.log.Error("meteor update failed", "meteor_id", meteorID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to update meteor")
	}

	updated, _, err := handler.repositories.Meteors.FindByIDAndUser(meteorID, user.ID)
	if err != nil {
		handler.log.Error("meteor reload failed", "meteor_id", meteorID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load meteor")
	}
	return c.JSON(updated)
}

func (handler *Handler) ArchiveMeteor(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}
	meteorID, ok := idParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid meteor id")
	}

	_, found, err := handler.repositories.Meteors.FindByIDAndUser(meteorID, user.ID)
	if err != nil {
		handler.log.Error("meteor lookup failed", "meteor_id", meteorID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load meteor")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "meteor not found")
	}

	if err := handler.repositories.Meteors.Archive(meteorID, user.ID); err != nil {
		handler.log.Error("meteor archive failed", "meteor_id", meteorID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to archive meteor")
	}
	return c.JSON(fiber.Map{"ok": true})
}
