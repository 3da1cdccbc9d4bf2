package api

import (
	"errors"
	"strings"

	"github.com/friendorbit/orbit/internal/models"
	"github.com/friendorbit/orbit/internal/services"
	"github.com/gofiber/fiber/v2"
)

type personResponse struct {
	models.Person
	OrbitZone string `json:"orbit_zone"`
}

func newPersonResponse(person models.Person) personResponse {
	return personResponse{Person: person, OrbitZone: services.Zone(person.GravityScore)}
}

func newPersonResponses(people []models.Person) []personResponse {
	responses := make([]personResponse, 0, len(people))
	for _, person := range people {
		responses = append(responses, newPersonResponse(person))
	}
	return responses
}

func (handler *Handler) CreatePerson(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	var input services.PersonInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	person, err := handler.orbit.CreatePerson(user.ID, input, handler.now())
	switch {
	case errors.Is(err, services.ErrPartnerExists):
		return apiError(c, fiber.StatusConflict, "an active partner already exists")
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrInvalidRelationshipType),
		errors.Is(err, services.ErrInvalidArchetype),
		errors.Is(err, services.ErrInvalidCadence):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		handler.log.Error("person create failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create person")
	}
	return c.Status(fiber.StatusCreated).JSON(newPersonResponse(person))
}

func (handler *Handler) ListPeople(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	includeArchived := c.QueryBool("include_archived")
	people, err := handler.repositories.People.ListByUser(user.ID, includeArchived)
	if err != nil {
		handler.log.Error("people list failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load people")
	}
	return c.JSON(newPersonResponses(people))
}

func (handler *Handler) GetPerson(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}
	personID, ok := idParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid person id")
	}

	person, found, err := handler.repositories.People.FindByIDAndUser(personID, user.ID)
	if err != nil {
		handler.log.Error("person lookup failed", "person_id", personID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load person")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "person not found")
	}
	return c.JSON(newPersonResponse(person))
}

type updatePersonInput struct {
	Name                *string   `json:"name"`
	RelationshipSubtype *string   `json:"relationship_subtype"`
	Archetype           *string   `json:"archetype"`
	CadenceDays         *int      `json:"cadence_days"`
	Tags                *[]string `json:"tags"`
	Pinned              *bool     `json:"pinned"`
	Archived            *bool     `json:"archived"`
}

func (handler *Handler) UpdatePerson(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}
	personID, ok := idParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid person id")
	}

	var input updatePersonInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	person, found, err := handler.repositories.People.FindByIDAndUser(personID, user.ID)
	if err != nil {
		handler.log.Error("person lookup failed", "person_id", personID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load person")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "person not found")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return apiError(c, fiber.StatusBadRequest, "name is required")
		}
		updates["name"] = name
	}
	if input.RelationshipSubtype != nil {
		updates["relationship_subtype"] = strings.TrimSpace(*input.RelationshipSubtype)
	}
	if input.Archetype != nil {
		archetype := strings.TrimSpace(*input.Archetype)
		if archetype == "" && person.RelationshipType != models.RelationshipPartner {
			return apiError(c, fiber.StatusBadRequest, services.ErrArchetypeRequired.Error())
		}
		if archetype != "" && !models.IsValidArchetype(archetype) {
			return apiError(c, fiber.StatusBadRequest, "invalid archetype")
		}
		updates["archetype"] = archetype
	}
	if input.CadenceDays != nil {
		if *input.CadenceDays < 1 {
			return apiError(c, fiber.StatusBadRequest, "cadence_days must be positive")
		}
		updates["cadence_days"] = *input.CadenceDays
	}
	if input.Tags != nil {
		person.Tags = *input.Tags
		if person.Tags == nil {
			person.Tags = []string{}
		}
	}
	if input.Pinned != nil {
		updates["pinned"] = *input.Pinned
	}
	if input.Archived != nil {
		updates["archived"] = *input.Archived
	}
	if len(updates) == 0 && input.Tags == nil {
		return apiError(c, fiber.StatusBadRequest, "nothing to update")
	}

	// Tags go through the json serializer, so they are saved via the
	// model rather than the column map.
	if input.Tags != nil {
		if err := handler.repositories.People.Save(&person); err != nil {
			handler.log.Error("person save failed", "person_id", personID, "error", err)
			return apiError(c, fiber.StatusInternalServerError, "failed to update person")
		}
	}
	if len(updates) > 0 {
		if err := handler.repositories.People.UpdateByIDAndUser(personID, user.ID, updates); err != nil {
			handler.log.Error("person update failed", "person_id", personID, "error", err)
			return apiError(c, fiber.StatusInternalServerError, "failed to update person")
		}
	}

	updated, _, err := handler.repositories.People.FindByIDAndUser(personID, user.ID)
	if err != nil {
		handler.log.Error("person reload failed", "person_id", personID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load person")
	}
	return c.JSON(newPersonResponse(updated))
}

func (handler *Handler) LogPersonInteraction(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}
	personID, ok := idParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid person id")
	}

	person, err := handler.orbit.LogInteraction(personID, user.ID, handler.now())
	switch {
	case errors.Is(err, services.ErrUnknownRelationship):
		return apiError(c, fiber.StatusNotFound, "person not found")
	case err != nil:
		handler.log.Error("interaction failed", "person_id", personID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to log interaction")
	}
	return c.JSON(newPersonResponse(person))
}

// ArchivePerson soft-deletes: the record stays for history but leaves
// every scoring path.
func (handler *Handler) ArchivePerson(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}
	personID, ok := idParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid person id")
	}

	_, found, err := handler.repositories.People.FindByIDAndUser(personID, user.ID)
	if err != nil {
		handler.log.Error("person lookup failed", "person_id", personID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load person")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "person not found")
	}

	if err := handler.repositories.People.Archive(personID, user.ID); err != nil {
		handler.log.Error("person archive failed", "person_id", personID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to archive person")
	}
	return c.JSON(fiber.Map{"ok": true})
}
