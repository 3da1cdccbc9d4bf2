package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("", handler.CreateUser)
	users.Get("/:telegram_id", handler.GetUserByTelegramID)
	users.Patch("/:id", handler.UpdateUser)
	users.Post("/:id/onboard", handler.MarkUserOnboarded)

	people := api.Group("/people", handler.UserRequired)
	people.Post("", handler.CreatePerson)
	people.Get("", handler.ListPeople)
	people.Get("/:id", handler.GetPerson)
	people.Patch("/:id", handler.UpdatePerson)
	people.Post("/:id/interaction", handler.LogPersonInteraction)
	people.Delete("/:id", handler.ArchivePerson)

	battery := api.Group("/battery", handler.UserRequired)
	battery.Post("", handler.LogBattery)
	battery.Get("", handler.GetBattery)

	meteors := api.Group("/meteors", handler.UserRequired)
	meteors.Post("", handler.CreateMeteor)
	meteors.Get("", handler.ListMeteors)
	meteors.Patch("/:id", handler.UpdateMeteor)
	meteors.Delete("/:id", handler.ArchiveMeteor)

	stats := api.Group("/stats", handler.UserRequired)
	stats.Get("", handler.GetStats)
}
