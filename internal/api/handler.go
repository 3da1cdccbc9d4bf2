package api

import (
	"time"

	"github.com/friendorbit/orbit/internal/db"
	"github.com/friendorbit/orbit/internal/logger"
	"github.com/friendorbit/orbit/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	repositories *db.Repositories
	orbit        *services.OrbitService
	log          *logger.Logger
	location     *time.Location
}

func NewHandler(database *gorm.DB, log *logger.Logger, location *time.Location) *Handler {
	if location == nil {
		location = time.UTC
	}
	repositories := db.NewRepositories(database)
	return &Handler{
		repositories: repositories,
		orbit:        services.NewOrbitService(repositories.People, repositories.Battery, repositories.Users),
		log:          log,
		location:     location,
	}
}

func (handler *Handler) now() time.Time {
	return time.Now().In(handler.location)
}
