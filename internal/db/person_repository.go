package db

import (
	"errors"
	"time"

	"github.com/friendorbit/orbit/internal/models"
	"gorm.io/gorm"
)

// ErrVersionConflict reports a lost optimistic-lock race: the person row
// changed between read and write. Callers re-read and retry.
var ErrVersionConflict = errors.New("person version conflict")

type PersonRepository struct {
	database *gorm.DB
}

func NewPersonRepository(database *gorm.DB) *PersonRepository {
	return &PersonRepository{database: database}
}

func (repo *PersonRepository) ListByUser(userID uint, includeArchived bool) ([]models.Person, error) {
	query := repo.database.Where("user_id = ?", userID)
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}

	people := make([]models.Person, 0)
	if err := query.Order("id ASC").Find(&people).Error; err != nil {
		return nil, err
	}
	return people, nil
}

func (repo *PersonRepository) ListActiveByUser(userID uint) ([]models.Person, error) {
	return repo.ListByUser(userID, false)
}

func (repo *PersonRepository) FindByIDAndUser(personID uint, userID uint) (models.Person, bool, error) {
	var person models.Person
	result := repo.database.Where("id = ? AND user_id = ?", personID, userID).Limit(1).Find(&person)
	if result.Error != nil {
		return models.Person{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Person{}, false, nil
	}
	return person, true, nil
}

// FindFresh re-reads one person immediately before a score computation so
// the sweep never works from a stale snapshot.
func (repo *PersonRepository) FindFresh(personID uint) (models.Person, bool, error) {
	var person models.Person
	result := repo.database.Limit(1).Find(&person, personID)
	if result.Error != nil {
		return models.Person{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Person{}, false, nil
	}
	return person, true, nil
}

func (repo *PersonRepository) FindActivePartner(userID uint) (models.Person, bool, error) {
	var person models.Person
	result := repo.database.
		Where("user_id = ? AND relationship_type = ? AND archived = ?", userID, models.RelationshipPartner, false).
		Limit(1).
		Find(&person)
	if result.Error != nil {
		return models.Person{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Person{}, false, nil
	}
	return person, true, nil
}

func (repo *PersonRepository) Create(person *models.Person) error {
	return repo.database.Create(person).Error
}

func (repo *PersonRepository) Save(person *models.Person) error {
	return repo.database.Save(person).Error
}

// SaveDecayedScore writes a sweep result with a compare-and-swap on the
// version column. Interaction logging bumps the version too, so a user
// action racing the sweep makes the sweep lose and skip, never the other
// way around.
func (repo *PersonRepository) SaveDecayedScore(person *models.Person, score float64, decayedAt time.Time) error {
	result := repo.database.Model(&models.Person{}).
		Where("id = ? AND version = ?", person.ID, person.Version).
		Updates(map[string]any{
			"gravity_score":      score,
			"last_decay_applied": decayedAt,
			"version":            person.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	person.GravityScore = score
	person.LastDecayApplied = &decayedAt
	person.Version++
	return nil
}

// SaveInteraction persists an interaction boost and bumps the version so
// concurrent sweep writes are invalidated.
func (repo *PersonRepository) SaveInteraction(person *models.Person, score float64, at time.Time) error {
	result := repo.database.Model(&models.Person{}).
		Where("id = ?", person.ID).
		Updates(map[string]any{
			"gravity_score":    score,
			"last_interaction": at,
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	person.GravityScore = score
	person.LastInteraction = &at
	person.Version++
	return nil
}

func (repo *PersonRepository) UpdateByIDAndUser(personID uint, userID uint, updates map[string]any) error {
	return repo.database.Model(&models.Person{}).
		Where("id = ? AND user_id = ?", personID, userID).
		Updates(updates).Error
}

func (repo *PersonRepository) Archive(personID uint, userID uint) error {
	return repo.database.Model(&models.Person{}).
		Where("id = ? AND user_id = ?", personID, userID).
		Update("archived", true).Error
}

// SaveDigestZone records the zone watermark used by the weekly drift
// digest to detect crossings.
func (repo *PersonRepository) SaveDigestZone(personID uint, zone string) error {
	return repo.database.Model(&models.Person{}).
		Where("id = ?", personID).
		Update("digest_zone", zone).Error
}
