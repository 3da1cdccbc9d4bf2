package db

import (
	"github.com/friendorbit/orbit/internal/models"
	"gorm.io/gorm"
)

type MeteorRepository struct {
	database *gorm.DB
}

func NewMeteorRepository(database *gorm.DB) *MeteorRepository {
	return &MeteorRepository{database: database}
}

func (repo *MeteorRepository) Create(meteor *models.Meteor) error {
	return repo.database.Create(meteor).Error
}

func (repo *MeteorRepository) ListByUser(userID uint, personID uint) ([]models.Meteor, error) {
	query := repo.database.Where("user_id = ? AND archived = ?", userID, false)
	if personID != 0 {
		query = query.Where("person_id = ?", personID)
	}

	meteors := make([]models.Meteor, 0)
	if err := query.Order("id ASC").Find(&meteors).Error; err != nil {
		return nil, err
	}
	return meteors, nil
}

func (repo *MeteorRepository) FindByIDAndUser(meteorID uint, userID uint) (models.Meteor, bool, error) {
	var meteor models.Meteor
	result := repo.database.Where("id = ? AND user_id = ?", meteorID, userID).Limit(1).Find(&meteor)
	if result.Error != nil {
		return models.Meteor{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Meteor{}, false, nil
	}
	return meteor, true, nil
}

func (repo *MeteorRepository) UpdateByIDAndUser(meteorID uint, userID uint, updates map[string]any) error {
	return repo.database.Model(&models.Meteor{}).
		Where("id = ? AND user_id = ?", meteorID, userID).
		Updates(updates).Error
}

func (repo *MeteorRepository) Archive(meteorID uint, userID uint) error {
	return repo.database.Model(&models.Meteor{}).
		Where("id = ? AND user_id = ?", meteorID, userID).
		Update("archived", true).Error
}
