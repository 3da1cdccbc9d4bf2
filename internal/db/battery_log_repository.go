package db

import (
	"time"

	"github.com/friendorbit/orbit/internal/models"
	"gorm.io/gorm"
)

type BatteryLogRepository struct {
	database *gorm.DB
}

func NewBatteryLogRepository(database *gorm.DB) *BatteryLogRepository {
	return &BatteryLogRepository{database: database}
}

func (repo *BatteryLogRepository) Create(entry *models.BatteryLog) error {
	return repo.database.Create(entry).Error
}

func (repo *BatteryLogRepository) LatestByUser(userID uint) (models.BatteryLog, bool, error) {
	var entry models.BatteryLog
	result := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.BatteryLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.BatteryLog{}, false, nil
	}
	return entry, true, nil
}

func (repo *BatteryLogRepository) ListByUserSince(userID uint, since time.Time) ([]models.BatteryLog, error) {
	entries := make([]models.BatteryLog, 0)
	if err := repo.database.
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
