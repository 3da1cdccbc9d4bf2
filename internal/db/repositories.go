package db

import "gorm.io/gorm"

type Repositories struct {
	Users   *UserRepository
	People  *PersonRepository
	Battery *BatteryLogRepository
	Meteors *MeteorRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:   NewUserRepository(database),
		People:  NewPersonRepository(database),
		Battery: NewBatteryLogRepository(database),
		Meteors: NewMeteorRepository(database),
	}
}
