package bootstrap

import (
	"anoa.com/lostfound/internal/entity"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.ItemReport{},
		&entity.Notification{},
		&entity.DeviceToken{},
	)
}
