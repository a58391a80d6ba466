package bootstrap

import (
	"log/slog"

	"anoa.com/lostfound/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// demoOwner owns the seeded reports so local logins can be scripted against it.
var demoOwner = uuid.MustParse("0190c1d2-0000-7000-8000-000000000001")

// SeedDemoItems fills an empty item table with a few reports for local
// development. It is a no-op once any report exists.
func SeedDemoItems(db *gorm.DB, log *slog.Logger) error {
	var count int64
	if err := db.Model(&entity.ItemReport{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("item reports already present, skipping demo seed")
		return nil
	}

	items := []entity.ItemReport{
		{UserID: demoOwner, Name: "Black Wallet", Description: "Leather wallet with two cards", Location: "Central Station", Kind: entity.ItemKindLost},
		{UserID: demoOwner, Name: "Watch", Description: "Silver wrist watch", Location: "Cafe", Kind: entity.ItemKindLost},
		{UserID: demoOwner, Name: "Umbrella", Description: "Folding umbrella, navy", Location: "Library", Kind: entity.ItemKindFound},
	}
	if err := db.Create(&items).Error; err != nil {
		return err
	}

	log.Info("demo item reports seeded", slog.Int("count", len(items)), slog.String("owner", demoOwner.String()))
	return nil
}
