package repository

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/lostfound/internal/entity"
	"anoa.com/lostfound/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceTokenRepository interface {
	Upsert(ctx context.Context, token *entity.DeviceToken) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DeviceToken, error)
}

type deviceTokenRepository struct {
	db *gorm.DB
}

func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

// Upsert stores one token per user; the latest registration wins.
func (r *deviceTokenRepository) Upsert(ctx context.Context, token *entity.DeviceToken) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "platform", "updated_at"}),
	}).Create(token).Error
}

func (r *deviceTokenRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DeviceToken, error) {
	var token entity.DeviceToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("device token for %s: %w", userID, apperror.ErrNotFound)
		}
		return nil, err
	}
	return &token, nil
}
