package service

import (
	"context"
	"strings"

	"anoa.com/lostfound/internal/entity"
	pushRepo "anoa.com/lostfound/internal/modules/push/repository"
	"anoa.com/lostfound/pkg/apperror"
	"github.com/google/uuid"
)

const defaultPlatform = "android"

type DeviceService interface {
	RegisterToken(ctx context.Context, userID uuid.UUID, token, platform string) error
}

type deviceService struct {
	repo pushRepo.DeviceTokenRepository
}

func NewDeviceService(repo pushRepo.DeviceTokenRepository) DeviceService {
	return &deviceService{repo: repo}
}

func (s *deviceService) RegisterToken(ctx context.Context, userID uuid.UUID, token, platform string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperror.Invalid("FCM token is required")
	}
	if platform == "" {
		platform = defaultPlatform
	}
	return s.repo.Upsert(ctx, &entity.DeviceToken{
		UserID:   userID,
		Token:    token,
		Platform: platform,
	})
}
