package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"anoa.com/lostfound/internal/entity"
	notifRepo "anoa.com/lostfound/internal/modules/notification/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ListLimit caps the notification list, newest first.
const ListLimit = 50

// Channel is the Redis Pub/Sub channel carrying a user's live notifications.
func Channel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *entity.Notification) error
	GetNotifications(ctx context.Context, userID uuid.UUID, offset int) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type notificationService struct {
	log  *slog.Logger
	repo notifRepo.NotificationRepository
	pub  publisher
}

// NewNotificationService builds the service. A nil redis client disables
// live fan-out; notifications are still stored.
func NewNotificationService(log *slog.Logger, repo notifRepo.NotificationRepository, redisClient *redis.Client) NotificationService {
	s := &notificationService{
		log:  log.With("service", "notification"),
		repo: repo,
	}
	if redisClient != nil {
		s.pub = redisClient
	}
	return s
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	if s.pub != nil {
		payload, err := json.Marshal(notification)
		if err != nil {
			s.log.WarnContext(ctx, "failed to encode notification", slog.String("error", err.Error()))
			return nil
		}
		if err := s.pub.Publish(ctx, Channel(notification.UserID), payload).Err(); err != nil {
			s.log.WarnContext(ctx, "failed to publish notification",
				slog.String("user_id", notification.UserID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, offset int) ([]entity.Notification, error) {
	if offset < 0 {
		offset = 0
	}
	notifications, err := s.repo.GetByUserID(ctx, userID, ListLimit, offset)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []entity.Notification{}
	}
	return notifications, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, userID, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
