package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"anoa.com/lostfound/internal/entity"
	"anoa.com/lostfound/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoMock struct {
	created   []entity.Notification
	createErr error
	gotLimit  int
	gotOffset int
}

func (m *repoMock) Create(_ context.Context, n *entity.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	n.ID = uuid.New()
	m.created = append(m.created, *n)
	return nil
}

func (m *repoMock) GetByUserID(_ context.Context, _ uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	m.gotLimit, m.gotOffset = limit, offset
	return nil, nil
}

func (m *repoMock) MarkAsRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (m *repoMock) MarkAllAsRead(context.Context, uuid.UUID) (int64, error) { return 3, nil }

func (m *repoMock) CountUnread(context.Context, uuid.UUID) (int64, error) { return 2, nil }

type publishCall struct {
	channel string
	payload []byte
}

type pubMock struct {
	calls []publishCall
	err   error
}

func (p *pubMock) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.calls = append(p.calls, publishCall{channel: channel, payload: message.([]byte)})
	cmd := redis.NewIntCmd(ctx)
	if p.err != nil {
		cmd.SetErr(p.err)
	}
	return cmd
}

func newTestService(repo *repoMock, pub *pubMock) *notificationService {
	s := NewNotificationService(logger.Discard(), repo, nil).(*notificationService)
	if pub != nil {
		s.pub = pub
	}
	return s
}

func TestCreateNotification_StoresAndPublishes(t *testing.T) {
	repo := &repoMock{}
	pub := &pubMock{}
	userID := uuid.New()

	err := newTestService(repo, pub).CreateNotification(context.Background(), &entity.Notification{
		UserID: userID,
		Type:   entity.NotificationTypeItemMatch,
		Title:  "Possible match found!",
	})

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	require.Len(t, pub.calls, 1)
	assert.Equal(t, "user_notifications:"+userID.String(), pub.calls[0].channel)

	var got entity.Notification
	require.NoError(t, json.Unmarshal(pub.calls[0].payload, &got))
	assert.Equal(t, repo.created[0].ID, got.ID)
	assert.Equal(t, "Possible match found!", got.Title)
}

func TestCreateNotification_PublishFailureIsTolerated(t *testing.T) {
	pub := &pubMock{err: errors.New("redis gone")}

	err := newTestService(&repoMock{}, pub).CreateNotification(context.Background(), &entity.Notification{UserID: uuid.New()})

	assert.NoError(t, err)
}

func TestCreateNotification_StoreFailure(t *testing.T) {
	pub := &pubMock{}
	repo := &repoMock{createErr: errors.New("disk full")}

	err := newTestService(repo, pub).CreateNotification(context.Background(), &entity.Notification{UserID: uuid.New()})

	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, pub.calls, "nothing is published for an unsaved notification")
}

func TestCreateNotification_WithoutRedis(t *testing.T) {
	repo := &repoMock{}

	err := newTestService(repo, nil).CreateNotification(context.Background(), &entity.Notification{UserID: uuid.New()})

	assert.NoError(t, err)
	assert.Len(t, repo.created, 1)
}

func TestGetNotifications_LatestFifty(t *testing.T) {
	repo := &repoMock{}

	got, err := newTestService(repo, nil).GetNotifications(context.Background(), uuid.New(), -5)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, ListLimit, repo.gotLimit)
	assert.Zero(t, repo.gotOffset)
}
