package matching

import (
	"context"
	"sync"

	"anoa.com/lostfound/internal/entity"
	"github.com/google/uuid"
)

type itemRepoMock struct {
	LoadActiveByKindFunc func(ctx context.Context, kind entity.ItemKind, limit int) ([]entity.ItemReport, error)
	FindByIDFunc         func(ctx context.Context, id uuid.UUID) (*entity.ItemReport, error)

	mu        sync.Mutex
	loadCalls []loadCall
}

type loadCall struct {
	Kind  entity.ItemKind
	Limit int
}

func (m *itemRepoMock) LoadActiveByKind(ctx context.Context, kind entity.ItemKind, limit int) ([]entity.ItemReport, error) {
	m.mu.Lock()
	m.loadCalls = append(m.loadCalls, loadCall{Kind: kind, Limit: limit})
	m.mu.Unlock()
	if m.LoadActiveByKindFunc == nil {
		return nil, nil
	}
	return m.LoadActiveByKindFunc(ctx, kind, limit)
}

func (m *itemRepoMock) FindByID(ctx context.Context, id uuid.UUID) (*entity.ItemReport, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *itemRepoMock) LoadCalls() []loadCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]loadCall(nil), m.loadCalls...)
}

type pushCall struct {
	RecipientID uuid.UUID
	Title       string
	Body        string
	Data        map[string]string
}

type pushMock struct {
	SendFunc func(ctx context.Context, recipientID uuid.UUID) error

	mu    sync.Mutex
	calls []pushCall
}

func (m *pushMock) Send(ctx context.Context, recipientID uuid.UUID, title, body string, data map[string]string) error {
	m.mu.Lock()
	m.calls = append(m.calls, pushCall{RecipientID: recipientID, Title: title, Body: body, Data: data})
	m.mu.Unlock()
	if m.SendFunc == nil {
		return nil
	}
	return m.SendFunc(ctx, recipientID)
}

func (m *pushMock) Calls() []pushCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pushCall(nil), m.calls...)
}

type recorderMock struct {
	CreateFunc func(ctx context.Context, n *entity.Notification) error

	mu      sync.Mutex
	records []*entity.Notification
}

func (m *recorderMock) CreateNotification(ctx context.Context, n *entity.Notification) error {
	m.mu.Lock()
	m.records = append(m.records, n)
	m.mu.Unlock()
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, n)
}

func (m *recorderMock) Records() []*entity.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.Notification(nil), m.records...)
}
