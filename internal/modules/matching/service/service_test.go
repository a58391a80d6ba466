package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"anoa.com/lostfound/internal/entity"
	"anoa.com/lostfound/pkg/apperror"
	"anoa.com/lostfound/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, items *itemRepoMock, push *pushMock, rec *recorderMock, opts Options) *Service {
	t.Helper()
	return NewService(logger.Discard(), items, push, rec, opts)
}

func poolByKind(lost, found []entity.ItemReport) func(context.Context, entity.ItemKind, int) ([]entity.ItemReport, error) {
	return func(_ context.Context, kind entity.ItemKind, _ int) ([]entity.ItemReport, error) {
		if kind == entity.ItemKindLost {
			return lost, nil
		}
		return found, nil
	}
}

func TestOnFoundPosted_LoadsLostPoolAndNotifies(t *testing.T) {
	found, lostWatch, lostGoldWatch, lostUmbrella, _ := dispatchFixture()
	items := &itemRepoMock{
		LoadActiveByKindFunc: poolByKind([]entity.ItemReport{lostWatch, lostGoldWatch, lostUmbrella}, nil),
	}
	push := &pushMock{}

	opts := DefaultOptions()
	opts.PoolLimit = 500
	got, err := newTestService(t, items, push, &recorderMock{}, opts).OnFoundPosted(context.Background(), &found)

	require.NoError(t, err)
	assert.Equal(t, 2, got.Sent)
	assert.Equal(t, []loadCall{{Kind: entity.ItemKindLost, Limit: 500}}, items.LoadCalls())
}

func TestOnFoundPosted_PoolLoadFailureIsFatal(t *testing.T) {
	found, _, _, _, _ := dispatchFixture()
	items := &itemRepoMock{
		LoadActiveByKindFunc: func(context.Context, entity.ItemKind, int) ([]entity.ItemReport, error) {
			return nil, errors.New("db down")
		},
	}
	push := &pushMock{}

	_, err := newTestService(t, items, push, &recorderMock{}, DefaultOptions()).OnFoundPosted(context.Background(), &found)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrRepository)
	assert.Contains(t, err.Error(), "db down")
	assert.Empty(t, push.Calls())
}

func TestOnFoundPosted_RejectsLostSubject(t *testing.T) {
	_, lostWatch, _, _, _ := dispatchFixture()
	items := &itemRepoMock{}

	_, err := newTestService(t, items, &pushMock{}, &recorderMock{}, DefaultOptions()).OnFoundPosted(context.Background(), &lostWatch)

	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Empty(t, items.LoadCalls(), "no pool load for invalid input")
}

func TestOnFoundPosted_DedupIsPerInvocation(t *testing.T) {
	_, lostWatch, _, _, _ := dispatchFixture()
	firstFound := report(entity.ItemKindFound, "Watch", "Cafe", 0)
	secondFound := report(entity.ItemKindFound, "watch", "cafe", time.Minute)
	items := &itemRepoMock{LoadActiveByKindFunc: poolByKind([]entity.ItemReport{lostWatch}, nil)}
	push := &pushMock{}
	rec := &recorderMock{}
	svc := newTestService(t, items, push, rec, DefaultOptions())

	for _, f := range []entity.ItemReport{firstFound, secondFound} {
		got, err := svc.OnFoundPosted(context.Background(), &f)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Sent)
	}

	records := rec.Records()
	require.Len(t, records, 2, "each found item is a fresh signal")
	assert.Equal(t, firstFound.ID, records[0].SubjectItemID)
	assert.Equal(t, secondFound.ID, records[1].SubjectItemID)
}

func TestOnFoundPostedByID(t *testing.T) {
	found, lostWatch, _, _, _ := dispatchFixture()
	items := &itemRepoMock{
		LoadActiveByKindFunc: poolByKind([]entity.ItemReport{lostWatch}, nil),
		FindByIDFunc: func(_ context.Context, id uuid.UUID) (*entity.ItemReport, error) {
			if id == found.ID {
				return &found, nil
			}
			return nil, fmt.Errorf("item: %w", apperror.ErrNotFound)
		},
	}
	svc := newTestService(t, items, &pushMock{}, &recorderMock{}, DefaultOptions())

	got, err := svc.OnFoundPostedByID(context.Background(), found.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Sent)

	_, err = svc.OnFoundPostedByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestQueryMatchesForLostReport_ScenarioA(t *testing.T) {
	lost := report(entity.ItemKindLost, "Watch", "Cafe", 0)
	lounge := report(entity.ItemKindFound, "watch", "Cafe Lounge", time.Hour)
	bottle := report(entity.ItemKindFound, "Bottle", "Cafe", time.Hour)
	items := &itemRepoMock{LoadActiveByKindFunc: poolByKind(nil, []entity.ItemReport{bottle, lounge})}
	push := &pushMock{}
	rec := &recorderMock{}

	matches, err := newTestService(t, items, push, rec, DefaultOptions()).QueryMatchesForLostReport(context.Background(), &lost)

	require.NoError(t, err)
	assert.Equal(t, []int{65, 30}, scores(matches))
	assert.Equal(t, entity.ItemKindFound, items.LoadCalls()[0].Kind)
	assert.Empty(t, push.Calls(), "read path never notifies")
	assert.Empty(t, rec.Records())
}

func TestQueryMatchesForLostReport_EmptyIsNotAnError(t *testing.T) {
	lost := report(entity.ItemKindLost, "Watch", "Cafe", 0)
	items := &itemRepoMock{LoadActiveByKindFunc: poolByKind(nil, nil)}

	matches, err := newTestService(t, items, &pushMock{}, &recorderMock{}, DefaultOptions()).
		QueryMatchesForLostReport(context.Background(), &lost)

	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestQueryMatchesForLostReport_ResultLimit(t *testing.T) {
	lost := report(entity.ItemKindLost, "Watch", "Cafe", 0)
	var pool []entity.ItemReport
	for i := 0; i < 5; i++ {
		pool = append(pool, report(entity.ItemKindFound, "Watch", "Cafe", time.Duration(i)*time.Minute))
	}
	items := &itemRepoMock{LoadActiveByKindFunc: poolByKind(nil, pool)}

	opts := DefaultOptions()
	opts.ResultLimit = 3
	matches, err := newTestService(t, items, &pushMock{}, &recorderMock{}, opts).
		QueryMatchesForLostReport(context.Background(), &lost)

	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, pool[0].ID, matches[0].Item.ID, "newest kept")
}

func TestQueryMatchesForLostReport_InvalidInput(t *testing.T) {
	items := &itemRepoMock{}
	svc := newTestService(t, items, &pushMock{}, &recorderMock{}, DefaultOptions())

	tests := []struct {
		name string
		item *entity.ItemReport
	}{
		{"found kind", &entity.ItemReport{Kind: entity.ItemKindFound, Name: "Watch", Location: "Cafe"}},
		{"missing name", &entity.ItemReport{Kind: entity.ItemKindLost, Location: "Cafe"}},
		{"missing location", &entity.ItemReport{Kind: entity.ItemKindLost, Name: "Watch", Location: " "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.QueryMatchesForLostReport(context.Background(), tt.item)
			assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		})
	}
	assert.Empty(t, items.LoadCalls())
}

func TestQueryMatchesForLostReportByID(t *testing.T) {
	lost := report(entity.ItemKindLost, "Watch", "Cafe", 0)
	found := report(entity.ItemKindFound, "Watch", "Cafe", 0)
	items := &itemRepoMock{
		LoadActiveByKindFunc: poolByKind(nil, []entity.ItemReport{found}),
		FindByIDFunc: func(_ context.Context, id uuid.UUID) (*entity.ItemReport, error) {
			switch id {
			case lost.ID:
				return &lost, nil
			case found.ID:
				return &found, nil
			}
			return nil, apperror.ErrNotFound
		},
	}
	svc := newTestService(t, items, &pushMock{}, &recorderMock{}, DefaultOptions())

	subject, matches, err := svc.QueryMatchesForLostReportByID(context.Background(), lost.ID)
	require.NoError(t, err)
	assert.Equal(t, lost.ID, subject.ID)
	require.Len(t, matches, 1)
	assert.Equal(t, 80, matches[0].Score)

	_, _, err = svc.QueryMatchesForLostReportByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, _, err = svc.QueryMatchesForLostReportByID(context.Background(), found.ID)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestQueryMatchesForLostReportByID_RepositoryError(t *testing.T) {
	items := &itemRepoMock{
		FindByIDFunc: func(context.Context, uuid.UUID) (*entity.ItemReport, error) {
			return nil, errors.New("timeout")
		},
	}
	svc := newTestService(t, items, &pushMock{}, &recorderMock{}, DefaultOptions())

	_, _, err := svc.QueryMatchesForLostReportByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, apperror.ErrRepository)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
}

func TestQueryMatchesInline(t *testing.T) {
	found := report(entity.ItemKindFound, "Black Wallet", "Central Station", 0)
	items := &itemRepoMock{LoadActiveByKindFunc: poolByKind(nil, []entity.ItemReport{found})}
	svc := newTestService(t, items, &pushMock{}, &recorderMock{}, DefaultOptions())

	matches, err := svc.QueryMatchesInline(context.Background(), "wallet", "station")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 45, matches[0].Score)

	_, err = svc.QueryMatchesInline(context.Background(), "", "station")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
