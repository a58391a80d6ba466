package item

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"anoa.com/lostfound/internal/entity"
	itemDto "anoa.com/lostfound/internal/modules/item/dto"
	repo "anoa.com/lostfound/internal/modules/item/repository"
	matching "anoa.com/lostfound/internal/modules/matching/service"
	"anoa.com/lostfound/pkg/apperror"
	commonDto "anoa.com/lostfound/pkg/dto"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100

	ScopeGlobal = "global"
	ScopeItem   = "item"
)

// MatchTrigger runs the found-item notification fan-out.
type MatchTrigger interface {
	OnFoundPosted(ctx context.Context, found *entity.ItemReport) (matching.DispatchReport, error)
}

// Indexer keeps the browse search index in step with item writes.
type Indexer interface {
	IndexItem(ctx context.Context, item *entity.ItemReport) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type Options struct {
	RateLimitGlobal time.Duration
	RateLimitItem   time.Duration
	DispatchTimeout time.Duration
}

type Service interface {
	CreateItem(ctx context.Context, userID uuid.UUID, req itemDto.CreateItemRequest) (*itemDto.ItemResponse, error)
	GetItem(ctx context.Context, id uuid.UUID) (*itemDto.ItemResponse, error)
	ListItems(ctx context.Context, query itemDto.ListItemsQuery) (*itemDto.ItemListResponse, error)
	GetMyItems(ctx context.Context, userID uuid.UUID, query itemDto.ListItemsQuery) (*itemDto.ItemListResponse, error)
	UpdateStatus(ctx context.Context, userID, itemID uuid.UUID, status entity.ItemStatus) (*itemDto.StatusResponse, error)
	// Wait blocks until background match dispatches have finished.
	Wait()
}

type service struct {
	log         *slog.Logger
	itemRepo    repo.Repository
	matches     MatchTrigger
	search      Indexer
	redisClient *redis.Client
	opts        Options

	inflight sync.WaitGroup
}

// NewService wires the item service. matches and search may be nil; a nil
// redis client disables the create cooldowns.
func NewService(log *slog.Logger, itemRepo repo.Repository, matches MatchTrigger, search Indexer, redisClient *redis.Client, opts Options) Service {
	return &service{
		log:         log.With("service", "item"),
		itemRepo:    itemRepo,
		matches:     matches,
		search:      search,
		redisClient: redisClient,
		opts:        opts,
	}
}

func (s *service) CreateItem(ctx context.Context, userID uuid.UUID, req itemDto.CreateItemRequest) (*itemDto.ItemResponse, error) {
	item := &entity.ItemReport{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Description:  strings.TrimSpace(req.Description),
		Location:     strings.TrimSpace(req.Location),
		Kind:         entity.ItemKind(req.Kind),
		Status:       entity.ItemStatusActive,
		ContactPhone: req.ContactPhone,
		ImageURL:     req.ImageURL,
	}
	if err := validateNewItem(item); err != nil {
		return nil, err
	}

	cleanup, err := s.checkCreateRateLimit(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		cleanup()
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.indexItem(ctx, item)

	if item.Kind == entity.ItemKindFound && s.matches != nil {
		s.dispatchAsync(*item)
	}

	resp := itemDto.ToItemResponse(item)
	return &resp, nil
}

func validateNewItem(item *entity.ItemReport) error {
	switch {
	case !item.Kind.Valid():
		return apperror.Invalid("item type must be lost or found")
	case item.Name == "":
		return apperror.Invalid("item name is required")
	case item.Location == "":
		return apperror.Invalid("location is required")
	case item.Description == "":
		return apperror.Invalid("item description is required")
	}
	return nil
}

// dispatchAsync notifies owners of matching lost reports without holding up
// the create request. The dispatch gets its own deadline since the request
// context ends with the response.
func (s *service) dispatchAsync(found entity.ItemReport) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx := context.Background()
		if s.opts.DispatchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.opts.DispatchTimeout)
			defer cancel()
		}

		if _, err := s.matches.OnFoundPosted(ctx, &found); err != nil {
			s.log.Error("match dispatch failed",
				slog.String("item_id", found.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}()
}

func (s *service) Wait() {
	s.inflight.Wait()
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*itemDto.ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := itemDto.ToItemResponse(item)
	return &resp, nil
}

func (s *service) ListItems(ctx context.Context, query itemDto.ListItemsQuery) (*itemDto.ItemListResponse, error) {
	limit := clampLimit(query.Limit)
	offset := max(query.Offset, 0)

	items, total, err := s.itemRepo.FindAll(ctx, repo.ListFilter{
		Kind:   entity.ItemKind(query.Kind),
		Search: strings.TrimSpace(query.Search),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return buildList(items, total, limit, offset), nil
}

func (s *service) GetMyItems(ctx context.Context, userID uuid.UUID, query itemDto.ListItemsQuery) (*itemDto.ItemListResponse, error) {
	limit := clampLimit(query.Limit)
	offset := max(query.Offset, 0)

	items, total, err := s.itemRepo.FindByUserID(ctx, userID, entity.ItemKind(query.Kind), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list user items: %w", err)
	}

	return buildList(items, total, limit, offset), nil
}

func (s *service) UpdateStatus(ctx context.Context, userID, itemID uuid.UUID, status entity.ItemStatus) (*itemDto.StatusResponse, error) {
	if !status.Valid() {
		return nil, apperror.Invalid("invalid status value")
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.UserID != userID {
		return nil, fmt.Errorf("you can only update your own posts: %w", apperror.ErrForbidden)
	}

	if err := s.itemRepo.UpdateStatus(ctx, itemID, status); err != nil {
		return nil, err
	}
	item.Status = status

	s.indexItem(ctx, item)

	return &itemDto.StatusResponse{
		Success: true,
		Message: statusMessage(status),
		ID:      itemID,
		Status:  status,
	}, nil
}

func statusMessage(status entity.ItemStatus) string {
	switch status {
	case entity.ItemStatusResolved:
		return "Item marked as returned to owner"
	case entity.ItemStatusDeleted:
		return "Post deleted"
	default:
		return "Post reactivated"
	}
}

// indexItem is best effort; the periodic resync repairs misses.
func (s *service) indexItem(ctx context.Context, item *entity.ItemReport) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexItem(ctx, item); err != nil {
		s.log.WarnContext(ctx, "failed to index item",
			slog.String("item_id", item.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func buildList(items []entity.ItemReport, total int64, limit, offset int) *itemDto.ItemListResponse {
	data := itemDto.ToItemResponses(items)
	return &itemDto.ItemListResponse{
		Success: true,
		Count:   len(data),
		Data:    data,
		Meta: commonDto.PaginationMeta{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}
}
