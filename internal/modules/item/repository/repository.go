package item

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/lostfound/internal/entity"
	"anoa.com/lostfound/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter narrows the public browse listing. Only active reports are listed.
type ListFilter struct {
	Kind   entity.ItemKind
	Search string
	Offset int
	Limit  int
}

type Repository interface {
	Create(ctx context.Context, item *entity.ItemReport) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ItemReport, error)
	FindAll(ctx context.Context, filter ListFilter) ([]entity.ItemReport, int64, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, kind entity.ItemKind, offset, limit int) ([]entity.ItemReport, int64, error)
	LoadActiveByKind(ctx context.Context, kind entity.ItemKind, limit int) ([]entity.ItemReport, error)
	ListActive(ctx context.Context, limit, offset int) ([]entity.ItemReport, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ItemStatus) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, item *entity.ItemReport) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ItemReport, error) {
	var item entity.ItemReport
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]entity.ItemReport, int64, error) {
	var items []entity.ItemReport
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ItemReport{}).
		Where("status = ?", entity.ItemStatusActive)

	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR location ILIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// FindByUserID lists every report of a user regardless of status. An empty
// kind lists both kinds.
func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID, kind entity.ItemKind, offset, limit int) ([]entity.ItemReport, int64, error) {
	var items []entity.ItemReport
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ItemReport{}).Where("user_id = ?", userID)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// LoadActiveByKind returns the candidate pool for matching, newest first.
// A limit of zero loads every active report of the kind.
func (r *repository) LoadActiveByKind(ctx context.Context, kind entity.ItemKind, limit int) ([]entity.ItemReport, error) {
	var items []entity.ItemReport

	query := r.db.WithContext(ctx).
		Where("kind = ? AND status = ?", kind, entity.ItemStatusActive).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListActive(ctx context.Context, limit, offset int) ([]entity.ItemReport, error) {
	var items []entity.ItemReport
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.ItemStatusActive).
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ItemStatus) error {
	result := r.db.WithContext(ctx).Model(&entity.ItemReport{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("item %s: %w", id, apperror.ErrNotFound)
	}
	return nil
}
