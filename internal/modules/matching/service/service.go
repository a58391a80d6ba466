package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"anoa.com/lostfound/internal/entity"
	"anoa.com/lostfound/pkg/apperror"
	"github.com/google/uuid"
)

// DefaultQueryMinScore lets any positive score through on the read path.
const DefaultQueryMinScore = 0

// ItemRepository is the read side of the item store used to build candidate pools.
type ItemRepository interface {
	// LoadActiveByKind returns active reports of kind, newest first. A positive
	// limit keeps only the newest limit reports.
	LoadActiveByKind(ctx context.Context, kind entity.ItemKind, limit int) ([]entity.ItemReport, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ItemReport, error)
}

type Options struct {
	QueryMinScore  int
	NotifyMinScore int
	// ResultLimit truncates the ranked list returned to callers. Zero keeps all.
	ResultLimit int
	// NotifyMax caps delivery attempts per found item. Zero keeps all.
	NotifyMax int
	// PoolLimit caps the candidate pool to the newest reports. Zero loads all.
	PoolLimit int
}

func DefaultOptions() Options {
	return Options{
		QueryMinScore:  DefaultQueryMinScore,
		NotifyMinScore: DefaultNotifyMinScore,
		ResultLimit:    20,
	}
}

// Service exposes the two match triggers: notify on a new found report, and list
// matches for a lost report.
type Service struct {
	items      ItemRepository
	dispatcher *Dispatcher
	opts       Options
	log        *slog.Logger
}

func NewService(
	log *slog.Logger,
	items ItemRepository,
	push PushDelivery,
	recorder NotificationRecorder,
	opts Options,
) *Service {
	return &Service{
		items:      items,
		dispatcher: NewDispatcher(log, push, recorder, opts.NotifyMinScore, opts.NotifyMax),
		opts:       opts,
		log:        log.With("service", "matching"),
	}
}

// OnFoundPosted notifies owners of active lost reports matching a new found report.
// A zero Sent count is not an error.
func (s *Service) OnFoundPosted(ctx context.Context, found *entity.ItemReport) (DispatchReport, error) {
	if err := validateSubject(found, entity.ItemKindFound); err != nil {
		return DispatchReport{}, err
	}

	pool, err := s.loadPool(ctx, entity.ItemKindLost)
	if err != nil {
		return DispatchReport{}, err
	}

	return s.dispatcher.DispatchMatchNotifications(ctx, found, pool)
}

// OnFoundPostedByID resolves the found report first.
func (s *Service) OnFoundPostedByID(ctx context.Context, foundID uuid.UUID) (DispatchReport, error) {
	found, err := s.findItem(ctx, foundID)
	if err != nil {
		return DispatchReport{}, err
	}
	return s.OnFoundPosted(ctx, found)
}

// QueryMatchesForLostReport ranks active found reports against lost. It has no
// side effects and returns an empty slice when nothing matches.
func (s *Service) QueryMatchesForLostReport(ctx context.Context, lost *entity.ItemReport) ([]MatchCandidate, error) {
	if err := validateSubject(lost, entity.ItemKindLost); err != nil {
		return nil, err
	}

	pool, err := s.loadPool(ctx, entity.ItemKindFound)
	if err != nil {
		return nil, err
	}

	matches := FindMatches(lost, pool, s.opts.QueryMinScore)
	if s.opts.ResultLimit > 0 && len(matches) > s.opts.ResultLimit {
		matches = matches[:s.opts.ResultLimit]
	}

	s.log.DebugContext(ctx, "lost report matches computed",
		slog.String("lost_item_id", lost.ID.String()),
		slog.Int("pool", len(pool)),
		slog.Int("matches", len(matches)),
	)

	return matches, nil
}

// QueryMatchesForLostReportByID resolves the lost report and returns it with its matches.
func (s *Service) QueryMatchesForLostReportByID(ctx context.Context, lostID uuid.UUID) (*entity.ItemReport, []MatchCandidate, error) {
	lost, err := s.findItem(ctx, lostID)
	if err != nil {
		return nil, nil, err
	}

	matches, err := s.QueryMatchesForLostReport(ctx, lost)
	if err != nil {
		return nil, nil, err
	}
	return lost, matches, nil
}

// QueryMatchesInline ranks found reports against an ad hoc name and location.
func (s *Service) QueryMatchesInline(ctx context.Context, name, location string) ([]MatchCandidate, error) {
	return s.QueryMatchesForLostReport(ctx, &entity.ItemReport{
		Name:     name,
		Location: location,
		Kind:     entity.ItemKindLost,
	})
}

func (s *Service) loadPool(ctx context.Context, kind entity.ItemKind) ([]entity.ItemReport, error) {
	pool, err := s.items.LoadActiveByKind(ctx, kind, s.opts.PoolLimit)
	if err != nil {
		return nil, fmt.Errorf("load active %s reports: %w: %w", kind, apperror.ErrRepository, err)
	}
	return pool, nil
}

func (s *Service) findItem(ctx context.Context, id uuid.UUID) (*entity.ItemReport, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("item report %s: %w", id, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("find item report %s: %w: %w", id, apperror.ErrRepository, err)
	}
	return item, nil
}

func validateSubject(item *entity.ItemReport, want entity.ItemKind) error {
	if item == nil {
		return apperror.Invalid("item report is required")
	}
	if item.Kind != want {
		return apperror.Invalid(fmt.Sprintf("item report must be of type %s", want))
	}
	if strings.TrimSpace(item.Name) == "" {
		return apperror.Invalid("item name is required")
	}
	if strings.TrimSpace(item.Location) == "" {
		return apperror.Invalid("item location is required")
	}
	return nil
}
