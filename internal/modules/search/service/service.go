package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"anoa.com/lostfound/internal/entity"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const (
	IndexName = "items"

	defaultSearchLimit = 20
	maxSearchLimit     = 100
	reindexBatchSize   = 500
)

// ItemSource pages through active item reports for a full resync.
type ItemSource interface {
	ListActive(ctx context.Context, limit, offset int) ([]entity.ItemReport, error)
}

type Service interface {
	IndexItem(ctx context.Context, item *entity.ItemReport) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query Query) (*Result, error)
	ReindexActive(ctx context.Context) (int, error)
}

type Query struct {
	Text   string
	Kind   entity.ItemKind
	Limit  int
	Offset int
}

type Result struct {
	Hits      []ItemDocument `json:"hits"`
	Estimated int64          `json:"estimated_total"`
	Limit     int            `json:"limit"`
	Offset    int            `json:"offset"`
}

// ItemDocument is the shape stored in the items index. Only active reports
// are kept there.
type ItemDocument struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"item_name"`
	Description string `json:"item_description"`
	Location    string `json:"location"`
	Kind        string `json:"item_type"`
	ImageURL    string `json:"image_url,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// backend is the slice of the Meilisearch API this service talks to.
type backend interface {
	upsert(docs []ItemDocument) error
	remove(id string) error
	// search returns the hits as a JSON array plus the estimated total.
	search(text string, req *meilisearch.SearchRequest) ([]byte, int64, error)
}

type service struct {
	log       *slog.Logger
	index     backend
	items     ItemSource
	sanitizer *bluemonday.Policy
}

func NewService(log *slog.Logger, client meilisearch.ServiceManager, items ItemSource) Service {
	s := newService(log, &meiliBackend{index: client.Index(IndexName)}, items)
	initIndex(s.log, client)
	return s
}

func newService(log *slog.Logger, index backend, items ItemSource) *service {
	return &service{
		log:       log.With("service", "search"),
		index:     index,
		items:     items,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func initIndex(log *slog.Logger, client meilisearch.ServiceManager) {
	filterable := []any{"item_type", "user_id"}
	if _, err := client.Index(IndexName).UpdateFilterableAttributes(&filterable); err != nil {
		log.Warn("failed to update filterable attributes", slog.String("index", IndexName), slog.String("error", err.Error()))
	}

	sortable := []string{"created_at"}
	if _, err := client.Index(IndexName).UpdateSortableAttributes(&sortable); err != nil {
		log.Warn("failed to update sortable attributes", slog.String("index", IndexName), slog.String("error", err.Error()))
	}
}

func (s *service) cleanDescription(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *service) toDocument(item *entity.ItemReport) ItemDocument {
	doc := ItemDocument{
		ID:          item.ID.String(),
		UserID:      item.UserID.String(),
		Name:        item.Name,
		Description: s.cleanDescription(item.Description),
		Location:    item.Location,
		Kind:        string(item.Kind),
		CreatedAt:   item.CreatedAt.Unix(),
	}
	if item.ImageURL != nil {
		doc.ImageURL = *item.ImageURL
	}
	return doc
}

// IndexItem upserts an active report and drops any other from the index.
func (s *service) IndexItem(ctx context.Context, item *entity.ItemReport) error {
	if item.Status != entity.ItemStatusActive {
		return s.DeleteItem(ctx, item.ID)
	}
	if err := s.index.upsert([]ItemDocument{s.toDocument(item)}); err != nil {
		return fmt.Errorf("index item %s: %w", item.ID, err)
	}
	return nil
}

func (s *service) DeleteItem(_ context.Context, id uuid.UUID) error {
	if err := s.index.remove(id.String()); err != nil {
		return fmt.Errorf("delete item %s from index: %w", id, err)
	}
	return nil
}

func (s *service) Search(_ context.Context, q Query) (*Result, error) {
	if q.Limit <= 0 {
		q.Limit = defaultSearchLimit
	}
	if q.Limit > maxSearchLimit {
		q.Limit = maxSearchLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	req := &meilisearch.SearchRequest{
		Limit:  int64(q.Limit),
		Offset: int64(q.Offset),
	}
	if q.Kind != "" {
		req.Filter = fmt.Sprintf("item_type = %q", string(q.Kind))
	}
	if strings.TrimSpace(q.Text) == "" {
		req.Sort = []string{"created_at:desc"}
	}

	raw, estimated, err := s.index.search(q.Text, req)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}

	var hits []ItemDocument
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}
	if hits == nil {
		hits = []ItemDocument{}
	}

	return &Result{
		Hits:      hits,
		Estimated: estimated,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}, nil
}

// ReindexActive pushes every active report to the index in batches and
// returns how many documents were sent.
func (s *service) ReindexActive(ctx context.Context) (int, error) {
	total := 0
	for offset := 0; ; offset += reindexBatchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		items, err := s.items.ListActive(ctx, reindexBatchSize, offset)
		if err != nil {
			return total, fmt.Errorf("load active items: %w", err)
		}
		if len(items) == 0 {
			break
		}

		docs := make([]ItemDocument, 0, len(items))
		for i := range items {
			docs = append(docs, s.toDocument(&items[i]))
		}
		if err := s.index.upsert(docs); err != nil {
			return total, fmt.Errorf("index batch at offset %d: %w", offset, err)
		}
		total += len(docs)

		if len(items) < reindexBatchSize {
			break
		}
	}

	s.log.InfoContext(ctx, "search index resynced", slog.Int("documents", total))
	return total, nil
}

type meiliBackend struct {
	index meilisearch.IndexManager
}

func (b *meiliBackend) upsert(docs []ItemDocument) error {
	_, err := b.index.AddDocuments(docs, strPtr("id"))
	return err
}

func (b *meiliBackend) remove(id string) error {
	_, err := b.index.DeleteDocument(id)
	return err
}

func (b *meiliBackend) search(text string, req *meilisearch.SearchRequest) ([]byte, int64, error) {
	resp, err := b.index.Search(text, req)
	if err != nil {
		return nil, 0, err
	}
	// Hits are loosely typed maps; hand them back as JSON.
	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, 0, err
	}
	return raw, resp.EstimatedTotalHits, nil
}

func strPtr(s string) *string {
	return &s
}
