package job

import (
	"context"
	"log/slog"
)

// Reindexer rebuilds the item search index from the database.
type Reindexer interface {
	ReindexActive(ctx context.Context) (int, error)
}

// SearchResyncJob repairs index entries missed by best-effort writes.
type SearchResyncJob struct {
	log      *slog.Logger
	index    Reindexer
	schedule string
}

func NewSearchResyncJob(log *slog.Logger, index Reindexer, schedule string) *SearchResyncJob {
	return &SearchResyncJob{log: log, index: index, schedule: schedule}
}

func (j *SearchResyncJob) Name() string { return "search-resync" }

func (j *SearchResyncJob) Schedule() string { return j.schedule }

func (j *SearchResyncJob) Execute(ctx context.Context) error {
	n, err := j.index.ReindexActive(ctx)
	if err != nil {
		return err
	}
	j.log.InfoContext(ctx, "reindexed active items", slog.Int("documents", n))
	return nil
}
