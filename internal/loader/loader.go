// Package loader sequences the full fetch-cache-persist pipeline.
package loader

import (
	"context"

	"github.com/segmentio/ksuid"
	"github.com/sgleason/bizatlas/internal/build"
	"github.com/sgleason/bizatlas/internal/domain"
	"github.com/sgleason/bizatlas/internal/fetch"
	"github.com/sgleason/bizatlas/internal/infra/config"
	"github.com/sgleason/bizatlas/internal/infra/logger"
	"github.com/sgleason/bizatlas/internal/store"
)

type Loader struct {
	cfg     *config.Config
	log     *logger.Logger
	fetcher *fetch.Client
	store   *store.PersistentStore
}

func New(cfg *config.Config, log *logger.Logger, f *fetch.Client, s *store.PersistentStore) *Loader {
	return &Loader{cfg: cfg, log: log, fetcher: f, store: s}
}

// Run executes the pipeline once: regions are fetched and persisted, then
// listings are crawled per region under both ranking strategies and the
// concatenated set is persisted. Each stage fully materializes before the
// next begins and nothing rolls back on partial failure; the append-only
// cache and the idempotent upserts make re-running safe.
func (l *Loader) Run(ctx context.Context) error {
	runID := ksuid.New().String()
	l.log.Info("loader %s: building regions", runID)

	regions, err := build.Regions(ctx, l.fetcher, l.cfg.Census.URL)
	if err != nil {
		return err
	}
	l.log.Info("loader %s: built %d regions", runID, len(regions))

	if err := l.store.UpsertRegions(ctx, regions); err != nil {
		return err
	}

	best, err := build.Listings(ctx, l.fetcher, regions, domain.SortBestMatch, l.cfg.Search.Term, l.cfg.Search.Limit)
	if err != nil {
		return err
	}
	l.log.Info("loader %s: %d listings via %s", runID, len(best), domain.SortBestMatch)

	byReviews, err := build.Listings(ctx, l.fetcher, regions, domain.SortReviewCount, l.cfg.Search.Term, l.cfg.Search.Limit)
	if err != nil {
		return err
	}
	l.log.Info("loader %s: %d listings via %s", runID, len(byReviews), domain.SortReviewCount)

	// Both passes feed one upsert; duplicates collapse last-write-wins.
	if err := l.store.UpsertListings(ctx, append(best, byReviews...)); err != nil {
		return err
	}

	l.log.Info("loader %s: done", runID)
	return nil
}
