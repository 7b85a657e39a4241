package app

import (
	"context"

	"github.com/sgleason/bizatlas/internal/infra/config"
	"github.com/sgleason/bizatlas/internal/infra/logger"
	"github.com/sgleason/bizatlas/internal/store"
)

// ReportStore is the read-only view of the database the API controllers use.
type ReportStore interface {
	OverallAvgRating(ctx context.Context) (float64, error)
	RegionCounts(ctx context.Context) ([]store.RegionCount, error)
	AvgRatingByBlackPct(ctx context.Context) ([]store.RegionRating, error)
	AvgRatingByCategory(ctx context.Context, minReviews int) ([]store.CategoryRating, error)
	CompareRegions(ctx context.Context, r1, r2, variable string) ([]store.ComparePoint, error)
	CompareRegionsByCategory(ctx context.Context, r1, r2, variable, category string) ([]store.ComparePoint, error)
	Recommend(ctx context.Context, region, category string, minReviews int) ([]store.Recommendation, error)
	RecommendByCategory(ctx context.Context, category string, minReviews int) ([]store.Recommendation, error)
	RegionCategoryCounts(ctx context.Context, region string) ([]store.RegionCount, error)
	CategoryRegionCounts(ctx context.Context, category string) ([]store.RegionCount, error)
	RegionNames(ctx context.Context) ([]string, error)
	CategoryNames(ctx context.Context) ([]string, error)
	RandomSample(ctx context.Context, n int) ([]store.SamplePoint, error)
}

// Context holds the shared resources for bizatlas. It is constructed once
// in main and passed by reference; nothing here is package-global.
type Context struct {
	Config  *config.Config
	Logger  *logger.Logger
	Reports ReportStore
}

func NewContext(cfg *config.Config, log *logger.Logger, reports ReportStore) *Context {
	return &Context{
		Config:  cfg,
		Logger:  log,
		Reports: reports,
	}
}
