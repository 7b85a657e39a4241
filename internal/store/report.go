package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Read-only reporting queries over the regions and listings tables. All of
// them are parameter-bound; the comparison queries additionally whitelist
// the column selector because SQLite cannot bind identifiers. An empty or
// partially populated database yields empty result sets, never errors.

// ErrUnknownVariable is returned when a comparison names a column outside
// the whitelists.
var ErrUnknownVariable = errors.New("unknown comparison variable")

var regionVars = map[string]string{
	"white_pct":   "white_pct",
	"black_pct":   "black_pct",
	"diploma_pct": "diploma_pct",
	"income":      "income",
}

var listingVars = map[string]string{
	"rating":       "rating",
	"price":        "price",
	"review_count": "review_count",
}

type RegionCount struct {
	Region string
	Count  int
}

type RegionRating struct {
	Region   string
	BlackPct float64
	Rating   float64
}

type CategoryRating struct {
	Category string
	Rating   float64
}

type ComparePoint struct {
	Region string
	Value  float64
}

type Recommendation struct {
	Name        string
	City        string
	Rating      float64
	ReviewCount int
}

type SamplePoint struct {
	BlackPct    float64
	Rating      float64
	ReviewCount int
}

// OverallAvgRating averages the rating across every listing. Zero listings
// yield zero, not an error.
func (s *PersistentStore) OverallAvgRating(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, "SELECT ROUND(AVG(rating), 2) FROM listings").Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

// RegionCounts reports how many listings each region contributed, busiest
// region first.
func (s *PersistentStore) RegionCounts(ctx context.Context) ([]RegionCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT region, COUNT(region) AS ct FROM listings
		GROUP BY region ORDER BY ct DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegionCount
	for rows.Next() {
		var rc RegionCount
		if err := rows.Scan(&rc.Region, &rc.Count); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// AvgRatingByBlackPct pairs each region's black-population percentage with
// the average rating of its listings.
func (s *PersistentStore) AvgRatingByBlackPct(ctx context.Context) ([]RegionRating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.name, r.black_pct, AVG(l.rating)
		FROM regions r INNER JOIN listings l ON r.name = l.region
		GROUP BY r.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegionRating
	for rows.Next() {
		var rr RegionRating
		if err := rows.Scan(&rr.Region, &rr.BlackPct, &rr.Rating); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// AvgRatingByCategory averages ratings per category over listings with at
// least minReviews reviews, best category first.
func (s *PersistentStore) AvgRatingByCategory(ctx context.Context, minReviews int) ([]CategoryRating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, AVG(rating) AS avg_rating FROM listings
		WHERE review_count >= ?
		GROUP BY category ORDER BY avg_rating DESC`, minReviews)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryRating
	for rows.Next() {
		var cr CategoryRating
		if err := rows.Scan(&cr.Category, &cr.Rating); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

// CompareRegions returns one value per region for the named variable.
// Region variables read straight from the regions table; listing variables
// average over each region's listings.
func (s *PersistentStore) CompareRegions(ctx context.Context, r1, r2, variable string) ([]ComparePoint, error) {
	var query string
	if col, ok := regionVars[variable]; ok {
		query = fmt.Sprintf(`SELECT name, %s FROM regions WHERE name IN (?, ?) ORDER BY name`, col)
	} else if col, ok := listingVars[variable]; ok {
		query = fmt.Sprintf(`SELECT region, AVG(%s) FROM listings WHERE region IN (?, ?) GROUP BY region ORDER BY region`, col)
	} else {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, variable)
	}

	return s.comparePoints(ctx, query, r1, r2)
}

// CompareRegionsByCategory is CompareRegions narrowed to listings of a
// single category; only listing variables apply.
func (s *PersistentStore) CompareRegionsByCategory(ctx context.Context, r1, r2, variable, category string) ([]ComparePoint, error) {
	col, ok := listingVars[variable]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, variable)
	}

	query := fmt.Sprintf(`
		SELECT region, AVG(%s) FROM listings
		WHERE category = ? AND region IN (?, ?)
		GROUP BY region ORDER BY region`, col)

	return s.comparePoints(ctx, query, category, r1, r2)
}

func (s *PersistentStore) comparePoints(ctx context.Context, query string, args ...any) ([]ComparePoint, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ComparePoint
	for rows.Next() {
		var cp ComparePoint
		var val sql.NullFloat64
		if err := rows.Scan(&cp.Region, &val); err != nil {
			return nil, err
		}
		cp.Value = val.Float64
		out = append(out, cp)
	}
	return out, rows.Err()
}

// Recommend lists the top-rated listings for a region and category with at
// least minReviews reviews, capped at ten rows.
func (s *PersistentStore) Recommend(ctx context.Context, region, category string, minReviews int) ([]Recommendation, error) {
	return s.recommendations(ctx, `
		SELECT DISTINCT name, city, rating, review_count FROM listings
		WHERE region = ? AND category = ? AND review_count >= ?
		ORDER BY rating DESC LIMIT 10`, region, category, minReviews)
}

// RecommendByCategory is the nationwide variant of Recommend.
func (s *PersistentStore) RecommendByCategory(ctx context.Context, category string, minReviews int) ([]Recommendation, error) {
	return s.recommendations(ctx, `
		SELECT DISTINCT name, city, rating, review_count FROM listings
		WHERE category = ? AND review_count >= ?
		ORDER BY rating DESC LIMIT 10`, category, minReviews)
}

func (s *PersistentStore) recommendations(ctx context.Context, query string, args ...any) ([]Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Recommendation
	for rows.Next() {
		var r Recommendation
		if err := rows.Scan(&r.Name, &r.City, &r.Rating, &r.ReviewCount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RegionCategoryCounts shows the category distribution inside one region.
func (s *PersistentStore) RegionCategoryCounts(ctx context.Context, region string) ([]RegionCount, error) {
	return s.counts(ctx, `
		SELECT category, COUNT(category) AS ct FROM listings
		WHERE region = ? GROUP BY category ORDER BY ct DESC`, region)
}

// CategoryRegionCounts shows the region distribution of one category.
func (s *PersistentStore) CategoryRegionCounts(ctx context.Context, category string) ([]RegionCount, error) {
	return s.counts(ctx, `
		SELECT region, COUNT(category) AS ct FROM listings
		WHERE category = ? GROUP BY region ORDER BY ct DESC`, category)
}

func (s *PersistentStore) counts(ctx context.Context, query string, args ...any) ([]RegionCount, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegionCount
	for rows.Next() {
		var rc RegionCount
		if err := rows.Scan(&rc.Region, &rc.Count); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// RegionNames lists the distinct stored region names.
func (s *PersistentStore) RegionNames(ctx context.Context) ([]string, error) {
	return s.names(ctx, "SELECT DISTINCT name FROM regions ORDER BY name")
}

// CategoryNames lists the distinct stored listing categories.
func (s *PersistentStore) CategoryNames(ctx context.Context) ([]string, error) {
	return s.names(ctx, "SELECT DISTINCT category FROM listings ORDER BY category")
}

func (s *PersistentStore) names(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// RandomSample draws up to n listing rows joined with their region's
// demographic data, for the curated scatter on the overview page.
func (s *PersistentStore) RandomSample(ctx context.Context, n int) ([]SamplePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.black_pct, l.rating, l.review_count
		FROM regions r INNER JOIN listings l ON r.name = l.region
		ORDER BY RANDOM() LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SamplePoint
	for rows.Next() {
		var sp SamplePoint
		if err := rows.Scan(&sp.BlackPct, &sp.Rating, &sp.ReviewCount); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}
