package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sgleason/bizatlas/internal/domain"
)

// UpsertListings bulk-inserts listings with last-write-wins semantics: a
// later row with an existing name fully replaces the earlier one. Two
// distinct businesses sharing a name in different regions therefore collide;
// preserved source behavior.
func (s *PersistentStore) UpsertListings(ctx context.Context, listings []domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var dbo listingDBO

	for i := range listings {
		dbo.FromDomain(&listings[i])

		_, err := tx.ExecContext(ctx, `
			INSERT INTO listings (name, city, region, rating, price, category, review_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				city = excluded.city,
				region = excluded.region,
				rating = excluded.rating,
				price = excluded.price,
				category = excluded.category,
				review_count = excluded.review_count`,
			dbo.Name, dbo.City, dbo.Region, dbo.Rating, dbo.Price, dbo.Category, dbo.ReviewCount,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert listing %s: %w", dbo.Name, err)
		}
	}

	return tx.Commit()
}

// GetListing fetches a single listing by name. A missing row returns nil, nil.
func (s *PersistentStore) GetListing(ctx context.Context, name string) (*domain.Listing, error) {
	var dbo listingDBO
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, city, region, rating, price, category, review_count
		FROM listings WHERE name = ? LIMIT 1`, name).Scan(
		&dbo.ID, &dbo.Name, &dbo.City, &dbo.Region, &dbo.Rating, &dbo.Price, &dbo.Category, &dbo.ReviewCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return dbo.ToDomain(), nil
}

// CountListings reports the number of stored listings.
func (s *PersistentStore) CountListings(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings").Scan(&n)
	return n, err
}
