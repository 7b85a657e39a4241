package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sgleason/bizatlas/internal/domain"
)

// UpsertRegions bulk-inserts regions with first-write-wins semantics: a row
// whose name already exists is silently skipped.
func (s *PersistentStore) UpsertRegions(ctx context.Context, regions []domain.Region) error {
	if len(regions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var dbo regionDBO

	for i := range regions {
		dbo.FromDomain(&regions[i])

		_, err := tx.ExecContext(ctx, `
			INSERT INTO regions (code, name, white_pct, black_pct, diploma_pct, income)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO NOTHING`,
			dbo.Code, dbo.Name, dbo.WhitePct, dbo.BlackPct, dbo.DiplomaPct, dbo.Income,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert region %s: %w", dbo.Name, err)
		}
	}

	return tx.Commit()
}

// GetRegion fetches a single region by name. A missing row returns nil, nil.
func (s *PersistentStore) GetRegion(ctx context.Context, name string) (*domain.Region, error) {
	var dbo regionDBO
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, name, white_pct, black_pct, diploma_pct, income
		FROM regions WHERE name = ? LIMIT 1`, name).Scan(
		&dbo.ID, &dbo.Code, &dbo.Name, &dbo.WhitePct, &dbo.BlackPct, &dbo.DiplomaPct, &dbo.Income,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return dbo.ToDomain(), nil
}

// CountRegions reports the number of stored regions.
func (s *PersistentStore) CountRegions(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM regions").Scan(&n)
	return n, err
}
