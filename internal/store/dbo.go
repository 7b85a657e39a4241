package store

import (
	"database/sql"

	"github.com/sgleason/bizatlas/internal/domain"
)

// regionDBO maps to the regions table
type regionDBO struct {
	ID         int64   `db:"id"`
	Code       string  `db:"code"`
	Name       string  `db:"name"`
	WhitePct   float64 `db:"white_pct"`
	BlackPct   float64 `db:"black_pct"`
	DiplomaPct float64 `db:"diploma_pct"`
	Income     int64   `db:"income"`
}

func (r *regionDBO) FromDomain(reg *domain.Region) {
	r.Code = reg.Code
	r.Name = reg.Name
	r.WhitePct = reg.WhitePct
	r.BlackPct = reg.BlackPct
	r.DiplomaPct = reg.DiplomaPct
	r.Income = reg.Income
}

func (r *regionDBO) ToDomain() *domain.Region {
	return &domain.Region{
		Code:       r.Code,
		Name:       r.Name,
		WhitePct:   r.WhitePct,
		BlackPct:   r.BlackPct,
		DiplomaPct: r.DiplomaPct,
		Income:     r.Income,
	}
}

// listingDBO maps to the listings table
type listingDBO struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	City        string         `db:"city"`
	Region      string         `db:"region"`
	Rating      float64        `db:"rating"`
	Price       sql.NullInt64  `db:"price"`
	Category    sql.NullString `db:"category"`
	ReviewCount int            `db:"review_count"`
}

func (l *listingDBO) FromDomain(lst *domain.Listing) {
	l.Name = lst.Name
	l.City = lst.City
	l.Region = lst.Region
	l.Rating = lst.Rating

	if lst.Price != nil {
		l.Price = sql.NullInt64{Int64: int64(*lst.Price), Valid: true}
	} else {
		l.Price = sql.NullInt64{}
	}

	// Category defaults to the empty string rather than NULL; the builder
	// already applied that fallback.
	l.Category = sql.NullString{String: lst.Category, Valid: true}
	l.ReviewCount = lst.ReviewCount
}

func (l *listingDBO) ToDomain() *domain.Listing {
	lst := &domain.Listing{
		Name:        l.Name,
		City:        l.City,
		Region:      l.Region,
		Rating:      l.Rating,
		Category:    l.Category.String,
		ReviewCount: l.ReviewCount,
	}
	if l.Price.Valid {
		price := int(l.Price.Int64)
		lst.Price = &price
	}
	return lst
}
