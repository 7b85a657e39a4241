package build

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sgleason/bizatlas/internal/domain"
	"github.com/sgleason/bizatlas/internal/fetch"
	"github.com/sgleason/bizatlas/internal/geo"
)

type searchResponse struct {
	Businesses []rawBusiness `json:"businesses"`
}

type rawBusiness struct {
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	Price       string  `json:"price"`
	ReviewCount int     `json:"review_count"`
	Categories  []struct {
		Title string `json:"title"`
	} `json:"categories"`
	Location struct {
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"location"`
}

// Listings runs one search per region under the given ranking strategy and
// maps every returned record to a Listing. A response without a businesses
// key is a valid empty result. Missing or malformed optional sub-fields
// (price, categories) fall back to documented defaults and never abort the
// batch.
func Listings(ctx context.Context, f *fetch.Client, regions []domain.Region, strategy domain.Strategy, term string, limit int) ([]domain.Listing, error) {
	var listings []domain.Listing

	for _, region := range regions {
		params := map[string]string{
			"location": region.Name,
			"term":     term,
			"sort_by":  string(strategy),
			"limit":    strconv.Itoa(limit),
		}

		raw, err := f.FetchSearch(ctx, params)
		if err != nil {
			return nil, err
		}

		var resp searchResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("build: decode search response for %s: %w", region.Name, err)
		}

		for _, b := range resp.Businesses {
			listings = append(listings, fromRaw(b))
		}
	}

	return listings, nil
}

func fromRaw(b rawBusiness) domain.Listing {
	l := domain.Listing{
		Name:        b.Name,
		City:        b.Location.City,
		Region:      geo.StateName(b.Location.State),
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
	}

	// Price tier is the length of the source's currency-symbol string
	// ("$$" -> 2); absent or blank means no tier.
	if trimmed := strings.TrimSpace(b.Price); trimmed != "" {
		tier := len(trimmed)
		l.Price = &tier
	}

	if len(b.Categories) > 0 {
		l.Category = b.Categories[0].Title
	}

	return l
}
