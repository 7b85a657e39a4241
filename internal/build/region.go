// Package build transforms raw service payloads into the normalized Region
// and Listing collections the persistence layer loads.
package build

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sgleason/bizatlas/internal/domain"
	"github.com/sgleason/bizatlas/internal/fetch"
)

// Column positions in the statistics service's nested-array response.
// Row 0 is a header. The mapping is positional and brittle: an upstream
// column reorder corrupts data silently rather than failing.
const (
	colName = iota
	colWhitePct
	colBlackPct
	colDiplomaPct
	colIncome
	colCode
)

// Regions issues one direct-URL request to the demographic service and maps
// every data row to a Region. Numeric fields arrive as strings and are
// coerced leniently; a value that does not parse becomes zero.
func Regions(ctx context.Context, f *fetch.Client, url string) ([]domain.Region, error) {
	body, err := f.FetchURL(ctx, url)
	if err != nil {
		return nil, err
	}

	var rows [][]any
	if err := json.Unmarshal([]byte(body), &rows); err != nil {
		return nil, fmt.Errorf("build: decode region response: %w", err)
	}

	regions := make([]domain.Region, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			// Header row.
			continue
		}
		if len(row) <= colCode {
			continue
		}
		regions = append(regions, domain.Region{
			Code:       asString(row[colCode]),
			Name:       asString(row[colName]),
			WhitePct:   asFloat(row[colWhitePct]),
			BlackPct:   asFloat(row[colBlackPct]),
			DiplomaPct: asFloat(row[colDiplomaPct]),
			Income:     int64(asFloat(row[colIncome])),
		})
	}
	return regions, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
