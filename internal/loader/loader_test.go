package loader

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sgleason/bizatlas/internal/cache"
	"github.com/sgleason/bizatlas/internal/domain"
	"github.com/sgleason/bizatlas/internal/fetch"
	"github.com/sgleason/bizatlas/internal/infra/config"
	"github.com/sgleason/bizatlas/internal/infra/logger"
	"github.com/sgleason/bizatlas/internal/store"
)

// The canned hosts do not exist; any cache miss during the run would try the
// network and fail the test, so success proves an all-hit crawl.
const (
	censusURL = "https://stats.example.test/profile"
	searchURL = "https://search.example.test/v3/businesses/search"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Census: config.CensusConfig{URL: censusURL},
		Search: config.SearchConfig{
			BaseURL: searchURL,
			Term:    "black-owned",
			Limit:   50,
		},
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(filepath.Join(t.TempDir(), "test.log"), logger.LevelError, false)
	require.NoError(t, err)
	return l
}

func searchKey(region string, strategy domain.Strategy) string {
	return cache.Signature(searchURL, map[string]string{
		"location": region,
		"term":     "black-owned",
		"sort_by":  string(strategy),
		"limit":    strconv.Itoa(50),
	})
}

func listingBody(t *testing.T, state string, names ...string) json.RawMessage {
	t.Helper()
	items := make([]map[string]any, len(names))
	for i, name := range names {
		items[i] = map[string]any{
			"name":         name,
			"rating":       3.5 + float64(i)*0.5,
			"review_count": 10 * (i + 1),
			"categories":   []map[string]string{{"title": "Soul Food"}},
			"location":     map[string]string{"city": "Testville", "state": state},
		}
	}
	body, err := json.Marshal(map[string]any{"businesses": items})
	require.NoError(t, err)
	return body
}

func TestRunWithFullyCannedCache(t *testing.T) {
	log := testLogger(t)

	censusRows := `[
		["NAME","DP05_0037PE","DP05_0065PE","DP02_0067PE","DP03_0062E","state"],
		["Ohio","81.7","13.1","90.6","56602","39"],
		["Michigan","78.4","14.1","91.1","59584","26"]
	]`
	censusEntry, err := json.Marshal(censusRows)
	require.NoError(t, err)

	responses := cache.Load(filepath.Join(t.TempDir(), "cache.json"), log)
	require.NoError(t, responses.Put(censusURL, censusEntry))
	require.NoError(t, responses.Put(searchKey("Ohio", domain.SortBestMatch), listingBody(t, "OH", "A", "B", "C")))
	require.NoError(t, responses.Put(searchKey("Ohio", domain.SortReviewCount), listingBody(t, "OH", "B", "C", "D")))
	require.NoError(t, responses.Put(searchKey("Michigan", domain.SortBestMatch), listingBody(t, "MI", "E", "F", "G")))
	require.NoError(t, responses.Put(searchKey("Michigan", domain.SortReviewCount), listingBody(t, "MI", "E", "F", "H")))

	cfg := testConfig(t)
	fetcher := fetch.New(cfg.Search, responses, log)

	db, err := store.NewPersistentStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	l := New(cfg, log, fetcher, db)
	require.NoError(t, l.Run(context.Background()))

	ctx := context.Background()

	regionCount, err := db.CountRegions(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, regionCount)

	// 12 raw candidates collapse to the 8 unique names after
	// last-write-wins dedup.
	listingCount, err := db.CountListings(ctx)
	require.NoError(t, err)
	require.Equal(t, 8, listingCount)

	// "B" appears in both passes for Ohio; the review_count pass ran
	// second, so its values win.
	b, err := db.GetListing(ctx, "B")
	require.NoError(t, err)
	require.NotNil(t, b)
	require.InDelta(t, 3.5, b.Rating, 0.001)
	require.Equal(t, "Ohio", b.Region)

	// The cache gained nothing: every request was a hit.
	require.Equal(t, 5, responses.Len())
}

func TestRunIsRepeatable(t *testing.T) {
	log := testLogger(t)

	censusRows := `[
		["NAME","W","B","D","I","state"],
		["Ohio","81.7","13.1","90.6","56602","39"]
	]`
	censusEntry, err := json.Marshal(censusRows)
	require.NoError(t, err)

	responses := cache.Load(filepath.Join(t.TempDir(), "cache.json"), log)
	require.NoError(t, responses.Put(censusURL, censusEntry))
	require.NoError(t, responses.Put(searchKey("Ohio", domain.SortBestMatch), listingBody(t, "OH", "A")))
	require.NoError(t, responses.Put(searchKey("Ohio", domain.SortReviewCount), listingBody(t, "OH", "A")))

	cfg := testConfig(t)
	fetcher := fetch.New(cfg.Search, responses, log)

	db, err := store.NewPersistentStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	l := New(cfg, log, fetcher, db)
	require.NoError(t, l.Run(context.Background()))
	require.NoError(t, l.Run(context.Background()))

	ctx := context.Background()
	n, err := db.CountRegions(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	m, err := db.CountListings(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, m)
}

func TestRunAbortsOnMissingCensusData(t *testing.T) {
	log := testLogger(t)
	responses := cache.Load(filepath.Join(t.TempDir(), "cache.json"), log)

	cfg := testConfig(t)
	fetcher := fetch.New(cfg.Search, responses, log)

	db, err := store.NewPersistentStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	// Empty cache and an unreachable host: the first stage fails and the
	// database stays empty.
	err = New(cfg, log, fetcher, db).Run(context.Background())
	require.Error(t, err)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)

	n, countErr := db.CountRegions(context.Background())
	require.NoError(t, countErr)
	require.Zero(t, n)
}
