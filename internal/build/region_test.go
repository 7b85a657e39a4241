package build

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sgleason/bizatlas/internal/cache"
	"github.com/sgleason/bizatlas/internal/fetch"
	"github.com/sgleason/bizatlas/internal/infra/config"
	"github.com/sgleason/bizatlas/internal/infra/logger"
)

const censusURL = "https://stats.example.test/profile?get=NAME"

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(filepath.Join(t.TempDir(), "test.log"), logger.LevelError, false)
	require.NoError(t, err)
	return l
}

// cannedFetcher returns a fetch client whose cache is pre-populated, so no
// request ever leaves the process.
func cannedFetcher(t *testing.T, entries map[string]json.RawMessage) *fetch.Client {
	t.Helper()
	log := testLogger(t)
	cs := cache.Load(filepath.Join(t.TempDir(), "cache.json"), log)
	for k, v := range entries {
		require.NoError(t, cs.Put(k, v))
	}
	return fetch.New(config.SearchConfig{BaseURL: searchURL}, cs, log)
}

func cannedRegionBody(t *testing.T, rows [][]any) json.RawMessage {
	t.Helper()
	body, err := json.Marshal(rows)
	require.NoError(t, err)
	// Direct-URL responses are cached as JSON strings of the raw text.
	encoded, err := json.Marshal(string(body))
	require.NoError(t, err)
	return encoded
}

func TestRegionsSkipsHeaderRow(t *testing.T) {
	body := cannedRegionBody(t, [][]any{
		{"NAME", "DP05_0037PE", "DP05_0065PE", "DP02_0067PE", "DP03_0062E", "state"},
		{"Ohio", "81.7", "13.1", "90.6", "56602", "39"},
		{"Michigan", "78.4", "14.1", "91.1", "59584", "26"},
	})

	f := cannedFetcher(t, map[string]json.RawMessage{censusURL: body})

	regions, err := Regions(context.Background(), f, censusURL)
	require.NoError(t, err)
	require.Len(t, regions, 2)

	require.Equal(t, "Ohio", regions[0].Name)
	require.Equal(t, "39", regions[0].Code)
	require.InDelta(t, 81.7, regions[0].WhitePct, 0.001)
	require.InDelta(t, 13.1, regions[0].BlackPct, 0.001)
	require.InDelta(t, 90.6, regions[0].DiplomaPct, 0.001)
	require.Equal(t, int64(56602), regions[0].Income)
}

func TestRegionsCoercesMalformedNumbers(t *testing.T) {
	body := cannedRegionBody(t, [][]any{
		{"NAME", "W", "B", "D", "I", "state"},
		{"Ohio", "not-a-number", nil, "90.6", "56602", "39"},
	})

	f := cannedFetcher(t, map[string]json.RawMessage{censusURL: body})

	regions, err := Regions(context.Background(), f, censusURL)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	require.Zero(t, regions[0].WhitePct)
	require.Zero(t, regions[0].BlackPct)
	require.InDelta(t, 90.6, regions[0].DiplomaPct, 0.001)
}

func TestRegionsSkipsShortRows(t *testing.T) {
	body := cannedRegionBody(t, [][]any{
		{"NAME", "W", "B", "D", "I", "state"},
		{"Ohio", "81.7"},
		{"Michigan", "78.4", "14.1", "91.1", "59584", "26"},
	})

	f := cannedFetcher(t, map[string]json.RawMessage{censusURL: body})

	regions, err := Regions(context.Background(), f, censusURL)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	require.Equal(t, "Michigan", regions[0].Name)
}

func TestRegionsMalformedResponse(t *testing.T) {
	encoded, err := json.Marshal("this is not a nested array")
	require.NoError(t, err)

	f := cannedFetcher(t, map[string]json.RawMessage{censusURL: encoded})

	_, err = Regions(context.Background(), f, censusURL)
	require.Error(t, err)
}
