package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignatureNoParams(t *testing.T) {
	require.Equal(t, "https://example.test/search", Signature("https://example.test/search", nil))
	require.Equal(t, "base", Signature("base", map[string]string{}))
}

func TestSignatureDeterministic(t *testing.T) {
	base := "https://example.test/search"
	params := map[string]string{
		"location": "Ohio",
		"term":     "black-owned",
		"sort_by":  "best_match",
		"limit":    "50",
	}

	want := Signature(base, params)

	// Map iteration order is randomized per run; repeated calls must still
	// collide to the same key.
	for i := 0; i < 100; i++ {
		rebuilt := map[string]string{
			"limit":    "50",
			"sort_by":  "best_match",
			"term":     "black-owned",
			"location": "Ohio",
		}
		require.Equal(t, want, Signature(base, rebuilt))
	}
}

func TestSignatureSortsParams(t *testing.T) {
	got := Signature("base", map[string]string{"b": "2", "a": "1", "c": "3"})
	require.Equal(t, "base_a_1_b_2_c_3", got)
}

func TestSignatureDistinguishesValues(t *testing.T) {
	tests := []struct {
		name string
		p1   map[string]string
		p2   map[string]string
	}{
		{
			name: "different value",
			p1:   map[string]string{"location": "Ohio", "sort_by": "best_match"},
			p2:   map[string]string{"location": "Iowa", "sort_by": "best_match"},
		},
		{
			name: "different strategy",
			p1:   map[string]string{"location": "Ohio", "sort_by": "best_match"},
			p2:   map[string]string{"location": "Ohio", "sort_by": "review_count"},
		},
		{
			name: "extra param",
			p1:   map[string]string{"location": "Ohio"},
			p2:   map[string]string{"location": "Ohio", "limit": "50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEqual(t, Signature("base", tt.p1), Signature("base", tt.p2))
		})
	}
}
