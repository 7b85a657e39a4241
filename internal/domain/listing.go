package domain

// Listing is a single business record returned by the search service.
// Name acts as the natural key for upserts: a later insert with the same
// name fully replaces the earlier row.
type Listing struct {
	Name        string
	City        string
	Region      string // canonical region name, resolved from the source's region code
	Rating      float64
	Price       *int // 1-3 price tier, nil when the source omits it
	Category    string
	ReviewCount int
}

// Strategy is the sort order requested from the listing search service.
// Two strategies are crawled per region to widen the candidate set.
type Strategy string

const (
	SortBestMatch   Strategy = "best_match"
	SortReviewCount Strategy = "review_count"
)
