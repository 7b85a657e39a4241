package controllers

// RecommendationResponse is the JSON shape of a ranked table row set.
type RecommendationResponse struct {
	Region   string              `json:"region,omitempty"`
	Category string              `json:"category"`
	Rows     []RecommendationRow `json:"rows"`
}

type RecommendationRow struct {
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

// NamesResponse carries a selector list (region or category names).
type NamesResponse struct {
	Names []string `json:"names"`
}
