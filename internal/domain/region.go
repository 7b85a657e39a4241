package domain

// Region is one first-level administrative division with the demographic
// attributes the reporting layer aggregates over.
type Region struct {
	Code       string  // positional identifier from the statistics service
	Name       string  // globally unique
	WhitePct   float64 // percentage of population designated white
	BlackPct   float64 // percentage designated black, or two or more races including black
	DiplomaPct float64 // percentage over 25 with a high school diploma or higher
	Income     int64   // estimated median household income
}
