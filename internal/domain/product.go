package domain

// Verdict classifies a scanned price against the cheapest known competing offer.
const (
	VerdictDeal   = "DEAL"
	VerdictSoSo   = "SO-SO"
	VerdictNoDeal = "NO DEAL"
)

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Product is the canonical record for a scanned or searched item, normalized
// from whichever provider answered. Price is always finite and non-negative:
// a provider that carries the item without a usable price yields 0, never an
// absent value, so downstream comparisons cannot fail on missing data.
type Product struct {
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	Brand           string           `json:"brand,omitempty"`
	Price           float64          `json:"price"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	Store           string           `json:"store,omitempty"`
	Location        *Coordinate      `json:"location,omitempty"`
	Organic         bool             `json:"organic,omitempty"`
	Verdict         string           `json:"verdict,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// StoreLocation is a provider-assigned retail location near the caller.
// It lives only for the duration of a single resolution call.
type StoreLocation struct {
	LocationID string     `json:"locationId"`
	Name       string     `json:"name"`
	Location   Coordinate `json:"location"`
	PostalCode string     `json:"postalCode,omitempty"`
}

// Recommendation is a competitor's priced instance of the scanned product,
// projected from a Product when the aggregator folds competitor lookups into
// the offer list.
type Recommendation struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Store         string  `json:"store"`
	DistanceMiles float64 `json:"distanceMiles,omitempty"`
}

// ResolveResult is what a scan resolves to: the canonical item (nil when no
// configured provider carries the code) and the sorted competing offers.
type ResolveResult struct {
	Item  *Product         `json:"item"`
	Deals []Recommendation `json:"deals"`
}
