package domain

import "context"

// Credential is the bearer material a provider hands back from a single
// authentication exchange. It is acquired fresh on every resolution and
// never cached across calls. Key-based providers that need no exchange
// return a Credential with an empty Token.
type Credential struct {
	Token string
}

// ProviderClient is the uniform capability set every retail data source
// exposes. Implementations translate the four operations into their
// provider's REST calls and response shapes.
//
// Failure semantics: network errors, non-success statuses, and malformed
// payloads are caught inside the adapter and collapse to the empty or
// absent result for that call. Nothing propagates to the caller, so the
// aggregator must never assume a non-empty answer from any provider.
type ProviderClient interface {
	// Name returns the provider identifier used in store labels and logs.
	Name() string

	// Authenticate exchanges configured secret material for a credential.
	// The second return is false when the provider has no secrets
	// configured or the exchange failed; the provider is skipped for the
	// rest of the call.
	Authenticate(ctx context.Context) (Credential, bool)

	// LocateStores lists provider stores near the coordinate within
	// radiusMiles. Ordering is provider-defined; the first store is
	// treated as the nearest/default. Empty on any failure.
	LocateStores(ctx context.Context, coord Coordinate, radiusMiles float64, cred Credential) []StoreLocation

	// LookupByCode resolves a product code at a specific store. The
	// second return is false when the provider does not carry the code
	// or the call failed.
	LookupByCode(ctx context.Context, code string, store StoreLocation, cred Credential) (Product, bool)

	// SearchByTerm runs a free-text catalog search near the coordinate,
	// bounded to 20 results. Empty on any failure.
	SearchByTerm(ctx context.Context, term string, coord Coordinate, radiusMiles float64, cred Credential) []Product
}
