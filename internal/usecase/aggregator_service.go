package usecase

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dealscout/backend/internal/domain"
)

// AggregatorConfig holds configuration for the aggregator service
type AggregatorConfig struct {
	// DealLookupConcurrency bounds concurrent per-store competitor
	// lookups within a single provider. 1 keeps the lookups strictly
	// sequential; the output order is store order either way.
	DealLookupConcurrency int
}

// AggregatorService turns one scan event into a canonical item plus a
// sorted, deduplicated competitor offer list, using whichever providers are
// configured. Provider precedence is positional: the order providers were
// handed to the constructor decides which candidate becomes canonical when
// several providers answer. It holds no state across calls.
type AggregatorService struct {
	providers             []domain.ProviderClient
	dealLookupConcurrency int
	logger                *zap.Logger
}

// NewAggregatorService creates a new aggregator over the given providers.
// The slice order is the canonical-selection precedence.
func NewAggregatorService(providers []domain.ProviderClient, config AggregatorConfig, logger *zap.Logger) *AggregatorService {
	concurrency := config.DealLookupConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &AggregatorService{
		providers:             providers,
		dealLookupConcurrency: concurrency,
		logger:                logger,
	}
}

// providerState is what one provider contributed to a single resolution.
type providerState struct {
	cred      domain.Credential
	ok        bool
	stores    []domain.StoreLocation
	candidate domain.Product
	found     bool
}

// Resolve maps a scanned code to a canonical item and the competing offers
// for it. The returned offers are sorted ascending by price, exclude the
// canonical item's own store, and ties keep provider-then-store order.
// When no configured provider carries the code the result is (nil, empty),
// which callers render as "product not found", not as a fault.
func (s *AggregatorService) Resolve(ctx context.Context, code string, coord domain.Coordinate, radiusMiles float64) domain.ResolveResult {
	states := make([]providerState, len(s.providers))

	// Authenticate, locate, and look up per provider concurrently. A
	// provider with no credential or no nearby store contributes nothing.
	g, gctx := errgroup.WithContext(ctx)
	for i, provider := range s.providers {
		i, provider := i, provider
		g.Go(func() error {
			states[i] = s.resolveOne(gctx, provider, code, coord, radiusMiles)
			return nil
		})
	}
	g.Wait()

	// Canonical selection: first non-absent candidate in configuration
	// order. A tie-break policy, not a quality judgement.
	canonicalIdx := -1
	for i := range states {
		if states[i].found {
			canonicalIdx = i
			break
		}
	}
	if canonicalIdx == -1 {
		return domain.ResolveResult{Item: nil, Deals: []domain.Recommendation{}}
	}
	item := states[canonicalIdx].candidate

	// Every other provider with a credential and located stores supplies
	// its full deal list for the same code. Providers run concurrently
	// with each other; the per-store lookups inside one provider are
	// bounded by dealLookupConcurrency.
	offersByProvider := make([][]domain.Recommendation, len(s.providers))
	g, gctx = errgroup.WithContext(ctx)
	for i, provider := range s.providers {
		if i == canonicalIdx || !states[i].ok || len(states[i].stores) == 0 {
			continue
		}
		i, provider := i, provider
		state := states[i]
		g.Go(func() error {
			offersByProvider[i] = s.fetchDeals(gctx, provider, code, state)
			return nil
		})
	}
	g.Wait()

	// Merge in provider order, drop the canonical item's own store, sort
	// ascending by price. The stable sort keeps append order on ties.
	deals := make([]domain.Recommendation, 0)
	for _, offers := range offersByProvider {
		for _, offer := range offers {
			if item.Store != "" && strings.EqualFold(offer.Store, item.Store) {
				continue
			}
			deals = append(deals, offer)
		}
	}
	sort.SliceStable(deals, func(a, b int) bool {
		return deals[a].Price < deals[b].Price
	})

	annotated := EvaluateDeal(item, deals)
	return domain.ResolveResult{Item: &annotated, Deals: deals}
}

// resolveOne runs one provider's authenticate → locate → lookup pipeline.
func (s *AggregatorService) resolveOne(ctx context.Context, provider domain.ProviderClient, code string, coord domain.Coordinate, radiusMiles float64) providerState {
	var state providerState

	state.cred, state.ok = provider.Authenticate(ctx)
	if !state.ok {
		return state
	}

	state.stores = provider.LocateStores(ctx, coord, radiusMiles, state.cred)
	if len(state.stores) == 0 {
		s.logger.Debug("no stores located",
			zap.String("provider", provider.Name()))
		return state
	}

	// The first located store is the provider's implicit nearest/default.
	state.candidate, state.found = provider.LookupByCode(ctx, code, state.stores[0], state.cred)
	return state
}

// fetchDeals looks the code up at every located store of one provider and
// projects the hits into Recommendations. Lookups run under the configured
// concurrency bound; results keep store order regardless of the bound.
func (s *AggregatorService) fetchDeals(ctx context.Context, provider domain.ProviderClient, code string, state providerState) []domain.Recommendation {
	found := make([]*domain.Product, len(state.stores))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.dealLookupConcurrency)
	for i, store := range state.stores {
		i, store := i, store
		g.Go(func() error {
			if product, ok := provider.LookupByCode(gctx, code, store, state.cred); ok {
				found[i] = &product
			}
			return nil
		})
	}
	g.Wait()

	offers := make([]domain.Recommendation, 0, len(found))
	for _, product := range found {
		if product == nil {
			continue
		}
		offers = append(offers, domain.Recommendation{
			Code:  product.Code,
			Name:  product.Name,
			Price: product.Price,
			Store: product.Store,
		})
	}
	return offers
}

// Search fans a free-text search out to every authenticated provider and
// concatenates the result lists in provider-configuration order. No dedup,
// no cap beyond each provider's own search bound.
func (s *AggregatorService) Search(ctx context.Context, term string, coord domain.Coordinate, radiusMiles float64) []domain.Product {
	resultsByProvider := make([][]domain.Product, len(s.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, provider := range s.providers {
		i, provider := i, provider
		g.Go(func() error {
			cred, ok := provider.Authenticate(gctx)
			if !ok {
				return nil
			}
			resultsByProvider[i] = provider.SearchByTerm(gctx, term, coord, radiusMiles, cred)
			return nil
		})
	}
	g.Wait()

	results := make([]domain.Product, 0)
	for _, products := range resultsByProvider {
		results = append(results, products...)
	}
	return results
}
