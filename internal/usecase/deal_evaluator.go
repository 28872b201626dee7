package usecase

import (
	"math"

	"github.com/dealscout/backend/internal/domain"
)

// DealMargin is the relative price band that separates a so-so price from
// no deal at all: a scanned price within 5% of the cheapest offer is
// borderline rather than bad.
const DealMargin = 0.05

// Recommendation caps per verdict.
const (
	dealRecommendations   = 2
	noDealRecommendations = 3
)

// EvaluateDeal classifies the scanned item's price against offers, which
// must already be sorted ascending by price, and returns the item annotated
// with a verdict and a bounded recommendation subset. It is a pure
// function: no history, no hysteresis, and re-evaluating the same inputs
// yields the same result.
func EvaluateDeal(item domain.Product, offers []domain.Recommendation) domain.Product {
	if len(offers) == 0 {
		// Nothing to compare against. Default to DEAL, but keep a
		// verdict the item already carries.
		if item.Verdict == "" {
			item.Verdict = domain.VerdictDeal
		}
		return item
	}

	cheapest := offers[0].Price

	switch {
	case item.Price <= cheapest:
		item.Verdict = domain.VerdictDeal
		item.Recommendations = firstOffers(offers, dealRecommendations)

	case item.Price <= cheapest*(1+DealMargin):
		item.Verdict = domain.VerdictSoSo
		item.Recommendations = offersWithinMargin(item.Price, offers)

	default:
		item.Verdict = domain.VerdictNoDeal
		item.Recommendations = firstOffers(offers, noDealRecommendations)
	}

	return item
}

// firstOffers copies the first n offers (fewer if fewer exist).
func firstOffers(offers []domain.Recommendation, n int) []domain.Recommendation {
	if len(offers) < n {
		n = len(offers)
	}
	recs := make([]domain.Recommendation, n)
	copy(recs, offers[:n])
	return recs
}

// offersWithinMargin keeps every offer whose relative difference from the
// scanned price is at most DealMargin. These are comparable alternatives,
// not necessarily the cheapest ones; offers above the scanned price can
// qualify.
func offersWithinMargin(scannedPrice float64, offers []domain.Recommendation) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, len(offers))
	for _, offer := range offers {
		if math.Abs(offer.Price-scannedPrice)/scannedPrice <= DealMargin {
			recs = append(recs, offer)
		}
	}
	return recs
}
