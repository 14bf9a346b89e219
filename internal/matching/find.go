package matching

import "sort"

// FindOffersForWishes scores every (wish, offer) pair with different owners
// and returns the pairs scoring at least minScore, best first. Wishes form the
// outer loop and offers the inner one; equal scores keep that order.
func FindOffersForWishes(wishes []Wish, offers []Offer, requesterArea string, minScore float64) []Match {
	matches := make([]Match, 0)

	for _, wish := range wishes {
		for _, offer := range offers {
			if offer.OwnerID == wish.OwnerID {
				continue
			}
			if m, ok := scorePair(offer, wish, requesterArea, minScore, TypeOfferForWish); ok {
				matches = append(matches, m)
			}
		}
	}

	sortByScore(matches)
	return matches
}

// FindWishesForOffers mirrors FindOffersForWishes with offers as the outer loop.
func FindWishesForOffers(offers []Offer, wishes []Wish, requesterArea string, minScore float64) []Match {
	matches := make([]Match, 0)

	for _, offer := range offers {
		for _, wish := range wishes {
			if wish.OwnerID == offer.OwnerID {
				continue
			}
			if m, ok := scorePair(offer, wish, requesterArea, minScore, TypeWishForOffer); ok {
				matches = append(matches, m)
			}
		}
	}

	sortByScore(matches)
	return matches
}

func scorePair(offer Offer, wish Wish, requesterArea string, minScore float64, t MatchType) (Match, bool) {
	s := ScoreMatch(offer, wish, requesterArea)
	if s.Value < minScore {
		return Match{}, false
	}
	return Match{
		Score:   s.Value,
		Offer:   offer,
		Wish:    wish,
		Type:    t,
		Reasons: s.Reasons,
	}, true
}

// sortByScore orders matches by descending score, keeping discovery order on ties.
func sortByScore(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}
