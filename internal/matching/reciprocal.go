package matching

import "context"

// ReciprocalInput carries everything a reciprocal search needs.
type ReciprocalInput struct {
	MyOffers        []Offer
	MyWishes        []Wish
	CandidateOffers []Offer
	CandidateWishes []Wish
	RequesterArea   string
}

// ReciprocalFinder finds matches where both parties want something the other
// offers. Implementations must produce the same ranking as NestedLoop.
type ReciprocalFinder interface {
	FindReciprocal(ctx context.Context, in ReciprocalInput, minScore float64) ([]Match, error)
}

// NestedLoop is the reference ReciprocalFinder. Its worst case is
// O(wishes × offers × theirWishes × myOffers).
type NestedLoop struct{}

var _ ReciprocalFinder = NestedLoop{}

// FindReciprocal runs the three-stage search:
//  1. offers from others matching the requester's wishes;
//  2. for each, the wishes of that offer's owner;
//  3. every (requester offer, their wish) pair reaching minScore yields a
//     reciprocal match carrying the stage 1 offer and wish, the mean of both
//     scores and both reason lists followed by ReasonMutualInterest.
//
// ctx is checked once per stage 1 match.
func (NestedLoop) FindReciprocal(ctx context.Context, in ReciprocalInput, minScore float64) ([]Match, error) {
	matches := make([]Match, 0)

	primary := FindOffersForWishes(in.MyWishes, in.CandidateOffers, in.RequesterArea, minScore)

	for _, pm := range primary {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		theirID := pm.Offer.OwnerID
		for _, theirWish := range in.CandidateWishes {
			if theirWish.OwnerID != theirID {
				continue
			}
			for _, myOffer := range in.MyOffers {
				s := ScoreMatch(myOffer, theirWish, in.RequesterArea)
				if s.Value < minScore {
					continue
				}

				reasons := make([]string, 0, len(pm.Reasons)+len(s.Reasons)+1)
				reasons = append(reasons, pm.Reasons...)
				reasons = append(reasons, s.Reasons...)
				reasons = append(reasons, ReasonMutualInterest)

				matches = append(matches, Match{
					Score:   (pm.Score + s.Value) / 2,
					Offer:   pm.Offer,
					Wish:    pm.Wish,
					Type:    TypeReciprocal,
					Reasons: reasons,
				})
			}
		}
	}

	sortByScore(matches)
	return matches, nil
}

// FindReciprocalMatches is the non-cancellable form of NestedLoop.FindReciprocal.
func FindReciprocalMatches(myOffers []Offer, myWishes []Wish, candidateOffers []Offer, candidateWishes []Wish,
	requesterArea string, minScore float64) []Match {

	matches, _ := NestedLoop{}.FindReciprocal(context.Background(), ReciprocalInput{
		MyOffers:        myOffers,
		MyWishes:        myWishes,
		CandidateOffers: candidateOffers,
		CandidateWishes: candidateWishes,
		RequesterArea:   requesterArea,
	}, minScore)
	return matches
}
