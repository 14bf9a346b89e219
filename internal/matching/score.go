package matching

import (
	"strings"
	"unicode/utf8"
)

// Signal weights.
const (
	categoryWeight    = 40.0
	titleWeight       = 20.0
	descriptionWeight = 10.0
	sameAreaWeight    = 20.0
	nearbyAreaWeight  = 10.0

	// a reason is attached only when the contribution is strictly greater
	titleReasonAbove       = 5.0
	descriptionReasonAbove = 3.0

	// tokens of this many characters or fewer are treated as stop words
	stopWordMaxLen = 3
)

// Reason strings, in evaluation order.
const (
	ReasonSameCategory   = "Same category"
	ReasonSimilarTitle   = "Similar keywords in title"
	ReasonSimilarDesc    = "Similar description"
	ReasonSameArea       = "Same area"
	ReasonNearbyArea     = "Nearby area"
	ReasonMutualInterest = "Mutual interest!"
)

// ScoreMatch scores offer against wish. requesterArea is the requesting
// user's postcode area; proximity is only evaluated when both it and the
// offer owner's area are known. There is no recency signal.
func ScoreMatch(offer Offer, wish Wish, requesterArea string) Score {
	var score float64
	reasons := make([]string, 0, 4)

	if offer.CategoryID == wish.CategoryID {
		score += categoryWeight
		reasons = append(reasons, ReasonSameCategory)
	}

	titleScore := keywordSimilarity(offer.Title, wish.Title) * titleWeight
	score += titleScore
	if titleScore > titleReasonAbove {
		reasons = append(reasons, ReasonSimilarTitle)
	}

	descScore := keywordSimilarity(offer.Description, wish.Description) * descriptionWeight
	score += descScore
	if descScore > descriptionReasonAbove {
		reasons = append(reasons, ReasonSimilarDesc)
	}

	if requesterArea != "" && offer.OwnerArea != "" {
		switch {
		case offer.OwnerArea == requesterArea:
			score += sameAreaWeight
			reasons = append(reasons, ReasonSameArea)
		case areaPrefix(offer.OwnerArea) == areaPrefix(requesterArea):
			score += nearbyAreaWeight
			reasons = append(reasons, ReasonNearbyArea)
		}
	}

	return Score{Value: score, Reasons: reasons}
}

// keywordSimilarity returns |A∩B| / |A∪B| over the keyword sets of a and b,
// or 0 when both sets are empty.
func keywordSimilarity(a, b string) float64 {
	wa, wb := keywords(a), keywords(b)

	union := len(wa)
	common := 0
	for w := range wb {
		if _, ok := wa[w]; ok {
			common++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

func keywords(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > stopWordMaxLen {
			set[f] = struct{}{}
		}
	}
	return set
}

// areaPrefix returns the first two characters of a postcode area.
func areaPrefix(area string) string {
	n := 0
	for i := range area {
		if n == 2 {
			return area[:i]
		}
		n++
	}
	return area
}
