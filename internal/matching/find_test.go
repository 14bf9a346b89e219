package matching

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct{ offer, wish string }

func pairsOf(ms []Match) []pair {
	out := make([]pair, 0, len(ms))
	for _, m := range ms {
		out = append(out, pair{m.Offer.ID, m.Wish.ID})
	}
	return out
}

func TestFindOffersForWishes_ExcludesOwnOffers(t *testing.T) {
	wishes := []Wish{newWish("w1", "me", "bikes", "Mountain bike", "")}
	offers := []Offer{
		newOffer("own", "me", "bikes", "Mountain bike", "", ""),
		newOffer("other", "them", "bikes", "Mountain bike", "", ""),
	}

	got := FindOffersForWishes(wishes, offers, "", DefaultMinScore)
	require.Len(t, got, 1)
	assert.Equal(t, "other", got[0].Offer.ID)
	assert.Equal(t, TypeOfferForWish, got[0].Type)
}

func TestFindOffersForWishes_ThresholdAndOrder(t *testing.T) {
	wishes := []Wish{newWish("w1", "me", "bikes", "Mountain bike", "")}
	offers := []Offer{
		newOffer("low", "a", "books", "Mountain guide", "", ""),    // 20 * 1/3
		newOffer("mid", "b", "bikes", "Road racer", "", ""),        // 40
		newOffer("high", "c", "bikes", "Mountain bike", "", ""),    // 60
		newOffer("near", "d", "bikes", "Folding thing", "", "SW1"), // 40 + 10
	}

	got := FindOffersForWishes(wishes, offers, "SW4", DefaultMinScore)
	assert.Equal(t, []pair{{"high", "w1"}, {"near", "w1"}, {"mid", "w1"}}, pairsOf(got))

	for i, m := range got {
		assert.GreaterOrEqual(t, m.Score, DefaultMinScore)
		if i > 0 {
			assert.Greater(t, got[i-1].Score, m.Score)
		}
	}
}

func TestFindOffersForWishes_TiesKeepEnumerationOrder(t *testing.T) {
	wishes := []Wish{
		newWish("w1", "me", "c", "aaaa", ""),
		newWish("w2", "me", "c", "bbbb", ""),
	}
	offers := []Offer{
		newOffer("o1", "x", "c", "cccc", "", ""),
		newOffer("o2", "y", "c", "dddd", "", ""),
	}

	got := FindOffersForWishes(wishes, offers, "", DefaultMinScore)
	want := []pair{{"o1", "w1"}, {"o2", "w1"}, {"o1", "w2"}, {"o2", "w2"}}
	if diff := cmp.Diff(want, pairsOf(got), cmp.AllowUnexported(pair{})); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestFindOffersForWishes_NoDeduplication(t *testing.T) {
	wishes := []Wish{
		newWish("w1", "me", "c", "", ""),
		newWish("w2", "me", "c", "", ""),
	}
	offers := []Offer{newOffer("o1", "x", "c", "", "", "")}

	got := FindOffersForWishes(wishes, offers, "", DefaultMinScore)
	assert.Equal(t, []pair{{"o1", "w1"}, {"o1", "w2"}}, pairsOf(got))
}

func TestFindOffersForWishes_CustomThreshold(t *testing.T) {
	wishes := []Wish{newWish("w1", "me", "c", "", "")}
	offers := []Offer{newOffer("o1", "x", "c", "", "", "")}

	assert.Len(t, FindOffersForWishes(wishes, offers, "", 40), 1)
	assert.Empty(t, FindOffersForWishes(wishes, offers, "", 40.01))
}

func TestFindOffersForWishes_EmptyInputs(t *testing.T) {
	got := FindOffersForWishes(nil, nil, "", DefaultMinScore)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindWishesForOffers(t *testing.T) {
	offers := []Offer{
		newOffer("o1", "me", "garden", "Hedge trimmer", "", ""),
		newOffer("o2", "me", "kitchen", "Stand mixer", "", ""),
	}
	wishes := []Wish{
		newWish("mine", "me", "garden", "Hedge trimmer", ""),
		newWish("w1", "x", "kitchen", "Stand mixer", ""),
		newWish("w2", "y", "garden", "Anything", ""),
	}

	got := FindWishesForOffers(offers, wishes, "", DefaultMinScore)
	assert.Equal(t, []pair{{"o2", "w1"}, {"o1", "w2"}}, pairsOf(got))
	for _, m := range got {
		assert.Equal(t, TypeWishForOffer, m.Type)
		assert.NotEqual(t, m.Offer.OwnerID, m.Wish.OwnerID)
	}
}

func TestFind_DoesNotMutateInputs(t *testing.T) {
	wishes := []Wish{newWish("w1", "me", "c", "Garden hose", "")}
	offers := []Offer{
		newOffer("o1", "x", "c", "Garden hose", "", "SW1"),
		newOffer("o2", "y", "c", "Garden chair", "", ""),
	}
	wishesCopy := append([]Wish(nil), wishes...)
	offersCopy := append([]Offer(nil), offers...)

	_ = FindOffersForWishes(wishes, offers, "SW1", DefaultMinScore)
	_ = FindWishesForOffers(offers, wishes, "SW1", DefaultMinScore)

	assert.Equal(t, wishesCopy, wishes)
	assert.Equal(t, offersCopy, offers)
}

// requester is Y: Y wants B, X offers A; X wants D, Y offers C.
func reciprocalFixture() ReciprocalInput {
	return ReciprocalInput{
		MyWishes: []Wish{newWish("B", "Y", "bikes", "Vintage bicycle", "")},
		MyOffers: []Offer{newOffer("C", "Y", "garden", "Kitchen knives", "", "")},
		CandidateOffers: []Offer{
			newOffer("A", "X", "bikes", "Vintage bicycle", "", ""),
		},
		CandidateWishes: []Wish{
			newWish("D", "X", "garden", "Garden tools", ""),
			newWish("Z", "Z", "garden", "Garden tools", ""),
		},
	}
}

func TestFindReciprocalMatches_AveragesScores(t *testing.T) {
	in := reciprocalFixture()

	got := FindReciprocalMatches(in.MyOffers, in.MyWishes, in.CandidateOffers, in.CandidateWishes, "", DefaultReciprocalMinScore)
	require.Len(t, got, 1)

	m := got[0]
	assert.Equal(t, 50.0, m.Score)
	assert.Equal(t, TypeReciprocal, m.Type)
	assert.Equal(t, "A", m.Offer.ID, "offer comes from the primary match")
	assert.Equal(t, "B", m.Wish.ID, "wish comes from the primary match")
	assert.Equal(t, []string{ReasonSameCategory, ReasonSimilarTitle, ReasonSameCategory, ReasonMutualInterest}, m.Reasons)
}

func TestFindReciprocalMatches_RequiresSecondSignal(t *testing.T) {
	in := reciprocalFixture()
	in.MyOffers = []Offer{newOffer("C", "Y", "music", "Guitar amp", "", "")}

	got := FindReciprocalMatches(in.MyOffers, in.MyWishes, in.CandidateOffers, in.CandidateWishes, "", DefaultReciprocalMinScore)
	assert.Empty(t, got)
}

func TestFindReciprocalMatches_SortedDescending(t *testing.T) {
	in := reciprocalFixture()
	in.MyOffers = append(in.MyOffers, newOffer("C2", "Y", "garden", "Garden tools", "", ""))

	got := FindReciprocalMatches(in.MyOffers, in.MyWishes, in.CandidateOffers, in.CandidateWishes, "", DefaultReciprocalMinScore)
	require.Len(t, got, 2)
	assert.Equal(t, 60.0, got[0].Score) // (60 + 60) / 2
	assert.Equal(t, 50.0, got[1].Score)
}

func TestNestedLoop_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NestedLoop{}.FindReciprocal(ctx, reciprocalFixture(), DefaultReciprocalMinScore)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNestedLoop_MatchesPureFunction(t *testing.T) {
	in := reciprocalFixture()

	var finder ReciprocalFinder = NestedLoop{}
	got, err := finder.FindReciprocal(context.Background(), in, DefaultReciprocalMinScore)
	require.NoError(t, err)

	want := FindReciprocalMatches(in.MyOffers, in.MyWishes, in.CandidateOffers, in.CandidateWishes, "", DefaultReciprocalMinScore)
	assert.Equal(t, want, got)
}
