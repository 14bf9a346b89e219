// Package matching ranks offers against wishes.
//
// The engine is a set of pure functions over already-fetched listings:
//
//   - ScoreMatch scores one (offer, wish) pair from four signals: category,
//     title keywords, description keywords and postcode-area proximity.
//   - FindOffersForWishes and FindWishesForOffers score every cross-owner pair,
//     keep the ones reaching a threshold and sort them best-first.
//   - FindReciprocalMatches additionally requires the other party to want
//     something the requester offers and averages the two scores.
//
// Ties keep the nested-loop enumeration order (stable sort). Nothing in this
// package performs I/O or mutates its inputs.
package matching
