// Package api holds the wire representation shared by the gRPC and REST
// transports: JSON-style maps for responses and the error-to-status mapping.
package api

import (
	"time"

	"github.com/handtohand/marketplace/internal/exchange"
	"github.com/handtohand/marketplace/internal/matching"
	"github.com/handtohand/marketplace/internal/server/models"
	"github.com/handtohand/marketplace/internal/server/services"
)

// Object is a JSON object. Values are restricted to what structpb.NewValue
// accepts so the same map can be sent over gRPC.
type Object = map[string]any

// Matches renders the requested categories under the keys the web client
// reads; categories that were not requested are omitted.
func Matches(res *services.MatchResult) Object {
	out := Object{}
	if res.OffersForWishes != nil {
		out["offersForWishes"] = matchList(res.OffersForWishes)
	}
	if res.WishesForOffers != nil {
		out["wishesForOffers"] = matchList(res.WishesForOffers)
	}
	if res.Reciprocal != nil {
		out["reciprocalMatches"] = matchList(res.Reciprocal)
	}
	return Object{"matches": out}
}

func matchList(ms []matching.Match) []any {
	out := make([]any, 0, len(ms))
	for _, m := range ms {
		out = append(out, Object{
			"score":   m.Score,
			"type":    string(m.Type),
			"reasons": stringList(m.Reasons),
			"offer":   listing(m.Offer.Listing),
			"wish":    listing(m.Wish.Listing),
		})
	}
	return out
}

func listing(l matching.Listing) Object {
	return Object{
		"id":          l.ID,
		"title":       l.Title,
		"description": l.Description,
		"category_id": l.CategoryID,
		"user_id":     l.OwnerID,
		"status":      string(l.Status),
		"created_at":  timestamp(l.CreatedAt),
		"user": Object{
			"display_name":     l.OwnerName,
			"postcode_outward": l.OwnerArea,
		},
	}
}

// Exchange renders e under "exchange".
func Exchange(e exchange.Exchange) Object {
	return Object{"exchange": exchangeObject(e)}
}

// NoExchange is the response for a pair without an active exchange.
func NoExchange() Object {
	return Object{"exchange": nil}
}

func exchangeObject(e exchange.Exchange) Object {
	return Object{
		"id":                  e.ID,
		"initiator_id":        e.InitiatorID,
		"responder_id":        e.ResponderID,
		"initiator_offer":     e.InitiatorOffer,
		"responder_offer":     e.ResponderOffer,
		"status":              string(e.Status),
		"initiator_confirmed": e.InitiatorConfirmed,
		"responder_confirmed": e.ResponderConfirmed,
		"agreed_at":           optionalTimestamp(e.AgreedAt),
		"completed_at":        optionalTimestamp(e.CompletedAt),
		"created_at":          timestamp(e.CreatedAt),
	}
}

func Feedback(f *models.Feedback) Object {
	return Object{"feedback": Object{
		"id":                   f.ID,
		"exchange_id":          f.ExchangeID,
		"from_user_id":         f.FromUserID,
		"to_user_id":           f.ToUserID,
		"would_exchange_again": f.WouldExchangeAgain,
		"comment":              f.Comment,
		"created_at":           timestamp(f.CreatedAt),
	}}
}

func Stats(s *models.UserStats) Object {
	return Object{"stats": Object{
		"completed_count":           s.CompletedCount,
		"recommended_count":         s.RecommendedCount,
		"total_feedback":            s.TotalFeedback,
		"recommendation_percentage": s.RecommendationPercentage,
	}}
}

func timestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func optionalTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timestamp(*t)
}

func stringList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
