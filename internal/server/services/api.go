package services

import (
	"context"

	"github.com/handtohand/marketplace/internal/exchange"
	"github.com/handtohand/marketplace/internal/server/models"
)

// The interfaces below are what the transports depend on.

type MatchFinder interface {
	Find(ctx context.Context, userID string, kind MatchKind) (*MatchResult, error)
}

type ExchangeManager interface {
	Propose(ctx context.Context, initiatorID, responderID, initiatorOffer, responderOffer string) (exchange.Exchange, error)
	Active(ctx context.Context, userID, partnerID string) (exchange.Exchange, error)
	Act(ctx context.Context, exchangeID, actorID string, action exchange.Action) (exchange.Exchange, error)
}

type FeedbackManager interface {
	Submit(ctx context.Context, exchangeID, fromUserID string, wouldExchangeAgain bool, comment string) (*models.Feedback, error)
	Stats(ctx context.Context, userID string) (*models.UserStats, error)
}

var (
	_ MatchFinder     = (*MatchService)(nil)
	_ ExchangeManager = (*ExchangeService)(nil)
	_ FeedbackManager = (*FeedbackService)(nil)
)
