package exchanges

import (
	"context"

	"github.com/handtohand/marketplace/internal/exchange"
)

type Repository interface {
	Create(ctx context.Context, e exchange.Exchange) (exchange.Exchange, error)
	GetByID(ctx context.Context, id string) (exchange.Exchange, error)
	FindActiveBetween(ctx context.Context, userA, userB string) (exchange.Exchange, error)
	Update(ctx context.Context, id string, version int64, u exchange.Updates) error
	CountCompleted(ctx context.Context, userID string) (int, error)
}
