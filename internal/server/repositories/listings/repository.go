package listings

import (
	"context"

	"github.com/handtohand/marketplace/internal/server/models"
)

// Kind selects the listing table.
type Kind string

const (
	KindOffer Kind = "offers"
	KindWish  Kind = "wishes"
)

// Repository reads ACTIVE listings together with their owner's name and
// postcode area.
type Repository interface {
	ListByOwner(ctx context.Context, kind Kind, userID string) ([]models.Listing, error)
	ListExcludingOwner(ctx context.Context, kind Kind, userID string) ([]models.Listing, error)
}
