package feedback

import (
	"context"

	"github.com/handtohand/marketplace/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error)
	// Totals returns how many reviews userID received and how many of them
	// said they would exchange again.
	Totals(ctx context.Context, userID string) (total, positive int, err error)
}
