package notifications

import (
	"context"

	"github.com/handtohand/marketplace/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
}
