package users

import (
	"context"

	"github.com/handtohand/marketplace/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}
