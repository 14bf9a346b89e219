// Package notifications stores in-app notifications.
package notifications

import (
	"context"
	"fmt"

	"github.com/handtohand/marketplace/internal/dbx"
	"github.com/handtohand/marketplace/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	query :=
		`INSERT INTO notifications (user_id, type, title, message, link)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, n.UserID, n.Type, n.Title, n.Message, n.Link).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
