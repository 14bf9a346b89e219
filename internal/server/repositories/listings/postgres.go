// Package listings reads offers and wishes for the matching engine.
package listings

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

const selectListings = `
	SELECT l.id, l.user_id, l.title, l.description, l.category_id, l.status, l.created_at,
	       u.display_name, u.postcode_outward
	FROM %s l
	JOIN users u ON u.id = l.user_id
	WHERE l.status = 'ACTIVE' AND l.user_id %s $1
	ORDER BY l.created_at, l.id
`

func (r *PostgresRepository) ListByOwner(ctx context.Context, kind Kind, userID string) ([]models.Listing, error) {
	return r.list(ctx, kind, "=", userID)
}

func (r *PostgresRepository) ListExcludingOwner(ctx context.Context, kind Kind, userID string) ([]models.Listing, error) {
	return r.list(ctx, kind, "<>", userID)
}

func (r *PostgresRepository) list(ctx context.Context, kind Kind, op, userID string) ([]models.Listing, error) {
	if kind != KindOffer && kind != KindWish {
		return nil, fmt.Errorf("unknown listing kind %q", kind)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(selectListings, kind, op), userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Listing, 0)
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.Title, &l.Description, &l.CategoryID, &l.Status, &l.CreatedAt,
			&l.OwnerName, &l.OwnerArea,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
