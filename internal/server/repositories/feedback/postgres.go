// Package feedback stores post-exchange reviews.
package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/handtohand/marketplace/internal/common"
	"github.com/handtohand/marketplace/internal/dbx"
	"github.com/handtohand/marketplace/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts f. A second review of the same exchange by the same user
// yields common.ErrFeedbackExists.
func (r *PostgresRepository) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	query :=
		`INSERT INTO feedback (exchange_id, from_user_id, to_user_id, would_exchange_again, comment)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		f.ExchangeID, f.FromUserID, f.ToUserID, f.WouldExchangeAgain, f.Comment).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrFeedbackExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

func (r *PostgresRepository) Totals(ctx context.Context, userID string) (int, int, error) {
	query :=
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE would_exchange_again)
		 FROM feedback
		 WHERE to_user_id = $1
		 `

	var total, positive int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total, &positive); err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}
	return total, positive, nil
}
