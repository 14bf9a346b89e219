// Package exchanges persists exchange records.
package exchanges

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/handtohand/marketplace/internal/common"
	"github.com/handtohand/marketplace/internal/dbx"
	"github.com/handtohand/marketplace/internal/exchange"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// PostgresRepository implements exchange storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const exchangeColumns = `id, initiator_id, responder_id, initiator_offer, responder_offer, status,
	initiator_confirmed, responder_confirmed, agreed_at, completed_at, created_at, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExchange(row rowScanner) (exchange.Exchange, error) {
	var (
		e           exchange.Exchange
		status      string
		agreedAt    sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(
		&e.ID, &e.InitiatorID, &e.ResponderID, &e.InitiatorOffer, &e.ResponderOffer, &status,
		&e.InitiatorConfirmed, &e.ResponderConfirmed, &agreedAt, &completedAt, &e.CreatedAt, &e.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return exchange.Exchange{}, common.ErrorNotFound
		}
		return exchange.Exchange{}, fmt.Errorf("db error: %w", err)
	}

	if e.Status, err = exchange.ParseStatus(status); err != nil {
		return exchange.Exchange{}, fmt.Errorf("exchange %s: %w", e.ID, err)
	}
	if agreedAt.Valid {
		e.AgreedAt = &agreedAt.Time
	}
	if completedAt.Valid {
		e.CompletedAt = &completedAt.Time
	}
	return e, nil
}

// Create inserts e and returns the stored row, including its initial version.
// A second active exchange for the same pair yields
// common.ErrActiveExchangeExists; an unknown participant yields
// common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, e exchange.Exchange) (exchange.Exchange, error) {
	query := `
		INSERT INTO exchanges (id, initiator_id, responder_id, initiator_offer, responder_offer, status,
			initiator_confirmed, responder_confirmed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + exchangeColumns

	row := r.db.QueryRowContext(ctx, query,
		e.ID, e.InitiatorID, e.ResponderID, e.InitiatorOffer, e.ResponderOffer, string(e.Status),
		e.InitiatorConfirmed, e.ResponderConfirmed, e.CreatedAt)

	created, err := scanExchange(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return exchange.Exchange{}, common.ErrActiveExchangeExists
			case foreignKeyViolation:
				return exchange.Exchange{}, common.ErrorNotFound
			}
		}
		return exchange.Exchange{}, err
	}
	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (exchange.Exchange, error) {
	query := `SELECT ` + exchangeColumns + ` FROM exchanges WHERE id = $1`
	return scanExchange(r.db.QueryRowContext(ctx, query, id))
}

// FindActiveBetween returns the latest PROPOSED or AGREED exchange between
// the two users, in either direction.
func (r *PostgresRepository) FindActiveBetween(ctx context.Context, userA, userB string) (exchange.Exchange, error) {
	query := `SELECT ` + exchangeColumns + ` FROM exchanges
		WHERE ((initiator_id = $1 AND responder_id = $2) OR (initiator_id = $2 AND responder_id = $1))
		  AND status IN ('PROPOSED', 'AGREED')
		ORDER BY created_at DESC
		LIMIT 1`
	return scanExchange(r.db.QueryRowContext(ctx, query, userA, userB))
}

// Update applies u to the exchange only if its version still equals
// version. A stale version yields common.ErrVersionConflict and leaves the
// row untouched.
func (r *PostgresRepository) Update(ctx context.Context, id string, version int64, u exchange.Updates) error {
	query := `
		UPDATE exchanges SET
			status = COALESCE($3, status),
			initiator_confirmed = COALESCE($4, initiator_confirmed),
			responder_confirmed = COALESCE($5, responder_confirmed),
			agreed_at = COALESCE($6, agreed_at),
			completed_at = COALESCE($7, completed_at),
			version = version + 1
		WHERE id = $1 AND version = $2
	`
	var status any
	if u.Status != nil {
		status = string(*u.Status)
	}

	res, err := r.db.ExecContext(ctx, query, id, version,
		status, nullable(u.InitiatorConfirmed), nullable(u.ResponderConfirmed), nullable(u.AgreedAt), nullable(u.CompletedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrVersionConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// CountCompleted counts COMPLETED exchanges userID took part in.
func (r *PostgresRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM exchanges
		WHERE (initiator_id = $1 OR responder_id = $1) AND status = 'COMPLETED'`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
