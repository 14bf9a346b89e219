package repomanager

import (
	"context"
	"database/sql"

	"github.com/handtohand/marketplace/internal/dbx"
	"github.com/handtohand/marketplace/internal/server/repositories/exchanges"
	"github.com/handtohand/marketplace/internal/server/repositories/feedback"
	"github.com/handtohand/marketplace/internal/server/repositories/listings"
	"github.com/handtohand/marketplace/internal/server/repositories/notifications"
	"github.com/handtohand/marketplace/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can
// use the same repository types with *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Listings(db dbx.DBTX) listings.Repository
	Exchanges(db dbx.DBTX) exchanges.Repository
	Notifications(db dbx.DBTX) notifications.Repository
	Feedback(db dbx.DBTX) feedback.Repository
}
