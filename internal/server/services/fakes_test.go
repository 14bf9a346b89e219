package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/handtohand/marketplace/internal/common"
	"github.com/handtohand/marketplace/internal/dbx"
	"github.com/handtohand/marketplace/internal/events"
	"github.com/handtohand/marketplace/internal/exchange"
	"github.com/handtohand/marketplace/internal/logging"
	"github.com/handtohand/marketplace/internal/server/models"
	"github.com/handtohand/marketplace/internal/server/repositories/exchanges"
	"github.com/handtohand/marketplace/internal/server/repositories/feedback"
	"github.com/handtohand/marketplace/internal/server/repositories/listings"
	"github.com/handtohand/marketplace/internal/server/repositories/notifications"
	"github.com/handtohand/marketplace/internal/server/repositories/users"
)

const (
	alice = "0b6f1a52-5d6e-4a0a-9f0e-6b1f8d1c0a01"
	bob   = "0b6f1a52-5d6e-4a0a-9f0e-6b1f8d1c0a02"
	carol = "0b6f1a52-5d6e-4a0a-9f0e-6b1f8d1c0a03"
	exID  = "5c7e0b1e-8a0d-4b8e-9d44-0d7a6a1f2e10"
)

var fixedNow = time.Date(2026, 7, 4, 10, 30, 0, 0, time.UTC)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// --- users ---

type fakeUsers struct {
	users map[string]*models.User
	err   error
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

// --- listings ---

type fakeListings struct {
	rows  []models.Listing
	err   error
	calls []string
}

func (f *fakeListings) ListByOwner(_ context.Context, kind listings.Kind, userID string) ([]models.Listing, error) {
	f.calls = append(f.calls, "own "+string(kind))
	return f.filter(kind, func(l models.Listing) bool { return l.UserID == userID })
}

func (f *fakeListings) ListExcludingOwner(_ context.Context, kind listings.Kind, userID string) ([]models.Listing, error) {
	f.calls = append(f.calls, "other "+string(kind))
	return f.filter(kind, func(l models.Listing) bool { return l.UserID != userID })
}

func (f *fakeListings) filter(kind listings.Kind, keep func(models.Listing) bool) ([]models.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Listing{}
	for _, l := range f.rows {
		// offer fixture ids start with 'o', wish fixture ids with 'w'
		if (kind == listings.KindOffer) == (l.ID[0] == 'o') && keep(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// --- exchanges ---

type fakeExchanges struct {
	mu sync.Mutex

	rows map[string]exchange.Exchange

	createErr error
	getErr    error
	activeErr error

	// updateErrs are returned by successive Update calls; nil entries succeed.
	updateErrs []error
	// beforeRead runs before every GetByID, to simulate a concurrent writer.
	beforeRead func(f *fakeExchanges)

	created []exchange.Exchange
	updates []exchange.Updates
	reads   int
}

func newFakeExchanges(rows ...exchange.Exchange) *fakeExchanges {
	f := &fakeExchanges{rows: map[string]exchange.Exchange{}}
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeExchanges) Create(_ context.Context, e exchange.Exchange) (exchange.Exchange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return exchange.Exchange{}, f.createErr
	}
	e.Version = 1
	f.rows[e.ID] = e
	f.created = append(f.created, e)
	return e, nil
}

func (f *fakeExchanges) GetByID(_ context.Context, id string) (exchange.Exchange, error) {
	f.mu.Lock()
	f.reads++
	hook := f.beforeRead
	f.mu.Unlock()
	if hook != nil {
		hook(f)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return exchange.Exchange{}, f.getErr
	}
	e, ok := f.rows[id]
	if !ok {
		return exchange.Exchange{}, common.ErrorNotFound
	}
	return e, nil
}

func (f *fakeExchanges) FindActiveBetween(_ context.Context, a, b string) (exchange.Exchange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activeErr != nil {
		return exchange.Exchange{}, f.activeErr
	}
	var latest *exchange.Exchange
	for _, e := range f.rows {
		pair := (e.InitiatorID == a && e.ResponderID == b) || (e.InitiatorID == b && e.ResponderID == a)
		if pair && e.Status.IsActive() && (latest == nil || e.CreatedAt.After(latest.CreatedAt)) {
			e := e
			latest = &e
		}
	}
	if latest == nil {
		return exchange.Exchange{}, common.ErrorNotFound
	}
	return *latest, nil
}

func (f *fakeExchanges) Update(_ context.Context, id string, version int64, u exchange.Updates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, u)
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	cur, ok := f.rows[id]
	if !ok || cur.Version != version {
		return common.ErrVersionConflict
	}
	next := u.ApplyTo(cur)
	next.Version++
	f.rows[id] = next
	return nil
}

func (f *fakeExchanges) CountCompleted(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return 0, f.getErr
	}
	n := 0
	for _, e := range f.rows {
		if e.Status == exchange.StatusCompleted && (e.InitiatorID == userID || e.ResponderID == userID) {
			n++
		}
	}
	return n, nil
}

// --- notifications ---

type fakeNotifications struct {
	created []*models.Notification
	err     error
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) (*models.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	n.ID = "n1"
	f.created = append(f.created, n)
	return n, nil
}

// --- feedback ---

type fakeFeedback struct {
	created   []*models.Feedback
	createErr error

	total, positive int
	totalsErr       error
}

func (f *fakeFeedback) Create(_ context.Context, fb *models.Feedback) (*models.Feedback, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	fb.ID = "f1"
	f.created = append(f.created, fb)
	return fb, nil
}

func (f *fakeFeedback) Totals(context.Context, string) (int, int, error) {
	return f.total, f.positive, f.totalsErr
}

// --- manager ---

type fakeRepoManager struct {
	users         *fakeUsers
	listings      *fakeListings
	exchanges     *fakeExchanges
	notifications *fakeNotifications
	feedback      *fakeFeedback
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:         &fakeUsers{users: map[string]*models.User{}},
		listings:      &fakeListings{},
		exchanges:     newFakeExchanges(),
		notifications: &fakeNotifications{},
		feedback:      &fakeFeedback{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) Listings(dbx.DBTX) listings.Repository           { return m.listings }
func (m *fakeRepoManager) Exchanges(dbx.DBTX) exchanges.Repository         { return m.exchanges }
func (m *fakeRepoManager) Notifications(dbx.DBTX) notifications.Repository { return m.notifications }
func (m *fakeRepoManager) Feedback(dbx.DBTX) feedback.Repository           { return m.feedback }

// --- publisher ---

type fakePublisher struct {
	envelopes []events.Envelope
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, env events.Envelope) error {
	p.envelopes = append(p.envelopes, env)
	return p.err
}
