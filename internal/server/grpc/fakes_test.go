package grpc

import (
	"context"
	"time"

	"github.com/handtohand/marketplace/internal/exchange"
	"github.com/handtohand/marketplace/internal/logging"
	"github.com/handtohand/marketplace/internal/server/models"
	"github.com/handtohand/marketplace/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

const (
	alice = "0b7c3c38-1111-4e2a-9c1d-000000000001"
	bob   = "0b7c3c38-1111-4e2a-9c1d-000000000002"
	exID  = "0b7c3c38-2222-4e2a-9c1d-000000000001"
)

var created = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type fakeMatches struct {
	gotUser string
	gotKind services.MatchKind
	res     *services.MatchResult
	err     error
}

func (f *fakeMatches) Find(ctx context.Context, userID string, kind services.MatchKind) (*services.MatchResult, error) {
	f.gotUser, f.gotKind = userID, kind
	return f.res, f.err
}

type fakeExchanges struct {
	calls []string
	args  []string
	out   exchange.Exchange
	err   error
}

func (f *fakeExchanges) Propose(ctx context.Context, initiatorID, responderID, initiatorOffer, responderOffer string) (exchange.Exchange, error) {
	f.calls = append(f.calls, "propose")
	f.args = []string{initiatorID, responderID, initiatorOffer, responderOffer}
	return f.out, f.err
}

func (f *fakeExchanges) Active(ctx context.Context, userID, partnerID string) (exchange.Exchange, error) {
	f.calls = append(f.calls, "active")
	f.args = []string{userID, partnerID}
	return f.out, f.err
}

func (f *fakeExchanges) Act(ctx context.Context, exchangeID, actorID string, action exchange.Action) (exchange.Exchange, error) {
	f.calls = append(f.calls, "act")
	f.args = []string{exchangeID, actorID, string(action)}
	return f.out, f.err
}

type fakeFeedback struct {
	gotAgain   bool
	gotComment string
	gotUser    string
	fb         *models.Feedback
	stats      *models.UserStats
	err        error
}

func (f *fakeFeedback) Submit(ctx context.Context, exchangeID, fromUserID string, wouldExchangeAgain bool, comment string) (*models.Feedback, error) {
	f.gotUser, f.gotAgain, f.gotComment = fromUserID, wouldExchangeAgain, comment
	return f.fb, f.err
}

func (f *fakeFeedback) Stats(ctx context.Context, userID string) (*models.UserStats, error) {
	f.gotUser = userID
	return f.stats, f.err
}

func newTestServer(secret string, m *fakeMatches, e *fakeExchanges, f *fakeFeedback) *GRPCServer {
	return &GRPCServer{
		address:   "127.0.0.1:0",
		matches:   m,
		exchanges: e,
		feedback:  f,
		logger:    nopLogger{},
		jwtSecret: []byte(secret),
	}
}
